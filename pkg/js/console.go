package js

import (
	"strings"

	"github.com/dop251/goja"
	"go.uber.org/zap"
)

// consoleAPI routes console.log, console.warn and console.error to the
// logger.
type consoleAPI struct {
	log *zap.Logger
}

func (c *consoleAPI) register(vm *goja.Runtime) {
	console := vm.NewObject()
	console.Set("log", c.logFn(c.log.Info))
	console.Set("info", c.logFn(c.log.Info))
	console.Set("debug", c.logFn(c.log.Debug))
	console.Set("warn", c.logFn(c.log.Warn))
	console.Set("error", c.logFn(c.log.Error))
	vm.Set("console", console)
}

func (c *consoleAPI) logFn(write func(string, ...zap.Field)) func(goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		write(formatArgs(call.Arguments))
		return goja.Undefined()
	}
}

func formatArgs(args []goja.Value) string {
	parts := make([]string, len(args))
	for i, arg := range args {
		parts[i] = arg.String()
	}
	return strings.Join(parts, " ")
}
