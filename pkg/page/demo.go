package page

import (
	_ "embed"
)

// DemoHTML is the bundled demo: a preview button, input and textarea, a
// row of configuration buttons and the script that turns user input into
// floating:show, floating:hide, floating:update and form:config events.
//
//go:embed demo.html
var DemoHTML string

// Demo element ids.
const (
	EventAnchorID     = "event-anchor"
	PreviewButtonID   = "preview-button"
	PreviewInputID    = "preview-input"
	PreviewTextareaID = "preview-textarea"
)

// LoadDemo parses the bundled demo page.
func LoadDemo(opts ...Option) (*Page, error) {
	return Load(DemoHTML, opts...)
}
