package html

import "testing"

func TestTokenizer_SimpleStartTag(t *testing.T) {
	tokenizer := NewTokenizer("<div>")
	token, err := tokenizer.NextToken()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if token.Type != TokenStartTag {
		t.Errorf("expected TokenStartTag, got %v", token.Type)
	}
	if token.TagName != "div" {
		t.Errorf("expected tag name 'div', got '%s'", token.TagName)
	}
}

func TestTokenizer_TagWithAttributes(t *testing.T) {
	tokenizer := NewTokenizer(`<input id="name" value='a &amp; b' disabled>`)
	token, err := tokenizer.NextToken()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if token.Attributes["id"] != "name" {
		t.Errorf("expected id='name', got '%s'", token.Attributes["id"])
	}
	if token.Attributes["value"] != "a & b" {
		t.Errorf("expected unescaped value, got '%s'", token.Attributes["value"])
	}
	if _, ok := token.Attributes["disabled"]; !ok {
		t.Error("expected boolean attribute 'disabled'")
	}
}

func TestTokenizer_RawTextKeepsMarkup(t *testing.T) {
	tokenizer := NewTokenizer("<script>if (a < b) { x = '<p>'; }</script><p>")
	if _, err := tokenizer.NextToken(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	raw, err := tokenizer.NextToken()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if raw.Type != TokenText || raw.Text != "if (a < b) { x = '<p>'; }" {
		t.Errorf("unexpected raw token %+v", raw)
	}
	next, _ := tokenizer.NextToken()
	if next.Type != TokenStartTag || next.TagName != "p" {
		t.Errorf("expected <p> after script, got %+v", next)
	}
}

func TestTokenizer_CollapsesWhitespace(t *testing.T) {
	tokenizer := NewTokenizer("  hello \n\t world  ")
	token, _ := tokenizer.NextToken()
	if token.Text != " hello world " {
		t.Errorf("expected ' hello world ', got %q", token.Text)
	}
}

func TestTokenizer_SkipsCommentsAndDoctype(t *testing.T) {
	tokenizer := NewTokenizer("<!DOCTYPE html><!-- note --><b>")
	token, err := tokenizer.NextToken()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if token.TagName != "b" {
		t.Errorf("expected <b>, got %+v", token)
	}
}
