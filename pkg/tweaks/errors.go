package tweaks

import (
	"errors"
	"fmt"
)

// ErrSyntax is wrapped by every *SyntaxError.
var ErrSyntax = errors.New("template syntax error")

// SyntaxError reports a malformed render_field invocation.
type SyntaxError struct {
	Tag   string
	Token string
}

func (e *SyntaxError) Error() string {
	tag := e.Tag
	if tag == "" {
		tag = TagName
	}
	msg := fmt.Sprintf(
		"%q tag requires a form field followed by a list of attributes and values in the form attr=\"value\"",
		tag,
	)
	if e.Token != "" {
		msg += ": " + e.Token
	}
	return msg
}

func (e *SyntaxError) Unwrap() error { return ErrSyntax }
