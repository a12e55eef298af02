package tweaks

import (
	"strings"

	"github.com/goliatone/go-widgettweaks/pkg/forms"
)

// Op is the operation a Directive performs on an attribute.
type Op int

const (
	// OpSet overwrites the attribute.
	OpSet Op = iota
	// OpAppend adds the value to the attribute, space separated.
	OpAppend
)

// String returns the operator as written in render_field source.
func (o Op) String() string {
	if o == OpAppend {
		return "+="
	}
	return "="
}

// Directive is one attribute instruction.
type Directive struct {
	Name  string
	Op    Op
	Value string
}

// Set builds an OpSet directive.
func Set(name, value string) Directive {
	return Directive{Name: name, Op: OpSet, Value: value}
}

// Append builds an OpAppend directive.
func Append(name, value string) Directive {
	return Directive{Name: name, Op: OpAppend, Value: value}
}

// ParseAttr splits "name:value" on the first colon. Without a colon the value
// is empty.
func ParseAttr(attr string) (name, value string) {
	name, value, _ = strings.Cut(attr, ":")
	return name, value
}

// stage applies the directive to the attributes staged for one render.
// widget supplies the static attributes APPEND extends when nothing is staged
// yet.
func (d Directive) stage(widget forms.Widget, staged forms.Attrs) {
	switch d.Op {
	case OpAppend:
		if current := staged[d.Name]; current != "" {
			staged[d.Name] = current + " " + d.Value
			return
		}
		if widget != nil {
			if static := widget.Attrs().Get(d.Name); static != "" {
				staged[d.Name] = static + " " + d.Value
				return
			}
		}
		staged[d.Name] = d.Value
	default:
		staged[d.Name] = d.Value
	}
}
