package forms

import (
	"html"
	"html/template"
	"sort"
	"strings"
)

// Attrs maps HTML attribute names to their string values.
type Attrs map[string]string

// Clone returns a copy that can be mutated without affecting the receiver. A
// nil receiver yields an empty, non-nil map.
func (a Attrs) Clone() Attrs {
	out := make(Attrs, len(a))
	for key, value := range a {
		out[key] = value
	}
	return out
}

// Get returns the value stored for name, or "" when absent.
func (a Attrs) Get(name string) string {
	if a == nil {
		return ""
	}
	return a[name]
}

// Merge returns a new map holding the receiver overlaid with extra. Values in
// extra win.
func (a Attrs) Merge(extra Attrs) Attrs {
	out := a.Clone()
	for key, value := range extra {
		out[key] = value
	}
	return out
}

// HTML renders the attributes in name order, each preceded by a space, with
// values escaped. Empty attribute names are skipped.
func (a Attrs) HTML() template.HTMLAttr {
	if len(a) == 0 {
		return ""
	}
	names := make([]string, 0, len(a))
	for name := range a {
		if strings.TrimSpace(name) == "" {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)

	var builder strings.Builder
	for _, name := range names {
		builder.WriteByte(' ')
		builder.WriteString(html.EscapeString(name))
		builder.WriteString(`="`)
		builder.WriteString(html.EscapeString(a[name]))
		builder.WriteByte('"')
	}
	return template.HTMLAttr(builder.String())
}
