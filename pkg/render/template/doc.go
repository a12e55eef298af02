// Package template defines the engine-agnostic renderer contract. The pongo
// subpackage implements it with pongo2 (Django syntax, where the widget
// filters and the render_field tag are registered) and the htmltpl
// subpackage with html/template (where the same helpers ship as a FuncMap).
package template
