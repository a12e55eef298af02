// Package forms is the small form layer the template helpers operate on.
// Fields describe how raw submitted values are cleaned, widgets describe how a
// value becomes HTML, and a Form binds submitted data to both, producing
// BoundField values that templates render. Widgets receive an attribute map on
// every render call; nothing in the render path mutates a widget's static
// attributes, so callers can layer per-render attribute changes on top of a
// shared form definition.
package forms
