// Package tweaks lets templates change the HTML attributes of form widgets at
// render time without touching the form definition.
//
// Every helper takes a bound field and returns a *Field decorator that
// implements forms.BoundWidget. Decorators are immutable: applying another
// helper returns a new decorator with one more Directive, and rendering stages
// the directives into a fresh attribute map before forwarding to the wrapped
// field's AsWidget. Directives run in the order they were applied:
//
//	tweaks.AddClass(tweaks.AddClass(field, "a"), "b") // class="a b"
//
// Inputs that are not bound fields pass through untouched, and empty inputs
// (nil, "") become "", so templates can pipe optional values without guards.
//
// The render_field mini-language is parsed by ParseTag and ParsePair:
//
//	render_field form.email class="input" class+=extra placeholder="Email"
//
// SET directives (attr=value) always run before APPEND directives
// (attr+=value), whatever their order in the source.
package tweaks
