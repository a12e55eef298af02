// Package htmltpl renders templates with html/template. FuncMap exposes the
// widget helpers in pipeline order:
//
//	{{ .form.email | add_class "input" | attr "placeholder:you@example.com" | widget }}
//	{{ render_field .form.email `class="input"` `class+="wide"` }}
package htmltpl
