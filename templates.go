package widgettweaks

import (
	"embed"
	"io/fs"
)

//go:embed templates/*.html
var embeddedTemplates embed.FS

// PreviewTemplates exposes the pongo2 templates the preview server renders
// by default: page.html for the whole form and field.html for one field
// (also the htmx fragment). Copy them as a starting point for overrides.
func PreviewTemplates() fs.FS {
	sub, err := fs.Sub(embeddedTemplates, "templates")
	if err != nil {
		return embeddedTemplates
	}
	return sub
}
