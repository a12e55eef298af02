package htmltpl

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"os"
	pathpkg "path"
	"strings"
	"sync"

	"github.com/goliatone/go-widgettweaks/pkg/forms"
	rendertemplate "github.com/goliatone/go-widgettweaks/pkg/render/template"
)

// Option configures the engine before construction.
type Option func(*config)

type config struct {
	baseDir    string
	templates  fs.FS
	extension  string
	templateFn template.FuncMap
	globalData map[string]any
}

// WithBaseDir loads templates from a directory on disk.
func WithBaseDir(dir string) Option {
	return func(cfg *config) {
		cfg.baseDir = strings.TrimSpace(dir)
	}
}

// WithFS loads templates from an fs.FS. It takes precedence over WithBaseDir.
func WithFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templates = files
	}
}

// WithExtension overrides the default template extension.
func WithExtension(ext string) Option {
	return func(cfg *config) {
		trimmed := strings.TrimSpace(ext)
		if trimmed == "" {
			return
		}
		if !strings.HasPrefix(trimmed, ".") {
			trimmed = "." + trimmed
		}
		cfg.extension = trimmed
	}
}

// WithTemplateFunc adds functions to the FuncMap.
func WithTemplateFunc(funcs map[string]any) Option {
	return func(cfg *config) {
		if len(funcs) == 0 {
			return
		}
		if cfg.templateFn == nil {
			cfg.templateFn = make(template.FuncMap, len(funcs))
		}
		for name, fn := range funcs {
			cfg.templateFn[strings.TrimSpace(name)] = fn
		}
	}
}

// WithGlobalData seeds values merged into every map-shaped render context.
func WithGlobalData(data map[string]any) Option {
	return func(cfg *config) {
		if len(data) == 0 {
			return
		}
		if cfg.globalData == nil {
			cfg.globalData = make(map[string]any, len(data))
		}
		for key, value := range data {
			cfg.globalData[strings.TrimSpace(key)] = value
		}
	}
}

// Engine satisfies template.TemplateRenderer on top of html/template.
// html/template binds functions at parse time, so registering a filter
// drops every cached template.
type Engine struct {
	mu sync.RWMutex

	files     fs.FS
	tplExt    string
	funcs     template.FuncMap
	globals   map[string]any
	templates map[string]*template.Template
}

var _ rendertemplate.TemplateRenderer = (*Engine)(nil)

// New constructs an Engine.
func New(options ...Option) (*Engine, error) {
	cfg := &config{extension: ".html"}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(cfg)
	}

	files := cfg.templates
	if files == nil && cfg.baseDir != "" {
		info, err := os.Stat(cfg.baseDir)
		if err != nil {
			return nil, fmt.Errorf("htmltpl: stat base dir: %w", err)
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("htmltpl: base dir %q is not a directory", cfg.baseDir)
		}
		files = os.DirFS(cfg.baseDir)
	}

	funcs := FuncMap()
	for name, fn := range cfg.templateFn {
		if name == "" || fn == nil {
			continue
		}
		funcs[name] = fn
	}

	engine := &Engine{
		files:     files,
		tplExt:    cfg.extension,
		funcs:     funcs,
		globals:   make(map[string]any),
		templates: make(map[string]*template.Template),
	}
	if err := engine.GlobalContext(cfg.globalData); err != nil {
		return nil, fmt.Errorf("htmltpl: apply global data: %w", err)
	}
	return engine, nil
}

// Render renders inline content when name looks like a template, otherwise
// the named template.
func (e *Engine) Render(name string, data any, out ...io.Writer) (string, error) {
	if strings.Contains(name, "{{") {
		return e.RenderString(name, data, out...)
	}
	return e.RenderTemplate(name, data, out...)
}

// RenderTemplate renders a template from the configured files. The engine
// extension is appended when missing.
func (e *Engine) RenderTemplate(name string, data any, out ...io.Writer) (string, error) {
	if e == nil {
		return "", errors.New("htmltpl: engine is nil")
	}
	if e.files == nil {
		return "", fmt.Errorf("htmltpl: no template source configured for %q", name)
	}
	templatePath := name
	if !strings.HasSuffix(templatePath, e.tplExt) {
		templatePath += e.tplExt
	}

	tmpl, err := e.getTemplate(templatePath)
	if err != nil {
		return "", err
	}
	return e.execute(tmpl, data, fmt.Sprintf("template %q", templatePath), out)
}

// RenderString parses and renders inline template content.
func (e *Engine) RenderString(templateContent string, data any, out ...io.Writer) (string, error) {
	if e == nil {
		return "", errors.New("htmltpl: engine is nil")
	}

	e.mu.RLock()
	tmpl, err := template.New("inline").Funcs(e.funcs).Parse(templateContent)
	e.mu.RUnlock()
	if err != nil {
		return "", fmt.Errorf("htmltpl: parse template string: %w", err)
	}
	return e.execute(tmpl, data, "template string", out)
}

// RegisterFilter exposes fn as a pipeline function. In a pipeline the piped
// value arrives last, so {{ .x | name "p" }} calls fn(x, "p") and
// {{ .x | name }} calls fn(x, nil).
func (e *Engine) RegisterFilter(name string, fn func(input any, param any) (any, error)) error {
	name = strings.TrimSpace(name)
	if name == "" || fn == nil {
		return errors.New("htmltpl: filter name and function required")
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if _, exists := e.funcs[name]; exists {
		return fmt.Errorf("htmltpl: filter %q already exists", name)
	}
	e.funcs[name] = func(args ...any) (any, error) {
		switch len(args) {
		case 1:
			return fn(args[0], nil)
		case 2:
			return fn(args[1], args[0])
		default:
			return nil, fmt.Errorf("htmltpl: filter %q takes one or two arguments, got %d", name, len(args))
		}
	}
	e.templates = make(map[string]*template.Template)
	return nil
}

// GlobalContext merges data into the values available to every render with
// map-shaped data.
func (e *Engine) GlobalContext(data any) error {
	if e == nil {
		return errors.New("htmltpl: engine is nil")
	}
	if data == nil {
		return nil
	}
	values, err := toMap(data)
	if err != nil {
		return fmt.Errorf("htmltpl: global context: %w", err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	for key, value := range values {
		e.globals[key] = value
	}
	return nil
}

func (e *Engine) execute(tmpl *template.Template, data any, label string, out []io.Writer) (string, error) {
	view := e.viewData(data)

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, view); err != nil {
		return "", fmt.Errorf("htmltpl: execute %s: %w", label, err)
	}

	rendered := buf.String()
	for _, w := range out {
		if _, err := io.WriteString(w, rendered); err != nil {
			return "", err
		}
	}
	return rendered, nil
}

// viewData turns render data into the template dot. Forms become
// {"form": ...} so fields are addressed as .form.email; maps are merged over
// the globals; any other value is passed through untouched.
func (e *Engine) viewData(data any) any {
	var values map[string]any
	switch v := data.(type) {
	case nil:
		values = map[string]any{}
	case *forms.Form:
		values = map[string]any{"form": v.Context()}
	case map[string]any:
		values = make(map[string]any, len(v))
		for key, value := range v {
			if form, ok := value.(*forms.Form); ok && form != nil {
				value = form.Context()
			}
			values[key] = value
		}
	default:
		return data
	}

	e.mu.RLock()
	defer e.mu.RUnlock()
	view := make(map[string]any, len(e.globals)+len(values))
	for key, value := range e.globals {
		view[key] = value
	}
	for key, value := range values {
		view[key] = value
	}
	return view
}

func (e *Engine) getTemplate(path string) (*template.Template, error) {
	e.mu.RLock()
	if tmpl, ok := e.templates[path]; ok {
		e.mu.RUnlock()
		return tmpl, nil
	}
	e.mu.RUnlock()

	e.mu.Lock()
	defer e.mu.Unlock()

	if tmpl, ok := e.templates[path]; ok {
		return tmpl, nil
	}

	content, err := fs.ReadFile(e.files, path)
	if err != nil {
		return nil, fmt.Errorf("htmltpl: load template %q: %w", path, err)
	}
	tmpl, err := template.New(path).Funcs(e.funcs).Parse(string(content))
	if err != nil {
		return nil, fmt.Errorf("htmltpl: parse template %q: %w", path, err)
	}
	if err := e.parsePartials(tmpl, path); err != nil {
		return nil, err
	}

	e.templates[path] = tmpl
	return tmpl, nil
}

// parsePartials associates every other template with the engine extension in
// the same directory, so {{ template "part.html" . }} resolves by file name.
func (e *Engine) parsePartials(tmpl *template.Template, path string) error {
	dir := pathpkg.Dir(path)
	matches, err := fs.Glob(e.files, pathpkg.Join(dir, "*"+e.tplExt))
	if err != nil {
		return fmt.Errorf("htmltpl: list partials for %q: %w", path, err)
	}
	for _, match := range matches {
		if match == path {
			continue
		}
		content, err := fs.ReadFile(e.files, match)
		if err != nil {
			return fmt.Errorf("htmltpl: load partial %q: %w", match, err)
		}
		if _, err := tmpl.New(pathpkg.Base(match)).Parse(string(content)); err != nil {
			return fmt.Errorf("htmltpl: parse partial %q: %w", match, err)
		}
	}
	return nil
}

func toMap(data any) (map[string]any, error) {
	switch v := data.(type) {
	case map[string]any:
		return v, nil
	case *forms.Form:
		return map[string]any{"form": v.Context()}, nil
	}
	b, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	out := map[string]any{}
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return out, nil
}
