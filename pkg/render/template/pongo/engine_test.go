package pongo_test

import (
	"embed"
	"errors"
	"io"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/flosch/pongo2/v6"

	"github.com/goliatone/go-widgettweaks/pkg/forms"
	"github.com/goliatone/go-widgettweaks/pkg/render/template/pongo"
	"github.com/goliatone/go-widgettweaks/pkg/testsupport"
)

//go:embed testdata/templates/*.html
var embeddedTemplates embed.FS

func newEngine(t *testing.T) *pongo.Engine {
	t.Helper()

	templatesFS, err := fs.Sub(embeddedTemplates, "testdata/templates")
	if err != nil {
		t.Fatalf("sub fs: %v", err)
	}

	engine, err := pongo.New(pongo.WithFS(templatesFS))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return engine
}

func newForm(t *testing.T, options ...forms.Option) *forms.Form {
	t.Helper()

	form := forms.New(options...)
	form.MustAdd("simple", &forms.CharField{}).
		MustAdd("styled", &forms.CharField{Options: forms.Options{
			Widget: &forms.TextInput{Attributes: forms.Attrs{"class": "base"}},
		}}).
		MustAdd("email", &forms.EmailField{Options: forms.Options{Required: true}})
	return form
}

func render(t *testing.T, engine *pongo.Engine, src string, data any) string {
	t.Helper()

	out, err := engine.RenderString(src, data)
	if err != nil {
		t.Fatalf("render %q: %v", src, err)
	}
	return out
}

func TestFilters(t *testing.T) {
	engine := newEngine(t)
	form := newForm(t, forms.WithAutoID(""))
	_ = form.Bind(url.Values{})

	cases := []struct {
		name string
		src  string
		want string
	}{
		{
			name: "add_class on bare field",
			src:  `{{ form.simple|add_class:"input" }}`,
			want: `<input class="input" name="simple" type="text">`,
		},
		{
			name: "add_class twice",
			src:  `{{ form.simple|add_class:"a"|add_class:"b" }}`,
			want: `<input class="a b" name="simple" type="text">`,
		},
		{
			name: "append onto static class",
			src:  `{{ form.styled|append_attr:"class:wide" }}`,
			want: `<input class="base wide" name="styled" type="text">`,
		},
		{
			name: "attr splits on first colon",
			src:  `{{ form.simple|attr:"data-time:10:45" }}`,
			want: `<input data-time="10:45" name="simple" type="text">`,
		},
		{
			name: "set_data",
			src:  `{{ form.simple|set_data:"role:search" }}`,
			want: `<input data-role="search" name="simple" type="text">`,
		},
		{
			name: "add_error_class on invalid field",
			src:  `{{ form.email|add_error_class:"is-invalid" }}`,
			want: `<input class="is-invalid" name="email" type="email">`,
		},
		{
			name: "add_error_class on valid field",
			src:  `{{ form.simple|add_error_class:"is-invalid"|add_class:"x" }}`,
			want: `<input class="x" name="simple" type="text">`,
		},
		{
			name: "field and widget type",
			src:  `{{ form.email|field_type }} {{ form.email|widget_type }}`,
			want: `emailfield emailinput`,
		},
		{
			name: "types of non field",
			src:  `[{{ title|field_type }}][{{ title|widget_type }}]`,
			want: `[][]`,
		},
		{
			name: "missing field renders empty",
			src:  `[{{ form.nope|add_class:"x" }}]`,
			want: `[]`,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := render(t, engine, tc.src, map[string]any{"form": form, "title": "Signup"})
			if got != tc.want {
				t.Fatalf("render mismatch\nwant: %s\n got: %s", tc.want, got)
			}
		})
	}
}

func TestRenderField_SetBeforeAppend(t *testing.T) {
	engine := newEngine(t)
	form := newForm(t, forms.WithAutoID(""))

	got := render(t, engine, `{% render_field form.simple class+="b" class="a" %}`, form)
	want := `<input class="a b" name="simple" type="text">`
	if got != want {
		t.Fatalf("render mismatch\nwant: %s\n got: %s", want, got)
	}
}

func TestRenderField_ExpressionsAndDashedNames(t *testing.T) {
	engine := newEngine(t)
	form := newForm(t, forms.WithAutoID(""))

	got := render(t, engine,
		`{% render_field form.simple data-user-id=user.id aria-label=label|upper class+=extra %}`,
		map[string]any{
			"form":  form,
			"user":  map[string]any{"id": 7},
			"label": "name",
			"extra": "wide",
		},
	)
	want := `<input aria-label="NAME" class="wide" data-user-id="7" name="simple" type="text">`
	if got != want {
		t.Fatalf("render mismatch\nwant: %s\n got: %s", want, got)
	}
}

func TestRenderField_SyntaxErrors(t *testing.T) {
	engine := newEngine(t)

	for _, src := range []string{
		`{% render_field %}`,
		`{% render_field form.simple class %}`,
		`{% render_field form.simple class "a" %}`,
		`{% render_field form.simple "a"="b" %}`,
	} {
		t.Run(src, func(t *testing.T) {
			err := engine.Compile(src)
			if err == nil {
				t.Fatalf("expected syntax error for %s", src)
			}
			if !strings.Contains(err.Error(), "tag requires a form field") {
				t.Fatalf("unexpected error for %s: %v", src, err)
			}
		})
	}
}

func TestRenderTemplate_Golden(t *testing.T) {
	engine := newEngine(t)
	form := newForm(t)

	result, written := testsupport.CaptureTemplateOutput(t, func(w io.Writer) (string, error) {
		return engine.RenderTemplate("field", map[string]any{
			"form":        form,
			"placeholder": "you@example.com",
		}, w)
	})

	golden := filepath.Join("testdata", "field.golden")
	if testsupport.WriteMaybeGolden(t, golden, []byte(result)) {
		return
	}
	want := testsupport.MustReadGoldenString(t, golden)
	if diff := testsupport.CompareGolden(want, result); diff != "" {
		t.Fatalf("render template mismatch (-want +got):\n%s", diff)
	}
	if written != want {
		t.Fatalf("render template mismatch writer\nwant: %q\n got: %q", want, written)
	}
}

func TestGlobalContext(t *testing.T) {
	engine := newEngine(t)
	if err := engine.GlobalContext(map[string]any{"errorClass": "is-invalid"}); err != nil {
		t.Fatalf("global context: %v", err)
	}
	form := newForm(t, forms.WithAutoID(""))
	_ = form.Bind(url.Values{})

	got := render(t, engine, `{{ form.email|add_error_class:errorClass }}`, form)
	want := `<input class="is-invalid" name="email" type="email">`
	if got != want {
		t.Fatalf("render mismatch\nwant: %s\n got: %s", want, got)
	}
}

func TestRegisterFilter(t *testing.T) {
	engine := newEngine(t)

	err := engine.RegisterFilter("widgettweaks_test_shout", func(input any, _ any) (any, error) {
		return strings.ToUpper(input.(string)) + "!", nil
	})
	if err != nil {
		t.Fatalf("register filter: %v", err)
	}
	if got := render(t, engine, `{{ name|widgettweaks_test_shout }}`, map[string]any{"name": "ada"}); got != "ADA!" {
		t.Fatalf("unexpected output %q", got)
	}

	if err := engine.RegisterFilter("add_class", func(any, any) (any, error) { return nil, nil }); err == nil {
		t.Fatalf("expected duplicate filter error")
	}
	if err := engine.RegisterFilter("", nil); err == nil || errors.Unwrap(err) != nil {
		t.Fatalf("expected plain validation error, got %v", err)
	}
}

func TestRegisterIsIdempotent(t *testing.T) {
	if err := pongo.Register(); err != nil {
		t.Fatalf("first register: %v", err)
	}
	if err := pongo.Register(); err != nil {
		t.Fatalf("second register: %v", err)
	}
}

func TestTemplateFuncsAndExtension(t *testing.T) {
	files := fstest.MapFS{
		"card.tpl":  {Data: []byte(`{{ name|widgettweaks_test_exclaim }} {{ greet(name) }} [{{ ignored }}] {% include "part.tpl" %}`)},
		"part.tpl":  {Data: []byte(`{% render_field form.simple class="x" %}`)},
		"card.html": {Data: []byte(`wrong extension`)},
	}
	engine, err := pongo.New(
		pongo.WithFS(files),
		pongo.WithExtension("tpl"),
		pongo.WithTemplateFunc(map[string]any{
			"widgettweaks_test_exclaim": pongo2.FilterFunction(func(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
				return pongo2.AsValue(in.String() + "!"), nil
			}),
			"greet":   func(name string) string { return "hi " + name },
			"ignored": 42,
		}),
	)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	form := newForm(t, forms.WithAutoID(""))
	data := map[string]any{"name": "ada", "form": form}

	want := `ada! hi ada [] <input class="x" name="simple" type="text">`
	for _, name := range []string{"card", "card.tpl"} {
		got, err := engine.Render(name, data)
		if err != nil {
			t.Fatalf("render %s: %v", name, err)
		}
		if got != want {
			t.Fatalf("render %s mismatch\nwant: %s\n got: %s", name, want, got)
		}
	}

	inline, err := engine.Render(`{{ greet("bo") }}`, nil)
	if err != nil {
		t.Fatalf("render inline: %v", err)
	}
	if inline != "hi bo" {
		t.Fatalf("unexpected inline output %q", inline)
	}
}

func TestWithBaseDir_Includes(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "page.html"), `<p>{% include "part.html" %}</p>`)
	writeFile(t, filepath.Join(dir, "part.html"), `{% render_field form.email class="x" %}`)

	engine, err := pongo.New(pongo.WithBaseDir(dir))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	got, err := engine.RenderTemplate("page", newForm(t, forms.WithAutoID("")))
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	want := `<p><input class="x" name="email" type="email"></p>`
	if got != want {
		t.Fatalf("render mismatch\nwant: %s\n got: %s", want, got)
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
