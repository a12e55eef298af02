package tweaks

import (
	"bytes"
	"context"
	"html/template"
	"net/url"
	"testing"

	"github.com/a-h/templ"
	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-widgettweaks/pkg/forms"
)

func newForm(t *testing.T) *forms.Form {
	t.Helper()

	form := forms.New(forms.WithAutoID(""))
	form.MustAdd("simple", &forms.CharField{}).
		MustAdd("styled", &forms.CharField{Options: forms.Options{
			Widget: &forms.TextInput{Attributes: forms.Attrs{"class": "base"}},
		}}).
		MustAdd("email", &forms.EmailField{Options: forms.Options{Required: true}})
	return form
}

func mustHTML(t *testing.T, value any) string {
	t.Helper()

	out, err := Render(value)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	return string(out)
}

func TestAddClass_NoPriorClass(t *testing.T) {
	form := newForm(t)

	got := mustHTML(t, AddClass(form.BoundField("simple"), "input"))
	want := `<input class="input" name="simple" type="text">`
	if got != want {
		t.Fatalf("render mismatch\nwant: %s\n got: %s", want, got)
	}
}

func TestAddClass_TwiceAppendsInOrder(t *testing.T) {
	form := newForm(t)

	field := AddClass(AddClass(form.BoundField("simple"), "a"), "a")
	field = AddClass(field, "b")
	got := mustHTML(t, field)
	want := `<input class="a a b" name="simple" type="text">`
	if got != want {
		t.Fatalf("render mismatch\nwant: %s\n got: %s", want, got)
	}
}

func TestAppendAttr_ExtendsStaticWidgetAttrs(t *testing.T) {
	form := newForm(t)
	bf := form.BoundField("styled")

	got := mustHTML(t, AddClass(bf, "extra"))
	want := `<input class="base extra" name="styled" type="text">`
	if got != want {
		t.Fatalf("render mismatch\nwant: %s\n got: %s", want, got)
	}
	if static := bf.Widget().Attrs().Get("class"); static != "base" {
		t.Fatalf("widget static attrs mutated: %q", static)
	}
	if plain := mustHTML(t, bf); plain != `<input class="base" name="styled" type="text">` {
		t.Fatalf("undecorated render picked up directives: %s", plain)
	}
}

func TestAttr_OverwritesAndSplitsOnFirstColon(t *testing.T) {
	form := newForm(t)

	field := Attr(AddClass(form.BoundField("styled"), "extra"), "class:reset")
	field = Attr(field, "data-time:12:30")
	got := mustHTML(t, field)
	want := `<input class="reset" data-time="12:30" name="styled" type="text">`
	if got != want {
		t.Fatalf("render mismatch\nwant: %s\n got: %s", want, got)
	}
}

func TestAttr_WithoutColonSetsEmptyValue(t *testing.T) {
	form := newForm(t)

	got := mustHTML(t, Attr(form.BoundField("simple"), "autofocus"))
	want := `<input autofocus="" name="simple" type="text">`
	if got != want {
		t.Fatalf("render mismatch\nwant: %s\n got: %s", want, got)
	}
}

func TestSetData(t *testing.T) {
	form := newForm(t)

	got := mustHTML(t, SetData(form.BoundField("simple"), "role:search"))
	want := `<input data-role="search" name="simple" type="text">`
	if got != want {
		t.Fatalf("render mismatch\nwant: %s\n got: %s", want, got)
	}
}

func TestAddErrorClass(t *testing.T) {
	form := newForm(t)
	clean := form.BoundField("email")

	if got := AddErrorClass(clean, "is-invalid"); got != any(clean) {
		t.Fatalf("expected pass-through without errors, got %T", got)
	}

	_ = form.Bind(url.Values{})
	got := mustHTML(t, AddErrorClass(form.BoundField("email"), "is-invalid"))
	want := `<input class="is-invalid" name="email" type="email">`
	if got != want {
		t.Fatalf("render mismatch\nwant: %s\n got: %s", want, got)
	}
	if got := mustHTML(t, AddErrorClass(form.BoundField("simple"), "is-invalid")); got != `<input name="simple" type="text">` {
		t.Fatalf("valid field should not get error class: %s", got)
	}
}

func TestFilters_SilentOnEmptyInput(t *testing.T) {
	var nilField *forms.BoundField
	inputs := []any{nil, "", nilField}

	for _, input := range inputs {
		if got := AddClass(input, "x"); got != "" {
			t.Fatalf("AddClass(%#v) = %#v, want \"\"", input, got)
		}
		if got := Attr(input, "a:b"); got != "" {
			t.Fatalf("Attr(%#v) = %#v, want \"\"", input, got)
		}
		if got := AddErrorClass(input, "x"); got != "" {
			t.Fatalf("AddErrorClass(%#v) = %#v, want \"\"", input, got)
		}
	}
	if got := SetData(42, "a:b"); got != 42 {
		t.Fatalf("non-field input should pass through, got %#v", got)
	}
}

func TestFieldAndWidgetType(t *testing.T) {
	form := newForm(t)

	cases := []struct {
		name   string
		input  any
		field  string
		widget string
	}{
		{name: "char field", input: form.BoundField("simple"), field: "charfield", widget: "textinput"},
		{name: "decorated email", input: AddClass(form.BoundField("email"), "x"), field: "emailfield", widget: "emailinput"},
		{name: "string", input: "hello", field: "", widget: ""},
		{name: "nil", input: nil, field: "", widget: ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := FieldType(tc.input); got != tc.field {
				t.Fatalf("FieldType = %q, want %q", got, tc.field)
			}
			if got := WidgetType(tc.input); got != tc.widget {
				t.Fatalf("WidgetType = %q, want %q", got, tc.widget)
			}
		})
	}
}

func TestApply_SetBeforeAppend(t *testing.T) {
	form := newForm(t)

	field := Apply(form.BoundField("simple"), Append("class", "b"), Set("class", "a"), Append("class", "c"))
	wrapped, ok := field.(*Field)
	if !ok {
		t.Fatalf("expected *Field, got %T", field)
	}
	want := []Directive{Set("class", "a"), Append("class", "b"), Append("class", "c")}
	if diff := cmp.Diff(want, wrapped.Directives()); diff != "" {
		t.Fatalf("directive order mismatch (-want +got):\n%s", diff)
	}
	if got := mustHTML(t, field); got != `<input class="a b c" name="simple" type="text">` {
		t.Fatalf("unexpected render %s", got)
	}
}

func TestWrap_DoesNotShareDirectives(t *testing.T) {
	form := newForm(t)

	base := AddClass(form.BoundField("simple"), "a").(*Field)
	left := AddClass(base, "left")
	right := AddClass(base, "right")

	if got := mustHTML(t, left); got != `<input class="a left" name="simple" type="text">` {
		t.Fatalf("left branch render %s", got)
	}
	if got := mustHTML(t, right); got != `<input class="a right" name="simple" type="text">` {
		t.Fatalf("right branch render %s", got)
	}
	if len(base.Directives()) != 1 {
		t.Fatalf("base decorator mutated: %+v", base.Directives())
	}
}

func TestAsWidget_CallerAttrsAreStagedFirst(t *testing.T) {
	form := newForm(t)
	attrs := forms.Attrs{"class": "caller"}

	out, err := AddClass(form.BoundField("styled"), "extra").(*Field).AsWidget(nil, attrs, false)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if string(out) != `<input class="caller extra" name="styled" type="text">` {
		t.Fatalf("unexpected render %s", out)
	}
	if attrs["class"] != "caller" {
		t.Fatalf("caller attrs mutated: %v", attrs)
	}
}

func TestAsWidget_AlternateWidget(t *testing.T) {
	form := newForm(t)
	alt := &forms.Textarea{Attributes: forms.Attrs{"class": "wide"}}

	out, err := AddClass(form.BoundField("styled"), "extra").(*Field).AsWidget(alt, nil, false)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	want := template.HTML(`<textarea class="wide extra" name="styled"></textarea>`)
	if out != want {
		t.Fatalf("render mismatch\nwant: %s\n got: %s", want, out)
	}
}

func TestSpread_TemplAttributes(t *testing.T) {
	form := newForm(t)

	field := Spread(form.BoundField("simple"), templ.Attributes{
		"required":  true,
		"disabled":  false,
		"maxlength": 20,
		"hx-post":   "/validate",
	})

	var buf bytes.Buffer
	if err := field.(templ.Component).Render(context.Background(), &buf); err != nil {
		t.Fatalf("render: %v", err)
	}
	want := `<input hx-post="/validate" maxlength="20" name="simple" required="" type="text">`
	if buf.String() != want {
		t.Fatalf("render mismatch\nwant: %s\n got: %s", want, buf.String())
	}
}
