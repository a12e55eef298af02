package main

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/goliatone/go-widgettweaks/internal/prompt"
	"github.com/goliatone/go-widgettweaks/pkg/tweaks"
)

func run(t *testing.T, driver prompt.Driver, args ...string) (string, error) {
	t.Helper()

	var out, errOut bytes.Buffer
	cmd := newCommand(&app{
		in:     strings.NewReader(""),
		out:    &out,
		errOut: &errOut,
		logger: zap.NewNop(),
		driver: driver,
	})
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

var formPath = filepath.Join("testdata", "signup.yaml")

func TestRender_Pongo(t *testing.T) {
	out, err := run(t, nil,
		"render", "--form", formPath,
		"--template", filepath.Join("testdata", "signup.html"),
		"--bind", "email=ada@example.com",
		"--var", "hint=work",
	)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	want := `<input class="bad" name="name" placeholder="Your name" type="text">` + "\n" +
		`<input class="input wide" data-hint="work" name="email" type="email" value="ada@example.com">` + "\n"
	if out != want {
		t.Fatalf("render mismatch\nwant: %q\n got: %q", want, out)
	}
}

func TestRender_TemplatesBesideTheEntryPoint(t *testing.T) {
	want := `<div><input class="x" name="email" type="email"></div>` + "\n"
	for _, tc := range []struct {
		engine   string
		template string
	}{
		{engine: "pongo", template: "page.html"},
		{engine: "html", template: "page.gohtml"},
	} {
		t.Run(tc.engine, func(t *testing.T) {
			out, err := run(t, nil,
				"render", "--form", formPath,
				"--engine", tc.engine,
				"--template", filepath.Join("testdata", "partials", tc.template),
			)
			if err != nil {
				t.Fatalf("render: %v", err)
			}
			if out != want {
				t.Fatalf("render mismatch\nwant: %q\n got: %q", want, out)
			}
		})
	}
}

func TestRender_Errors(t *testing.T) {
	if _, err := run(t, nil, "render", "--form", formPath); err == nil {
		t.Fatalf("expected missing template error")
	}
	if _, err := run(t, nil, "render", "--template", filepath.Join("testdata", "signup.html")); err == nil {
		t.Fatalf("expected missing form source error")
	}
	if _, err := run(t, nil, "render", "--form", formPath, "--template", filepath.Join("testdata", "missing.html")); err == nil {
		t.Fatalf("expected missing template file error")
	}
	if _, err := run(t, nil, "render", "--form", formPath, "--template", "testdata"); err == nil {
		t.Fatalf("expected error for a template without extension")
	}
	_, err := run(t, nil, "render", "--form", formPath, "--template", filepath.Join("testdata", "signup.html"), "--engine", "jinja")
	if err == nil {
		t.Fatalf("expected unknown engine error")
	}
}

func TestTag(t *testing.T) {
	out, err := run(t, nil,
		"tag", "--form", formPath,
		`render_field email class+="wide" class="base" placeholder=hint`,
		"--var", "hint=you@example.com",
	)
	if err != nil {
		t.Fatalf("tag: %v", err)
	}
	want := `<input class="base wide" name="email" placeholder="you@example.com" type="email">` + "\n"
	if out != want {
		t.Fatalf("tag mismatch\nwant: %q\n got: %q", want, out)
	}

	out, err = run(t, nil, "tag", "--form", formPath, `render_field form.plan class="x"`)
	if err != nil {
		t.Fatalf("tag: %v", err)
	}
	if !strings.HasPrefix(out, `<select class="x" name="plan">`) {
		t.Fatalf("unexpected select output %q", out)
	}
}

func TestTag_SyntaxError(t *testing.T) {
	_, err := run(t, nil, "tag", "--form", formPath, `render_field email class`)
	if !errors.Is(err, tweaks.ErrSyntax) {
		t.Fatalf("expected syntax error, got %v", err)
	}
}

type answers struct {
	inputs  map[string]string
	selects map[string]int
}

func (a answers) Input(_ context.Context, cfg prompt.InputConfig) (string, error) {
	return a.inputs[cfg.Message], nil
}
func (a answers) Password(_ context.Context, cfg prompt.InputConfig) (string, error) {
	return a.inputs[cfg.Message], nil
}
func (a answers) Confirm(context.Context, prompt.ConfirmConfig) (bool, error) { return false, nil }
func (a answers) Select(_ context.Context, cfg prompt.SelectConfig) (int, error) {
	return a.selects[cfg.Message], nil
}
func (a answers) TextArea(_ context.Context, cfg prompt.InputConfig) (string, error) {
	return a.inputs[cfg.Message], nil
}

func TestFill(t *testing.T) {
	driver := answers{
		inputs:  map[string]string{"Name": "Ada", "Email": "ada@example.com"},
		selects: map[string]int{"Plan": 1},
	}
	out, err := run(t, driver, "fill", "--form", formPath)
	if err != nil {
		t.Fatalf("fill: %v", err)
	}
	want := "data:\n    email: ada@example.com\n    name: Ada\n    plan: pro\n"
	if out != want {
		t.Fatalf("fill mismatch\nwant: %q\n got: %q", want, out)
	}

	out, err = run(t, answers{inputs: map[string]string{"Email": "nope"}}, "fill", "--form", formPath)
	if !errors.Is(err, errInvalid) {
		t.Fatalf("expected invalid form error, got %v", err)
	}
	if !strings.Contains(out, "This field is required.") || !strings.Contains(out, "Enter a valid email address.") {
		t.Fatalf("errors not printed: %q", out)
	}
}
