package server_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-widgettweaks/internal/server"
	"github.com/goliatone/go-widgettweaks/pkg/forms"
)

func newSignupForm() (*forms.Form, error) {
	form := forms.New()
	if err := form.Add("name", &forms.CharField{Options: forms.Options{Required: true}}); err != nil {
		return nil, err
	}
	if err := form.Add("email", &forms.EmailField{Options: forms.Options{
		Required: true,
		HelpText: "We <em>never</em> share it.",
	}}); err != nil {
		return nil, err
	}
	return form, nil
}

func newServer(t *testing.T) (*server.Server, *prometheus.Registry) {
	t.Helper()

	reg := prometheus.NewRegistry()
	srv, err := server.New(newSignupForm, server.WithMetricsRegistry(reg), server.WithTitle("Signup"))
	require.NoError(t, err)
	return srv, reg
}

func postForm(values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestGetRendersForm(t *testing.T) {
	srv, _ := newServer(t)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "<title>Signup</title>")
	assert.Contains(t, body, `<div id="field-name" class="field">`)
	assert.Contains(t, body, `<input class="input" hx-post="/" hx-swap="outerHTML" hx-target="closest .field" hx-trigger="change" id="id_email" name="email" type="email">`)
	assert.Contains(t, body, "<small>We <em>never</em> share it.</small>")
	assert.NotContains(t, body, "is-invalid")
}

func TestPostInvalidMarksErrors(t *testing.T) {
	srv, _ := newServer(t)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, postForm(url.Values{"name": {"Ada"}, "email": {"nope"}}))

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `<input class="is-invalid input" hx-post="/"`)
	assert.Contains(t, body, `<p class="error">Enter a valid email address.</p>`)
	assert.Contains(t, body, `name="name" type="text" value="Ada"`)
	assert.NotContains(t, body, "Submitted.")
}

func TestPostValid(t *testing.T) {
	srv, _ := newServer(t)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, postForm(url.Values{"name": {"Ada"}, "email": {"ada@example.com"}}))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `<p class="success">Submitted.</p>`)
}

func TestHTMXFieldFragment(t *testing.T) {
	srv, _ := newServer(t)

	req := postForm(url.Values{"name": {""}, "email": {"ada@example.com"}})
	req.Header.Set("HX-Request", "true")
	req.Header.Set("HX-Target", "field-name")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.HasPrefix(body, `<div id="field-name" class="field">`), body)
	assert.Contains(t, body, `class="is-invalid input"`)
	assert.Contains(t, body, "This field is required.")
	assert.NotContains(t, body, "<html")
	assert.NotContains(t, body, `name="email"`)
}

func TestHTMXUnknownField(t *testing.T) {
	srv, _ := newServer(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("HX-Request", "true")
	req.Header.Set("HX-Target", "field-missing")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHealthAndMetrics(t *testing.T) {
	srv, _ := newServer(t)
	handler := srv.Handler()

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `widgettweaks_renders_total{outcome="ok",view="page"} 1`)
}

func TestNewRequiresFormFunc(t *testing.T) {
	_, err := server.New(nil)
	assert.Error(t, err)
}
