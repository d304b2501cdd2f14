package text

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"
	"text/template"
)

type localeContext struct{ locale string }

func (c localeContext) Locale() string { return c.locale }

func TestTemplateHelpersTranslateInferredLocale(t *testing.T) {
	catalog := newFixtureCatalog(t)

	helpers := TemplateHelpers(catalog, HelperConfig{LocaleKey: "current_locale"})

	translate, ok := helpers["translate"].(func(any, string, ...any) string)
	if !ok {
		t.Fatalf("translate helper signature mismatch: %T", helpers["translate"])
	}

	ctx := map[string]any{"current_locale": "es"}

	if got := translate(ctx, "app.title"); got != "Ejemplo" {
		t.Fatalf("translate inferred locale = %q", got)
	}

	if got := translate("en", "app.title"); got != "Example" {
		t.Fatalf("translate explicit locale = %q", got)
	}

	if got := translate(map[string]string{"current_locale": "de"}, "app.title"); got != "Beispiel" {
		t.Fatalf("translate string map locale = %q", got)
	}

	if got := translate(localeContext{locale: "en-GB"}, "app.title"); got != "Example (GB)" {
		t.Fatalf("translate provider locale = %q", got)
	}

	if got := translate(nil, "app.title"); got != "Example" {
		t.Fatalf("translate default locale = %q", got)
	}
}

func TestTemplateHelpersMissingTranslationHandler(t *testing.T) {
	catalog := newFixtureCatalog(t)

	var called bool
	onMissing := func(locale, key string, args []any, err error) string {
		called = true
		if locale != "en" {
			t.Fatalf("expected locale en, got %q", locale)
		}
		if !errors.Is(err, ErrInvalidKey) {
			t.Fatalf("unexpected error: %v", err)
		}
		return "missing"
	}

	helpers := TemplateHelpers(catalog, HelperConfig{
		LocaleKey: "locale",
		OnMissing: onMissing,
	})

	translate := helpers["translate"].(func(any, string, ...any) string)

	ctx := map[string]any{"locale": "en"}

	if got := translate(ctx, "unknown"); got != "missing" {
		t.Fatalf("translate missing = %q", got)
	}

	if !called {
		t.Fatal("expected missing handler invocation")
	}
}

func TestTemplateHelpersNilTranslator(t *testing.T) {
	helpers := TemplateHelpers(nil, HelperConfig{})

	helper, ok := helpers["t"].(func(any, string, ...any) string)
	if !ok {
		t.Fatalf("t helper missing: %T", helpers["t"])
	}

	if got := helper("", "foo"); got != "foo" {
		t.Fatalf("t fallback = %q", got)
	}
}

func TestTemplateHelpersInTemplate(t *testing.T) {
	catalog := newFixtureCatalog(t)

	tmpl, err := template.New("page").
		Funcs(template.FuncMap(TemplateHelpers(catalog, HelperConfig{}))).
		Parse(`{{ t . "greeting" .name }} / {{ translate . "files" .count }}`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	var buf bytes.Buffer
	data := map[string]any{"locale": "en", "name": "Ana", "count": 3}
	if err := tmpl.Execute(&buf, data); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if got := buf.String(); got != "Hello Ana / 3 files" {
		t.Fatalf("rendered = %q", got)
	}
}

func TestTemplateHelpersErrorsReferenceRegistration(t *testing.T) {
	catalog := newFixtureCatalog(t)

	var got error
	cfg := HelperConfig{
		OnMissing: func(locale, key string, args []any, err error) string {
			got = err
			return key
		},
	}
	helpers := TemplateHelpers(catalog, cfg)
	registered := CallerLocation(0).Line - 1

	translate := helpers["t"].(func(any, string, ...any) string)
	translate("en", "unknown")

	var invalid *InvalidKeyError
	if !errors.As(got, &invalid) {
		t.Fatalf("OnMissing err = %v want *InvalidKeyError", got)
	}
	if filepath.Base(invalid.Location.File) != "template_test.go" || invalid.Location.Line != registered {
		t.Fatalf("Location = %s:%d want template_test.go:%d", invalid.Location.File, invalid.Location.Line, registered)
	}
}
