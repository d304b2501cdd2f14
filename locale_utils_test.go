package text

import (
	"reflect"
	"testing"
)

func TestLocaleParentChain(t *testing.T) {
	tests := []struct {
		locale string
		want   []string
	}{
		{locale: "en-GB", want: []string{"en-001", "en"}},
		{locale: "pt-BR", want: []string{"pt"}},
		{locale: "en", want: nil},
		{locale: "", want: nil},
	}

	for _, tc := range tests {
		if got := localeParentChain(tc.locale); !reflect.DeepEqual(got, tc.want) {
			t.Fatalf("localeParentChain(%q) = %v want %v", tc.locale, got, tc.want)
		}
	}
}

func TestNormalizeLocales(t *testing.T) {
	got := normalizeLocales([]string{" pt_BR ", "en", "", "pt-BR", "de"})
	if want := []string{"de", "en", "pt-BR"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("normalizeLocales = %v want %v", got, want)
	}

	if got := uniqueLocales("es", "", "en", "es"); !reflect.DeepEqual(got, []string{"es", "en"}) {
		t.Fatalf("uniqueLocales = %v", got)
	}
}

func TestStaticFallbackResolver(t *testing.T) {
	resolver := NewStaticFallbackResolver()
	resolver.Set("es_MX", "es-MX", "es", "", "en", "es")

	chain := resolver.Resolve("es-MX")
	if want := []string{"es", "en"}; !reflect.DeepEqual(chain, want) {
		t.Fatalf("Resolve(es-MX) = %v want %v", chain, want)
	}

	chain[0] = "changed"
	if got := resolver.Resolve("es-MX"); got[0] != "es" {
		t.Fatal("Resolve leaked internal slice")
	}

	resolver.Set("es-MX")
	if got := resolver.Resolve("es-MX"); got != nil {
		t.Fatalf("cleared chain = %v", got)
	}

	var nilResolver *StaticFallbackResolver
	nilResolver.Set("en", "de")
	if got := nilResolver.Resolve("en"); got != nil {
		t.Fatalf("nil resolver = %v", got)
	}
}
