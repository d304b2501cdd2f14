package text

import "fmt"

// HelperConfig configures template helper exports
type HelperConfig struct {
	// LocaleKey is the map key read when the first helper argument is a
	// context map instead of a locale string. Defaults to "locale".
	LocaleKey string
	// OnMissing renders failed lookups. The key itself is used when nil.
	OnMissing func(locale, key string, args []any, err error) string
}

type localeProvider interface {
	Locale() string
}

// locatedTranslator is implemented by *Catalog so lookups made from inside
// a template can report where the helpers were registered.
type locatedTranslator interface {
	translateAt(loc Location, locale, key string, args []any) (string, error)
}

// TemplateHelpers exposes translator lookups for text/template and
// html/template as "translate" and its alias "t". When t is a *Catalog,
// lookup errors reference the TemplateHelpers call site.
func TemplateHelpers(t Translator, cfg HelperConfig) map[string]any {
	loc := CallerLocation(1)
	located, _ := t.(locatedTranslator)

	localeKey := cfg.LocaleKey
	if localeKey == "" {
		localeKey = "locale"
	}

	translate := func(localeOrCtx any, key string, args ...any) string {
		locale := templateLocale(localeOrCtx, localeKey)
		if t == nil {
			return missing(cfg, locale, key, args, ErrMissingTranslation)
		}
		var (
			result string
			err    error
		)
		if located != nil {
			result, err = located.translateAt(loc, locale, key, args)
		} else {
			result, err = t.Translate(locale, key, args...)
		}
		if err != nil {
			return missing(cfg, locale, key, args, err)
		}
		return result
	}

	return map[string]any{
		"translate": translate,
		"t":         translate,
	}
}

func missing(cfg HelperConfig, locale, key string, args []any, err error) string {
	if cfg.OnMissing != nil {
		return cfg.OnMissing(locale, key, args, err)
	}
	return key
}

func templateLocale(value any, localeKey string) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case map[string]any:
		if locale, ok := v[localeKey]; ok {
			return fmt.Sprint(locale)
		}
	case map[string]string:
		return v[localeKey]
	case localeProvider:
		return v.Locale()
	}
	return ""
}
