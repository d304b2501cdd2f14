package text

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/feature/plural"
)

// pluralAnyKey is the catch-all variant key used by R18n-style sources.
const pluralAnyKey = "n"

// selectVariant picks the variant for the count in args[0]: an exact
// numeric key first, then the locale's CLDR cardinal category, then the
// catch-all form.
func (t *Tree) selectVariant(args []any) (*Tree, error) {
	count, ok := pluralCount(args)
	if !ok {
		if variant := t.defaultVariant(); variant != nil {
			return variant, nil
		}
		return nil, fmt.Errorf("%w: %s has no %q form", ErrMissingTranslation, t.path, PluralOther)
	}

	if count == math.Trunc(count) && count >= 0 && count <= math.MaxInt32 {
		if variant, ok := t.children[strconv.Itoa(int(count))]; ok {
			return variant, nil
		}
	}

	category := t.cardinalCategory(count)
	for _, name := range variantCandidates(category) {
		if variant, ok := t.children[name]; ok {
			return variant, nil
		}
	}

	return nil, fmt.Errorf("%w: %s has no plural form for %v (%s)", ErrMissingTranslation, t.path, formatCount(count), category)
}

func (t *Tree) defaultVariant() *Tree {
	for _, name := range variantCandidates(PluralOther) {
		if variant, ok := t.children[name]; ok {
			return variant
		}
	}
	return nil
}

func (t *Tree) cardinalCategory(count float64) PluralCategory {
	i, v, w, f, tr := pluralOperands(count)
	form := plural.Cardinal.MatchPlural(t.settings.tag, i, v, w, f, tr)
	return categoryFromForm(form)
}

func categoryFromForm(form plural.Form) PluralCategory {
	switch form {
	case plural.Zero:
		return PluralZero
	case plural.One:
		return PluralOne
	case plural.Two:
		return PluralTwo
	case plural.Few:
		return PluralFew
	case plural.Many:
		return PluralMany
	default:
		return PluralOther
	}
}

func variantCandidates(category PluralCategory) []string {
	switch category {
	case PluralZero:
		return []string{string(PluralZero), "0", string(PluralOther), pluralAnyKey}
	case PluralOne:
		return []string{string(PluralOne), "1", string(PluralOther), pluralAnyKey}
	case PluralTwo:
		return []string{string(PluralTwo), "2", string(PluralOther), pluralAnyKey}
	case PluralFew:
		return []string{string(PluralFew), "2", pluralAnyKey, string(PluralOther)}
	case PluralMany:
		return []string{string(PluralMany), pluralAnyKey, string(PluralOther)}
	default:
		return []string{string(PluralOther), pluralAnyKey}
	}
}

// pluralOperands computes the CLDR operands i, v, w, f and t for count.
func pluralOperands(count float64) (i, v, w, f, t int) {
	abs := math.Abs(count)
	formatted := strconv.FormatFloat(abs, 'f', -1, 64)

	intPart, fraction, _ := strings.Cut(formatted, ".")
	i = atoiClamp(intPart)
	if fraction == "" {
		return i, 0, 0, 0, 0
	}

	v = len(fraction)
	f = atoiClamp(fraction)
	trimmed := strings.TrimRight(fraction, "0")
	w = len(trimmed)
	t = atoiClamp(trimmed)
	return i, v, w, f, t
}

func atoiClamp(raw string) int {
	if raw == "" {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return math.MaxInt32
	}
	return n
}

func pluralCount(args []any) (float64, bool) {
	if len(args) == 0 {
		return 0, false
	}
	switch v := args[0].(type) {
	case int:
		return float64(v), true
	case int8:
		return float64(v), true
	case int16:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint8:
		return float64(v), true
	case uint16:
		return float64(v), true
	case uint32:
		return float64(v), true
	case uint64:
		return float64(v), true
	case float32:
		return float64(v), true
	case float64:
		return v, true
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

func formatCount(count float64) string {
	return strconv.FormatFloat(count, 'f', -1, 64)
}

func parsePluralCategory(raw string) (PluralCategory, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "zero":
		return PluralZero, nil
	case "one":
		return PluralOne, nil
	case "two":
		return PluralTwo, nil
	case "few":
		return PluralFew, nil
	case "many":
		return PluralMany, nil
	case "other":
		return PluralOther, nil
	default:
		return "", fmt.Errorf("unknown plural category %q", raw)
	}
}
