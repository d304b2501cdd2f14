package text

// Translations maps a locale code to the root of its translation tree
type Translations map[string]*Tree

type PluralCategory string

const (
	PluralZero  PluralCategory = "zero"
	PluralOne   PluralCategory = "one"
	PluralTwo   PluralCategory = "two"
	PluralFew   PluralCategory = "few"
	PluralMany  PluralCategory = "many"
	PluralOther PluralCategory = "other"
)

// Clone returns a shallow copy. Trees are immutable so they are shared.
func (t Translations) Clone() Translations {
	if t == nil {
		return nil
	}
	out := make(Translations, len(t))
	for locale, tree := range t {
		out[locale] = tree
	}
	return out
}
