package text

import (
	"sort"
)

// Store exposes read only access to per-locale translation trees
type Store interface {
	// Root returns the tree for locale and ok=false if missing
	Root(locale string) (*Tree, bool)
	// Locales returns the list of locales known to the store
	Locales() []string
}

// Loader retrieves the translations used to seed a Store
type Loader interface {
	Load() (Translations, error)
}

// LoaderFunc adapters allow bare functions to implement Loader interface
type LoaderFunc func() (Translations, error)

// Load implements Loader for LoaderFunc
func (fn LoaderFunc) Load() (Translations, error) {
	return fn()
}

// StaticStore is an in memory store, read only after construction
type StaticStore struct {
	translations Translations
	locales      []string
}

var _ Store = &StaticStore{}

// NewStaticStore builds an immutable snapshot from the given translations.
// Locale codes are normalized, nil trees are skipped.
func NewStaticStore(data Translations) *StaticStore {
	if len(data) == 0 {
		return &StaticStore{translations: make(Translations)}
	}

	translations := make(Translations, len(data))
	locales := make([]string, 0, len(data))

	for locale, tree := range data {
		if tree == nil {
			continue
		}
		locale = normalizeLocale(locale)
		if locale == "" {
			continue
		}
		if existing, ok := translations[locale]; ok {
			translations[locale] = Merge(existing, tree)
			continue
		}
		translations[locale] = tree
		locales = append(locales, locale)
	}

	// make locales deterministic
	sort.Strings(locales)

	return &StaticStore{
		translations: translations,
		locales:      locales,
	}
}

// NewStaticStoreFromLoader hydrates a StaticStore using the provided loader
func NewStaticStoreFromLoader(loader Loader) (*StaticStore, error) {
	if loader == nil {
		return NewStaticStore(nil), nil
	}

	translations, err := loader.Load()
	if err != nil {
		return nil, err
	}

	return NewStaticStore(translations), nil
}

// Root returns the tree for locale
func (s *StaticStore) Root(locale string) (*Tree, bool) {
	if s == nil {
		return nil, false
	}
	tree, ok := s.translations[normalizeLocale(locale)]
	if !ok || tree == nil {
		return nil, false
	}
	return tree, true
}

// Locales returns a slice with all locale codes
func (s *StaticStore) Locales() []string {
	if s == nil || len(s.locales) == 0 {
		return nil
	}
	out := make([]string, len(s.locales))
	copy(out, s.locales)
	return out
}
