package text

import (
	"fmt"
)

// Translator resolves a string for a given locale and dotted message key.
type Translator interface {
	Translate(locale, key string, args ...any) (string, error)
}

// Catalog serves accessors over the trees of a Store, overlaying each
// locale with its fallback chain.
type Catalog struct {
	store         Store
	defaultLocale string
	locales       []string
	resolver      FallbackResolver
	hooks         []AccessHook
	merged        map[string]*Tree
}

var _ Translator = &Catalog{}

// CatalogOption configures a Catalog
type CatalogOption func(*Catalog)

func WithCatalogDefaultLocale(locale string) CatalogOption {
	return func(c *Catalog) {
		c.defaultLocale = normalizeLocale(locale)
	}
}

func WithCatalogLocales(locales ...string) CatalogOption {
	return func(c *Catalog) {
		c.locales = normalizeLocales(append(c.locales, locales...))
	}
}

func WithCatalogFallbackResolver(resolver FallbackResolver) CatalogOption {
	return func(c *Catalog) {
		c.resolver = resolver
	}
}

func WithCatalogHooks(hooks ...AccessHook) CatalogOption {
	return func(c *Catalog) {
		for _, hook := range hooks {
			if hook == nil {
				continue
			}
			c.hooks = append(c.hooks, hook)
		}
	}
}

// NewCatalog precomputes the merged tree of every locale in store.
func NewCatalog(store Store, opts ...CatalogOption) (*Catalog, error) {
	if store == nil {
		store = NewStaticStore(nil)
	}

	c := &Catalog{store: store}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(c)
	}

	if c.resolver == nil {
		c.resolver = NewStaticFallbackResolver()
	}
	if len(c.locales) == 0 {
		c.locales = store.Locales()
	}
	if c.defaultLocale == "" && len(c.locales) > 0 {
		c.defaultLocale = c.locales[0]
	}

	c.merged = make(map[string]*Tree, len(c.locales))
	for _, locale := range c.locales {
		tree, err := c.resolveTree(locale)
		if err != nil {
			return nil, err
		}
		c.merged[locale] = tree
	}

	return c, nil
}

// DefaultLocale returns the locale used when a lookup passes none
func (c *Catalog) DefaultLocale() string {
	if c == nil {
		return ""
	}
	return c.defaultLocale
}

// Locales returns the locales served by the catalog
func (c *Catalog) Locales() []string {
	if c == nil || len(c.locales) == 0 {
		return nil
	}
	out := make([]string, len(c.locales))
	copy(out, c.locales)
	return out
}

// Chain returns the lookup order for locale: the locale itself, explicit
// fallbacks, parent locales and finally the default locale.
func (c *Catalog) Chain(locale string) []string {
	if c == nil {
		return nil
	}
	locale = normalizeLocale(locale)
	if locale == "" {
		locale = c.defaultLocale
	}

	chain := []string{locale}
	if c.resolver != nil {
		chain = append(chain, c.resolver.Resolve(locale)...)
	}
	chain = append(chain, localeParentChain(locale)...)
	chain = append(chain, c.defaultLocale)
	return uniqueLocales(chain...)
}

// Tree returns the merged tree for locale
func (c *Catalog) Tree(locale string) (*Tree, error) {
	if c == nil {
		return nil, ErrUnknownLocale
	}
	locale = normalizeLocale(locale)
	if locale == "" {
		locale = c.defaultLocale
	}
	if tree, ok := c.merged[locale]; ok {
		return tree, nil
	}
	return c.resolveTree(locale)
}

func (c *Catalog) resolveTree(locale string) (*Tree, error) {
	var trees []*Tree
	for _, candidate := range c.Chain(locale) {
		if tree, ok := c.store.Root(candidate); ok {
			trees = append(trees, tree)
		}
	}
	if len(trees) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrUnknownLocale, locale)
	}
	return Merge(trees[0], trees[1:]...), nil
}

// Locale wraps the merged tree of locale. An empty locale selects the default.
func (c *Catalog) Locale(locale string) (*Accessor, error) {
	return c.accessor(CallerLocation(1), locale)
}

func (c *Catalog) accessor(loc Location, locale string) (*Accessor, error) {
	tree, err := c.Tree(locale)
	if err != nil {
		return nil, err
	}
	return wrapNode(tree, loc, c.hooks)
}

// Translate resolves a dotted key for locale. Keys naming a namespace fail
// with *BranchKeyError.
func (c *Catalog) Translate(locale, key string, args ...any) (string, error) {
	return c.translateAt(CallerLocation(1), locale, key, args)
}

func (c *Catalog) translateAt(loc Location, locale, key string, args []any) (string, error) {
	accessor, err := c.accessor(loc, locale)
	if err != nil {
		return "", err
	}

	value, err := accessor.resolve(loc, key, args)
	if err != nil {
		return "", err
	}
	if value.IsBranch() {
		return "", &BranchKeyError{Path: value.accessor.Path(), Location: loc}
	}
	return value.text, nil
}
