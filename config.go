package text

import (
	"errors"
	"fmt"
	"log/slog"
)

// Config captures catalog setup
type Config struct {
	DefaultLocale string
	Locales       []string
	Loader        Loader
	Store         Store
	Resolver      FallbackResolver
	Formatter     Formatter
	Hooks         []AccessHook
	Logger        *slog.Logger

	strict bool
}

type formatterLoader interface {
	WithFormatter(formatter Formatter) Loader
}

// Option mutates Config during construction
type Option func(*Config) error

// NewConfig builds Config via supplied options
func NewConfig(opts ...Option) (*Config, error) {
	cfg := &Config{}

	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	cfg.normalizeLocales()
	cfg.applyFormatter()

	if cfg.Store == nil {
		if cfg.Loader != nil {
			store, err := NewStaticStoreFromLoader(cfg.Loader)
			if err != nil {
				return nil, err
			}
			cfg.Store = store
		} else {
			cfg.Store = NewStaticStore(nil)
		}
	}

	if cfg.Resolver == nil {
		cfg.Resolver = NewStaticFallbackResolver()
	}

	if cfg.DefaultLocale == "" && len(cfg.Locales) > 0 {
		cfg.DefaultLocale = cfg.Locales[0]
	}

	return cfg, nil
}

// WithDefaultLocale sets the default locale in Config
func WithDefaultLocale(locale string) Option {
	return func(c *Config) error {
		c.DefaultLocale = locale
		return nil
	}
}

// WithLocales registers supported locales
func WithLocales(locales ...string) Option {
	return func(c *Config) error {
		c.Locales = append(c.Locales, locales...)
		return nil
	}
}

func WithLoader(loader Loader) Option {
	return func(c *Config) error {
		c.Loader = loader
		return nil
	}
}

func WithStore(store Store) Option {
	return func(c *Config) error {
		c.Store = store
		return nil
	}
}

func WithFallbackResolver(resolver FallbackResolver) Option {
	return func(c *Config) error {
		c.Resolver = resolver
		return nil
	}
}

func WithFallback(locale string, fallbacks ...string) Option {
	return func(c *Config) error {
		if locale == "" {
			return nil
		}
		resolver, ok := c.Resolver.(*StaticFallbackResolver)
		if !ok {
			if c.Resolver != nil {
				return nil
			}
			resolver = NewStaticFallbackResolver()
			c.Resolver = resolver
		}
		resolver.Set(locale, fallbacks...)
		return nil
	}
}

// WithFormatter sets the leaf formatter. It only reaches loaders that
// accept a formatter, trees passed through WithStore keep their own.
func WithFormatter(formatter Formatter) Option {
	return func(c *Config) error {
		c.Formatter = formatter
		return nil
	}
}

func WithAccessHooks(hooks ...AccessHook) Option {
	return func(c *Config) error {
		for _, hook := range hooks {
			if hook == nil {
				continue
			}
			c.Hooks = append(c.Hooks, hook)
		}
		return nil
	}
}

// WithLogger installs a LoggingHook on every accessor built from the config
func WithLogger(logger *slog.Logger) Option {
	return func(c *Config) error {
		if logger == nil {
			return errors.New("i18n: nil logger")
		}
		c.Logger = logger
		return nil
	}
}

// WithStrictValidation validates every tree at build time instead of
// waiting for the first access to a malformed subtree.
func WithStrictValidation() Option {
	return func(c *Config) error {
		c.strict = true
		return nil
	}
}

// Build returns a Catalog over the configured store. Strict validation
// errors reference the Build call site.
func (cfg *Config) Build() (*Catalog, error) {
	return cfg.build(CallerLocation(1))
}

// BuildTranslator returns the catalog as a Translator
func (cfg *Config) BuildTranslator() (Translator, error) {
	catalog, err := cfg.build(CallerLocation(1))
	if err != nil {
		return nil, err
	}
	return catalog, nil
}

func (cfg *Config) build(loc Location) (*Catalog, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}

	if cfg.strict {
		if err := cfg.validateStore(loc); err != nil {
			return nil, err
		}
	}

	hooks := append([]AccessHook(nil), cfg.Hooks...)
	if cfg.Logger != nil {
		hooks = append(hooks, LoggingHook(cfg.Logger))
	}

	return NewCatalog(cfg.Store,
		WithCatalogDefaultLocale(cfg.DefaultLocale),
		WithCatalogLocales(cfg.Locales...),
		WithCatalogFallbackResolver(cfg.Resolver),
		WithCatalogHooks(hooks...),
	)
}

func (cfg *Config) normalizeLocales() {
	cfg.Locales = normalizeLocales(cfg.Locales)
	cfg.DefaultLocale = normalizeLocale(cfg.DefaultLocale)
}

func (cfg *Config) applyFormatter() {
	if cfg.Formatter == nil || cfg.Loader == nil {
		return
	}

	if loader, ok := cfg.Loader.(formatterLoader); ok {
		cfg.Loader = loader.WithFormatter(cfg.Formatter)
	}
}

func (cfg *Config) validateStore(loc Location) error {
	var errs []error
	for _, locale := range cfg.Store.Locales() {
		tree, ok := cfg.Store.Root(locale)
		if !ok {
			continue
		}
		if err := validate(tree, loc); err != nil {
			errs = append(errs, fmt.Errorf("i18n: locale %s: %w", locale, err))
		}
	}
	return errors.Join(errs...)
}
