package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	text "github.com/goliatone/go-i18n-text"
)

const (
	envPaths        = "I18N_LINT_PATHS"
	envFormat       = "I18N_LINT_FORMAT"
	envMessageFiles = "I18N_LINT_MESSAGE_FILES"
)

var errFindings = errors.New("translation files have findings")

type options struct {
	messageFiles bool
	verbose      bool
	format       string
	locale       string
	files        []string
}

func newRootCommand(stdout, stderr io.Writer) *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "i18n-lint",
		Short:         "Check translation trees for missing plural indicators",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	root.PersistentFlags().BoolVar(&opts.messageFiles, "message-files", envBool(envMessageFiles), "read inputs as go-i18n message files")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log every lookup to stderr")

	root.AddCommand(
		newCheckCommand(opts),
		newKeysCommand(opts),
		newGetCommand(opts),
	)
	return root
}

func newCheckCommand(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [files...]",
		Short: "Validate every tree eagerly, exit 1 on findings",
		RunE: func(cmd *cobra.Command, args []string) error {
			translations, err := load(opts, inputPaths(args))
			if err != nil {
				return err
			}

			var found []finding
			for _, locale := range sortedLocales(translations) {
				err := text.Validate(translations[locale])
				for _, e := range flatten(err) {
					found = append(found, newFinding(locale, e))
				}
			}

			if err := writeFindings(cmd.OutOrStdout(), opts.format, found); err != nil {
				return err
			}
			if len(found) > 0 {
				return errFindings
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&opts.format, "format", envString(envFormat, "text"), "output format: text or json")
	return cmd
}

func newKeysCommand(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keys [files...]",
		Short: "List the leaf keys of every tree",
		RunE: func(cmd *cobra.Command, args []string) error {
			translations, err := load(opts, inputPaths(args))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, locale := range sortedLocales(translations) {
				if opts.locale != "" && opts.locale != locale {
					continue
				}
				err := text.Walk(translations[locale], func(path string, node text.Node) error {
					_, err := fmt.Fprintf(out, "%s\t%s\n", locale, path)
					return err
				})
				if err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&opts.locale, "locale", "", "only list keys of this locale")
	return cmd
}

func newGetCommand(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get <key> [args...]",
		Short: "Resolve a dotted key through the strict accessor",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			translations, err := load(opts, inputPaths(opts.files))
			if err != nil {
				return err
			}

			cfgOpts := []text.Option{
				text.WithStore(text.NewStaticStore(translations)),
				text.WithDefaultLocale(opts.locale),
			}
			if opts.verbose {
				logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelDebug}))
				cfgOpts = append(cfgOpts, text.WithLogger(logger))
			}

			cfg, err := text.NewConfig(cfgOpts...)
			if err != nil {
				return err
			}
			catalog, err := cfg.Build()
			if err != nil {
				return err
			}

			result, err := catalog.Translate(opts.locale, args[0], lookupArgs(args[1:])...)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), result)
			return err
		},
	}
	cmd.Flags().StringVar(&opts.locale, "locale", "", "locale to resolve, defaults to the first loaded locale")
	cmd.Flags().StringSliceVarP(&opts.files, "file", "f", nil, "translation files, repeatable")
	return cmd
}

func load(opts *options, paths []string) (text.Translations, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("no translation files given (pass them as arguments or set %s)", envPaths)
	}

	var loader text.Loader = text.NewFileLoader(paths...)
	if opts.messageFiles {
		loader = text.NewMessageFileLoader(paths...)
	}
	return loader.Load()
}

func inputPaths(args []string) []string {
	if len(args) > 0 {
		return args
	}
	raw := os.Getenv(envPaths)
	if raw == "" {
		return nil
	}
	var paths []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			paths = append(paths, part)
		}
	}
	return paths
}

// lookupArgs passes numbers as float64 so plural forms can be selected.
func lookupArgs(raw []string) []any {
	out := make([]any, 0, len(raw))
	for _, arg := range raw {
		if n, err := strconv.ParseFloat(arg, 64); err == nil {
			out = append(out, n)
			continue
		}
		out = append(out, arg)
	}
	return out
}

type finding struct {
	Locale  string `json:"locale"`
	Kind    string `json:"kind"`
	Key     string `json:"key"`
	Message string `json:"message"`
}

func newFinding(locale string, err error) finding {
	f := finding{Locale: locale, Kind: "error", Message: err.Error()}

	var plural *text.MissingPluralError
	if errors.As(err, &plural) {
		f.Kind = "missing_plural"
		f.Key = plural.Path
		f.Message = fmt.Sprintf("append '%s' to %s, it has numeric key %d", text.PluralIndicator, plural.Path, plural.Terminus)
	}
	return f
}

func writeFindings(w io.Writer, format string, found []finding) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if found == nil {
			found = []finding{}
		}
		return enc.Encode(found)
	case "text", "":
		for _, f := range found {
			if _, err := fmt.Fprintf(w, "%s: %s: %s\n", f.Locale, f.Kind, f.Message); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

func flatten(err error) []error {
	if err == nil {
		return nil
	}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		var out []error
		for _, e := range joined.Unwrap() {
			out = append(out, flatten(e)...)
		}
		return out
	}
	return []error{err}
}

func sortedLocales(translations text.Translations) []string {
	return text.NewStaticStore(translations).Locales()
}

func envString(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}

func envBool(key string) bool {
	value, err := strconv.ParseBool(strings.TrimSpace(os.Getenv(key)))
	return err == nil && value
}
