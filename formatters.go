package text

import (
	"fmt"
	"regexp"
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var (
	positionalPattern  = regexp.MustCompile(`%([1-9][0-9]*)`)
	placeholderPattern = regexp.MustCompile(`\{([a-zA-Z0-9_]+)\}`)
)

// Formatter renders a leaf template with the arguments passed to a lookup.
type Formatter interface {
	Format(template string, args ...any) (string, error)
}

// LocaleFormatter is implemented by formatters that render arguments for
// the locale of the tree being read. Trees prefer it over Format.
type LocaleFormatter interface {
	FormatLocale(tag language.Tag, template string, args ...any) (string, error)
}

// FormatterFunc adapts a function to Formatter
type FormatterFunc func(template string, args ...any) (string, error)

func (fn FormatterFunc) Format(template string, args ...any) (string, error) {
	return fn(template, args...)
}

// DefaultFormatter substitutes positional %1..%N placeholders and named
// {name} placeholders taken from any map[string]any argument. Numbers are
// printed with the grouping and decimal rules of the tree's locale.
// Unknown placeholders are left untouched.
var DefaultFormatter Formatter = placeholderFormatter{}

type placeholderFormatter struct{}

var _ LocaleFormatter = placeholderFormatter{}

func (placeholderFormatter) Format(template string, args ...any) (string, error) {
	return replacePlaceholders(template, args, func(value any) string {
		return fmt.Sprint(value)
	}), nil
}

func (placeholderFormatter) FormatLocale(tag language.Tag, template string, args ...any) (string, error) {
	printer := message.NewPrinter(tag)
	return replacePlaceholders(template, args, func(value any) string {
		if isNumber(value) {
			return printer.Sprintf("%v", value)
		}
		return fmt.Sprint(value)
	}), nil
}

func replacePlaceholders(template string, args []any, render func(any) string) string {
	if len(args) == 0 {
		return template
	}

	out := positionalPattern.ReplaceAllStringFunc(template, func(match string) string {
		idx, err := strconv.Atoi(match[1:])
		if err != nil || idx > len(args) {
			return match
		}
		return render(args[idx-1])
	})

	named := namedArgs(args)
	if len(named) == 0 {
		return out
	}

	return placeholderPattern.ReplaceAllStringFunc(out, func(match string) string {
		value, ok := named[match[1:len(match)-1]]
		if !ok {
			return match
		}
		return render(value)
	})
}

func namedArgs(args []any) map[string]any {
	var named map[string]any
	for _, arg := range args {
		values, ok := arg.(map[string]any)
		if !ok {
			continue
		}
		if named == nil {
			named = make(map[string]any, len(values))
		}
		for key, value := range values {
			named[key] = value
		}
	}
	return named
}

func isNumber(value any) bool {
	switch value.(type) {
	case int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return true
	default:
		return false
	}
}
