package text

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMissingTranslation indicates that the tree has no value for a lookup.
var ErrMissingTranslation = errors.New("i18n: missing translation")

// ErrInvalidKey matches every *InvalidKeyError via errors.Is
var ErrInvalidKey = errors.New("i18n: invalid key")

// ErrMissingPlural matches every *MissingPluralError via errors.Is
var ErrMissingPlural = errors.New("i18n: missing plural indicator")

// ErrNilNode is returned when wrapping a nil tree node
var ErrNilNode = errors.New("i18n: nil node")

// ErrUnknownLocale indicates that no catalog tree is available for a locale or its fallbacks.
var ErrUnknownLocale = errors.New("i18n: unknown locale")

// ErrNilConfig is returned when building from a nil *Config
var ErrNilConfig = errors.New("i18n: nil config")

// InvalidKeyError is returned when a caller asks for a key that is not a
// child of the wrapped node.
type InvalidKeyError struct {
	Path     string
	Terminus string
	Location Location
}

func (e *InvalidKeyError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "i18n key %s does not exist.\n", joinKey(e.Path, e.Terminus))
	fmt.Fprintf(&b, "  Referenced from %s", e.Location)
	return b.String()
}

// Is reports ErrInvalidKey as a match so callers don't need errors.As
func (e *InvalidKeyError) Is(target error) bool {
	return target == ErrInvalidKey
}

// MissingPluralError is returned when a node has a raw integer child key,
// meaning its parent was not tagged with the '!!pl' plural indicator.
type MissingPluralError struct {
	Path     string
	Terminus int
	Location Location
}

func (e *MissingPluralError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "i18n key %s appears to reference a pluralization.\n", joinKey(e.Path, fmt.Sprint(e.Terminus)))
	fmt.Fprintf(&b, "  Please append the plural indicator '!!pl' to the end of %s.\n", displayPath(e.Path))
	fmt.Fprintf(&b, "  Referenced from %s", e.Location)
	return b.String()
}

func (e *MissingPluralError) Is(target error) bool {
	return target == ErrMissingPlural
}

// BranchKeyError is returned by Text when the key names a namespace
type BranchKeyError struct {
	Path     string
	Location Location
}

func (e *BranchKeyError) Error() string {
	return fmt.Sprintf("i18n key %s is a namespace, not a translation (referenced from %s)", displayPath(e.Path), e.Location)
}

// LeafKeyError is returned by Sub when the key names a translation
type LeafKeyError struct {
	Path     string
	Location Location
}

func (e *LeafKeyError) Error() string {
	return fmt.Sprintf("i18n key %s is a translation, not a namespace (referenced from %s)", displayPath(e.Path), e.Location)
}

func joinKey(path, terminus string) string {
	if path == "" {
		return terminus
	}
	return path + "." + terminus
}

func displayPath(path string) string {
	if path == "" {
		return "<root>"
	}
	return path
}
