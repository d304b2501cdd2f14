package text

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/language"
)

// PluralIndicator is the suffix/tag that marks a key's children as plural forms.
const PluralIndicator = "!!pl"

type nodeKind uint8

const (
	branchNode nodeKind = iota
	leafNode
	pluralNode
)

type treeSettings struct {
	locale    string
	tag       language.Tag
	formatter Formatter
}

func newTreeSettings(locale string, formatter Formatter) *treeSettings {
	locale = normalizeLocale(locale)
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.Und
	}
	if formatter == nil {
		formatter = DefaultFormatter
	}
	return &treeSettings{locale: locale, tag: tag, formatter: formatter}
}

func (s *treeSettings) render(template string, args []any) (string, error) {
	if localized, ok := s.formatter.(LocaleFormatter); ok && s.tag != language.Und {
		return localized.FormatLocale(s.tag, template, args...)
	}
	return s.formatter.Format(template, args...)
}

// Tree is an immutable translation tree for a single locale. It implements Node.
type Tree struct {
	path     string
	kind     nodeKind
	value    string
	keys     []Key
	children map[string]*Tree
	settings *treeSettings
}

var _ Node = &Tree{}

// Plural declares plural variants when building a tree with FromMap.
// Keys are counts ("0", "1"), "n", or CLDR categories ("one", "other").
type Plural map[string]string

// NewTree returns an empty root for locale.
func NewTree(locale string) *Tree {
	return newRoot(newTreeSettings(locale, nil))
}

func newRoot(settings *treeSettings) *Tree {
	return &Tree{kind: branchNode, settings: settings}
}

// FromMap builds a tree from nested maps. Values may be strings, nested
// map[string]any, Plural, or maps keyed by int; other scalars are rendered
// with fmt. Keys that are plain integers become numeric keys and keys ending
// in '!!pl' mark plural maps. Sibling order is numeric keys ascending, then
// names ascending.
func FromMap(locale string, data map[string]any) (*Tree, error) {
	root := NewTree(locale)
	if err := root.fillFromMap(data); err != nil {
		return nil, err
	}
	return root, nil
}

func (t *Tree) fillFromMap(data map[string]any) error {
	names := make([]string, 0, len(data))
	for name := range data {
		names = append(names, name)
	}
	sortKeyNames(names)

	for _, raw := range names {
		name, plural := trimPluralIndicator(raw)
		if name == "" {
			return fmt.Errorf("i18n: empty key below %s", displayPath(t.path))
		}
		key := keyFromString(name)
		if err := t.fillValue(key, data[raw], plural); err != nil {
			return err
		}
	}
	return nil
}

func (t *Tree) fillValue(key Key, value any, plural bool) error {
	switch v := value.(type) {
	case Plural:
		return t.fillPlural(key, v)
	case map[string]string:
		if plural {
			return t.fillPlural(key, Plural(v))
		}
		nested := make(map[string]any, len(v))
		for name, text := range v {
			nested[name] = text
		}
		return t.addBranch(key).fillFromMap(nested)
	case map[string]any:
		if plural {
			variants := make(Plural, len(v))
			for name, text := range v {
				variants[name] = fmt.Sprint(text)
			}
			return t.fillPlural(key, variants)
		}
		return t.addBranch(key).fillFromMap(v)
	case map[int]string:
		nested := make(map[string]any, len(v))
		for n, text := range v {
			nested[fmt.Sprint(n)] = text
		}
		if plural {
			return t.fillValue(key, nested, true)
		}
		return t.addBranch(key).fillFromMap(nested)
	case map[int]any:
		nested := make(map[string]any, len(v))
		for n, text := range v {
			nested[fmt.Sprint(n)] = text
		}
		return t.fillValue(key, nested, plural)
	case nil:
		t.addLeaf(key, "")
	case string:
		t.addLeaf(key, v)
	default:
		t.addLeaf(key, fmt.Sprint(v))
	}
	return nil
}

func (t *Tree) fillPlural(key Key, variants Plural) error {
	node := t.addPlural(key)
	names := make([]string, 0, len(variants))
	for name := range variants {
		names = append(names, name)
	}
	sortKeyNames(names)
	for _, name := range names {
		if err := node.addVariant(name, variants[name]); err != nil {
			return err
		}
	}
	return nil
}

func (t *Tree) addChild(key Key, child *Tree) *Tree {
	if t.children == nil {
		t.children = make(map[string]*Tree)
	}
	t.setKey(key)
	child.path = joinKey(t.path, key.Name)
	child.settings = t.settings
	t.children[key.Name] = child
	return child
}

func (t *Tree) addBranch(key Key) *Tree {
	if existing, ok := t.children[key.Name]; ok && existing.kind == branchNode {
		t.setKey(key)
		return existing
	}
	return t.addChild(key, &Tree{kind: branchNode})
}

// setKey records key in source order. A redefined name keeps its position
// but takes the latest Numeric flag.
func (t *Tree) setKey(key Key) {
	for i := range t.keys {
		if t.keys[i].Name == key.Name {
			t.keys[i] = key
			return
		}
	}
	t.keys = append(t.keys, key)
}

func (t *Tree) addLeaf(key Key, value string) *Tree {
	return t.addChild(key, &Tree{kind: leafNode, value: value})
}

func (t *Tree) addPlural(key Key) *Tree {
	return t.addChild(key, &Tree{kind: pluralNode})
}

func (t *Tree) addVariant(name, template string) error {
	if _, ok := parseNumericKey(name); !ok && name != pluralAnyKey {
		category, err := parsePluralCategory(name)
		if err != nil {
			return fmt.Errorf("i18n: %s: %w", displayPath(t.path), err)
		}
		name = string(category)
	}
	t.addChild(keyFromString(name), &Tree{kind: leafNode, value: template})
	return nil
}

// Path implements Node
func (t *Tree) Path() string {
	if t == nil {
		return ""
	}
	return t.path
}

// Locale returns the normalized locale the tree was built for
func (t *Tree) Locale() string {
	if t == nil || t.settings == nil {
		return ""
	}
	return t.settings.locale
}

// Keys implements Node. Plural nodes expose no keys, their variants are
// reachable through Variants.
func (t *Tree) Keys() []Key {
	if t == nil || t.kind != branchNode || len(t.keys) == 0 {
		return nil
	}
	out := make([]Key, len(t.keys))
	copy(out, t.keys)
	return out
}

// Variants returns the plural variant keys of a plural node
func (t *Tree) Variants() []string {
	if t == nil || t.kind != pluralNode {
		return nil
	}
	out := make([]string, 0, len(t.keys))
	for _, key := range t.keys {
		out = append(out, key.Name)
	}
	return out
}

// IsPlural reports whether the node was tagged with the plural indicator
func (t *Tree) IsPlural() bool {
	return t != nil && t.kind == pluralNode
}

// IsBranch implements Node
func (t *Tree) IsBranch() bool {
	return t != nil && t.kind == branchNode && len(t.keys) > 0
}

// String implements Node. Plural nodes render their 'other' form and
// branches render as the empty string.
func (t *Tree) String() string {
	if t == nil {
		return ""
	}
	switch t.kind {
	case leafNode:
		return t.value
	case pluralNode:
		if variant := t.defaultVariant(); variant != nil {
			return variant.value
		}
	}
	return ""
}

// Child implements Node. Leaves are formatted with args, plural nodes select
// a variant using the first argument as the count.
func (t *Tree) Child(key string, args ...any) (Node, error) {
	if t == nil || t.kind != branchNode {
		return nil, fmt.Errorf("%w: %s has no children", ErrMissingTranslation, displayPath(t.Path()))
	}

	child, ok := t.children[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingTranslation, joinKey(t.path, key))
	}

	template := child.value
	switch child.kind {
	case branchNode:
		return child, nil
	case pluralNode:
		variant, err := child.selectVariant(args)
		if err != nil {
			return nil, err
		}
		template = variant.value
	}

	leaf, err := child.format(template, args)
	if err != nil {
		return nil, err
	}
	return leaf, nil
}

func (t *Tree) format(template string, args []any) (*Tree, error) {
	if len(args) == 0 && t.kind == leafNode {
		return t, nil
	}
	out := template
	if len(args) > 0 {
		formatted, err := t.settings.render(template, args)
		if err != nil {
			return nil, fmt.Errorf("i18n: format %s: %w", displayPath(t.path), err)
		}
		out = formatted
	}
	return &Tree{path: t.path, kind: leafNode, value: out, settings: t.settings}, nil
}

// Merge overlays fallbacks below primary. Values present in primary win,
// keys only present in a fallback are added. Inputs are not modified.
func Merge(primary *Tree, fallbacks ...*Tree) *Tree {
	out := primary
	for _, fallback := range fallbacks {
		out = overlay(out, fallback)
	}
	return out
}

func overlay(primary, fallback *Tree) *Tree {
	if primary == nil {
		return fallback
	}
	if fallback == nil || primary.kind != branchNode || fallback.kind != branchNode {
		return primary
	}

	out := &Tree{
		path:     primary.path,
		kind:     branchNode,
		settings: primary.settings,
		children: make(map[string]*Tree, len(primary.children)+len(fallback.children)),
	}
	for _, key := range primary.keys {
		out.keys = append(out.keys, key)
		out.children[key.Name] = overlay(primary.children[key.Name], fallback.children[key.Name])
	}
	for _, key := range fallback.keys {
		if _, exists := out.children[key.Name]; exists {
			continue
		}
		out.keys = append(out.keys, key)
		out.children[key.Name] = fallback.children[key.Name]
	}
	return out
}

func trimPluralIndicator(raw string) (string, bool) {
	trimmed := strings.TrimSpace(raw)
	if strings.HasSuffix(trimmed, PluralIndicator) {
		return strings.TrimSpace(strings.TrimSuffix(trimmed, PluralIndicator)), true
	}
	return trimmed, false
}

func sortKeyNames(names []string) {
	sort.Slice(names, func(i, j int) bool {
		ni, iNum := parseNumericKey(names[i])
		nj, jNum := parseNumericKey(names[j])
		switch {
		case iNum && jNum:
			return ni < nj
		case iNum != jNum:
			return iNum
		default:
			return names[i] < names[j]
		}
	})
}
