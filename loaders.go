package text

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// FileLoader reads one translation tree per file. The locale comes from the
// file name ("en.yml", "app.pt-BR.json"). Files sharing a locale are merged
// in the order given.
type FileLoader struct {
	source    fileSource
	formatter Formatter
}

// NewFileLoader loads the given OS paths. Glob patterns are expanded.
func NewFileLoader(paths ...string) *FileLoader {
	return &FileLoader{source: fileSource{patterns: append([]string(nil), paths...)}}
}

// NewFSLoader loads files matching patterns from fsys, e.g. an embed.FS.
func NewFSLoader(fsys fs.FS, patterns ...string) *FileLoader {
	return &FileLoader{source: fileSource{fsys: fsys, patterns: append([]string(nil), patterns...)}}
}

// WithFormatter satisfies the formatterLoader contract used by config wiring.
func (l *FileLoader) WithFormatter(formatter Formatter) Loader {
	if l == nil {
		return l
	}
	l.formatter = formatter
	return l
}

func (l *FileLoader) Load() (Translations, error) {
	if l == nil || len(l.source.patterns) == 0 {
		return nil, errors.New("i18n: no loader paths configured")
	}

	files, err := l.source.files()
	if err != nil {
		return nil, err
	}

	catalogs := make(Translations)
	for _, file := range files {
		data, err := l.source.read(file)
		if err != nil {
			return nil, fmt.Errorf("i18n: read %s: %w", file, err)
		}

		locale, err := localeFromFileName(file)
		if err != nil {
			return nil, err
		}

		root, ok := catalogs[locale]
		if !ok {
			root = newRoot(newTreeSettings(locale, l.formatter))
			catalogs[locale] = root
		}

		if err := decodeTranslationFile(file, data, root); err != nil {
			return nil, fmt.Errorf("i18n: decode %s: %w", file, err)
		}
	}

	return catalogs, nil
}

func decodeTranslationFile(file string, data []byte, root *Tree) error {
	ext := strings.ToLower(path.Ext(filepath.ToSlash(file)))

	switch ext {
	case ".json":
		return decodeTranslationsJSON(data, root)
	case ".yaml", ".yml":
		return decodeTranslationsYAML(data, root)
	case ".toml":
		return decodeTranslationsTOML(data, root)
	default:
		return fmt.Errorf("unsupported extension %s", ext)
	}
}

func decodeTranslationsYAML(data []byte, root *Tree) error {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("yaml parse error: %w", err)
	}

	if len(doc.Content) == 0 {
		return errors.New("empty translations yaml")
	}

	top := resolveYAMLAlias(doc.Content[0])
	if top.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: top level must be a mapping", top.Line)
	}
	return fillYAMLMapping(root, top)
}

func fillYAMLMapping(t *Tree, node *yaml.Node) error {
	for i := 0; i+1 < len(node.Content); i += 2 {
		keyNode := node.Content[i]
		valueNode := resolveYAMLAlias(node.Content[i+1])

		if keyNode.ShortTag() == "!!merge" {
			if valueNode.Kind != yaml.MappingNode {
				return fmt.Errorf("line %d: merge value must be a mapping", keyNode.Line)
			}
			if err := fillYAMLMapping(t, valueNode); err != nil {
				return err
			}
			continue
		}

		key, plural := yamlKey(keyNode)
		if key.Name == "" {
			return fmt.Errorf("line %d: empty key below %s", keyNode.Line, displayPath(t.path))
		}
		plural = plural || valueNode.ShortTag() == "!!pl"

		switch valueNode.Kind {
		case yaml.MappingNode:
			if plural {
				if err := fillYAMLPlural(t.addPlural(key), valueNode); err != nil {
					return err
				}
				continue
			}
			if err := fillYAMLMapping(t.addBranch(key), valueNode); err != nil {
				return err
			}
		case yaml.ScalarNode:
			if valueNode.ShortTag() == "!!null" {
				t.addLeaf(key, "")
				continue
			}
			t.addLeaf(key, valueNode.Value)
		default:
			return fmt.Errorf("line %d: unsupported value for %s", valueNode.Line, joinKey(t.path, key.Name))
		}
	}
	return nil
}

func fillYAMLPlural(t *Tree, node *yaml.Node) error {
	for i := 0; i+1 < len(node.Content); i += 2 {
		keyNode := node.Content[i]
		valueNode := resolveYAMLAlias(node.Content[i+1])
		if valueNode.Kind != yaml.ScalarNode {
			return fmt.Errorf("line %d: plural form %s of %s must be a string", valueNode.Line, keyNode.Value, t.path)
		}
		if err := t.addVariant(strings.TrimSpace(keyNode.Value), valueNode.Value); err != nil {
			return fmt.Errorf("line %d: %w", keyNode.Line, err)
		}
	}
	return nil
}

func yamlKey(node *yaml.Node) (Key, bool) {
	if node.ShortTag() == "!!int" {
		if n, err := strconv.Atoi(node.Value); err == nil && n >= 0 {
			return NumberKey(n), false
		}
	}
	name, plural := trimPluralIndicator(node.Value)
	return NameKey(name), plural
}

func resolveYAMLAlias(node *yaml.Node) *yaml.Node {
	for node != nil && node.Kind == yaml.AliasNode && node.Alias != nil {
		node = node.Alias
	}
	return node
}

func decodeTranslationsJSON(data []byte, root *Tree) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return errors.New("top level must be an object")
	}

	if err := fillJSONObject(dec, root); err != nil {
		return err
	}

	if _, err := dec.Token(); err != io.EOF {
		return errors.New("unexpected data after top level object")
	}
	return nil
}

func fillJSONObject(dec *json.Decoder, t *Tree) error {
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		name, plural := trimPluralIndicator(tok.(string))
		if name == "" {
			return fmt.Errorf("empty key below %s", displayPath(t.path))
		}
		key := keyFromString(name)

		tok, err = dec.Token()
		if err != nil {
			return err
		}

		switch v := tok.(type) {
		case json.Delim:
			if v != '{' {
				return fmt.Errorf("unsupported array value for %s", joinKey(t.path, name))
			}
			if plural {
				if err := fillJSONPlural(dec, t.addPlural(key)); err != nil {
					return err
				}
				continue
			}
			if err := fillJSONObject(dec, t.addBranch(key)); err != nil {
				return err
			}
		case string:
			t.addLeaf(key, v)
		case nil:
			t.addLeaf(key, "")
		default:
			t.addLeaf(key, fmt.Sprint(v))
		}
	}

	// closing brace
	_, err := dec.Token()
	return err
}

func fillJSONPlural(dec *json.Decoder, t *Tree) error {
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		name := tok.(string)

		tok, err = dec.Token()
		if err != nil {
			return err
		}
		template, ok := tok.(string)
		if !ok {
			return fmt.Errorf("plural form %s of %s must be a string, got %T", name, t.path, tok)
		}
		if err := t.addVariant(strings.TrimSpace(name), template); err != nil {
			return err
		}
	}
	_, err := dec.Token()
	return err
}

func decodeTranslationsTOML(data []byte, root *Tree) error {
	var raw map[string]any
	md, err := toml.Decode(string(data), &raw)
	if err != nil {
		return fmt.Errorf("toml parse error: %w", err)
	}

	order := make(map[string]int, len(md.Keys()))
	for idx, key := range md.Keys() {
		if _, seen := order[key.String()]; !seen {
			order[key.String()] = idx
		}
	}

	return fillTOMLTable(root, raw, nil, order)
}

func fillTOMLTable(t *Tree, table map[string]any, prefix toml.Key, order map[string]int) error {
	names := make([]string, 0, len(table))
	for name := range table {
		names = append(names, name)
	}
	position := func(name string) (int, bool) {
		key := append(append(toml.Key(nil), prefix...), name)
		idx, ok := order[key.String()]
		return idx, ok
	}
	sort.Slice(names, func(i, j int) bool {
		pi, iok := position(names[i])
		pj, jok := position(names[j])
		if iok && jok {
			return pi < pj
		}
		if iok != jok {
			return iok
		}
		return names[i] < names[j]
	})

	for _, raw := range names {
		name, plural := trimPluralIndicator(raw)
		if name == "" {
			return fmt.Errorf("empty key below %s", displayPath(t.path))
		}
		key := keyFromString(name)
		childPrefix := append(append(toml.Key(nil), prefix...), raw)

		switch v := table[raw].(type) {
		case map[string]any:
			if plural {
				if err := fillTOMLPlural(t.addPlural(key), v, childPrefix, order); err != nil {
					return err
				}
				continue
			}
			if err := fillTOMLTable(t.addBranch(key), v, childPrefix, order); err != nil {
				return err
			}
		case string:
			t.addLeaf(key, v)
		case []any, []map[string]any:
			return fmt.Errorf("unsupported array value for %s", joinKey(t.path, name))
		default:
			t.addLeaf(key, fmt.Sprint(v))
		}
	}
	return nil
}

func fillTOMLPlural(t *Tree, table map[string]any, prefix toml.Key, order map[string]int) error {
	names := make([]string, 0, len(table))
	for name := range table {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		ki := append(append(toml.Key(nil), prefix...), names[i]).String()
		kj := append(append(toml.Key(nil), prefix...), names[j]).String()
		return order[ki] < order[kj]
	})

	for _, name := range names {
		template, ok := table[name].(string)
		if !ok {
			return fmt.Errorf("plural form %s of %s must be a string, got %T", name, t.path, table[name])
		}
		if err := t.addVariant(strings.TrimSpace(name), template); err != nil {
			return err
		}
	}
	return nil
}

// localeFromFileName takes the last dot separated segment of the file stem,
// so both "en.yml" and "active.en.toml" resolve to "en".
func localeFromFileName(file string) (string, error) {
	base := path.Base(filepath.ToSlash(file))
	stem := strings.TrimSuffix(base, path.Ext(base))
	if idx := strings.LastIndex(stem, "."); idx >= 0 {
		stem = stem[idx+1:]
	}

	tag, err := language.Parse(normalizeLocale(stem))
	if err != nil {
		return "", fmt.Errorf("i18n: cannot infer locale from %s: %w", file, err)
	}
	return tag.String(), nil
}

type fileSource struct {
	fsys     fs.FS
	patterns []string
}

func (s fileSource) files() ([]string, error) {
	var files []string
	seen := make(map[string]struct{})

	for _, pattern := range s.patterns {
		if !hasGlobMeta(pattern) {
			if _, ok := seen[pattern]; !ok {
				seen[pattern] = struct{}{}
				files = append(files, pattern)
			}
			continue
		}

		var (
			matches []string
			err     error
		)
		if s.fsys != nil {
			matches, err = fs.Glob(s.fsys, pattern)
		} else {
			matches, err = filepath.Glob(pattern)
		}
		if err != nil {
			return nil, fmt.Errorf("i18n: glob %s: %w", pattern, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("i18n: no files match %s", pattern)
		}

		sort.Strings(matches)
		for _, match := range matches {
			if _, ok := seen[match]; ok {
				continue
			}
			seen[match] = struct{}{}
			files = append(files, match)
		}
	}
	return files, nil
}

func (s fileSource) read(name string) ([]byte, error) {
	if s.fsys != nil {
		return fs.ReadFile(s.fsys, name)
	}
	return os.ReadFile(name)
}

func hasGlobMeta(pattern string) bool {
	return strings.ContainsAny(pattern, "*?[")
}
