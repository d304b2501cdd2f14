package text

import (
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	goi18n "github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/pelletier/go-toml/v2"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// MessageFileLoader reads go-i18n message files ("active.en.toml",
// "active.es.json"). Dotted message IDs become branches and messages with
// plural forms become plural nodes.
type MessageFileLoader struct {
	source    fileSource
	formatter Formatter
}

var messageFileUnmarshalers = map[string]goi18n.UnmarshalFunc{
	"toml": toml.Unmarshal,
	"yaml": yaml.Unmarshal,
	"yml":  yaml.Unmarshal,
}

func NewMessageFileLoader(paths ...string) *MessageFileLoader {
	return &MessageFileLoader{source: fileSource{patterns: append([]string(nil), paths...)}}
}

func NewMessageFileFSLoader(fsys fs.FS, patterns ...string) *MessageFileLoader {
	return &MessageFileLoader{source: fileSource{fsys: fsys, patterns: append([]string(nil), patterns...)}}
}

// WithFormatter satisfies the formatterLoader contract used by config wiring.
func (l *MessageFileLoader) WithFormatter(formatter Formatter) Loader {
	if l == nil {
		return l
	}
	l.formatter = formatter
	return l
}

func (l *MessageFileLoader) Load() (Translations, error) {
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

		messageFile, err := goi18n.ParseMessageFileBytes(data, file, messageFileUnmarshalers)
		if err != nil {
			return nil, fmt.Errorf("i18n: decode %s: %w", file, err)
		}
		if messageFile.Tag == language.Und {
			return nil, fmt.Errorf("i18n: cannot infer locale from %s", file)
		}

		locale := messageFile.Tag.String()
		root, ok := catalogs[locale]
		if !ok {
			root = newRoot(newTreeSettings(locale, l.formatter))
			catalogs[locale] = root
		}

		messages := append([]*goi18n.Message(nil), messageFile.Messages...)
		sort.SliceStable(messages, func(i, j int) bool {
			return messages[i].ID < messages[j].ID
		})

		for _, message := range messages {
			if err := fillMessage(root, message); err != nil {
				return nil, fmt.Errorf("i18n: %s: %w", file, err)
			}
		}
	}

	return catalogs, nil
}

func fillMessage(root *Tree, message *goi18n.Message) error {
	if message == nil || message.ID == "" {
		return errors.New("message without id")
	}

	segments := strings.Split(message.ID, ".")
	parent := root
	for _, segment := range segments[:len(segments)-1] {
		if segment == "" {
			return fmt.Errorf("message %q has an empty segment", message.ID)
		}
		key := keyFromString(segment)
		if existing, ok := parent.children[key.Name]; ok && existing.kind != branchNode {
			return fmt.Errorf("message %q conflicts with %q", message.ID, existing.path)
		}
		parent = parent.addBranch(key)
	}

	last := segments[len(segments)-1]
	if last == "" {
		return fmt.Errorf("message %q has an empty segment", message.ID)
	}
	key := keyFromString(last)
	if existing, ok := parent.children[key.Name]; ok && existing.kind == branchNode {
		return fmt.Errorf("message %q conflicts with %q", message.ID, existing.path)
	}

	forms := messageForms(message)
	if len(forms) == 0 {
		parent.addLeaf(key, message.Other)
		return nil
	}

	node := parent.addPlural(key)
	for _, category := range []PluralCategory{PluralZero, PluralOne, PluralTwo, PluralFew, PluralMany, PluralOther} {
		template, ok := forms[category]
		if !ok {
			continue
		}
		if err := node.addVariant(string(category), template); err != nil {
			return err
		}
	}
	return nil
}

// messageForms returns the plural forms of message, or nil when it only
// defines "other".
func messageForms(message *goi18n.Message) map[PluralCategory]string {
	forms := map[PluralCategory]string{}
	for category, template := range map[PluralCategory]string{
		PluralZero: message.Zero,
		PluralOne:  message.One,
		PluralTwo:  message.Two,
		PluralFew:  message.Few,
		PluralMany: message.Many,
	} {
		if template != "" {
			forms[category] = template
		}
	}
	if len(forms) == 0 {
		return nil
	}
	if message.Other != "" {
		forms[PluralOther] = message.Other
	}
	return forms
}
