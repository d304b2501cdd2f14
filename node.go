package text

import "strconv"

// Key is a child key of a translation tree node. Numeric keys are plural
// count slots; they are only legal below a node tagged '!!pl'.
type Key struct {
	Name    string
	Number  int
	Numeric bool
}

// NameKey builds a name-token key
func NameKey(name string) Key {
	return Key{Name: name}
}

// NumberKey builds a numeric key, named by its decimal form
func NumberKey(n int) Key {
	return Key{Name: strconv.Itoa(n), Number: n, Numeric: true}
}

func (k Key) String() string {
	return k.Name
}

// Node is the view of a translation tree the Accessor needs.
type Node interface {
	// Path returns the dotted path of the node, "" for the root
	Path() string
	// Keys returns the node's child keys in source order
	Keys() []Key
	// Child resolves a child by name, forwarding args for interpolation
	// and plural selection
	Child(key string, args ...any) (Node, error)
	// IsBranch reports whether the node has one or more children
	IsBranch() bool
	// String returns the display value of the node
	String() string
}

// parseNumericKey reports whether raw is a plain non-negative decimal integer.
func parseNumericKey(raw string) (int, bool) {
	if raw == "" || (len(raw) > 1 && raw[0] == '0') {
		return 0, false
	}
	for _, r := range raw {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return n, true
}

func keyFromString(raw string) Key {
	if n, ok := parseNumericKey(raw); ok {
		return NumberKey(n)
	}
	return NameKey(raw)
}
