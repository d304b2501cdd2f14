package text

import (
	"strings"
)

// Accessor exposes the children of one tree node as plain strings or
// nested accessors. It is immutable and safe for concurrent use as long as
// the wrapped tree is not mutated.
type Accessor struct {
	node  Node
	keys  map[string]struct{}
	names []string
	hooks []AccessHook
}

// AccessorOption configures an Accessor built by Wrap
type AccessorOption func(*Accessor)

// WithHooks registers access hooks. Nested accessors inherit them.
func WithHooks(hooks ...AccessHook) AccessorOption {
	return func(a *Accessor) {
		for _, hook := range hooks {
			if hook == nil {
				continue
			}
			a.hooks = append(a.hooks, hook)
		}
	}
}

// Value is the result of a key lookup: either a leaf string or a nested
// accessor over a branch.
type Value struct {
	text     string
	accessor *Accessor
}

// IsBranch reports whether the value wraps a nested accessor
func (v Value) IsBranch() bool {
	return v.accessor != nil
}

// String returns the leaf text, or "" for branches
func (v Value) String() string {
	return v.text
}

// Accessor returns the nested accessor, nil for leaves
func (v Value) Accessor() *Accessor {
	return v.accessor
}

// Wrap builds an Accessor over node. It fails with *MissingPluralError when
// any immediate child key is a raw integer, before any key is registered.
func Wrap(node Node, opts ...AccessorOption) (*Accessor, error) {
	a := &Accessor{}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(a)
	}
	return wrapNode(node, CallerLocation(1), a.hooks)
}

func wrapNode(node Node, loc Location, hooks []AccessHook) (*Accessor, error) {
	if node == nil {
		return nil, ErrNilNode
	}

	keys := node.Keys()
	for _, key := range keys {
		if key.Numeric {
			return nil, &MissingPluralError{Path: node.Path(), Terminus: key.Number, Location: loc}
		}
	}

	a := &Accessor{
		node:  node,
		keys:  make(map[string]struct{}, len(keys)),
		names: make([]string, 0, len(keys)),
		hooks: hooks,
	}
	for _, key := range keys {
		if _, exists := a.keys[key.Name]; exists {
			continue
		}
		a.keys[key.Name] = struct{}{}
		a.names = append(a.names, key.Name)
	}
	return a, nil
}

// Path returns the dotted path of the wrapped node
func (a *Accessor) Path() string {
	if a == nil || a.node == nil {
		return ""
	}
	return a.node.Path()
}

// Node returns the wrapped tree node
func (a *Accessor) Node() Node {
	if a == nil {
		return nil
	}
	return a.node
}

// Keys returns the registered keys in source order
func (a *Accessor) Keys() []string {
	if a == nil || len(a.names) == 0 {
		return nil
	}
	out := make([]string, len(a.names))
	copy(out, a.names)
	return out
}

// Has reports whether key was registered at construction
func (a *Accessor) Has(key string) bool {
	if a == nil {
		return false
	}
	_, ok := a.keys[key]
	return ok
}

// Get resolves key. Branch children come back wrapped, everything else as
// the child's display string. Keys not registered at construction fail with
// *InvalidKeyError.
func (a *Accessor) Get(key string, args ...any) (Value, error) {
	return a.access(CallerLocation(1), key, args)
}

// Text resolves key to a string. Branch children fail with *BranchKeyError.
func (a *Accessor) Text(key string, args ...any) (string, error) {
	loc := CallerLocation(1)
	value, err := a.access(loc, key, args)
	if err != nil {
		return "", err
	}
	if value.IsBranch() {
		return "", &BranchKeyError{Path: value.accessor.Path(), Location: loc}
	}
	return value.text, nil
}

// Sub resolves key to a nested accessor. Leaf children fail with *LeafKeyError.
func (a *Accessor) Sub(key string) (*Accessor, error) {
	loc := CallerLocation(1)
	value, err := a.access(loc, key, nil)
	if err != nil {
		return nil, err
	}
	if !value.IsBranch() {
		return nil, &LeafKeyError{Path: joinKey(a.Path(), key), Location: loc}
	}
	return value.accessor, nil
}

// Resolve walks a dotted path such as "errors.not_found". Args are passed
// to the last segment only.
func (a *Accessor) Resolve(path string, args ...any) (Value, error) {
	return a.resolve(CallerLocation(1), path, args)
}

func (a *Accessor) resolve(loc Location, path string, args []any) (Value, error) {
	segments := strings.Split(path, ".")
	current := a
	for i, segment := range segments {
		last := i == len(segments)-1

		var segmentArgs []any
		if last {
			segmentArgs = args
		}

		value, err := current.access(loc, segment, segmentArgs)
		if err != nil {
			return Value{}, err
		}
		if last {
			return value, nil
		}
		if !value.IsBranch() {
			return Value{}, &InvalidKeyError{
				Path:     joinKey(current.Path(), segment),
				Terminus: segments[i+1],
				Location: loc,
			}
		}
		current = value.accessor
	}
	return Value{}, &InvalidKeyError{Path: a.Path(), Location: loc}
}

func (a *Accessor) access(loc Location, key string, args []any) (Value, error) {
	if len(a.hooksOrNil()) == 0 {
		return a.lookup(loc, key, args)
	}

	// hooks get their own copies; the lookup always runs on key and args
	ctx := &AccessContext{
		Path:     a.Path(),
		Key:      key,
		Args:     append([]any(nil), args...),
		Location: loc,
	}
	for _, hook := range a.hooks {
		hook.BeforeAccess(ctx)
	}

	result, err := a.lookup(loc, key, args)

	ctx.Key = key
	ctx.Result, ctx.Error = result, err
	for _, hook := range a.hooks {
		hook.AfterAccess(ctx)
	}
	return result, err
}

func (a *Accessor) hooksOrNil() []AccessHook {
	if a == nil {
		return nil
	}
	return a.hooks
}

func (a *Accessor) lookup(loc Location, key string, args []any) (Value, error) {
	if a == nil || a.node == nil {
		return Value{}, ErrNilNode
	}

	if _, ok := a.keys[key]; !ok {
		return Value{}, &InvalidKeyError{Path: a.node.Path(), Terminus: key, Location: loc}
	}

	child, err := a.node.Child(key, args...)
	if err != nil {
		return Value{}, err
	}
	if child == nil {
		return Value{}, &InvalidKeyError{Path: a.node.Path(), Terminus: key, Location: loc}
	}

	if child.IsBranch() {
		nested, err := wrapNode(child, loc, a.hooks)
		if err != nil {
			return Value{}, err
		}
		return Value{accessor: nested}, nil
	}

	return Value{text: child.String()}, nil
}
