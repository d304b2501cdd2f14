package text

import (
	"errors"
)

// Validate walks the whole tree below node and reports every node whose
// child keys include a raw integer, plus any lookup failure met on the way.
// Findings are joined with errors.Join; nil means the tree is clean.
//
// Accessors only check the node they wrap. Validate is meant for load time
// and lint tooling.
func Validate(node Node) error {
	return validate(node, CallerLocation(1))
}

func validate(node Node, loc Location) error {
	if node == nil {
		return ErrNilNode
	}
	var errs []error
	validateNode(node, loc, &errs)
	return errors.Join(errs...)
}

func validateNode(node Node, loc Location, errs *[]error) {
	reported := false
	for _, key := range node.Keys() {
		if key.Numeric {
			if !reported {
				*errs = append(*errs, &MissingPluralError{Path: node.Path(), Terminus: key.Number, Location: loc})
				reported = true
			}
			continue
		}

		child, err := node.Child(key.Name)
		if err != nil {
			*errs = append(*errs, err)
			continue
		}
		if child.IsBranch() {
			validateNode(child, loc, errs)
		}
	}
}

// WalkFunc is called for every leaf reached by Walk
type WalkFunc func(path string, node Node) error

// Walk visits the leaves below node in source order. Numeric keys are
// skipped. A non-nil error from fn stops the walk.
func Walk(node Node, fn WalkFunc) error {
	if node == nil {
		return ErrNilNode
	}
	for _, key := range node.Keys() {
		if key.Numeric {
			continue
		}
		child, err := node.Child(key.Name)
		if err != nil {
			return err
		}
		if child.IsBranch() {
			if err := Walk(child, fn); err != nil {
				return err
			}
			continue
		}
		if err := fn(child.Path(), child); err != nil {
			return err
		}
	}
	return nil
}
