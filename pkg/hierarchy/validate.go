package hierarchy

import (
	"github.com/matzehuels/assetcanvas/pkg/errors"
)

// Validate checks enterprise-wide invariants: every node has a valid id,
// ids are unique across all levels and stored sizes are not negative.
// Unknown region codes are allowed; they render with the fallback color.
func Validate(e *Enterprise) error {
	if e == nil {
		return errors.New(errors.ErrCodeInvalidHierarchy, "enterprise is nil")
	}
	if err := errors.ValidateID(e.ID); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidHierarchy, err, "enterprise id")
	}

	seen := make(map[string]Kind)
	var err error
	Walk(e, func(n Node, _ []Node) bool {
		if err != nil {
			return false
		}
		id := n.NodeID()
		if verr := errors.ValidateID(id); verr != nil {
			err = errors.Wrap(errors.ErrCodeInvalidHierarchy, verr, "%s %q", n.Kind(), n.NodeName())
			return false
		}
		if prev, dup := seen[id]; dup {
			err = errors.New(errors.ErrCodeDuplicateID, "id %q used by both a %s and a %s", id, prev, n.Kind())
			return false
		}
		seen[id] = n.Kind()

		g := n.Geom()
		if (g.Width != nil && *g.Width < 0) || (g.Height != nil && *g.Height < 0) {
			err = errors.New(errors.ErrCodeInvalidHierarchy, "%s %q has a negative size", n.Kind(), id)
			return false
		}
		return true
	})
	return err
}
