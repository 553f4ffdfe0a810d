package btree

import (
	"fmt"

	"golang.org/x/exp/constraints"
)

// Verify walks the whole tree and returns an error wrapping ErrCorrupted
// describing the first broken invariant, or nil if the tree is well formed.
func (t *Tree[K]) Verify() error {
	if t.root == nil {
		if t.size != 0 {
			return fmt.Errorf("%w: empty tree reports %d keys", ErrCorrupted, t.size)
		}
		return nil
	}
	if len(t.root.keys) == 0 {
		return fmt.Errorf("%w: root has no keys", ErrCorrupted)
	}

	v := verifier[K]{s: t.s, leafDepth: -1}
	if err := v.walk(t.root, 0, nil, nil); err != nil {
		return err
	}
	if v.count != t.size {
		return fmt.Errorf("%w: tree holds %d keys but reports %d", ErrCorrupted, v.count, t.size)
	}
	return nil
}

type verifier[K constraints.Ordered] struct {
	s         *settings[K]
	leafDepth int
	count     int
}

// walk checks n and its subtree; lo and hi, when set, are the exclusive
// bounds inherited from the separators above n.
func (v *verifier[K]) walk(n *Node[K], depth int, lo, hi *K) error {
	if n == nil {
		return fmt.Errorf("%w: nil node at depth %d", ErrCorrupted, depth)
	}
	if n.s != v.s {
		return fmt.Errorf("%w: node at depth %d belongs to another tree", ErrCorrupted, depth)
	}
	if len(n.keys) > v.s.maxKeys() {
		return fmt.Errorf("%w: node at depth %d has %d keys, max %d", ErrCorrupted, depth, len(n.keys), v.s.maxKeys())
	}
	if depth > 0 && len(n.keys) < v.s.minKeys() {
		return fmt.Errorf("%w: node at depth %d has %d keys, min %d", ErrCorrupted, depth, len(n.keys), v.s.minKeys())
	}

	for i, key := range n.keys {
		if i > 0 && !(n.keys[i-1] < key) {
			return fmt.Errorf("%w: keys out of order at depth %d: %v then %v", ErrCorrupted, depth, n.keys[i-1], key)
		}
		if lo != nil && !(*lo < key) {
			return fmt.Errorf("%w: key %v at depth %d not above separator %v", ErrCorrupted, key, depth, *lo)
		}
		if hi != nil && !(key < *hi) {
			return fmt.Errorf("%w: key %v at depth %d not below separator %v", ErrCorrupted, key, depth, *hi)
		}
	}
	v.count += len(n.keys)

	if n.leaf {
		if len(n.children) != 0 {
			return fmt.Errorf("%w: leaf at depth %d has %d children", ErrCorrupted, depth, len(n.children))
		}
		if v.leafDepth == -1 {
			v.leafDepth = depth
		} else if v.leafDepth != depth {
			return fmt.Errorf("%w: leaf at depth %d, others at depth %d", ErrCorrupted, depth, v.leafDepth)
		}
		return nil
	}

	if len(n.children) != len(n.keys)+1 {
		return fmt.Errorf("%w: internal node at depth %d has %d keys and %d children", ErrCorrupted, depth, len(n.keys), len(n.children))
	}
	for i, child := range n.children {
		clo, chi := lo, hi
		if i > 0 {
			clo = &n.keys[i-1]
		}
		if i < len(n.keys) {
			chi = &n.keys[i]
		}
		if err := v.walk(child, depth+1, clo, chi); err != nil {
			return err
		}
	}
	return nil
}
