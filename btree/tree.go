package btree

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
	"golang.org/x/exp/constraints"
)

// MinDegree is the smallest minimum degree a tree can be built with.
const MinDegree = 2

var (
	ErrInvalidDegree = errors.New("invalid minimum degree")
	ErrDuplicateKey  = errors.New("key already exists")
	ErrInvalidKey    = errors.New("invalid key")
	ErrCorrupted     = errors.New("b-tree invariant violated")
)

/*
Tree only keeps a pointer to the root node of the tree.
A tree is made up of nodes. Each node contains keys and, unless it is a leaf,
one more child than it has keys. A nil root is the empty tree.
*/
type Tree[K constraints.Ordered] struct {
	root   *Node[K]
	s      *settings[K]
	size   int
	assert bool
}

// Option configures a Tree at construction time.
type Option[K constraints.Ordered] func(*Tree[K])

// WithObserver registers o to receive every structural event of the tree.
// It may be given more than once.
func WithObserver[K constraints.Ordered](o Observer[K]) Option[K] {
	return func(t *Tree[K]) {
		t.s.observers = append(t.s.observers, o)
	}
}

// WithAssertions makes the tree verify all invariants after every mutation
// and panic on the first violation.
func WithAssertions[K constraints.Ordered]() Option[K] {
	return func(t *Tree[K]) {
		t.assert = true
	}
}

// New returns an empty tree whose non-root nodes hold between degree-1 and
// 2*degree-1 keys.
func New[K constraints.Ordered](degree int, opts ...Option[K]) (*Tree[K], error) {
	if degree < MinDegree {
		return nil, fmt.Errorf("%w: %d (must be at least %d)", ErrInvalidDegree, degree, MinDegree)
	}
	t := &Tree[K]{s: &settings[K]{degree: degree}}
	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

// Degree returns the minimum degree the tree was built with.
func (t *Tree[K]) Degree() int {
	return t.s.degree
}

// Len returns the number of keys stored in the tree.
func (t *Tree[K]) Len() int {
	return t.size
}

// Root returns the root node, or nil if the tree is empty.
func (t *Tree[K]) Root() *Node[K] {
	return t.root
}

// Height returns the number of levels in the tree; 0 for an empty tree.
func (t *Tree[K]) Height() int {
	h := 0
	for n := t.root; n != nil; h++ {
		if n.leaf {
			return h + 1
		}
		n = n.children[0]
	}
	return h
}

// Search returns the node holding key.
func (t *Tree[K]) Search(key K) (*Node[K], bool) {
	if t.root == nil || isNaN(key) {
		return nil, false
	}
	return t.root.search(key)
}

// Contains reports whether key is stored in the tree.
func (t *Tree[K]) Contains(key K) bool {
	_, found := t.Search(key)
	return found
}

// Min returns the smallest key in the tree.
func (t *Tree[K]) Min() (K, bool) {
	if t.root == nil {
		var zero K
		return zero, false
	}
	return t.root.min(), true
}

// Max returns the largest key in the tree.
func (t *Tree[K]) Max() (K, bool) {
	if t.root == nil {
		var zero K
		return zero, false
	}
	return t.root.max(), true
}

// Traverse returns every key in ascending order. The result is a fresh slice.
func (t *Tree[K]) Traverse() []K {
	if t.root == nil {
		return []K{}
	}
	return t.root.traverse(make([]K, 0, t.size))
}

// Clear drops every node, leaving an empty tree with the same degree.
func (t *Tree[K]) Clear() {
	t.root = nil
	t.size = 0
}

/*
growRoot creates a new root node.
The existing root then becomes the new root's left child.
The node created by splitting the existing root becomes the new root's right child.
This is the only way the tree gets taller.
*/
func (t *Tree[K]) growRoot() {
	newRoot := newNode(t.s, false)
	newRoot.insertChildAt(0, t.root)
	newRoot.splitChild(0)
	t.root = newRoot
	t.s.emit(OpRootGrow, newRoot.keys[0])
}

/*
Insert adds key to the tree.
Keys are unique: inserting a key that is already present returns ErrDuplicateKey
and leaves the tree untouched.
NaN keys are rejected with ErrInvalidKey since they have no place in the order.
*/
func (t *Tree[K]) Insert(key K) error {
	if isNaN(key) {
		return fmt.Errorf("%w: NaN is not ordered", ErrInvalidKey)
	}

	// The tree is empty, so initialize a new leaf root.
	if t.root == nil {
		t.root = newNode(t.s, true)
		t.root.keys = append(t.root.keys, key)
	} else {
		// Look first, so a rejected key never splits anything on the way down.
		if _, found := t.root.search(key); found {
			return ErrDuplicateKey
		}
		// The tree root is full, so perform a split on the root.
		if t.root.isFull() {
			t.growRoot()
		}
		t.root.insertNonFull(key)
	}

	t.size++
	t.s.emit(OpInsert, key)
	t.check()
	return nil
}

// Delete removes key from the tree and reports whether it was present.
// Deleting an absent key is not an error.
func (t *Tree[K]) Delete(key K) bool {
	if t.root == nil || isNaN(key) {
		return false
	}
	removed := t.root.deleteKey(key)

	// A root without keys is either the last emptied leaf or an internal node
	// left with a single child after a merge. Either way the tree gets shorter.
	if len(t.root.keys) == 0 {
		var zero K
		if t.root.leaf {
			t.root = nil
		} else {
			t.root = t.root.children[0]
		}
		t.s.emit(OpRootShrink, zero)
	}

	if removed {
		t.size--
		t.s.emit(OpDelete, key)
	}
	t.check()
	return removed
}

// isNaN reports whether key is a floating point NaN, the only ordered value
// not equal to itself.
func isNaN[K constraints.Ordered](key K) bool {
	return key != key
}

func (t *Tree[K]) check() {
	if !t.assert {
		return
	}
	if err := t.Verify(); err != nil {
		panic(errors.NewAssertionErrorWithWrappedErrf(err, "tree check after mutation"))
	}
}

// String renders the tree in nested in-order form, e.g. [[10] 20 [30 40]].
func (t *Tree[K]) String() string {
	if t.root == nil {
		return "[]"
	}
	var sb strings.Builder
	t.root.format(&sb)
	return sb.String()
}

func (n *Node[K]) format(sb *strings.Builder) {
	sb.WriteByte('[')
	for i, key := range n.keys {
		if !n.leaf {
			n.children[i].format(sb)
			sb.WriteByte(' ')
		}
		if i > 0 && n.leaf {
			sb.WriteByte(' ')
		}
		fmt.Fprint(sb, key)
		if !n.leaf {
			sb.WriteByte(' ')
		}
	}
	if !n.leaf {
		n.children[len(n.keys)].format(sb)
	}
	sb.WriteByte(']')
}
