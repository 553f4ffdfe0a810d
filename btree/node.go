package btree

import (
	"github.com/cockroachdb/errors"
	"golang.org/x/exp/constraints"
	"golang.org/x/exp/slices"
)

// settings are shared by every node of one tree, so all nodes agree on the degree.
type settings[K constraints.Ordered] struct {
	degree    int // min child pointers a non-root internal node can have
	observers []Observer[K]
}

func (s *settings[K]) maxKeys() int { return 2*s.degree - 1 }
func (s *settings[K]) minKeys() int { return s.degree - 1 }

func (s *settings[K]) emit(op Op, key K) {
	for _, o := range s.observers {
		o.Observe(Event[K]{Op: op, Key: key})
	}
}

// Node is a single B-tree node. Its structure can be read through the
// accessor methods; it is only ever modified by the owning Tree.
type Node[K constraints.Ordered] struct {
	// allocated with full capacity up front so insertions, borrows and
	// merges never have to grow the backing arrays.
	keys     []K
	children []*Node[K]
	leaf     bool
	s        *settings[K]
}

func newNode[K constraints.Ordered](s *settings[K], leaf bool) *Node[K] {
	n := &Node[K]{
		keys: make([]K, 0, s.maxKeys()),
		leaf: leaf,
		s:    s,
	}
	if !leaf {
		n.children = make([]*Node[K], 0, s.maxKeys()+1)
	}
	return n
}

// Keys returns a copy of the keys held by n in ascending order.
func (n *Node[K]) Keys() []K {
	return slices.Clone(n.keys)
}

// Children returns the child nodes of n. It is empty for leaves.
func (n *Node[K]) Children() []*Node[K] {
	return slices.Clone(n.children)
}

// IsLeaf reports whether n has no children.
func (n *Node[K]) IsLeaf() bool {
	return n.leaf
}

// Contains reports whether key is stored in n itself (not its subtree).
func (n *Node[K]) Contains(key K) bool {
	if isNaN(key) {
		return false
	}
	_, found := n.find(key)
	return found
}

func (n *Node[K]) isFull() bool {
	return len(n.keys) >= n.s.maxKeys()
}

/*
If key is found in node n, return its index i.
Else, return the index j where the key would have resided if it was present in the node.
This is the lower bound of the key in the node and coincides with the position of the
child pointer to follow, so the descent continues at children[j] when found is false.
*/
func (n *Node[K]) find(key K) (int, bool) {
	low, high := 0, len(n.keys)
	var mid int
	for low < high {
		mid = (low + high) / 2
		switch k := n.keys[mid]; {
		case key > k:
			low = mid + 1
		case key < k:
			high = mid
		default:
			return mid, true
		}
	}
	return low, false
}

func (n *Node[K]) insertKeyAt(pos int, key K) {
	n.keys = slices.Insert(n.keys, pos, key)
}

func (n *Node[K]) insertChildAt(pos int, child *Node[K]) {
	n.children = slices.Insert(n.children, pos, child)
}

func (n *Node[K]) removeKeyAt(pos int) K {
	key := n.keys[pos]
	n.keys = slices.Delete(n.keys, pos, pos+1)
	return key
}

func (n *Node[K]) removeChildAt(pos int) *Node[K] {
	child := n.children[pos]
	n.children = slices.Delete(n.children, pos, pos+1)
	return child
}

// search returns the node holding key in the subtree rooted at n.
func (n *Node[K]) search(key K) (*Node[K], bool) {
	for next := n; ; {
		pos, found := next.find(key)
		if found {
			return next, true
		}
		if next.leaf {
			return nil, false
		}
		next = next.children[pos]
	}
}

// traverse appends the keys of the subtree rooted at n to dst in order.
func (n *Node[K]) traverse(dst []K) []K {
	if n.leaf {
		return append(dst, n.keys...)
	}
	for i, key := range n.keys {
		dst = n.children[i].traverse(dst)
		dst = append(dst, key)
	}
	return n.children[len(n.keys)].traverse(dst)
}

/*
split cuts a full node around its median, which sits at index degree-1.
n keeps the keys (and children) left of the median, the returned node
receives the ones to its right. The median itself is handed back so the
caller can lift it into the parent.
Note: this doesn't link anything into a parent. For that check splitChild() below
and growRoot() in tree.go.
*/
func (n *Node[K]) split() (K, *Node[K]) {
	mid := n.s.minKeys()
	median := n.keys[mid]

	right := newNode(n.s, n.leaf)
	right.keys = append(right.keys, n.keys[mid+1:]...)
	clear(n.keys[mid:])
	n.keys = n.keys[:mid]

	if !n.leaf {
		right.children = append(right.children, n.children[mid+1:]...)
		clear(n.children[mid+1:])
		n.children = n.children[:mid+1]
	}
	return median, right
}

// splitChild splits the full child at index i, lifting its median into n at
// keys[i] and linking the new right sibling at children[i+1].
func (n *Node[K]) splitChild(i int) {
	child := n.children[i]
	if !child.isFull() {
		panic(errors.AssertionFailedf("split of child %d with %d keys, want %d", i, len(child.keys), n.s.maxKeys()))
	}
	median, right := child.split()
	n.insertKeyAt(i, median)
	n.insertChildAt(i+1, right)
	n.s.emit(OpSplit, median)
}

/*
insertNonFull places key in the subtree rooted at n, which must have room for one more key.
We split as soon as we reach the parent of a child that is already full, so the recursion
never descends into a node that cannot take the key (or a median lifted from below).
The caller has already checked that key is absent.
*/
func (n *Node[K]) insertNonFull(key K) {
	pos, found := n.find(key)
	if found {
		panic(errors.AssertionFailedf("insert of present key %v", key))
	}

	if n.leaf {
		n.insertKeyAt(pos, key)
		return
	}

	if n.children[pos].isFull() {
		n.splitChild(pos)

		// The lifted median may change our direction.
		if key > n.keys[pos] {
			pos++
		}
	}
	n.children[pos].insertNonFull(key)
}

/*
deleteKey removes key from the subtree rooted at n and reports whether it was there.
Every child we descend into is first topped up to at least degree keys (see fill),
so the removal at the bottom can never leave a node below the minimum.
*/
func (n *Node[K]) deleteKey(key K) bool {
	idx, found := n.find(key)

	if found {
		if n.leaf {
			n.removeKeyAt(idx)
			return true
		}
		return n.deleteFromNonLeaf(idx)
	}

	if n.leaf {
		return false
	}

	last := idx == len(n.keys)
	if len(n.children[idx].keys) == n.s.minKeys() {
		n.fill(idx)
	}

	// Filling the last child merges it into its left sibling, which shifts it down by one.
	if last && idx > len(n.keys) {
		return n.children[idx-1].deleteKey(key)
	}
	return n.children[idx].deleteKey(key)
}

// deleteFromNonLeaf removes keys[idx] from an internal node.
func (n *Node[K]) deleteFromNonLeaf(idx int) bool {
	key := n.keys[idx]
	left, right := n.children[idx], n.children[idx+1]

	switch {
	case len(left.keys) > n.s.minKeys():
		pred := left.max()
		n.keys[idx] = pred
		n.s.emit(OpPredecessor, pred)
		return left.deleteKey(pred)
	case len(right.keys) > n.s.minKeys():
		succ := right.min()
		n.keys[idx] = succ
		n.s.emit(OpSuccessor, succ)
		return right.deleteKey(succ)
	default:
		n.merge(idx)
		return left.deleteKey(key)
	}
}

// min returns the smallest key in the subtree rooted at n.
func (n *Node[K]) min() K {
	cur := n
	for !cur.leaf {
		cur = cur.children[0]
	}
	return cur.keys[0]
}

// max returns the largest key in the subtree rooted at n.
func (n *Node[K]) max() K {
	cur := n
	for !cur.leaf {
		cur = cur.children[len(cur.children)-1]
	}
	return cur.keys[len(cur.keys)-1]
}

// fill tops up children[idx], which holds only degree-1 keys.
func (n *Node[K]) fill(idx int) {
	switch {
	case idx > 0 && len(n.children[idx-1].keys) > n.s.minKeys():
		n.borrowFromPrev(idx)
	case idx < len(n.keys) && len(n.children[idx+1].keys) > n.s.minKeys():
		n.borrowFromNext(idx)
	case idx < len(n.keys):
		n.merge(idx)
	default:
		n.merge(idx - 1)
	}
}

// borrowFromPrev rotates the last key of children[idx-1] up into n and the
// separator keys[idx-1] down into the front of children[idx].
func (n *Node[K]) borrowFromPrev(idx int) {
	child, sibling := n.children[idx], n.children[idx-1]
	sep := n.keys[idx-1]

	child.insertKeyAt(0, sep)
	if !child.leaf {
		child.insertChildAt(0, sibling.removeChildAt(len(sibling.children)-1))
	}
	n.keys[idx-1] = sibling.removeKeyAt(len(sibling.keys) - 1)
	n.s.emit(OpBorrowLeft, sep)
}

// borrowFromNext is the mirror image of borrowFromPrev.
func (n *Node[K]) borrowFromNext(idx int) {
	child, sibling := n.children[idx], n.children[idx+1]
	sep := n.keys[idx]

	child.keys = append(child.keys, sep)
	if !child.leaf {
		child.children = append(child.children, sibling.removeChildAt(0))
	}
	n.keys[idx] = sibling.removeKeyAt(0)
	n.s.emit(OpBorrowRight, sep)
}

// merge fuses children[idx], keys[idx] and children[idx+1] into children[idx].
// The right sibling is dropped from n and becomes garbage.
func (n *Node[K]) merge(idx int) {
	if idx < 0 || idx+1 >= len(n.children) {
		panic(errors.AssertionFailedf("merge at %d in node with %d children", idx, len(n.children)))
	}
	child, sibling := n.children[idx], n.children[idx+1]
	if len(child.keys)+len(sibling.keys)+1 > n.s.maxKeys() {
		panic(errors.AssertionFailedf("merge of %d and %d keys overflows node", len(child.keys), len(sibling.keys)))
	}
	sep := n.keys[idx]

	child.keys = append(child.keys, sep)
	child.keys = append(child.keys, sibling.keys...)
	if !child.leaf {
		child.children = append(child.children, sibling.children...)
	}

	n.removeKeyAt(idx)
	n.removeChildAt(idx + 1)
	n.s.emit(OpMerge, sep)
}
