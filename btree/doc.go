// Package btree implements an in-memory B-tree of configurable minimum degree.
//
// # Shape
//
// With minimum degree t every node except the root holds between t-1 and
// 2t-1 keys, internal nodes have one more child than keys, and all leaves
// sit at the same depth. Insertion splits full nodes on the way down, so a
// key always lands in a leaf with room. Deletion tops up every child it is
// about to enter (borrowing from a sibling or merging with one), so a key can
// always be removed without walking back up.
//
// # Usage
//
//	tree, err := btree.New[int](3)
//	if err != nil {
//	    return err
//	}
//	_ = tree.Insert(10)
//	_ = tree.Insert(20)
//	node, found := tree.Search(10)
//	keys := tree.Traverse() // [10 20]
//	tree.Delete(10)
//
// Keys are unique; inserting a present key returns ErrDuplicateKey.
//
// A Tree is not safe for concurrent use. Callers that share one must
// serialize access themselves.
package btree
