package btree

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifyDetectsCorruption(t *testing.T) {
	s := testSettings(2)

	cases := []struct {
		name string
		root *Node[int]
		size int
		msg  string
	}{
		{
			name: "keyless root",
			root: leaf(s),
			size: 0,
			msg:  "root has no keys",
		},
		{
			name: "unsorted keys",
			root: leaf(s, 3, 1),
			size: 2,
			msg:  "out of order",
		},
		{
			name: "overfull node",
			root: leaf(s, 1, 2, 3, 4),
			size: 4,
			msg:  "max 3",
		},
		{
			name: "underfull child",
			root: internal(s, []int{10}, leaf(s), leaf(s, 20)),
			size: 2,
			msg:  "min 1",
		},
		{
			name: "missing child",
			root: internal(s, []int{10, 20}, leaf(s, 5), leaf(s, 15)),
			size: 4,
			msg:  "2 keys and 2 children",
		},
		{
			name: "key on wrong side of separator",
			root: internal(s, []int{10}, leaf(s, 5), leaf(s, 7)),
			size: 3,
			msg:  "not above separator",
		},
		{
			name: "uneven leaf depth",
			root: internal(s, []int{10}, leaf(s, 5), internal(s, []int{20}, leaf(s, 15), leaf(s, 25))),
			size: 5,
			msg:  "leaf at depth 2",
		},
		{
			name: "size mismatch",
			root: leaf(s, 1, 2),
			size: 5,
			msg:  "reports 5",
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			tree := &Tree[int]{root: c.root, s: s, size: c.size}
			err := tree.Verify()
			require.ErrorIs(t, err, ErrCorrupted)
			assert.Contains(t, err.Error(), c.msg)
		})
	}
}

func TestVerifyDetectsForeignNode(t *testing.T) {
	s := testSettings(2)
	root := internal(s, []int{10}, leaf(s, 5), leaf(testSettings(2), 15))
	tree := &Tree[int]{root: root, s: s, size: 3}

	assert.ErrorIs(t, tree.Verify(), ErrCorrupted)
}

func TestAssertionsPanicOnCorruption(t *testing.T) {
	tree := newIntTree(t, 2)
	insertAll(t, tree, 1, 2, 3, 4)

	tree.root.children[0].keys = append(tree.root.children[0].keys, 100)

	defer func() {
		r := recover()
		require.NotNil(t, r)
		err, ok := r.(error)
		require.True(t, ok)
		assert.True(t, errors.IsAssertionFailure(err))
	}()
	_ = tree.Insert(50)
	t.Fatal("insert into a corrupted tree did not panic")
}

func TestVerifyAcceptsValidTrees(t *testing.T) {
	tree, err := New[int](3)
	require.NoError(t, err)
	for i := 0; i < 500; i++ {
		require.NoError(t, tree.Insert((i*37)%500))
		require.NoError(t, tree.Verify())
	}
	for i := 0; i < 500; i += 2 {
		require.True(t, tree.Delete(i))
		require.NoError(t, tree.Verify())
	}
	assert.Equal(t, 250, tree.Len())
}
