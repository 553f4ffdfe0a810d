package btree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSettings(degree int) *settings[int] {
	return &settings[int]{degree: degree}
}

func leaf(s *settings[int], keys ...int) *Node[int] {
	n := newNode(s, true)
	n.keys = append(n.keys, keys...)
	return n
}

func internal(s *settings[int], keys []int, children ...*Node[int]) *Node[int] {
	n := newNode(s, false)
	n.keys = append(n.keys, keys...)
	n.children = append(n.children, children...)
	return n
}

func TestNodeFind(t *testing.T) {
	n := leaf(testSettings(3), 10, 20, 30, 40)

	cases := []struct {
		key   int
		pos   int
		found bool
	}{
		{5, 0, false},
		{10, 0, true},
		{15, 1, false},
		{30, 2, true},
		{40, 3, true},
		{45, 4, false},
	}
	for _, c := range cases {
		pos, found := n.find(c.key)
		assert.Equal(t, c.pos, pos, "key %d", c.key)
		assert.Equal(t, c.found, found, "key %d", c.key)
	}
}

func TestSplitLeaf(t *testing.T) {
	n := leaf(testSettings(3), 1, 2, 3, 4, 5)

	median, right := n.split()
	assert.Equal(t, 3, median)
	assert.Equal(t, []int{1, 2}, n.keys)
	assert.Equal(t, []int{4, 5}, right.keys)
	assert.True(t, right.leaf)
}

func TestSplitChildInternal(t *testing.T) {
	s := testSettings(2)
	a, b, c, d := leaf(s, 5), leaf(s, 15), leaf(s, 25), leaf(s, 35)
	child := internal(s, []int{10, 20, 30}, a, b, c, d)
	parent := internal(s, nil, child)

	parent.splitChild(0)

	require.Equal(t, []int{20}, parent.keys)
	require.Len(t, parent.children, 2)
	left, right := parent.children[0], parent.children[1]
	assert.Same(t, child, left)
	assert.Equal(t, []int{10}, left.keys)
	assert.Equal(t, []*Node[int]{a, b}, left.children)
	assert.Equal(t, []int{30}, right.keys)
	assert.Equal(t, []*Node[int]{c, d}, right.children)
	assert.False(t, right.leaf)
}

func TestSplitChildRequiresFullChild(t *testing.T) {
	s := testSettings(2)
	parent := internal(s, []int{10}, leaf(s, 5), leaf(s, 15, 16))

	assert.Panics(t, func() { parent.splitChild(1) })
}

func TestInsertNonFullSplitsOnTheWayDown(t *testing.T) {
	s := testSettings(2)
	parent := internal(s, []int{10}, leaf(s, 5), leaf(s, 20, 30, 40))

	parent.insertNonFull(35)
	assert.Equal(t, []int{10, 30}, parent.keys)
	assert.Equal(t, []int{20}, parent.children[1].keys)
	assert.Equal(t, []int{35, 40}, parent.children[2].keys)

	parent.insertNonFull(25)
	assert.Equal(t, []int{20, 25}, parent.children[1].keys)
}

func TestInsertNonFullRejectsPresentKey(t *testing.T) {
	s := testSettings(2)
	parent := internal(s, []int{10}, leaf(s, 5), leaf(s, 20))

	assert.Panics(t, func() { parent.insertNonFull(20) })
}

func TestSplitClearsVacatedKeys(t *testing.T) {
	n := newNode(&settings[string]{degree: 2}, true)
	n.keys = append(n.keys, "a", "b", "c")

	_, right := n.split()
	assert.Equal(t, []string{"a"}, n.keys)
	assert.Equal(t, []string{"c"}, right.keys)
	assert.Equal(t, []string{"a", "", ""}, n.keys[:3])
}

func TestBorrowFromPrevInternal(t *testing.T) {
	s := testSettings(2)
	a, b, c := leaf(s, 10), leaf(s, 25), leaf(s, 40)
	d, e := leaf(s, 60), leaf(s, 80)
	left := internal(s, []int{20, 30}, a, b, c)
	right := internal(s, []int{70}, d, e)
	parent := internal(s, []int{50}, left, right)

	parent.borrowFromPrev(1)

	assert.Equal(t, []int{30}, parent.keys)
	assert.Equal(t, []int{20}, left.keys)
	assert.Equal(t, []*Node[int]{a, b}, left.children)
	assert.Equal(t, []int{50, 70}, right.keys)
	assert.Equal(t, []*Node[int]{c, d, e}, right.children)
}

func TestBorrowFromNextLeaf(t *testing.T) {
	s := testSettings(2)
	left, right := leaf(s, 10), leaf(s, 30, 40, 50)
	parent := internal(s, []int{20}, left, right)

	parent.borrowFromNext(0)

	assert.Equal(t, []int{30}, parent.keys)
	assert.Equal(t, []int{10, 20}, left.keys)
	assert.Equal(t, []int{40, 50}, right.keys)
}

func TestMerge(t *testing.T) {
	s := testSettings(3)
	first, second, third := leaf(s, 1, 2), leaf(s, 4, 5), leaf(s, 7, 8)
	parent := internal(s, []int{3, 6}, first, second, third)

	parent.merge(0)

	assert.Equal(t, []int{6}, parent.keys)
	assert.Equal(t, []*Node[int]{first, third}, parent.children)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, first.keys)

	assert.Panics(t, func() { parent.merge(1) })
}

func TestMergeRejectsOverflow(t *testing.T) {
	s := testSettings(2)
	parent := internal(s, []int{20}, leaf(s, 10, 15), leaf(s, 30))

	assert.Panics(t, func() { parent.merge(0) })
}

func TestFillPriority(t *testing.T) {
	s := testSettings(2)

	t.Run("left sibling first", func(t *testing.T) {
		parent := internal(s, []int{20, 40}, leaf(s, 10, 15), leaf(s, 30), leaf(s, 50, 60))
		parent.fill(1)
		assert.Equal(t, []int{15, 40}, parent.keys)
		assert.Equal(t, []int{20, 30}, parent.children[1].keys)
		assert.Equal(t, []int{50, 60}, parent.children[2].keys)
	})

	t.Run("right sibling second", func(t *testing.T) {
		parent := internal(s, []int{20, 40}, leaf(s, 10), leaf(s, 30), leaf(s, 50, 60))
		parent.fill(1)
		assert.Equal(t, []int{20, 50}, parent.keys)
		assert.Equal(t, []int{30, 40}, parent.children[1].keys)
	})

	t.Run("merge with right", func(t *testing.T) {
		parent := internal(s, []int{20, 40}, leaf(s, 10), leaf(s, 30), leaf(s, 50))
		parent.fill(1)
		assert.Equal(t, []int{20}, parent.keys)
		assert.Equal(t, []int{30, 40, 50}, parent.children[1].keys)
	})

	t.Run("merge last with left", func(t *testing.T) {
		parent := internal(s, []int{20, 40}, leaf(s, 10), leaf(s, 30), leaf(s, 50))
		parent.fill(2)
		assert.Equal(t, []int{20}, parent.keys)
		require.Len(t, parent.children, 2)
		assert.Equal(t, []int{30, 40, 50}, parent.children[1].keys)
	})
}

func TestNodeAccessorsReturnCopies(t *testing.T) {
	s := testSettings(2)
	n := internal(s, []int{20}, leaf(s, 10), leaf(s, 30))

	keys := n.Keys()
	keys[0] = 99
	children := n.Children()
	children[0] = nil

	assert.Equal(t, []int{20}, n.keys)
	assert.NotNil(t, n.children[0])
	assert.False(t, n.IsLeaf())
	assert.True(t, n.Contains(20))
	assert.False(t, n.Contains(10))
}
