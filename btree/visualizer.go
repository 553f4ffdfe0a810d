package btree

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/xlab/treeprint"
	"golang.org/x/exp/constraints"
)

var (
	InsertColor = color.New(color.FgGreen, color.Bold)
	DeleteColor = color.New(color.FgRed, color.Bold)
)

// Visualizer draws a tree as an indented hierarchy, one node per line, with
// optional per-key highlighting.
type Visualizer[K constraints.Ordered] struct {
	Tree      *Tree[K]
	highlight map[K]*color.Color
}

// Highlight paints key with c in every later rendering until cleared.
func (v *Visualizer[K]) Highlight(key K, c *color.Color) {
	if v.highlight == nil {
		v.highlight = make(map[K]*color.Color)
	}
	v.highlight[key] = c
}

func (v *Visualizer[K]) ClearHighlights() {
	clear(v.highlight)
}

func (v *Visualizer[K]) Visualize() string {
	root := v.Tree.Root()
	if root == nil {
		return "(empty tree)"
	}
	tp := treeprint.New()
	tp.SetValue(v.label(root))
	v.addChildren(tp, root)
	return strings.TrimRight(tp.String(), "\n")
}

func (v *Visualizer[K]) addChildren(branch treeprint.Tree, n *Node[K]) {
	for _, child := range n.children {
		if child.leaf {
			branch.AddNode(v.label(child))
			continue
		}
		v.addChildren(branch.AddBranch(v.label(child)), child)
	}
}

func (v *Visualizer[K]) label(n *Node[K]) string {
	parts := make([]string, len(n.keys))
	for i, key := range n.keys {
		s := fmt.Sprint(key)
		if c, ok := v.highlight[key]; ok {
			s = c.Sprint(s)
		}
		parts[i] = s
	}
	return "[" + strings.Join(parts, " ") + "]"
}
