package vdom

import (
	"sort"

	"github.com/inamate/stage/internal/dom"
)

// domIndex maps each patched preorder index to its live node by walking
// the live tree alongside the virtual tree it was realized from. Subtrees
// that contain no patched index are skipped.
func domIndex(root dom.Node, tree Node, indices []int) map[int]dom.Node {
	nodes := make(map[int]dom.Node, len(indices))
	if len(indices) == 0 {
		return nodes
	}
	indexNodes(root, tree, indices, nodes, 0)
	return nodes
}

func indexNodes(node dom.Node, tree Node, indices []int, nodes map[int]dom.Node, index int) {
	if node == nil {
		return
	}
	if indexInRange(indices, index, index) {
		nodes[index] = node
	}
	v, ok := tree.(*VNode)
	if !ok || len(v.Children) == 0 {
		return
	}
	children := node.ChildNodes()
	for i, child := range v.Children {
		index++
		next := index + countOf(child)
		if i < len(children) && indexInRange(indices, index, next) {
			indexNodes(children[i], child, indices, nodes, index)
		}
		index = next
	}
}

// indexInRange reports whether the sorted indices contain a value in
// [left, right].
func indexInRange(indices []int, left, right int) bool {
	i := sort.SearchInts(indices, left)
	return i < len(indices) && indices[i] <= right
}
