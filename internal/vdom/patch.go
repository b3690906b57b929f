package vdom

import "sort"

// PatchKind identifies the operation a Patch performs.
type PatchKind uint8

const (
	PatchNone PatchKind = iota
	PatchText
	PatchReplace
	PatchWidget
	PatchProps
	PatchOrder
	PatchInsert
	PatchRemove
	PatchThunk
)

// String returns the lower-case name of the kind.
func (k PatchKind) String() string {
	switch k {
	case PatchNone:
		return "none"
	case PatchText:
		return "text"
	case PatchReplace:
		return "replace"
	case PatchWidget:
		return "widget"
	case PatchProps:
		return "props"
	case PatchOrder:
		return "order"
	case PatchInsert:
		return "insert"
	case PatchRemove:
		return "remove"
	case PatchThunk:
		return "thunk"
	default:
		return "unknown"
	}
}

// Patch is one operation against the live node at its index.
//
//	Text, Replace, Widget, Insert: Next holds the new node
//	Props:                          Props holds the property diff
//	Order:                          Moves holds the child moves
//	Thunk:                          Thunk holds the nested patch set
//
// Target is the node from the previous tree the patch was computed against.
type Patch struct {
	Kind   PatchKind
	Target Node
	Next   Node
	Props  Props
	Moves  *Moves
	Thunk  *PatchSet
}

// Moves reorders the children of a keyed parent: removes run first, in
// order, then inserts.
type Moves struct {
	Removes []Remove
	Inserts []Insert
}

// Remove takes the child at From out of the list; a keyed child is kept for
// reinsertion.
type Remove struct {
	From int
	Key  string
}

// Insert places the child removed under Key at position To.
type Insert struct {
	Key string
	To  int
}

// PatchSet is the result of one Diff. Patches is keyed by preorder index
// in the previous tree; Root is that tree.
type PatchSet struct {
	Root    Node
	Patches map[int][]Patch
}

func newPatchSet(root Node) *PatchSet {
	return &PatchSet{Root: root, Patches: make(map[int][]Patch)}
}

func (ps *PatchSet) append(index int, p Patch) {
	ps.Patches[index] = append(ps.Patches[index], p)
}

// Indices returns the patched indices in ascending order.
func (ps *PatchSet) Indices() []int {
	indices := make([]int, 0, len(ps.Patches))
	for i := range ps.Patches {
		indices = append(indices, i)
	}
	sort.Ints(indices)
	return indices
}

// HasPatches reports whether applying the set would change anything.
func (ps *PatchSet) HasPatches() bool {
	return ps != nil && len(ps.Patches) > 0
}

// Count tallies patches by kind, including those nested in thunk patches.
func (ps *PatchSet) Count() map[PatchKind]int {
	counts := make(map[PatchKind]int)
	ps.count(counts)
	return counts
}

func (ps *PatchSet) count(counts map[PatchKind]int) {
	if ps == nil {
		return
	}
	for _, list := range ps.Patches {
		for _, p := range list {
			counts[p.Kind]++
			if p.Kind == PatchThunk {
				p.Thunk.count(counts)
			}
		}
	}
}
