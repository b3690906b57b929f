package vdom

// Diff computes the patches that turn a live tree realized from a into one
// equivalent to b. A nil b removes the whole tree. The only error is a thunk
// rendering something that is not a node.
func Diff(a, b Node) (*PatchSet, error) {
	ps := newPatchSet(a)
	d := differ{ps: ps}
	if err := d.walk(a, b, 0); err != nil {
		return nil, err
	}
	return ps, nil
}

type differ struct {
	ps *PatchSet
}

func (d *differ) walk(a, b Node, index int) error {
	if identical(a, b) {
		return nil
	}
	if isThunk(a) || isThunk(b) {
		return d.thunks(a, b, index)
	}

	apply := d.ps.Patches[index]
	clearOld := false

	switch bn := b.(type) {
	case nil:
		// A widget gets exactly one remove patch, which also destroys it.
		if !isWidget(a) {
			if err := d.clearState(a, index); err != nil {
				return err
			}
			apply = d.ps.Patches[index]
		}
		apply = append(apply, Patch{Kind: PatchRemove, Target: a})

	case *VNode:
		an, ok := a.(*VNode)
		if ok && an.Tag == bn.Tag && an.Namespace == bn.Namespace && an.Key == bn.Key {
			if props := diffProps(an.Props, bn.Props); props != nil {
				apply = append(apply, Patch{Kind: PatchProps, Target: a, Props: props})
			}
			var err error
			if apply, err = d.diffChildren(an, bn, apply, index); err != nil {
				return err
			}
		} else {
			apply = append(apply, Patch{Kind: PatchReplace, Target: a, Next: b})
			clearOld = true
		}

	case *VText:
		an, ok := a.(*VText)
		if !ok {
			apply = append(apply, Patch{Kind: PatchText, Target: a, Next: b})
			clearOld = true
		} else if an.Text != bn.Text {
			apply = append(apply, Patch{Kind: PatchText, Target: a, Next: b})
		}

	case Widget:
		if !isWidget(a) {
			clearOld = true
		}
		apply = append(apply, Patch{Kind: PatchWidget, Target: a, Next: b})
	}

	if len(apply) > 0 {
		d.ps.Patches[index] = apply
	}
	if clearOld {
		return d.clearState(a, index)
	}
	return nil
}

func (d *differ) diffChildren(a, b *VNode, apply []Patch, index int) ([]Patch, error) {
	bChildren, moves := reorder(a.Children, b.Children)

	n := max(len(a.Children), len(bChildren))
	for i := 0; i < n; i++ {
		var left, right Node
		if i < len(a.Children) {
			left = a.Children[i]
		}
		if i < len(bChildren) {
			right = bChildren[i]
		}
		index++

		if left == nil {
			if right != nil {
				apply = append(apply, Patch{Kind: PatchInsert, Next: right})
			}
		} else if err := d.walk(left, right, index); err != nil {
			return nil, err
		}

		index += countOf(left)
	}

	if moves != nil {
		apply = append(apply, Patch{Kind: PatchOrder, Target: a, Moves: moves})
	}
	return apply, nil
}

// clearState emits the unhook and widget-destroy patches for a subtree that
// is going away. They have to be patches: the live node is only reachable
// through the index walk, not after removal.
func (d *differ) clearState(v Node, index int) error {
	if err := d.unhook(v, index); err != nil {
		return err
	}
	return d.destroyWidgets(v, index)
}

func (d *differ) unhook(v Node, index int) error {
	switch x := v.(type) {
	case *VNode:
		if x.hooks != nil {
			props := make(Props, len(x.hooks))
			for name := range x.hooks {
				props[name] = nil
			}
			d.ps.append(index, Patch{Kind: PatchProps, Target: x, Props: props})
		}
		if x.descendantHooks || x.hasThunks {
			for _, child := range x.Children {
				index++
				if err := d.unhook(child, index); err != nil {
					return err
				}
				index += countOf(child)
			}
		}
	case *Thunk:
		return d.thunks(x, nil, index)
	}
	return nil
}

// destroyWidgets leaves thunks alone; unhook already nested their removal.
func (d *differ) destroyWidgets(v Node, index int) error {
	switch x := v.(type) {
	case *VNode:
		if x.hasWidgets {
			for _, child := range x.Children {
				index++
				if err := d.destroyWidgets(child, index); err != nil {
					return err
				}
				index += countOf(child)
			}
		}
	case Widget:
		if _, ok := x.(WidgetDestroyer); ok {
			d.ps.append(index, Patch{Kind: PatchRemove, Target: x})
		}
	}
	return nil
}

// thunks diffs the rendered sides of a thunk pair and nests the result.
func (d *differ) thunks(a, b Node, index int) error {
	ra, rb, err := handleThunk(a, b)
	if err != nil {
		return err
	}
	sub, err := Diff(ra, rb)
	if err != nil {
		return err
	}
	if sub.HasPatches() {
		d.ps.append(index, Patch{Kind: PatchThunk, Thunk: sub})
	}
	return nil
}
