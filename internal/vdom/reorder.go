package vdom

// reorder aligns the new children with the old ones so that keyed children
// are diffed against their previous incarnation, and computes the moves that
// bring the live children into the new order. Unkeyed children fill the free
// slots in order. Moves is nil when only deletions are needed.
func reorder(aChildren, bChildren []Node) ([]Node, *Moves) {
	bKeys, bFree := keyIndex(bChildren)
	if len(bFree) == len(bChildren) {
		return bChildren, nil
	}
	aKeys, aFree := keyIndex(aChildren)
	if len(aFree) == len(aChildren) {
		return bChildren, nil
	}

	aligned := make([]Node, 0, len(aChildren)+len(bChildren))
	freeIndex := 0
	deletedItems := 0

	for _, aItem := range aChildren {
		if key := keyOf(aItem); key != "" {
			if idx, ok := bKeys[key]; ok {
				aligned = append(aligned, bChildren[idx])
			} else {
				aligned = append(aligned, nil)
				deletedItems++
			}
			continue
		}
		if freeIndex < len(bFree) {
			aligned = append(aligned, bChildren[bFree[freeIndex]])
			freeIndex++
		} else {
			aligned = append(aligned, nil)
			deletedItems++
		}
	}

	lastFreeIndex := len(bChildren)
	if freeIndex < len(bFree) {
		lastFreeIndex = bFree[freeIndex]
	}

	// Append new keyed children and any unkeyed ones beyond the matched free slots.
	for j, bItem := range bChildren {
		if key := keyOf(bItem); key != "" {
			if _, ok := aKeys[key]; !ok {
				aligned = append(aligned, bItem)
			}
		} else if j >= lastFreeIndex {
			aligned = append(aligned, bItem)
		}
	}

	simulate := make([]Node, len(aligned))
	copy(simulate, aligned)
	simulateIndex := 0
	var removes []Remove
	var inserts []Insert

	at := func(i int) Node {
		if i < len(simulate) {
			return simulate[i]
		}
		return nil
	}
	remove := func(i int, key string) {
		simulate = append(simulate[:i], simulate[i+1:]...)
		removes = append(removes, Remove{From: i, Key: key})
	}

	for k := 0; k < len(bChildren); {
		wanted := bChildren[k]
		wantedKey := keyOf(wanted)

		for simulateIndex < len(simulate) && simulate[simulateIndex] == nil {
			remove(simulateIndex, "")
		}
		simItem := at(simulateIndex)

		if simItem != nil && keyOf(simItem) == wantedKey {
			simulateIndex++
			k++
			continue
		}

		if wantedKey == "" {
			if simItem != nil && keyOf(simItem) != "" {
				remove(simulateIndex, keyOf(simItem))
			}
			continue
		}

		simKey := keyOf(simItem)
		switch {
		case simItem == nil || simKey == "":
			inserts = append(inserts, Insert{Key: wantedKey, To: k})
		case bKeys[simKey] != k+1:
			// The item in the way is not simply the next wanted one: move it out.
			remove(simulateIndex, simKey)
			if next := at(simulateIndex); next != nil && keyOf(next) == wantedKey {
				simulateIndex++
			} else {
				inserts = append(inserts, Insert{Key: wantedKey, To: k})
			}
		default:
			inserts = append(inserts, Insert{Key: wantedKey, To: k})
		}
		k++
	}

	for simulateIndex < len(simulate) {
		remove(simulateIndex, keyOf(simulate[simulateIndex]))
	}

	if len(removes) == deletedItems && len(inserts) == 0 {
		return aligned, nil
	}
	return aligned, &Moves{Removes: removes, Inserts: inserts}
}

func keyIndex(children []Node) (map[string]int, []int) {
	keys := make(map[string]int)
	var free []int
	for i, child := range children {
		if key := keyOf(child); key != "" {
			keys[key] = i
		} else {
			free = append(free, i)
		}
	}
	return keys, free
}
