package tree

// RestoreSelection finds the index of the item whose Key matches
// previousKey in items; if not found, it clamps the prior index into the
// new item count so a cursor pointing past the end of a shrunk list still
// lands on something rather than going out of bounds. This is how the
// selection survives an expand/collapse that rebuilds the item sequence.
func RestoreSelection(items []Item, previousKey string, previousIndex int) int {
	if previousKey != "" {
		for i, it := range items {
			if it.Key() == previousKey {
				return i
			}
		}
	}
	if len(items) == 0 {
		return 0
	}
	if previousIndex >= len(items) {
		return len(items) - 1
	}
	if previousIndex < 0 {
		return 0
	}
	return previousIndex
}
