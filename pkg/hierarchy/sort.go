package hierarchy

import (
	"cmp"
	"slices"
)

// CompareSiblings orders nodes by height descending, then value descending.
// Groups therefore come before leaves, and larger siblings before smaller.
func CompareSiblings(a, b *Node) int {
	if c := cmp.Compare(b.Height, a.Height); c != 0 {
		return c
	}
	return cmp.Compare(b.Value, a.Value)
}

// Sort reorders every Children list with CompareSiblings. The sort is stable,
// so siblings that compare equal keep their input order.
func (t *Tree) Sort() {
	for i := range t.Nodes {
		children := t.Nodes[i].Children
		if len(children) < 2 {
			continue
		}
		slices.SortStableFunc(children, func(a, b int) int {
			return CompareSiblings(&t.Nodes[a], &t.Nodes[b])
		})
	}
}
