package sidebar

import "github.com/google/go-cmp/cmp"

// Diff reports the structural differences between two sets of sidebars. The
// result is empty when they are identical, including order.
func Diff(a, b Sidebars) string {
	return cmp.Diff(a, b)
}

// Equal reports whether two sets of sidebars are structurally identical.
func Equal(a, b Sidebars) bool {
	return cmp.Equal(a, b)
}
