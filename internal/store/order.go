package store

import (
	"sort"
	"time"

	"taskorium-cli/internal/model"
)

var (
	_ Sibling = (*model.Project)(nil)
	_ Sibling = (*model.Column)(nil)
	_ Sibling = (*model.Card)(nil)
)

// Sibling is an entity with a per-parent order index.
type Sibling interface {
	OrderIndex() int
	SetOrderIndex(int)
	SortKey() (createdAt time.Time, id string)
}

// Reindex assigns each sibling its 0-based position in xs. It reports whether any order value
// changed. Calling it twice with the same sequence is a no-op the second time.
func Reindex[T Sibling](xs []T) bool {
	changed := false
	for i, x := range xs {
		if x.OrderIndex() != i {
			x.SetOrderIndex(i)
			changed = true
		}
	}
	return changed
}

// SortByOrder sorts siblings in place: order, then createdAt, then id.
// The tie-breakers only matter for damaged state (duplicate orders) and make the result stable.
func SortByOrder[T Sibling](xs []T) {
	sort.SliceStable(xs, func(i, j int) bool {
		return compareSiblings(xs[i], xs[j]) < 0
	})
}

func compareSiblings(a, b Sibling) int {
	oa, ob := a.OrderIndex(), b.OrderIndex()
	if oa < ob {
		return -1
	}
	if oa > ob {
		return 1
	}
	ca, ia := a.SortKey()
	cb, ib := b.SortKey()
	if ca.Before(cb) {
		return -1
	}
	if ca.After(cb) {
		return 1
	}
	if ia < ib {
		return -1
	}
	if ia > ib {
		return 1
	}
	return 0
}

// IsDense reports whether the order values of xs are exactly {0..len(xs)-1}.
func IsDense[T Sibling](xs []T) bool {
	seen := make([]bool, len(xs))
	for _, x := range xs {
		o := x.OrderIndex()
		if o < 0 || o >= len(xs) || seen[o] {
			return false
		}
		seen[o] = true
	}
	return true
}

// ClampIndex clamps i into [0, n].
func ClampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i > n {
		return n
	}
	return i
}

// Remove returns xs without the element at idx, as a new slice.
func Remove[T any](xs []T, idx int) []T {
	out := make([]T, 0, len(xs))
	out = append(out, xs[:idx]...)
	return append(out, xs[idx+1:]...)
}

// Insert returns a new slice with x placed at idx (already clamped by the caller).
func Insert[T any](xs []T, idx int, x T) []T {
	out := make([]T, 0, len(xs)+1)
	out = append(out, xs[:idx]...)
	out = append(out, x)
	return append(out, xs[idx:]...)
}
