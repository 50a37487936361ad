package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRingAppendBelowCapacity(t *testing.T) {
	t.Parallel()

	r := New[int](5)
	r.Append(1)
	r.Append(2)
	r.Append(3)

	assert.Equal(t, 3, r.Len())
	assert.Equal(t, 5, r.Cap())
	assert.Equal(t, []int{1, 2, 3}, r.Items())
}

func TestRingEvictsOldestFirst(t *testing.T) {
	t.Parallel()

	r := New[int](3)
	for i := 1; i <= 4; i++ {
		r.Append(i)
	}

	// Capacity 3, four appends: the first element is gone.
	assert.Equal(t, 3, r.Len())
	assert.Equal(t, []int{2, 3, 4}, r.Items())

	r.Append(5)
	assert.Equal(t, []int{3, 4, 5}, r.Items())
}

func TestRingTail(t *testing.T) {
	t.Parallel()

	r := New[string](10)
	r.Append("a")
	r.Append("b")
	r.Append("c")

	assert.Equal(t, []string{"b", "c"}, r.Tail(2))
	assert.Equal(t, []string{"a", "b", "c"}, r.Tail(99))
	assert.Empty(t, r.Tail(0))
}

func TestRingCapacityClamp(t *testing.T) {
	t.Parallel()

	r := New[int](0)
	assert.Equal(t, 1, r.Cap())

	r.Append(1)
	r.Append(2)
	assert.Equal(t, []int{2}, r.Items())
}
