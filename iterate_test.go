package hashtab

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFilled(t *testing.T, n int, opts ...Option) *Table[int] {
	t.Helper()
	tbl := New[int](nil, opts...)
	for i := range n {
		require.NoError(t, tbl.Add(fmt.Sprintf("key-%03d", i), i))
	}
	return tbl
}

func TestForEachVisitsAll(t *testing.T) {
	tbl := newFilled(t, 300)

	seen := map[string]int{}
	require.NoError(t, tbl.ForEach(func(v int, name string) error {
		seen[name] = v
		return nil
	}))

	assert.Len(t, seen, 300)
	for i := range 300 {
		assert.Equal(t, i, seen[fmt.Sprintf("key-%03d", i)])
	}
}

func TestForEachAbort(t *testing.T) {
	tbl := newFilled(t, 50)
	errStop := errors.New("stop")

	var calls int
	err := tbl.ForEach(func(int, string) error {
		calls++
		if calls == 3 {
			return errStop
		}
		return nil
	})

	assert.ErrorIs(t, err, errStop)
	assert.Equal(t, 3, calls)
}

func TestForEachRemoveCurrent(t *testing.T) {
	rec := newFreeRecorder()
	tbl := New(rec.free, WithHashFunc(constHash))
	for i := range 5 {
		require.NoError(t, tbl.Add(fmt.Sprintf("k%d", i), i))
	}

	var calls int
	require.NoError(t, tbl.ForEach(func(_ int, name string) error {
		calls++
		return tbl.Remove(name)
	}))

	assert.Equal(t, 5, calls)
	assert.Equal(t, 0, tbl.Size())
	assert.Equal(t, 5, rec.total())
}

func TestForEachReplaceCurrent(t *testing.T) {
	rec := newFreeRecorder()
	tbl := New(rec.free)
	for i := range 100 {
		require.NoError(t, tbl.Add(fmt.Sprintf("key-%d", i), i))
	}

	visits := map[string]int{}
	require.NoError(t, tbl.ForEach(func(v int, name string) error {
		visits[name]++
		return tbl.Update(name, v+100)
	}))

	assert.Len(t, visits, 100)
	for i := range 100 {
		name := fmt.Sprintf("key-%d", i)
		assert.Equal(t, 1, visits[name], name)

		v, ok := tbl.Lookup(name)
		require.True(t, ok)
		assert.Equal(t, i+100, v)
		assert.Equal(t, 1, rec.calls[i], "old payload of %s freed once", name)
	}
	assert.Equal(t, 100, tbl.Size())
	assert.Equal(t, 100, rec.total())
}

func TestForEachInvalid(t *testing.T) {
	var nilTable *Table[int]
	fn := func(int, string) error { return nil }

	assert.ErrorIs(t, nilTable.ForEach(fn), ErrInvalidArgument)
	assert.ErrorIs(t, nilTable.ForEachSafe(fn), ErrInvalidArgument)
	assert.ErrorIs(t, nilTable.ForEachSorted(fn), ErrInvalidArgument)

	tbl := New[int](nil)
	assert.ErrorIs(t, tbl.ForEach(nil), ErrInvalidArgument)
	assert.ErrorIs(t, tbl.ForEachSafe(nil), ErrInvalidArgument)
	assert.ErrorIs(t, tbl.ForEachSorted(nil), ErrInvalidArgument)
}

func TestForEachSafeRemovesAnything(t *testing.T) {
	tbl := newFilled(t, 100)

	// Each visit removes its own entry and one other, still-unvisited key.
	var calls int
	require.NoError(t, tbl.ForEachSafe(func(v int, name string) error {
		calls++
		_ = tbl.Remove(name)
		_ = tbl.Remove(fmt.Sprintf("key-%03d", 99-v))
		return nil
	}))

	assert.Equal(t, 100, calls, "snapshot is walked in full")
	assert.Equal(t, 0, tbl.Size())
}

func TestForEachSafeAbort(t *testing.T) {
	tbl := newFilled(t, 10)
	errStop := errors.New("stop")

	err := tbl.ForEachSafe(func(int, string) error { return errStop })
	assert.ErrorIs(t, err, errStop)
}

func TestForEachSorted(t *testing.T) {
	tbl := New[int](nil)
	require.NoError(t, tbl.Add("b", 2))
	require.NoError(t, tbl.Add("a", 1))
	require.NoError(t, tbl.Add("c", 3))

	var names []string
	require.NoError(t, tbl.ForEachSorted(func(_ int, name string) error {
		names = append(names, name)
		return nil
	}))

	assert.Equal(t, []string{"a", "b", "c"}, names)
}

func TestForEachSortedBytewise(t *testing.T) {
	tbl := New[int](nil)
	for i, name := range []string{"b", "B", "a", "ab", "", "\xff", "Z"} {
		require.NoError(t, tbl.Add(name, i))
	}

	var names []string
	require.NoError(t, tbl.ForEachSorted(func(_ int, name string) error {
		names = append(names, name)
		return nil
	}))

	assert.Equal(t, []string{"", "B", "Z", "a", "ab", "b", "\xff"}, names)
}

func TestAll(t *testing.T) {
	tbl := newFilled(t, 40)

	seen := map[string]int{}
	for name, v := range tbl.All() {
		seen[name] = v
	}
	assert.Len(t, seen, 40)

	var n int
	for range tbl.All() {
		n++
		if n == 5 {
			break
		}
	}
	assert.Equal(t, 5, n)

	var nilTable *Table[int]
	for range nilTable.All() {
		t.Fatal("nil table yielded an entry")
	}
}

func TestRemoveSet(t *testing.T) {
	rec := newFreeRecorder()
	tbl := New(rec.free)
	for i := range 100 {
		require.NoError(t, tbl.Add(fmt.Sprintf("key-%d", i), i))
	}

	n, err := tbl.RemoveSet(func(v int, _ string) bool { return v%2 == 0 })
	require.NoError(t, err)

	assert.Equal(t, 50, n)
	assert.Equal(t, 50, tbl.Size())
	assert.Equal(t, 50, rec.total())
	for i := range 100 {
		assert.Equal(t, i%2 == 1, tbl.HasEntry(fmt.Sprintf("key-%d", i)))
	}

	n, err = tbl.RemoveSet(func(int, string) bool { return false })
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestRemoveSetSameChain(t *testing.T) {
	tbl := New[int](nil, WithHashFunc(constHash))
	for i := range 8 {
		require.NoError(t, tbl.Add(fmt.Sprintf("k%d", i), i))
	}

	// Adjacent matches in a single chain
	n, err := tbl.RemoveSet(func(v int, _ string) bool { return v != 0 && v != 5 })
	require.NoError(t, err)

	assert.Equal(t, 6, n)
	assert.Equal(t, []KeyValue[int]{{"k0", 0}, {"k5", 5}}, tbl.Items(false))
}

func TestRemoveSetInvalid(t *testing.T) {
	var nilTable *Table[int]
	n, err := nilTable.RemoveSet(func(int, string) bool { return true })
	assert.ErrorIs(t, err, ErrInvalidArgument)
	assert.Equal(t, -1, n)

	n, err = New[int](nil).RemoveSet(nil)
	assert.ErrorIs(t, err, ErrInvalidArgument)
	assert.Equal(t, -1, n)
}

func TestRemoveAll(t *testing.T) {
	rec := newFreeRecorder()
	tbl := New(rec.free)
	for i := range 300 {
		require.NoError(t, tbl.Add(fmt.Sprintf("key-%d", i), i))
	}
	capBefore := tbl.Cap()

	tbl.RemoveAll()

	assert.Equal(t, 0, tbl.Size())
	assert.Equal(t, 300, rec.total())
	assert.Equal(t, capBefore, tbl.Cap(), "tables never shrink")
	assert.Equal(t, tbl.Cap(), tbl.Stats().EmptyBuckets)

	// Still usable
	require.NoError(t, tbl.Add("key-1", 1))
	assert.Equal(t, 1, tbl.Size())
}

func TestSearch(t *testing.T) {
	tbl := newFilled(t, 100)

	v, name, ok := tbl.Search(func(v int, _ string) bool { return v == 42 })
	assert.True(t, ok)
	assert.Equal(t, 42, v)
	assert.Equal(t, "key-042", name)

	_, _, ok = tbl.Search(func(v int, _ string) bool { return v > 1000 })
	assert.False(t, ok)

	_, _, ok = tbl.Search(nil)
	assert.False(t, ok)
}

func TestSearchFirstInBucketOrder(t *testing.T) {
	tbl := newFilled(t, 100, WithSeed(3))

	var first string
	require.NoError(t, tbl.ForEach(func(v int, name string) error {
		if first == "" && v%10 == 0 {
			first = name
		}
		return nil
	}))

	_, name, ok := tbl.Search(func(v int, _ string) bool { return v%10 == 0 })
	assert.True(t, ok)
	assert.Equal(t, first, name)
}

func TestItems(t *testing.T) {
	tbl := newFilled(t, 500)

	items := tbl.Items(true)
	assert.Len(t, items, tbl.Size())
	assert.True(t, slices.IsSortedFunc(items, func(a, b KeyValue[int]) int {
		return strings.Compare(a.Key, b.Key)
	}))
	for i, item := range items {
		assert.Equal(t, fmt.Sprintf("key-%03d", i), item.Key)
		assert.Equal(t, i, item.Value)
	}

	unsorted := tbl.Items(false)
	assert.Len(t, unsorted, 500)
	assert.ElementsMatch(t, items, unsorted)

	assert.Empty(t, New[int](nil).Items(true))

	var nilTable *Table[int]
	assert.Nil(t, nilTable.Items(false))
}

func TestEqual(t *testing.T) {
	cmp := func(a, b int) int { return a - b }

	t1 := newFilled(t, 100)
	t2 := newFilled(t, 100)

	t.Run("same table", func(t *testing.T) {
		assert.True(t, Equal(t1, t1, cmp))
		var nilTable *Table[int]
		assert.True(t, Equal(nilTable, nilTable, cmp))
	})

	t.Run("same contents", func(t *testing.T) {
		assert.True(t, Equal(t1, t2, cmp))
		assert.True(t, Equal(t2, t1, cmp))
	})

	t.Run("different sizes", func(t *testing.T) {
		t3 := newFilled(t, 99)
		assert.False(t, Equal(t1, t3, cmp))
		assert.False(t, Equal(t3, t1, cmp))
	})

	t.Run("different value", func(t *testing.T) {
		t3 := newFilled(t, 100)
		require.NoError(t, t3.Update("key-050", -1))
		assert.False(t, Equal(t1, t3, cmp))
	})

	t.Run("different key", func(t *testing.T) {
		t3 := newFilled(t, 100)
		v, ok := t3.Steal("key-050")
		require.True(t, ok)
		require.NoError(t, t3.Add("other", v))
		assert.False(t, Equal(t1, t3, cmp))
		assert.False(t, Equal(t3, t1, cmp))
	})

	t.Run("comparator", func(t *testing.T) {
		t3 := New[int](nil)
		for i := range 100 {
			require.NoError(t, t3.Add(fmt.Sprintf("key-%03d", i), i+1000))
		}
		assert.False(t, Equal(t1, t3, cmp))
		assert.True(t, Equal(t1, t3, func(int, int) int { return 0 }))
	})

	t.Run("nil", func(t *testing.T) {
		assert.False(t, Equal(t1, nil, cmp))
		assert.False(t, Equal(nil, t1, cmp))
		assert.False(t, Equal(t1, t2, nil))
	})
}
