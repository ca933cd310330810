package hashtab

import (
	"iter"
	"slices"
	"strings"
)

// Iterator is called for each entry visited by the ForEach family. A
// non-nil error stops the walk and is returned to the caller.
type Iterator[V any] func(payload V, name string) error

// Predicate selects entries for Search and RemoveSet.
type Predicate[V any] func(payload V, name string) bool

// KeyValue is one entry of a table snapshot.
type KeyValue[V any] struct {
	Key   string
	Value V
}

// ForEach calls fn for every entry, in bucket order.
//
// The next link is read before fn runs, so fn may remove the entry it is
// handed. fn must not otherwise change the table; use ForEachSafe for
// that.
func (t *Table[V]) ForEach(fn Iterator[V]) error {
	if !t.valid() || fn == nil {
		return ErrInvalidArgument
	}

	for _, e := range t.buckets {
		for e != nil {
			next := e.next
			if err := fn(e.payload, e.name); err != nil {
				return err
			}
			e = next
		}
	}

	return nil
}

// ForEachSafe calls fn for every entry of a snapshot taken before the
// walk starts. fn may remove entries from the table by name. An entry
// removed by fn is still handed to later calls if it was in the snapshot.
func (t *Table[V]) ForEachSafe(fn Iterator[V]) error {
	return t.forEachItem(fn, false)
}

// ForEachSorted is ForEachSafe over a snapshot sorted by key.
func (t *Table[V]) ForEachSorted(fn Iterator[V]) error {
	return t.forEachItem(fn, true)
}

func (t *Table[V]) forEachItem(fn Iterator[V], sorted bool) error {
	if !t.valid() || fn == nil {
		return ErrInvalidArgument
	}

	for _, item := range t.Items(sorted) {
		if err := fn(item.Value, item.Key); err != nil {
			return err
		}
	}

	return nil
}

// All returns an iterator over the entries in bucket order. The same
// restrictions as ForEach apply to the loop body.
func (t *Table[V]) All() iter.Seq2[string, V] {
	return func(yield func(string, V) bool) {
		if !t.valid() {
			return
		}
		for _, e := range t.buckets {
			for e != nil {
				next := e.next
				if !yield(e.name, e.payload) {
					return
				}
				e = next
			}
		}
	}
}

// RemoveSet removes every entry for which pred returns true, running the
// destructor on each removed payload. It returns the number of entries
// removed.
func (t *Table[V]) RemoveSet(pred Predicate[V]) (int, error) {
	if !t.valid() || pred == nil {
		return -1, ErrInvalidArgument
	}

	var count int
	for i := range t.buckets {
		link := &t.buckets[i]
		for *link != nil {
			e := *link
			if !pred(e.payload, e.name) {
				link = &e.next
				continue
			}
			count++
			t.dispose(e.payload)
			*link = e.next
			e.next = nil
			t.nbElems--
		}
	}

	return count, nil
}

// RemoveAll removes every entry, running the destructor on each payload.
// The bucket array keeps its size.
func (t *Table[V]) RemoveAll() {
	_, _ = t.RemoveSet(func(V, string) bool { return true })
}

// Search returns the first entry, in bucket order, for which pred
// returns true.
func (t *Table[V]) Search(pred Predicate[V]) (payload V, name string, ok bool) {
	if !t.valid() || pred == nil {
		return payload, "", false
	}

	for _, e := range t.buckets {
		for ; e != nil; e = e.next {
			if pred(e.payload, e.name) {
				return e.payload, e.name, true
			}
		}
	}

	return payload, "", false
}

// Items returns a snapshot of every entry, sorted bytewise by key if
// sorted is set. The result has Size elements; nil for an invalid table.
func (t *Table[V]) Items(sorted bool) []KeyValue[V] {
	if !t.valid() {
		return nil
	}

	items := make([]KeyValue[V], 0, t.nbElems)
	for _, e := range t.buckets {
		for ; e != nil; e = e.next {
			items = append(items, KeyValue[V]{Key: e.name, Value: e.payload})
		}
	}

	if sorted {
		slices.SortFunc(items, func(a, b KeyValue[V]) int {
			return strings.Compare(a.Key, b.Key)
		})
	}

	return items
}

// Equal reports whether t1 and t2 hold the same keys with values that
// cmp considers equal (cmp returns 0). Only the keys of t1 are looked up
// in t2; equal sizes rule out keys present only in t2.
func Equal[V any](t1, t2 *Table[V], cmp func(a, b V) int) bool {
	if t1 == t2 {
		return true
	}
	if !t1.valid() || !t2.valid() || cmp == nil || t1.Size() != t2.Size() {
		return false
	}

	_, _, differs := t1.Search(func(v1 V, name string) bool {
		v2, ok := t2.Lookup(name)
		return !ok || cmp(v1, v2) != 0
	})

	return !differs
}
