package hashtab

import (
	"errors"
	"fmt"
	"log/slog"
)

var (
	// ErrInvalidArgument is returned when an operation is called on a nil
	// or freed table, or with a nil callback.
	ErrInvalidArgument = errors.New("hashtab: invalid argument")

	// ErrDuplicateKey is returned by Add when the key is already present.
	ErrDuplicateKey = errors.New("hashtab: duplicate hash table key")

	// ErrNotFound is returned when no entry matches the given key.
	ErrNotFound = errors.New("hashtab: key not found")

	// ErrGrowRejected is returned by grow for sizes outside [MinSize, MaxSize].
	// Insertions absorb it and keep the longer chain.
	ErrGrowRejected = errors.New("hashtab: grow rejected")
)

// entry is a single element of a bucket chain.
type entry[V any] struct {
	next    *entry[V]
	name    string
	payload V
}

// Table is a string-keyed chained hash table. It is NOT safe for
// concurrent use; wrap it in an AtomicTable or synchronize externally.
//
// The table owns its payloads: the free callback given to New runs on a
// payload whenever it is removed, overwritten, or the table is freed,
// unless the payload is taken out with Steal.
type Table[V any] struct {
	buckets  []*entry[V] // Chain heads, len is the current capacity
	seed     uint32      // Per-table hash seed
	nbElems  int         // Live entries
	free     func(V)     // Payload destructor, may be nil
	hashFunc HashFunc
	logger   *slog.Logger
}

// New creates an empty table with InitialSize buckets. free is called on
// payloads the table discards and may be nil.
func New[V any](free func(V), opts ...Option) *Table[V] {
	c := newConfig(opts)
	return &Table[V]{
		buckets:  make([]*entry[V], InitialSize),
		seed:     c.seed,
		free:     free,
		hashFunc: c.hashFunc,
		logger:   c.logger,
	}
}

// valid reports whether t can be operated on.
func (t *Table[V]) valid() bool {
	return t != nil && t.buckets != nil
}

// computeKey returns the bucket index of name for the current capacity.
func (t *Table[V]) computeKey(name string) int {
	return int(t.hashFunc(name, t.seed) % uint32(len(t.buckets)))
}

// dispose runs the destructor on a payload the table no longer holds.
func (t *Table[V]) dispose(payload V) {
	if t.free != nil {
		t.free(payload)
	}
}

// grow moves every entry into a new bucket array of size buckets.
func (t *Table[V]) grow(size int) error {
	if !t.valid() {
		return ErrInvalidArgument
	}
	if !validSize(size) {
		return fmt.Errorf("%w: size %d outside [%d, %d]", ErrGrowRejected, size, MinSize, MaxSize)
	}

	oldSize := len(t.buckets)
	old := t.buckets
	t.buckets = make([]*entry[V], size)

	var moved int
	for _, e := range old {
		for e != nil {
			next := e.next
			key := t.computeKey(e.name)

			e.next = t.buckets[key]
			t.buckets[key] = e

			moved++
			e = next
		}
	}

	t.logger.Debug("hash table grown", "from", oldSize, "to", size, "elems", moved)
	return nil
}

// addOrUpdate inserts name or, if it exists and update is set, replaces
// its payload in place.
func (t *Table[V]) addOrUpdate(name string, payload V, update bool) error {
	if !t.valid() {
		return ErrInvalidArgument
	}

	key := t.computeKey(name)

	var last *entry[V]
	var chainLen int
	for e := t.buckets[key]; e != nil; e = e.next {
		if e.name == name {
			if !update {
				return fmt.Errorf("%w: %q", ErrDuplicateKey, name)
			}
			t.dispose(e.payload)
			e.payload = payload
			return nil
		}
		last = e
		chainLen++
	}

	e := &entry[V]{name: name, payload: payload}
	if last != nil {
		last.next = e
	} else {
		t.buckets[key] = e
	}
	t.nbElems++
	chainLen++

	if chainLen > MaxChainLen {
		if err := t.grow(GrowFactor * len(t.buckets)); err != nil {
			t.logger.Debug("hash table grow skipped", "size", len(t.buckets), "chain", chainLen, "err", err)
		}
	}

	return nil
}

// Add inserts payload under name. It fails with ErrDuplicateKey, leaving
// the table untouched, if name is already present.
func (t *Table[V]) Add(name string, payload V) error {
	return t.addOrUpdate(name, payload, false)
}

// Update inserts payload under name, replacing and freeing any payload
// already stored for it.
func (t *Table[V]) Update(name string, payload V) error {
	return t.addOrUpdate(name, payload, true)
}

// getEntry returns the entry stored under name, or nil.
func (t *Table[V]) getEntry(name string) *entry[V] {
	if !t.valid() {
		return nil
	}
	for e := t.buckets[t.computeKey(name)]; e != nil; e = e.next {
		if e.name == name {
			return e
		}
	}
	return nil
}

// Lookup returns the payload stored under name.
func (t *Table[V]) Lookup(name string) (V, bool) {
	e := t.getEntry(name)
	if e == nil {
		var zero V
		return zero, false
	}
	return e.payload, true
}

// HasEntry reports whether name is present.
func (t *Table[V]) HasEntry(name string) bool {
	return t.getEntry(name) != nil
}

// Steal removes name and hands its payload to the caller without running
// the destructor.
func (t *Table[V]) Steal(name string) (V, bool) {
	payload, ok := t.Lookup(name)
	if !ok {
		return payload, false
	}

	free := t.free
	t.free = nil
	err := t.Remove(name)
	t.free = free

	if err != nil {
		var zero V
		return zero, false
	}
	return payload, true
}

// Remove deletes name, running the destructor on its payload.
func (t *Table[V]) Remove(name string) error {
	if !t.valid() {
		return ErrInvalidArgument
	}

	link := &t.buckets[t.computeKey(name)]
	for e := *link; e != nil; e = e.next {
		if e.name == name {
			t.dispose(e.payload)
			*link = e.next
			e.next = nil
			t.nbElems--
			return nil
		}
		link = &e.next
	}

	return fmt.Errorf("%w: %q", ErrNotFound, name)
}

// Size returns the number of entries, or -1 for a nil or freed table.
func (t *Table[V]) Size() int {
	if !t.valid() {
		return -1
	}
	return t.nbElems
}

// Cap returns the current number of buckets.
func (t *Table[V]) Cap() int {
	if t == nil {
		return 0
	}
	return len(t.buckets)
}

// Free destroys every entry, running the destructor on each payload, and
// releases the bucket array. A freed table rejects further operations.
func (t *Table[V]) Free() {
	if !t.valid() {
		return
	}

	for i, e := range t.buckets {
		for e != nil {
			next := e.next
			t.dispose(e.payload)
			e.next = nil
			e = next
		}
		t.buckets[i] = nil
	}

	t.buckets = nil
	t.nbElems = 0
}

// Stats walks every chain and reports how entries are distributed.
func (t *Table[V]) Stats() Stats {
	if !t.valid() {
		return Stats{}
	}

	s := Stats{Buckets: len(t.buckets), Elems: t.nbElems}
	for _, e := range t.buckets {
		if e == nil {
			s.EmptyBuckets++
			continue
		}
		var n int
		for ; e != nil; e = e.next {
			n++
		}
		s.LongestChain = max(s.LongestChain, n)
	}
	return s
}
