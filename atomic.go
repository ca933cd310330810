package hashtab

import (
	"sync"
	"sync/atomic"

	"golang.org/x/sys/cpu"
)

// AtomicTable is a Table guarded by a single mutex. Each method takes
// the lock, delegates to the embedded table and releases the lock, so
// calls from any number of goroutines are serialized. Operations it does
// not wrap can be run under the same lock with Do.
//
// AtomicTable is reference counted: NewAtomic returns it with one
// reference, Ref adds one and Unref drops one. Dropping the last reference
// frees the embedded table.
type AtomicTable[V any] struct {
	_    cpu.CacheLinePad // Separates the lock from the preceding heap object
	mu   sync.Mutex
	hash *Table[V]
	_    cpu.CacheLinePad // Separates Ref/Unref traffic from the lock
	refs atomic.Int32
}

// NewAtomic creates an AtomicTable around a new Table. Arguments are
// those of New.
func NewAtomic[V any](free func(V), opts ...Option) *AtomicTable[V] {
	a := &AtomicTable[V]{hash: New(free, opts...)}
	a.refs.Store(1)
	return a
}

// Ref adds a reference and returns a. It returns nil once the last
// reference has been dropped, since the embedded table is already freed.
func (a *AtomicTable[V]) Ref() *AtomicTable[V] {
	for {
		n := a.refs.Load()
		if n <= 0 {
			return nil
		}
		if a.refs.CompareAndSwap(n, n+1) {
			return a
		}
	}
}

// Unref drops a reference. It returns false once the last reference is
// gone and the embedded table has been freed.
func (a *AtomicTable[V]) Unref() bool {
	if a.refs.Add(-1) > 0 {
		return true
	}

	a.mu.Lock()
	a.hash.Free()
	a.mu.Unlock()

	return false
}

// Update calls Table.Update under the lock.
func (a *AtomicTable[V]) Update(name string, payload V) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	return a.hash.Update(name, payload)
}

// Steal calls Table.Steal under the lock.
func (a *AtomicTable[V]) Steal(name string) (V, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	return a.hash.Steal(name)
}

// Lookup calls Table.Lookup under the lock.
func (a *AtomicTable[V]) Lookup(name string) (V, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	return a.hash.Lookup(name)
}

// Size calls Table.Size under the lock.
func (a *AtomicTable[V]) Size() int {
	a.mu.Lock()
	defer a.mu.Unlock()

	return a.hash.Size()
}

// Do runs fn with the embedded table while holding the lock. fn must not
// keep the table after it returns.
func (a *AtomicTable[V]) Do(fn func(t *Table[V]) error) error {
	if fn == nil {
		return ErrInvalidArgument
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	return fn(a.hash)
}
