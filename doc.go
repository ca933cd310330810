// Package hashtab provides a string-keyed chained hash table that owns its
// payloads.
//
// A [Table] maps unique string names to values of any type. Entries live
// in singly linked chains hanging off a bucket array. Each table draws a
// random 32-bit seed at construction and mixes it into the hash, so bucket
// placement and unordered iteration differ between table instances.
//
// # Ownership
//
// The table owns every payload it stores. The destructor passed to [New]
// runs on a payload when it is removed, replaced by [Table.Update], swept
// by [Table.RemoveSet] or [Table.RemoveAll], or when the table is freed:
//
//	t := hashtab.New(func(c *Conn) { c.Close() })
//	defer t.Free()
//
//	_ = t.Add("vm-1", conn)
//	_ = t.Remove("vm-1") // conn.Close() runs here
//
// [Table.Steal] removes an entry and hands the payload back without running
// the destructor. Pass a nil destructor when payloads need no cleanup.
//
// # Growth
//
// Tables start with [InitialSize] buckets. When an insertion leaves a
// chain longer than [MaxChainLen], the bucket array grows by [GrowFactor]
// and every entry is rehashed into it. Growth stops at [MaxSize] buckets;
// past that point insertions still succeed and chains get longer. Tables
// never shrink.
//
// # Iteration
//
// Three walks are provided:
//
//   - [Table.ForEach] visits the live chains in bucket order. The callback
//     may remove the entry it was handed but nothing else.
//   - [Table.ForEachSafe] visits a snapshot, so the callback may remove
//     any entry by name.
//   - [Table.ForEachSorted] visits a snapshot sorted bytewise by key, for
//     reproducible output.
//
// A callback returning a non-nil error stops the walk and the error is
// returned. [Table.All] exposes the bucket-order walk as a range-over-func
// iterator.
//
// # Hashing
//
// Keys are hashed with [XXH3] by default. [XXHash] and any other
// [HashFunc] can be selected with [WithHashFunc]; [WithSeed] fixes the seed
// for reproducible layouts.
//
// # Thread Safety
//
// [Table] is NOT thread-safe. Concurrent lookups are fine on their own but
// not alongside any mutation.
//
// [AtomicTable] wraps a table behind one mutex and serializes every call
// it forwards. It is a coarse lock and does not scale under contention.
// Use [AtomicTable.Do] to run operations it does not forward under the
// same lock.
package hashtab
