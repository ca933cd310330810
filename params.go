package hashtab

const (
	// InitialSize is the number of buckets a new table starts with.
	InitialSize = 32
	// MaxChainLen is the chain length above which an insertion triggers a grow.
	MaxChainLen = 8
	// GrowFactor is the multiplier applied to the bucket count on grow.
	GrowFactor = MaxChainLen
	// MinSize is the smallest bucket count grow accepts.
	MinSize = 8
	// MaxSize is the largest bucket count grow accepts. Tables that reach
	// it keep accepting entries and let chains get longer.
	MaxSize = 8 * 2048
)

// validSize reports whether grow may resize a table to size buckets.
func validSize(size int) bool {
	return size >= MinSize && size <= MaxSize
}

// Stats describes how entries are spread over the buckets of a table.
type Stats struct {
	Buckets      int // Current bucket count
	Elems        int // Live entries
	EmptyBuckets int // Buckets with no chain
	LongestChain int // Length of the longest chain
}

// LoadFactor returns the average number of entries per bucket.
func (s Stats) LoadFactor() float64 {
	if s.Buckets == 0 {
		return 0
	}
	return float64(s.Elems) / float64(s.Buckets)
}
