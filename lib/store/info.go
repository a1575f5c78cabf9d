package store

import "github.com/ltessier/keepsake/lib/codec"

// Info describes the current in-memory contents of a store.
// All size figures are estimates over the value payloads only; keys and
// per-entry overhead are not counted.
type Info struct {
	Namespace        string         `json:"namespace"`
	Entries          int            `json:"entries"`
	Kinds            map[string]int `json:"kinds"`
	PayloadBytes     int64          `json:"payload_bytes"`
	AvgValueBytes    int            `json:"avg_value_bytes"`
	MedianValueBytes int            `json:"median_value_bytes"`
}

// Info scans the in-memory state once. The scan is weakly consistent, like
// Keys and Query.
func (s *storeImpl) Info() Info {
	hist := newSizeHistogram()
	kinds := make(map[string]int)
	entries := 0

	s.data.Range(func(_ string, value codec.Value) bool {
		entries++
		kinds[value.Kind().String()]++
		hist.addSample(value.PayloadSize())
		return true
	})

	return Info{
		Namespace:        s.namespace,
		Entries:          entries,
		Kinds:            kinds,
		PayloadBytes:     hist.sum,
		AvgValueBytes:    hist.averageSize(),
		MedianValueBytes: hist.medianEstimate(),
	}
}

// --------------------------------------------------------------------------
// Size histogram
// --------------------------------------------------------------------------

// sizeHistogram tracks a payload size distribution with exponential bucket
// boundaries, trading exactness for a fixed memory footprint. It is filled
// during a single scan and not safe for concurrent use.
type sizeHistogram struct {
	boundaries []int
	buckets    []int64
	count      int64
	sum        int64
}

func newSizeHistogram() *sizeHistogram {
	// Exponential bucket sizes: value payloads range from a single byte to
	// large JSON strings.
	return &sizeHistogram{
		boundaries: []int{
			16, 64, 256, 1024, 4096,
			16384, 65536, 262144, 1048576,
		},
		buckets: make([]int64, 10),
	}
}

func (h *sizeHistogram) addSample(size int) {
	bucketIndex := len(h.boundaries)
	for i, boundary := range h.boundaries {
		if size <= boundary {
			bucketIndex = i
			break
		}
	}

	h.buckets[bucketIndex]++
	h.count++
	h.sum += int64(size)
}

func (h *sizeHistogram) averageSize() int {
	if h.count == 0 {
		return 0
	}
	return int(h.sum / h.count)
}

// medianEstimate estimates the median from the bucket counts. Within a
// bucket the midpoint of its boundaries is used.
func (h *sizeHistogram) medianEstimate() int {
	if h.count == 0 {
		return 0
	}

	medianCount := (h.count + 1) / 2
	cumulative := int64(0)

	for i, count := range h.buckets {
		cumulative += count
		if cumulative >= medianCount {
			switch {
			case i == 0:
				return h.boundaries[0] / 2
			case i < len(h.boundaries):
				return (h.boundaries[i-1] + h.boundaries[i]) / 2
			default:
				return h.boundaries[len(h.boundaries)-1] * 2
			}
		}
	}

	return int(h.sum / h.count)
}
