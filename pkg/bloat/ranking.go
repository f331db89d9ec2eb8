package bloat

import (
	"container/heap"
	"iter"
	"slices"

	"github.com/Sumatoshi-tech/gitbloat/pkg/gitlib"
)

// Ranking orders BlobRecords by descending size.
//
// With a positive capacity it keeps only the largest capacity records,
// evicting the smallest on overflow, so memory stays O(capacity).
// With capacity zero it keeps everything. A record whose id is already
// retained is ignored.
type Ranking struct {
	capacity int
	// records is a min-heap under ranksBefore: records[0] is the entry that
	// would be listed last, i.e. the next one to evict.
	records minHeap
	ids     map[gitlib.Hash]struct{}
	// sorted caches the descending order until the next Insert.
	sorted []BlobRecord
}

// NewRanking returns a ranking bounded to capacity records; 0 means unbounded.
func NewRanking(capacity int) *Ranking {
	if capacity < 0 {
		capacity = 0
	}

	return &Ranking{capacity: capacity, ids: make(map[gitlib.Hash]struct{})}
}

// Capacity returns the bound passed to NewRanking.
func (r *Ranking) Capacity() int {
	return r.capacity
}

// Len returns the number of retained records.
func (r *Ranking) Len() int {
	return len(r.records)
}

// Insert adds rec, evicting the smallest retained record if the ranking is full.
func (r *Ranking) Insert(rec BlobRecord) {
	if r.ids == nil {
		r.ids = make(map[gitlib.Hash]struct{})
	}

	if _, dup := r.ids[rec.ID]; dup {
		return
	}

	if r.capacity > 0 && len(r.records) >= r.capacity {
		if !ranksBefore(rec, r.records[0]) {
			return
		}

		delete(r.ids, r.records[0].ID)
		r.records[0] = rec
		heap.Fix(&r.records, 0)
	} else {
		heap.Push(&r.records, rec)
	}

	r.ids[rec.ID] = struct{}{}
	r.sorted = nil
}

// Reset drops all records, keeping the capacity.
func (r *Ranking) Reset() {
	r.records = r.records[:0]
	clear(r.ids)
	r.sorted = nil
}

// Top yields up to k records in descending order. The sequence reflects the
// ranking at the time Top is called.
func (r *Ranking) Top(k int) iter.Seq[BlobRecord] {
	ordered := r.ordered()
	if k < len(ordered) {
		ordered = ordered[:max(k, 0)]
	}

	return slices.Values(ordered)
}

// Largest returns the top record, if any.
func (r *Ranking) Largest() (BlobRecord, bool) {
	ordered := r.ordered()
	if len(ordered) == 0 {
		return BlobRecord{}, false
	}

	return ordered[0], true
}

func (r *Ranking) ordered() []BlobRecord {
	if r.sorted == nil && len(r.records) > 0 {
		r.sorted = slices.Clone(r.records)
		slices.SortFunc(r.sorted, func(a, b BlobRecord) int {
			switch {
			case ranksBefore(a, b):
				return -1
			case ranksBefore(b, a):
				return 1
			default:
				return 0
			}
		})
	}

	return r.sorted
}

type minHeap []BlobRecord

func (h minHeap) Len() int { return len(h) }

func (h minHeap) Less(i, j int) bool { return ranksBefore(h[j], h[i]) }

func (h minHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *minHeap) Push(x any) { *h = append(*h, x.(BlobRecord)) }

func (h *minHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]

	return item
}
