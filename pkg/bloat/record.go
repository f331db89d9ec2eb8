// Package bloat ranks the blobs of a git object database by size.
//
// An Engine makes one pass over every object id in the database, reachable
// or not. Each id is read twice when it names a blob: a raw read supplies the
// kind and payload length for aggregate accounting, and a typed blob read
// supplies the contents for binary/text classification. A blob whose typed
// read fails still counts toward Stats.Blobs and Stats.BlobBytes but never
// enters the ranking.
package bloat

import (
	"github.com/Sumatoshi-tech/gitbloat/pkg/blobclass"
	"github.com/Sumatoshi-tech/gitbloat/pkg/gitlib"
)

// BlobRecord describes one successfully read blob.
type BlobRecord struct {
	ID    gitlib.Hash     `json:"id"    yaml:"id"`
	Size  int64           `json:"size"  yaml:"size"`
	Class blobclass.Class `json:"class" yaml:"class"`
}

// ranksBefore reports whether a is listed ahead of b: larger size first,
// equal sizes by ascending id.
func ranksBefore(a, b BlobRecord) bool {
	if a.Size != b.Size {
		return a.Size > b.Size
	}

	return a.ID.Compare(b.ID) < 0
}

// Stats holds aggregate counters for one enumeration pass.
type Stats struct {
	// Blobs counts every object classified as a blob, readable or not.
	Blobs int64 `json:"blobs" yaml:"blobs"`
	// Trees counts tree objects.
	Trees int64 `json:"trees" yaml:"trees"`
	// BlobBytes sums the raw payload length of every blob.
	BlobBytes int64 `json:"blob_bytes" yaml:"blob_bytes"`
	// Unreadable counts objects whose raw or typed read failed.
	Unreadable int64 `json:"unreadable" yaml:"unreadable"`
}
