// Package report renders the result of a blob ranking scan.
package report

import (
	_ "embed"
	"errors"
	"fmt"
	"io"
	"iter"
	"slices"

	"github.com/dustin/go-humanize"

	"github.com/Sumatoshi-tech/gitbloat/pkg/blobclass"
	"github.com/Sumatoshi-tech/gitbloat/pkg/bloat"
	"github.com/Sumatoshi-tech/gitbloat/pkg/safeconv"
)

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatHTML = "html"
)

// shortIDLength is the id prefix used for chart labels.
const shortIDLength = 12

// ErrUnknownFormat is returned for output formats Write does not support.
var ErrUnknownFormat = errors.New("unknown output format")

//go:embed schema.json
var schema []byte

// Schema returns the JSON schema describing FormatJSON output.
func Schema() []byte {
	return slices.Clone(schema)
}

// Formats lists the supported output formats.
func Formats() []string {
	return []string{FormatText, FormatJSON, FormatYAML, FormatHTML}
}

// Source is what a report is built from; *bloat.Engine satisfies it.
type Source interface {
	TopObjects(k int) iter.Seq[bloat.BlobRecord]
	Stats() bloat.Stats
}

// Entry is one ranked blob.
type Entry struct {
	Rank      int             `json:"rank"       yaml:"rank"`
	ID        string          `json:"id"         yaml:"id"`
	Size      int64           `json:"size"       yaml:"size"`
	HumanSize string          `json:"human_size" yaml:"human_size"`
	Class     blobclass.Class `json:"class"      yaml:"class"`

	shortID string
}

// Report is the rendered view of one scan.
type Report struct {
	Root       string      `json:"root"        yaml:"root"`
	Show       int         `json:"show"        yaml:"show"`
	Stats      bloat.Stats `json:"stats"       yaml:"stats"`
	HumanTotal string      `json:"human_total" yaml:"human_total"`
	Objects    []Entry     `json:"objects"     yaml:"objects"`
}

// FromEngine builds a report of the show largest blobs of src.
func FromEngine(root string, src Source, show int) Report {
	stats := src.Stats()

	rep := Report{
		Root:       root,
		Show:       show,
		Stats:      stats,
		HumanTotal: HumanBytes(stats.BlobBytes),
		Objects:    []Entry{},
	}

	for rec := range src.TopObjects(show) {
		rep.Objects = append(rep.Objects, Entry{
			Rank:      len(rep.Objects) + 1,
			ID:        rec.ID.String(),
			Size:      rec.Size,
			HumanSize: HumanBytes(rec.Size),
			Class:     rec.Class,
			shortID:   rec.ID.Short(shortIDLength),
		})
	}

	return rep
}

// HumanBytes renders n in the largest binary unit that keeps it at least 1,
// e.g. "1000 B", "1.5 KiB", "3.2 GiB".
func HumanBytes(n int64) string {
	return humanize.IBytes(safeconv.MustInt64ToUint64(max(n, 0)))
}

// Options tune rendering.
type Options struct {
	// Color enables ANSI colors in text output.
	Color bool
}

// Write renders rep to w in the given format.
func Write(w io.Writer, rep Report, format string, opts Options) error {
	switch format {
	case FormatText:
		return writeText(w, rep, opts)
	case FormatJSON:
		return writeJSON(w, rep)
	case FormatYAML:
		return writeYAML(w, rep)
	case FormatHTML:
		return writeHTML(w, rep)
	default:
		return fmt.Errorf("%w: %q (available: %v)", ErrUnknownFormat, format, Formats())
	}
}
