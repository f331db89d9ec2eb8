package bloat

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"slices"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/Sumatoshi-tech/gitbloat/pkg/blobclass"
	"github.com/Sumatoshi-tech/gitbloat/pkg/gitlib"
	"github.com/Sumatoshi-tech/gitbloat/pkg/observability"
)

var (
	// ErrStoreOpen is returned by Open when the object store cannot be opened.
	ErrStoreOpen = errors.New("open object store")
	// ErrObjectRead marks a failed raw object read. Counted, never returned.
	ErrObjectRead = errors.New("read object")
	// ErrBlobRead marks a failed typed blob read. Counted, never returned.
	ErrBlobRead = errors.New("read blob")
	// ErrClosed is returned by Enumerate after Close.
	ErrClosed = errors.New("engine closed")
)

// Engine scans one object store and ranks its blobs.
//
// An Engine is not safe for concurrent use: Enumerate must not run on the
// same Engine from two goroutines at once.
type Engine struct {
	store    ObjectStore
	detector blobclass.Detector
	logger   *slog.Logger
	tracer   trace.Tracer
	metrics  *observability.ScanMetrics

	ranking *Ranking
	trees   []gitlib.Hash
	stats   Stats
}

// Option configures an Engine.
type Option func(*Engine)

// WithLimit bounds the ranking to the k largest blobs. Zero keeps every blob.
func WithLimit(k int) Option {
	return func(e *Engine) { e.ranking = NewRanking(k) }
}

// WithDetector sets the binary detector. Defaults to blobclass.Enry.
func WithDetector(d blobclass.Detector) Option {
	return func(e *Engine) { e.detector = d }
}

// WithLogger sets the logger that receives per-object read failures.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// WithTracer sets the tracer for the enumeration span.
func WithTracer(tracer trace.Tracer) Option {
	return func(e *Engine) { e.tracer = tracer }
}

// WithMetrics sets the scan instruments. Nil disables recording.
func WithMetrics(metrics *observability.ScanMetrics) Option {
	return func(e *Engine) { e.metrics = metrics }
}

// New returns an Engine over store. The Engine takes ownership of store.
func New(store ObjectStore, opts ...Option) *Engine {
	e := &Engine{
		store:    store,
		detector: blobclass.Enry,
		logger:   slog.New(slog.DiscardHandler),
		tracer:   nooptrace.NewTracerProvider().Tracer(""),
		ranking:  NewRanking(0),
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Open opens the git object store at root and returns an Engine over it.
func Open(root string, opts ...Option) (*Engine, error) {
	store, err := openGitStore(root)
	if err != nil {
		return nil, fmt.Errorf("%w at %s: %w", ErrStoreOpen, root, err)
	}

	return New(store, opts...), nil
}

// Close releases the object store. Safe to call more than once.
func (e *Engine) Close() {
	if e.store != nil {
		e.store.Close()
		e.store = nil
	}
}

// Reset clears trees, ranked blobs and counters.
func (e *Engine) Reset() {
	e.ranking.Reset()
	e.trees = e.trees[:0]
	e.stats = Stats{}
}

// Enumerate resets the engine and makes one pass over every object id in the
// store. Objects that fail to read are counted in Stats.Unreadable and
// skipped. The pass stops early only if ctx is done or the store's
// iteration itself fails.
func (e *Engine) Enumerate(ctx context.Context) error {
	if e.store == nil {
		return ErrClosed
	}

	e.Reset()

	ctx, span := e.tracer.Start(ctx, "gitbloat.enumerate")
	defer span.End()

	start := time.Now()

	err := e.store.ForEachObjectID(func(id gitlib.Hash) error {
		ctxErr := ctx.Err()
		if ctxErr != nil {
			return ctxErr
		}

		e.visit(ctx, id)

		return nil
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "enumeration failed")

		return fmt.Errorf("enumerate objects: %w", err)
	}

	var largest int64
	if top, ok := e.ranking.Largest(); ok {
		largest = top.Size
	}

	e.metrics.RecordScan(ctx, time.Since(start), largest)

	span.SetAttributes(
		attribute.Int64("gitbloat.blobs", e.stats.Blobs),
		attribute.Int64("gitbloat.trees", e.stats.Trees),
		attribute.Int64("gitbloat.blob_bytes", e.stats.BlobBytes),
		attribute.Int64("gitbloat.unreadable", e.stats.Unreadable),
		attribute.Int("gitbloat.ranking_limit", e.ranking.Capacity()),
	)

	e.logger.InfoContext(ctx, "scan complete",
		"blobs", e.stats.Blobs,
		"trees", e.stats.Trees,
		"blob_bytes", e.stats.BlobBytes,
		"unreadable", e.stats.Unreadable,
		"ranking_limit", e.ranking.Capacity(),
		"elapsed", time.Since(start),
	)

	return nil
}

func (e *Engine) visit(ctx context.Context, id gitlib.Hash) {
	raw, err := e.store.ReadRawObject(id)
	if err != nil {
		e.skip(ctx, fmt.Errorf("%w %s: %w", ErrObjectRead, id, err))

		return
	}

	e.metrics.RecordObject(ctx, raw.Kind.String())

	switch raw.Kind {
	case gitlib.KindTree:
		e.trees = append(e.trees, id)
		e.stats.Trees++
	case gitlib.KindBlob:
		e.stats.Blobs++
		e.stats.BlobBytes += raw.Size
		e.metrics.RecordBlobBytes(ctx, raw.Size)
		e.rankBlob(ctx, id)
	case gitlib.KindCommit, gitlib.KindTag, gitlib.KindOther:
		// Not retained.
	}
}

// rankBlob reads id as a typed blob, classifies it and inserts it into the
// ranking. Size accounting has already happened in visit.
func (e *Engine) rankBlob(ctx context.Context, id gitlib.Hash) {
	blob, err := e.store.ReadBlob(id)
	if err != nil {
		e.skip(ctx, fmt.Errorf("%w %s: %w", ErrBlobRead, id, err))

		return
	}
	defer blob.Free()

	e.ranking.Insert(BlobRecord{
		ID:    id,
		Size:  blob.Size(),
		Class: blobclass.Classify(e.detector, blob.Contents()),
	})
}

func (e *Engine) skip(ctx context.Context, err error) {
	e.stats.Unreadable++
	e.metrics.RecordUnreadable(ctx)
	e.logger.DebugContext(ctx, "skipping unreadable object", "error", err)
}

// TopObjects yields the k largest ranked blobs in descending size order,
// fewer if fewer were ranked. Equal sizes are ordered by ascending id.
func (e *Engine) TopObjects(k int) iter.Seq[BlobRecord] {
	return e.ranking.Top(k)
}

// Stats returns a snapshot of the aggregate counters.
func (e *Engine) Stats() Stats {
	return e.stats
}

// Trees returns the ids of the tree objects seen in the last pass.
func (e *Engine) Trees() []gitlib.Hash {
	return slices.Clone(e.trees)
}
