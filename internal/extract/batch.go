package extract

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/rankdex/internal/domain/document"
)

// DefaultWorkers is the number of files extracted concurrently.
const DefaultWorkers = 4

// FailureObserver is notified once per source that could not be extracted.
type FailureObserver interface {
	ObserveExtractionFailure(format string)
}

// Batch extracts many sources concurrently.
type Batch struct {
	registry *Registry
	workers  int
	logger   *zap.Logger
	observer FailureObserver
}

// NewBatch creates a batch extractor. workers <= 0 selects DefaultWorkers.
func NewBatch(registry *Registry, workers int, logger *zap.Logger) *Batch {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Batch{registry: registry, workers: workers, logger: logger}
}

// WithObserver attaches a failure sink.
func (b *Batch) WithObserver(o FailureObserver) *Batch {
	b.observer = o
	return b
}

// Run extracts every source and returns candidates in input order, named by
// the source name. A source that fails to extract becomes an empty text and
// is logged; only cancellation of ctx fails the whole batch. done, if not nil,
// is called after each source and must be safe for concurrent use.
func (b *Batch) Run(ctx context.Context, sources []Source, done func()) ([]document.Candidate, error) {
	out := make([]document.Candidate, len(sources))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.workers)

	for i := range sources {
		src := sources[i]
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err //nolint:wrapcheck // context error
			}
			out[i] = document.Candidate{ID: src.Name, Text: b.extractOne(src)}
			if done != nil {
				done()
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("extract batch: %w", err)
	}
	return out, nil
}

func (b *Batch) extractOne(src Source) string {
	text, err := b.registry.Extract(src.Name, src.Data)
	if err != nil {
		format := strings.TrimPrefix(Format(src.Name), ".")
		if format == "" {
			format = "unknown"
		}
		b.logger.Warn("could not extract text, using empty resume",
			zap.String("file", src.Name),
			zap.String("format", format),
			zap.Error(err),
		)
		if b.observer != nil {
			b.observer.ObserveExtractionFailure(format)
		}
		return ""
	}
	return text
}
