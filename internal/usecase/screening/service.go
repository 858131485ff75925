package screening

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/rankdex/internal/domain/document"
	"github.com/kailas-cloud/rankdex/internal/domain/screening/request"
)

// Screening statuses reported to the Observer.
const (
	StatusOK        = "ok"
	StatusInvalid   = "invalid"
	StatusCancelled = "cancelled"
)

// Service validates screening requests and runs them through the pipeline.
type Service struct {
	pipeline *Pipeline
	limits   request.Limits
	observer Observer
	logger   *zap.Logger
}

// New creates a screening service.
func New(pipeline *Pipeline, limits request.Limits, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{pipeline: pipeline, limits: limits, logger: logger}
}

// WithObserver attaches a metrics sink.
func (s *Service) WithObserver(o Observer) *Service {
	s.observer = o
	return s
}

// Limits returns the request limits the service validates against.
func (s *Service) Limits() request.Limits { return s.limits }

// Screen validates the inputs and ranks candidates against query.
// Validation failures wrap domain.ErrInvalidInput. A cancelled context is
// honoured before the pass starts and after it ends; a pass is never
// resumed or returned partially.
func (s *Service) Screen(
	ctx context.Context, query string, candidates []document.Candidate, topN int,
) (Ranking, error) {
	start := time.Now()

	req, err := request.New(query, candidates, topN, s.limits)
	if err != nil {
		s.observe(StatusInvalid, Stats{Candidates: len(candidates)}, time.Since(start))
		return Ranking{}, err
	}

	if err := ctx.Err(); err != nil {
		s.observe(StatusCancelled, Stats{Candidates: len(candidates)}, time.Since(start))
		return Ranking{}, fmt.Errorf("screening not started: %w", err)
	}

	ranking := s.pipeline.Run(req.Query(), req.Candidates(), req.TopN())
	elapsed := time.Since(start)

	if err := ctx.Err(); err != nil {
		s.observe(StatusCancelled, ranking.Stats, elapsed)
		return Ranking{}, fmt.Errorf("screening discarded: %w", err)
	}

	s.observe(StatusOK, ranking.Stats, elapsed)

	if ranking.Stats.DegenerateQuery {
		s.logger.Warn("job description has no scorable terms; all candidates score 0")
	}
	s.logger.Info("screening completed",
		zap.Int("candidates", ranking.Stats.Candidates),
		zap.Int("vocabulary_size", ranking.Stats.VocabularySize),
		zap.Int("degenerate_candidates", ranking.Stats.DegenerateCandidates),
		zap.Int("top_n", req.TopN()),
		zap.Duration("elapsed", elapsed),
	)

	return ranking, nil
}

func (s *Service) observe(status string, stats Stats, elapsed time.Duration) {
	if s.observer != nil {
		s.observer.ObserveScreening(status, stats, elapsed)
	}
}
