// Package app assembles the screening components from configuration.
package app

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/rankdex/internal/analysis"
	"github.com/kailas-cloud/rankdex/internal/config"
	"github.com/kailas-cloud/rankdex/internal/domain/screening/request"
	"github.com/kailas-cloud/rankdex/internal/extract"
	"github.com/kailas-cloud/rankdex/internal/metrics"
	healthuc "github.com/kailas-cloud/rankdex/internal/usecase/health"
	screeninguc "github.com/kailas-cloud/rankdex/internal/usecase/screening"
)

// App holds the wired components shared by the server and the CLI.
type App struct {
	StopWords  analysis.StopWords
	Normalizer *analysis.Normalizer
	Pipeline   *screeninguc.Pipeline
	Screening  *screeninguc.Service
	Registry   *extract.Registry
	Batch      *extract.Batch
	Health     *healthuc.Service
}

// New builds every component from cfg. Metrics are recorded only when
// withMetrics is set; the CLI runs without a registry.
func New(cfg config.Config, logger *zap.Logger, withMetrics bool) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	sw := cfg.Screening.StopWords
	stop, err := analysis.LoadStopWords(sw.Source, sw.File, sw.Extra)
	if err != nil {
		return nil, fmt.Errorf("load stop words: %w", err)
	}
	logger.Debug("stop words loaded",
		zap.String("source", sw.Source),
		zap.String("file", sw.File),
		zap.Int("count", stop.Len()),
	)

	normalizer := analysis.NewNormalizer(stop)
	pipeline := screeninguc.NewPipeline(normalizer, cfg.Screening.VocabularyCap, cfg.Screening.SummaryLength)
	screening := screeninguc.New(pipeline, request.Limits{
		MinQueryLength: cfg.Screening.MinQueryLength,
		MaxCandidates:  cfg.Screening.MaxCandidates,
		DefaultTopN:    cfg.Screening.KeywordCount,
	}, logger)

	registry := extract.NewRegistry(cfg.Extraction.MaxFileBytes)
	batch := extract.NewBatch(registry, cfg.Extraction.Workers, logger)

	if withMetrics {
		metrics.RegisterScreeningMetrics()
		screening.WithObserver(metrics.Recorder{})
		batch.WithObserver(metrics.Recorder{})
	}

	health := healthuc.New().
		Register("stop_words", stopWordsCheck(sw.Source, sw.File, stop)).
		Register("extractor", extractorCheck(registry))

	return &App{
		StopWords:  stop,
		Normalizer: normalizer,
		Pipeline:   pipeline,
		Screening:  screening,
		Registry:   registry,
		Batch:      batch,
		Health:     health,
	}, nil
}

// stopWordsCheck fails when a list was expected but came out empty.
func stopWordsCheck(source, file string, stop analysis.StopWords) healthuc.Checker {
	return healthuc.CheckerFunc(func(context.Context) error {
		if source == analysis.SourceNone && file == "" {
			return nil
		}
		if stop.Len() == 0 {
			return errors.New("stop word list is empty")
		}
		return nil
	})
}

func extractorCheck(registry *extract.Registry) healthuc.Checker {
	return healthuc.CheckerFunc(func(context.Context) error {
		if len(registry.Formats()) == 0 {
			return errors.New("no extractors registered")
		}
		return nil
	})
}
