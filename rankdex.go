package rankdex

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/kailas-cloud/rankdex/internal/analysis"
	"github.com/kailas-cloud/rankdex/internal/domain/document"
	"github.com/kailas-cloud/rankdex/internal/domain/screening/request"
	"github.com/kailas-cloud/rankdex/internal/domain/screening/result"
	"github.com/kailas-cloud/rankdex/internal/usecase/screening"
)

// Candidate is one resume to rank.
type Candidate struct {
	ID   string
	Text string
}

// Result is one ranked resume.
type Result struct {
	ID       string
	Score    float64
	Rank     int
	Keywords []string
	Summary  string
}

// Screener ranks resumes. It is safe for concurrent use; calls share no state.
type Screener struct {
	normalizer   *analysis.Normalizer
	pipeline     *screening.Pipeline
	service      *screening.Service
	keywordCount int
	obs          *observer
}

// New creates a Screener with the bundled English stop words and default limits.
func New(opts ...Option) (*Screener, error) {
	cfg := screenerConfig{stopWordSource: analysis.SourceBuiltin}
	for _, o := range opts {
		o.apply(&cfg)
	}

	stop, err := cfg.loadStopWords()
	if err != nil {
		return nil, err
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	keywordCount := cfg.keywordCount
	if keywordCount <= 0 {
		keywordCount = request.DefaultTopN
	}
	keywordCount = min(keywordCount, request.MaxTopN)

	normalizer := analysis.NewNormalizer(stop)
	pipeline := screening.NewPipeline(normalizer, cfg.vocabularyCap, cfg.summaryLength)
	service := screening.New(pipeline, request.Limits{
		MaxCandidates: cfg.maxCandidates,
		DefaultTopN:   keywordCount,
	}, nil)

	return &Screener{
		normalizer:   normalizer,
		pipeline:     pipeline,
		service:      service,
		keywordCount: keywordCount,
		obs:          obs,
	}, nil
}

func (c screenerConfig) loadStopWords() (analysis.StopWords, error) {
	if c.stopWords != nil {
		return analysis.NewStopWords(append(c.stopWords, c.extraStopWords...)...), nil
	}
	stop, err := analysis.LoadStopWords(c.stopWordSource, c.stopWordFile, c.extraStopWords)
	if err != nil {
		return analysis.StopWords{}, fmt.Errorf("rankdex: %w", err)
	}
	return stop, nil
}

// Rank scores candidates against query and returns them best first.
// Input is not validated: empty texts score 0 and duplicate IDs are kept.
func (s *Screener) Rank(query string, candidates []Candidate) []Result {
	start := time.Now()
	ranking := s.pipeline.Run(query, toDocuments(candidates), s.keywordCount)
	s.obs.observe("rank", len(candidates), start, nil)
	return fromResults(ranking.Results)
}

// Screen validates the request, then ranks like Rank. Validation failures
// wrap ErrInvalidInput; a cancelled ctx returns its error and no results.
func (s *Screener) Screen(ctx context.Context, query string, candidates []Candidate) ([]Result, error) {
	start := time.Now()
	ranking, err := s.service.Screen(ctx, query, toDocuments(candidates), s.keywordCount)
	s.obs.observe("screen", len(candidates), start, err)
	if err != nil {
		return nil, err
	}
	return fromResults(ranking.Results), nil
}

// Normalize returns the scoring tokens of text.
func (s *Screener) Normalize(text string) []string {
	return s.normalizer.Normalize(text)
}

// TopMatches returns up to topN query terms by how often they occur in
// candidateText, most frequent first.
func (s *Screener) TopMatches(query, candidateText string, topN int) []string {
	if topN <= 0 {
		topN = s.keywordCount
	}
	return s.pipeline.Matcher().TopMatches(query, candidateText, topN)
}

// StopWords returns the stop words in use, sorted.
func (s *Screener) StopWords() []string {
	words := s.normalizer.StopWords().List()
	sort.Strings(words)
	return words
}

func toDocuments(candidates []Candidate) []document.Candidate {
	out := make([]document.Candidate, len(candidates))
	for i, c := range candidates {
		out[i] = document.Candidate{ID: c.ID, Text: c.Text}
	}
	return out
}

func fromResults(results []result.Result) []Result {
	out := make([]Result, len(results))
	for i, r := range results {
		out[i] = Result{
			ID:       r.ID(),
			Score:    r.Score(),
			Rank:     r.Rank(),
			Keywords: r.Keywords(),
			Summary:  r.Summary(),
		}
	}
	return out
}
