package rankdex

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures a Screener.
type Option interface {
	apply(*screenerConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*screenerConfig)

func (f optionFunc) apply(c *screenerConfig) { f(c) }

type screenerConfig struct {
	stopWords      []string
	stopWordSource string
	stopWordFile   string
	extraStopWords []string

	vocabularyCap int
	keywordCount  int
	summaryLength int
	maxCandidates int

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithStopWords replaces the stop-word list with words. With no words,
// nothing is filtered.
func WithStopWords(words ...string) Option {
	return optionFunc(func(c *screenerConfig) {
		c.stopWords = append(make([]string, 0, len(words)), words...)
	})
}

// WithStopWordSource selects a bundled stop-word list: "builtin" (default),
// "snowball" or "none".
func WithStopWordSource(source string) Option {
	return optionFunc(func(c *screenerConfig) {
		c.stopWordSource = source
	})
}

// WithStopWordFile loads the stop-word list from a file, one word per line.
func WithStopWordFile(path string) Option {
	return optionFunc(func(c *screenerConfig) {
		c.stopWordFile = path
	})
}

// WithExtraStopWords adds words to whichever list is in use.
func WithExtraStopWords(words ...string) Option {
	return optionFunc(func(c *screenerConfig) {
		c.extraStopWords = append(c.extraStopWords, words...)
	})
}

// WithVocabularyCap limits the TF-IDF vocabulary to the n most frequent terms.
// Default: 5000.
func WithVocabularyCap(n int) Option {
	return optionFunc(func(c *screenerConfig) {
		c.vocabularyCap = n
	})
}

// WithKeywordCount sets how many matched keywords each result reports.
// Default: 5.
func WithKeywordCount(n int) Option {
	return optionFunc(func(c *screenerConfig) {
		c.keywordCount = n
	})
}

// WithSummaryLength sets the number of characters kept as a summary.
// Default: 500.
func WithSummaryLength(n int) Option {
	return optionFunc(func(c *screenerConfig) {
		c.summaryLength = n
	})
}

// WithMaxCandidates caps the number of resumes Screen accepts. Default: 200.
func WithMaxCandidates(n int) Option {
	return optionFunc(func(c *screenerConfig) {
		c.maxCandidates = n
	})
}

// WithLogger enables structured logging for screening calls.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *screenerConfig) {
		c.logger = l
	})
}

// WithPrometheus registers call counts and durations on the given
// registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *screenerConfig) {
		c.metricsReg = reg
	})
}
