package request

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/rankdex/internal/domain"
	"github.com/kailas-cloud/rankdex/internal/domain/document"
)

// Screening parameter limits.
const (
	DefaultMinQueryLength = 10
	DefaultMaxCandidates  = 200
	DefaultTopN           = 5
	MaxTopN               = 50
	MaxIDLength           = 256
)

// Limits bounds what a request may carry. Zero fields take the defaults above.
type Limits struct {
	MinQueryLength int
	MaxCandidates  int
	DefaultTopN    int
}

func (l Limits) withDefaults() Limits {
	if l.MinQueryLength <= 0 {
		l.MinQueryLength = DefaultMinQueryLength
	}
	if l.MaxCandidates <= 0 {
		l.MaxCandidates = DefaultMaxCandidates
	}
	if l.DefaultTopN <= 0 {
		l.DefaultTopN = DefaultTopN
	}
	return l
}

// Request is a validated screening request.
type Request struct {
	query      string
	candidates []document.Candidate
	topN       int
}

// New validates a screening request. All failures wrap domain.ErrInvalidInput.
// topN <= 0 selects the default keyword count; larger values are clamped to MaxTopN.
func New(query string, candidates []document.Candidate, topN int, limits Limits) (Request, error) {
	limits = limits.withDefaults()

	if strings.TrimSpace(query) == "" {
		return Request{}, domain.NewValidation("query", "job description is required")
	}
	if n := len([]rune(strings.TrimSpace(query))); n < limits.MinQueryLength {
		return Request{}, domain.NewValidation("query",
			fmt.Sprintf("job description too short (%d chars, min %d)", n, limits.MinQueryLength))
	}
	if len(candidates) == 0 {
		return Request{}, domain.NewValidation("candidates", "at least one resume is required")
	}
	if len(candidates) > limits.MaxCandidates {
		return Request{}, domain.NewValidation("candidates",
			fmt.Sprintf("too many resumes (%d, max %d)", len(candidates), limits.MaxCandidates))
	}

	seen := make(map[string]struct{}, len(candidates))
	for i, c := range candidates {
		if c.ID == "" {
			return Request{}, domain.NewValidation("candidates", fmt.Sprintf("resume %d has no identifier", i))
		}
		if len(c.ID) > MaxIDLength {
			return Request{}, domain.NewValidation("candidates",
				fmt.Sprintf("identifier too long (max %d)", MaxIDLength))
		}
		if _, dup := seen[c.ID]; dup {
			return Request{}, domain.NewValidation("candidates", fmt.Sprintf("duplicate identifier %q", c.ID))
		}
		seen[c.ID] = struct{}{}
	}

	if topN <= 0 {
		topN = limits.DefaultTopN
	}
	if topN > MaxTopN {
		topN = MaxTopN
	}

	cs := make([]document.Candidate, len(candidates))
	copy(cs, candidates)

	return Request{query: query, candidates: cs, topN: topN}, nil
}

// Query returns the job description text.
func (r *Request) Query() string { return r.query }

// Candidates returns the resumes in input order.
func (r *Request) Candidates() []document.Candidate { return r.candidates }

// TopN returns the number of keywords to report per candidate.
func (r *Request) TopN() int { return r.topN }
