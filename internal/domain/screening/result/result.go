package result

// Result is one ranked candidate of a screening.
type Result struct {
	id       string
	score    float64
	rank     int
	keywords []string
	summary  string
}

// New creates a ranked result.
func New(id string, score float64, rank int, keywords []string, summary string) Result {
	return Result{id: id, score: score, rank: rank, keywords: keywords, summary: summary}
}

// ID returns the candidate identifier.
func (r Result) ID() string { return r.id }

// Score returns the cosine similarity against the query, in [0,1].
func (r Result) Score() float64 { return r.score }

// Rank returns the 1-based position in the ranking.
func (r Result) Rank() int { return r.rank }

// Keywords returns the query terms that recur most in the candidate.
func (r Result) Keywords() []string { return r.keywords }

// Summary returns the leading excerpt of the raw candidate text.
func (r Result) Summary() string { return r.summary }

// WithKeywords returns a copy of r carrying keywords.
func (r Result) WithKeywords(keywords []string) Result {
	r.keywords = keywords
	return r
}
