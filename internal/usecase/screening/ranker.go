package screening

import (
	"sort"
	"strings"

	"github.com/kailas-cloud/rankdex/internal/domain/document"
	"github.com/kailas-cloud/rankdex/internal/domain/screening/result"
)

// DefaultSummaryLength is the number of characters of raw text kept as a summary.
const DefaultSummaryLength = 500

// Stats describes one scoring pass.
type Stats struct {
	Candidates           int
	VocabularySize       int
	DegenerateQuery      bool
	DegenerateCandidates int
}

// Ranking is the ordered output of one scoring pass.
type Ranking struct {
	Results []result.Result
	Stats   Stats
}

// Ranker scores candidates against a query in a TF-IDF space built from
// the query and the candidates alone.
type Ranker struct {
	normalizer    Normalizer
	vocabularyCap int
	summaryLength int
}

// NewRanker creates a Ranker. Non-positive limits select the defaults.
func NewRanker(normalizer Normalizer, vocabularyCap, summaryLength int) *Ranker {
	if vocabularyCap <= 0 {
		vocabularyCap = DefaultVocabularyCap
	}
	if summaryLength <= 0 {
		summaryLength = DefaultSummaryLength
	}
	return &Ranker{normalizer: normalizer, vocabularyCap: vocabularyCap, summaryLength: summaryLength}
}

// Rank normalizes the query and every candidate, then scores and orders them.
// It never fails: empty or fully filtered texts simply score 0.
func (r *Ranker) Rank(query string, candidates []document.Candidate) Ranking {
	q, docs := r.documents(query, candidates)
	ranking, _ := r.rank(q, docs)
	return ranking
}

func (r *Ranker) documents(query string, candidates []document.Candidate) (document.Document, []document.Document) {
	q := document.New("", query, r.normalizer.Normalize)
	docs := make([]document.Document, len(candidates))
	for i, c := range candidates {
		docs[i] = document.New(c.ID, c.Text, r.normalizer.Normalize)
	}
	return q, docs
}

// rank scores pre-normalized documents. The query is document 0 of the corpus.
// The second return value maps each result position to its index in docs.
func (r *Ranker) rank(query document.Document, docs []document.Document) (Ranking, []int) {
	corpus := make([][]string, 0, len(docs)+1)
	corpus = append(corpus, query.Tokens())
	for i := range docs {
		corpus = append(corpus, docs[i].Tokens())
	}

	vocab := buildVocabulary(corpus, r.vocabularyCap)
	vectors := fitTFIDF(corpus, vocab)
	qv := vectors[0]

	stats := Stats{
		Candidates:      len(docs),
		VocabularySize:  vocab.Len(),
		DegenerateQuery: qv.norm() == 0,
	}

	type scored struct {
		idx   int
		score float64
	}
	order := make([]scored, len(docs))
	for i := range docs {
		cv := vectors[i+1]
		if cv.norm() == 0 {
			stats.DegenerateCandidates++
		}
		order[i] = scored{idx: i, score: cosine(qv, cv)}
	}

	sort.SliceStable(order, func(i, j int) bool {
		return order[i].score > order[j].score
	})

	results := make([]result.Result, len(order))
	sources := make([]int, len(order))
	for rank, s := range order {
		d := &docs[s.idx]
		results[rank] = result.New(d.ID(), s.score, rank+1, []string{}, summarize(d.Raw(), r.summaryLength))
		sources[rank] = s.idx
	}
	return Ranking{Results: results, Stats: stats}, sources
}

// summarize returns the first n characters of raw with newlines as spaces.
func summarize(raw string, n int) string {
	if n > 0 {
		count := 0
		for i := range raw {
			if count == n {
				raw = raw[:i]
				break
			}
			count++
		}
	}
	return strings.ReplaceAll(raw, "\n", " ")
}
