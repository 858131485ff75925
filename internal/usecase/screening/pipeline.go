package screening

import (
	"github.com/kailas-cloud/rankdex/internal/domain/document"
	"github.com/kailas-cloud/rankdex/internal/domain/screening/result"
)

// Pipeline runs normalization, ranking and keyword annotation as one pass.
// Nothing is shared between calls: the vocabulary and vectors are rebuilt
// every time, so identical inputs always give identical output.
type Pipeline struct {
	ranker  *Ranker
	matcher *KeywordMatcher
}

// NewPipeline wires a ranker and keyword matcher that share normalizer.
func NewPipeline(normalizer Normalizer, vocabularyCap, summaryLength int) *Pipeline {
	return &Pipeline{
		ranker:  NewRanker(normalizer, vocabularyCap, summaryLength),
		matcher: NewKeywordMatcher(normalizer),
	}
}

// Run ranks candidates against query and attaches up to topN matched
// keywords to every result. Each text is normalized exactly once.
func (p *Pipeline) Run(query string, candidates []document.Candidate, topN int) Ranking {
	q, docs := p.ranker.documents(query, candidates)
	ranking, sources := p.ranker.rank(q, docs)

	queryTerms := termSet(q.Tokens())
	annotated := make([]result.Result, len(ranking.Results))
	for i, r := range ranking.Results {
		annotated[i] = r.WithKeywords(matchTokens(queryTerms, docs[sources[i]].Tokens(), topN))
	}
	ranking.Results = annotated
	return ranking
}

// Ranker returns the pipeline's similarity ranker.
func (p *Pipeline) Ranker() *Ranker { return p.ranker }

// Matcher returns the pipeline's keyword matcher.
func (p *Pipeline) Matcher() *KeywordMatcher { return p.matcher }
