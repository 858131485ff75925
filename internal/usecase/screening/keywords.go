package screening

import "sort"

// DefaultKeywordCount is the number of matched keywords reported per candidate.
const DefaultKeywordCount = 5

// KeywordMatcher explains a match by the query terms that literally recur in
// a candidate. It counts raw occurrences, not TF-IDF weights.
type KeywordMatcher struct {
	normalizer Normalizer
}

// NewKeywordMatcher creates a KeywordMatcher.
func NewKeywordMatcher(normalizer Normalizer) *KeywordMatcher {
	return &KeywordMatcher{normalizer: normalizer}
}

// TopMatches returns up to topN query terms ordered by how often they occur
// in candidateText; equal counts keep the order of first occurrence in the
// candidate. topN <= 0 selects DefaultKeywordCount.
func (m *KeywordMatcher) TopMatches(query, candidateText string, topN int) []string {
	return matchTokens(termSet(m.normalizer.Normalize(query)), m.normalizer.Normalize(candidateText), topN)
}

func termSet(tokens []string) map[string]struct{} {
	set := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		set[t] = struct{}{}
	}
	return set
}

func matchTokens(queryTerms map[string]struct{}, candidate []string, topN int) []string {
	if topN <= 0 {
		topN = DefaultKeywordCount
	}

	counts := make(map[string]int)
	order := make([]string, 0, topN)
	for _, t := range candidate {
		if _, ok := queryTerms[t]; !ok {
			continue
		}
		if counts[t] == 0 {
			order = append(order, t)
		}
		counts[t]++
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})
	if len(order) > topN {
		order = order[:topN]
	}
	return order
}
