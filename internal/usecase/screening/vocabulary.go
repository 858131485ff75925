package screening

import "sort"

// DefaultVocabularyCap is the maximum number of terms kept in one vector space.
const DefaultVocabularyCap = 5000

// Vocabulary maps each term of one corpus to a stable column position.
// It is built once per scoring pass and never modified afterwards.
type Vocabulary struct {
	index map[string]int
	terms []string
}

// buildVocabulary collects the distinct terms of docs. When there are more
// than maxTerms, the most frequent terms across the whole corpus are kept;
// equal frequencies keep the term that appeared first. Columns follow
// first-appearance order. maxTerms <= 0 disables the cap.
func buildVocabulary(docs [][]string, maxTerms int) Vocabulary {
	counts := make(map[string]int)
	var order []string
	for _, doc := range docs {
		for _, t := range doc {
			if _, ok := counts[t]; !ok {
				order = append(order, t)
			}
			counts[t]++
		}
	}

	kept := order
	if maxTerms > 0 && len(order) > maxTerms {
		pos := make(map[string]int, len(order))
		for i, t := range order {
			pos[t] = i
		}
		byFreq := make([]string, len(order))
		copy(byFreq, order)
		sort.SliceStable(byFreq, func(i, j int) bool {
			return counts[byFreq[i]] > counts[byFreq[j]]
		})
		kept = byFreq[:maxTerms]
		sort.Slice(kept, func(i, j int) bool { return pos[kept[i]] < pos[kept[j]] })
	}

	v := Vocabulary{index: make(map[string]int, len(kept)), terms: make([]string, len(kept))}
	for i, t := range kept {
		v.index[t] = i
		v.terms[i] = t
	}
	return v
}

// Len returns the number of columns.
func (v Vocabulary) Len() int { return len(v.terms) }

// Column returns the position of term and whether it is in the vocabulary.
func (v Vocabulary) Column(term string) (int, bool) {
	i, ok := v.index[term]
	return i, ok
}

// Term returns the term at column i.
func (v Vocabulary) Term(i int) string { return v.terms[i] }
