package screening

import "math"

// Vector holds one non-negative TF-IDF weight per vocabulary column.
type Vector []float64

// fitTFIDF expresses every document of the corpus as a vector over vocab.
// tf is the raw term count; idf = ln((1+n)/(1+df)) + 1 over this corpus only,
// so every present term gets a strictly positive weight and no division by
// zero is possible. Terms outside vocab are ignored.
func fitTFIDF(docs [][]string, vocab Vocabulary) []Vector {
	n := len(docs)
	dim := vocab.Len()

	tf := make([]Vector, n)
	df := make([]int, dim)
	for d, doc := range docs {
		vec := make(Vector, dim)
		for _, t := range doc {
			if col, ok := vocab.Column(t); ok {
				if vec[col] == 0 {
					df[col]++
				}
				vec[col]++
			}
		}
		tf[d] = vec
	}

	idf := make([]float64, dim)
	for col, f := range df {
		idf[col] = math.Log(float64(1+n)/float64(1+f)) + 1
	}

	for _, vec := range tf {
		for col := range vec {
			vec[col] *= idf[col]
		}
	}
	return tf
}

// norm returns the Euclidean length of v.
func (v Vector) norm() float64 {
	var sum float64
	for _, x := range v {
		sum += x * x
	}
	return math.Sqrt(sum)
}

// cosine returns the cosine similarity of a and b, clamped to [0,1].
// A zero-length vector on either side yields exactly 0.
func cosine(a, b Vector) float64 {
	na, nb := a.norm(), b.norm()
	if na == 0 || nb == 0 {
		return 0
	}
	var dot float64
	for i := range a {
		dot += a[i] * b[i]
	}
	s := dot / (na * nb)
	switch {
	case math.IsNaN(s), s < 0:
		return 0
	case s > 1:
		return 1
	}
	return s
}
