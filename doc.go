// Package rankdex ranks resumes against a job description.
//
// Every text is lowercased, stripped to letters, digits and whitespace, and
// filtered for English stop words. A TF-IDF space is fitted on the job
// description and the resumes of one call only, and each resume is scored by
// cosine similarity to the job description. Each result also lists the job
// description terms the resume repeats most and a short excerpt of the resume.
//
//	s, _ := rankdex.New()
//	results := s.Rank(jobDescription, []rankdex.Candidate{
//	    {ID: "alice.pdf", Text: aliceText},
//	    {ID: "bob.txt", Text: bobText},
//	})
//	for _, r := range results {
//	    fmt.Println(r.Rank, r.ID, r.Score, r.Keywords)
//	}
//
// Rank never fails and does not validate. Screen checks the request first
// (minimum job description length, unique identifiers, candidate limit) and
// reports problems as errors wrapping ErrInvalidInput.
package rankdex
