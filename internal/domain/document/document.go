package document

// Candidate is a caller-supplied (identifier, raw text) pair.
type Candidate struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// Document is a candidate or query text paired with its normalized tokens.
// Tokens are derived once at construction and never mutated afterwards.
type Document struct {
	id     string
	raw    string
	tokens []string
}

// New normalizes raw with normalize and returns the Document.
func New(id, raw string, normalize func(string) []string) Document {
	return Document{id: id, raw: raw, tokens: normalize(raw)}
}

// ID returns the document identifier.
func (d *Document) ID() string { return d.id }

// Raw returns the unnormalized text.
func (d *Document) Raw() string { return d.raw }

// Tokens returns the normalized token sequence. Callers must not modify it.
func (d *Document) Tokens() []string { return d.tokens }

// IsEmpty reports whether normalization left no tokens.
func (d *Document) IsEmpty() bool { return len(d.tokens) == 0 }
