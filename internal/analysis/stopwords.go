package analysis

import (
	"bufio"
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/blevesearch/bleve/v2/analysis"
	"github.com/blevesearch/bleve/v2/analysis/lang/en"
)

// Stop-word list sources.
const (
	SourceBuiltin  = "builtin"  // bundled general-language English list
	SourceSnowball = "snowball" // Snowball English list shipped with bleve
	SourceNone     = "none"
)

//go:embed stopwords/english.txt
var builtinEnglish []byte

// StopWords is an immutable set of words excluded from scoring.
type StopWords struct {
	words map[string]struct{}
}

// NewStopWords builds a set from words. Entries are lowercased and trimmed; blanks are ignored.
func NewStopWords(words ...string) StopWords {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w != "" {
			set[w] = struct{}{}
		}
	}
	return StopWords{words: set}
}

// DefaultStopWords returns the bundled English list.
func DefaultStopWords() StopWords {
	sw, err := parseList(builtinEnglish)
	if err != nil {
		// The list is compiled into the binary; a parse failure is a build defect.
		panic(fmt.Sprintf("parse bundled stop words: %v", err))
	}
	return sw
}

// LoadStopWords resolves a stop-word set from a named source, an optional
// file (one word per line, '#' starts a comment) and extra words. A file,
// when given, replaces the source list; extras are always added.
func LoadStopWords(source, file string, extra []string) (StopWords, error) {
	var base []string

	switch {
	case file != "":
		data, err := os.ReadFile(filepath.Clean(file))
		if err != nil {
			return StopWords{}, fmt.Errorf("read stop words %s: %w", file, err)
		}
		sw, err := parseList(data)
		if err != nil {
			return StopWords{}, fmt.Errorf("parse stop words %s: %w", file, err)
		}
		base = sw.List()
	case source == "" || source == SourceBuiltin:
		base = DefaultStopWords().List()
	case source == SourceSnowball:
		tm := analysis.NewTokenMap()
		if err := tm.LoadBytes(en.EnglishStopWords); err != nil {
			return StopWords{}, fmt.Errorf("load snowball stop words: %w", err)
		}
		for w := range tm {
			base = append(base, w)
		}
	case source == SourceNone:
	default:
		return StopWords{}, fmt.Errorf("unknown stop word source %q", source)
	}

	return NewStopWords(append(base, extra...)...), nil
}

func parseList(data []byte) (StopWords, error) {
	var words []string
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		line := sc.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		words = append(words, strings.Fields(line)...)
	}
	if err := sc.Err(); err != nil {
		return StopWords{}, err
	}
	return NewStopWords(words...), nil
}

// Contains reports whether w is a stop word. w must already be lowercase.
func (s StopWords) Contains(w string) bool {
	_, ok := s.words[w]
	return ok
}

// Len returns the number of words in the set.
func (s StopWords) Len() int { return len(s.words) }

// List returns the words in unspecified order.
func (s StopWords) List() []string {
	out := make([]string, 0, len(s.words))
	for w := range s.words {
		out = append(out, w)
	}
	return out
}
