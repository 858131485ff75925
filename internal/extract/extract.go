// Package extract turns uploaded resume and job description files into plain text.
package extract

import (
	"bytes"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/PuerkitoBio/goquery"
	"github.com/ledongthuc/pdf"

	"github.com/kailas-cloud/rankdex/internal/domain"
)

// DefaultMaxFileBytes caps a single source file.
const DefaultMaxFileBytes = 10 << 20

// Source is one named input file.
type Source struct {
	Name string
	Data []byte
}

// Extractor converts the bytes of one file format to text.
type Extractor interface {
	Extract(data []byte) (string, error)
}

// ExtractorFunc adapts a function to Extractor.
type ExtractorFunc func(data []byte) (string, error)

// Extract calls f(data).
func (f ExtractorFunc) Extract(data []byte) (string, error) { return f(data) }

// Registry dispatches sources to extractors by file extension.
// Unknown extensions are decoded as lossy UTF-8.
type Registry struct {
	byExt    map[string]Extractor
	fallback Extractor
	maxBytes int64
}

// NewRegistry creates a registry with the PDF, HTML, text and markdown
// extractors registered. maxBytes <= 0 selects DefaultMaxFileBytes.
func NewRegistry(maxBytes int64) *Registry {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxFileBytes
	}
	r := &Registry{
		byExt:    make(map[string]Extractor),
		fallback: ExtractorFunc(PlainText),
		maxBytes: maxBytes,
	}
	r.Register(".pdf", ExtractorFunc(PDF))
	r.Register(".html", ExtractorFunc(HTML))
	r.Register(".htm", ExtractorFunc(HTML))
	r.Register(".txt", ExtractorFunc(PlainText))
	r.Register(".md", ExtractorFunc(PlainText))
	return r
}

// Register binds ext (with or without the leading dot) to e.
func (r *Registry) Register(ext string, e Extractor) {
	ext = strings.ToLower(ext)
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	r.byExt[ext] = e
}

// Formats returns the registered extensions in sorted order.
func (r *Registry) Formats() []string {
	out := make([]string, 0, len(r.byExt))
	for ext := range r.byExt {
		out = append(out, ext)
	}
	sort.Strings(out)
	return out
}

// MaxBytes returns the per-file size limit.
func (r *Registry) MaxBytes() int64 { return r.maxBytes }

// Extract converts data to text using the extractor registered for name's extension.
func (r *Registry) Extract(name string, data []byte) (string, error) {
	if int64(len(data)) > r.maxBytes {
		return "", fmt.Errorf("%s: %d bytes exceeds %d: %w", name, len(data), r.maxBytes, domain.ErrTooLarge)
	}
	e, ok := r.byExt[Format(name)]
	if !ok {
		e = r.fallback
	}
	text, err := e.Extract(data)
	if err != nil {
		return "", fmt.Errorf("%s: %w", name, err)
	}
	return text, nil
}

// Format returns the lowercase extension of name including the dot, or "" if none.
func Format(name string) string {
	return strings.ToLower(filepath.Ext(name))
}

// PlainText decodes data as UTF-8, dropping invalid byte sequences.
func PlainText(data []byte) (string, error) {
	return strings.ToValidUTF8(string(data), ""), nil
}

// PDF extracts the plain text of every page, joined by newlines.
// Unparseable documents fall back to PlainText.
func PDF(data []byte) (string, error) {
	text, err := pdfText(data)
	if err != nil {
		return PlainText(data)
	}
	return text, nil
}

func pdfText(data []byte) (text string, err error) {
	// The parser panics on some malformed inputs.
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("parse pdf: %v", rec)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}

	pages := make([]string, 0, reader.NumPage())
	for i := 1; i <= reader.NumPage(); i++ {
		p := reader.Page(i)
		if p.V.IsNull() {
			continue
		}
		content, err := p.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("page %d: %w", i, err)
		}
		if content != "" {
			pages = append(pages, content)
		}
	}
	return strings.Join(pages, "\n"), nil
}

// HTML converts data to markdown, falling back to the document's visible text.
func HTML(data []byte) (string, error) {
	md, err := htmltomarkdown.ConvertString(string(data))
	if err == nil {
		return strings.TrimSpace(md), nil
	}

	doc, qerr := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if qerr != nil {
		return "", fmt.Errorf("html: %w: %w", domain.ErrExtractionFailed, qerr)
	}
	doc.Find("script, style, noscript, svg").Remove()
	return strings.TrimSpace(doc.Text()), nil
}
