// Package report renders screening results as JSON rows, CSV and terminal text.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"unicode/utf8"

	"github.com/kailas-cloud/rankdex/internal/domain/screening/result"
)

// CSVFilename is the attachment name used for CSV downloads.
const CSVFilename = "ranked_results.csv"

// DetailSummaryLength is how much of the summary the detail view prints.
const DetailSummaryLength = 250

// CSVHeader lists the CSV columns in order.
var CSVHeader = []string{"rank", "filename", "score", "top_matches", "summary"}

// Row is the serialized form of one ranked candidate.
type Row struct {
	Rank        int      `json:"rank"`
	ID          string   `json:"id"`
	Score       float64  `json:"score"`
	TopKeywords []string `json:"top_keywords"`
	Summary     string   `json:"summary"`
}

// Rows converts results to rows, keeping rank order.
func Rows(results []result.Result) []Row {
	rows := make([]Row, len(results))
	for i, r := range results {
		kw := r.Keywords()
		if kw == nil {
			kw = []string{}
		}
		rows[i] = Row{
			Rank:        r.Rank(),
			ID:          r.ID(),
			Score:       r.Score(),
			TopKeywords: kw,
			Summary:     r.Summary(),
		}
	}
	return rows
}

// JoinKeywords renders keywords the way the CSV and detail views show them.
func JoinKeywords(keywords []string) string {
	return strings.Join(keywords, ", ")
}

// WriteCSV writes a header row followed by one row per result.
func WriteCSV(w io.Writer, results []result.Result) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, r := range results {
		rec := []string{
			strconv.Itoa(r.Rank()),
			r.ID(),
			strconv.FormatFloat(r.Score(), 'f', -1, 64),
			JoinKeywords(r.Keywords()),
			r.Summary(),
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write csv row %d: %w", r.Rank(), err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

// WriteTable writes an aligned rank/score overview followed by a detail
// block per candidate.
func WriteTable(w io.Writer, results []result.Result) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "RANK\tFILE\tSCORE\tTOP MATCHES")
	for _, r := range results {
		fmt.Fprintf(tw, "%d\t%s\t%.4f\t%s\n", r.Rank(), r.ID(), r.Score(), JoinKeywords(r.Keywords()))
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("write table: %w", err)
	}

	for _, r := range results {
		_, err := fmt.Fprintf(w, "\n#%d  %s\n  Similarity Score: %.4f\n  Top Keyword Matches: %s\n  Summary: %s...\n",
			r.Rank(), r.ID(), r.Score(), JoinKeywords(r.Keywords()), truncate(r.Summary(), DetailSummaryLength))
		if err != nil {
			return fmt.Errorf("write details: %w", err)
		}
	}
	return nil
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
