package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"strings"
	"syscall"

	"github.com/bmatcuk/doublestar/v4"
	"go.uber.org/zap"

	"github.com/kailas-cloud/rankdex/internal/app"
	"github.com/kailas-cloud/rankdex/internal/extract"
	logpkg "github.com/kailas-cloud/rankdex/internal/logger"
	"github.com/kailas-cloud/rankdex/internal/report"
	screeninguc "github.com/kailas-cloud/rankdex/internal/usecase/screening"
)

const (
	outputTable = "table"
	outputCSV   = "csv"
	outputJSON  = "json"
)

// patternList collects a repeatable flag.
type patternList []string

func (p *patternList) String() string { return strings.Join(*p, ",") }

func (p *patternList) Set(v string) error {
	*p = append(*p, v)
	return nil
}

type screenOptions struct {
	jdPath   string
	jdText   string
	patterns []string
	format   string
	out      string
	topN     int
}

func handleScreen(args []string) int {
	fs := flag.NewFlagSet("screen", flag.ExitOnError)

	var (
		opts       screenOptions
		patterns   patternList
		configPath string
		verbose    bool
	)
	fs.StringVar(&opts.jdPath, "jd", "", "Job description file (.txt or .md)")
	fs.StringVar(&opts.jdText, "jd-text", "", "Job description text (instead of -jd)")
	fs.Var(&patterns, "resumes", "Resume file or glob, e.g. 'resumes/**/*.pdf' (repeatable)")
	fs.StringVar(&opts.format, "format", outputTable, "Output format: table, csv or json")
	fs.StringVar(&opts.out, "out", "", "Write output to this file instead of stdout")
	fs.IntVar(&opts.topN, "top-n", 0, "Matched keywords per resume (default from config)")
	fs.StringVar(&configPath, "config", "", "Config file (default config/$ENV.yaml when present)")
	fs.BoolVar(&verbose, "v", false, "Verbose logging on stderr")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `USAGE:
    rankctl screen -jd <file> -resumes <glob> [options]

DESCRIPTION:
    Rank resumes (.pdf, .html, .txt, .md) against a job description by
    TF-IDF cosine similarity.

OPTIONS:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
EXAMPLES:
    rankctl screen -jd job.txt -resumes 'resumes/*.pdf'
    rankctl screen -jd job.md -resumes 'cvs/**/*' -format csv -out %s
`, report.CSVFilename)
	}

	if err := fs.Parse(args); err != nil {
		return 2
	}
	opts.patterns = append(patterns, fs.Args()...)

	logger := logpkg.NewCLI(verbose)
	defer func() { _ = logger.Sync() }()

	cfg, err := loadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	a, err := app.New(cfg, logger, false)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var w io.Writer = os.Stdout
	if opts.out != "" {
		f, err := os.Create(filepath.Clean(opts.out))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		defer func() { _ = f.Close() }()
		w = f
	}

	if err := runScreen(ctx, a, opts, w, NewProgress(DefaultProgressEnabled()), logger); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	if opts.out != "" {
		fmt.Fprintf(os.Stderr, "Results written to %s\n", opts.out)
	}
	return 0
}

func runScreen(
	ctx context.Context, a *app.App, opts screenOptions,
	w io.Writer, progress ProgressReporter, logger *zap.Logger,
) error {
	switch opts.format {
	case outputTable, outputCSV, outputJSON:
	default:
		return fmt.Errorf("unknown format %q (want table, csv or json)", opts.format)
	}

	query, err := readJobDescription(a.Registry, opts)
	if err != nil {
		return err
	}

	files, err := expandPatterns(opts.patterns)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return errors.New("no resume files matched")
	}
	logger.Debug("resumes matched", zap.Int("count", len(files)))

	sources := make([]extract.Source, 0, len(files))
	for _, f := range files {
		data, err := os.ReadFile(f.Path)
		if err != nil {
			return fmt.Errorf("read resume: %w", err)
		}
		sources = append(sources, extract.Source{Name: f.ID, Data: data})
	}

	progress.Start(len(sources))
	candidates, err := a.Batch.Run(ctx, sources, progress.Increment)
	progress.Finish()
	if err != nil {
		return fmt.Errorf("extract resumes: %w", err)
	}

	ranking, err := a.Screening.Screen(ctx, query, candidates, opts.topN)
	if err != nil {
		return fmt.Errorf("screen: %w", err)
	}
	if ranking.Stats.DegenerateQuery {
		logger.Warn("job description has no scorable terms; every score is 0")
	}

	return writeRanking(w, opts.format, ranking)
}

func readJobDescription(registry *extract.Registry, opts screenOptions) (string, error) {
	switch {
	case opts.jdText != "" && opts.jdPath != "":
		return "", errors.New("use either -jd or -jd-text, not both")
	case opts.jdText != "":
		return opts.jdText, nil
	case opts.jdPath == "":
		return "", errors.New("a job description is required (-jd or -jd-text)")
	}

	data, err := os.ReadFile(filepath.Clean(opts.jdPath))
	if err != nil {
		return "", fmt.Errorf("read job description: %w", err)
	}
	text, err := registry.Extract(opts.jdPath, data)
	if err != nil {
		return "", fmt.Errorf("extract job description: %w", err)
	}
	return text, nil
}

// resumeFile is a matched resume and the identifier it is ranked under.
type resumeFile struct {
	Path string
	ID   string
}

// expandPatterns resolves globs (with ** support) and plain paths to the
// regular files they match, sorted by path and de-duplicated. A file's ID is
// its slash-separated path relative to the static prefix of the pattern that
// first matched it, so same-named files in different folders stay distinct.
// When two patterns still yield the same ID, the later file is named by its
// full path instead.
func expandPatterns(patterns []string) ([]resumeFile, error) {
	seen := make(map[string]struct{})
	ids := make(map[string]struct{})
	var out []resumeFile
	for _, pattern := range patterns {
		matches, err := doublestar.FilepathGlob(pattern)
		if err != nil {
			return nil, fmt.Errorf("bad pattern %q: %w", pattern, err)
		}
		base, _ := doublestar.SplitPattern(filepath.ToSlash(pattern))
		for _, m := range matches {
			m = filepath.Clean(m)
			info, err := os.Stat(m)
			if err != nil || !info.Mode().IsRegular() {
				continue
			}
			if _, ok := seen[m]; ok {
				continue
			}
			seen[m] = struct{}{}

			id := fileID(filepath.FromSlash(base), m)
			if _, dup := ids[id]; dup {
				id = filepath.ToSlash(m)
			}
			ids[id] = struct{}{}
			out = append(out, resumeFile{Path: m, ID: id})
		}
	}
	slices.SortFunc(out, func(a, b resumeFile) int { return strings.Compare(a.Path, b.Path) })
	return out, nil
}

func fileID(base, path string) string {
	rel, err := filepath.Rel(base, path)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}

type jsonReport struct {
	Results         []report.Row `json:"results"`
	VocabularySize  int          `json:"vocabulary_size"`
	DegenerateQuery bool         `json:"degenerate_query"`
}

func writeRanking(w io.Writer, format string, ranking screeninguc.Ranking) error {
	switch format {
	case outputCSV:
		return report.WriteCSV(w, ranking.Results) //nolint:wrapcheck // already descriptive
	case outputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(jsonReport{
			Results:         report.Rows(ranking.Results),
			VocabularySize:  ranking.Stats.VocabularySize,
			DegenerateQuery: ranking.Stats.DegenerateQuery,
		}); err != nil {
			return fmt.Errorf("write json: %w", err)
		}
		return nil
	default:
		return report.WriteTable(w, ranking.Results) //nolint:wrapcheck // already descriptive
	}
}
