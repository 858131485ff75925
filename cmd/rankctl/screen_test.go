package main

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"go.uber.org/zap"

	"github.com/kailas-cloud/rankdex/internal/app"
	"github.com/kailas-cloud/rankdex/internal/config"
)

type countingProgress struct {
	total     int
	increment atomic.Int32
	finished  bool
}

func (p *countingProgress) Start(total int) { p.total = total }
func (p *countingProgress) Increment()      { p.increment.Add(1) }
func (p *countingProgress) Finish()         { p.finished = true }

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func newTestApp(t *testing.T) *app.App {
	t.Helper()
	a, err := app.New(config.Default(), zap.NewNop(), false)
	if err != nil {
		t.Fatalf("app.New: %v", err)
	}
	return a
}

func setupResumes(t *testing.T) (dir, jd string) {
	t.Helper()
	dir = t.TempDir()
	jd = writeFile(t, dir, "job.txt", "Python developer with AWS experience")
	writeFile(t, dir, "resumes/alice.txt", "Senior Python developer, five years of AWS")
	writeFile(t, dir, "resumes/nested/bob.html", "<html><body><p>Java engineer</p><script>python()</script></body></html>")
	writeFile(t, dir, "resumes/carol.md", "# Carol\n\nPython and AWS python scripting")
	return dir, jd
}

func TestRunScreen_Table(t *testing.T) {
	dir, jd := setupResumes(t)
	progress := &countingProgress{}

	var buf bytes.Buffer
	err := runScreen(context.Background(), newTestApp(t), screenOptions{
		jdPath:   jd,
		patterns: []string{filepath.Join(dir, "resumes", "**", "*")},
		format:   outputTable,
	}, &buf, progress, zap.NewNop())
	if err != nil {
		t.Fatalf("runScreen: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"RANK", "alice.txt", "bob.html", "carol.md", "Similarity Score"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if progress.total != 3 || progress.increment.Load() != 3 || !progress.finished {
		t.Errorf("progress = %d/%d finished=%v", progress.increment.Load(), progress.total, progress.finished)
	}
}

func TestRunScreen_CSV(t *testing.T) {
	dir, jd := setupResumes(t)

	var buf bytes.Buffer
	err := runScreen(context.Background(), newTestApp(t), screenOptions{
		jdPath:   jd,
		patterns: []string{filepath.Join(dir, "resumes", "*.txt"), filepath.Join(dir, "resumes", "*.md")},
		format:   outputCSV,
	}, &buf, NewProgress(false), zap.NewNop())
	if err != nil {
		t.Fatalf("runScreen: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("records = %d, want header + 2", len(records))
	}
	if records[0][0] != "rank" || records[1][0] != "1" {
		t.Errorf("unexpected rows: %v", records)
	}
}

func TestRunScreen_JSONWithInlineQuery(t *testing.T) {
	dir, _ := setupResumes(t)

	var buf bytes.Buffer
	err := runScreen(context.Background(), newTestApp(t), screenOptions{
		jdText:   "Java engineer needed for backend work",
		patterns: []string{filepath.Join(dir, "resumes", "**", "*.html")},
		format:   outputJSON,
		topN:     1,
	}, &buf, NewProgress(false), zap.NewNop())
	if err != nil {
		t.Fatalf("runScreen: %v", err)
	}

	var got jsonReport
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got.Results) != 1 || got.Results[0].ID != "nested/bob.html" {
		t.Fatalf("results = %+v", got.Results)
	}
	if len(got.Results[0].TopKeywords) != 1 {
		t.Errorf("keywords = %v, want 1", got.Results[0].TopKeywords)
	}
	if got.Results[0].Score <= 0 {
		t.Errorf("score = %v, want > 0", got.Results[0].Score)
	}
}

func TestRunScreen_Errors(t *testing.T) {
	dir, jd := setupResumes(t)
	resumes := filepath.Join(dir, "resumes", "*.txt")

	tests := []struct {
		name string
		opts screenOptions
		want string
	}{
		{"bad format", screenOptions{jdPath: jd, patterns: []string{resumes}, format: "xml"}, "unknown format"},
		{"no job description", screenOptions{patterns: []string{resumes}, format: outputTable}, "job description is required"},
		{"both job descriptions", screenOptions{jdPath: jd, jdText: "x", patterns: []string{resumes}, format: outputTable}, "either"},
		{"no matches", screenOptions{jdPath: jd, patterns: []string{filepath.Join(dir, "*.pdf")}, format: outputTable}, "no resume files"},
		{"short query", screenOptions{jdText: "python", patterns: []string{resumes}, format: outputTable}, "invalid input"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			err := runScreen(context.Background(), newTestApp(t), tt.opts, &buf, NewProgress(false), zap.NewNop())
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("err = %v, want containing %q", err, tt.want)
			}
		})
	}
}

func TestRunScreen_Cancelled(t *testing.T) {
	dir, jd := setupResumes(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var buf bytes.Buffer
	err := runScreen(ctx, newTestApp(t), screenOptions{
		jdPath:   jd,
		patterns: []string{filepath.Join(dir, "resumes", "*.txt")},
		format:   outputTable,
	}, &buf, NewProgress(false), zap.NewNop())
	if err == nil {
		t.Fatal("expected error")
	}
	if buf.Len() != 0 {
		t.Errorf("unexpected output: %s", buf.String())
	}
}

func TestExpandPatterns(t *testing.T) {
	dir, _ := setupResumes(t)

	got, err := expandPatterns([]string{
		filepath.Join(dir, "resumes", "**", "*"),
		filepath.Join(dir, "resumes", "alice.txt"),
	})
	if err != nil {
		t.Fatalf("expandPatterns: %v", err)
	}
	want := []resumeFile{
		{Path: filepath.Join(dir, "resumes", "alice.txt"), ID: "alice.txt"},
		{Path: filepath.Join(dir, "resumes", "carol.md"), ID: "carol.md"},
		{Path: filepath.Join(dir, "resumes", "nested", "bob.html"), ID: "nested/bob.html"},
	}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("got[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestExpandPatterns_SameNameAcrossPatterns(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a/alice.txt", "python")
	b := writeFile(t, dir, "b/alice.txt", "python")

	got, err := expandPatterns([]string{
		filepath.Join(dir, "a", "*.txt"),
		filepath.Join(dir, "b", "*.txt"),
	})
	if err != nil {
		t.Fatalf("expandPatterns: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %v, want 2 files", got)
	}
	if got[0].Path != a || got[0].ID != "alice.txt" {
		t.Errorf("got[0] = %+v", got[0])
	}
	if got[1].Path != b || got[1].ID != filepath.ToSlash(b) {
		t.Errorf("got[1] = %+v, want ID %s", got[1], filepath.ToSlash(b))
	}
}

func TestRunScreen_SameFileNameInDifferentFolders(t *testing.T) {
	dir := t.TempDir()
	jd := writeFile(t, dir, "job.txt", "Python developer with AWS experience")
	writeFile(t, dir, "resumes/2023/alice.txt", "Junior Java developer")
	writeFile(t, dir, "resumes/2024/alice.txt", "Senior Python developer with AWS experience")

	var buf bytes.Buffer
	err := runScreen(context.Background(), newTestApp(t), screenOptions{
		jdPath:   jd,
		patterns: []string{filepath.Join(dir, "resumes", "**", "*.txt")},
		format:   outputJSON,
	}, &buf, NewProgress(false), zap.NewNop())
	if err != nil {
		t.Fatalf("runScreen: %v", err)
	}

	var got jsonReport
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got.Results) != 2 {
		t.Fatalf("results = %+v, want 2", got.Results)
	}
	if got.Results[0].ID != "2024/alice.txt" || got.Results[1].ID != "2023/alice.txt" {
		t.Errorf("ids = %s, %s; want 2024/alice.txt, 2023/alice.txt", got.Results[0].ID, got.Results[1].ID)
	}
}

func TestExpandPatterns_BadPattern(t *testing.T) {
	if _, err := expandPatterns([]string{"[unclosed"}); err == nil {
		t.Fatal("expected error")
	}
}

func TestLoadConfig_Explicit(t *testing.T) {
	path := writeFile(t, t.TempDir(), "rankctl.yaml", "http:\n  port: 9000\nscreening:\n  keyword_count: 3\n")

	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Screening.KeywordCount != 3 {
		t.Errorf("keyword_count = %d, want 3", cfg.Screening.KeywordCount)
	}
}
