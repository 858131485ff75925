package extract

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/kailas-cloud/rankdex/internal/domain"
)

func TestRegistryExtract_PlainText(t *testing.T) {
	r := NewRegistry(0)

	got, err := r.Extract("resume.TXT", []byte("Go developer\xff\xfe with Kafka"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "Go developer with Kafka" {
		t.Errorf("got %q", got)
	}
}

func TestRegistryExtract_UnknownExtensionFallsBack(t *testing.T) {
	r := NewRegistry(0)
	for _, name := range []string{"resume.docx", "resume", "notes.rtf"} {
		got, err := r.Extract(name, []byte("plain words"))
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", name, err)
		}
		if got != "plain words" {
			t.Errorf("%s: got %q", name, got)
		}
	}
}

func TestRegistryExtract_HTML(t *testing.T) {
	r := NewRegistry(0)
	got, err := r.Extract("cv.html", []byte(`<html><body><h1>Jane Doe</h1><p>Go <b>developer</b></p></body></html>`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(got, "Jane Doe") || !strings.Contains(got, "developer") {
		t.Errorf("missing text in %q", got)
	}
	if strings.Contains(got, "<") {
		t.Errorf("markup left in %q", got)
	}
}

func TestRegistryExtract_BrokenPDFFallsBackToText(t *testing.T) {
	r := NewRegistry(0)
	got, err := r.Extract("cv.pdf", []byte("not a pdf at all, python developer"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "not a pdf at all, python developer" {
		t.Errorf("got %q", got)
	}
}

func TestRegistryExtract_TooLarge(t *testing.T) {
	r := NewRegistry(8)
	_, err := r.Extract("big.txt", []byte("123456789"))
	if !errors.Is(err, domain.ErrTooLarge) {
		t.Fatalf("expected ErrTooLarge, got %v", err)
	}
	if _, err := r.Extract("ok.txt", []byte("12345678")); err != nil {
		t.Fatalf("file at the limit should pass: %v", err)
	}
}

func TestRegistry_FormatsAndRegister(t *testing.T) {
	r := NewRegistry(0)
	want := []string{".htm", ".html", ".md", ".pdf", ".txt"}
	if got := r.Formats(); !reflect.DeepEqual(got, want) {
		t.Errorf("Formats = %v, want %v", got, want)
	}

	r.Register("RTF", ExtractorFunc(func([]byte) (string, error) { return "custom", nil }))
	got, err := r.Extract("x.rtf", nil)
	if err != nil || got != "custom" {
		t.Errorf("got %q, %v", got, err)
	}
}

func TestFormat(t *testing.T) {
	tests := map[string]string{
		"a.PDF":          ".pdf",
		"dir/b.txt":      ".txt",
		"noext":          "",
		"archive.tar.gz": ".gz",
	}
	for in, want := range tests {
		if got := Format(in); got != want {
			t.Errorf("Format(%q) = %q, want %q", in, got, want)
		}
	}
}

type mockFailures struct {
	mu      sync.Mutex
	formats []string
}

func (m *mockFailures) ObserveExtractionFailure(format string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.formats = append(m.formats, format)
}

func TestBatchRun_PreservesOrder(t *testing.T) {
	sources := make([]Source, 20)
	for i := range sources {
		sources[i] = Source{Name: fmt.Sprintf("r%02d.txt", i), Data: []byte(fmt.Sprintf("resume %d", i))}
	}

	var calls atomic.Int32
	got, err := NewBatch(NewRegistry(0), 3, nil).Run(context.Background(), sources, func() { calls.Add(1) })
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, c := range got {
		if c.ID != sources[i].Name || c.Text != fmt.Sprintf("resume %d", i) {
			t.Errorf("position %d = %+v", i, c)
		}
	}
	if calls.Load() != int32(len(sources)) {
		t.Errorf("progress called %d times", calls.Load())
	}
}

func TestBatchRun_FailureBecomesEmptyText(t *testing.T) {
	reg := NewRegistry(16)
	reg.Register(".bad", ExtractorFunc(func([]byte) (string, error) {
		return "", domain.ErrExtractionFailed
	}))
	obs := &mockFailures{}

	got, err := NewBatch(reg, 0, nil).WithObserver(obs).Run(context.Background(), []Source{
		{Name: "ok.txt", Data: []byte("fine")},
		{Name: "broken.bad", Data: []byte("x")},
		{Name: "huge", Data: []byte(strings.Repeat("x", 17))},
	}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got[0].Text != "fine" || got[1].Text != "" || got[2].Text != "" {
		t.Errorf("got %+v", got)
	}
	if got[1].ID != "broken.bad" {
		t.Errorf("failed source keeps its name, got %q", got[1].ID)
	}

	obs.mu.Lock()
	defer obs.mu.Unlock()
	if len(obs.formats) != 2 {
		t.Fatalf("expected 2 failures, got %v", obs.formats)
	}
	seen := map[string]bool{}
	for _, f := range obs.formats {
		seen[f] = true
	}
	if !seen["bad"] || !seen["unknown"] {
		t.Errorf("failure formats = %v", obs.formats)
	}
}

func TestBatchRun_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewBatch(NewRegistry(0), 2, nil).Run(ctx, []Source{{Name: "a.txt", Data: []byte("a")}}, nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
