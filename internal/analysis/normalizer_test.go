package analysis

import (
	"reflect"
	"testing"
)

func TestNormalize(t *testing.T) {
	n := NewNormalizer(DefaultStopWords())

	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"empty", "", []string{}},
		{"only stop words", "a an the", []string{}},
		{"lowercases", "Senior PYTHON Developer", []string{"senior", "python", "developer"}},
		{"drops stop words", "Senior Python Developer with AWS experience",
			[]string{"senior", "python", "developer", "aws", "experience"}},
		{"newline does not fuse", "python\ndeveloper", []string{"python", "developer"}},
		{"punctuation splits", "node.js,c++;ci/cd", []string{"node", "js", "ci", "cd"}},
		{"drops single chars", "x y z go", []string{"go"}},
		{"keeps digits", "5 years k8s 2024", []string{"years", "k8s", "2024"}},
		{"keeps duplicates and order", "golang rust golang", []string{"golang", "rust", "golang"}},
		{"non ascii letters stripped", "café résumé", []string{"caf", "sum"}},
		{"tabs and crlf", "go\tlang\r\nrust", []string{"go", "lang", "rust"}},
		{"apostrophes split", "don't won't", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := n.Normalize(tt.in)
			if len(got) == 0 && len(tt.want) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalize_KelvinSignFoldsToK(t *testing.T) {
	n := NewNormalizer(NewStopWords())
	got := n.Normalize("\u212Aubernetes")
	if !reflect.DeepEqual(got, []string{"kubernetes"}) {
		t.Errorf("got %q", got)
	}
}

func TestNormalize_NoStopWords(t *testing.T) {
	n := NewNormalizer(NewStopWords())
	got := n.Normalize("the go team")
	want := []string{"the", "go", "team"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestNormalizeJoined(t *testing.T) {
	n := NewNormalizer(DefaultStopWords())
	if got := n.NormalizeJoined("The  Go\n\nProgramming   Language!"); got != "go programming language" {
		t.Errorf("got %q", got)
	}
	if got := n.NormalizeJoined("   "); got != "" {
		t.Errorf("expected empty, got %q", got)
	}
}

func TestNormalize_Deterministic(t *testing.T) {
	n := NewNormalizer(DefaultStopWords())
	in := "Kubernetes, Terraform & AWS -- 7 years of on-call experience."
	first := n.Normalize(in)
	for i := 0; i < 5; i++ {
		if got := n.Normalize(in); !reflect.DeepEqual(got, first) {
			t.Fatalf("run %d: %q != %q", i, got, first)
		}
	}
}
