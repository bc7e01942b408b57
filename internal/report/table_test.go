package report

import (
	"errors"
	"strings"
	"testing"

	"github.com/kailas-cloud/resumatch/internal/domain"
	"github.com/kailas-cloud/resumatch/internal/domain/batch"
)

func TestTable(t *testing.T) {
	results := []batch.Result{
		batch.NewOK("alice.pdf", domain.Scores{Lexical: 0.8123, Semantic: 0.7, Final: 0.655, Label: domain.LabelStrong}),
		batch.NewError("broken.pdf", errors.New("no extractable text found")),
	}

	var sb strings.Builder
	if err := Table(&sb, batch.Rows(results)); err != nil {
		t.Fatalf("Table: %v", err)
	}
	lines := strings.Split(strings.TrimRight(sb.String(), "\n"), "\n")

	if len(lines) != 4 {
		t.Fatalf("expected header, rule and 2 rows, got %d lines:\n%s", len(lines), sb.String())
	}
	for _, col := range []string{"FILE", "TF-IDF", "BERT", "FINAL", "MATCH"} {
		if !strings.Contains(lines[0], col) {
			t.Errorf("header missing %q: %q", col, lines[0])
		}
	}
	if f := strings.Fields(lines[2]); len(f) != 5 || f[0] != "alice.pdf" || f[1] != "0.81" || f[2] != "0.70" || f[4] != "Strong" {
		t.Errorf("unexpected ok row: %q", lines[2])
	}
	if !strings.HasPrefix(lines[3], "broken.pdf") || strings.Count(lines[3], "Error") != 3 ||
		!strings.Contains(lines[3], "no extractable text found") {
		t.Errorf("unexpected error row: %q", lines[3])
	}
}

func TestTable_Empty(t *testing.T) {
	var sb strings.Builder
	if err := Table(&sb, nil); err != nil {
		t.Fatalf("Table: %v", err)
	}
	if sb.String() != "No resumes scored.\n" {
		t.Errorf("unexpected output %q", sb.String())
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short.pdf", 40); got != "short.pdf" {
		t.Errorf("truncate() = %q", got)
	}
	long := strings.Repeat("é", 50)
	if got := truncate(long, 10); len([]rune(got)) != 10 || !strings.HasSuffix(got, "...") {
		t.Errorf("truncate() = %q", got)
	}
}
