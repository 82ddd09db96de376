package answer

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/kailas-cloud/georag/internal/domain/retrieval"
)

type mockGenerator struct {
	answer string
	chunks []string
	err    error
}

func (m *mockGenerator) Generate(_ context.Context, _ string, _ retrieval.ResultSet) (string, error) {
	return m.answer, m.err
}

func (m *mockGenerator) GenerateStream(_ context.Context, _ string, _ retrieval.ResultSet, emit func(string) error) error {
	if m.err != nil {
		return m.err
	}
	for _, c := range m.chunks {
		if err := emit(c); err != nil {
			return err
		}
	}
	return nil
}

func fp(f float64) *float64 { return &f }

func docs(titles ...string) retrieval.ResultSet {
	rs := retrieval.ResultSet{}
	for i, title := range titles {
		score := 0.9 - float64(i)*0.1
		rs.Documents = append(rs.Documents, retrieval.Document{
			Title:  title,
			Scores: retrieval.ScoreSet{Hybrid: fp(score)},
		})
	}
	return rs
}

func TestGenerate_Delegates(t *testing.T) {
	svc := New(&mockGenerator{answer: "The corridor is zoned mixed-use."})

	got, err := svc.Generate(context.Background(), "what is the zoning?", docs("Corridor plan"))
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if got != "The corridor is zoned mixed-use." {
		t.Errorf("unexpected answer: %q", got)
	}
}

func TestGenerate_ErrorPropagates(t *testing.T) {
	wantErr := errors.New("provider down")
	svc := New(&mockGenerator{err: wantErr})

	if _, err := svc.Generate(context.Background(), "q", docs("A")); !errors.Is(err, wantErr) {
		t.Errorf("expected generator error, got %v", err)
	}
}

func TestGenerate_FallbackSummarizer(t *testing.T) {
	svc := New(nil)

	got, err := svc.Generate(context.Background(), "flood zones", docs("A", "B", "C", "D", "E", "F", "G"))
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if !strings.Contains(got, `"flood zones"`) {
		t.Errorf("summary missing query: %q", got)
	}
	if !strings.Contains(got, "found 7 relevant spatial documents") {
		t.Errorf("summary missing document count: %q", got)
	}
	if !strings.Contains(got, "1. **A** (relevance: 0.90)") {
		t.Errorf("summary missing ranked entry: %q", got)
	}
	if strings.Contains(got, "**F**") {
		t.Errorf("summary must cap at %d entries: %q", fallbackLimit, got)
	}
}

func TestGenerate_FallbackEmpty(t *testing.T) {
	svc := New(nil)

	got, err := svc.Generate(context.Background(), "anything", retrieval.ResultSet{})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if got != "No relevant documents found for your query." {
		t.Errorf("unexpected empty-set summary: %q", got)
	}
}

func TestGenerateStream_Delegates(t *testing.T) {
	svc := New(&mockGenerator{chunks: []string{"a", "b", "c"}})

	var got []string
	err := svc.GenerateStream(context.Background(), "q", docs("A"), func(chunk string) error {
		got = append(got, chunk)
		return nil
	})
	if err != nil {
		t.Fatalf("GenerateStream failed: %v", err)
	}
	if strings.Join(got, "") != "abc" {
		t.Errorf("unexpected chunks: %v", got)
	}
}

func TestGenerateStream_FallbackStreamsWords(t *testing.T) {
	svc := New(nil)

	var chunks []string
	err := svc.GenerateStream(context.Background(), "q", retrieval.ResultSet{}, func(chunk string) error {
		chunks = append(chunks, chunk)
		return nil
	})
	if err != nil {
		t.Fatalf("GenerateStream failed: %v", err)
	}
	if len(chunks) < 2 {
		t.Fatalf("expected word-by-word chunks, got %v", chunks)
	}
	joined := strings.TrimSpace(strings.Join(chunks, ""))
	want := "No relevant documents found for your query."
	if joined != want {
		t.Errorf("reassembled stream = %q, want %q", joined, want)
	}
}

func TestGenerateStream_EmitErrorStops(t *testing.T) {
	svc := New(nil)

	wantErr := errors.New("client gone")
	calls := 0
	err := svc.GenerateStream(context.Background(), "q", docs("A"), func(string) error {
		calls++
		return wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Errorf("expected emit error, got %v", err)
	}
	if calls != 1 {
		t.Errorf("expected streaming to stop after first error, got %d calls", calls)
	}
}
