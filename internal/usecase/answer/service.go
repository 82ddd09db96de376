// Package answer synthesizes an answer from retrieved spatial context.
package answer

import (
	"context"
	"fmt"
	"strings"

	"github.com/kailas-cloud/georag/internal/domain/retrieval"
)

const fallbackLimit = 5

// Service produces answers via the configured generator, or a
// deterministic document summary when no generator is available
// (no LLM API key configured).
type Service struct {
	gen Generator
}

// New creates an answer service. gen may be nil to force the fallback
// summarizer.
func New(gen Generator) *Service {
	return &Service{gen: gen}
}

// Generate returns a complete answer for the query.
func (s *Service) Generate(ctx context.Context, query string, rs retrieval.ResultSet) (string, error) {
	if s.gen == nil {
		return summarize(query, rs), nil
	}
	answer, err := s.gen.Generate(ctx, query, rs)
	if err != nil {
		return "", fmt.Errorf("generate answer: %w", err)
	}
	return answer, nil
}

// GenerateStream streams the answer through emit. The fallback summarizer
// streams word by word so both paths exercise the same consumer code.
func (s *Service) GenerateStream(ctx context.Context, query string, rs retrieval.ResultSet, emit func(chunk string) error) error {
	if s.gen == nil {
		for _, word := range strings.Fields(summarize(query, rs)) {
			if err := emit(word + " "); err != nil {
				return fmt.Errorf("emit chunk: %w", err)
			}
		}
		return nil
	}
	if err := s.gen.GenerateStream(ctx, query, rs, emit); err != nil {
		return fmt.Errorf("stream answer: %w", err)
	}
	return nil
}

// summarize formats a ranked list of the top documents without calling an
// LLM.
func summarize(query string, rs retrieval.ResultSet) string {
	if len(rs.Documents) == 0 {
		return "No relevant documents found for your query."
	}

	var lines []string
	for i, doc := range rs.Documents {
		if i >= fallbackLimit {
			break
		}
		var relevance float64
		switch {
		case doc.Scores.Hybrid != nil:
			relevance = *doc.Scores.Hybrid
		case doc.Scores.Semantic != nil:
			relevance = *doc.Scores.Semantic
		}
		lines = append(lines, fmt.Sprintf("%d. **%s** (relevance: %.2f)", i+1, doc.Title, relevance))
	}

	return fmt.Sprintf(`Based on your query %q, I found %d relevant spatial documents:

%s

*Note: answer synthesis is disabled. Configure an LLM API key for full synthesis.*`,
		query, len(rs.Documents), strings.Join(lines, "\n"))
}
