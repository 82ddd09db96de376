package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/kailas-cloud/georag/internal/domain"
	"github.com/kailas-cloud/georag/internal/domain/retrieval"
	"github.com/kailas-cloud/georag/internal/metrics"
)

const systemPrompt = `You are a geospatial reasoning assistant. Your task is to answer questions
using ONLY the provided spatial documents as context.

Rules:
1. Only use information from the provided documents
2. Reference document locations when relevant to the answer
3. If documents don't contain enough information, say so explicitly
4. Consider spatial relationships between documents when reasoning
5. Cite document numbers when referencing specific information

Format your response clearly and concisely.`

// Generator synthesizes answers over retrieved context via the
// OpenAI-compatible chat API.
type Generator struct {
	client   *openai.Client
	model    string
	provider string
	logger   *zap.Logger
}

// GeneratorConfig holds the chat provider settings.
type GeneratorConfig struct {
	APIKey   string
	BaseURL  string
	Model    string
	Provider string
	Logger   *zap.Logger
}

// NewGenerator creates an OpenAI-compatible answer generator.
func NewGenerator(cfg *GeneratorConfig) *Generator {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	return &Generator{
		client:   openai.NewClientWithConfig(clientCfg),
		model:    cfg.Model,
		provider: cfg.Provider,
		logger:   cfg.Logger,
	}
}

// Generate produces a complete answer for the query over the retrieved
// documents.
func (g *Generator) Generate(ctx context.Context, query string, rs retrieval.ResultSet) (string, error) {
	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    g.model,
		Messages: buildMessages(query, rs),
	})
	if err != nil {
		metrics.AnswerRequestsTotal.WithLabelValues(g.provider, "error").Inc()
		return "", fmt.Errorf("chat completion: %w: %w", domain.ErrAnswerUnavailable, err)
	}
	if len(resp.Choices) == 0 {
		metrics.AnswerRequestsTotal.WithLabelValues(g.provider, "error").Inc()
		return "", fmt.Errorf("empty chat response: %w", domain.ErrAnswerUnavailable)
	}

	metrics.AnswerRequestsTotal.WithLabelValues(g.provider, "success").Inc()
	return resp.Choices[0].Message.Content, nil
}

// GenerateStream produces the answer incrementally, invoking emit once per
// content chunk in arrival order.
func (g *Generator) GenerateStream(ctx context.Context, query string, rs retrieval.ResultSet, emit func(chunk string) error) error {
	stream, err := g.client.CreateChatCompletionStream(ctx, openai.ChatCompletionRequest{
		Model:    g.model,
		Messages: buildMessages(query, rs),
		Stream:   true,
	})
	if err != nil {
		metrics.AnswerRequestsTotal.WithLabelValues(g.provider, "error").Inc()
		return fmt.Errorf("chat stream: %w: %w", domain.ErrAnswerUnavailable, err)
	}
	defer stream.Close()

	for {
		chunk, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			metrics.AnswerRequestsTotal.WithLabelValues(g.provider, "error").Inc()
			return fmt.Errorf("chat stream recv: %w: %w", domain.ErrAnswerUnavailable, err)
		}
		if len(chunk.Choices) == 0 || chunk.Choices[0].Delta.Content == "" {
			continue
		}
		if err := emit(chunk.Choices[0].Delta.Content); err != nil {
			return fmt.Errorf("emit chunk: %w", err)
		}
	}

	metrics.AnswerRequestsTotal.WithLabelValues(g.provider, "success").Inc()
	return nil
}

// buildMessages assembles the system and user messages: rendered context
// text plus a compact JSON block of document identity and geometry.
func buildMessages(query string, rs retrieval.ResultSet) []openai.ChatCompletionMessage {
	type docMeta struct {
		ID       string          `json:"id"`
		Title    string          `json:"title"`
		Geometry json.RawMessage `json:"geometry,omitempty"`
	}
	meta := make([]docMeta, len(rs.Documents))
	for i, d := range rs.Documents {
		meta[i] = docMeta{ID: d.ID, Title: d.Title, Geometry: d.GeoJSON}
	}
	metaJSON, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		metaJSON = []byte("[]")
	}

	userMessage := fmt.Sprintf(`Question: %s

Retrieved Documents Context:
%s

Document Metadata (JSON):
%s

Please answer the question based on the above spatial context.`,
		query, rs.ContextText(), metaJSON)

	return []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
		{Role: openai.ChatMessageRoleUser, Content: userMessage},
	}
}
