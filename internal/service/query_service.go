package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/karwash91/my-chatbot/internal/ai"
	"github.com/karwash91/my-chatbot/internal/model"
	appErr "github.com/karwash91/my-chatbot/internal/pkg/errors"
	"github.com/karwash91/my-chatbot/internal/store"
)

const (
	refusalAnswer  = "I can't help with that."
	fallbackAnswer = "no matching context found"

	systemPrompt = "You are a helpful assistant. Answer the user's question in 1200 characters or less, " +
		"using only the provided context. If the context does not contain the answer, or the request " +
		"is unsafe, reply exactly with: " + refusalAnswer

	guardrailTagSuffix = "usr"
)

type QueryConfig struct {
	TopK             int
	MinScore         float32
	MaxAnswerTokens  int
	GuardrailEnabled bool
	GuardrailID      string
	GuardrailVersion string
}

type QueryService struct {
	embedder  ai.IEmbedder
	generator ai.IGenerator
	store     store.Store
	cfg       QueryConfig
}

func NewQueryService(embedder ai.IEmbedder, generator ai.IGenerator, st store.Store, cfg QueryConfig) *QueryService {
	if cfg.TopK <= 0 {
		cfg.TopK = 3
	}
	if cfg.MaxAnswerTokens <= 0 {
		cfg.MaxAnswerTokens = 300
	}
	return &QueryService{embedder: embedder, generator: generator, store: st, cfg: cfg}
}

// Answer embeds the query, ranks every stored chunk against it, and composes a
// grounded answer from the top matches. An empty ranking short-circuits with a
// fixed fallback answer without calling the generation service.
func (s *QueryService) Answer(ctx context.Context, query string) (*model.QueryResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("%w: no query provided", appErr.ErrInvalid)
	}
	logger := logutil.GetLogger(ctx)

	queryVec, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	records, err := s.store.ScanAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("scan chunk records: %w", err)
	}
	top := rankChunks(queryVec, records, s.cfg.TopK, s.cfg.MinScore)
	logger.Info("chunks ranked",
		zap.Int("scanned", len(records)),
		zap.Int("selected", len(top)),
	)
	if len(top) == 0 {
		return &model.QueryResult{Answer: fallbackAnswer, Context: []model.ScoredChunk{}}, nil
	}

	answer, err := s.generator.Generate(ctx, s.buildRequest(query, top))
	if err != nil {
		return nil, fmt.Errorf("generate answer: %w", err)
	}
	return &model.QueryResult{Answer: answer, Context: top}, nil
}

func (s *QueryService) buildRequest(query string, chunks []model.ScoredChunk) *ai.GenerateRequest {
	texts := make([]string, 0, len(chunks))
	for _, c := range chunks {
		texts = append(texts, c.Text)
	}
	req := &ai.GenerateRequest{
		System:    systemPrompt,
		MaxTokens: s.cfg.MaxAnswerTokens,
	}
	question := query
	if s.cfg.GuardrailEnabled {
		openTag, closeTag := ai.GuardContentTags(guardrailTagSuffix)
		question = openTag + "\n" + query + "\n" + closeTag
		req.Guardrail = &ai.GuardrailConfig{
			ID:        s.cfg.GuardrailID,
			Version:   s.cfg.GuardrailVersion,
			TagSuffix: guardrailTagSuffix,
		}
	}
	req.Prompt = fmt.Sprintf("Here is some context:\n%s\n\nQuestion:\n%s",
		strings.Join(texts, "\n\n"), question)
	return req
}
