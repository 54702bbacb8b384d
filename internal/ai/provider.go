package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// GuardrailConfig identifies the content-safety guardrail applied to a
// generation call. Providers without guardrail support ignore it.
type GuardrailConfig struct {
	ID        string
	Version   string
	TagSuffix string
}

type GenerateRequest struct {
	System    string
	Prompt    string
	MaxTokens int
	Guardrail *GuardrailConfig
}

type IProvider interface {
	Name() string
	Generate(ctx context.Context, model string, req *GenerateRequest) (string, error)
	Embed(ctx context.Context, model string, text string) ([]float32, error)
}

type IGenerator interface {
	Generate(ctx context.Context, req *GenerateRequest) (string, error)
}

type IEmbedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	ModelName() string
}

type generator struct {
	provider IProvider
	model    string
}

func NewGenerator(p IProvider, model string) IGenerator {
	return &generator{provider: p, model: model}
}

func (g *generator) Generate(ctx context.Context, req *GenerateRequest) (string, error) {
	return g.provider.Generate(ctx, g.model, req)
}

type embedder struct {
	provider IProvider
	model    string
}

func NewEmbedder(p IProvider, model string) IEmbedder {
	return &embedder{provider: p, model: model}
}

func (e *embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	return e.provider.Embed(ctx, e.model, text)
}

func (e *embedder) ModelName() string {
	return e.model
}

type ProviderFactory func(args interface{}) (IProvider, error)

var registry = map[string]ProviderFactory{}

func Register(name string, factory ProviderFactory) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" || factory == nil {
		return
	}
	registry[key] = factory
}

func NewProvider(name string, args interface{}) (IProvider, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		return nil, fmt.Errorf("ai.provider is required")
	}
	factory := registry[key]
	if factory == nil {
		return nil, fmt.Errorf("unsupported ai provider: %s", name)
	}
	return factory(args)
}

func decodeConfig(args interface{}, dst interface{}) error {
	if args == nil {
		return fmt.Errorf("ai provider config is required")
	}
	data, err := json.Marshal(args)
	if err != nil {
		return fmt.Errorf("encode ai provider config: %w", err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("decode ai provider config: %w", err)
	}
	return nil
}
