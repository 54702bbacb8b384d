package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"

	"github.com/karwash91/my-chatbot/internal/pkg/awsutil"
	appErr "github.com/karwash91/my-chatbot/internal/pkg/errors"
)

const anthropicVersion = "bedrock-2023-05-31"

// GuardContentTags returns the opening and closing markers that bound
// user-supplied text so the guardrail layer can apply targeted scrutiny.
// The suffix must match the tagSuffix sent in the request payload.
func GuardContentTags(suffix string) (string, string) {
	return fmt.Sprintf("<amazon-bedrock-guardrails-guardContent_%s>", suffix),
		fmt.Sprintf("</amazon-bedrock-guardrails-guardContent_%s>", suffix)
}

type bedrockConfig struct {
	awsutil.ClientConfig
}

type bedrockProvider struct {
	client *bedrockruntime.Client
}

func init() {
	Register("bedrock", createBedrockProvider)
}

func createBedrockProvider(args interface{}) (IProvider, error) {
	cfg := &bedrockConfig{}
	if err := decodeConfig(args, cfg); err != nil {
		return nil, err
	}
	awsCfg, err := awsutil.Load(context.Background(), cfg.ClientConfig)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	client := bedrockruntime.NewFromConfig(awsCfg, func(o *bedrockruntime.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})
	return &bedrockProvider{client: client}, nil
}

func (p *bedrockProvider) Name() string {
	return "bedrock"
}

type titanEmbedRequest struct {
	InputText string `json:"inputText"`
}

type titanEmbedResponse struct {
	Embedding []float32 `json:"embedding"`
}

func (p *bedrockProvider) Embed(ctx context.Context, model string, text string) ([]float32, error) {
	body, err := json.Marshal(titanEmbedRequest{InputText: text})
	if err != nil {
		return nil, fmt.Errorf("encode embed request: %w", err)
	}
	out, err := p.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(model),
		ContentType: aws.String("application/json"),
		Body:        body,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: invoke %s: %v", appErr.ErrEmbedding, model, err)
	}
	var resp titanEmbedResponse
	if err := json.Unmarshal(out.Body, &resp); err != nil {
		return nil, fmt.Errorf("%w: decode embed response: %v", appErr.ErrMalformedResponse, err)
	}
	if len(resp.Embedding) == 0 {
		return nil, fmt.Errorf("%w: embed response has no embedding field", appErr.ErrEmbedding)
	}
	return resp.Embedding, nil
}

type anthropicContent struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

type anthropicMessage struct {
	Role    string             `json:"role"`
	Content []anthropicContent `json:"content"`
}

type anthropicRequest struct {
	AnthropicVersion string              `json:"anthropic_version"`
	System           string              `json:"system,omitempty"`
	MaxTokens        int                 `json:"max_tokens"`
	Messages         []anthropicMessage  `json:"messages"`
	GuardrailConfig  *guardrailTagConfig `json:"amazon-bedrock-guardrailConfig,omitempty"`
}

// guardrailTagConfig ties the guardContent tags embedded in the prompt to the
// guardrail evaluation; required for prompt-attack detection with InvokeModel.
type guardrailTagConfig struct {
	TagSuffix string `json:"tagSuffix"`
}

type anthropicResponse struct {
	Content []anthropicContent `json:"content"`
}

func (p *bedrockProvider) Generate(ctx context.Context, model string, req *GenerateRequest) (string, error) {
	payload := anthropicRequest{
		AnthropicVersion: anthropicVersion,
		System:           req.System,
		MaxTokens:        req.MaxTokens,
		Messages: []anthropicMessage{
			{Role: "user", Content: []anthropicContent{{Type: "text", Text: req.Prompt}}},
		},
	}
	input := &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(model),
		ContentType: aws.String("application/json"),
		Accept:      aws.String("application/json"),
	}
	if req.Guardrail != nil {
		payload.GuardrailConfig = &guardrailTagConfig{TagSuffix: req.Guardrail.TagSuffix}
		input.GuardrailIdentifier = aws.String(req.Guardrail.ID)
		input.GuardrailVersion = aws.String(req.Guardrail.Version)
		input.Trace = types.TraceEnabled
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("encode generate request: %w", err)
	}
	input.Body = body

	out, err := p.client.InvokeModel(ctx, input)
	if err != nil {
		return "", fmt.Errorf("%w: invoke %s: %v", appErr.ErrGeneration, model, err)
	}
	var resp anthropicResponse
	if err := json.Unmarshal(out.Body, &resp); err != nil {
		return "", fmt.Errorf("%w: decode generate response: %v", appErr.ErrMalformedResponse, err)
	}
	var sb strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("%w: generate response has no text content", appErr.ErrMalformedResponse)
	}
	return sb.String(), nil
}
