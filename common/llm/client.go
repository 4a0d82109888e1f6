package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/invopop/jsonschema"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const (
	defaultModel     = "gpt-4o-mini"
	defaultMaxTokens = 600
)

var (
	ErrEmptyReply = errors.New("llm returned no choices")
	ErrTruncated  = errors.New("llm reply truncated at max tokens")
	ErrRefused    = errors.New("llm refused the request")
)

// Client runs one structured chat completion and decodes the JSON reply
// into result.
type Client interface {
	Chat(ctx context.Context, req Request, result any) (*Usage, error)
	Model() string
}

type Request struct {
	SystemPrompt string
	UserPrompt   string
	UserName     string // contact or realtor name, sanitized before sending
	SchemaName   string
	Schema       any
	MaxTokens    int
	Temperature  *float64 // nil keeps the model default
}

type Usage struct {
	PromptTokens     int64
	CompletionTokens int64
	Duration         time.Duration
}

type Config struct {
	APIKey  string
	BaseURL string
	Model   string
}

type openAIClient struct {
	api   openai.Client
	model string
}

func New(cfg Config) (Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("openai api key is required")
	}

	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = defaultModel
	}
	return &openAIClient{api: openai.NewClient(opts...), model: model}, nil
}

func (c *openAIClient) Model() string {
	return c.model
}

func (c *openAIClient) Chat(ctx context.Context, req Request, result any) (*Usage, error) {
	start := time.Now()
	resp, err := c.api.Chat.Completions.New(ctx, c.params(req))
	if err != nil {
		return nil, fmt.Errorf("openai chat %s: %w", req.SchemaName, err)
	}

	usage := &Usage{
		PromptTokens:     resp.Usage.PromptTokens,
		CompletionTokens: resp.Usage.CompletionTokens,
		Duration:         time.Since(start),
	}
	if len(resp.Choices) == 0 {
		return usage, ErrEmptyReply
	}
	choice := resp.Choices[0]

	slog.DebugContext(ctx, "llm completion",
		"model", c.model,
		"schema", req.SchemaName,
		"duration_ms", usage.Duration.Milliseconds(),
		"prompt_tokens", usage.PromptTokens,
		"completion_tokens", usage.CompletionTokens,
		"finish_reason", choice.FinishReason)

	switch {
	case choice.Message.Refusal != "":
		return usage, fmt.Errorf("%w: %s", ErrRefused, choice.Message.Refusal)
	case choice.FinishReason == "length":
		return usage, ErrTruncated
	}

	if err := json.Unmarshal([]byte(choice.Message.Content), result); err != nil {
		return usage, fmt.Errorf("decoding %s reply: %w", req.SchemaName, err)
	}
	return usage, nil
}

func (c *openAIClient) params(req Request) openai.ChatCompletionNewParams {
	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}

	params := openai.ChatCompletionNewParams{
		Model:     c.model,
		Messages:  messages(req),
		MaxTokens: openai.Int(int64(maxTokens)),
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{
				JSONSchema: openai.ResponseFormatJSONSchemaJSONSchemaParam{
					Name:   req.SchemaName,
					Schema: req.Schema,
					Strict: openai.Bool(true),
				},
			},
		},
	}
	if req.Temperature != nil {
		params.Temperature = openai.Float(*req.Temperature)
	}
	return params
}

func messages(req Request) []openai.ChatCompletionMessageParamUnion {
	user := openai.ChatCompletionUserMessageParam{
		Content: openai.ChatCompletionUserMessageParamContentUnion{
			OfString: openai.String(req.UserPrompt),
		},
	}
	if name := SanitizeName(req.UserName); name != "" {
		user.Name = openai.String(name)
	}
	return []openai.ChatCompletionMessageParamUnion{
		openai.SystemMessage(req.SystemPrompt),
		{OfUser: &user},
	}
}

// GenerateSchema reflects T into the inline, closed JSON schema strict mode
// requires.
func GenerateSchema[T any]() any {
	r := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v T
	return r.Reflect(v)
}

func Temp(t float64) *float64 {
	return &t
}

// IsRetryable reports whether a Chat error may succeed on a second try:
// rate limits, provider 5xx and transport failures. Decoding, refusal and
// truncation errors are final.
func IsRetryable(ctx context.Context, err error) bool {
	switch {
	case err == nil,
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, ErrRefused),
		errors.Is(err, ErrTruncated),
		errors.Is(err, ErrEmptyReply):
		return false
	}

	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return false
	}

	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		retry := apiErr.StatusCode == http.StatusTooManyRequests || apiErr.StatusCode >= http.StatusInternalServerError
		if retry {
			slog.WarnContext(ctx, "llm call failed, retryable", "status_code", apiErr.StatusCode)
		}
		return retry
	}
	return true
}
