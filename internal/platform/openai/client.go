package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/yungbote/neurobridge-pathgen/internal/platform/envutil"
	"github.com/yungbote/neurobridge-pathgen/internal/platform/httpx"
	"github.com/yungbote/neurobridge-pathgen/internal/platform/logger"
)

// Client is the subset of the OpenAI API the pipeline talks to.
type Client interface {
	// Embed returns one vector per input plus the prompt token usage reported by the API.
	Embed(ctx context.Context, inputs []string) (EmbedResult, error)

	// Structured outputs (json_schema)
	GenerateJSON(ctx context.Context, system string, user string, schemaName string, schema map[string]any) (map[string]any, error)
}

type EmbedResult struct {
	Vectors      [][]float32
	PromptTokens int
}

type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	EmbedModel  string
	Timeout     time.Duration
	MaxRetries  int
	Temperature *float64
}

// ConfigFromEnv reads OPENAI_* variables.
func ConfigFromEnv() Config {
	cfg := Config{
		APIKey:     envutil.String("OPENAI_API_KEY", ""),
		BaseURL:    envutil.String("OPENAI_BASE_URL", "https://api.openai.com"),
		Model:      envutil.String("OPENAI_MODEL", "gpt-4.1-mini"),
		EmbedModel: envutil.String("OPENAI_EMBED_MODEL", "text-embedding-3-small"),
		Timeout:    envutil.Seconds("OPENAI_TIMEOUT_SECONDS", 180*time.Second),
		MaxRetries: envutil.Int("OPENAI_MAX_RETRIES", 4),
	}
	if !envutil.Bool("OPENAI_DISABLE_TEMPERATURE", false) {
		t := 0.2
		cfg.Temperature = &t
	}
	return cfg
}

type client struct {
	log        *logger.Logger
	baseURL    string
	apiKey     string
	model      string
	embedModel string
	httpClient *http.Client
	retry      httpx.RetryPolicy
	temp       *float64
}

func NewClient(log *logger.Logger, cfg Config) (Client, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("missing OPENAI_API_KEY")
	}
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = "https://api.openai.com"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 180 * time.Second
	}
	maxRetries := cfg.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}
	return &client{
		log:        log.With("client", "OpenAIClient"),
		baseURL:    baseURL,
		apiKey:     strings.TrimSpace(cfg.APIKey),
		model:      cfg.Model,
		embedModel: cfg.EmbedModel,
		httpClient: &http.Client{Timeout: timeout},
		retry:      httpx.RetryPolicy{MaxRetries: maxRetries, Initial: time.Second, MaxWait: 10 * time.Second},
		temp:       cfg.Temperature,
	}, nil
}

type openAIHTTPError struct {
	StatusCode int
	Body       string
}

func (e *openAIHTTPError) Error() string {
	return fmt.Sprintf("openai http %d: %s", e.StatusCode, e.Body)
}

func (e *openAIHTTPError) HTTPStatusCode() int {
	if e == nil {
		return 0
	}
	return e.StatusCode
}

func (c *client) doOnce(ctx context.Context, method, path string, body any) (*http.Response, []byte, error) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, nil, err
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, err
	}
	raw, readErr := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if readErr != nil {
		return resp, nil, readErr
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp, raw, &openAIHTTPError{StatusCode: resp.StatusCode, Body: string(raw)}
	}
	return resp, raw, nil
}

func (c *client) do(ctx context.Context, method, path string, body any, out any) error {
	attempt := 0
	raw, err := httpx.Do(ctx, c.retry, func(ctx context.Context) ([]byte, *http.Response, error) {
		attempt++
		resp, raw, err := c.doOnce(ctx, method, path, body)
		return raw, resp, err
	}, func(err error, wait time.Duration) {
		c.log.Warn("OpenAI request retrying",
			"path", path,
			"attempt", attempt,
			"max_retries", c.retry.MaxRetries,
			"sleep", wait.String(),
			"error", err.Error(),
		)
	})
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if uErr := json.Unmarshal(raw, out); uErr != nil {
		return fmt.Errorf("openai decode error: %w", uErr)
	}
	return nil
}

// -------------------- Embeddings --------------------

type embeddingsRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type embeddingsResponse struct {
	Data []struct {
		Embedding []float64 `json:"embedding"`
		Index     int       `json:"index"`
	} `json:"data"`
	Usage struct {
		PromptTokens int `json:"prompt_tokens"`
		TotalTokens  int `json:"total_tokens"`
	} `json:"usage"`
}

func (c *client) Embed(ctx context.Context, inputs []string) (EmbedResult, error) {
	if len(inputs) == 0 {
		return EmbedResult{Vectors: [][]float32{}}, nil
	}
	clean := make([]string, len(inputs))
	for i := range inputs {
		s := strings.TrimSpace(inputs[i])
		if s == "" {
			s = " "
		}
		clean[i] = s
	}

	var resp embeddingsResponse
	if err := c.do(ctx, http.MethodPost, "/v1/embeddings", embeddingsRequest{Model: c.embedModel, Input: clean}, &resp); err != nil {
		return EmbedResult{}, err
	}

	out := make([][]float32, len(clean))
	for pos, d := range resp.Data {
		idx := d.Index
		if idx < 0 || idx >= len(out) || out[idx] != nil {
			idx = pos
		}
		if idx >= len(out) {
			continue
		}
		vec := make([]float32, len(d.Embedding))
		for i, f := range d.Embedding {
			vec[i] = float32(f)
		}
		out[idx] = vec
	}
	for i := range out {
		if out[i] == nil {
			return EmbedResult{}, fmt.Errorf("openai embeddings: missing vector for input %d (requested=%d returned=%d)", i, len(clean), len(resp.Data))
		}
	}
	tokens := resp.Usage.PromptTokens
	if tokens == 0 {
		tokens = resp.Usage.TotalTokens
	}
	return EmbedResult{Vectors: out, PromptTokens: tokens}, nil
}

// -------------------- Responses (structured output) --------------------

type responsesInput struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type responsesRequest struct {
	Model string           `json:"model"`
	Input []responsesInput `json:"input"`
	Text  struct {
		Format map[string]any `json:"format,omitempty"`
	} `json:"text,omitempty"`
	Temperature *float64 `json:"temperature,omitempty"`
}

type responsesResponse struct {
	Output []struct {
		Type    string `json:"type"`
		Role    string `json:"role,omitempty"`
		Content []struct {
			Type    string `json:"type"`
			Text    string `json:"text,omitempty"`
			Refusal string `json:"refusal,omitempty"`
		} `json:"content,omitempty"`
	} `json:"output"`
}

func extractOutputText(resp responsesResponse) (string, string) {
	var out strings.Builder
	refusal := ""
	for _, item := range resp.Output {
		if item.Type != "message" || item.Role != "assistant" {
			continue
		}
		for _, c := range item.Content {
			switch c.Type {
			case "output_text":
				out.WriteString(c.Text)
			case "refusal":
				refusal = c.Refusal
			}
		}
	}
	return out.String(), refusal
}

func (c *client) GenerateJSON(ctx context.Context, system string, user string, schemaName string, schema map[string]any) (map[string]any, error) {
	if schemaName == "" {
		return nil, errors.New("schemaName required")
	}
	if schema == nil {
		return nil, errors.New("schema required")
	}
	req := responsesRequest{
		Model: c.model,
		Input: []responsesInput{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Temperature: c.temp,
	}
	req.Text.Format = map[string]any{
		"type":   "json_schema",
		"name":   schemaName,
		"schema": schema,
		"strict": true,
	}

	var resp responsesResponse
	if err := c.do(ctx, http.MethodPost, "/v1/responses", &req, &resp); err != nil {
		return nil, err
	}
	text, refusal := extractOutputText(resp)
	if refusal != "" {
		return nil, fmt.Errorf("model refused: %s", refusal)
	}
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("no output_text found in response")
	}
	var obj map[string]any
	if err := json.Unmarshal([]byte(text), &obj); err != nil {
		return nil, fmt.Errorf("failed to parse model JSON: %w", err)
	}
	return obj, nil
}
