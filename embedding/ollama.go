package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// OllamaDefaultURL is the default local Ollama API endpoint.
const OllamaDefaultURL = "http://localhost:11434"

// OllamaEmbedding is the default local sentence-embedding runtime: a thin
// HTTP client over a locally-served Ollama model. It satisfies Model and
// ModelWithInfo and is the concrete runtime wired behind MODEL_NAME.
type OllamaEmbedding struct {
	baseURL    string
	model      string
	dimensions int
	httpClient *http.Client
	logger     zerolog.Logger
}

// OllamaEmbeddingOption configures an OllamaEmbedding.
type OllamaEmbeddingOption func(*OllamaEmbedding)

// WithOllamaEmbeddingBaseURL overrides the API base URL.
func WithOllamaEmbeddingBaseURL(baseURL string) OllamaEmbeddingOption {
	return func(o *OllamaEmbedding) { o.baseURL = baseURL }
}

// WithOllamaEmbeddingModel sets the model identifier (MODEL_NAME).
func WithOllamaEmbeddingModel(model string) OllamaEmbeddingOption {
	return func(o *OllamaEmbedding) { o.model = model }
}

// WithOllamaEmbeddingHTTPClient injects a custom HTTP client.
func WithOllamaEmbeddingHTTPClient(client *http.Client) OllamaEmbeddingOption {
	return func(o *OllamaEmbedding) { o.httpClient = client }
}

// WithOllamaEmbeddingLogger injects a structured logger for batch diagnostics.
func WithOllamaEmbeddingLogger(logger zerolog.Logger) OllamaEmbeddingOption {
	return func(o *OllamaEmbedding) { o.logger = logger }
}

// NewOllamaEmbedding creates a local embedding runtime client. model is the
// value of MODEL_NAME; an unrecognized name still works, it just reports a
// generic Info() until the first real embedding reveals its dimension.
func NewOllamaEmbedding(model string, opts ...OllamaEmbeddingOption) *OllamaEmbedding {
	baseURL := os.Getenv("OLLAMA_HOST")
	if baseURL == "" {
		baseURL = OllamaDefaultURL
	}

	o := &OllamaEmbedding{
		baseURL:    baseURL,
		model:      model,
		httpClient: http.DefaultClient,
		logger:     log.Logger,
	}

	for _, opt := range opts {
		opt(o)
	}

	return o
}

type ollamaEmbeddingRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

type ollamaEmbeddingResponse struct {
	Embedding []float64 `json:"embedding"`
}

// Embed implements Model.
func (o *OllamaEmbedding) Embed(ctx context.Context, text string) ([]float64, error) {
	if text == "" {
		return nil, ErrEmptyText
	}
	return o.embedOne(ctx, text)
}

// EmbedBatch implements Model. The Ollama /api/embeddings endpoint has no
// native batch form, so requests are issued sequentially; this is the one
// concurrency exemption the spec grants the embedding boundary (per-batch
// suspension, not per-call parallelism).
func (o *OllamaEmbedding) EmbedBatch(ctx context.Context, texts []string) ([][]float64, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	for _, t := range texts {
		if t == "" {
			return nil, ErrEmptyText
		}
	}

	o.logger.Debug().Str("model", o.model).Int("count", len(texts)).Msg("embedding batch")

	out := make([][]float64, len(texts))
	for i, text := range texts {
		vec, err := o.embedOne(ctx, text)
		if err != nil {
			return nil, fmt.Errorf("embed item %d of %d: %w", i, len(texts), err)
		}
		out[i] = vec
	}
	return out, nil
}

func (o *OllamaEmbedding) embedOne(ctx context.Context, text string) ([]float64, error) {
	body, err := json.Marshal(ollamaEmbeddingRequest{Model: o.model, Prompt: text})
	if err != nil {
		return nil, fmt.Errorf("marshal embedding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+"/api/embeddings", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build embedding request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("embedding runtime unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("embedding runtime error (%d): %s", resp.StatusCode, string(respBody))
	}

	var result ollamaEmbeddingResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode embedding response: %w", err)
	}
	if o.dimensions == 0 {
		o.dimensions = len(result.Embedding)
	}
	return result.Embedding, nil
}

// Info implements ModelWithInfo.
func (o *OllamaEmbedding) Info() Info {
	if o.dimensions == 0 {
		return DefaultInfo(o.model)
	}
	return Info{ModelName: o.model, Dimensions: o.dimensions, MaxTokens: 8192}
}

var _ Model = (*OllamaEmbedding)(nil)
var _ ModelWithInfo = (*OllamaEmbedding)(nil)
