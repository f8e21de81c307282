package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"google.golang.org/genai"

	"github.com/spigell/hr-breaker/internal/ai"
	"github.com/spigell/hr-breaker/internal/logger"
)

const (
	ProviderName = "gemini"

	defaultModel                = "gemini-embedding-001"
	defaultOutputDimensionality = 768
	defaultMaxLogLength         = 200
)

// contentEmbedder is the subset of genai.Models used by the embedder.
type contentEmbedder interface {
	EmbedContent(ctx context.Context, model string, contents []*genai.Content, config *genai.EmbedContentConfig) (*genai.EmbedContentResponse, error)
}

// Config describes how the embedder talks to the Gemini API.
type Config struct {
	APIKey               string
	Model                string
	OutputDimensionality int
	RequestsPerMinute    int
	MaxLogLength         int
	CircuitBreaker       BreakerConfig
}

// Embedder requests semantic-similarity embeddings from Gemini.
type Embedder struct {
	models         contentEmbedder
	model          string
	dimensionality int32
	maxLogLen      int

	breaker *breaker
	limiter *rate.Limiter
	logger  *zap.Logger
}

var _ ai.Embedder = (*Embedder)(nil)

// NewEmbedder creates an Embedder configured for the Gemini API backend.
func NewEmbedder(ctx context.Context, cfg Config, log *zap.Logger) (*Embedder, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	return newEmbedder(client.Models, cfg, log), nil
}

func newEmbedder(models contentEmbedder, cfg Config, log *zap.Logger) *Embedder {
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = defaultModel
	}

	dims := cfg.OutputDimensionality
	if dims <= 0 {
		dims = defaultOutputDimensionality
	}

	maxLogLen := cfg.MaxLogLength
	if maxLogLen <= 0 {
		maxLogLen = defaultMaxLogLength
	}

	log = logger.WithCommonFields(log, ProviderName, model)

	var limiter *rate.Limiter
	if cfg.RequestsPerMinute > 0 {
		limiter = rate.NewLimiter(rate.Limit(float64(cfg.RequestsPerMinute)/60.0), 1)
	}

	return &Embedder{
		models:         models,
		model:          model,
		dimensionality: int32(dims),
		maxLogLen:      maxLogLen,
		breaker:        newBreaker("embed-"+model, cfg.CircuitBreaker, log),
		limiter:        limiter,
		logger:         log,
	}
}

// EmbedPair sends both texts in a single request and returns their vectors in order.
func (g *Embedder) EmbedPair(ctx context.Context, first, second string) ([]float32, []float32, error) {
	if g == nil || g.models == nil {
		return nil, nil, errors.New("gemini embedder is not initialized")
	}

	if g.limiter != nil {
		if err := g.limiter.Wait(ctx); err != nil {
			return nil, nil, fmt.Errorf("wait for rate limiter: %w", err)
		}
	}

	dims := g.dimensionality
	config := &genai.EmbedContentConfig{
		TaskType:             ai.TaskSemanticSimilarity,
		OutputDimensionality: &dims,
	}
	contents := []*genai.Content{textContent(first), textContent(second)}

	g.logger.Debug("gemini embed content request",
		zap.Int("first_length", utf8.RuneCountInString(first)),
		zap.Int("second_length", utf8.RuneCountInString(second)),
		zap.String("first_preview", logger.TruncateForLog(first, g.maxLogLen)),
		zap.String("second_preview", logger.TruncateForLog(second, g.maxLogLen)),
		zap.Int32("output_dimensionality", dims),
	)

	resp, err := g.breaker.execute(func() (*genai.EmbedContentResponse, error) {
		return g.models.EmbedContent(ctx, g.model, contents, config)
	})
	if err != nil {
		return nil, nil, fmt.Errorf("embed content: %w", err)
	}

	if resp == nil || len(resp.Embeddings) < len(contents) {
		return nil, nil, errors.New("gemini api returned fewer embeddings than requested")
	}

	vectors := make([][]float32, 0, len(contents))
	for i, embedding := range resp.Embeddings[:len(contents)] {
		if embedding == nil || len(embedding.Values) == 0 {
			return nil, nil, fmt.Errorf("gemini api returned empty embedding at index %d", i)
		}
		vectors = append(vectors, embedding.Values)
	}

	g.logger.Debug("gemini embed content response",
		zap.Int("embeddings", len(resp.Embeddings)),
		zap.Int("dimensions", len(vectors[0])),
	)

	return vectors[0], vectors[1], nil
}

func (g *Embedder) Model() string {
	if g == nil {
		return ""
	}
	return g.model
}

func textContent(text string) *genai.Content {
	return &genai.Content{
		Role:  string(genai.RoleUser),
		Parts: []*genai.Part{{Text: text}},
	}
}
