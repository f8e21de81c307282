package gemini

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/spigell/hr-breaker/internal/ai"
)

type embedCallRecord struct {
	model    string
	contents []*genai.Content
	config   *genai.EmbedContentConfig
}

type fakeModels struct {
	mu    sync.Mutex
	calls []embedCallRecord
	resp  *genai.EmbedContentResponse
	err   error
}

func (f *fakeModels) EmbedContent(_ context.Context, model string, contents []*genai.Content, config *genai.EmbedContentConfig) (*genai.EmbedContentResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, embedCallRecord{model: model, contents: contents, config: config})
	return f.resp, f.err
}

func embeddings(vectors ...[]float32) *genai.EmbedContentResponse {
	resp := &genai.EmbedContentResponse{}
	for _, v := range vectors {
		resp.Embeddings = append(resp.Embeddings, &genai.ContentEmbedding{Values: v})
	}
	return resp
}

func TestEmbedPairRequest(t *testing.T) {
	models := &fakeModels{resp: embeddings([]float32{1, 0}, []float32{0, 1})}
	embedder := newEmbedder(models, Config{Model: "embed-x", OutputDimensionality: 256}, zap.NewNop())

	first, second, err := embedder.EmbedPair(context.Background(), "resume text", "job text")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if len(first) != 2 || first[0] != 1 || len(second) != 2 || second[1] != 1 {
		t.Fatalf("unexpected vectors: %v %v", first, second)
	}

	if len(models.calls) != 1 {
		t.Fatalf("expected single call, got %d", len(models.calls))
	}

	call := models.calls[0]
	if call.model != "embed-x" {
		t.Fatalf("unexpected model: %q", call.model)
	}
	if call.config == nil || call.config.TaskType != ai.TaskSemanticSimilarity {
		t.Fatalf("expected semantic similarity task type, got %+v", call.config)
	}
	if call.config.OutputDimensionality == nil || *call.config.OutputDimensionality != 256 {
		t.Fatalf("unexpected output dimensionality: %+v", call.config.OutputDimensionality)
	}
	if len(call.contents) != 2 {
		t.Fatalf("expected two contents, got %d", len(call.contents))
	}
	if got := call.contents[0].Parts[0].Text; got != "resume text" {
		t.Fatalf("unexpected first content: %q", got)
	}
	if got := call.contents[1].Parts[0].Text; got != "job text" {
		t.Fatalf("unexpected second content: %q", got)
	}
}

func TestEmbedPairDefaults(t *testing.T) {
	models := &fakeModels{resp: embeddings([]float32{1}, []float32{1})}
	embedder := newEmbedder(models, Config{}, zap.NewNop())

	if embedder.Model() != defaultModel {
		t.Fatalf("expected default model, got %q", embedder.Model())
	}

	if _, _, err := embedder.EmbedPair(context.Background(), "a", "b"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if got := *models.calls[0].config.OutputDimensionality; got != defaultOutputDimensionality {
		t.Fatalf("expected default dimensionality, got %d", got)
	}
}

func TestEmbedPairProviderError(t *testing.T) {
	apiErr := errors.New("API key not valid")
	models := &fakeModels{err: apiErr}
	embedder := newEmbedder(models, Config{}, zap.NewNop())

	_, _, err := embedder.EmbedPair(context.Background(), "a", "b")
	if err == nil {
		t.Fatal("expected error from provider")
	}

	if !errors.Is(err, apiErr) || !strings.Contains(err.Error(), "API key not valid") {
		t.Fatalf("expected wrapped provider error, got %v", err)
	}
}

func TestEmbedPairMalformedResponse(t *testing.T) {
	tests := []struct {
		name string
		resp *genai.EmbedContentResponse
	}{
		{name: "nil response", resp: nil},
		{name: "single embedding", resp: embeddings([]float32{1})},
		{name: "empty vector", resp: embeddings([]float32{1}, nil)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			embedder := newEmbedder(&fakeModels{resp: tt.resp}, Config{}, zap.NewNop())
			if _, _, err := embedder.EmbedPair(context.Background(), "a", "b"); err == nil {
				t.Fatal("expected error for malformed response")
			}
		})
	}
}

func TestEmbedPairNotInitialized(t *testing.T) {
	var embedder *Embedder
	if _, _, err := embedder.EmbedPair(context.Background(), "a", "b"); err == nil {
		t.Fatal("expected error for nil embedder")
	}
}

func TestNewEmbedderRequiresAPIKey(t *testing.T) {
	if _, err := NewEmbedder(context.Background(), Config{APIKey: "  "}, zap.NewNop()); err == nil {
		t.Fatal("expected error for empty api key")
	}
}

func TestEmbedPairCircuitBreakerOpens(t *testing.T) {
	models := &fakeModels{err: errors.New("unavailable")}
	embedder := newEmbedder(models, Config{
		CircuitBreaker: BreakerConfig{
			Enabled:          true,
			MaxRequests:      1,
			Interval:         time.Minute,
			Timeout:          time.Minute,
			MinRequests:      2,
			FailureThreshold: 0.5,
		},
	}, zap.NewNop())

	for range 2 {
		if _, _, err := embedder.EmbedPair(context.Background(), "a", "b"); err == nil {
			t.Fatal("expected provider error")
		}
	}

	if embedder.breaker.state() != gobreaker.StateOpen.String() {
		t.Fatalf("expected breaker to be open, got %s", embedder.breaker.state())
	}

	_, _, err := embedder.EmbedPair(context.Background(), "a", "b")
	if !errors.Is(err, gobreaker.ErrOpenState) {
		t.Fatalf("expected open state error, got %v", err)
	}

	if len(models.calls) != 2 {
		t.Fatalf("expected open breaker to skip provider, got %d calls", len(models.calls))
	}
}

func TestEmbedPairRateLimiterHonoursContext(t *testing.T) {
	models := &fakeModels{resp: embeddings([]float32{1}, []float32{1})}
	embedder := newEmbedder(models, Config{RequestsPerMinute: 1}, zap.NewNop())

	if _, _, err := embedder.EmbedPair(context.Background(), "a", "b"); err != nil {
		t.Fatalf("expected first call to pass, got %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, _, err := embedder.EmbedPair(ctx, "a", "b"); err == nil {
		t.Fatal("expected limiter to fail on cancelled context")
	}

	if len(models.calls) != 1 {
		t.Fatalf("expected a single provider call, got %d", len(models.calls))
	}
}

func TestBreakerDisabled(t *testing.T) {
	b := newBreaker("disabled", BreakerConfig{}, zap.NewNop())
	if b != nil {
		t.Fatal("expected nil breaker when disabled")
	}
	if b.state() != "disabled" {
		t.Fatalf("unexpected state: %s", b.state())
	}
}
