package filtering

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/spigell/hr-breaker/internal/ai"
	"github.com/spigell/hr-breaker/internal/jobs"
	"github.com/spigell/hr-breaker/internal/logger"
	"github.com/spigell/hr-breaker/internal/resume"
	"github.com/spigell/hr-breaker/internal/vector"
)

const (
	VectorSimilarityName = "vector_similarity"

	// DefaultVectorSimilarityThreshold is the minimum rescaled similarity to pass.
	DefaultVectorSimilarityThreshold = 0.4

	vectorSimilarityPriority = 6
)

type VectorSimilarityConfig struct {
	Enabled   bool
	Threshold float64
}

type VectorSimilarityDeps struct {
	Embedder ai.Embedder
	// EmbedderErr explains why Embedder is nil. It is reported as a provider error.
	EmbedderErr error
	Logger      *zap.Logger
}

var errEmbedderNotConfigured = errors.New("embedder is not configured")

type vectorSimilarityFilter struct {
	enabled bool
	reason  string
	config  *VectorSimilarityConfig
	deps    *VectorSimilarityDeps
}

// NewVectorSimilarity creates the filter comparing resume and posting embeddings.
func NewVectorSimilarity(cfg *VectorSimilarityConfig, deps *VectorSimilarityDeps) Filter {
	if cfg == nil {
		cfg = &VectorSimilarityConfig{Enabled: true, Threshold: DefaultVectorSimilarityThreshold}
	}

	return &vectorSimilarityFilter{
		enabled: cfg.Enabled,
		config:  cfg,
		deps:    deps,
	}
}

func (f *vectorSimilarityFilter) Name() string { return VectorSimilarityName }

func (f *vectorSimilarityFilter) Priority() int { return vectorSimilarityPriority }

func (f *vectorSimilarityFilter) Disable(reason string) {
	f.enabled = false
	f.reason = reason
}

func (f *vectorSimilarityFilter) IsEnabled() bool { return f.enabled }

func (f *vectorSimilarityFilter) Validate() error {
	if f.config.Threshold < 0 || f.config.Threshold > 1 {
		return fmt.Errorf("threshold must be within [0, 1], got %v", f.config.Threshold)
	}
	return nil
}

func (f *vectorSimilarityFilter) Evaluate(ctx context.Context, r *resume.Resume, job *jobs.Posting) (*Result, error) {
	log := f.scopedLogger()
	threshold := f.config.Threshold

	if !r.HasText() {
		return &Result{
			FilterName:  f.Name(),
			Passed:      false,
			Score:       0,
			Threshold:   threshold,
			Issues:      []string{"No PDF text available"},
			Suggestions: []string{"Ensure PDF compilation succeeds"},
		}, nil
	}

	embedder, err := f.embedder()
	if err != nil {
		log.Warn("embedder unavailable, passing by default", zap.Error(err))
		return f.failOpen(threshold, err), nil
	}

	resumeEmbedding, jobEmbedding, err := embedder.EmbedPair(ctx, *r.Text, job.Text())
	if err != nil {
		log.Warn("embedding request failed, passing by default", zap.Error(err))
		return f.failOpen(threshold, err), nil
	}

	score := vector.Rescale(vector.Cosine(resumeEmbedding, jobEmbedding))
	passed := score >= threshold

	issues := []string{}
	if !passed {
		issues = append(issues, fmt.Sprintf("Low semantic vector similarity to job posting (%.2f)", score))
	}

	log.Debug("vector similarity computed",
		zap.Float64("score", score),
		zap.Float64("threshold", threshold),
		zap.Int("dimensions", len(resumeEmbedding)),
	)

	return &Result{
		FilterName:  f.Name(),
		Passed:      passed,
		Score:       score,
		Threshold:   threshold,
		Issues:      issues,
		Suggestions: []string{},
	}, nil
}

func (f *vectorSimilarityFilter) embedder() (ai.Embedder, error) {
	if f.deps != nil && f.deps.Embedder != nil {
		return f.deps.Embedder, nil
	}
	if f.deps != nil && f.deps.EmbedderErr != nil {
		return nil, f.deps.EmbedderErr
	}
	return nil, errEmbedderNotConfigured
}

func (f *vectorSimilarityFilter) failOpen(threshold float64, err error) *Result {
	return &Result{
		FilterName:  f.Name(),
		Passed:      true,
		Score:       1.0,
		Threshold:   threshold,
		Issues:      []string{fmt.Sprintf("Embedding API error: %v", err)},
		Suggestions: []string{},
		FailOpen:    true,
	}
}

func (f *vectorSimilarityFilter) Status() Status {
	embedderState := "configured"
	if _, err := f.embedder(); err != nil {
		embedderState = "unavailable"
	}

	return Status{
		Name:     f.Name(),
		Priority: f.Priority(),
		Enabled:  f.IsEnabled(),
		Reason:   f.reason,
		Details: map[string]string{
			"threshold": fmt.Sprintf("%.2f", f.config.Threshold),
			"embedder":  embedderState,
		},
	}
}

func (f *vectorSimilarityFilter) scopedLogger() *zap.Logger {
	if f.deps == nil || f.deps.Logger == nil {
		return zap.NewNop()
	}
	return logger.WithFilter(f.deps.Logger, f.Name())
}
