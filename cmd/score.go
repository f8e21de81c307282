package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/hr-breaker/internal/ai/gemini"
	"github.com/spigell/hr-breaker/internal/filtering"
	"github.com/spigell/hr-breaker/internal/jobs"
	"github.com/spigell/hr-breaker/internal/metrics"
	"github.com/spigell/hr-breaker/internal/resume"
	"github.com/spigell/hr-breaker/internal/secrets"
)

// ErrNotPassed is returned by the score command when the resume did not pass the filters.
var ErrNotPassed = errors.New("resume did not pass filters")

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score a resume against a job posting and print the report",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return score(cmd)
	},
}

func init() {
	rootCmd.AddCommand(scoreCmd)

	scoreCmd.Flags().String("resume", "", "path to the resume (pdf, txt, md or tex)")
	scoreCmd.Flags().String("job", "", "path to the job description or its URL")
	scoreCmd.Flags().Float64("threshold", 0.4, "minimum vector similarity score in [0, 1]")
	scoreCmd.Flags().StringSlice("disable-filter", nil, "filter names to skip, e.g. vector_similarity")

	_ = scoreCmd.MarkFlagRequired("resume")
	_ = scoreCmd.MarkFlagRequired("job")

	viper.BindPFlag("filters.vector-similarity.threshold", scoreCmd.Flags().Lookup("threshold"))
	viper.BindPFlag("filters.disabled", scoreCmd.Flags().Lookup("disable-filter"))
}

func score(cmd *cobra.Command) error {
	logger, config, err := setup()
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	resumePath, _ := cmd.Flags().GetString("resume")
	jobInput, _ := cmd.Flags().GetString("job")

	logger.Info("starting the hr-breaker", zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	res, err := resume.Load(resumePath, logger)
	if err != nil {
		return fmt.Errorf("load resume: %w", err)
	}

	posting, err := jobs.NewLoader(nil, logger).Load(ctx, jobInput)
	if err != nil {
		return fmt.Errorf("load job posting: %w", err)
	}

	steps := prepareFilters(ctx, config, logger)

	if timeout := config.Embedding.Timeout; timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	report, err := filtering.Run(ctx, logger, steps, res, posting)
	if err != nil {
		return fmt.Errorf("filtering failed: %w", err)
	}

	recorder := metrics.New()
	for _, result := range report.Results {
		recorder.ObserveEvaluation(result.FilterName, result.Passed, result.FailOpen, result.Score)
	}
	writeMetrics(recorder, config.MetricsFile, logger)

	out, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))

	logger.Info("scoring finished", zap.Bool("passed", report.Passed))

	if !report.Passed {
		return ErrNotPassed
	}

	return nil
}

func prepareFilters(ctx context.Context, config *Config, logger *zap.Logger) []filtering.Filter {
	vsConfig := &filtering.VectorSimilarityConfig{
		Enabled:   config.Filters.VectorSimilarity.Enabled,
		Threshold: config.Filters.VectorSimilarity.Threshold,
	}
	deps := &filtering.VectorSimilarityDeps{Logger: logger}

	if vsConfig.Enabled {
		embedder, err := newEmbedder(ctx, config.Embedding, logger)
		if err != nil {
			// A textless resume still fails without an embedder; anything else passes by default.
			logger.Warn("embedder unavailable", zap.Error(err))
			deps.EmbedderErr = err
		} else {
			logger.Info("embedder ready",
				zap.String("provider", gemini.ProviderName),
				zap.String("model", embedder.Model()),
			)
			deps.Embedder = embedder
		}
	}

	steps := []filtering.Filter{filtering.NewVectorSimilarity(vsConfig, deps)}
	if !vsConfig.Enabled {
		filtering.DisableByName(steps, filtering.VectorSimilarityName, "disabled in config")
	}
	for _, name := range config.Filters.Disabled {
		filtering.DisableByName(steps, strings.TrimSpace(name), "disabled in config")
	}

	return steps
}

func newEmbedder(ctx context.Context, cfg *EmbeddingConfig, logger *zap.Logger) (*gemini.Embedder, error) {
	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
	if provider != "" && provider != gemini.ProviderName {
		return nil, fmt.Errorf("unsupported embedding provider: %s", cfg.Provider)
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name: "gemini api key",
		File: cfg.APIKeyFile,
		Env:  []string{"GEMINI_API_KEY", "GOOGLE_API_KEY"},
	})
	if err != nil {
		return nil, fmt.Errorf("%w or set embedding.api-key-file", err)
	}
	breaker := cfg.CircuitBreaker
	if breaker == nil {
		breaker = &CircuitBreakerConfig{}
	}

	return gemini.NewEmbedder(ctx, gemini.Config{
		APIKey:               apiKey,
		Model:                cfg.Model,
		OutputDimensionality: cfg.OutputDimensionality,
		RequestsPerMinute:    cfg.RequestsPerMinute,
		MaxLogLength:         cfg.MaxLogLength,
		CircuitBreaker: gemini.BreakerConfig{
			Enabled:          breaker.Enabled,
			MaxRequests:      breaker.MaxRequests,
			Interval:         breaker.Interval,
			Timeout:          breaker.Timeout,
			MinRequests:      breaker.MinRequests,
			FailureThreshold: breaker.FailureThreshold,
		},
	}, logger)
}
