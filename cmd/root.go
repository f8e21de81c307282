package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/hr-breaker/internal/logger"
	"github.com/spigell/hr-breaker/internal/metrics"
)

const (
	app       = "hr-breaker"
	envPrefix = "HR_BREAKER"
)

type Config struct {
	UploadsDir   string           `mapstructure:"uploads-dir"`
	ChangedFiles string           `mapstructure:"changed-files"`
	GitHubOutput string           `mapstructure:"github-output"`
	MetricsFile  string           `mapstructure:"metrics-file"`
	Filters      *FiltersConfig   `mapstructure:"filters"`
	Embedding    *EmbeddingConfig `mapstructure:"embedding"`
}

type FiltersConfig struct {
	// Disabled lists filter names to skip.
	Disabled         []string                `mapstructure:"disabled"`
	VectorSimilarity *VectorSimilarityConfig `mapstructure:"vector-similarity"`
}

type VectorSimilarityConfig struct {
	Enabled   bool    `mapstructure:"enabled"`
	Threshold float64 `mapstructure:"threshold"`
}

type EmbeddingConfig struct {
	Provider             string                `mapstructure:"provider"`
	Model                string                `mapstructure:"model"`
	OutputDimensionality int                   `mapstructure:"output-dimensionality"`
	APIKeyFile           string                `mapstructure:"api-key-file"`
	Timeout              time.Duration         `mapstructure:"timeout"`
	RequestsPerMinute    int                   `mapstructure:"requests-per-minute"`
	MaxLogLength         int                   `mapstructure:"max-log-length"`
	CircuitBreaker       *CircuitBreakerConfig `mapstructure:"circuit-breaker"`
}

type CircuitBreakerConfig struct {
	Enabled          bool          `mapstructure:"enabled"`
	MaxRequests      uint32        `mapstructure:"max-requests"`
	Interval         time.Duration `mapstructure:"interval"`
	Timeout          time.Duration `mapstructure:"timeout"`
	MinRequests      uint32        `mapstructure:"min-requests"`
	FailureThreshold float64       `mapstructure:"failure-threshold"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:           app,
		Short:         "hr-breaker locates uploaded resumes and checks how well they match a job posting",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

// Execute executes the root command.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	setDefaults(viper.GetViper())

	if err := viper.BindEnv("github-output", "GITHUB_OUTPUT"); err != nil {
		log.Fatalf("binding GITHUB_OUTPUT environment variable: %v", err)
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is hr-breaker.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")
	rootCmd.PersistentFlags().String("metrics-file", "", "write prometheus metrics in textfile format to this path")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
	viper.BindPFlag("metrics-file", rootCmd.PersistentFlags().Lookup("metrics-file"))
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("uploads-dir", "uploads")
	v.SetDefault("changed-files", "")
	v.SetDefault("github-output", "")
	v.SetDefault("metrics-file", "")

	v.SetDefault("filters.disabled", []string{})
	v.SetDefault("filters.vector-similarity.enabled", true)
	v.SetDefault("filters.vector-similarity.threshold", 0.4)

	v.SetDefault("embedding.provider", "gemini")
	v.SetDefault("embedding.model", "gemini-embedding-001")
	v.SetDefault("embedding.output-dimensionality", 768)
	v.SetDefault("embedding.api-key-file", "")
	v.SetDefault("embedding.timeout", time.Duration(0))
	v.SetDefault("embedding.requests-per-minute", 0)
	v.SetDefault("embedding.max-log-length", 200)

	v.SetDefault("embedding.circuit-breaker.enabled", false)
	v.SetDefault("embedding.circuit-breaker.max-requests", 1)
	v.SetDefault("embedding.circuit-breaker.interval", 60*time.Second)
	v.SetDefault("embedding.circuit-breaker.timeout", 30*time.Second)
	v.SetDefault("embedding.circuit-breaker.min-requests", 3)
	v.SetDefault("embedding.circuit-breaker.failure-threshold", 0.6)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()
}

func initConfig() {
	// A .env file is optional; values already present in the environment win.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatalf("loading .env file: %v", err)
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		// Only an explicitly requested config file is mandatory.
		if errors.As(err, &notFound) && cfgFile == "" {
			return
		}
		log.Fatal(err)
	}
}

func getConfig() (*Config, error) {
	var config *Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if config == nil {
		config = &Config{}
	}

	if config.Filters == nil {
		config.Filters = &FiltersConfig{}
	}
	if config.Filters.VectorSimilarity == nil {
		config.Filters.VectorSimilarity = &VectorSimilarityConfig{}
	}
	if config.Embedding == nil {
		config.Embedding = &EmbeddingConfig{}
	}
	if config.Embedding.CircuitBreaker == nil {
		config.Embedding.CircuitBreaker = &CircuitBreakerConfig{}
	}

	return config, nil
}

// setup builds the logger and decodes the configuration shared by all commands.
func setup() (*zap.Logger, *Config, error) {
	zapLogger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		return nil, nil, fmt.Errorf("creating a logger: %w", err)
	}

	config, err := getConfig()
	if err != nil {
		return nil, nil, err
	}

	return zapLogger, config, nil
}

func writeMetrics(recorder *metrics.Recorder, path string, logger *zap.Logger) {
	if strings.TrimSpace(path) == "" {
		return
	}

	if err := recorder.WriteTextfile(path); err != nil {
		logger.Warn("writing metrics failed", zap.String("path", path), zap.Error(err))
		return
	}

	logger.Debug("metrics written", zap.String("path", path))
}
