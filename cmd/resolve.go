package cmd

import (
	"fmt"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/hr-breaker/internal/metrics"
	"github.com/spigell/hr-breaker/internal/uploads"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve-uploads",
	Short: "Find the uploaded resume and job description and emit their paths",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return resolve(cmd)
	},
}

func init() {
	rootCmd.AddCommand(resolveCmd)

	resolveCmd.Flags().String("uploads-dir", "uploads", "directory with uploaded files")
	resolveCmd.Flags().String("changed-files", "", "file with changed paths, one per line. Matching uploads take priority")
	resolveCmd.Flags().String("github-output", "", "file to append key=value outputs to (default is $GITHUB_OUTPUT)")
	resolveCmd.Flags().BoolP("pick", "p", false, "choose interactively when several files match")

	viper.BindPFlag("uploads-dir", resolveCmd.Flags().Lookup("uploads-dir"))
	viper.BindPFlag("changed-files", resolveCmd.Flags().Lookup("changed-files"))
	viper.BindPFlag("github-output", resolveCmd.Flags().Lookup("github-output"))
}

func resolve(cmd *cobra.Command) error {
	logger, config, err := setup()
	if err != nil {
		return err
	}
	defer logger.Sync()

	recorder := metrics.New()
	defer writeMetrics(recorder, config.MetricsFile, logger)

	resolver := uploads.New(config.UploadsDir, logger)
	if pick, _ := cmd.Flags().GetBool("pick"); pick {
		resolver = resolver.WithChooser(promptChooser)
	}

	resolved, err := resolver.ResolveWithHintsFile(config.ChangedFiles)
	recorder.ObserveResolution(err)
	if err != nil {
		logger.Error("resolving uploads failed",
			zap.String("uploads_dir", config.UploadsDir),
			zap.Error(err),
		)
		return err
	}

	logger.Info("resolved uploads",
		zap.String("resume_path", resolved.ResumePath),
		zap.String("job_input", resolved.JobInput),
		zap.Bool("job_is_url", resolved.JobIsURL),
		zap.String("changed_files", config.ChangedFiles),
	)

	return uploads.NewOutput(config.GitHubOutput, cmd.OutOrStdout()).WriteResolved(resolved)
}

func promptChooser(role string, candidates []string) (string, error) {
	prompt := promptui.Select{
		Label: fmt.Sprintf("Several %s files found. Choose one and press ENTER", role),
		Items: candidates,
	}

	_, selected, err := prompt.Run()
	return selected, err
}
