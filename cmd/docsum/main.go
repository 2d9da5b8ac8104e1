// Command docsum extracts and summarizes documents locally or drives a
// running API.
package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"docsum-backend/internal/shared/config"
	"docsum-backend/internal/shared/telemetry"
)

func main() {
	cfg := config.Load()
	if _, err := telemetry.Init(cfg.Env, cfg.LogLevel); err != nil {
		os.Stderr.WriteString("init logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer telemetry.Sync()

	if err := newRootCmd(cfg).ExecuteContext(context.Background()); err != nil {
		telemetry.L().Debug("docsum.failed", zap.Error(err))
		telemetry.Sync()
		os.Exit(1)
	}
}

func newRootCmd(cfg config.Config) *cobra.Command {
	var apiURL string

	root := &cobra.Command{
		Use:           "docsum",
		Short:         "Document summarizer toolkit",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	defaultURL := os.Getenv("DOCSUM_API_URL")
	if defaultURL == "" {
		defaultURL = "http://localhost:" + cfg.Port
	}
	root.PersistentFlags().StringVar(&apiURL, "api", defaultURL, "base URL of the docsum API")

	root.AddCommand(
		newExtractCmd(),
		newSummarizeFileCmd(cfg),
		newUploadCmd(&apiURL),
		newListCmd(&apiURL),
		newGetCmd(&apiURL),
		newSummarizeCmd(&apiURL),
		newExportCmd(&apiURL),
	)
	return root
}
