package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"docsum-backend/internal/extract"
	"docsum-backend/internal/llm/provider"
	"docsum-backend/internal/shared/config"
	"docsum-backend/internal/summarize"
)

func newExtractCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "extract <file>",
		Short: "Print the text extracted from a pdf, docx or txt file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := extractFile(cmd, args[0])
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), text)
			return err
		},
	}
}

func newSummarizeFileCmd(cfg config.Config) *cobra.Command {
	var model string
	cmd := &cobra.Command{
		Use:   "summarize-file <file>",
		Short: "Extract a file and summarize it with the configured provider",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := extractFile(cmd, args[0])
			if err != nil {
				return err
			}
			if model != "" {
				cfg.LLMModel = model
			}
			gen, err := provider.New(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			client, err := summarize.New(gen)
			if err != nil {
				return err
			}
			summary, err := client.Summarize(cmd.Context(), text)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), summary)
			return err
		},
	}
	cmd.Flags().StringVar(&model, "model", "", "override LLM_MODEL")
	return cmd
}

func extractFile(cmd *cobra.Command, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	mime := extract.NormalizeMimeType("", filepath.Base(path))
	return extract.Text(cmd.Context(), data, mime)
}
