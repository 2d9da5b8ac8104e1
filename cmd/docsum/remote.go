package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"docsum-backend/internal/apiclient"
)

func newUploadCmd(apiURL *string) *cobra.Command {
	var title string
	cmd := &cobra.Command{
		Use:   "upload <file>",
		Short: "Upload a document to the API",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read %s: %w", args[0], err)
			}
			doc, err := apiclient.New(*apiURL).Upload(cmd.Context(), filepath.Base(args[0]), data, title)
			if err != nil {
				return err
			}
			return printJSON(cmd, doc)
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "document title (defaults to the file name)")
	return cmd
}

func newListCmd(apiURL *string) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List documents newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			docs, err := apiclient.New(*apiURL).List(cmd.Context())
			if err != nil {
				return err
			}
			for _, doc := range docs {
				status := "pending"
				if doc.IsProcessed {
					status = "summarized"
				}
				if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\t%s\n", doc.ID, status, doc.CreatedAt.Format("2006-01-02 15:04"), doc.Title); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func newGetCmd(apiURL *string) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := apiclient.New(*apiURL).Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd, doc)
		},
	}
}

func newSummarizeCmd(apiURL *string) *cobra.Command {
	return &cobra.Command{
		Use:   "summarize <id>",
		Short: "Re-run summarization for a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := apiclient.New(*apiURL).Summarize(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd, doc)
		},
	}
}

func newExportCmd(apiURL *string) *cobra.Command {
	var format, out string
	cmd := &cobra.Command{
		Use:   "export <id>",
		Short: "Download the summary as pdf, docx or txt",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := apiclient.New(*apiURL).ExportSummary(cmd.Context(), args[0], format)
			if err != nil {
				return err
			}
			if out == "" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			return os.WriteFile(out, data, 0o644)
		},
	}
	cmd.Flags().StringVar(&format, "format", "pdf", "pdf, docx or txt")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (defaults to stdout)")
	return cmd
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
