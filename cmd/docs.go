package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"
)

func newDocsCmd(root *cobra.Command) *cobra.Command {
	var (
		outputDir string
		format    string
	)

	cmd := &cobra.Command{
		Use:    "docs",
		Short:  "Generate documentation",
		Long:   `Generate man pages and other documentation for bqro.`,
		Hidden: true,
		Args:   cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return generateDocs(root, outputDir, format)
		},
	}

	cmd.Flags().StringVar(&outputDir, "output", "./docs", "Output directory for documentation")
	cmd.Flags().StringVar(&format, "format", "man", "Documentation format: man, md, yaml")
	return cmd
}

func generateDocs(root *cobra.Command, outputDir, format string) error {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	switch format {
	case "man":
		header := &doc.GenManHeader{
			Title:   "BQRO",
			Section: "1",
			Source:  "bqro",
			Manual:  "Read-only BigQuery Tool Manual",
		}
		return doc.GenManTree(root, header, outputDir)
	case "md":
		return doc.GenMarkdownTree(root, outputDir)
	case "yaml":
		return doc.GenYamlTree(root, outputDir)
	default:
		return fmt.Errorf("unsupported format: %s (supported: man, md, yaml)", format)
	}
}
