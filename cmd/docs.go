package cmd

import (
	"log"

	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"
)

// docsCmd regenerates the Markdown documentation for the CLI under
// ./docs, one page per command.
var docsCmd = &cobra.Command{
	Use:    "docs",
	Short:  "Generate Markdown documentation for the tcrsim CLI",
	Hidden: true,
	Run: func(cmd *cobra.Command, args []string) {
		if err := doc.GenMarkdownTree(rootCmd, "./docs"); err != nil {
			log.Fatalf("generating docs: %v", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(docsCmd)
}
