package cmd

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func NewRootCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "oaistruct",
		Short: "Resolve the logical structure of METS records served over OAI-PMH",
		Long: `oaistruct fetches a METS record from an OAI-PMH interface and resolves its
logical structure (articles, chapters, illustrations) into structural elements
with titles, authors, languages and page ranges.

It can print or export the elements, list their pages, and serve the resolver
as a JSON API.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()

			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
		},
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	cmd.AddCommand(newResolveCmd())
	cmd.AddCommand(newPagesCmd())
	cmd.AddCommand(newInspectCmd())
	cmd.AddCommand(newServeCmd())

	return cmd
}
