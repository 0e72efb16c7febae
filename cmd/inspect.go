package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/lehigh-university-libraries/oaistruct/internal/export"
	"github.com/lehigh-university-libraries/oaistruct/internal/models"
	"github.com/spf13/cobra"
)

func newInspectCmd() *cobra.Command {
	var path string
	var limit int
	var interactive bool

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Inspect exported structural elements",
		Long: `Walks structural elements from a parquet, jsonl or json file written by
"oaistruct resolve", one element at a time.`,
		Example: `  # Inspect the first 5 elements interactively
  oaistruct inspect --file ./articles.parquet --limit 5 --interactive

  # Inspect all elements (no limit)
  oaistruct inspect --file ./articles.jsonl --limit 0`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return executeInspect(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), path, limit, interactive)
		},
	}

	cmd.Flags().StringVar(&path, "file", "", "Path to parquet, jsonl or json export (required)")
	cmd.Flags().IntVar(&limit, "limit", 10, "Number of elements to inspect (0 for all)")
	cmd.Flags().BoolVar(&interactive, "interactive", false, "Pause after each element (press Enter to continue)")

	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func executeInspect(ctx context.Context, in io.Reader, out io.Writer, path string, limit int, interactive bool) error {
	elements, err := export.NewLoader(path).LoadSample(limit)
	if err != nil {
		return fmt.Errorf("failed to load export: %w", err)
	}

	fmt.Fprintf(out, "Loaded %d elements from %s\n", len(elements), path)
	fmt.Fprintln(out, strings.Repeat("=", 80))
	fmt.Fprintln(out)

	reader := bufio.NewReader(in)

	for i, el := range elements {
		select {
		case <-ctx.Done():
			fmt.Fprintln(out, "\nInspection interrupted.")
			return nil
		default:
		}

		fmt.Fprintf(out, "ELEMENT %d/%d\n", i+1, len(elements))
		fmt.Fprintln(out, strings.Repeat("-", 80))
		printElement(out, el)

		if interactive && i < len(elements)-1 {
			fmt.Fprint(out, "Press Enter to continue (or 'q' to quit)... ")
			line, err := reader.ReadString('\n')
			if err != nil && err != io.EOF {
				return fmt.Errorf("failed to read input: %w", err)
			}
			if strings.TrimSpace(strings.ToLower(line)) == "q" || err == io.EOF {
				fmt.Fprintln(out, "Exiting.")
				return nil
			}
			fmt.Fprintln(out)
		}
	}

	return nil
}

func printElement(out io.Writer, el models.StructuralElement) {
	fmt.Fprintf(out, "Logical ID:     %s\n", el.Identifiers.LogicalID)
	fmt.Fprintf(out, "Metadata ID:    %s\n", el.Identifiers.MetadataID)
	fmt.Fprintf(out, "Type:           %s\n", el.Type)
	fmt.Fprintf(out, "Title:          %s\n", el.Title)
	if el.SubTitle != "" {
		fmt.Fprintf(out, "Subtitle:       %s\n", el.SubTitle)
	}
	if len(el.Authors) > 0 {
		fmt.Fprintf(out, "Author(s):      %s\n", strings.Join(el.Authors, "; "))
	}
	fmt.Fprintf(out, "Language:       %s\n", export.LanguageName(el.Language))
	fmt.Fprintf(out, "Pages:          %s\n", el.PageLabel)
	fmt.Fprintf(out, "Physical IDs:   %d\n", len(el.Identifiers.PhysicalIDs))

	if el.Abstract != "" {
		fmt.Fprintf(out, "\nAbstract (%d characters):\n%s\n", utf8.RuneCountInString(el.Abstract), truncate(el.Abstract, 500))
	}
	fmt.Fprintln(out)
}

// truncate shortens s to at most n runes, marking the cut with "...".
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n]) + "..."
}
