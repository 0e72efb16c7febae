package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/lehigh-university-libraries/oaistruct/internal/mets"
	"github.com/lehigh-university-libraries/oaistruct/internal/models"
	"github.com/spf13/cobra"
)

func newPagesCmd() *cobra.Command {
	var fetch fetchFlags
	var id string
	var types []string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "pages",
		Short: "List the pages spanned by each structural element",
		Long: `Fetches a record and prints, for every (optionally filtered) logical division,
its page label, the 8-digit image numbers derived from the ORDER attribute of
each page and the page URNs.`,
		Example: `  # Image numbers of every article
  oaistruct pages --url https://viewer.example.org/oai --id oai:example:1234 --type Article`,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := fetch.client(cmd)
			if err != nil {
				return err
			}

			doc, err := client.GetRecord(cmd.Context(), id)
			if err != nil {
				return fmt.Errorf("failed to fetch record %s: %w", id, err)
			}

			ids, ok := mets.ResolveIdentifiers(doc, types)
			if !ok {
				return fmt.Errorf("failed to resolve record %s: %w", id, mets.ErrNoStructureFound)
			}

			pages := make([]models.PageInfo, 0, len(ids))
			labels := make([]string, 0, len(ids))
			for _, ident := range ids {
				info, err := mets.ResolvePages(doc, ident)
				if err != nil {
					return fmt.Errorf("failed to resolve pages of %s: %w", ident.LogicalID, err)
				}
				pages = append(pages, info)
				labels = append(labels, mets.ResolvePageLabel(doc, ident.PhysicalIDs))
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(pages)
			}

			for i, p := range pages {
				fmt.Fprintf(out, "%s\t%s\n", p.LogicalID, labels[i])
				for j, order := range p.OrderNumbers {
					fmt.Fprintf(out, "    %s\t%s\n", order, p.URNs[j])
				}
			}
			if len(pages) == 0 {
				fmt.Fprintf(out, "No structural elements of type %s\n", strings.Join(types, ", "))
			}
			return nil
		},
	}

	fetch.register(cmd)
	cmd.Flags().StringVar(&id, "id", "", "OAI-PMH record identifier (required)")
	cmd.Flags().StringSliceVarP(&types, "type", "t", nil, "Keep only these division types (repeatable)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON instead of a table")

	_ = cmd.MarkFlagRequired("id")

	return cmd
}
