package command

import (
	"fmt"
	"strings"

	"github.com/harness/nexus-migrate/cmd/cmdutils"
	"github.com/harness/nexus-migrate/util/common/printer"

	"github.com/spf13/cobra"
)

// NewListRepositoryCmd wires up:
//
//	nxm repository list
func NewListRepositoryCmd(f *cmdutils.Factory) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List repositories",
		Long:  "Lists the repositories of the source nexus, or of the destination with --destination",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := f.Remote(cmd.Context())
			if err != nil {
				return err
			}
			repos, err := r.ListRepositories(cmd.Context())
			if err != nil {
				return err
			}

			tbl := printer.Table{Headers: []string{"Repository", "Format", "Type", "Online", "URL"}}
			for _, repo := range repos {
				if format != "" && !strings.EqualFold(repo.Format, format) {
					continue
				}
				tbl.AddRow(repo.Name, repo.Format, repo.Type, fmt.Sprint(repo.Online), repo.URL)
			}
			tbl.Footer = fmt.Sprintf("Total: %d", len(tbl.Rows))
			return printer.Print(cmd.OutOrStdout(), tbl)
		},
	}

	cmd.Flags().StringVar(&format, "format", "", "only show repositories of this format, e.g. maven2")

	return cmd
}
