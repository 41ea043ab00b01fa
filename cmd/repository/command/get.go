package command

import (
	"fmt"
	"strings"

	"github.com/harness/nexus-migrate/cmd/cmdutils"
	"github.com/harness/nexus-migrate/module/maven/migrate/types"
	"github.com/harness/nexus-migrate/util/common/printer"

	"github.com/spf13/cobra"
)

// NewGetRepositoryCmd wires up:
//
//	nxm repository get NAME
func NewGetRepositoryCmd(f *cmdutils.Factory) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get NAME",
		Short: "Show a repository",
		Long:  "Shows the configuration of one repository, including its maven version policy",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := f.Remote(cmd.Context())
			if err != nil {
				return err
			}
			repo, err := r.Repository(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			detail, err := repo.Detail(cmd.Context())
			if err != nil {
				return err
			}
			return printer.Print(cmd.OutOrStdout(), detailTable(detail))
		},
	}

	return cmd
}

func detailTable(d *types.RepositoryDetail) printer.Table {
	tbl := printer.Table{Headers: []string{"Field", "Value"}}
	tbl.AddRow("Name", d.Name)
	tbl.AddRow("Format", d.Format)
	tbl.AddRow("Type", d.Type)
	tbl.AddRow("URL", d.URL)
	tbl.AddRow("Online", fmt.Sprint(d.Online))
	tbl.AddRow("Blob store", d.Storage.BlobStoreName)
	tbl.AddRow("Strict content validation", fmt.Sprint(d.Storage.StrictContentTypeValidation))
	tbl.AddRow("Write policy", d.Storage.WritePolicy)
	if d.Maven != nil {
		tbl.AddRow("Version policy", string(d.Maven.VersionPolicy))
		tbl.AddRow("Layout policy", d.Maven.LayoutPolicy)
	}
	if d.Cleanup != nil {
		tbl.AddRow("Cleanup policies", strings.Join(d.Cleanup.PolicyNames, ", "))
	}
	if d.Proxy != nil {
		tbl.AddRow("Remote URL", d.Proxy.RemoteURL)
	}
	if d.Group != nil {
		tbl.AddRow("Members", strings.Join(d.Group.MemberNames, ", "))
	}
	return tbl
}
