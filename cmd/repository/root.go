package repository

import (
	"github.com/harness/nexus-migrate/cmd/cmdutils"
	"github.com/harness/nexus-migrate/cmd/repository/command"
	"github.com/harness/nexus-migrate/config"

	"github.com/spf13/cobra"
)

func GetRootCmd(f *cmdutils.Factory) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "repository",
		Aliases: []string{"repo"},
		Short:   "Inspect and migrate nexus repositories",
		Long:    `Commands to inspect nexus repositories and migrate maven2 repositories between instances`,
	}

	rootCmd.PersistentFlags().StringVarP(&config.Global.ConfigPath, "config", "c", "",
		"Path to the migration configuration file (YAML or TOML)")
	rootCmd.PersistentFlags().StringVar(&config.Global.ProfilePath, "profile", "",
		"Path to an INI connection profile")

	list := command.NewListRepositoryCmd(f)
	get := command.NewGetRepositoryCmd(f)
	for _, c := range []*cobra.Command{list, get} {
		c.Flags().BoolVar(&config.Global.Repository.Destination, "destination", false,
			"Query the destination nexus instead of the source")
	}

	// Add subcommands
	rootCmd.AddCommand(list)
	rootCmd.AddCommand(get)
	rootCmd.AddCommand(getMigrateCmd(f))

	return rootCmd
}
