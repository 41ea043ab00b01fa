package repository

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/harness/nexus-migrate/cmd/cmdutils"
	"github.com/harness/nexus-migrate/config"
	"github.com/harness/nexus-migrate/internal/style"
	"github.com/harness/nexus-migrate/internal/terminal"
	"github.com/harness/nexus-migrate/module/maven/migrate"
	"github.com/harness/nexus-migrate/util/common/logging"

	"github.com/MakeNowJust/heredoc"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

func getMigrateCmd(f *cmdutils.Factory) *cobra.Command {
	flags := &config.Global.Repository.Migrate

	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Migrate maven2 repositories between nexus instances",
		Long: heredoc.Doc(`
			Migrate the components of hosted maven2 repositories from a source nexus
			to a destination nexus.

			RELEASE repositories are migrated with the components upload API. SNAPSHOT
			repositories are deployed with "mvn deploy:deploy-file", which needs a maven
			settings file holding the destination credentials under snapshot_id.

			Example configuration file (config.yaml):

			  version: 1.0.0
			  concurrency: 10
			  failureMode: continue      # continue | stop
			  retries: 0

			  source:
			    endpoint: http://old-nexus:8081
			    credentials:
			      username: admin
			      password: ${SOURCE_PASSWORD}

			  destination:
			    endpoint: https://new-nexus.example.com
			    credentials:
			      token: ${DEST_TOKEN}

			  mappings:
			    - sourceRepository: maven-releases
			      destinationRepository: maven-releases
			      componentNamePatterns:
			        include: ["com.example/**"]
			        exclude: ["*/internal-*"]

			  maven:
			    excludes: [md5, sha1]
			    tmp_dir: /var/tmp/nxm
			    pom_url_mapping:
			      "http://old-nexus:8081/repository/maven-releases": "https://new-nexus.example.com/repository/maven-releases"
			    settings: settings.xml
			    snapshot_id: nexus-snapshots

			Environment variables can be used in the config file using ${VAR_NAME} syntax.
			Files ending in .toml are read as TOML.

			A legacy INI profile with [SourceNexus], [TargetNexus] and [Maven] sections
			can be given with --profile; its connections replace those of the config file.
		`),
		Example: heredoc.Doc(`
			nxm repository migrate -c config.yaml
			nxm repository migrate --profile nexus.ini --failure-mode stop
			nxm repository migrate -c config.yaml -t https://staging-nexus:8081 --concurrency 4
		`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigration(cmd, f)
		},
	}

	migrateCmd.Flags().StringVarP(&flags.Source, "source", "s", "", "Source nexus endpoint (overrides config)")
	migrateCmd.Flags().StringVarP(&flags.Target, "target", "t", "", "Destination nexus endpoint (overrides config)")
	migrateCmd.Flags().IntVar(&flags.Concurrency, "concurrency", 0, "Number of components migrated in parallel (overrides config)")
	migrateCmd.Flags().StringVar(&flags.Settings, "settings", "", "Maven settings file for snapshot deploys (overrides config)")
	migrateCmd.Flags().StringVar(&flags.FailureMode, "failure-mode", "", "continue or stop on the first failed component (overrides config)")

	return migrateCmd
}

func runMigration(cmd *cobra.Command, f *cmdutils.Factory) error {
	cfg, err := f.MigrationConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Set up context with cancellation for graceful shutdown
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(signalChan)
	go func() {
		select {
		case <-signalChan:
			fmt.Fprintln(cmd.ErrOrStderr(), "\nReceived interrupt signal, shutting down gracefully...")
			cancel()
		case <-ctx.Done():
		}
	}()

	// the report is held back until the spinner is gone
	var report bytes.Buffer
	migrationSvc, err := migrate.NewMigrationService(ctx, cfg, f.Logger(), migrate.WithOutput(&report))
	if err != nil {
		return fmt.Errorf("failed to create migration service: %w", err)
	}

	var spinner *pterm.SpinnerPrinter
	if terminal.Detect(config.Global.NoColor).ProgressEnabled && !config.Global.Verbose {
		spinner, _ = pterm.DefaultSpinner.
			WithWriter(cmd.ErrOrStderr()).
			WithRemoveWhenDone(true).
			Start("Migrating components...")
	}

	results, err := migrationSvc.Run(ctx)
	if spinner != nil {
		_ = spinner.Stop()
	}
	_, _ = report.WriteTo(cmd.OutOrStdout())
	if err != nil {
		if ctx.Err() != nil {
			fmt.Fprintln(cmd.ErrOrStderr(), style.WarningIcon()+" Migration interrupted")
		} else {
			fmt.Fprintln(cmd.ErrOrStderr(), style.ErrorIcon()+" Migration failed")
		}
		if config.Global.LogDir != "" {
			fmt.Fprintln(cmd.ErrOrStderr(), style.Hint("details in "+filepath.Join(config.Global.LogDir, logging.ErrorFile)))
		}
		return err
	}

	total := 0
	for _, r := range results {
		total += len(r.Report.Succeeded)
	}
	fmt.Fprintln(cmd.OutOrStdout(), style.SuccessIcon()+" Migration completed successfully, "+
		fmt.Sprintf("%d components migrated", total))
	return nil
}
