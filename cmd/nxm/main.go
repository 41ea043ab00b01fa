package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/harness/nexus-migrate/cmd/cmdutils"
	"github.com/harness/nexus-migrate/cmd/repository"
	"github.com/harness/nexus-migrate/config"
	"github.com/harness/nexus-migrate/internal/style"
	"github.com/harness/nexus-migrate/internal/terminal"
	"github.com/harness/nexus-migrate/module/maven/migrate/types"
	"github.com/harness/nexus-migrate/util/common/logging"

	"github.com/MakeNowJust/heredoc"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// version is set via ldflags during build
var version = "dev"

func main() {
	if err := newRootCmd(cmdutils.NewFactory()).Execute(); err != nil {
		termInfo := terminal.Detect(config.Global.NoColor)
		if termInfo.StderrIsTerminal && termInfo.ColorEnabled {
			fmt.Fprintln(os.Stderr, style.Error.Render("Error: "+err.Error()))
		} else {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}

func newRootCmd(factory *cmdutils.Factory) *cobra.Command {
	var logger *logging.Logger

	rootCmd := &cobra.Command{
		Use:           "nxm",
		Short:         "Nexus to nexus maven repository migration",
		SilenceUsage:  true,
		SilenceErrors: true, //prevent duplicate printing of errors
		Long: heredoc.Doc(`
			nxm copies the components of hosted maven2 repositories from one nexus
			instance to another, rewriting repository urls inside POMs on the way.

			Start with "nxm repository list" to check both connections, then run
			"nxm repository migrate -c config.yaml".
		`),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			termInfo := terminal.Detect(config.Global.NoColor)
			style.Init(termInfo.ColorEnabled)

			var err error
			logger, err = logging.New(logging.Options{
				Verbose: config.Global.Verbose,
				NoColor: !termInfo.StderrIsTerminal || config.Global.NoColor,
				Dir:     config.Global.LogDir,
				Console: os.Stderr,
				Hook:    types.ErrorHook{},
			})
			if err != nil {
				return err
			}
			log.Logger = logger.Logger
			factory.Logger = func() zerolog.Logger { return logger.Logger }

			return initProfiling()
		},

		PersistentPostRunE: func(*cobra.Command, []string) error {
			if err := flushProfiling(); err != nil {
				return err
			}
			if logger != nil {
				return logger.Close()
			}
			return nil
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.BoolVarP(&config.Global.Verbose, "verbose", "v", false, "Enable verbose logging to console")
	flags.BoolVar(&config.Global.NoColor, "no-color", false,
		"Disable colour output (also respects NO_COLOR env)")
	flags.StringVar(&config.Global.LogDir, "log-dir", "",
		"Directory for the rotating "+logging.InfoFile+" and "+logging.ErrorFile+" files")
	addProfilingFlags(flags)

	rootCmd.AddCommand(repository.GetRootCmd(factory))
	rootCmd.AddCommand(versionCmd())

	return rootCmd
}

// versionCmd returns the version command
func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of nxm",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "nxm version %s\n", version)
			fmt.Fprintf(cmd.OutOrStdout(), "Built with %s\n", runtime.Version())
		},
	}
}
