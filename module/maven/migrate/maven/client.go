// Package maven drives the mvn binary to deploy snapshot artifacts.
package maven

import (
	"context"
	"fmt"
	"strings"

	"github.com/harness/nexus-migrate/module/maven/migrate/types"

	"github.com/rs/zerolog"
)

// DeployArgs are the deploy:deploy-file parameters of one component.
// Empty optional values are left off the command line.
type DeployArgs struct {
	GroupID      string
	ArtifactID   string
	Version      string
	Packaging    string
	File         string
	Sources      string
	PomFile      string
	URL          string
	RepositoryID string
}

// Args renders the -D properties in the order mvn receives them.
func (a DeployArgs) Args() []string {
	packaging := a.Packaging
	if packaging == "" {
		packaging = "jar"
	}
	props := []struct{ key, value string }{
		{"groupId", a.GroupID},
		{"artifactId", a.ArtifactID},
		{"version", a.Version},
		{"packaging", packaging},
		{"file", a.File},
		{"sources", a.Sources},
		{"pomFile", a.PomFile},
		{"url", a.URL},
		{"repositoryId", a.RepositoryID},
	}
	args := make([]string, 0, len(props))
	for _, p := range props {
		if p.value == "" {
			continue
		}
		args = append(args, fmt.Sprintf("-D%s=%s", p.key, p.value))
	}
	return args
}

// Client runs mvn with a fixed settings file.
type Client struct {
	binary   string
	settings string
	runner   CommandRunner
	logger   zerolog.Logger
}

func NewClient(binary, settings string, runner CommandRunner, logger zerolog.Logger) *Client {
	if binary == "" {
		binary = types.DefaultMavenBinary
	}
	if runner == nil {
		runner = NewOSRunner()
	}
	return &Client{binary: binary, settings: settings, runner: runner, logger: logger}
}

// Command builds the full deploy invocation.
func (c *Client) Command(args DeployArgs) Command {
	argv := []string{"--settings", c.settings, "deploy:deploy-file"}
	return Command{Name: c.binary, Args: append(argv, args.Args()...)}
}

// DeployFile runs deploy:deploy-file. Standard output is logged at info;
// on a non-zero exit the command line and standard error are logged at
// error and a *types.DeployError is returned.
func (c *Client) DeployFile(ctx context.Context, args DeployArgs) error {
	cmd := c.Command(args)
	result, err := c.runner.Run(ctx, cmd)
	if err != nil {
		return fmt.Errorf("failed to run %s: %w", c.binary, err)
	}

	if out := strings.TrimSpace(result.Stdout); out != "" {
		c.logger.Info().Str("artifact", args.GroupID+":"+args.ArtifactID+":"+args.Version).Msg(out)
	}

	if result.ExitCode != 0 {
		c.logger.Error().
			Str("command", cmd.Name+" "+strings.Join(cmd.Args, " ")).
			Str("stderr", result.Stderr).
			Int("exit_code", result.ExitCode).
			Msg("Maven deploy failed")
		return &types.DeployError{ExitCode: result.ExitCode, Stderr: result.Stderr}
	}
	return nil
}
