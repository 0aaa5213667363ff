package terminal

import (
	"context"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/de-tools/emotion-atlas/pkg/runtime/terminal/commands"
	"github.com/de-tools/emotion-atlas/pkg/runtime/terminal/export"
)

// CLI represents the command-line interface
type CLI struct {
	registry export.Registry
	logger   zerolog.Logger
	rootCmd  *cobra.Command
}

// Options contain configuration for the CLI
type Options struct {
	Registry export.Registry
	Input    io.Reader
	Output   io.Writer
	ErrOut   io.Writer
}

// NewCLI creates a new CLI instance
func NewCLI(opts Options) *CLI {
	if opts.Registry == nil {
		opts.Registry = export.NewDefaultRegistry()
	}
	if opts.Input == nil {
		opts.Input = os.Stdin
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.ErrOut == nil {
		opts.ErrOut = os.Stderr
	}

	cli := &CLI{
		registry: opts.Registry,
		logger: zerolog.New(zerolog.ConsoleWriter{Out: opts.ErrOut}).
			Level(zerolog.WarnLevel).
			With().Timestamp().Logger(),
	}

	cli.rootCmd = cli.newRootCmd(opts)
	return cli
}

func (cli *CLI) Execute() error {
	return cli.ExecuteContext(context.Background())
}

func (cli *CLI) ExecuteContext(ctx context.Context) error {
	return cli.rootCmd.ExecuteContext(cli.logger.WithContext(ctx))
}

// SetArgs overrides os.Args, mostly for tests.
func (cli *CLI) SetArgs(args []string) {
	cli.rootCmd.SetArgs(args)
}

func (cli *CLI) newRootCmd(opts Options) *cobra.Command {
	var verbose bool
	cmd := &cobra.Command{
		Use:           "emotion-atlas",
		Short:         "Emotion trend analysis tool",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			if verbose {
				logger := cli.logger.Level(zerolog.DebugLevel)
				cmd.SetContext(logger.WithContext(cmd.Context()))
			}
		},
	}
	cmd.SetOut(opts.Output)
	cmd.SetErr(opts.ErrOut)
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	cmd.AddCommand(commands.NewAnalyzeCmd(cli.registry, opts.Input))
	cmd.AddCommand(commands.NewSchemaCmd())

	return cmd
}
