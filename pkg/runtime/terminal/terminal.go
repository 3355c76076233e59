package terminal

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/de-tools/bm-billing/pkg/runtime/terminal/commands"
	"github.com/de-tools/bm-billing/pkg/runtime/terminal/export"
	"github.com/de-tools/bm-billing/pkg/services/config"
	"github.com/de-tools/bm-billing/pkg/store/bucket"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// CLI represents the command-line interface
type CLI struct {
	reporter   *export.Reporter
	rootCmd    *cobra.Command
	logOutput  io.Writer
	newFetcher func(ctx context.Context, cfg config.S3Config) (commands.Fetcher, error)
	now        func() time.Time
	configPath string
	logLevel   string
}

// Options contain configuration for the CLI
type Options struct {
	Output    io.Writer
	LogOutput io.Writer
	// NewFetcher overrides the S3 lease bucket, mostly for tests.
	NewFetcher func(ctx context.Context, cfg config.S3Config) (commands.Fetcher, error)
	Now        func() time.Time
}

// NewCLI creates a new CLI instance
func NewCLI(opts Options) *CLI {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.LogOutput == nil {
		opts.LogOutput = os.Stderr
	}
	if opts.NewFetcher == nil {
		opts.NewFetcher = newS3Fetcher
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	cli := &CLI{
		reporter:   export.NewReporter(opts.Output),
		logOutput:  opts.LogOutput,
		newFetcher: opts.NewFetcher,
		now:        opts.Now,
	}

	cli.rootCmd = cli.newRootCmd()
	cli.rootCmd.SetOut(opts.Output)
	return cli
}

func (cli *CLI) Execute() error {
	return cli.rootCmd.Execute()
}

// ExecuteArgs runs the CLI with explicit arguments instead of os.Args.
func (cli *CLI) ExecuteArgs(ctx context.Context, args ...string) error {
	cli.rootCmd.SetArgs(args)
	return cli.rootCmd.ExecuteContext(ctx)
}

func (cli *CLI) newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:               "bm-billing",
		Short:             "Simple Bare Metal Invoicing",
		SilenceUsage:      true,
		PersistentPreRunE: cli.setupLogger,
	}

	cmd.PersistentFlags().StringVarP(&cli.configPath, "config", "c", "", "Path to the billing config file (YAML)")
	cmd.PersistentFlags().StringVar(&cli.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	deps := commands.Dependencies{
		Reporter:   cli.reporter,
		LoadConfig: cli.loadConfig,
		NewFetcher: cli.newFetcher,
		Now:        cli.now,
	}
	cmd.AddCommand(commands.NewInvoiceCmd(deps))
	cmd.AddCommand(commands.NewFetchCmd(deps))

	return cmd
}

func (cli *CLI) setupLogger(cmd *cobra.Command, _ []string) error {
	level, err := zerolog.ParseLevel(cli.logLevel)
	if err != nil {
		return fmt.Errorf("invalid --log-level: %w", err)
	}

	logger := zerolog.New(cli.logOutput).Level(level).With().Timestamp().Logger()
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(logger.WithContext(ctx))
	return nil
}

func (cli *CLI) loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig(cli.configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

func newS3Fetcher(ctx context.Context, cfg config.S3Config) (commands.Fetcher, error) {
	client, err := bucket.NewClient(ctx, bucket.Settings{
		EndpointURL: cfg.EndpointURL,
		KeyID:       cfg.KeyID,
		AppKey:      cfg.AppKey,
		Region:      cfg.Region,
	})
	if err != nil {
		return nil, err
	}
	leaseBucket, err := bucket.NewLeaseBucket(client, cfg.Bucket)
	if err != nil {
		return nil, err
	}
	return leaseBucket, nil
}
