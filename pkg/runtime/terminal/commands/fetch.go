package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

type FetchCmd struct {
	deps Dependencies
	dir  string
}

func NewFetchCmd(deps Dependencies) *cobra.Command {
	fc := &FetchCmd{deps: deps}
	cmd := &cobra.Command{
		Use:   "fetch <s3_key>",
		Short: "Download a lease usage file from the lease bucket",
		Args:  cobra.ExactArgs(1),
		RunE:  fc.run,
	}

	cmd.Flags().StringVar(&fc.dir, "dir", ".", "Directory to save the file in")
	return cmd
}

func (fc *FetchCmd) run(cmd *cobra.Command, args []string) error {
	cfg, err := fc.deps.LoadConfig()
	if err != nil {
		return err
	}

	fetcher, err := fc.deps.NewFetcher(cmd.Context(), cfg.S3)
	if err != nil {
		return fmt.Errorf("failed to create lease bucket: %w", err)
	}

	localPath, err := fetcher.Fetch(cmd.Context(), args[0], fc.dir)
	if err != nil {
		return fmt.Errorf("failed to fetch lease file: %w", err)
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), localPath)
	return err
}
