package commands

import (
	"context"
	"time"

	"github.com/de-tools/bm-billing/pkg/runtime/terminal/export"
	"github.com/de-tools/bm-billing/pkg/services/config"
)

// Fetcher downloads a lease file and returns its local path.
type Fetcher interface {
	Fetch(ctx context.Context, key, dir string) (string, error)
}

// Dependencies are shared by all subcommands.
type Dependencies struct {
	Reporter   *export.Reporter
	LoadConfig func() (*config.Config, error)
	NewFetcher func(ctx context.Context, cfg config.S3Config) (Fetcher, error)
	Now        func() time.Time
}
