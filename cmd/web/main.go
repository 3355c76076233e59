package main

import (
	"fmt"
	"net"
	"os"

	"github.com/de-tools/bm-billing/pkg/server"
	"github.com/de-tools/bm-billing/pkg/services/billing"
	"github.com/de-tools/bm-billing/pkg/services/config"
	"github.com/de-tools/bm-billing/pkg/services/exclusion"
	"github.com/de-tools/bm-billing/pkg/services/usage"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var cfgPath string

func main() {
	var rootCmd = &cobra.Command{
		Use:          "web",
		Short:        "Start the bare-metal billing web server",
		SilenceUsage: true,
		RunE:         runServer,
	}

	rootCmd.Flags().StringVarP(&cfgPath, "config", "c", "",
		"Path to the billing config file (YAML)")

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func runServer(cmd *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Error loading .env file: %v\n", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	ctx := logger.WithContext(cmd.Context())

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Server-wide exclusions are validated once at startup.
	if _, err := exclusion.Parse(cfg.ExcludedIntervals); err != nil {
		return fmt.Errorf("invalid excluded_intervals: %w", err)
	}

	classifier := usage.NewClassifier(cfg.Catalog)
	zerolog.Ctx(ctx).Info().
		Strs("su_types", classifier.SUTypes()).
		Int("excluded_intervals", len(cfg.ExcludedIntervals)).
		Msg("billing catalog loaded")

	if cfg.Server.Host == "" || cfg.Server.Port == "" {
		return fmt.Errorf("missing server configuration: set SERVER_HOST and SERVER_PORT")
	}

	api := server.NewWebAPI(server.Config{
		Addr: net.JoinHostPort(cfg.Server.Host, cfg.Server.Port),
		Dependencies: server.Dependencies{
			Billing:           billing.NewService(classifier),
			DefaultExclusions: cfg.ExcludedIntervals,
			Logger:            logger,
		},
	})

	return api.Start()
}
