package commands

import (
	"fmt"

	"github.com/de-tools/bm-billing/pkg/models/domain"
	"github.com/de-tools/bm-billing/pkg/runtime/terminal/export"
	"github.com/de-tools/bm-billing/pkg/services/billing"
	"github.com/de-tools/bm-billing/pkg/services/exclusion"
	"github.com/de-tools/bm-billing/pkg/services/usage"
	"github.com/de-tools/bm-billing/pkg/store/leases"
	"github.com/de-tools/bm-billing/pkg/store/rates"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

type InvoiceCmd struct {
	deps         Dependencies
	start        string
	end          string
	invoiceMonth string
	outputFile   string
	ratesFile    string
	suRates      map[string]*string
	excludes     []string
	fromS3       bool
	downloadDir  string
}

// flag name -> SU type
var rateFlags = []struct {
	flag   string
	suType string
	help   string
}{
	{flag: "rate-fc430-su", suType: "BM FC430", help: "Rate of FC430 SU/hr"},
	{flag: "rate-fc830-su", suType: "BM FC830", help: "Rate of FC830 SU/hr"},
	{flag: "rate-gpu-a100sxm4-su", suType: "BM GPUA100SXM4", help: "Rate of GPU A100 SXM4 SU/hr"},
	{flag: "rate-gpu-h100-su", suType: "BM GPUH100", help: "Rate of GPU H100 SU/hr"},
}

func NewInvoiceCmd(deps Dependencies) *cobra.Command {
	ic := &InvoiceCmd{deps: deps, suRates: make(map[string]*string)}
	defaultStart, _ := DefaultPeriod(deps.Now())

	cmd := &cobra.Command{
		Use:   "invoice <bm_usage_file>",
		Short: "Compute bare metal SU hours and write the invoice CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  ic.run,
	}

	cmd.Flags().StringVar(&ic.start, "start", "",
		"Start of the invoicing period (YYYY-MM-DD). Defaults to start of last month if 1st of a month, or start of this month otherwise")
	cmd.Flags().StringVar(&ic.end, "end", "", "End of the invoicing period (YYYY-MM-DD), not inclusive. Defaults to today")
	cmd.Flags().StringVar(&ic.invoiceMonth, "invoice-month", defaultStart.Format(monthLayout),
		"Invoice month for the first column (YYYY-MM). Defaults to month of start")
	cmd.Flags().StringVar(&ic.outputFile, "output-file", "bm_invoices.csv", "Output path for invoice in CSV format")
	cmd.Flags().StringVar(&ic.ratesFile, "rates-file", "",
		"INI file with SU rates per effective month; overrides the --rate-* flags")
	cmd.Flags().StringArrayVar(&ic.excludes, "exclude", nil,
		"Non-billable interval \"<start>,<end>\" in ISO format; repeatable")
	cmd.Flags().BoolVar(&ic.fromS3, "from-s3", false, "Treat <bm_usage_file> as a key in the lease bucket and download it first")
	cmd.Flags().StringVar(&ic.downloadDir, "download-dir", ".", "Directory for files downloaded with --from-s3")

	for _, rf := range rateFlags {
		ic.suRates[rf.suType] = cmd.Flags().String(rf.flag, "0", rf.help)
	}

	return cmd
}

func (ic *InvoiceCmd) run(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	logger := zerolog.Ctx(ctx)

	cfg, err := ic.deps.LoadConfig()
	if err != nil {
		return err
	}

	defaultStart, defaultEnd := DefaultPeriod(ic.deps.Now())
	start, err := parsePeriodBound("start", ic.start, defaultStart)
	if err != nil {
		return err
	}
	end, err := parsePeriodBound("end", ic.end, defaultEnd)
	if err != nil {
		return err
	}
	if err := validateMonth(ic.invoiceMonth); err != nil {
		return err
	}

	exclusions, err := exclusion.Parse(append(append([]string{}, cfg.ExcludedIntervals...), ic.excludes...))
	if err != nil {
		return err
	}

	logger.Info().Msgf("Processing invoices for month %s.", ic.invoiceMonth)
	logger.Info().Msgf("Interval for processing %s - %s.", start, end)
	logger.Info().Msgf("Invoice file will be saved to %s.", ic.outputFile)

	classifier := usage.NewClassifier(cfg.Catalog)
	suRates, err := ic.loadRates(cmd, classifier.SUTypes())
	if err != nil {
		return err
	}

	usageFile := args[0]
	if ic.fromS3 {
		fetcher, err := ic.deps.NewFetcher(ctx, cfg.S3)
		if err != nil {
			return fmt.Errorf("failed to create lease bucket: %w", err)
		}
		usageFile, err = fetcher.Fetch(ctx, args[0], ic.downloadDir)
		if err != nil {
			return fmt.Errorf("failed to fetch lease file: %w", err)
		}
	}

	leaseList, err := leases.NewReader().ReadFile(ctx, usageFile)
	if err != nil {
		return err
	}

	window := domain.Window{Start: start, End: end}
	rows, err := billing.NewService(classifier).Invoice(ctx, billing.Run{
		Leases:     leaseList,
		Window:     window,
		Exclusions: exclusions,
	}, ic.invoiceMonth, suRates)
	if err != nil {
		return err
	}

	if err := export.WriteCSVFile(ic.outputFile, rows); err != nil {
		return err
	}

	return ic.deps.Reporter.Handle(export.Summary{
		InvoiceMonth: ic.invoiceMonth,
		Window:       window,
		OutputFile:   ic.outputFile,
		Rows:         rows,
	})
}

func (ic *InvoiceCmd) loadRates(cmd *cobra.Command, suTypes []string) (domain.Rates, error) {
	var store rates.Store
	if ic.ratesFile != "" {
		fileStore, err := rates.NewFileStore(ic.ratesFile)
		if err != nil {
			return nil, err
		}
		store = fileStore
	} else {
		values := make(map[string]decimal.Decimal, len(ic.suRates))
		for _, rf := range rateFlags {
			rate, err := decimal.NewFromString(*ic.suRates[rf.suType])
			if err != nil {
				return nil, fmt.Errorf("invalid --%s: %w", rf.flag, err)
			}
			values[rf.suType] = rate
		}
		store = rates.NewStaticStore(values)
	}

	suRates, err := store.GetRates(cmd.Context(), ic.invoiceMonth, suTypes)
	if err != nil {
		return nil, fmt.Errorf("failed to load SU rates: %w", err)
	}
	return suRates, nil
}
