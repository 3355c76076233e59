package rates

import (
	"context"
	"fmt"
	"sort"

	"github.com/de-tools/bm-billing/pkg/models/domain"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"gopkg.in/ini.v1"
)

// Store looks up SU rates effective in an invoice month.
type Store interface {
	GetRates(ctx context.Context, invoiceMonth string, suTypes []string) (domain.Rates, error)
}

type staticStore struct {
	rates map[string]decimal.Decimal
}

// NewStaticStore serves the same rates for every month.
func NewStaticStore(rates map[string]decimal.Decimal) Store {
	return &staticStore{rates: rates}
}

func (s *staticStore) GetRates(_ context.Context, _ string, _ []string) (domain.Rates, error) {
	return domain.NewRates(s.rates)
}

// fileStore reads an INI file whose sections are effective months (YYYY-MM)
// holding "<SU type> SU Rate" keys. A rate stays in effect until a later
// section overrides it.
type fileStore struct {
	cfg *ini.File
}

func NewFileStore(path string) (Store, error) {
	cfg, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load rates file: %w", err)
	}
	return &fileStore{cfg: cfg}, nil
}

func (f *fileStore) GetRates(ctx context.Context, invoiceMonth string, suTypes []string) (domain.Rates, error) {
	logger := zerolog.Ctx(ctx)

	var months []string
	for _, section := range f.cfg.Sections() {
		name := section.Name()
		if name == ini.DefaultSection || name > invoiceMonth {
			continue
		}
		months = append(months, name)
	}
	sort.Strings(months)

	values := make(map[string]decimal.Decimal, len(suTypes))
	for _, su := range suTypes {
		key := rateKey(su)
		found := false
		for i := len(months) - 1; i >= 0; i-- {
			section := f.cfg.Section(months[i])
			if !section.HasKey(key) {
				continue
			}
			rate, err := decimal.NewFromString(section.Key(key).String())
			if err != nil {
				return nil, fmt.Errorf("parse %q in [%s]: %w", key, months[i], err)
			}
			values[su] = rate
			found = true
			break
		}
		if !found {
			logger.Warn().Str("su", su).Str("month", invoiceMonth).Msg("no rate defined, SU will not be billed")
		}
	}

	return domain.NewRates(values)
}

func rateKey(suType string) string {
	return suType + " SU Rate"
}
