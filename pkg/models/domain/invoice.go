package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var ErrNegativeRate = errors.New("rate must not be negative")

// Rates maps an SU type to its hourly rate.
type Rates map[string]decimal.Decimal

// NewRates copies the given rates, rejecting negative values.
func NewRates(values map[string]decimal.Decimal) (Rates, error) {
	rates := make(Rates, len(values))
	for su, rate := range values {
		if rate.IsNegative() {
			return nil, fmt.Errorf("%w: %s = %s", ErrNegativeRate, su, rate)
		}
		rates[su] = rate
	}
	return rates, nil
}

// Get returns the rate for suType; unknown SU types are not billed.
func (r Rates) Get(suType string) decimal.Decimal {
	if rate, ok := r[suType]; ok {
		return rate
	}
	return decimal.Zero
}

// InvoiceRow is one (project, SU type) line of an invoice.
type InvoiceRow struct {
	InvoiceMonth string
	Project      string
	AllocationID string
	ClusterName  string
	Hours        int64
	SUType       string
	Rate         decimal.Decimal
	Cost         decimal.Decimal
}
