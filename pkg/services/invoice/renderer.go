package invoice

import (
	"strconv"

	"github.com/de-tools/bm-billing/pkg/models/domain"
	"github.com/shopspring/decimal"
)

// ClusterName is the fixed cluster label expected by the invoicing tools.
const ClusterName = "bm"

// Headers is the column layout of the invoice file.
var Headers = []string{
	"Invoice Month",
	"Project - Allocation",
	"Project - Allocation ID",
	"Manager (PI)",
	"Cluster Name",
	"Invoice Email",
	"Invoice Address",
	"Institution",
	"Institution - Specific Code",
	"SU Hours (GBhr or SUhr)",
	"SU Type",
	"Rate",
	"Cost",
}

// Render produces one row per (project, SU type) in the aggregate, in
// first-seen order. SU types without a rate are billed at zero.
func Render(agg *domain.UsageAggregate, invoiceMonth string, rates domain.Rates) []domain.InvoiceRow {
	var rows []domain.InvoiceRow
	for _, pu := range agg.Projects() {
		for _, su := range pu.SUTypes() {
			hours := pu.Hours(su)
			rate := rates.Get(su)
			rows = append(rows, domain.InvoiceRow{
				InvoiceMonth: invoiceMonth,
				Project:      pu.Project,
				AllocationID: pu.Project,
				ClusterName:  ClusterName,
				Hours:        hours,
				SUType:       su,
				Rate:         rate,
				Cost:         rate.Mul(decimal.NewFromInt(hours)),
			})
		}
	}
	return rows
}

// Record lays a row out in Headers order.
func Record(row domain.InvoiceRow) []string {
	return []string{
		row.InvoiceMonth,
		row.Project,
		row.AllocationID,
		"",
		row.ClusterName,
		"",
		"",
		"",
		"",
		strconv.FormatInt(row.Hours, 10),
		row.SUType,
		row.Rate.String(),
		row.Cost.String(),
	}
}
