package adapters

import (
	"github.com/de-tools/bm-billing/pkg/models/api"
	"github.com/de-tools/bm-billing/pkg/models/domain"
)

func MapUsageAggregateDomainToApi(agg *domain.UsageAggregate) []api.ProjectUsage {
	projects := make([]api.ProjectUsage, 0, len(agg.Projects()))
	for _, pu := range agg.Projects() {
		usage := make([]api.SUHours, 0)
		for _, su := range pu.SUTypes() {
			usage = append(usage, api.SUHours{SUType: su, Hours: pu.Hours(su)})
		}
		projects = append(projects, api.ProjectUsage{Project: pu.Project, Usage: usage})
	}
	return projects
}

func MapInvoiceRowsDomainToApi(rows []domain.InvoiceRow) []api.InvoiceRow {
	out := make([]api.InvoiceRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, api.InvoiceRow{
			InvoiceMonth: row.InvoiceMonth,
			Project:      row.Project,
			AllocationID: row.AllocationID,
			ClusterName:  row.ClusterName,
			Hours:        row.Hours,
			SUType:       row.SUType,
			Rate:         row.Rate,
			Cost:         row.Cost,
		})
	}
	return out
}
