package api

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

type Window struct {
	Start string `json:"start" validate:"required"`
	End   string `json:"end" validate:"required"`
}

type UsageRequest struct {
	Window     Window            `json:"window"`
	Exclusions []string          `json:"exclusions,omitempty"`
	Leases     []json.RawMessage `json:"leases"`
}

type InvoiceRequest struct {
	UsageRequest
	InvoiceMonth string                     `json:"invoice_month" validate:"required"`
	Rates        map[string]decimal.Decimal `json:"rates"`
}

type SUHours struct {
	SUType string `json:"su_type"`
	Hours  int64  `json:"hours"`
}

type ProjectUsage struct {
	Project string    `json:"project"`
	Usage   []SUHours `json:"usage"`
}

type UsageResponse struct {
	Start      time.Time      `json:"start"`
	End        time.Time      `json:"end"`
	LeaseCount int            `json:"lease_count"`
	Projects   []ProjectUsage `json:"projects"`
}

type InvoiceRow struct {
	InvoiceMonth string          `json:"invoice_month"`
	Project      string          `json:"project"`
	AllocationID string          `json:"allocation_id"`
	ClusterName  string          `json:"cluster_name"`
	Hours        int64           `json:"su_hours"`
	SUType       string          `json:"su_type"`
	Rate         decimal.Decimal `json:"rate"`
	Cost         decimal.Decimal `json:"cost"`
}

type Error struct {
	Error string `json:"error"`
}
