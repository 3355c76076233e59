package export

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/template"

	"github.com/de-tools/bm-billing/pkg/models/domain"
)

type TableConfig struct {
	ProjectWidth int
	SUTypeWidth  int
	HoursWidth   int
	RateWidth    int
	CostWidth    int
}

func DefaultTableConfig() TableConfig {
	return TableConfig{
		ProjectWidth: 32,
		SUTypeWidth:  20,
		HoursWidth:   10,
		RateWidth:    10,
		CostWidth:    14,
	}
}

// Summary is what the console reporter renders for one billing run.
type Summary struct {
	InvoiceMonth string
	Window       domain.Window
	OutputFile   string
	Rows         []domain.InvoiceRow
}

// Reporter prints a run summary as a fixed-width table.
type Reporter struct {
	writer io.Writer
	config TableConfig
}

func NewReporter(writer io.Writer) *Reporter {
	if writer == nil {
		writer = os.Stdout
	}
	return &Reporter{
		writer: writer,
		config: DefaultTableConfig(),
	}
}

func (c *Reporter) Handle(summary Summary) error {
	funcMap := template.FuncMap{
		"formatRow": func(project, suType string, hours, rate, cost interface{}) string {
			return fmt.Sprintf("| %-*s | %-*s | %*v | %*v | %*v |",
				c.config.ProjectWidth, project,
				c.config.SUTypeWidth, suType,
				c.config.HoursWidth, hours,
				c.config.RateWidth, rate,
				c.config.CostWidth, cost)
		},
		"separator": func() string {
			return fmt.Sprintf("+%s+%s+%s+%s+%s+",
				strings.Repeat("-", c.config.ProjectWidth+2),
				strings.Repeat("-", c.config.SUTypeWidth+2),
				strings.Repeat("-", c.config.HoursWidth+2),
				strings.Repeat("-", c.config.RateWidth+2),
				strings.Repeat("-", c.config.CostWidth+2))
		},
		"total": totalCost,
	}

	tmpl := `
Bare Metal Invoice {{.InvoiceMonth}}
Period: {{.Window.Start.Format "2006-01-02 15:04:05"}} to {{.Window.End.Format "2006-01-02 15:04:05"}}
{{if .OutputFile}}Output: {{.OutputFile}}
{{end}}Total Cost: {{total .Rows}}

{{separator}}
{{formatRow "Project" "SU Type" "Hours" "Rate" "Cost"}}
{{separator}}
{{range .Rows}}{{formatRow .Project .SUType .Hours .Rate.String .Cost.String}}
{{end}}{{separator}}
`

	t, err := template.New("invoice").Funcs(funcMap).Parse(tmpl)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	return t.Execute(c.writer, summary)
}

func totalCost(rows []domain.InvoiceRow) string {
	if len(rows) == 0 {
		return "0"
	}
	total := rows[0].Cost
	for _, row := range rows[1:] {
		total = total.Add(row.Cost)
	}
	return total.String()
}
