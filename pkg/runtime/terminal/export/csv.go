package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/de-tools/bm-billing/pkg/models/domain"
	"github.com/de-tools/bm-billing/pkg/services/invoice"
)

// WriteCSV writes the header and one record per invoice row.
func WriteCSV(w io.Writer, rows []domain.InvoiceRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(invoice.Headers); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, row := range rows {
		if err := cw.Write(invoice.Record(row)); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func WriteCSVFile(path string, rows []domain.InvoiceRow) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create invoice file: %w", err)
	}
	if err := WriteCSV(f, rows); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
