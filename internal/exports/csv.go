package exports

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"contract-portal/contract-portal-backend/internal/contracts"
)

// CSVOptions configures the CSV register export.
type CSVOptions struct {
	Delimiter     rune   `json:"delimiter"`
	IncludeHeader bool   `json:"include_header"`
	DateFormat    string `json:"date_format"`
}

func DefaultCSVOptions() CSVOptions {
	return CSVOptions{
		Delimiter:     ',',
		IncludeHeader: true,
		DateFormat:    "2006-01-02",
	}
}

// WriteCSV writes the contract register in CSV form.
func WriteCSV(w io.Writer, rows []contracts.Contract, opts CSVOptions) error {
	writer := csv.NewWriter(w)
	writer.Comma = opts.Delimiter

	if opts.IncludeHeader {
		if err := writer.Write(registerColumns); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
	}

	for _, c := range rows {
		record := []string{
			c.Number, c.Type, string(c.Status), c.JobTitle, c.Department,
			c.WorkLocation, strconv.FormatFloat(c.BasicSalary, 'f', 2, 64),
			c.Currency, c.StartDate.Format(opts.DateFormat), c.EndDate.Format(opts.DateFormat),
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}
