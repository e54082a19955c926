package exports

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"contract-portal/contract-portal-backend/internal/contracts"
)

// ExcelOptions configures the contract register workbook.
type ExcelOptions struct {
	SheetName     string `json:"sheet_name"`
	IncludeHeader bool   `json:"include_header"`
	FreezeHeader  bool   `json:"freeze_header"`
	AutoFilter    bool   `json:"auto_filter"`
	DateFormat    string `json:"date_format"`
}

func DefaultExcelOptions() ExcelOptions {
	return ExcelOptions{
		SheetName:     "Contracts",
		IncludeHeader: true,
		FreezeHeader:  true,
		AutoFilter:    true,
		DateFormat:    "2006-01-02",
	}
}

var registerColumns = []string{
	"Contract Number", "Type", "Status", "Job Title", "Department",
	"Work Location", "Basic Salary", "Currency", "Start Date", "End Date",
}

// WriteExcel writes the contract register as an xlsx workbook.
func WriteExcel(w io.Writer, rows []contracts.Contract, opts ExcelOptions) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := opts.SheetName
	f.SetSheetName("Sheet1", sheet)

	rowIdx := 1
	if opts.IncludeHeader {
		headerStyle, err := f.NewStyle(&excelize.Style{
			Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
			Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"2C5777"}},
			Alignment: &excelize.Alignment{Horizontal: "center"},
		})
		if err != nil {
			return fmt.Errorf("create header style: %w", err)
		}
		for i, label := range registerColumns {
			cell, _ := excelize.CoordinatesToCellName(i+1, rowIdx)
			if err := f.SetCellValue(sheet, cell, label); err != nil {
				return fmt.Errorf("write header cell: %w", err)
			}
		}
		endCell, _ := excelize.CoordinatesToCellName(len(registerColumns), rowIdx)
		if err := f.SetCellStyle(sheet, "A1", endCell, headerStyle); err != nil {
			return fmt.Errorf("style header: %w", err)
		}
		rowIdx++
	}

	for _, c := range rows {
		values := []interface{}{
			c.Number, c.Type, string(c.Status), c.JobTitle, c.Department,
			c.WorkLocation, c.BasicSalary, c.Currency,
			c.StartDate.Format(opts.DateFormat), c.EndDate.Format(opts.DateFormat),
		}
		for i, v := range values {
			cell, _ := excelize.CoordinatesToCellName(i+1, rowIdx)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return fmt.Errorf("write row cell: %w", err)
			}
		}
		rowIdx++
	}

	if opts.FreezeHeader && opts.IncludeHeader {
		if err := f.SetPanes(sheet, &excelize.Panes{
			Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft",
		}); err != nil {
			return fmt.Errorf("freeze header: %w", err)
		}
	}
	if opts.AutoFilter && opts.IncludeHeader && len(rows) > 0 {
		endCell, _ := excelize.CoordinatesToCellName(len(registerColumns), rowIdx-1)
		if err := f.AutoFilter(sheet, "A1:"+endCell, nil); err != nil {
			return fmt.Errorf("set auto filter: %w", err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
