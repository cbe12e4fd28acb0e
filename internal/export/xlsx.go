// Package export writes locally-held pages to spreadsheet files. This is a
// client-side convenience; the authoritative CSV export comes from the
// server.
package export

import (
	"fmt"

	"sales-admin/internal/models"

	"github.com/xuri/excelize/v2"
)

// SalesWorkbook writes the given sales page to an .xlsx workbook at path.
func SalesWorkbook(sales []models.Sale, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Sales"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("remove default sheet: %w", err)
	}

	headers := []string{"ID", "Date", "Weekday", "Card", "Pix", "Cash", "Other", "Day total"}
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
	}

	for row, s := range sales {
		values := []any{s.ID, s.Date, s.Weekday, s.CardTotal, s.PixTotal, s.CashTotal, s.OtherTotal, s.DayTotal}
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return err
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}
