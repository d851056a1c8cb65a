package render

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"temple/internal/core"
)

const sheetName = "Receipts"

// backupSheet writes the backup as a workbook: letterhead, the four totals,
// then one row per receipt with amounts as numbers.
func (e *Engine) backupSheet(d BackupData) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, err
	}

	headStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"F5F5F5"}, Pattern: 1},
	})
	if err != nil {
		return nil, err
	}
	amountFmt := "#,##0.00"
	amountStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &amountFmt})
	if err != nil {
		return nil, err
	}

	set := func(cell string, v any) {
		if err == nil {
			err = f.SetCellValue(sheetName, cell, v)
		}
	}

	set("A1", e.letterhead.TempleName)
	set("A2", e.letterhead.ReportAddress)
	set("A3", d.Range.From.String()+" - "+d.Range.To.String())

	totals := []struct {
		label string
		value any
	}{
		{labelTotalReceipts, d.Summary.Count},
		{labelTotalAmount, d.Summary.Total.Decimal().InexactFloat64()},
		{labelCash, d.Summary.Cash.Decimal().InexactFloat64()},
		{labelOnline, d.Summary.Online.Decimal().InexactFloat64()},
	}
	for i, t := range totals {
		row := 5 + i
		set(fmt.Sprintf("A%d", row), t.label)
		set(fmt.Sprintf("B%d", row), t.value)
	}
	if err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(sheetName, "B6", "B8", amountStyle); err != nil {
		return nil, err
	}

	const headerRow = 10
	for i, h := range backupColumns {
		cell, _ := excelize.CoordinatesToCellName(i+1, headerRow)
		set(cell, h)
	}
	if err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(sheetName, "A10", "F10", headStyle); err != nil {
		return nil, err
	}

	for i, r := range d.Rows {
		row := headerRow + 1 + i
		values := []any{
			r.Serial,
			core.FormatDisplay(r.IssuedAt),
			r.DevoteeName,
			r.Address,
			r.Amount.Decimal().InexactFloat64(),
			string(r.PaymentMode),
		}
		cell, _ := excelize.CoordinatesToCellName(1, row)
		if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
			return nil, err
		}
	}
	if n := len(d.Rows); n > 0 {
		last := fmt.Sprintf("E%d", headerRow+n)
		if err := f.SetCellStyle(sheetName, fmt.Sprintf("E%d", headerRow+1), last, amountStyle); err != nil {
			return nil, err
		}
	}

	for col, w := range map[string]float64{"A": 14, "B": 22, "C": 28, "D": 36, "E": 14, "F": 16} {
		if err := f.SetColWidth(sheetName, col, col, w); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
