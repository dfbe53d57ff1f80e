package orders

import (
	"bytes"
	"context"
	"fmt"

	"wms-backend/internal/query"

	"github.com/xuri/excelize/v2"
)

var lineColumns = []string{"ProductID", "Product", "Quantity", "WarehouseID", "Warehouse"}

// Export renders the filtered headers as a workbook with one row per line.
// Headers without lines still get a row.
func (m *Manager[H, L]) Export(ctx context.Context, f query.Filter) (*bytes.Buffer, error) {
	f.Expand = true
	list, err := m.List(ctx, f)
	if err != nil {
		return nil, err
	}

	xl := excelize.NewFile()
	defer xl.Close()

	sheet := m.kind.SheetName
	if err := xl.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	header := make([]interface{}, 0, len(m.kind.ExportColumns)+len(lineColumns))
	for _, c := range append(append([]string{}, m.kind.ExportColumns...), lineColumns...) {
		header = append(header, c)
	}
	if err := xl.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("failed to write header row: %w", err)
	}
	bold, err := xl.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("failed to create style: %w", err)
	}
	if err := xl.SetRowStyle(sheet, 1, 1, bold); err != nil {
		return nil, fmt.Errorf("failed to style header row: %w", err)
	}

	row := 2
	for i := range list {
		h := &list[i]
		base := m.kind.ExportRow(h)
		lines := m.kind.Lines(h)

		if len(lines) == 0 {
			if err := writeRow(xl, sheet, row, base); err != nil {
				return nil, err
			}
			row++
			continue
		}
		for j := range lines {
			l := m.kind.LineFields(&lines[j])
			product, warehouse := "", ""
			if l.Product != nil {
				product = l.Product.Name
			}
			if l.Warehouse != nil {
				warehouse = l.Warehouse.Name
			}
			cells := append(append([]interface{}{}, base...), l.ProductID, product, l.Quantity, l.WarehouseID, warehouse)
			if err := writeRow(xl, sheet, row, cells); err != nil {
				return nil, err
			}
			row++
		}
	}

	buf, err := xl.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf, nil
}

func writeRow(xl *excelize.File, sheet string, row int, cells []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := xl.SetSheetRow(sheet, cell, &cells); err != nil {
		return fmt.Errorf("failed to write row %d: %w", row, err)
	}
	return nil
}
