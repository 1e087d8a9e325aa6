package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	inventorydomain "github.com/luckyfood/stockpilot/internal/inventory/domain"
)

const sheetName = "Inventory"

var columns = []string{
	"SKU",
	"Product Name",
	"Item Number",
	"Product Type",
	"Quantity",
	"Pallets",
	"Locations",
	"Customer Type",
	"On Hold",
	"Total Sales",
}

// WriteCombinedView renders the combined view as an xlsx workbook and
// writes it to w.
func WriteCombinedView(w io.Writer, rows []inventorydomain.CombinedInventoryItem) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("failed to drop default sheet: %w", err)
	}

	for col, title := range columns {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheetName, cell, title); err != nil {
			return err
		}
	}

	for i, row := range rows {
		values := []any{
			row.SKU,
			row.ProductName,
			row.ItemNumber,
			string(row.ProductType),
			row.Quantity,
			palletsCell(row.Pallets),
			strings.Join(row.Locations, ", "),
			string(row.CustomerType),
			row.OnHold,
			row.TotalSales,
		}
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheetName, cell, value); err != nil {
				return err
			}
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func palletsCell(p inventorydomain.Pallets) any {
	if !p.Applicable {
		return "N/A"
	}
	return p.Value
}
