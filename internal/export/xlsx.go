package export

import (
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"equipment-catalog/internal"
)

const sheetName = "equipment"

var headers = []string{"id", "name_en", "name_fr", "type", "weight_g", "cost"}

// EntriesToXLSX renders the catalog as a single-sheet workbook for review.
func EntriesToXLSX(entries []internal.Entry, outputPath string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
		return err
	}

	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheetName, cell, h); err != nil {
			return err
		}
	}

	for i, e := range entries {
		r := i + 2
		row := []any{e.ID, e.Name.En, e.Name.Fr, e.Type, e.WeightG, e.Cost}
		cell, _ := excelize.CoordinatesToCellName(1, r)
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return err
		}
	}

	if err := f.SetPanes(sheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	return f.SaveAs(outputPath)
}
