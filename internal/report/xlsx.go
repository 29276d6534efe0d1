package report

import (
	"fmt"
	"math"

	"github.com/xuri/excelize/v2"

	"github.com/takeline-labs/takeline/internal/takeoff"
)

const (
	sheetMaterials  = "Materials"
	sheetCounts     = "Device Counts"
	sheetLengths    = "Conduit"
	sheetValidation = "Validation"
)

// WriteXLSX writes the result as a workbook at path. Material rows are
// grouped by category when categoryFn is given.
func WriteXLSX(path string, result Result, categoryFn CategoryFn) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := writeMaterialsSheet(f, result.Materials, categoryFn); err != nil {
		return err
	}
	if err := writeCountsSheet(f, result.Counts); err != nil {
		return err
	}
	if !result.Lengths.Empty() {
		if err := writeLengthsSheet(f, result.Lengths); err != nil {
			return err
		}
	}
	if len(result.Records) > 0 {
		if err := writeValidationSheet(f, result); err != nil {
			return err
		}
	}

	// The workbook opens on the material list; drop the default sheet.
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("exporting workbook: %w", err)
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("saving workbook %s: %w", path, err)
	}
	return nil
}

func writeMaterialsSheet(f *excelize.File, materials takeoff.MaterialList, categoryFn CategoryFn) error {
	if _, err := f.NewSheet(sheetMaterials); err != nil {
		return err
	}
	if err := setRow(f, sheetMaterials, 1, "Category", "Material", "Qty"); err != nil {
		return err
	}

	row := 2
	for _, name := range materials.Names() {
		cat := ""
		if categoryFn != nil {
			cat = categoryFn(name)
		}
		if err := setRow(f, sheetMaterials, row, cat, name, materials[name]); err != nil {
			return err
		}
		row++
	}
	return nil
}

func writeCountsSheet(f *excelize.File, counts takeoff.CountSnapshot) error {
	if _, err := f.NewSheet(sheetCounts); err != nil {
		return err
	}
	if err := setRow(f, sheetCounts, 1, "Category", "Item", "Count"); err != nil {
		return err
	}

	row := 2
	for _, cat := range takeoff.Categories() {
		for _, item := range counts.Items(cat) {
			if err := setRow(f, sheetCounts, row, string(cat), item, counts.Get(cat, item)); err != nil {
				return err
			}
			row++
		}
	}
	return nil
}

func writeLengthsSheet(f *excelize.File, lengths takeoff.LengthSnapshot) error {
	if _, err := f.NewSheet(sheetLengths); err != nil {
		return err
	}
	if err := setRow(f, sheetLengths, 1, "Size", "Feet"); err != nil {
		return err
	}

	// Lengths stay fractional internally; reported feet are whole.
	row := 2
	for _, size := range lengths.Sizes() {
		if err := setRow(f, sheetLengths, row, size, int(math.Round(lengths[size]))); err != nil {
			return err
		}
		row++
	}
	return setRow(f, sheetLengths, row, "Total", int(math.Round(lengths.TotalFeet())))
}

func writeValidationSheet(f *excelize.File, result Result) error {
	if _, err := f.NewSheet(sheetValidation); err != nil {
		return err
	}
	if err := setRow(f, sheetValidation, 1, "Item", "Expected", "Actual", "Diff", "Accuracy %", "Status"); err != nil {
		return err
	}

	row := 2
	for _, r := range result.Records {
		if err := setRow(f, sheetValidation, row, r.Item, r.Expected, r.Actual, r.Difference, r.AccuracyPct, string(r.Status)); err != nil {
			return err
		}
		row++
	}
	if result.Summary != nil {
		row++
		if err := setRow(f, sheetValidation, row, "Overall", "", "", "", result.Summary.OverallPct, ""); err != nil {
			return err
		}
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values ...any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("writing %s row %d: %w", sheet, row, err)
	}
	return nil
}
