package pipeline

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"travelclean/internal"
)

// ExportTableToXLSX writes the header row followed by every row of t. Nulls stay empty cells.
func ExportTableToXLSX(t *internal.Table, outputPath string) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	if name := sheetName(t.Name); name != "" && name != sheet {
		if err := f.SetSheetName(sheet, name); err != nil {
			return err
		}
		sheet = name
	}

	for i, h := range t.Columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	for i, row := range t.Rows {
		r := i + 2
		for j, col := range t.Columns {
			v := row[col]
			if internal.IsNull(v) {
				continue
			}
			cell, _ := excelize.CoordinatesToCellName(j+1, r)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
		}
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	return f.SaveAs(outputPath)
}

type XLSXSink struct {
	Dir string
}

func (s XLSXSink) Path(source string) string {
	return filepath.Join(s.Dir, "cleaned_"+source+".xlsx")
}

func (s XLSXSink) SaveTable(source string, t *internal.Table) error {
	return ExportTableToXLSX(t, s.Path(source))
}

// sheetName trims a table name to the 31 characters excel allows and strips forbidden runes.
func sheetName(name string) string {
	name = strings.Map(func(r rune) rune {
		if strings.ContainsRune(`:\/?*[]`, r) {
			return '_'
		}
		return r
	}, strings.TrimSpace(name))
	runes := []rune(name)
	if len(runes) > 31 {
		runes = runes[:31]
	}
	return string(runes)
}
