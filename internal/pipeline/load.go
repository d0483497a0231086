package pipeline

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/xuri/excelize/v2"

	"travelclean/internal"
	"travelclean/internal/util"
)

var (
	ErrMissingFile       = errors.New("input file not found")
	ErrUnsupportedFormat = errors.New("unsupported input format")
	ErrNoHeader          = errors.New("no header row found")
)

// LoadTable reads the first sheet or table of an export. The first non-empty row is the header.
func LoadTable(path, name string) (*internal.Table, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrMissingFile, path)
		}
		return nil, err
	}

	var rows [][]string
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".xlsx", ".xlsm":
		rows, err = readXLSX(content)
	case ".csv":
		rows, err = readCSV(content)
	case ".html", ".htm", ".xls":
		rows, err = readHTMLTable(content)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return nil, err
	}
	return tableFromRows(name, rows)
}

func readXLSX(content []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content), excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, err
	}
	defer f.Close()

	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
		if err != nil {
			continue
		}
		if hasContent(rows) {
			return rows, nil
		}
	}
	return nil, ErrNoHeader
}

func readCSV(content []byte) ([][]string, error) {
	content = bytes.TrimPrefix(content, []byte("\xef\xbb\xbf"))
	r := csv.NewReader(bytes.NewReader(content))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	var rows [][]string
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		rows = append(rows, record)
	}
	return rows, nil
}

// readHTMLTable handles the "xls" exports some booking sites serve, which are HTML tables.
func readHTMLTable(content []byte) ([][]string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(content))
	if err != nil {
		return nil, err
	}

	var rows [][]string
	doc.Find("table").EachWithBreak(func(_ int, table *goquery.Selection) bool {
		trs := table.Find("tr")
		if trs.Length() < 2 {
			return true
		}
		trs.Each(func(_ int, tr *goquery.Selection) {
			cells := []string{}
			tr.Find("th,td").Each(func(_ int, cell *goquery.Selection) {
				cells = append(cells, cell.Text())
			})
			rows = append(rows, cells)
		})
		return false
	})
	if len(rows) == 0 {
		return nil, ErrNoHeader
	}
	return rows, nil
}

func tableFromRows(name string, rows [][]string) (*internal.Table, error) {
	start := -1
	for i, row := range rows {
		if !isBlankRow(row) {
			start = i
			break
		}
	}
	if start < 0 {
		return nil, ErrNoHeader
	}

	header := headerNames(normalizeCells(rows[start]))
	t := internal.NewTable(name, header)
	for _, row := range rows[start+1:] {
		if isBlankRow(row) {
			continue
		}
		values := make([]any, len(header))
		for i := range header {
			if i >= len(row) {
				break
			}
			if cell := util.CleanText(row[i]); cell != "" {
				values[i] = cell
			}
		}
		t.AppendRow(values...)
	}
	return t, nil
}

// headerNames fills blank headers and suffixes duplicates with ".1", ".2" so every column
// has a unique name.
func headerNames(cells []string) []string {
	out := make([]string, len(cells))
	seen := map[string]int{}
	for i, c := range cells {
		if c == "" {
			c = fmt.Sprintf("Unnamed: %d", i)
		}
		if n, ok := seen[c]; ok {
			seen[c] = n + 1
			c = fmt.Sprintf("%s.%d", c, n+1)
		} else {
			seen[c] = 0
		}
		out[i] = c
	}
	return out
}

func normalizeCells(row []string) []string {
	out := make([]string, 0, len(row))
	for _, c := range row {
		out = append(out, util.CleanText(c))
	}
	return out
}

func isBlankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func hasContent(rows [][]string) bool {
	for _, row := range rows {
		if !isBlankRow(row) {
			return true
		}
	}
	return false
}
