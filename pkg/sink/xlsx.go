package sink

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// moneyNumFmt is the built-in "0.00" number format.
const moneyNumFmt = 2

// XLSX writes each table to {dir}/{table}.xlsx: one sheet, bold header row and every
// column widened to its longest rendered value plus two, capped at the spreadsheet maximum.
type XLSX struct {
	dir string
}

// NewXLSX creates a spreadsheet sink rooted at dir.
func NewXLSX(dir string) *XLSX {
	return &XLSX{dir: dir}
}

// Path returns the file a table is written to.
func (s *XLSX) Path(table string) string {
	return filepath.Join(s.dir, table+".xlsx")
}

// Write writes the table. Nothing is saved if any cell fails.
func (s *XLSX) Write(ctx context.Context, table Table) (Written, error) {
	if err := ctx.Err(); err != nil {
		return Written{}, err
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return Written{}, fmt.Errorf("failed to create output directory: %w", err)
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := table.Name
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return Written{}, fmt.Errorf("failed to name sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return Written{}, fmt.Errorf("failed to create header style: %w", err)
	}
	money, err := f.NewStyle(&excelize.Style{NumFmt: moneyNumFmt})
	if err != nil {
		return Written{}, fmt.Errorf("failed to create money style: %w", err)
	}

	widths := make([]int, len(table.Columns))
	for col, name := range table.Columns {
		if err := setCell(f, sheet, col+1, 1, name); err != nil {
			return Written{}, err
		}
		widths[col] = utf8.RuneCountInString(name)
	}

	for r, row := range table.Rows {
		for col := 0; col < len(table.Columns) && col < len(row); col++ {
			v := row[col]
			if v == nil {
				continue
			}
			if err := setCell(f, sheet, col+1, r+2, v); err != nil {
				return Written{}, err
			}
			if _, ok := v.(decimal.Decimal); ok {
				cell, _ := excelize.CoordinatesToCellName(col+1, r+2)
				if err := f.SetCellStyle(sheet, cell, cell, money); err != nil {
					return Written{}, fmt.Errorf("failed to style %s: %w", cell, err)
				}
			}
			if n := utf8.RuneCountInString(Render(v)); n > widths[col] {
				widths[col] = n
			}
		}
	}

	if len(table.Columns) > 0 {
		last, _ := excelize.CoordinatesToCellName(len(table.Columns), 1)
		if err := f.SetCellStyle(sheet, "A1", last, bold); err != nil {
			return Written{}, fmt.Errorf("failed to style header: %w", err)
		}
	}
	for col, w := range widths {
		name, err := excelize.ColumnNumberToName(col + 1)
		if err != nil {
			return Written{}, err
		}
		if err := f.SetColWidth(sheet, name, name, min(float64(w+2), excelize.MaxColumnWidth)); err != nil {
			return Written{}, fmt.Errorf("failed to size column %s: %w", name, err)
		}
	}

	path := s.Path(table.Name)
	if err := f.SaveAs(path); err != nil {
		_ = os.Remove(path)
		return Written{}, fmt.Errorf("failed to save %s: %w", path, err)
	}

	return Written{Table: table.Name, Destination: path, Rows: len(table.Rows)}, nil
}

// setCell writes v with a spreadsheet-native type where one exists.
func setCell(f *excelize.File, sheet string, col, row int, v any) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}

	var value any
	switch c := v.(type) {
	case bool:
		value = 0
		if c {
			value = 1
		}
	case decimal.Decimal:
		value = c.InexactFloat64()
	case Date, Timestamp, JSON:
		value = Render(c)
	case time.Time:
		value = Render(Timestamp(c))
	default:
		value = c
	}

	if err := f.SetCellValue(sheet, cell, value); err != nil {
		return fmt.Errorf("failed to set %s: %w", cell, err)
	}
	return nil
}
