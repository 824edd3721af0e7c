package sink

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
)

// CSV writes each table to {dir}/{table}.csv with a header row.
type CSV struct {
	dir string
}

// NewCSV creates a CSV sink rooted at dir.
func NewCSV(dir string) *CSV {
	return &CSV{dir: dir}
}

// Path returns the file a table is written to.
func (s *CSV) Path(table string) string {
	return filepath.Join(s.dir, table+".csv")
}

// Write writes the table. A failed write leaves no file behind.
func (s *CSV) Write(ctx context.Context, table Table) (w Written, err error) {
	if err := ctx.Err(); err != nil {
		return Written{}, err
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return Written{}, fmt.Errorf("failed to create output directory: %w", err)
	}

	path := s.Path(table.Name)
	file, err := os.Create(path)
	if err != nil {
		return Written{}, fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close %s: %w", path, cerr)
		}
		if err != nil {
			_ = os.Remove(path)
		}
	}()

	cw := csv.NewWriter(file)
	if err := cw.Write(table.Columns); err != nil {
		return Written{}, fmt.Errorf("failed to write header: %w", err)
	}

	record := make([]string, len(table.Columns))
	for i, row := range table.Rows {
		for j := range record {
			record[j] = ""
			if j < len(row) {
				record[j] = Render(row[j])
			}
		}
		if err := cw.Write(record); err != nil {
			return Written{}, fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return Written{}, fmt.Errorf("failed to flush %s: %w", path, err)
	}

	return Written{Table: table.Name, Destination: path, Rows: len(table.Rows)}, nil
}
