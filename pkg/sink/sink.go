// Package sink serializes generated tables to their destination: delimited text,
// spreadsheets or a Postgres database. Sinks never validate or reorder what they are given.
package sink

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/marshallshelly/toolshop-fixtures/pkg/fixture"
)

// Table is one generated entity set in column order.
// Cells are nil, int, string, bool, decimal.Decimal, Date, Timestamp or JSON.
type Table struct {
	Name    string
	Columns []string
	Rows    [][]any
}

// Written describes where a table ended up.
type Written struct {
	Table       string
	Destination string
	Rows        int
}

// Sink writes a table to its destination.
type Sink interface {
	Write(ctx context.Context, table Table) (Written, error)
}

// Format names a file sink.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

type factory func(dir string) Sink

var fileSinks = map[Format]factory{
	FormatCSV:  func(dir string) Sink { return NewCSV(dir) },
	FormatXLSX: func(dir string) Sink { return NewXLSX(dir) },
}

// Formats returns the registered file formats, sorted.
func Formats() []string {
	out := make([]string, 0, len(fileSinks))
	for f := range fileSinks {
		out = append(out, string(f))
	}
	sort.Strings(out)
	return out
}

// NewFileSink returns the file sink registered for format, writing into dir.
// An unknown format is an unavailable capability.
func NewFileSink(format, dir string) (Sink, error) {
	f, ok := fileSinks[Format(strings.ToLower(format))]
	if !ok {
		return nil, &fixture.CapabilityError{
			Capability: "sink",
			Err:        fmt.Errorf("no writer for format %q (have %s)", format, strings.Join(Formats(), ", ")),
		}
	}
	return f(dir), nil
}
