package sink

import (
	"context"
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/marshallshelly/toolshop-fixtures/pkg/fixture"
)

func sampleTable() Table {
	when := time.Date(2024, 3, 9, 14, 5, 7, 0, time.UTC)
	return Table{
		Name:    "products",
		Columns: []string{"id", "parent_id", "name", "price", "is_rental", "dob", "invoice_date", "purchased_items"},
		Rows: [][]any{
			{1, Nullable(0), "Red Hammer, Large", decimal.RequireFromString("20"), true, Date(when), Timestamp(when), JSON(`[{"id":1,"name":"Red Hammer","price":20.00}]`)},
			{2, Nullable(1), "Blue \"Saw\"", decimal.RequireFromString("5.5"), false, Date(when), Timestamp(when), JSON(`[]`)},
		},
	}
}

func TestRender(t *testing.T) {
	when := time.Date(2024, 3, 9, 14, 5, 7, 0, time.UTC)
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"nil", nil, ""},
		{"string", "x", "x"},
		{"int", 42, "42"},
		{"true", true, "1"},
		{"false", false, "0"},
		{"decimal pads", decimal.RequireFromString("20"), "20.00"},
		{"decimal keeps cents", fixture.RoundMoney(19.995), "20.00"},
		{"date", Date(when), "2024-03-09"},
		{"timestamp", Timestamp(when), "2024-03-09 14:05:07"},
		{"json", JSON(`{"a":1}`), `{"a":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Render(tt.in))
		})
	}
}

func TestCSV_Write(t *testing.T) {
	dir := t.TempDir()
	s := NewCSV(dir)

	w, err := s.Write(context.Background(), sampleTable())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "products.csv"), w.Destination)
	assert.Equal(t, 2, w.Rows)

	f, err := os.Open(w.Destination)
	require.NoError(t, err)
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, sampleTable().Columns, records[0])
	assert.Equal(t, []string{
		"1", "", "Red Hammer, Large", "20.00", "1", "2024-03-09", "2024-03-09 14:05:07",
		`[{"id":1,"name":"Red Hammer","price":20.00}]`,
	}, records[1])
	assert.Equal(t, "1", records[2][1])
	assert.Equal(t, `Blue "Saw"`, records[2][2])
	assert.Equal(t, "5.50", records[2][3])
}

func TestCSV_CancelledContextWritesNothing(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewCSV(dir).Write(ctx, sampleTable())
	require.ErrorIs(t, err, context.Canceled)

	_, statErr := os.Stat(filepath.Join(dir, "products.csv"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestXLSX_Write(t *testing.T) {
	dir := t.TempDir()
	table := sampleTable()

	w, err := NewXLSX(dir).Write(context.Background(), table)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "products.xlsx"), w.Destination)

	f, err := excelize.OpenFile(w.Destination)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("products")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, table.Columns, rows[0])
	assert.Equal(t, "Red Hammer, Large", rows[1][2])
	assert.Equal(t, "20.00", rows[1][3])
	assert.Equal(t, "1", rows[1][4])
	assert.Equal(t, "", rows[1][1])
	assert.Equal(t, "2024-03-09 14:05:07", rows[1][6])

	t.Run("header is bold", func(t *testing.T) {
		styleID, err := f.GetCellStyle("products", "A1")
		require.NoError(t, err)
		style, err := f.GetStyle(styleID)
		require.NoError(t, err)
		require.NotNil(t, style.Font)
		assert.True(t, style.Font.Bold)
	})

	t.Run("columns fit the longest value", func(t *testing.T) {
		width, err := f.GetColWidth("products", "C")
		require.NoError(t, err)
		assert.Equal(t, float64(len("Red Hammer, Large")+2), width)

		width, err = f.GetColWidth("products", "A")
		require.NoError(t, err)
		assert.Equal(t, float64(len("id")+2), width)

		width, err = f.GetColWidth("products", "H")
		require.NoError(t, err)
		assert.Equal(t, float64(len(`[{"id":1,"name":"Red Hammer","price":20.00}]`)+2), width)
	})
}

func TestXLSX_WriteLongCell(t *testing.T) {
	dir := t.TempDir()
	long := JSON("[" + strings.Repeat(`{"id":1,"name":"Red Hammer","price":20.00},`, 10) + "]")
	table := Table{
		Name:    "transactions",
		Columns: []string{"id", "purchased_items"},
		Rows:    [][]any{{1, long}},
	}

	w, err := NewXLSX(dir).Write(context.Background(), table)
	require.NoError(t, err)
	assert.Equal(t, 1, w.Rows)

	f, err := excelize.OpenFile(w.Destination)
	require.NoError(t, err)
	defer f.Close()

	width, err := f.GetColWidth("transactions", "B")
	require.NoError(t, err)
	assert.Equal(t, float64(excelize.MaxColumnWidth), width)

	value, err := f.GetCellValue("transactions", "B2")
	require.NoError(t, err)
	assert.Equal(t, string(long), value)
}

func TestNewFileSink(t *testing.T) {
	t.Run("known formats", func(t *testing.T) {
		s, err := NewFileSink("csv", t.TempDir())
		require.NoError(t, err)
		assert.IsType(t, &CSV{}, s)

		s, err = NewFileSink("XLSX", t.TempDir())
		require.NoError(t, err)
		assert.IsType(t, &XLSX{}, s)
	})

	t.Run("unknown format is an unavailable capability", func(t *testing.T) {
		_, err := NewFileSink("ods", t.TempDir())
		require.Error(t, err)
		assert.True(t, errors.Is(err, fixture.ErrUnavailableCapability))
		assert.Contains(t, err.Error(), "ods")
	})

	assert.Equal(t, []string{"csv", "xlsx"}, Formats())
}

func TestPgValue(t *testing.T) {
	when := time.Date(2024, 3, 9, 14, 5, 7, 0, time.UTC)

	num, ok := pgValue(decimal.RequireFromString("19.99")).(pgtype.Numeric)
	require.True(t, ok)
	assert.True(t, num.Valid)
	assert.Equal(t, int64(1999), num.Int.Int64())
	assert.Equal(t, int32(-2), num.Exp)

	assert.Equal(t, pgtype.Date{Time: when, Valid: true}, pgValue(Date(when)))
	assert.Equal(t, pgtype.Timestamp{Time: when, Valid: true}, pgValue(Timestamp(when)))
	assert.Equal(t, "[]", pgValue(JSON("[]")))
	assert.Nil(t, pgValue(nil))
	assert.Equal(t, 7, pgValue(7))
}
