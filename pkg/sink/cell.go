package sink

import (
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/marshallshelly/toolshop-fixtures/pkg/fixture"
)

const (
	dateLayout      = "2006-01-02"
	timestampLayout = "2006-01-02 15:04:05"
)

// Date is a calendar date cell.
type Date time.Time

// Timestamp is a second-precision date-time cell.
type Timestamp time.Time

// JSON is a cell holding an already encoded JSON document.
type JSON string

// Render returns the textual form of a cell as written to delimited files.
func Render(v any) string {
	switch c := v.(type) {
	case nil:
		return ""
	case string:
		return c
	case int:
		return strconv.Itoa(c)
	case bool:
		if c {
			return "1"
		}
		return "0"
	case decimal.Decimal:
		return c.StringFixed(fixture.MoneyPlaces)
	case Date:
		return time.Time(c).Format(dateLayout)
	case Timestamp:
		return time.Time(c).Format(timestampLayout)
	case JSON:
		return string(c)
	default:
		return fmt.Sprint(c)
	}
}

// Nullable returns nil for a zero id so optional references render as empty cells.
func Nullable(id int) any {
	if id == 0 {
		return nil
	}
	return id
}
