// Package verify reads a generated CSV catalog back and checks its cross-file invariants.
package verify

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/marshallshelly/toolshop-fixtures/pkg/fixture"
	"github.com/marshallshelly/toolshop-fixtures/pkg/reference"
)

// Violation is a single broken invariant.
type Violation struct {
	File    string `json:"file"`
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// String formats the violation as file:row: message.
func (v Violation) String() string {
	if v.Row == 0 {
		return fmt.Sprintf("%s: %s", v.File, v.Message)
	}
	return fmt.Sprintf("%s:%d: %s", v.File, v.Row, v.Message)
}

// Result summarizes a verification pass.
type Result struct {
	Rows       map[string]int `json:"rows"`
	Violations []Violation    `json:"violations"`
}

// OK reports whether no invariant was broken.
func (r *Result) OK() bool { return len(r.Violations) == 0 }

var moneyPattern = regexp.MustCompile(`^\d+\.\d{2}$`)

const (
	minPrice = "5.00"
	maxPrice = "200.00"
	maxItems = 5
)

type checker struct {
	dir    string
	result *Result

	categoryIDs map[string]bool
	userIDs     map[string]bool
	productIDs  map[int]decimal.Decimal
}

// Dir verifies categories.csv, users.csv, products.csv and transactions.csv in dir.
// Missing files are reported as violations; read errors are returned.
func Dir(dir string) (*Result, error) {
	c := &checker{
		dir:         dir,
		result:      &Result{Rows: map[string]int{}},
		categoryIDs: map[string]bool{},
		userIDs:     map[string]bool{},
		productIDs:  map[int]decimal.Decimal{},
	}

	steps := []struct {
		stage   string
		columns []string
		check   func(file string, row int, rec map[string]string)
	}{
		{fixture.StageCategories, fixture.CategoryColumns, c.category},
		{fixture.StageUsers, fixture.UserColumns, c.user},
		{fixture.StageProducts, fixture.ProductColumns, c.product},
		{fixture.StageTransactions, fixture.TransactionColumns, c.transaction},
	}

	for _, s := range steps {
		if err := c.file(s.stage, s.columns, s.check); err != nil {
			return nil, err
		}
	}
	return c.result, nil
}

func (c *checker) fail(file string, row int, format string, args ...any) {
	c.result.Violations = append(c.result.Violations, Violation{
		File:    file,
		Row:     row,
		Message: fmt.Sprintf(format, args...),
	})
}

func (c *checker) file(stage string, columns []string, check func(string, int, map[string]string)) error {
	name := stage + ".csv"
	f, err := os.Open(filepath.Join(c.dir, name))
	if errors.Is(err, fs.ErrNotExist) {
		c.fail(name, 0, "file missing")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", name, err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", name, err)
	}
	if len(records) == 0 || !slices.Equal(records[0], columns) {
		c.fail(name, 1, "header does not match %v", columns)
		return nil
	}

	c.result.Rows[stage] = len(records) - 1
	for i, rec := range records[1:] {
		row := i + 1
		values := make(map[string]string, len(columns))
		for j, col := range columns {
			values[col] = rec[j]
		}
		if id := values["id"]; id != strconv.Itoa(row) {
			c.fail(name, row, "id %q breaks the contiguous sequence (want %d)", id, row)
		}
		check(name, row, values)
	}
	return nil
}

func (c *checker) category(file string, row int, rec map[string]string) {
	parent := rec["parent_id"]
	if parent != "" && !c.categoryIDs[parent] {
		c.fail(file, row, "parent_id %s is not an earlier top-level category", parent)
	}
	// value records whether the category is top-level
	c.categoryIDs[rec["id"]] = parent == ""

	if want := fixture.Slugify(rec["name"]); rec["slug"] != want {
		c.fail(file, row, "slug %q, want %q", rec["slug"], want)
	}
}

func (c *checker) user(_ string, _ int, rec map[string]string) {
	c.userIDs[rec["id"]] = true
}

func (c *checker) oneOf(file string, row int, column, value string, allowed []string) {
	if !reference.Contains(allowed, value) {
		c.fail(file, row, "%s %q is not one of %v", column, value, allowed)
	}
}

func (c *checker) product(file string, row int, rec map[string]string) {
	if _, ok := c.categoryIDs[rec["category_id"]]; !ok {
		c.fail(file, row, "category_id %s does not exist", rec["category_id"])
	}
	c.oneOf(file, row, "co2_rating", rec["co2_rating"], reference.CO2Ratings)

	price, ok := c.money(file, row, "price", rec["price"])
	if !ok {
		return
	}
	if price.LessThan(decimal.RequireFromString(minPrice)) || price.GreaterThan(decimal.RequireFromString(maxPrice)) {
		c.fail(file, row, "price %s outside [%s, %s]", rec["price"], minPrice, maxPrice)
	}
	if id, err := strconv.Atoi(rec["id"]); err == nil {
		c.productIDs[id] = price
	}
}

func (c *checker) transaction(file string, row int, rec map[string]string) {
	if !c.userIDs[rec["user_id"]] {
		c.fail(file, row, "user_id %s does not exist", rec["user_id"])
	}
	if rec["created_at"] != rec["invoice_date"] {
		c.fail(file, row, "created_at %q differs from invoice_date %q", rec["created_at"], rec["invoice_date"])
	}
	c.oneOf(file, row, "status", rec["status"], reference.TransactionStatuses)
	c.oneOf(file, row, "payment_method", rec["payment_method"], reference.PaymentMethods)

	if invoiced, err := time.Parse("2006-01-02 15:04:05", rec["invoice_date"]); err != nil {
		c.fail(file, row, "invoice_date %q: %v", rec["invoice_date"], err)
	} else if want := fixture.InvoiceNumber(invoiced.Year(), row); rec["invoice_number"] != want {
		c.fail(file, row, "invoice_number %q, want %q", rec["invoice_number"], want)
	}

	total, ok := c.money(file, row, "total", rec["total"])
	if !ok {
		return
	}

	var items []fixture.ProductRef
	if err := json.Unmarshal([]byte(rec["purchased_items"]), &items); err != nil {
		c.fail(file, row, "purchased_items is not valid JSON: %v", err)
		return
	}
	if len(items) < 1 || len(items) > maxItems {
		c.fail(file, row, "%d purchased items, want 1..%d", len(items), maxItems)
	}

	seen := make(map[int]bool, len(items))
	prices := make([]decimal.Decimal, 0, len(items))
	for _, item := range items {
		if seen[item.ID] {
			c.fail(file, row, "product %d purchased twice", item.ID)
		}
		seen[item.ID] = true
		if price, ok := c.productIDs[item.ID]; !ok {
			c.fail(file, row, "purchased product %d does not exist", item.ID)
		} else if !price.Equal(item.Price) {
			c.fail(file, row, "purchased product %d price %s, catalog says %s", item.ID, item.Price, price)
		}
		prices = append(prices, item.Price)
	}

	if want := fixture.SumMoney(prices...); !want.Equal(total) {
		c.fail(file, row, "total %s, items sum to %s", rec["total"], want.StringFixed(fixture.MoneyPlaces))
	}
}

func (c *checker) money(file string, row int, column, value string) (decimal.Decimal, bool) {
	if !moneyPattern.MatchString(value) {
		c.fail(file, row, "%s %q is not a two-decimal amount", column, value)
		return decimal.Decimal{}, false
	}
	return decimal.RequireFromString(value), true
}
