package fixture

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/marshallshelly/toolshop-fixtures/pkg/reference"
)

// DefaultTransactionCount is the number of transactions generated when none is requested.
const DefaultTransactionCount = 1000

const (
	minItems          = 1
	maxItems          = 5
	invoiceWindowYrs  = 2
	accountNumberMask = "#########???"
)

// InvoiceNumber derives the invoice number from the invoice year and transaction id.
func InvoiceNumber(year, id int) string {
	return fmt.Sprintf("INV-%d%08d", year, id)
}

// GenerateTransactions creates count invoices. Each picks a user, 1..5 distinct products
// and totals their prices. Both caches must be populated.
func (g *Generator) GenerateTransactions(users UserCache, products ProductCache, count int) ([]Transaction, error) {
	var missing []string
	if len(users) == 0 {
		missing = append(missing, StageUsers)
	}
	if len(products) == 0 {
		missing = append(missing, StageProducts)
	}
	if len(missing) > 0 {
		return nil, &MissingPrerequisiteError{Stage: StageTransactions, Requires: missing}
	}

	windowStart := g.anchor.AddDate(-invoiceWindowYrs, 0, 0)
	rows := make([]Transaction, 0, max(count, 0))

	for id := 1; id <= count; id++ {
		user := users[g.pick(len(users))]

		n := g.faker.Number(minItems, maxItems)
		items := make([]ProductRef, 0, n)
		prices := make([]decimal.Decimal, 0, n)
		for _, i := range g.sampleDistinct(len(products), n) {
			items = append(items, products[i])
			prices = append(prices, products[i].Price)
		}

		payload, err := json.Marshal(items)
		if err != nil {
			return nil, fmt.Errorf("transaction %d: encoding purchased items: %w", id, err)
		}

		invoiced := g.faker.DateRange(windowStart, g.anchor).UTC().Truncate(time.Second)

		rows = append(rows, Transaction{
			ID:                   id,
			UserID:               user.ID,
			InvoiceDate:          invoiced,
			InvoiceNumber:        InvoiceNumber(invoiced.Year(), id),
			BillingAddress:       user.Address,
			BillingCity:          user.City,
			BillingState:         user.State,
			BillingCountry:       user.Country,
			BillingPostcode:      user.Postcode,
			Total:                SumMoney(prices...),
			PaymentMethod:        g.faker.RandomString(reference.PaymentMethods),
			PaymentAccountName:   user.Name,
			PaymentAccountNumber: g.token(accountNumberMask),
			CreatedAt:            invoiced,
			Status:               g.faker.RandomString(reference.TransactionStatuses),
			Items:                items,
			ItemsJSON:            string(payload),
		})
	}

	return rows, nil
}
