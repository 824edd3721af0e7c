package pipeline

import (
	"github.com/marshallshelly/toolshop-fixtures/pkg/fixture"
	"github.com/marshallshelly/toolshop-fixtures/pkg/sink"
)

// CategoryTable lays out categories in file column order.
func CategoryTable(rows []fixture.Category) sink.Table {
	t := sink.Table{Name: fixture.StageCategories, Columns: fixture.CategoryColumns}
	for _, c := range rows {
		t.Rows = append(t.Rows, []any{c.ID, sink.Nullable(c.ParentID), c.Name, c.Slug})
	}
	return t
}

// UserTable lays out users in file column order.
func UserTable(rows []fixture.User) sink.Table {
	t := sink.Table{Name: fixture.StageUsers, Columns: fixture.UserColumns}
	for _, u := range rows {
		t.Rows = append(t.Rows, []any{
			u.ID, u.FirstName, u.LastName, u.Address, u.City, u.State,
			u.Country, u.Postcode, u.Phone, sink.Date(u.DateOfBirth), u.Email, u.Password, u.Role,
		})
	}
	return t
}

// ProductTable lays out products in file column order.
func ProductTable(rows []fixture.Product) sink.Table {
	t := sink.Table{Name: fixture.StageProducts, Columns: fixture.ProductColumns}
	for _, p := range rows {
		t.Rows = append(t.Rows, []any{
			p.ID, p.Name, p.Description, p.Stock, p.Price, p.BrandID,
			p.CategoryID, p.ProductImageID, p.IsLocationOffer, p.IsRental, p.CO2Rating,
		})
	}
	return t
}

// TransactionTable lays out transactions in file column order.
func TransactionTable(rows []fixture.Transaction) sink.Table {
	t := sink.Table{Name: fixture.StageTransactions, Columns: fixture.TransactionColumns}
	for _, tx := range rows {
		t.Rows = append(t.Rows, []any{
			tx.ID, tx.UserID, sink.Timestamp(tx.InvoiceDate), tx.InvoiceNumber,
			tx.BillingAddress, tx.BillingCity, tx.BillingState, tx.BillingCountry, tx.BillingPostcode,
			tx.Total, tx.PaymentMethod, tx.PaymentAccountName, tx.PaymentAccountNumber,
			sink.Timestamp(tx.CreatedAt), tx.Status, sink.JSON(tx.ItemsJSON),
		})
	}
	return t
}
