// Package fixture synthesizes the Toolshop demo catalog: categories, users, products and
// transactions. Each stage returns its rows together with a read-only cache that later
// stages take as an explicit argument.
package fixture

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// Stage names, in pipeline order.
const (
	StageCategories   = "categories"
	StageUsers        = "users"
	StageProducts     = "products"
	StageTransactions = "transactions"
)

// Column order for each generated table. The order is part of the file contract.
var (
	CategoryColumns = []string{"id", "parent_id", "name", "slug"}

	UserColumns = []string{
		"id", "first_name", "last_name", "address", "city", "state",
		"country", "postcode", "phone", "dob", "email", "password", "role",
	}

	ProductColumns = []string{
		"id", "name", "description", "stock", "price", "brand_id",
		"category_id", "product_image_id", "is_location_offer", "is_rental", "co2_rating",
	}

	TransactionColumns = []string{
		"id", "user_id", "invoice_date", "invoice_number",
		"billing_address", "billing_city", "billing_state", "billing_country", "billing_postcode",
		"total", "payment_method", "payment_account_name", "payment_account_number",
		"created_at", "status", "purchased_items",
	}
)

// Category is a node of the two-level category tree. ParentID is zero for groups.
type Category struct {
	ID       int
	ParentID int
	Name     string
	Slug     string
}

// IsGroup reports whether the category is top-level.
func (c Category) IsGroup() bool { return c.ParentID == 0 }

// CategoryRef is the cached view of a category.
type CategoryRef struct {
	ID   int
	Name string
}

// CategoryCache is the category stage output consumed by the product stage.
type CategoryCache []CategoryRef

// User is a synthetic customer account.
type User struct {
	ID          int
	FirstName   string
	LastName    string
	Address     string
	City        string
	State       string
	Country     string
	Postcode    string
	Phone       string
	DateOfBirth time.Time
	Email       string
	Password    string
	Role        string
}

// FullName joins first and last name.
func (u User) FullName() string { return u.FirstName + " " + u.LastName }

// UserRef is the cached view of a user, kept for billing details.
type UserRef struct {
	ID       int
	Name     string
	Address  string
	City     string
	State    string
	Country  string
	Postcode string
}

// UserCache is the user stage output consumed by the transaction stage.
type UserCache []UserRef

// Product is a catalog item.
type Product struct {
	ID              int
	Name            string
	Description     string
	Stock           int
	Price           decimal.Decimal
	BrandID         int
	CategoryID      int
	ProductImageID  string
	IsLocationOffer bool
	IsRental        bool
	CO2Rating       string
}

// ProductRef is the cached view of a product. It doubles as the purchased item snapshot
// embedded in transactions.
type ProductRef struct {
	ID    int             `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

// MarshalJSON writes the price as a bare number with two decimals.
func (p ProductRef) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID    int         `json:"id"`
		Name  string      `json:"name"`
		Price json.Number `json:"price"`
	}{p.ID, p.Name, json.Number(p.Price.StringFixed(MoneyPlaces))})
}

// ProductCache is the product stage output consumed by the transaction stage.
type ProductCache []ProductRef

// Transaction is an invoice with an embedded snapshot of the purchased products.
type Transaction struct {
	ID                   int
	UserID               int
	InvoiceDate          time.Time
	InvoiceNumber        string
	BillingAddress       string
	BillingCity          string
	BillingState         string
	BillingCountry       string
	BillingPostcode      string
	Total                decimal.Decimal
	PaymentMethod        string
	PaymentAccountName   string
	PaymentAccountNumber string
	CreatedAt            time.Time
	Status               string
	Items                []ProductRef
	ItemsJSON            string
}
