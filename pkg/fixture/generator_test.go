package fixture

import (
	"encoding/json"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marshallshelly/toolshop-fixtures/pkg/reference"
)

var testAnchor = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestGenerator(t *testing.T) *Generator {
	t.Helper()
	gen, err := NewSeededGenerator(12345, testAnchor)
	require.NoError(t, err)
	return gen
}

func TestNewGenerator(t *testing.T) {
	t.Run("nil faker is an unavailable capability", func(t *testing.T) {
		gen, err := NewGenerator(nil, testAnchor)
		assert.Nil(t, gen)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrUnavailableCapability))

		var capErr *CapabilityError
		require.True(t, errors.As(err, &capErr))
		assert.Equal(t, "faker", capErr.Capability)
	})

	t.Run("zero anchor defaults to now", func(t *testing.T) {
		gen, err := NewGenerator(NewFaker(1), time.Time{})
		require.NoError(t, err)
		assert.WithinDuration(t, time.Now(), gen.Anchor(), 5*time.Second)
	})
}

func TestGenerateUsers(t *testing.T) {
	gen := newTestGenerator(t)
	rows, cache := gen.GenerateUsers(DefaultUserCount)
	require.Len(t, rows, 50)
	require.Len(t, cache, 50)

	phone := regexp.MustCompile(`^\(\d{3}\) \d{3}-\d{4}$`)
	for i, u := range rows {
		assert.Equal(t, i+1, u.ID)
		assert.Regexp(t, phone, u.Phone)
		assert.Equal(t, reference.PasswordHash, u.Password)
		assert.Equal(t, reference.UserRole, u.Role)

		assert.False(t, u.DateOfBirth.After(testAnchor.AddDate(-minAge, 0, 0)))
		assert.False(t, u.DateOfBirth.Before(testAnchor.AddDate(-maxAge, 0, -1)))

		assert.Equal(t, UserRef{
			ID:       u.ID,
			Name:     u.FirstName + " " + u.LastName,
			Address:  u.Address,
			City:     u.City,
			State:    u.State,
			Country:  u.Country,
			Postcode: u.Postcode,
		}, cache[i])
	}
}

func TestGenerateProducts(t *testing.T) {
	t.Run("empty category cache is a missing prerequisite", func(t *testing.T) {
		gen := newTestGenerator(t)
		rows, cache, err := gen.GenerateProducts(nil, 10)
		assert.Nil(t, rows)
		assert.Nil(t, cache)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrMissingPrerequisite))

		var missing *MissingPrerequisiteError
		require.True(t, errors.As(err, &missing))
		assert.Equal(t, StageProducts, missing.Stage)
		assert.Equal(t, []string{StageCategories}, missing.Requires)
	})

	t.Run("every product references a generated category", func(t *testing.T) {
		gen := newTestGenerator(t)
		_, categories := GenerateCategories(DefaultCategoryCount)

		rows, cache, err := gen.GenerateProducts(categories, DefaultProductCount)
		require.NoError(t, err)
		require.Len(t, rows, 1000)
		require.Len(t, cache, 1000)

		names := make(map[int]string, len(categories))
		for _, c := range categories {
			names[c.ID] = c.Name
		}

		lo, hi := decimal.NewFromFloat(minPrice), decimal.NewFromFloat(maxPrice)
		image := regexp.MustCompile(`^01J[A-Z0-9]{24}$`)
		for i, p := range rows {
			assert.Equal(t, i+1, p.ID)
			require.Contains(t, names, p.CategoryID)
			assert.GreaterOrEqual(t, p.CategoryID, 1)
			assert.LessOrEqual(t, p.CategoryID, 50)
			assert.Regexp(t, " "+regexp.QuoteMeta(names[p.CategoryID])+"$", p.Name)

			assert.True(t, p.Price.GreaterThanOrEqual(lo) && p.Price.LessThanOrEqual(hi), "price %s out of range", p.Price)
			assert.True(t, p.Price.Equal(p.Price.Round(MoneyPlaces)))
			assert.Regexp(t, `^\d+\.\d{2}$`, p.Price.StringFixed(MoneyPlaces))

			assert.GreaterOrEqual(t, p.Stock, 0)
			assert.LessOrEqual(t, p.Stock, maxStock)
			assert.GreaterOrEqual(t, p.BrandID, 1)
			assert.LessOrEqual(t, p.BrandID, maxBrandID)
			assert.Regexp(t, image, p.ProductImageID)
			assert.Contains(t, reference.CO2Ratings, p.CO2Rating)
			assert.Contains(t, p.Description, "This ")
			assert.Contains(t, p.Description, p.Name)

			assert.Equal(t, ProductRef{ID: p.ID, Name: p.Name, Price: p.Price}, cache[i])
		}
	})
}

func TestGenerateTransactions(t *testing.T) {
	t.Run("missing product cache", func(t *testing.T) {
		gen := newTestGenerator(t)
		_, users := gen.GenerateUsers(5)

		rows, err := gen.GenerateTransactions(users, nil, 10)
		assert.Empty(t, rows)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrMissingPrerequisite))

		var missing *MissingPrerequisiteError
		require.True(t, errors.As(err, &missing))
		assert.Equal(t, []string{StageProducts}, missing.Requires)
	})

	t.Run("both caches missing", func(t *testing.T) {
		gen := newTestGenerator(t)
		_, err := gen.GenerateTransactions(nil, nil, 10)

		var missing *MissingPrerequisiteError
		require.True(t, errors.As(err, &missing))
		assert.Equal(t, []string{StageUsers, StageProducts}, missing.Requires)
	})

	t.Run("referential integrity and totals", func(t *testing.T) {
		gen := newTestGenerator(t)
		_, categories := GenerateCategories(DefaultCategoryCount)
		_, users := gen.GenerateUsers(DefaultUserCount)
		_, products, err := gen.GenerateProducts(categories, 200)
		require.NoError(t, err)

		rows, err := gen.GenerateTransactions(users, products, 500)
		require.NoError(t, err)
		require.Len(t, rows, 500)

		userByID := make(map[int]UserRef)
		for _, u := range users {
			userByID[u.ID] = u
		}
		productByID := make(map[int]ProductRef)
		for _, p := range products {
			productByID[p.ID] = p
		}

		windowStart := testAnchor.AddDate(-invoiceWindowYrs, 0, 0)
		for i, tx := range rows {
			assert.Equal(t, i+1, tx.ID)

			user, ok := userByID[tx.UserID]
			require.True(t, ok, "unknown user %d", tx.UserID)
			assert.Equal(t, user.Address, tx.BillingAddress)
			assert.Equal(t, user.City, tx.BillingCity)
			assert.Equal(t, user.State, tx.BillingState)
			assert.Equal(t, user.Country, tx.BillingCountry)
			assert.Equal(t, user.Postcode, tx.BillingPostcode)
			assert.Equal(t, user.Name, tx.PaymentAccountName)

			assert.False(t, tx.InvoiceDate.Before(windowStart))
			assert.False(t, tx.InvoiceDate.After(testAnchor))
			assert.Equal(t, tx.InvoiceDate, tx.CreatedAt)
			assert.Equal(t, InvoiceNumber(tx.InvoiceDate.Year(), tx.ID), tx.InvoiceNumber)
			assert.Regexp(t, `^\d{9}[A-Z]{3}$`, tx.PaymentAccountNumber)
			assert.Contains(t, reference.PaymentMethods, tx.PaymentMethod)
			assert.Contains(t, reference.TransactionStatuses, tx.Status)

			var decoded []ProductRef
			require.NoError(t, json.Unmarshal([]byte(tx.ItemsJSON), &decoded))
			assert.GreaterOrEqual(t, len(decoded), minItems)
			assert.LessOrEqual(t, len(decoded), maxItems)

			seen := make(map[int]bool)
			sum := decimal.Zero
			for _, item := range decoded {
				assert.False(t, seen[item.ID], "duplicate item %d", item.ID)
				seen[item.ID] = true
				want, ok := productByID[item.ID]
				require.True(t, ok)
				assert.True(t, want.Price.Equal(item.Price))
				sum = sum.Add(item.Price)
			}
			assert.True(t, sum.Round(MoneyPlaces).Equal(tx.Total), "total %s != %s", tx.Total, sum)
		}
	})

	t.Run("item count is clamped to the product cache", func(t *testing.T) {
		gen := newTestGenerator(t)
		_, users := gen.GenerateUsers(3)
		products := ProductCache{{ID: 1, Name: "Red Hammer", Price: RoundMoney(10)}}

		rows, err := gen.GenerateTransactions(users, products, 50)
		require.NoError(t, err)
		for _, tx := range rows {
			assert.Len(t, tx.Items, 1)
		}
	})
}

func TestRoundMoney(t *testing.T) {
	t.Run("half rounds away from zero", func(t *testing.T) {
		assert.Equal(t, "20.00", RoundMoney(19.995).StringFixed(MoneyPlaces))
		assert.Equal(t, "5.01", RoundMoney(5.005).StringFixed(MoneyPlaces))
		assert.Equal(t, "199.99", RoundMoney(199.994).StringFixed(MoneyPlaces))
	})

	t.Run("total of rounded items", func(t *testing.T) {
		gen := newTestGenerator(t)
		_, users := gen.GenerateUsers(1)
		products := ProductCache{
			{ID: 1, Name: "Blue Saw", Price: RoundMoney(19.995)},
			{ID: 2, Name: "Green Saw", Price: RoundMoney(19.995)},
		}

		var found bool
		rows, err := gen.GenerateTransactions(users, products, 100)
		require.NoError(t, err)
		for _, tx := range rows {
			if len(tx.Items) == 2 {
				found = true
				assert.Equal(t, "40.00", tx.Total.StringFixed(MoneyPlaces))
				assert.Contains(t, tx.ItemsJSON, `"price":20.00`)
			}
		}
		assert.True(t, found, "expected at least one two-item transaction")
	})
}

func TestGenerator_Deterministic(t *testing.T) {
	run := func() ([]User, []Product, []Transaction) {
		gen := newTestGenerator(t)
		_, categories := GenerateCategories(DefaultCategoryCount)
		users, userCache := gen.GenerateUsers(20)
		products, productCache, err := gen.GenerateProducts(categories, 40)
		require.NoError(t, err)
		txs, err := gen.GenerateTransactions(userCache, productCache, 40)
		require.NoError(t, err)
		return users, products, txs
	}

	u1, p1, t1 := run()
	u2, p2, t2 := run()
	assert.Equal(t, u1, u2)
	assert.Equal(t, p1, p2)
	assert.Equal(t, len(t1), len(t2))
	for i := range t1 {
		assert.Equal(t, t1[i].ItemsJSON, t2[i].ItemsJSON)
		assert.Equal(t, t1[i].InvoiceNumber, t2[i].InvoiceNumber)
		assert.True(t, t1[i].Total.Equal(t2[i].Total))
	}
}

func TestInvoiceNumber(t *testing.T) {
	assert.Equal(t, "INV-202400000001", InvoiceNumber(2024, 1))
	assert.Equal(t, "INV-202512345678", InvoiceNumber(2025, 12345678))
}

func TestNegativeCounts(t *testing.T) {
	gen := newTestGenerator(t)

	users, userCache := gen.GenerateUsers(-1)
	assert.Empty(t, users)
	assert.Empty(t, userCache)

	categories, categoryCache := GenerateCategories(-5)
	assert.Len(t, categories, len(reference.Taxonomy))

	products, productCache, err := gen.GenerateProducts(categoryCache, -1)
	require.NoError(t, err)
	assert.Empty(t, products)
	assert.Empty(t, productCache)

	_, buyers := gen.GenerateUsers(3)
	stock := ProductCache{{ID: 1, Name: "Red Hammer", Price: RoundMoney(10)}}
	rows, err := gen.GenerateTransactions(buyers, stock, -1)
	require.NoError(t, err)
	assert.Empty(t, rows)
}
