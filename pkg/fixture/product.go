package fixture

import (
	"fmt"

	"github.com/marshallshelly/toolshop-fixtures/pkg/reference"
)

// DefaultProductCount is the number of products generated when none is requested.
const DefaultProductCount = 1000

const (
	minPrice   = 5.00
	maxPrice   = 200.00
	maxStock   = 100
	maxBrandID = 10

	imageIDPrefix = "01J"
	imageIDMask   = "?#?#?#?#?#?#?#?#?#?#?#?#"

	descriptionTemplate = "This %s %s is designed for %s. It features a robust build quality ensuring long-lasting performance in any environment."
)

// GenerateProducts creates count products, each referencing a category drawn from categories.
// An empty category cache yields a MissingPrerequisiteError and no rows.
func (g *Generator) GenerateProducts(categories CategoryCache, count int) ([]Product, ProductCache, error) {
	if len(categories) == 0 {
		return nil, nil, &MissingPrerequisiteError{
			Stage:    StageProducts,
			Requires: []string{StageCategories},
		}
	}

	rows := make([]Product, 0, max(count, 0))
	cache := make(ProductCache, 0, max(count, 0))

	for id := 1; id <= count; id++ {
		cat := categories[g.pick(len(categories))]
		name := capitalize(g.faker.Color()) + " " + cat.Name
		price := RoundMoney(g.faker.Float64Range(minPrice, maxPrice))
		description := fmt.Sprintf(descriptionTemplate,
			g.faker.RandomString(reference.Adjectives),
			name,
			g.faker.RandomString(reference.UseCases),
		)

		p := Product{
			ID:              id,
			Name:            name,
			Description:     description,
			Stock:           g.faker.Number(0, maxStock),
			Price:           price,
			BrandID:         g.faker.Number(1, maxBrandID),
			CategoryID:      cat.ID,
			ProductImageID:  imageIDPrefix + g.token(imageIDMask),
			IsLocationOffer: g.faker.Bool(),
			IsRental:        g.faker.Bool(),
			CO2Rating:       g.faker.RandomString(reference.CO2Ratings),
		}

		rows = append(rows, p)
		cache = append(cache, ProductRef{ID: p.ID, Name: p.Name, Price: p.Price})
	}

	return rows, cache, nil
}
