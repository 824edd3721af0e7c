package fixture

import (
	"fmt"
	"strings"

	"github.com/marshallshelly/toolshop-fixtures/pkg/reference"
)

// DefaultCategoryCount is the number of categories generated when none is requested.
const DefaultCategoryCount = 50

// GenerateCategories builds count categories from the reference taxonomy.
// Groups take the first ids, then children follow in declaration order; once the taxonomy
// is exhausted, "Specialty Tool {slot}" fillers are attached to the fallback group.
// Groups are always emitted, so fewer than len(reference.Taxonomy) rows is never returned.
func GenerateCategories(count int) ([]Category, CategoryCache) {
	return generateCategories(reference.Taxonomy, count)
}

func generateCategories(taxonomy []reference.Group, count int) ([]Category, CategoryCache) {
	rows := make([]Category, 0, max(count, len(taxonomy)))
	groupIDs := make(map[string]int, len(taxonomy))

	nextID := 1
	for _, g := range taxonomy {
		rows = append(rows, newCategory(nextID, 0, g.Name))
		groupIDs[g.Name] = nextID
		nextID++
	}

	type pair struct {
		group string
		child string
	}
	var pairs []pair
	for _, g := range taxonomy {
		for _, c := range g.Children {
			pairs = append(pairs, pair{g.Name, c})
		}
	}

	fallbackID := groupIDs[reference.FallbackGroup]
	for slot := 0; slot < count-len(taxonomy); slot++ {
		if slot < len(pairs) {
			p := pairs[slot]
			rows = append(rows, newCategory(nextID, groupIDs[p.group], p.child))
		} else {
			rows = append(rows, newCategory(nextID, fallbackID, fmt.Sprintf("Specialty Tool %d", slot)))
		}
		nextID++
	}

	cache := make(CategoryCache, len(rows))
	for i, c := range rows {
		cache[i] = CategoryRef{ID: c.ID, Name: c.Name}
	}
	return rows, cache
}

func newCategory(id, parentID int, name string) Category {
	return Category{
		ID:       id,
		ParentID: parentID,
		Name:     name,
		Slug:     Slugify(name),
	}
}

// Slugify lower-cases name and replaces spaces with hyphens. Nothing else is touched.
func Slugify(name string) string {
	return strings.ReplaceAll(strings.ToLower(name), " ", "-")
}
