package reference

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTaxonomy(t *testing.T) {
	t.Run("declares four groups", func(t *testing.T) {
		names := make([]string, 0, len(Taxonomy))
		for _, g := range Taxonomy {
			names = append(names, g.Name)
		}
		assert.Equal(t, []string{"Hand Tools", "Power Tools", "Rentals", "Other"}, names)
	})

	t.Run("fallback group is declared", func(t *testing.T) {
		found := false
		for _, g := range Taxonomy {
			if g.Name == FallbackGroup {
				found = true
			}
		}
		assert.True(t, found)
	})

	t.Run("child names are unique", func(t *testing.T) {
		seen := make(map[string]bool)
		for _, g := range Taxonomy {
			for _, c := range g.Children {
				assert.False(t, seen[c], "duplicate child %q", c)
				seen[c] = true
			}
		}
		assert.Equal(t, ChildCount(), len(seen))
	})
}

func TestContains(t *testing.T) {
	assert.True(t, Contains(PaymentMethods, "Gift Card"))
	assert.False(t, Contains(PaymentMethods, "gift card"))
	assert.True(t, Contains(CO2Ratings, "None"))
	assert.False(t, Contains(nil, "None"))
}
