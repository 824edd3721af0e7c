package fixture

import (
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v7"
)

// Faker is the subset of gofakeit the generators draw values from.
type Faker interface {
	FirstName() string
	LastName() string
	Street() string
	City() string
	State() string
	Country() string
	Zip() string
	Email() string
	Color() string
	Numerify(str string) string
	Lexify(str string) string
	DateRange(start, end time.Time) time.Time
	Number(min, max int) int
	Float64Range(min, max float64) float64
	Bool() bool
	RandomString(a []string) string
}

// NewFaker returns a gofakeit source seeded with seed. A zero seed picks a random one.
func NewFaker(seed uint64) Faker {
	return gofakeit.New(seed)
}

// Generator produces user, product and transaction rows from a single faker stream.
// Dates are sampled relative to the anchor rather than the wall clock so a fixed seed and
// anchor always yield the same rows.
type Generator struct {
	faker  Faker
	anchor time.Time
}

// NewGenerator creates a Generator. A zero anchor means "now".
func NewGenerator(faker Faker, anchor time.Time) (*Generator, error) {
	if faker == nil {
		return nil, &CapabilityError{Capability: "faker"}
	}
	if anchor.IsZero() {
		anchor = time.Now()
	}
	return &Generator{
		faker:  faker,
		anchor: anchor.UTC().Truncate(time.Second),
	}, nil
}

// NewSeededGenerator creates a Generator backed by gofakeit seeded with seed.
func NewSeededGenerator(seed uint64, anchor time.Time) (*Generator, error) {
	return NewGenerator(NewFaker(seed), anchor)
}

// Anchor returns the reference time used for date sampling.
func (g *Generator) Anchor() time.Time { return g.anchor }

// token fills a mask where '#' is a digit and '?' a letter, upper-cased.
func (g *Generator) token(mask string) string {
	return strings.ToUpper(g.faker.Lexify(g.faker.Numerify(mask)))
}

// pick returns a uniformly chosen index in [0, n).
func (g *Generator) pick(n int) int {
	return g.faker.Number(0, n-1)
}

// sampleDistinct returns k distinct indices in [0, n) in draw order.
func (g *Generator) sampleDistinct(n, k int) []int {
	if k > n {
		k = n
	}
	seen := make(map[int]struct{}, k)
	out := make([]int, 0, k)
	for len(out) < k {
		i := g.pick(n)
		if _, dup := seen[i]; dup {
			continue
		}
		seen[i] = struct{}{}
		out = append(out, i)
	}
	return out
}

// capitalize upper-cases the first letter and lower-cases the rest.
func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}
