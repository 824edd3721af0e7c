package fixture

import (
	"time"

	"github.com/marshallshelly/toolshop-fixtures/pkg/reference"
)

// DefaultUserCount is the number of users generated when none is requested.
const DefaultUserCount = 50

const (
	phoneMask = "(###) ###-####"
	minAge    = 18
	maxAge    = 70
)

// GenerateUsers creates count independent users with sequential ids.
func (g *Generator) GenerateUsers(count int) ([]User, UserCache) {
	rows := make([]User, 0, max(count, 0))
	cache := make(UserCache, 0, max(count, 0))

	oldest := g.anchor.AddDate(-maxAge, 0, 0)
	youngest := g.anchor.AddDate(-minAge, 0, 0)

	for id := 1; id <= count; id++ {
		u := User{
			ID:        id,
			FirstName: g.faker.FirstName(),
			LastName:  g.faker.LastName(),
			Address:   g.faker.Street(),
			City:      g.faker.City(),
			State:     g.faker.State(),
			Country:   g.faker.Country(),
			Postcode:  g.faker.Zip(),
			Phone:     g.faker.Numerify(phoneMask),
		}
		dob := g.faker.DateRange(oldest, youngest)
		u.DateOfBirth = dob.UTC().Truncate(24 * time.Hour)
		u.Email = g.faker.Email()
		u.Password = reference.PasswordHash
		u.Role = reference.UserRole

		rows = append(rows, u)
		cache = append(cache, UserRef{
			ID:       u.ID,
			Name:     u.FullName(),
			Address:  u.Address,
			City:     u.City,
			State:    u.State,
			Country:  u.Country,
			Postcode: u.Postcode,
		})
	}

	return rows, cache
}
