// Package reference holds the static vocabulary the fixture generators draw from:
// the category taxonomy, product descriptors and the order/payment enums.
package reference

// Group is a top-level category together with its child tool names.
type Group struct {
	Name     string   `json:"name"`
	Children []string `json:"children"`
}

// FallbackGroup receives filler categories once the taxonomy runs out.
const FallbackGroup = "Other"

// Taxonomy is the two-level category structure in declaration order.
var Taxonomy = []Group{
	{
		Name: "Hand Tools",
		Children: []string{
			"Hammer", "Claw Hammer", "Mallet", "Sledgehammer",
			"Wood Saw", "Hand Saw", "Hacksaw", "Chisel", "File",
			"Adjustable wrench", "Wrench", "Pipe Wrench", "Torque Wrench",
			"Open-end spanners (Set)", "Phillips Screwdriver", "Screwdriver",
			"Pliers", "Combination Pliers", "Bolt Cutters", "Long Nose Pliers", "Slip Joint Pliers",
			"Utility Knife", "Tape Measure", "Level",
		},
	},
	{
		Name: "Power Tools",
		Children: []string{
			"Sheet Sander", "Belt Sander", "Random Orbit Sander", "Sander",
			"Cordless Drill", "Cordless Drill 18V", "Drill Bits", "Drill",
			"Grinder", "Angle Grinder", "Circular Saw", "Jigsaw", "Reciprocating Saw", "Saw",
			"Heat Gun", "Router", "Planer",
		},
	},
	{
		Name: "Rentals",
		Children: []string{
			"Crane", "Excavator", "Bulldozer", "Jackhammer",
			"Concrete Mixer", "Generator", "Welding Machine", "Air Compressor", "Pressure Washer",
		},
	},
	{
		Name: FallbackGroup,
		Children: []string{
			"Safety Goggles", "Work Gloves", "Tool Box", "Ladder", "Extension Cord", "Wheelbarrow",
		},
	},
}

// CO2Ratings are the environmental impact labels a product can carry.
var CO2Ratings = []string{
	"None",
	"A (Lowest Impact)",
	"B (Low Impact)",
	"C (Moderate Impact)",
	"D (Higher Impact)",
	"E (Highest Impact)",
}

// TransactionStatuses is the order status vocabulary.
var TransactionStatuses = []string{
	"AWAITING_FULFILLMENT",
	"ON_HOLD",
	"AWAITING_SHIPMENT",
	"SHIPPED",
	"COMPLETED",
}

// PaymentMethods lists the checkout payment options.
var PaymentMethods = []string{
	"Cash on Delivery",
	"Credit Card",
	"Bank Transfer",
	"Gift Card",
	"Buy Now Pay Later",
}

// Adjectives and UseCases fill the product description template.
var (
	Adjectives = []string{
		"durable", "lightweight", "heavy-duty", "ergonomic", "precision-engineered",
		"compact", "versatile", "high-performance", "reliable", "industry-standard",
	}

	UseCases = []string{
		"professional construction", "home DIY projects", "industrial applications",
		"precision tasks", "heavy lifting", "everyday repairs",
	}
)

const (
	// PasswordHash is the placeholder hash every generated user shares.
	// It matches the hash shipped in the demo database dump.
	PasswordHash = "9e2ed9cb4bf54a6b9dc4669a1d295466b2585c4346092bffb5333098431cd61d"

	// UserRole is assigned to every generated user.
	UserRole = "user"
)

// ChildCount returns the number of child names declared across all groups.
func ChildCount() int {
	n := 0
	for _, g := range Taxonomy {
		n += len(g.Children)
	}
	return n
}

// Contains reports whether value is one of the entries in set.
func Contains(set []string, value string) bool {
	for _, s := range set {
		if s == value {
			return true
		}
	}
	return false
}
