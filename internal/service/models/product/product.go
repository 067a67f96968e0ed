package product

// Category groups catalog entries for client-side filtering.
type Category string

const (
	CategoryMedicines  Category = "medicines"
	CategoryEssentials Category = "essentials"
)

// Product represents a medicine or health product from the catalog.
// Catalog entries are immutable reference data seeded at startup.
type Product struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Price       int64    `json:"price"`
	ImageURL    string   `json:"imageUrl"`
	Category    Category `json:"category,omitempty"`
	Rating      float64  `json:"rating,omitempty"`
}

// Defaults returns the seed catalog. The same rows are inserted by the
// products migration; the in-memory repository uses this copy directly.
func Defaults() []Product {
	return []Product{
		{ID: "1", Name: "Paracetamol 500mg", Description: "Effective pain reliever. 24 tabs.", Price: 599, ImageURL: "https://picsum.photos/seed/paracetamol/60/60", Category: CategoryMedicines, Rating: 4.5},
		{ID: "2", Name: "Fabric Band-Aids (Assorted)", Description: "Flexible adhesive bandages. 50 ct.", Price: 349, ImageURL: "https://picsum.photos/seed/bandaids/60/60", Category: CategoryEssentials, Rating: 4.2},
		{ID: "3", Name: "Digital Thermometer", Description: "Fast and accurate temperature reading.", Price: 1299, ImageURL: "https://picsum.photos/seed/thermometer/60/60", Category: CategoryEssentials, Rating: 4.8},
		{ID: "4", Name: "Antiseptic Wipes", Description: "Individually wrapped cleansing wipes. 100 ct.", Price: 785, ImageURL: "https://picsum.photos/seed/wipes/60/60", Category: CategoryEssentials, Rating: 4.6},
		{ID: "5", Name: "Ibuprofen 200mg", Description: "Anti-inflammatory for pain relief. 50 tabs.", Price: 650, ImageURL: "https://picsum.photos/seed/ibuprofen/60/60", Category: CategoryMedicines, Rating: 4.7},
		{ID: "6", Name: "Saline Nasal Spray", Description: "Gentle mist for nasal congestion.", Price: 820, ImageURL: "https://picsum.photos/seed/nasalspray/60/60", Category: CategoryMedicines, Rating: 4.3},
		{ID: "7", Name: "Vitamin C 1000mg", Description: "Supports immune system health. 60 tabs.", Price: 995, ImageURL: "https://picsum.photos/seed/vitaminc/60/60", Category: CategoryEssentials, Rating: 4.4},
		{ID: "8", Name: "Hand Sanitizer Gel", Description: "Kills 99.9% of germs. 250ml.", Price: 450, ImageURL: "https://picsum.photos/seed/sanitizer/60/60", Category: CategoryEssentials, Rating: 4.0},
	}
}
