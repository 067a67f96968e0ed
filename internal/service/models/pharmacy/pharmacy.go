package pharmacy

import "errors"

var ErrUnknownPharmacy = errors.New("unknown pharmacy")

// Pharmacy is an entry of the static partner directory. DeliveryFee is the
// amount charged for prescription orders fulfilled by the pharmacy.
type Pharmacy struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	DeliveryFee  int64  `json:"deliveryFee"`
	DeliveryTime string `json:"deliveryTime"`
}

// Directory returns the partner pharmacies available for prescription
// fulfillment.
func Directory() []Pharmacy {
	return []Pharmacy{
		{ID: "pharma1", Name: "PharmaCare", DeliveryFee: 150, DeliveryTime: "Today, 1:00 PM - 5:00 PM"},
		{ID: "pharma2", Name: "MediMart", DeliveryFee: 150, DeliveryTime: "Today, 3:00 PM - 5:00 PM"},
		{ID: "pharma3", Name: "HealthPlus", DeliveryFee: 155, DeliveryTime: "Tomorrow, 10:00 AM - 1:00 PM"},
		{ID: "pharma4", Name: "Corner Drugs", DeliveryFee: 140, DeliveryTime: "Today, 12:00 PM - 4:00 PM"},
		{ID: "pharma5", Name: "City Chemists", DeliveryFee: 160, DeliveryTime: "Tomorrow, 9:00 AM - 12:00 PM"},
	}
}

// ByID looks a pharmacy up in the directory.
func ByID(id string) (Pharmacy, error) {
	for _, p := range Directory() {
		if p.ID == id {
			return p, nil
		}
	}

	return Pharmacy{}, ErrUnknownPharmacy
}
