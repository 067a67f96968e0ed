package orderitem

// ProductIDPrescriptionUpload is the sentinel product id carried by the
// single line of a prescription order. Such lines are priced at zero; the
// order total is the pharmacy delivery fee.
const ProductIDPrescriptionUpload = "PRESCRIPTION_UPLOAD"

// OrderItem represents a line entry within an order. Price is a snapshot
// taken at order time and is independent of the live catalog price.
type OrderItem struct {
	OrderID   string `json:"orderId,omitempty"`
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
	Price     int64  `json:"price"`
}

// IsPrescriptionUpload reports whether the item is the prescription sentinel.
func (i OrderItem) IsPrescriptionUpload() bool {
	return i.ProductID == ProductIDPrescriptionUpload
}

// Subtotal returns price multiplied by quantity.
func (i OrderItem) Subtotal() int64 {
	return i.Price * int64(i.Quantity)
}
