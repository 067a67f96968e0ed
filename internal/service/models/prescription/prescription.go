package prescription

// Prescription holds the uploaded prescription payload attached to an
// order. Image is a data URI or an URL to the stored upload.
type Prescription struct {
	Image       string `json:"image"`
	Description string `json:"description,omitempty"`
}
