package catalog

// Service is one fixed-price offering on the shop's checkout form.
// The catalog is defined at process start and never mutated.
type Service struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	PriceCents  int64  `json:"price_cents"`
	// MCC is the merchant category code reported to the card gateway
	// for charges that include this service.
	MCC string `json:"mcc"`
}
