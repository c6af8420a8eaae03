package catalog

import "fmt"

// Catalog is an ordered, immutable list of services. Order matters:
// the routing MCC for a charge is taken from the first catalog entry
// that is part of the selection, not from user-selection order.
type Catalog struct {
	services []Service
	byID     map[string]Service
}

func New(services []Service) (*Catalog, error) {
	byID := make(map[string]Service, len(services))
	for _, s := range services {
		if s.ID == "" {
			return nil, fmt.Errorf("service with empty id: %q", s.Name)
		}
		if s.PriceCents <= 0 {
			return nil, fmt.Errorf("service %s: price must be positive", s.ID)
		}
		if _, ok := byID[s.ID]; ok {
			return nil, fmt.Errorf("duplicate service id: %s", s.ID)
		}
		byID[s.ID] = s
	}
	return &Catalog{services: services, byID: byID}, nil
}

// Default is the shop's fixed service list.
func Default() *Catalog {
	c, err := New([]Service{
		{
			ID:          "oil-change",
			Name:        "Full Synthetic Oil Change",
			Description: "Drain and refill with full synthetic oil, new filter included.",
			PriceCents:  4999,
			MCC:         "7538",
		},
		{
			ID:          "tire-rotation",
			Name:        "Tire Rotation & Balance",
			Description: "Rotate all four tires and balance each wheel.",
			PriceCents:  2999,
			MCC:         "7538",
		},
		{
			ID:          "brake-service",
			Name:        "Brake Pad Replacement",
			Description: "Replace front brake pads and inspect rotors.",
			PriceCents:  18999,
			MCC:         "7538",
		},
		{
			ID:          "engine-diagnostic",
			Name:        "Engine Diagnostic Scan",
			Description: "Full OBD-II scan with written report of fault codes.",
			PriceCents:  7999,
			MCC:         "7538",
		},
		{
			ID:          "wheel-alignment",
			Name:        "Four-Wheel Alignment",
			Description: "Laser alignment of all four wheels to factory spec.",
			PriceCents:  9999,
			MCC:         "7538",
		},
		{
			ID:          "detailing",
			Name:        "Interior & Exterior Detailing",
			Description: "Hand wash, wax, and full interior shampoo.",
			PriceCents:  11999,
			MCC:         "7542",
		},
	})
	if err != nil {
		// Default() is built from literals; a failure here is a programming error.
		panic(err)
	}
	return c
}

// Services returns the catalog in its fixed order.
func (c *Catalog) Services() []Service {
	out := make([]Service, len(c.services))
	copy(out, c.services)
	return out
}

func (c *Catalog) Get(id string) (Service, bool) {
	s, ok := c.byID[id]
	return s, ok
}

func (c *Catalog) Has(id string) bool {
	_, ok := c.byID[id]
	return ok
}

// TotalCents sums the prices of the given service ids. Unknown ids
// contribute nothing; the empty set totals zero.
func (c *Catalog) TotalCents(ids map[string]struct{}) int64 {
	var total int64
	for id := range ids {
		if s, ok := c.byID[id]; ok {
			total += s.PriceCents
		}
	}
	return total
}

// RoutingCode returns the MCC of the first catalog-order service whose
// id is in the selection. Empty string when nothing is selected.
func (c *Catalog) RoutingCode(ids map[string]struct{}) string {
	for _, s := range c.services {
		if _, ok := ids[s.ID]; ok {
			return s.MCC
		}
	}
	return ""
}
