package checkout

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"pitstop/internal/cardform"
	"pitstop/internal/catalog"
)

// Manager holds every live checkout session. All access goes through the
// lock; the submission controller snapshots what it needs and never holds
// the lock across the gateway call.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*session
	catalog  *catalog.Catalog
	ttl      time.Duration
}

func NewManager(cat *catalog.Catalog, ttl time.Duration) *Manager {
	return &Manager{
		sessions: make(map[string]*session),
		catalog:  cat,
		ttl:      ttl,
	}
}

func (m *Manager) Create() View {
	s := &session{
		id:         uuid.NewString(),
		selected:   make(map[string]struct{}),
		lastActive: time.Now(),
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.sessions[s.id] = s
	return m.view(s)
}

func (m *Manager) View(id string) (View, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok {
		return View{}, ErrSessionNotFound
	}
	s.lastActive = time.Now()
	return m.view(s), nil
}

// Toggle adds the service to the selection, or removes it when already
// selected. Self-inverse: toggling twice restores the prior set.
func (m *Manager) Toggle(id, serviceID string) (View, error) {
	if !m.catalog.Has(serviceID) {
		return View{}, ErrUnknownService
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok {
		return View{}, ErrSessionNotFound
	}
	if _, selected := s.selected[serviceID]; selected {
		delete(s.selected, serviceID)
	} else {
		s.selected[serviceID] = struct{}{}
	}
	s.lastActive = time.Now()
	return m.view(s), nil
}

// SetField runs one keystroke's worth of raw input through the formatter
// for the named field and stores the result. A rejected edit (accepted ==
// false) leaves the stored value untouched; the returned view shows what
// the form should display either way.
func (m *Manager) SetField(id string, field Field, raw string) (View, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok {
		return View{}, false, ErrSessionNotFound
	}
	s.lastActive = time.Now()

	accepted := true
	switch field {
	case FieldCardNumber:
		if formatted, ok := cardform.CardNumber(raw); ok {
			s.cardNumber = formatted
		} else {
			accepted = false
		}
	case FieldCardholder:
		s.cardholderName = raw
	case FieldExpiry:
		s.expiryDate = cardform.Expiry(raw)
	case FieldCVV:
		s.cvv = cardform.CVV(raw)
	}

	return m.view(s), accepted, nil
}

// submission is the immutable slice of session state a gateway call needs.
type submission struct {
	SessionID   string
	Selected    map[string]struct{}
	CardNumber  string
	Cardholder  string
	ExpiryDate  string
	CVV         string
	AmountCents int64
	MCC         string
}

// BeginSubmission runs the pre-send guards and, when they pass, marks the
// session as processing and returns the snapshot to send. Guard failures
// leave the session untouched and never reach the network.
func (m *Manager) BeginSubmission(id string) (submission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok {
		return submission{}, ErrSessionNotFound
	}
	s.lastActive = time.Now()

	if s.processing {
		return submission{}, ErrSubmissionInFlight
	}
	if len(s.selected) == 0 {
		return submission{}, ErrEmptySelection
	}
	if !s.fieldsComplete() {
		return submission{}, ErrMissingFields
	}

	selected := make(map[string]struct{}, len(s.selected))
	for sid := range s.selected {
		selected[sid] = struct{}{}
	}

	s.processing = true
	return submission{
		SessionID:   s.id,
		Selected:    selected,
		CardNumber:  s.cardNumber,
		Cardholder:  s.cardholderName,
		ExpiryDate:  s.expiryDate,
		CVV:         s.cvv,
		AmountCents: m.catalog.TotalCents(selected),
		MCC:         m.catalog.RoutingCode(selected),
	}, nil
}

// EndSubmission clears the processing flag. On approval the selection and
// every card field are wiped; on failure the user's input survives so the
// form can be corrected and resubmitted.
func (m *Manager) EndSubmission(id string, approved bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok {
		return
	}
	s.processing = false
	if approved {
		s.selected = make(map[string]struct{})
		s.clearPaymentInput()
	}
}

// SweepExpired drops sessions idle longer than the TTL and reports the
// ids removed. Sessions mid-submission are skipped.
func (m *Manager) SweepExpired() []string {
	cutoff := time.Now().Add(-m.ttl)

	m.mu.Lock()
	defer m.mu.Unlock()

	var removed []string
	for id, s := range m.sessions {
		if s.processing || s.lastActive.After(cutoff) {
			continue
		}
		delete(m.sessions, id)
		removed = append(removed, id)
	}
	return removed
}

// view projects a session in catalog order. Caller must hold the lock.
func (m *Manager) view(s *session) View {
	selected := []string{}
	for _, svc := range m.catalog.Services() {
		if _, ok := s.selected[svc.ID]; ok {
			selected = append(selected, svc.ID)
		}
	}
	return View{
		ID:             s.id,
		Selected:       selected,
		TotalCents:     m.catalog.TotalCents(s.selected),
		CardNumber:     s.cardNumber,
		CardholderName: s.cardholderName,
		ExpiryDate:     s.expiryDate,
		CVV:            s.cvv,
		Processing:     s.processing,
	}
}
