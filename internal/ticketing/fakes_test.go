package ticketing

import (
	"context"
	"sort"
	"sync"
	"time"

	"campusevents/internal/models"
	"campusevents/internal/storage"

	"github.com/google/uuid"
)

// memStore is an in-memory stand-in for the postgres storage, honoring the
// same sentinel-error contract, including the capacity-gated insert and the
// unique reference constraint.
type memStore struct {
	mu       sync.Mutex
	events   map[string]*models.Event
	tickets  map[string]*models.Ticket
	waitlist map[string][]models.WaitlistEntry
}

func newMemStore() *memStore {
	return &memStore{
		events:   make(map[string]*models.Event),
		tickets:  make(map[string]*models.Ticket),
		waitlist: make(map[string][]models.WaitlistEntry),
	}
}

func (s *memStore) addEvent(event *models.Event) *models.Event {
	s.mu.Lock()
	defer s.mu.Unlock()

	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	s.events[event.ID] = event

	return event
}

func (s *memStore) GetEvent(_ context.Context, id string) (*models.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	event, ok := s.events[id]
	if !ok {
		return nil, storage.ErrEventNotFound
	}

	copied := *event
	return &copied, nil
}

func (s *memStore) GetTicket(_ context.Context, id string) (*models.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ticket, ok := s.tickets[id]
	if !ok {
		return nil, storage.ErrTicketNotFound
	}

	copied := *ticket
	return &copied, nil
}

func (s *memStore) GetActiveTicketByUserAndEvent(_ context.Context, userID, eventID string) (*models.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var found *models.Ticket
	for _, ticket := range s.tickets {
		if ticket.UserID == userID && ticket.EventID == eventID && !ticket.Cancelled {
			if found == nil || ticket.CreatedAt.Before(found.CreatedAt) {
				found = ticket
			}
		}
	}
	if found == nil {
		return nil, storage.ErrTicketNotFound
	}

	copied := *found
	return &copied, nil
}

func (s *memStore) GetTicketByReference(_ context.Context, reference string) (*models.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, ticket := range s.tickets {
		if ticket.Reference == reference {
			copied := *ticket
			return &copied, nil
		}
	}

	return nil, storage.ErrTicketNotFound
}

func (s *memStore) CreateTicket(_ context.Context, ticket *models.Ticket, capacity *int) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if capacity != nil {
		sold := 0
		for _, t := range s.tickets {
			if t.EventID == ticket.EventID && !t.Cancelled {
				sold++
			}
		}
		if sold >= *capacity {
			return "", storage.ErrSoldOut
		}
	}

	if ticket.Reference != "" {
		for _, t := range s.tickets {
			if t.Reference == ticket.Reference {
				return "", storage.ErrDuplicateReference
			}
		}
	}

	ticket.ID = uuid.NewString()
	ticket.CreatedAt = time.Now().UTC()

	copied := *ticket
	s.tickets[ticket.ID] = &copied

	return ticket.ID, nil
}

func (s *memStore) CountActiveTickets(_ context.Context, eventID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for _, ticket := range s.tickets {
		if ticket.EventID == eventID && !ticket.Cancelled {
			count++
		}
	}

	return count, nil
}

func (s *memStore) ListActiveTicketsByEvent(_ context.Context, eventID string) ([]models.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var tickets []models.Ticket
	for _, ticket := range s.tickets {
		if ticket.EventID == eventID && !ticket.Cancelled {
			tickets = append(tickets, *ticket)
		}
	}

	sort.Slice(tickets, func(i, j int) bool {
		return tickets[i].CreatedAt.Before(tickets[j].CreatedAt)
	})

	return tickets, nil
}

func (s *memStore) MarkTicketCancelled(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ticket, ok := s.tickets[id]
	if !ok {
		return storage.ErrTicketNotFound
	}
	ticket.Cancelled = true

	return nil
}

func (s *memStore) MarkTicketCheckedIn(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ticket, ok := s.tickets[id]
	if !ok {
		return storage.ErrTicketNotFound
	}
	ticket.CheckedIn = true

	return nil
}

func (s *memStore) MarkEventCancelled(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	event, ok := s.events[id]
	if !ok {
		return storage.ErrEventNotFound
	}
	event.Cancelled = true

	return nil
}

func (s *memStore) JoinWaitlist(_ context.Context, entry models.WaitlistEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.waitlist[entry.EventID] {
		if existing.UserID == entry.UserID {
			return storage.ErrAlreadyOnWaitlist
		}
	}

	entry.JoinedAt = time.Now().UTC()
	s.waitlist[entry.EventID] = append(s.waitlist[entry.EventID], entry)

	return nil
}

func (s *memStore) PopWaitlistHead(_ context.Context, eventID string) (*models.WaitlistEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	queue := s.waitlist[eventID]
	if len(queue) == 0 {
		return nil, nil
	}

	head := queue[0]
	s.waitlist[eventID] = queue[1:]

	return &head, nil
}

func (s *memStore) ListWaitlist(_ context.Context, eventID string) ([]models.WaitlistEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]models.WaitlistEntry(nil), s.waitlist[eventID]...), nil
}

// fakeMailer records every send; sends fail when failWith is set.
type fakeMailer struct {
	mu       sync.Mutex
	sent     []Mail
	failWith error
}

func (m *fakeMailer) Send(_ context.Context, mail Mail) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failWith != nil {
		return m.failWith
	}
	m.sent = append(m.sent, mail)

	return nil
}

func (m *fakeMailer) sentTo(addr string) []Mail {
	m.mu.Lock()
	defer m.mu.Unlock()

	var mails []Mail
	for _, mail := range m.sent {
		if mail.To == addr {
			mails = append(mails, mail)
		}
	}

	return mails
}

func (m *fakeMailer) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.sent)
}

// fakeGateway is a scriptable PaymentGateway. Signature verification accepts
// exactly the string in validSignature.
type fakeGateway struct {
	mu             sync.Mutex
	validSignature string
	initErr        error
	refundErr      error
	inits          []InitParams
	refunded       []string
}

func (g *fakeGateway) InitializeTransaction(_ context.Context, params InitParams) (*PaymentInit, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.initErr != nil {
		return nil, g.initErr
	}
	g.inits = append(g.inits, params)

	return &PaymentInit{
		AuthorizationURL: "https://checkout.example.com/" + params.Reference,
		Reference:        params.Reference,
	}, nil
}

func (g *fakeGateway) Refund(_ context.Context, reference string) (*RefundResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.refundErr != nil {
		return nil, g.refundErr
	}
	g.refunded = append(g.refunded, reference)

	return &RefundResult{Reference: reference, Status: "processed"}, nil
}

func (g *fakeGateway) VerifySignature(_ []byte, signature string) bool {
	return signature == g.validSignature
}

func intPtr(n int) *int {
	return &n
}
