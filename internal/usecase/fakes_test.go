package usecase

import (
	"context"
	"sort"
	"sync"

	"travel-booking/internal/data/entity"
	"travel-booking/internal/data/repository"
	"travel-booking/internal/event"
	"travel-booking/internal/gateway/amadeus"
	"travel-booking/internal/gateway/stripe"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

// memStore is an in-memory record store behind the repository interfaces.
type memStore struct {
	mu       sync.Mutex
	users    map[uuid.UUID]*entity.User
	bookings map[uuid.UUID]*entity.Booking
	payments map[uuid.UUID]*entity.Payment
	order    []uuid.UUID // booking insertion order

	paymentErr error
}

func newMemStore() *memStore {
	return &memStore{
		users:    map[uuid.UUID]*entity.User{},
		bookings: map[uuid.UUID]*entity.Booking{},
		payments: map[uuid.UUID]*entity.Payment{},
	}
}

func (m *memStore) repository() *repository.Repository {
	return &repository.Repository{
		User:    memUsers{m},
		Booking: memBookings{m},
		Payment: memPayments{m},
	}
}

type memUsers struct{ m *memStore }

func (r memUsers) Create(_ context.Context, user *entity.User) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, u := range r.m.users {
		if u.Email == user.Email {
			return repository.ErrDuplicate
		}
	}
	cp := *user
	r.m.users[user.ID] = &cp
	return nil
}

func (r memUsers) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if u, ok := r.m.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (r memUsers) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, u := range r.m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

type memBookings struct{ m *memStore }

func (r memBookings) Create(_ context.Context, booking *entity.Booking) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	cp := *booking
	r.m.bookings[booking.ID] = &cp
	r.m.order = append(r.m.order, booking.ID)
	return nil
}

func (r memBookings) FindByID(_ context.Context, id uuid.UUID) (*entity.Booking, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if b, ok := r.m.bookings[id]; ok {
		cp := *b
		return &cp, nil
	}
	return nil, nil
}

func (r memBookings) FindByUserID(_ context.Context, userID uuid.UUID) ([]*entity.Booking, error) {
	return r.scan(func(b *entity.Booking) bool { return b.UserID == userID }), nil
}

func (r memBookings) Search(_ context.Context, filter entity.BookingFilter) ([]*entity.Booking, error) {
	found := r.scan(func(b *entity.Booking) bool { return matchesFilter(filter, b) })
	sort.SliceStable(found, func(i, j int) bool { return found[i].StartDate.Before(found[j].StartDate) })
	return found, nil
}

// matchesFilter mirrors the WHERE clause of the SQL booking search.
func matchesFilter(f entity.BookingFilter, b *entity.Booking) bool {
	if f.Destination != "" && b.Destination != f.Destination {
		return false
	}
	if f.From != nil && b.StartDate.Before(*f.From) {
		return false
	}
	if f.To != nil && b.StartDate.After(*f.To) {
		return false
	}
	return true
}

func (r memBookings) scan(match func(*entity.Booking) bool) []*entity.Booking {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	out := make([]*entity.Booking, 0)
	for _, id := range r.m.order {
		if b, ok := r.m.bookings[id]; ok && match(b) {
			cp := *b
			out = append(out, &cp)
		}
	}
	return out
}

func (r memBookings) Update(_ context.Context, booking *entity.Booking) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.bookings[booking.ID]; !ok {
		return repository.ErrNotFound
	}
	cp := *booking
	r.m.bookings[booking.ID] = &cp
	return nil
}

func (r memBookings) Delete(_ context.Context, id uuid.UUID) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.bookings[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.m.bookings, id)
	return nil
}

type memPayments struct{ m *memStore }

func (r memPayments) Create(_ context.Context, payment *entity.Payment) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if r.m.paymentErr != nil {
		return r.m.paymentErr
	}
	cp := *payment
	r.m.payments[payment.ID] = &cp
	return nil
}

func (r memPayments) FindByID(_ context.Context, id uuid.UUID) (*entity.Payment, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if p, ok := r.m.payments[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, nil
}

func (r memPayments) FindByBookingID(_ context.Context, bookingID uuid.UUID) ([]*entity.Payment, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []*entity.Payment
	for _, p := range r.m.payments {
		if p.BookingID == bookingID {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

type mockFlights struct {
	mock.Mock
}

func (m *mockFlights) SearchOffers(ctx context.Context, params amadeus.SearchParams) ([]amadeus.Offer, error) {
	args := m.Called(ctx, params)
	offers, _ := args.Get(0).([]amadeus.Offer)
	return offers, args.Error(1)
}

type mockPayments struct {
	mock.Mock
}

func (m *mockPayments) CreateIntent(ctx context.Context, amount decimal.Decimal, currency string) (*stripe.Intent, error) {
	args := m.Called(ctx, amount, currency)
	intent, _ := args.Get(0).(*stripe.Intent)
	return intent, args.Error(1)
}

func (m *mockPayments) CancelIntent(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

// recorder keeps published events in order.
type recorder struct {
	mu     sync.Mutex
	events []event.Event
	err    error
}

func (r *recorder) Publish(_ context.Context, evt event.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, evt)
	return r.err
}

func (r *recorder) types() []event.Type {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]event.Type, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Type)
	}
	return out
}

type fixture struct {
	store    *memStore
	flights  *mockFlights
	payments *mockPayments
	events   *recorder
	svc      *Service
}

func newFixture() *fixture {
	f := &fixture{
		store:    newMemStore(),
		flights:  new(mockFlights),
		payments: new(mockPayments),
		events:   &recorder{},
	}
	f.svc = NewService(f.store.repository(), f.flights, f.payments, f.events, zap.NewNop())
	return f
}

func mustOffers(raw ...string) []amadeus.Offer {
	offers := make([]amadeus.Offer, 0, len(raw))
	for _, r := range raw {
		var o amadeus.Offer
		if err := o.UnmarshalJSON([]byte(r)); err != nil {
			panic(err)
		}
		offers = append(offers, o)
	}
	return offers
}
