package usecase

import (
	"context"
	"fmt"
	"maps"
	"sort"
	"sync"
	"time"

	"hotel-booking/internal/data/entity"
	"hotel-booking/internal/data/repository"
	"hotel-booking/pkg/payment"
	"hotel-booking/pkg/queue"

	"github.com/google/uuid"
)

// memStore is an in-memory stand-in for the database. Values are stored by
// copy so a snapshot is a shallow map copy.
type memStore struct {
	mu         sync.Mutex
	users      map[uuid.UUID]entity.User
	sessions   map[string]entity.Session
	customers  map[uuid.UUID]entity.Customer
	categories map[uuid.UUID]entity.RoomCategory
	rooms      map[uuid.UUID]entity.Room
	services   map[uuid.UUID]entity.Service
	carts      map[uuid.UUID]entity.Cart
	stays      map[uuid.UUID]entity.RoomStay
	bookings   map[uuid.UUID]entity.ServiceBooking
	payments   map[uuid.UUID]entity.Payment

	// failures injects an error for the named operation, e.g. "customer.credit".
	failures map[string]error

	// beforeTx runs once ahead of the next outermost transaction, standing in
	// for a concurrent request that commits first.
	beforeTx func()
}

func newMemStore() *memStore {
	return &memStore{
		users:      map[uuid.UUID]entity.User{},
		sessions:   map[string]entity.Session{},
		customers:  map[uuid.UUID]entity.Customer{},
		categories: map[uuid.UUID]entity.RoomCategory{},
		rooms:      map[uuid.UUID]entity.Room{},
		services:   map[uuid.UUID]entity.Service{},
		carts:      map[uuid.UUID]entity.Cart{},
		stays:      map[uuid.UUID]entity.RoomStay{},
		bookings:   map[uuid.UUID]entity.ServiceBooking{},
		payments:   map[uuid.UUID]entity.Payment{},
		failures:   map[string]error{},
	}
}

func (m *memStore) repository() *repository.Repository {
	return &repository.Repository{
		Tx:             &memTx{store: m},
		User:           &memUserRepo{m},
		Session:        &memSessionRepo{m},
		Customer:       &memCustomerRepo{m},
		Category:       &memCategoryRepo{m},
		Room:           &memRoomRepo{m},
		Service:        &memServiceRepo{m},
		Cart:           &memCartRepo{m},
		RoomStay:       &memRoomStayRepo{m},
		ServiceBooking: &memServiceBookingRepo{m},
		Payment:        &memPaymentRepo{m},
	}
}

func (m *memStore) fail(op string) error {
	return m.failures[op]
}

func (m *memStore) takeBeforeTx() func() {
	m.mu.Lock()
	defer m.mu.Unlock()
	hook := m.beforeTx
	m.beforeTx = nil
	return hook
}

// markCartPaid settles a cart behind the services' back.
func (m *memStore) markCartPaid(id uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := m.carts[id]
	c.Status = entity.CartStatusPaid
	m.carts[id] = c
}

func (m *memStore) activeCartOf(customerID uuid.UUID) (entity.Cart, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.carts {
		if c.CustomerID == customerID && c.Status == entity.CartStatusActive {
			return c, true
		}
	}
	return entity.Cart{}, false
}

type snapshot struct {
	users      map[uuid.UUID]entity.User
	sessions   map[string]entity.Session
	customers  map[uuid.UUID]entity.Customer
	categories map[uuid.UUID]entity.RoomCategory
	rooms      map[uuid.UUID]entity.Room
	services   map[uuid.UUID]entity.Service
	carts      map[uuid.UUID]entity.Cart
	stays      map[uuid.UUID]entity.RoomStay
	bookings   map[uuid.UUID]entity.ServiceBooking
	payments   map[uuid.UUID]entity.Payment
}

func (m *memStore) snapshot() snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return snapshot{
		users:      maps.Clone(m.users),
		sessions:   maps.Clone(m.sessions),
		customers:  maps.Clone(m.customers),
		categories: maps.Clone(m.categories),
		rooms:      maps.Clone(m.rooms),
		services:   maps.Clone(m.services),
		carts:      maps.Clone(m.carts),
		stays:      maps.Clone(m.stays),
		bookings:   maps.Clone(m.bookings),
		payments:   maps.Clone(m.payments),
	}
}

func (m *memStore) restore(s snapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users = s.users
	m.sessions = s.sessions
	m.customers = s.customers
	m.categories = s.categories
	m.rooms = s.rooms
	m.services = s.services
	m.carts = s.carts
	m.stays = s.stays
	m.bookings = s.bookings
	m.payments = s.payments
}

// memTx serializes transactions and rolls the store back on error.
type memTx struct {
	store *memStore
	mu    sync.Mutex
}

type memTxKey struct{}

func (t *memTx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(memTxKey{}) != nil {
		return fn(ctx)
	}
	if hook := t.store.takeBeforeTx(); hook != nil {
		hook()
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	snap := t.store.snapshot()
	if err := fn(context.WithValue(ctx, memTxKey{}, true)); err != nil {
		t.store.restore(snap)
		return err
	}
	return nil
}

// ==================== USERS & SESSIONS ====================

type memUserRepo struct{ m *memStore }

func (r *memUserRepo) Create(_ context.Context, user *entity.User) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, u := range r.m.users {
		if u.Email == user.Email {
			return fmt.Errorf("create user: %w", repository.ErrDuplicate)
		}
	}
	r.m.users[user.ID] = *user
	return nil
}

func (r *memUserRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	u, ok := r.m.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r *memUserRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, u := range r.m.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, nil
}

func (r *memUserRepo) FindStaff(_ context.Context, limit, offset int) ([]*entity.User, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []*entity.User
	for _, u := range r.m.users {
		if u.Role == entity.RoleStaff {
			out = append(out, &u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return page(out, limit, offset), nil
}

func (r *memUserRepo) UpdateAccess(_ context.Context, user *entity.User) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	u, ok := r.m.users[user.ID]
	if !ok {
		return repository.ErrNotFound
	}
	u.IsAdmin = user.IsAdmin
	u.ManagesRooms = user.ManagesRooms
	u.ServiceID = user.ServiceID
	r.m.users[user.ID] = u
	return nil
}

type memSessionRepo struct{ m *memStore }

func (r *memSessionRepo) Create(_ context.Context, session *entity.Session) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	r.m.sessions[session.Token.String()] = *session
	return nil
}

func (r *memSessionRepo) FindValidSession(_ context.Context, token string) (*entity.Session, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	s, ok := r.m.sessions[token]
	if !ok || s.RevokedAt != nil || time.Now().After(s.ExpiresAt) {
		return nil, nil
	}
	return &s, nil
}

func (r *memSessionRepo) Revoke(_ context.Context, token string) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	s, ok := r.m.sessions[token]
	if !ok || s.RevokedAt != nil {
		return repository.ErrNotFound
	}
	now := time.Now()
	s.RevokedAt = &now
	r.m.sessions[token] = s
	return nil
}

// ==================== CUSTOMERS ====================

type memCustomerRepo struct{ m *memStore }

func (r *memCustomerRepo) Create(_ context.Context, customer *entity.Customer) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	r.m.customers[customer.ID] = *customer
	return nil
}

func (r *memCustomerRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Customer, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	c, ok := r.m.customers[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r *memCustomerRepo) FindByUserID(_ context.Context, userID uuid.UUID) (*entity.Customer, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, c := range r.m.customers {
		if c.UserID == userID {
			return &c, nil
		}
	}
	return nil, nil
}

func (r *memCustomerRepo) FindAll(_ context.Context, limit, offset int) ([]*entity.Customer, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []*entity.Customer
	for _, c := range r.m.customers {
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LastName < out[j].LastName })
	return page(out, limit, offset), nil
}

func (r *memCustomerRepo) CountAll(_ context.Context) (int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	return int64(len(r.m.customers)), nil
}

func (r *memCustomerRepo) DeductPoints(_ context.Context, id uuid.UUID, points int) (int, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if err := r.m.fail("customer.deduct"); err != nil {
		return 0, err
	}
	c, ok := r.m.customers[id]
	if !ok || c.PointsBalance < points {
		return 0, repository.ErrInsufficientPoints
	}
	c.PointsBalance -= points
	r.m.customers[id] = c
	return c.PointsBalance, nil
}

func (r *memCustomerRepo) CreditPoints(_ context.Context, id uuid.UUID, points int) (int, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if err := r.m.fail("customer.credit"); err != nil {
		return 0, err
	}
	c, ok := r.m.customers[id]
	if !ok {
		return 0, repository.ErrNotFound
	}
	c.PointsBalance += points
	r.m.customers[id] = c
	return c.PointsBalance, nil
}

// ==================== CATALOG ====================

type memCategoryRepo struct{ m *memStore }

func (r *memCategoryRepo) Create(_ context.Context, category *entity.RoomCategory) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, c := range r.m.categories {
		if c.Name == category.Name {
			return repository.ErrDuplicate
		}
	}
	r.m.categories[category.ID] = *category
	return nil
}

func (r *memCategoryRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.RoomCategory, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	c, ok := r.m.categories[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r *memCategoryRepo) FindAll(_ context.Context) ([]*entity.RoomCategory, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []*entity.RoomCategory
	for _, c := range r.m.categories {
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

type memRoomRepo struct{ m *memStore }

func (r *memRoomRepo) Create(_ context.Context, room *entity.Room) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, existing := range r.m.rooms {
		if existing.Number == room.Number {
			return repository.ErrDuplicate
		}
	}
	r.m.rooms[room.ID] = *room
	return nil
}

func (r *memRoomRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Room, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	room, ok := r.m.rooms[id]
	if !ok {
		return nil, nil
	}
	return &room, nil
}

func (r *memRoomRepo) FindByCategory(_ context.Context, categoryID uuid.UUID) ([]*entity.Room, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []*entity.Room
	for _, room := range r.m.rooms {
		if room.CategoryID == categoryID {
			out = append(out, &room)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out, nil
}

func (r *memRoomRepo) LockByCategory(ctx context.Context, categoryID uuid.UUID) ([]*entity.Room, error) {
	return r.FindByCategory(ctx, categoryID)
}

func (r *memRoomRepo) UpdateState(_ context.Context, id uuid.UUID, state entity.RoomState) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	room, ok := r.m.rooms[id]
	if !ok {
		return repository.ErrNotFound
	}
	room.State = state
	r.m.rooms[id] = room
	return nil
}

func (r *memRoomRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.rooms[id]; !ok {
		return repository.ErrNotFound
	}
	for _, s := range r.m.stays {
		if s.RoomID == id {
			return repository.ErrInUse
		}
	}
	delete(r.m.rooms, id)
	return nil
}

type memServiceRepo struct{ m *memStore }

func (r *memServiceRepo) Create(_ context.Context, service *entity.Service) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	r.m.services[service.ID] = *service
	return nil
}

func (r *memServiceRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Service, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	s, ok := r.m.services[id]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (r *memServiceRepo) FindAll(_ context.Context) ([]*entity.Service, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []*entity.Service
	for _, s := range r.m.services {
		out = append(out, &s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// ==================== CARTS & LINE ITEMS ====================

type memCartRepo struct{ m *memStore }

func (r *memCartRepo) GetOrCreateActive(_ context.Context, customerID uuid.UUID) (*entity.Cart, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, c := range r.m.carts {
		if c.CustomerID == customerID && c.Status == entity.CartStatusActive {
			return &c, nil
		}
	}
	now := time.Now()
	c := entity.Cart{
		BaseNoDelete: entity.BaseNoDelete{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		CustomerID:   customerID,
		Status:       entity.CartStatusActive,
	}
	r.m.carts[c.ID] = c
	return &c, nil
}

func (r *memCartRepo) FindActiveByCustomer(_ context.Context, customerID uuid.UUID) (*entity.Cart, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, c := range r.m.carts {
		if c.CustomerID == customerID && c.Status == entity.CartStatusActive {
			return &c, nil
		}
	}
	return nil, nil
}

func (r *memCartRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Cart, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	c, ok := r.m.carts[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

// The store mutex already serializes writers, so locking is a status check.
func (r *memCartRepo) LockActive(_ context.Context, id uuid.UUID) (*entity.Cart, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	c, ok := r.m.carts[id]
	if !ok || c.Status != entity.CartStatusActive {
		return nil, nil
	}
	return &c, nil
}

func (r *memCartRepo) LockActiveByCustomer(ctx context.Context, customerID uuid.UUID) (*entity.Cart, error) {
	return r.FindActiveByCustomer(ctx, customerID)
}

func (r *memCartRepo) UpdateTotal(_ context.Context, id uuid.UUID, total entity.Money) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	c, ok := r.m.carts[id]
	if !ok || c.Status != entity.CartStatusActive {
		return repository.ErrNotFound
	}
	c.Total = total
	r.m.carts[id] = c
	return nil
}

func (r *memCartRepo) MarkPaid(_ context.Context, id uuid.UUID) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	c, ok := r.m.carts[id]
	if !ok || c.Status != entity.CartStatusActive {
		return repository.ErrNotFound
	}
	c.Status = entity.CartStatusPaid
	r.m.carts[id] = c
	return nil
}

type memRoomStayRepo struct{ m *memStore }

func (r *memRoomStayRepo) Create(_ context.Context, stay *entity.RoomStay) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, s := range r.m.stays {
		if s.RoomID == stay.RoomID && s.Status.OccupiesRoom() && s.Overlaps(stay.StartDate, stay.EndDate) {
			return fmt.Errorf("create room stay: %w", repository.ErrRoomTaken)
		}
	}
	r.m.stays[stay.ID] = *stay
	return nil
}

func (r *memRoomStayRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.RoomStay, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	s, ok := r.m.stays[id]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (r *memRoomStayRepo) filter(keep func(entity.RoomStay) bool) []*entity.RoomStay {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []*entity.RoomStay
	for _, s := range r.m.stays {
		if keep(s) {
			out = append(out, &s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

func (r *memRoomStayRepo) FindByCart(_ context.Context, cartID uuid.UUID) ([]*entity.RoomStay, error) {
	return r.filter(func(s entity.RoomStay) bool { return s.CartID != nil && *s.CartID == cartID }), nil
}

func (r *memRoomStayRepo) FindByCustomer(_ context.Context, customerID uuid.UUID, status entity.LineStatus) ([]*entity.RoomStay, error) {
	return r.filter(func(s entity.RoomStay) bool {
		return s.CustomerID != nil && *s.CustomerID == customerID && s.Status == status
	}), nil
}

func (r *memRoomStayRepo) FindAll(_ context.Context, limit, offset int) ([]*entity.RoomStay, error) {
	return page(r.filter(func(entity.RoomStay) bool { return true }), limit, offset), nil
}

func (r *memRoomStayRepo) CountAll(_ context.Context) (int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	return int64(len(r.m.stays)), nil
}

func (r *memRoomStayRepo) FindOverlapping(_ context.Context, categoryID uuid.UUID, start, end time.Time) ([]*entity.RoomStay, error) {
	r.m.mu.Lock()
	inCategory := map[uuid.UUID]bool{}
	for id, room := range r.m.rooms {
		inCategory[id] = room.CategoryID == categoryID
	}
	r.m.mu.Unlock()

	return r.filter(func(s entity.RoomStay) bool {
		return inCategory[s.RoomID] && s.Status != entity.LineStatusCancelled && s.Overlaps(start, end)
	}), nil
}

func (r *memRoomStayRepo) UpdateStatus(_ context.Context, id uuid.UUID, from, to entity.LineStatus) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	s, ok := r.m.stays[id]
	if !ok || s.Status != from {
		return repository.ErrNotFound
	}
	s.Status = to
	r.m.stays[id] = s
	return nil
}

func (r *memRoomStayRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.stays[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.m.stays, id)
	return nil
}

type memServiceBookingRepo struct{ m *memStore }

func (r *memServiceBookingRepo) Create(_ context.Context, booking *entity.ServiceBooking) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	r.m.bookings[booking.ID] = *booking
	return nil
}

func (r *memServiceBookingRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.ServiceBooking, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	b, ok := r.m.bookings[id]
	if !ok {
		return nil, nil
	}
	return &b, nil
}

func (r *memServiceBookingRepo) filter(keep func(entity.ServiceBooking) bool) []*entity.ServiceBooking {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []*entity.ServiceBooking
	for _, b := range r.m.bookings {
		if keep(b) {
			out = append(out, &b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

func (r *memServiceBookingRepo) FindByCart(_ context.Context, cartID uuid.UUID) ([]*entity.ServiceBooking, error) {
	return r.filter(func(b entity.ServiceBooking) bool { return b.CartID != nil && *b.CartID == cartID }), nil
}

func (r *memServiceBookingRepo) FindByCustomer(_ context.Context, customerID uuid.UUID, status entity.LineStatus) ([]*entity.ServiceBooking, error) {
	return r.filter(func(b entity.ServiceBooking) bool {
		return b.CustomerID != nil && *b.CustomerID == customerID && b.Status == status
	}), nil
}

func (r *memServiceBookingRepo) FindByService(_ context.Context, serviceID *uuid.UUID, limit, offset int) ([]*entity.ServiceBooking, error) {
	return page(r.filter(func(b entity.ServiceBooking) bool {
		return serviceID == nil || b.ServiceID == *serviceID
	}), limit, offset), nil
}

func (r *memServiceBookingRepo) UpdateStatus(_ context.Context, id uuid.UUID, from, to entity.LineStatus) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	b, ok := r.m.bookings[id]
	if !ok || b.Status != from {
		return repository.ErrNotFound
	}
	b.Status = to
	r.m.bookings[id] = b
	return nil
}

func (r *memServiceBookingRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.bookings[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.m.bookings, id)
	return nil
}

// ==================== PAYMENTS ====================

type memPaymentRepo struct{ m *memStore }

func (r *memPaymentRepo) Create(_ context.Context, p *entity.Payment) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	r.m.payments[p.ID] = *p
	return nil
}

func (r *memPaymentRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Payment, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	p, ok := r.m.payments[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *memPaymentRepo) FindByCartID(_ context.Context, cartID uuid.UUID) (*entity.Payment, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, p := range r.m.payments {
		if p.CartID == cartID {
			return &p, nil
		}
	}
	return nil, nil
}

func (r *memPaymentRepo) FindByExternalRef(_ context.Context, ref string) (*entity.Payment, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, p := range r.m.payments {
		if p.ExternalRef != nil && *p.ExternalRef == ref {
			return &p, nil
		}
	}
	return nil, nil
}

func (r *memPaymentRepo) Complete(_ context.Context, payment *entity.Payment) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	p, ok := r.m.payments[payment.ID]
	if !ok || p.Status != entity.PaymentStatusPending {
		return repository.ErrNotFound
	}
	payment.Status = entity.PaymentStatusCompleted
	r.m.payments[payment.ID] = *payment
	return nil
}

func (r *memPaymentRepo) UpdateStatus(_ context.Context, id uuid.UUID, status entity.PaymentStatus) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	p, ok := r.m.payments[id]
	if !ok {
		return repository.ErrNotFound
	}
	p.Status = status
	r.m.payments[id] = p
	return nil
}

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return nil
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}

// ==================== COLLABORATORS ====================

type fakePublisher struct {
	mu   sync.Mutex
	sent []queue.ReceiptMessage
	err  error
}

func (p *fakePublisher) PublishReceipt(_ context.Context, msg queue.ReceiptMessage) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.sent = append(p.sent, msg)
	return nil
}

type fakeGateway struct {
	got     payment.SessionRequest
	session *payment.Session
	err     error
}

func (g *fakeGateway) CreateSession(_ context.Context, req payment.SessionRequest) (*payment.Session, error) {
	g.got = req
	if g.err != nil {
		return nil, g.err
	}
	return g.session, nil
}

// ==================== SEED HELPERS ====================

func (m *memStore) seedCategory(name string, rate entity.Money, rooms int) (*entity.RoomCategory, []*entity.Room) {
	m.mu.Lock()
	defer m.mu.Unlock()

	category := entity.RoomCategory{
		BaseNoDelete: entity.BaseNoDelete{ID: uuid.New()},
		Name:         name,
		Capacity:     2,
		NightlyRate:  rate,
	}
	m.categories[category.ID] = category

	var out []*entity.Room
	for i := 0; i < rooms; i++ {
		room := entity.Room{
			BaseNoDelete: entity.BaseNoDelete{ID: uuid.New()},
			Number:       fmt.Sprintf("%s-%d", name, 101+i),
			CategoryID:   category.ID,
			State:        entity.RoomStateAvailable,
		}
		m.rooms[room.ID] = room
		out = append(out, &room)
	}
	return &category, out
}

func (m *memStore) seedCustomer(email string, points int) (*entity.User, *entity.Customer) {
	m.mu.Lock()
	defer m.mu.Unlock()

	user := entity.User{
		Base:     entity.Base{ID: uuid.New()},
		Email:    email,
		Role:     entity.RoleCustomer,
		IsActive: true,
	}
	customer := entity.Customer{
		Base:          entity.Base{ID: uuid.New()},
		UserID:        user.ID,
		FirstName:     "Ada",
		LastName:      email,
		PointsBalance: points,
	}
	m.users[user.ID] = user
	m.customers[customer.ID] = customer
	return &user, &customer
}

func (m *memStore) seedService(name string, price *entity.Money) *entity.Service {
	m.mu.Lock()
	defer m.mu.Unlock()

	service := entity.Service{
		BaseNoDelete: entity.BaseNoDelete{ID: uuid.New()},
		Name:         name,
		Price:        price,
		Category:     "wellness",
	}
	m.services[service.ID] = service
	return &service
}

func (m *memStore) customer(id uuid.UUID) entity.Customer {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.customers[id]
}

func (m *memStore) room(id uuid.UUID) entity.Room {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rooms[id]
}

func (m *memStore) stay(id uuid.UUID) entity.RoomStay {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stays[id]
}

func (m *memStore) cartOf(customerID uuid.UUID) (entity.Cart, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.carts {
		if c.CustomerID == customerID {
			return c, true
		}
	}
	return entity.Cart{}, false
}

func staffAccess(admin, rooms bool, serviceID *uuid.UUID) entity.Access {
	return entity.Access{
		UserID:       uuid.New(),
		Role:         entity.RoleStaff,
		IsAdmin:      admin,
		ManagesRooms: rooms,
		ServiceID:    serviceID,
	}
}

func moneyPtr(m entity.Money) *entity.Money { return &m }
