package repos

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/engYuns/rengintech/internal/domain"
)

// table keeps records by id and remembers insertion order for listings.
type table[T any] struct {
	rows  map[string]T
	order []string
}

func newTable[T any]() *table[T] {
	return &table[T]{rows: map[string]T{}}
}

func (t *table[T]) get(id string) (T, bool) {
	v, ok := t.rows[id]
	return v, ok
}

func (t *table[T]) put(id string, v T) {
	if _, ok := t.rows[id]; !ok {
		t.order = append(t.order, id)
	}
	t.rows[id] = v
}

// remove deletes id and returns its former position, or -1.
func (t *table[T]) remove(id string) int {
	if _, ok := t.rows[id]; !ok {
		return -1
	}
	delete(t.rows, id)
	for i, x := range t.order {
		if x == id {
			t.order = append(t.order[:i], t.order[i+1:]...)
			return i
		}
	}
	return -1
}

func (t *table[T]) insertAt(i int, id string, v T) {
	t.rows[id] = v
	t.order = append(t.order, "")
	copy(t.order[i+1:], t.order[i:])
	t.order[i] = id
}

func (t *table[T]) all() []T {
	out := make([]T, 0, len(t.order))
	for _, id := range t.order {
		out = append(out, t.rows[id])
	}
	return out
}

func (t *table[T]) filter(keep func(T) bool) []T {
	out := []T{}
	for _, id := range t.order {
		if v := t.rows[id]; keep(v) {
			out = append(out, v)
		}
	}
	return out
}

// Memory is the in-process backend. It also carries the record logic of the
// file backend, which installs a persist hook run after every mutation.
type Memory struct {
	mu       sync.RWMutex
	admins   *table[domain.Admin]
	clients  *table[domain.Client]
	reviews  *table[domain.Review]
	bookings *table[domain.Booking]

	persist func() error
	now     func() time.Time
}

func NewMemory() *Memory {
	return &Memory{
		admins:   newTable[domain.Admin](),
		clients:  newTable[domain.Client](),
		reviews:  newTable[domain.Review](),
		bookings: newTable[domain.Booking](),
		now:      func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
	}
}

// commit runs the persist hook; on failure the mutation is undone.
// Callers hold the write lock.
func (m *Memory) commit(op string, undo func()) error {
	if m.persist == nil {
		return nil
	}
	if err := m.persist(); err != nil {
		undo()
		return persistErr(op, err)
	}
	return nil
}

func (m *Memory) Close() error { return nil }

func (m *Memory) GetAdminByUsername(_ context.Context, username string) (domain.Admin, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, a := range m.admins.all() {
		if a.Username == username {
			return a, nil
		}
	}
	return domain.Admin{}, ErrNotFound
}

func (m *Memory) CreateAdmin(_ context.Context, in domain.NewAdmin) (domain.Admin, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.admins.all() {
		if a.Username == in.Username {
			return domain.Admin{}, ErrDuplicate
		}
	}
	a := domain.Admin{ID: uuid.NewString(), Username: in.Username, Password: in.Password}
	m.admins.put(a.ID, a)
	if err := m.commit("create admin", func() { m.admins.remove(a.ID) }); err != nil {
		return domain.Admin{}, err
	}
	return a, nil
}

func (m *Memory) GetAllClients(context.Context) ([]domain.Client, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.clients.all(), nil
}

func (m *Memory) GetClient(_ context.Context, id string) (domain.Client, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.clients.get(id)
	if !ok {
		return domain.Client{}, ErrNotFound
	}
	return c, nil
}

func (m *Memory) CreateClient(_ context.Context, in domain.NewClient) (domain.Client, error) {
	c := domain.Client{
		ID:          uuid.NewString(),
		Name:        in.Name,
		Category:    in.Category,
		Description: in.Description,
		CreatedAt:   m.now(),
	}
	if in.LogoURL != nil {
		logo := *in.LogoURL
		c.LogoURL = &logo
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clients.put(c.ID, c)
	if err := m.commit("create client", func() { m.clients.remove(c.ID) }); err != nil {
		return domain.Client{}, err
	}
	return c, nil
}

func (m *Memory) UpdateClient(_ context.Context, id string, patch domain.ClientPatch) (domain.Client, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	prev, ok := m.clients.get(id)
	if !ok {
		return domain.Client{}, ErrNotFound
	}
	next := prev
	patch.Apply(&next)
	m.clients.put(id, next)
	if err := m.commit("update client", func() { m.clients.put(id, prev) }); err != nil {
		return domain.Client{}, err
	}
	return next, nil
}

func (m *Memory) DeleteClient(_ context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	prev, ok := m.clients.get(id)
	if !ok {
		return false, nil
	}
	pos := m.clients.remove(id)
	if err := m.commit("delete client", func() { m.clients.insertAt(pos, id, prev) }); err != nil {
		return false, err
	}
	return true, nil
}

func (m *Memory) GetAllReviews(context.Context) ([]domain.Review, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.reviews.all(), nil
}

func (m *Memory) GetApprovedReviews(context.Context) ([]domain.Review, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.reviews.filter(func(r domain.Review) bool { return r.Approved }), nil
}

func (m *Memory) GetReview(_ context.Context, id string) (domain.Review, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.reviews.get(id)
	if !ok {
		return domain.Review{}, ErrNotFound
	}
	return r, nil
}

func (m *Memory) CreateReview(_ context.Context, in domain.NewReview) (domain.Review, error) {
	r := domain.Review{
		ID:        uuid.NewString(),
		Name:      in.Name,
		Company:   in.Company,
		Rating:    in.Rating,
		Text:      in.Text,
		CreatedAt: m.now(),
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reviews.put(r.ID, r)
	if err := m.commit("create review", func() { m.reviews.remove(r.ID) }); err != nil {
		return domain.Review{}, err
	}
	return r, nil
}

func (m *Memory) ApproveReview(_ context.Context, id string) (domain.Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	prev, ok := m.reviews.get(id)
	if !ok {
		return domain.Review{}, ErrNotFound
	}
	if prev.Approved {
		return prev, nil
	}
	next := prev
	next.Approved = true
	m.reviews.put(id, next)
	if err := m.commit("approve review", func() { m.reviews.put(id, prev) }); err != nil {
		return domain.Review{}, err
	}
	return next, nil
}

func (m *Memory) DeleteReview(_ context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	prev, ok := m.reviews.get(id)
	if !ok {
		return false, nil
	}
	pos := m.reviews.remove(id)
	if err := m.commit("delete review", func() { m.reviews.insertAt(pos, id, prev) }); err != nil {
		return false, err
	}
	return true, nil
}

func (m *Memory) GetAllBookings(context.Context) ([]domain.Booking, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.bookings.all(), nil
}

func (m *Memory) CreateBooking(_ context.Context, in domain.NewBooking) (domain.Booking, error) {
	b := domain.Booking{
		ID:        uuid.NewString(),
		Name:      in.Name,
		Email:     in.Email,
		Phone:     in.Phone,
		Service:   in.Service,
		Message:   in.Message,
		CreatedAt: m.now(),
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bookings.put(b.ID, b)
	if err := m.commit("create booking", func() { m.bookings.remove(b.ID) }); err != nil {
		return domain.Booking{}, err
	}
	return b, nil
}

func (m *Memory) MarkBookingAsRead(_ context.Context, id string) (domain.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	prev, ok := m.bookings.get(id)
	if !ok {
		return domain.Booking{}, ErrNotFound
	}
	if prev.Read {
		return prev, nil
	}
	next := prev
	next.Read = true
	m.bookings.put(id, next)
	if err := m.commit("mark booking read", func() { m.bookings.put(id, prev) }); err != nil {
		return domain.Booking{}, err
	}
	return next, nil
}
