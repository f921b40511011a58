package repos

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/engYuns/rengintech/internal/domain"
)

// SQLStore is the relational backend. Every operation is a single statement.
type SQLStore struct {
	db  *sqlx.DB
	now func() time.Time
}

// OpenSQL opens dsn (SQLite path or PostgreSQL URL) and returns a store owning
// the connection.
func OpenSQL(ctx context.Context, dsn string) (*SQLStore, error) {
	db, err := OpenDB(ctx, dsn)
	if err != nil {
		return nil, persistErr("open database", err)
	}
	return NewSQL(db), nil
}

// NewSQL wraps an already migrated connection.
func NewSQL(db *sqlx.DB) *SQLStore {
	return &SQLStore{db: db, now: func() time.Time { return time.Now().UTC() }}
}

func (s *SQLStore) Close() error { return s.db.Close() }

func toMillis(t time.Time) int64    { return t.UTC().UnixMilli() }
func fromMillis(ms int64) time.Time { return time.UnixMilli(ms).UTC() }

type adminRow struct {
	ID       string `db:"id"`
	Username string `db:"username"`
	Password string `db:"password"`
}

type clientRow struct {
	ID          string         `db:"id"`
	Name        string         `db:"name"`
	Category    string         `db:"category"`
	Description string         `db:"description"`
	LogoURL     sql.NullString `db:"logo_url"`
	CreatedAt   int64          `db:"created_at"`
}

func (r clientRow) toDomain() domain.Client {
	c := domain.Client{
		ID:          r.ID,
		Name:        r.Name,
		Category:    r.Category,
		Description: r.Description,
		CreatedAt:   fromMillis(r.CreatedAt),
	}
	if r.LogoURL.Valid {
		logo := r.LogoURL.String
		c.LogoURL = &logo
	}
	return c
}

type reviewRow struct {
	ID        string `db:"id"`
	Name      string `db:"name"`
	Company   string `db:"company"`
	Rating    int    `db:"rating"`
	Text      string `db:"text"`
	Approved  bool   `db:"approved"`
	CreatedAt int64  `db:"created_at"`
}

func (r reviewRow) toDomain() domain.Review {
	return domain.Review{
		ID:        r.ID,
		Name:      r.Name,
		Company:   r.Company,
		Rating:    r.Rating,
		Text:      r.Text,
		Approved:  r.Approved,
		CreatedAt: fromMillis(r.CreatedAt),
	}
}

type bookingRow struct {
	ID        string `db:"id"`
	Name      string `db:"name"`
	Email     string `db:"email"`
	Phone     string `db:"phone"`
	Service   string `db:"service"`
	Message   string `db:"message"`
	Read      bool   `db:"is_read"`
	CreatedAt int64  `db:"created_at"`
}

func (r bookingRow) toDomain() domain.Booking {
	return domain.Booking{
		ID:        r.ID,
		Name:      r.Name,
		Email:     r.Email,
		Phone:     r.Phone,
		Service:   r.Service,
		Message:   r.Message,
		Read:      r.Read,
		CreatedAt: fromMillis(r.CreatedAt),
	}
}

const (
	clientCols  = `id, name, category, description, logo_url, created_at`
	reviewCols  = `id, name, company, rating, text, approved, created_at`
	bookingCols = `id, name, email, phone, service, message, is_read, created_at`
)

func mapRows[R interface{ toDomain() D }, D any](rows []R) []D {
	out := make([]D, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toDomain())
	}
	return out
}

// getOne maps sql.ErrNoRows to ErrNotFound and anything else to a PersistenceError.
func getOne(op string, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return persistErr(op, err)
}

func (s *SQLStore) GetAdminByUsername(ctx context.Context, username string) (domain.Admin, error) {
	var r adminRow
	err := s.db.GetContext(ctx, &r, s.db.Rebind(`SELECT id, username, password FROM admins WHERE username = ? LIMIT 1`), username)
	if err != nil {
		return domain.Admin{}, getOne("get admin", err)
	}
	return domain.Admin{ID: r.ID, Username: r.Username, Password: r.Password}, nil
}

func (s *SQLStore) CreateAdmin(ctx context.Context, in domain.NewAdmin) (domain.Admin, error) {
	a := domain.Admin{ID: uuid.NewString(), Username: in.Username, Password: in.Password}
	_, err := s.db.ExecContext(ctx, s.db.Rebind(`INSERT INTO admins(id, username, password) VALUES(?, ?, ?)`),
		a.ID, a.Username, a.Password)
	if isUniqueViolation(err) {
		return domain.Admin{}, ErrDuplicate
	}
	if err != nil {
		return domain.Admin{}, persistErr("create admin", err)
	}
	return a, nil
}

func (s *SQLStore) GetAllClients(ctx context.Context) ([]domain.Client, error) {
	var rows []clientRow
	if err := s.db.SelectContext(ctx, &rows, `SELECT `+clientCols+` FROM clients ORDER BY created_at, id`); err != nil {
		return nil, persistErr("list clients", err)
	}
	return mapRows[clientRow, domain.Client](rows), nil
}

func (s *SQLStore) GetClient(ctx context.Context, id string) (domain.Client, error) {
	var r clientRow
	if err := s.db.GetContext(ctx, &r, s.db.Rebind(`SELECT `+clientCols+` FROM clients WHERE id = ?`), id); err != nil {
		return domain.Client{}, getOne("get client", err)
	}
	return r.toDomain(), nil
}

func (s *SQLStore) CreateClient(ctx context.Context, in domain.NewClient) (domain.Client, error) {
	r := clientRow{
		ID:          uuid.NewString(),
		Name:        in.Name,
		Category:    in.Category,
		Description: in.Description,
		CreatedAt:   toMillis(s.now()),
	}
	if in.LogoURL != nil {
		r.LogoURL = sql.NullString{String: *in.LogoURL, Valid: true}
	}
	_, err := s.db.NamedExecContext(ctx, `INSERT INTO clients(`+clientCols+`)
		VALUES(:id, :name, :category, :description, :logo_url, :created_at)`, r)
	if err != nil {
		return domain.Client{}, persistErr("create client", err)
	}
	return r.toDomain(), nil
}

// UpdateClient merges supplied fields with COALESCE so the read and the write
// happen in one statement.
func (s *SQLStore) UpdateClient(ctx context.Context, id string, patch domain.ClientPatch) (domain.Client, error) {
	var r clientRow
	err := s.db.GetContext(ctx, &r, s.db.Rebind(`
		UPDATE clients SET
		  name = COALESCE(?, name),
		  category = COALESCE(?, category),
		  description = COALESCE(?, description),
		  logo_url = COALESCE(?, logo_url)
		WHERE id = ?
		RETURNING `+clientCols),
		nullable(patch.Name), nullable(patch.Category), nullable(patch.Description), nullable(patch.LogoURL), id)
	if err != nil {
		return domain.Client{}, getOne("update client", err)
	}
	return r.toDomain(), nil
}

func nullable(p *string) sql.NullString {
	if p == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *p, Valid: true}
}

func (s *SQLStore) DeleteClient(ctx context.Context, id string) (bool, error) {
	return s.deleteByID(ctx, "delete client", `DELETE FROM clients WHERE id = ?`, id)
}

func (s *SQLStore) deleteByID(ctx context.Context, op, query, id string) (bool, error) {
	res, err := s.db.ExecContext(ctx, s.db.Rebind(query), id)
	if err != nil {
		return false, persistErr(op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, persistErr(op, err)
	}
	return n > 0, nil
}

func (s *SQLStore) GetAllReviews(ctx context.Context) ([]domain.Review, error) {
	var rows []reviewRow
	if err := s.db.SelectContext(ctx, &rows, `SELECT `+reviewCols+` FROM reviews ORDER BY created_at, id`); err != nil {
		return nil, persistErr("list reviews", err)
	}
	return mapRows[reviewRow, domain.Review](rows), nil
}

func (s *SQLStore) GetApprovedReviews(ctx context.Context) ([]domain.Review, error) {
	var rows []reviewRow
	if err := s.db.SelectContext(ctx, &rows, `SELECT `+reviewCols+` FROM reviews WHERE approved = TRUE ORDER BY created_at, id`); err != nil {
		return nil, persistErr("list approved reviews", err)
	}
	return mapRows[reviewRow, domain.Review](rows), nil
}

func (s *SQLStore) GetReview(ctx context.Context, id string) (domain.Review, error) {
	var r reviewRow
	if err := s.db.GetContext(ctx, &r, s.db.Rebind(`SELECT `+reviewCols+` FROM reviews WHERE id = ?`), id); err != nil {
		return domain.Review{}, getOne("get review", err)
	}
	return r.toDomain(), nil
}

func (s *SQLStore) CreateReview(ctx context.Context, in domain.NewReview) (domain.Review, error) {
	r := reviewRow{
		ID:        uuid.NewString(),
		Name:      in.Name,
		Company:   in.Company,
		Rating:    in.Rating,
		Text:      in.Text,
		CreatedAt: toMillis(s.now()),
	}
	_, err := s.db.NamedExecContext(ctx, `INSERT INTO reviews(`+reviewCols+`)
		VALUES(:id, :name, :company, :rating, :text, :approved, :created_at)`, r)
	if err != nil {
		return domain.Review{}, persistErr("create review", err)
	}
	return r.toDomain(), nil
}

func (s *SQLStore) ApproveReview(ctx context.Context, id string) (domain.Review, error) {
	var r reviewRow
	err := s.db.GetContext(ctx, &r, s.db.Rebind(`UPDATE reviews SET approved = TRUE WHERE id = ? RETURNING `+reviewCols), id)
	if err != nil {
		return domain.Review{}, getOne("approve review", err)
	}
	return r.toDomain(), nil
}

func (s *SQLStore) DeleteReview(ctx context.Context, id string) (bool, error) {
	return s.deleteByID(ctx, "delete review", `DELETE FROM reviews WHERE id = ?`, id)
}

func (s *SQLStore) GetAllBookings(ctx context.Context) ([]domain.Booking, error) {
	var rows []bookingRow
	if err := s.db.SelectContext(ctx, &rows, `SELECT `+bookingCols+` FROM bookings ORDER BY created_at, id`); err != nil {
		return nil, persistErr("list bookings", err)
	}
	return mapRows[bookingRow, domain.Booking](rows), nil
}

func (s *SQLStore) CreateBooking(ctx context.Context, in domain.NewBooking) (domain.Booking, error) {
	r := bookingRow{
		ID:        uuid.NewString(),
		Name:      in.Name,
		Email:     in.Email,
		Phone:     in.Phone,
		Service:   in.Service,
		Message:   in.Message,
		CreatedAt: toMillis(s.now()),
	}
	_, err := s.db.NamedExecContext(ctx, `INSERT INTO bookings(`+bookingCols+`)
		VALUES(:id, :name, :email, :phone, :service, :message, :is_read, :created_at)`, r)
	if err != nil {
		return domain.Booking{}, persistErr("create booking", err)
	}
	return r.toDomain(), nil
}

func (s *SQLStore) MarkBookingAsRead(ctx context.Context, id string) (domain.Booking, error) {
	var r bookingRow
	err := s.db.GetContext(ctx, &r, s.db.Rebind(`UPDATE bookings SET is_read = TRUE WHERE id = ? RETURNING `+bookingCols), id)
	if err != nil {
		return domain.Booking{}, getOne("mark booking read", err)
	}
	return r.toDomain(), nil
}

var (
	_ Storage = (*Memory)(nil)
	_ Storage = (*FileStore)(nil)
	_ Storage = (*SQLStore)(nil)
)
