package repos

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/engYuns/rengintech/internal/domain"
)

var (
	// ErrNotFound is returned by id-addressed operations when no record matches.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when an admin username is already taken.
	ErrDuplicate = errors.New("record already exists")
)

// PersistenceError wraps an I/O or database failure. Operations that fail with
// it have not been applied.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *PersistenceError) Unwrap() error { return e.Err }

func persistErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return &PersistenceError{Op: op, Err: err}
}

// Storage is implemented by the memory, file and SQL backends.
type Storage interface {
	GetAdminByUsername(ctx context.Context, username string) (domain.Admin, error)
	CreateAdmin(ctx context.Context, in domain.NewAdmin) (domain.Admin, error)

	GetAllClients(ctx context.Context) ([]domain.Client, error)
	GetClient(ctx context.Context, id string) (domain.Client, error)
	CreateClient(ctx context.Context, in domain.NewClient) (domain.Client, error)
	UpdateClient(ctx context.Context, id string, patch domain.ClientPatch) (domain.Client, error)
	DeleteClient(ctx context.Context, id string) (bool, error)

	GetAllReviews(ctx context.Context) ([]domain.Review, error)
	GetApprovedReviews(ctx context.Context) ([]domain.Review, error)
	GetReview(ctx context.Context, id string) (domain.Review, error)
	CreateReview(ctx context.Context, in domain.NewReview) (domain.Review, error)
	ApproveReview(ctx context.Context, id string) (domain.Review, error)
	DeleteReview(ctx context.Context, id string) (bool, error)

	GetAllBookings(ctx context.Context) ([]domain.Booking, error)
	CreateBooking(ctx context.Context, in domain.NewBooking) (domain.Booking, error)
	MarkBookingAsRead(ctx context.Context, id string) (domain.Booking, error)

	Close() error
}

// Backend names accepted by Open.
const (
	BackendAuto   = "auto"
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendSQL    = "sql"
)

type Options struct {
	Backend     string
	DatabaseURL string
	DataFile    string
}

// Resolve returns the concrete backend name: auto picks sql when a database
// URL is configured and file otherwise.
func (o Options) Resolve() string {
	b := strings.ToLower(strings.TrimSpace(o.Backend))
	if b == "" || b == BackendAuto {
		if strings.TrimSpace(o.DatabaseURL) != "" {
			return BackendSQL
		}
		return BackendFile
	}
	return b
}

// Open constructs the storage backend selected by opts.
func Open(ctx context.Context, opts Options) (Storage, error) {
	switch b := opts.Resolve(); b {
	case BackendMemory:
		return NewMemory(), nil
	case BackendFile:
		return OpenFile(opts.DataFile)
	case BackendSQL:
		if strings.TrimSpace(opts.DatabaseURL) == "" {
			return nil, errors.New("sql backend requires DATABASE_URL")
		}
		return OpenSQL(ctx, opts.DatabaseURL)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", b)
	}
}
