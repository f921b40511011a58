package repos

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/engYuns/rengintech/internal/domain"
)

// adminRecord is the on-disk admin shape; unlike domain.Admin it keeps the hash.
type adminRecord struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type fileDoc struct {
	Admins   []adminRecord    `json:"admins"`
	Clients  []domain.Client  `json:"clients"`
	Reviews  []domain.Review  `json:"reviews"`
	Bookings []domain.Booking `json:"bookings"`
}

// FileStore is the memory backend plus a JSON snapshot of all four
// collections rewritten after every mutation.
type FileStore struct {
	*Memory
	path string
}

// OpenFile loads the snapshot at path, creating it with empty collections when
// it does not exist. An unreadable or corrupt snapshot is an error.
func OpenFile(path string) (*FileStore, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("data file path is required")
	}
	fsStore := &FileStore{Memory: NewMemory(), path: filepath.Clean(path)}
	fsStore.persist = fsStore.flush

	raw, err := os.ReadFile(fsStore.path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		if err := os.MkdirAll(filepath.Dir(fsStore.path), 0o755); err != nil {
			return nil, persistErr("create data dir", err)
		}
		if err := fsStore.flush(); err != nil {
			return nil, persistErr("create data file", err)
		}
		return fsStore, nil
	case err != nil:
		return nil, persistErr("read data file", err)
	}

	var doc fileDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("data file %s is corrupt: %w", fsStore.path, err)
	}
	fsStore.load(doc)
	return fsStore, nil
}

// Path returns the snapshot location.
func (s *FileStore) Path() string { return s.path }

func (s *FileStore) load(doc fileDoc) {
	for _, a := range doc.Admins {
		s.admins.put(a.ID, domain.Admin{ID: a.ID, Username: a.Username, Password: a.Password})
	}
	for _, c := range doc.Clients {
		s.clients.put(c.ID, c)
	}
	for _, r := range doc.Reviews {
		s.reviews.put(r.ID, r)
	}
	for _, b := range doc.Bookings {
		s.bookings.put(b.ID, b)
	}
}

func (s *FileStore) snapshot() fileDoc {
	doc := fileDoc{
		Admins:   []adminRecord{},
		Clients:  s.clients.all(),
		Reviews:  s.reviews.all(),
		Bookings: s.bookings.all(),
	}
	for _, a := range s.admins.all() {
		doc.Admins = append(doc.Admins, adminRecord{ID: a.ID, Username: a.Username, Password: a.Password})
	}
	return doc
}

// flush writes the whole snapshot to a temp file and renames it over the
// previous one. Callers hold the write lock (or own the store exclusively).
func (s *FileStore) flush() error {
	b, err := json.MarshalIndent(s.snapshot(), "", "  ")
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return err
	}
	defer func() { _ = os.Remove(tmp.Name()) }()
	if _, err := tmp.Write(b); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), s.path)
}
