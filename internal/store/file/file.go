// Package file persists the whole document graph as a single JSON file,
// in the style of a json-server db.json. The graph is held in memory
// and every mutation runs inside one mutex-guarded critical section, which is
// what makes the duplicate-email check plus insert and the reset-ticket
// consume atomic. Writes go to a temp file and rename into place.
package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"acadcollab.org/internal/collab"
	"acadcollab.org/internal/identity"
)

var (
	_ identity.Store = (*Store)(nil)
	_ collab.Store   = (*Store)(nil)
)

type document struct {
	Users     []*identity.User   `json:"users"`
	Projects  []*collab.Project  `json:"projects"`
	Documents []*collab.Document `json:"documents"`
	Messages  []*collab.Message  `json:"messages"`
}

// Store implements identity.Store and collab.Store over a JSON document file.
type Store struct {
	mu   sync.Mutex
	path string
	doc  document
}

// Open loads the document graph at path, starting empty when the file does
// not exist yet.
func Open(path string) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("store path is required")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create store directory: %w", err)
		}
	}
	s := &Store{path: path}
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return s, nil
	case err != nil:
		return nil, fmt.Errorf("read store file: %w", err)
	}
	if len(data) == 0 {
		return s, nil
	}
	if err := json.Unmarshal(data, &s.doc); err != nil {
		return nil, fmt.Errorf("decode store file: %w", err)
	}
	return s, nil
}

// Ping reports whether the backing file location is writable.
func (s *Store) Ping(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.flushLocked()
}

func (s *Store) flushLocked() error {
	data, err := json.MarshalIndent(s.doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode store file: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write store file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace store file: %w", err)
	}
	return nil
}

// Users --------------------------------------------------------------------

func (s *Store) CreateUser(ctx context.Context, u *identity.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var maxID int64
	for _, existing := range s.doc.Users {
		if strings.EqualFold(existing.Email, u.Email) {
			return identity.ErrDuplicateEmail
		}
		if existing.ID > maxID {
			maxID = existing.ID
		}
	}
	u.ID = maxID + 1
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	rec := *u
	s.doc.Users = append(s.doc.Users, &rec)
	return s.flushLocked()
}

func (s *Store) UserByEmail(ctx context.Context, email string) (*identity.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.doc.Users {
		if strings.EqualFold(u.Email, email) {
			out := *u
			return &out, nil
		}
	}
	return nil, identity.ErrNotFound
}

func (s *Store) UserByID(ctx context.Context, id int64) (*identity.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.doc.Users {
		if u.ID == id {
			out := *u
			return &out, nil
		}
	}
	return nil, identity.ErrNotFound
}

func (s *Store) ListUsers(ctx context.Context) ([]*identity.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*identity.User, 0, len(s.doc.Users))
	for _, u := range s.doc.Users {
		rec := *u
		out = append(out, &rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) SetResetTicket(ctx context.Context, id int64, ticket string, expiresAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.doc.Users {
		if u.ID == id {
			u.ResetTicket = ticket
			u.ResetExpiresAt = expiresAt
			return s.flushLocked()
		}
	}
	return identity.ErrNotFound
}

func (s *Store) ConsumeResetTicket(ctx context.Context, ticket string, now time.Time, newHash string) (*identity.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.doc.Users {
		if u.ResetTicket == "" || u.ResetTicket != ticket {
			continue
		}
		if !now.Before(u.ResetExpiresAt) {
			continue
		}
		u.PasswordHash = newHash
		u.ResetTicket = ""
		u.ResetExpiresAt = time.Time{}
		if err := s.flushLocked(); err != nil {
			return nil, err
		}
		out := *u
		return &out, nil
	}
	return nil, identity.ErrNotFound
}

func (s *Store) DeleteUser(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.doc.Users[:0]
	removed := false
	for _, u := range s.doc.Users {
		if u.ID == id {
			removed = true
			continue
		}
		kept = append(kept, u)
	}
	s.doc.Users = kept
	if !removed {
		return nil
	}
	return s.flushLocked()
}

// Projects -----------------------------------------------------------------

func (s *Store) CreateProject(ctx context.Context, p *collab.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var maxID int64
	for _, existing := range s.doc.Projects {
		if existing.ID > maxID {
			maxID = existing.ID
		}
	}
	p.ID = maxID + 1
	rec := *p
	s.doc.Projects = append(s.doc.Projects, &rec)
	return s.flushLocked()
}

func (s *Store) ListProjects(ctx context.Context) ([]*collab.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*collab.Project, 0, len(s.doc.Projects))
	for _, p := range s.doc.Projects {
		rec := *p
		out = append(out, &rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) ProjectByID(ctx context.Context, id int64) (*collab.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.doc.Projects {
		if p.ID == id {
			out := *p
			return &out, nil
		}
	}
	return nil, collab.ErrNotFound
}

func (s *Store) DeleteProject(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.doc.Projects[:0]
	removed := false
	for _, p := range s.doc.Projects {
		if p.ID == id {
			removed = true
			continue
		}
		kept = append(kept, p)
	}
	s.doc.Projects = kept
	if !removed {
		return nil
	}
	return s.flushLocked()
}

// Documents ----------------------------------------------------------------

func (s *Store) CreateDocument(ctx context.Context, d *collab.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var maxID int64
	for _, existing := range s.doc.Documents {
		if existing.ID > maxID {
			maxID = existing.ID
		}
	}
	d.ID = maxID + 1
	rec := *d
	s.doc.Documents = append(s.doc.Documents, &rec)
	return s.flushLocked()
}

func (s *Store) ListDocuments(ctx context.Context, projectID int64) ([]*collab.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*collab.Document, 0, len(s.doc.Documents))
	for _, d := range s.doc.Documents {
		if projectID > 0 && d.ProjectID != projectID {
			continue
		}
		rec := *d
		out = append(out, &rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Messages -----------------------------------------------------------------

func (s *Store) CreateMessage(ctx context.Context, m *collab.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var maxID int64
	for _, existing := range s.doc.Messages {
		if existing.ID > maxID {
			maxID = existing.ID
		}
	}
	m.ID = maxID + 1
	rec := *m
	s.doc.Messages = append(s.doc.Messages, &rec)
	return s.flushLocked()
}

func (s *Store) ListMessages(ctx context.Context, projectID int64) ([]*collab.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*collab.Message, 0, len(s.doc.Messages))
	for _, m := range s.doc.Messages {
		if projectID > 0 && m.ProjectID != projectID {
			continue
		}
		rec := *m
		out = append(out, &rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
