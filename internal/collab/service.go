package collab

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Service validates and records collaboration activity. Authorization is
// decided before calls reach here; every operation only requires an
// authenticated caller.
type Service struct {
	store Store
	now   func() time.Time
}

// ServiceOption configures Service behavior.
type ServiceOption func(*Service)

// WithClock overrides the time source.
func WithClock(fn func() time.Time) ServiceOption {
	return func(s *Service) {
		if fn != nil {
			s.now = fn
		}
	}
}

// NewService constructs a Service over the given store.
func NewService(store Store, opts ...ServiceOption) (*Service, error) {
	if store == nil {
		return nil, errors.New("collab store is required")
	}
	s := &Service{store: store, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// CreateProject records a project; status defaults to Ongoing.
func (s *Service) CreateProject(ctx context.Context, title, shortDescription, description, status string) (*Project, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	status = strings.TrimSpace(status)
	if status == "" {
		status = StatusOngoing
	}
	p := &Project{
		Title:            title,
		ShortDescription: strings.TrimSpace(shortDescription),
		Description:      strings.TrimSpace(description),
		Status:           status,
		CreatedAt:        s.now().UTC(),
	}
	if err := s.store.CreateProject(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) ListProjects(ctx context.Context) ([]*Project, error) {
	return s.store.ListProjects(ctx)
}

func (s *Service) GetProject(ctx context.Context, id int64) (*Project, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: project id must be positive", ErrInvalidInput)
	}
	return s.store.ProjectByID(ctx, id)
}

// DeleteProject removes the project. Documents and messages keep their
// projectId reference; cleanup is a client concern.
func (s *Service) DeleteProject(ctx context.Context, id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: project id must be positive", ErrInvalidInput)
	}
	return s.store.DeleteProject(ctx, id)
}

// AddDocument records uploaded file metadata for a project.
func (s *Service) AddDocument(ctx context.Context, projectID int64, name string, size int64, date time.Time) (*Document, error) {
	if projectID <= 0 {
		return nil, fmt.Errorf("%w: projectId is required", ErrInvalidInput)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: document name is required", ErrInvalidInput)
	}
	if size < 0 {
		return nil, fmt.Errorf("%w: size must be >= 0", ErrInvalidInput)
	}
	if date.IsZero() {
		date = s.now().UTC()
	}
	d := &Document{ProjectID: projectID, Name: name, Size: size, Date: date}
	if err := s.store.CreateDocument(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *Service) ListDocuments(ctx context.Context, projectID int64) ([]*Document, error) {
	return s.store.ListDocuments(ctx, projectID)
}

// PostMessage records a chat line in a project.
func (s *Service) PostMessage(ctx context.Context, projectID int64, sender, text string) (*Message, error) {
	if projectID <= 0 {
		return nil, fmt.Errorf("%w: projectId is required", ErrInvalidInput)
	}
	sender = strings.TrimSpace(sender)
	if sender == "" {
		return nil, fmt.Errorf("%w: sender is required", ErrInvalidInput)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("%w: text is required", ErrInvalidInput)
	}
	m := &Message{ProjectID: projectID, Sender: sender, Text: text, Date: s.now().UTC()}
	if err := s.store.CreateMessage(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *Service) ListMessages(ctx context.Context, projectID int64) ([]*Message, error) {
	return s.store.ListMessages(ctx, projectID)
}
