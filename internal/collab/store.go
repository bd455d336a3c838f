package collab

import "context"

// Store describes persistence for collaboration records. Ids are allocated
// per collection with the same max-existing-plus-one rule as identities.
type Store interface {
	CreateProject(ctx context.Context, p *Project) error
	ListProjects(ctx context.Context) ([]*Project, error)
	ProjectByID(ctx context.Context, id int64) (*Project, error)
	DeleteProject(ctx context.Context, id int64) error

	CreateDocument(ctx context.Context, d *Document) error
	// ListDocuments filters by project when projectID > 0.
	ListDocuments(ctx context.Context, projectID int64) ([]*Document, error)

	CreateMessage(ctx context.Context, m *Message) error
	// ListMessages filters by project when projectID > 0.
	ListMessages(ctx context.Context, projectID int64) ([]*Message, error)
}
