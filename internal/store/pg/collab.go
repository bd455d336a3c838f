package pg

import (
	"context"
	"database/sql"
	"errors"

	"acadcollab.org/internal/collab"
)

// Projects -----------------------------------------------------------------

func (s *Store) CreateProject(ctx context.Context, p *collab.Project) error {
	return s.db.QueryRowContext(ctx,
		`insert into projects (title, short_description, description, status, created_at)
		 values ($1, $2, $3, $4, $5) returning id`,
		p.Title, p.ShortDescription, p.Description, p.Status, p.CreatedAt,
	).Scan(&p.ID)
}

const projectColumns = `id, title, short_description, description, status, created_at`

func scanProject(row interface{ Scan(...any) error }) (*collab.Project, error) {
	var p collab.Project
	if err := row.Scan(&p.ID, &p.Title, &p.ShortDescription, &p.Description, &p.Status, &p.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, collab.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (s *Store) ListProjects(ctx context.Context) ([]*collab.Project, error) {
	rows, err := s.db.QueryContext(ctx,
		`select `+projectColumns+` from projects order by id asc`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*collab.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *Store) ProjectByID(ctx context.Context, id int64) (*collab.Project, error) {
	row := s.db.QueryRowContext(ctx,
		`select `+projectColumns+` from projects where id = $1`, id)
	return scanProject(row)
}

func (s *Store) DeleteProject(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, `delete from projects where id = $1`, id)
	return err
}

// Documents ----------------------------------------------------------------

func (s *Store) CreateDocument(ctx context.Context, d *collab.Document) error {
	return s.db.QueryRowContext(ctx,
		`insert into documents (project_id, name, size, date)
		 values ($1, $2, $3, $4) returning id`,
		d.ProjectID, d.Name, d.Size, d.Date,
	).Scan(&d.ID)
}

func (s *Store) ListDocuments(ctx context.Context, projectID int64) ([]*collab.Document, error) {
	query := `select id, project_id, name, size, date from documents`
	args := []any{}
	if projectID > 0 {
		query += ` where project_id = $1`
		args = append(args, projectID)
	}
	query += ` order by id asc`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*collab.Document
	for rows.Next() {
		var d collab.Document
		if err := rows.Scan(&d.ID, &d.ProjectID, &d.Name, &d.Size, &d.Date); err != nil {
			return nil, err
		}
		out = append(out, &d)
	}
	return out, rows.Err()
}

// Messages -----------------------------------------------------------------

func (s *Store) CreateMessage(ctx context.Context, m *collab.Message) error {
	return s.db.QueryRowContext(ctx,
		`insert into messages (project_id, sender, text, date)
		 values ($1, $2, $3, $4) returning id`,
		m.ProjectID, m.Sender, m.Text, m.Date,
	).Scan(&m.ID)
}

func (s *Store) ListMessages(ctx context.Context, projectID int64) ([]*collab.Message, error) {
	query := `select id, project_id, sender, text, date from messages`
	args := []any{}
	if projectID > 0 {
		query += ` where project_id = $1`
		args = append(args, projectID)
	}
	query += ` order by id asc`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*collab.Message
	for rows.Next() {
		var m collab.Message
		if err := rows.Scan(&m.ID, &m.ProjectID, &m.Sender, &m.Text, &m.Date); err != nil {
			return nil, err
		}
		out = append(out, &m)
	}
	return out, rows.Err()
}
