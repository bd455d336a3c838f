// Package pg implements the identity and collab stores over PostgreSQL for
// deployments that outgrow the JSON file store. The unique index on the
// normalized email enforces the same duplicate-registration invariant the
// file store provides with its mutex, and ticket consumption is a single
// conditional UPDATE.
package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"acadcollab.org/internal/auth"
	"acadcollab.org/internal/collab"
	"acadcollab.org/internal/identity"
)

var (
	_ identity.Store = (*Store)(nil)
	_ collab.Store   = (*Store)(nil)
)

// Store implements identity.Store and collab.Store using PostgreSQL.
type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Schema contains the DDL the store expects. Identity columns keep record
// ids monotonic and never reused.
const Schema = `
create table if not exists users (
    id               bigint generated always as identity primary key,
    name             text not null,
    email            text not null,
    password_hash    text not null,
    role             text not null,
    created_at       timestamptz not null default now(),
    reset_ticket     text,
    reset_expires_at timestamptz
);
create unique index if not exists users_email_key on users (lower(email));

create table if not exists projects (
    id                bigint generated always as identity primary key,
    title             text not null,
    short_description text not null default '',
    description       text not null default '',
    status            text not null,
    created_at        timestamptz not null default now()
);

create table if not exists documents (
    id         bigint generated always as identity primary key,
    project_id bigint not null,
    name       text not null,
    size       bigint not null,
    date       timestamptz not null
);
create index if not exists documents_project_idx on documents (project_id);

create table if not exists messages (
    id         bigint generated always as identity primary key,
    project_id bigint not null,
    sender     text not null,
    text       text not null,
    date       timestamptz not null
);
create index if not exists messages_project_idx on messages (project_id);
`

// EnsureSchema applies the DDL. Safe to run on every start.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

// Ping probes connectivity for the readiness endpoint.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}

// Users --------------------------------------------------------------------

func (s *Store) CreateUser(ctx context.Context, u *identity.User) error {
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	err := s.db.QueryRowContext(ctx,
		`insert into users (name, email, password_hash, role, created_at)
		 values ($1, $2, $3, $4, $5) returning id`,
		u.Name, u.Email, u.PasswordHash, string(u.Role), u.CreatedAt,
	).Scan(&u.ID)
	if isUniqueViolation(err) {
		return identity.ErrDuplicateEmail
	}
	return err
}

const userColumns = `id, name, email, password_hash, role, created_at, reset_ticket, reset_expires_at`

func scanUser(row interface{ Scan(...any) error }) (*identity.User, error) {
	var (
		u       identity.User
		role    string
		ticket  sql.NullString
		expires sql.NullTime
	)
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &role, &u.CreatedAt, &ticket, &expires); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, identity.ErrNotFound
		}
		return nil, err
	}
	u.Role = auth.Role(role)
	u.ResetTicket = ticket.String
	if expires.Valid {
		u.ResetExpiresAt = expires.Time
	}
	return &u, nil
}

func (s *Store) UserByEmail(ctx context.Context, email string) (*identity.User, error) {
	row := s.db.QueryRowContext(ctx,
		`select `+userColumns+` from users where lower(email) = lower($1)`, email)
	return scanUser(row)
}

func (s *Store) UserByID(ctx context.Context, id int64) (*identity.User, error) {
	row := s.db.QueryRowContext(ctx,
		`select `+userColumns+` from users where id = $1`, id)
	return scanUser(row)
}

func (s *Store) ListUsers(ctx context.Context) ([]*identity.User, error) {
	rows, err := s.db.QueryContext(ctx,
		`select `+userColumns+` from users order by id asc`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*identity.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (s *Store) SetResetTicket(ctx context.Context, id int64, ticket string, expiresAt time.Time) error {
	res, err := s.db.ExecContext(ctx,
		`update users set reset_ticket = $1, reset_expires_at = $2 where id = $3`,
		ticket, expiresAt, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return identity.ErrNotFound
	}
	return nil
}

func (s *Store) ConsumeResetTicket(ctx context.Context, ticket string, now time.Time, newHash string) (*identity.User, error) {
	row := s.db.QueryRowContext(ctx,
		`update users
		    set password_hash = $1, reset_ticket = null, reset_expires_at = null
		  where reset_ticket = $2 and reset_expires_at > $3
		 returning `+userColumns,
		newHash, ticket, now)
	return scanUser(row)
}

func (s *Store) DeleteUser(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, `delete from users where id = $1`, id)
	return err
}
