// Package pgstore implements store.Store on PostgreSQL via pgxpool. Nested
// profile and posting fields are kept as jsonb so the schema stays close to
// the wire models.
package pgstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"jobmatch/internal/config"
	"jobmatch/internal/store"
	"jobmatch/pkg/models"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id          TEXT PRIMARY KEY,
	email       TEXT NOT NULL,
	doc         JSONB NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL
);
CREATE UNIQUE INDEX IF NOT EXISTS users_email_idx ON users (LOWER(email));

CREATE TABLE IF NOT EXISTS jobs (
	id       TEXT PRIMARY KEY,
	title    TEXT NOT NULL,
	company  TEXT NOT NULL,
	posted   TIMESTAMPTZ NOT NULL,
	doc      JSONB NOT NULL,
	seq      BIGSERIAL
);

CREATE TABLE IF NOT EXISTS applications (
	id           TEXT PRIMARY KEY,
	user_id      TEXT NOT NULL,
	job_id       TEXT NOT NULL,
	status       TEXT NOT NULL,
	doc          JSONB NOT NULL,
	seq          BIGSERIAL,
	UNIQUE (user_id, job_id)
);

CREATE TABLE IF NOT EXISTS notifications (
	id          TEXT PRIMARY KEY,
	user_id     TEXT NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL,
	doc         JSONB NOT NULL
);
CREATE INDEX IF NOT EXISTS notifications_user_idx ON notifications (user_id, created_at DESC);
`

// Store is a PostgreSQL-backed store.Store implementation
type Store struct {
	pool *pgxpool.Pool
}

// New connects to PostgreSQL, verifies connectivity and applies the schema
func New(ctx context.Context, cfg *config.Config) (*Store, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.Postgres.DSN)
	if err != nil {
		return nil, fmt.Errorf("pgxpool.ParseConfig: %w", err)
	}
	poolCfg.MaxConns = int32(cfg.Postgres.MaxConns)
	poolCfg.ConnConfig.ConnectTimeout = cfg.Postgres.ConnectTimeout

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("pgxpool.NewWithConfig: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres ping failed: %w", err)
	}

	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &Store{pool: pool}, nil
}

func (s *Store) Users() store.UserStore                 { return &userStore{s} }
func (s *Store) Jobs() store.JobStore                   { return &jobStore{s} }
func (s *Store) Applications() store.ApplicationStore   { return &applicationStore{s} }
func (s *Store) Notifications() store.NotificationStore { return &notificationStore{s} }

func (s *Store) Ping(ctx context.Context) error { return s.pool.Ping(ctx) }

func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func scanDoc[T any](row pgx.Row) (*T, error) {
	var doc []byte
	if err := row.Scan(&doc); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}

	var entity T
	if err := json.Unmarshal(doc, &entity); err != nil {
		return nil, err
	}
	return &entity, nil
}

func collectDocs[T any](rows pgx.Rows) ([]*T, error) {
	defer rows.Close()

	var out []*T
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, err
		}
		var entity T
		if err := json.Unmarshal(doc, &entity); err != nil {
			return nil, err
		}
		out = append(out, &entity)
	}
	return out, rows.Err()
}

// userStore

type userStore struct{ *Store }

func (s *userStore) Find(ctx context.Context, id string) (*models.UserProfile, error) {
	return scanDoc[models.UserProfile](s.pool.QueryRow(ctx, `SELECT doc FROM users WHERE id = $1`, id))
}

func (s *userStore) FindByEmail(ctx context.Context, email string) (*models.UserProfile, error) {
	return scanDoc[models.UserProfile](s.pool.QueryRow(ctx, `SELECT doc FROM users WHERE LOWER(email) = LOWER($1)`, email))
}

func (s *userStore) List(ctx context.Context) ([]*models.UserProfile, error) {
	rows, err := s.pool.Query(ctx, `SELECT doc FROM users ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	return collectDocs[models.UserProfile](rows)
}

func (s *userStore) Insert(ctx context.Context, user *models.UserProfile) error {
	doc, err := json.Marshal(user)
	if err != nil {
		return err
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO users (id, email, doc, created_at) VALUES ($1, $2, $3, $4)`,
		user.ID, user.Email, doc, user.CreatedAt)
	if isUniqueViolation(err) {
		return store.ErrDuplicate
	}
	return err
}

func (s *userStore) Update(ctx context.Context, user *models.UserProfile) error {
	doc, err := json.Marshal(user)
	if err != nil {
		return err
	}

	tag, err := s.pool.Exec(ctx, `UPDATE users SET email = $2, doc = $3 WHERE id = $1`, user.ID, user.Email, doc)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

// jobStore

type jobStore struct{ *Store }

func (s *jobStore) Find(ctx context.Context, id string) (*models.JobPosting, error) {
	return scanDoc[models.JobPosting](s.pool.QueryRow(ctx, `SELECT doc FROM jobs WHERE id = $1`, id))
}

func (s *jobStore) List(ctx context.Context) ([]*models.JobPosting, error) {
	rows, err := s.pool.Query(ctx, `SELECT doc FROM jobs ORDER BY seq`)
	if err != nil {
		return nil, err
	}
	return collectDocs[models.JobPosting](rows)
}

func (s *jobStore) ListPostedSince(ctx context.Context, since time.Time) ([]*models.JobPosting, error) {
	rows, err := s.pool.Query(ctx, `SELECT doc FROM jobs WHERE posted >= $1 ORDER BY seq`, since)
	if err != nil {
		return nil, err
	}
	return collectDocs[models.JobPosting](rows)
}

func (s *jobStore) FindByTitleAndCompany(ctx context.Context, title, company string) (*models.JobPosting, error) {
	return scanDoc[models.JobPosting](s.pool.QueryRow(ctx,
		`SELECT doc FROM jobs WHERE title = $1 AND company = $2 LIMIT 1`, title, company))
}

func (s *jobStore) Insert(ctx context.Context, job *models.JobPosting) error {
	doc, err := json.Marshal(job)
	if err != nil {
		return err
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO jobs (id, title, company, posted, doc) VALUES ($1, $2, $3, $4, $5)`,
		job.ID, job.Title, job.Company, job.Posted, doc)
	if isUniqueViolation(err) {
		return store.ErrDuplicate
	}
	return err
}

// applicationStore

type applicationStore struct{ *Store }

func (s *applicationStore) Find(ctx context.Context, id string) (*models.Application, error) {
	return scanDoc[models.Application](s.pool.QueryRow(ctx, `SELECT doc FROM applications WHERE id = $1`, id))
}

func (s *applicationStore) FindByUserAndJob(ctx context.Context, userID, jobID string) (*models.Application, error) {
	return scanDoc[models.Application](s.pool.QueryRow(ctx,
		`SELECT doc FROM applications WHERE user_id = $1 AND job_id = $2`, userID, jobID))
}

func (s *applicationStore) List(ctx context.Context) ([]*models.Application, error) {
	rows, err := s.pool.Query(ctx, `SELECT doc FROM applications ORDER BY seq`)
	if err != nil {
		return nil, err
	}
	return collectDocs[models.Application](rows)
}

func (s *applicationStore) ListByUser(ctx context.Context, userID string) ([]*models.Application, error) {
	rows, err := s.pool.Query(ctx, `SELECT doc FROM applications WHERE user_id = $1 ORDER BY seq`, userID)
	if err != nil {
		return nil, err
	}
	return collectDocs[models.Application](rows)
}

func (s *applicationStore) Insert(ctx context.Context, app *models.Application) error {
	doc, err := json.Marshal(app)
	if err != nil {
		return err
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO applications (id, user_id, job_id, status, doc) VALUES ($1, $2, $3, $4, $5)`,
		app.ID, app.UserID, app.JobID, string(app.Status), doc)
	if isUniqueViolation(err) {
		return store.ErrDuplicate
	}
	return err
}

func (s *applicationStore) Update(ctx context.Context, app *models.Application) error {
	doc, err := json.Marshal(app)
	if err != nil {
		return err
	}

	tag, err := s.pool.Exec(ctx,
		`UPDATE applications SET status = $2, doc = $3 WHERE id = $1`, app.ID, string(app.Status), doc)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *applicationStore) UpdateStatus(ctx context.Context, id string, expected, next models.ApplicationStatus, at time.Time) (*models.Application, error) {
	// The status column is the CAS guard; doc is patched in the same statement
	row := s.pool.QueryRow(ctx, `
		UPDATE applications
		SET status = $3,
		    doc = jsonb_set(jsonb_set(doc, '{status}', to_jsonb($3::text)), '{last_updated}', to_jsonb($4::timestamptz))
		WHERE id = $1 AND status = $2
		RETURNING doc`,
		id, string(expected), string(next), at)

	app, err := scanDoc[models.Application](row)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Distinguish a missing row from a lost CAS race
			if _, findErr := s.Find(ctx, id); findErr == nil {
				return nil, store.ErrStatusConflict
			}
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return app, nil
}

// notificationStore

type notificationStore struct{ *Store }

func (s *notificationStore) Find(ctx context.Context, id string) (*models.Notification, error) {
	return scanDoc[models.Notification](s.pool.QueryRow(ctx, `SELECT doc FROM notifications WHERE id = $1`, id))
}

func (s *notificationStore) ListByUser(ctx context.Context, userID string) ([]*models.Notification, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT doc FROM notifications WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	return collectDocs[models.Notification](rows)
}

func (s *notificationStore) Insert(ctx context.Context, n *models.Notification) error {
	doc, err := json.Marshal(n)
	if err != nil {
		return err
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO notifications (id, user_id, created_at, doc) VALUES ($1, $2, $3, $4)`,
		n.ID, n.UserID, n.CreatedAt, doc)
	if isUniqueViolation(err) {
		return store.ErrDuplicate
	}
	return err
}

func (s *notificationStore) Update(ctx context.Context, n *models.Notification) error {
	doc, err := json.Marshal(n)
	if err != nil {
		return err
	}

	tag, err := s.pool.Exec(ctx, `UPDATE notifications SET doc = $2 WHERE id = $1`, n.ID, doc)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *notificationStore) Delete(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM notifications WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}
