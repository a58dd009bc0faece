// Package store defines the persistence contracts the matching core depends
// on. The core never touches a concrete backend; everything is injected so
// tests can run against the in-memory implementation.
package store

import (
	"context"
	"errors"
	"time"

	"jobmatch/pkg/models"
)

var (
	// ErrNotFound is returned when a referenced entity does not exist
	ErrNotFound = errors.New("not found")

	// ErrDuplicate is returned when an insert would violate a uniqueness
	// rule, e.g. a second application for the same (user, job) pair
	ErrDuplicate = errors.New("already exists")

	// ErrStatusConflict is returned by UpdateStatus when the expected status
	// no longer matches, i.e. the application was mutated concurrently
	ErrStatusConflict = errors.New("status changed concurrently")
)

// UserStore persists user profiles
type UserStore interface {
	Find(ctx context.Context, id string) (*models.UserProfile, error)
	FindByEmail(ctx context.Context, email string) (*models.UserProfile, error)
	List(ctx context.Context) ([]*models.UserProfile, error)
	Insert(ctx context.Context, user *models.UserProfile) error
	Update(ctx context.Context, user *models.UserProfile) error
}

// JobStore persists job postings. Postings are append-only.
type JobStore interface {
	Find(ctx context.Context, id string) (*models.JobPosting, error)
	List(ctx context.Context) ([]*models.JobPosting, error)
	// ListPostedSince returns postings with Posted >= since
	ListPostedSince(ctx context.Context, since time.Time) ([]*models.JobPosting, error)
	// FindByTitleAndCompany supports ingestion dedupe
	FindByTitleAndCompany(ctx context.Context, title, company string) (*models.JobPosting, error)
	Insert(ctx context.Context, job *models.JobPosting) error
}

// ApplicationStore persists applications and enforces the one-application-
// per-(user, job) invariant on insert.
type ApplicationStore interface {
	Find(ctx context.Context, id string) (*models.Application, error)
	FindByUserAndJob(ctx context.Context, userID, jobID string) (*models.Application, error)
	List(ctx context.Context) ([]*models.Application, error)
	ListByUser(ctx context.Context, userID string) ([]*models.Application, error)
	Insert(ctx context.Context, app *models.Application) error
	Update(ctx context.Context, app *models.Application) error
	// UpdateStatus performs a compare-and-swap on the application status so
	// concurrent sweeps and user edits cannot silently overwrite each other.
	// Returns ErrStatusConflict when the current status differs from expected.
	UpdateStatus(ctx context.Context, id string, expected, next models.ApplicationStatus, at time.Time) (*models.Application, error)
}

// NotificationStore persists notifications
type NotificationStore interface {
	Find(ctx context.Context, id string) (*models.Notification, error)
	ListByUser(ctx context.Context, userID string) ([]*models.Notification, error)
	Insert(ctx context.Context, n *models.Notification) error
	Update(ctx context.Context, n *models.Notification) error
	Delete(ctx context.Context, id string) error
}

// Store bundles the per-entity stores behind a single backend
type Store interface {
	Users() UserStore
	Jobs() JobStore
	Applications() ApplicationStore
	Notifications() NotificationStore

	Ping(ctx context.Context) error
	Close() error
}
