// Package memory implements store.Store with mutex-guarded maps. It is the
// default backend and the deterministic double used throughout the tests.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"jobmatch/internal/store"
	"jobmatch/pkg/models"
)

// Store is an in-memory store.Store implementation. List methods return
// entities in insertion order, which the auto-apply selector relies on.
type Store struct {
	mu sync.RWMutex

	users         map[string]*models.UserProfile
	userOrder     []string
	jobs          map[string]*models.JobPosting
	jobOrder      []string
	applications  map[string]*models.Application
	appOrder      []string
	notifications map[string]*models.Notification
	notifOrder    []string
}

// New creates an empty in-memory store
func New() *Store {
	return &Store{
		users:         make(map[string]*models.UserProfile),
		jobs:          make(map[string]*models.JobPosting),
		applications:  make(map[string]*models.Application),
		notifications: make(map[string]*models.Notification),
	}
}

func (s *Store) Users() store.UserStore                 { return (*userStore)(s) }
func (s *Store) Jobs() store.JobStore                   { return (*jobStore)(s) }
func (s *Store) Applications() store.ApplicationStore   { return (*applicationStore)(s) }
func (s *Store) Notifications() store.NotificationStore { return (*notificationStore)(s) }

func (s *Store) Ping(ctx context.Context) error { return nil }
func (s *Store) Close() error                   { return nil }

// Copy helpers. Returned entities are copies so callers cannot mutate the
// store through shared slices or pointers.

func copyUser(u *models.UserProfile) *models.UserProfile {
	c := *u
	c.Skills = append([]string(nil), u.Skills...)
	c.Preferences.JobTypes = append([]string(nil), u.Preferences.JobTypes...)
	c.Preferences.Industries = append([]string(nil), u.Preferences.Industries...)
	c.Preferences.Locations = append([]string(nil), u.Preferences.Locations...)
	return &c
}

func copyJob(j *models.JobPosting) *models.JobPosting {
	c := *j
	c.Requirements = append([]string(nil), j.Requirements...)
	if j.Salary != nil {
		sal := *j.Salary
		c.Salary = &sal
	}
	return &c
}

func copyApplication(a *models.Application) *models.Application {
	c := *a
	if a.Job != nil {
		c.Job = copyJob(a.Job)
	}
	return &c
}

func copyNotification(n *models.Notification) *models.Notification {
	c := *n
	return &c
}

// userStore

type userStore Store

func (s *userStore) Find(ctx context.Context, id string) (*models.UserProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return copyUser(u), nil
}

func (s *userStore) FindByEmail(ctx context.Context, email string) (*models.UserProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, id := range s.userOrder {
		if strings.EqualFold(s.users[id].Email, email) {
			return copyUser(s.users[id]), nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *userStore) List(ctx context.Context) ([]*models.UserProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]*models.UserProfile, 0, len(s.userOrder))
	for _, id := range s.userOrder {
		users = append(users, copyUser(s.users[id]))
	}
	return users, nil
}

func (s *userStore) Insert(ctx context.Context, user *models.UserProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.users[user.ID]; exists {
		return store.ErrDuplicate
	}
	for _, id := range s.userOrder {
		if strings.EqualFold(s.users[id].Email, user.Email) {
			return store.ErrDuplicate
		}
	}

	s.users[user.ID] = copyUser(user)
	s.userOrder = append(s.userOrder, user.ID)
	return nil
}

func (s *userStore) Update(ctx context.Context, user *models.UserProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.users[user.ID]; !exists {
		return store.ErrNotFound
	}
	s.users[user.ID] = copyUser(user)
	return nil
}

// jobStore

type jobStore Store

func (s *jobStore) Find(ctx context.Context, id string) (*models.JobPosting, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	j, ok := s.jobs[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return copyJob(j), nil
}

func (s *jobStore) List(ctx context.Context) ([]*models.JobPosting, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	jobs := make([]*models.JobPosting, 0, len(s.jobOrder))
	for _, id := range s.jobOrder {
		jobs = append(jobs, copyJob(s.jobs[id]))
	}
	return jobs, nil
}

func (s *jobStore) ListPostedSince(ctx context.Context, since time.Time) ([]*models.JobPosting, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var jobs []*models.JobPosting
	for _, id := range s.jobOrder {
		if !s.jobs[id].Posted.Before(since) {
			jobs = append(jobs, copyJob(s.jobs[id]))
		}
	}
	return jobs, nil
}

func (s *jobStore) FindByTitleAndCompany(ctx context.Context, title, company string) (*models.JobPosting, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, id := range s.jobOrder {
		j := s.jobs[id]
		if j.Title == title && j.Company == company {
			return copyJob(j), nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *jobStore) Insert(ctx context.Context, job *models.JobPosting) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.jobs[job.ID]; exists {
		return store.ErrDuplicate
	}
	s.jobs[job.ID] = copyJob(job)
	s.jobOrder = append(s.jobOrder, job.ID)
	return nil
}

// applicationStore

type applicationStore Store

func (s *applicationStore) Find(ctx context.Context, id string) (*models.Application, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.applications[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return copyApplication(a), nil
}

func (s *applicationStore) FindByUserAndJob(ctx context.Context, userID, jobID string) (*models.Application, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, id := range s.appOrder {
		a := s.applications[id]
		if a.UserID == userID && a.JobID == jobID {
			return copyApplication(a), nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *applicationStore) List(ctx context.Context) ([]*models.Application, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	apps := make([]*models.Application, 0, len(s.appOrder))
	for _, id := range s.appOrder {
		apps = append(apps, copyApplication(s.applications[id]))
	}
	return apps, nil
}

func (s *applicationStore) ListByUser(ctx context.Context, userID string) ([]*models.Application, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var apps []*models.Application
	for _, id := range s.appOrder {
		if s.applications[id].UserID == userID {
			apps = append(apps, copyApplication(s.applications[id]))
		}
	}
	return apps, nil
}

func (s *applicationStore) Insert(ctx context.Context, app *models.Application) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.applications[app.ID]; exists {
		return store.ErrDuplicate
	}
	for _, id := range s.appOrder {
		existing := s.applications[id]
		if existing.UserID == app.UserID && existing.JobID == app.JobID {
			return store.ErrDuplicate
		}
	}

	s.applications[app.ID] = copyApplication(app)
	s.appOrder = append(s.appOrder, app.ID)
	return nil
}

func (s *applicationStore) Update(ctx context.Context, app *models.Application) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.applications[app.ID]; !exists {
		return store.ErrNotFound
	}
	s.applications[app.ID] = copyApplication(app)
	return nil
}

func (s *applicationStore) UpdateStatus(ctx context.Context, id string, expected, next models.ApplicationStatus, at time.Time) (*models.Application, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.applications[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	if a.Status != expected {
		return nil, store.ErrStatusConflict
	}

	a.Status = next
	a.LastUpdated = at
	return copyApplication(a), nil
}

// notificationStore

type notificationStore Store

func (s *notificationStore) Find(ctx context.Context, id string) (*models.Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n, ok := s.notifications[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return copyNotification(n), nil
}

func (s *notificationStore) ListByUser(ctx context.Context, userID string) ([]*models.Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*models.Notification
	for _, id := range s.notifOrder {
		if s.notifications[id].UserID == userID {
			out = append(out, copyNotification(s.notifications[id]))
		}
	}

	// Newest first, matching what the client expects
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *notificationStore) Insert(ctx context.Context, n *models.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.notifications[n.ID]; exists {
		return store.ErrDuplicate
	}
	s.notifications[n.ID] = copyNotification(n)
	s.notifOrder = append(s.notifOrder, n.ID)
	return nil
}

func (s *notificationStore) Update(ctx context.Context, n *models.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.notifications[n.ID]; !exists {
		return store.ErrNotFound
	}
	s.notifications[n.ID] = copyNotification(n)
	return nil
}

func (s *notificationStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.notifications[id]; !exists {
		return store.ErrNotFound
	}
	delete(s.notifications, id)
	for i, nid := range s.notifOrder {
		if nid == id {
			s.notifOrder = append(s.notifOrder[:i], s.notifOrder[i+1:]...)
			break
		}
	}
	return nil
}
