// Package redisstore implements store.Store on Redis. Entities are stored as
// JSON values with list keys preserving insertion order and SetNX guards for
// the uniqueness invariants.
package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"jobmatch/internal/config"
	"jobmatch/internal/store"
	"jobmatch/pkg/models"
)

const keyPrefix = "jobmatch:"

// Store is a Redis-backed store.Store implementation
type Store struct {
	client *redis.Client
}

// New creates a Redis store from configuration
func New(cfg *config.Config) (*Store, error) {
	opts, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}
	if cfg.Redis.Password != "" {
		opts.Password = cfg.Redis.Password
	}
	opts.DB = cfg.Redis.DB
	opts.DialTimeout = cfg.Redis.Timeout
	opts.ReadTimeout = cfg.Redis.Timeout
	opts.WriteTimeout = cfg.Redis.Timeout

	return &Store{client: redis.NewClient(opts)}, nil
}

func (s *Store) Users() store.UserStore                 { return &userStore{s} }
func (s *Store) Jobs() store.JobStore                   { return &jobStore{s} }
func (s *Store) Applications() store.ApplicationStore   { return &applicationStore{s} }
func (s *Store) Notifications() store.NotificationStore { return &notificationStore{s} }

func (s *Store) Ping(ctx context.Context) error { return s.client.Ping(ctx).Err() }
func (s *Store) Close() error                   { return s.client.Close() }

func key(parts ...string) string {
	return keyPrefix + strings.Join(parts, ":")
}

func (s *Store) getJSON(ctx context.Context, k string, dst interface{}) error {
	data, err := s.client.Get(ctx, k).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return store.ErrNotFound
		}
		return err
	}
	return json.Unmarshal([]byte(data), dst)
}

func (s *Store) setJSON(ctx context.Context, k string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, k, data, 0).Err()
}

// listJSON loads every entity referenced by the order list, skipping ids whose
// value has been removed.
func listJSON[T any](ctx context.Context, s *Store, listKey, entityPrefix string) ([]*T, error) {
	ids, err := s.client.LRange(ctx, listKey, 0, -1).Result()
	if err != nil {
		return nil, err
	}

	out := make([]*T, 0, len(ids))
	for _, id := range ids {
		var entity T
		if err := s.getJSON(ctx, key(entityPrefix, id), &entity); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				continue
			}
			return nil, err
		}
		out = append(out, &entity)
	}
	return out, nil
}

// userStore

type userStore struct{ *Store }

func (s *userStore) Find(ctx context.Context, id string) (*models.UserProfile, error) {
	var u models.UserProfile
	if err := s.getJSON(ctx, key("user", id), &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *userStore) FindByEmail(ctx context.Context, email string) (*models.UserProfile, error) {
	id, err := s.client.Get(ctx, key("user_email", strings.ToLower(email))).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return s.Find(ctx, id)
}

func (s *userStore) List(ctx context.Context) ([]*models.UserProfile, error) {
	return listJSON[models.UserProfile](ctx, s.Store, key("users"), "user")
}

func (s *userStore) Insert(ctx context.Context, user *models.UserProfile) error {
	ok, err := s.client.SetNX(ctx, key("user_email", strings.ToLower(user.Email)), user.ID, 0).Result()
	if err != nil {
		return err
	}
	if !ok {
		return store.ErrDuplicate
	}

	if err := s.setJSON(ctx, key("user", user.ID), user); err != nil {
		return err
	}
	return s.client.RPush(ctx, key("users"), user.ID).Err()
}

func (s *userStore) Update(ctx context.Context, user *models.UserProfile) error {
	if _, err := s.Find(ctx, user.ID); err != nil {
		return err
	}
	return s.setJSON(ctx, key("user", user.ID), user)
}

// jobStore

type jobStore struct{ *Store }

func (s *jobStore) Find(ctx context.Context, id string) (*models.JobPosting, error) {
	var j models.JobPosting
	if err := s.getJSON(ctx, key("job", id), &j); err != nil {
		return nil, err
	}
	return &j, nil
}

func (s *jobStore) List(ctx context.Context) ([]*models.JobPosting, error) {
	return listJSON[models.JobPosting](ctx, s.Store, key("jobs"), "job")
}

func (s *jobStore) ListPostedSince(ctx context.Context, since time.Time) ([]*models.JobPosting, error) {
	jobs, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	recent := jobs[:0]
	for _, j := range jobs {
		if !j.Posted.Before(since) {
			recent = append(recent, j)
		}
	}
	return recent, nil
}

func (s *jobStore) FindByTitleAndCompany(ctx context.Context, title, company string) (*models.JobPosting, error) {
	id, err := s.client.Get(ctx, key("job_tc", strings.ToLower(title+"|"+company))).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return s.Find(ctx, id)
}

func (s *jobStore) Insert(ctx context.Context, job *models.JobPosting) error {
	if err := s.setJSON(ctx, key("job", job.ID), job); err != nil {
		return err
	}
	if err := s.client.Set(ctx, key("job_tc", strings.ToLower(job.Title+"|"+job.Company)), job.ID, 0).Err(); err != nil {
		return err
	}
	return s.client.RPush(ctx, key("jobs"), job.ID).Err()
}

// applicationStore

type applicationStore struct{ *Store }

func (s *applicationStore) Find(ctx context.Context, id string) (*models.Application, error) {
	var a models.Application
	if err := s.getJSON(ctx, key("application", id), &a); err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *applicationStore) FindByUserAndJob(ctx context.Context, userID, jobID string) (*models.Application, error) {
	id, err := s.client.Get(ctx, key("app_uj", userID, jobID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return s.Find(ctx, id)
}

func (s *applicationStore) List(ctx context.Context) ([]*models.Application, error) {
	return listJSON[models.Application](ctx, s.Store, key("applications"), "application")
}

func (s *applicationStore) ListByUser(ctx context.Context, userID string) ([]*models.Application, error) {
	apps, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	mine := apps[:0]
	for _, a := range apps {
		if a.UserID == userID {
			mine = append(mine, a)
		}
	}
	return mine, nil
}

func (s *applicationStore) Insert(ctx context.Context, app *models.Application) error {
	ok, err := s.client.SetNX(ctx, key("app_uj", app.UserID, app.JobID), app.ID, 0).Result()
	if err != nil {
		return err
	}
	if !ok {
		return store.ErrDuplicate
	}

	if err := s.setJSON(ctx, key("application", app.ID), app); err != nil {
		return err
	}
	return s.client.RPush(ctx, key("applications"), app.ID).Err()
}

func (s *applicationStore) Update(ctx context.Context, app *models.Application) error {
	if _, err := s.Find(ctx, app.ID); err != nil {
		return err
	}
	return s.setJSON(ctx, key("application", app.ID), app)
}

func (s *applicationStore) UpdateStatus(ctx context.Context, id string, expected, next models.ApplicationStatus, at time.Time) (*models.Application, error) {
	appKey := key("application", id)
	var updated *models.Application

	// WATCH/MULTI so a concurrent edit between read and write aborts the swap
	err := s.client.Watch(ctx, func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, appKey).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return store.ErrNotFound
			}
			return err
		}

		var a models.Application
		if err := json.Unmarshal([]byte(data), &a); err != nil {
			return err
		}
		if a.Status != expected {
			return store.ErrStatusConflict
		}

		a.Status = next
		a.LastUpdated = at

		payload, err := json.Marshal(&a)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, appKey, payload, 0)
			return nil
		})
		if err == nil {
			updated = &a
		}
		return err
	}, appKey)

	if err != nil {
		if errors.Is(err, redis.TxFailedErr) {
			return nil, store.ErrStatusConflict
		}
		return nil, err
	}
	return updated, nil
}

// notificationStore

type notificationStore struct{ *Store }

func (s *notificationStore) Find(ctx context.Context, id string) (*models.Notification, error) {
	var n models.Notification
	if err := s.getJSON(ctx, key("notification", id), &n); err != nil {
		return nil, err
	}
	return &n, nil
}

func (s *notificationStore) ListByUser(ctx context.Context, userID string) ([]*models.Notification, error) {
	// Per-user list is LPushed so index 0 is already the newest entry
	return listJSON[models.Notification](ctx, s.Store, key("user_notifications", userID), "notification")
}

func (s *notificationStore) Insert(ctx context.Context, n *models.Notification) error {
	if err := s.setJSON(ctx, key("notification", n.ID), n); err != nil {
		return err
	}
	return s.client.LPush(ctx, key("user_notifications", n.UserID), n.ID).Err()
}

func (s *notificationStore) Update(ctx context.Context, n *models.Notification) error {
	if _, err := s.Find(ctx, n.ID); err != nil {
		return err
	}
	return s.setJSON(ctx, key("notification", n.ID), n)
}

func (s *notificationStore) Delete(ctx context.Context, id string) error {
	n, err := s.Find(ctx, id)
	if err != nil {
		return err
	}

	if err := s.client.Del(ctx, key("notification", id)).Err(); err != nil {
		return err
	}
	return s.client.LRem(ctx, key("user_notifications", n.UserID), 0, id).Err()
}
