package users

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo is an in-memory repository useful for tests.
type MemoryRepo struct {
	mu    sync.RWMutex
	byID  map[string]User
	order []string
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{byID: map[string]User{}}
}

func (r *MemoryRepo) Create(ctx context.Context, u User) (User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.byID {
		if existing.Email == u.Email {
			return User{}, ErrEmailTaken
		}
	}
	r.byID[u.ID] = u
	r.order = append(r.order, u.ID)
	return u, nil
}

func (r *MemoryRepo) FindByID(ctx context.Context, id string) (User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.byID[id]
	if !ok {
		return User{}, ErrNotFound
	}
	return u, nil
}

func (r *MemoryRepo) FindByEmail(ctx context.Context, email string) (User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return User{}, ErrNotFound
}

func (r *MemoryRepo) List(ctx context.Context, excludeID string) ([]User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []User{}
	for _, id := range r.order {
		u, ok := r.byID[id]
		if !ok || id == excludeID {
			continue
		}
		out = append(out, u)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

// Delete removes a user. Used by tests to simulate accounts deleted while a
// token is still live.
func (r *MemoryRepo) Delete(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byID, id)
}

// SetRole changes a user's role in place.
func (r *MemoryRepo) SetRole(id string, role Role) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.byID[id]; ok {
		u.Role = role
		r.byID[id] = u
	}
}
