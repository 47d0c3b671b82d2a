package store

import (
	"context"
	"sort"
	"strings"
	"sync"

	"vaxadmin/internal/identity/models"
	id "vaxadmin/pkg/domain"
	"vaxadmin/pkg/platform/sentinel"
)

// In-memory stores keep development and tests lightweight. They intentionally
// favor clarity over performance.

type InMemoryAdminStore struct {
	mu         sync.RWMutex
	admins     map[id.AdminID]models.Admin
	byUsername map[string]id.AdminID
}

func NewInMemoryAdminStore() *InMemoryAdminStore {
	return &InMemoryAdminStore{
		admins:     make(map[id.AdminID]models.Admin),
		byUsername: make(map[string]id.AdminID),
	}
}

func (s *InMemoryAdminStore) Create(_ context.Context, admin *models.Admin) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := strings.ToLower(admin.Username)
	if _, exists := s.byUsername[key]; exists {
		return sentinel.ErrConflict
	}
	s.admins[admin.ID] = *admin
	s.byUsername[key] = admin.ID
	return nil
}

func (s *InMemoryAdminStore) FindByID(_ context.Context, adminID id.AdminID) (*models.Admin, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if admin, ok := s.admins[adminID]; ok {
		return &admin, nil
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemoryAdminStore) FindByUsername(_ context.Context, username string) (*models.Admin, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if adminID, ok := s.byUsername[strings.ToLower(username)]; ok {
		admin := s.admins[adminID]
		return &admin, nil
	}
	return nil, sentinel.ErrNotFound
}

type InMemoryUserStore struct {
	mu    sync.RWMutex
	users map[id.UserID]models.User
	byNIK map[string]id.UserID
}

func NewInMemoryUserStore() *InMemoryUserStore {
	return &InMemoryUserStore{
		users: make(map[id.UserID]models.User),
		byNIK: make(map[string]id.UserID),
	}
}

// CreateIfAbsent checks and inserts under a single write lock, which is what
// makes the nik uniqueness invariant hold under concurrent registrations.
func (s *InMemoryUserStore) CreateIfAbsent(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := strings.ToLower(user.NIK.String())
	if _, exists := s.byNIK[key]; exists {
		return sentinel.ErrConflict
	}
	s.users[user.ID] = *user
	s.byNIK[key] = user.ID
	return nil
}

func (s *InMemoryUserStore) FindByID(_ context.Context, userID id.UserID) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if user, ok := s.users[userID]; ok {
		return &user, nil
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemoryUserStore) FindByNIK(_ context.Context, nik id.NationalID) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if userID, ok := s.byNIK[strings.ToLower(nik.String())]; ok {
		user := s.users[userID]
		return &user, nil
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemoryUserStore) List(_ context.Context) ([]*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	users := make([]*models.User, 0, len(s.users))
	for _, user := range s.users {
		u := user
		users = append(users, &u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].CreatedAt.Before(users[j].CreatedAt) })
	return users, nil
}

func (s *InMemoryUserStore) Delete(_ context.Context, userID id.UserID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[userID]
	if !ok {
		return sentinel.ErrNotFound
	}
	delete(s.users, userID)
	delete(s.byNIK, strings.ToLower(user.NIK.String()))
	return nil
}
