package service

import (
	"context"
	"sync"
	"time"

	"github.com/homenotes/homenotes/internal/core/domain"
)

// In-memory fakes shared by the service tests.

type stubRoleRepo struct {
	mu     sync.Mutex
	roles  map[string]*domain.Role
	nextID int64
	// saveErr forces SaveAll to fail for transaction-failure tests.
	saveErr error
}

func newStubRoleRepo() *stubRoleRepo {
	return &stubRoleRepo{roles: make(map[string]*domain.Role), nextID: 1}
}

func cloneRole(r *domain.Role) *domain.Role {
	if r == nil {
		return nil
	}
	clone := *r
	return &clone
}

func (s *stubRoleRepo) FindByName(_ context.Context, name string) (*domain.Role, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if role, ok := s.roles[name]; ok {
		return cloneRole(role), nil
	}
	return nil, domain.ErrRoleNotFound
}

func (s *stubRoleRepo) FindDefault(_ context.Context) (*domain.Role, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, role := range s.roles {
		if role.Default {
			return cloneRole(role), nil
		}
	}
	return nil, domain.ErrRoleNotFound
}

func (s *stubRoleRepo) SaveAll(_ context.Context, roles []*domain.Role) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	for _, role := range roles {
		if role.ID == 0 {
			role.ID = s.nextID
			s.nextID++
		}
		s.roles[role.Name] = cloneRole(role)
	}
	return nil
}

type stubUserRepo struct {
	users  map[string]*domain.User
	nextID int64
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User), nextID: 1}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	clone.Role = cloneRole(u.Role)
	return &clone
}

func (s *stubUserRepo) FindByName(_ context.Context, name string) (*domain.User, error) {
	if u, ok := s.users[name]; ok {
		return cloneUser(u), nil
	}
	return nil, domain.ErrUserNotFound
}

func (s *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range s.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (s *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	if _, exists := s.users[user.Name]; exists {
		return nil, domain.ErrUserExists
	}
	created := cloneUser(user)
	created.ID = s.nextID
	s.nextID++
	s.users[created.Name] = cloneUser(created)
	return cloneUser(created), nil
}

type stubNoteRepo struct {
	notes  []domain.Note
	nextID int64
}

func newStubNoteRepo() *stubNoteRepo {
	return &stubNoteRepo{nextID: 1}
}

func (s *stubNoteRepo) Create(_ context.Context, note *domain.Note) (*domain.Note, error) {
	created := *note
	created.ID = s.nextID
	s.nextID++
	s.notes = append(s.notes, created)
	return &created, nil
}

func (s *stubNoteRepo) ListByAuthor(_ context.Context, userID int64) ([]domain.Note, error) {
	out := make([]domain.Note, 0)
	for _, n := range s.notes {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	// Newest first, matching the real repository's ORDER BY.
	for i := 0; i < len(out); i++ {
		for j := i + 1; j < len(out); j++ {
			if out[j].Timestamp.After(out[i].Timestamp) {
				out[i], out[j] = out[j], out[i]
			}
		}
	}
	return out, nil
}

type sessionEntry struct {
	userID int64
	ttl    time.Duration
}

type stubSessionStore struct {
	sessions map[string]sessionEntry
}

func newStubSessionStore() *stubSessionStore {
	return &stubSessionStore{sessions: make(map[string]sessionEntry)}
}

func (s *stubSessionStore) Create(_ context.Context, sessionID string, userID int64, ttl time.Duration) error {
	s.sessions[sessionID] = sessionEntry{userID: userID, ttl: ttl}
	return nil
}

func (s *stubSessionStore) Exists(_ context.Context, sessionID string) (bool, error) {
	_, ok := s.sessions[sessionID]
	return ok, nil
}

func (s *stubSessionStore) Revoke(_ context.Context, sessionID string) error {
	delete(s.sessions, sessionID)
	return nil
}
