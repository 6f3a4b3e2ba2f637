package store

import (
	"context"
	"sort"
	"time"

	"github.com/saaadbeen/hnr-monitor/internal/domain/entity"
)

func (s *Store) CreateUser(ctx context.Context, user *entity.User) error {
	s.mu.Lock()

	for _, u := range s.users {
		if u.Email == user.Email {
			s.mu.Unlock()
			return entity.NewValidationError("un utilisateur avec l'email %s existe déjà", user.Email)
		}
	}

	now := time.Now()
	user.ID = newID()
	user.CreatedAt = now
	user.UpdatedAt = now

	cp := *user
	s.users[cp.ID] = &cp
	s.mu.Unlock()

	s.publish("user", "create", user.ID)
	return nil
}

func (s *Store) GetUserByID(ctx context.Context, id string) (*entity.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*entity.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *Store) ListUsers(ctx context.Context) ([]entity.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]entity.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *Store) UpdateUser(ctx context.Context, id string, patch entity.UserUpdate) (*entity.User, error) {
	s.mu.Lock()

	u, ok := s.users[id]
	if !ok {
		s.mu.Unlock()
		return nil, &entity.NotFoundError{Entite: "utilisateur", ID: id}
	}

	if patch.Nom != nil {
		u.Nom = *patch.Nom
	}
	if patch.Email != nil {
		u.Email = *patch.Email
	}
	if patch.Telephone != nil {
		u.Telephone = *patch.Telephone
	}
	if patch.Role != nil {
		u.Role = *patch.Role
	}
	if patch.Commune != nil {
		u.Commune = *patch.Commune
	}
	if patch.Prefecture != nil {
		u.Prefecture = *patch.Prefecture
	}
	u.UpdatedAt = time.Now()

	cp := *u
	s.mu.Unlock()

	s.publish("user", "update", id)
	return &cp, nil
}

func (s *Store) UpdateLastLogin(ctx context.Context, id string) error {
	s.mu.Lock()

	u, ok := s.users[id]
	if !ok {
		s.mu.Unlock()
		return &entity.NotFoundError{Entite: "utilisateur", ID: id}
	}
	now := time.Now()
	u.LastLoginAt = &now
	u.UpdatedAt = now
	s.mu.Unlock()

	s.publish("user", "update", id)
	return nil
}

func (s *Store) DeleteUser(ctx context.Context, id string) error {
	s.mu.Lock()

	if _, ok := s.users[id]; !ok {
		s.mu.Unlock()
		return &entity.NotFoundError{Entite: "utilisateur", ID: id}
	}
	delete(s.users, id)
	s.mu.Unlock()

	s.publish("user", "delete", id)
	return nil
}
