package service

import (
	"context"

	"github.com/saaadbeen/hnr-monitor/internal/domain/entity"
	"github.com/saaadbeen/hnr-monitor/internal/geo"
	"github.com/saaadbeen/hnr-monitor/internal/store"
	"golang.org/x/crypto/bcrypt"
)

// UserService est le guichet d'administration des comptes (création avec
// rôle, changement de rôle, suppression). La suppression d'un utilisateur
// est une opération de store : le moteur de cycle de vie n'y touche pas.
type UserService interface {
	CreateUser(ctx context.Context, user *entity.User, password string) error
	GetAllUsers(ctx context.Context) ([]entity.User, error)
	GetUserByID(ctx context.Context, id string) (*entity.User, error)
	UpdateUser(ctx context.Context, id string, patch entity.UserUpdate) (*entity.User, error)
	DeleteUser(ctx context.Context, id string) error
}

type userService struct {
	store *store.Store
}

func NewUserService(st *store.Store) UserService {
	return &userService{store: st}
}

func (s *userService) CreateUser(ctx context.Context, user *entity.User, password string) error {
	if !entity.ValidRole(user.Role) {
		return entity.NewValidationError("rôle invalide : %s", user.Role)
	}
	if user.Email == "" {
		return entity.NewValidationError("l'email est requis")
	}
	if commune, prefecture, ok := geo.Canonical(user.Commune); ok {
		user.Commune = commune
		if user.Prefecture == "" {
			user.Prefecture = prefecture
		}
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.PasswordHash = string(hashed)

	return s.store.CreateUser(ctx, user)
}

func (s *userService) GetAllUsers(ctx context.Context) ([]entity.User, error) {
	return s.store.ListUsers(ctx)
}

func (s *userService) GetUserByID(ctx context.Context, id string) (*entity.User, error) {
	return s.store.GetUserByID(ctx, id)
}

func (s *userService) UpdateUser(ctx context.Context, id string, patch entity.UserUpdate) (*entity.User, error) {
	if patch.Role != nil && !entity.ValidRole(*patch.Role) {
		return nil, entity.NewValidationError("rôle invalide : %s", *patch.Role)
	}
	return s.store.UpdateUser(ctx, id, patch)
}

func (s *userService) DeleteUser(ctx context.Context, id string) error {
	return s.store.DeleteUser(ctx, id)
}
