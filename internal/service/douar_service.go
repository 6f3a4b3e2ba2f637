package service

import (
	"context"

	"github.com/saaadbeen/hnr-monitor/internal/domain/entity"
	"github.com/saaadbeen/hnr-monitor/internal/geo"
	"github.com/saaadbeen/hnr-monitor/internal/store"
)

type DouarService interface {
	CreateDouar(ctx context.Context, douar *entity.Douar) error
	GetAllDouars(ctx context.Context) ([]entity.Douar, error)
	GetDouarByID(ctx context.Context, id string) (*entity.Douar, error)
	UpdateDouar(ctx context.Context, id string, patch entity.DouarUpdate) (*entity.Douar, error)
	DeleteDouar(ctx context.Context, id string) error
}

type douarService struct {
	store *store.Store
}

func NewDouarService(st *store.Store) DouarService {
	return &douarService{store: st}
}

func (s *douarService) CreateDouar(ctx context.Context, douar *entity.Douar) error {
	if douar.Nom == "" {
		return entity.NewValidationError("le nom du douar est requis")
	}
	if douar.Commune == "" {
		return entity.NewValidationError("la commune est requise")
	}
	if commune, prefecture, ok := geo.Canonical(douar.Commune); ok {
		douar.Commune = commune
		if douar.Prefecture == "" {
			douar.Prefecture = prefecture
		}
	}
	return s.store.CreateDouar(ctx, douar)
}

func (s *douarService) GetAllDouars(ctx context.Context) ([]entity.Douar, error) {
	return s.store.ListDouars(ctx)
}

func (s *douarService) GetDouarByID(ctx context.Context, id string) (*entity.Douar, error) {
	return s.store.GetDouarByID(ctx, id)
}

func (s *douarService) UpdateDouar(ctx context.Context, id string, patch entity.DouarUpdate) (*entity.Douar, error) {
	return s.store.UpdateDouar(ctx, id, patch)
}

func (s *douarService) DeleteDouar(ctx context.Context, id string) error {
	return s.store.DeleteDouar(ctx, id)
}
