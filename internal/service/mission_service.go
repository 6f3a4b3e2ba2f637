package service

import (
	"context"

	"github.com/saaadbeen/hnr-monitor/internal/domain/entity"
	"github.com/saaadbeen/hnr-monitor/internal/geo"
	"github.com/saaadbeen/hnr-monitor/internal/store"
)

type MissionService interface {
	CreateMission(ctx context.Context, mission *entity.Mission) error
	GetAllMissions(ctx context.Context) ([]entity.Mission, error)
	GetMissionByID(ctx context.Context, id string) (*entity.Mission, error)
	UpdateMission(ctx context.Context, id string, patch entity.MissionUpdate) (*entity.Mission, error)
	DeleteMission(ctx context.Context, id string) error
}

type missionService struct {
	store *store.Store
}

func NewMissionService(st *store.Store) MissionService {
	return &missionService{store: st}
}

func (s *missionService) CreateMission(ctx context.Context, mission *entity.Mission) error {
	if mission.Titre == "" {
		return entity.NewValidationError("le titre de la mission est requis")
	}
	if mission.Commune == "" {
		return entity.NewValidationError("la commune est requise")
	}
	if commune, prefecture, ok := geo.Canonical(mission.Commune); ok {
		mission.Commune = commune
		if mission.Prefecture == "" {
			mission.Prefecture = prefecture
		}
	}
	return s.store.CreateMission(ctx, mission)
}

func (s *missionService) GetAllMissions(ctx context.Context) ([]entity.Mission, error) {
	return s.store.ListMissions(ctx)
}

func (s *missionService) GetMissionByID(ctx context.Context, id string) (*entity.Mission, error) {
	return s.store.GetMissionByID(ctx, id)
}

func (s *missionService) UpdateMission(ctx context.Context, id string, patch entity.MissionUpdate) (*entity.Mission, error) {
	return s.store.UpdateMission(ctx, id, patch)
}

func (s *missionService) DeleteMission(ctx context.Context, id string) error {
	return s.store.DeleteMission(ctx, id)
}
