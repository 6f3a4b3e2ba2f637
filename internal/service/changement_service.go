package service

import (
	"context"

	"github.com/saaadbeen/hnr-monitor/internal/domain/entity"
	"github.com/saaadbeen/hnr-monitor/internal/geo"
	"github.com/saaadbeen/hnr-monitor/internal/store"
)

type ChangementService interface {
	CreateChangement(ctx context.Context, changement *entity.Changement) error
	GetAllChangements(ctx context.Context) ([]entity.Changement, error)
	GetChangementByID(ctx context.Context, id string) (*entity.Changement, error)
	UpdateChangement(ctx context.Context, id string, patch entity.ChangementUpdate) (*entity.Changement, error)
	DeleteChangement(ctx context.Context, id string) error
}

type changementService struct {
	store *store.Store
}

func NewChangementService(st *store.Store) ChangementService {
	return &changementService{store: st}
}

func (s *changementService) CreateChangement(ctx context.Context, changement *entity.Changement) error {
	if !entity.ValidChangementType(changement.Type) {
		return entity.NewValidationError("type de changement invalide : %s", changement.Type)
	}
	if changement.Commune == "" {
		return entity.NewValidationError("la commune est requise")
	}
	if commune, prefecture, ok := geo.Canonical(changement.Commune); ok {
		changement.Commune = commune
		if changement.Prefecture == "" {
			changement.Prefecture = prefecture
		}
	}
	changement.Statut = entity.ChangementDetecte
	return s.store.CreateChangement(ctx, changement)
}

func (s *changementService) GetAllChangements(ctx context.Context) ([]entity.Changement, error) {
	return s.store.ListChangements(ctx)
}

func (s *changementService) GetChangementByID(ctx context.Context, id string) (*entity.Changement, error) {
	return s.store.GetChangementByID(ctx, id)
}

// UpdateChangement garde le sens de la machine à états : DETECTE ->
// EN_TRAITEMENT -> TRAITE, sans retour en arrière. Le passage en TRAITE est
// administratif (DSI/gouverneur) ; celui vers EN_TRAITEMENT est réservé au
// moteur d'actions.
func (s *changementService) UpdateChangement(ctx context.Context, id string, patch entity.ChangementUpdate) (*entity.Changement, error) {
	if patch.Statut != nil {
		current, err := s.store.GetChangementByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if current == nil {
			return nil, &entity.NotFoundError{Entite: "changement", ID: id}
		}
		if rank(*patch.Statut) < rank(current.Statut) {
			return nil, entity.NewValidationError(
				"transition de statut interdite : %s vers %s", current.Statut, *patch.Statut)
		}
	}
	return s.store.UpdateChangement(ctx, id, patch)
}

func rank(s entity.ChangementStatut) int {
	switch s {
	case entity.ChangementDetecte:
		return 0
	case entity.ChangementEnTraitement:
		return 1
	case entity.ChangementTraite:
		return 2
	}
	return -1
}

func (s *changementService) DeleteChangement(ctx context.Context, id string) error {
	return s.store.DeleteChangement(ctx, id)
}
