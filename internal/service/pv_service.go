package service

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/saaadbeen/hnr-monitor/internal/domain/entity"
	"github.com/saaadbeen/hnr-monitor/internal/platform/queue"
	"github.com/saaadbeen/hnr-monitor/internal/store"
)

// PVValidatedQueue est la file AMQP alimentée à chaque validation de PV ;
// le worker d'archivage documentaire la consomme.
const PVValidatedQueue = "pv_valides"

// PVValidatedMessage est la charge utile publiée à la validation
type PVValidatedMessage struct {
	PVID     string `json:"pv_id"`
	ActionID string `json:"action_id"`
	Numero   string `json:"numero"`
}

type PVService interface {
	CreatePV(ctx context.Context, pv *entity.PV) (*entity.PV, error)
	GetAllPVs(ctx context.Context) ([]entity.PV, error)
	GetPVByID(ctx context.Context, id string) (*entity.PV, error)
	GetPVByActionID(ctx context.Context, actionID string) (*entity.PV, error)
	UpdatePV(ctx context.Context, id string, patch entity.PVUpdate) (*entity.PV, error)
	ValidatePV(ctx context.Context, id, validatorID string) (*entity.PV, error)
}

type pvService struct {
	store     *store.Store
	publisher queue.Publisher
}

// NewPVService construit le service PV ; publisher peut être nil (mode
// dégradé sans broker, l'archivage documentaire est alors désactivé).
func NewPVService(st *store.Store, publisher queue.Publisher) PVService {
	return &pvService{store: st, publisher: publisher}
}

// CreatePV est le point d'entrée explicite (hors création d'action). Il
// déduplique : s'il existe déjà un PV pour l'action visée, ce PV est
// retourné inchangé plutôt que d'en créer un second.
func (s *pvService) CreatePV(ctx context.Context, pv *entity.PV) (*entity.PV, error) {
	if !entity.ValidActionType(pv.Type) {
		return nil, entity.NewValidationError("type de PV invalide : %s", pv.Type)
	}

	if pv.Numero == "" {
		pv.Numero = generateNumero(s.store, pv.Type, time.Now())
	}
	if pv.Contenu.Titre == "" {
		pv.Contenu.Titre = entity.PVTemplates[pv.Type].Titre
	}

	created, _, err := s.store.CreatePVForAction(ctx, pv)
	return created, err
}

func (s *pvService) GetAllPVs(ctx context.Context) ([]entity.PV, error) {
	return s.store.ListPVs(ctx)
}

func (s *pvService) GetPVByID(ctx context.Context, id string) (*entity.PV, error) {
	return s.store.GetPVByID(ctx, id)
}

func (s *pvService) GetPVByActionID(ctx context.Context, actionID string) (*entity.PV, error) {
	return s.store.GetPVByActionID(ctx, actionID)
}

// UpdatePV rejette toute écriture sur un PV validé, sauf si le patch porte
// lui-même statut VALIDE (chemin interne de la validation). Un changement de
// type régénère le numéro.
func (s *pvService) UpdatePV(ctx context.Context, id string, patch entity.PVUpdate) (*entity.PV, error) {
	pv, err := s.store.GetPVByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if pv == nil {
		return nil, &entity.NotFoundError{Entite: "PV", ID: id}
	}

	if pv.Statut == entity.PVValide && (patch.Statut == nil || *patch.Statut != entity.PVValide) {
		return nil, entity.NewValidationError("un PV validé ne peut plus être modifié")
	}

	numero := ""
	if patch.Type != nil && *patch.Type != pv.Type {
		if !entity.ValidActionType(*patch.Type) {
			return nil, entity.NewValidationError("type de PV invalide : %s", *patch.Type)
		}
		numero = generateNumero(s.store, *patch.Type, pv.CreatedAt)
	}

	return s.store.UpdatePV(ctx, id, patch, numero)
}

// ValidatePV applique les gardes dans l'ordre et échoue à la première
// violée : (a) pas déjà validé, (b) constatations non vides, (c) décisions
// non vides, (d) photos avant ET après pour une démolition. En cas de
// succès, l'action liée passe en TERMINEE et l'événement est publié sur la
// file d'archivage.
func (s *pvService) ValidatePV(ctx context.Context, id, validatorID string) (*entity.PV, error) {
	pv, err := s.store.GetPVByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if pv == nil {
		return nil, &entity.NotFoundError{Entite: "PV", ID: id}
	}

	if pv.Statut == entity.PVValide {
		return nil, entity.NewValidationError("ce PV est déjà validé")
	}
	if strings.TrimSpace(pv.Contenu.Constatations) == "" {
		return nil, entity.NewValidationError("les constatations sont obligatoires pour valider le PV")
	}
	if strings.TrimSpace(pv.Contenu.Decisions) == "" {
		return nil, entity.NewValidationError("les décisions sont obligatoires pour valider le PV")
	}
	if pv.Type == entity.ActionDemolition &&
		(pv.Contenu.Photos.Before == nil || pv.Contenu.Photos.After == nil) {
		return nil, entity.NewValidationError("les photos avant et après démolition sont obligatoires pour valider le PV")
	}

	validated, err := s.store.ValidatePV(ctx, id, validatorID)
	if err != nil {
		return nil, err
	}

	if s.publisher != nil {
		msg := PVValidatedMessage{PVID: validated.ID, ActionID: validated.ActionID, Numero: validated.Numero}
		go func() {
			// Contexte background pour ne pas être annulé par la requête HTTP
			if err := s.publisher.Publish(context.Background(), PVValidatedQueue, msg); err != nil {
				log.Printf("[PV] échec de publication AMQP pour le PV %s: %v", validated.ID, err)
			}
		}()
	}

	return validated, nil
}
