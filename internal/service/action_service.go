package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/saaadbeen/hnr-monitor/internal/domain/entity"
	"github.com/saaadbeen/hnr-monitor/internal/geo"
	"github.com/saaadbeen/hnr-monitor/internal/store"
)

// CoordSourceOfficielle / CoordSourceEstimee taguent l'origine de
// l'instantané de coordonnées figé dans le PV
const (
	CoordSourceOfficielle = "Coordonnées officielles vérifiées"
	CoordSourceEstimee    = "Géolocalisation estimée"
)

type ActionService interface {
	CreateAction(ctx context.Context, action *entity.Action) error
	GetAllActions(ctx context.Context) ([]entity.Action, error)
	GetActionByID(ctx context.Context, id string) (*entity.Action, error)
	UpdateAction(ctx context.Context, id string, patch entity.ActionUpdate) (*entity.Action, error)
	DeleteAction(ctx context.Context, id string) error
}

type actionService struct {
	store *store.Store
}

func NewActionService(st *store.Store) ActionService {
	return &actionService{store: st}
}

// CreateAction crée l'action et, atomiquement, son PV compagnon en BROUILLON.
// Si l'action référence un changement, celui-ci passe de DETECTE à
// EN_TRAITEMENT (jamais l'inverse) et reçoit linkedActionId.
func (s *actionService) CreateAction(ctx context.Context, action *entity.Action) error {
	// 1. Validation métier
	if !entity.ValidActionType(action.Type) {
		return entity.NewValidationError("type d'action invalide : %s", action.Type)
	}
	if action.UserID == "" {
		return entity.NewValidationError("l'identifiant de l'agent est requis")
	}
	if action.Commune == "" {
		return entity.NewValidationError("la commune est requise")
	}
	if action.Date.IsZero() {
		action.Date = time.Now()
	}

	// 2. Résolution de la commune (orthographe canonique + préfecture)
	if commune, prefecture, ok := geo.Canonical(action.Commune); ok {
		action.Commune = commune
		if action.Prefecture == "" {
			action.Prefecture = prefecture
		}
	}

	// 3. Résolution de la géométrie : absente, elle est synthétisée depuis le
	// centre officiel de la commune (coordonnées officielles) ; fournie par
	// le client, elle vient d'une géolocalisation terrain (estimée) sauf
	// mention contraire de l'appelant.
	if action.Geometry == nil {
		center, known := geo.Lookup(action.Commune)
		if !known {
			log.Printf("[ACTIONS] commune inconnue %q, repli sur %s", action.Commune, geo.DefaultCommune)
			center, _ = geo.Lookup(geo.DefaultCommune)
		}
		p := geo.Jitter(center)
		action.Geometry = entity.NewPoint(p.Lng, p.Lat)
		action.OfficialCoordinates = known
	}

	// 4. Le changement lié doit exister avant toute écriture : échec net
	// plutôt qu'une action persistée malgré l'erreur retournée.
	if action.ChangementID != "" {
		c, err := s.store.GetChangementByID(ctx, action.ChangementID)
		if err != nil {
			return err
		}
		if c == nil {
			return &entity.NotFoundError{Entite: "changement", ID: action.ChangementID}
		}
	}

	// 5. PV compagnon pré-rempli
	pv := s.buildDraftPV(action)

	// 6. Écriture atomique action + PV
	if err := s.store.CreateActionWithPV(ctx, action, pv); err != nil {
		return err
	}

	// 7. Escalade du changement lié : DETECTE -> EN_TRAITEMENT
	if action.ChangementID != "" {
		if err := s.escalateChangement(ctx, action.ChangementID, action.ID); err != nil {
			return err
		}
	}

	return nil
}

func (s *actionService) buildDraftPV(action *entity.Action) *entity.PV {
	tpl := entity.PVTemplates[action.Type]

	contenu := entity.PVContenu{
		Titre:         tpl.Titre,
		Constatations: action.Observations,
	}
	if lng, lat, ok := action.Geometry.Point(); ok {
		source := CoordSourceEstimee
		if action.OfficialCoordinates {
			source = CoordSourceOfficielle
		}
		contenu.Coordonnees = &entity.Coordonnees{Lat: lat, Lng: lng, Source: source}
	}
	for i := range action.Photos {
		switch action.Photos[i].Slot {
		case entity.PhotoAvant:
			p := action.Photos[i]
			contenu.Photos.Before = &p
		case entity.PhotoApres:
			p := action.Photos[i]
			contenu.Photos.After = &p
		}
	}

	return &entity.PV{
		Numero:    s.generateNumero(action.Type, time.Now()),
		Type:      action.Type,
		Statut:    entity.PVBrouillon,
		Contenu:   contenu,
		CreatedBy: action.UserID,
	}
}

func (s *actionService) generateNumero(t entity.ActionType, now time.Time) string {
	return generateNumero(s.store, t, now)
}

func (s *actionService) escalateChangement(ctx context.Context, changementID, actionID string) error {
	c, err := s.store.GetChangementByID(ctx, changementID)
	if err != nil {
		return err
	}
	if c == nil {
		// Supprimé entre la vérification préalable et l'escalade : l'action
		// créée reste valable, le lien n'a simplement plus d'objet.
		log.Printf("[ACTIONS] changement %s disparu avant escalade", changementID)
		return nil
	}
	// Seule la transition DETECTE -> EN_TRAITEMENT existe ici ; une action
	// supplémentaire sur un changement déjà en traitement ne change rien.
	if c.Statut != entity.ChangementDetecte {
		return nil
	}

	statut := entity.ChangementEnTraitement
	_, err = s.store.UpdateChangement(ctx, changementID, entity.ChangementUpdate{
		Statut:         &statut,
		LinkedActionID: &actionID,
	})
	return err
}

func (s *actionService) GetAllActions(ctx context.Context) ([]entity.Action, error) {
	return s.store.ListActions(ctx)
}

func (s *actionService) GetActionByID(ctx context.Context, id string) (*entity.Action, error) {
	return s.store.GetActionByID(ctx, id)
}

// UpdateAction applique le patch puis propage type, observations et
// coordonnées dans le PV compagnon tant que celui-ci est en BROUILLON
// (dernier écrivain gagnant, pas de fusion). Un PV validé est figé, même
// contre une cascade.
func (s *actionService) UpdateAction(ctx context.Context, id string, patch entity.ActionUpdate) (*entity.Action, error) {
	if patch.Type != nil && !entity.ValidActionType(*patch.Type) {
		return nil, entity.NewValidationError("type d'action invalide : %s", *patch.Type)
	}

	updated, err := s.store.UpdateAction(ctx, id, patch)
	if err != nil {
		return nil, err
	}

	if updated.PVID == "" {
		return updated, nil
	}
	pv, err := s.store.GetPVByID(ctx, updated.PVID)
	if err != nil || pv == nil || pv.Statut == entity.PVValide {
		return updated, err
	}

	pvPatch := entity.PVUpdate{Contenu: &entity.PVContenuUpdate{}}
	numero := ""
	touched := false

	if patch.Type != nil && *patch.Type != pv.Type {
		pvPatch.Type = patch.Type
		numero = s.generateNumero(*patch.Type, pv.CreatedAt)
		titre := entity.PVTemplates[*patch.Type].Titre
		pvPatch.Contenu.Titre = &titre
		touched = true
	}
	if patch.Observations != nil {
		pvPatch.Contenu.Constatations = patch.Observations
		touched = true
	}
	if patch.Geometry != nil || (patch.Commune != nil && patch.Geometry == nil) {
		if lng, lat, ok := updated.Geometry.Point(); ok {
			source := CoordSourceEstimee
			if updated.OfficialCoordinates {
				source = CoordSourceOfficielle
			}
			pvPatch.Contenu.Coordonnees = &entity.Coordonnees{Lat: lat, Lng: lng, Source: source}
			touched = true
		}
	}

	if touched {
		if _, err := s.store.UpdatePV(ctx, pv.ID, pvPatch, numero); err != nil {
			return nil, fmt.Errorf("échec de la propagation vers le PV %s: %w", pv.ID, err)
		}
	}

	return updated, nil
}

// DeleteAction supprime l'action ; le store emporte le PV compagnon sous le
// même verrou (jamais de PV orphelin).
func (s *actionService) DeleteAction(ctx context.Context, id string) error {
	return s.store.DeleteAction(ctx, id)
}
