package store

import (
	"context"
	"sort"
	"time"

	"github.com/saaadbeen/hnr-monitor/internal/domain/entity"
)

// CreateActionWithPV insère l'action et son PV compagnon sous le même verrou :
// aucun état intermédiaire où l'action existe sans PVID n'est observable.
// Les liens croisés (action.PVID / pv.ActionID) sont posés ici.
func (s *Store) CreateActionWithPV(ctx context.Context, action *entity.Action, pv *entity.PV) error {
	s.mu.Lock()

	now := time.Now()
	action.ID = newID()
	action.CreatedAt = now
	action.UpdatedAt = now
	if action.Statut == "" {
		action.Statut = entity.ActionEnCours
	}

	pv.ID = newID()
	pv.CreatedAt = now
	pv.UpdatedAt = now
	pv.Statut = entity.PVBrouillon
	pv.ActionID = action.ID
	action.PVID = pv.ID

	acp := *action
	pcp := *pv
	s.actions[acp.ID] = &acp
	s.pvs[pcp.ID] = &pcp
	s.mu.Unlock()

	s.publish("action", "create", action.ID)
	s.publish("pv", "create", pv.ID)
	return nil
}

func (s *Store) GetActionByID(ctx context.Context, id string) (*entity.Action, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.actions[id]
	if !ok {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

func (s *Store) ListActions(ctx context.Context) ([]entity.Action, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]entity.Action, 0, len(s.actions))
	for _, a := range s.actions {
		out = append(out, *a)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *Store) UpdateAction(ctx context.Context, id string, patch entity.ActionUpdate) (*entity.Action, error) {
	s.mu.Lock()

	a, ok := s.actions[id]
	if !ok {
		s.mu.Unlock()
		return nil, &entity.NotFoundError{Entite: "action", ID: id}
	}

	if patch.Type != nil {
		a.Type = *patch.Type
	}
	if patch.Date != nil {
		a.Date = *patch.Date
	}
	if patch.Observations != nil {
		a.Observations = *patch.Observations
	}
	if patch.Photos != nil {
		a.Photos = *patch.Photos
	}
	if patch.Statut != nil {
		a.Statut = *patch.Statut
	}
	if patch.Commune != nil && *patch.Commune != a.Commune {
		a.Commune = *patch.Commune
		if patch.Geometry == nil {
			var official bool
			a.Geometry, official = synthesize(a.Commune)
			a.OfficialCoordinates = official
		}
	}
	if patch.Geometry != nil {
		a.Geometry = patch.Geometry
		// Géométrie fournie par l'appelant : position estimée, pas officielle
		a.OfficialCoordinates = false
	}
	a.UpdatedAt = time.Now()

	cp := *a
	s.mu.Unlock()

	s.publish("action", "update", id)
	return &cp, nil
}

// DeleteAction supprime l'action et, sous le même verrou, son PV compagnon :
// un PV ne reste jamais orphelin d'une action disparue.
func (s *Store) DeleteAction(ctx context.Context, id string) error {
	s.mu.Lock()

	a, ok := s.actions[id]
	if !ok {
		s.mu.Unlock()
		return &entity.NotFoundError{Entite: "action", ID: id}
	}

	pvID := a.PVID
	delete(s.actions, id)
	if pvID != "" {
		delete(s.pvs, pvID)
	}
	s.mu.Unlock()

	s.publish("action", "delete", id)
	if pvID != "" {
		s.publish("pv", "delete", pvID)
	}
	return nil
}
