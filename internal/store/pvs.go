package store

import (
	"context"
	"sort"
	"time"

	"github.com/saaadbeen/hnr-monitor/internal/domain/entity"
)

// CreatePVForAction insère un PV en dédupliquant sur l'action : s'il existe
// déjà un PV pour pv.ActionID, il est retourné inchangé (au plus un PV par
// action, toujours). Le lien action.PVID est posé sous le même verrou.
func (s *Store) CreatePVForAction(ctx context.Context, pv *entity.PV) (*entity.PV, bool, error) {
	s.mu.Lock()

	if pv.ActionID != "" {
		for _, existing := range s.pvs {
			if existing.ActionID == pv.ActionID {
				cp := *existing
				s.mu.Unlock()
				return &cp, false, nil
			}
		}
		if _, ok := s.actions[pv.ActionID]; !ok {
			s.mu.Unlock()
			return nil, false, &entity.NotFoundError{Entite: "action", ID: pv.ActionID}
		}
	}

	now := time.Now()
	pv.ID = newID()
	pv.CreatedAt = now
	pv.UpdatedAt = now
	if pv.Statut == "" {
		pv.Statut = entity.PVBrouillon
	}
	if pv.ActionID != "" {
		s.actions[pv.ActionID].PVID = pv.ID
	}

	cp := *pv
	s.pvs[cp.ID] = &cp
	s.mu.Unlock()

	s.publish("pv", "create", pv.ID)
	return pv, true, nil
}

func (s *Store) GetPVByID(ctx context.Context, id string) (*entity.PV, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pv, ok := s.pvs[id]
	if !ok {
		return nil, nil
	}
	cp := *pv
	return &cp, nil
}

func (s *Store) GetPVByActionID(ctx context.Context, actionID string) (*entity.PV, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, pv := range s.pvs {
		if pv.ActionID == actionID {
			cp := *pv
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *Store) ListPVs(ctx context.Context) ([]entity.PV, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]entity.PV, 0, len(s.pvs))
	for _, pv := range s.pvs {
		out = append(out, *pv)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// UpdatePV applique mécaniquement un patch. Les gardes métier (immutabilité
// après validation, régénération du numéro) sont du ressort du service.
func (s *Store) UpdatePV(ctx context.Context, id string, patch entity.PVUpdate, numero string) (*entity.PV, error) {
	s.mu.Lock()

	pv, ok := s.pvs[id]
	if !ok {
		s.mu.Unlock()
		return nil, &entity.NotFoundError{Entite: "PV", ID: id}
	}

	if patch.Type != nil {
		pv.Type = *patch.Type
	}
	if patch.Statut != nil {
		pv.Statut = *patch.Statut
	}
	if numero != "" {
		pv.Numero = numero
	}
	if patch.Contenu != nil {
		c := patch.Contenu
		if c.Titre != nil {
			pv.Contenu.Titre = *c.Titre
		}
		if c.Constatations != nil {
			pv.Contenu.Constatations = *c.Constatations
		}
		if c.Decisions != nil {
			pv.Contenu.Decisions = *c.Decisions
		}
		if c.Coordonnees != nil {
			pv.Contenu.Coordonnees = c.Coordonnees
		}
		if c.Photos != nil {
			pv.Contenu.Photos = *c.Photos
		}
	}
	pv.UpdatedAt = time.Now()

	cp := *pv
	s.mu.Unlock()

	s.publish("pv", "update", id)
	return &cp, nil
}

// ValidatePV est l'écriture interne de l'opération de validation : passage
// en VALIDE, horodatage, et bascule de l'action liée en TERMINEE sous le
// même verrou.
func (s *Store) ValidatePV(ctx context.Context, id, validatorID string) (*entity.PV, error) {
	s.mu.Lock()

	pv, ok := s.pvs[id]
	if !ok {
		s.mu.Unlock()
		return nil, &entity.NotFoundError{Entite: "PV", ID: id}
	}

	now := time.Now()
	pv.Statut = entity.PVValide
	pv.ValidatedBy = validatorID
	pv.ValidatedAt = &now
	pv.UpdatedAt = now

	actionID := pv.ActionID
	if a, ok := s.actions[actionID]; ok {
		a.Statut = entity.ActionTerminee
		a.UpdatedAt = now
	}

	cp := *pv
	s.mu.Unlock()

	s.publish("pv", "update", id)
	if actionID != "" {
		s.publish("action", "update", actionID)
	}
	return &cp, nil
}

func (s *Store) DeletePV(ctx context.Context, id string) error {
	s.mu.Lock()

	pv, ok := s.pvs[id]
	if !ok {
		s.mu.Unlock()
		return &entity.NotFoundError{Entite: "PV", ID: id}
	}

	if a, ok := s.actions[pv.ActionID]; ok && a.PVID == id {
		a.PVID = ""
	}
	delete(s.pvs, id)
	s.mu.Unlock()

	s.publish("pv", "delete", id)
	return nil
}
