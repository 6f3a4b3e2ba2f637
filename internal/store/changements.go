package store

import (
	"context"
	"sort"
	"time"

	"github.com/saaadbeen/hnr-monitor/internal/domain/entity"
)

func (s *Store) CreateChangement(ctx context.Context, changement *entity.Changement) error {
	s.mu.Lock()

	now := time.Now()
	changement.ID = newID()
	changement.CreatedAt = now
	changement.UpdatedAt = now
	if changement.Statut == "" {
		changement.Statut = entity.ChangementDetecte
	}
	if changement.DateDetection.IsZero() {
		changement.DateDetection = now
	}
	if changement.Geometry == nil {
		changement.Geometry, _ = synthesize(changement.Commune)
	}

	cp := *changement
	s.changements[cp.ID] = &cp
	s.mu.Unlock()

	s.publish("changement", "create", changement.ID)
	return nil
}

func (s *Store) GetChangementByID(ctx context.Context, id string) (*entity.Changement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.changements[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (s *Store) ListChangements(ctx context.Context) ([]entity.Changement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]entity.Changement, 0, len(s.changements))
	for _, c := range s.changements {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *Store) UpdateChangement(ctx context.Context, id string, patch entity.ChangementUpdate) (*entity.Changement, error) {
	s.mu.Lock()

	c, ok := s.changements[id]
	if !ok {
		s.mu.Unlock()
		return nil, &entity.NotFoundError{Entite: "changement", ID: id}
	}

	if patch.Statut != nil {
		c.Statut = *patch.Statut
	}
	if patch.LinkedActionID != nil {
		c.LinkedActionID = *patch.LinkedActionID
	}
	if patch.Commune != nil && *patch.Commune != c.Commune {
		c.Commune = *patch.Commune
		if patch.Geometry == nil {
			c.Geometry, _ = synthesize(c.Commune)
		}
	}
	if patch.Geometry != nil {
		c.Geometry = patch.Geometry
	}
	c.UpdatedAt = time.Now()

	cp := *c
	s.mu.Unlock()

	s.publish("changement", "update", id)
	return &cp, nil
}

func (s *Store) DeleteChangement(ctx context.Context, id string) error {
	s.mu.Lock()

	if _, ok := s.changements[id]; !ok {
		s.mu.Unlock()
		return &entity.NotFoundError{Entite: "changement", ID: id}
	}
	delete(s.changements, id)
	s.mu.Unlock()

	s.publish("changement", "delete", id)
	return nil
}
