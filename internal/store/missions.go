package store

import (
	"context"
	"sort"
	"time"

	"github.com/saaadbeen/hnr-monitor/internal/domain/entity"
)

func (s *Store) CreateMission(ctx context.Context, mission *entity.Mission) error {
	s.mu.Lock()

	now := time.Now()
	mission.ID = newID()
	mission.CreatedAt = now
	mission.UpdatedAt = now
	if mission.Statut == "" {
		mission.Statut = entity.MissionPlanifiee
	}
	if mission.Geometry == nil {
		mission.Geometry, _ = synthesize(mission.Commune)
	}

	cp := *mission
	s.missions[cp.ID] = &cp
	s.mu.Unlock()

	s.publish("mission", "create", mission.ID)
	return nil
}

func (s *Store) GetMissionByID(ctx context.Context, id string) (*entity.Mission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.missions[id]
	if !ok {
		return nil, nil
	}
	cp := *m
	return &cp, nil
}

func (s *Store) ListMissions(ctx context.Context) ([]entity.Mission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]entity.Mission, 0, len(s.missions))
	for _, m := range s.missions {
		out = append(out, *m)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *Store) UpdateMission(ctx context.Context, id string, patch entity.MissionUpdate) (*entity.Mission, error) {
	s.mu.Lock()

	m, ok := s.missions[id]
	if !ok {
		s.mu.Unlock()
		return nil, &entity.NotFoundError{Entite: "mission", ID: id}
	}

	if patch.Titre != nil {
		m.Titre = *patch.Titre
	}
	if patch.Description != nil {
		m.Description = *patch.Description
	}
	if patch.Statut != nil {
		m.Statut = *patch.Statut
	}
	if patch.Prefecture != nil {
		m.Prefecture = *patch.Prefecture
	}
	if patch.AgentIDs != nil {
		m.AgentIDs = *patch.AgentIDs
	}
	if patch.Metadata != nil {
		m.Metadata = *patch.Metadata
	}
	if patch.Commune != nil && *patch.Commune != m.Commune {
		m.Commune = *patch.Commune
		// Changement de commune sans géométrie explicite : on resynthétise
		if patch.Geometry == nil {
			m.Geometry, _ = synthesize(m.Commune)
		}
	}
	if patch.Geometry != nil {
		m.Geometry = patch.Geometry
	}
	m.UpdatedAt = time.Now()

	cp := *m
	s.mu.Unlock()

	s.publish("mission", "update", id)
	return &cp, nil
}

func (s *Store) DeleteMission(ctx context.Context, id string) error {
	s.mu.Lock()

	if _, ok := s.missions[id]; !ok {
		s.mu.Unlock()
		return &entity.NotFoundError{Entite: "mission", ID: id}
	}
	delete(s.missions, id)
	s.mu.Unlock()

	s.publish("mission", "delete", id)
	return nil
}
