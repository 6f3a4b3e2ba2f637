package store

import (
	"context"
	"sort"
	"time"

	"github.com/saaadbeen/hnr-monitor/internal/domain/entity"
)

func (s *Store) CreateDouar(ctx context.Context, douar *entity.Douar) error {
	s.mu.Lock()

	now := time.Now()
	douar.ID = newID()
	douar.CreatedAt = now
	douar.UpdatedAt = now
	if douar.Geometry == nil {
		douar.Geometry, _ = synthesize(douar.Commune)
	}

	cp := *douar
	s.douars[cp.ID] = &cp
	s.mu.Unlock()

	s.publish("douar", "create", douar.ID)
	return nil
}

func (s *Store) GetDouarByID(ctx context.Context, id string) (*entity.Douar, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.douars[id]
	if !ok {
		return nil, nil
	}
	cp := *d
	return &cp, nil
}

func (s *Store) ListDouars(ctx context.Context) ([]entity.Douar, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]entity.Douar, 0, len(s.douars))
	for _, d := range s.douars {
		out = append(out, *d)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *Store) UpdateDouar(ctx context.Context, id string, patch entity.DouarUpdate) (*entity.Douar, error) {
	s.mu.Lock()

	d, ok := s.douars[id]
	if !ok {
		s.mu.Unlock()
		return nil, &entity.NotFoundError{Entite: "douar", ID: id}
	}

	if patch.Nom != nil {
		d.Nom = *patch.Nom
	}
	if patch.Prefecture != nil {
		d.Prefecture = *patch.Prefecture
	}
	if patch.Population != nil {
		d.Population = *patch.Population
	}
	if patch.Commune != nil && *patch.Commune != d.Commune {
		d.Commune = *patch.Commune
		if patch.Geometry == nil {
			d.Geometry, _ = synthesize(d.Commune)
		}
	}
	if patch.Geometry != nil {
		d.Geometry = patch.Geometry
	}
	d.UpdatedAt = time.Now()

	cp := *d
	s.mu.Unlock()

	s.publish("douar", "update", id)
	return &cp, nil
}

func (s *Store) DeleteDouar(ctx context.Context, id string) error {
	s.mu.Lock()

	if _, ok := s.douars[id]; !ok {
		s.mu.Unlock()
		return &entity.NotFoundError{Entite: "douar", ID: id}
	}
	delete(s.douars, id)
	s.mu.Unlock()

	s.publish("douar", "delete", id)
	return nil
}
