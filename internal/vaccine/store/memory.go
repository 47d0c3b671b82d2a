package store

import (
	"context"
	"sort"
	"sync"

	"vaxadmin/internal/vaccine/models"
	id "vaxadmin/pkg/domain"
	"vaxadmin/pkg/platform/sentinel"
)

// InMemoryVaccineStore is the development and test backend.
type InMemoryVaccineStore struct {
	mu       sync.RWMutex
	vaccines map[id.VaccineID]*models.Vaccine
}

func NewInMemoryVaccineStore() *InMemoryVaccineStore {
	return &InMemoryVaccineStore{vaccines: make(map[id.VaccineID]*models.Vaccine)}
}

func (s *InMemoryVaccineStore) Create(_ context.Context, vaccine *models.Vaccine) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.vaccines[vaccine.ID]; ok {
		return sentinel.ErrConflict
	}
	clone := *vaccine
	s.vaccines[vaccine.ID] = &clone
	return nil
}

func (s *InMemoryVaccineStore) FindByID(_ context.Context, vaccineID id.VaccineID) (*models.Vaccine, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	vaccine, ok := s.vaccines[vaccineID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	clone := *vaccine
	return &clone, nil
}

func (s *InMemoryVaccineStore) List(_ context.Context) ([]*models.Vaccine, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Vaccine, 0, len(s.vaccines))
	for _, vaccine := range s.vaccines {
		clone := *vaccine
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID.String() < out[j].ID.String()
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (s *InMemoryVaccineStore) Update(_ context.Context, vaccine *models.Vaccine) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.vaccines[vaccine.ID]; !ok {
		return sentinel.ErrNotFound
	}
	clone := *vaccine
	s.vaccines[vaccine.ID] = &clone
	return nil
}

func (s *InMemoryVaccineStore) Delete(_ context.Context, vaccineID id.VaccineID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.vaccines[vaccineID]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.vaccines, vaccineID)
	return nil
}
