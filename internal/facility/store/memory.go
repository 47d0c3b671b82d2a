package store

import (
	"context"
	"sort"
	"sync"

	"vaxadmin/internal/facility/models"
	id "vaxadmin/pkg/domain"
	"vaxadmin/pkg/platform/sentinel"
)

// InMemoryFacilityStore is the development and test backend.
type InMemoryFacilityStore struct {
	mu         sync.RWMutex
	facilities map[id.FacilityID]*models.HealthFacility
}

func NewInMemoryFacilityStore() *InMemoryFacilityStore {
	return &InMemoryFacilityStore{facilities: make(map[id.FacilityID]*models.HealthFacility)}
}

func (s *InMemoryFacilityStore) Create(_ context.Context, facility *models.HealthFacility) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.facilities[facility.ID]; ok {
		return sentinel.ErrConflict
	}
	clone := *facility
	s.facilities[facility.ID] = &clone
	return nil
}

func (s *InMemoryFacilityStore) FindByID(_ context.Context, facilityID id.FacilityID) (*models.HealthFacility, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	facility, ok := s.facilities[facilityID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	clone := *facility
	return &clone, nil
}

func (s *InMemoryFacilityStore) List(_ context.Context, cityID id.CityID) ([]*models.HealthFacility, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.HealthFacility, 0, len(s.facilities))
	for _, facility := range s.facilities {
		if !cityID.IsZero() && facility.CityID != cityID {
			continue
		}
		clone := *facility
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

func (s *InMemoryFacilityStore) Update(_ context.Context, facility *models.HealthFacility) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.facilities[facility.ID]; !ok {
		return sentinel.ErrNotFound
	}
	clone := *facility
	s.facilities[facility.ID] = &clone
	return nil
}

func (s *InMemoryFacilityStore) Delete(_ context.Context, facilityID id.FacilityID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.facilities[facilityID]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.facilities, facilityID)
	return nil
}

// InMemoryDistributionStore keeps the per-facility distribution log in
// process memory.
type InMemoryDistributionStore struct {
	mu            sync.RWMutex
	distributions map[id.FacilityID][]*models.Distribution
}

func NewInMemoryDistributionStore() *InMemoryDistributionStore {
	return &InMemoryDistributionStore{distributions: make(map[id.FacilityID][]*models.Distribution)}
}

func (s *InMemoryDistributionStore) Create(_ context.Context, distribution *models.Distribution) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	clone := *distribution
	s.distributions[distribution.FacilityID] = append(s.distributions[distribution.FacilityID], &clone)
	return nil
}

func (s *InMemoryDistributionStore) ListByFacility(_ context.Context, facilityID id.FacilityID) ([]*models.Distribution, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entries := s.distributions[facilityID]
	out := make([]*models.Distribution, 0, len(entries))
	for _, distribution := range entries {
		clone := *distribution
		out = append(out, &clone)
	}
	return out, nil
}
