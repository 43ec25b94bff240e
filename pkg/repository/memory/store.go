// Package memory provides an in-memory implementation of the repository
// contracts used for tests and ephemeral environments.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/tendant/carbon-tracker/pkg/domain"
	"github.com/tendant/carbon-tracker/pkg/repository"
)

var (
	_ repository.Store                   = (*Store)(nil)
	_ repository.OrganizationsRepository = (*organizations)(nil)
	_ repository.SystemsRepository       = (*systems)(nil)
)

// Store keeps organizations and systems in maps guarded by one lock.
type Store struct {
	mu            sync.RWMutex
	organizations map[string]*domain.Organization
	systems       map[string]*domain.System
	// order records insertion sequence so listings are stable even when
	// timestamps collide.
	order map[string]uint64
	seq   uint64
	now   func() time.Time
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		organizations: make(map[string]*domain.Organization),
		systems:       make(map[string]*domain.System),
		order:         make(map[string]uint64),
		now:           time.Now,
	}
}

// Organizations returns the organization repository.
func (s *Store) Organizations() repository.OrganizationsRepository {
	return (*organizations)(s)
}

// Systems returns the system repository.
func (s *Store) Systems() repository.SystemsRepository {
	return (*systems)(s)
}

// Ping always succeeds.
func (s *Store) Ping(context.Context) error { return nil }

// Close is a no-op.
func (s *Store) Close(context.Context) error { return nil }

type organizations Store

func (r *organizations) Create(_ context.Context, org *domain.Organization) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	org.ID = uuid.NewString()
	if org.CreatedAt.IsZero() {
		org.CreatedAt = r.now().UTC()
	}
	if org.SystemIDs == nil {
		org.SystemIDs = []string{}
	}
	r.organizations[org.ID] = cloneOrganization(org)
	r.seq++
	r.order[org.ID] = r.seq
	return nil
}

func (r *organizations) GetByID(_ context.Context, id string) (*domain.Organization, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	org, ok := r.organizations[id]
	if !ok {
		return nil, domain.ErrOrganizationNotFound
	}
	return cloneOrganization(org), nil
}

func (r *organizations) List(context.Context) ([]*domain.Organization, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.Organization, 0, len(r.organizations))
	for _, org := range r.organizations {
		out = append(out, cloneOrganization(org))
	}
	sort.SliceStable(out, func(i, j int) bool {
		return r.order[out[i].ID] < r.order[out[j].ID]
	})
	return out, nil
}

func (r *organizations) UpdateName(_ context.Context, id, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	org, ok := r.organizations[id]
	if !ok {
		return domain.ErrOrganizationNotFound
	}
	org.Name = name
	return nil
}

func (r *organizations) AppendSystem(_ context.Context, id, systemID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	org, ok := r.organizations[id]
	if !ok {
		return domain.ErrOrganizationNotFound
	}
	org.SystemIDs = append(org.SystemIDs, systemID)
	return nil
}

func (r *organizations) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.organizations[id]; !ok {
		return domain.ErrOrganizationNotFound
	}
	delete(r.organizations, id)
	delete(r.order, id)
	return nil
}

type systems Store

func (r *systems) Create(_ context.Context, sys *domain.System) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	sys.ID = uuid.NewString()
	if sys.CreatedAt.IsZero() {
		sys.CreatedAt = r.now().UTC()
	}
	r.systems[sys.ID] = cloneSystem(sys)
	r.seq++
	r.order[sys.ID] = r.seq
	return nil
}

func (r *systems) GetByID(_ context.Context, id string) (*domain.System, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sys, ok := r.systems[id]
	if !ok {
		return nil, domain.ErrSystemNotFound
	}
	return cloneSystem(sys), nil
}

func (r *systems) GetByIDs(_ context.Context, ids []string) ([]*domain.System, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.System, 0, len(ids))
	for _, id := range ids {
		if sys, ok := r.systems[id]; ok {
			out = append(out, cloneSystem(sys))
		}
	}
	return out, nil
}

func (r *systems) ListByOrganization(_ context.Context, orgID string) ([]*domain.System, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []*domain.System{}
	for _, sys := range r.systems {
		if sys.OrganizationID == orgID {
			out = append(out, cloneSystem(sys))
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return r.order[out[i].ID] < r.order[out[j].ID]
	})
	return out, nil
}

func (r *systems) Update(_ context.Context, sys *domain.System) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.systems[sys.ID]
	if !ok {
		return domain.ErrSystemNotFound
	}
	existing.Variant = sys.Variant
	existing.Metrics = cloneMetrics(sys.Metrics)
	return nil
}

func (r *systems) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.systems[id]; !ok {
		return domain.ErrSystemNotFound
	}
	delete(r.systems, id)
	delete(r.order, id)
	return nil
}

func (r *systems) DeleteByOrganization(_ context.Context, orgID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int64
	for id, sys := range r.systems {
		if sys.OrganizationID == orgID {
			delete(r.systems, id)
			delete(r.order, id)
			n++
		}
	}
	return n, nil
}

func cloneOrganization(org *domain.Organization) *domain.Organization {
	out := *org
	out.SystemIDs = append([]string{}, org.SystemIDs...)
	return &out
}

func cloneSystem(sys *domain.System) *domain.System {
	out := *sys
	out.Metrics = cloneMetrics(sys.Metrics)
	return &out
}

func cloneMetrics(m domain.Metrics) domain.Metrics {
	var out domain.Metrics
	if m.Emissions != nil {
		v := *m.Emissions
		out.Emissions = &v
	}
	if m.Efficiency != nil {
		v := *m.Efficiency
		out.Efficiency = &v
	}
	if m.Recommendations != nil {
		v := *m.Recommendations
		out.Recommendations = &v
	}
	return out
}
