package tracker

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/tendant/carbon-tracker/pkg/domain"
	"github.com/tendant/carbon-tracker/pkg/repository"
)

// EmissionsData is a placeholder estimate for one system.
type EmissionsData struct {
	// Emissions in tons, in [0, 100).
	Emissions int
	// Efficiency as a percentage, in [0, 100).
	Efficiency      int
	Recommendations string
}

// EmissionsService serves placeholder emissions figures. Nothing is
// persisted or cached.
type EmissionsService struct {
	systems repository.SystemsRepository
	intn    func(n int) int
}

// NewEmissionsService creates a new emissions service.
func NewEmissionsService(store repository.Store) *EmissionsService {
	return &EmissionsService{
		systems: store.Systems(),
		intn:    rand.Intn,
	}
}

// GetData returns fresh random figures for an existing system.
func (s *EmissionsService) GetData(ctx context.Context, systemID string) (*EmissionsData, error) {
	sys, err := s.systems.GetByID(ctx, systemID)
	if err != nil {
		return nil, err
	}
	data := Estimate(sys.Type(), s.intn)
	return &data, nil
}

// Estimate builds a placeholder estimate for systemType using intn as the
// random source.
func Estimate(systemType domain.SystemType, intn func(n int) int) EmissionsData {
	return EmissionsData{
		Emissions:       intn(100),
		Efficiency:      intn(100),
		Recommendations: fmt.Sprintf("Consider optimizing your %s to reduce emissions.", systemType),
	}
}
