package service

import (
	"context"
	"errors"
	"strings"

	"structiv/internal/database"
	"structiv/internal/domain"
	"structiv/internal/models"

	"github.com/rs/zerolog"
)

const msgUnitNotFound = "Unit not found"

type UnitService struct {
	repo   domain.UnitRepository
	logger *zerolog.Logger
}

func NewUnitService(repo domain.UnitRepository, logger *zerolog.Logger) *UnitService {
	return &UnitService{repo: repo, logger: logger}
}

func (s *UnitService) ListUnits(ctx context.Context) ([]*models.Unit, error) {
	return s.repo.ListUnits(ctx)
}

func (s *UnitService) GetUnit(ctx context.Context, id int64) (*models.Unit, error) {
	unit, err := s.repo.GetUnit(ctx, id)
	if errors.Is(err, database.ErrNotFound) {
		return nil, notFound(msgUnitNotFound)
	}
	return unit, err
}

func (s *UnitService) CreateUnit(ctx context.Context, unit *models.Unit) error {
	unit.Name = strings.TrimSpace(unit.Name)
	if unit.Name == "" {
		return invalid("Unit name is required")
	}
	if unit.Size < 0 || unit.Price < 0 {
		return invalid("Size and price cannot be negative")
	}
	if unit.Status == "" {
		unit.Status = models.UnitAvailable
	}
	if !models.IsUnitStatus(unit.Status) {
		return invalid("Invalid unit status: " + unit.Status)
	}

	if err := s.repo.CreateUnit(ctx, unit); err != nil {
		return err
	}
	s.logger.Info().Int64("unit_id", unit.ID).Str("name", unit.Name).Msg("unit created")
	return nil
}

// UpdateUnit changes only the supplied fields; images are replaced as a whole.
func (s *UnitService) UpdateUnit(ctx context.Context, id int64, patch models.UnitPatch) error {
	if patch.Empty() {
		return invalid("No fields to update")
	}
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return invalid("Unit name cannot be empty")
		}
		patch.Name = &name
	}
	if (patch.Size != nil && *patch.Size < 0) || (patch.Price != nil && *patch.Price < 0) {
		return invalid("Size and price cannot be negative")
	}
	if patch.Status != nil && !models.IsUnitStatus(*patch.Status) {
		return invalid("Invalid unit status: " + *patch.Status)
	}

	if err := s.repo.UpdateUnit(ctx, id, patch); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return notFound(msgUnitNotFound)
		}
		return err
	}
	s.logger.Info().Int64("unit_id", id).Msg("unit updated")
	return nil
}

// SeedUnits loads configured units into an empty table.
func (s *UnitService) SeedUnits(ctx context.Context, units []models.Unit) error {
	if len(units) == 0 {
		return nil
	}
	n, err := s.repo.SeedUnits(ctx, units)
	if err != nil {
		return err
	}
	if n > 0 {
		s.logger.Info().Int("count", n).Msg("seeded units")
	}
	return nil
}
