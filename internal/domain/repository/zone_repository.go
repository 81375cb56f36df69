package repository

import (
	"context"

	"github.com/sf-parking-zones/internal/domain"
)

// ZoneRepository определяет методы для поиска парковочных зон
type ZoneRepository interface {
	// All возвращает все зоны
	All(ctx context.Context) ([]domain.ParkingZone, error)

	// ByID возвращает зону по идентификатору
	ByID(ctx context.Context, id string) (*domain.ParkingZone, error)

	// FindByPoint возвращает зоны, содержащие точку
	FindByPoint(ctx context.Context, c domain.Coordinate) ([]domain.ParkingZone, error)

	// PermitAreas возвращает список RPP-районов
	PermitAreas(ctx context.Context) ([]domain.PermitArea, error)

	// City возвращает описание города и границы покрытия
	City(ctx context.Context) (domain.City, error)
}
