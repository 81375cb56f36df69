package repository

import (
	"context"

	"github.com/sf-parking-zones/internal/domain"
)

// ParkingDataSource определяет методы загрузки сырых данных DataSF
type ParkingDataSource interface {
	// FetchBlockfaces возвращает регуляции по кварталам; rppOnly - только RPP
	FetchBlockfaces(ctx context.Context, rppOnly bool) ([]domain.RawRecord, error)

	// FetchMeters возвращает парковочные счётчики
	FetchMeters(ctx context.Context) ([]domain.RawRecord, error)

	// FetchPermitParcels возвращает участки RPP в GeoJSON
	FetchPermitParcels(ctx context.Context) ([]domain.RawFeature, error)
}
