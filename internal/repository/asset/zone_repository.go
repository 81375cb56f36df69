// Package asset serves parking zones from the bundled zone asset file.
package asset

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"

	"go.uber.org/zap"

	"github.com/sf-parking-zones/internal/domain"
	"github.com/sf-parking-zones/internal/domain/repository"
	apperrors "github.com/sf-parking-zones/internal/pkg/errors"
)

var gzipMagic = []byte{0x1f, 0x8b}

type zoneRepository struct {
	dataset *domain.Dataset
	byID    map[string]int
	boxes   []domain.BoundingBox
	logger  *zap.Logger
}

// NewZoneRepository indexes an in-memory dataset.
func NewZoneRepository(dataset *domain.Dataset, logger *zap.Logger) repository.ZoneRepository {
	r := &zoneRepository{
		dataset: dataset,
		byID:    make(map[string]int, len(dataset.Zones)),
		boxes:   make([]domain.BoundingBox, len(dataset.Zones)),
		logger:  logger,
	}
	for i, z := range dataset.Zones {
		r.byID[z.ID] = i
		r.boxes[i] = z.BoundingBox()
	}
	if r.dataset.City.Bounds.IsZero() {
		r.dataset.City.Bounds = domain.SFBounds
	}
	return r
}

// NewZoneRepositoryFromFile loads path and indexes it. Failures are
// reported as DATA_LOAD_FAILED.
func NewZoneRepositoryFromFile(path string, logger *zap.Logger) (repository.ZoneRepository, error) {
	ds, err := LoadDataset(path)
	if err != nil {
		logger.Error("Failed to load zone asset", zap.String("path", path), zap.Error(err))
		return nil, apperrors.ErrDataLoadFailed.WithDetails(map[string]interface{}{"path": path}).Wrap(err)
	}
	logger.Info("Zone asset loaded",
		zap.String("path", path),
		zap.String("version", ds.Version),
		zap.Int("zones", len(ds.Zones)))
	return NewZoneRepository(ds, logger), nil
}

// LoadDataset reads a zone asset; gzip is detected from the content.
func LoadDataset(path string) (*domain.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open zone asset: %w", err)
	}
	defer f.Close()
	return DecodeDataset(f)
}

// DecodeDataset reads plain or gzipped dataset JSON.
func DecodeDataset(r io.Reader) (*domain.Dataset, error) {
	br := bufio.NewReader(r)
	head, _ := br.Peek(2)

	var src io.Reader = br
	if bytes.Equal(head, gzipMagic) {
		gz, err := gzip.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("open gzip: %w", err)
		}
		defer gz.Close()
		src = gz
	}

	var ds domain.Dataset
	if err := json.NewDecoder(src).Decode(&ds); err != nil {
		return nil, fmt.Errorf("decode zone asset: %w", err)
	}
	return &ds, nil
}

func (r *zoneRepository) All(ctx context.Context) ([]domain.ParkingZone, error) {
	return r.dataset.Zones, nil
}

func (r *zoneRepository) ByID(ctx context.Context, id string) (*domain.ParkingZone, error) {
	i, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	z := r.dataset.Zones[i]
	return &z, nil
}

// FindByPoint returns containing zones, most restrictive first, ties by ID.
func (r *zoneRepository) FindByPoint(ctx context.Context, c domain.Coordinate) ([]domain.ParkingZone, error) {
	var out []domain.ParkingZone
	for i, z := range r.dataset.Zones {
		if !r.boxes[i].Contains(c) {
			continue
		}
		if z.Contains(c) {
			out = append(out, z)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Restrictiveness != out[j].Restrictiveness {
			return out[i].Restrictiveness > out[j].Restrictiveness
		}
		return out[i].ID < out[j].ID
	})

	r.logger.Debug("Zones found by point",
		zap.Float64("lat", c.Latitude),
		zap.Float64("lon", c.Longitude),
		zap.Int("count", len(out)))
	return out, nil
}

func (r *zoneRepository) PermitAreas(ctx context.Context) ([]domain.PermitArea, error) {
	return r.dataset.PermitAreas, nil
}

func (r *zoneRepository) City(ctx context.Context) (domain.City, error) {
	return r.dataset.City, nil
}
