package usecase_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/sf-parking-zones/internal/domain"
)

// MockZoneRepository - мок для ZoneRepository
type MockZoneRepository struct {
	mock.Mock
}

func (m *MockZoneRepository) All(ctx context.Context) ([]domain.ParkingZone, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ParkingZone), args.Error(1)
}

func (m *MockZoneRepository) ByID(ctx context.Context, id string) (*domain.ParkingZone, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ParkingZone), args.Error(1)
}

func (m *MockZoneRepository) FindByPoint(ctx context.Context, c domain.Coordinate) ([]domain.ParkingZone, error) {
	args := m.Called(ctx, c)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ParkingZone), args.Error(1)
}

func (m *MockZoneRepository) PermitAreas(ctx context.Context) ([]domain.PermitArea, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PermitArea), args.Error(1)
}

func (m *MockZoneRepository) City(ctx context.Context) (domain.City, error) {
	args := m.Called(ctx)
	return args.Get(0).(domain.City), args.Error(1)
}

// MockSettingsRepository - мок для SettingsRepository
type MockSettingsRepository struct {
	mock.Mock
}

func (m *MockSettingsRepository) Load(ctx context.Context) (*domain.DeviceSettings, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DeviceSettings), args.Error(1)
}

func (m *MockSettingsRepository) Save(ctx context.Context, s *domain.DeviceSettings) error {
	return m.Called(ctx, s).Error(0)
}

func (m *MockSettingsRepository) SaveCandidate(ctx context.Context, name string, data []byte) error {
	return m.Called(ctx, name, data).Error(0)
}

func (m *MockSettingsRepository) LoadCandidate(ctx context.Context, name string) ([]byte, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockSettingsRepository) ListCandidates(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// MockDataSource - мок для ParkingDataSource
type MockDataSource struct {
	mock.Mock
}

func (m *MockDataSource) FetchBlockfaces(ctx context.Context, rppOnly bool) ([]domain.RawRecord, error) {
	args := m.Called(ctx, rppOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RawRecord), args.Error(1)
}

func (m *MockDataSource) FetchMeters(ctx context.Context) ([]domain.RawRecord, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RawRecord), args.Error(1)
}

func (m *MockDataSource) FetchPermitParcels(ctx context.Context) ([]domain.RawFeature, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RawFeature), args.Error(1)
}

// MockStreamRepository - мок для StreamRepository
type MockStreamRepository struct {
	mock.Mock
}

func (m *MockStreamRepository) ConsumeStream(ctx context.Context, stream, group, consumer string) (<-chan domain.StreamMessage, error) {
	args := m.Called(ctx, stream, group, consumer)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(<-chan domain.StreamMessage), args.Error(1)
}

func (m *MockStreamRepository) AckMessage(ctx context.Context, stream, group, messageID string) error {
	return m.Called(ctx, stream, group, messageID).Error(0)
}

func (m *MockStreamRepository) CreateConsumerGroup(ctx context.Context, stream, group string) error {
	return m.Called(ctx, stream, group).Error(0)
}

func (m *MockStreamRepository) PublishToStream(ctx context.Context, stream string, data interface{}) error {
	return m.Called(ctx, stream, data).Error(0)
}

// MockCacheRepository - мок для CacheRepository
type MockCacheRepository struct {
	mock.Mock
}

func (m *MockCacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockCacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return m.Called(ctx, key, value, ttl).Error(0)
}

func (m *MockCacheRepository) Delete(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

func (m *MockCacheRepository) Exists(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

func (m *MockCacheRepository) GetPage(ctx context.Context, dataset, query string) ([]byte, error) {
	args := m.Called(ctx, dataset, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockCacheRepository) SetPage(ctx context.Context, dataset, query string, data []byte, ttl time.Duration) error {
	return m.Called(ctx, dataset, query, data, ttl).Error(0)
}

func (m *MockCacheRepository) GetLastPublished(ctx context.Context) (*domain.DatasetPublishedEvent, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DatasetPublishedEvent), args.Error(1)
}

func (m *MockCacheRepository) SetLastPublished(ctx context.Context, event *domain.DatasetPublishedEvent) error {
	return m.Called(ctx, event).Error(0)
}
