package repository

import (
	"context"

	"github.com/sf-parking-zones/internal/domain"
)

// SettingsRepository хранит настройки устройства
type SettingsRepository interface {
	// Load читает настройки; отсутствующий файл - пустые настройки
	Load(ctx context.Context) (*domain.DeviceSettings, error)

	// Save атомарно сохраняет настройки
	Save(ctx context.Context, settings *domain.DeviceSettings) error

	// SaveCandidate сохраняет пользовательский пресет
	SaveCandidate(ctx context.Context, name string, data []byte) error

	// LoadCandidate читает пользовательский пресет
	LoadCandidate(ctx context.Context, name string) ([]byte, error)

	// ListCandidates перечисляет пользовательские пресеты
	ListCandidates(ctx context.Context) ([]string, error)
}
