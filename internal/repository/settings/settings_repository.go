// Package settings stores device settings and user presets as YAML files.
package settings

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/goccy/go-yaml"
	"go.uber.org/zap"

	"github.com/sf-parking-zones/internal/domain"
	"github.com/sf-parking-zones/internal/domain/repository"
	apperrors "github.com/sf-parking-zones/internal/pkg/errors"
	"github.com/sf-parking-zones/internal/pkg/validator"
)

const presetsDir = "presets"

var candidateName = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_.-]{0,63}$`)

type fileRepository struct {
	path   string
	logger *zap.Logger
}

// NewFileRepository keeps settings at path; presets go next to it.
func NewFileRepository(path string, logger *zap.Logger) repository.SettingsRepository {
	return &fileRepository{path: path, logger: logger}
}

func (r *fileRepository) Load(ctx context.Context) (*domain.DeviceSettings, error) {
	data, err := os.ReadFile(r.path)
	if errors.Is(err, fs.ErrNotExist) {
		return &domain.DeviceSettings{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	var s domain.DeviceSettings
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, apperrors.ErrInvalidRequest.
			WithDetails(map[string]interface{}{"path": r.path}).
			Wrap(fmt.Errorf("parse settings: %w", err))
	}
	return &s, nil
}

func (r *fileRepository) Save(ctx context.Context, s *domain.DeviceSettings) error {
	if err := validator.Validate(s); err != nil {
		return apperrors.ErrValidationFailed.
			WithDetails(validator.FieldErrors(err)).
			Wrap(err)
	}
	if len(s.History) > domain.MaxSessionHistory {
		s.History = s.History[len(s.History)-domain.MaxSessionHistory:]
	}

	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}
	if err := writeAtomic(r.path, data); err != nil {
		return err
	}
	r.logger.Debug("Settings saved", zap.String("path", r.path), zap.Int("permits", len(s.Permits)))
	return nil
}

func (r *fileRepository) SaveCandidate(ctx context.Context, name string, data []byte) error {
	path, err := r.candidatePath(name)
	if err != nil {
		return err
	}
	if err := writeAtomic(path, data); err != nil {
		return err
	}
	r.logger.Info("Preset saved", zap.String("name", name), zap.String("path", path))
	return nil
}

func (r *fileRepository) LoadCandidate(ctx context.Context, name string) ([]byte, error) {
	path, err := r.candidatePath(name)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, apperrors.ErrInvalidRequest.
			WithDetails(map[string]interface{}{"preset": name}).
			Wrap(err)
	}
	if err != nil {
		return nil, fmt.Errorf("read preset %s: %w", name, err)
	}
	return data, nil
}

func (r *fileRepository) ListCandidates(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(r.presetsPath())
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("list presets: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), ".yaml"))
	}
	sort.Strings(names)
	return names, nil
}

func (r *fileRepository) presetsPath() string {
	return filepath.Join(filepath.Dir(r.path), presetsDir)
}

func (r *fileRepository) candidatePath(name string) (string, error) {
	if !candidateName.MatchString(name) {
		return "", apperrors.ErrInvalidRequest.WithDetails(map[string]interface{}{"preset": name})
	}
	return filepath.Join(r.presetsPath(), name+".yaml"), nil
}

// writeAtomic пишет во временный файл и переименовывает
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename %s: %w", path, err)
	}
	return nil
}
