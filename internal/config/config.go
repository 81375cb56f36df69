package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Log            LogConfig
	Rules          RulesConfig
	Data           DataConfig
	DataSF         DataSFConfig
	Redis          RedisConfig
	Cache          CacheConfig
	Schedule       ScheduleConfig
	Simplification SimplificationConfig
	Worker         WorkerConfig
}

type LogConfig struct {
	Level string
}

type RulesConfig struct {
	TimeZone string
}

type DataConfig struct {
	ZonesPath    string
	OutputDir    string
	Compress     bool
	SettingsPath string
}

type DataSFConfig struct {
	BaseURL           string
	BlockfaceDataset  string
	MetersDataset     string
	ParcelsDataset    string
	AppToken          string
	PageSize          int
	Timeout           time.Duration
	MaxRetries        int
	RetryDelay        time.Duration
	RequestsPerSecond float64
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

type CacheConfig struct {
	FetchTTL time.Duration
}

type ScheduleConfig struct {
	Frequency string
	Day       string
	Hour      int
}

type SimplificationConfig struct {
	Preset           string
	MaxAreaDeviation float64
}

type WorkerConfig struct {
	Enabled    bool
	RunOnStart bool
}

var defaults = map[string]interface{}{
	"LOG_LEVEL":                         "info",
	"RULES_TIMEZONE":                    "America/Los_Angeles",
	"DATA_ZONES_PATH":                   "data/sf_parking_zones.json",
	"DATA_OUTPUT_DIR":                   "output",
	"DATA_COMPRESS":                     true,
	"DATASF_BASE_URL":                   "https://data.sfgov.org/resource",
	"DATASF_BLOCKFACE_DATASET":          "hi6h-neyh",
	"DATASF_METERS_DATASET":             "8vzz-qzz9",
	"DATASF_PARCELS_DATASET":            "i886-hxz9",
	"DATASF_PAGE_SIZE":                  50000,
	"DATASF_TIMEOUT":                    60,
	"DATASF_MAX_RETRIES":                3,
	"DATASF_RETRY_DELAY":                5,
	"DATASF_RATE_LIMIT":                 2.0,
	"REDIS_HOST":                        "localhost",
	"REDIS_PORT":                        6379,
	"CACHE_FETCH_TTL":                   6 * 60 * 60,
	"SCHEDULE_FREQUENCY":                "weekly",
	"SCHEDULE_DAY":                      "sunday",
	"SCHEDULE_HOUR":                     3,
	"SIMPLIFICATION_PRESET":             "balanced",
	"SIMPLIFICATION_MAX_AREA_DEVIATION": 0.1,
	"WORKER_ENABLED":                    true,
}

// Load reads ./.env (optional) and the environment.
func Load() (*Config, error) {
	return LoadFrom(".env")
}

// LoadFrom reads the given dotenv file, then the environment. A missing
// file is not an error.
func LoadFrom(path string) (*Config, error) {
	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	v.SetConfigFile(path)
	v.SetConfigType("env")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := &Config{
		Log: LogConfig{
			Level: v.GetString("LOG_LEVEL"),
		},
		Rules: RulesConfig{
			TimeZone: v.GetString("RULES_TIMEZONE"),
		},
		Data: DataConfig{
			ZonesPath:    v.GetString("DATA_ZONES_PATH"),
			OutputDir:    v.GetString("DATA_OUTPUT_DIR"),
			Compress:     v.GetBool("DATA_COMPRESS"),
			SettingsPath: v.GetString("DATA_SETTINGS_PATH"),
		},
		DataSF: DataSFConfig{
			BaseURL:           strings.TrimRight(v.GetString("DATASF_BASE_URL"), "/"),
			BlockfaceDataset:  v.GetString("DATASF_BLOCKFACE_DATASET"),
			MetersDataset:     v.GetString("DATASF_METERS_DATASET"),
			ParcelsDataset:    v.GetString("DATASF_PARCELS_DATASET"),
			AppToken:          v.GetString("DATASF_APP_TOKEN"),
			PageSize:          v.GetInt("DATASF_PAGE_SIZE"),
			Timeout:           time.Duration(v.GetInt("DATASF_TIMEOUT")) * time.Second,
			MaxRetries:        v.GetInt("DATASF_MAX_RETRIES"),
			RetryDelay:        time.Duration(v.GetInt("DATASF_RETRY_DELAY")) * time.Second,
			RequestsPerSecond: v.GetFloat64("DATASF_RATE_LIMIT"),
		},
		Redis: RedisConfig{
			Enabled:  v.GetBool("REDIS_ENABLED"),
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetInt("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		Cache: CacheConfig{
			FetchTTL: time.Duration(v.GetInt("CACHE_FETCH_TTL")) * time.Second,
		},
		Schedule: ScheduleConfig{
			Frequency: strings.ToLower(v.GetString("SCHEDULE_FREQUENCY")),
			Day:       strings.ToLower(v.GetString("SCHEDULE_DAY")),
			Hour:      v.GetInt("SCHEDULE_HOUR"),
		},
		Simplification: SimplificationConfig{
			Preset:           v.GetString("SIMPLIFICATION_PRESET"),
			MaxAreaDeviation: v.GetFloat64("SIMPLIFICATION_MAX_AREA_DEVIATION"),
		},
		Worker: WorkerConfig{
			Enabled:    v.GetBool("WORKER_ENABLED"),
			RunOnStart: v.GetBool("WORKER_RUN_ON_START"),
		},
	}

	// Set default values if not provided
	if cfg.Data.SettingsPath == "" {
		cfg.Data.SettingsPath = defaultSettingsPath()
	}
	if cfg.DataSF.PageSize <= 0 {
		cfg.DataSF.PageSize = 50000
	}
	if cfg.Schedule.Hour < 0 || cfg.Schedule.Hour > 23 {
		return nil, fmt.Errorf("SCHEDULE_HOUR must be 0-23, got %d", cfg.Schedule.Hour)
	}

	return cfg, nil
}

func defaultSettingsPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "parkctl.yaml"
	}
	return filepath.Join(dir, "sf-parking", "settings.yaml")
}

// Location resolves the configured time zone, falling back to UTC.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Rules.TimeZone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}
