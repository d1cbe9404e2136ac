package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

const (
	FileName = "config.yaml"
	EnvFile  = ".env"
)

type Config struct {
	HomePath    string `yaml:"-"`
	CatalogPath string `yaml:"catalog" env:"STUDYDESK_CATALOG"`
	Timezone    string `yaml:"timezone" env:"STUDYDESK_TZ" env-default:"Local"`

	Store        StoreConfig       `yaml:"store"`
	Urgency      UrgencyConfig     `yaml:"urgency"`
	Session      SessionConfig     `yaml:"session"`
	Achievements AchievementConfig `yaml:"achievements"`
	Schedule     ScheduleConfig    `yaml:"schedule"`
	Log          LogConfig         `yaml:"log"`
}

type StoreConfig struct {
	Backend       string `yaml:"backend" env:"STUDYDESK_STORE" env-default:"bolt"`
	Namespace     string `yaml:"namespace" env:"STUDYDESK_NAMESPACE" env-default:"studydesk"`
	BoltPath      string `yaml:"bolt_path" env:"STUDYDESK_BOLT_PATH"`
	SQLitePath    string `yaml:"sqlite_path" env:"STUDYDESK_SQLITE_PATH"`
	RedisAddr     string `yaml:"redis_addr" env:"STUDYDESK_REDIS_ADDR" env-default:"localhost:6379"`
	RedisPassword string `yaml:"redis_password" env:"STUDYDESK_REDIS_PASSWORD"`
	RedisDB       int    `yaml:"redis_db" env:"STUDYDESK_REDIS_DB" env-default:"0"`
}

// UrgencyConfig holds inclusive day boundaries for the urgency tiers.
// CriticalDays drives deadline lists, UrgentViewDays the 48-hour view.
type UrgencyConfig struct {
	CriticalDays   int `yaml:"critical_days" env:"STUDYDESK_CRITICAL_DAYS" env-default:"3"`
	UrgentViewDays int `yaml:"urgent_view_days" env:"STUDYDESK_URGENT_VIEW_DAYS" env-default:"2"`
	SoonDays       int `yaml:"soon_days" env-default:"7"`
	UpcomingDays   int `yaml:"upcoming_days" env-default:"14"`
	UpcomingLimit  int `yaml:"upcoming_limit" env-default:"3"`
}

type SessionConfig struct {
	IdleTimeout     time.Duration `yaml:"idle_timeout" env:"STUDYDESK_IDLE_TIMEOUT" env-default:"10m"`
	StudyHistoryCap int           `yaml:"study_history_cap" env-default:"30"`
}

type AchievementConfig struct {
	HistoryCap int `yaml:"history_cap" env-default:"50"`
}

type ScheduleConfig struct {
	RefreshInterval     time.Duration `yaml:"refresh_interval" env-default:"1h"`
	IdleCheckInterval   time.Duration `yaml:"idle_check_interval" env-default:"1m"`
	AchievementInterval time.Duration `yaml:"achievement_interval" env-default:"5m"`
}

type LogConfig struct {
	Level  string `yaml:"level" env:"STUDYDESK_LOG_LEVEL" env-default:"warn"`
	Format string `yaml:"format" env:"STUDYDESK_LOG_FORMAT" env-default:"console"`
}

// New reads <homePath>/config.yaml when present, falling back to
// environment variables and defaults, and fills in derived paths. Variables
// in <homePath>/.env are loaded first and never override the environment.
func New(homePath string) (Config, error) {
	if strings.TrimSpace(homePath) == "" {
		return Config{}, fmt.Errorf("home path is required")
	}
	if err := godotenv.Load(filepath.Join(homePath, EnvFile)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load %s: %w", EnvFile, err)
	}
	cfg := Config{}
	if err := cleanenv.ReadConfig(filepath.Join(homePath, FileName), &cfg); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return Config{}, fmt.Errorf("read config env: %w", err)
		}
	}
	cfg.HomePath = homePath
	if cfg.CatalogPath == "" {
		cfg.CatalogPath = filepath.Join(homePath, "catalog.yaml")
	}
	if cfg.Store.BoltPath == "" {
		cfg.Store.BoltPath = filepath.Join(homePath, "studydesk.db")
	}
	if cfg.Store.SQLitePath == "" {
		cfg.Store.SQLitePath = filepath.Join(homePath, "studydesk.sqlite")
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	var errs []error
	switch c.Store.Backend {
	case "bolt", "sqlite", "redis", "memory":
	default:
		errs = append(errs, fmt.Errorf("store.backend must be bolt|sqlite|redis|memory, got %q", c.Store.Backend))
	}
	if c.Store.Namespace == "" {
		errs = append(errs, fmt.Errorf("store.namespace is required"))
	}
	u := c.Urgency
	if u.CriticalDays < 0 || u.CriticalDays >= u.SoonDays || u.SoonDays >= u.UpcomingDays {
		errs = append(errs, fmt.Errorf("urgency windows must satisfy 0 <= critical < soon < upcoming"))
	}
	if u.UrgentViewDays < 0 || u.UrgentViewDays >= u.SoonDays {
		errs = append(errs, fmt.Errorf("urgency.urgent_view_days must be in [0, soon_days)"))
	}
	if c.Session.IdleTimeout <= 0 {
		errs = append(errs, fmt.Errorf("session.idle_timeout must be positive"))
	}
	if c.Session.StudyHistoryCap <= 0 || c.Achievements.HistoryCap <= 0 {
		errs = append(errs, fmt.Errorf("history caps must be positive"))
	}
	if c.Schedule.RefreshInterval <= 0 || c.Schedule.IdleCheckInterval <= 0 || c.Schedule.AchievementInterval <= 0 {
		errs = append(errs, fmt.Errorf("schedule intervals must be positive"))
	}
	if _, err := c.Location(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Location resolves Timezone; "Local" and "" map to the process zone.
func (c Config) Location() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}
