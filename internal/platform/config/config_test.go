package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studydesk/internal/platform/config"
)

func TestNewAppliesDefaultsWithoutFile(t *testing.T) {
	home := t.TempDir()

	cfg, err := config.New(home)
	require.NoError(t, err)

	assert.Equal(t, "bolt", cfg.Store.Backend)
	assert.Equal(t, "studydesk", cfg.Store.Namespace)
	assert.Equal(t, filepath.Join(home, "studydesk.db"), cfg.Store.BoltPath)
	assert.Equal(t, filepath.Join(home, "catalog.yaml"), cfg.CatalogPath)
	assert.Equal(t, 3, cfg.Urgency.CriticalDays)
	assert.Equal(t, 2, cfg.Urgency.UrgentViewDays)
	assert.Equal(t, 7, cfg.Urgency.SoonDays)
	assert.Equal(t, 14, cfg.Urgency.UpcomingDays)
	assert.Equal(t, 3, cfg.Urgency.UpcomingLimit)
	assert.Equal(t, 10*time.Minute, cfg.Session.IdleTimeout)
	assert.Equal(t, 30, cfg.Session.StudyHistoryCap)
	assert.Equal(t, 50, cfg.Achievements.HistoryCap)
	assert.Equal(t, time.Hour, cfg.Schedule.RefreshInterval)
}

func TestNewReadsYAMLFile(t *testing.T) {
	home := t.TempDir()
	raw := []byte(`store:
  backend: sqlite
  namespace: term2
urgency:
  critical_days: 2
session:
  idle_timeout: 5m
timezone: UTC
`)
	require.NoError(t, os.WriteFile(filepath.Join(home, config.FileName), raw, 0o644))

	cfg, err := config.New(home)
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.Store.Backend)
	assert.Equal(t, "term2", cfg.Store.Namespace)
	assert.Equal(t, 2, cfg.Urgency.CriticalDays)
	assert.Equal(t, 7, cfg.Urgency.SoonDays)
	assert.Equal(t, 5*time.Minute, cfg.Session.IdleTimeout)

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)
}

func TestNewRejectsInvalidValues(t *testing.T) {
	cases := map[string]string{
		"backend":  "store:\n  backend: postgres\n",
		"windows":  "urgency:\n  critical_days: 9\n",
		"timezone": "timezone: Mars/Olympus\n",
		"idle":     "session:\n  idle_timeout: -1m\n",
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			home := t.TempDir()
			require.NoError(t, os.WriteFile(filepath.Join(home, config.FileName), []byte(raw), 0o644))
			_, err := config.New(home)
			require.Error(t, err)
		})
	}
}

func TestNewRequiresHome(t *testing.T) {
	_, err := config.New("  ")
	require.Error(t, err)
}

func TestNewLoadsDotEnvWithoutOverridingEnvironment(t *testing.T) {
	home := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(home, config.EnvFile), []byte("STUDYDESK_IDLE_TIMEOUT=20m\nSTUDYDESK_NAMESPACE=fromfile\n"), 0o644))
	t.Setenv("STUDYDESK_NAMESPACE", "fromenv")
	t.Cleanup(func() { _ = os.Unsetenv("STUDYDESK_IDLE_TIMEOUT") })

	cfg, err := config.New(home)
	require.NoError(t, err)
	assert.Equal(t, 20*time.Minute, cfg.Session.IdleTimeout)
	assert.Equal(t, "fromenv", cfg.Store.Namespace)
}
