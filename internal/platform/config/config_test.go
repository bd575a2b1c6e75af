package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `version: "2.0.0"
mode: release
server:
  addr: ":9000"
database:
  driver: memory
auth:
  jwt_secret: s3cret
  token_ttl: 2h
library:
  daily_fine_rate: "2.50"
  max_fine_days: 10
  loan_period_days: 21
  reservation_period_days: 3
`

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadFromFile(t *testing.T) {
	cfg, err := Load(writeFile(t, sample))
	require.NoError(t, err)

	assert.Equal(t, "release", cfg.Mode)
	assert.Equal(t, ":9000", cfg.Server.Addr)
	assert.Equal(t, "memory", cfg.Database.Driver)
	assert.Equal(t, 2*time.Hour, cfg.Auth.TokenTTL)

	p, err := cfg.Policy()
	require.NoError(t, err)
	assert.Equal(t, "2.5", p.DailyFineRate.String())
	assert.Equal(t, 10, p.MaxFineDays)
	assert.Equal(t, 21, p.LoanPeriodDays)
	assert.Equal(t, 3, p.ReservationPeriodDays)
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "dev", cfg.Mode)
	assert.Equal(t, 3306, cfg.Database.Port)
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenTTL)

	p, err := cfg.Policy()
	require.NoError(t, err)
	assert.Equal(t, "5", p.DailyFineRate.String())
	assert.Equal(t, 30, p.MaxFineDays)
	assert.Equal(t, 14, p.LoanPeriodDays)
	assert.Equal(t, 7, p.ReservationPeriodDays)
}

func TestEnvOverridesFile(t *testing.T) {
	t.Setenv("READIFY_LIBRARY_MAX_FINE_DAYS", "45")
	t.Setenv("READIFY_DATABASE_HOST", "db.internal")

	cfg, err := Load(writeFile(t, sample))
	require.NoError(t, err)
	assert.Equal(t, 45, cfg.Library.MaxFineDays)
	assert.Equal(t, "db.internal", cfg.Database.Host)
}

func TestValidateRejectsBadValues(t *testing.T) {
	_, err := Load(writeFile(t, "mode: staging\n"))
	assert.Error(t, err)

	_, err = Load(writeFile(t, "library:\n  daily_fine_rate: abc\n"))
	assert.Error(t, err)

	_, err = Load(writeFile(t, "mode: release\n"))
	assert.ErrorContains(t, err, "jwt_secret")
}

func TestSaveRoundTripsThroughLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := Default()
	cfg.Library.LoanPeriodDays = 28
	require.NoError(t, Save(cfg, path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 28, loaded.Library.LoanPeriodDays)
}
