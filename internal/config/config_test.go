package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `
[server]
http_port = 8090

[database]
host = "localhost"
user = "smc"
password = "secret"
dbname = "availability"

[logs]
level = "debug"

[metrics]
enabled = true

[booking]
default_time_zone = "UTC"
min_booking_notice_minutes = 30
advance_booking_days = 60
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	cfg, err := Load(writeConfig(t, sample))
	require.NoError(t, err)

	assert.Equal(t, 8090, cfg.Server.HTTPPort)
	assert.Equal(t, 15, cfg.Server.ShutdownTimeout)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
	assert.Equal(t, 30, cfg.Booking.MinBookingNoticeMinutes)
	assert.Equal(t, 3, cfg.Booking.MaxSerializationRetries)
	assert.Equal(t, "host=localhost port=5432 user=smc password=secret dbname=availability sslmode=disable", cfg.Database.DSN())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PORT", "6543")
	t.Setenv("HTTP_PORT", "9000")

	cfg, err := Load(writeConfig(t, sample))
	require.NoError(t, err)

	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, 6543, cfg.Database.Port)
	assert.Equal(t, 9000, cfg.Server.HTTPPort)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.ErrorIs(t, err, ErrLoadConfig)

	_, err = Load(writeConfig(t, "[server\n"))
	assert.ErrorIs(t, err, ErrLoadConfig)

	t.Setenv("DB_PORT", "five")
	_, err = Load(writeConfig(t, sample))
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestValidate(t *testing.T) {
	cases := map[string]string{
		"no database":  "[server]\nhttp_port = 8080\n",
		"bad timezone": "[database]\nhost = \"h\"\ndbname = \"d\"\n[booking]\ndefault_time_zone = \"Nowhere/City\"\n",
		"negative":     "[database]\nhost = \"h\"\ndbname = \"d\"\n[booking]\nadvance_booking_days = -1\n",
		"bad port":     "[server]\nhttp_port = 70000\n[database]\nhost = \"h\"\ndbname = \"d\"\n",
	}

	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, body))
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}
