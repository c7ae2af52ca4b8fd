package config

import (
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteProviderSaveLoadRoundTrip(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "config.db")
	p, err := NewSQLiteProvider(dbPath)
	require.NoError(t, err)
	defer p.Close()

	assert.False(t, p.IsReadOnly())

	want := &ConfigData{
		Service: ServiceData{
			ListenAddr: "127.0.0.1",
			HTTPPort:   9090,
		},
		Provider: ProviderData{
			Backend:        "table",
			TablePath:      "/var/lib/lifekline/terms.msgpack",
			UTCOffsetHours: 8,
		},
		Storage: StorageData{
			SQLite: &SQLiteData{Path: "/var/lib/lifekline/charts.db"},
		},
		Logging: LoggingData{
			File:      "/var/log/lifekline.log",
			MaxSizeMB: 50,
		},
	}
	require.NoError(t, p.SaveConfig(want))

	got, err := p.LoadConfig()
	require.NoError(t, err)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}

	// Saving again updates the singleton rows rather than duplicating them.
	want.Service.HTTPPort = 9091
	require.NoError(t, p.SaveConfig(want))
	got, err = p.LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, 9091, got.Service.HTTPPort)
}

func TestSQLiteProviderEmptyDatabaseGetsDefaults(t *testing.T) {
	p, err := NewSQLiteProvider(filepath.Join(t.TempDir(), "empty.db"))
	require.NoError(t, err)
	defer p.Close()

	cfg, err := p.LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0", cfg.Service.ListenAddr)
	assert.Equal(t, 8080, cfg.Service.HTTPPort)
	assert.Equal(t, "ephemeris", cfg.Provider.Backend)
	assert.Nil(t, cfg.Storage.TimescaleDB)
	assert.Nil(t, cfg.Storage.SQLite)
}
