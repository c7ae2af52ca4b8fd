// Package config provides configuration loading for the lifekline service.
// Two backends implement ConfigProvider: YAML files and SQLite databases.
// Environment variables (optionally loaded from a .env file) override a few
// deployment-sensitive fields on top of either backend.
package config

import (
	"fmt"

	"github.com/Dime2015/lifekline/pkg/solartime"
)

// ConfigProvider abstracts a configuration backend.
type ConfigProvider interface {
	// LoadConfig loads the complete configuration.
	LoadConfig() (*ConfigData, error)
	// IsReadOnly reports whether the backend can be written through this interface.
	IsReadOnly() bool
	// Close releases backend resources.
	Close() error
}

// ConfigData is the complete service configuration.
type ConfigData struct {
	Service  ServiceData  `yaml:"service"`
	Provider ProviderData `yaml:"provider"`
	Storage  StorageData  `yaml:"storage,omitempty"`
	Logging  LoggingData  `yaml:"logging,omitempty"`
}

// ServiceData configures the HTTP API surface.
type ServiceData struct {
	ListenAddr  string `yaml:"listen-addr,omitempty"`
	HTTPPort    int    `yaml:"http-port,omitempty"`
	TLSCertPath string `yaml:"tls-cert,omitempty"`
	TLSKeyPath  string `yaml:"tls-key,omitempty"`
}

// ProviderData selects and configures the lunisolar calendar provider.
type ProviderData struct {
	// Backend is "ephemeris" (default) or "table".
	Backend string `yaml:"backend,omitempty"`
	// TablePath locates the msgpack Jie table for the table backend.
	TablePath string `yaml:"table-path,omitempty"`
	// UTCOffsetHours is the civil frame moments are interpreted in.
	// Zero means the default of +8.
	UTCOffsetHours float64 `yaml:"utc-offset-hours,omitempty"`
}

// StorageData configures the chart-record storage backends.
type StorageData struct {
	TimescaleDB *TimescaleDBData `yaml:"timescaledb,omitempty"`
	SQLite      *SQLiteData      `yaml:"sqlite,omitempty"`
}

// TimescaleDBData holds the TimescaleDB/Postgres connection settings.
type TimescaleDBData struct {
	ConnectionString string `yaml:"connection-string"`
}

// SQLiteData holds the embedded SQLite settings.
type SQLiteData struct {
	Path string `yaml:"path"`
}

// LoggingData configures optional rotated file logging.
type LoggingData struct {
	File       string `yaml:"file,omitempty"`
	MaxSizeMB  int    `yaml:"max-size-mb,omitempty"`
	MaxBackups int    `yaml:"max-backups,omitempty"`
	MaxAgeDays int    `yaml:"max-age-days,omitempty"`
}

// Normalize fills defaults and validates the loaded configuration.
func (c *ConfigData) Normalize() error {
	if c.Service.ListenAddr == "" {
		c.Service.ListenAddr = "0.0.0.0"
	}
	if c.Service.HTTPPort == 0 {
		c.Service.HTTPPort = 8080
	}
	if c.Provider.Backend == "" {
		c.Provider.Backend = "ephemeris"
	}
	if c.Provider.UTCOffsetHours == 0 {
		c.Provider.UTCOffsetHours = solartime.DefaultUTCOffsetHours
	}
	switch c.Provider.Backend {
	case "ephemeris":
	case "table":
		if c.Provider.TablePath == "" {
			return fmt.Errorf("provider backend %q requires table-path", c.Provider.Backend)
		}
	default:
		return fmt.Errorf("unknown provider backend %q", c.Provider.Backend)
	}
	return nil
}
