package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// ApplyEnv layers environment-variable overrides on top of a loaded
// configuration. A .env file in the working directory is honored when
// present; a missing file is not an error. Recognized variables:
//
//	LIFEKLINE_LISTEN_ADDR      service listen address
//	LIFEKLINE_HTTP_PORT        service HTTP port
//	LIFEKLINE_PROVIDER         provider backend (ephemeris|table)
//	LIFEKLINE_TABLE_PATH       msgpack Jie table path
//	LIFEKLINE_UTC_OFFSET       provider UTC offset in hours
//	LIFEKLINE_TIMESCALEDB_URI  TimescaleDB connection string
//	LIFEKLINE_SQLITE_PATH      SQLite chart-record database path
func ApplyEnv(config *ConfigData) error {
	_ = godotenv.Load()

	if v := os.Getenv("LIFEKLINE_LISTEN_ADDR"); v != "" {
		config.Service.ListenAddr = v
	}
	if v := os.Getenv("LIFEKLINE_HTTP_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("LIFEKLINE_HTTP_PORT: %w", err)
		}
		config.Service.HTTPPort = port
	}
	if v := os.Getenv("LIFEKLINE_PROVIDER"); v != "" {
		config.Provider.Backend = v
	}
	if v := os.Getenv("LIFEKLINE_TABLE_PATH"); v != "" {
		config.Provider.TablePath = v
	}
	if v := os.Getenv("LIFEKLINE_UTC_OFFSET"); v != "" {
		offset, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("LIFEKLINE_UTC_OFFSET: %w", err)
		}
		config.Provider.UTCOffsetHours = offset
	}
	if v := os.Getenv("LIFEKLINE_TIMESCALEDB_URI"); v != "" {
		config.Storage.TimescaleDB = &TimescaleDBData{ConnectionString: v}
	}
	if v := os.Getenv("LIFEKLINE_SQLITE_PATH"); v != "" {
		config.Storage.SQLite = &SQLiteData{Path: v}
	}

	return config.Normalize()
}
