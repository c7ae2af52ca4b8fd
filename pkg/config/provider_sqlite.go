package config

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// SQLiteProvider implements ConfigProvider for SQLite database configuration
type SQLiteProvider struct {
	db     *sql.DB
	dbPath string
}

// NewSQLiteProvider creates a new SQLite configuration provider
func NewSQLiteProvider(dbPath string) (*SQLiteProvider, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping SQLite database: %w", err)
	}

	p := &SQLiteProvider{
		db:     db,
		dbPath: dbPath,
	}
	if err := p.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return p, nil
}

func (s *SQLiteProvider) ensureSchema() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS service (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			listen_addr TEXT NOT NULL DEFAULT '',
			http_port INTEGER NOT NULL DEFAULT 0,
			tls_cert TEXT NOT NULL DEFAULT '',
			tls_key TEXT NOT NULL DEFAULT ''
		);
		CREATE TABLE IF NOT EXISTS provider (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			backend TEXT NOT NULL DEFAULT 'ephemeris',
			table_path TEXT NOT NULL DEFAULT '',
			utc_offset_hours REAL NOT NULL DEFAULT 0
		);
		CREATE TABLE IF NOT EXISTS storage_timescaledb (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			connection_string TEXT NOT NULL
		);
		CREATE TABLE IF NOT EXISTS storage_sqlite (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			path TEXT NOT NULL
		);
		CREATE TABLE IF NOT EXISTS logging (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			file TEXT NOT NULL DEFAULT '',
			max_size_mb INTEGER NOT NULL DEFAULT 0,
			max_backups INTEGER NOT NULL DEFAULT 0,
			max_age_days INTEGER NOT NULL DEFAULT 0
		);
	`)
	if err != nil {
		return fmt.Errorf("failed to create config schema: %w", err)
	}
	return nil
}

// LoadConfig loads the complete configuration from SQLite database
func (s *SQLiteProvider) LoadConfig() (*ConfigData, error) {
	config := &ConfigData{}

	err := s.db.QueryRow(`SELECT listen_addr, http_port, tls_cert, tls_key FROM service WHERE id = 1`).
		Scan(&config.Service.ListenAddr, &config.Service.HTTPPort,
			&config.Service.TLSCertPath, &config.Service.TLSKeyPath)
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("failed to load service config: %w", err)
	}

	err = s.db.QueryRow(`SELECT backend, table_path, utc_offset_hours FROM provider WHERE id = 1`).
		Scan(&config.Provider.Backend, &config.Provider.TablePath, &config.Provider.UTCOffsetHours)
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("failed to load provider config: %w", err)
	}

	var connStr string
	err = s.db.QueryRow(`SELECT connection_string FROM storage_timescaledb WHERE id = 1`).Scan(&connStr)
	switch {
	case err == nil:
		config.Storage.TimescaleDB = &TimescaleDBData{ConnectionString: connStr}
	case err != sql.ErrNoRows:
		return nil, fmt.Errorf("failed to load TimescaleDB storage config: %w", err)
	}

	var sqlitePath string
	err = s.db.QueryRow(`SELECT path FROM storage_sqlite WHERE id = 1`).Scan(&sqlitePath)
	switch {
	case err == nil:
		config.Storage.SQLite = &SQLiteData{Path: sqlitePath}
	case err != sql.ErrNoRows:
		return nil, fmt.Errorf("failed to load SQLite storage config: %w", err)
	}

	err = s.db.QueryRow(`SELECT file, max_size_mb, max_backups, max_age_days FROM logging WHERE id = 1`).
		Scan(&config.Logging.File, &config.Logging.MaxSizeMB,
			&config.Logging.MaxBackups, &config.Logging.MaxAgeDays)
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("failed to load logging config: %w", err)
	}

	if err := config.Normalize(); err != nil {
		return nil, err
	}
	return config, nil
}

// SaveConfig writes the configuration back to the database.
func (s *SQLiteProvider) SaveConfig(config *ConfigData) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`INSERT INTO service (id, listen_addr, http_port, tls_cert, tls_key)
		VALUES (1, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET listen_addr=excluded.listen_addr,
			http_port=excluded.http_port, tls_cert=excluded.tls_cert, tls_key=excluded.tls_key`,
		config.Service.ListenAddr, config.Service.HTTPPort,
		config.Service.TLSCertPath, config.Service.TLSKeyPath)
	if err != nil {
		return fmt.Errorf("failed to save service config: %w", err)
	}

	_, err = tx.Exec(`INSERT INTO provider (id, backend, table_path, utc_offset_hours)
		VALUES (1, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET backend=excluded.backend,
			table_path=excluded.table_path, utc_offset_hours=excluded.utc_offset_hours`,
		config.Provider.Backend, config.Provider.TablePath, config.Provider.UTCOffsetHours)
	if err != nil {
		return fmt.Errorf("failed to save provider config: %w", err)
	}

	if config.Storage.TimescaleDB != nil {
		_, err = tx.Exec(`INSERT INTO storage_timescaledb (id, connection_string) VALUES (1, ?)
			ON CONFLICT(id) DO UPDATE SET connection_string=excluded.connection_string`,
			config.Storage.TimescaleDB.ConnectionString)
		if err != nil {
			return fmt.Errorf("failed to save TimescaleDB storage config: %w", err)
		}
	}
	if config.Storage.SQLite != nil {
		_, err = tx.Exec(`INSERT INTO storage_sqlite (id, path) VALUES (1, ?)
			ON CONFLICT(id) DO UPDATE SET path=excluded.path`,
			config.Storage.SQLite.Path)
		if err != nil {
			return fmt.Errorf("failed to save SQLite storage config: %w", err)
		}
	}

	_, err = tx.Exec(`INSERT INTO logging (id, file, max_size_mb, max_backups, max_age_days)
		VALUES (1, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET file=excluded.file, max_size_mb=excluded.max_size_mb,
			max_backups=excluded.max_backups, max_age_days=excluded.max_age_days`,
		config.Logging.File, config.Logging.MaxSizeMB,
		config.Logging.MaxBackups, config.Logging.MaxAgeDays)
	if err != nil {
		return fmt.Errorf("failed to save logging config: %w", err)
	}

	return tx.Commit()
}

// IsReadOnly returns false since SQLite configuration can be modified
func (s *SQLiteProvider) IsReadOnly() bool {
	return false
}

// Close closes the database connection
func (s *SQLiteProvider) Close() error {
	return s.db.Close()
}
