// Package sqlite stores chart records in an embedded SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/Dime2015/lifekline/internal/log"
	"github.com/Dime2015/lifekline/internal/types"
)

const createTableSQL = `
CREATE TABLE IF NOT EXISTS chart_records (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	timestamp TEXT NOT NULL,
	request_id TEXT NOT NULL,
	birth_moment TEXT NOT NULL,
	corrected_moment TEXT NOT NULL,
	gender TEXT NOT NULL,
	longitude REAL,
	utc_offset_hours REAL NOT NULL,
	year_pillar TEXT NOT NULL,
	month_pillar TEXT NOT NULL,
	day_pillar TEXT NOT NULL,
	hour_pillar TEXT NOT NULL,
	direction TEXT NOT NULL,
	first_luck_pillar TEXT NOT NULL,
	onset_years INTEGER NOT NULL,
	onset_months INTEGER NOT NULL,
	onset_days INTEGER NOT NULL,
	starting_age INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_chart_records_timestamp ON chart_records (timestamp);
`

const insertRecordSQL = `
INSERT INTO chart_records (
	timestamp, request_id, birth_moment, corrected_moment, gender, longitude,
	utc_offset_hours, year_pillar, month_pillar, day_pillar, hour_pillar,
	direction, first_luck_pillar, onset_years, onset_months, onset_days,
	starting_age
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

// Storage holds the configuration for a SQLite storage backend
type Storage struct {
	db *sql.DB
}

// New sets up a new SQLite storage backend
func New(ctx context.Context, path string) (*Storage, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping SQLite database: %w", err)
	}
	if _, err := db.ExecContext(ctx, createTableSQL); err != nil {
		return nil, fmt.Errorf("failed to create chart_records table: %w", err)
	}
	return &Storage{db: db}, nil
}

// StartStorageEngine creates a goroutine loop to receive chart records and
// write them to SQLite
func (s *Storage) StartStorageEngine(ctx context.Context, wg *sync.WaitGroup) chan<- types.ChartRecord {
	log.Info("starting SQLite storage engine...")
	recordChan := make(chan types.ChartRecord, 10)
	go s.processRecords(ctx, wg, recordChan)
	return recordChan
}

func (s *Storage) processRecords(ctx context.Context, wg *sync.WaitGroup, rchan <-chan types.ChartRecord) {
	wg.Add(1)
	defer wg.Done()

	for {
		select {
		case r := <-rchan:
			if err := s.StoreRecord(r); err != nil {
				log.Error("could not store chart record:", err)
			}
		case <-ctx.Done():
			log.Info("cancellation request received, cancelling chart record processor")
			s.db.Close()
			return
		}
	}
}

// StoreRecord stores a chart record in SQLite
func (s *Storage) StoreRecord(r types.ChartRecord) error {
	var longitude interface{}
	if r.Longitude != nil {
		longitude = *r.Longitude
	}
	_, err := s.db.Exec(insertRecordSQL,
		r.Timestamp.UTC().Format("2006-01-02T15:04:05Z"),
		r.RequestID, r.BirthMoment, r.CorrectedMoment, r.Gender, longitude,
		r.UTCOffsetHours, r.YearPillar, r.MonthPillar, r.DayPillar, r.HourPillar,
		r.Direction, r.FirstLuckPillar, r.OnsetYears, r.OnsetMonths, r.OnsetDays,
		r.StartingAge)
	return err
}
