// Package timescaledb stores chart records in a TimescaleDB hypertable.
package timescaledb

import (
	"context"
	"sync"

	"gorm.io/gorm"

	"github.com/Dime2015/lifekline/internal/database"
	"github.com/Dime2015/lifekline/internal/log"
	"github.com/Dime2015/lifekline/internal/types"
)

const (
	createExtensionSQL  = `CREATE EXTENSION IF NOT EXISTS timescaledb;`
	createHypertableSQL = `SELECT create_hypertable('chart_records', 'timestamp', if_not_exists => TRUE, migrate_data => TRUE);`
)

// Storage holds the configuration for a TimescaleDB storage backend
type Storage struct {
	TimescaleDBConn *gorm.DB
}

// New sets up a new TimescaleDB storage backend
func New(ctx context.Context, connectionString string) (*Storage, error) {
	t := Storage{}

	var err error
	t.TimescaleDBConn, err = database.CreateConnection(connectionString)
	if err != nil {
		return &Storage{}, err
	}

	log.Info("creating chart_records table...")
	if err := t.TimescaleDBConn.WithContext(ctx).AutoMigrate(&types.ChartRecord{}); err != nil {
		log.Warn("warning: could not create chart_records table")
		return &Storage{}, err
	}

	log.Info("creating TimescaleDB extension...")
	if err := t.TimescaleDBConn.WithContext(ctx).Exec(createExtensionSQL).Error; err != nil {
		log.Warn("warning: could not create TimescaleDB extension")
		return &Storage{}, err
	}

	log.Info("creating hypertable...")
	if err := t.TimescaleDBConn.WithContext(ctx).Exec(createHypertableSQL).Error; err != nil {
		// Hypertable conversion is best-effort: a plain table still stores
		// records, it just loses time partitioning.
		log.Warn("warning: could not create hypertable:", err)
	}

	return &t, nil
}

// StartStorageEngine creates a goroutine loop to receive chart records and
// send them off to TimescaleDB
func (t *Storage) StartStorageEngine(ctx context.Context, wg *sync.WaitGroup) chan<- types.ChartRecord {
	log.Info("starting TimescaleDB storage engine...")
	recordChan := make(chan types.ChartRecord, 10)
	go t.processRecords(ctx, wg, recordChan)
	return recordChan
}

func (t *Storage) processRecords(ctx context.Context, wg *sync.WaitGroup, rchan <-chan types.ChartRecord) {
	wg.Add(1)
	defer wg.Done()

	for {
		select {
		case r := <-rchan:
			if err := t.StoreRecord(r); err != nil {
				log.Error("could not store chart record:", err)
			}
		case <-ctx.Done():
			log.Info("cancellation request received, cancelling chart record processor")
			return
		}
	}
}

// StoreRecord stores a chart record in TimescaleDB
func (t *Storage) StoreRecord(r types.ChartRecord) error {
	return t.TimescaleDBConn.Create(&r).Error
}
