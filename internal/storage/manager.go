package storage

import (
	"context"
	"fmt"
	"sync"

	"github.com/Dime2015/lifekline/internal/log"
	"github.com/Dime2015/lifekline/internal/storage/sqlite"
	"github.com/Dime2015/lifekline/internal/storage/timescaledb"
	"github.com/Dime2015/lifekline/internal/types"
	"github.com/Dime2015/lifekline/pkg/config"
)

// Manager holds our active storage backends
type Manager struct {
	Engines          []Engine
	ChartDistributor chan types.ChartRecord
}

// Engine holds a backend storage engine's interface as well as a channel
// for passing chart records to the engine
type Engine struct {
	Engine StorageEngineInterface
	C      chan<- types.ChartRecord
}

// NewManager creates a Manager populated with all configured storage
// engines and starts the chart distributor.
func NewManager(ctx context.Context, wg *sync.WaitGroup, cfg *config.StorageData) (*Manager, error) {
	m := &Manager{
		ChartDistributor: make(chan types.ChartRecord, 20),
	}

	go m.startChartDistributor(ctx, wg)

	if cfg.TimescaleDB != nil && cfg.TimescaleDB.ConnectionString != "" {
		engine, err := timescaledb.New(ctx, cfg.TimescaleDB.ConnectionString)
		if err != nil {
			return m, fmt.Errorf("could not add TimescaleDB storage backend: %v", err)
		}
		m.addEngine(ctx, wg, engine)
	}

	if cfg.SQLite != nil && cfg.SQLite.Path != "" {
		engine, err := sqlite.New(ctx, cfg.SQLite.Path)
		if err != nil {
			return m, fmt.Errorf("could not add SQLite storage backend: %v", err)
		}
		m.addEngine(ctx, wg, engine)
	}

	return m, nil
}

func (m *Manager) addEngine(ctx context.Context, wg *sync.WaitGroup, e StorageEngineInterface) {
	se := Engine{Engine: e}
	se.C = e.StartStorageEngine(ctx, wg)
	m.Engines = append(m.Engines, se)
}

// Store hands a record to the distributor without blocking the caller. A
// full distributor drops the record; chart history is best-effort.
func (m *Manager) Store(r types.ChartRecord) {
	select {
	case m.ChartDistributor <- r:
	default:
		log.Warn("chart distributor full; dropping chart record")
	}
}

// startChartDistributor receives computed charts and fans them out to the
// various storage backends
func (m *Manager) startChartDistributor(ctx context.Context, wg *sync.WaitGroup) {
	wg.Add(1)
	defer wg.Done()

	for {
		select {
		case r := <-m.ChartDistributor:
			for _, e := range m.Engines {
				e.C <- r
			}
		case <-ctx.Done():
			return
		}
	}
}
