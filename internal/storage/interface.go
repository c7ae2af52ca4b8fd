// Package storage defines interfaces and implementations for chart-record
// storage backends.
package storage

import (
	"context"
	"sync"

	"github.com/Dime2015/lifekline/internal/types"
)

// StorageEngineInterface is an interface that provides a few standardized
// methods for various storage backends
type StorageEngineInterface interface {
	StartStorageEngine(context.Context, *sync.WaitGroup) chan<- types.ChartRecord
}
