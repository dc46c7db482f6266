// Package statstore persists fpstats counters in a relational database.
package statstore

import (
	"sync"

	"github.com/huangsam/fpstats/internal/contract"
)

// StoreManagerImpl hands out the process-wide StatsStore.
type StoreManagerImpl struct {
	sync.RWMutex // Protects the store pointer during initialization
	stats        contract.StatsStore
}

var _ contract.StoreManager = &StoreManagerImpl{} // Compile-time check

// GetStatsStore returns the StatsStore, or nil before InitStores has run.
func (mgr *StoreManagerImpl) GetStatsStore() contract.StatsStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.stats
}
