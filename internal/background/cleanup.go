package background

import (
	"context"
	"log/slog"
	"time"
)

// CachePruner drops expired query results and reports how many it removed
type CachePruner interface {
	PruneExpired() int
}

// CleanupManager periodically removes expired entries from the query cache
type CleanupManager struct {
	pruner   CachePruner
	logger   *slog.Logger
	interval time.Duration
	stopCh   chan struct{}
}

// NewCleanupManager creates a new cleanup manager
func NewCleanupManager(pruner CachePruner, logger *slog.Logger, interval time.Duration) *CleanupManager {
	return &CleanupManager{
		pruner:   pruner,
		logger:   logger,
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// Start runs the periodic cleanup until ctx is done or Stop is called
func (cm *CleanupManager) Start(ctx context.Context) {
	ticker := time.NewTicker(cm.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			cm.runCleanup()
		case <-cm.stopCh:
			cm.logger.Info("cache cleanup stopped")
			return
		case <-ctx.Done():
			cm.logger.Info("cache cleanup context cancelled")
			return
		}
	}
}

func (cm *CleanupManager) runCleanup() {
	if removed := cm.pruner.PruneExpired(); removed > 0 {
		cm.logger.Info("expired query cache entries removed", slog.Int("removed", removed))
	}
}

// Stop signals the cleanup manager to stop
func (cm *CleanupManager) Stop() {
	close(cm.stopCh)
}
