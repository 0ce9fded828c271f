package workers

import (
	"context"
	"time"

	"github.com/loki1512/MS-Fitness-Gym/internal/logger"

	"gorm.io/gorm"
)

// StatusRefresher reclassifies every membership as of today.
type StatusRefresher interface {
	RefreshAll(ctx context.Context, db *gorm.DB) (int64, error)
}

// StatusWorker keeps stored membership statuses current between requests.
// Reads refresh their own rows anyway; the worker keeps staff lists and
// reports accurate for members who never log in.
type StatusWorker struct {
	db        *gorm.DB
	refresher StatusRefresher
	interval  time.Duration
}

func NewStatusWorker(db *gorm.DB, refresher StatusRefresher, interval time.Duration) *StatusWorker {
	return &StatusWorker{
		db:        db,
		refresher: refresher,
		interval:  interval,
	}
}

// Start runs one refresh immediately and then one per interval until ctx is
// done. A non-positive interval disables the worker.
func (w *StatusWorker) Start(ctx context.Context) {
	if w.interval <= 0 {
		logger.WorkerLog("status_worker", "disabled", nil)
		return
	}
	go w.run(ctx)
}

func (w *StatusWorker) run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.refresh(ctx)
	for {
		select {
		case <-ctx.Done():
			logger.WorkerLog("status_worker", "stopped", nil)
			return
		case <-ticker.C:
			w.refresh(ctx)
		}
	}
}

func (w *StatusWorker) refresh(ctx context.Context) {
	updated, err := w.refresher.RefreshAll(ctx, w.db)
	if err != nil {
		logger.WorkerLog("status_worker", "refresh", err)
		return
	}
	if updated > 0 {
		logger.WorkerLog("status_worker", "refresh", nil, "updated", updated)
	}
}
