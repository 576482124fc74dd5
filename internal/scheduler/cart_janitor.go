package scheduler

import (
	"time"

	"github.com/hanbyul/storefront-backend/internal/app/service"
	"github.com/hanbyul/storefront-backend/pkg/logger"
	"github.com/robfig/cron/v3"
)

// staleAfter is how long an active cart may sit untouched before the
// janitor empties it.
const staleAfter = 7 * 24 * time.Hour

// CartJanitor periodically empties abandoned active carts.
type CartJanitor struct {
	cron        *cron.Cron
	cartService service.CartService
}

func NewCartJanitor(cartService service.CartService) *CartJanitor {
	return &CartJanitor{
		cron:        cron.New(),
		cartService: cartService,
	}
}

// Start schedules the cleanup to run every day at 04:00.
func (j *CartJanitor) Start() error {
	_, err := j.cron.AddFunc("0 4 * * *", func() {
		logger.Info("Starting scheduled stale cart cleanup", nil)

		removed, err := j.cartService.ClearStaleCarts(staleAfter)
		if err != nil {
			logger.Error("Failed to clear stale carts from scheduler", err)
			return
		}

		logger.Info("Stale cart cleanup finished", map[string]interface{}{
			"removed_items": removed,
		})
	})

	if err != nil {
		logger.Error("Failed to add cron job for cart cleanup", err)
		return err
	}

	j.cron.Start()
	logger.Info("Cart janitor started successfully (daily at 4:00 AM)", nil)

	return nil
}

// Stop halts the scheduler.
func (j *CartJanitor) Stop() {
	logger.Info("Stopping cart janitor...", nil)
	j.cron.Stop()
	logger.Info("Cart janitor stopped", nil)
}
