package jobs

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// ERPSyncJobName is the name of the ERP account sync job
const ERPSyncJobName = "erp_account_sync"

// ERPAccountSyncService defines the interface for backfilling ERP account
// numbers onto customers that are missing one.
type ERPAccountSyncService interface {
	// SyncMissingAccounts looks up ERP account numbers for customers
	// without one. Returns counts for matched and unmatched customers.
	SyncMissingAccounts(ctx context.Context) (matched int, unmatched int, err error)
}

// ERPSyncJob backfills ERP account numbers for customers created before
// their ERP account existed, or created directly in the API.
type ERPSyncJob struct {
	syncService ERPAccountSyncService
	logger      *zap.Logger
	timeout     time.Duration
}

// NewERPSyncJob creates a new ERP account sync job.
func NewERPSyncJob(syncService ERPAccountSyncService, logger *zap.Logger, timeout time.Duration) *ERPSyncJob {
	return &ERPSyncJob{
		syncService: syncService,
		logger:      logger,
		timeout:     timeout,
	}
}

// Run executes the ERP account sync. This is called by the scheduler
// according to the cron expression.
func (j *ERPSyncJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	start := time.Now()
	j.logger.Info("starting erp account sync job")

	matched, unmatched, err := j.syncService.SyncMissingAccounts(ctx)
	if err != nil {
		j.logger.Error("erp account sync failed",
			zap.Error(err),
			zap.Duration("duration", time.Since(start)))
		return
	}

	j.logger.Info("erp account sync job completed",
		zap.Int("customers_matched", matched),
		zap.Int("customers_unmatched", unmatched),
		zap.Duration("duration", time.Since(start)))
}

// RegisterERPSyncJob registers the ERP account sync job with the scheduler.
// The cronExpr should be a valid cron expression (e.g., "0 0 3 * * *" for
// 03:00 every night).
func RegisterERPSyncJob(scheduler *Scheduler, syncService ERPAccountSyncService, logger *zap.Logger, cronExpr string, timeout time.Duration) error {
	job := NewERPSyncJob(syncService, logger, timeout)
	return scheduler.AddJob(ERPSyncJobName, cronExpr, job.Run)
}
