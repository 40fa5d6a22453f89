package jobs

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// ScheduleSweepJobName is the name of the delayed-schedule sweep job
const ScheduleSweepJobName = "schedule_sweep"

// OverdueScheduleService defines the interface for flagging overdue
// production schedules. This interface allows the job to call the service
// without importing the service package directly.
type OverdueScheduleService interface {
	// FlagOverdue marks schedules whose scheduled end has passed without
	// completion as delayed. Returns the number of schedules flagged.
	FlagOverdue(ctx context.Context, now time.Time) (int64, error)
}

// ScheduleSweepJob periodically flags production schedules that ran past
// their scheduled end without being completed.
type ScheduleSweepJob struct {
	scheduleService OverdueScheduleService
	logger          *zap.Logger
	timeout         time.Duration
}

// NewScheduleSweepJob creates a new delayed-schedule sweep job.
func NewScheduleSweepJob(scheduleService OverdueScheduleService, logger *zap.Logger, timeout time.Duration) *ScheduleSweepJob {
	return &ScheduleSweepJob{
		scheduleService: scheduleService,
		logger:          logger,
		timeout:         timeout,
	}
}

// Run executes the sweep. This is called by the scheduler according to the
// cron expression.
func (j *ScheduleSweepJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	start := time.Now()

	flagged, err := j.scheduleService.FlagOverdue(ctx, start)
	if err != nil {
		j.logger.Error("schedule sweep failed",
			zap.Error(err),
			zap.Duration("duration", time.Since(start)))
		return
	}

	if flagged > 0 {
		j.logger.Info("schedule sweep completed",
			zap.Int64("schedules_flagged", flagged),
			zap.Duration("duration", time.Since(start)))
	}
}

// RegisterScheduleSweepJob registers the sweep job with the scheduler.
// The cronExpr should be a valid cron expression (e.g., "0 */15 * * * *"
// for every 15 minutes).
func RegisterScheduleSweepJob(scheduler *Scheduler, scheduleService OverdueScheduleService, logger *zap.Logger, cronExpr string, timeout time.Duration) error {
	job := NewScheduleSweepJob(scheduleService, logger, timeout)
	return scheduler.AddJob(ScheduleSweepJobName, cronExpr, job.Run)
}
