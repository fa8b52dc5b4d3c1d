package queue

import (
	"log/slog"

	"github.com/hibiken/asynq"
)

// NewScheduler registers the periodic monitoring sweep. The sweep itself
// decides which items are due; running it every minute keeps hourly
// frequencies honest without hammering anything.
func NewScheduler() (*asynq.Scheduler, error) {
	scheduler := asynq.NewScheduler(RedisOpt(), nil)

	entryID, err := scheduler.Register("@every 1m",
		asynq.NewTask(QueueMonitoringSweep, nil),
		asynq.Queue(QueueMonitoringSweep),
	)
	if err != nil {
		return nil, err
	}

	slog.Info("Registered monitoring sweep", "entry_id", entryID, "interval", "1m")
	return scheduler, nil
}
