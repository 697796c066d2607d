package bookings

import (
	"context"
	"fmt"
	"time"

	"hallbook/internal/shared/utils/clock"
	"hallbook/pkg/logger"

	"github.com/robfig/cron/v3"
)

// ReminderJob e-mails customers the day before a confirmed booking.
type ReminderJob struct {
	service Service
	cron    *cron.Cron
	timeout time.Duration
	now     func() time.Time
}

func NewReminderJob(service Service, schedule string, timeout time.Duration) (*ReminderJob, error) {
	j := &ReminderJob{
		service: service,
		cron:    cron.New(),
		timeout: timeout,
		now:     time.Now,
	}
	if _, err := j.cron.AddFunc(schedule, j.Run); err != nil {
		return nil, fmt.Errorf("invalid reminder schedule %q: %w", schedule, err)
	}
	return j, nil
}

func (j *ReminderJob) Start() {
	j.cron.Start()
}

// Stop waits for a running reminder pass to finish.
func (j *ReminderJob) Stop() {
	<-j.cron.Stop().Done()
}

// Run sends reminders for tomorrow's bookings.
func (j *ReminderJob) Run() {
	ctx := context.Background()
	if j.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, j.timeout)
		defer cancel()
	}

	date := j.now().AddDate(0, 0, 1).Format(clock.DateLayout)
	if _, err := j.service.SendReminders(ctx, date); err != nil {
		logger.GetDefault().ErrorWithContext(ctx, "Reminder job failed", err, map[string]interface{}{
			"date": date,
		})
	}
}
