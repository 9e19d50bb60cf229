package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/campuseats/canteen/internal/adapter/mailer"
	"github.com/campuseats/canteen/internal/domain/model"
)

// NotifierFacade exposes the subset of application functionality required by the dispatcher.
type NotifierFacade interface {
	PendingNotifications(ctx context.Context, limit int) ([]model.Notification, error)
	DeliverStatusChange(ctx context.Context, note model.Notification) error
	MarkNotificationDelivered(ctx context.Context, id string) error
}

// NotificationDispatcher polls the notification outbox and delivers entries concurrently.
type NotificationDispatcher struct {
	facade       NotifierFacade
	pollInterval time.Duration
	batchSize    int
	workers      int
	logger       *slog.Logger

	jobs   chan model.Notification
	wg     sync.WaitGroup
	cancel context.CancelFunc
	mu     sync.Mutex
}

// NewNotificationDispatcher constructs notification dispatcher worker pool.
func NewNotificationDispatcher(facade NotifierFacade, pollInterval time.Duration, batchSize, workers int, logger *slog.Logger) *NotificationDispatcher {
	if workers <= 0 {
		workers = 1
	}
	if batchSize <= 0 {
		batchSize = 1
	}
	return &NotificationDispatcher{
		facade:       facade,
		pollInterval: pollInterval,
		batchSize:    batchSize,
		workers:      workers,
		logger:       logger,
		jobs:         make(chan model.Notification, batchSize*workers),
	}
}

// Start launches background processing.
func (d *NotificationDispatcher) Start(ctx context.Context) {
	d.mu.Lock()
	defer d.mu.Unlock()

	runCtx, cancel := context.WithCancel(ctx)
	d.cancel = cancel

	for i := 0; i < d.workers; i++ {
		d.wg.Add(1)
		go d.worker(runCtx)
	}

	d.wg.Add(1)
	go d.dispatch(runCtx)
}

// Stop waits for all workers to finish.
func (d *NotificationDispatcher) Stop() {
	d.mu.Lock()
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.mu.Unlock()

	d.wg.Wait()
}

func (d *NotificationDispatcher) dispatch(ctx context.Context) {
	defer d.wg.Done()
	defer close(d.jobs)
	ticker := time.NewTicker(d.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			d.fetchAndDispatch(ctx)
		}
	}
}

func (d *NotificationDispatcher) fetchAndDispatch(ctx context.Context) {
	notes, err := d.facade.PendingNotifications(ctx, d.batchSize)
	if err != nil {
		d.logger.Error("fetch pending notifications failed", slog.String("error", err.Error()))
		return
	}
	for _, note := range notes {
		select {
		case <-ctx.Done():
			return
		case d.jobs <- note:
		}
	}
}

func (d *NotificationDispatcher) worker(ctx context.Context) {
	defer d.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case note, ok := <-d.jobs:
			if !ok {
				return
			}
			d.handle(ctx, note)
		}
	}
}

func (d *NotificationDispatcher) handle(ctx context.Context, note model.Notification) {
	if err := d.facade.DeliverStatusChange(ctx, note); err != nil {
		switch e := err.(type) {
		case mailer.RetryAfterError:
			d.logger.Warn("mail gateway rate limited", slog.Duration("retry_after", e.RetryAfter))
			time.Sleep(e.RetryAfter)
		default:
			d.logger.Error("notification delivery failed",
				slog.String("notification", note.ID),
				slog.String("order", note.OrderID),
				slog.String("error", err.Error()))
		}
		return
	}

	if err := d.facade.MarkNotificationDelivered(ctx, note.ID); err != nil {
		d.logger.Error("mark notification delivered failed",
			slog.String("notification", note.ID),
			slog.String("error", err.Error()))
	}
}
