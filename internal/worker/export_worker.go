package worker

import (
	"context"
	"time"

	"sharebox/internal/domain"
	"sharebox/internal/export"
	"sharebox/internal/models"

	"github.com/rs/zerolog"
)

// ExportWorker drains the export queue and rewrites the bookings workbook.
// Tasks are coalescing: each processed task triggers a full rebuild, so a
// burst of bookings produces one up-to-date file per poll cycle.
type ExportWorker struct {
	store        domain.Store
	queue        domain.ExportQueue
	policy       RetryPolicy
	logger       *zerolog.Logger
	exportPath   string
	pollInterval time.Duration
}

func NewExportWorker(store domain.Store, queue domain.ExportQueue, exportPath string, pollInterval time.Duration, logger *zerolog.Logger) *ExportWorker {
	if pollInterval <= 0 {
		pollInterval = 5 * time.Second
	}
	return &ExportWorker{
		store:        store,
		queue:        queue,
		policy:       DefaultRetryPolicy(),
		logger:       logger,
		exportPath:   exportPath,
		pollInterval: pollInterval,
	}
}

// Run polls until the context is cancelled.
func (w *ExportWorker) Run(ctx context.Context) {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	w.logger.Info().Dur("poll_interval", w.pollInterval).Msg("export worker started")

	for {
		select {
		case <-ctx.Done():
			w.logger.Info().Msg("export worker stopped")
			return
		case <-ticker.C:
			if err := w.ProcessPending(ctx); err != nil {
				w.logger.Error().Err(err).Msg("export poll failed")
			}
		}
	}
}

// ProcessPending handles one batch of due tasks.
func (w *ExportWorker) ProcessPending(ctx context.Context) error {
	tasks, err := w.queue.PendingExportTasks(ctx, models.ExportQueueBatch)
	if err != nil {
		return err
	}
	if len(tasks) == 0 {
		return nil
	}

	exportErr := w.rebuild(ctx)

	for _, task := range tasks {
		if exportErr == nil {
			if err := w.queue.UpdateExportTaskStatus(ctx, task.ID, "completed", "", nil); err != nil {
				w.logger.Error().Err(err).Int64("task_id", task.ID).Msg("failed to mark task completed")
			}
			continue
		}

		if w.policy.Exhausted(task.RetryCount + 1) {
			w.logger.Error().Err(exportErr).Int64("task_id", task.ID).Msg("export task failed permanently")
			if err := w.queue.UpdateExportTaskStatus(ctx, task.ID, "failed", exportErr.Error(), nil); err != nil {
				w.logger.Error().Err(err).Int64("task_id", task.ID).Msg("failed to mark task failed")
			}
			continue
		}

		nextRetry := time.Now().Add(w.policy.NextDelay(task.RetryCount))
		w.logger.Warn().Err(exportErr).
			Int64("task_id", task.ID).
			Int("retry_count", task.RetryCount+1).
			Time("next_retry_at", nextRetry).
			Msg("export task scheduled for retry")
		if err := w.queue.UpdateExportTaskStatus(ctx, task.ID, "retry", exportErr.Error(), &nextRetry); err != nil {
			w.logger.Error().Err(err).Int64("task_id", task.ID).Msg("failed to schedule retry")
		}
	}

	return nil
}

func (w *ExportWorker) rebuild(ctx context.Context) error {
	bookings, err := w.store.AllBookings(ctx)
	if err != nil {
		return err
	}

	itemIDs := make([]int64, 0, len(bookings))
	userIDs := make([]int64, 0, len(bookings))
	for _, b := range bookings {
		itemIDs = append(itemIDs, b.ItemID)
		userIDs = append(userIDs, b.BookerID)
	}

	items, err := w.store.ItemsByIDs(ctx, itemIDs)
	if err != nil {
		return err
	}
	users, err := w.store.UsersByIDs(ctx, userIDs)
	if err != nil {
		return err
	}

	views := make([]models.BookingView, 0, len(bookings))
	for _, b := range bookings {
		views = append(views, models.BookingView{
			ID:     b.ID,
			Start:  b.Start,
			End:    b.End,
			Status: b.Status,
			Item:   items[b.ItemID],
			Booker: users[b.BookerID],
		})
	}

	if err := export.WriteWorkbook(views, w.exportPath); err != nil {
		return err
	}

	w.logger.Info().Int("bookings", len(views)).Str("path", w.exportPath).Msg("bookings export written")
	return nil
}
