package database

import (
	"context"
	"fmt"
	"time"

	"sharebox/internal/models"
)

func (db *DB) CreateExportTask(ctx context.Context, task *models.ExportTask) error {
	query := `INSERT INTO export_queue (task_type, booking_id, status, retry_count, last_error, created_at, next_retry_at)
              VALUES (?, ?, ?, ?, ?, ?, ?)`
	now := time.Now()
	var nextRetry any
	if task.NextRetryAt != nil {
		nextRetry = fmtTime(*task.NextRetryAt)
	}
	result, err := db.ExecContext(ctx, query,
		task.TaskType,
		task.BookingID,
		task.Status,
		task.RetryCount,
		task.LastError,
		fmtTime(now),
		nextRetry,
	)
	if err != nil {
		return fmt.Errorf("failed to create export task: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	task.ID = id
	task.CreatedAt = now
	return nil
}

func (db *DB) PendingExportTasks(ctx context.Context, limit int) ([]models.ExportTask, error) {
	query := `SELECT id, task_type, booking_id, status, retry_count, last_error, created_at, processed_at, next_retry_at
              FROM export_queue
              WHERE status IN ('pending', 'retry') AND (next_retry_at IS NULL OR next_retry_at <= ?)
              ORDER BY created_at ASC LIMIT ?`
	rows, err := db.QueryContext(ctx, query, fmtTime(time.Now()), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get pending export tasks: %w", err)
	}
	defer rows.Close()

	var tasks []models.ExportTask
	for rows.Next() {
		var t models.ExportTask
		var createdStr string
		var processedStr, nextRetryStr *string
		err := rows.Scan(&t.ID, &t.TaskType, &t.BookingID, &t.Status, &t.RetryCount, &t.LastError, &createdStr, &processedStr, &nextRetryStr)
		if err != nil {
			return nil, fmt.Errorf("failed to scan export task: %w", err)
		}
		if t.CreatedAt, err = parseTime(createdStr); err != nil {
			return nil, err
		}
		if processedStr != nil {
			ts, err := parseTime(*processedStr)
			if err != nil {
				return nil, err
			}
			t.ProcessedAt = &ts
		}
		if nextRetryStr != nil {
			ts, err := parseTime(*nextRetryStr)
			if err != nil {
				return nil, err
			}
			t.NextRetryAt = &ts
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (db *DB) UpdateExportTaskStatus(ctx context.Context, id int64, status, errMsg string, nextRetryAt *time.Time) error {
	var nextRetry any
	if nextRetryAt != nil {
		nextRetry = fmtTime(*nextRetryAt)
	}

	var query string
	var args []any
	switch status {
	case "retry":
		query = `UPDATE export_queue SET status = ?, last_error = ?, next_retry_at = ?, retry_count = retry_count + 1 WHERE id = ?`
		args = []any{status, errMsg, nextRetry, id}
	case "completed", "failed":
		query = `UPDATE export_queue SET status = ?, last_error = ?, next_retry_at = ?, processed_at = ? WHERE id = ?`
		args = []any{status, errMsg, nextRetry, fmtTime(time.Now()), id}
	default:
		query = `UPDATE export_queue SET status = ?, last_error = ?, next_retry_at = ? WHERE id = ?`
		args = []any{status, errMsg, nextRetry, id}
	}

	if _, err := db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to update export task status: %w", err)
	}
	return nil
}
