package models

import "time"

// ExportTask is a queued unit of work for the bookings export worker.
type ExportTask struct {
	ID          int64
	TaskType    string
	BookingID   int64
	Status      string
	RetryCount  int
	LastError   string
	CreatedAt   time.Time
	ProcessedAt *time.Time
	NextRetryAt *time.Time
}
