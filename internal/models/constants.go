package models

const (
	// DefaultPageSize applies when a list request omits size.
	DefaultPageSize = 10

	// RateLimitRequests is the per-user request budget within the window.
	RateLimitRequests = 30

	// RateLimitWindow is the per-user rate limit window in seconds.
	RateLimitWindow = 60

	// ExportQueueBatch is how many pending export tasks the worker drains per poll.
	ExportQueueBatch = 20
)
