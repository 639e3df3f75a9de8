package database

import "errors"

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrItemNotFound    = errors.New("item not found")
	ErrBookingNotFound = errors.New("booking not found")
	ErrRequestNotFound = errors.New("request not found")

	// ErrConcurrentModification means a conditional status update matched no
	// row: the booking changed between the read and the write.
	ErrConcurrentModification = errors.New("booking was modified concurrently")
)
