package service

import (
	"sharebox/internal/database"
	"sharebox/internal/models"
)

// validateNewBooking runs the creation rules in order, short-circuiting on the
// first failure. item and booker may be nil when the lookups found nothing.
// Pure function over its inputs; no overlap check against other bookings is
// performed.
func validateNewBooking(req models.BookingRequest, item *models.Item, booker *models.User) error {
	if item == nil {
		return database.ErrItemNotFound
	}
	if booker == nil {
		return database.ErrUserNotFound
	}
	if item.OwnerID == booker.ID {
		return ErrSelfBooking
	}
	if !item.Available {
		return ErrItemUnavailable
	}
	if !req.End.After(req.Start) {
		return ErrInvalidDuration
	}
	return nil
}
