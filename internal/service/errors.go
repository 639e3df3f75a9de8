package service

import "errors"

var (
	// ErrSelfBooking rejects a booker trying to book their own item.
	ErrSelfBooking = errors.New("owner cannot book own item")

	// ErrItemUnavailable rejects bookings on items with availability off.
	ErrItemUnavailable = errors.New("item is not available for booking")

	// ErrInvalidDuration rejects intervals where end is not strictly after start.
	ErrInvalidDuration = errors.New("booking end must be after start")

	// ErrNotItemOwner rejects approval attempts by anyone but the item owner.
	ErrNotItemOwner = errors.New("user is not the item owner")

	// ErrDoubleApproval rejects approving an already approved booking.
	ErrDoubleApproval = errors.New("booking is already approved")

	// ErrAccessDenied rejects viewers who are neither booker nor owner.
	ErrAccessDenied = errors.New("access denied")

	// ErrCommentNotAllowed rejects comments without an eligible prior booking
	// or with empty text.
	ErrCommentNotAllowed = errors.New("comment not allowed")

	ErrEmailRequired = errors.New("email is required")
	ErrEmailExists   = errors.New("email already exists")
)
