package models

import "time"

// BookingView is a booking with its booker and item resolved.
type BookingView struct {
	ID     int64         `json:"id"`
	Start  time.Time     `json:"start"`
	End    time.Time     `json:"end"`
	Status BookingStatus `json:"status"`
	Booker User          `json:"booker"`
	Item   Item          `json:"item"`
}

// BookingRef is the short booking shape attached to item views.
type BookingRef struct {
	ID       int64         `json:"id"`
	BookerID int64         `json:"bookerId"`
	Status   BookingStatus `json:"status"`
}

// ItemView decorates an item with owner-only last/next bookings and comments.
// LastBooking and NextBooking are populated only when the viewer owns the item
// and the nearest booking is not rejected.
type ItemView struct {
	ID          int64       `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Available   bool        `json:"available"`
	RequestID   int64       `json:"requestId,omitempty"`
	LastBooking *BookingRef `json:"lastBooking,omitempty"`
	NextBooking *BookingRef `json:"nextBooking,omitempty"`
	Comments    []Comment   `json:"comments"`
}

// RequestView decorates a request with the items that reference it.
type RequestView struct {
	ID          int64     `json:"id"`
	Description string    `json:"description"`
	CreatorID   int64     `json:"creatorId"`
	Created     time.Time `json:"created"`
	Items       []Item    `json:"items"`
}
