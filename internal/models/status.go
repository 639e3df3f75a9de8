package models

import "errors"

// BookingStatus is the persisted status of a booking. CANCELED is part of the
// closed set but no lifecycle transition produces it yet.
type BookingStatus string

const (
	StatusWaiting  BookingStatus = "WAITING"
	StatusApproved BookingStatus = "APPROVED"
	StatusRejected BookingStatus = "REJECTED"
	StatusCanceled BookingStatus = "CANCELED"
)

// Valid reports whether s is one of the persisted statuses.
func (s BookingStatus) Valid() bool {
	switch s {
	case StatusWaiting, StatusApproved, StatusRejected, StatusCanceled:
		return true
	}
	return false
}

// StateFilter selects a subset of bookings in list queries. It is disjoint
// from BookingStatus: the time-relative filters never appear as a persisted
// status, and a concrete status is carried via the Status field.
type StateFilter struct {
	kind   filterKind
	status BookingStatus
}

type filterKind int

const (
	filterAll filterKind = iota
	filterCurrent
	filterPast
	filterFuture
	filterStatus
)

var (
	FilterAll     = StateFilter{kind: filterAll}
	FilterCurrent = StateFilter{kind: filterCurrent}
	FilterPast    = StateFilter{kind: filterPast}
	FilterFuture  = StateFilter{kind: filterFuture}
)

// FilterByStatus wraps a concrete persisted status as a filter.
func FilterByStatus(status BookingStatus) StateFilter {
	return StateFilter{kind: filterStatus, status: status}
}

// Status returns the concrete status and whether the filter carries one.
func (f StateFilter) Status() (BookingStatus, bool) {
	return f.status, f.kind == filterStatus
}

func (f StateFilter) IsAll() bool     { return f.kind == filterAll }
func (f StateFilter) IsCurrent() bool { return f.kind == filterCurrent }
func (f StateFilter) IsPast() bool    { return f.kind == filterPast }
func (f StateFilter) IsFuture() bool  { return f.kind == filterFuture }

func (f StateFilter) String() string {
	switch f.kind {
	case filterCurrent:
		return "CURRENT"
	case filterPast:
		return "PAST"
	case filterFuture:
		return "FUTURE"
	case filterStatus:
		return string(f.status)
	default:
		return "ALL"
	}
}

// ErrUnsupportedState is returned for a filter value outside the closed set.
// It is a hard error, not an empty result.
var ErrUnsupportedState = errors.New("unsupported state")

// ParseStateFilter maps a raw query value to a StateFilter. An empty value
// defaults to ALL, matching the list endpoints' behavior.
func ParseStateFilter(raw string) (StateFilter, error) {
	switch raw {
	case "", "ALL":
		return FilterAll, nil
	case "CURRENT":
		return FilterCurrent, nil
	case "PAST":
		return FilterPast, nil
	case "FUTURE":
		return FilterFuture, nil
	case "WAITING", "APPROVED", "REJECTED", "CANCELED":
		return FilterByStatus(BookingStatus(raw)), nil
	default:
		return StateFilter{}, ErrUnsupportedState
	}
}

// ListRole says on whose behalf a booking list is scoped.
type ListRole int

const (
	RoleBooker ListRole = iota
	RoleOwner
)
