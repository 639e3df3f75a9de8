package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"sharebox/internal/database"
	"sharebox/internal/domain"
	"sharebox/internal/events"
	"sharebox/internal/models"

	"github.com/rs/zerolog"
)

// BookingService owns the booking lifecycle (create, approve/reject, lookup)
// and the list query engine.
type BookingService struct {
	store    domain.Store
	guard    *AccessGuard
	eventBus domain.EventPublisher
	logger   *zerolog.Logger
}

func NewBookingService(store domain.Store, eventBus domain.EventPublisher, logger *zerolog.Logger) *BookingService {
	return &BookingService{
		store:    store,
		guard:    NewAccessGuard(store),
		eventBus: eventBus,
		logger:   logger,
	}
}

// Create validates the request and persists a new WAITING booking.
func (s *BookingService) Create(ctx context.Context, bookerID int64, req models.BookingRequest) (*models.BookingView, error) {
	item, err := s.store.GetItem(ctx, req.ItemID)
	if err != nil && !errors.Is(err, database.ErrItemNotFound) {
		return nil, err
	}
	booker, err := s.guard.Resolve(ctx, bookerID)
	if err != nil && !errors.Is(err, database.ErrUserNotFound) {
		return nil, err
	}

	if err := validateNewBooking(req, item, booker); err != nil {
		return nil, err
	}

	booking := &models.Booking{
		ItemID:   item.ID,
		BookerID: booker.ID,
		Start:    req.Start,
		End:      req.End,
		Status:   models.StatusWaiting,
	}
	if err := s.store.CreateBooking(ctx, booking); err != nil {
		return nil, err
	}

	view := assembleBookingView(booking, *item, *booker)
	s.publishEvent(events.EventBookingCreated, view)
	return &view, nil
}

// Approve moves a WAITING booking to APPROVED or REJECTED. Only the item
// owner may decide; re-approving an APPROVED booking fails and leaves the
// stored status unchanged. The status flip is a conditional update so two
// racing decisions cannot both win.
func (s *BookingService) Approve(ctx context.Context, ownerID, bookingID int64, approved bool) (*models.BookingView, error) {
	if _, err := s.guard.Resolve(ctx, ownerID); err != nil {
		return nil, err
	}

	booking, err := s.store.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	item, err := s.store.GetItem(ctx, booking.ItemID)
	if err != nil {
		return nil, err
	}
	if item.OwnerID != ownerID {
		return nil, ErrNotItemOwner
	}
	if approved && booking.Status == models.StatusApproved {
		return nil, ErrDoubleApproval
	}

	to := models.StatusRejected
	if approved {
		to = models.StatusApproved
	}
	if err := s.store.UpdateBookingStatusFrom(ctx, booking.ID, booking.Status, to); err != nil {
		return nil, err
	}
	booking.Status = to

	booker, err := s.guard.Resolve(ctx, booking.BookerID)
	if err != nil {
		return nil, err
	}

	view := assembleBookingView(booking, *item, *booker)
	if approved {
		s.publishEvent(events.EventBookingApproved, view)
	} else {
		s.publishEvent(events.EventBookingRejected, view)
	}
	return &view, nil
}

// GetByID returns the booking view for its booker or the item's owner. Any
// other caller is denied even with a valid booking id.
func (s *BookingService) GetByID(ctx context.Context, viewerID, bookingID int64) (*models.BookingView, error) {
	if _, err := s.guard.Resolve(ctx, viewerID); err != nil {
		return nil, err
	}

	booking, err := s.store.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	item, err := s.store.GetItem(ctx, booking.ItemID)
	if err != nil {
		return nil, err
	}
	if booking.BookerID != viewerID && item.OwnerID != viewerID {
		return nil, ErrAccessDenied
	}

	booker, err := s.guard.Resolve(ctx, booking.BookerID)
	if err != nil {
		return nil, err
	}

	view := assembleBookingView(booking, *item, *booker)
	return &view, nil
}

// List returns the viewer's bookings (as booker or as item owner) matching
// the state filter, ordered by start descending, paginated with page-index
// semantics: from is a zero-based page number, not a row offset.
func (s *BookingService) List(ctx context.Context, viewerID int64, role models.ListRole, filter models.StateFilter, from, size int) ([]models.BookingView, error) {
	if _, err := s.guard.Resolve(ctx, viewerID); err != nil {
		return nil, err
	}

	candidates, err := s.candidatesByFilter(ctx, filter)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Start.Equal(candidates[j].Start) {
			return candidates[i].ID > candidates[j].ID
		}
		return candidates[i].Start.After(candidates[j].Start)
	})

	views, err := s.assembleViews(ctx, candidates)
	if err != nil {
		return nil, err
	}

	scoped := views[:0]
	for _, v := range views {
		switch role {
		case models.RoleBooker:
			if v.Booker.ID == viewerID {
				scoped = append(scoped, v)
			}
		case models.RoleOwner:
			if v.Item.OwnerID == viewerID {
				scoped = append(scoped, v)
			}
		}
	}

	return paginate(scoped, from, size), nil
}

func (s *BookingService) candidatesByFilter(ctx context.Context, filter models.StateFilter) ([]*models.Booking, error) {
	now := time.Now()
	switch {
	case filter.IsAll():
		return s.store.AllBookings(ctx)
	case filter.IsPast():
		return s.store.BookingsEndingBefore(ctx, now)
	case filter.IsCurrent():
		return s.store.BookingsStraddling(ctx, now)
	case filter.IsFuture():
		return s.store.BookingsStartingAfter(ctx, now)
	}
	status, ok := filter.Status()
	if !ok || !status.Valid() {
		return nil, models.ErrUnsupportedState
	}
	return s.store.BookingsByStatus(ctx, status)
}

// assembleViews joins bookings with their items and bookers in two batched
// lookups. Bookings whose item or booker no longer resolves are dropped.
func (s *BookingService) assembleViews(ctx context.Context, bookings []*models.Booking) ([]models.BookingView, error) {
	if len(bookings) == 0 {
		return nil, nil
	}

	itemIDs := make([]int64, 0, len(bookings))
	bookerIDs := make([]int64, 0, len(bookings))
	seenItems := make(map[int64]bool)
	seenUsers := make(map[int64]bool)
	for _, b := range bookings {
		if !seenItems[b.ItemID] {
			seenItems[b.ItemID] = true
			itemIDs = append(itemIDs, b.ItemID)
		}
		if !seenUsers[b.BookerID] {
			seenUsers[b.BookerID] = true
			bookerIDs = append(bookerIDs, b.BookerID)
		}
	}

	items, err := s.store.ItemsByIDs(ctx, itemIDs)
	if err != nil {
		return nil, err
	}
	users, err := s.store.UsersByIDs(ctx, bookerIDs)
	if err != nil {
		return nil, err
	}

	views := make([]models.BookingView, 0, len(bookings))
	for _, b := range bookings {
		item, okItem := items[b.ItemID]
		booker, okUser := users[b.BookerID]
		if !okItem || !okUser {
			s.logger.Warn().Int64("booking_id", b.ID).Msg("booking references missing item or user, skipping")
			continue
		}
		views = append(views, assembleBookingView(b, item, booker))
	}
	return views, nil
}

func assembleBookingView(b *models.Booking, item models.Item, booker models.User) models.BookingView {
	return models.BookingView{
		ID:     b.ID,
		Start:  b.Start,
		End:    b.End,
		Status: b.Status,
		Booker: booker,
		Item:   item,
	}
}

// paginate skips `from` pages of `size` rows each and returns at most `size`.
func paginate(views []models.BookingView, from, size int) []models.BookingView {
	if size <= 0 {
		size = models.DefaultPageSize
	}
	if from < 0 {
		from = 0
	}
	offset := from * size
	if offset >= len(views) {
		return nil
	}
	end := offset + size
	if end > len(views) {
		end = len(views)
	}
	return views[offset:end]
}

func (s *BookingService) publishEvent(eventType string, view models.BookingView) {
	if s.eventBus == nil {
		return
	}

	payload := events.BookingEventPayload{
		BookingID: view.ID,
		ItemID:    view.Item.ID,
		ItemName:  view.Item.Name,
		BookerID:  view.Booker.ID,
		Status:    view.Status,
		Start:     view.Start,
		End:       view.End,
	}
	if err := s.eventBus.PublishJSON(eventType, payload); err != nil {
		s.logger.Error().Err(err).Str("event_type", eventType).Int64("booking_id", view.ID).Msg("publish event error")
	}
}
