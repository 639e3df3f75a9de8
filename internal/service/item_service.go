package service

import (
	"context"
	"strings"
	"time"

	"sharebox/internal/domain"
	"sharebox/internal/events"
	"sharebox/internal/models"

	"github.com/rs/zerolog"
)

// ItemService manages the item catalog and builds item views with the
// owner-only last/next booking projection and the comments list.
type ItemService struct {
	store    domain.Store
	guard    *AccessGuard
	eventBus domain.EventPublisher
	logger   *zerolog.Logger
}

func NewItemService(store domain.Store, eventBus domain.EventPublisher, logger *zerolog.Logger) *ItemService {
	return &ItemService{
		store:    store,
		guard:    NewAccessGuard(store),
		eventBus: eventBus,
		logger:   logger,
	}
}

func (s *ItemService) Add(ctx context.Context, ownerID int64, item models.Item) (*models.Item, error) {
	owner, err := s.guard.Resolve(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if item.RequestID != 0 {
		if _, err := s.store.GetRequest(ctx, item.RequestID); err != nil {
			return nil, err
		}
	}

	item.ID = 0
	item.OwnerID = owner.ID
	if err := s.store.CreateItem(ctx, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *ItemService) Patch(ctx context.Context, userID, itemID int64, patch models.ItemPatch) (*models.ItemView, error) {
	if _, err := s.guard.Resolve(ctx, userID); err != nil {
		return nil, err
	}
	item, err := s.store.GetItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item.OwnerID != userID {
		return nil, ErrAccessDenied
	}

	if patch.Name != nil {
		item.Name = *patch.Name
	}
	if patch.Description != nil {
		item.Description = *patch.Description
	}
	if patch.Available != nil {
		item.Available = *patch.Available
	}
	if err := s.store.UpdateItem(ctx, item); err != nil {
		return nil, err
	}

	return s.buildView(ctx, item, userID)
}

func (s *ItemService) Delete(ctx context.Context, userID, itemID int64) error {
	if _, err := s.guard.Resolve(ctx, userID); err != nil {
		return err
	}
	item, err := s.store.GetItem(ctx, itemID)
	if err != nil {
		return err
	}
	if item.OwnerID != userID {
		return ErrAccessDenied
	}
	return s.store.DeleteItem(ctx, itemID)
}

func (s *ItemService) Get(ctx context.Context, viewerID, itemID int64) (*models.ItemView, error) {
	item, err := s.store.GetItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	return s.buildView(ctx, item, viewerID)
}

func (s *ItemService) AllByOwner(ctx context.Context, ownerID int64) ([]models.ItemView, error) {
	if _, err := s.guard.Resolve(ctx, ownerID); err != nil {
		return nil, err
	}
	items, err := s.store.ItemsByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	views := make([]models.ItemView, 0, len(items))
	for _, item := range items {
		view, err := s.buildView(ctx, item, ownerID)
		if err != nil {
			return nil, err
		}
		views = append(views, *view)
	}
	return views, nil
}

// Search matches available items by name or description. A blank query
// returns an empty result. Searchers are not owners, so no booking
// projections are attached.
func (s *ItemService) Search(ctx context.Context, text string) ([]models.ItemView, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	items, err := s.store.SearchItems(ctx, text)
	if err != nil {
		return nil, err
	}

	views := make([]models.ItemView, 0, len(items))
	for _, item := range items {
		comments, err := s.store.CommentsByItem(ctx, item.ID)
		if err != nil {
			return nil, err
		}
		views = append(views, newItemView(item, comments))
	}
	return views, nil
}

// AddComment records a comment if the author has a non-rejected booking on
// the item that started at or before now.
func (s *ItemService) AddComment(ctx context.Context, userID, itemID int64, text string) (*models.Comment, error) {
	author, err := s.guard.Resolve(ctx, userID)
	if err != nil {
		return nil, err
	}
	item, err := s.store.GetItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		return nil, ErrCommentNotAllowed
	}

	created := time.Now()
	eligible, err := s.store.HasEligibleBooking(ctx, author.ID, item.ID, created)
	if err != nil {
		return nil, err
	}
	if !eligible {
		return nil, ErrCommentNotAllowed
	}

	comment := &models.Comment{
		Text:       text,
		ItemID:     item.ID,
		AuthorID:   author.ID,
		AuthorName: author.Name,
		Created:    created,
	}
	if err := s.store.CreateComment(ctx, comment); err != nil {
		return nil, err
	}

	if s.eventBus != nil {
		payload := events.CommentEventPayload{CommentID: comment.ID, ItemID: item.ID, AuthorID: author.ID}
		if err := s.eventBus.PublishJSON(events.EventCommentAdded, payload); err != nil {
			s.logger.Error().Err(err).Int64("comment_id", comment.ID).Msg("publish event error")
		}
	}
	return comment, nil
}

// buildView decorates the item for the given viewer. Last/next bookings are
// owner-only; the nearest booking is picked first and then hidden when it is
// rejected, so a rejected booking never surfaces as the current reservation.
func (s *ItemService) buildView(ctx context.Context, item *models.Item, viewerID int64) (*models.ItemView, error) {
	comments, err := s.store.CommentsByItem(ctx, item.ID)
	if err != nil {
		return nil, err
	}
	view := newItemView(item, comments)

	if item.OwnerID != viewerID {
		return &view, nil
	}

	now := time.Now()
	last, err := s.store.LastBookingForItem(ctx, item.ID, now)
	if err != nil {
		return nil, err
	}
	next, err := s.store.NextBookingForItem(ctx, item.ID, now)
	if err != nil {
		return nil, err
	}
	view.LastBooking = bookingRef(last)
	view.NextBooking = bookingRef(next)
	return &view, nil
}

func newItemView(item *models.Item, comments []models.Comment) models.ItemView {
	if comments == nil {
		comments = []models.Comment{}
	}
	return models.ItemView{
		ID:          item.ID,
		Name:        item.Name,
		Description: item.Description,
		Available:   item.Available,
		RequestID:   item.RequestID,
		Comments:    comments,
	}
}

func bookingRef(b *models.Booking) *models.BookingRef {
	if b == nil || b.Status == models.StatusRejected {
		return nil
	}
	return &models.BookingRef{ID: b.ID, BookerID: b.BookerID, Status: b.Status}
}
