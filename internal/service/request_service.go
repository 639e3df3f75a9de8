package service

import (
	"context"
	"time"

	"sharebox/internal/domain"
	"sharebox/internal/models"

	"github.com/rs/zerolog"
)

// RequestService manages item requests and decorates them with the items
// created in response.
type RequestService struct {
	store  domain.Store
	guard  *AccessGuard
	logger *zerolog.Logger
}

func NewRequestService(store domain.Store, logger *zerolog.Logger) *RequestService {
	return &RequestService{store: store, guard: NewAccessGuard(store), logger: logger}
}

func (s *RequestService) Add(ctx context.Context, userID int64, description string) (*models.RequestView, error) {
	creator, err := s.guard.Resolve(ctx, userID)
	if err != nil {
		return nil, err
	}

	request := &models.Request{
		Description: description,
		CreatorID:   creator.ID,
		Created:     time.Now(),
	}
	if err := s.store.CreateRequest(ctx, request); err != nil {
		return nil, err
	}
	view := newRequestView(request, nil)
	return &view, nil
}

// AllOwn lists the caller's requests, newest first.
func (s *RequestService) AllOwn(ctx context.Context, userID int64) ([]models.RequestView, error) {
	if _, err := s.guard.Resolve(ctx, userID); err != nil {
		return nil, err
	}
	requests, err := s.store.RequestsByCreator(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.decorate(ctx, requests)
}

// AllOthers pages through requests from other users. from is a zero-based
// page index, the same semantics as the booking list.
func (s *RequestService) AllOthers(ctx context.Context, userID int64, from, size int) ([]models.RequestView, error) {
	if _, err := s.guard.Resolve(ctx, userID); err != nil {
		return nil, err
	}
	if size <= 0 {
		size = models.DefaultPageSize
	}
	if from < 0 {
		from = 0
	}
	requests, err := s.store.RequestsForOthers(ctx, userID, from*size, size)
	if err != nil {
		return nil, err
	}
	return s.decorate(ctx, requests)
}

func (s *RequestService) Get(ctx context.Context, userID, requestID int64) (*models.RequestView, error) {
	if _, err := s.guard.Resolve(ctx, userID); err != nil {
		return nil, err
	}
	request, err := s.store.GetRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	items, err := s.store.ItemsByRequest(ctx, request.ID)
	if err != nil {
		return nil, err
	}
	view := newRequestView(request, items)
	return &view, nil
}

func (s *RequestService) decorate(ctx context.Context, requests []*models.Request) ([]models.RequestView, error) {
	views := make([]models.RequestView, 0, len(requests))
	for _, r := range requests {
		items, err := s.store.ItemsByRequest(ctx, r.ID)
		if err != nil {
			return nil, err
		}
		views = append(views, newRequestView(r, items))
	}
	return views, nil
}

func newRequestView(r *models.Request, items []*models.Item) models.RequestView {
	view := models.RequestView{
		ID:          r.ID,
		Description: r.Description,
		CreatorID:   r.CreatorID,
		Created:     r.Created,
		Items:       []models.Item{},
	}
	for _, item := range items {
		view.Items = append(view.Items, *item)
	}
	return view
}
