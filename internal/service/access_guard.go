package service

import (
	"context"

	"sharebox/internal/domain"
	"sharebox/internal/models"
)

// AccessGuard resolves an acting user id against the user directory. Every
// service entry point calls Resolve first; a missing user is always a hard
// failure, never silently defaulted.
type AccessGuard struct {
	store domain.Store
}

func NewAccessGuard(store domain.Store) *AccessGuard {
	return &AccessGuard{store: store}
}

func (g *AccessGuard) Resolve(ctx context.Context, userID int64) (*models.User, error) {
	return g.store.GetUser(ctx, userID)
}
