package service

import (
	"context"
	"testing"

	"sharebox/internal/database"
	"sharebox/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestService_Add(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	creator := f.user(t, "creator@example.com", "Creator")

	view, err := f.requests.Add(ctx, creator.ID, "need a drill")
	require.NoError(t, err)
	assert.NotZero(t, view.ID)
	assert.Equal(t, creator.ID, view.CreatorID)
	assert.False(t, view.Created.IsZero())
	assert.NotNil(t, view.Items)
	assert.Empty(t, view.Items)

	_, err = f.requests.Add(ctx, 999, "ghost request")
	assert.ErrorIs(t, err, database.ErrUserNotFound)
}

func TestRequestService_AllOwn_NewestFirstWithItems(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	creator := f.user(t, "creator@example.com", "Creator")
	owner := f.user(t, "owner@example.com", "Owner")

	first, err := f.requests.Add(ctx, creator.ID, "need a drill")
	require.NoError(t, err)
	second, err := f.requests.Add(ctx, creator.ID, "need a ladder")
	require.NoError(t, err)

	answer, err := f.items.Add(ctx, owner.ID, models.Item{Name: "Drill", Available: true, RequestID: first.ID})
	require.NoError(t, err)

	views, err := f.requests.AllOwn(ctx, creator.ID)
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, second.ID, views[0].ID)
	assert.Equal(t, first.ID, views[1].ID)
	require.Len(t, views[1].Items, 1)
	assert.Equal(t, answer.ID, views[1].Items[0].ID)
}

func TestRequestService_AllOthers_ExcludesOwnAndPaginates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	me := f.user(t, "me@example.com", "Me")
	other := f.user(t, "other@example.com", "Other")

	_, err := f.requests.Add(ctx, me.ID, "my own")
	require.NoError(t, err)
	var foreign []int64
	for _, desc := range []string{"first", "second", "third"} {
		view, err := f.requests.Add(ctx, other.ID, desc)
		require.NoError(t, err)
		foreign = append(foreign, view.ID)
	}

	page, err := f.requests.AllOthers(ctx, me.ID, 0, 2)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, foreign[0], page[0].ID)
	assert.Equal(t, foreign[1], page[1].ID)

	page, err = f.requests.AllOthers(ctx, me.ID, 1, 2)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, foreign[2], page[0].ID)
}

func TestRequestService_Get(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	creator := f.user(t, "creator@example.com", "Creator")
	viewer := f.user(t, "viewer@example.com", "Viewer")

	created, err := f.requests.Add(ctx, creator.ID, "need a drill")
	require.NoError(t, err)

	// Any known user may read any request.
	view, err := f.requests.Get(ctx, viewer.ID, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "need a drill", view.Description)

	_, err = f.requests.Get(ctx, viewer.ID, 999)
	assert.ErrorIs(t, err, database.ErrRequestNotFound)

	_, err = f.requests.Get(ctx, 999, created.ID)
	assert.ErrorIs(t, err, database.ErrUserNotFound)
}
