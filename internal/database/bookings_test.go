package database

import (
	"context"
	"testing"
	"time"

	"sharebox/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetBooking_NotFound(t *testing.T) {
	db := setupTestDB(t)

	_, err := db.GetBooking(context.Background(), 1)
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestUpdateBookingStatusFrom(t *testing.T) {
	db := setupTestDB(t)
	owner := mustUser(t, db, "owner@example.com", "Owner")
	booker := mustUser(t, db, "booker@example.com", "Booker")
	item := mustItem(t, db, owner.ID, "Drill", true)
	now := time.Now()
	booking := mustBooking(t, db, item.ID, booker.ID, now.Add(time.Hour), now.Add(2*time.Hour), models.StatusWaiting)

	err := db.UpdateBookingStatusFrom(context.Background(), booking.ID, models.StatusWaiting, models.StatusApproved)
	require.NoError(t, err)

	fetched, err := db.GetBooking(context.Background(), booking.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, fetched.Status)

	// The row no longer holds WAITING, so the same transition loses the race.
	err = db.UpdateBookingStatusFrom(context.Background(), booking.ID, models.StatusWaiting, models.StatusRejected)
	assert.ErrorIs(t, err, ErrConcurrentModification)
}

func TestBookingTimeWindows(t *testing.T) {
	db := setupTestDB(t)
	owner := mustUser(t, db, "owner@example.com", "Owner")
	booker := mustUser(t, db, "booker@example.com", "Booker")
	item := mustItem(t, db, owner.ID, "Drill", true)
	now := time.Now()

	past := mustBooking(t, db, item.ID, booker.ID, now.Add(-3*time.Hour), now.Add(-2*time.Hour), models.StatusApproved)
	current := mustBooking(t, db, item.ID, booker.ID, now.Add(-time.Hour), now.Add(time.Hour), models.StatusApproved)
	future := mustBooking(t, db, item.ID, booker.ID, now.Add(2*time.Hour), now.Add(3*time.Hour), models.StatusWaiting)

	t.Run("ending before", func(t *testing.T) {
		got, err := db.BookingsEndingBefore(context.Background(), now)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, past.ID, got[0].ID)
	})

	t.Run("straddling", func(t *testing.T) {
		got, err := db.BookingsStraddling(context.Background(), now)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, current.ID, got[0].ID)
	})

	t.Run("starting after", func(t *testing.T) {
		got, err := db.BookingsStartingAfter(context.Background(), now)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, future.ID, got[0].ID)
	})

	t.Run("all ordered start desc", func(t *testing.T) {
		got, err := db.AllBookings(context.Background())
		require.NoError(t, err)
		require.Len(t, got, 3)
		assert.Equal(t, future.ID, got[0].ID)
		assert.Equal(t, current.ID, got[1].ID)
		assert.Equal(t, past.ID, got[2].ID)
	})

	t.Run("by status", func(t *testing.T) {
		got, err := db.BookingsByStatus(context.Background(), models.StatusWaiting)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, future.ID, got[0].ID)
	})
}

func TestLastAndNextBookingForItem(t *testing.T) {
	db := setupTestDB(t)
	owner := mustUser(t, db, "owner@example.com", "Owner")
	booker := mustUser(t, db, "booker@example.com", "Booker")
	item := mustItem(t, db, owner.ID, "Drill", true)
	now := time.Now()

	mustBooking(t, db, item.ID, booker.ID, now.Add(-5*time.Hour), now.Add(-4*time.Hour), models.StatusApproved)
	recent := mustBooking(t, db, item.ID, booker.ID, now.Add(-2*time.Hour), now.Add(-time.Hour), models.StatusApproved)
	upcoming := mustBooking(t, db, item.ID, booker.ID, now.Add(time.Hour), now.Add(2*time.Hour), models.StatusWaiting)
	mustBooking(t, db, item.ID, booker.ID, now.Add(4*time.Hour), now.Add(5*time.Hour), models.StatusWaiting)

	last, err := db.LastBookingForItem(context.Background(), item.ID, now)
	require.NoError(t, err)
	require.NotNil(t, last)
	assert.Equal(t, recent.ID, last.ID)

	next, err := db.NextBookingForItem(context.Background(), item.ID, now)
	require.NoError(t, err)
	require.NotNil(t, next)
	assert.Equal(t, upcoming.ID, next.ID)
}

func TestLastAndNextBookingForItem_NoneIsNil(t *testing.T) {
	db := setupTestDB(t)
	owner := mustUser(t, db, "owner@example.com", "Owner")
	item := mustItem(t, db, owner.ID, "Untouched", true)

	last, err := db.LastBookingForItem(context.Background(), item.ID, time.Now())
	require.NoError(t, err)
	assert.Nil(t, last)

	next, err := db.NextBookingForItem(context.Background(), item.ID, time.Now())
	require.NoError(t, err)
	assert.Nil(t, next)
}

func TestHasEligibleBooking(t *testing.T) {
	db := setupTestDB(t)
	owner := mustUser(t, db, "owner@example.com", "Owner")
	booker := mustUser(t, db, "booker@example.com", "Booker")
	stranger := mustUser(t, db, "stranger@example.com", "Stranger")
	item := mustItem(t, db, owner.ID, "Drill", true)
	now := time.Now()

	mustBooking(t, db, item.ID, booker.ID, now.Add(-2*time.Hour), now.Add(-time.Hour), models.StatusApproved)
	mustBooking(t, db, item.ID, stranger.ID, now.Add(-2*time.Hour), now.Add(-time.Hour), models.StatusRejected)

	eligible, err := db.HasEligibleBooking(context.Background(), booker.ID, item.ID, now)
	require.NoError(t, err)
	assert.True(t, eligible)

	// A rejected booking does not qualify.
	eligible, err = db.HasEligibleBooking(context.Background(), stranger.ID, item.ID, now)
	require.NoError(t, err)
	assert.False(t, eligible)

	// A booking that has not started yet does not qualify either.
	future := mustUser(t, db, "future@example.com", "Future")
	mustBooking(t, db, item.ID, future.ID, now.Add(time.Hour), now.Add(2*time.Hour), models.StatusApproved)
	eligible, err = db.HasEligibleBooking(context.Background(), future.ID, item.ID, now)
	require.NoError(t, err)
	assert.False(t, eligible)
}
