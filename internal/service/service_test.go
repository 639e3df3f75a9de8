package service

import (
	"context"
	"testing"
	"time"

	"sharebox/internal/database"
	"sharebox/internal/events"
	"sharebox/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

// fixture wires the services against a fresh in-memory store with a shared
// event bus so tests can observe published events.
type fixture struct {
	db       *database.DB
	bus      *events.EventBus
	bookings *BookingService
	items    *ItemService
	users    *UserService
	requests *RequestService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := database.NewDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	logger := zerolog.Nop()
	bus := events.NewEventBus()
	return &fixture{
		db:       db,
		bus:      bus,
		bookings: NewBookingService(db, bus, &logger),
		items:    NewItemService(db, bus, &logger),
		users:    NewUserService(db, &logger),
		requests: NewRequestService(db, &logger),
	}
}

func (f *fixture) user(t *testing.T, email, name string) *models.User {
	t.Helper()
	user := &models.User{Email: email, Name: name}
	require.NoError(t, f.db.CreateUser(context.Background(), user))
	return user
}

func (f *fixture) item(t *testing.T, ownerID int64, name string, available bool) *models.Item {
	t.Helper()
	item := &models.Item{Name: name, Description: name + " description", Available: available, OwnerID: ownerID}
	require.NoError(t, f.db.CreateItem(context.Background(), item))
	return item
}

func (f *fixture) booking(t *testing.T, itemID, bookerID int64, start, end time.Time, status models.BookingStatus) *models.Booking {
	t.Helper()
	booking := &models.Booking{ItemID: itemID, BookerID: bookerID, Start: start, End: end, Status: status}
	require.NoError(t, f.db.CreateBooking(context.Background(), booking))
	return booking
}

// capturedEvents subscribes to the given types and returns the collected
// event type names in arrival order.
func (f *fixture) capturedEvents(types ...string) *[]string {
	seen := &[]string{}
	for _, eventType := range types {
		f.bus.Subscribe(eventType, func(event *events.Event) error {
			*seen = append(*seen, event.Type)
			return nil
		})
	}
	return seen
}
