package domain

import (
	"context"
	"time"

	"sharebox/internal/models"
)

// Store is the durable storage contract. internal/database implements it on
// sqlite; tests may supply any in-memory fake with the same semantics.
type Store interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, id int64) (*models.User, error)
	UpdateUser(ctx context.Context, user *models.User) error
	DeleteUser(ctx context.Context, id int64) error
	AllUsers(ctx context.Context) ([]*models.User, error)
	EmailTaken(ctx context.Context, email string, excludeID int64) (bool, error)
	UsersByIDs(ctx context.Context, ids []int64) (map[int64]models.User, error)

	CreateItem(ctx context.Context, item *models.Item) error
	GetItem(ctx context.Context, id int64) (*models.Item, error)
	UpdateItem(ctx context.Context, item *models.Item) error
	DeleteItem(ctx context.Context, id int64) error
	ItemsByOwner(ctx context.Context, ownerID int64) ([]*models.Item, error)
	SearchItems(ctx context.Context, text string) ([]*models.Item, error)
	ItemsByRequest(ctx context.Context, requestID int64) ([]*models.Item, error)
	ItemsByIDs(ctx context.Context, ids []int64) (map[int64]models.Item, error)

	CreateBooking(ctx context.Context, booking *models.Booking) error
	GetBooking(ctx context.Context, id int64) (*models.Booking, error)
	UpdateBookingStatusFrom(ctx context.Context, id int64, from, to models.BookingStatus) error
	AllBookings(ctx context.Context) ([]*models.Booking, error)
	BookingsByStatus(ctx context.Context, status models.BookingStatus) ([]*models.Booking, error)
	BookingsEndingBefore(ctx context.Context, t time.Time) ([]*models.Booking, error)
	BookingsStraddling(ctx context.Context, t time.Time) ([]*models.Booking, error)
	BookingsStartingAfter(ctx context.Context, t time.Time) ([]*models.Booking, error)
	LastBookingForItem(ctx context.Context, itemID int64, now time.Time) (*models.Booking, error)
	NextBookingForItem(ctx context.Context, itemID int64, now time.Time) (*models.Booking, error)
	HasEligibleBooking(ctx context.Context, bookerID, itemID int64, at time.Time) (bool, error)

	CreateComment(ctx context.Context, comment *models.Comment) error
	CommentsByItem(ctx context.Context, itemID int64) ([]models.Comment, error)

	CreateRequest(ctx context.Context, request *models.Request) error
	GetRequest(ctx context.Context, id int64) (*models.Request, error)
	RequestsByCreator(ctx context.Context, creatorID int64) ([]*models.Request, error)
	RequestsForOthers(ctx context.Context, creatorID int64, offset, limit int) ([]*models.Request, error)
}

// ExportQueue is the durable task queue behind the export worker.
type ExportQueue interface {
	CreateExportTask(ctx context.Context, task *models.ExportTask) error
	PendingExportTasks(ctx context.Context, limit int) ([]models.ExportTask, error)
	UpdateExportTaskStatus(ctx context.Context, id int64, status, errMsg string, nextRetryAt *time.Time) error
}

// RateLimiter answers whether a user may perform one more request within the
// window. Implementations: redis-backed, in-memory, and a failover wrapper.
type RateLimiter interface {
	Allow(ctx context.Context, userID int64, limit int, window time.Duration) (bool, error)
}

type EventPublisher interface {
	PublishJSON(eventType string, payload interface{}) error
}

type BookingService interface {
	Create(ctx context.Context, bookerID int64, req models.BookingRequest) (*models.BookingView, error)
	Approve(ctx context.Context, ownerID, bookingID int64, approved bool) (*models.BookingView, error)
	GetByID(ctx context.Context, viewerID, bookingID int64) (*models.BookingView, error)
	List(ctx context.Context, viewerID int64, role models.ListRole, filter models.StateFilter, from, size int) ([]models.BookingView, error)
}

type ItemService interface {
	Add(ctx context.Context, ownerID int64, item models.Item) (*models.Item, error)
	Patch(ctx context.Context, userID, itemID int64, patch models.ItemPatch) (*models.ItemView, error)
	Delete(ctx context.Context, userID, itemID int64) error
	Get(ctx context.Context, viewerID, itemID int64) (*models.ItemView, error)
	AllByOwner(ctx context.Context, ownerID int64) ([]models.ItemView, error)
	Search(ctx context.Context, text string) ([]models.ItemView, error)
	AddComment(ctx context.Context, userID, itemID int64, text string) (*models.Comment, error)
}

type UserService interface {
	Add(ctx context.Context, user models.User) (*models.User, error)
	Patch(ctx context.Context, id int64, patch models.UserPatch) (*models.User, error)
	Get(ctx context.Context, id int64) (*models.User, error)
	Delete(ctx context.Context, id int64) error
	All(ctx context.Context) ([]*models.User, error)
}

type RequestService interface {
	Add(ctx context.Context, userID int64, description string) (*models.RequestView, error)
	AllOwn(ctx context.Context, userID int64) ([]models.RequestView, error)
	AllOthers(ctx context.Context, userID int64, from, size int) ([]models.RequestView, error)
	Get(ctx context.Context, userID, requestID int64) (*models.RequestView, error)
}
