package service

import (
	"testing"
	"time"

	"sharebox/internal/database"
	"sharebox/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestValidateNewBooking(t *testing.T) {
	now := time.Now()
	owner := &models.User{ID: 1, Email: "owner@example.com", Name: "Owner"}
	booker := &models.User{ID: 2, Email: "booker@example.com", Name: "Booker"}
	item := &models.Item{ID: 10, Name: "Drill", Available: true, OwnerID: owner.ID}
	unavailable := &models.Item{ID: 11, Name: "Broken", Available: false, OwnerID: owner.ID}

	validReq := models.BookingRequest{ItemID: item.ID, Start: now.Add(time.Hour), End: now.Add(2 * time.Hour)}

	tests := []struct {
		name    string
		req     models.BookingRequest
		item    *models.Item
		booker  *models.User
		wantErr error
	}{
		{
			name:    "valid booking passes",
			req:     validReq,
			item:    item,
			booker:  booker,
			wantErr: nil,
		},
		{
			name:    "missing item checked before missing user",
			req:     validReq,
			item:    nil,
			booker:  nil,
			wantErr: database.ErrItemNotFound,
		},
		{
			name:    "missing user",
			req:     validReq,
			item:    item,
			booker:  nil,
			wantErr: database.ErrUserNotFound,
		},
		{
			name:    "owner cannot book own item",
			req:     validReq,
			item:    item,
			booker:  owner,
			wantErr: ErrSelfBooking,
		},
		{
			name:    "self-booking checked before availability",
			req:     validReq,
			item:    unavailable,
			booker:  owner,
			wantErr: ErrSelfBooking,
		},
		{
			name:    "unavailable item",
			req:     validReq,
			item:    unavailable,
			booker:  booker,
			wantErr: ErrItemUnavailable,
		},
		{
			name:    "zero duration",
			req:     models.BookingRequest{ItemID: item.ID, Start: now, End: now},
			item:    item,
			booker:  booker,
			wantErr: ErrInvalidDuration,
		},
		{
			name:    "end before start",
			req:     models.BookingRequest{ItemID: item.ID, Start: now.Add(time.Hour), End: now},
			item:    item,
			booker:  booker,
			wantErr: ErrInvalidDuration,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateNewBooking(tt.req, tt.item, tt.booker)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}
