package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStateFilter(t *testing.T) {
	tests := []struct {
		raw  string
		want StateFilter
	}{
		{"", FilterAll},
		{"ALL", FilterAll},
		{"CURRENT", FilterCurrent},
		{"PAST", FilterPast},
		{"FUTURE", FilterFuture},
		{"WAITING", FilterByStatus(StatusWaiting)},
		{"APPROVED", FilterByStatus(StatusApproved)},
		{"REJECTED", FilterByStatus(StatusRejected)},
		{"CANCELED", FilterByStatus(StatusCanceled)},
	}

	for _, tt := range tests {
		t.Run("raw="+tt.raw, func(t *testing.T) {
			got, err := ParseStateFilter(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseStateFilter_UnknownIsHardError(t *testing.T) {
	for _, raw := range []string{"UNSUPPORTED_STATUS", "waiting", "all", "garbage"} {
		_, err := ParseStateFilter(raw)
		assert.ErrorIs(t, err, ErrUnsupportedState, "raw=%s", raw)
	}
}

func TestStateFilter_Status(t *testing.T) {
	status, ok := FilterByStatus(StatusApproved).Status()
	assert.True(t, ok)
	assert.Equal(t, StatusApproved, status)

	_, ok = FilterCurrent.Status()
	assert.False(t, ok)
}

func TestStateFilter_String(t *testing.T) {
	assert.Equal(t, "ALL", FilterAll.String())
	assert.Equal(t, "CURRENT", FilterCurrent.String())
	assert.Equal(t, "WAITING", FilterByStatus(StatusWaiting).String())
}

func TestBookingStatus_Valid(t *testing.T) {
	for _, s := range []BookingStatus{StatusWaiting, StatusApproved, StatusRejected, StatusCanceled} {
		assert.True(t, s.Valid(), "status=%s", s)
	}
	assert.False(t, BookingStatus("PENDING").Valid())
	assert.False(t, BookingStatus("").Valid())
}
