package export

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"sharebox/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestBuildWorkbook(t *testing.T) {
	start := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	views := []models.BookingView{
		{
			ID:     1,
			Start:  start,
			End:    start.Add(2 * time.Hour),
			Status: models.StatusApproved,
			Booker: models.User{ID: 2, Name: "Booker"},
			Item:   models.Item{ID: 3, Name: "Drill"},
		},
		{
			ID:     2,
			Start:  start.Add(24 * time.Hour),
			End:    start.Add(26 * time.Hour),
			Status: models.StatusWaiting,
			Booker: models.User{ID: 4, Name: "Other"},
			Item:   models.Item{ID: 3, Name: "Drill"},
		},
	}

	f, err := BuildWorkbook(views)
	require.NoError(t, err)
	defer f.Close()

	header, err := f.GetCellValue(sheetName, "A1")
	require.NoError(t, err)
	assert.Equal(t, "ID", header)

	itemCell, err := f.GetCellValue(sheetName, "B2")
	require.NoError(t, err)
	assert.Equal(t, "Drill", itemCell)

	statusCell, err := f.GetCellValue(sheetName, "F3")
	require.NoError(t, err)
	assert.Equal(t, "WAITING", statusCell)

	startCell, err := f.GetCellValue(sheetName, "D2")
	require.NoError(t, err)
	assert.Equal(t, "2026-08-01T10:00:00Z", startCell)
}

func TestBuildWorkbook_Empty(t *testing.T) {
	f, err := BuildWorkbook(nil)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestWriteWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bookings.xlsx")

	err := WriteWorkbook([]models.BookingView{{ID: 1, Status: models.StatusWaiting}}, path)
	require.NoError(t, err)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.NotZero(t, info.Size())

	reopened, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer reopened.Close()

	id, err := reopened.GetCellValue(sheetName, "A2")
	require.NoError(t, err)
	assert.Equal(t, "1", id)
}
