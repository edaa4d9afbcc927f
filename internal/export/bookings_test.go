package export

import (
	"bytes"
	"testing"
	"time"

	"structiv/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestWriteBookings(t *testing.T) {
	created := time.Date(2025, 1, 2, 8, 30, 0, 0, time.UTC)
	bookings := []*models.BookingView{
		{
			Booking: models.Booking{
				ID: 7, UserID: 2, UnitID: 9, BookingDate: "2025-01-01", MeetingDate: "2025-01-12",
				MeetingTime: "15:00", Status: models.StatusApproved, AdminMessage: "moved", CreatedAt: created,
			},
			UnitName: "Unit 9", UnitPrice: 1000, UnitSize: 40,
			FirstName: "Ana", LastName: "Cruz", Email: "ana@example.com",
		},
		{
			Booking:  models.Booking{ID: 8, Status: models.StatusPending, CreatedAt: created},
			UnitName: "Unit 3",
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteBookings(&buf, bookings, created))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetName}, f.GetSheetList())

	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, "Bookings as of 2025-01-02 08:30", rows[0][0])
	assert.Equal(t, headers, rows[1])

	assert.Equal(t, "7", rows[2][0])
	assert.Equal(t, "Unit 9", rows[2][1])
	assert.Equal(t, "1000", rows[2][2])
	assert.Equal(t, "Ana Cruz", rows[2][4])
	assert.Equal(t, "2025-01-12", rows[2][8])
	assert.Equal(t, models.StatusApproved, rows[2][10])
	assert.Equal(t, "moved", rows[2][11])

	assert.Equal(t, "Unit 3", rows[3][1])
	assert.Equal(t, models.StatusPending, rows[3][10])
}

func TestWriteBookings_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteBookings(&buf, nil, time.Now()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "bookings_2025-01-02.xlsx", FileName(time.Date(2025, 1, 2, 23, 0, 0, 0, time.UTC)))
}
