package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"recordbook/internal/model"
)

func TestWrite(t *testing.T) {
	records := []model.Record{
		{
			FullName:       "John Doe",
			Amount:         decimal.RequireFromString("10.50"),
			PhoneNumber:    "08123456789",
			ProfilePicture: "abc",
			DateSubmitted:  time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC),
		},
		{
			FullName:      "Jane Smith",
			Amount:        decimal.RequireFromString("3"),
			PhoneNumber:   "09012345678",
			DateSubmitted: time.Date(2025, 3, 2, 10, 0, 0, 0, time.UTC),
		},
	}

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, records))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetName}, f.GetSheetList())
	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, Columns, rows[0])
	assert.Equal(t, []string{"John Doe", "10.5", "08123456789", "/pictures/abc", "2025-03-01T09:30:00.000Z"}, rows[1])
	assert.Equal(t, "Jane Smith", rows[2][0])
	assert.Equal(t, "09012345678", rows[2][2])
}

func TestWrite_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, nil))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, Columns, rows[0])
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "filtered-records.xlsx", FileName("filtered-records"))
}
