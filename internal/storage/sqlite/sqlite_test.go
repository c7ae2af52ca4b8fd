package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dime2015/lifekline/internal/types"
)

func testRecord() types.ChartRecord {
	lon := 116.4
	return types.ChartRecord{
		Timestamp:       time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC),
		RequestID:       "req-1",
		BirthMoment:     "1990-04-20 08:30:00",
		CorrectedMoment: "1990-04-20 08:17:17",
		Gender:          "male",
		Longitude:       &lon,
		UTCOffsetHours:  8,
		YearPillar:      "庚午",
		MonthPillar:     "庚辰",
		DayPillar:       "乙卯",
		HourPillar:      "庚辰",
		Direction:       "forward",
		FirstLuckPillar: "辛巳",
		OnsetYears:      6,
		OnsetMonths:     0,
		OnsetDays:       0,
		StartingAge:     6,
	}
}

func TestStoreRecord(t *testing.T) {
	s, err := New(context.Background(), filepath.Join(t.TempDir(), "charts.db"))
	require.NoError(t, err)
	defer s.db.Close()

	require.NoError(t, s.StoreRecord(testRecord()))

	// A record without a longitude stores NULL.
	r := testRecord()
	r.RequestID = "req-2"
	r.Longitude = nil
	require.NoError(t, s.StoreRecord(r))

	var count int
	require.NoError(t, s.db.QueryRow(`SELECT COUNT(*) FROM chart_records`).Scan(&count))
	assert.Equal(t, 2, count)

	var year, direction string
	var lon *float64
	require.NoError(t, s.db.QueryRow(
		`SELECT year_pillar, direction, longitude FROM chart_records WHERE request_id = ?`,
		"req-1").Scan(&year, &direction, &lon))
	assert.Equal(t, "庚午", year)
	assert.Equal(t, "forward", direction)
	require.NotNil(t, lon)
	assert.InDelta(t, 116.4, *lon, 1e-9)

	require.NoError(t, s.db.QueryRow(
		`SELECT longitude FROM chart_records WHERE request_id = ?`,
		"req-2").Scan(&lon))
	assert.Nil(t, lon)
}
