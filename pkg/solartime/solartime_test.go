package solartime

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(f float64) *float64 { return &f }

func TestValidate(t *testing.T) {
	valid := Moment{Year: 1990, Month: 4, Day: 20, Hour: 8, Minute: 30}
	require.NoError(t, valid.Validate())

	cases := []struct {
		name string
		m    Moment
	}{
		{"month zero", Moment{Year: 1990, Month: 0, Day: 1}},
		{"month 13", Moment{Year: 1990, Month: 13, Day: 1}},
		{"day zero", Moment{Year: 1990, Month: 4, Day: 0}},
		{"apr 31", Moment{Year: 1990, Month: 4, Day: 31}},
		{"feb 29 non-leap", Moment{Year: 1990, Month: 2, Day: 29}},
		{"hour 24", Moment{Year: 1990, Month: 4, Day: 20, Hour: 24}},
		{"minute 60", Moment{Year: 1990, Month: 4, Day: 20, Minute: 60}},
		{"second 60", Moment{Year: 1990, Month: 4, Day: 20, Second: 60}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.m.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidMoment))
		})
	}

	// Leap-year Feb 29 is fine.
	require.NoError(t, Moment{Year: 2000, Month: 2, Day: 29}.Validate())
}

func TestParse(t *testing.T) {
	m, err := Parse("1990-04-20", "08:30")
	require.NoError(t, err)
	assert.Equal(t, Moment{Year: 1990, Month: 4, Day: 20, Hour: 8, Minute: 30}, m)

	m, err = Parse("2024-12-31", "23:59:59")
	require.NoError(t, err)
	assert.Equal(t, 59, m.Second)

	_, err = Parse("1990/04/20", "08:30")
	assert.True(t, errors.Is(err, ErrInvalidMoment))

	_, err = Parse("1990-04-20", "8.30")
	assert.True(t, errors.Is(err, ErrInvalidMoment))
}

func TestString(t *testing.T) {
	m := Moment{Year: 604, Month: 2, Day: 5, Hour: 8, Minute: 3, Second: 0}
	assert.Equal(t, "0604-02-05 08:03:00", m.String())
}

func TestAddMinutes(t *testing.T) {
	m := Moment{Year: 1990, Month: 4, Day: 20, Hour: 8, Minute: 30}

	assert.Equal(t, m, m.AddMinutes(0))

	// Forward across midnight.
	late := Moment{Year: 1990, Month: 12, Day: 31, Hour: 23, Minute: 50}
	got := late.AddMinutes(20)
	assert.Equal(t, Moment{Year: 1991, Month: 1, Day: 1, Hour: 0, Minute: 10}, got)

	// Backward across midnight.
	early := Moment{Year: 1990, Month: 3, Day: 1, Hour: 0, Minute: 5}
	got = early.AddMinutes(-10)
	assert.Equal(t, Moment{Year: 1990, Month: 2, Day: 28, Hour: 23, Minute: 55}, got)

	// Fractional minutes round to whole seconds.
	got = m.AddMinutes(1.5)
	assert.Equal(t, Moment{Year: 1990, Month: 4, Day: 20, Hour: 8, Minute: 31, Second: 30}, got)
}

func TestDayOfYear(t *testing.T) {
	assert.Equal(t, 1, Moment{Year: 1990, Month: 1, Day: 1}.DayOfYear())
	assert.Equal(t, 110, Moment{Year: 1990, Month: 4, Day: 20}.DayOfYear())
	assert.Equal(t, 366, Moment{Year: 2000, Month: 12, Day: 31}.DayOfYear())
}

func TestEquationOfTimeBounds(t *testing.T) {
	for d := 1; d <= 366; d++ {
		eot := EquationOfTime(d)
		assert.Less(t, math.Abs(eot), 20.0, "day %d", d)
	}

	// Adjacent days never jump by more than a fraction of a minute.
	prev := EquationOfTime(1)
	for d := 2; d <= 366; d++ {
		cur := EquationOfTime(d)
		assert.Less(t, math.Abs(cur-prev), 0.6, "day %d", d)
		prev = cur
	}
}

func TestEquationOfTimeSeasons(t *testing.T) {
	// Mid February the sun runs well behind the mean sun; early November
	// well ahead.
	assert.Negative(t, EquationOfTime(45))
	assert.Positive(t, EquationOfTime(307))
}

func TestCorrectWithoutLongitudeIsIdentity(t *testing.T) {
	m := Moment{Year: 1990, Month: 4, Day: 20, Hour: 8, Minute: 30}
	got := Correct(m, GeoCorrection{UTCOffsetHours: 8})
	assert.Equal(t, m, got)
}

func TestCorrectAppliesLongitudeAndEOT(t *testing.T) {
	m := Moment{Year: 1990, Month: 4, Day: 20, Hour: 8, Minute: 30}

	// On the reference meridian only the equation of time applies.
	got := Correct(m, GeoCorrection{Longitude: ptr(120.0), UTCOffsetHours: 8})
	want := m.AddMinutes(EquationOfTime(110))
	assert.Equal(t, want, got)

	// Beijing sits about 3.5 degrees west of the 120E reference meridian,
	// so the longitude term pulls the clock back about 14 minutes.
	got = Correct(m, GeoCorrection{Longitude: ptr(116.4), UTCOffsetHours: 8})
	want = m.AddMinutes((116.4-120.0)*4.0 + EquationOfTime(110))
	assert.Equal(t, want, got)
	assert.Less(t, got.Minute, m.Minute)
}

func TestFromTimeRoundTrip(t *testing.T) {
	m := Moment{Year: 2024, Month: 2, Day: 29, Hour: 23, Minute: 59, Second: 58}
	assert.Equal(t, m, FromTime(m.Time(time.UTC)))
}
