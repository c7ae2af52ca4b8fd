package lunisolar

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dime2015/lifekline/pkg/solartime"
)

func TestLichunOf(t *testing.T) {
	e := NewEphemeris(8)
	// 立春 falls on Feb 3-5 in the current era.
	for _, year := range []int{1990, 2000, 2024} {
		at := e.lichunOf(year)
		civil := at.In(e.Location())
		assert.Equal(t, year, civil.Year())
		assert.Equal(t, time.February, civil.Month())
		assert.InDelta(t, 4, civil.Day(), 1, "year %d", year)
	}
}

func TestEphemerisResolvePillars(t *testing.T) {
	e := NewEphemeris(8)
	ctx := context.Background()

	p, err := e.ResolvePillars(ctx, solartime.Moment{
		Year: 1990, Month: 4, Day: 20, Hour: 8, Minute: 30,
	})
	require.NoError(t, err)
	assert.Equal(t, "庚午", p.Year.String())
	assert.Equal(t, "庚辰", p.Month.String())
	assert.Equal(t, "乙卯", p.Day.String())
	assert.Equal(t, "庚辰", p.Hour.String())
}

func TestEphemerisYearChangesAtLichun(t *testing.T) {
	e := NewEphemeris(8)
	ctx := context.Background()

	// Mid January still belongs to the previous sexagenary year.
	before, err := e.ResolvePillars(ctx, solartime.Moment{Year: 1990, Month: 1, Day: 15, Hour: 12})
	require.NoError(t, err)
	assert.Equal(t, "己巳", before.Year.String())

	after, err := e.ResolvePillars(ctx, solartime.Moment{Year: 1990, Month: 2, Day: 10, Hour: 12})
	require.NoError(t, err)
	assert.Equal(t, "庚午", after.Year.String())
}

func TestEphemerisNextPrevJie(t *testing.T) {
	e := NewEphemeris(8)
	ctx := context.Background()
	m := solartime.Moment{Year: 1990, Month: 4, Day: 20, Hour: 8, Minute: 30}

	next, err := e.NextJie(ctx, m)
	require.NoError(t, err)
	assert.Equal(t, 45, next.Longitude)
	assert.Equal(t, "立夏", next.Name)
	assert.Equal(t, 5, next.At.Month)
	assert.InDelta(t, 6, next.At.Day, 1)

	prev, err := e.PrevJie(ctx, m)
	require.NoError(t, err)
	assert.Equal(t, 15, prev.Longitude)
	assert.Equal(t, "清明", prev.Name)
	assert.Equal(t, 4, prev.At.Month)
	assert.InDelta(t, 5, prev.At.Day, 1)
}

func TestEphemerisPrevIsAtOrBefore(t *testing.T) {
	e := NewEphemeris(8)
	ctx := context.Background()

	// Querying from just after a boundary must return that boundary; the
	// converse query from the boundary itself must not skip past it.
	next, err := e.NextJie(ctx, solartime.Moment{Year: 2000, Month: 3, Day: 1})
	require.NoError(t, err)

	prev, err := e.PrevJie(ctx, next.At.AddMinutes(1))
	require.NoError(t, err)
	assert.Equal(t, next.Longitude, prev.Longitude)
	// Both instants come from the same refined crossing; allow a second of
	// truncation slack.
	assert.InDelta(t,
		float64(next.At.Time(time.UTC).Unix()),
		float64(prev.At.Time(time.UTC).Unix()), 1)
}

func TestEphemerisJieOfYear(t *testing.T) {
	e := NewEphemeris(8)
	terms, err := e.JieOfYear(context.Background(), 2000)
	require.NoError(t, err)
	require.Len(t, terms, 12)

	// Chronological, each 30 longitude degrees on from the last, all named.
	for i, term := range terms {
		assert.NotEmpty(t, term.Name, "term %d", i)
		assert.Equal(t, 15, term.Longitude%30, "term %d", i)
		if i > 0 {
			assert.Equal(t, (terms[i-1].Longitude+30)%360, term.Longitude)
			assert.True(t, term.At.Time(time.UTC).After(terms[i-1].At.Time(time.UTC)))
		}
	}

	// 小寒 opens the civil year, 大雪 closes it.
	assert.Equal(t, "小寒", terms[0].Name)
	assert.Equal(t, "大雪", terms[11].Name)
}

func TestEphemerisContextCancellation(t *testing.T) {
	e := NewEphemeris(8)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	m := solartime.Moment{Year: 1990, Month: 4, Day: 20}
	_, err := e.ResolvePillars(ctx, m)
	assert.True(t, errors.Is(err, ErrUnavailable))
	_, err = e.NextJie(ctx, m)
	assert.True(t, errors.Is(err, ErrUnavailable))
	_, err = e.PrevJie(ctx, m)
	assert.True(t, errors.Is(err, ErrUnavailable))
	_, err = e.JieOfYear(ctx, 1990)
	assert.True(t, errors.Is(err, ErrUnavailable))
}

func TestEphemerisRejectsInvalidMoment(t *testing.T) {
	e := NewEphemeris(8)
	_, err := e.ResolvePillars(context.Background(), solartime.Moment{Year: 1990, Month: 2, Day: 30})
	assert.True(t, errors.Is(err, solartime.ErrInvalidMoment))
}
