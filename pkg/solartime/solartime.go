// Package solartime corrects civil clock readings to apparent local solar
// time. The correction combines the longitude offset from the time zone's
// reference meridian (4 minutes per degree) with the equation of time, the
// seasonal difference between apparent and mean solar time.
package solartime

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// ErrInvalidMoment is returned for malformed or out-of-range date/time input.
var ErrInvalidMoment = errors.New("invalid moment")

// DefaultUTCOffsetHours is the reference offset used when a caller does not
// supply one. China Standard Time, the usual frame for these charts.
const DefaultUTCOffsetHours = 8.0

// Moment is a civil date and time. It carries no zone; the zone it is read
// in is a property of whoever interprets it.
type Moment struct {
	Year   int `json:"year"`
	Month  int `json:"month"`
	Day    int `json:"day"`
	Hour   int `json:"hour"`
	Minute int `json:"minute"`
	Second int `json:"second"`
}

// GeoCorrection carries the optional geographic inputs for solar-time
// correction. Latitude is accepted for interface compatibility but is not
// used: the ancestor system's hemisphere adjustment was deliberately
// disabled and is not reimplemented here.
type GeoCorrection struct {
	Longitude      *float64
	Latitude       *float64
	UTCOffsetHours float64
}

// Validate checks the field ranges, including day-of-month validity under
// standard Gregorian rules.
func (m Moment) Validate() error {
	if m.Month < 1 || m.Month > 12 {
		return fmt.Errorf("%w: month %d", ErrInvalidMoment, m.Month)
	}
	if m.Hour < 0 || m.Hour > 23 {
		return fmt.Errorf("%w: hour %d", ErrInvalidMoment, m.Hour)
	}
	if m.Minute < 0 || m.Minute > 59 {
		return fmt.Errorf("%w: minute %d", ErrInvalidMoment, m.Minute)
	}
	if m.Second < 0 || m.Second > 59 {
		return fmt.Errorf("%w: second %d", ErrInvalidMoment, m.Second)
	}
	if m.Day < 1 || m.Day > daysInMonth(m.Year, m.Month) {
		return fmt.Errorf("%w: day %d of %d-%02d", ErrInvalidMoment, m.Day, m.Year, m.Month)
	}
	return nil
}

func daysInMonth(year, month int) int {
	// Day 0 of the following month normalizes to the last day of this one.
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// Time renders the moment as a time.Time in the given location.
func (m Moment) Time(loc *time.Location) time.Time {
	return time.Date(m.Year, time.Month(m.Month), m.Day, m.Hour, m.Minute, m.Second, 0, loc)
}

// FromTime builds a Moment from the civil fields of t, in t's location.
func FromTime(t time.Time) Moment {
	return Moment{
		Year:   t.Year(),
		Month:  int(t.Month()),
		Day:    t.Day(),
		Hour:   t.Hour(),
		Minute: t.Minute(),
		Second: t.Second(),
	}
}

// Parse builds a Moment from "YYYY-MM-DD" and "HH:MM" (or "HH:MM:SS")
// strings, surfacing ErrInvalidMoment for anything unparsable.
func Parse(dateStr, timeStr string) (Moment, error) {
	d, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		return Moment{}, fmt.Errorf("%w: date %q", ErrInvalidMoment, dateStr)
	}
	t, err := time.Parse("15:04:05", timeStr)
	if err != nil {
		t, err = time.Parse("15:04", timeStr)
		if err != nil {
			return Moment{}, fmt.Errorf("%w: time %q", ErrInvalidMoment, timeStr)
		}
	}
	return Moment{
		Year:   d.Year(),
		Month:  int(d.Month()),
		Day:    d.Day(),
		Hour:   t.Hour(),
		Minute: t.Minute(),
		Second: t.Second(),
	}, nil
}

func (m Moment) String() string {
	return fmt.Sprintf("%04d-%02d-%02d %02d:%02d:%02d",
		m.Year, m.Month, m.Day, m.Hour, m.Minute, m.Second)
}

// DayOfYear returns the 1-indexed day of year (Jan 1 = 1).
func (m Moment) DayOfYear() int {
	return m.Time(time.UTC).YearDay()
}

// AddMinutes shifts the moment by a possibly negative, possibly fractional
// number of minutes, normalizing overflow into the hour/day/month/year
// fields under standard Gregorian rollover rules. Sub-second residue is
// rounded to the nearest second.
func (m Moment) AddMinutes(minutes float64) Moment {
	secs := int(math.Round(minutes * 60))
	t := time.Date(m.Year, time.Month(m.Month), m.Day, m.Hour, m.Minute, m.Second+secs, 0, time.UTC)
	return FromTime(t)
}

// EquationOfTime approximates the equation of time in minutes for a
// 1-indexed day of year. Positive values mean the apparent sun runs ahead
// of the mean sun. The approximation stays within roughly ±20 minutes.
func EquationOfTime(dayOfYear int) float64 {
	b := 2 * math.Pi * float64(dayOfYear-81) / 365.0
	return 9.87*math.Sin(2*b) - 7.53*math.Cos(b) - 1.5*math.Sin(b)
}

// Correct adjusts a civil moment to apparent local solar time. Without a
// longitude the function is a pure pass-through. Longitudes outside the
// physically meaningful range are not validated; that is the caller's
// responsibility.
func Correct(m Moment, geo GeoCorrection) Moment {
	if geo.Longitude == nil {
		return m
	}
	referenceMeridian := geo.UTCOffsetHours * 15.0
	longitudeMinutes := (*geo.Longitude - referenceMeridian) * 4.0
	eot := EquationOfTime(m.DayOfYear())
	return m.AddMinutes(longitudeMinutes + eot)
}
