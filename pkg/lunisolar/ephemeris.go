package lunisolar

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/soniakeys/meeus/v3/base"
	"github.com/soniakeys/meeus/v3/julian"
	"github.com/soniakeys/meeus/v3/solar"

	"github.com/Dime2015/lifekline/pkg/solartime"
)

// meanSolarMotion is the sun's mean apparent motion in degrees per day,
// used as the Newton-step slope when locating term instants.
const meanSolarMotion = 360.0 / 365.2422

// Ephemeris is a Provider backed by the VSOP-derived solar theory in
// soniakeys/meeus. Civil moments are interpreted in a fixed-offset zone
// supplied at construction; all ephemeris math runs in UTC.
//
// ΔT (terrestrial vs. universal time, about a minute in the current era) is
// ignored: onset arithmetic floors to whole days, well below its effect.
type Ephemeris struct {
	loc *time.Location
}

// NewEphemeris returns an ephemeris provider whose civil frame is the given
// UTC offset in hours. Fractional offsets (half-hour zones) are supported.
func NewEphemeris(utcOffsetHours float64) *Ephemeris {
	secs := int(math.Round(utcOffsetHours * 3600))
	name := fmt.Sprintf("UTC%+g", utcOffsetHours)
	return &Ephemeris{loc: time.FixedZone(name, secs)}
}

// Location returns the fixed civil zone the provider interprets moments in.
func (e *Ephemeris) Location() *time.Location {
	return e.loc
}

// apparentLongitude returns the sun's apparent ecliptic longitude in
// degrees, normalized to [0,360).
func (e *Ephemeris) apparentLongitude(t time.Time) float64 {
	jd := julian.TimeToJD(t.UTC())
	deg := solar.ApparentLongitude(base.J2000Century(jd)).Deg()
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	return deg
}

func wrap180(deg float64) float64 {
	deg = math.Mod(deg+180, 360)
	if deg < 0 {
		deg += 360
	}
	return deg - 180
}

func durationDays(days float64) time.Duration {
	return time.Duration(days * 24 * float64(time.Hour))
}

// refineCrossing locates the instant near guess at which the apparent solar
// longitude equals target degrees, by Newton iteration on the mean solar
// motion. Converges to well under a second.
func (e *Ephemeris) refineCrossing(guess time.Time, target float64) time.Time {
	for i := 0; i < 10; i++ {
		diff := wrap180(e.apparentLongitude(guess) - target)
		if math.Abs(diff) < 1e-7 {
			break
		}
		guess = guess.Add(durationDays(-diff / meanSolarMotion))
	}
	return guess
}

// jieAfter returns the instant and longitude of the first Jie strictly
// after t. Jie sit at apparent longitudes ≡ 15° (mod 30°).
func (e *Ephemeris) jieAfter(t time.Time) (time.Time, int) {
	lam := e.apparentLongitude(t)
	delta := math.Mod(15-lam, 30)
	if delta < 0 {
		delta += 30
	}
	if delta < 1e-9 {
		delta = 30
	}
	deg := (((int(math.Round(lam+delta)) / 15 * 15) % 360) + 360) % 360
	guess := t.Add(durationDays(delta / meanSolarMotion))
	return e.refineCrossing(guess, float64(deg)), deg
}

// jieBefore returns the instant and longitude of the last Jie at or
// before t.
func (e *Ephemeris) jieBefore(t time.Time) (time.Time, int) {
	lam := e.apparentLongitude(t)
	delta := math.Mod(lam-15, 30)
	if delta < 0 {
		delta += 30
	}
	deg := (((int(math.Round(lam-delta)) / 15 * 15) % 360) + 360) % 360
	guess := t.Add(durationDays(-delta / meanSolarMotion))
	return e.refineCrossing(guess, float64(deg)), deg
}

// lichunOf returns the instant of 立春 in a civil year. The scan starts on
// Jan 20, safely after 小寒 and before any possible 立春 date.
func (e *Ephemeris) lichunOf(year int) time.Time {
	start := time.Date(year, 1, 20, 0, 0, 0, 0, e.loc)
	at, _ := e.jieAfter(start)
	return at
}

func (e *Ephemeris) check(ctx context.Context, m solartime.Moment) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return m.Validate()
}

// ResolvePillars implements Provider.
func (e *Ephemeris) ResolvePillars(ctx context.Context, m solartime.Moment) (FourPillars, error) {
	if err := e.check(ctx, m); err != nil {
		return FourPillars{}, err
	}
	t := m.Time(e.loc)

	solarYear := t.Year()
	if t.Before(e.lichunOf(solarYear)) {
		solarYear--
	}
	year := yearPillar(solarYear)

	monthNo := monthNumberForLongitude(e.apparentLongitude(t))
	month := monthPillar(year.Stem, monthNo)

	day := dayPillar(t)
	hour := hourPillar(day.Stem, t.Hour())

	return FourPillars{Year: year, Month: month, Day: day, Hour: hour}, nil
}

// NextJie implements Provider.
func (e *Ephemeris) NextJie(ctx context.Context, m solartime.Moment) (Term, error) {
	if err := e.check(ctx, m); err != nil {
		return Term{}, err
	}
	at, deg := e.jieAfter(m.Time(e.loc))
	return e.term(at, deg), nil
}

// PrevJie implements Provider.
func (e *Ephemeris) PrevJie(ctx context.Context, m solartime.Moment) (Term, error) {
	if err := e.check(ctx, m); err != nil {
		return Term{}, err
	}
	at, deg := e.jieBefore(m.Time(e.loc))
	return e.term(at, deg), nil
}

// JieOfYear returns the 12 Jie whose civil instants fall within a civil
// year, in chronological order.
func (e *Ephemeris) JieOfYear(ctx context.Context, year int) ([]Term, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	terms := make([]Term, 0, 12)
	cursor := time.Date(year, 1, 1, 0, 0, 0, 0, e.loc)
	for {
		at, deg := e.jieAfter(cursor)
		if at.In(e.loc).Year() != year {
			break
		}
		terms = append(terms, e.term(at, deg))
		cursor = at.Add(24 * time.Hour)
	}
	return terms, nil
}

func (e *Ephemeris) term(at time.Time, deg int) Term {
	return Term{
		Longitude: deg,
		Name:      jieNames[deg],
		At:        solartime.FromTime(at.In(e.loc)),
	}
}
