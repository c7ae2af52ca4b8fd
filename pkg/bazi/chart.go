package bazi

import (
	"context"
	"fmt"
	"time"

	"github.com/Dime2015/lifekline/pkg/lunisolar"
	"github.com/Dime2015/lifekline/pkg/sexagenary"
	"github.com/Dime2015/lifekline/pkg/solartime"
)

// Input is one chart request. Longitude and latitude are optional; without
// a longitude no solar-time correction is applied. Latitude is accepted but
// unused (hemisphere adjustment is a documented non-goal). A nil
// UTCOffsetHours means the default of +8.
type Input struct {
	Moment         solartime.Moment
	Gender         Gender
	Longitude      *float64
	Latitude       *float64
	UTCOffsetHours *float64
}

// Chart is a complete Four Pillars computation result.
type Chart struct {
	Corrected   solartime.Moment      `json:"corrected_moment"`
	Pillars     lunisolar.FourPillars `json:"pillars"`
	Direction   sexagenary.Direction  `json:"-"`
	FirstLuck   sexagenary.Pillar     `json:"first_luck_pillar"`
	Boundary    lunisolar.Term        `json:"boundary"`
	Onset       LuckOnset             `json:"onset"`
	StartingAge int                   `json:"starting_age"`
}

// Compute derives a full chart. The provider call is the only suspension
// point; everything else is pure arithmetic. Provider failures surface
// unchanged as lunisolar.ErrUnavailable; no partial chart is ever returned.
func Compute(ctx context.Context, provider lunisolar.Provider, in Input) (*Chart, error) {
	if err := in.Moment.Validate(); err != nil {
		return nil, err
	}

	offset := solartime.DefaultUTCOffsetHours
	if in.UTCOffsetHours != nil {
		offset = *in.UTCOffsetHours
	}
	corrected := solartime.Correct(in.Moment, solartime.GeoCorrection{
		Longitude:      in.Longitude,
		Latitude:       in.Latitude,
		UTCOffsetHours: offset,
	})

	pillars, err := provider.ResolvePillars(ctx, corrected)
	if err != nil {
		return nil, fmt.Errorf("resolving pillars: %w", err)
	}

	dir := LuckDirection(pillars.Year.Stem, in.Gender)

	// The first luck pillar is derived analytically: one cycle step from the
	// month pillar in the resolved direction. Never taken from a
	// provider-side Da Yun list.
	monthIdx, err := pillars.Month.Index()
	if err != nil {
		return nil, fmt.Errorf("month pillar: %w", err)
	}
	firstLuck := sexagenary.At(monthIdx.Step(dir))

	var boundary lunisolar.Term
	if dir == sexagenary.Forward {
		boundary, err = provider.NextJie(ctx, corrected)
	} else {
		boundary, err = provider.PrevJie(ctx, corrected)
	}
	if err != nil {
		return nil, fmt.Errorf("locating seasonal boundary: %w", err)
	}

	onset := OnsetFromMinutes(elapsedMinutes(corrected, boundary.At, dir))

	return &Chart{
		Corrected:   corrected,
		Pillars:     pillars,
		Direction:   dir,
		FirstLuck:   firstLuck,
		Boundary:    boundary,
		Onset:       onset,
		StartingAge: onset.StartingAge(),
	}, nil
}

// elapsedMinutes measures the civil-time distance between the corrected
// moment and the boundary. Selecting next-vs-previous by direction makes
// the signed difference non-negative by construction; the abs guards only
// against sub-second refinement residue.
func elapsedMinutes(m, boundary solartime.Moment, dir sexagenary.Direction) float64 {
	d := boundary.Time(time.UTC).Sub(m.Time(time.UTC))
	if dir == sexagenary.Backward {
		d = -d
	}
	if d < 0 {
		d = 0
	}
	return d.Minutes()
}
