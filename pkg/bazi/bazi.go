// Package bazi computes Four Pillars charts and the first decade-luck
// transition: the four Stem-Branch pillars of a corrected birth moment, the
// luck-cycle direction, the first luck pillar, and its onset age.
package bazi

import (
	"fmt"
	"math"

	"github.com/Dime2015/lifekline/pkg/sexagenary"
)

// Gender selects the luck-cycle direction together with the year-stem
// polarity. It carries no other semantics.
type Gender int

const (
	Male Gender = iota
	Female
)

func (g Gender) String() string {
	if g == Female {
		return "female"
	}
	return "male"
}

// ParseGender accepts "male"/"m" and "female"/"f", case-insensitively
// via the lowered forms used by the API surface.
func ParseGender(s string) (Gender, error) {
	switch s {
	case "male", "m", "M", "Male":
		return Male, nil
	case "female", "f", "F", "Female":
		return Female, nil
	}
	return Male, fmt.Errorf("unknown gender %q", s)
}

// LuckDirection resolves the luck-cycle direction from the year pillar's
// stem and gender: Yang-year males and Yin-year females run forward,
// everyone else backward. Total over all (stem, gender) pairs; flipping the
// gender always flips the direction.
func LuckDirection(yearStem int, g Gender) sexagenary.Direction {
	if (g == Male) == sexagenary.IsYangStem(yearStem) {
		return sexagenary.Forward
	}
	return sexagenary.Backward
}

// LuckOnset is the time from birth to the first luck-cycle transition, in
// the traditional 3-days-per-year scale.
type LuckOnset struct {
	Years  int `json:"years"`
	Months int `json:"months"`
	Days   int `json:"days"`
}

// OnsetFromMinutes converts the elapsed time to the relevant Jie boundary
// into a luck onset. The scale is fixed: 3 elapsed days count as one year,
// so a leftover day is 4 months and an hour of the fractional day is 5
// days. All divisions floor; do not round.
func OnsetFromMinutes(totalMinutes float64) LuckOnset {
	if totalMinutes < 0 {
		totalMinutes = 0
	}
	days := int(totalMinutes) / 1440
	hours := float64(int(totalMinutes)%1440) / 60.0

	years := days / 3
	months := (days % 3) * 4
	daysOut := int(math.Floor(hours * 5))

	if daysOut >= 30 {
		months += daysOut / 30
		daysOut %= 30
	}
	if months >= 12 {
		years += months / 12
		months %= 12
	}
	return LuckOnset{Years: years, Months: months, Days: daysOut}
}

// StartingAge is the whole-year onset age surfaced downstream, floored at 1.
// Months and days are deliberately discarded here; they appear only in the
// non-authoritative String form.
func (o LuckOnset) StartingAge() int {
	if o.Years < 1 {
		return 1
	}
	return o.Years
}

// String renders a human-readable description of the full onset duration.
// Display-only; the authoritative figure is StartingAge.
func (o LuckOnset) String() string {
	return fmt.Sprintf("%d years %d months %d days", o.Years, o.Months, o.Days)
}
