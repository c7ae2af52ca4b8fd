package lunisolar

import (
	"time"

	"github.com/Dime2015/lifekline/pkg/sexagenary"
)

// Pillar arithmetic shared by both providers. The sect is fixed:
//
//   - The sexagenary year begins at 立春, not at the civil new year.
//   - Months are delimited by Jie; month 1 (寅) opens at 立春.
//   - The day pillar changes at civil midnight. 23:00 opens the next Zi
//     hour, but the day pillar holds until 00:00.
//   - Month stems follow the Five Tigers rule, hour stems the Five Rats rule.

// dayAnchor: 2000-01-01 was a 戊午 day (cycle index 54). Cross-checked
// against 1949-10-01 = 甲子 (index 0), 18354 days earlier.
var dayAnchor = time.Date(2000, 1, 1, 12, 0, 0, 0, time.UTC)

const dayAnchorIndex = 54

// yearPillar returns the pillar of a solar year (the year in effect from
// that civil year's 立春). 1984 opened a 甲子 year.
func yearPillar(solarYear int) sexagenary.Pillar {
	n := (((solarYear - 4) % 60) + 60) % 60
	return sexagenary.At(sexagenary.Index(n))
}

// monthNumberForLongitude maps an apparent solar longitude in degrees to the
// 1-based solar month number: [315,345) → 1 (寅), [345,15) → 2, and so on.
func monthNumberForLongitude(longitude float64) int {
	d := longitude - 315.0
	for d < 0 {
		d += 360
	}
	for d >= 360 {
		d -= 360
	}
	return int(d/30.0) + 1
}

// monthPillar derives the month pillar from the year stem and the 1-based
// solar month number. The Five Tigers rule fixes the stem of month 1 from
// the year stem; branches start at 寅 for month 1.
func monthPillar(yearStem, monthNumber int) sexagenary.Pillar {
	stem := ((yearStem%5)*2 + 2 + (monthNumber - 1)) % 10
	branch := (monthNumber + 1) % 12
	return sexagenary.Pillar{Stem: stem, Branch: branch}
}

// dayPillar returns the pillar of the civil day containing t.
func dayPillar(t time.Time) sexagenary.Pillar {
	noon := time.Date(t.Year(), t.Month(), t.Day(), 12, 0, 0, 0, time.UTC)
	days := int(noon.Sub(dayAnchor).Hours() / 24)
	n := (((dayAnchorIndex + days) % 60) + 60) % 60
	return sexagenary.At(sexagenary.Index(n))
}

// hourPillar derives the hour pillar from the day stem and the civil hour.
// Each branch spans two hours; 23:00-00:59 is 子. The Five Rats rule fixes
// the stem of the 子 hour from the day stem.
func hourPillar(dayStem, hour int) sexagenary.Pillar {
	branch := ((hour + 1) / 2) % 12
	stem := ((dayStem%5)*2 + branch) % 10
	return sexagenary.Pillar{Stem: stem, Branch: branch}
}
