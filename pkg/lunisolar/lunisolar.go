// Package lunisolar defines the calendar-provider capability the chart core
// depends on, plus two implementations of it: an astronomical ephemeris
// (ephemeris.go) and a precomputed solar-term table (table.go).
//
// A provider answers two questions about a civil moment: which four
// Stem-Branch pillars label it, and where the nearest major seasonal
// boundaries (Jie) fall. Only the 12 Jie terms are exposed; the interleaved
// mid-term Qi boundaries play no role in luck-cycle onset and are never
// returned.
package lunisolar

import (
	"context"
	"errors"

	"github.com/Dime2015/lifekline/pkg/sexagenary"
	"github.com/Dime2015/lifekline/pkg/solartime"
)

// ErrUnavailable is returned when a provider cannot answer: missing or
// corrupt table data, a query outside the covered range, or a cancelled
// context. The core never retries and never substitutes a default pillar.
var ErrUnavailable = errors.New("lunisolar calendar provider unavailable")

// FourPillars are the year, month, day and hour pillars of one moment.
type FourPillars struct {
	Year  sexagenary.Pillar `json:"year"`
	Month sexagenary.Pillar `json:"month"`
	Day   sexagenary.Pillar `json:"day"`
	Hour  sexagenary.Pillar `json:"hour"`
}

// Term is one major solar-term (Jie) boundary: the apparent solar longitude
// it corresponds to, its traditional name, and its civil timestamp in the
// provider's reference zone.
type Term struct {
	Longitude int              `json:"longitude"`
	Name      string           `json:"name"`
	At        solartime.Moment `json:"at"`
}

// Provider is the lunisolar calendar capability. Implementations must be
// deterministic: identical input always yields identical pillars and
// boundary instants.
type Provider interface {
	// ResolvePillars returns the four pillars labeling a civil moment.
	ResolvePillars(ctx context.Context, m solartime.Moment) (FourPillars, error)
	// NextJie returns the first Jie boundary strictly after the moment.
	NextJie(ctx context.Context, m solartime.Moment) (Term, error)
	// PrevJie returns the last Jie boundary at or before the moment.
	PrevJie(ctx context.Context, m solartime.Moment) (Term, error)
}

// jieNames maps the apparent solar longitude of each Jie to its traditional
// name. Jie sit at longitudes ≡ 15° (mod 30°); the year opens at 立春 (315°).
var jieNames = map[int]string{
	315: "立春",
	345: "惊蛰",
	15:  "清明",
	45:  "立夏",
	75:  "芒种",
	105: "小暑",
	135: "立秋",
	165: "白露",
	195: "寒露",
	225: "立冬",
	255: "大雪",
	285: "小寒",
}

// JieName returns the traditional name for a Jie longitude, or "" if the
// longitude is not a Jie.
func JieName(longitude int) string {
	return jieNames[longitude]
}
