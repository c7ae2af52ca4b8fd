// Package types holds shared data structures passed between the service
// layers.
package types

import "time"

// ChartRecord is one computed chart, flattened for persistence. Records are
// a write-only history of what the service computed; the chart core never
// reads them back.
type ChartRecord struct {
	ID              uint      `gorm:"primaryKey" json:"-"`
	Timestamp       time.Time `gorm:"index" json:"timestamp"`
	RequestID       string    `json:"request_id"`
	BirthMoment     string    `json:"birth_moment"`
	CorrectedMoment string    `json:"corrected_moment"`
	Gender          string    `json:"gender"`
	Longitude       *float64  `json:"longitude,omitempty"`
	UTCOffsetHours  float64   `json:"utc_offset_hours"`
	YearPillar      string    `json:"year_pillar"`
	MonthPillar     string    `json:"month_pillar"`
	DayPillar       string    `json:"day_pillar"`
	HourPillar      string    `json:"hour_pillar"`
	Direction       string    `json:"direction"`
	FirstLuckPillar string    `json:"first_luck_pillar"`
	OnsetYears      int       `json:"onset_years"`
	OnsetMonths     int       `json:"onset_months"`
	OnsetDays       int       `json:"onset_days"`
	StartingAge     int       `json:"starting_age"`
}

// TableName customizes the table name used by GORM-backed engines.
func (ChartRecord) TableName() string {
	return "chart_records"
}
