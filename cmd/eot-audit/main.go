// Command eot-audit compares the day-of-year equation-of-time approximation
// used by the solar-time corrector against the Meeus solar-theory value,
// across a full year. Useful when judging whether the fixed approximation
// is adequate for a deployment.
package main

import (
	"flag"
	"fmt"
	"math"
	"time"

	"github.com/soniakeys/meeus/v3/base"
	"github.com/soniakeys/meeus/v3/julian"
	"gonum.org/v1/gonum/stat"

	"github.com/Dime2015/lifekline/pkg/solartime"
)

func main() {
	year := flag.Int("year", time.Now().Year(), "year to audit")
	flag.Parse()

	start := time.Date(*year, 1, 1, 12, 0, 0, 0, time.UTC)
	days := 365
	if start.AddDate(1, 0, 0).Sub(start).Hours() > 365*24 {
		days = 366
	}

	diffs := make([]float64, 0, days)
	var worstDay int
	var worstDiff float64

	for d := 0; d < days; d++ {
		t := start.AddDate(0, 0, d)
		approx := solartime.EquationOfTime(t.YearDay())
		exact := meeusEquationOfTime(t)
		diff := approx - exact
		diffs = append(diffs, diff)
		if math.Abs(diff) > math.Abs(worstDiff) {
			worstDiff = diff
			worstDay = t.YearDay()
		}
	}

	mean := stat.Mean(diffs, nil)
	stddev := stat.StdDev(diffs, nil)

	fmt.Printf("Equation-of-time audit for %d (%d days)\n", *year, days)
	fmt.Printf("  Mean error:   %+.3f min\n", mean)
	fmt.Printf("  Std dev:      %.3f min\n", stddev)
	fmt.Printf("  Worst error:  %+.3f min on day %d\n", worstDiff, worstDay)
}

// meeusEquationOfTime evaluates the Meeus-series equation of time in
// minutes at t, the reference the fixed approximation is audited against.
func meeusEquationOfTime(t time.Time) float64 {
	jd := julian.TimeToJD(t)
	T := base.J2000Century(jd)

	L0 := fixAngle(280.46646 + T*(36000.76983+T*0.0003032))
	M := fixAngle(357.52911 + T*(35999.05029-T*0.0001537))
	e := 0.016708634 - T*(0.000042037+T*0.0000001267)
	eps0 := 23 + (26+(21.448-T*(46.815+T*(0.00059-T*0.001813)))/60)/60

	y := math.Tan(degToRad(eps0)/2) * math.Tan(degToRad(eps0)/2)
	return radToDeg(y*math.Sin(degToRad(2*L0))-
		2*e*math.Sin(degToRad(M))+
		4*e*y*math.Sin(degToRad(M))*math.Cos(degToRad(2*L0))-
		0.5*y*y*math.Sin(degToRad(4*L0))-
		1.25*e*e*math.Sin(degToRad(2*M))) * 4
}

func degToRad(deg float64) float64 { return deg * math.Pi / 180.0 }
func radToDeg(rad float64) float64 { return rad * 180.0 / math.Pi }
func fixAngle(a float64) float64   { return a - 360.0*math.Floor(a/360.0) }
