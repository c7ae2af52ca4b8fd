// Command chart computes a single Four Pillars chart from the command line.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Dime2015/lifekline/internal/constants"
	"github.com/Dime2015/lifekline/pkg/bazi"
	"github.com/Dime2015/lifekline/pkg/lunisolar"
	"github.com/Dime2015/lifekline/pkg/solartime"
)

var (
	flagDate      string
	flagTime      string
	flagGender    string
	flagLongitude float64
	flagLatitude  float64
	flagTZOffset  float64
	flagTable     string
)

var rootCmd = &cobra.Command{
	Use:     "chart",
	Short:   "Compute a Four Pillars chart and its first luck cycle",
	Version: constants.Version,
	RunE:    run,
}

func init() {
	rootCmd.Flags().StringVar(&flagDate, "date", "", "birth date, YYYY-MM-DD (required)")
	rootCmd.Flags().StringVar(&flagTime, "time", "", "birth time, HH:MM (required)")
	rootCmd.Flags().StringVar(&flagGender, "gender", "", "male or female (required)")
	rootCmd.Flags().Float64Var(&flagLongitude, "longitude", 0, "birth longitude in degrees east; enables solar-time correction")
	rootCmd.Flags().Float64Var(&flagLatitude, "latitude", 0, "birth latitude in degrees north (accepted, unused)")
	rootCmd.Flags().Float64Var(&flagTZOffset, "tz-offset", solartime.DefaultUTCOffsetHours, "reference UTC offset in hours")
	rootCmd.Flags().StringVar(&flagTable, "table", "", "msgpack Jie table; uses the built-in ephemeris when empty")
	rootCmd.MarkFlagRequired("date")
	rootCmd.MarkFlagRequired("time")
	rootCmd.MarkFlagRequired("gender")
}

func run(cmd *cobra.Command, args []string) error {
	moment, err := solartime.Parse(flagDate, flagTime)
	if err != nil {
		return err
	}
	gender, err := bazi.ParseGender(flagGender)
	if err != nil {
		return err
	}

	var provider lunisolar.Provider
	if flagTable != "" {
		provider, err = lunisolar.LoadTable(flagTable)
		if err != nil {
			return err
		}
	} else {
		provider = lunisolar.NewEphemeris(flagTZOffset)
	}

	in := bazi.Input{Moment: moment, Gender: gender, UTCOffsetHours: &flagTZOffset}
	if cmd.Flags().Changed("longitude") {
		in.Longitude = &flagLongitude
	}
	if cmd.Flags().Changed("latitude") {
		in.Latitude = &flagLatitude
	}

	chart, err := bazi.Compute(context.Background(), provider, in)
	if err != nil {
		return err
	}

	fmt.Printf("Chart for %s (%s)\n", moment, gender)
	if chart.Corrected != moment {
		fmt.Printf("  Solar time:  %s\n", chart.Corrected)
	}
	fmt.Printf("  Year:        %s\n", chart.Pillars.Year)
	fmt.Printf("  Month:       %s\n", chart.Pillars.Month)
	fmt.Printf("  Day:         %s\n", chart.Pillars.Day)
	fmt.Printf("  Hour:        %s\n", chart.Pillars.Hour)
	fmt.Printf("  Luck cycle:  %s, first pillar %s\n", chart.Direction, chart.FirstLuck)
	fmt.Printf("  Boundary:    %s at %s\n", chart.Boundary.Name, chart.Boundary.At)
	fmt.Printf("  Onset:       %s\n", chart.Onset)
	fmt.Printf("  Starting age: %d\n", chart.StartingAge)
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
