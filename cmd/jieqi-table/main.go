// Command jieqi-table precomputes Jie boundary instants over a year range
// and writes them as a msgpack table for the table-backed provider.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/Dime2015/lifekline/pkg/lunisolar"
	"github.com/Dime2015/lifekline/pkg/solartime"
)

func main() {
	var (
		fromYear = flag.Int("from", 1900, "first year to precompute")
		toYear   = flag.Int("to", time.Now().Year()+10, "last year to precompute")
		out      = flag.String("out", "jieqi.msgpack", "output file")
		tzOffset = flag.Float64("tz-offset", solartime.DefaultUTCOffsetHours, "civil UTC offset in hours")
	)
	flag.Parse()

	ephemeris := lunisolar.NewEphemeris(*tzOffset)

	fmt.Printf("Computing Jie boundaries %d..%d (UTC%+g)...\n", *fromYear, *toYear, *tzOffset)
	table, err := lunisolar.BuildTable(context.Background(), ephemeris, *fromYear, *toYear)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error building table: %v\n", err)
		os.Exit(1)
	}

	if err := table.Save(*out); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing %s: %v\n", *out, err)
		os.Exit(1)
	}

	fmt.Printf("Wrote %d terms to %s\n", table.Len(), *out)
}
