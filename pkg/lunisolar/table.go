package lunisolar

import (
	"context"
	"fmt"
	"math"
	"os"
	"sort"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/Dime2015/lifekline/pkg/solartime"
)

// TableEntry is one precomputed Jie instant.
type TableEntry struct {
	Unix      int64 `msgpack:"unix"`      // instant, seconds since epoch, UTC
	Longitude int   `msgpack:"longitude"` // apparent solar longitude, degrees
}

// tableFile is the on-disk msgpack layout produced by cmd/jieqi-table.
type tableFile struct {
	Version          int          `msgpack:"version"`
	UTCOffsetSeconds int          `msgpack:"utc_offset_seconds"`
	Entries          []TableEntry `msgpack:"entries"`
}

const tableFileVersion = 1

// Table is a Provider backed by a precomputed, msgpack-serialized Jie
// table. It answers boundary queries by binary search and pillar queries by
// the same fixed arithmetic as the ephemeris provider, so the two providers
// agree wherever the table has coverage. Queries outside the covered range
// fail with ErrUnavailable.
type Table struct {
	loc     *time.Location
	entries []TableEntry // ascending by Unix
}

// NewTable builds a table provider from entries. Entries are sorted; the
// zone is the civil frame moments are interpreted in.
func NewTable(entries []TableEntry, utcOffsetHours float64) *Table {
	sorted := make([]TableEntry, len(entries))
	copy(sorted, entries)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Unix < sorted[j].Unix })
	secs := int(math.Round(utcOffsetHours * 3600))
	return &Table{
		loc:     time.FixedZone(fmt.Sprintf("UTC%+g", utcOffsetHours), secs),
		entries: sorted,
	}
}

// BuildTable precomputes every Jie from Jan 1 of fromYear through Dec 31 of
// toYear using an ephemeris provider.
func BuildTable(ctx context.Context, e *Ephemeris, fromYear, toYear int) (*Table, error) {
	if toYear < fromYear {
		return nil, fmt.Errorf("invalid year range %d..%d", fromYear, toYear)
	}
	var entries []TableEntry
	cursor := time.Date(fromYear, 1, 1, 0, 0, 0, 0, e.loc)
	end := time.Date(toYear+1, 1, 1, 0, 0, 0, 0, e.loc)
	for cursor.Before(end) {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		at, deg := e.jieAfter(cursor)
		if !at.Before(end) {
			break
		}
		entries = append(entries, TableEntry{Unix: at.Unix(), Longitude: deg})
		cursor = at.Add(24 * time.Hour)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: empty term table", ErrUnavailable)
	}
	return &Table{loc: e.loc, entries: entries}, nil
}

// LoadTable reads a msgpack table written by Save. Missing, corrupt or
// empty tables fail with ErrUnavailable.
func LoadTable(path string) (*Table, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading table %s: %v", ErrUnavailable, path, err)
	}
	var f tableFile
	if err := msgpack.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("%w: decoding table %s: %v", ErrUnavailable, path, err)
	}
	if f.Version != tableFileVersion {
		return nil, fmt.Errorf("%w: table %s has unsupported version %d", ErrUnavailable, path, f.Version)
	}
	if len(f.Entries) == 0 {
		return nil, fmt.Errorf("%w: table %s is empty", ErrUnavailable, path)
	}
	sort.Slice(f.Entries, func(i, j int) bool { return f.Entries[i].Unix < f.Entries[j].Unix })
	name := fmt.Sprintf("UTC%+g", float64(f.UTCOffsetSeconds)/3600)
	return &Table{
		loc:     time.FixedZone(name, f.UTCOffsetSeconds),
		entries: f.Entries,
	}, nil
}

// Save writes the table to path in msgpack format.
func (t *Table) Save(path string) error {
	_, offset := time.Now().In(t.loc).Zone()
	raw, err := msgpack.Marshal(tableFile{
		Version:          tableFileVersion,
		UTCOffsetSeconds: offset,
		Entries:          t.entries,
	})
	if err != nil {
		return fmt.Errorf("encoding term table: %w", err)
	}
	return os.WriteFile(path, raw, 0o644)
}

// Len returns the number of precomputed terms.
func (t *Table) Len() int {
	return len(t.entries)
}

// Location returns the fixed civil zone the provider interprets moments in.
func (t *Table) Location() *time.Location {
	return t.loc
}

func (t *Table) check(ctx context.Context, m solartime.Moment) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return m.Validate()
}

// NextJie implements Provider.
func (t *Table) NextJie(ctx context.Context, m solartime.Moment) (Term, error) {
	if err := t.check(ctx, m); err != nil {
		return Term{}, err
	}
	u := m.Time(t.loc).Unix()
	i := sort.Search(len(t.entries), func(i int) bool { return t.entries[i].Unix > u })
	if i == len(t.entries) {
		return Term{}, fmt.Errorf("%w: %s is past the end of the term table", ErrUnavailable, m)
	}
	return t.term(t.entries[i]), nil
}

// PrevJie implements Provider.
func (t *Table) PrevJie(ctx context.Context, m solartime.Moment) (Term, error) {
	if err := t.check(ctx, m); err != nil {
		return Term{}, err
	}
	u := m.Time(t.loc).Unix()
	i := sort.Search(len(t.entries), func(i int) bool { return t.entries[i].Unix > u })
	if i == 0 {
		return Term{}, fmt.Errorf("%w: %s is before the start of the term table", ErrUnavailable, m)
	}
	return t.term(t.entries[i-1]), nil
}

// ResolvePillars implements Provider. The year and month pillars need the
// most recent 立春 and the enclosing Jie interval, so the table must cover
// at least one year before the queried moment.
func (t *Table) ResolvePillars(ctx context.Context, m solartime.Moment) (FourPillars, error) {
	if err := t.check(ctx, m); err != nil {
		return FourPillars{}, err
	}
	tm := m.Time(t.loc)
	u := tm.Unix()
	i := sort.Search(len(t.entries), func(i int) bool { return t.entries[i].Unix > u })
	if i == 0 {
		return FourPillars{}, fmt.Errorf("%w: %s is before the start of the term table", ErrUnavailable, m)
	}
	prev := t.entries[i-1]

	// Walk back to the governing 立春 for the year pillar.
	lichun := -1
	for j := i - 1; j >= 0; j-- {
		if t.entries[j].Longitude == 315 {
			lichun = j
			break
		}
	}
	if lichun < 0 {
		return FourPillars{}, fmt.Errorf("%w: term table has no 立春 before %s", ErrUnavailable, m)
	}
	solarYear := time.Unix(t.entries[lichun].Unix, 0).In(t.loc).Year()
	year := yearPillar(solarYear)

	month := monthPillar(year.Stem, monthNumberForLongitude(float64(prev.Longitude)))
	day := dayPillar(tm)
	hour := hourPillar(day.Stem, tm.Hour())

	return FourPillars{Year: year, Month: month, Day: day, Hour: hour}, nil
}

// JieOfYear returns the Jie whose civil instants fall within a civil year.
func (t *Table) JieOfYear(ctx context.Context, year int) ([]Term, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	var terms []Term
	for _, e := range t.entries {
		if time.Unix(e.Unix, 0).In(t.loc).Year() == year {
			terms = append(terms, t.term(e))
		}
	}
	if len(terms) == 0 {
		return nil, fmt.Errorf("%w: term table does not cover %d", ErrUnavailable, year)
	}
	return terms, nil
}

func (t *Table) term(e TableEntry) Term {
	return Term{
		Longitude: e.Longitude,
		Name:      jieNames[e.Longitude],
		At:        solartime.FromTime(time.Unix(e.Unix, 0).In(t.loc)),
	}
}
