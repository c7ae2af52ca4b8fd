// Package sexagenary implements the 60-entry Stem-Branch cycle used to label
// years, months, days and hours in the Chinese calendar. The cycle table is a
// process-wide constant: index 0 is 甲子, stems repeat every 10 entries and
// branches every 12, giving a combined period of 60.
package sexagenary

import (
	"errors"
	"fmt"
)

// ErrUnknownLabel is returned when a label is not one of the 60 canonical
// Stem-Branch strings, or when a stem/branch pairing cannot occur in the
// cycle. A correct calendar provider never produces such labels, so hitting
// this error indicates an internal consistency failure.
var ErrUnknownLabel = errors.New("unknown sexagenary label")

var stems = [10]string{"甲", "乙", "丙", "丁", "戊", "己", "庚", "辛", "壬", "癸"}

var branches = [12]string{"子", "丑", "寅", "卯", "辰", "巳", "午", "未", "申", "酉", "戌", "亥"}

// Index identifies one of the 60 cycle entries. Valid values are 0-59;
// arithmetic on it is modulo 60.
type Index int

// Direction selects which way luck pillars progress through the cycle.
type Direction int

const (
	// Forward advances through the cycle table.
	Forward Direction = iota
	// Backward recedes through the cycle table.
	Backward
)

func (d Direction) String() string {
	if d == Backward {
		return "backward"
	}
	return "forward"
}

// Pillar is a Stem-Branch pair. Stem is an index into the 10 heavenly stems,
// Branch an index into the 12 earthly branches.
type Pillar struct {
	Stem   int `json:"stem"`
	Branch int `json:"branch"`
}

// String renders the canonical two-rune label, e.g. "甲子".
func (p Pillar) String() string {
	if p.Stem < 0 || p.Stem > 9 || p.Branch < 0 || p.Branch > 11 {
		return "??"
	}
	return stems[p.Stem] + branches[p.Branch]
}

// StemLabel returns the single-rune stem label.
func (p Pillar) StemLabel() string {
	if p.Stem < 0 || p.Stem > 9 {
		return "?"
	}
	return stems[p.Stem]
}

// BranchLabel returns the single-rune branch label.
func (p Pillar) BranchLabel() string {
	if p.Branch < 0 || p.Branch > 11 {
		return "?"
	}
	return branches[p.Branch]
}

// Index returns the pillar's position in the 60-entry cycle. Only pairings
// where stem and branch indices share parity occur in the cycle; anything
// else fails with ErrUnknownLabel.
func (p Pillar) Index() (Index, error) {
	return Combine(p.Stem, p.Branch)
}

// IsYangStem reports whether a stem belongs to the Yang polarity set
// {甲,丙,戊,庚,壬}. The even stem indices are Yang, the odd ones Yin.
func IsYangStem(stem int) bool {
	return stem%2 == 0
}

var (
	labels     [60]string
	labelIndex map[string]Index
)

func init() {
	labelIndex = make(map[string]Index, 60)
	for i := 0; i < 60; i++ {
		labels[i] = stems[i%10] + branches[i%12]
		labelIndex[labels[i]] = Index(i)
	}
}

// At returns the pillar at a cycle index. The index is normalized modulo 60
// so callers can pass the result of unreduced arithmetic.
func At(i Index) Pillar {
	n := ((int(i) % 60) + 60) % 60
	return Pillar{Stem: n % 10, Branch: n % 12}
}

// IndexOf looks up the cycle index of a canonical label.
func IndexOf(label string) (Index, error) {
	i, ok := labelIndex[label]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownLabel, label)
	}
	return i, nil
}

// Combine returns the cycle index for a stem/branch index pair. Stem and
// branch must share parity; the 60-entry cycle never pairs an even stem with
// an odd branch or vice versa.
func Combine(stem, branch int) (Index, error) {
	if stem < 0 || stem > 9 || branch < 0 || branch > 11 || stem%2 != branch%2 {
		return 0, fmt.Errorf("%w: stem %d, branch %d", ErrUnknownLabel, stem, branch)
	}
	// Solve i ≡ stem (mod 10), i ≡ branch (mod 12) over [0,60).
	i := stem
	for i%12 != branch {
		i += 10
	}
	return Index(i), nil
}

// Step moves one entry through the cycle, wrapping at either end.
func (i Index) Step(d Direction) Index {
	if d == Backward {
		return Index((int(i) + 59) % 60)
	}
	return Index((int(i) + 1) % 60)
}

// Label returns the canonical label at this index.
func (i Index) Label() string {
	return labels[((int(i)%60)+60)%60]
}
