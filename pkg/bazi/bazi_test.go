package bazi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dime2015/lifekline/pkg/sexagenary"
)

func TestParseGender(t *testing.T) {
	for _, s := range []string{"male", "m", "M", "Male"} {
		g, err := ParseGender(s)
		require.NoError(t, err, s)
		assert.Equal(t, Male, g)
	}
	for _, s := range []string{"female", "f", "F", "Female"} {
		g, err := ParseGender(s)
		require.NoError(t, err, s)
		assert.Equal(t, Female, g)
	}
	_, err := ParseGender("other")
	assert.Error(t, err)
}

func TestLuckDirection(t *testing.T) {
	cases := []struct {
		stem   int
		gender Gender
		want   sexagenary.Direction
	}{
		{0, Male, sexagenary.Forward},    // 甲 year, male
		{0, Female, sexagenary.Backward}, // 甲 year, female
		{1, Male, sexagenary.Backward},   // 乙 year, male
		{1, Female, sexagenary.Forward},  // 乙 year, female
		{6, Male, sexagenary.Forward},    // 庚 year, male
		{6, Female, sexagenary.Backward}, // 庚 year, female
		{9, Female, sexagenary.Forward},  // 癸 year, female
	}
	for _, tc := range cases {
		got := LuckDirection(tc.stem, tc.gender)
		assert.Equal(t, tc.want, got, "stem %d gender %s", tc.stem, tc.gender)
	}
}

func TestLuckDirectionGenderFlip(t *testing.T) {
	// Flipping the gender always flips the direction, for every stem.
	for stem := 0; stem < 10; stem++ {
		m := LuckDirection(stem, Male)
		f := LuckDirection(stem, Female)
		assert.NotEqual(t, m, f, "stem %d", stem)
	}
}

func TestOnsetFromMinutes(t *testing.T) {
	// 18 days to the boundary: 18/3 = 6 years exactly.
	got := OnsetFromMinutes(18 * 1440)
	assert.Equal(t, LuckOnset{Years: 6, Months: 0, Days: 0}, got)

	// 40 days: 13 years, 1 leftover day = 4 months.
	got = OnsetFromMinutes(40 * 1440)
	assert.Equal(t, LuckOnset{Years: 13, Months: 4, Days: 0}, got)

	// 2 days 6 hours: 0 years, 8 months, 30 days normalizes to 9 months.
	got = OnsetFromMinutes(2*1440 + 6*60)
	assert.Equal(t, LuckOnset{Years: 0, Months: 9, Days: 0}, got)

	// 1 day 3 hours: 4 months 15 days.
	got = OnsetFromMinutes(1440 + 3*60)
	assert.Equal(t, LuckOnset{Years: 0, Months: 4, Days: 15}, got)

	// Zero and negative clamp to zero.
	assert.Equal(t, LuckOnset{}, OnsetFromMinutes(0))
	assert.Equal(t, LuckOnset{}, OnsetFromMinutes(-100))
}

func TestStartingAgeFloorsAtOne(t *testing.T) {
	assert.Equal(t, 1, LuckOnset{Years: 0, Months: 8}.StartingAge())
	assert.Equal(t, 1, LuckOnset{Years: 1}.StartingAge())
	assert.Equal(t, 6, LuckOnset{Years: 6, Months: 11, Days: 29}.StartingAge())
}

func TestLuckOnsetString(t *testing.T) {
	assert.Equal(t, "6 years 4 months 15 days",
		LuckOnset{Years: 6, Months: 4, Days: 15}.String())
}
