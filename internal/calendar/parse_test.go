package calendar

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParseInput_ISO(t *testing.T) {
	now := time.Date(2024, time.June, 10, 12, 0, 0, 0, time.UTC)
	d, err := ParseInput(" 2024-06-14 ", now)
	require.NoError(t, err)
	require.Equal(t, Date{Year: 2024, Month: time.June, Day: 14}, d)
}

func TestParseInput_Slash(t *testing.T) {
	now := time.Date(2024, time.June, 10, 12, 0, 0, 0, time.UTC)
	d, err := ParseInput("2024/6/14", now)
	require.NoError(t, err)
	require.Equal(t, Date{Year: 2024, Month: time.June, Day: 14}, d)
}

func TestParseInput_Empty(t *testing.T) {
	_, err := ParseInput("   ", time.Now())
	require.ErrorIs(t, err, ErrEmptyInput)
}

func TestParseInput_WeekdayPhrases(t *testing.T) {
	// Monday.
	now := time.Date(2024, time.June, 10, 9, 0, 0, 0, time.FixedZone("JST", 9*60*60))
	cases := []struct {
		input string
		want  Date
	}{
		{"来週金曜", Date{Year: 2024, Month: time.June, Day: 21}},
		{"来週の金曜日", Date{Year: 2024, Month: time.June, Day: 21}},
		{"今週金曜", Date{Year: 2024, Month: time.June, Day: 14}},
		{"再来週月曜", Date{Year: 2024, Month: time.June, Day: 24}},
		{"来週日曜", Date{Year: 2024, Month: time.June, Day: 23}},
		{"金曜", Date{Year: 2024, Month: time.June, Day: 14}},
		{"月曜日", Date{Year: 2024, Month: time.June, Day: 10}},
		{"next friday", Date{Year: 2024, Month: time.June, Day: 21}},
		{"Next Fri", Date{Year: 2024, Month: time.June, Day: 21}},
		{"this friday", Date{Year: 2024, Month: time.June, Day: 14}},
		{"next monday", Date{Year: 2024, Month: time.June, Day: 17}},
	}
	for _, tc := range cases {
		got, err := ParseInput(tc.input, now)
		require.NoError(t, err, tc.input)
		require.Equal(t, tc.want, got, tc.input)
	}
}

func TestParseInput_WeekdayFromSunday(t *testing.T) {
	// Sunday belongs to the week that started on Monday 2024-06-10.
	now := time.Date(2024, time.June, 16, 9, 0, 0, 0, time.UTC)
	got, err := ParseInput("来週金曜", now)
	require.NoError(t, err)
	require.Equal(t, Date{Year: 2024, Month: time.June, Day: 21}, got)

	got, err = ParseInput("金曜", now)
	require.NoError(t, err)
	require.Equal(t, Date{Year: 2024, Month: time.June, Day: 21}, got)
}

func TestParseInput_Natural(t *testing.T) {
	now := time.Date(2024, time.June, 10, 9, 0, 0, 0, time.UTC)
	got, err := ParseInput("tomorrow", now)
	require.NoError(t, err)
	require.Equal(t, Date{Year: 2024, Month: time.June, Day: 11}, got)
}

func TestParseInput_Unparseable(t *testing.T) {
	_, err := ParseInput("そのうち", time.Now())
	require.Error(t, err)
	require.Contains(t, err.Error(), "could not parse date")
	require.NotNil(t, errors.Unwrap(err))
}
