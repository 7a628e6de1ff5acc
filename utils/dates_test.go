package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestToday(t *testing.T) {
	_, err := time.Parse(DayFormat, Today())
	require.NoError(t, err)
}

func TestFormatDayLabel(t *testing.T) {
	require.Equal(t, "03/09", FormatDayLabel("2025-03-09"))
	// malformed input passes through untouched
	require.Equal(t, "not-a-date", FormatDayLabel("not-a-date"))
}

func TestFormatDayLong(t *testing.T) {
	require.Equal(t, "Sunday, March 09", FormatDayLong("2025-03-09"))
	require.Equal(t, "junk", FormatDayLong("junk"))
}
