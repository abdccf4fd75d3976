package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOffsetMinutes(t *testing.T) {
	assert.Equal(t, 330, ParseOffsetMinutes("+05:30"))
	assert.Equal(t, -480, ParseOffsetMinutes("-08:00"))
	assert.Equal(t, 0, ParseOffsetMinutes("+00:00"))
	assert.Equal(t, 840, ParseOffsetMinutes("+14:00"))
}

func TestParseOffsetMinutesFallsBackToLocal(t *testing.T) {
	_, secs := time.Now().Zone()
	local := secs / 60

	// Malformed and absent offsets recover to the process-local offset
	assert.Equal(t, local, ParseOffsetMinutes(""))
	assert.Equal(t, local, ParseOffsetMinutes("UTC"))
	assert.Equal(t, local, ParseOffsetMinutes("+5:30"))
	assert.Equal(t, local, ParseOffsetMinutes("05:30"))
}

func TestFormatOffset(t *testing.T) {
	assert.Equal(t, "+05:30", FormatOffset(330))
	assert.Equal(t, "-08:00", FormatOffset(-480))
	assert.Equal(t, "+00:00", FormatOffset(0))
}

func TestToAbsoluteInstant(t *testing.T) {
	instant, err := ToAbsoluteInstant("2025-06-01T10:00", "+05:30")
	require.NoError(t, err)

	assert.Equal(t, time.Date(2025, 6, 1, 4, 30, 0, 0, time.UTC), instant)
}

func TestToAbsoluteInstantRejectsMalformedTimestamp(t *testing.T) {
	_, err := ToAbsoluteInstant("June 1st", "+00:00")
	assert.Error(t, err)

	_, err = ToAbsoluteInstant("2025-06-01", "+00:00")
	assert.Error(t, err)
}

func TestScheduleRoundTripAcrossAllOffsets(t *testing.T) {
	local := "2025-03-15T09:45"

	// Every quarter-hour offset in the inhabited range survives the round trip
	for minutes := -12 * 60; minutes <= 14*60; minutes += 15 {
		offset := FormatOffset(minutes)
		instant, err := ToAbsoluteInstant(local, offset)
		require.NoError(t, err, "offset %s", offset)
		assert.Equal(t, local, ToLocalDisplay(instant, offset), "offset %s", offset)
	}
}
