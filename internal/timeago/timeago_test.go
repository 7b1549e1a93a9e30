package timeago

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	berrors "github.com/spetersoncode/buzz/internal/errors"
)

var testNow = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

const day = int64(86400000)

func newTestFormatter() *Formatter {
	f := NewFormatter(clockwork.NewFakeClockAt(testNow))
	f.Location = time.UTC
	return f
}

func TestFormat_Millis(t *testing.T) {
	f := newTestFormatter()
	now := testNow.UnixMilli()

	tests := []struct {
		name  string
		input int64
		want  string
	}{
		{"zero elapsed", now, "0 seconds ago"},
		{"one second", now - 1000, "1 second ago"},
		{"five seconds", now - 5000, "5 seconds ago"},
		{"just under a minute", now - 59999, "59 seconds ago"},
		{"exactly a minute", now - 60000, "1 minute ago"},
		{"59 minutes", now - 59*60000, "59 minutes ago"},
		{"hour and a bit", now - 3661000, "1 hour ago"},
		{"23 hours", now - 23*3600000, "23 hours ago"},
		{"one day", now - day, "1 day ago"},
		{"six days", now - 6*day, "6 days ago"},
		{"ten days", now - 10*day, "1 week ago"},
		{"27 days", now - 27*day, "3 weeks ago"},
		{"35 days", now - 35*day, "1 month ago"},
		{"200 days", now - 200*day, "6 months ago"},
		{"400 days", now - 400*day, "1 year ago"},
		{"800 days", now - 800*day, "2 years ago"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := f.Format(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormat_FractionalMillis(t *testing.T) {
	f := newTestFormatter()
	now := float64(testNow.UnixMilli())

	got, err := f.Format(now - 999.5)
	require.NoError(t, err)
	assert.Equal(t, "0 seconds ago", got)

	got, err = f.Format(now/1000 - 0.9995)
	require.NoError(t, err)
	assert.Equal(t, "0 seconds ago", got)

	got, err = f.Format(now - 1000.5)
	require.NoError(t, err)
	assert.Equal(t, "1 second ago", got)
}

func TestFormat_BucketGaps(t *testing.T) {
	// 28-29 days have four weeks but not a whole 30-day month, and
	// 360-364 days have twelve months but not a whole year.
	f := newTestFormatter()
	now := testNow.UnixMilli()

	got, err := f.Format(now - 28*day)
	require.NoError(t, err)
	assert.Equal(t, "0 months ago", got)

	got, err = f.Format(now - 362*day)
	require.NoError(t, err)
	assert.Equal(t, "0 years ago", got)
}

func TestFormat_SecondsAndMillisAgree(t *testing.T) {
	f := newTestFormatter()
	secs := testNow.Unix() - 150

	fromSeconds, err := f.Format(secs)
	require.NoError(t, err)
	fromMillis, err := f.Format(secs * 1000)
	require.NoError(t, err)

	assert.Equal(t, "2 minutes ago", fromSeconds)
	assert.Equal(t, fromSeconds, fromMillis)
}

func TestFormat_StringAndTimeAgree(t *testing.T) {
	f := newTestFormatter()
	instant := testNow.Add(-90 * time.Minute)

	fromString, err := f.Format(instant.Format(time.RFC3339))
	require.NoError(t, err)
	fromTime, err := f.Format(instant)
	require.NoError(t, err)
	fromPtr, err := f.Format(&instant)
	require.NoError(t, err)

	assert.Equal(t, "1 hour ago", fromTime)
	assert.Equal(t, fromTime, fromString)
	assert.Equal(t, fromTime, fromPtr)
}

func TestFormat_Strings(t *testing.T) {
	f := newTestFormatter()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"rfc3339 utc", "2024-06-15T11:00:00Z", "1 hour ago"},
		{"rfc3339 offset", "2024-06-15T13:00:00+02:00", "1 hour ago"},
		{"fractional seconds", "2024-06-15T11:59:59.500Z", "0 seconds ago"},
		{"minutes precision", "2024-06-15T11:50Z", "10 minutes ago"},
		{"zoneless", "2024-06-15T11:00:00", "1 hour ago"},
		{"zoneless with millis", "2024-06-15T11:59:30.250", "29 seconds ago"},
		{"space separated", "2024-06-15 09:00:00", "3 hours ago"},
		{"date only is utc", "2024-06-14", "1 day ago"},
		{"locale string", "6/15/2024, 11:30:00 AM", "30 minutes ago"},
		{"rfc1123", "Sat, 15 Jun 2024 11:59:00 GMT", "1 minute ago"},
		{"surrounding spaces", "  2024-06-01T12:00:00Z ", "2 weeks ago"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := f.Format(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormat_InvalidTimestamp(t *testing.T) {
	f := newTestFormatter()

	for _, input := range []string{"", "yesterday", "2024-13-45", "not a date"} {
		t.Run(input, func(t *testing.T) {
			_, err := f.Format(input)
			require.Error(t, err)
			assert.True(t, berrors.Is(err, berrors.KindInvalidTimestamp), "got %v", err)
		})
	}
}

func TestFormat_InvalidInput(t *testing.T) {
	f := newTestFormatter()
	var nilTime *time.Time

	tests := []struct {
		name  string
		input any
	}{
		{"nil", nil},
		{"nil time pointer", nilTime},
		{"bool", true},
		{"struct", struct{ At int }{At: 1}},
		{"slice", []int{1}},
		{"duration pointer", new(time.Duration)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.Format(tt.input)
			require.Error(t, err)
			assert.True(t, berrors.Is(err, berrors.KindInvalidInput), "got %v", err)
		})
	}
}

func TestFormat_Future(t *testing.T) {
	f := newTestFormatter()
	now := testNow.UnixMilli()

	got, err := f.Format(now + 500)
	require.NoError(t, err)
	assert.Equal(t, "-1 seconds ago", got)

	got, err = f.Format(now + 3*day)
	require.NoError(t, err)
	assert.Equal(t, "-259200 seconds ago", got)

	f.ClampFuture = true
	got, err = f.Format(now + 3*day)
	require.NoError(t, err)
	assert.Equal(t, "0 seconds ago", got)
}

func TestFormat_UnitNeverMovesBackward(t *testing.T) {
	var last Unit
	for _, ms := range []int64{
		0, 1000, 59000, 60000, 3599000, 3600000, 86399000,
		day, 6 * day, 7 * day, 27 * day, 30 * day, 31 * day, 359 * day, 365 * day, 3650 * day,
	} {
		_, unit := Elapsed(ms)
		assert.GreaterOrEqual(t, int(unit), int(last), "elapsed %dms", ms)
		last = unit
	}
	assert.Equal(t, Year, last)
}

func TestFormat_DefaultFormatterUsesSystemClock(t *testing.T) {
	got, err := Format(time.Now().Add(-5 * time.Second))
	require.NoError(t, err)
	assert.Equal(t, "5 seconds ago", got)
}

func TestFormat_ClockAdvance(t *testing.T) {
	clock := clockwork.NewFakeClockAt(testNow)
	f := NewFormatter(clock)
	posted := testNow

	assert.Equal(t, "0 seconds ago", f.FormatTime(posted))
	clock.Advance(2 * time.Hour)
	assert.Equal(t, "2 hours ago", f.FormatTime(posted))
}

func TestMillis_Numbers(t *testing.T) {
	f := newTestFormatter()

	tests := []struct {
		name  string
		input any
		want  int64
	}{
		{"ten digit seconds", int64(1718452800), 1718452800000},
		{"thirteen digit millis", int64(1718452800000), 1718452800000},
		{"nine digits stay millis", 999999999, 999999999},
		{"eleven digits stay millis", int64(17184528000), 17184528000},
		{"negative ten digits are seconds", int64(-1234567890), -1234567890000},
		{"int32", int32(1718452800), 1718452800000},
		{"uint64", uint64(1718452800), 1718452800000},
		{"float seconds", 1718452800.5, 1718452800500},
		{"float millis", float64(1718452800123), 1718452800123},
		{"json integer", json.Number("1718452800"), 1718452800000},
		{"json float", json.Number("1718452800.25"), 1718452800250},
		{"fractional millis round up", 1718452799000.5, 1718452799001},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := f.Millis(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMillis_OutOfRange(t *testing.T) {
	f := newTestFormatter()

	for name, input := range map[string]any{
		"uint64 overflow": uint64(1) << 63,
		"nan":             nanValue(),
		"json garbage":    json.Number("12abc"),
	} {
		t.Run(name, func(t *testing.T) {
			_, err := f.Millis(input)
			require.Error(t, err)
			assert.True(t, berrors.Is(err, berrors.KindInvalidInput))
		})
	}
}

func TestMillis_ExplicitEpochUnit(t *testing.T) {
	f := newTestFormatter()

	f.EpochUnit = EpochSeconds
	got, err := f.Millis(int64(86400))
	require.NoError(t, err)
	assert.Equal(t, int64(86400000), got)

	f.EpochUnit = EpochMilliseconds
	got, err = f.Millis(int64(1718452800))
	require.NoError(t, err)
	assert.Equal(t, int64(1718452800), got)
}

func TestParseEpochUnit(t *testing.T) {
	tests := []struct {
		in      string
		want    EpochUnit
		wantErr bool
	}{
		{"", EpochAuto, false},
		{"auto", EpochAuto, false},
		{"Seconds", EpochSeconds, false},
		{"s", EpochSeconds, false},
		{"ms", EpochMilliseconds, false},
		{"milliseconds", EpochMilliseconds, false},
		{"minutes", EpochAuto, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseEpochUnit(tt.in)
			if tt.wantErr {
				assert.True(t, berrors.Is(err, berrors.KindInvalidArgs))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, mustParse(t, got.String()))
		})
	}
}

func TestFormatElapsed(t *testing.T) {
	f := &Formatter{}
	assert.Equal(t, "1 minute ago", f.FormatElapsed(90*time.Second))
	assert.Equal(t, "3 days ago", f.FormatElapsed(72*time.Hour))
}

func TestDigitCount(t *testing.T) {
	assert.Equal(t, 1, digitCount(0))
	assert.Equal(t, 10, digitCount(1000000000))
	assert.Equal(t, 10, digitCount(-9999999999))
	assert.Equal(t, 19, digitCount(-9223372036854775808))
}

func TestUnitString(t *testing.T) {
	assert.Equal(t, "second", Second.String())
	assert.Equal(t, "year", Year.String())
	assert.Equal(t, "unknown", Unit(42).String())
}

func mustParse(t *testing.T, s string) EpochUnit {
	t.Helper()
	u, err := ParseEpochUnit(s)
	require.NoError(t, err)
	return u
}

func nanValue() float64 {
	zero := 0.0
	return zero / zero
}
