package timeago

import (
	"encoding/json"
	"math"
	"strings"
	"time"

	berrors "github.com/spetersoncode/buzz/internal/errors"
)

// EpochUnit selects how numeric inputs are read.
type EpochUnit int

const (
	// EpochAuto treats numbers whose absolute integer part has exactly ten
	// decimal digits as seconds and everything else as milliseconds.
	EpochAuto EpochUnit = iota
	// EpochSeconds treats every number as seconds since the epoch.
	EpochSeconds
	// EpochMilliseconds treats every number as milliseconds since the epoch.
	EpochMilliseconds
)

// String returns the config spelling of the unit.
func (u EpochUnit) String() string {
	switch u {
	case EpochAuto:
		return "auto"
	case EpochSeconds:
		return "seconds"
	case EpochMilliseconds:
		return "milliseconds"
	default:
		return "unknown"
	}
}

// ParseEpochUnit parses "auto", "seconds"/"s" or "milliseconds"/"ms".
// An empty string is auto.
func ParseEpochUnit(s string) (EpochUnit, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return EpochAuto, nil
	case "seconds", "second", "s":
		return EpochSeconds, nil
	case "milliseconds", "millisecond", "ms":
		return EpochMilliseconds, nil
	}
	return EpochAuto, berrors.InvalidArgs("invalid epoch unit %q", s).
		WithSuggestion("Use one of: auto, seconds, milliseconds.")
}

// Zoneless layouts are read in the formatter's Location; the date-only form
// is read as UTC midnight.
var (
	zonedLayouts = []string{
		time.RFC3339Nano,
		"2006-01-02T15:04Z07:00",
		time.RFC1123,
		time.RFC1123Z,
	}
	localLayouts = []string{
		"2006-01-02T15:04:05",
		"2006-01-02T15:04",
		"2006-01-02 15:04:05",
		"1/2/2006, 3:04:05 PM",
		"1/2/2006 3:04:05 PM",
		"1/2/2006",
	}
)

const dateOnlyLayout = "2006-01-02"

// Millis normalizes input into milliseconds since the Unix epoch.
func (f *Formatter) Millis(input any) (int64, error) {
	switch v := input.(type) {
	case string:
		return f.parseString(v)
	case time.Time:
		return v.UnixMilli(), nil
	case *time.Time:
		if v == nil {
			return 0, invalidInput(input)
		}
		return v.UnixMilli(), nil
	case int:
		return f.fromInt(int64(v))
	case int8:
		return f.fromInt(int64(v))
	case int16:
		return f.fromInt(int64(v))
	case int32:
		return f.fromInt(int64(v))
	case int64:
		return f.fromInt(v)
	case uint:
		return f.fromUint(uint64(v))
	case uint8:
		return f.fromInt(int64(v))
	case uint16:
		return f.fromInt(int64(v))
	case uint32:
		return f.fromInt(int64(v))
	case uint64:
		return f.fromUint(v)
	case float32:
		return f.fromFloat(float64(v))
	case float64:
		return f.fromFloat(v)
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return f.fromInt(n)
		}
		if x, err := v.Float64(); err == nil {
			return f.fromFloat(x)
		}
		return 0, invalidInput(input)
	default:
		return 0, invalidInput(input)
	}
}

func (f *Formatter) parseString(s string) (int64, error) {
	trimmed := strings.TrimSpace(s)
	for _, layout := range zonedLayouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return t.UnixMilli(), nil
		}
	}
	if t, err := time.ParseInLocation(dateOnlyLayout, trimmed, time.UTC); err == nil {
		return t.UnixMilli(), nil
	}
	loc := f.location()
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, trimmed, loc); err == nil {
			return t.UnixMilli(), nil
		}
	}
	return 0, berrors.InvalidTimestamp("invalid timestamp %q", s).
		WithDetails("input", s).
		WithSuggestion("Use an ISO 8601 timestamp such as 2024-05-01T10:00:00Z.")
}

func (f *Formatter) fromInt(n int64) (int64, error) {
	if !f.isSeconds(digitCount(n)) {
		return n, nil
	}
	if n > math.MaxInt64/1000 || n < math.MinInt64/1000 {
		return 0, berrors.InvalidInput("epoch value %d is out of range", n)
	}
	return n * 1000, nil
}

func (f *Formatter) fromUint(n uint64) (int64, error) {
	if n > math.MaxInt64 {
		return 0, berrors.InvalidInput("epoch value %d is out of range", n)
	}
	return f.fromInt(int64(n))
}

// maxFloatMillis keeps float conversions inside int64.
const maxFloatMillis = 9.2e18

func (f *Formatter) fromFloat(x float64) (int64, error) {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0, berrors.InvalidInput("epoch value %v is not a finite number", x)
	}
	intPart := math.Trunc(math.Abs(x))
	digits := 11
	if intPart < 1e18 {
		digits = digitCount(int64(intPart))
	}
	ms := x
	if f.isSeconds(digits) {
		ms = x * 1000
	}
	// Rounding up keeps floor((now-ms)/1000) equal to the fractional result.
	ms = math.Ceil(ms)
	if math.Abs(ms) > maxFloatMillis {
		return 0, berrors.InvalidInput("epoch value %v is out of range", x)
	}
	return int64(ms), nil
}

func (f *Formatter) isSeconds(digits int) bool {
	switch f.EpochUnit {
	case EpochSeconds:
		return true
	case EpochMilliseconds:
		return false
	default:
		return digits == 10
	}
}

// digitCount returns the number of decimal digits in |n|.
func digitCount(n int64) int {
	u := uint64(n)
	if n < 0 {
		u = uint64(-(n + 1)) + 1
	}
	count := 1
	for u >= 10 {
		u /= 10
		count++
	}
	return count
}
