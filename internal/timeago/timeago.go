// Package timeago renders timestamps as "time ago" labels such as
// "5 seconds ago" or "3 weeks ago".
//
// Inputs may be date strings, numeric epoch values (seconds or milliseconds)
// or time.Time values. Elapsed time is bucketed into the coarsest whole unit
// among seconds, minutes, hours, days, weeks, months (30 days) and
// years (365 days).
package timeago

import (
	"fmt"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"

	berrors "github.com/spetersoncode/buzz/internal/errors"
)

// Unit is the granularity a label is reported in.
type Unit int

const (
	Second Unit = iota
	Minute
	Hour
	Day
	Week
	Month
	Year
)

var unitNames = [...]string{"second", "minute", "hour", "day", "week", "month", "year"}

// String returns the singular label for the unit.
func (u Unit) String() string {
	if u < Second || u > Year {
		return "unknown"
	}
	return unitNames[u]
}

// Formatter formats timestamps relative to the time reported by Clock.
// The zero value is ready to use: it reads the system clock, detects epoch
// units by digit count, interprets zoneless date strings in time.Local and
// reports future timestamps as negative seconds.
type Formatter struct {
	// Clock supplies "now". Nil means the real clock.
	Clock clockwork.Clock

	// EpochUnit controls how numeric inputs are interpreted.
	EpochUnit EpochUnit

	// ClampFuture reports timestamps later than now as "0 seconds ago"
	// instead of a negative count.
	ClampFuture bool

	// Location is used for date strings that carry no zone. Nil means time.Local.
	Location *time.Location
}

// NewFormatter returns a Formatter reading the given clock.
func NewFormatter(clock clockwork.Clock) *Formatter {
	return &Formatter{Clock: clock}
}

var defaultFormatter = &Formatter{}

// Format renders input relative to the current system time using the
// default Formatter.
func Format(input any) (string, error) {
	return defaultFormatter.Format(input)
}

// Format renders input as a "time ago" label. It fails with an
// InvalidTimestamp error for unparseable strings and an InvalidInput error
// for unsupported types.
func (f *Formatter) Format(input any) (string, error) {
	ms, err := f.Millis(input)
	if err != nil {
		return "", err
	}
	return f.formatDiff(f.now().UnixMilli() - ms), nil
}

// FormatTime renders t relative to now.
func (f *Formatter) FormatTime(t time.Time) string {
	return f.formatDiff(f.now().UnixMilli() - t.UnixMilli())
}

// FormatElapsed renders an already computed elapsed duration.
func (f *Formatter) FormatElapsed(d time.Duration) string {
	return f.formatDiff(d.Milliseconds())
}

// Now returns the formatter's notion of the current time.
func (f *Formatter) Now() time.Time {
	return f.now()
}

func (f *Formatter) now() time.Time {
	if f.Clock == nil {
		return time.Now()
	}
	return f.Clock.Now()
}

func (f *Formatter) location() *time.Location {
	if f.Location == nil {
		return time.Local
	}
	return f.Location
}

func (f *Formatter) formatDiff(diffMs int64) string {
	if diffMs < 0 && f.ClampFuture {
		diffMs = 0
	}
	n, unit := Elapsed(diffMs)
	return label(n, unit)
}

// Elapsed buckets an elapsed time in milliseconds into a magnitude and unit.
// Every derived quantity uses floor division, so negative input yields a
// negative number of seconds.
func Elapsed(diffMs int64) (int64, Unit) {
	seconds := floorDiv(diffMs, 1000)
	minutes := floorDiv(seconds, 60)
	hours := floorDiv(minutes, 60)
	days := floorDiv(hours, 24)
	weeks := floorDiv(days, 7)
	months := floorDiv(days, 30)
	years := floorDiv(days, 365)

	switch {
	case seconds < 60:
		return seconds, Second
	case minutes < 60:
		return minutes, Minute
	case hours < 24:
		return hours, Hour
	case days < 7:
		return days, Day
	case weeks < 4:
		return weeks, Week
	case months < 12:
		return months, Month
	default:
		return years, Year
	}
}

func label(n int64, unit Unit) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d %s", n, unit)
	if n != 1 {
		b.WriteByte('s')
	}
	b.WriteString(" ago")
	return b.String()
}

// floorDiv divides rounding toward negative infinity. b must be positive.
func floorDiv(a, b int64) int64 {
	q := a / b
	if a%b != 0 && a < 0 {
		q--
	}
	return q
}

func invalidInput(input any) error {
	return berrors.InvalidInput("invalid input for time ago: unsupported type %T", input).
		WithSuggestion("Pass a date string, an epoch number or a time.Time.")
}
