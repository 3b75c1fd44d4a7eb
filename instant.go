package tempora

import "fmt"

// Instant is an exact point on the UTC timeline: a count of seconds
// since the Unix epoch plus a nanosecond remainder, bounded to the
// 0001-01-01..9999-12-31 range.
type Instant struct {
	secs   EpochSecs
	subsec SubSecNanos
}

// InstantFromDatetime composes d and t (interpreted as UTC) into an
// Instant.
func InstantFromDatetime(d Date, t Time) (Instant, error) {
	secs, ok := NewEpochSecs(int64(d.UnixDays())*86400 + t.TotalNanos()/nanosPerSec)
	if !ok {
		return Instant{}, newError(KindOutOfRange, "datetime outside the supported range")
	}
	return Instant{secs: secs, subsec: SubSecNanos(t.TotalNanos() % nanosPerSec)}, nil
}

// ToDatetime splits i back into its UTC calendar date and time.
func (i Instant) ToDatetime() (Date, Time) {
	days := floorDivInt64(int64(i.secs), 86400)
	secOfDay := int64(i.secs) - days*86400
	date := DateFromUnixDays(UnixDays(days))
	t, ok := TimeFromTotalNanos(secOfDay*nanosPerSec + int64(i.subsec))
	debugAssert(ok, "instant decomposes to an in-range time of day")
	return date, t
}

// InstantFromTimestamp returns the Instant secs seconds after the Unix
// epoch.
func InstantFromTimestamp(secs int64) (Instant, error) {
	s, ok := NewEpochSecs(secs)
	if !ok {
		return Instant{}, newError(KindOutOfRange, "timestamp outside the supported range")
	}
	return Instant{secs: s}, nil
}

// InstantFromTimestampMillis returns the Instant ms milliseconds after
// the Unix epoch.
func InstantFromTimestampMillis(ms int64) (Instant, error) {
	secs := floorDivInt64(ms, 1000)
	rem := ms - secs*1000
	s, ok := NewEpochSecs(secs)
	if !ok {
		return Instant{}, newError(KindOutOfRange, "timestamp outside the supported range")
	}
	return Instant{secs: s, subsec: SubSecNanos(rem * 1_000_000)}, nil
}

// InstantFromTimestampNanos returns the Instant ns nanoseconds after
// the Unix epoch.
func InstantFromTimestampNanos(ns int64) (Instant, error) {
	secs := floorDivInt64(ns, nanosPerSec)
	rem := ns - secs*nanosPerSec
	s, ok := NewEpochSecs(secs)
	if !ok {
		return Instant{}, newError(KindOutOfRange, "timestamp outside the supported range")
	}
	return Instant{secs: s, subsec: SubSecNanos(rem)}, nil
}

// InstantFromTimestampF64 returns the Instant f seconds (with fractional
// sub-second precision) after the Unix epoch.
func InstantFromTimestampF64(f float64) (Instant, error) {
	whole := int64(f)
	if float64(whole) > f {
		whole--
	}
	s, ok := NewEpochSecs(whole)
	if !ok {
		return Instant{}, newError(KindOutOfRange, "timestamp outside the supported range")
	}
	return Instant{secs: s, subsec: SubSecNanosFromFract(f)}, nil
}

// UnixSeconds returns the whole-second Unix timestamp of i, truncating
// any sub-second remainder.
func (i Instant) UnixSeconds() int64 { return int64(i.secs) }

// Subsec returns i's sub-second nanosecond remainder.
func (i Instant) Subsec() SubSecNanos { return i.subsec }

// Shift returns i offset by d, failing on overflow past the supported
// range.
func (i Instant) Shift(d TimeDelta) (Instant, error) {
	carry, subsec := i.subsec.Add(d.subsec)
	total, under, over := addInt64(int64(i.secs), int64(d.secs))
	if under || over {
		return Instant{}, newError(KindOutOfRange, "instant shift overflows")
	}
	total, under, over = addInt64(total, int64(carry))
	if under || over {
		return Instant{}, newError(KindOutOfRange, "instant shift overflows")
	}
	secs, ok := NewEpochSecs(total)
	if !ok {
		return Instant{}, newError(KindOutOfRange, "instant shift outside the supported range")
	}
	return Instant{secs: secs, subsec: subsec}, nil
}

// Diff returns the TimeDelta i-other.
func (i Instant) Diff(other Instant) TimeDelta {
	carry, subsec := i.subsec.Diff(other.subsec)
	secs := int64(i.secs) - int64(other.secs) + int64(carry)
	td, err := NewTimeDelta(secs, int64(subsec))
	debugAssert(err == nil, "instant difference always fits TimeDelta")
	return td
}

// Round rounds i to the nearest multiple of unit×increment. The day
// unit is rejected: Instant has no notion of calendar boundaries to
// round against.
func (i Instant) Round(unit Unit, increment int64, mode RoundMode) (Instant, error) {
	if unit == UnitDay {
		return Instant{}, newError(KindOutOfRange, "Instant.Round does not accept the day unit")
	}
	inc, err := unitIncrementNanos(unit, increment)
	if err != nil {
		return Instant{}, err
	}
	td, err := NewTimeDelta(int64(i.secs), int64(i.subsec))
	if err != nil {
		return Instant{}, err
	}
	rounded, err := td.roundNanos(inc, mode)
	if err != nil {
		return Instant{}, err
	}
	secs, ok := NewEpochSecs(int64(rounded.secs))
	if !ok {
		return Instant{}, newError(KindOutOfRange, "rounded instant outside the supported range")
	}
	return Instant{secs: secs, subsec: rounded.subsec}, nil
}

func (i Instant) String() string {
	d, t := i.ToDatetime()
	return fmt.Sprintf("%sT%sZ", d.String(), t.String())
}

// ParseInstant parses an ISO-8601 datetime with a required offset
// suffix ("Z" or a numeric offset) and normalises it to the UTC
// timeline.
func ParseInstant(s string) (Instant, error) {
	o, err := ParseOffsetDateTime(s)
	if err != nil {
		return Instant{}, err
	}
	return o.Instant()
}
