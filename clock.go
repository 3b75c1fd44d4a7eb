package tempora

import "fmt"

// Time is a time-of-day value with nanosecond precision: hour (0..=23),
// minute (0..=59), second (0..=59) and a sub-second remainder.
type Time struct {
	hour, minute, second int8
	subsec                SubSecNanos
}

// NewTime returns the Time for hour/minute/second/subsec, or false if
// any component is out of range.
func NewTime(hour, minute, second int, subsec SubSecNanos) (Time, bool) {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 || second < 0 || second > 59 {
		return Time{}, false
	}
	if subsec < 0 || subsec >= nanosPerSec {
		return Time{}, false
	}
	return Time{hour: int8(hour), minute: int8(minute), second: int8(second), subsec: subsec}, true
}

func newTimeUnchecked(hour, minute, second int, subsec SubSecNanos) Time {
	return Time{hour: int8(hour), minute: int8(minute), second: int8(second), subsec: subsec}
}

func (t Time) Hour() int          { return int(t.hour) }
func (t Time) Minute() int        { return int(t.minute) }
func (t Time) Second() int        { return int(t.second) }
func (t Time) Subsec() SubSecNanos { return t.subsec }

// TotalNanos returns the nanosecond offset of t since midnight.
func (t Time) TotalNanos() int64 {
	return int64(t.hour)*3_600_000_000_000 +
		int64(t.minute)*60_000_000_000 +
		int64(t.second)*1_000_000_000 +
		int64(t.subsec)
}

// TimeFromTotalNanos builds a Time from a nanosecond-since-midnight
// offset in 0..86_400e9-1.
func TimeFromTotalNanos(n int64) (Time, bool) {
	if n < 0 || n >= 86_400_000_000_000 {
		return Time{}, false
	}
	subsec := SubSecNanos(n % nanosPerSec)
	secs := n / nanosPerSec
	hour := secs / 3600
	secs -= hour * 3600
	minute := secs / 60
	second := secs - minute*60
	return newTimeUnchecked(int(hour), int(minute), int(second), subsec), true
}

// Round rounds t to the nearest multiple of unit×increment within the
// 24-hour clock. The returned carry reports that rounding crossed
// midnight into the next day, in which case the Time wraps to the small
// hours. The day unit is rejected.
func (t Time) Round(unit Unit, increment int64, mode RoundMode) (Time, bool, error) {
	if unit == UnitDay {
		return Time{}, false, newError(KindOutOfRange, "Time.Round does not accept the day unit")
	}
	inc, err := unitIncrementNanos(unit, increment)
	if err != nil {
		return Time{}, false, err
	}
	rounded := roundInt64(t.TotalNanos(), inc, mode)
	if rounded >= 86_400*nanosPerSec {
		out, ok := TimeFromTotalNanos(rounded - 86_400*nanosPerSec)
		debugAssert(ok, "carried round always lands within a day")
		return out, true, nil
	}
	out, ok := TimeFromTotalNanos(rounded)
	debugAssert(ok, "in-day round always lands within a day")
	return out, false, nil
}

// Compare returns -1, 0 or 1 as t is before, equal to, or after other.
func (t Time) Compare(other Time) int {
	a, b := t.TotalNanos(), other.TotalNanos()
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func (t Time) String() string {
	out := fmt.Sprintf("%02d:%02d:%02d", t.hour, t.minute, t.second)
	return out + t.subsec.String()
}

// ParseTime parses an ISO-8601 time: extended "HH[:MM[:SS[.fff…]]]" or
// basic "HH[MM[SS[.fff…]]]", with up to 9 fractional digits.
func ParseTime(s string) (Time, error) {
	sc := newScan(s)
	t, ok := parseAll(sc, parseTime)
	if !ok {
		return Time{}, newErrorf(KindInvalidFormat, "invalid ISO-8601 time %q", s)
	}
	return t, nil
}

func parseTime(sc *scan) (Time, bool) {
	hour, ok := sc.digits00_23()
	if !ok {
		return Time{}, false
	}
	extended := sc.advanceOn(':')

	minute := 0
	second := 0
	var subsec SubSecNanos

	if m, ok := sc.digits00_59(); ok {
		minute = m
	} else if extended {
		return Time{}, false
	} else {
		return newTimeUnchecked(hour, 0, 0, 0), true
	}

	if extended {
		if !sc.advanceOn(':') {
			return newTimeUnchecked(hour, minute, 0, 0), true
		}
	}
	if s, ok := sc.digits00_59(); ok {
		second = s
	} else if extended {
		return Time{}, false
	} else {
		return newTimeUnchecked(hour, minute, 0, 0), true
	}

	if sc.advanceOn('.') || sc.advanceOn(',') {
		value, count, ok := sc.upTo(9)
		if !ok {
			return Time{}, false
		}
		for ; count < 9; count++ {
			value *= 10
		}
		subsec = SubSecNanos(value)
	}

	return newTimeUnchecked(hour, minute, second, subsec), true
}
