package tempora

import (
	"fmt"
	"strings"
)

// DateDelta is a calendar-relative delta of months and days. months and
// days never have opposite signs.
type DateDelta struct {
	months DeltaMonths
	days   DeltaDays
}

// NewDateDelta returns the DateDelta of months/days, failing if the two
// components have opposite signs.
func NewDateDelta(months DeltaMonths, days DeltaDays) (DateDelta, error) {
	if signOf(int64(months))*signOf(int64(days)) < 0 {
		return DateDelta{}, newError(KindMixedSign, "DateDelta months and days must share a sign")
	}
	return DateDelta{months: months, days: days}, nil
}

func signOf(v int64) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}

func (d DateDelta) Months() DeltaMonths { return d.months }
func (d DateDelta) Days() DeltaDays     { return d.days }

func (d DateDelta) IsZero() bool { return d.months == 0 && d.days == 0 }

// Negate returns -d; unconditional, since the zero point is symmetric.
func (d DateDelta) Negate() DateDelta {
	return DateDelta{months: -d.months, days: -d.days}
}

// CheckedAdd adds d and other componentwise, failing on overflow of
// either component or on the result's components disagreeing in sign.
func (d DateDelta) CheckedAdd(other DateDelta) (DateDelta, error) {
	months, ok := NewDeltaMonths(int(d.months) + int(other.months))
	if !ok {
		return DateDelta{}, newError(KindOutOfRange, "DateDelta months overflow")
	}
	days, ok := NewDeltaDays(int(d.days) + int(other.days))
	if !ok {
		return DateDelta{}, newError(KindOutOfRange, "DateDelta days overflow")
	}
	return NewDateDelta(months, days)
}

// CheckedMul multiplies each component of d by factor.
func (d DateDelta) CheckedMul(factor int32) (DateDelta, error) {
	months, ok := NewDeltaMonths(int(d.months) * int(factor))
	if !ok {
		return DateDelta{}, newError(KindOutOfRange, "DateDelta months overflow")
	}
	days, ok := NewDeltaDays(int(d.days) * int(factor))
	if !ok {
		return DateDelta{}, newError(KindOutOfRange, "DateDelta days overflow")
	}
	return DateDelta{months: months, days: days}, nil
}

// FormatISO renders d in canonical ISO-8601 duration form, e.g. "P1Y2M25D".
// Weeks are never re-emitted; they are folded into days at construction.
func (d DateDelta) FormatISO() string {
	if d.IsZero() {
		return "P0D"
	}
	var b strings.Builder
	if d.months < 0 || d.days < 0 {
		b.WriteByte('-')
	}
	b.WriteByte('P')
	years, months := int64(abs32(int32(d.months)))/12, int64(abs32(int32(d.months)))%12
	if years != 0 {
		fmt.Fprintf(&b, "%dY", years)
	}
	if months != 0 {
		fmt.Fprintf(&b, "%dM", months)
	}
	if d.days != 0 {
		fmt.Fprintf(&b, "%dD", abs32(int32(d.days)))
	}
	return b.String()
}

func abs32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}

// ParseDateDelta parses the date-only portion of an ISO-8601 duration
// (a "P..." string with no time component).
func ParseDateDelta(s string) (DateDelta, error) {
	p, err := parseISODuration(s, true, false)
	if err != nil {
		return DateDelta{}, err
	}
	return p.dateDelta()
}

// TimeDelta is a duration measured in seconds and a non-negative
// sub-second remainder. MIN and MAX share a zero sub-second so that
// negation is always exact.
type TimeDelta struct {
	secs   DeltaSeconds
	subsec SubSecNanos
}

var (
	maxTimeDelta = TimeDelta{secs: maxDeltaSeconds, subsec: 0}
	minTimeDelta = TimeDelta{secs: -maxDeltaSeconds, subsec: 0}
)

// NewTimeDelta returns the TimeDelta of secs seconds plus nanos
// nanoseconds (which may be negative or >= 1e9; it is normalised so the
// stored sub-second is always non-negative).
func NewTimeDelta(secs int64, nanos int64) (TimeDelta, error) {
	extraSecs := floorDivInt64(nanos, nanosPerSec)
	rem := nanos - extraSecs*nanosPerSec
	total, under, over := addInt64(secs, extraSecs)
	if under || over {
		return TimeDelta{}, newError(KindOutOfRange, "TimeDelta seconds overflow")
	}
	ds, ok := NewDeltaSeconds(total)
	if !ok {
		return TimeDelta{}, newError(KindOutOfRange, "TimeDelta seconds out of range")
	}
	return TimeDelta{secs: ds, subsec: SubSecNanos(rem)}, nil
}

func floorDivInt64(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func (d TimeDelta) Seconds() DeltaSeconds { return d.secs }
func (d TimeDelta) Subsec() SubSecNanos   { return d.subsec }

// TotalNanos returns the exact duration as (seconds, non-negative
// subsec) — the same normalised representation used internally.
func (d TimeDelta) TotalNanos() (secs int64, subsec int32) {
	return int64(d.secs), int32(d.subsec)
}

// IsZero reports whether d represents a zero-length duration.
func (d TimeDelta) IsZero() bool { return d.secs == 0 && d.subsec == 0 }

// Negate returns -d. Exact because MIN/MAX share a zero sub-second.
func (d TimeDelta) Negate() TimeDelta {
	if d.subsec == 0 {
		return TimeDelta{secs: -d.secs, subsec: 0}
	}
	return TimeDelta{secs: -d.secs - 1, subsec: nanosPerSec - SubSecNanos(d.subsec)}
}

// CheckedAdd adds d and other, carrying sub-second overflow into
// seconds and failing if the seconds result overflows.
func (d TimeDelta) CheckedAdd(other TimeDelta) (TimeDelta, error) {
	carry, subsec := d.subsec.Add(other.subsec)
	total, under, over := addInt64(int64(d.secs), int64(other.secs))
	if under || over {
		return TimeDelta{}, newError(KindOutOfRange, "TimeDelta seconds overflow")
	}
	total, under, over = addInt64(total, int64(carry))
	if under || over {
		return TimeDelta{}, newError(KindOutOfRange, "TimeDelta seconds overflow")
	}
	secs, ok := NewDeltaSeconds(total)
	if !ok {
		return TimeDelta{}, newError(KindOutOfRange, "TimeDelta seconds out of range")
	}
	return TimeDelta{secs: secs, subsec: subsec}, nil
}

// Round rounds d to the nearest multiple of unit×increment. For a
// sub-second increment the sub-second is rounded and any carry
// propagates into seconds; otherwise the seconds are rounded directly,
// taking the sub-second remainder into account.
func (d TimeDelta) Round(unit Unit, increment int64, mode RoundMode) (TimeDelta, error) {
	inc, err := unitIncrementNanos(unit, increment)
	if err != nil {
		return TimeDelta{}, err
	}
	return d.roundNanos(inc, mode)
}

func (d TimeDelta) roundNanos(incNanos int64, mode RoundMode) (TimeDelta, error) {
	if incNanos < nanosPerSec {
		carry, subsec := d.subsec.Round(int(incNanos), mode)
		total, under, over := addInt64(int64(d.secs), int64(carry))
		if under || over {
			return TimeDelta{}, newError(KindOutOfRange, "TimeDelta seconds overflow")
		}
		secs, ok := NewDeltaSeconds(total)
		if !ok {
			return TimeDelta{}, newError(KindOutOfRange, "TimeDelta seconds out of range")
		}
		return TimeDelta{secs: secs, subsec: subsec}, nil
	}

	incSecs := incNanos / nanosPerSec
	v := int64(d.secs)
	q := floorDivInt64(v, incSecs)
	// The remainder is compared in nanoseconds so the sub-second part
	// participates: it can push the value over a Ceil or half-way
	// threshold, not just break an exact tie.
	rNanos := (v-q*incSecs)*nanosPerSec + int64(d.subsec)
	if roundUp(mode, rNanos, incNanos, q%2 == 0) {
		q++
	}
	v = q * incSecs
	secs, ok := NewDeltaSeconds(v)
	if !ok {
		return TimeDelta{}, newError(KindOutOfRange, "TimeDelta seconds out of range")
	}
	return TimeDelta{secs: secs, subsec: 0}, nil
}

// FormatISO renders d in canonical ISO-8601 duration form, e.g. "PT1H30M".
func (d TimeDelta) FormatISO() string {
	if d.IsZero() {
		return "PT0S"
	}
	var b strings.Builder
	neg := d.secs < 0
	mag := d
	if neg {
		b.WriteByte('-')
		mag = d.Negate()
	}
	secs := int64(mag.secs)
	b.WriteString("PT")
	hours := secs / 3600
	secs -= hours * 3600
	minutes := secs / 60
	secs -= minutes * 60
	if hours != 0 {
		fmt.Fprintf(&b, "%dH", hours)
	}
	if minutes != 0 {
		fmt.Fprintf(&b, "%dM", minutes)
	}
	if secs != 0 || mag.subsec != 0 || (hours == 0 && minutes == 0) {
		fmt.Fprintf(&b, "%d%sS", secs, mag.subsec.String())
	}
	return b.String()
}

// ParseTimeDelta parses the time-only portion of an ISO-8601 duration.
func ParseTimeDelta(s string) (TimeDelta, error) {
	p, err := parseISODuration(s, false, true)
	if err != nil {
		return TimeDelta{}, err
	}
	return p.timeDelta()
}

// DateTimeDelta combines a DateDelta and a TimeDelta; all three sign
// carriers (months, days, seconds) must agree.
type DateTimeDelta struct {
	ddelta DateDelta
	tdelta TimeDelta
}

// NewDateTimeDelta combines ddelta and tdelta, failing if their signs
// disagree.
func NewDateTimeDelta(ddelta DateDelta, tdelta TimeDelta) (DateTimeDelta, error) {
	signs := []int{signOf(int64(ddelta.months)), signOf(int64(ddelta.days)), signOf(int64(tdelta.secs))}
	var s int
	for _, v := range signs {
		if v == 0 {
			continue
		}
		if s == 0 {
			s = v
		} else if s != v {
			return DateTimeDelta{}, newError(KindMixedSign, "DateTimeDelta components must share a sign")
		}
	}
	return DateTimeDelta{ddelta: ddelta, tdelta: tdelta}, nil
}

func (d DateTimeDelta) Date() DateDelta { return d.ddelta }
func (d DateTimeDelta) Time() TimeDelta { return d.tdelta }

// CheckedAdd adds the date and time parts of d and other independently,
// then verifies the three sign carriers still agree.
func (d DateTimeDelta) CheckedAdd(other DateTimeDelta) (DateTimeDelta, error) {
	ddelta, err := d.ddelta.CheckedAdd(other.ddelta)
	if err != nil {
		return DateTimeDelta{}, err
	}
	tdelta, err := d.tdelta.CheckedAdd(other.tdelta)
	if err != nil {
		return DateTimeDelta{}, err
	}
	return NewDateTimeDelta(ddelta, tdelta)
}

// FormatISO renders d in canonical ISO-8601 duration form.
func (d DateTimeDelta) FormatISO() string {
	if d.ddelta.IsZero() {
		return d.tdelta.FormatISO()
	}
	date := d.ddelta.FormatISO()
	neg := strings.HasPrefix(date, "-")
	date = strings.TrimPrefix(strings.TrimPrefix(date, "-"), "P")
	if d.tdelta.IsZero() {
		if neg {
			return "-P" + date
		}
		return "P" + date
	}
	timePart := strings.TrimPrefix(d.tdelta.FormatISO(), "-")
	timePart = strings.TrimPrefix(timePart, "PT")
	sign := ""
	if neg {
		sign = "-"
	}
	return sign + "P" + date + "T" + timePart
}

// ParseDateTimeDelta parses a full ISO-8601 duration string with both
// date and time components.
func ParseDateTimeDelta(s string) (DateTimeDelta, error) {
	p, err := parseISODuration(s, true, true)
	if err != nil {
		return DateTimeDelta{}, err
	}
	dd, err := p.dateDelta()
	if err != nil {
		return DateTimeDelta{}, err
	}
	td, err := p.timeDelta()
	if err != nil {
		return DateTimeDelta{}, err
	}
	return NewDateTimeDelta(dd, td)
}

// isoDurationParts accumulates the raw component values read off an
// ISO-8601 duration string before they are combined and range-checked
// into the public delta types.
type isoDurationParts struct {
	neg                       bool
	years, months, weeks, days int64
	haveDate                   bool
	hours, minutes             int64
	seconds                    int64
	subsec                     SubSecNanos
	haveTime                   bool
}

func (p isoDurationParts) dateDelta() (DateDelta, error) {
	months := p.years*12 + p.months
	days := p.weeks*7 + p.days
	if p.neg {
		months, days = -months, -days
	}
	dm, ok := NewDeltaMonths(int(months))
	if !ok {
		return DateDelta{}, newError(KindOutOfRange, "duration months overflow")
	}
	dd, ok := NewDeltaDays(int(days))
	if !ok {
		return DateDelta{}, newError(KindOutOfRange, "duration days overflow")
	}
	return NewDateDelta(dm, dd)
}

func (p isoDurationParts) timeDelta() (TimeDelta, error) {
	secs := p.hours*3600 + p.minutes*60 + p.seconds
	subsec := p.subsec
	if p.neg {
		secs = -secs
		if subsec != 0 {
			secs--
			subsec = nanosPerSec - subsec
		}
	}
	return NewTimeDelta(secs, int64(subsec))
}

// parseISODuration parses "±P[nY][nM][nW][nD][T[nH][nM][n[.f]S]]" per
// spec.md §4.4: components must appear in order, no duplicates, at
// least one component, date components capped at 6 digits, and the
// time portion capped at 35 characters to bound accumulation.
func parseISODuration(s string, allowDate, allowTime bool) (isoDurationParts, error) {
	var p isoDurationParts
	sc := newScan(s)

	if sc.advanceOn('-') {
		p.neg = true
	} else {
		sc.advanceOn('+')
	}
	if !sc.expect('P') {
		return p, newErrorf(KindInvalidFormat, "duration %q must start with P", s)
	}

	const (
		stageYear = iota
		stageMonth
		stageWeek
		stageDay
		stageDone
	)
	stage := stageYear

	for {
		c, ok := sc.peek()
		if !ok {
			break
		}
		if c == 'T' {
			sc.next()
			break
		}
		if !allowDate {
			return p, newErrorf(KindInvalidFormat, "duration %q has an unexpected date component", s)
		}
		value, count, ok := sc.upTo(6)
		if !ok || count == 0 {
			return p, newErrorf(KindInvalidFormat, "duration %q has a malformed component", s)
		}
		unit, ok := sc.next()
		if !ok {
			return p, newErrorf(KindInvalidFormat, "duration %q is missing a unit suffix", s)
		}
		switch unit {
		case 'Y':
			if stage > stageYear {
				return p, newErrorf(KindInvalidFormat, "duration %q has out-of-order or duplicate Y", s)
			}
			p.years = int64(value)
			p.haveDate = true
			stage = stageMonth
		case 'M':
			if stage > stageMonth {
				return p, newErrorf(KindInvalidFormat, "duration %q has out-of-order or duplicate M", s)
			}
			p.months = int64(value)
			p.haveDate = true
			stage = stageWeek
		case 'W':
			if stage > stageWeek {
				return p, newErrorf(KindInvalidFormat, "duration %q has out-of-order or duplicate W", s)
			}
			p.weeks = int64(value)
			p.haveDate = true
			stage = stageDay
		case 'D':
			if stage > stageDay {
				return p, newErrorf(KindInvalidFormat, "duration %q has out-of-order or duplicate D", s)
			}
			p.days = int64(value)
			p.haveDate = true
			stage = stageDone
		default:
			return p, newErrorf(KindInvalidFormat, "duration %q has an unknown date unit %q", s, unit)
		}
	}

	if !sc.isDone() {
		if !allowTime {
			return p, newErrorf(KindInvalidFormat, "duration %q has an unexpected time component", s)
		}
		timeStart := sc.pos
		const (
			tstageHour = iota
			tstageMinute
			tstageSecond
			tstageDone
		)
		tstage := tstageHour
		for !sc.isDone() {
			if sc.pos-timeStart > 35 {
				return p, newErrorf(KindInvalidFormat, "duration %q time portion too long", s)
			}
			value, count, ok := sc.upTo(35)
			if !ok || count == 0 {
				return p, newErrorf(KindInvalidFormat, "duration %q has a malformed time component", s)
			}
			var subsec SubSecNanos
			if sc.advanceOn('.') || sc.advanceOn(',') {
				fval, fcount, ok := sc.upTo(9)
				if !ok {
					return p, newErrorf(KindInvalidFormat, "duration %q has a malformed fraction", s)
				}
				for ; fcount < 9; fcount++ {
					fval *= 10
				}
				subsec = SubSecNanos(fval)
			}
			unit, ok := sc.next()
			if !ok {
				return p, newErrorf(KindInvalidFormat, "duration %q is missing a time unit suffix", s)
			}
			switch unit {
			case 'H':
				if tstage > tstageHour || subsec != 0 {
					return p, newErrorf(KindInvalidFormat, "duration %q has out-of-order H or fraction", s)
				}
				p.hours = int64(value)
				p.haveTime = true
				tstage = tstageMinute
			case 'M':
				if tstage > tstageMinute || subsec != 0 {
					return p, newErrorf(KindInvalidFormat, "duration %q has out-of-order M or fraction", s)
				}
				p.minutes = int64(value)
				p.haveTime = true
				tstage = tstageSecond
			case 'S':
				if tstage > tstageSecond {
					return p, newErrorf(KindInvalidFormat, "duration %q has out-of-order or duplicate S", s)
				}
				p.seconds = int64(value)
				p.subsec = subsec
				p.haveTime = true
				tstage = tstageDone
			default:
				return p, newErrorf(KindInvalidFormat, "duration %q has an unknown time unit %q", s, unit)
			}
		}
	}

	if !p.haveDate && !p.haveTime {
		return p, newErrorf(KindInvalidFormat, "duration %q has no components", s)
	}
	if !sc.isDone() {
		return p, newErrorf(KindInvalidFormat, "duration %q has trailing garbage", s)
	}
	return p, nil
}
