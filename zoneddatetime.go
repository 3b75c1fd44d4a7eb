package tempora

import "github.com/tempora-go/tempora/internal/tzif"

// Disambiguate selects how a locally-ambiguous wall-clock time (one
// that falls in a DST gap or fold) is resolved to a single instant.
type Disambiguate int

const (
	// Compatible matches the conventional behaviour of most systems:
	// Fold picks the earlier offset, Gap shifts forward by the gap size.
	Compatible Disambiguate = iota
	// Earlier always picks the earlier of the two candidate offsets.
	Earlier
	// Later always picks the later of the two candidate offsets.
	Later
	// Raise fails with SkippedTime (gap) or RepeatedTime (fold) instead
	// of guessing.
	Raise
)

// ZonedDateTime is a calendar date and time-of-day resolved against a
// TZif-backed time zone: it carries the wall reading, the offset that
// was in force, and keeps the TzRef alive for the value's lifetime.
type ZonedDateTime struct {
	date   Date
	time   Time
	offset Offset
	tz     TzRef
}

// ResolveUsingDisambiguate resolves the wall-clock (date,time) pair
// against tz, applying policy to any ambiguity, and returns the
// resulting ZonedDateTime.
func ResolveUsingDisambiguate(date Date, time Time, tz TzRef, policy Disambiguate) (ZonedDateTime, error) {
	amb := tz.ambiguityForLocal(date, time)

	switch amb.Kind {
	case tzif.Unambiguous:
		offset := mustOffset(amb.Earlier)
		return ZonedDateTime{date: date, time: time, offset: offset, tz: tz}, nil

	case tzif.Fold:
		var secs int
		switch policy {
		case Compatible, Earlier:
			secs = amb.Earlier
		case Later:
			secs = amb.Later
		case Raise:
			return ZonedDateTime{}, newErrorf(KindRepeatedTime, "%s %s is repeated under %s", date, time, tz.Key())
		}
		return ZonedDateTime{date: date, time: time, offset: mustOffset(secs), tz: tz}, nil

	case tzif.Gap:
		if policy == Raise {
			return ZonedDateTime{}, newErrorf(KindSkippedTime, "%s %s does not exist under %s", date, time, tz.Key())
		}
		// The gap's width is the difference between the two offsets;
		// shift the wall time by it and re-settle on the far side.
		gap := amb.Later - amb.Earlier
		shiftSecs := gap
		chosenOffset := amb.Later
		if policy == Earlier {
			shiftSecs = -gap
			chosenOffset = amb.Earlier
		}
		instant, err := InstantFromDatetime(date, time)
		if err != nil {
			return ZonedDateTime{}, err
		}
		shifted, err := instant.Shift(mustTimeDelta(int64(shiftSecs), 0))
		if err != nil {
			return ZonedDateTime{}, err
		}
		newDate, newTime := shifted.ToDatetime()
		return ZonedDateTime{date: newDate, time: newTime, offset: mustOffset(chosenOffset), tz: tz}, nil

	default:
		return ZonedDateTime{}, newError(KindOutOfRange, "unreachable ambiguity kind")
	}
}

func mustOffset(secs int) Offset {
	o, ok := NewOffset(secs)
	debugAssert(ok, "tzif offset always fits Offset")
	return o
}

// FromInstant resolves instant against tz — a total function, since
// every instant has exactly one offset in a given zone — and returns
// the corresponding ZonedDateTime.
func FromInstant(instant Instant, tz TzRef) (ZonedDateTime, error) {
	offset := tz.OffsetForInstant(instant.secs)
	local, err := instant.Shift(mustTimeDelta(int64(offset.Get()), 0))
	if err != nil {
		return ZonedDateTime{}, err
	}
	date, time := local.ToDatetime()
	return ZonedDateTime{date: date, time: time, offset: offset, tz: tz}, nil
}

// Local returns z's wall-clock date and time.
func (z ZonedDateTime) Local() (Date, Time) { return z.date, z.time }

// Offset returns the offset in force at z.
func (z ZonedDateTime) Offset() Offset { return z.offset }

// Tz returns the handle to the time zone backing z.
func (z ZonedDateTime) Tz() TzRef { return z.tz }

// Instant returns the absolute instant z represents.
func (z ZonedDateTime) Instant() (Instant, error) {
	local, err := InstantFromDatetime(z.date, z.time)
	if err != nil {
		return Instant{}, err
	}
	return local.Shift(mustTimeDelta(-int64(z.offset.Get()), 0))
}

// ShiftDate applies delta in local wall-clock terms, then re-resolves
// ambiguity with Compatible policy.
func (z ZonedDateTime) ShiftDate(delta DateDelta) (ZonedDateTime, error) {
	newDate, ok := z.date.Shift(delta.months, delta.days)
	if !ok {
		return ZonedDateTime{}, newError(KindOutOfRange, "date shift outside the supported range")
	}
	return ResolveUsingDisambiguate(newDate, z.time, z.tz, Compatible)
}

// ShiftTime converts z to an instant, adds delta, and projects the
// result back through tz.
func (z ZonedDateTime) ShiftTime(delta TimeDelta) (ZonedDateTime, error) {
	instant, err := z.Instant()
	if err != nil {
		return ZonedDateTime{}, err
	}
	shifted, err := instant.Shift(delta)
	if err != nil {
		return ZonedDateTime{}, err
	}
	return FromInstant(shifted, z.tz)
}

// NewZonedDateTime builds a ZonedDateTime from explicit fields,
// verifying that offset is one the zone actually produces for this wall
// reading (in a fold, either of the two repeated offsets is accepted;
// in a gap no offset is). Fails InvalidOffset otherwise.
func NewZonedDateTime(date Date, time Time, offset Offset, tz TzRef) (ZonedDateTime, error) {
	amb := tz.ambiguityForLocal(date, time)
	valid := false
	switch amb.Kind {
	case tzif.Unambiguous:
		valid = offset.Get() == amb.Earlier
	case tzif.Fold:
		valid = offset.Get() == amb.Earlier || offset.Get() == amb.Later
	case tzif.Gap:
		// A skipped wall reading has no offset under which it exists.
	}
	if !valid {
		return ZonedDateTime{}, newErrorf(KindInvalidOffset,
			"offset %s is not valid for %s %s under %s", offset, date, time, tz.Key())
	}
	return ZonedDateTime{date: date, time: time, offset: offset, tz: tz}, nil
}

// Sub returns the TimeDelta z-other, computed via the underlying
// instants so the two zones need not match.
func (z ZonedDateTime) Sub(other ZonedDateTime) (TimeDelta, error) {
	a, err := z.Instant()
	if err != nil {
		return TimeDelta{}, err
	}
	b, err := other.Instant()
	if err != nil {
		return TimeDelta{}, err
	}
	return a.Diff(b), nil
}

func (z ZonedDateTime) String() string {
	return z.date.String() + "T" + z.time.String() + z.offset.String() + "[" + z.tz.Key() + "]"
}

// ParseZonedDateTime parses an ISO-8601 datetime with an offset suffix
// immediately followed by a bracketed IANA key, e.g.
// "2023-03-02T02:09:09+01:00[Europe/Amsterdam]". The zone is resolved
// through store and the claimed offset is checked against it; the
// returned value owns a handle on the zone.
func ParseZonedDateTime(s string, store *TzStore) (ZonedDateTime, error) {
	sc := newScan(s)
	date, time, ok := parseDateTimeParts(sc)
	if !ok {
		return ZonedDateTime{}, newErrorf(KindInvalidFormat, "invalid ISO-8601 zoned datetime %q", s)
	}
	offset, ok := parseOffsetSuffix(sc)
	if !ok {
		return ZonedDateTime{}, newErrorf(KindInvalidFormat, "invalid ISO-8601 zoned datetime %q", s)
	}
	if !sc.advanceOn('[') {
		return ZonedDateTime{}, newErrorf(KindInvalidFormat, "invalid ISO-8601 zoned datetime %q", s)
	}
	key := sc.takeUntil(func(c byte) bool { return c != ']' })
	if !sc.advanceOn(']') || !sc.isDone() {
		return ZonedDateTime{}, newErrorf(KindInvalidFormat, "invalid ISO-8601 zoned datetime %q", s)
	}
	tz, err := store.Get(string(key))
	if err != nil {
		return ZonedDateTime{}, err
	}
	z, err := NewZonedDateTime(date, time, offset, tz)
	if err != nil {
		tz.Release()
		return ZonedDateTime{}, err
	}
	return z, nil
}
