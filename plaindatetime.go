package tempora

// PlainDateTime is a naive calendar date and time-of-day with no
// attached offset or zone. Shifting by a DateDelta is always safe
// (calendar arithmetic has no DST concept); shifting or diffing with
// wall-clock time requires the caller to explicitly acknowledge that
// DST transitions are being ignored.
type PlainDateTime struct {
	date Date
	time Time
}

// NewPlainDateTime returns the PlainDateTime for date/time.
func NewPlainDateTime(date Date, time Time) PlainDateTime {
	return PlainDateTime{date: date, time: time}
}

// Date returns p's date component.
func (p PlainDateTime) Date() Date { return p.date }

// Time returns p's time-of-day component.
func (p PlainDateTime) Time() Time { return p.time }

// ShiftDate applies delta in calendar terms; this never touches
// wall-clock time and so carries no DST ambiguity.
func (p PlainDateTime) ShiftDate(delta DateDelta) (PlainDateTime, error) {
	date, ok := p.date.Shift(delta.months, delta.days)
	if !ok {
		return PlainDateTime{}, newError(KindOutOfRange, "date shift outside the supported range")
	}
	return PlainDateTime{date: date, time: p.time}, nil
}

// ShiftTime shifts p by a TimeDelta, treating the calendar and clock
// as a flat timeline (no DST). Since this can silently produce the
// wrong wall time across an actual DST boundary, the caller must pass
// ignoreDST=true to acknowledge that; otherwise it fails
// ImplicitlyIgnoringDST.
func (p PlainDateTime) ShiftTime(delta TimeDelta, ignoreDST bool) (PlainDateTime, error) {
	if !ignoreDST {
		return PlainDateTime{}, newError(KindImplicitlyIgnoringDST,
			"PlainDateTime.ShiftTime requires ignoreDST=true")
	}
	instant, err := InstantFromDatetime(p.date, p.time)
	if err != nil {
		return PlainDateTime{}, err
	}
	shifted, err := instant.Shift(delta)
	if err != nil {
		return PlainDateTime{}, err
	}
	date, time := shifted.ToDatetime()
	return PlainDateTime{date: date, time: time}, nil
}

// ShiftDateTime applies delta.Date() then delta.Time(), both subject to
// the same ignoreDST requirement as ShiftTime whenever delta carries a
// non-zero time component.
func (p PlainDateTime) ShiftDateTime(delta DateTimeDelta, ignoreDST bool) (PlainDateTime, error) {
	out, err := p.ShiftDate(delta.ddelta)
	if err != nil {
		return PlainDateTime{}, err
	}
	if delta.tdelta.IsZero() {
		return out, nil
	}
	return out.ShiftTime(delta.tdelta, ignoreDST)
}

// Diff returns p-other as a TimeDelta, requiring ignoreDST=true for the
// same reason as ShiftTime.
func (p PlainDateTime) Diff(other PlainDateTime, ignoreDST bool) (TimeDelta, error) {
	if !ignoreDST {
		return TimeDelta{}, newError(KindImplicitlyIgnoringDST,
			"PlainDateTime.Diff requires ignoreDST=true")
	}
	a, err := InstantFromDatetime(p.date, p.time)
	if err != nil {
		return TimeDelta{}, err
	}
	b, err := InstantFromDatetime(other.date, other.time)
	if err != nil {
		return TimeDelta{}, err
	}
	return a.Diff(b), nil
}

// Round rounds p's time-of-day to the nearest multiple of
// unit×increment, carrying the date forward a day when rounding crosses
// midnight. Unlike Time.Round the day unit is accepted: it snaps p to
// the nearest midnight.
func (p PlainDateTime) Round(unit Unit, increment int64, mode RoundMode) (PlainDateTime, error) {
	incNanos, err := unitIncrementNanos(unit, increment)
	if err != nil {
		return PlainDateTime{}, err
	}
	total := p.time.TotalNanos()
	rounded := roundInt64(total, incNanos, mode)
	if rounded >= 86_400*nanosPerSec {
		tomorrow, ok := p.date.Tomorrow()
		if !ok {
			return PlainDateTime{}, newError(KindOutOfRange, "rounding carries past the supported date range")
		}
		t, ok := TimeFromTotalNanos(rounded - 86_400*nanosPerSec)
		debugAssert(ok, "carried round always lands within a day")
		return PlainDateTime{date: tomorrow, time: t}, nil
	}
	t, ok := TimeFromTotalNanos(rounded)
	debugAssert(ok, "in-day round always lands within a day")
	return PlainDateTime{date: p.date, time: t}, nil
}

func (p PlainDateTime) Compare(other PlainDateTime) int {
	if c := p.date.Compare(other.date); c != 0 {
		return c
	}
	return p.time.Compare(other.time)
}

func (p PlainDateTime) String() string {
	return p.date.String() + "T" + p.time.String()
}

// ParsePlainDateTime parses an ISO-8601 datetime with no offset or zone
// suffix: "<date><sep><time>" where sep is 'T', 't' or a space.
func ParsePlainDateTime(s string) (PlainDateTime, error) {
	sc := newScan(s)
	p, ok := parseAll(sc, parsePlainDateTime)
	if !ok {
		return PlainDateTime{}, newErrorf(KindInvalidFormat, "invalid ISO-8601 datetime %q", s)
	}
	return p, nil
}

func parsePlainDateTime(sc *scan) (PlainDateTime, bool) {
	date, time, ok := parseDateTimeParts(sc)
	if !ok {
		return PlainDateTime{}, false
	}
	return PlainDateTime{date: date, time: time}, true
}

func parseDateTimeParts(sc *scan) (Date, Time, bool) {
	date, ok := parseDate(sc)
	if !ok {
		return Date{}, Time{}, false
	}
	sep, ok := sc.next()
	if !ok || (sep != 'T' && sep != 't' && sep != ' ') {
		return Date{}, Time{}, false
	}
	time, ok := parseTime(sc)
	if !ok {
		return Date{}, Time{}, false
	}
	return date, time, true
}
