package tempora

// OffsetDateTime pairs a calendar date and time-of-day with a fixed
// UTC offset: the local wall reading is authoritative, the offset is
// simply attached metadata used to project to/from an Instant.
type OffsetDateTime struct {
	date   Date
	time   Time
	offset Offset
}

// NewOffsetDateTime returns the OffsetDateTime for date/time/offset.
func NewOffsetDateTime(date Date, time Time, offset Offset) OffsetDateTime {
	return OffsetDateTime{date: date, time: time, offset: offset}
}

// Local returns o's wall-clock date and time, ignoring the offset.
func (o OffsetDateTime) Local() (Date, Time) { return o.date, o.time }

// Offset returns o's fixed UTC offset.
func (o OffsetDateTime) Offset() Offset { return o.offset }

// Instant returns the absolute instant o represents: the local wall
// time minus the offset.
func (o OffsetDateTime) Instant() (Instant, error) {
	local, err := InstantFromDatetime(o.date, o.time)
	if err != nil {
		return Instant{}, err
	}
	shift, err := NewTimeDelta(-int64(o.offset.Get()), 0)
	if err != nil {
		return Instant{}, err
	}
	return local.Shift(shift)
}

// In returns o re-expressed at offset, preserving the instant.
func (o OffsetDateTime) In(offset Offset) (OffsetDateTime, error) {
	instant, err := o.Instant()
	if err != nil {
		return OffsetDateTime{}, err
	}
	return offsetDateTimeFromInstant(instant, offset)
}

// UTC is shorthand for o.In(the zero Offset).
func (o OffsetDateTime) UTC() (OffsetDateTime, error) {
	return o.In(0)
}

func offsetDateTimeFromInstant(instant Instant, offset Offset) (OffsetDateTime, error) {
	shifted, err := instant.Shift(mustTimeDelta(int64(offset.Get()), 0))
	if err != nil {
		return OffsetDateTime{}, err
	}
	date, time := shifted.ToDatetime()
	return OffsetDateTime{date: date, time: time, offset: offset}, nil
}

func mustTimeDelta(secs, nanos int64) TimeDelta {
	td, err := NewTimeDelta(secs, nanos)
	debugAssert(err == nil, "offset-sized TimeDelta always constructs")
	return td
}

// Sub returns the TimeDelta o-other, computed via the underlying
// instants so the two offsets need not match.
func (o OffsetDateTime) Sub(other OffsetDateTime) (TimeDelta, error) {
	a, err := o.Instant()
	if err != nil {
		return TimeDelta{}, err
	}
	b, err := other.Instant()
	if err != nil {
		return TimeDelta{}, err
	}
	return a.Diff(b), nil
}

// Compare orders o and other by the instants they represent.
func (o OffsetDateTime) Compare(other OffsetDateTime) (int, error) {
	a, err := o.Instant()
	if err != nil {
		return 0, err
	}
	b, err := other.Instant()
	if err != nil {
		return 0, err
	}
	d := a.Diff(b)
	switch {
	case d.secs < 0:
		return -1, nil
	case d.secs == 0 && d.subsec == 0:
		return 0, nil
	default:
		return 1, nil
	}
}

func (o OffsetDateTime) String() string {
	return o.date.String() + "T" + o.time.String() + o.offset.String()
}

// ParseOffsetDateTime parses an ISO-8601 datetime with a required
// offset suffix: "Z"/"z" for zero, or "±HH:MM[:SS]" / "±HHMM[SS]".
func ParseOffsetDateTime(s string) (OffsetDateTime, error) {
	sc := newScan(s)
	o, ok := parseAll(sc, parseOffsetDateTime)
	if !ok {
		return OffsetDateTime{}, newErrorf(KindInvalidFormat, "invalid ISO-8601 offset datetime %q", s)
	}
	if _, err := o.Instant(); err != nil {
		return OffsetDateTime{}, err
	}
	return o, nil
}

func parseOffsetDateTime(sc *scan) (OffsetDateTime, bool) {
	date, time, ok := parseDateTimeParts(sc)
	if !ok {
		return OffsetDateTime{}, false
	}
	offset, ok := parseOffsetSuffix(sc)
	if !ok {
		return OffsetDateTime{}, false
	}
	return OffsetDateTime{date: date, time: time, offset: offset}, true
}

func parseOffsetSuffix(sc *scan) (Offset, bool) {
	if sc.advanceOn('Z') || sc.advanceOn('z') {
		return 0, true
	}
	sign, ok := sc.next()
	if !ok || (sign != '+' && sign != '-') {
		return 0, false
	}
	hour, ok := sc.digits00_23()
	if !ok {
		return 0, false
	}
	extended := sc.advanceOn(':')
	minute, ok := sc.digits00_59()
	if !ok {
		return 0, false
	}
	second := 0
	if extended {
		if sc.advanceOn(':') {
			second, ok = sc.digits00_59()
			if !ok {
				return 0, false
			}
		}
	} else if v, ok := sc.digits00_59(); ok {
		second = v
	}
	secs := hour*3600 + minute*60 + second
	if sign == '-' {
		secs = -secs
	}
	o, ok := NewOffset(secs)
	return o, ok
}
