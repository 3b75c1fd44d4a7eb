package tempora

// SystemDateTime has the same local/instant/offset contract as
// OffsetDateTime, but its offset is resolved against the host's
// configured time zone (TzStore.SystemTz) rather than a caller-supplied
// fixed offset.
type SystemDateTime struct {
	date   Date
	time   Time
	offset Offset
}

// NewSystemDateTime resolves the wall-clock (date,time) pair against
// store's system zone, applying policy to any DST ambiguity.
func NewSystemDateTime(date Date, time Time, store *TzStore, policy Disambiguate) (SystemDateTime, error) {
	tz, err := store.SystemTz()
	if err != nil {
		return SystemDateTime{}, err
	}
	defer tz.Release()
	zdt, err := ResolveUsingDisambiguate(date, time, tz, policy)
	if err != nil {
		return SystemDateTime{}, err
	}
	return SystemDateTime{date: zdt.date, time: zdt.time, offset: zdt.offset}, nil
}

// SystemDateTimeFromInstant projects instant through store's system
// zone.
func SystemDateTimeFromInstant(instant Instant, store *TzStore) (SystemDateTime, error) {
	tz, err := store.SystemTz()
	if err != nil {
		return SystemDateTime{}, err
	}
	defer tz.Release()
	zdt, err := FromInstant(instant, tz)
	if err != nil {
		return SystemDateTime{}, err
	}
	return SystemDateTime{date: zdt.date, time: zdt.time, offset: zdt.offset}, nil
}

// Local returns s's wall-clock date and time.
func (s SystemDateTime) Local() (Date, Time) { return s.date, s.time }

// Offset returns the offset that was in force when s was resolved.
func (s SystemDateTime) Offset() Offset { return s.offset }

// Instant returns the absolute instant s represents.
func (s SystemDateTime) Instant() (Instant, error) {
	local, err := InstantFromDatetime(s.date, s.time)
	if err != nil {
		return Instant{}, err
	}
	return local.Shift(mustTimeDelta(-int64(s.offset.Get()), 0))
}

// ToSystemTz re-resolves s's instant against store's current system
// zone, which may differ from the zone used to construct s if the host
// configuration or ResetSystemTz was called in between.
func (s SystemDateTime) ToSystemTz(store *TzStore) (SystemDateTime, error) {
	instant, err := s.Instant()
	if err != nil {
		return SystemDateTime{}, err
	}
	return SystemDateTimeFromInstant(instant, store)
}

func (s SystemDateTime) String() string {
	return s.date.String() + "T" + s.time.String() + s.offset.String()
}
