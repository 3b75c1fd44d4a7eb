package tempora

import "strings"

var rfc2822Weekdays = [7][]byte{
	[]byte("Mon"), []byte("Tue"), []byte("Wed"), []byte("Thu"),
	[]byte("Fri"), []byte("Sat"), []byte("Sun"),
}

var rfc2822Months = [12][]byte{
	[]byte("Jan"), []byte("Feb"), []byte("Mar"), []byte("Apr"),
	[]byte("May"), []byte("Jun"), []byte("Jul"), []byte("Aug"),
	[]byte("Sep"), []byte("Oct"), []byte("Nov"), []byte("Dec"),
}

// FormatRFC2822 renders d in the fixed 31-byte RFC-2822 template
// "Dow, DD Mon YYYY HH:MM:SS ±HHMM" (offset to minute precision,
// seconds dropped).
func FormatRFC2822(d OffsetDateTime) string {
	buf := make([]byte, 31)
	for i := range buf {
		buf[i] = ' '
	}
	copy(buf[0:3], rfc2822Weekdays[int(d.date.DayOfWeek())-1])
	buf[3] = ','
	write2Digits(buf[5:7], int(d.date.day))
	copy(buf[8:11], rfc2822Months[int(d.date.month)-1])
	write4Digits(buf[12:16], int(d.date.year))
	write2Digits(buf[17:19], d.time.Hour())
	buf[19] = ':'
	write2Digits(buf[20:22], d.time.Minute())
	buf[22] = ':'
	write2Digits(buf[23:25], d.time.Second())
	offsetSecs := d.offset.Get()
	if offsetSecs >= 0 {
		buf[26] = '+'
	} else {
		buf[26] = '-'
		offsetSecs = -offsetSecs
	}
	write2Digits(buf[27:29], offsetSecs/3600)
	write2Digits(buf[29:31], (offsetSecs%3600)/60)
	return string(buf)
}

// FormatRFC2822GMT renders i (an absolute instant) in the same template
// with a literal "GMT" zone designator.
func FormatRFC2822GMT(i Instant) string {
	date, time := i.ToDatetime()
	buf := make([]byte, 29)
	for idx := range buf {
		buf[idx] = ' '
	}
	copy(buf[0:3], rfc2822Weekdays[int(date.DayOfWeek())-1])
	buf[3] = ','
	write2Digits(buf[5:7], date.Day())
	copy(buf[8:11], rfc2822Months[int(date.month)-1])
	write4Digits(buf[12:16], int(date.year))
	write2Digits(buf[17:19], time.Hour())
	buf[19] = ':'
	write2Digits(buf[20:22], time.Minute())
	buf[22] = ':'
	write2Digits(buf[23:25], time.Second())
	copy(buf[26:29], "GMT")
	return string(buf)
}

func write2Digits(buf []byte, n int) {
	buf[0] = byte(n/10) + '0'
	buf[1] = byte(n%10) + '0'
}

func write4Digits(buf []byte, n int) {
	buf[0] = byte(n/1000) + '0'
	buf[1] = byte(n/100%10) + '0'
	buf[2] = byte(n/10%10) + '0'
	buf[3] = byte(n%10) + '0'
}

var rfc2822NamedZones = map[string]int{
	"GMT": 0, "UT": 0,
	"EST": -5 * 3600, "EDT": -4 * 3600,
	"CST": -6 * 3600, "CDT": -5 * 3600,
	"MST": -7 * 3600, "MDT": -6 * 3600,
	"PST": -8 * 3600, "PDT": -7 * 3600,
}

// ParseRFC2822 leniently parses an RFC-2822 date-time: an optional
// weekday (case-insensitive, verified against the date if present),
// optional leading/trailing whitespace, a 2/3/4-digit year, optional
// seconds, and an offset given either numerically or as a named zone
// (unrecognised names are treated as UTC).
func ParseRFC2822(s string) (Date, Time, Offset, error) {
	sc := newScan(strings.TrimSpace(s))

	var weekdayWant Weekday
	haveWeekday := false
	if c, ok := sc.peek(); ok && isAlphaByte(c) {
		w, ok := parseRFC2822Weekday(sc)
		if !ok {
			return Date{}, Time{}, 0, newErrorf(KindInvalidFormat, "invalid RFC-2822 weekday in %q", s)
		}
		weekdayWant = w
		haveWeekday = true
		skipSpaces(sc)
	}

	day, _, ok := sc.upTo2Digits()
	if !ok {
		return Date{}, Time{}, 0, newErrorf(KindInvalidFormat, "invalid RFC-2822 day in %q", s)
	}
	skipSpaces(sc)
	monthRaw, ok := sc.take(3)
	if !ok {
		return Date{}, Time{}, 0, newErrorf(KindInvalidFormat, "invalid RFC-2822 month in %q", s)
	}
	month, ok := rfc2822Month(monthRaw)
	if !ok {
		return Date{}, Time{}, 0, newErrorf(KindInvalidFormat, "unknown RFC-2822 month %q in %q", monthRaw, s)
	}
	skipSpaces(sc)
	yearRaw := sc.takeUntil(func(b byte) bool { return b != ' ' && b != '\t' })
	year, ok := rfc2822Year(yearRaw)
	if !ok {
		return Date{}, Time{}, 0, newErrorf(KindInvalidFormat, "invalid RFC-2822 year in %q", s)
	}
	skipSpaces(sc)

	date, ok := NewDate(year, Month(month), day)
	if !ok {
		return Date{}, Time{}, 0, newErrorf(KindOutOfRange, "RFC-2822 date out of range in %q", s)
	}
	if haveWeekday && date.DayOfWeek() != weekdayWant {
		return Date{}, Time{}, 0, newErrorf(KindInvalidFormat, "RFC-2822 weekday does not match date in %q", s)
	}

	hour, ok := sc.digits00_23()
	if !ok || !sc.expect(':') {
		return Date{}, Time{}, 0, newErrorf(KindInvalidFormat, "invalid RFC-2822 time in %q", s)
	}
	minute, ok := sc.digits00_59()
	if !ok {
		return Date{}, Time{}, 0, newErrorf(KindInvalidFormat, "invalid RFC-2822 time in %q", s)
	}
	second := 0
	if sc.advanceOn(':') {
		second, ok = sc.digits00_59()
		if !ok {
			return Date{}, Time{}, 0, newErrorf(KindInvalidFormat, "invalid RFC-2822 seconds in %q", s)
		}
	}
	// Whitespace between the time and the zone is mandatory, with or
	// without seconds.
	if !skipSpaces(sc) {
		return Date{}, Time{}, 0, newErrorf(KindInvalidFormat, "missing whitespace before RFC-2822 zone in %q", s)
	}

	time, ok := NewTime(hour, minute, second, 0)
	if !ok {
		return Date{}, Time{}, 0, newErrorf(KindOutOfRange, "RFC-2822 time out of range in %q", s)
	}

	offsetSecs, ok := parseRFC2822Offset(sc)
	if !ok {
		return Date{}, Time{}, 0, newErrorf(KindInvalidFormat, "invalid RFC-2822 zone in %q", s)
	}
	offset, ok := NewOffset(offsetSecs)
	if !ok {
		return Date{}, Time{}, 0, newErrorf(KindOutOfRange, "RFC-2822 offset out of range in %q", s)
	}
	// Leading/trailing whitespace was trimmed on entry; anything left
	// after the zone is garbage, not leniency.
	if !sc.isDone() {
		return Date{}, Time{}, 0, newErrorf(KindInvalidFormat, "trailing characters in RFC-2822 value %q", s)
	}
	return date, time, offset, nil
}

func isAlphaByte(c byte) bool {
	return (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')
}

func skipSpaces(sc *scan) bool {
	advanced := false
	for {
		c, ok := sc.peek()
		if !ok || (c != ' ' && c != '\t') {
			return advanced
		}
		sc.next()
		advanced = true
	}
}

func parseRFC2822Weekday(sc *scan) (Weekday, bool) {
	raw := sc.takeUntil(func(b byte) bool { return b != ',' && b != ' ' })
	sc.advanceOn(',')
	name := strings.ToLower(string(raw))
	names := [7]string{"mon", "tue", "wed", "thu", "fri", "sat", "sun"}
	for i, n := range names {
		if strings.HasPrefix(name, n) {
			return Weekday(i + 1), true
		}
	}
	return 0, false
}

func rfc2822Month(raw []byte) (int, bool) {
	name := strings.ToLower(string(raw))
	for i, m := range rfc2822Months {
		if strings.EqualFold(name, string(m)) {
			return i + 1, true
		}
	}
	return 0, false
}

func rfc2822Year(raw []byte) (int, bool) {
	switch len(raw) {
	case 4:
		v, ok := digitsToInt(raw)
		return v, ok
	case 2:
		v, ok := digitsToInt(raw)
		if !ok {
			return 0, false
		}
		if v < 50 {
			return 2000 + v, true
		}
		return 1900 + v, true
	case 3:
		v, ok := digitsToInt(raw)
		if !ok {
			return 0, false
		}
		return 1900 + v, true
	default:
		return 0, false
	}
}

// parseRFC2822Offset reads either "±HHMM" or a named zone abbreviation,
// treating any unrecognised name as UTC (legacy RFC-822 leniency).
func parseRFC2822Offset(sc *scan) (int, bool) {
	c, ok := sc.peek()
	if !ok {
		return 0, false
	}
	if c == '+' || c == '-' {
		sc.next()
		digits, ok := sc.take(4)
		if !ok {
			return 0, false
		}
		v, ok := digitsToInt(digits)
		if !ok {
			return 0, false
		}
		hh, mm := v/100, v%100
		secs := hh*3600 + mm*60
		if c == '-' {
			secs = -secs
		}
		return secs, true
	}
	raw := sc.takeUntil(func(b byte) bool { return isAlphaByte(b) })
	name := strings.ToUpper(string(raw))
	if secs, ok := rfc2822NamedZones[name]; ok {
		return secs, true
	}
	return 0, true // unrecognised zone name: treated as UTC
}
