// Package posixtz parses the POSIX TZ environment-variable grammar used
// as the fallback rule for wall-time beyond a TZif's last transition.
//
//	TZ      := STD OFF [ DST [OFF] [ , RULE , RULE ] ]
//	STD,DST := <anything> | [A-Za-z]{3,}
//	OFF     := [+-]?HH[:MM[:SS]]
//	RULE    := JD | D | Mm.w.d, each optionally followed by /TIME
//	TIME    := [+-]?HH[:MM[:SS]]  with HH up to 167
package posixtz

import "fmt"

// RuleKind distinguishes the three POSIX transition-rule forms.
type RuleKind int

const (
	// JulianNoLeap is "Jn": day 1..365, February 29th never counted,
	// even in leap years.
	JulianNoLeap RuleKind = iota
	// JulianZero is "n": day 0..365, counted with leap days included.
	JulianZero
	// MonthWeekDay is "Mm.w.d": the d'th weekday of the w'th week of
	// month m (w=5 means "last").
	MonthWeekDay
)

// Rule is one parsed transition rule (the start or end of DST).
type Rule struct {
	Kind           RuleKind
	N              int // day ordinal, for JulianNoLeap/JulianZero
	Month, Week, Day int // for MonthWeekDay: month 1..12, week 1..5, day 0..6 (0=Sunday)
	TimeSecs       int // seconds after local midnight, may be negative or exceed a day
}

// TZ is a parsed POSIX TZ string: either a fixed offset (no DST) or a
// std/dst pair with a pair of year-resolved transition rules.
type TZ struct {
	StdName   string
	StdOffset int // actual UTC offset in seconds (east positive), i.e. -raw
	HasDST    bool
	DstName   string
	DstOffset int
	Start, End Rule
}

// Parse parses a POSIX TZ string.
func Parse(s string) (TZ, error) {
	sc := &scanner{b: []byte(s)}

	stdName, ok := parseName(sc)
	if !ok {
		return TZ{}, fmt.Errorf("posixtz: missing STD name in %q", s)
	}
	stdRaw, ok := parseOffset(sc, 24*3600)
	if !ok {
		return TZ{}, fmt.Errorf("posixtz: missing STD offset in %q", s)
	}
	tz := TZ{StdName: stdName, StdOffset: -stdRaw}

	if sc.isDone() {
		return tz, nil
	}

	dstName, ok := parseName(sc)
	if !ok {
		return TZ{}, fmt.Errorf("posixtz: malformed DST name in %q", s)
	}
	tz.HasDST = true
	tz.DstName = dstName

	if dstRaw, ok := parseOffset(sc, 24*3600); ok {
		tz.DstOffset = -dstRaw
	} else {
		// Default DST offset is one hour ahead of STD (raw value minus
		// one hour).
		tz.DstOffset = tz.StdOffset + 3600
	}

	if !sc.advanceOn(',') {
		// A DST abbreviation with no rules defers entirely to the
		// embedded TZif transitions; record a zero-value rule pair.
		return tz, nil
	}
	start, ok := parseRule(sc)
	if !ok {
		return TZ{}, fmt.Errorf("posixtz: malformed start rule in %q", s)
	}
	if !sc.advanceOn(',') {
		return TZ{}, fmt.Errorf("posixtz: missing end rule in %q", s)
	}
	end, ok := parseRule(sc)
	if !ok {
		return TZ{}, fmt.Errorf("posixtz: malformed end rule in %q", s)
	}
	tz.Start, tz.End = start, end
	if !sc.isDone() {
		return TZ{}, fmt.Errorf("posixtz: trailing garbage in %q", s)
	}
	return tz, nil
}

// scanner is a tiny byte cursor, private to this package (the sibling
// root-package scanner is not reused across the internal/ boundary to
// keep posixtz standalone and import-free of the parent module).
type scanner struct {
	b   []byte
	pos int
}

func (s *scanner) peek() (byte, bool) {
	if s.pos >= len(s.b) {
		return 0, false
	}
	return s.b[s.pos], true
}

func (s *scanner) next() (byte, bool) {
	c, ok := s.peek()
	if ok {
		s.pos++
	}
	return c, ok
}

func (s *scanner) advanceOn(c byte) bool {
	if v, ok := s.peek(); ok && v == c {
		s.pos++
		return true
	}
	return false
}

func (s *scanner) isDone() bool { return s.pos >= len(s.b) }

func (s *scanner) digits(max int) (int, int, bool) {
	v, n := 0, 0
	for n < max {
		c, ok := s.peek()
		if !ok || c < '0' || c > '9' {
			break
		}
		v = v*10 + int(c-'0')
		n++
		s.pos++
	}
	return v, n, n > 0
}

// parseName reads either a quoted <anything> name or a bare run of at
// least 3 letters.
func parseName(s *scanner) (string, bool) {
	if s.advanceOn('<') {
		start := s.pos
		for {
			c, ok := s.next()
			if !ok {
				return "", false
			}
			if c == '>' {
				return string(s.b[start : s.pos-1]), true
			}
		}
	}
	start := s.pos
	for {
		c, ok := s.peek()
		if !ok || !isAlpha(c) {
			break
		}
		s.pos++
	}
	if s.pos-start < 3 {
		s.pos = start
		return "", false
	}
	return string(s.b[start:s.pos]), true
}

func isAlpha(c byte) bool {
	return (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')
}

// parseOffset reads "[+-]?HH[:MM[:SS]]", rejecting a magnitude above
// maxHourSecs seconds, returning the raw (unnegated) seconds value.
func parseOffset(s *scanner, maxHourSecs int) (int, bool) {
	save := s.pos
	neg := false
	if s.advanceOn('-') {
		neg = true
	} else {
		s.advanceOn('+')
	}
	hh, _, ok := s.digits(3)
	if !ok {
		s.pos = save
		return 0, false
	}
	secs := hh * 3600
	if s.advanceOn(':') {
		mm, _, ok := s.digits(2)
		if !ok {
			s.pos = save
			return 0, false
		}
		secs += mm * 60
		if s.advanceOn(':') {
			ss, _, ok := s.digits(2)
			if !ok {
				s.pos = save
				return 0, false
			}
			secs += ss
		}
	}
	if secs > maxHourSecs {
		s.pos = save
		return 0, false
	}
	if neg {
		secs = -secs
	}
	return secs, true
}

// parseRule reads "Jn" | "n" | "Mm.w.d", each with an optional "/TIME"
// suffix (default 02:00:00 if absent).
func parseRule(s *scanner) (Rule, bool) {
	var r Rule
	c, ok := s.peek()
	if !ok {
		return Rule{}, false
	}
	switch {
	case c == 'J':
		s.pos++
		n, _, ok := s.digits(3)
		if !ok || n < 1 || n > 365 {
			return Rule{}, false
		}
		r.Kind = JulianNoLeap
		r.N = n
	case c == 'M':
		s.pos++
		m, _, ok := s.digits(2)
		if !ok || m < 1 || m > 12 {
			return Rule{}, false
		}
		if !s.advanceOn('.') {
			return Rule{}, false
		}
		w, _, ok := s.digits(1)
		if !ok || w < 1 || w > 5 {
			return Rule{}, false
		}
		if !s.advanceOn('.') {
			return Rule{}, false
		}
		d, _, ok := s.digits(1)
		if !ok || d > 6 {
			return Rule{}, false
		}
		r.Kind = MonthWeekDay
		r.Month, r.Week, r.Day = m, w, d
	default:
		n, _, ok := s.digits(3)
		if !ok || n > 365 {
			return Rule{}, false
		}
		r.Kind = JulianZero
		r.N = n
	}

	r.TimeSecs = 2 * 3600 // default rule time is 02:00:00
	if s.advanceOn('/') {
		t, ok := parseOffset(s, 167*3600)
		if !ok {
			return Rule{}, false
		}
		r.TimeSecs = t
	}
	return r, true
}

func isLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

var daysInMonthCommon = [13]int{0, 31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}
var daysInMonthLeap = [13]int{0, 31, 29, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}
var daysBeforeMonthCommon = [13]int{0, 0, 31, 59, 90, 120, 151, 181, 212, 243, 273, 304, 334}
var daysBeforeMonthLeap = [13]int{0, 0, 31, 60, 91, 121, 152, 182, 213, 244, 274, 305, 335}

func daysInMonth(year, month int) int {
	if isLeapYear(year) {
		return daysInMonthLeap[month]
	}
	return daysInMonthCommon[month]
}

func daysBeforeMonth(year, month int) int {
	if isLeapYear(year) {
		return daysBeforeMonthLeap[month]
	}
	return daysBeforeMonthCommon[month]
}

// weekdayOfFirst returns the weekday (0=Sunday..6=Saturday) of the
// first of month in year, via Sakamoto's algorithm.
func weekdayOfFirst(year, month int) int {
	t := [12]int{0, 3, 2, 5, 0, 3, 5, 1, 4, 6, 2, 4}
	y := year
	if month < 3 {
		y--
	}
	dow := (y + y/4 - y/100 + y/400 + t[month-1] + 1) % 7
	if dow < 0 {
		dow += 7
	}
	return dow
}

// ordinalForRule resolves r to a 1-based ordinal day within year.
func ordinalForRule(year int, r Rule) int {
	switch r.Kind {
	case JulianNoLeap:
		day := r.N
		if isLeapYear(year) && day >= 60 {
			day++
		}
		return day
	case JulianZero:
		return r.N + 1
	case MonthWeekDay:
		first := weekdayOfFirst(year, r.Month)
		delta := (r.Day - first + 7) % 7
		dom := 1 + delta + (r.Week-1)*7
		if max := daysInMonth(year, r.Month); dom > max {
			dom -= 7
		}
		return daysBeforeMonth(year, r.Month) + dom
	default:
		return 1
	}
}

// daysFromCivil is Howard Hinnant's days-since-epoch formula, used only
// to resolve a rule's ordinal day into a UnixDays-equivalent count.
func daysFromCivil(year, month, day int) int64 {
	y := int64(year)
	if month <= 2 {
		y--
	}
	var era int64
	if y >= 0 {
		era = y / 400
	} else {
		era = (y - 399) / 400
	}
	yoe := y - era*400
	mp := (int64(month) + 9) % 12
	doy := (153*mp+2)/5 + int64(day) - 1
	doe := yoe*365 + yoe/4 - yoe/100 + doy
	return era*146_097 + doe - 719_468
}

// TransitionUTC returns the UTC instant (Unix epoch seconds) at which
// rule fires in year, given the UTC offset in effect immediately prior
// to the transition (rule times are wall-clock under that offset).
func (tz TZ) TransitionUTC(rule Rule, year, priorOffsetSecs int) int64 {
	ordinal := ordinalForRule(year, rule)
	unixDays := daysFromCivil(year, 1, 1) + int64(ordinal-1)
	localMidnight := unixDays * 86400
	return localMidnight + int64(rule.TimeSecs) - int64(priorOffsetSecs)
}

// OffsetsForYear returns the UTC instants at which DST starts and ends
// in year (zero if tz has no DST), plus the std/dst offsets themselves.
func (tz TZ) OffsetsForYear(year int) (startUTC, endUTC int64, stdOffset, dstOffset int) {
	if !tz.HasDST {
		return 0, 0, tz.StdOffset, tz.StdOffset
	}
	startUTC = tz.TransitionUTC(tz.Start, year, tz.StdOffset)
	endUTC = tz.TransitionUTC(tz.End, year, tz.DstOffset)
	return startUTC, endUTC, tz.StdOffset, tz.DstOffset
}

// OffsetForInstant returns the UTC offset in effect at epoch, given the
// calendar year epoch falls in (the caller resolves epoch→year using
// the root package's calendar, keeping this package date-library-free).
func (tz TZ) OffsetForInstant(epoch int64, year int) int {
	if !tz.HasDST {
		return tz.StdOffset
	}
	start, end, std, dst := tz.OffsetsForYear(year)
	if start < end {
		if epoch >= start && epoch < end {
			return dst
		}
		return std
	}
	// Southern-hemisphere case: DST wraps across the year boundary.
	if epoch >= end && epoch < start {
		return std
	}
	return dst
}
