package posixtz_test

import (
	"testing"

	"github.com/tempora-go/tempora/internal/posixtz"
)

func TestParse_FixedOffsetNoDST(t *testing.T) {
	tz, err := posixtz.Parse("UTC0")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if tz.StdName != "UTC" {
		t.Errorf("StdName = %q, want UTC", tz.StdName)
	}
	if tz.StdOffset != 0 {
		t.Errorf("StdOffset = %d, want 0", tz.StdOffset)
	}
	if tz.HasDST {
		t.Errorf("HasDST = true, want false")
	}
}

func TestParse_WestPositiveOffsetSign(t *testing.T) {
	// "EST5" means standard time is 5 hours *behind* UTC, so the actual
	// UTC offset (east positive) must be -5h, the negation of the raw
	// west-positive POSIX value.
	tz, err := posixtz.Parse("EST5EDT,M3.2.0,M11.1.0")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if tz.StdOffset != -5*3600 {
		t.Errorf("StdOffset = %d, want %d", tz.StdOffset, -5*3600)
	}
	if !tz.HasDST {
		t.Fatalf("HasDST = false, want true")
	}
	if tz.DstOffset != -4*3600 {
		t.Errorf("DstOffset = %d, want %d (default std+1h)", tz.DstOffset, -4*3600)
	}
	if tz.Start.Kind != posixtz.MonthWeekDay || tz.Start.Month != 3 || tz.Start.Week != 2 || tz.Start.Day != 0 {
		t.Errorf("Start rule = %+v, want M3.2.0", tz.Start)
	}
	if tz.End.Kind != posixtz.MonthWeekDay || tz.End.Month != 11 || tz.End.Week != 1 || tz.End.Day != 0 {
		t.Errorf("End rule = %+v, want M11.1.0", tz.End)
	}
	// Default rule time is 02:00:00 local.
	if tz.Start.TimeSecs != 2*3600 || tz.End.TimeSecs != 2*3600 {
		t.Errorf("default rule times = %d/%d, want 7200/7200", tz.Start.TimeSecs, tz.End.TimeSecs)
	}
}

func TestParse_JulianRules(t *testing.T) {
	tz, err := posixtz.Parse("XST-1XDT,J60/3,J300/1:30")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if tz.Start.Kind != posixtz.JulianNoLeap || tz.Start.N != 60 {
		t.Errorf("Start = %+v, want JulianNoLeap 60", tz.Start)
	}
	if tz.Start.TimeSecs != 3*3600 {
		t.Errorf("Start time = %d, want %d", tz.Start.TimeSecs, 3*3600)
	}
	if tz.End.Kind != posixtz.JulianNoLeap || tz.End.N != 300 {
		t.Errorf("End = %+v, want JulianNoLeap 300", tz.End)
	}
	if tz.End.TimeSecs != 1*3600+30*60 {
		t.Errorf("End time = %d, want %d", tz.End.TimeSecs, 1*3600+30*60)
	}
}

func TestParse_ZeroBasedJulianRule(t *testing.T) {
	tz, err := posixtz.Parse("XST-1XDT,0,364")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if tz.Start.Kind != posixtz.JulianZero || tz.Start.N != 0 {
		t.Errorf("Start = %+v, want JulianZero 0", tz.Start)
	}
}

func TestParse_QuotedNames(t *testing.T) {
	tz, err := posixtz.Parse("<+05>-5")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if tz.StdName != "+05" {
		t.Errorf("StdName = %q, want +05", tz.StdName)
	}
	if tz.StdOffset != 5*3600 {
		t.Errorf("StdOffset = %d, want %d", tz.StdOffset, 5*3600)
	}
}

func TestParse_RejectsEmpty(t *testing.T) {
	if _, err := posixtz.Parse(""); err == nil {
		t.Errorf("Parse(\"\") succeeded, want error")
	}
}

func TestTZ_OffsetForInstant_NorthernHemisphere(t *testing.T) {
	tz, err := posixtz.Parse("PST8PDT,M3.2.0,M11.1.0")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	// 2024-01-15 is standard time (PST, UTC-8).
	janDays := daysFromCivilForTest(2024, 1, 15)
	if off := tz.OffsetForInstant(janDays*86400+12*3600, 2024); off != -8*3600 {
		t.Errorf("January offset = %d, want %d", off, -8*3600)
	}
	// 2024-07-15 is daylight time (PDT, UTC-7).
	julDays := daysFromCivilForTest(2024, 7, 15)
	if off := tz.OffsetForInstant(julDays*86400+12*3600, 2024); off != -7*3600 {
		t.Errorf("July offset = %d, want %d", off, -7*3600)
	}
}

func daysFromCivilForTest(y, m, d int) int64 {
	y -= boolToInt(m <= 2)
	era := y
	if era < 0 {
		era -= 399
	}
	era /= 400
	yoe := y - era*400
	mp := (m + 9) % 12
	doy := (153*mp+2)/5 + d - 1
	doe := yoe*365 + yoe/4 - yoe/100 + doy
	return int64(era)*146097 + int64(doe) - 719468
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
