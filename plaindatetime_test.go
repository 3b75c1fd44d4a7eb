package tempora_test

import (
	"testing"

	"github.com/tempora-go/tempora"
)

func TestPlainDateTime_ShiftTimeRequiresIgnoreDST(t *testing.T) {
	date, _ := tempora.NewDate(2024, tempora.March, 10)
	time, _ := tempora.NewTime(1, 0, 0, 0)
	p := tempora.NewPlainDateTime(date, time)
	delta, _ := tempora.NewTimeDelta(3600, 0)

	if _, err := p.ShiftTime(delta, false); err == nil {
		t.Errorf("ShiftTime(ignoreDST=false) succeeded, want ImplicitlyIgnoringDST error")
	}
	shifted, err := p.ShiftTime(delta, true)
	if err != nil {
		t.Fatalf("ShiftTime(ignoreDST=true) error = %v", err)
	}
	if shifted.Time().Hour() != 2 {
		t.Errorf("shifted hour = %d, want 2", shifted.Time().Hour())
	}
}

func TestPlainDateTime_RoundCarriesIntoNextDay(t *testing.T) {
	date, _ := tempora.NewDate(2024, tempora.March, 10)
	time, _ := tempora.NewTime(23, 59, 50, 0)
	p := tempora.NewPlainDateTime(date, time)

	rounded, err := p.Round(tempora.UnitMinute, 1, tempora.RoundHalfCeil) // round to the nearest minute
	if err != nil {
		t.Fatalf("Round() error = %v", err)
	}
	wantDate, _ := tempora.NewDate(2024, tempora.March, 11)
	if rounded.Date().Compare(wantDate) != 0 {
		t.Errorf("rounded date = %v, want %v", rounded.Date(), wantDate)
	}
	if rounded.Time().Hour() != 0 || rounded.Time().Minute() != 0 {
		t.Errorf("rounded time = %v, want 00:00:00", rounded.Time())
	}
}

func TestPlainDateTime_ShiftDateNoDSTGate(t *testing.T) {
	date, _ := tempora.NewDate(2024, tempora.January, 1)
	time, _ := tempora.NewTime(12, 0, 0, 0)
	p := tempora.NewPlainDateTime(date, time)
	delta, _ := tempora.NewDateDelta(1, 0)

	shifted, err := p.ShiftDate(delta)
	if err != nil {
		t.Fatalf("ShiftDate() error = %v", err)
	}
	if shifted.Date().Month() != tempora.February {
		t.Errorf("shifted month = %v, want February", shifted.Date().Month())
	}
}

func TestPlainDateTime_Compare(t *testing.T) {
	d1, _ := tempora.NewDate(2024, tempora.January, 1)
	d2, _ := tempora.NewDate(2024, tempora.January, 2)
	t1, _ := tempora.NewTime(0, 0, 0, 0)
	a := tempora.NewPlainDateTime(d1, t1)
	b := tempora.NewPlainDateTime(d2, t1)
	if a.Compare(b) >= 0 {
		t.Errorf("a.Compare(b) = %d, want < 0", a.Compare(b))
	}
	if b.Compare(a) <= 0 {
		t.Errorf("b.Compare(a) = %d, want > 0", b.Compare(a))
	}
	if a.Compare(a) != 0 {
		t.Errorf("a.Compare(a) = %d, want 0", a.Compare(a))
	}
}

func TestParsePlainDateTime(t *testing.T) {
	for _, sep := range []string{" ", "T", "t"} {
		in := "2023-03-02" + sep + "02:09:09.123456789"
		p, err := tempora.ParsePlainDateTime(in)
		if err != nil {
			t.Fatalf("ParsePlainDateTime(%q) error = %v", in, err)
		}
		if p.Date().Year().Get() != 2023 || p.Date().Month() != tempora.March || p.Date().Day() != 2 {
			t.Errorf("ParsePlainDateTime(%q) date = %v", in, p.Date())
		}
		if p.Time().Hour() != 2 || p.Time().Second() != 9 || p.Time().Subsec().Get() != 123_456_789 {
			t.Errorf("ParsePlainDateTime(%q) time = %v", in, p.Time())
		}
	}

	for _, s := range []string{
		"2023-03-02 02:09:09.", // bare fraction dot
		"2023-02-29 02:29:09",  // 2023 is not a leap year
		"2023-03-02",           // no time part
		"2023-03-02X02:09:09",  // bad separator
		"2023-03-02 02:09:09Z", // trailing offset not allowed on a naive value
	} {
		if _, err := tempora.ParsePlainDateTime(s); err == nil {
			t.Errorf("ParsePlainDateTime(%q) succeeded, want InvalidFormat", s)
		}
	}
}

func TestPlainDateTime_StringParseRoundTrip(t *testing.T) {
	date, _ := tempora.NewDate(2023, tempora.March, 2)
	time, _ := tempora.NewTime(2, 9, 9, tempora.SubSecNanos(123_456_789))
	p := tempora.NewPlainDateTime(date, time)

	back, err := tempora.ParsePlainDateTime(p.String())
	if err != nil {
		t.Fatalf("ParsePlainDateTime(%q) error = %v", p.String(), err)
	}
	if back.Compare(p) != 0 {
		t.Errorf("round trip of %q = %v", p.String(), back)
	}
}
