package tempora_test

import (
	"testing"

	"github.com/tempora-go/tempora"
)

func TestOffsetDateTime_InPreservesInstant(t *testing.T) {
	date, _ := tempora.NewDate(2024, tempora.June, 1)
	time, _ := tempora.NewTime(12, 0, 0, 0)
	plus2, _ := tempora.NewOffset(2 * 3600)
	d := tempora.NewOffsetDateTime(date, time, plus2)

	utc, err := d.UTC()
	if err != nil {
		t.Fatalf("UTC() error = %v", err)
	}
	localDate, localTime := utc.Local()
	if localTime.Hour() != 10 || localDate.Compare(date) != 0 {
		t.Errorf("UTC() local = (%v, %v), want (2024-06-01, 10:00:00)", localDate, localTime)
	}

	di, err := d.Instant()
	if err != nil {
		t.Fatalf("Instant() error = %v", err)
	}
	ui, err := utc.Instant()
	if err != nil {
		t.Fatalf("Instant() error = %v", err)
	}
	if di.UnixSeconds() != ui.UnixSeconds() {
		t.Errorf("In() changed the instant: %d vs %d", di.UnixSeconds(), ui.UnixSeconds())
	}
}

func TestOffsetDateTime_CompareAcrossOffsets(t *testing.T) {
	date, _ := tempora.NewDate(2024, tempora.June, 1)
	t1, _ := tempora.NewTime(12, 0, 0, 0)
	t2, _ := tempora.NewTime(11, 0, 0, 0)
	zero, _ := tempora.NewOffset(0)
	plus2, _ := tempora.NewOffset(2 * 3600)

	// 12:00+00:00 and 11:00+02:00 (== 09:00 UTC) differ by 3h; the
	// first instant is later despite the same nominal hour-of-day gap.
	a := tempora.NewOffsetDateTime(date, t1, zero)
	b := tempora.NewOffsetDateTime(date, t2, plus2)

	cmp, err := a.Compare(b)
	if err != nil {
		t.Fatalf("Compare() error = %v", err)
	}
	if cmp <= 0 {
		t.Errorf("Compare() = %d, want > 0 (a is later)", cmp)
	}
}

func TestOffsetDateTime_Sub(t *testing.T) {
	date, _ := tempora.NewDate(2024, tempora.June, 1)
	t1, _ := tempora.NewTime(12, 0, 0, 0)
	t2, _ := tempora.NewTime(10, 0, 0, 0)
	zero, _ := tempora.NewOffset(0)
	a := tempora.NewOffsetDateTime(date, t1, zero)
	b := tempora.NewOffsetDateTime(date, t2, zero)

	delta, err := a.Sub(b)
	if err != nil {
		t.Fatalf("Sub() error = %v", err)
	}
	if secs, _ := delta.TotalNanos(); secs != 7200 {
		t.Errorf("Sub() = %ds, want 7200", secs)
	}
}

func TestParseOffsetDateTime(t *testing.T) {
	tests := []struct {
		in         string
		offsetSecs int
	}{
		{"2023-03-02T02:09:09+01:00", 3600},
		{"2023-03-02T02:09:09.5-05:30", -(5*3600 + 30*60)},
		{"2023-03-02T02:09:09Z", 0},
		{"2023-03-02 02:09:09z", 0},
		{"2023-03-02T02:09:09+0100", 3600},
		{"2023-03-02T02:09:09+010030", 3630},
		{"2023-03-02T02:09:09+01:00:30", 3630},
	}
	for _, tt := range tests {
		o, err := tempora.ParseOffsetDateTime(tt.in)
		if err != nil {
			t.Fatalf("ParseOffsetDateTime(%q) error = %v", tt.in, err)
		}
		if o.Offset().Get() != tt.offsetSecs {
			t.Errorf("ParseOffsetDateTime(%q) offset = %d, want %d", tt.in, o.Offset().Get(), tt.offsetSecs)
		}
	}

	for _, s := range []string{
		"2023-03-02T02:09:09",       // missing offset
		"2023-03-02T02:09:09+1",     // lone hour digit
		"2023-03-02T02:09:09+24:00", // hour out of range
		"2023-03-02T02:09:09+01:",   // dangling colon
	} {
		if _, err := tempora.ParseOffsetDateTime(s); err == nil {
			t.Errorf("ParseOffsetDateTime(%q) succeeded, want InvalidFormat", s)
		}
	}
}

func TestOffsetDateTime_StringParseRoundTrip(t *testing.T) {
	date, _ := tempora.NewDate(2023, tempora.March, 2)
	time, _ := tempora.NewTime(2, 9, 9, 0)
	offset, _ := tempora.OffsetFromHours(1)
	o := tempora.NewOffsetDateTime(date, time, offset)

	back, err := tempora.ParseOffsetDateTime(o.String())
	if err != nil {
		t.Fatalf("ParseOffsetDateTime(%q) error = %v", o.String(), err)
	}
	if back != o {
		t.Errorf("round trip of %q = %v", o.String(), back)
	}
}
