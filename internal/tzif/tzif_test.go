package tzif_test

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/tempora-go/tempora/internal/tzif"
)

// buildV2TZif constructs a minimal, valid version-2 TZif file with a
// single transition (from stdOffset to dstOffset at transitionEpoch)
// and the given POSIX-TZ footer, mirroring the structure RFC 8536
// describes: a throwaway v1 block, a v2 block with matching counts,
// and a newline-delimited footer.
func buildV2TZif(t *testing.T, transitionEpoch int64, stdOffset, dstOffset int32, footer string) []byte {
	t.Helper()
	var buf bytes.Buffer

	writeBlock := func(wide bool) {
		buf.WriteString("TZif")
		if wide {
			buf.WriteByte('2')
		} else {
			buf.WriteByte('\x00')
		}
		buf.Write(make([]byte, 15)) // reserved
		binary.Write(&buf, binary.BigEndian, uint32(0))  // isutcnt
		binary.Write(&buf, binary.BigEndian, uint32(0))  // isstdcnt
		binary.Write(&buf, binary.BigEndian, uint32(0))  // leapcnt
		binary.Write(&buf, binary.BigEndian, uint32(1))  // timecnt
		binary.Write(&buf, binary.BigEndian, uint32(2))  // typecnt
		binary.Write(&buf, binary.BigEndian, uint32(0))  // charcnt

		if wide {
			binary.Write(&buf, binary.BigEndian, transitionEpoch)
		} else {
			binary.Write(&buf, binary.BigEndian, int32(transitionEpoch))
		}
		buf.WriteByte(1) // the single transition moves to type index 1

		// type 0: std, type 1: dst
		binary.Write(&buf, binary.BigEndian, stdOffset)
		buf.WriteByte(0)
		buf.WriteByte(0)
		binary.Write(&buf, binary.BigEndian, dstOffset)
		buf.WriteByte(1)
		buf.WriteByte(0)
	}

	writeBlock(false) // v1 block (4-byte transition time)
	writeBlock(true)  // v2 block (8-byte transition time)
	buf.WriteByte('\n')
	buf.WriteString(footer)
	buf.WriteByte('\n')

	return buf.Bytes()
}

func TestParse_SingleTransition(t *testing.T) {
	// Transition at 2024-03-10 10:00:00 UTC (the US spring-forward
	// instant for PST8PDT), moving from -8h to -7h.
	const transition = 1710064800
	data := buildV2TZif(t, transition, -8*3600, -7*3600, "PST8PDT,M3.2.0,M11.1.0")

	z, err := tzif.Parse(data)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if off := z.OffsetForInstant(transition-1, 2024); off != -8*3600 {
		t.Errorf("offset just before transition = %d, want %d", off, -8*3600)
	}
	if off := z.OffsetForInstant(transition, 2024); off != -7*3600 {
		t.Errorf("offset at transition = %d, want %d", off, -7*3600)
	}
	if off := z.OffsetForInstant(transition+3600, 2024); off != -7*3600 {
		t.Errorf("offset after transition = %d, want %d", off, -7*3600)
	}
}

func TestParse_RejectsV1Only(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteString("TZif")
	buf.WriteByte('\x00')
	buf.Write(make([]byte, 15))
	for i := 0; i < 6; i++ {
		binary.Write(&buf, binary.BigEndian, uint32(0))
	}
	if _, err := tzif.Parse(buf.Bytes()); err == nil {
		t.Errorf("Parse() of a v1-only file succeeded, want error")
	}
}

func TestParse_RejectsBadMagic(t *testing.T) {
	data := []byte("XXXX2\x00\x00\x00\x00\x00\x00\x00\x00\x00\x00\x00\x00\x00\x00\x00\x00")
	if _, err := tzif.Parse(data); err == nil {
		t.Errorf("Parse() of bad magic succeeded, want error")
	}
}

func TestZone_AmbiguityForLocal_GapAndFold(t *testing.T) {
	z, err := tzif.ParsePosixOnly("PST8PDT,M3.2.0,M11.1.0")
	if err != nil {
		t.Fatalf("ParsePosixOnly() error = %v", err)
	}

	// 2024-03-10 02:30:00 local falls in the spring-forward gap
	// (02:00-03:00 never occurs).
	gapWall := daysFromCivilForTest(2024, 3, 10)*86400 + 2*3600 + 30*60
	amb := z.AmbiguityForLocal(gapWall, 2024)
	if amb.Kind != tzif.Gap {
		t.Errorf("spring-forward ambiguity = %v, want Gap", amb.Kind)
	}

	// 2024-11-03 01:30:00 local occurs twice (the fall-back fold).
	foldWall := daysFromCivilForTest(2024, 11, 3)*86400 + 1*3600 + 30*60
	amb = z.AmbiguityForLocal(foldWall, 2024)
	if amb.Kind != tzif.Fold {
		t.Errorf("fall-back ambiguity = %v, want Fold", amb.Kind)
	}

	// 2024-06-15 12:00:00 local is ordinary daylight time.
	plainWall := daysFromCivilForTest(2024, 6, 15)*86400 + 12*3600
	amb = z.AmbiguityForLocal(plainWall, 2024)
	if amb.Kind != tzif.Unambiguous {
		t.Errorf("plain summer ambiguity = %v, want Unambiguous", amb.Kind)
	}
}

func daysFromCivilForTest(y, m, d int) int64 {
	yy := y - boolToInt(m <= 2)
	era := yy
	if era < 0 {
		era -= 399
	}
	era /= 400
	yoe := yy - era*400
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
