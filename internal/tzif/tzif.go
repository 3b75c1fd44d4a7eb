// Package tzif parses version-2/3 TZif binary time zone data (RFC 8536)
// and answers the two runtime queries the temporal algebra engine needs:
// the UTC offset at an instant, and the ambiguity classification of a
// local wall-clock time.
package tzif

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"sort"

	"github.com/tempora-go/tempora/internal/posixtz"
)

var order = binary.BigEndian
var magic = [4]byte{'T', 'Z', 'i', 'f'}

// header mirrors the part of the 44-byte TZif block header that follows
// the magic and version bytes: 15 reserved bytes, then the six counts
// that size the type/index arrays.
type header struct {
	Reserved [15]byte
	Isutcnt  uint32
	Isstdcnt uint32
	Leapcnt  uint32
	Timecnt  uint32
	Typecnt  uint32
	Charcnt  uint32
}

// localTimeType is the 6-byte per-type record; only Utoff is retained
// in the Zone. The dst flag is read once, to pick the initial offset,
// and the designation index is discarded.
type localTimeType struct {
	Utoff int32
	Dst   uint8
	Idx   uint8
}

// Zone is the fully decoded, immutable runtime representation of one
// TZif file: a sorted transition table plus a POSIX-TZ tail rule for
// instants beyond the last transition.
type Zone struct {
	transitions   []int64
	offsets       []int32
	initialOffset int32
	tail          posixtz.TZ
	hasTail       bool
}

// Parse decodes TZif bytes into a Zone. It requires a version 2+ file
// (skip the v1 block, read the v2 block, read the POSIX-TZ footer).
func Parse(data []byte) (Zone, error) {
	r := bytes.NewReader(data)

	v1h, _, err := readMagicAndHeader(r)
	if err != nil {
		return Zone{}, fmt.Errorf("tzif: reading v1 header: %w", err)
	}

	if err := skipV1Block(r, v1h); err != nil {
		return Zone{}, fmt.Errorf("tzif: skipping v1 block: %w", err)
	}

	// Re-read the magic+version+header for the v2+ block; its version
	// byte decides whether the file is supported.
	h, version, err := readMagicAndHeader(r)
	if err != nil {
		return Zone{}, fmt.Errorf("tzif: reading v2 header: %w", err)
	}
	if version < '2' {
		return Zone{}, fmt.Errorf("tzif: only version 2+ files are supported")
	}

	transitions := make([]int64, h.Timecnt)
	if h.Timecnt > 0 {
		if err := binary.Read(r, order, &transitions); err != nil {
			return Zone{}, fmt.Errorf("tzif: reading transitions: %w", err)
		}
	}
	typeIdx := make([]uint8, h.Timecnt)
	if h.Timecnt > 0 {
		if err := binary.Read(r, order, &typeIdx); err != nil {
			return Zone{}, fmt.Errorf("tzif: reading transition types: %w", err)
		}
	}
	types := make([]localTimeType, h.Typecnt)
	for i := range types {
		if err := binary.Read(r, order, &types[i]); err != nil {
			return Zone{}, fmt.Errorf("tzif: reading local time type %d: %w", i, err)
		}
	}
	// Designations, leap seconds, std/wall and UT/local indicators are
	// parsed only to advance the reader; the spec discards them.
	if _, err := io.CopyN(io.Discard, r, int64(h.Charcnt)); err != nil {
		return Zone{}, fmt.Errorf("tzif: skipping designations: %w", err)
	}
	if _, err := io.CopyN(io.Discard, r, int64(h.Leapcnt)*12); err != nil {
		return Zone{}, fmt.Errorf("tzif: skipping leap seconds: %w", err)
	}
	if _, err := io.CopyN(io.Discard, r, int64(h.Isstdcnt)); err != nil {
		return Zone{}, fmt.Errorf("tzif: skipping std/wall indicators: %w", err)
	}
	if _, err := io.CopyN(io.Discard, r, int64(h.Isutcnt)); err != nil {
		return Zone{}, fmt.Errorf("tzif: skipping UT/local indicators: %w", err)
	}

	footer, err := readFooter(r)
	if err != nil {
		return Zone{}, fmt.Errorf("tzif: reading footer: %w", err)
	}

	z := Zone{transitions: transitions}
	z.offsets = make([]int32, len(transitions))
	for i, ti := range typeIdx {
		if int(ti) >= len(types) {
			return Zone{}, fmt.Errorf("tzif: transition type index %d out of range", ti)
		}
		z.offsets[i] = types[ti].Utoff
	}
	z.initialOffset = initialOffset(types)
	if len(footer) > 0 {
		tail, err := posixtz.Parse(string(footer))
		if err != nil {
			return Zone{}, fmt.Errorf("tzif: parsing POSIX-TZ footer: %w", err)
		}
		z.tail = tail
		z.hasTail = true
	} else if len(types) > 0 {
		// No footer string: degrade to the last type's fixed offset.
		z.tail = posixtz.TZ{StdOffset: int(types[len(types)-1].Utoff)}
		z.hasTail = true
	}
	return z, nil
}

// ParsePosixOnly builds a Zone with no transition table, backed solely
// by a POSIX-TZ string — used for a host-reported system zone that is
// itself a bare TZ value rather than a zoneinfo key.
func ParsePosixOnly(tzString string) (Zone, error) {
	tz, err := posixtz.Parse(tzString)
	if err != nil {
		return Zone{}, fmt.Errorf("tzif: parsing POSIX-only zone: %w", err)
	}
	return Zone{tail: tz, hasTail: true}, nil
}

// initialOffset picks the offset in force before any transition: by
// convention (and per zic's own behaviour) the first type that isn't
// itself a DST type, falling back to the very first type if every type
// is DST.
func initialOffset(types []localTimeType) int32 {
	for _, ty := range types {
		if ty.Dst == 0 {
			return ty.Utoff
		}
	}
	if len(types) > 0 {
		return types[0].Utoff
	}
	return 0
}

func readMagicAndHeader(r io.Reader) (header, byte, error) {
	var m [4]byte
	if err := binary.Read(r, order, &m); err != nil {
		return header{}, 0, err
	}
	if m != magic {
		return header{}, 0, fmt.Errorf("invalid magic %v", m)
	}
	var version [1]byte
	if err := binary.Read(r, order, &version); err != nil {
		return header{}, 0, err
	}
	var h header
	if err := binary.Read(r, order, &h); err != nil {
		return header{}, 0, err
	}
	return h, version[0], nil
}

// skipV1Block advances r past the version-1 data block sized by h, whose
// transition times and leap-second occurrences are 4 bytes wide instead
// of 8.
func skipV1Block(r io.Reader, h header) error {
	n := int64(h.Timecnt)*4 + int64(h.Timecnt) + int64(h.Typecnt)*6 +
		int64(h.Charcnt) + int64(h.Leapcnt)*8 + int64(h.Isstdcnt) + int64(h.Isutcnt)
	_, err := io.CopyN(io.Discard, r, n)
	return err
}

func readFooter(r io.Reader) ([]byte, error) {
	buf := make([]byte, 1)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, fmt.Errorf("reading leading newline: %w", err)
	}
	if buf[0] != '\n' {
		return nil, fmt.Errorf("expected newline, got %v", buf[0])
	}
	var out []byte
	for {
		if _, err := io.ReadFull(r, buf); err != nil {
			if err == io.EOF {
				return out, nil
			}
			return nil, err
		}
		if buf[0] == '\n' {
			return out, nil
		}
		out = append(out, buf[0])
	}
}

// Ambiguity classifies a local wall-clock instant against the zone.
type AmbiguityKind int

const (
	Unambiguous AmbiguityKind = iota
	Gap
	Fold
)

// Ambiguity is the result of AmbiguityForLocal: for Unambiguous, Earlier
// and Later are equal.
type Ambiguity struct {
	Kind    AmbiguityKind
	Earlier int
	Later   int
}

// OffsetForInstant returns the UTC offset in effect at epoch: a binary
// search for the greatest transition <= epoch, or a delegation to the
// POSIX-tail rule if epoch is past the last transition (or there are
// none). yearOfEpoch is supplied by the caller (root package owns the
// calendar) for tail-rule resolution.
func (z Zone) OffsetForInstant(epoch int64, yearOfEpoch int) int {
	if len(z.transitions) == 0 || epoch > z.transitions[len(z.transitions)-1] {
		if z.hasTail {
			return z.tail.OffsetForInstant(epoch, yearOfEpoch)
		}
		if len(z.offsets) > 0 {
			return int(z.offsets[len(z.offsets)-1])
		}
		return 0
	}
	i := sort.Search(len(z.transitions), func(i int) bool {
		return z.transitions[i] > epoch
	})
	if i == 0 {
		return int(z.initialOffset)
	}
	return int(z.offsets[i-1])
}

// AmbiguityForLocal classifies wallEpoch — the wall-clock time expressed
// as if it were itself a UTC instant (i.e. UnixDays*86400 + seconds of
// day) — against the zone's transitions local to yearOfWall.
//
// For each transition, converting the local wall time using both the
// offset before and the offset after it tests self-consistency: the
// wall time is Unambiguous if exactly one of the neighbouring offsets
// maps back to itself, Gap if neither does, Fold if both do.
func (z Zone) AmbiguityForLocal(wallEpoch int64, yearOfWall int) Ambiguity {
	before, after, ok := z.surroundingOffsets(wallEpoch, yearOfWall)
	if !ok {
		o := z.OffsetForInstant(wallEpoch, yearOfWall)
		return Ambiguity{Kind: Unambiguous, Earlier: o, Later: o}
	}
	if before == after {
		return Ambiguity{Kind: Unambiguous, Earlier: before, Later: after}
	}
	asUTCBefore := wallEpoch - int64(before)
	asUTCAfter := wallEpoch - int64(after)
	beforeConsistent := z.OffsetForInstant(asUTCBefore, yearOfWall) == before
	afterConsistent := z.OffsetForInstant(asUTCAfter, yearOfWall) == after

	switch {
	case beforeConsistent && afterConsistent:
		lo, hi := before, after
		if lo > hi {
			lo, hi = hi, lo
		}
		return Ambiguity{Kind: Fold, Earlier: hi, Later: lo}
	case !beforeConsistent && !afterConsistent:
		lo, hi := before, after
		if lo > hi {
			lo, hi = hi, lo
		}
		return Ambiguity{Kind: Gap, Earlier: lo, Later: hi}
	case beforeConsistent:
		return Ambiguity{Kind: Unambiguous, Earlier: before, Later: before}
	default:
		return Ambiguity{Kind: Unambiguous, Earlier: after, Later: after}
	}
}

// surroundingOffsets returns the offsets in effect immediately before
// and after the transition nearest wallEpoch, consulting the POSIX tail
// when wallEpoch is beyond the last transition.
func (z Zone) surroundingOffsets(wallEpoch int64, yearOfWall int) (before, after int, ok bool) {
	if len(z.transitions) == 0 {
		if !z.hasTail || !z.tail.HasDST {
			return 0, 0, false
		}
		start, end, std, dst := z.tail.OffsetsForYear(yearOfWall)
		return tailSurrounding(wallEpoch, start, end, std, dst)
	}
	last := z.transitions[len(z.transitions)-1]
	if wallEpoch > last-int64(maxOffsetMagnitude(z.offsets)) {
		if z.hasTail && z.tail.HasDST {
			start, end, std, dst := z.tail.OffsetsForYear(yearOfWall)
			if start > last || end > last {
				return tailSurrounding(wallEpoch, start, end, std, dst)
			}
		}
	}
	i := sort.Search(len(z.transitions), func(i int) bool {
		return z.transitions[i] > wallEpoch
	})
	// The transitions are UTC instants; the wall reading sits within
	// the neighbour-offset magnitude of any transition it straddles, on
	// either side of the search point.
	window := 2 * maxOffsetMagnitude(z.offsets)
	for _, j := range []int{i - 1, i} {
		if j < 0 || j >= len(z.transitions) {
			continue
		}
		if wallEpoch > z.transitions[j]-window && wallEpoch < z.transitions[j]+window {
			prior := int(z.initialOffset)
			if j > 0 {
				prior = int(z.offsets[j-1])
			}
			return prior, int(z.offsets[j]), true
		}
	}
	if i == 0 {
		return int(z.initialOffset), int(z.initialOffset), true
	}
	return int(z.offsets[i-1]), int(z.offsets[i-1]), true
}

func tailSurrounding(wallEpoch, start, end int64, std, dst int) (before, after int, ok bool) {
	// start and end are UTC instants while wallEpoch is the wall
	// reading pretending to be UTC; the two numeraires differ by the
	// offset in force, so the bracket must span the zone's own offset
	// magnitude plus the size of the jump itself. A fixed window misses
	// transitions in any zone further than that from UTC.
	window := absInt64(int64(std))
	if w := absInt64(int64(dst)); w > window {
		window = w
	}
	window += absInt64(int64(dst - std))
	switch {
	case wallEpoch > start-window && wallEpoch < start+window:
		return std, dst, true
	case wallEpoch > end-window && wallEpoch < end+window:
		return dst, std, true
	default:
		return 0, 0, false
	}
}

func absInt64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}

func maxOffsetMagnitude(offsets []int32) int64 {
	var m int64
	for _, o := range offsets {
		v := int64(o)
		if v < 0 {
			v = -v
		}
		if v > m {
			m = v
		}
	}
	if m == 0 {
		return 6 * 3600
	}
	return m
}
