package tempora

import (
	"container/list"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/tempora-go/tempora/internal/tzif"
)

const tzStoreCapacity = 8

var tzKeyPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_+\-./]*$`)

func validTzKey(key string) bool {
	if !tzKeyPattern.MatchString(key) {
		return false
	}
	for _, seg := range strings.Split(key, "/") {
		if seg == ".." || seg == "" {
			return false
		}
	}
	return true
}

// tzEntry is one cached, parsed TZif file plus its manual refcount.
// lruElem is non-nil while the entry occupies a slot in the bounded
// LRU; the LRU itself contributes one to refcnt.
type tzEntry struct {
	key     string
	zone    tzif.Zone
	refcnt  int
	lruElem *list.Element
}

// TzRef is an owning, manually refcounted handle to a cached TZif
// entry. The zero TzRef is not valid; obtain one from TzStore.Get.
type TzRef struct {
	entry *tzEntry
	store *TzStore
}

// Key returns the zone identifier this handle refers to.
func (r TzRef) Key() string { return r.entry.key }

// Clone returns a second handle to the same entry, incrementing its
// refcount. Each clone must eventually be Released independently.
func (r TzRef) Clone() TzRef {
	r.entry.refcnt++
	return r
}

// Release decrements the handle's refcount. When it reaches zero and
// the entry is no longer held by the LRU, the entry is removed from
// the store's lookup table and its TZif data is freed.
func (r TzRef) Release() {
	e := r.entry
	e.refcnt--
	if e.refcnt == 0 && e.lruElem == nil {
		delete(r.store.lookup, e.key)
	}
}

// OffsetForInstant returns the UTC offset in effect at instant.
func (r TzRef) OffsetForInstant(instant EpochSecs) Offset {
	year, _, _ := unixDaysToDate(floorDivInt64(int64(instant), 86400))
	secs := int(r.entry.zone.OffsetForInstant(int64(instant), year))
	o, ok := NewOffset(secs)
	debugAssert(ok, "tzif offset out of range")
	return o
}

// ambiguityForLocal classifies the wall-clock (date,time) pair against
// the zone, returning the tzif package's raw Ambiguity.
func (r TzRef) ambiguityForLocal(date Date, t Time) tzif.Ambiguity {
	wallEpoch := int64(date.UnixDays())*86400 + t.TotalNanos()/nanosPerSec
	return r.entry.zone.AmbiguityForLocal(wallEpoch, date.Year().Get())
}

// TzStore is a single-threaded cache mapping zone keys to parsed TZif
// data: a weak lookup table plus a strong, bounded (capacity 8) LRU.
// Every live handle keeps its entry's TZif data alive independent of
// LRU eviction; eviction only releases the LRU's own share of the
// refcount.
type TzStore struct {
	lookup     map[string]*tzEntry
	lru        *list.List
	paths      []string
	tzdataPath string
	systemTz   *TzRef
}

// NewTzStore returns a store that searches paths (in order), then
// tzdataPath, for zoneinfo files.
func NewTzStore(paths []string, tzdataPath string) *TzStore {
	return &TzStore{
		lookup:     make(map[string]*tzEntry),
		lru:        list.New(),
		paths:      paths,
		tzdataPath: tzdataPath,
	}
}

// Get returns a handle to the TZif data for key, loading and caching it
// on first use. key must match ^[A-Za-z_][A-Za-z0-9_+\-./]*$ with no
// ".." path segments.
func (s *TzStore) Get(key string) (TzRef, error) {
	if !validTzKey(key) {
		return TzRef{}, newErrorf(KindTimeZoneNotFound, "invalid time zone key %q", key)
	}
	if e, ok := s.lookup[key]; ok {
		e.refcnt++
		if e.lruElem != nil {
			s.lru.MoveToFront(e.lruElem)
		} else {
			e.refcnt++ // the LRU's own share
			e.lruElem = s.lru.PushFront(e)
			s.evictIfFull()
		}
		return TzRef{entry: e, store: s}, nil
	}

	zone, err := s.load(key)
	if err != nil {
		return TzRef{}, err
	}
	e := &tzEntry{key: key, zone: zone, refcnt: 2}
	s.lookup[key] = e
	e.lruElem = s.lru.PushFront(e)
	s.evictIfFull()
	return TzRef{entry: e, store: s}, nil
}

func (s *TzStore) load(key string) (tzif.Zone, error) {
	for _, base := range s.paths {
		if data, err := os.ReadFile(filepath.Join(base, key)); err == nil {
			return tzif.Parse(data)
		}
	}
	if s.tzdataPath != "" {
		if data, err := os.ReadFile(filepath.Join(s.tzdataPath, key)); err == nil {
			return tzif.Parse(data)
		}
	}
	return tzif.Zone{}, newErrorf(KindTimeZoneNotFound, "no TZif data found for %q", key)
}

// evictIfFull decrefs the LRU tail once the LRU exceeds its capacity,
// freeing the entry if its refcount reaches zero.
func (s *TzStore) evictIfFull() {
	if s.lru.Len() <= tzStoreCapacity {
		return
	}
	back := s.lru.Back()
	e := back.Value.(*tzEntry)
	s.lru.Remove(back)
	e.lruElem = nil
	e.refcnt--
	if e.refcnt == 0 {
		delete(s.lookup, e.key)
	}
}

// ClearAll empties the lookup table and drains the LRU, decrefing every
// entry it held.
func (s *TzStore) ClearAll() {
	for e := s.lru.Front(); e != nil; e = e.Next() {
		entry := e.Value.(*tzEntry)
		entry.lruElem = nil
		entry.refcnt--
	}
	s.lru.Init()
	s.lookup = make(map[string]*tzEntry)
}

// ClearOnly removes the given keys from the lookup table, decrefing
// their LRU slot if present.
func (s *TzStore) ClearOnly(keys []string) {
	for _, key := range keys {
		e, ok := s.lookup[key]
		if !ok {
			continue
		}
		delete(s.lookup, key)
		if e.lruElem != nil {
			s.lru.Remove(e.lruElem)
			e.lruElem = nil
			e.refcnt--
		}
	}
}

// SystemTz lazily resolves and caches the handle for the host's system
// time zone, consulting the TZ environment variable, /etc/timezone, and
// the /etc/localtime symlink target, in that order.
func (s *TzStore) SystemTz() (TzRef, error) {
	if s.systemTz != nil {
		return s.systemTz.Clone(), nil
	}
	key, isPosix := systemTzIdentifier()
	var ref TzRef
	var err error
	switch {
	case isPosix:
		posixZone, perr := tzif.ParsePosixOnly(key)
		if perr != nil {
			return TzRef{}, perr
		}
		e := &tzEntry{key: "(posix)" + key, zone: posixZone, refcnt: 2}
		s.lookup[e.key] = e
		e.lruElem = s.lru.PushFront(e)
		s.evictIfFull()
		ref = TzRef{entry: e, store: s}
	default:
		ref, err = s.Get(key)
		if err != nil {
			return TzRef{}, err
		}
	}
	held := ref.Clone()
	s.systemTz = &held
	return ref, nil
}

// ResetSystemTz drops the cached system-zone handle so the next
// SystemTz call re-resolves the host identifier.
func (s *TzStore) ResetSystemTz() {
	if s.systemTz != nil {
		s.systemTz.Release()
		s.systemTz = nil
	}
}

// systemTzIdentifier returns the host's configured zone key (or a bare
// POSIX-TZ string, flagged via the second return) by checking TZ, then
// /etc/timezone, then the /etc/localtime symlink target.
func systemTzIdentifier() (string, bool) {
	if v := os.Getenv("TZ"); v != "" {
		if strings.ContainsAny(v, "+-0123456789") && !strings.Contains(v, "/") {
			return v, true
		}
		return v, false
	}
	if data, err := os.ReadFile("/etc/timezone"); err == nil {
		return strings.TrimSpace(string(data)), false
	}
	if target, err := os.Readlink("/etc/localtime"); err == nil {
		if i := strings.Index(target, "zoneinfo/"); i >= 0 {
			return target[i+len("zoneinfo/"):], false
		}
	}
	return "UTC", false
}
