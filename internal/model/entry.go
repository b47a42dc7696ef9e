package model

import (
	"errors"
	"strings"
	"sync"
	"time"
)

const (
	completedPrefix = "Completed on "
	givenPrefix     = "Given on: "
	dateLayout      = "January 2, 2006"
)

var (
	ErrInvalidID      = errors.New("model: entry id must be positive")
	ErrMissingContent = errors.New("model: entry content is required")
)

type CompletedEntry struct {
	ID      int64  `json:"id"`
	Content string `json:"content"`
}

func (e CompletedEntry) Validate() error {
	if e.ID <= 0 {
		return ErrInvalidID
	}
	if strings.TrimSpace(e.Content) == "" {
		return ErrMissingContent
	}
	return nil
}

type GivenEntry struct {
	CompletedOn string `json:"completedOn"`
	GivenOn     string `json:"givenOn"`
}

func (e GivenEntry) Validate() error {
	if strings.TrimSpace(e.CompletedOn) == "" || strings.TrimSpace(e.GivenOn) == "" {
		return ErrMissingContent
	}
	return nil
}

func NewCompletedEntry(id int64, now time.Time) CompletedEntry {
	return CompletedEntry{ID: id, Content: completedPrefix + FormatDate(now)}
}

func NewGivenEntry(src CompletedEntry, now time.Time) GivenEntry {
	return GivenEntry{CompletedOn: src.Content, GivenOn: givenPrefix + FormatDate(now)}
}

func FormatDate(t time.Time) string {
	return t.Format(dateLayout)
}

// IDSource hands out strictly increasing millisecond ids. Two calls inside the
// same millisecond get consecutive values instead of colliding.
type IDSource struct {
	mu   sync.Mutex
	last int64
}

func NewIDSource(seed int64) *IDSource {
	return &IDSource{last: seed}
}

func (s *IDSource) Next(now time.Time) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := now.UnixMilli()
	if id <= s.last {
		id = s.last + 1
	}
	s.last = id
	return id
}

func (s *IDSource) Observe(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id > s.last {
		s.last = id
	}
}

func MaxID(entries []CompletedEntry) int64 {
	var out int64
	for _, e := range entries {
		if e.ID > out {
			out = e.ID
		}
	}
	return out
}

func IndexOf(entries []CompletedEntry, id int64) int {
	for i, e := range entries {
		if e.ID == id {
			return i
		}
	}
	return -1
}
