package sessiontracker

import (
	"encoding/json"
	"sort"
	"sync"

	"github.com/eluv-io/utc-go"
)

// Tracker is the interface for a session registry. It keeps the list of
// currently open sessions together with the time they were opened, and counts
// sessions added and removed over its lifetime.
type Tracker interface {
	// Add registers the session with the given ID. Returns false if a session
	// with that ID is already registered.
	Add(sessionID string) bool
	// Remove unregisters the session with the given ID. Returns false if no
	// such session is registered.
	Remove(sessionID string) bool
	Contains(sessionID string) bool
	Count() int
	// List returns the open sessions ordered by open time.
	List() []SessionInfo
	SessionMetrics() SessionMetrics
}

type SessionInfo struct {
	ID     string  `json:"id"`
	Opened utc.UTC `json:"opened"`
}

func New() Tracker {
	return &tracker{
		sessions: map[string]utc.UTC{},
	}
}

////////////////////////////////////////////////////////////////////////////////

type SessionMetrics struct {
	Added   int64 `json:"added"`   // sessions added
	Removed int64 `json:"removed"` // sessions removed
	Current int64 `json:"current"` // Added - Removed
}

func (c *SessionMetrics) String() string {
	res, _ := json.Marshal(c.MarshalGeneric())
	return string(res)
}

func (c *SessionMetrics) MarshalGeneric() interface{} {
	m := map[string]interface{}{
		"added":   c.Added,
		"removed": c.Removed,
		"current": c.Current,
	}
	return m
}

////////////////////////////////////////////////////////////////////////////////

type tracker struct {
	mutex    sync.Mutex
	sessions map[string]utc.UTC
	metrics  SessionMetrics
}

func (t *tracker) Add(sessionID string) bool {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	if _, found := t.sessions[sessionID]; found {
		return false
	}
	t.sessions[sessionID] = utc.Now()
	t.metrics.Added++
	return true
}

func (t *tracker) Remove(sessionID string) bool {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	if _, found := t.sessions[sessionID]; !found {
		return false
	}
	delete(t.sessions, sessionID)
	t.metrics.Removed++
	return true
}

func (t *tracker) Contains(sessionID string) bool {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	_, found := t.sessions[sessionID]
	return found
}

func (t *tracker) Count() int {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	return len(t.sessions)
}

func (t *tracker) List() []SessionInfo {
	t.mutex.Lock()
	res := make([]SessionInfo, 0, len(t.sessions))
	for id, opened := range t.sessions {
		res = append(res, SessionInfo{
			ID:     id,
			Opened: opened,
		})
	}
	t.mutex.Unlock()

	sort.Slice(res, func(i, j int) bool {
		if res[i].Opened.Equal(res[j].Opened) {
			return res[i].ID < res[j].ID
		}
		return res[i].Opened.Before(res[j].Opened)
	})
	return res
}

func (t *tracker) SessionMetrics() SessionMetrics {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	res := t.metrics
	res.Current = res.Added - res.Removed
	return res
}
