// Package session keeps open editing sessions in memory, keyed by an opaque
// id handed to the owner when the editor is opened.
package session

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/seatmap-studio/internal/editor"
)

// ErrNotFound is returned for an unknown or closed session id.
var ErrNotFound = errors.New("editor session not found")

// Info describes an open session.
type Info struct {
	ID        string    `json:"id"`
	EventID   uint64    `json:"event_id"`
	OwnerID   uint64    `json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
	LastUsed  time.Time `json:"last_used"`
}

type entry struct {
	mu     sync.Mutex // serialises every call on sess
	sess   *editor.Session
	info   Info
	closed bool
}

// Store is safe for concurrent use.  Calls on one session run one at a time;
// different sessions never block each other.
type Store struct {
	mu      sync.Mutex
	entries map[string]*entry

	now   func() time.Time
	newID func() string
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		entries: map[string]*entry{},
		now:     time.Now,
		newID:   uuid.NewString,
	}
}

// Create registers s and returns its id.
func (st *Store) Create(eventID, ownerID uint64, s *editor.Session) string {
	now := st.now()
	e := &entry{sess: s, info: Info{EventID: eventID, OwnerID: ownerID, CreatedAt: now, LastUsed: now}}
	st.mu.Lock()
	defer st.mu.Unlock()
	id := st.newID()
	for st.entries[id] != nil {
		id = st.newID()
	}
	e.info.ID = id
	st.entries[id] = e
	return id
}

// With runs fn while holding the session's lock.  The error from fn is
// returned unchanged.
func (st *Store) With(id string, fn func(*editor.Session, Info) error) error {
	st.mu.Lock()
	e := st.entries[id]
	st.mu.Unlock()
	if e == nil {
		return ErrNotFound
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrNotFound
	}
	e.info.LastUsed = st.now()
	return fn(e.sess, e.info)
}

// Info returns the description of session id.
func (st *Store) Info(id string) (Info, error) {
	var info Info
	err := st.With(id, func(_ *editor.Session, i Info) error {
		info = i
		return nil
	})
	return info, err
}

// Delete closes session id.  A call in progress on the session finishes first.
func (st *Store) Delete(id string) error {
	st.mu.Lock()
	e := st.entries[id]
	delete(st.entries, id)
	st.mu.Unlock()
	if e == nil {
		return ErrNotFound
	}
	e.mu.Lock()
	e.closed = true
	e.mu.Unlock()
	return nil
}

// Sweep closes sessions idle for longer than maxIdle and returns how many it
// closed.  Sessions busy with a call are left for the next sweep.
func (st *Store) Sweep(maxIdle time.Duration) int {
	cutoff := st.now().Add(-maxIdle)
	st.mu.Lock()
	defer st.mu.Unlock()
	n := 0
	for id, e := range st.entries {
		if !e.mu.TryLock() {
			continue
		}
		if e.info.LastUsed.Before(cutoff) {
			e.closed = true
			delete(st.entries, id)
			n++
		}
		e.mu.Unlock()
	}
	return n
}

// Len returns the number of open sessions.
func (st *Store) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.entries)
}
