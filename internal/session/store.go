// Package session keeps in-memory table sessions with a sliding TTL.
// Expired sessions are swept lazily on access against an injected clock so
// expiry is testable without sleeping.
package session

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/coder/quartz"

	"github.com/cardstream/holdem/internal/game"
)

// SeatOrder is the fixed seat naming for up to five players
var SeatOrder = []string{"p1", "p2", "p3", "p4", "p5"}

var (
	ErrNotFound  = errors.New("session not found")
	ErrTableFull = errors.New("table is full")
	ErrEnded     = errors.New("table has ended")
	ErrNotHost   = errors.New("only the host can start the table")
)

// Session is one table session. The embedded mutex is the serialisation
// point for actions: the game core is single-threaded by contract, so every
// mutation of Table must happen with the session locked.
type Session struct {
	sync.Mutex

	ID         string
	Table      *game.Table
	Host       string
	Started    bool
	Ended      bool
	CreatedAt  time.Time
	LastSeen   time.Time
	Joined     map[string]bool   // seat id -> taken
	SeatOwners map[string]string // seat id -> user key, for seat reclaim
	Humans     map[string]bool   // seat id -> driven by a connected human
}

// TableFactory builds a fresh table for a new session
type TableFactory func() (*game.Table, error)

// Store is a TTL-bounded registry of sessions
type Store struct {
	mu       sync.Mutex
	sessions map[string]*Session
	ttl      time.Duration
	clock    quartz.Clock
	factory  TableFactory
}

// NewStore creates a store. A zero ttl defaults to 30 minutes.
func NewStore(ttl time.Duration, clock quartz.Clock, factory TableFactory) *Store {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	if clock == nil {
		clock = quartz.NewReal()
	}
	return &Store{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		clock:    clock,
		factory:  factory,
	}
}

// Create makes a new session with the host seated at p1
func (st *Store) Create(hostKey string) (*Session, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	now := st.clock.Now()
	st.sweepLocked(now)

	table, err := st.factory()
	if err != nil {
		return nil, err
	}

	sess := &Session{
		ID:         st.generateIDLocked(),
		Table:      table,
		Host:       SeatOrder[0],
		CreatedAt:  now,
		LastSeen:   now,
		Joined:     map[string]bool{SeatOrder[0]: true},
		SeatOwners: make(map[string]string),
		Humans:     make(map[string]bool),
	}
	if hostKey != "" {
		sess.SeatOwners[SeatOrder[0]] = hostKey
	}
	st.sessions[sess.ID] = sess
	return sess, nil
}

// Get returns a live session and refreshes its TTL
func (st *Store) Get(id string) (*Session, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	now := st.clock.Now()
	st.sweepLocked(now)

	sess, ok := st.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	sess.LastSeen = now
	return sess, nil
}

// Join seats a player. A user key that already owns a seat gets the same
// seat back, which is how reconnects keep their chips.
func (st *Store) Join(id, userKey string) (string, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	now := st.clock.Now()
	st.sweepLocked(now)

	sess, ok := st.sessions[id]
	if !ok {
		return "", ErrNotFound
	}
	if sess.Ended {
		return "", ErrEnded
	}
	sess.LastSeen = now

	if userKey != "" {
		for seat, owner := range sess.SeatOwners {
			if owner == userKey {
				return seat, nil
			}
		}
	}

	for _, seat := range SeatOrder {
		if !sess.Joined[seat] {
			sess.Joined[seat] = true
			if userKey != "" {
				sess.SeatOwners[seat] = userKey
			}
			return seat, nil
		}
	}
	return "", ErrTableFull
}

// Touch refreshes a session's TTL without returning it
func (st *Store) Touch(id string) {
	st.mu.Lock()
	defer st.mu.Unlock()

	now := st.clock.Now()
	st.sweepLocked(now)
	if sess, ok := st.sessions[id]; ok {
		sess.LastSeen = now
	}
}

// Len returns the number of live sessions
func (st *Store) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.sweepLocked(st.clock.Now())
	return len(st.sessions)
}

func (st *Store) sweepLocked(now time.Time) {
	for id, sess := range st.sessions {
		if now.Sub(sess.LastSeen) > st.ttl {
			delete(st.sessions, id)
		}
	}
}

func (st *Store) generateIDLocked() string {
	for {
		var buf [4]byte
		_, _ = rand.Read(buf[:])
		id := "TBL-" + strings.ToUpper(hex.EncodeToString(buf[:]))
		if _, exists := st.sessions[id]; !exists {
			return id
		}
	}
}
