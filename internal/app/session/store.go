package session

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"legal-scribe/internal/app/model"
)

// ErrNotFound is returned for unknown or expired sessions.
var ErrNotFound = errors.New("session not found")

// ErrResultNotFound is returned when a transcription id is not in the session.
var ErrResultNotFound = errors.New("transcription not found in session")

// Session is the explicit per-user context: it holds the vendor credential
// and completed transcription results, in memory only, for the lifetime of
// the session. The credential never appears in serialized output or logs.
type Session struct {
	id        string
	createdAt time.Time

	mu       sync.RWMutex
	apiKey   string
	lastSeen time.Time
	results  []model.TranscriptionResult
}

// ID returns the session id.
func (s *Session) ID() string {
	return s.id
}

// CreatedAt returns the session creation time.
func (s *Session) CreatedAt() time.Time {
	return s.createdAt
}

// Credential returns the stored vendor credential, or "" if none was set.
func (s *Session) Credential() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.apiKey
}

// SetCredential replaces the stored vendor credential.
func (s *Session) SetCredential(apiKey string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.apiKey = apiKey
}

// AddResult appends a completed transcription to the session.
func (s *Session) AddResult(result model.TranscriptionResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results = append(s.results, result)
}

// Result looks up one transcription by id.
func (s *Session) Result(id string) (model.TranscriptionResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.results {
		if r.ID == id {
			return r, nil
		}
	}
	return model.TranscriptionResult{}, ErrResultNotFound
}

// Results returns a copy of all transcriptions in arrival order.
func (s *Session) Results() []model.TranscriptionResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.TranscriptionResult, len(s.results))
	copy(out, s.results)
	return out
}

// ResultCount returns the number of stored transcriptions.
func (s *Session) ResultCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.results)
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) idleSince(now time.Time) time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return now.Sub(s.lastSeen)
}

// Store manages session lifecycles: created on demand, looked up per
// request, discarded on delete or after sitting idle past the TTL.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	ttl      time.Duration
	stop     chan struct{}
	stopOnce sync.Once
}

// DefaultTTL is how long an idle session survives before eviction.
const DefaultTTL = 30 * time.Minute

// NewStore creates a session store and starts its eviction janitor.
func NewStore(ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	s := &Store{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		stop:     make(chan struct{}),
	}
	go s.janitor()
	return s
}

// Create starts a new session holding the given credential.
func (st *Store) Create(apiKey string) *Session {
	now := time.Now()
	s := &Session{
		id:        uuid.New().String(),
		createdAt: now,
		apiKey:    apiKey,
		lastSeen:  now,
	}

	st.mu.Lock()
	st.sessions[s.id] = s
	st.mu.Unlock()

	return s
}

// Get returns the session with the given id and refreshes its idle timer.
func (st *Store) Get(id string) (*Session, error) {
	st.mu.RLock()
	s, ok := st.sessions[id]
	st.mu.RUnlock()

	if !ok {
		return nil, ErrNotFound
	}
	s.touch(time.Now())
	return s, nil
}

// Delete ends a session and discards its state.
func (st *Store) Delete(id string) error {
	st.mu.Lock()
	defer st.mu.Unlock()

	if _, ok := st.sessions[id]; !ok {
		return ErrNotFound
	}
	delete(st.sessions, id)
	return nil
}

// Len returns the number of live sessions.
func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

// Close stops the eviction janitor and drops all sessions.
func (st *Store) Close() {
	st.stopOnce.Do(func() {
		close(st.stop)
	})

	st.mu.Lock()
	st.sessions = make(map[string]*Session)
	st.mu.Unlock()
}

func (st *Store) janitor() {
	ticker := time.NewTicker(st.ttl / 4)
	defer ticker.Stop()

	for {
		select {
		case <-st.stop:
			return
		case now := <-ticker.C:
			st.evictIdle(now)
		}
	}
}

func (st *Store) evictIdle(now time.Time) {
	st.mu.Lock()
	defer st.mu.Unlock()
	for id, s := range st.sessions {
		if s.idleSince(now) > st.ttl {
			delete(st.sessions, id)
		}
	}
}
