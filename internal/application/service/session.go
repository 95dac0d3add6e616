package service

import (
	"sync"
	"time"

	"github.com/garyjia/invoice-labeler/internal/guideline"
	"github.com/garyjia/invoice-labeler/internal/sequence"
	"github.com/garyjia/invoice-labeler/internal/voucher"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AnnotatedDocument is the last document offered for download
type AnnotatedDocument struct {
	FileName  string
	Content   []byte
	Annotated bool // false when the original bytes are returned unchanged
}

// Session owns the registries of one labeling run. Operations on a session
// are serialised by its mutex.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu            sync.Mutex
	table         *guideline.MappingTable
	registry      *sequence.Registry
	journal       *voucher.Journal
	lastAnnotated *AnnotatedDocument
}

// SessionStore keeps sessions in memory by id
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	now      sequence.Clock
	logger   *zap.Logger
}

// NewSessionStore creates an empty store. A nil clock means time.Now.
func NewSessionStore(now sequence.Clock, logger *zap.Logger) *SessionStore {
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionStore{
		sessions: make(map[string]*Session),
		now:      now,
		logger:   logger,
	}
}

// Create starts a session with empty registries
func (st *SessionStore) Create() *Session {
	s := &Session{
		ID:        uuid.NewString(),
		CreatedAt: st.now(),
		table:     guideline.NewMappingTable(st.logger),
		registry:  sequence.NewRegistryWithClock(st.now, st.logger),
		journal:   voucher.NewJournal(),
	}

	st.mu.Lock()
	st.sessions[s.ID] = s
	st.mu.Unlock()

	st.logger.Info("Session started", zap.String("session_id", s.ID))
	return s
}

// Get returns the session with the given id
func (st *SessionStore) Get(id string) (*Session, error) {
	st.mu.RLock()
	defer st.mu.RUnlock()

	s, ok := st.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// End discards a session and everything it holds
func (st *SessionStore) End(id string) error {
	st.mu.Lock()
	defer st.mu.Unlock()

	if _, ok := st.sessions[id]; !ok {
		return ErrSessionNotFound
	}
	delete(st.sessions, id)

	st.logger.Info("Session ended", zap.String("session_id", id))
	return nil
}

// Len returns the number of live sessions
func (st *SessionStore) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}
