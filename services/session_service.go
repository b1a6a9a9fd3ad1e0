package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/camden-git/familymapbackend/graph"
	"github.com/camden-git/familymapbackend/logger"
	"github.com/camden-git/familymapbackend/metrics"
	"github.com/camden-git/familymapbackend/models"
	"github.com/camden-git/familymapbackend/realtime"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

var ErrSessionNotFound = errors.New("session not found")

// Session binds a signed-in user to their own graph store
type Session struct {
	ID        string
	Username  string
	PersonID  string
	AuthToken string
	Store     *graph.Store
	CreatedAt time.Time
}

// SessionManager holds the live sessions in memory
type SessionManager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewSessionManager() *SessionManager {
	return &SessionManager{sessions: make(map[string]*Session)}
}

func (m *SessionManager) Put(s *Session) {
	m.mu.Lock()
	m.sessions[s.ID] = s
	n := len(m.sessions)
	m.mu.Unlock()
	metrics.SetActiveSessions(n)
}

func (m *SessionManager) Get(id string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	return s, ok
}

func (m *SessionManager) Delete(id string) (*Session, bool) {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	n := len(m.sessions)
	m.mu.Unlock()
	metrics.SetActiveSessions(n)
	return s, ok
}

func (m *SessionManager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Broadcaster receives session lifecycle events
type Broadcaster interface {
	Broadcast(event realtime.Event)
}

type SessionService struct {
	family   FamilyService
	sessions *SessionManager
	hub      Broadcaster
	log      *logger.Logger
	group    singleflight.Group
}

func NewSessionService(family FamilyService, sessions *SessionManager, hub Broadcaster, log *logger.Logger) *SessionService {
	if sessions == nil {
		sessions = NewSessionManager()
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &SessionService{family: family, sessions: sessions, hub: hub, log: log}
}

func (s *SessionService) Sessions() *SessionManager { return s.sessions }

// Login authenticates with the family service and loads the user's dataset
// into a fresh session
func (s *SessionService) Login(ctx context.Context, req LoginRequest) (*Session, graph.LoadStats, error) {
	auth, err := s.family.Login(ctx, req)
	if err != nil {
		return nil, graph.LoadStats{}, err
	}
	return s.open(ctx, auth)
}

func (s *SessionService) Register(ctx context.Context, req RegisterRequest) (*Session, graph.LoadStats, error) {
	auth, err := s.family.Register(ctx, req)
	if err != nil {
		return nil, graph.LoadStats{}, err
	}
	return s.open(ctx, auth)
}

func (s *SessionService) open(ctx context.Context, auth AuthResult) (*Session, graph.LoadStats, error) {
	sess := &Session{
		ID:        uuid.NewString(),
		Username:  auth.Username,
		PersonID:  auth.PersonID,
		AuthToken: auth.AuthToken,
		Store:     graph.NewStore(),
		CreatedAt: time.Now(),
	}
	stats, err := s.load(ctx, sess)
	if err != nil {
		return nil, graph.LoadStats{}, err
	}
	s.sessions.Put(sess)
	s.log.Info("Session opened", "session_id", sess.ID, "username", sess.Username)
	return sess, stats, nil
}

// Session looks up a live session
func (s *SessionService) Session(id string) (*Session, error) {
	sess, ok := s.sessions.Get(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return sess, nil
}

// Refresh refetches the dataset of a session. Concurrent refreshes of the
// same session share one fetch. A filter that was applied before is
// re-applied to the new generation.
func (s *SessionService) Refresh(ctx context.Context, id string) (graph.LoadStats, error) {
	sess, err := s.Session(id)
	if err != nil {
		return graph.LoadStats{}, err
	}
	v, err, shared := s.group.Do(id, func() (interface{}, error) {
		return s.load(ctx, sess)
	})
	if err != nil {
		return graph.LoadStats{}, err
	}
	if shared {
		s.log.Debug("Refresh coalesced", "session_id", id)
	}
	return v.(graph.LoadStats), nil
}

// Logout invalidates the session's store and forgets the session
func (s *SessionService) Logout(id string) error {
	sess, ok := s.sessions.Delete(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	sess.Store.Invalidate()
	s.broadcast(realtime.Event{Type: realtime.EventDatasetInvalidated, SessionID: id})
	s.log.Info("Session closed", "session_id", id, "username", sess.Username)
	return nil
}

func (s *SessionService) load(ctx context.Context, sess *Session) (graph.LoadStats, error) {
	var (
		persons []models.Person
		events  []models.Event
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		persons, err = s.family.Persons(gctx, sess.AuthToken)
		return err
	})
	g.Go(func() error {
		var err error
		events, err = s.family.Events(gctx, sess.AuthToken)
		return err
	})
	if err := g.Wait(); err != nil {
		metrics.RecordLoad(err, 0, 0, 0)
		return graph.LoadStats{}, err
	}

	var previous *graph.Filter
	if snap, err := sess.Store.Snapshot(); err == nil {
		if f, applied := snap.Filter(); applied {
			previous = &f
		}
	}

	stats, err := sess.Store.Load(sess.PersonID, persons, events)
	metrics.RecordLoad(err, stats.Persons, stats.Events, stats.OrphanEvents)
	if err != nil {
		return graph.LoadStats{}, fmt.Errorf("load dataset for %s: %w", sess.Username, err)
	}
	if stats.OrphanEvents > 0 || stats.DuplicatePersons > 0 || stats.DuplicateEvents > 0 {
		s.log.Warn("Dataset integrity problems",
			"session_id", sess.ID,
			"orphan_events", stats.OrphanEvents,
			"duplicate_persons", stats.DuplicatePersons,
			"duplicate_events", stats.DuplicateEvents)
	}
	if !stats.RootResolved {
		s.log.Warn("Root person missing from dataset", "session_id", sess.ID, "person_id", sess.PersonID)
	}

	if previous != nil {
		if _, err := sess.Store.ApplyFilter(*previous); err != nil {
			s.log.Warn("Failed to re-apply filter after reload", "session_id", sess.ID, "error", err)
		}
	}

	var generation uint64
	if snap, err := sess.Store.Snapshot(); err == nil {
		generation = snap.Generation()
	}
	s.broadcast(realtime.Event{
		Type:       realtime.EventDatasetLoaded,
		SessionID:  sess.ID,
		Generation: generation,
		Extra: map[string]interface{}{
			"persons":       stats.Persons,
			"events":        stats.Events,
			"orphan_events": stats.OrphanEvents,
		},
	})
	return stats, nil
}

func (s *SessionService) broadcast(event realtime.Event) {
	if s.hub != nil {
		s.hub.Broadcast(event)
	}
}
