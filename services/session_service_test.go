package services

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/camden-git/familymapbackend/graph"
	"github.com/camden-git/familymapbackend/models"
	"github.com/camden-git/familymapbackend/realtime"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFamily struct {
	persons   []models.Person
	events    []models.Event
	fetches   atomic.Int32
	delay     time.Duration
	eventsErr error
}

func (f *fakeFamily) Login(ctx context.Context, req LoginRequest) (AuthResult, error) {
	if req.Password != "secret" {
		return AuthResult{}, newServiceError("login", http.StatusUnauthorized, "bad password", nil)
	}
	return AuthResult{AuthToken: "tok", Username: req.Username, PersonID: "root"}, nil
}

func (f *fakeFamily) Register(ctx context.Context, req RegisterRequest) (AuthResult, error) {
	return AuthResult{AuthToken: "tok", Username: req.Username, PersonID: "root"}, nil
}

func (f *fakeFamily) Persons(ctx context.Context, token string) ([]models.Person, error) {
	f.fetches.Add(1)
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	return f.persons, nil
}

func (f *fakeFamily) Events(ctx context.Context, token string) ([]models.Event, error) {
	if f.eventsErr != nil {
		return nil, f.eventsErr
	}
	return f.events, nil
}

func (f *fakeFamily) Clear(ctx context.Context) error { return nil }

type recordingHub struct {
	mu     sync.Mutex
	events []realtime.Event
}

func (h *recordingHub) Broadcast(e realtime.Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, e)
}

func (h *recordingHub) types() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	var out []string
	for _, e := range h.events {
		out = append(out, e.Type)
	}
	return out
}

func smallFamily() *fakeFamily {
	return &fakeFamily{
		persons: []models.Person{
			{PersonID: "root", FirstName: "Rita", LastName: "Root", Gender: "f", MotherID: models.StringPtr("mom"), FatherID: models.StringPtr("dad")},
			{PersonID: "mom", FirstName: "Mona", LastName: "Root", Gender: "f"},
			{PersonID: "dad", FirstName: "Dan", LastName: "Root", Gender: "m"},
		},
		events: []models.Event{
			{EventID: "e1", PersonID: "root", EventType: "birth", Year: 1990},
			{EventID: "e2", PersonID: "mom", EventType: "birth", Year: 1960},
			{EventID: "e3", PersonID: "dad", EventType: "birth", Year: 1958},
			{EventID: "orphan", PersonID: "nobody", EventType: "birth", Year: 1900},
		},
	}
}

func TestLoginOpensSessionWithLoadedStore(t *testing.T) {
	hub := &recordingHub{}
	svc := NewSessionService(smallFamily(), nil, hub, nil)

	sess, stats, err := svc.Login(context.Background(), LoginRequest{Username: "rita", Password: "secret"})
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Persons)
	assert.Equal(t, 3, stats.Events)
	assert.Equal(t, 1, stats.OrphanEvents)
	assert.True(t, sess.Store.Loaded())

	got, err := svc.Session(sess.ID)
	require.NoError(t, err)
	assert.Same(t, sess, got)
	assert.Equal(t, []string{realtime.EventDatasetLoaded}, hub.types())
}

func TestLoginFailureKeepsNoSession(t *testing.T) {
	svc := NewSessionService(smallFamily(), nil, nil, nil)

	_, _, err := svc.Login(context.Background(), LoginRequest{Username: "rita", Password: "wrong"})
	se, ok := AsServiceError(err)
	require.True(t, ok)
	assert.True(t, se.Unauthorized())
	assert.Equal(t, 0, svc.Sessions().Len())
}

func TestFetchFailureAbortsLogin(t *testing.T) {
	fam := smallFamily()
	fam.eventsErr = errors.New("connection reset")
	svc := NewSessionService(fam, nil, nil, nil)

	_, _, err := svc.Register(context.Background(), RegisterRequest{Username: "rita"})
	assert.ErrorContains(t, err, "connection reset")
	assert.Equal(t, 0, svc.Sessions().Len())
}

func TestRefreshKeepsAppliedFilter(t *testing.T) {
	svc := NewSessionService(smallFamily(), nil, nil, nil)
	sess, _, err := svc.Login(context.Background(), LoginRequest{Username: "rita", Password: "secret"})
	require.NoError(t, err)

	f := graph.AllFilter()
	f.FatherSide = false
	_, err = sess.Store.ApplyFilter(f)
	require.NoError(t, err)

	_, err = svc.Refresh(context.Background(), sess.ID)
	require.NoError(t, err)

	snap, err := sess.Store.Snapshot()
	require.NoError(t, err)
	applied, ok := snap.Filter()
	assert.True(t, ok)
	assert.Equal(t, f, applied)
	assert.False(t, snap.IsFiltered("dad"))
	assert.True(t, snap.IsFiltered("mom"))
}

func TestConcurrentRefreshesAreCoalesced(t *testing.T) {
	fam := smallFamily()
	svc := NewSessionService(fam, nil, nil, nil)
	sess, _, err := svc.Login(context.Background(), LoginRequest{Username: "rita", Password: "secret"})
	require.NoError(t, err)

	fam.fetches.Store(0)
	fam.delay = 50 * time.Millisecond

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Refresh(context.Background(), sess.ID)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	assert.Less(t, fam.fetches.Load(), int32(5))
}

func TestLogoutInvalidatesStore(t *testing.T) {
	hub := &recordingHub{}
	svc := NewSessionService(smallFamily(), nil, hub, nil)
	sess, _, err := svc.Login(context.Background(), LoginRequest{Username: "rita", Password: "secret"})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(sess.ID))
	assert.False(t, sess.Store.Loaded())

	_, err = svc.Session(sess.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.ErrorIs(t, svc.Logout(sess.ID), ErrSessionNotFound)
	_, err = svc.Refresh(context.Background(), sess.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	assert.Equal(t, []string{realtime.EventDatasetLoaded, realtime.EventDatasetInvalidated}, hub.types())
}
