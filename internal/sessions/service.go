// Package sessions holds live roast sessions and runs the effects the reducer asks for.
package sessions

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"resume-roaster/internal/credentials"
	"resume-roaster/internal/llm"
	"resume-roaster/internal/session"
	"resume-roaster/internal/shared/metrics"
	"resume-roaster/internal/shared/telemetry"
)

// Snapshot is a copy of one session taken under its lock.
type Snapshot struct {
	ID    string
	State session.State
	// From is the stage before the event that produced this snapshot.
	From session.Stage
}

// Transition renders the stage change, or "" when the stage did not move.
func (s Snapshot) Transition() string {
	if s.From == "" || s.From == s.State.Stage {
		return ""
	}
	return string(s.From) + "->" + string(s.State.Stage)
}

// View returns the presentation projection of the snapshot.
func (s Snapshot) View() session.ViewModel {
	return session.View(s.State)
}

// liveSession.mu is taken before Service.mu, never after it.
type liveSession struct {
	mu        sync.Mutex
	id        string
	clientID  string
	state     session.State
	cancel    context.CancelFunc
	done      chan struct{}
	startedAt time.Time
	touchedAt time.Time
}

// Service owns every live session. Events for one session are applied in order.
type Service struct {
	LLM         llm.Client
	Credentials credentials.Store
	Now         func() time.Time

	mu   sync.RWMutex
	live map[string]*liveSession
}

// NewService constructs a Service.
func NewService(client llm.Client, store credentials.Store) *Service {
	if client == nil {
		client = llm.PlaceholderClient{}
	}
	return &Service{
		LLM:         client,
		Credentials: store,
		Now:         time.Now,
		live:        make(map[string]*liveSession),
	}
}

func (s *Service) now() time.Time {
	if s.Now == nil {
		return time.Now().UTC()
	}
	return s.Now().UTC()
}

// Create opens a session in landing, preloaded with the client's stored credential.
func (s *Service) Create(ctx context.Context, clientID string) (Snapshot, error) {
	if clientID == "" {
		return Snapshot{}, errors.New("clientID is required")
	}
	credential, err := credentials.Lookup(ctx, s.Credentials, clientID, credentials.APIKey)
	if err != nil {
		telemetry.Error("credentials.load_failed", map[string]any{
			"request_id": requestIDFromContext(ctx),
			"client_id":  clientID,
			"error":      err,
		})
		credential = ""
	}

	ls := &liveSession{
		id:        uuid.NewString(),
		clientID:  clientID,
		state:     session.New(credential),
		touchedAt: s.now(),
	}
	s.mu.Lock()
	if s.live == nil {
		s.live = make(map[string]*liveSession)
	}
	s.live[ls.id] = ls
	s.mu.Unlock()

	metrics.SessionOpened()
	telemetry.Info("session.created", map[string]any{
		"request_id":     requestIDFromContext(ctx),
		"client_id":      clientID,
		"session_id":     ls.id,
		"has_credential": credential != "",
	})
	return Snapshot{ID: ls.id, State: ls.state}, nil
}

// Get returns the current state of a session owned by clientID.
func (s *Service) Get(ctx context.Context, clientID, sessionID string) (Snapshot, error) {
	_ = ctx
	ls, err := s.lookup(clientID, sessionID)
	if err != nil {
		return Snapshot{}, err
	}
	ls.mu.Lock()
	defer ls.mu.Unlock()
	return Snapshot{ID: ls.id, State: ls.state}, nil
}

// Dispatch applies a user event. It returns ErrBusy for a second analyze while one is
// in flight, ErrNotApplicable when the stage ignores the event and ErrRejected when the
// event was validated and refused; the snapshot is valid in every case but ErrNotFound.
func (s *Service) Dispatch(ctx context.Context, clientID, sessionID string, ev session.Event) (Snapshot, error) {
	return s.DispatchFunc(ctx, clientID, sessionID, func(session.State) session.Event { return ev })
}

// DispatchFunc is Dispatch with the event built from the current state under the
// session lock, so partial updates merge against the latest values.
func (s *Service) DispatchFunc(ctx context.Context, clientID, sessionID string, build func(session.State) session.Event) (Snapshot, error) {
	ls, err := s.lookup(clientID, sessionID)
	if err != nil {
		return Snapshot{}, err
	}
	snap, effect, err := s.apply(ctx, ls, build)
	if effect.Kind == session.EffectPersistCredential {
		s.persistCredential(ctx, ls.clientID, effect.Credential)
	}
	return snap, err
}

// apply reduces one event under ls.mu. Effects that touch the session run before the
// lock is released; the returned effect is for the caller to finish outside it.
func (s *Service) apply(ctx context.Context, ls *liveSession, build func(session.State) session.Event) (Snapshot, session.Effect, error) {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	ls.touchedAt = s.now()

	prev := ls.state
	ev := build(prev)
	if _, analyze := ev.(session.AnalyzeRequested); analyze && prev.Stage == session.StageAnalyzing {
		return Snapshot{ID: ls.id, State: prev, From: prev.Stage}, session.Effect{}, ErrBusy
	}
	if !session.Accepts(prev, ev) {
		return Snapshot{ID: ls.id, State: prev, From: prev.Stage}, session.Effect{}, fmt.Errorf("%w: %s", ErrNotApplicable, prev.Stage)
	}

	next, effect := session.Reduce(prev, ev)
	ls.state = next
	s.runEffect(ctx, ls, effect)

	snap := Snapshot{ID: ls.id, State: next, From: prev.Stage}
	s.logTransition(ctx, ls, snap)
	if validated(ev) && next.LastError != "" {
		return snap, effect, ErrRejected
	}
	return snap, effect, nil
}

// ChangeCredential stores credential for clientID and applies it to every live
// session the client owns.
func (s *Service) ChangeCredential(ctx context.Context, clientID, credential string) error {
	if err := credentials.Save(ctx, s.Credentials, clientID, credentials.APIKey, credential); err != nil {
		return err
	}

	s.mu.RLock()
	var owned []*liveSession
	for _, ls := range s.live {
		if ls.clientID == clientID {
			owned = append(owned, ls)
		}
	}
	s.mu.RUnlock()

	for _, ls := range owned {
		ls.mu.Lock()
		ls.state, _ = session.Reduce(ls.state, session.CredentialChanged{Credential: credential})
		ls.touchedAt = s.now()
		ls.mu.Unlock()
	}
	telemetry.Info("credentials.changed", map[string]any{
		"request_id":     requestIDFromContext(ctx),
		"client_id":      clientID,
		"has_credential": credential != "",
		"sessions":       len(owned),
	})
	return nil
}

// Await blocks until the session leaves the analyzing stage or ctx is done.
func (s *Service) Await(ctx context.Context, clientID, sessionID string) (Snapshot, error) {
	ls, err := s.lookup(clientID, sessionID)
	if err != nil {
		return Snapshot{}, err
	}
	for {
		ls.mu.Lock()
		snap := Snapshot{ID: ls.id, State: ls.state}
		done := ls.done
		ls.mu.Unlock()
		if snap.State.Stage != session.StageAnalyzing || done == nil {
			return snap, nil
		}
		select {
		case <-done:
		case <-ctx.Done():
			return snap, ctx.Err()
		}
	}
}

// Abandon cancels any in-flight call and drops the session.
func (s *Service) Abandon(ctx context.Context, clientID, sessionID string) error {
	ls, err := s.lookup(clientID, sessionID)
	if err != nil {
		return err
	}
	if !s.unmap(ls) {
		return ErrNotFound
	}

	ls.mu.Lock()
	s.close(ctx, ls)
	ls.mu.Unlock()

	metrics.SessionClosed()
	telemetry.Info("session.abandoned", map[string]any{
		"request_id": requestIDFromContext(ctx),
		"client_id":  clientID,
		"session_id": sessionID,
	})
	return nil
}

// Sweep abandons sessions idle for longer than maxIdle and returns how many were dropped.
func (s *Service) Sweep(ctx context.Context, maxIdle time.Duration) int {
	if maxIdle <= 0 {
		return 0
	}
	cutoff := s.now().Add(-maxIdle)

	s.mu.RLock()
	candidates := make([]*liveSession, 0, len(s.live))
	for _, ls := range s.live {
		candidates = append(candidates, ls)
	}
	s.mu.RUnlock()

	dropped := 0
	for _, ls := range candidates {
		ls.mu.Lock()
		idle := ls.touchedAt.Before(cutoff) && ls.state.Stage != session.StageAnalyzing
		if idle && s.unmap(ls) {
			s.close(ctx, ls)
			dropped++
			ls.mu.Unlock()
			metrics.SessionClosed()
			continue
		}
		ls.mu.Unlock()
	}
	if dropped > 0 {
		telemetry.Info("session.sweep", map[string]any{"dropped": dropped})
	}
	return dropped
}

// RunJanitor sweeps idle sessions every interval until ctx is done.
func (s *Service) RunJanitor(ctx context.Context, interval, maxIdle time.Duration) {
	if interval <= 0 || maxIdle <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep(ctx, maxIdle)
		}
	}
}

// Shutdown cancels every in-flight call.
func (s *Service) Shutdown(ctx context.Context) {
	s.mu.Lock()
	all := make([]*liveSession, 0, len(s.live))
	for id, ls := range s.live {
		all = append(all, ls)
		delete(s.live, id)
	}
	s.mu.Unlock()

	for _, ls := range all {
		ls.mu.Lock()
		s.close(ctx, ls)
		ls.mu.Unlock()
		metrics.SessionClosed()
	}
}

// Len returns the number of live sessions.
func (s *Service) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.live)
}

func (s *Service) lookup(clientID, sessionID string) (*liveSession, error) {
	s.mu.RLock()
	ls, ok := s.live[sessionID]
	s.mu.RUnlock()
	if !ok || ls.clientID != clientID {
		return nil, ErrNotFound
	}
	return ls, nil
}

// unmap removes ls from the registry if it is still registered. It takes s.mu, so a
// caller holding ls.mu keeps the lock order ls.mu before s.mu.
func (s *Service) unmap(ls *liveSession) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.live[ls.id] != ls {
		return false
	}
	delete(s.live, ls.id)
	return true
}

// close resets the session through the reducer so any completion still in flight is
// stale. Caller holds ls.mu.
func (s *Service) close(ctx context.Context, ls *liveSession) {
	next, effect := session.Reduce(ls.state, session.Reset{})
	ls.state = next
	s.runEffect(ctx, ls, effect)
}

// validated lists the events whose refusal is reported through LastError.
func validated(ev session.Event) bool {
	switch ev.(type) {
	case session.ResumePasted, session.FileSelected, session.PreferencesChanged,
		session.AnalyzeRequested, session.ContactSubmitted:
		return true
	default:
		return false
	}
}

func (s *Service) logTransition(ctx context.Context, ls *liveSession, snap Snapshot) {
	transition := snap.Transition()
	if transition == "" {
		return
	}
	telemetry.Info("session.transition", map[string]any{
		"request_id":       requestIDFromContext(ctx),
		"client_id":        ls.clientID,
		"session_id":       ls.id,
		"stage_transition": transition,
		"attempt":          snap.State.Attempt,
	})
}
