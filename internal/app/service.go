package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jaminalder/timetravel-tic-tac-toe/internal/domain"
)

// Errors exposed by the service layer.
var ErrNotFound = errors.New("game not found")

// GameState is the in-memory state tracked per game.
type GameState struct {
	ID      string
	Game    *domain.Game
	Created time.Time
	Updated time.Time
}

func (gs *GameState) snapshot() *GameState {
	cp := *gs
	cp.Game = gs.Game.Clone()
	return &cp
}

type subscriber struct {
	mu     sync.Mutex
	ch     chan []byte
	closed bool
}

func (s *subscriber) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.closed = true
		close(s.ch)
	}
}

// send delivers without blocking; false means the subscriber is full or closed.
func (s *subscriber) send(b []byte) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	select {
	case s.ch <- b:
		return true
	default:
		return false
	}
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the service logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.log = l.With("component", "games")
		}
	}
}

// WithRenderer sets the function that renders broadcast payloads.
func WithRenderer(renderer func(GameState) []byte) Option {
	return func(s *Service) { s.setRenderer(renderer) }
}

// WithMaxGames bounds the number of games kept in memory; 0 means unbounded.
func WithMaxGames(n int) Option {
	return func(s *Service) { s.maxGames = n }
}

// Service manages games and subscribers. Each game is a domain.Game session;
// the service serializes access to them.
type Service struct {
	mu       sync.Mutex
	games    map[string]*GameState
	subs     map[string]map[*subscriber]struct{}
	render   func(GameState) []byte
	maxGames int
	log      *slog.Logger
	now      func() time.Time
}

// NewService creates a service. Without WithRenderer broadcasts carry no payload.
func NewService(opts ...Option) *Service {
	s := &Service{
		games: make(map[string]*GameState),
		subs:  make(map[string]map[*subscriber]struct{}),
		log:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:   time.Now,
	}
	s.setRenderer(nil)
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetRenderer replaces the broadcast renderer function.
func (s *Service) SetRenderer(renderer func(GameState) []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setRenderer(renderer)
}

func (s *Service) setRenderer(renderer func(GameState) []byte) {
	if renderer == nil {
		renderer = func(GameState) []byte { return nil }
	}
	s.render = renderer
}

// CreateGame creates and registers a new game, evicting the least recently
// updated one when the limit is reached.
func (s *Service) CreateGame() (*GameState, error) {
	s.mu.Lock()
	var evicted map[*subscriber]struct{}
	if s.maxGames > 0 && len(s.games) >= s.maxGames {
		evicted = s.evictOldestLocked()
	}
	id := uuid.NewString()
	now := s.now()
	gs := &GameState{ID: id, Game: domain.New(), Created: now, Updated: now}
	s.games[id] = gs
	cp := gs.snapshot()
	s.mu.Unlock()

	for sub := range evicted {
		sub.close()
	}
	s.log.Debug("game created", "game", id)
	return cp, nil
}

func (s *Service) evictOldestLocked() map[*subscriber]struct{} {
	var oldest *GameState
	for _, gs := range s.games {
		if oldest == nil || gs.Updated.Before(oldest.Updated) {
			oldest = gs
		}
	}
	if oldest == nil {
		return nil
	}
	delete(s.games, oldest.ID)
	subs := s.subs[oldest.ID]
	delete(s.subs, oldest.ID)
	s.log.Info("game evicted", "game", oldest.ID, "updated", oldest.Updated)
	return subs
}

// Get returns a copy of the game state if present.
func (s *Service) Get(id string) (*GameState, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	gs, ok := s.games[id]
	if !ok {
		return nil, false
	}
	return gs.snapshot(), true
}

// List returns copies of all games, most recently updated first.
func (s *Service) List() []GameState {
	s.mu.Lock()
	out := make([]GameState, 0, len(s.games))
	for _, gs := range s.games {
		out = append(out, *gs.snapshot())
	}
	s.mu.Unlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Updated.Equal(out[j].Updated) {
			return out[i].ID < out[j].ID
		}
		return out[i].Updated.After(out[j].Updated)
	})
	return out
}

// Play applies a move to the game's current step. An illegal move is not an
// error: the state is returned unchanged with accepted == false.
func (s *Service) Play(id string, cell int) (*GameState, bool, error) {
	return s.mutate(id, func(g *domain.Game) (bool, error) {
		return g.Play(cell), nil
	}, "cell", cell)
}

// JumpTo moves the game's step pointer.
func (s *Service) JumpTo(id string, step int) (*GameState, error) {
	gs, _, err := s.mutate(id, func(g *domain.Game) (bool, error) {
		if err := g.JumpTo(step); err != nil {
			return false, err
		}
		return true, nil
	}, "step", step)
	return gs, err
}

// mutate runs fn under the lock, then broadcasts when fn reports a change.
func (s *Service) mutate(id string, fn func(*domain.Game) (bool, error), logArgs ...any) (*GameState, bool, error) {
	s.mu.Lock()
	gs, ok := s.games[id]
	if !ok {
		s.mu.Unlock()
		return nil, false, ErrNotFound
	}
	changed, err := fn(gs.Game)
	if err != nil || !changed {
		cp := gs.snapshot()
		s.mu.Unlock()
		s.log.Debug("game unchanged", append([]any{"game", id, "error", err}, logArgs...)...)
		return cp, false, err
	}
	gs.Updated = s.now()

	// Snapshot state and subscribers
	cp := gs.snapshot()
	subs := s.copySubsLocked(id)
	payload := s.render(*cp)
	s.mu.Unlock()

	s.log.Debug("game updated", append([]any{"game", id, "step", cp.Game.StepNumber(), "status", cp.Game.Status().String()}, logArgs...)...)
	s.broadcast(id, subs, payload)
	return cp, true, nil
}

func (s *Service) broadcast(id string, subs map[*subscriber]struct{}, payload []byte) {
	var toDrop []*subscriber
	// Fan-out; drop slow subscribers by closing and marking for deletion
	for sub := range subs {
		if !sub.send(payload) {
			sub.close()
			toDrop = append(toDrop, sub)
		}
	}
	if len(toDrop) == 0 {
		return
	}
	s.mu.Lock()
	for _, sub := range toDrop {
		if set, ok := s.subs[id]; ok {
			delete(set, sub)
		}
	}
	s.mu.Unlock()
	s.log.Debug("dropped slow subscribers", "game", id, "count", len(toDrop))
}

// Subscribe registers a subscriber for a game. Returns a channel and an
// unsubscribe func. Subscribing to an unknown game returns a closed channel.
func (s *Service) Subscribe(ctx context.Context, id string) (<-chan []byte, func()) {
	sub := &subscriber{ch: make(chan []byte, 1)}

	s.mu.Lock()
	if _, ok := s.games[id]; !ok {
		s.mu.Unlock()
		sub.close()
		return sub.ch, func() {}
	}
	set := s.subs[id]
	if set == nil {
		set = make(map[*subscriber]struct{})
		s.subs[id] = set
	}
	set[sub] = struct{}{}
	s.mu.Unlock()

	unsubOnce := &sync.Once{}
	unsub := func() {
		unsubOnce.Do(func() {
			s.mu.Lock()
			if set, ok := s.subs[id]; ok {
				delete(set, sub)
				if len(set) == 0 {
					delete(s.subs, id)
				}
			}
			s.mu.Unlock()
			sub.close()
		})
	}
	go func() {
		<-ctx.Done()
		unsub()
	}()
	return sub.ch, unsub
}

func (s *Service) copySubsLocked(id string) map[*subscriber]struct{} {
	out := make(map[*subscriber]struct{})
	if set, ok := s.subs[id]; ok {
		for k := range set {
			out[k] = struct{}{}
		}
	}
	return out
}
