package service

import (
	"sort"
	"sync"
	"time"

	"picturecards/internal/domain"
	"picturecards/internal/session"

	"go.uber.org/zap"
)

// Presenter renders one chat's game
type Presenter interface {
	session.Sink
	session.TonePlayer
}

// PresenterFactory builds the presenter for a chat
type PresenterFactory func(chatID int64) Presenter

// GameConfig holds gameplay settings
type GameConfig struct {
	DefaultCycleSize  int
	CycleSizes        []int
	AdvanceDelay      time.Duration
	RepeatProbability float64
}

type game struct {
	ctrl       *session.Controller
	lastActive time.Time
}

// GameService runs one independent game per chat
type GameService struct {
	catalog      *domain.Catalog
	newPresenter PresenterFactory
	cfg          GameConfig
	logger       *zap.Logger
	opts         []session.Option
	now          func() time.Time

	mu    sync.Mutex
	games map[int64]*game
}

// NewGameService creates a new game service. Extra controller options are
// applied after the ones derived from cfg.
func NewGameService(
	catalog *domain.Catalog,
	newPresenter PresenterFactory,
	cfg GameConfig,
	logger *zap.Logger,
	opts ...session.Option,
) *GameService {
	return &GameService{
		catalog:      catalog,
		newPresenter: newPresenter,
		cfg:          cfg,
		logger:       logger,
		opts:         opts,
		now:          time.Now,
		games:        make(map[int64]*game),
	}
}

// Restart begins a new cycle in the chat and returns the cycle length.
// A non-positive size selects the default.
func (s *GameService) Restart(chatID int64, size int) int {
	if size <= 0 {
		size = s.cfg.DefaultCycleSize
	}

	g := s.getOrCreate(chatID)
	g.ctrl.Restart(size)

	target := g.ctrl.Snapshot().Target
	s.logger.Info("Cycle started",
		zap.Int64("chat_id", chatID),
		zap.Int("requested", size),
		zap.Int("target", target),
	)
	return target
}

// Submit evaluates an answer. The boolean is false when the chat has no
// card waiting for an answer.
func (s *GameService) Submit(chatID int64, text string) (domain.Feedback, bool) {
	g, ok := s.get(chatID)
	if !ok {
		return domain.Feedback{}, false
	}

	fb, ok := g.ctrl.SubmitAnswer(text)
	if ok {
		s.logger.Debug("Answer evaluated",
			zap.Int64("chat_id", chatID),
			zap.Bool("ok", fb.OK),
			zap.Bool("near_miss", fb.NearMiss),
		)
	}
	return fb, ok
}

// SubmitFor evaluates an answer only if itemID is still the card on
// display. Slow answers, like transcribed voice notes, use it so they never
// land on a card the player has not seen.
func (s *GameService) SubmitFor(chatID int64, itemID, text string) (domain.Feedback, bool) {
	g, ok := s.get(chatID)
	if !ok {
		return domain.Feedback{}, false
	}

	fb, ok := g.ctrl.SubmitAnswerFor(itemID, text)
	if ok {
		s.logger.Debug("Answer evaluated",
			zap.Int64("chat_id", chatID),
			zap.String("item_id", itemID),
			zap.Bool("ok", fb.OK),
			zap.Bool("near_miss", fb.NearMiss),
		)
	}
	return fb, ok
}

// Status returns the chat's game state
func (s *GameService) Status(chatID int64) (session.Snapshot, bool) {
	g, ok := s.get(chatID)
	if !ok {
		return session.Snapshot{}, false
	}
	return g.ctrl.Snapshot(), true
}

// CycleSizes returns the cycle lengths offered to players, clamped to the
// catalog and sorted
func (s *GameService) CycleSizes() []int {
	limit := s.catalog.Len()
	candidates := make([]int, 0, len(s.cfg.CycleSizes)+1)
	candidates = append(candidates, s.cfg.CycleSizes...)
	candidates = append(candidates, limit)

	seen := make(map[int]bool)
	var sizes []int
	for _, n := range candidates {
		if n > limit {
			n = limit
		}
		if n < 1 || seen[n] {
			continue
		}
		seen[n] = true
		sizes = append(sizes, n)
	}
	sort.Ints(sizes)
	return sizes
}

// CatalogSize returns number of cards available
func (s *GameService) CatalogSize() int {
	return s.catalog.Len()
}

// EvictIdle drops games untouched for longer than ttl and returns how
// many were removed
func (s *GameService) EvictIdle(ttl time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-ttl)
	removed := 0
	for chatID, g := range s.games {
		if g.lastActive.Before(cutoff) {
			g.ctrl.Stop()
			delete(s.games, chatID)
			removed++
		}
	}

	if removed > 0 {
		s.logger.Info("Evicted idle games",
			zap.Int("removed", removed),
			zap.Int("active", len(s.games)),
		)
	}
	return removed
}

// Active returns number of games in memory
func (s *GameService) Active() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.games)
}

func (s *GameService) get(chatID int64) (*game, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.games[chatID]
	if ok {
		g.lastActive = s.now()
	}
	return g, ok
}

func (s *GameService) getOrCreate(chatID int64) *game {
	s.mu.Lock()
	defer s.mu.Unlock()

	if g, ok := s.games[chatID]; ok {
		g.lastActive = s.now()
		return g
	}

	p := s.newPresenter(chatID)
	opts := []session.Option{
		session.WithAdvanceDelay(s.cfg.AdvanceDelay),
		session.WithRepeatProbability(s.cfg.RepeatProbability),
	}
	opts = append(opts, s.opts...)

	g := &game{
		ctrl:       session.NewController(s.catalog, p, p, opts...),
		lastActive: s.now(),
	}
	s.games[chatID] = g
	return g
}
