package games

import (
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"
)

var discardLogger = slog.New(slog.DiscardHandler)

// Snapshot is everything a renderer needs to draw a session.
type Snapshot struct {
	Active     Game                `json:"active,omitempty"`
	Difficulty map[Game]Difficulty `json:"difficulty"`
	Scores     map[Game]int        `json:"scores"`
	Total      int                 `json:"total"`
	HighScores map[Game]int        `json:"high_scores"`
	Cards      []CardView          `json:"cards"`
	Pairs      int                 `json:"pairs"`
	Matched    int                 `json:"matched"`
	Solved     bool                `json:"solved"`
	Problem    string              `json:"problem,omitempty"`
}

type Option func(*Session)

func WithClock(c Clock) Option {
	return func(s *Session) { s.clock = c }
}

func WithRand(r *rand.Rand) Option {
	return func(s *Session) { s.rng = r }
}

func WithRevealDelay(d time.Duration) Option {
	return func(s *Session) { s.revealDelay = d }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Session) { s.logger = l }
}

func WithRenderer(r Renderer) Option {
	return func(s *Session) { s.renderer = r }
}

// Session owns one player's three games and scoreboard. Every action, the
// delayed memory resolution included, runs under a single lock, so the
// games only ever see one thing happening at a time.
type Session struct {
	mu sync.Mutex

	clock       Clock
	rng         *rand.Rand
	revealDelay time.Duration
	logger      *slog.Logger
	renderer    Renderer

	scores   *ScoreBoard
	memory   *MemoryBoard
	spelling *SpellingRound
	math     *MathRound

	active      Game
	initialized map[Game]bool
	closed      bool
}

// NewSession creates a session whose scores feed high. high may be nil.
func NewSession(high *HighScores, opts ...Option) *Session {
	s := &Session{
		clock:       RealClock{},
		revealDelay: DefaultRevealDelay,
		logger:      discardLogger,
		renderer:    nopRenderer{},
		initialized: make(map[Game]bool, len(All)),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	s.scores = NewScoreBoard(high)
	s.memory = NewMemoryBoard(s.scores, s.rng, sessionClock{s}, s.revealDelay)
	s.memory.onResolve = s.resolved
	s.spelling = NewSpellingRound(s.scores, s.rng)
	s.math = NewMathRound(s.scores, s.rng)

	return s
}

// sessionClock runs scheduled callbacks under the session lock.
type sessionClock struct {
	s *Session
}

func (c sessionClock) AfterFunc(d time.Duration, f func()) Timer {
	return c.s.clock.AfterFunc(d, func() {
		c.s.mu.Lock()
		defer c.s.mu.Unlock()

		if c.s.closed {
			return
		}
		f()
	})
}

// SetRenderer swaps the renderer; nil silences the session.
func (s *Session) SetRenderer(r Renderer) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if r == nil {
		r = nopRenderer{}
	}
	s.renderer = r
}

// Select makes g the active game, dealing it at easy the first time.
func (s *Session) Select(g Game) error {
	if !g.Valid() {
		return ErrUnknownGame
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.active = g
	s.ensureLocked(g)

	s.logger.Debug("game selected", slog.String("game", string(g)))
	s.renderLocked()

	return nil
}

// SetDifficulty restarts g at d. Other games are left alone.
func (s *Session) SetDifficulty(g Game, d Difficulty) error {
	if !g.Valid() {
		return ErrUnknownGame
	}
	if !d.Valid() {
		return ErrUnknownDifficulty
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.startLocked(g, d)

	s.logger.Debug("difficulty set", slog.String("game", string(g)), slog.String("difficulty", string(d)))
	s.renderLocked()

	return nil
}

// Flip turns a memory card face up.
func (s *Session) Flip(i int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ensureLocked(Memory)

	if err := s.memory.Flip(i); err != nil {
		return err
	}

	s.renderLocked()

	return nil
}

// Resolve settles a waiting memory pair without waiting for the timer.
func (s *Session) Resolve() (Outcome, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.memory.Resolve()
}

func (s *Session) CheckSpelling(answer string) Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ensureLocked(Spelling)
	out := s.spelling.CheckAnswer(answer)
	s.reportLocked(out)

	return out
}

func (s *Session) CheckMath(answer string) Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ensureLocked(Math)
	out := s.math.CheckAnswer(answer)
	s.reportLocked(out)

	return out
}

// SpellingTarget returns the word the player has to spell.
func (s *Session) SpellingTarget() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ensureLocked(Spelling)

	return s.spelling.Target()
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.snapshotLocked()
}

// Close drops any pending resolution. The session ignores its timers
// afterwards.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	s.memory.cancelPending()
}

func (s *Session) ensureLocked(g Game) {
	if !s.initialized[g] {
		s.startLocked(g, Easy)
	}
}

func (s *Session) startLocked(g Game, d Difficulty) {
	switch g {
	case Memory:
		s.memory.NewBoard(d)
	case Spelling:
		s.spelling.NewRound(d)
	case Math:
		s.math.NewProblem(d)
	}
	s.initialized[g] = true
}

func (s *Session) resolved(out Outcome) {
	s.reportLocked(out)
}

func (s *Session) reportLocked(out Outcome) {
	s.logger.Debug("answer checked",
		slog.String("game", string(out.Game)),
		slog.Bool("correct", out.Correct),
		slog.Int("score", out.Score),
	)

	s.renderer.Feedback(out.Feedback)
	s.renderLocked()
}

func (s *Session) renderLocked() {
	s.renderer.Render(s.snapshotLocked())
}

func (s *Session) snapshotLocked() Snapshot {
	snap := Snapshot{
		Active:     s.active,
		Difficulty: make(map[Game]Difficulty, len(All)),
		Scores:     s.scores.Scores(),
		Total:      s.scores.Total(),
		HighScores: s.scores.HighScores(),
		Cards:      []CardView{},
	}

	if s.initialized[Memory] {
		snap.Difficulty[Memory] = s.memory.Difficulty()
		snap.Cards = s.memory.Cards()
		snap.Pairs = s.memory.Pairs()
		snap.Matched = s.memory.Matched()
		snap.Solved = s.memory.Solved()
	}
	if s.initialized[Spelling] {
		snap.Difficulty[Spelling] = s.spelling.Difficulty()
	}
	if s.initialized[Math] {
		snap.Difficulty[Math] = s.math.Difficulty()
		snap.Problem = s.math.Problem().String()
	}

	return snap
}
