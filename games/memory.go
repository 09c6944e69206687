package games

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"time"
)

var (
	ErrCardOutOfRange    = errors.New("card index out of range")
	ErrResolutionPending = errors.New("two cards are already waiting to be resolved")
	ErrAlreadyFlipped    = errors.New("card is already flipped")
	ErrAlreadyMatched    = errors.New("card is already matched")
)

const (
	memorySymbols = "QWERTYUIOP"

	DefaultRevealDelay = time.Second

	matchPoints    = 10
	mismatchPoints = -1
)

// CardState is where a card sits in the flip/match cycle.
type CardState int

const (
	Hidden CardState = iota
	Flipped
	Matched
)

func (s CardState) String() string {
	switch s {
	case Flipped:
		return "flipped"
	case Matched:
		return "matched"
	}
	return "hidden"
}

func (s CardState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *CardState) UnmarshalText(text []byte) error {
	switch string(text) {
	case "hidden":
		*s = Hidden
	case "flipped":
		*s = Flipped
	case "matched":
		*s = Matched
	default:
		return fmt.Errorf("unknown card state %q", text)
	}
	return nil
}

type Card struct {
	Index  int
	Symbol string
	State  CardState
}

// Label is what the player can see on the card.
func (c Card) Label() string {
	if c.State == Hidden {
		return ""
	}
	return c.Symbol
}

// CardView is a card as handed to the renderer; hidden symbols stay hidden.
type CardView struct {
	Index int       `json:"index"`
	Label string    `json:"label"`
	State CardState `json:"state"`
}

// Pairs returns the number of symbol pairs on a board of difficulty d.
func Pairs(d Difficulty) int {
	switch d {
	case Medium:
		return 8
	case Hard:
		return 10
	}
	return 6
}

// MemoryBoard is the card-matching game. Flipping a second card schedules
// the pair's resolution after the reveal delay; no further flips are
// accepted until it runs.
type MemoryBoard struct {
	scores *ScoreBoard
	rng    *rand.Rand
	clock  Clock
	delay  time.Duration

	// onResolve is called with the outcome of every resolved pair.
	onResolve func(Outcome)

	difficulty Difficulty
	cards      []Card
	unresolved []int
	matched    int

	pending Timer
	gen     uint64
}

func NewMemoryBoard(scores *ScoreBoard, rng *rand.Rand, clock Clock, delay time.Duration) *MemoryBoard {
	return &MemoryBoard{
		scores:     scores,
		rng:        rng,
		clock:      clock,
		delay:      delay,
		difficulty: Easy,
	}
}

// NewBoard deals a fresh shuffled board for d, dropping any pending
// resolution from the previous one.
func (b *MemoryBoard) NewBoard(d Difficulty) {
	b.cancelPending()

	pairs := Pairs(d)

	symbols := []byte(memorySymbols)
	b.rng.Shuffle(len(symbols), func(i, j int) {
		symbols[i], symbols[j] = symbols[j], symbols[i]
	})
	symbols = symbols[:pairs]

	cards := make([]Card, 0, 2*pairs)
	for _, s := range symbols {
		cards = append(cards, Card{Symbol: string(s)}, Card{Symbol: string(s)})
	}
	b.rng.Shuffle(len(cards), func(i, j int) {
		cards[i], cards[j] = cards[j], cards[i]
	})
	for i := range cards {
		cards[i].Index = i
	}

	b.difficulty = d
	b.cards = cards
	b.unresolved = nil
	b.matched = 0
}

// Flip turns card i face up. The second card of a pair schedules its
// resolution.
func (b *MemoryBoard) Flip(i int) error {
	if i < 0 || i >= len(b.cards) {
		return ErrCardOutOfRange
	}
	if len(b.unresolved) >= 2 {
		return ErrResolutionPending
	}

	switch b.cards[i].State {
	case Flipped:
		return ErrAlreadyFlipped
	case Matched:
		return ErrAlreadyMatched
	}

	b.cards[i].State = Flipped
	b.unresolved = append(b.unresolved, i)

	if len(b.unresolved) == 2 {
		b.gen++
		gen := b.gen
		b.pending = b.clock.AfterFunc(b.delay, func() {
			if gen != b.gen {
				return
			}
			b.Resolve()
		})
	}

	return nil
}

// Resolve settles the two unresolved cards right away. It reports false
// when there is no complete pair waiting.
func (b *MemoryBoard) Resolve() (Outcome, bool) {
	if len(b.unresolved) != 2 {
		return Outcome{}, false
	}
	b.cancelPending()

	first, second := &b.cards[b.unresolved[0]], &b.cards[b.unresolved[1]]
	b.unresolved = nil

	out := Outcome{Game: Memory}
	if first.Symbol == second.Symbol {
		first.State = Matched
		second.State = Matched
		b.matched++

		out.Correct = true
		out.Delta = matchPoints
		out.Feedback = Feedback{Game: Memory, Kind: Success, Message: "Match found!"}
	} else {
		first.State = Hidden
		second.State = Hidden

		out.Delta = mismatchPoints
		out.Feedback = Feedback{Game: Memory, Kind: Failure, Message: "No match, try again."}
	}
	out.Score = b.scores.AddScore(Memory, out.Delta)

	if b.onResolve != nil {
		b.onResolve(out)
	}

	return out, true
}

func (b *MemoryBoard) cancelPending() {
	b.gen++
	if b.pending != nil {
		b.pending.Stop()
		b.pending = nil
	}
}

// Pending reports whether a pair is waiting to be resolved.
func (b *MemoryBoard) Pending() bool {
	return len(b.unresolved) == 2
}

func (b *MemoryBoard) Solved() bool {
	return len(b.cards) > 0 && b.matched == len(b.cards)/2
}

func (b *MemoryBoard) Pairs() int {
	return len(b.cards) / 2
}

func (b *MemoryBoard) Matched() int {
	return b.matched
}

func (b *MemoryBoard) Difficulty() Difficulty {
	return b.difficulty
}

// Cards returns the board as the player sees it.
func (b *MemoryBoard) Cards() []CardView {
	views := make([]CardView, len(b.cards))
	for i, c := range b.cards {
		views[i] = CardView{Index: c.Index, Label: c.Label(), State: c.State}
	}
	return views
}
