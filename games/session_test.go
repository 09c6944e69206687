package games

import (
	"context"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Seednode/brainbox/store"
)

func newSession(t *testing.T) (*Session, *manualClock, *recorder) {
	t.Helper()

	clock := &manualClock{}
	rec := &recorder{}
	high := LoadHighScores(context.Background(), store.NewMemory(), nil)
	s := NewSession(high, WithClock(clock), WithRand(newRand()), WithRenderer(rec))
	t.Cleanup(s.Close)
	return s, clock, rec
}

func TestSelectInitializesOnce(t *testing.T) {
	s, _, rec := newSession(t)

	require.NoError(t, s.Select(Memory))
	snap := s.Snapshot()
	assert.Equal(t, Memory, snap.Active)
	assert.Equal(t, Easy, snap.Difficulty[Memory])
	assert.Len(t, snap.Cards, 12)
	assert.NotEmpty(t, rec.snapshots)

	require.NoError(t, s.Flip(0))
	require.NoError(t, s.Select(Math))
	require.NoError(t, s.Select(Memory))

	assert.Equal(t, Flipped, s.Snapshot().Cards[0].State, "reselecting keeps the board")
}

func TestSelectRejectsUnknownGame(t *testing.T) {
	s, _, _ := newSession(t)

	assert.ErrorIs(t, s.Select("chess"), ErrUnknownGame)
	assert.ErrorIs(t, s.SetDifficulty("chess", Easy), ErrUnknownGame)
	assert.ErrorIs(t, s.SetDifficulty(Math, "nightmare"), ErrUnknownDifficulty)
}

func TestSetDifficultyOnlyTouchesOneGame(t *testing.T) {
	s, _, _ := newSession(t)

	require.NoError(t, s.Select(Memory))
	require.NoError(t, s.Select(Math))
	s.CheckSpelling("whatever")
	problem := s.Snapshot().Problem

	require.NoError(t, s.Flip(0))
	require.NoError(t, s.SetDifficulty(Spelling, Hard))

	snap := s.Snapshot()
	assert.Equal(t, Hard, snap.Difficulty[Spelling])
	assert.Equal(t, Easy, snap.Difficulty[Memory])
	assert.Equal(t, Flipped, snap.Cards[0].State)
	assert.Equal(t, problem, snap.Problem)
	assert.Contains(t, WordsFor(Hard), s.SpellingTarget())

	require.NoError(t, s.SetDifficulty(Memory, Hard))
	assert.Len(t, s.Snapshot().Cards, 20)
}

func TestSessionMismatchScenario(t *testing.T) {
	s, clock, rec := newSession(t)
	require.NoError(t, s.Select(Memory))
	_, mismatch := pairIndexes(t, s.memory)

	require.NoError(t, s.Flip(mismatch[0]))
	require.NoError(t, s.Flip(mismatch[1]))

	third := 0
	for third == mismatch[0] || third == mismatch[1] {
		third++
	}
	assert.ErrorIs(t, s.Flip(third), ErrResolutionPending)

	clock.Advance(DefaultRevealDelay)

	snap := s.Snapshot()
	assert.Equal(t, Hidden, snap.Cards[mismatch[0]].State)
	assert.Equal(t, Hidden, snap.Cards[mismatch[1]].State)
	assert.Empty(t, snap.Cards[mismatch[0]].Label)
	assert.Equal(t, 0, snap.Scores[Memory])
	assert.Equal(t, Failure, rec.lastFeedback().Kind)
}

func TestSessionResolveDirectly(t *testing.T) {
	s, clock, rec := newSession(t)
	require.NoError(t, s.Select(Memory))
	match, _ := pairIndexes(t, s.memory)

	require.NoError(t, s.Flip(match[0]))
	require.NoError(t, s.Flip(match[1]))

	out, ok := s.Resolve()
	require.True(t, ok)
	assert.True(t, out.Correct)
	assert.Equal(t, Feedback{Game: Memory, Kind: Success, Message: "Match found!"}, rec.lastFeedback())

	clock.Advance(DefaultRevealDelay)
	assert.Len(t, rec.feedback, 1)
	assert.Equal(t, 10, s.Snapshot().Scores[Memory])
	assert.Equal(t, 10, s.Snapshot().HighScores[Memory])
}

func TestSessionChecksReport(t *testing.T) {
	s, _, rec := newSession(t)

	target := s.SpellingTarget()
	out := s.CheckSpelling(target)
	assert.True(t, out.Correct)
	assert.Equal(t, Success, rec.lastFeedback().Kind)

	require.NoError(t, s.Select(Math))
	answer := s.math.Problem().Answer
	out = s.CheckMath(strconv.Itoa(answer))
	assert.True(t, out.Correct)

	snap := s.Snapshot()
	assert.Equal(t, 10, snap.Scores[Spelling])
	assert.Equal(t, 10, snap.Scores[Math])
	assert.Equal(t, 20, snap.Total)
	assert.Equal(t, 10, snap.HighScores[Math])
}

func TestClosedSessionIgnoresTimers(t *testing.T) {
	s, clock, rec := newSession(t)
	require.NoError(t, s.Select(Memory))
	match, _ := pairIndexes(t, s.memory)

	require.NoError(t, s.Flip(match[0]))
	require.NoError(t, s.Flip(match[1]))
	s.Close()

	clock.Advance(DefaultRevealDelay)
	assert.Empty(t, rec.feedback)
}

func TestSetRendererNil(t *testing.T) {
	s, _, rec := newSession(t)
	s.SetRenderer(nil)

	require.NoError(t, s.Select(Spelling))
	assert.Empty(t, rec.snapshots)
}
