package games

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWordsFor(t *testing.T) {
	assert.Equal(t, []string{"cat", "dog", "hat", "run", "jump"}, WordsFor(Easy))
	assert.Equal(t, []string{"elephant", "giraffe", "bicycle", "computer"}, WordsFor(Medium))
	assert.Equal(t, []string{"extraordinary", "pneumonia", "encyclopedia"}, WordsFor(Hard))

	words := WordsFor(Easy)
	words[0] = "cow"
	assert.Equal(t, "cat", WordsFor(Easy)[0], "callers cannot change the bank")
}

func TestSpellingNewRoundDrawsFromBank(t *testing.T) {
	r := NewSpellingRound(NewScoreBoard(nil), newRand())

	for _, d := range []Difficulty{Easy, Medium, Hard} {
		for range 20 {
			r.NewRound(d)
			assert.Contains(t, WordsFor(d), r.Target())
			assert.Equal(t, d, r.Difficulty())
		}
	}
}

func TestSpellingCorrect(t *testing.T) {
	scores := NewScoreBoard(nil)
	r := NewSpellingRound(scores, newRand())
	r.NewRound(Easy)
	r.target = "cat"

	out := r.CheckAnswer("CAT ")

	assert.True(t, out.Correct)
	assert.Equal(t, 10, out.Score)
	assert.Equal(t, Success, out.Feedback.Kind)
	assert.Equal(t, 10, scores.Score(Spelling))
	assert.Contains(t, WordsFor(Easy), r.Target())
}

func TestSpellingIncorrect(t *testing.T) {
	scores := NewScoreBoard(nil)
	r := NewSpellingRound(scores, newRand())
	r.NewRound(Easy)
	r.target = "cat"

	out := r.CheckAnswer("dog")

	assert.False(t, out.Correct)
	assert.Equal(t, -5, out.Delta)
	assert.Equal(t, 0, out.Score)
	assert.Equal(t, Failure, out.Feedback.Kind)
	assert.Contains(t, out.Feedback.Message, "cat")
	assert.Contains(t, WordsFor(Easy), r.Target())
}

func TestSpellingKeepsDifficulty(t *testing.T) {
	r := NewSpellingRound(NewScoreBoard(nil), newRand())
	r.NewRound(Hard)

	for range 10 {
		r.CheckAnswer("nope")
		assert.Contains(t, WordsFor(Hard), r.Target())
	}
}

func TestSpellingEmptyAnswer(t *testing.T) {
	r := NewSpellingRound(NewScoreBoard(nil), newRand())
	r.NewRound(Easy)

	assert.False(t, r.CheckAnswer("   ").Correct)
}

func TestOperatorApply(t *testing.T) {
	assert.Equal(t, 7, Add.Apply(3, 4))
	assert.Equal(t, -1, Subtract.Apply(3, 4))
	assert.Equal(t, 12, Multiply.Apply(3, 4))
}

func TestNewProblemBounds(t *testing.T) {
	r := NewMathRound(NewScoreBoard(nil), newRand())

	for _, d := range []Difficulty{Easy, Medium, Hard} {
		ceiling := OperandCeiling(d)
		ops := Operators(d)
		seen := map[Operator]bool{}

		for range 500 {
			r.NewProblem(d)
			p := r.Problem()

			require.GreaterOrEqual(t, p.Left, 1)
			require.LessOrEqual(t, p.Left, ceiling)
			require.GreaterOrEqual(t, p.Right, 1)
			require.LessOrEqual(t, p.Right, ceiling)
			require.True(t, slices.Contains(ops, p.Op), "operator %q at %s", p.Op, d)
			require.Equal(t, p.Op.Apply(p.Left, p.Right), p.Answer)
			seen[p.Op] = true
		}

		assert.Len(t, seen, len(ops), "every operator is drawn at %s", d)
	}

	assert.Equal(t, 10, OperandCeiling(Easy))
	assert.Equal(t, 50, OperandCeiling(Medium))
	assert.Equal(t, 100, OperandCeiling(Hard))
	assert.Equal(t, []Operator{Add, Subtract}, Operators(Easy))
}

func TestMathCorrect(t *testing.T) {
	scores := NewScoreBoard(nil)
	r := NewMathRound(scores, newRand())
	r.NewProblem(Easy)
	r.problem = NewMathProblem(3, Add, 4)

	assert.Equal(t, 7, r.Problem().Answer)
	assert.Equal(t, "3 + 4 = ?", r.Problem().String())

	out := r.CheckAnswer("7")

	assert.True(t, out.Correct)
	assert.Equal(t, 10, scores.Score(Math))
	assert.Equal(t, Easy, r.Difficulty())
}

func TestMathAnswers(t *testing.T) {
	tests := []struct {
		answer string
		want   bool
	}{
		{"7", true},
		{" 7 ", true},
		{"7.0", true},
		{"7e0", true},
		{"7.0001", false},
		{"8", false},
		{"seven", false},
		{"", false},
		{"7abc", false},
		{"NaN", false},
	}

	for _, tt := range tests {
		t.Run(tt.answer, func(t *testing.T) {
			r := NewMathRound(NewScoreBoard(nil), newRand())
			r.NewProblem(Easy)
			r.problem = NewMathProblem(3, Add, 4)

			assert.Equal(t, tt.want, r.CheckAnswer(tt.answer).Correct)
		})
	}
}

func TestMathIncorrect(t *testing.T) {
	scores := NewScoreBoard(nil)
	scores.AddScore(Math, 8)

	r := NewMathRound(scores, newRand())
	r.NewProblem(Medium)
	r.problem = NewMathProblem(6, Multiply, 7)

	out := r.CheckAnswer("41")

	assert.False(t, out.Correct)
	assert.Equal(t, 3, scores.Score(Math))
	assert.Equal(t, Failure, out.Feedback.Kind)
	assert.NotContains(t, out.Feedback.Message, "42")
	assert.Equal(t, Medium, r.Difficulty())
}

func TestParseBoundaries(t *testing.T) {
	g, err := ParseGame(" Memory ")
	require.NoError(t, err)
	assert.Equal(t, Memory, g)

	_, err = ParseGame("chess")
	assert.ErrorIs(t, err, ErrUnknownGame)

	d, err := ParseDifficulty("HARD")
	require.NoError(t, err)
	assert.Equal(t, Hard, d)

	_, err = ParseDifficulty("nightmare")
	assert.ErrorIs(t, err, ErrUnknownDifficulty)
}
