package games

import (
	"math/rand/v2"
	"strings"

	"golang.org/x/text/cases"
)

const (
	spellingCorrectPoints   = 10
	spellingIncorrectPoints = -5
)

// SpellingRound asks the player to spell a word they only hear.
type SpellingRound struct {
	scores *ScoreBoard
	rng    *rand.Rand
	fold   cases.Caser

	difficulty Difficulty
	target     string
}

func NewSpellingRound(scores *ScoreBoard, rng *rand.Rand) *SpellingRound {
	return &SpellingRound{
		scores:     scores,
		rng:        rng,
		fold:       cases.Fold(),
		difficulty: Easy,
	}
}

// NewRound draws a new target word for d.
func (r *SpellingRound) NewRound(d Difficulty) {
	words := wordBank[d]
	r.difficulty = d
	r.target = words[r.rng.IntN(len(words))]
}

// CheckAnswer compares candidate with the target, ignoring case and
// surrounding whitespace. A new word is drawn whatever the result.
func (r *SpellingRound) CheckAnswer(candidate string) Outcome {
	target := r.target
	correct := target != "" && r.fold.String(strings.TrimSpace(candidate)) == r.fold.String(target)

	out := Outcome{Game: Spelling, Correct: correct}
	if correct {
		out.Delta = spellingCorrectPoints
		out.Feedback = Feedback{Game: Spelling, Kind: Success, Message: "Correct spelling!"}
	} else {
		out.Delta = spellingIncorrectPoints
		out.Feedback = Feedback{Game: Spelling, Kind: Failure, Message: "Incorrect. The word was: " + target}
	}
	out.Score = r.scores.AddScore(Spelling, out.Delta)

	r.NewRound(r.difficulty)

	return out
}

// Target is the word the renderer should speak.
func (r *SpellingRound) Target() string {
	return r.target
}

func (r *SpellingRound) Difficulty() Difficulty {
	return r.difficulty
}
