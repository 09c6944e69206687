package games

import "maps"

// ScoreBoard holds the live score of each game for one session.
type ScoreBoard struct {
	scores map[Game]int
	high   *HighScores
}

// NewScoreBoard starts every game at zero. high may be nil, in which case
// nothing is persisted.
func NewScoreBoard(high *HighScores) *ScoreBoard {
	return &ScoreBoard{
		scores: zeroScores(),
		high:   high,
	}
}

// AddScore applies delta to g, never letting the score drop below zero,
// and records a new high score when one is reached.
func (b *ScoreBoard) AddScore(g Game, delta int) int {
	score := max(0, b.scores[g]+delta)
	b.scores[g] = score

	if b.high != nil {
		b.high.Record(g, score)
	}

	return score
}

func (b *ScoreBoard) Score(g Game) int {
	return b.scores[g]
}

func (b *ScoreBoard) Total() int {
	total := 0
	for _, v := range b.scores {
		total += v
	}
	return total
}

func (b *ScoreBoard) Scores() map[Game]int {
	return maps.Clone(b.scores)
}

// HighScores returns the bests, all zero when none are tracked.
func (b *ScoreBoard) HighScores() map[Game]int {
	if b.high == nil {
		return zeroScores()
	}
	return b.high.Snapshot()
}
