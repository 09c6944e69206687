package games

import (
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"
)

const (
	mathCorrectPoints   = 10
	mathIncorrectPoints = -5
)

type Operator string

const (
	Add      Operator = "+"
	Subtract Operator = "-"
	Multiply Operator = "*"
)

// Apply computes a op b.
func (o Operator) Apply(a, b int) int {
	switch o {
	case Subtract:
		return a - b
	case Multiply:
		return a * b
	}
	return a + b
}

// OperandCeiling is the largest operand drawn at difficulty d.
func OperandCeiling(d Difficulty) int {
	switch d {
	case Medium:
		return 50
	case Hard:
		return 100
	}
	return 10
}

// Operators lists the operators drawn from at difficulty d.
func Operators(d Difficulty) []Operator {
	if d == Easy {
		return []Operator{Add, Subtract}
	}
	return []Operator{Add, Subtract, Multiply}
}

type MathProblem struct {
	Left   int
	Right  int
	Op     Operator
	Answer int
}

func NewMathProblem(left int, op Operator, right int) MathProblem {
	return MathProblem{
		Left:   left,
		Right:  right,
		Op:     op,
		Answer: op.Apply(left, right),
	}
}

func (p MathProblem) String() string {
	return fmt.Sprintf("%d %s %d = ?", p.Left, p.Op, p.Right)
}

// MathRound asks the player to solve one arithmetic problem at a time.
type MathRound struct {
	scores *ScoreBoard
	rng    *rand.Rand

	difficulty Difficulty
	problem    MathProblem
}

func NewMathRound(scores *ScoreBoard, rng *rand.Rand) *MathRound {
	return &MathRound{
		scores:     scores,
		rng:        rng,
		difficulty: Easy,
	}
}

// NewProblem draws a problem for d.
func (r *MathRound) NewProblem(d Difficulty) {
	ceiling := OperandCeiling(d)
	ops := Operators(d)

	left := r.rng.IntN(ceiling) + 1
	right := r.rng.IntN(ceiling) + 1
	op := ops[r.rng.IntN(len(ops))]

	r.difficulty = d
	r.problem = NewMathProblem(left, op, right)
}

// CheckAnswer parses candidate as a number and compares it exactly with
// the answer. Anything that does not parse is wrong. A new problem is
// drawn whatever the result.
func (r *MathRound) CheckAnswer(candidate string) Outcome {
	v, err := strconv.ParseFloat(strings.TrimSpace(candidate), 64)
	correct := err == nil && v == float64(r.problem.Answer)

	out := Outcome{Game: Math, Correct: correct}
	if correct {
		out.Delta = mathCorrectPoints
		out.Feedback = Feedback{Game: Math, Kind: Success, Message: "Correct answer!"}
	} else {
		out.Delta = mathIncorrectPoints
		out.Feedback = Feedback{Game: Math, Kind: Failure, Message: "Incorrect answer. Try again!"}
	}
	out.Score = r.scores.AddScore(Math, out.Delta)

	r.NewProblem(r.difficulty)

	return out
}

func (r *MathRound) Problem() MathProblem {
	return r.problem
}

func (r *MathRound) Difficulty() Difficulty {
	return r.difficulty
}
