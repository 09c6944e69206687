package games

// Kind selects how a feedback banner is styled.
type Kind string

const (
	Success Kind = "success"
	Failure Kind = "error"
)

// Feedback is a short message shown to the player after an action.
type Feedback struct {
	Game    Game   `json:"game"`
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
}

// Outcome describes the result of a scored action.
type Outcome struct {
	Game     Game
	Correct  bool
	Delta    int
	Score    int
	Feedback Feedback
}

// Renderer draws session state. Calls are made while the session is
// locked, so implementations must not call back into the Session.
type Renderer interface {
	Render(Snapshot)
	Feedback(Feedback)
}

type nopRenderer struct{}

func (nopRenderer) Render(Snapshot)   {}
func (nopRenderer) Feedback(Feedback) {}
