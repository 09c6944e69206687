/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

// Package games holds the state and rules of the brainbox mini-games:
// a memory matching board, a spelling round, and an arithmetic round,
// sharing one scoreboard and a persisted high-score record.
//
// Nothing in here touches the browser. A Session drives the three games
// and reports every change to a Renderer, which is free to draw it however
// it likes.
package games

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnknownGame       = errors.New("unknown game")
	ErrUnknownDifficulty = errors.New("unknown difficulty")
)

// Game identifies one of the mini-games.
type Game string

const (
	Memory   Game = "memory"
	Spelling Game = "spelling"
	Math     Game = "math"
)

// All lists every game in display order.
var All = []Game{Memory, Spelling, Math}

func (g Game) Valid() bool {
	switch g {
	case Memory, Spelling, Math:
		return true
	}
	return false
}

func ParseGame(s string) (Game, error) {
	g := Game(strings.ToLower(strings.TrimSpace(s)))
	if !g.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownGame, s)
	}
	return g, nil
}

// Difficulty is selected independently for each game.
type Difficulty string

const (
	Easy   Difficulty = "easy"
	Medium Difficulty = "medium"
	Hard   Difficulty = "hard"
)

func (d Difficulty) Valid() bool {
	switch d {
	case Easy, Medium, Hard:
		return true
	}
	return false
}

func ParseDifficulty(s string) (Difficulty, error) {
	d := Difficulty(strings.ToLower(strings.TrimSpace(s)))
	if !d.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownDifficulty, s)
	}
	return d, nil
}
