package games

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"maps"
	"sync"
	"time"

	"github.com/Seednode/brainbox/store"
)

// HighScoreKey is the well-known key the record is kept under.
const HighScoreKey = "highScores"

const saveTimeout = 5 * time.Second

// KeyValueStore is the persistence boundary for the high-score record.
type KeyValueStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
}

// HighScores tracks the best score ever reached in each game. It is shared
// by every session on a server.
type HighScores struct {
	mu     sync.Mutex
	kv     KeyValueStore
	logger *slog.Logger
	best   map[Game]int
}

// LoadHighScores reads the record once. Missing or unreadable data leaves
// every game at zero.
func LoadHighScores(ctx context.Context, kv KeyValueStore, logger *slog.Logger) *HighScores {
	if logger == nil {
		logger = discardLogger
	}

	h := &HighScores{
		kv:     kv,
		logger: logger,
		best:   zeroScores(),
	}
	if kv == nil {
		return h
	}

	data, err := kv.Get(ctx, HighScoreKey)
	switch {
	case errors.Is(err, store.ErrNotFound):
		logger.Debug("high scores not found, starting from zero")
		return h
	case err != nil:
		logger.Warn("high scores unreadable, starting from zero", slog.Any("error", err))
		return h
	}

	var saved map[string]int
	if err := json.Unmarshal(data, &saved); err != nil {
		logger.Warn("high scores malformed, starting from zero", slog.Any("error", err))
		return h
	}

	for _, g := range All {
		if v := saved[string(g)]; v > 0 {
			h.best[g] = v
		}
	}

	logger.Debug("high scores loaded", slog.Any("scores", h.best))

	return h
}

// Best returns the stored best for g.
func (h *HighScores) Best(g Game) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	return h.best[g]
}

// Snapshot returns a copy of every best.
func (h *HighScores) Snapshot() map[Game]int {
	h.mu.Lock()
	defer h.mu.Unlock()

	return maps.Clone(h.best)
}

// Record raises the best for g when score exceeds it, and writes the whole
// record back. It reports whether the best changed. A failed write is
// logged; the in-memory best is kept either way.
func (h *HighScores) Record(g Game, score int) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if score <= h.best[g] {
		return false
	}
	h.best[g] = score

	if h.kv == nil {
		return true
	}

	data, err := json.Marshal(h.record())
	if err != nil {
		h.logger.Error("encode high scores", slog.Any("error", err))
		return true
	}

	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()

	if err := h.kv.Put(ctx, HighScoreKey, data); err != nil {
		h.logger.Error("save high scores", slog.Any("error", err))
		return true
	}

	h.logger.Info("new high score", slog.String("game", string(g)), slog.Int("score", score))

	return true
}

func (h *HighScores) record() map[string]int {
	out := make(map[string]int, len(h.best))
	for g, v := range h.best {
		out[string(g)] = v
	}
	return out
}

func zeroScores() map[Game]int {
	m := make(map[Game]int, len(All))
	for _, g := range All {
		m[g] = 0
	}
	return m
}
