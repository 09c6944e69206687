/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

// Package store provides key-value backends for the brainbox high-score
// record: in-memory, a JSON file per key, and a SQLite table.
package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

var ErrNotFound = errors.New("key not found")

// Store keeps opaque values under string keys. A Put overwrites the
// previous value in full.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	io.Closer
}

// Kinds lists the backends accepted by Open.
var Kinds = []string{"memory", "file", "sqlite"}

// Open returns the backend named by kind, rooted at dir.
func Open(kind, dir string) (Store, error) {
	switch strings.ToLower(kind) {
	case "memory":
		return NewMemory(), nil
	case "file":
		return NewFile(dir)
	case "sqlite":
		return OpenSQLite(filepath.Join(dir, "brainbox.db"))
	default:
		return nil, fmt.Errorf("unknown store %q (want one of %s)", kind, strings.Join(Kinds, ", "))
	}
}

func validKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return errors.New("key is required")
	}
	return nil
}
