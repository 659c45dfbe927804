package tasks

import (
	"context"
	"strings"
)

// NewStore creates a postgres-backed store when configured, otherwise in-memory.
func NewStore(ctx context.Context, databaseURL string, seed []Task) (Store, string, error) {
	if strings.TrimSpace(databaseURL) == "" {
		return NewInMemoryStore(seed...), StoreModeInMemory, nil
	}
	s, err := NewPostgresStore(ctx, databaseURL, seed)
	if err != nil {
		return nil, "", err
	}
	return s, StoreModePostgres, nil
}

const (
	StoreModeInMemory = "in-memory"
	StoreModePostgres = "postgres"
)
