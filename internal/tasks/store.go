package tasks

import (
	"context"
	"errors"
)

var ErrTaskNotFound = errors.New("task not found")

// Store holds the authoritative task collection. Implementations serialize
// every operation against the whole collection.
//
// Insert assigns id = number of stored tasks + 1. This is recomputed on every
// call, so after removing a task that is not the last one, the next insert can
// reuse an id that a surviving task still holds. Lookups by id resolve to the
// first match in insertion order.
type Store interface {
	List(ctx context.Context) ([]Task, error)
	Get(ctx context.Context, id uint32) (Task, error)
	Insert(ctx context.Context, title string, completed bool) (Task, error)
	Replace(ctx context.Context, id uint32, title string, completed bool) (Task, error)
	Remove(ctx context.Context, id uint32) error
	Close() error
}
