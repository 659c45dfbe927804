package tasks

import (
	"context"
	"sync"
)

// InMemoryStore keeps tasks in an ordered slice guarded by a single mutex.
type InMemoryStore struct {
	mu    sync.Mutex
	tasks []Task
}

func NewInMemoryStore(seed ...Task) *InMemoryStore {
	s := &InMemoryStore{tasks: make([]Task, 0, len(seed))}
	s.tasks = append(s.tasks, seed...)
	return s
}

func (s *InMemoryStore) List(_ context.Context) ([]Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Task, len(s.tasks))
	copy(out, s.tasks)
	return out, nil
}

func (s *InMemoryStore) Get(_ context.Context, id uint32) (Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return Task{}, ErrTaskNotFound
	}
	return s.tasks[i], nil
}

func (s *InMemoryStore) Insert(_ context.Context, title string, completed bool) (Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	task := Task{
		ID:        uint32(len(s.tasks)) + 1,
		Title:     title,
		Completed: completed,
	}
	s.tasks = append(s.tasks, task)
	return task, nil
}

func (s *InMemoryStore) Replace(_ context.Context, id uint32, title string, completed bool) (Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return Task{}, ErrTaskNotFound
	}
	s.tasks[i].Title = title
	s.tasks[i].Completed = completed
	return s.tasks[i], nil
}

func (s *InMemoryStore) Remove(_ context.Context, id uint32) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return ErrTaskNotFound
	}
	s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
	return nil
}

func (s *InMemoryStore) Close() error { return nil }

// indexOf must be called with s.mu held.
func (s *InMemoryStore) indexOf(id uint32) int {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			return i
		}
	}
	return -1
}
