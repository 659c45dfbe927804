package tasks

import (
	"context"
	"errors"
	"testing"
)

type storeFactory func(t *testing.T, seed []Task) Store

func runStoreSuite(t *testing.T, newStore storeFactory) {
	t.Helper()

	t.Run("ListKeepsSeedOrder", func(t *testing.T) {
		s := newStore(t, SeedTasks())
		got, err := s.List(context.Background())
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		want := SeedTasks()
		if len(got) != len(want) {
			t.Fatalf("len(List()) = %d, want %d", len(got), len(want))
		}
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("List()[%d] = %+v, want %+v", i, got[i], want[i])
			}
		}
	})

	t.Run("InsertAppendsWithCountPlusOne", func(t *testing.T) {
		s := newStore(t, SeedTasks())
		ctx := context.Background()
		created, err := s.Insert(ctx, "Write tests", false)
		if err != nil {
			t.Fatalf("Insert() error = %v", err)
		}
		want := Task{ID: 3, Title: "Write tests", Completed: false}
		if created != want {
			t.Fatalf("Insert() = %+v, want %+v", created, want)
		}
		all, err := s.List(ctx)
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if last := all[len(all)-1]; last != want {
			t.Fatalf("last listed = %+v, want %+v", last, want)
		}
	})

	t.Run("InsertOnlyIDsAreDistinct", func(t *testing.T) {
		s := newStore(t, nil)
		ctx := context.Background()
		seen := make(map[uint32]bool)
		for i := 0; i < 10; i++ {
			task, err := s.Insert(ctx, "t", i%2 == 0)
			if err != nil {
				t.Fatalf("Insert() error = %v", err)
			}
			if seen[task.ID] {
				t.Fatalf("duplicate id %d on insert %d", task.ID, i)
			}
			seen[task.ID] = true
		}
	})

	t.Run("GetReflectsLastReplaceUntilRemove", func(t *testing.T) {
		s := newStore(t, nil)
		ctx := context.Background()
		created, err := s.Insert(ctx, "draft", false)
		if err != nil {
			t.Fatalf("Insert() error = %v", err)
		}
		got, err := s.Get(ctx, created.ID)
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if got != created {
			t.Fatalf("Get() = %+v, want %+v", got, created)
		}

		updated, err := s.Replace(ctx, created.ID, "final", true)
		if err != nil {
			t.Fatalf("Replace() error = %v", err)
		}
		want := Task{ID: created.ID, Title: "final", Completed: true}
		if updated != want {
			t.Fatalf("Replace() = %+v, want %+v", updated, want)
		}
		got, err = s.Get(ctx, created.ID)
		if err != nil {
			t.Fatalf("Get() after replace error = %v", err)
		}
		if got != want {
			t.Fatalf("Get() after replace = %+v, want %+v", got, want)
		}

		if err := s.Remove(ctx, created.ID); err != nil {
			t.Fatalf("Remove() error = %v", err)
		}
		if _, err := s.Get(ctx, created.ID); !errors.Is(err, ErrTaskNotFound) {
			t.Fatalf("Get() after remove error = %v, want %v", err, ErrTaskNotFound)
		}
	})

	t.Run("ReplaceIsIdempotent", func(t *testing.T) {
		s := newStore(t, SeedTasks())
		ctx := context.Background()
		first, err := s.Replace(ctx, 2, "Build API", false)
		if err != nil {
			t.Fatalf("Replace() error = %v", err)
		}
		before, _ := s.List(ctx)
		second, err := s.Replace(ctx, 2, "Build API", false)
		if err != nil {
			t.Fatalf("second Replace() error = %v", err)
		}
		after, _ := s.List(ctx)
		if first != second {
			t.Fatalf("second Replace() = %+v, want %+v", second, first)
		}
		if len(before) != len(after) {
			t.Fatalf("len after second replace = %d, want %d", len(after), len(before))
		}
		for i := range before {
			if before[i] != after[i] {
				t.Fatalf("task %d changed on repeat replace: %+v -> %+v", i, before[i], after[i])
			}
		}
	})

	t.Run("ReplaceMissingIsNotFound", func(t *testing.T) {
		s := newStore(t, SeedTasks())
		if _, err := s.Replace(context.Background(), 42, "x", true); !errors.Is(err, ErrTaskNotFound) {
			t.Fatalf("Replace() error = %v, want %v", err, ErrTaskNotFound)
		}
	})

	t.Run("SecondRemoveIsNotFound", func(t *testing.T) {
		s := newStore(t, SeedTasks())
		ctx := context.Background()
		if err := s.Remove(ctx, 1); err != nil {
			t.Fatalf("Remove() error = %v", err)
		}
		if err := s.Remove(ctx, 1); !errors.Is(err, ErrTaskNotFound) {
			t.Fatalf("second Remove() error = %v, want %v", err, ErrTaskNotFound)
		}
	})

	t.Run("RemoveClosesGap", func(t *testing.T) {
		s := newStore(t, SeedTasks())
		ctx := context.Background()
		if _, err := s.Insert(ctx, "third", false); err != nil {
			t.Fatalf("Insert() error = %v", err)
		}
		if err := s.Remove(ctx, 2); err != nil {
			t.Fatalf("Remove() error = %v", err)
		}
		all, err := s.List(ctx)
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if len(all) != 2 || all[0].ID != 1 || all[1].ID != 3 {
			t.Fatalf("List() after remove = %+v, want ids [1 3]", all)
		}
	})

	// The next id is recomputed from the current count, so removing a task
	// that is not the last one makes the next insert reuse a live id.
	t.Run("InsertAfterRemoveCanDuplicateID", func(t *testing.T) {
		s := newStore(t, SeedTasks())
		ctx := context.Background()
		if _, err := s.Insert(ctx, "third", false); err != nil {
			t.Fatalf("Insert() error = %v", err)
		}
		if err := s.Remove(ctx, 1); err != nil {
			t.Fatalf("Remove() error = %v", err)
		}
		dup, err := s.Insert(ctx, "fourth", true)
		if err != nil {
			t.Fatalf("Insert() error = %v", err)
		}
		if dup.ID != 3 {
			t.Fatalf("Insert() id = %d, want 3 (count+1)", dup.ID)
		}

		all, err := s.List(ctx)
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		count := 0
		for _, task := range all {
			if task.ID == 3 {
				count++
			}
		}
		if count != 2 {
			t.Fatalf("tasks with id 3 = %d, want 2: %+v", count, all)
		}

		// Lookups resolve to the earliest inserted match.
		got, err := s.Get(ctx, 3)
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if got.Title != "third" {
			t.Fatalf("Get(3).Title = %q, want %q", got.Title, "third")
		}
	})
}
