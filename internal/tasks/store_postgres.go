package tasks

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore keeps the task collection in a scratch PostgreSQL table.
// The table is truncated and reseeded on open, so nothing survives a restart.
// Insertion order is tracked by the seq column; id carries the assigned task
// id and is not unique.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, databaseURL string, seed []Task) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, strings.TrimSpace(databaseURL))
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := initTaskSchema(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}
	s := &PostgresStore{pool: pool}
	if err := s.reset(ctx, seed); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

func initTaskSchema(ctx context.Context, pool *pgxpool.Pool) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS task_items (
			seq BIGSERIAL PRIMARY KEY,
			id BIGINT NOT NULL,
			title TEXT NOT NULL,
			completed BOOLEAN NOT NULL DEFAULT FALSE
		);`,
		`CREATE INDEX IF NOT EXISTS idx_task_items_id_seq ON task_items (id, seq);`,
	}

	for _, stmt := range stmts {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init task schema failed on %q: %w", stmt, err)
		}
	}
	return nil
}

func (s *PostgresStore) reset(ctx context.Context, seed []Task) error {
	return s.locked(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `TRUNCATE task_items RESTART IDENTITY`); err != nil {
			return fmt.Errorf("truncate tasks: %w", err)
		}
		for _, task := range seed {
			if _, err := tx.Exec(ctx,
				`INSERT INTO task_items (id, title, completed) VALUES ($1, $2, $3)`,
				int64(task.ID), task.Title, task.Completed,
			); err != nil {
				return fmt.Errorf("seed task %d: %w", task.ID, err)
			}
		}
		return nil
	})
}

func (s *PostgresStore) List(ctx context.Context) ([]Task, error) {
	rows, err := s.pool.Query(ctx, `SELECT id, title, completed FROM task_items ORDER BY seq ASC`)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	out := make([]Task, 0, 8)
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task row: %w", err)
		}
		out = append(out, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate task rows: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) Get(ctx context.Context, id uint32) (Task, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, title, completed FROM task_items WHERE id=$1 ORDER BY seq ASC LIMIT 1`,
		int64(id),
	)
	task, err := scanTask(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Task{}, ErrTaskNotFound
		}
		return Task{}, fmt.Errorf("get task: %w", err)
	}
	return task, nil
}

func (s *PostgresStore) Insert(ctx context.Context, title string, completed bool) (Task, error) {
	var task Task
	err := s.locked(ctx, func(tx pgx.Tx) error {
		var count int64
		if err := tx.QueryRow(ctx, `SELECT count(*) FROM task_items`).Scan(&count); err != nil {
			return fmt.Errorf("count tasks: %w", err)
		}
		row := tx.QueryRow(ctx,
			`INSERT INTO task_items (id, title, completed) VALUES ($1, $2, $3)
			 RETURNING id, title, completed`,
			count+1, title, completed,
		)
		var err error
		task, err = scanTask(row)
		if err != nil {
			return fmt.Errorf("insert task: %w", err)
		}
		return nil
	})
	if err != nil {
		return Task{}, err
	}
	return task, nil
}

func (s *PostgresStore) Replace(ctx context.Context, id uint32, title string, completed bool) (Task, error) {
	var task Task
	err := s.locked(ctx, func(tx pgx.Tx) error {
		row := tx.QueryRow(ctx,
			`UPDATE task_items SET title=$2, completed=$3
			  WHERE seq = (SELECT seq FROM task_items WHERE id=$1 ORDER BY seq ASC LIMIT 1)
			  RETURNING id, title, completed`,
			int64(id), title, completed,
		)
		var err error
		task, err = scanTask(row)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrTaskNotFound
			}
			return fmt.Errorf("replace task: %w", err)
		}
		return nil
	})
	if err != nil {
		return Task{}, err
	}
	return task, nil
}

func (s *PostgresStore) Remove(ctx context.Context, id uint32) error {
	return s.locked(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx,
			`DELETE FROM task_items
			  WHERE seq = (SELECT seq FROM task_items WHERE id=$1 ORDER BY seq ASC LIMIT 1)`,
			int64(id),
		)
		if err != nil {
			return fmt.Errorf("remove task: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return ErrTaskNotFound
		}
		return nil
	})
}

// locked runs fn in a transaction holding an exclusive table lock, which
// blocks concurrent writers while still allowing plain reads.
func (s *PostgresStore) locked(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `LOCK TABLE task_items IN EXCLUSIVE MODE`); err != nil {
		return fmt.Errorf("lock tasks: %w", err)
	}
	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func scanTask(row pgx.Row) (Task, error) {
	var (
		task Task
		id   int64
	)
	if err := row.Scan(&id, &task.Title, &task.Completed); err != nil {
		return Task{}, err
	}
	task.ID = uint32(id)
	return task, nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
