package data

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Task is a user to-do item.
type Task struct {
	ID          int64
	Description string
	Done        bool
	CreatedAt   time.Time
	CompletedAt *time.Time
}

// AddTask inserts a new to-do item and returns its id.
func (s *Store) AddTask(ctx context.Context, description string) (int64, error) {
	if description == "" {
		return 0, fmt.Errorf("task description cannot be empty")
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO tasks (description) VALUES (?)`, description)
	if err != nil {
		return 0, fmt.Errorf("insert task: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("task id: %w", err)
	}
	return id, nil
}

// ListTasks returns to-do items, oldest first. With openOnly set, completed
// items are excluded.
func (s *Store) ListTasks(ctx context.Context, openOnly bool) ([]Task, error) {
	query := `SELECT id, description, done, created_at, completed_at FROM tasks`
	if openOnly {
		query += ` WHERE done = 0`
	}
	query += ` ORDER BY created_at ASC, id ASC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query tasks: %w", err)
	}
	defer rows.Close()

	var tasks []Task
	for rows.Next() {
		var t Task
		var completedAt sql.NullTime
		if err := rows.Scan(&t.ID, &t.Description, &t.Done, &t.CreatedAt, &completedAt); err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		if completedAt.Valid {
			t.CompletedAt = &completedAt.Time
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// CompleteTask marks a to-do item done. Returns sql.ErrNoRows if the id does
// not exist.
func (s *Store) CompleteTask(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE tasks SET done = 1, completed_at = CURRENT_TIMESTAMP WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("complete task: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
