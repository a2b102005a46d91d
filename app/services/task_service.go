package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"taskboard/app/models"
)

// DefaultListLimit bounds the pending list when no limit is requested.
const DefaultListLimit = 5

// MaxListLimit is the hard cap on a requested list bound.
const MaxListLimit = 100

// TaskService handles task-related operations against the relational store.
type TaskService struct {
	db     *sql.DB
	driver string
}

// NewTaskService creates a new instance of TaskService. driver names the
// sql driver the db handle was opened with (mysql or sqlite); the migration
// DDL differs between the two.
func NewTaskService(db *sql.DB, driver string) *TaskService {
	return &TaskService{db: db, driver: driver}
}

// Migrate creates the task table if it does not exist.
func (s *TaskService) Migrate(ctx context.Context) error {
	var ddl string
	switch s.driver {
	case "sqlite":
		ddl = `CREATE TABLE IF NOT EXISTS task (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    title TEXT NOT NULL,
    description TEXT,
    completed BOOLEAN NOT NULL DEFAULT 0,
    created_at DATETIME NOT NULL
)`
	default:
		ddl = `CREATE TABLE IF NOT EXISTS task (
    id BIGINT PRIMARY KEY AUTO_INCREMENT,
    title VARCHAR(255) NOT NULL,
    description VARCHAR(1000),
    completed BOOLEAN NOT NULL DEFAULT FALSE,
    created_at TIMESTAMP NOT NULL,
    INDEX idx_completed (completed)
)`
	}
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("migrate task table: %w", err)
	}
	return nil
}

// CreateTask validates and persists a new pending task, returning the full
// record with its assigned id.
func (s *TaskService) CreateTask(ctx context.Context, title, description string) (*models.Task, error) {
	if err := models.ValidateNew(title, description); err != nil {
		return nil, err
	}
	task := &models.Task{
		Title:       strings.TrimSpace(title),
		Description: description,
		Completed:   false,
		CreatedAt:   time.Now().UTC().Truncate(time.Second),
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO task (title, description, completed, created_at) VALUES (?,?,?,?)`,
		task.Title, task.Description, task.Completed, task.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert task: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("task id: %w", err)
	}
	task.ID = id
	return task, nil
}

// ListPending returns the most recent incomplete tasks, newest first.
// A limit of zero or less falls back to DefaultListLimit; limits above
// MaxListLimit are clamped. An empty result is an empty slice, not an error.
func (s *TaskService) ListPending(ctx context.Context, limit int) ([]models.Task, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, description, completed, created_at
         FROM task
         WHERE completed = ?
         ORDER BY created_at DESC, id DESC
         LIMIT ?`, false, limit)
	if err != nil {
		return nil, fmt.Errorf("list pending tasks: %w", err)
	}
	defer rows.Close()

	tasks := make([]models.Task, 0, limit)
	for rows.Next() {
		var t models.Task
		var desc sql.NullString
		if err := rows.Scan(&t.ID, &t.Title, &desc, &t.Completed, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		t.Description = desc.String
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// CompleteTask marks a task as completed and returns the updated record.
// Completing an already-completed task is a no-op success; an unknown id
// returns models.ErrTaskNotFound.
func (s *TaskService) CompleteTask(ctx context.Context, id int64) (*models.Task, error) {
	// MySQL reports zero affected rows when the value is unchanged, so the
	// follow-up read distinguishes missing from already-completed.
	if _, err := s.db.ExecContext(ctx, `UPDATE task SET completed = ? WHERE id = ?`, true, id); err != nil {
		return nil, fmt.Errorf("complete task %d: %w", id, err)
	}
	return s.getTask(ctx, id)
}

func (s *TaskService) getTask(ctx context.Context, id int64) (*models.Task, error) {
	var t models.Task
	var desc sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT id, title, description, completed, created_at FROM task WHERE id = ?`, id).
		Scan(&t.ID, &t.Title, &desc, &t.Completed, &t.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrTaskNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get task %d: %w", id, err)
	}
	t.Description = desc.String
	return &t, nil
}
