package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/AndresGalvis92/warmtask-pro/shared/models"
	"github.com/google/uuid"
)

// defines methods for task db operations
type TaskRepositoryInterface interface {
	Create(ctx context.Context, task *models.Task) error
	GetByID(ctx context.Context, id string) (*models.Task, error)
	ListAll(ctx context.Context) ([]*models.Task, error)
	ListForUser(ctx context.Context, userID string) ([]*models.Task, error)
	UpdateStatus(ctx context.Context, id string, status models.TaskStatus) error
	Delete(ctx context.Context, id uuid.UUID) error
	Stats(ctx context.Context, userID string) (*models.TaskStats, error)
}

type TaskRepository struct {
	db *sql.DB
}

func NewTaskRepository(db *sql.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) Create(ctx context.Context, task *models.Task) error {
	query := `INSERT INTO tasks (id, title, description, status, assigned_to, due_date, created_by, created_at)
	 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	var dueDate sql.NullTime
	if task.DueDate != nil {
		dueDate = sql.NullTime{Time: *task.DueDate, Valid: true}
	}
	var assignedTo uuid.NullUUID
	if task.AssignedTo != nil {
		assignedTo = uuid.NullUUID{UUID: *task.AssignedTo, Valid: true}
	}
	_, err := r.db.ExecContext(
		ctx, query, task.ID, task.Title, task.Description, task.Status,
		assignedTo, dueDate, task.CreatedBy, task.CreatedAt)
	return err
}

const taskSelectColumns = `SELECT t.id, t.title, t.description, t.status, t.assigned_to, t.due_date,
	 t.created_by, t.created_at, p.full_name, p.email
	 FROM tasks t
	 LEFT JOIN profiles p ON p.id = t.assigned_to`

func (r *TaskRepository) GetByID(ctx context.Context, id string) (*models.Task, error) {
	query := taskSelectColumns + ` WHERE t.id = $1`
	return scanTask(r.db.QueryRowContext(ctx, query, id))
}

// ListAll returns every task, newest first, the admin view.
func (r *TaskRepository) ListAll(ctx context.Context) ([]*models.Task, error) {
	query := taskSelectColumns + ` ORDER BY t.created_at DESC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	return collectTasks(rows)
}

// ListForUser returns the tasks assigned to userID, newest first.
func (r *TaskRepository) ListForUser(ctx context.Context, userID string) ([]*models.Task, error) {
	query := taskSelectColumns + ` WHERE t.assigned_to = $1 ORDER BY t.created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	return collectTasks(rows)
}

// UpdateStatus overwrites the status unconditionally; there is no state
// machine and no same-value check, last write wins.
func (r *TaskRepository) UpdateStatus(ctx context.Context, id string, status models.TaskStatus) error {
	res, err := r.db.ExecContext(ctx, `UPDATE tasks SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("task with id %s does not exist", id)
	}
	return nil
}

func (r *TaskRepository) Delete(ctx context.Context, id uuid.UUID) error {
	// check if exists
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM tasks WHERE id = $1)`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&exists)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("task with id %s does not exist", id)
	}

	query = `DELETE FROM tasks WHERE id = $1`
	_, err = r.db.ExecContext(ctx, query, id)
	return err
}

// Stats counts tasks per status. An empty userID counts all tasks (admin
// view); otherwise only tasks assigned to userID.
func (r *TaskRepository) Stats(ctx context.Context, userID string) (*models.TaskStats, error) {
	query := `SELECT status, COUNT(*) FROM tasks GROUP BY status`
	args := []any{}
	if userID != "" {
		query = `SELECT status, COUNT(*) FROM tasks WHERE assigned_to = $1 GROUP BY status`
		args = append(args, userID)
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stats := &models.TaskStats{}
	for rows.Next() {
		var status models.TaskStatus
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		switch status {
		case models.TaskStatusPending:
			stats.Pending = count
		case models.TaskStatusInProgress:
			stats.InProgress = count
		case models.TaskStatusCompleted:
			stats.Completed = count
		}
		stats.Total += count
	}
	return stats, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (*models.Task, error) {
	task := &models.Task{}
	var assignedTo uuid.NullUUID
	var dueDate sql.NullTime
	var fullName, email sql.NullString
	err := row.Scan(
		&task.ID, &task.Title, &task.Description, &task.Status, &assignedTo,
		&dueDate, &task.CreatedBy, &task.CreatedAt, &fullName, &email,
	)
	if err != nil {
		return nil, err
	}
	if assignedTo.Valid {
		id := assignedTo.UUID
		task.AssignedTo = &id
	}
	if dueDate.Valid {
		d := dueDate.Time
		task.DueDate = &d
	}
	if task.AssignedTo != nil && fullName.Valid {
		task.Assignee = &models.Profile{
			ID:       *task.AssignedTo,
			FullName: fullName.String,
			Email:    email.String,
		}
	}
	return task, nil
}

func collectTasks(rows *sql.Rows) ([]*models.Task, error) {
	defer rows.Close()

	var tasks []*models.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return tasks, nil
}
