package models

import (
	"time"

	"github.com/google/uuid"
)

type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusCompleted  TaskStatus = "completed"
)

func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted:
		return true
	}
	return false
}

// Label is the user-facing Spanish label; it gets interpolated into
// stored notification messages, so changing it changes data.
func (s TaskStatus) Label() string {
	switch s {
	case TaskStatusPending:
		return "Pendiente"
	case TaskStatusInProgress:
		return "En Progreso"
	case TaskStatusCompleted:
		return "Completada"
	}
	return string(s)
}

type Task struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      TaskStatus `json:"status"`
	AssignedTo  *uuid.UUID `json:"assigned_to"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	CreatedBy   uuid.UUID  `json:"created_by"`
	CreatedAt   time.Time  `json:"created_at"`

	// Assignee is the denormalized profile of AssignedTo, nil when the
	// task is unassigned.
	Assignee *Profile `json:"assignee,omitempty"`
}

type TaskStats struct {
	Total      int `json:"total"`
	Pending    int `json:"pending"`
	InProgress int `json:"in_progress"`
	Completed  int `json:"completed"`
}
