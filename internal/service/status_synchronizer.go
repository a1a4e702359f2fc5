package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/AndresGalvis92/warmtask-pro/internal/db"
	"github.com/AndresGalvis92/warmtask-pro/shared/models"
	"github.com/google/uuid"
)

// ActorNameFallback is interpolated when the acting user has no profile name.
const ActorNameFallback = "Un usuario"

// DashboardLink is where a task-update notification points.
const DashboardLink = "/dashboard"

// ChangeFeed receives change events for a user's notifications so that
// subscribed clients can refetch their list.
type ChangeFeed interface {
	NotifyChanged(userID uuid.UUID, action string)
}

// Actor identifies the authenticated user performing a status change.
type Actor struct {
	UserID   uuid.UUID
	FullName string
}

// StatusSynchronizer applies a status change to a task and, when the task is
// assigned to someone other than the actor, notifies the assignee.
type StatusSynchronizer struct {
	TaskRepo         db.TaskRepositoryInterface
	NotificationRepo db.NotificationRepositoryInterface
	Feed             ChangeFeed // optional
}

// ChangeStatus overwrites the task's status and conditionally creates one
// notification for the assignee. The two writes are independent: a failed
// notification insert is logged and swallowed, leaving the task updated and
// the assignee unnotified.
func (s *StatusSynchronizer) ChangeStatus(
	ctx context.Context, taskID uuid.UUID, status models.TaskStatus, actor Actor,
) (*models.Task, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("invalid status %q", status)
	}

	task, err := s.TaskRepo.GetByID(ctx, taskID.String())
	if err != nil {
		return nil, fmt.Errorf("load task: %w", err)
	}

	if err := s.TaskRepo.UpdateStatus(ctx, taskID.String(), status); err != nil {
		return nil, fmt.Errorf("update status: %w", err)
	}
	task.Status = status

	if task.AssignedTo != nil && *task.AssignedTo != actor.UserID {
		s.notifyAssignee(ctx, task, actor)
	}
	return task, nil
}

func (s *StatusSynchronizer) notifyAssignee(ctx context.Context, task *models.Task, actor Actor) {
	actorName := actor.FullName
	if actorName == "" {
		actorName = ActorNameFallback
	}

	n := &models.Notification{
		ID:     uuid.New(),
		UserID: *task.AssignedTo,
		Title:  "Estado de tarea actualizado",
		Message: fmt.Sprintf(
			`%s cambió el estado de "%s" a %s`, actorName, task.Title, task.Status.Label()),
		Type:      models.NotificationTypeTaskUpdate,
		Link:      DashboardLink,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.NotificationRepo.Create(ctx, n); err != nil {
		// The status update already stands; there is no rollback.
		log.Printf("Failed to create notification for task %s: %v", task.ID, err)
		return
	}
	if s.Feed != nil {
		s.Feed.NotifyChanged(n.UserID, "insert")
	}
}
