package handlers

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/AndresGalvis92/warmtask-pro/internal/service"
	"github.com/AndresGalvis92/warmtask-pro/shared"
	"github.com/AndresGalvis92/warmtask-pro/shared/models"
	"github.com/google/uuid"
)

/*
handles routes:
- GET /tasks - list tasks (admins see all, members see their own)
- POST /tasks - create a new task (admin)
*/
func (h *Handler) HandleTasks(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.listTasks(w, r)
	case http.MethodPost:
		h.createTask(w, r)
	default:
		shared.SendError(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *Handler) listTasks(w http.ResponseWriter, r *http.Request) {
	sess, ok := sessionFrom(r)
	if !ok {
		shared.SendError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	var tasks []*models.Task
	var err error
	if sess.IsAdmin() {
		tasks, err = h.TaskRepo.ListAll(ctx)
	} else {
		tasks, err = h.TaskRepo.ListForUser(ctx, sess.UserID.String())
	}
	if err != nil {
		shared.SendError(w, "Failed to list tasks", http.StatusInternalServerError)
		return
	}
	sendTasksJSON(w, tasks, http.StatusOK)
}

func (h *Handler) createTask(w http.ResponseWriter, r *http.Request) {
	sess, ok := sessionFrom(r)
	if !ok {
		shared.SendError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	if !sess.IsAdmin() {
		shared.SendError(w, "Forbidden", http.StatusForbidden)
		return
	}
	if !isJSONContentType(r) {
		shared.SendError(w, "Content-Type must be application/json", http.StatusBadRequest)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB
	var input struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		AssignedTo  string `json:"assigned_to"`
		DueDate     string `json:"due_date"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		shared.SendError(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}

	title := strings.TrimSpace(input.Title)
	if len(title) < 3 {
		shared.SendError(w, "title must be at least 3 characters", http.StatusBadRequest)
		return
	}
	if len(title) > 100 {
		shared.SendError(w, "title too long (max 100 chars)", http.StatusBadRequest)
		return
	}
	description := strings.TrimSpace(input.Description)
	if len(description) > 500 {
		shared.SendError(w, "description too long (max 500 chars)", http.StatusBadRequest)
		return
	}
	assignedTo, err := uuid.Parse(input.AssignedTo)
	if err != nil {
		shared.SendError(w, "assigned_to is required (uuid)", http.StatusBadRequest)
		return
	}

	var dueDate *time.Time
	if input.DueDate != "" {
		d, err := time.Parse("2006-01-02", input.DueDate)
		if err != nil {
			shared.SendError(w, "due_date must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		dueDate = &d
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	// the assignee must exist
	if _, err := h.ProfileRepo.GetByID(ctx, assignedTo.String()); err != nil {
		shared.SendError(w, "Assignee not found", http.StatusBadRequest)
		return
	}

	task := &models.Task{
		ID:          uuid.New(),
		Title:       title,
		Description: description,
		Status:      models.TaskStatusPending,
		AssignedTo:  &assignedTo,
		DueDate:     dueDate,
		CreatedBy:   sess.UserID,
		CreatedAt:   time.Now().UTC(),
	}
	if err := h.TaskRepo.Create(ctx, task); err != nil {
		shared.SendError(w, "Failed to create task", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Location", "/tasks/"+task.ID.String())
	sendTasksJSON(w, []*models.Task{task}, http.StatusCreated)
}

/*
routes:
- GET /tasks/{id},
- PUT/PATCH /tasks/{id} - status change,
- DELETE /tasks/{id} - admin only
*/
func (h *Handler) HandleTaskByID(w http.ResponseWriter, r *http.Request) {
	taskIDstr := r.URL.Path[len("/tasks/"):]
	if taskIDstr == "" {
		shared.SendError(w, "task_id is required", http.StatusBadRequest)
		return
	}
	taskID, err := uuid.Parse(taskIDstr)
	if err != nil {
		shared.SendError(w, "task_id must be a valid uuid", http.StatusBadRequest)
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.getTaskByID(w, r, taskID)
	case http.MethodPut, http.MethodPatch:
		h.updateTaskStatus(w, r, taskID)
	case http.MethodDelete:
		h.deleteTaskByID(w, r, taskID)
	default:
		shared.SendError(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *Handler) getTaskByID(w http.ResponseWriter, r *http.Request, taskID uuid.UUID) {
	sess, ok := sessionFrom(r)
	if !ok {
		shared.SendError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	task, err := h.TaskRepo.GetByID(ctx, taskID.String())
	if err != nil {
		shared.SendError(w, "Task not found", http.StatusNotFound)
		return
	}
	if !sess.IsAdmin() && !(task.AssignedTo != nil && *task.AssignedTo == sess.UserID) {
		shared.SendError(w, "Forbidden", http.StatusForbidden)
		return
	}
	sendTasksJSON(w, []*models.Task{task}, http.StatusOK)
}

// updateTaskStatus overwrites the status through the synchronizer. Any
// authenticated user may change any task's status; that matches the store
// policy of the original system.
func (h *Handler) updateTaskStatus(w http.ResponseWriter, r *http.Request, taskID uuid.UUID) {
	sess, ok := sessionFrom(r)
	if !ok {
		shared.SendError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	if !isJSONContentType(r) {
		shared.SendError(w, "Content-Type must be application/json", http.StatusBadRequest)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB

	var input struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		shared.SendError(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}
	status := models.TaskStatus(strings.TrimSpace(input.Status))
	if !status.Valid() {
		shared.SendError(w, "Invalid status value", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	actor := service.Actor{UserID: sess.UserID, FullName: sess.FullName}
	task, err := h.StatusSync.ChangeStatus(ctx, taskID, status, actor)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			shared.SendError(w, "Task not found", http.StatusNotFound)
			return
		}
		shared.SendError(w, "Failed to update status", http.StatusInternalServerError)
		return
	}
	sendTasksJSON(w, []*models.Task{task}, http.StatusOK)
}

func (h *Handler) deleteTaskByID(w http.ResponseWriter, r *http.Request, taskID uuid.UUID) {
	sess, ok := sessionFrom(r)
	if !ok {
		shared.SendError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	if !sess.IsAdmin() {
		shared.SendError(w, "Forbidden", http.StatusForbidden)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.TaskRepo.Delete(ctx, taskID); err != nil {
		shared.SendError(w, "Task not found", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleTaskStats answers GET /tasks/stats with per-status counts, scoped
// like the task list.
func (h *Handler) HandleTaskStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		shared.SendError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	sess, ok := sessionFrom(r)
	if !ok {
		shared.SendError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	scope := sess.UserID.String()
	if sess.IsAdmin() {
		scope = ""
	}
	stats, err := h.TaskRepo.Stats(ctx, scope)
	if err != nil {
		shared.SendError(w, "Failed to load stats", http.StatusInternalServerError)
		return
	}
	shared.SendJSON(w, stats, http.StatusOK)
}

func sendTasksJSON(w http.ResponseWriter, tasks []*models.Task, status int) {
	if tasks == nil {
		tasks = []*models.Task{}
	}
	shared.SendJSON(w, tasks, status)
}
