package handlers

import (
	"database/sql"
	"net/http"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/AndresGalvis92/warmtask-pro/internal/db"
	"github.com/AndresGalvis92/warmtask-pro/internal/service"
	"github.com/AndresGalvis92/warmtask-pro/shared/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

func setupHTTP(t *testing.T) (*Handler, *http.ServeMux, *sql.DB, string) {
	t.Helper()

	secret := strings.Repeat("a", 32)
	_ = os.Setenv("JWT_SECRET", secret)

	// in-memory sqlite DB
	dbx, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	ddl := `
CREATE TABLE users (
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL,
  created_at TIMESTAMP NOT NULL,
  updated_at TIMESTAMP NOT NULL
);
CREATE TABLE profiles (
  id TEXT PRIMARY KEY,
  full_name TEXT NOT NULL,
  email TEXT NOT NULL
);
CREATE TABLE user_roles (
  user_id TEXT PRIMARY KEY,
  role TEXT NOT NULL
);
CREATE TABLE tasks (
  id TEXT PRIMARY KEY,
  title TEXT NOT NULL,
  description TEXT NOT NULL DEFAULT '',
  status TEXT NOT NULL,
  assigned_to TEXT,
  due_date TIMESTAMP,
  created_by TEXT NOT NULL,
  created_at TIMESTAMP NOT NULL
);
CREATE TABLE notifications (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  title TEXT NOT NULL,
  message TEXT NOT NULL,
  type TEXT NOT NULL,
  read BOOLEAN NOT NULL DEFAULT 0,
  link TEXT NOT NULL DEFAULT '',
  created_at TIMESTAMP NOT NULL
);
`
	if _, err := dbx.Exec(ddl); err != nil {
		t.Fatalf("create schema: %v", err)
	}

	taskRepo := db.NewTaskRepository(dbx)
	notificationRepo := db.NewNotificationRepository(dbx)
	hub := NewWSHub()

	h := &Handler{
		UserRepo:         db.NewUserRepository(dbx),
		ProfileRepo:      db.NewProfileRepository(dbx),
		RoleRepo:         db.NewRoleRepository(dbx),
		TaskRepo:         taskRepo,
		NotificationRepo: notificationRepo,
		StatusSync: &service.StatusSynchronizer{
			TaskRepo:         taskRepo,
			NotificationRepo: notificationRepo,
			Feed:             hub,
		},
		RateLimiter: NewRateLimiter(50, time.Second),
		WSHub:       hub,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/register", h.Register)
	mux.HandleFunc("/login", h.Login)
	mux.HandleFunc("/tasks", h.AuthMiddleware(h.HandleTasks))
	mux.HandleFunc("/tasks/stats", h.AuthMiddleware(h.HandleTaskStats))
	mux.HandleFunc("/tasks/", h.AuthMiddleware(h.HandleTaskByID))
	mux.HandleFunc("/notifications", h.AuthMiddleware(h.HandleNotifications))
	mux.HandleFunc("/notifications/", h.AuthMiddleware(h.HandleNotificationActions))
	mux.HandleFunc("/users", h.AuthMiddleware(h.HandleUsers))
	mux.HandleFunc("/ws", h.AuthMiddleware(h.HandleWebSocket))

	return h, mux, dbx, secret
}

// seedUser inserts a profile and role row and returns the user id.
func seedUser(t *testing.T, dbx *sql.DB, fullName, email string, role models.Role) uuid.UUID {
	t.Helper()
	id := uuid.New()
	if _, err := dbx.Exec(
		`INSERT INTO profiles (id, full_name, email) VALUES ($1, $2, $3)`, id, fullName, email,
	); err != nil {
		t.Fatalf("seed profile: %v", err)
	}
	if _, err := dbx.Exec(
		`INSERT INTO user_roles (user_id, role) VALUES ($1, $2)`, id, role,
	); err != nil {
		t.Fatalf("seed role: %v", err)
	}
	return id
}

func bearerForUser(t *testing.T, secret string, userID uuid.UUID) string {
	t.Helper()
	claims := jwt.MapClaims{
		"sub": userID.String(),
		"exp": time.Now().Add(1 * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign jwt: %v", err)
	}
	return "Bearer " + signed
}
