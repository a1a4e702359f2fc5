package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/AndresGalvis92/warmtask-pro/internal/db"
	"github.com/AndresGalvis92/warmtask-pro/internal/handlers"
	"github.com/AndresGalvis92/warmtask-pro/internal/service"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

func main() {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			log.Fatalf("Error loading .env file: %v", err)
		}
	} else {
		log.Println(".env file not found, relying on environment variables")
	}

	validateEnv()
	dbConn := initDB()
	defer dbConn.Close()

	initHandlers(dbConn)
	server := initServer()
	startServer(server)
}

func validateEnv() {
	requiredEnvVars := []string{
		"POSTGRES_USER", "POSTGRES_PASSWORD", "POSTGRES_DB",
		"POSTGRES_HOST", "POSTGRES_PORT", "SERVER_PORT",
	}
	for _, env := range requiredEnvVars {
		if os.Getenv(env) == "" {
			log.Fatalf("Environment variable %s must be set", env)
		}
	}
	if len(os.Getenv("JWT_SECRET")) < 32 {
		log.Fatal("JWT_SECRET must be at least 32 characters")
	}
}

func initDB() *sql.DB {
	user := os.Getenv("POSTGRES_USER")
	password := os.Getenv("POSTGRES_PASSWORD")
	dbname := os.Getenv("POSTGRES_DB")
	port := os.Getenv("POSTGRES_PORT")
	host := os.Getenv("POSTGRES_HOST")

	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		host, user, password, dbname, port)

	dbConn, err := db.Connect("postgres", dsn)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := db.Migrate(dbConn); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	return dbConn
}

func initHandlers(dbConn *sql.DB) *handlers.Handler {
	taskRepo := db.NewTaskRepository(dbConn)
	notificationRepo := db.NewNotificationRepository(dbConn)
	hub := handlers.NewWSHub()

	handler := &handlers.Handler{
		UserRepo:         db.NewUserRepository(dbConn),
		ProfileRepo:      db.NewProfileRepository(dbConn),
		RoleRepo:         db.NewRoleRepository(dbConn),
		TaskRepo:         taskRepo,
		NotificationRepo: notificationRepo,
		StatusSync: &service.StatusSynchronizer{
			TaskRepo:         taskRepo,
			NotificationRepo: notificationRepo,
			Feed:             hub,
		},
		RateLimiter: handlers.NewRateLimiter(5, time.Second),
		WSHub:       hub,
	}

	http.HandleFunc("/register", handler.Register)
	http.HandleFunc("/login", handler.Login)
	http.HandleFunc("/tasks", handler.AuthMiddleware(handler.HandleTasks))
	http.HandleFunc("/tasks/stats", handler.AuthMiddleware(handler.HandleTaskStats))
	http.HandleFunc("/tasks/", handler.AuthMiddleware(handler.HandleTaskByID))
	http.HandleFunc("/notifications", handler.AuthMiddleware(handler.HandleNotifications))
	http.HandleFunc("/notifications/", handler.AuthMiddleware(handler.HandleNotificationActions))
	http.HandleFunc("/users", handler.AuthMiddleware(handler.HandleUsers))
	http.HandleFunc("/ws", handler.AuthMiddleware(handler.HandleWebSocket))
	return handler
}

func initServer() *http.Server {
	return &http.Server{
		Addr: ":" + os.Getenv("SERVER_PORT"),
	}
}

func startServer(server *http.Server) {
	log.Printf("Starting server on :%s", os.Getenv("SERVER_PORT"))

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}
	log.Println("Server stopped")
}
