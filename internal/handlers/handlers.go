package handlers

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/AndresGalvis92/warmtask-pro/internal/db"
	"github.com/AndresGalvis92/warmtask-pro/internal/service"
	"github.com/AndresGalvis92/warmtask-pro/shared"
)

type Handler struct {
	UserRepo         db.UserRepositoryInterface
	ProfileRepo      db.ProfileRepositoryInterface
	RoleRepo         db.RoleRepositoryInterface
	TaskRepo         db.TaskRepositoryInterface
	NotificationRepo db.NotificationRepositoryInterface
	StatusSync       *service.StatusSynchronizer
	RateLimiter      *RateLimiter
	WSHub            *WSHub
}

func sendError(w http.ResponseWriter, message string, status int) {
	shared.SendError(w, message, status)
}

// clientIP prefers the first X-Forwarded-For hop, falling back to RemoteAddr.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		parts := strings.Split(fwd, ",")
		return strings.TrimSpace(parts[0])
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

type RateLimiter struct {
	attempts map[string]int
	limit    int
	mutex    sync.Mutex
	window   time.Duration
}

func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		attempts: make(map[string]int),
		limit:    limit,
		window:   window,
	}
	go rl.cleanup()
	return rl
}

func (rl *RateLimiter) Allow(ip string) bool {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	count, exists := rl.attempts[ip]
	if !exists {
		rl.attempts[ip] = 1
		return true
	}
	if count >= rl.limit {
		return false
	}
	rl.attempts[ip]++
	return true
}

// reset the attempts map every window duration
func (rl *RateLimiter) cleanup() {
	for range time.Tick(rl.window) {
		rl.mutex.Lock()
		rl.attempts = make(map[string]int)
		rl.mutex.Unlock()
	}
}

func isJSONContentType(r *http.Request) bool {
	ct := r.Header.Get("Content-Type")
	return strings.HasPrefix(ct, "application/json")
}
