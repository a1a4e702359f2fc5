package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/AndresGalvis92/warmtask-pro/shared/models"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		sendError(w, "Use POST method", http.StatusMethodNotAllowed)
		return
	}

	if h.RateLimiter != nil && !h.RateLimiter.Allow(clientIP(r)) {
		log.Printf("Rate limit exceeded for IP: %s", clientIP(r))
		sendError(w, "Too many register attempts. Please try again later.", http.StatusTooManyRequests)
		return
	}

	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		FullName string `json:"full_name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		sendError(w, "Bad JSON", http.StatusBadRequest)
		return
	}

	if !isValidEmail(input.Email) {
		sendError(w, "Invalid email", http.StatusBadRequest)
		return
	}
	if len(input.Password) < 8 {
		sendError(w, "Password must be at least 8 characters long", http.StatusBadRequest)
		return
	}
	fullName := strings.TrimSpace(input.FullName)
	if fullName == "" {
		sendError(w, "full_name is required", http.StatusBadRequest)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("Error hashing password: %v", err)
		sendError(w, "Cannot hash password", http.StatusInternalServerError)
		return
	}

	now := time.Now().UTC()
	user := &models.User{
		ID:           uuid.New(),
		Email:        input.Email,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := h.UserRepo.Create(r.Context(), user); err != nil {
		sendError(w, "Cannot save user", http.StatusInternalServerError)
		return
	}

	profile := &models.Profile{ID: user.ID, FullName: fullName, Email: user.Email}
	if err := h.ProfileRepo.Create(r.Context(), profile); err != nil {
		log.Printf("Error creating profile for %s: %v", user.Email, err)
		sendError(w, "Cannot save profile", http.StatusInternalServerError)
		return
	}
	if err := h.RoleRepo.Assign(r.Context(), user.ID.String(), models.RoleMember); err != nil {
		log.Printf("Error assigning role for %s: %v", user.Email, err)
		sendError(w, "Cannot assign role", http.StatusInternalServerError)
		return
	}

	log.Printf("User registered: %s", user.Email)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]any{
		"user_id":   user.ID,
		"email":     user.Email,
		"full_name": fullName,
	})
}

func isValidEmail(email string) bool {
	const emailRegex = `^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`
	re := regexp.MustCompile(emailRegex)
	return re.MatchString(email)
}
