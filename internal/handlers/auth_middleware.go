package handlers

import (
	"context"
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/AndresGalvis92/warmtask-pro/shared/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Session carries the authenticated user's identity and role through the
// request context; view and service code never reads ambient globals.
type Session struct {
	UserID   uuid.UUID
	FullName string
	Role     models.Role
}

func (s Session) IsAdmin() bool {
	return s.Role == models.RoleAdmin
}

type sessionKeyType struct{}

var sessionKey sessionKeyType

func sessionFrom(r *http.Request) (Session, bool) {
	sess, ok := r.Context().Value(sessionKey).(Session)
	return sess, ok
}

/*
Verify the JWT bearer token, resolve the caller's profile and role,
and attach a Session to the request context.
*/
func (h *Handler) AuthMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			sendError(w, "Missing Authorization header", http.StatusUnauthorized)
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			return []byte(os.Getenv("JWT_SECRET")), nil
		})
		if err != nil || !token.Valid {
			sendError(w, "Invalid token", http.StatusUnauthorized)
			return
		}
		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok || claims["sub"] == nil {
			sendError(w, "Invalid token claims", http.StatusUnauthorized)
			return
		}
		sub, _ := claims["sub"].(string)
		userID, err := uuid.Parse(sub)
		if err != nil {
			sendError(w, "Invalid token subject", http.StatusUnauthorized)
			return
		}

		sess := Session{UserID: userID, Role: models.RoleMember}
		if profile, err := h.ProfileRepo.GetByID(r.Context(), sub); err == nil {
			sess.FullName = profile.FullName
		}
		role, err := h.RoleRepo.Get(r.Context(), sub)
		if err != nil {
			log.Printf("Failed to look up role for user %s: %v", sub, err)
			sendError(w, "Cannot resolve session", http.StatusInternalServerError)
			return
		}
		sess.Role = role

		ctx := context.WithValue(r.Context(), sessionKey, sess)
		next(w, r.WithContext(ctx))
	}
}
