package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ContextKey type for context keys
type ContextKey string

const UserIDKey ContextKey = "user_id"

// Claims represents JWT claims issued by the auth service.
type Claims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

// Authenticator validates bearer tokens and resolves the viewer identity
// into the request context. Token issuance belongs to the auth service;
// this side only verifies.
type Authenticator struct {
	jwtSecret string
}

func NewAuthenticator(jwtSecret string) *Authenticator {
	return &Authenticator{jwtSecret: jwtSecret}
}

// Middleware rejects requests without a valid bearer token and stores the
// authenticated viewer id in the context for handlers.
func (a *Authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			respondUnauthorized(w, "authorization token is not provided")
			return
		}

		if !strings.HasPrefix(authHeader, "Bearer ") {
			respondUnauthorized(w, "invalid authorization format")
			return
		}
		token := strings.TrimPrefix(authHeader, "Bearer ")

		claims, err := a.verifyToken(token)
		if err != nil {
			respondUnauthorized(w, fmt.Sprintf("invalid token: %v", err))
			return
		}

		viewerID, err := uuid.Parse(claims.UserID)
		if err != nil {
			respondUnauthorized(w, "invalid user id in token")
			return
		}

		ctx := context.WithValue(r.Context(), UserIDKey, viewerID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// verifyToken verifies the JWT token and extracts claims
func (a *Authenticator) verifyToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(a.jwtSecret), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}

	return claims, nil
}

// GetViewerID extracts the authenticated viewer id from the context.
func GetViewerID(ctx context.Context) (uuid.UUID, error) {
	viewerID, ok := ctx.Value(UserIDKey).(uuid.UUID)
	if !ok {
		return uuid.Nil, fmt.Errorf("viewer id not found in context")
	}
	return viewerID, nil
}

func respondUnauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	fmt.Fprintf(w, `{"error":%q}`, message)
}
