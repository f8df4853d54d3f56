package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type contextKey string

const (
	UserIDKey contextKey = "user_id"
	GuestKey  contextKey = "guest"
)

type JWTAuth struct {
	Secret []byte
}

func NewJWTAuth(secret string) *JWTAuth {
	return &JWTAuth{Secret: []byte(secret)}
}

// GenerateAccessToken creates a JWT with 15 minute expiry
func (j *JWTAuth) GenerateAccessToken(userID uuid.UUID, email string) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID.String(),
		"email":   email,
		"exp":     time.Now().Add(15 * time.Minute).Unix(),
		"iat":     time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(j.Secret)
}

// Middleware validates JWT and attaches user_id to context
func (j *JWTAuth) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, errCode, errMsg := j.userFromRequest(r)
		if errCode != "" {
			writeError(w, http.StatusUnauthorized, errCode, errMsg, r)
			return
		}

		ctx := context.WithValue(r.Context(), UserIDKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// OptionalAuth accepts authenticated and guest traffic on the same routes.
// A valid Bearer token gets the real user ID. Anything else runs as a guest:
// the client's X-Guest-ID header is reused when it parses as a UUID, otherwise
// a fresh one is minted and echoed back so the client can keep it.
func (j *JWTAuth) OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "" {
			userID, errCode, errMsg := j.userFromRequest(r)
			if errCode != "" {
				writeError(w, http.StatusUnauthorized, errCode, errMsg, r)
				return
			}
			ctx := context.WithValue(r.Context(), UserIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
			return
		}

		guestID, err := uuid.Parse(r.Header.Get("X-Guest-ID"))
		if err != nil {
			guestID = uuid.New()
		}
		w.Header().Set("X-Guest-ID", guestID.String())

		ctx := context.WithValue(r.Context(), UserIDKey, guestID)
		ctx = context.WithValue(ctx, GuestKey, true)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (j *JWTAuth) userFromRequest(r *http.Request) (uuid.UUID, string, string) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return uuid.Nil, "UNAUTHORIZED", "Missing authorization header"
	}

	// Must be Bearer format
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return uuid.Nil, "UNAUTHORIZED", "Invalid authorization format"
	}

	tokenStr := parts[1]

	// Parse and verify
	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return j.Secret, nil
	})

	if err != nil {
		if strings.Contains(err.Error(), "expired") {
			return uuid.Nil, "TOKEN_EXPIRED", "Token has expired"
		}
		return uuid.Nil, "UNAUTHORIZED", "Invalid token"
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return uuid.Nil, "UNAUTHORIZED", "Invalid token claims"
	}

	userIDStr, ok := claims["user_id"].(string)
	if !ok {
		return uuid.Nil, "UNAUTHORIZED", "Invalid user ID in token"
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return uuid.Nil, "UNAUTHORIZED", "Invalid user ID format"
	}

	return userID, "", ""
}

// GetUserID extracts user_id from request context
func GetUserID(ctx context.Context) uuid.UUID {
	id, _ := ctx.Value(UserIDKey).(uuid.UUID)
	return id
}

// IsGuest reports whether the request runs under a guest identity
func IsGuest(ctx context.Context) bool {
	guest, _ := ctx.Value(GuestKey).(bool)
	return guest
}

func writeError(w http.ResponseWriter, status int, code, message string, r *http.Request) {
	requestID := r.Header.Get("X-Request-ID")
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"error": map[string]interface{}{
			"code":       code,
			"message":    message,
			"request_id": requestID,
		},
	})
}
