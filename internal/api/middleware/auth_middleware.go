package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/littlefern/storefront-api/internal/errors"
	"github.com/littlefern/storefront-api/internal/models"
	"github.com/littlefern/storefront-api/internal/utils/response"
)

type contextKey string

const (
	// UserContextKey holds *models.Claims for authenticated requests.
	UserContextKey = contextKey("user")
	// IdentityContextKey holds the resolved cart identity string: the user id
	// for authenticated callers, "anon:<token>" for anonymous sessions.
	IdentityContextKey = contextKey("identity")
)

type AuthMiddleware struct {
	jwtKey []byte
}

func NewAuthMiddleware(jwtKey []byte) *AuthMiddleware {
	return &AuthMiddleware{jwtKey: jwtKey}
}

func (m *AuthMiddleware) parseClaims(r *http.Request) (*models.Claims, *errors.AppError) {

	logger := LoggerFromContext(r.Context())

	authHeader := r.Header.Get("Authorization")

	if authHeader == "" {
		return nil, errors.UnauthorizedError("Authorization header is required")
	}

	// Token is of format : "Bearer <token>"
	tokenParts := strings.Split(authHeader, " ")

	if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
		logger.Warn("Invalid authorization header format")
		return nil, errors.UnauthorizedError("Invalid authorization format")
	}

	claims := &models.Claims{}

	token, err := jwt.ParseWithClaims(tokenParts[1], claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			logger.Error("Unexpected signing method used in JWT", slog.Any("alg", t.Header["alg"]))
			return nil, errors.BadRequestError("unexpected signing method")
		}
		return m.jwtKey, nil
	})

	if err != nil {
		logger.Warn("JWT parsing failed", slog.String("error", err.Error()))
		return nil, errors.UnauthorizedError("Invalid or expired token")
	}

	if !token.Valid {
		return nil, errors.UnauthorizedError("Invalid token")
	}

	if claims.ExpiresAt != nil && claims.ExpiresAt.Time.Before(time.Now()) {
		logger.Warn("Expired token", slog.String("userId", claims.UserID.String()))
		return nil, errors.UnauthorizedError("Token expired")
	}

	return claims, nil
}

// Authenticate requires a valid bearer token. Orders, reviews and admin
// surfaces sit behind it.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := LoggerFromContext(r.Context())

		claims, appErr := m.parseClaims(r)
		if appErr != nil {
			response.Error(w, appErr)
			return
		}

		ctx := context.WithValue(r.Context(), UserContextKey, claims)
		ctx = context.WithValue(ctx, IdentityContextKey, claims.Identity())

		requestScopedLogger := logger.With(slog.String("userId", claims.UserID.String()))
		ctx = context.WithValue(ctx, LoggerKey, requestScopedLogger)

		next.ServeHTTP(w, r.WithContext(ctx))
	}
}

// Identify resolves a cart identity without requiring an account: a valid
// bearer token wins, otherwise the X-Session-ID header names an anonymous
// session. Requests carrying neither are rejected.
func (m *AuthMiddleware) Identify(next http.Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := LoggerFromContext(r.Context())

		if r.Header.Get("Authorization") != "" {

			claims, appErr := m.parseClaims(r)
			if appErr != nil {
				response.Error(w, appErr)
				return
			}

			ctx := context.WithValue(r.Context(), UserContextKey, claims)
			ctx = context.WithValue(ctx, IdentityContextKey, claims.Identity())
			ctx = context.WithValue(ctx, LoggerKey, logger.With(slog.String("userId", claims.UserID.String())))

			next.ServeHTTP(w, r.WithContext(ctx))
			return
		}

		sessionToken := r.Header.Get("X-Session-ID")
		if sessionToken == "" {
			logger.Warn("Request without identity")
			response.Error(w, errors.UnauthorizedError("Authentication or session token required"))
			return
		}

		identity := models.AnonymousIdentity(sessionToken)

		ctx := context.WithValue(r.Context(), IdentityContextKey, identity)
		ctx = context.WithValue(ctx, LoggerKey, logger.With(slog.String("identity", identity)))

		next.ServeHTTP(w, r.WithContext(ctx))
	}
}

// RequireAdmin layers the role check on top of Authenticate.
func (m *AuthMiddleware) RequireAdmin(next http.Handler) http.HandlerFunc {
	return m.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

		claims, ok := r.Context().Value(UserContextKey).(*models.Claims)
		if !ok || !claims.IsAdmin() {
			LoggerFromContext(r.Context()).Warn("Admin access denied")
			response.Error(w, errors.ForbiddenError("Admin access required"))
			return
		}

		next.ServeHTTP(w, r)
	}))
}

// IdentityFromContext returns the resolved cart identity for the request.
func IdentityFromContext(ctx context.Context) (string, bool) {
	identity, ok := ctx.Value(IdentityContextKey).(string)

	return identity, ok && identity != ""
}

// ClaimsFromContext returns the authenticated claims, if any.
func ClaimsFromContext(ctx context.Context) (*models.Claims, bool) {
	claims, ok := ctx.Value(UserContextKey).(*models.Claims)

	return claims, ok
}
