package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/japanesestudent/user-service/internal/auth/service"
	"github.com/japanesestudent/user-service/internal/middlewares"
)

type contextKey string

const claimsKey contextKey = "claims"

// TokenValidator is the interface that wraps access token validation
type TokenValidator interface {
	ValidateToken(tokenString string) (*service.Claims, error)
}

// AuthMiddleware validates the bearer access token and stores its claims in the request context
func AuthMiddleware(tokens TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Expected format: "Bearer <token>"
			var token string
			parts := strings.Fields(r.Header.Get("Authorization"))
			if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
				token = parts[1]
			}

			if token == "" {
				middlewares.WriteError(w, http.StatusUnauthorized, "authentication required")
				return
			}

			claims, err := tokens.ValidateToken(token)
			if err != nil {
				middlewares.WriteError(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}

			ctx := context.WithValue(r.Context(), claimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetClaims retrieves the token claims from context
func GetClaims(ctx context.Context) (*service.Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(*service.Claims)
	return claims, ok
}
