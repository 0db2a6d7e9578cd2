package middleware

import (
	jwtutil "account-service/backend/app/jwt"
	"account-service/backend/app/models"
	"account-service/backend/app/repo"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog"
)

type TokenVerifier interface {
	Verify(token string) (*jwtutil.Claims, error)
}

type IdentityResolver interface {
	FindByUsernameAndEmail(ctx context.Context, username, email string) (*models.User, error)
}

type IdentityCache interface {
	Get(ctx context.Context, username, email string) (*models.User, bool)
	Set(ctx context.Context, u *models.User)
}

// Auth gates protected handlers on a valid bearer token whose claims resolve to
// a stored user. The resolved user is available through GetUser.
type Auth struct {
	Tokens TokenVerifier
	Users  IdentityResolver
	Cache  IdentityCache
}

func (a *Auth) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authz := r.Header.Get("Authorization")
		if !strings.HasPrefix(authz, "Bearer ") {
			deny(w, http.StatusUnauthorized, "Authorization header required")
			return
		}
		token := strings.TrimSpace(strings.TrimPrefix(authz, "Bearer "))
		claims, err := a.Tokens.Verify(token)
		if err != nil {
			switch {
			case errors.Is(err, jwtutil.ErrExpired):
				deny(w, http.StatusForbidden, "Token expired")
			case errors.Is(err, jwtutil.ErrSignatureInvalid):
				deny(w, http.StatusForbidden, "Invalid token")
			default:
				deny(w, http.StatusUnauthorized, "Malformed token")
			}
			return
		}
		u, err := a.resolve(r.Context(), claims)
		if err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				deny(w, http.StatusUnauthorized, "User not found")
				return
			}
			zerolog.Ctx(r.Context()).Error().Err(err).Msg("resolve identity")
			deny(w, http.StatusInternalServerError, "Server error")
			return
		}
		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), u)))
	})
}

func (a *Auth) resolve(ctx context.Context, claims *jwtutil.Claims) (*models.User, error) {
	if a.Cache != nil {
		// A stale or foreign entry is ignored and re-resolved from the store.
		if u, ok := a.Cache.Get(ctx, claims.Username, claims.Email); ok && u.Username == claims.Username && u.Email == claims.Email {
			return u, nil
		}
	}
	u, err := a.Users.FindByUsernameAndEmail(ctx, claims.Username, claims.Email)
	if err != nil {
		return nil, err
	}
	if a.Cache != nil {
		a.Cache.Set(ctx, u)
	}
	return u, nil
}

func deny(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"message": msg})
}
