package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/mcoot/memorygame-go/internal/api/apierr"
	"github.com/mcoot/memorygame-go/internal/model"
)

type contextKey string

const playerContextKey contextKey = "player"

// PlayerHeader carries the caller identity
const PlayerHeader = "X-Player-ID"

// Identity requires a caller identity on every request and stores it in the context.
// There is no login flow: the identity is taken as presented.
func Identity() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			player := extractPlayer(r)
			if player == "" {
				apierr.WriteError(w, apierr.NewUnauthorizedError())
				return
			}
			next.ServeHTTP(w, r.WithContext(WithPlayer(r.Context(), player)))
		})
	}
}

// OptionalIdentity stores the caller identity if present but doesn't require it
func OptionalIdentity() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if player := extractPlayer(r); player != "" {
				r = r.WithContext(WithPlayer(r.Context(), player))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// extractPlayer reads the identity from X-Player-ID, falling back to a bearer token
func extractPlayer(r *http.Request) model.PlayerID {
	if id := strings.TrimSpace(r.Header.Get(PlayerHeader)); id != "" {
		return model.PlayerID(id)
	}
	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return model.PlayerID(strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer ")))
	}
	return ""
}

// WithPlayer returns a context carrying the given identity
func WithPlayer(ctx context.Context, player model.PlayerID) context.Context {
	return context.WithValue(ctx, playerContextKey, player)
}

// GetPlayer returns the caller identity from the request context, or "" if none
func GetPlayer(ctx context.Context) model.PlayerID {
	player, _ := ctx.Value(playerContextKey).(model.PlayerID)
	return player
}

// MustGetPlayer returns the caller identity or panics
func MustGetPlayer(ctx context.Context) model.PlayerID {
	player := GetPlayer(ctx)
	if player == "" {
		panic("no player in context - identity middleware not applied?")
	}
	return player
}
