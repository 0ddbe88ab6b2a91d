package storage

import (
	"context"
	"errors"

	"github.com/mcoot/memorygame-go/internal/model"
)

// ErrConflict is returned when an update kept losing races with other writers
var ErrConflict = errors.New("storage: too many concurrent updates")

// GameUpdate changes a freshly read game. A returned move is appended to the
// game's log in the same write. Returning an error aborts without writing.
type GameUpdate func(game *model.Game) (*model.Move, error)

// GameStore persists engine games and their move logs
type GameStore interface {
	// NextGameID reserves the next game ID. IDs start at 1 and are never reused.
	NextGameID(ctx context.Context) (model.GameID, error)

	// CreateGame stores a new game and indexes it under its player
	CreateGame(ctx context.Context, game *model.Game) error
	GetGame(ctx context.Context, id model.GameID) (*model.Game, error)

	// UpdateGame reads the game, applies fn and stores the result atomically.
	// Updates to one game never interleave, even between processes sharing
	// a backend, so fn may run more than once.
	UpdateGame(ctx context.Context, id model.GameID, fn GameUpdate) (*model.Game, error)
	GetMoves(ctx context.Context, id model.GameID) ([]model.Move, error)

	// GetPlayerGames returns the player's game IDs in creation order
	GetPlayerGames(ctx context.Context, player model.PlayerID) ([]model.GameID, error)
	CountGames(ctx context.Context) (int, error)
}

// SummaryStore persists finished-game summary records
type SummaryStore interface {
	SaveSummary(ctx context.Context, summary *model.GameSummary) error

	// List operations return newest first by GameDate, capped at limit
	ListSummariesForPlayer(ctx context.Context, userID string, limit int) ([]*model.GameSummary, error)
	ListSummaries(ctx context.Context, limit int) ([]*model.GameSummary, error)
}

// Storage defines the interface for data persistence
type Storage interface {
	GameStore
	SummaryStore
}
