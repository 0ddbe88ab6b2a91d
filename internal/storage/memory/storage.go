package memory

import (
	"context"
	"sync"

	"github.com/mcoot/memorygame-go/internal/model"
	"github.com/mcoot/memorygame-go/internal/storage"
)

// Storage is an in-memory implementation of the storage interface.
// Values are copied on the way in and out so callers never share state.
type Storage struct {
	mu sync.RWMutex

	lastGameID  model.GameID
	games       map[model.GameID]*model.Game
	moves       map[model.GameID][]model.Move
	playerGames map[model.PlayerID][]model.GameID
	summaries   []*model.GameSummary
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		games:       make(map[model.GameID]*model.Game),
		moves:       make(map[model.GameID][]model.Move),
		playerGames: make(map[model.PlayerID][]model.GameID),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Game operations

func (s *Storage) NextGameID(ctx context.Context) (model.GameID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastGameID++
	return s.lastGameID, nil
}

func (s *Storage) CreateGame(ctx context.Context, game *model.Game) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.games[game.ID] = game.Clone()
	s.playerGames[game.Player] = append(s.playerGames[game.Player], game.ID)
	return nil
}

func (s *Storage) GetGame(ctx context.Context, id model.GameID) (*model.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	game, ok := s.games[id]
	if !ok {
		return nil, model.ErrGameNotFound
	}
	return game.Clone(), nil
}

func (s *Storage) UpdateGame(ctx context.Context, id model.GameID, fn storage.GameUpdate) (*model.Game, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.games[id]
	if !ok {
		return nil, model.ErrGameNotFound
	}

	game := stored.Clone()
	move, err := fn(game)
	if err != nil {
		return nil, err
	}

	s.games[id] = game.Clone()
	if move != nil {
		s.moves[id] = append(s.moves[id], *move)
	}
	return game, nil
}

// Move operations

func (s *Storage) GetMoves(ctx context.Context, id model.GameID) ([]model.Move, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	moves := make([]model.Move, len(s.moves[id]))
	copy(moves, s.moves[id])
	return moves, nil
}

// Player index operations

func (s *Storage) GetPlayerGames(ctx context.Context, player model.PlayerID) ([]model.GameID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]model.GameID, len(s.playerGames[player]))
	copy(ids, s.playerGames[player])
	return ids, nil
}

func (s *Storage) CountGames(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.games), nil
}

// Summary operations

func (s *Storage) SaveSummary(ctx context.Context, summary *model.GameSummary) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := *summary
	s.summaries = append(s.summaries, &c)
	return nil
}

func (s *Storage) ListSummariesForPlayer(ctx context.Context, userID string, limit int) ([]*model.GameSummary, error) {
	return s.listSummaries(func(sum *model.GameSummary) bool { return sum.UserID == userID }, limit), nil
}

func (s *Storage) ListSummaries(ctx context.Context, limit int) ([]*model.GameSummary, error) {
	return s.listSummaries(func(*model.GameSummary) bool { return true }, limit), nil
}

func (s *Storage) listSummaries(keep func(*model.GameSummary) bool, limit int) []*model.GameSummary {
	s.mu.RLock()
	result := make([]*model.GameSummary, 0)
	for _, sum := range s.summaries {
		if keep(sum) {
			c := *sum
			result = append(result, &c)
		}
	}
	s.mu.RUnlock()

	storage.SortSummaries(result)
	return storage.Limit(result, limit)
}
