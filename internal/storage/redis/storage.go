package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mcoot/memorygame-go/internal/model"
	"github.com/mcoot/memorygame-go/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface
type Storage struct {
	client *redis.Client
	cfg    Config
	keys   keyspace
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return NewWithClient(client, cfg), nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	prefix := cfg.KeyPrefix
	if prefix == "" {
		prefix = DefaultConfig().KeyPrefix
	}
	return &Storage{
		client: client,
		cfg:    cfg,
		keys:   keyspace(prefix),
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Game operations

func (s *Storage) NextGameID(ctx context.Context) (model.GameID, error) {
	id, err := s.client.Incr(ctx, s.keys.gameSeq()).Result()
	if err != nil {
		return 0, err
	}
	return model.GameID(id), nil
}

func (s *Storage) CreateGame(ctx context.Context, game *model.Game) error {
	data, err := json.Marshal(game)
	if err != nil {
		return err
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, s.keys.game(game.ID), data, s.cfg.GameTTL)
		pipe.RPush(ctx, s.keys.playerGames(game.Player), game.ID.String())
		pipe.Incr(ctx, s.keys.gameCount())
		return nil
	})
	return err
}

func (s *Storage) GetGame(ctx context.Context, id model.GameID) (*model.Game, error) {
	data, err := s.client.Get(ctx, s.keys.game(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrGameNotFound
		}
		return nil, err
	}

	var game model.Game
	if err := json.Unmarshal(data, &game); err != nil {
		return nil, err
	}
	return &game, nil
}

// maxUpdateAttempts bounds optimistic retries when another writer touches the game
const maxUpdateAttempts = 100

// UpdateGame WATCHes the game key, re-reads it and writes the game plus any
// new move in one MULTI/EXEC. A concurrent write aborts the EXEC and the
// update is retried against the fresh state.
func (s *Storage) UpdateGame(ctx context.Context, id model.GameID, fn storage.GameUpdate) (*model.Game, error) {
	gameKey := s.keys.game(id)
	movesKey := s.keys.moves(id)

	var updated *model.Game
	txf := func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, gameKey).Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return model.ErrGameNotFound
			}
			return err
		}

		var game model.Game
		if err := json.Unmarshal(data, &game); err != nil {
			return err
		}

		move, err := fn(&game)
		if err != nil {
			return err
		}

		gameData, err := json.Marshal(&game)
		if err != nil {
			return err
		}
		var moveData []byte
		if move != nil {
			if moveData, err = json.Marshal(move); err != nil {
				return err
			}
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, gameKey, gameData, s.cfg.GameTTL)
			if move != nil {
				pipe.RPush(ctx, movesKey, moveData)
				if s.cfg.GameTTL > 0 {
					pipe.Expire(ctx, movesKey, s.cfg.GameTTL)
				}
			}
			return nil
		})
		if err != nil {
			return err
		}

		updated = &game
		return nil
	}

	for i := 0; i < maxUpdateAttempts; i++ {
		err := s.client.Watch(ctx, txf, gameKey)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return updated, nil
	}
	return nil, storage.ErrConflict
}

// Move operations

func (s *Storage) GetMoves(ctx context.Context, id model.GameID) ([]model.Move, error) {
	values, err := s.client.LRange(ctx, s.keys.moves(id), 0, -1).Result()
	if err != nil {
		return nil, err
	}

	moves := make([]model.Move, 0, len(values))
	for _, val := range values {
		var move model.Move
		if err := json.Unmarshal([]byte(val), &move); err != nil {
			return nil, err
		}
		moves = append(moves, move)
	}
	return moves, nil
}

// Player index operations

func (s *Storage) GetPlayerGames(ctx context.Context, player model.PlayerID) ([]model.GameID, error) {
	values, err := s.client.LRange(ctx, s.keys.playerGames(player), 0, -1).Result()
	if err != nil {
		return nil, err
	}

	ids := make([]model.GameID, 0, len(values))
	for _, val := range values {
		id, err := model.ParseGameID(val)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (s *Storage) CountGames(ctx context.Context) (int, error) {
	count, err := s.client.Get(ctx, s.keys.gameCount()).Int()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, err
	}
	return count, nil
}

// Summary operations

func (s *Storage) SaveSummary(ctx context.Context, summary *model.GameSummary) error {
	data, err := json.Marshal(summary)
	if err != nil {
		return err
	}

	member := redis.Z{
		Score:  float64(summary.GameDate.UnixMilli()),
		Member: summary.ID,
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, s.keys.summary(summary.ID), data, 0)
		pipe.ZAdd(ctx, s.keys.summariesByDate(), member)
		pipe.ZAdd(ctx, s.keys.playerSummariesByDate(summary.UserID), member)
		return nil
	})
	return err
}

func (s *Storage) ListSummariesForPlayer(ctx context.Context, userID string, limit int) ([]*model.GameSummary, error) {
	return s.listSummaries(ctx, s.keys.playerSummariesByDate(userID), limit)
}

func (s *Storage) ListSummaries(ctx context.Context, limit int) ([]*model.GameSummary, error) {
	return s.listSummaries(ctx, s.keys.summariesByDate(), limit)
}

func (s *Storage) listSummaries(ctx context.Context, indexKey string, limit int) ([]*model.GameSummary, error) {
	stop := int64(-1)
	if limit > 0 {
		stop = int64(limit - 1)
	}

	ids, err := s.client.ZRevRange(ctx, indexKey, 0, stop).Result()
	if err != nil {
		return nil, err
	}

	if len(ids) == 0 {
		return []*model.GameSummary{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = s.keys.summary(id)
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	summaries := make([]*model.GameSummary, 0, len(values))
	for _, val := range values {
		str, ok := val.(string)
		if !ok {
			continue
		}
		var summary model.GameSummary
		if err := json.Unmarshal([]byte(str), &summary); err != nil {
			continue // Skip invalid data
		}
		summaries = append(summaries, &summary)
	}

	storage.SortSummaries(summaries)
	return summaries, nil
}

