package game

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/mcoot/memorygame-go/internal/dependencies/clock"
	"github.com/mcoot/memorygame-go/internal/model"
	"github.com/mcoot/memorygame-go/internal/storage"
)

// Controller runs the game lifecycle: creation, move validation and abandonment
type Controller struct {
	storage   storage.GameStore
	clock     clock.Clock
	publisher Publisher
	logger    *slog.Logger
	locks     *gameLocks
}

// NewController creates a new game Controller. A nil publisher discards events.
func NewController(
	storage storage.GameStore,
	clock clock.Clock,
	publisher Publisher,
	logger *slog.Logger,
) *Controller {
	if publisher == nil {
		publisher = NopPublisher{}
	}
	return &Controller{
		storage:   storage,
		clock:     clock,
		publisher: publisher,
		logger:    logger,
		locks:     newGameLocks(),
	}
}

// CreateGame starts a new active game for the player
func (c *Controller) CreateGame(ctx context.Context, player model.PlayerID, difficulty model.Difficulty) (*model.Game, error) {
	if !difficulty.IsValid() {
		return nil, model.ErrInvalidDifficulty
	}

	id, err := c.storage.NextGameID(ctx)
	if err != nil {
		return nil, err
	}

	game := &model.Game{
		ID:         id,
		Player:     player,
		Difficulty: difficulty,
		GridSize:   difficulty.GridSize(),
		TotalPairs: difficulty.TotalPairs(),
		StartTime:  c.clock.Now(),
		IsActive:   true,
	}

	if err := c.storage.CreateGame(ctx, game); err != nil {
		c.logger.Error("failed to save game",
			slog.String("game_id", id.String()),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	c.logger.Info("game created",
		slog.String("game_id", id.String()),
		slog.String("player", string(player)),
		slog.String("difficulty", difficulty.String()),
		slog.Int("grid_size", game.GridSize),
	)

	c.publish(ctx, model.EventGameStarted, game, model.GameStartedPayload{
		Difficulty: difficulty,
		GridSize:   game.GridSize,
		TotalPairs: game.TotalPairs,
	})

	return game, nil
}

// MoveResult is an accepted move together with the game state it produced
type MoveResult struct {
	Move *model.Move
	Game *model.Game
}

// ValidateMove records one attempt to match two cards. Whether the cards
// match is supplied by the caller.
func (c *Controller) ValidateMove(
	ctx context.Context,
	gameID model.GameID,
	caller model.PlayerID,
	cardIndex1, cardIndex2 int,
	isMatch bool,
) (*model.Move, error) {
	result, err := c.PlayMove(ctx, gameID, caller, cardIndex1, cardIndex2, isMatch)
	if err != nil {
		return nil, err
	}
	return result.Move, nil
}

// PlayMove is ValidateMove returning the updated game as well
func (c *Controller) PlayMove(
	ctx context.Context,
	gameID model.GameID,
	caller model.PlayerID,
	cardIndex1, cardIndex2 int,
	isMatch bool,
) (*MoveResult, error) {
	unlock := c.locks.lock(gameID)
	defer unlock()

	var (
		move      *model.Move
		completed bool
	)
	game, err := c.storage.UpdateGame(ctx, gameID, func(game *model.Game) (*model.Move, error) {
		if game.IsTerminal() {
			return nil, model.ErrGameNotActive
		}
		if game.Player != caller {
			return nil, model.ErrNotGameOwner
		}
		if cardIndex1 == cardIndex2 {
			return nil, model.ErrDuplicateCardIndex
		}
		if !game.IsValidCardIndex(cardIndex1) {
			return nil, model.ErrCard1OutOfBounds
		}
		if !game.IsValidCardIndex(cardIndex2) {
			return nil, model.ErrCard2OutOfBounds
		}

		now := c.clock.Now()
		move = &model.Move{
			GameID:     gameID,
			CardIndex1: cardIndex1,
			CardIndex2: cardIndex2,
			IsMatch:    isMatch,
			Timestamp:  now,
		}

		game.Attempts++
		if isMatch {
			game.FoundPairs++
		} else {
			game.WrongAttempts++
		}

		completed = game.FoundPairs == game.TotalPairs
		if completed {
			game.IsCompleted = true
			game.IsActive = false
			game.EndTime = now
		}
		return move, nil
	})
	if err != nil {
		if !isRejection(err) {
			c.logger.Error("failed to record move",
				slog.String("game_id", gameID.String()),
				slog.String("error", err.Error()),
			)
		}
		return nil, err
	}

	c.logger.Debug("move validated",
		slog.String("game_id", gameID.String()),
		slog.Int("card_1", cardIndex1),
		slog.Int("card_2", cardIndex2),
		slog.Bool("is_match", isMatch),
	)

	c.publish(ctx, model.EventMoveValidated, game, model.MoveValidatedPayload{
		CardIndex1: cardIndex1,
		CardIndex2: cardIndex2,
		IsMatch:    isMatch,
		FoundPairs: game.FoundPairs,
		Attempts:   game.Attempts,
	})

	if completed {
		c.logger.Info("game completed",
			slog.String("game_id", gameID.String()),
			slog.Int("attempts", game.Attempts),
			slog.Int("wrong_attempts", game.WrongAttempts),
		)
		c.publish(ctx, model.EventGameCompleted, game, model.GameCompletedPayload{
			Attempts:      game.Attempts,
			WrongAttempts: game.WrongAttempts,
			Duration:      game.Duration(game.EndTime),
		})
	}

	return &MoveResult{Move: move, Game: game.Clone()}, nil
}

// AbandonGame ends an active game without completing it
func (c *Controller) AbandonGame(ctx context.Context, gameID model.GameID, caller model.PlayerID) error {
	unlock := c.locks.lock(gameID)
	defer unlock()

	game, err := c.storage.UpdateGame(ctx, gameID, func(game *model.Game) (*model.Move, error) {
		if game.Player != caller {
			return nil, model.ErrNotGameOwner
		}
		if game.IsTerminal() {
			return nil, model.ErrGameNotActive
		}

		game.IsActive = false
		game.EndTime = c.clock.Now()
		return nil, nil
	})
	if err != nil {
		if !isRejection(err) {
			c.logger.Error("failed to abandon game",
				slog.String("game_id", gameID.String()),
				slog.String("error", err.Error()),
			)
		}
		return err
	}

	c.logger.Info("game abandoned",
		slog.String("game_id", gameID.String()),
		slog.Int("found_pairs", game.FoundPairs),
	)

	c.publish(ctx, model.EventGameAbandoned, game, model.GameAbandonedPayload{
		FoundPairs: game.FoundPairs,
		Attempts:   game.Attempts,
	})

	return nil
}

// GetGame retrieves a game by ID
func (c *Controller) GetGame(ctx context.Context, gameID model.GameID) (*model.Game, error) {
	return c.storage.GetGame(ctx, gameID)
}

// GetGameMoves returns the game's moves in the order they were accepted
func (c *Controller) GetGameMoves(ctx context.Context, gameID model.GameID) ([]model.Move, error) {
	if _, err := c.storage.GetGame(ctx, gameID); err != nil {
		return nil, err
	}
	return c.storage.GetMoves(ctx, gameID)
}

// GetPlayerGames returns the IDs of every game created by the player
func (c *Controller) GetPlayerGames(ctx context.Context, player model.PlayerID) ([]model.GameID, error) {
	ids, err := c.storage.GetPlayerGames(ctx, player)
	if err != nil {
		return nil, err
	}
	if ids == nil {
		ids = []model.GameID{}
	}
	return ids, nil
}

// GetTotalGames returns the number of games ever created
func (c *Controller) GetTotalGames(ctx context.Context) (int, error) {
	return c.storage.CountGames(ctx)
}

// IsGameActive reports whether the game exists and is active
func (c *Controller) IsGameActive(ctx context.Context, gameID model.GameID) (bool, error) {
	game, err := c.storage.GetGame(ctx, gameID)
	if err != nil {
		if errors.Is(err, model.ErrGameNotFound) {
			return false, nil
		}
		return false, err
	}
	return !game.IsTerminal(), nil
}

// GetGameDuration returns the time played so far, or the final duration once terminal
func (c *Controller) GetGameDuration(ctx context.Context, gameID model.GameID) (time.Duration, error) {
	game, err := c.storage.GetGame(ctx, gameID)
	if err != nil {
		return 0, err
	}
	return game.Duration(c.clock.Now()), nil
}

// isRejection reports whether err is a rule violation rather than a storage failure
func isRejection(err error) bool {
	for _, target := range []error{
		model.ErrGameNotFound,
		model.ErrGameNotActive,
		model.ErrNotGameOwner,
		model.ErrDuplicateCardIndex,
		model.ErrCardIndexOutOfBounds,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func (c *Controller) publish(ctx context.Context, eventType model.EventType, game *model.Game, payload any) {
	c.publisher.Publish(ctx, model.Event{
		Type:      eventType,
		Timestamp: c.clock.Now(),
		GameID:    game.ID,
		PlayerID:  game.Player,
		Payload:   payload,
	})
}
