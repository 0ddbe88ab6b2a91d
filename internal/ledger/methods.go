package ledger

import (
	"context"
	"encoding/json"
	"time"

	"github.com/mcoot/memorygame-go/internal/model"
)

type startGameArgs struct {
	Difficulty int `json:"difficulty"`
}

type gameArgs struct {
	GameID uint64 `json:"gameId"`
}

type moveArgs struct {
	GameID     uint64 `json:"gameId"`
	CardIndex1 int    `json:"cardIndex1"`
	CardIndex2 int    `json:"cardIndex2"`
	IsMatch    bool   `json:"isMatch"`
}

type playerArgs struct {
	Player string `json:"player"`
}

// GameView is the result shape of getGame. Times are unix seconds; EndTime
// stays 0 until the game is terminal.
type GameView struct {
	ID            uint64 `json:"id"`
	Player        string `json:"player"`
	Difficulty    int    `json:"difficulty"`
	GridSize      int    `json:"gridSize"`
	TotalPairs    int    `json:"totalPairs"`
	FoundPairs    int    `json:"foundPairs"`
	Attempts      int    `json:"attempts"`
	WrongAttempts int    `json:"wrongAttempts"`
	StartTime     int64  `json:"startTime"`
	EndTime       int64  `json:"endTime"`
	IsActive      bool   `json:"isActive"`
	IsCompleted   bool   `json:"isCompleted"`
}

// MoveView is one entry of the getGameMoves result
type MoveView struct {
	CardIndex1 int   `json:"cardIndex1"`
	CardIndex2 int   `json:"cardIndex2"`
	IsMatch    bool  `json:"isMatch"`
	Timestamp  int64 `json:"timestamp"`
}

func newGameView(g *model.Game) GameView {
	v := GameView{
		ID:            uint64(g.ID),
		Player:        string(g.Player),
		Difficulty:    int(g.Difficulty),
		GridSize:      g.GridSize,
		TotalPairs:    g.TotalPairs,
		FoundPairs:    g.FoundPairs,
		Attempts:      g.Attempts,
		WrongAttempts: g.WrongAttempts,
		StartTime:     g.StartTime.Unix(),
		IsActive:      g.IsActive,
		IsCompleted:   g.IsCompleted,
	}
	if !g.EndTime.IsZero() {
		v.EndTime = g.EndTime.Unix()
	}
	return v
}

func durationSeconds(d time.Duration) int64 {
	return int64(d / time.Second)
}

func startGame(ctx context.Context, c *Contract, from Address, raw json.RawMessage) (any, []Log, error) {
	var args startGameArgs
	if err := decodeArgs(raw, &args); err != nil {
		return nil, nil, err
	}
	if args.Difficulty < 0 || args.Difficulty > 255 {
		return nil, nil, model.ErrInvalidDifficulty
	}

	g, err := c.engine.CreateGame(ctx, from.PlayerID(), model.Difficulty(args.Difficulty))
	if err != nil {
		return nil, nil, err
	}
	return uint64(g.ID), []Log{gameStartedLog(g)}, nil
}

func validateMove(ctx context.Context, c *Contract, from Address, raw json.RawMessage) (any, []Log, error) {
	var args moveArgs
	if err := decodeArgs(raw, &args); err != nil {
		return nil, nil, err
	}

	result, err := c.engine.PlayMove(ctx, model.GameID(args.GameID), from.PlayerID(), args.CardIndex1, args.CardIndex2, args.IsMatch)
	if err != nil {
		return nil, nil, err
	}

	logs := []Log{moveValidatedLog(result.Game, result.Move)}
	if result.Game.IsCompleted {
		logs = append(logs, gameCompletedLog(result.Game))
	}
	return result.Move.IsMatch, logs, nil
}

func abandonGame(ctx context.Context, c *Contract, from Address, raw json.RawMessage) (any, []Log, error) {
	var args gameArgs
	if err := decodeArgs(raw, &args); err != nil {
		return nil, nil, err
	}

	id := model.GameID(args.GameID)
	if err := c.engine.AbandonGame(ctx, id, from.PlayerID()); err != nil {
		return nil, nil, err
	}
	return true, []Log{gameAbandonedLog(id, from.PlayerID())}, nil
}

func getGame(ctx context.Context, c *Contract, _ Address, raw json.RawMessage) (any, []Log, error) {
	var args gameArgs
	if err := decodeArgs(raw, &args); err != nil {
		return nil, nil, err
	}

	g, err := c.engine.GetGame(ctx, model.GameID(args.GameID))
	if err != nil {
		return nil, nil, err
	}
	return newGameView(g), nil, nil
}

func getGameMoves(ctx context.Context, c *Contract, _ Address, raw json.RawMessage) (any, []Log, error) {
	var args gameArgs
	if err := decodeArgs(raw, &args); err != nil {
		return nil, nil, err
	}

	moves, err := c.engine.GetGameMoves(ctx, model.GameID(args.GameID))
	if err != nil {
		return nil, nil, err
	}

	views := make([]MoveView, len(moves))
	for i, m := range moves {
		views[i] = MoveView{
			CardIndex1: m.CardIndex1,
			CardIndex2: m.CardIndex2,
			IsMatch:    m.IsMatch,
			Timestamp:  m.Timestamp.Unix(),
		}
	}
	return views, nil, nil
}

func getPlayerGames(ctx context.Context, c *Contract, from Address, raw json.RawMessage) (any, []Log, error) {
	var args playerArgs
	if err := decodeArgs(raw, &args); err != nil {
		return nil, nil, err
	}

	player := from
	if args.Player != "" {
		addr, err := ParseAddress(args.Player)
		if err != nil {
			return nil, nil, revert(ReasonInvalidArguments, err)
		}
		player = addr
	}

	ids, err := c.engine.GetPlayerGames(ctx, player.PlayerID())
	if err != nil {
		return nil, nil, err
	}

	out := make([]uint64, len(ids))
	for i, id := range ids {
		out[i] = uint64(id)
	}
	return out, nil, nil
}

func getTotalGames(ctx context.Context, c *Contract, _ Address, raw json.RawMessage) (any, []Log, error) {
	if err := decodeArgs(raw, &struct{}{}); err != nil {
		return nil, nil, err
	}
	total, err := c.engine.GetTotalGames(ctx)
	if err != nil {
		return nil, nil, err
	}
	return total, nil, nil
}

func isGameActive(ctx context.Context, c *Contract, _ Address, raw json.RawMessage) (any, []Log, error) {
	var args gameArgs
	if err := decodeArgs(raw, &args); err != nil {
		return nil, nil, err
	}
	active, err := c.engine.IsGameActive(ctx, model.GameID(args.GameID))
	if err != nil {
		return nil, nil, err
	}
	return active, nil, nil
}

func getGameDuration(ctx context.Context, c *Contract, _ Address, raw json.RawMessage) (any, []Log, error) {
	var args gameArgs
	if err := decodeArgs(raw, &args); err != nil {
		return nil, nil, err
	}
	d, err := c.engine.GetGameDuration(ctx, model.GameID(args.GameID))
	if err != nil {
		return nil, nil, err
	}
	return durationSeconds(d), nil, nil
}
