package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/mcoot/memorygame-go/internal/api/request"
	"github.com/mcoot/memorygame-go/internal/api/response"
	"github.com/mcoot/memorygame-go/internal/dependencies/random"
	"github.com/mcoot/memorygame-go/internal/model"
	"github.com/mcoot/memorygame-go/internal/services/board"
	"github.com/mcoot/memorygame-go/internal/services/bot"
	"github.com/mcoot/memorygame-go/internal/services/history"
)

// AutoplayResult is the outcome of a bot-played game
type AutoplayResult struct {
	Game  response.Game `json:"game"`
	Flips int           `json:"flips"`
	Saved bool          `json:"saved"`
}

// remoteEngine reports moves to the server's game engine
type remoteEngine struct {
	client *Client
}

// ValidateMove implements board.MoveValidator. The caller identity is the client's.
func (e remoteEngine) ValidateMove(ctx context.Context, gameID model.GameID, _ model.PlayerID, cardIndex1, cardIndex2 int, isMatch bool) (*model.Move, error) {
	req := request.MoveRequest{CardIndex1: &cardIndex1, CardIndex2: &cardIndex2, IsMatch: &isMatch}
	var result response.MoveResult
	if err := e.client.DoContext(ctx, http.MethodPost, fmt.Sprintf("/api/v1/games/%d/moves", gameID), req, &result); err != nil {
		return nil, err
	}
	return &model.Move{
		GameID:     model.GameID(result.Move.GameID),
		CardIndex1: result.Move.CardIndex1,
		CardIndex2: result.Move.CardIndex2,
		IsMatch:    result.Move.IsMatch,
		Timestamp:  result.Move.Timestamp,
	}, nil
}

func newGameAutoplayCmd() *cobra.Command {
	var (
		strategyName string
		save         bool
	)

	cmd := &cobra.Command{
		Use:   "autoplay <difficulty>",
		Short: "Start a game and let a bot play it to completion",
		Long: `Starts a game on the server, deals a layout locally and lets a bot flip
cards until every pair is found. Each turn is reported to the server as a move.

Strategies:
  - random: flips random face-down cards
  - memory: remembers every revealed card and completes known pairs`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			difficulty, err := parseDifficultyArg(args[0])
			if err != nil {
				return err
			}
			if cfg.Player == "" {
				return errNoPlayer
			}

			result, err := autoplay(cmd.Context(), client, difficulty, strategyName, save, cliLogger(cmd))
			if err != nil {
				return err
			}

			output(cmd).Print(*result)
			return nil
		},
	}

	cmd.Flags().StringVar(&strategyName, "strategy", model.BotStrategyMemory, "Bot strategy: random, memory")
	cmd.Flags().BoolVar(&save, "save", false, "Save a summary record when the game ends")

	return cmd
}

// autoplay runs a full game against the server with a local bot
func autoplay(ctx context.Context, c *Client, difficulty model.Difficulty, strategyName string, save bool, logger *slog.Logger) (*AutoplayResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	rnd := random.New()
	strategy, err := bot.NewStrategy(strategyName, rnd)
	if err != nil {
		return nil, err
	}

	var created response.Game
	if err := c.DoContext(ctx, http.MethodPost, "/api/v1/games", map[string]int{"difficulty": int(difficulty)}, &created); err != nil {
		return nil, err
	}

	g := &model.Game{
		ID:         model.GameID(created.ID),
		Player:     model.PlayerID(created.Player),
		Difficulty: difficulty,
		GridSize:   created.GridSize,
		TotalPairs: created.TotalPairs,
	}
	layout := board.New(rnd, logger).Deal(g)
	session := board.NewSession(g, layout, remoteEngine{client: c})

	actions, err := bot.NewService(logger).Play(ctx, session, strategy)
	if err != nil {
		return nil, fmt.Errorf("game %d: %w", g.ID, err)
	}

	var final response.Game
	if err := c.DoContext(ctx, http.MethodGet, fmt.Sprintf("/api/v1/games/%d", g.ID), nil, &final); err != nil {
		return nil, err
	}

	result := &AutoplayResult{Game: final, Flips: countFlips(actions)}
	if save {
		if err := saveSummary(ctx, c, final); err != nil {
			return nil, fmt.Errorf("save summary: %w", err)
		}
		result.Saved = true
	}
	return result, nil
}

// saveSummary posts the finished game as a summary record
func saveSummary(ctx context.Context, c *Client, g response.Game) error {
	game := &model.Game{
		Player:        model.PlayerID(g.Player),
		Difficulty:    model.Difficulty(g.DifficultyLevel),
		WrongAttempts: g.WrongAttempts,
		StartTime:     g.StartTime,
		IsCompleted:   g.IsCompleted,
	}
	if g.EndTime != nil {
		game.EndTime = *g.EndTime
	}

	input := history.InputFromGame(game, time.Now().UTC())
	req := request.SaveSummaryRequest{
		UserID:     input.UserID,
		GameDate:   &request.Date{Time: *input.GameDate},
		Failed:     input.Failed,
		Difficulty: input.Difficulty,
		Completed:  input.Completed,
		TimeTaken:  input.TimeTaken,
	}
	return c.DoContext(ctx, http.MethodPost, "/api/v1/memory/save", req, nil)
}

func countFlips(actions []bot.Action) int {
	n := 0
	for _, a := range actions {
		if a.Type == bot.ActionFlip {
			n++
		}
	}
	return n
}

// cliLogger logs to stderr when --verbose is set
func cliLogger(cmd *cobra.Command) *slog.Logger {
	if !cfg.Verbose {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelDebug}))
}
