package bot

import (
	"context"
	"errors"
	"log/slog"

	"github.com/mcoot/memorygame-go/internal/model"
	"github.com/mcoot/memorygame-go/internal/services/board"
)

// MaxBotIterations is a safety limit on flips per Play call
const MaxBotIterations = 10000

// ErrIterationLimit is returned when a session is not finished within MaxBotIterations flips
var ErrIterationLimit = errors.New("bot iteration limit reached")

// ActionType represents the type of action a bot took
type ActionType string

const (
	ActionFlip         ActionType = "flip"
	ActionMatch        ActionType = "match"
	ActionMismatch     ActionType = "mismatch"
	ActionGameComplete ActionType = "game_complete"
)

// Action represents a single step taken by a bot during Play
type Action struct {
	Type  ActionType
	Index int
	Value int
	Move  *model.Move
}

// Service plays sessions to completion with a strategy
type Service struct {
	logger *slog.Logger
}

// NewService creates a new bot Service
func NewService(logger *slog.Logger) *Service {
	return &Service{
		logger: logger.With(slog.String("component", "bot-service")),
	}
}

// Play flips cards chosen by the strategy until the session is complete.
// It returns every action taken, including those before an error.
func (s *Service) Play(ctx context.Context, session *board.Session, strategy Strategy) ([]Action, error) {
	var actions []Action

	for range MaxBotIterations {
		if session.IsComplete() {
			return actions, nil
		}
		if err := ctx.Err(); err != nil {
			return actions, err
		}

		idx := strategy.ChooseCard(session)
		res, err := session.Flip(ctx, idx)
		if err != nil {
			return actions, err
		}

		strategy.Observe(res.Index, res.Value)
		s.logger.Debug("bot flipped card",
			slog.String("game_id", session.GameID().String()),
			slog.Int("row", res.Position.Row),
			slog.Int("col", res.Position.Col),
		)
		actions = append(actions, Action{Type: ActionFlip, Index: res.Index, Value: res.Value})

		if res.Move == nil {
			continue
		}

		outcome := ActionMismatch
		if res.Matched {
			outcome = ActionMatch
		}
		actions = append(actions, Action{Type: outcome, Index: res.Index, Value: res.Value, Move: res.Move})

		if res.Completed {
			actions = append(actions, Action{Type: ActionGameComplete})
			s.logger.Info("bot completed game",
				slog.String("game_id", session.GameID().String()),
				slog.Int("flips", countFlips(actions)),
			)
			return actions, nil
		}
	}

	if session.IsComplete() {
		return actions, nil
	}
	return actions, ErrIterationLimit
}

// countFlips returns the number of flip actions
func countFlips(actions []Action) int {
	n := 0
	for _, a := range actions {
		if a.Type == ActionFlip {
			n++
		}
	}
	return n
}
