package history

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/mcoot/memorygame-go/internal/dependencies/clock"
	"github.com/mcoot/memorygame-go/internal/model"
	"github.com/mcoot/memorygame-go/internal/storage"
)

// Service stores and lists finished-game summaries
type Service struct {
	store  storage.SummaryStore
	clock  clock.Clock
	logger *slog.Logger
}

// New creates a new history Service
func New(store storage.SummaryStore, clock clock.Clock, logger *slog.Logger) *Service {
	return &Service{
		store:  store,
		clock:  clock,
		logger: logger.With(slog.String("component", "history-service")),
	}
}

// Save validates and stores a summary record
func (s *Service) Save(ctx context.Context, input model.SummaryInput) (*model.GameSummary, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	difficulty, err := model.ParseDifficulty(input.Difficulty)
	if err != nil {
		return nil, err
	}

	failed := 0
	if input.Failed != nil {
		failed = *input.Failed
	}

	summary := &model.GameSummary{
		ID:         uuid.NewString(),
		UserID:     input.UserID,
		GameDate:   input.GameDate.UTC(),
		Failed:     failed,
		Difficulty: difficulty,
		Completed:  *input.Completed,
		TimeTaken:  *input.TimeTaken,
		CreatedAt:  s.clock.Now(),
	}

	if err := s.store.SaveSummary(ctx, summary); err != nil {
		s.logger.Error("failed to save summary",
			slog.String("user_id", summary.UserID),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	s.logger.Info("summary saved",
		slog.String("summary_id", summary.ID),
		slog.String("user_id", summary.UserID),
		slog.String("difficulty", difficulty.String()),
	)

	return summary, nil
}

// ListForPlayer returns the user's most recent summaries, newest first.
// A non-zero difficulty keeps only records of that difficulty.
func (s *Service) ListForPlayer(ctx context.Context, userID string, difficulty model.Difficulty) ([]*model.GameSummary, error) {
	summaries, err := s.store.ListSummariesForPlayer(ctx, userID, model.PlayerHistoryLimit)
	if err != nil {
		return nil, err
	}
	return FilterByDifficulty(summaries, difficulty), nil
}

// ListAll returns the most recent summaries across all users, newest first
func (s *Service) ListAll(ctx context.Context) ([]*model.GameSummary, error) {
	return s.store.ListSummaries(ctx, model.GlobalHistoryLimit)
}

// Stats summarizes the user's recent history
func (s *Service) Stats(ctx context.Context, userID string, difficulty model.Difficulty) (model.SummaryStats, error) {
	summaries, err := s.ListForPlayer(ctx, userID, difficulty)
	if err != nil {
		return model.SummaryStats{}, err
	}
	return Summarize(summaries), nil
}

// FilterByDifficulty keeps records of the given difficulty; 0 keeps everything
func FilterByDifficulty(summaries []*model.GameSummary, difficulty model.Difficulty) []*model.GameSummary {
	if difficulty == 0 {
		return summaries
	}
	out := make([]*model.GameSummary, 0, len(summaries))
	for _, sum := range summaries {
		if sum.Difficulty == difficulty {
			out = append(out, sum)
		}
	}
	return out
}

// Summarize computes the success rate and average completion time of a set
// of records. A record counts as completed when Completed > 0.
func Summarize(summaries []*model.GameSummary) model.SummaryStats {
	stats := model.SummaryStats{Games: len(summaries)}
	if len(summaries) == 0 {
		return stats
	}

	totalTime := 0
	for _, sum := range summaries {
		if sum.Completed > 0 {
			stats.Completed++
			totalTime += sum.TimeTaken
		}
	}

	stats.SuccessRate = int(math.Round(float64(stats.Completed) / float64(stats.Games) * 100))
	if stats.Completed > 0 {
		stats.AverageTimeSec = int(math.Round(float64(totalTime) / float64(stats.Completed)))
	}
	return stats
}

// InputFromGame builds a summary input for a terminal engine game
func InputFromGame(game *model.Game, now time.Time) model.SummaryInput {
	date := game.EndTime
	if date.IsZero() {
		date = now
	}
	completed := 0
	if game.IsCompleted {
		completed = 1
	}
	failed := game.WrongAttempts
	timeTaken := int(game.Duration(now).Round(time.Second) / time.Second)

	return model.SummaryInput{
		UserID:     string(game.Player),
		GameDate:   &date,
		Failed:     &failed,
		Difficulty: game.Difficulty.String(),
		Completed:  &completed,
		TimeTaken:  &timeTaken,
	}
}

func validateInput(input model.SummaryInput) error {
	switch {
	case input.UserID == "":
		return missing("userID")
	case input.GameDate == nil || input.GameDate.IsZero():
		return missing("gameDate")
	case input.Difficulty == "":
		return missing("difficulty")
	case input.Completed == nil:
		return missing("completed")
	case input.TimeTaken == nil:
		return missing("timeTaken")
	}
	return nil
}

func missing(field string) error {
	return fmt.Errorf("%w: %s", model.ErrMissingRequiredField, field)
}
