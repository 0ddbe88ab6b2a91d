package board

import (
	"log/slog"

	"github.com/mcoot/memorygame-go/internal/dependencies/random"
	"github.com/mcoot/memorygame-go/internal/model"
)

// Service deals card layouts for games
type Service struct {
	random random.Random
	logger *slog.Logger
}

// New creates a new board Service
func New(random random.Random, logger *slog.Logger) *Service {
	return &Service{
		random: random,
		logger: logger,
	}
}

// Deal builds a shuffled layout for the game's grid. Every pair value in
// [0, TotalPairs) appears exactly twice.
func (s *Service) Deal(game *model.Game) *model.Board {
	cards := make([]int, 0, game.CardCount())
	for v := 0; v < game.TotalPairs; v++ {
		cards = append(cards, v, v)
	}

	s.random.Shuffle(len(cards), func(i, j int) {
		cards[i], cards[j] = cards[j], cards[i]
	})

	s.logger.Debug("board dealt",
		slog.String("game_id", game.ID.String()),
		slog.Int("cards", len(cards)),
	)

	return model.NewBoard(game.ID, game.GridSize, cards)
}

// ValidateLayout checks that a board holds every pair value exactly twice
func ValidateLayout(board *model.Board) bool {
	if board.GridSize*board.GridSize != len(board.Cards) || len(board.Cards)%2 != 0 {
		return false
	}
	counts := make(map[int]int, len(board.Cards)/2)
	for _, v := range board.Cards {
		if v < 0 || v >= len(board.Cards)/2 {
			return false
		}
		counts[v]++
	}
	for _, c := range counts {
		if c != 2 {
			return false
		}
	}
	return len(counts) == len(board.Cards)/2
}
