package board

import (
	"context"

	"github.com/mcoot/memorygame-go/internal/model"
)

// MoveValidator records a completed turn with the game engine
type MoveValidator interface {
	ValidateMove(ctx context.Context, gameID model.GameID, caller model.PlayerID, cardIndex1, cardIndex2 int, isMatch bool) (*model.Move, error)
}

// FlipResult describes the outcome of turning one card face up
type FlipResult struct {
	Index    int
	Position model.Position
	Value    int

	// Set on the second flip of a turn
	Move      *model.Move
	Matched   bool
	Completed bool
}

// Session is a player's local view of a game: the dealt layout plus which
// cards are matched or currently face up. The second flip of each turn is
// reported to the engine with isMatch derived from the layout.
type Session struct {
	gameID    model.GameID
	player    model.PlayerID
	board     *model.Board
	validator MoveValidator

	matched []bool
	pending int // index of the face-up card awaiting its partner, -1 if none
	found   int
}

// NewSession starts a session over a dealt board
func NewSession(game *model.Game, board *model.Board, validator MoveValidator) *Session {
	return &Session{
		gameID:    game.ID,
		player:    game.Player,
		board:     board,
		validator: validator,
		matched:   make([]bool, board.CardCount()),
		pending:   -1,
	}
}

// Flip turns a card face up. On the second card of a turn the move is sent
// to the engine; mismatched cards turn back face down.
func (s *Session) Flip(ctx context.Context, idx int) (*FlipResult, error) {
	if !s.board.IsValidIndex(idx) {
		return nil, model.ErrCardIndexOutOfBounds
	}
	if s.matched[idx] {
		return nil, model.ErrCardAlreadyMatched
	}
	if idx == s.pending {
		return nil, model.ErrCardFaceUp
	}

	result := &FlipResult{Index: idx, Position: s.board.PositionOf(idx), Value: s.board.Value(idx)}

	if s.pending < 0 {
		s.pending = idx
		return result, nil
	}

	first := s.pending
	isMatch := s.board.IsPair(first, idx)

	// A rejected turn leaves the first card face up
	move, err := s.validator.ValidateMove(ctx, s.gameID, s.player, first, idx, isMatch)
	if err != nil {
		return nil, err
	}
	s.pending = -1

	if isMatch {
		s.matched[first] = true
		s.matched[idx] = true
		s.found++
	}

	result.Move = move
	result.Matched = isMatch
	result.Completed = s.IsComplete()
	return result, nil
}

// GameID returns the engine game this session plays
func (s *Session) GameID() model.GameID {
	return s.gameID
}

// Board returns the dealt layout
func (s *Session) Board() *model.Board {
	return s.board
}

// IsMatched returns true if the card at idx has been paired
func (s *Session) IsMatched(idx int) bool {
	return s.board.IsValidIndex(idx) && s.matched[idx]
}

// IsFaceUp returns true for matched cards and the pending card
func (s *Session) IsFaceUp(idx int) bool {
	return s.IsMatched(idx) || (idx >= 0 && idx == s.pending)
}

// Pending returns the face-up card waiting for its partner
func (s *Session) Pending() (int, bool) {
	return s.pending, s.pending >= 0
}

// FoundPairs returns the number of pairs matched in this session
func (s *Session) FoundPairs() int {
	return s.found
}

// IsComplete returns true once every card has been matched
func (s *Session) IsComplete() bool {
	return s.found*2 == s.board.CardCount()
}

// Selectable returns the indices that can be flipped next, in order
func (s *Session) Selectable() []int {
	out := make([]int, 0, s.board.CardCount())
	for i := range s.matched {
		if !s.matched[i] && i != s.pending {
			out = append(out, i)
		}
	}
	return out
}
