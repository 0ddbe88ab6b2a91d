package model

// Position identifies a cell on the grid
type Position struct {
	Row int // 0-indexed from top
	Col int // 0-indexed from left
}

// Board is a dealt card layout for a game. Cards[i] holds the pair value of
// the card at index i; each value in [0, TotalPairs) appears exactly twice.
type Board struct {
	GameID   GameID
	GridSize int   // Grid dimension (e.g., 4 for 4x4)
	Cards    []int // Row-major: index = row*GridSize + col
}

// NewBoard creates a board from a pair-value layout
func NewBoard(gameID GameID, gridSize int, cards []int) *Board {
	return &Board{
		GameID:   gameID,
		GridSize: gridSize,
		Cards:    cards,
	}
}

// CardCount returns the number of cards on the board
func (b *Board) CardCount() int {
	return len(b.Cards)
}

// IsValidIndex returns true if the index is within bounds
func (b *Board) IsValidIndex(idx int) bool {
	return idx >= 0 && idx < len(b.Cards)
}

// Value returns the pair value at idx, or -1 if out of bounds
func (b *Board) Value(idx int) int {
	if !b.IsValidIndex(idx) {
		return -1
	}
	return b.Cards[idx]
}

// IsPair returns true if two distinct in-bounds indices hold the same value
func (b *Board) IsPair(a, c int) bool {
	if a == c || !b.IsValidIndex(a) || !b.IsValidIndex(c) {
		return false
	}
	return b.Cards[a] == b.Cards[c]
}

// PositionOf converts a card index into a grid position
func (b *Board) PositionOf(idx int) Position {
	return Position{Row: idx / b.GridSize, Col: idx % b.GridSize}
}

// Clone returns a deep copy of the board
func (b *Board) Clone() *Board {
	cards := make([]int, len(b.Cards))
	copy(cards, b.Cards)
	return NewBoard(b.GameID, b.GridSize, cards)
}
