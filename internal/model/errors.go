package model

import (
	"errors"
	"fmt"
)

// Common errors used across the application
var (
	// Engine errors
	ErrInvalidDifficulty    = errors.New("invalid difficulty")
	ErrGameNotFound         = errors.New("game not found")
	ErrGameNotActive        = errors.New("game is not active")
	ErrNotGameOwner         = errors.New("caller is not the game player")
	ErrDuplicateCardIndex   = errors.New("cannot select the same card twice")
	ErrCardIndexOutOfBounds = errors.New("card index out of bounds")

	// Both wrap ErrCardIndexOutOfBounds and name the offending card
	ErrCard1OutOfBounds = fmt.Errorf("%w: card 1", ErrCardIndexOutOfBounds)
	ErrCard2OutOfBounds = fmt.Errorf("%w: card 2", ErrCardIndexOutOfBounds)

	// Summary record errors
	ErrMissingRequiredField = errors.New("missing required field")

	// Board session errors
	ErrCardAlreadyMatched = errors.New("card has already been matched")
	ErrCardFaceUp         = errors.New("card is already face up")
)
