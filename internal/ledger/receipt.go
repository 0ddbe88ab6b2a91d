package ledger

import (
	"encoding/json"
	"errors"

	"github.com/mcoot/memorygame-go/internal/model"
)

// Status is the outcome of a call
type Status string

const (
	StatusSuccess  Status = "success"
	StatusReverted Status = "reverted"
)

// Revert reasons for calls that fail
const (
	ReasonInvalidDifficulty = "Invalid difficulty"
	ReasonGameNotFound      = "Game does not exist"
	ReasonGameNotActive     = "Game is not active"
	ReasonNotGameOwner      = "Not the game player"
	ReasonDuplicateCard     = "Cannot select the same card twice"
	ReasonCard1OutOfBounds  = "Card1 index out of bounds"
	ReasonCard2OutOfBounds  = "Card2 index out of bounds"
	ReasonUnknownMethod     = "Unknown method"
	ReasonInvalidArguments  = "Invalid arguments"
	ReasonInternal          = "Internal error"
)

// Tx is a call against the contract
type Tx struct {
	From   Address
	Method string
	Args   json.RawMessage
}

// Receipt is the result of executing a Tx
type Receipt struct {
	TxHash       string          `json:"txHash"`
	Nonce        uint64          `json:"nonce"`
	From         string          `json:"from"`
	Method       string          `json:"method"`
	Status       Status          `json:"status"`
	RevertReason string          `json:"revertReason,omitempty"`
	Logs         []Log           `json:"logs"`
	Result       json.RawMessage `json:"result,omitempty"`
}

// Succeeded returns true if the call did not revert
func (r *Receipt) Succeeded() bool {
	return r.Status == StatusSuccess
}

// revertError carries a revert reason out of a method handler
type revertError struct {
	reason string
	cause  error
}

func (e *revertError) Error() string { return e.reason }
func (e *revertError) Unwrap() error { return e.cause }

func revert(reason string, cause error) error {
	return &revertError{reason: reason, cause: cause}
}

// revertReason maps an engine error onto its revert message
func revertReason(err error) string {
	var re *revertError
	switch {
	case errors.As(err, &re):
		return re.reason
	case errors.Is(err, model.ErrInvalidDifficulty):
		return ReasonInvalidDifficulty
	case errors.Is(err, model.ErrGameNotFound):
		return ReasonGameNotFound
	case errors.Is(err, model.ErrGameNotActive):
		return ReasonGameNotActive
	case errors.Is(err, model.ErrNotGameOwner):
		return ReasonNotGameOwner
	case errors.Is(err, model.ErrDuplicateCardIndex):
		return ReasonDuplicateCard
	case errors.Is(err, model.ErrCard1OutOfBounds):
		return ReasonCard1OutOfBounds
	case errors.Is(err, model.ErrCard2OutOfBounds):
		return ReasonCard2OutOfBounds
	default:
		return ReasonInternal
	}
}
