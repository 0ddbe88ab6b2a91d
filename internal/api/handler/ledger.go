package handler

import (
	"encoding/json"
	"net/http"

	"github.com/mcoot/memorygame-go/internal/api/middleware"
	"github.com/mcoot/memorygame-go/internal/api/request"
	"github.com/mcoot/memorygame-go/internal/api/response"
	"github.com/mcoot/memorygame-go/internal/ledger"
	"github.com/mcoot/memorygame-go/internal/model"
)

// LedgerHandler exposes the contract-style call surface over HTTP
type LedgerHandler struct {
	contract *ledger.Contract
}

// NewLedgerHandler creates a new ledger handler
func NewLedgerHandler(contract *ledger.Contract) *LedgerHandler {
	return &LedgerHandler{contract: contract}
}

// Call handles POST /api/v1/ledger/tx. A reverted call still returns 200;
// the receipt's status carries the outcome.
func (h *LedgerHandler) Call(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	var req request.LedgerTxRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("Invalid request body"))
		return
	}
	if req.Method == "" {
		WriteError(w, NewInvalidRequestError("method is required"))
		return
	}

	receipt := h.contract.Call(r.Context(), ledger.Tx{
		From:   SenderAddress(player),
		Method: req.Method,
		Args:   req.Args,
	})

	response.JSON(w, http.StatusOK, receipt)
}

// Methods handles GET /api/v1/ledger/methods
func (h *LedgerHandler) Methods(w http.ResponseWriter, _ *http.Request) {
	response.JSON(w, http.StatusOK, response.Methods{Methods: h.contract.Methods()})
}

// SenderAddress maps a caller identity to a ledger address. Identities that
// already are addresses are used as-is.
func SenderAddress(player model.PlayerID) ledger.Address {
	if addr, err := ledger.ParseAddress(string(player)); err == nil {
		return addr
	}
	return ledger.AddressFor(player)
}
