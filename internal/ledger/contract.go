package ledger

import (
	"bytes"
	"context"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/mcoot/memorygame-go/internal/model"
	"github.com/mcoot/memorygame-go/internal/services/game"
)

// Engine is the game lifecycle the contract exposes
type Engine interface {
	CreateGame(ctx context.Context, player model.PlayerID, difficulty model.Difficulty) (*model.Game, error)
	PlayMove(ctx context.Context, gameID model.GameID, caller model.PlayerID, cardIndex1, cardIndex2 int, isMatch bool) (*game.MoveResult, error)
	AbandonGame(ctx context.Context, gameID model.GameID, caller model.PlayerID) error
	GetGame(ctx context.Context, gameID model.GameID) (*model.Game, error)
	GetGameMoves(ctx context.Context, gameID model.GameID) ([]model.Move, error)
	GetPlayerGames(ctx context.Context, player model.PlayerID) ([]model.GameID, error)
	GetTotalGames(ctx context.Context) (int, error)
	IsGameActive(ctx context.Context, gameID model.GameID) (bool, error)
	GetGameDuration(ctx context.Context, gameID model.GameID) (time.Duration, error)
}

// method executes one contract entry point, returning its result and logs
type method func(ctx context.Context, c *Contract, from Address, args json.RawMessage) (any, []Log, error)

// Contract exposes the game engine as a contract-style call surface. Calls
// are executed one at a time; a reverted call emits no logs.
type Contract struct {
	engine  Engine
	logger  *slog.Logger
	methods map[string]method

	mu    sync.Mutex
	nonce uint64
}

// New creates a new Contract over the engine
func New(engine Engine, logger *slog.Logger) *Contract {
	return &Contract{
		engine: engine,
		logger: logger.With(slog.String("component", "ledger")),
		methods: map[string]method{
			"startGame":       startGame,
			"validateMove":    validateMove,
			"abandonGame":     abandonGame,
			"getGame":         getGame,
			"getGameMoves":    getGameMoves,
			"getPlayerGames":  getPlayerGames,
			"getTotalGames":   getTotalGames,
			"isGameActive":    isGameActive,
			"getGameDuration": getGameDuration,
		},
	}
}

// Call executes a transaction and returns its receipt
func (c *Contract) Call(ctx context.Context, tx Tx) *Receipt {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.nonce++
	receipt := &Receipt{
		TxHash: txHash(tx, c.nonce),
		Nonce:  c.nonce,
		From:   tx.From.Hex(),
		Method: tx.Method,
		Logs:   []Log{},
	}

	m, ok := c.methods[tx.Method]
	if !ok {
		return c.reverted(receipt, revert(ReasonUnknownMethod, nil))
	}

	result, logs, err := m(ctx, c, tx.From, tx.Args)
	if err != nil {
		return c.reverted(receipt, err)
	}

	data, err := json.Marshal(result)
	if err != nil {
		return c.reverted(receipt, err)
	}

	receipt.Status = StatusSuccess
	receipt.Result = data
	if logs != nil {
		receipt.Logs = logs
	}

	c.logger.Info("ledger call",
		slog.String("tx_hash", receipt.TxHash),
		slog.String("method", tx.Method),
		slog.String("from", receipt.From),
		slog.Int("logs", len(receipt.Logs)),
	)
	return receipt
}

// Methods returns the supported method names in alphabetical order
func (c *Contract) Methods() []string {
	names := make([]string, 0, len(c.methods))
	for name := range c.methods {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (c *Contract) reverted(receipt *Receipt, err error) *Receipt {
	receipt.Status = StatusReverted
	receipt.RevertReason = revertReason(err)

	level := slog.LevelInfo
	if receipt.RevertReason == ReasonInternal {
		level = slog.LevelError
	}
	c.logger.Log(context.Background(), level, "ledger call reverted",
		slog.String("tx_hash", receipt.TxHash),
		slog.String("method", receipt.Method),
		slog.String("reason", receipt.RevertReason),
		slog.String("error", err.Error()),
	)
	return receipt
}

// txHash is Keccak-256 over the sender, nonce, method and arguments
func txHash(tx Tx, nonce uint64) string {
	var n [8]byte
	binary.BigEndian.PutUint64(n[:], nonce)
	return "0x" + hex.EncodeToString(keccak256(tx.From[:], n[:], []byte(tx.Method), tx.Args))
}

// decodeArgs strictly decodes a JSON object; empty input decodes to the zero value
func decodeArgs(raw json.RawMessage, v any) error {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return revert(ReasonInvalidArguments, err)
	}
	return nil
}
