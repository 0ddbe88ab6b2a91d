package factory

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/mcoot/memorygame-go/internal/api/sse"
	"github.com/mcoot/memorygame-go/internal/dependencies/clock"
	"github.com/mcoot/memorygame-go/internal/dependencies/random"
	"github.com/mcoot/memorygame-go/internal/ledger"
	"github.com/mcoot/memorygame-go/internal/services/board"
	"github.com/mcoot/memorygame-go/internal/services/bot"
	"github.com/mcoot/memorygame-go/internal/services/game"
	"github.com/mcoot/memorygame-go/internal/services/history"
	"github.com/mcoot/memorygame-go/internal/storage"
	"github.com/mcoot/memorygame-go/internal/storage/memory"
	redisstorage "github.com/mcoot/memorygame-go/internal/storage/redis"
	"github.com/mcoot/memorygame-go/internal/storage/sqlite"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
	StorageTypeSQLite = "sqlite"
)

// DefaultSQLitePath is used when HistoryStore is sqlite and no path is set
const DefaultSQLitePath = "memgame.db"

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage
	History storage.SummaryStore

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Services
	BoardService   *board.Service
	BotService     *bot.Service
	GameController *game.Controller
	HistoryService *history.Service
	Contract       *ledger.Contract
	HubManager     *sse.HubManager

	closers []io.Closer
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the game storage backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// HistoryStore selects where summary records live ("memory", "redis" or "sqlite")
	// If empty or equal to StorageType, summaries share the game storage backend
	HistoryStore string
	// SQLitePath is the database file for the sqlite history store
	// If empty, defaults to DefaultSQLitePath
	SQLitePath string
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	var closers []io.Closer

	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	var store storage.Storage
	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
		closers = append(closers, redisStore)
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}

	summaries, closer, err := newSummaryStore(cfg, storageType, store)
	if err != nil {
		closeAll(closers)
		return nil, err
	}
	if closer != nil {
		closers = append(closers, closer)
	}

	app := newWithDependencies(store, summaries, clock.New(), random.New(), logger)
	app.closers = closers
	return app, nil
}

// newSummaryStore builds the summary backend independently of the game store.
// The returned closer is nil when the game store is reused.
func newSummaryStore(cfg Config, storageType string, store storage.Storage) (storage.SummaryStore, io.Closer, error) {
	historyStore := cfg.HistoryStore
	if historyStore == "" || historyStore == storageType {
		return store, nil, nil
	}

	switch historyStore {
	case StorageTypeMemory:
		return memory.New(), nil, nil
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, nil, errors.New("RedisConfig required when HistoryStore is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, nil, fmt.Errorf("open redis history store: %w", err)
		}
		return redisStore, redisStore, nil
	case StorageTypeSQLite:
		path := cfg.SQLitePath
		if path == "" {
			path = DefaultSQLitePath
		}
		sqliteStore, err := sqlite.New(path)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite history store: %w", err)
		}
		return sqliteStore, sqliteStore, nil
	default:
		return nil, nil, fmt.Errorf("invalid HistoryStore %q: must be empty, 'memory', 'redis' or 'sqlite'", historyStore)
	}
}

// newWithDependencies creates an App with the given dependencies (useful for testing).
// Extra publishers receive engine events alongside the SSE hubs.
func newWithDependencies(
	store storage.Storage,
	summaries storage.SummaryStore,
	clk clock.Clock,
	rnd random.Random,
	logger *slog.Logger,
	publishers ...game.Publisher,
) *App {
	hubManager := sse.NewHubManager(logger)
	publisher := append(game.MultiPublisher{hubManager}, publishers...)

	gameController := game.NewController(store, clk, publisher, logger)

	return &App{
		Storage:        store,
		History:        summaries,
		Clock:          clk,
		Random:         rnd,
		BoardService:   board.New(rnd, logger),
		BotService:     bot.NewService(logger),
		GameController: gameController,
		HistoryService: history.New(summaries, clk, logger),
		Contract:       ledger.New(gameController, logger),
		HubManager:     hubManager,
	}
}

// Close releases storage connections and disconnects event streams
func (a *App) Close() error {
	a.HubManager.Close()
	return closeAll(a.closers)
}

func closeAll(closers []io.Closer) error {
	var errs []error
	for _, c := range closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
