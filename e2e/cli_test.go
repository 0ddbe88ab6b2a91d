package e2e_test

import (
	"bufio"
	"context"
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/memorygame-go/internal/api"
	"github.com/mcoot/memorygame-go/internal/factory"
)

// cliRunner manages CLI binary execution
type cliRunner struct {
	binaryPath string
	serverURL  string
	playerFile string
}

func newCLIRunner(t *testing.T, serverURL string) *cliRunner {
	t.Helper()

	// Find project root (where go.mod is)
	projectRoot := findProjectRoot(t)

	// Build the CLI binary
	binaryPath := filepath.Join(t.TempDir(), "memgame-test")
	cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/memgame")
	cmd.Dir = projectRoot
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "failed to build CLI: %s", string(output))

	return &cliRunner{
		binaryPath: binaryPath,
		serverURL:  serverURL,
		playerFile: filepath.Join(t.TempDir(), "player"),
	}
}

func (r *cliRunner) args(args []string) []string {
	return append([]string{
		"--server", r.serverURL,
		"--player-file", r.playerFile,
		"--output", "json",
	}, args...)
}

func (r *cliRunner) command(ctx context.Context, args ...string) *exec.Cmd {
	cmd := exec.CommandContext(ctx, r.binaryPath, r.args(args)...)
	cmd.Env = append(os.Environ(), "MEMGAME_PLAYER=")
	return cmd
}

func (r *cliRunner) run(args ...string) (string, error) {
	output, err := r.command(context.Background(), args...).CombinedOutput()
	return string(output), err
}

func (r *cliRunner) runAs(player string, args ...string) (string, error) {
	return r.run(append([]string{"--player", player}, args...)...)
}

func findProjectRoot(t *testing.T) string {
	t.Helper()

	dir, err := os.Getwd()
	require.NoError(t, err)

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatal("could not find project root (go.mod)")
		}
		dir = parent
	}
}

// testServer manages a real HTTP server for e2e tests
type testServer struct {
	addr     string
	shutdown func()
}

func startTestServer(t *testing.T) *testServer {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	app, err := factory.New(factory.Config{Logger: logger})
	require.NoError(t, err)

	router := api.NewRouter(api.RouterConfig{
		Logger:         logger,
		GameController: app.GameController,
		HistoryService: app.HistoryService,
		Contract:       app.Contract,
		HubManager:     app.HubManager,
	})

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	server := api.NewServer(router, api.DefaultServerConfig(), logger)
	go func() {
		if err := server.Serve(listener); err != nil {
			t.Logf("server error: %v", err)
		}
	}()

	serverURL := "http://" + listener.Addr().String()
	waitForServer(t, serverURL+"/api/v1/health")

	return &testServer{
		addr: serverURL,
		shutdown: func() {
			app.HubManager.Close()
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = server.Shutdown(ctx)
			_ = app.Close()
		},
	}
}

func waitForServer(t *testing.T, url string) {
	t.Helper()

	client := &http.Client{Timeout: 100 * time.Millisecond}
	deadline := time.Now().Add(5 * time.Second)

	for time.Now().Before(deadline) {
		resp, err := client.Get(url)
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}
		time.Sleep(50 * time.Millisecond)
	}

	t.Fatal("server did not become ready in time")
}

// Response types for JSON parsing
type healthResponse struct {
	Status string `json:"status"`
}

type gameResponse struct {
	ID            uint64     `json:"id"`
	Player        string     `json:"player"`
	Difficulty    string     `json:"difficulty"`
	GridSize      int        `json:"grid_size"`
	TotalPairs    int        `json:"total_pairs"`
	FoundPairs    int        `json:"found_pairs"`
	Attempts      int        `json:"attempts"`
	WrongAttempts int        `json:"wrong_attempts"`
	EndTime       *time.Time `json:"end_time"`
	IsActive      bool       `json:"is_active"`
	IsCompleted   bool       `json:"is_completed"`
	Status        string     `json:"status"`
}

type moveResultResponse struct {
	Move struct {
		CardIndex1 int  `json:"card_index_1"`
		CardIndex2 int  `json:"card_index_2"`
		IsMatch    bool `json:"is_match"`
	} `json:"move"`
	Game gameResponse `json:"game"`
}

type autoplayResponse struct {
	Game  gameResponse `json:"game"`
	Flips int          `json:"flips"`
	Saved bool         `json:"saved"`
}

type statsResponse struct {
	Success bool `json:"success"`
	Data    struct {
		Games       int `json:"games"`
		Completed   int `json:"completed"`
		SuccessRate int `json:"successRate"`
	} `json:"data"`
}

type receiptResponse struct {
	From         string `json:"from"`
	Status       string `json:"status"`
	RevertReason string `json:"revertReason"`
	Logs         []struct {
		Event string `json:"event"`
	} `json:"logs"`
}

type identityResponse struct {
	Player  string `json:"player"`
	Address string `json:"address"`
}

type eventLine struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// Tests

func TestCLI_HealthCheck(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	output, err := cli.run("health")
	require.NoError(t, err, "output: %s", output)

	var resp healthResponse
	require.NoError(t, json.Unmarshal([]byte(output), &resp))
	assert.Equal(t, "ok", resp.Status)
}

func TestCLI_PlayerCommands(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	// No identity yet
	_, err := cli.run("player", "whoami")
	require.Error(t, err)

	output, err := cli.run("player", "use", "alice")
	require.NoError(t, err, "output: %s", output)

	// Identity is remembered in the player file
	output, err = cli.run("player", "whoami")
	require.NoError(t, err, "output: %s", output)

	var id identityResponse
	require.NoError(t, json.Unmarshal([]byte(output), &id))
	assert.Equal(t, "alice", id.Player)
	assert.True(t, strings.HasPrefix(id.Address, "0x"))
	assert.Len(t, id.Address, 42)
}

func TestCLI_GameCommands(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	// Start a game
	output, err := cli.runAs("alice", "game", "start", "easy")
	require.NoError(t, err, "output: %s", output)

	var game gameResponse
	require.NoError(t, json.Unmarshal([]byte(output), &game))
	assert.Equal(t, uint64(1), game.ID)
	assert.Equal(t, "Easy", game.Difficulty)
	assert.Equal(t, 16, game.GridSize*game.GridSize)
	assert.True(t, game.IsActive)

	// A miss and a match
	output, err = cli.runAs("alice", "game", "move", "1", "0", "1")
	require.NoError(t, err, "output: %s", output)

	output, err = cli.runAs("alice", "game", "move", "1", "2", "3", "--match")
	require.NoError(t, err, "output: %s", output)

	var result moveResultResponse
	require.NoError(t, json.Unmarshal([]byte(output), &result))
	assert.True(t, result.Move.IsMatch)
	assert.Equal(t, 1, result.Game.FoundPairs)
	assert.Equal(t, 2, result.Game.Attempts)
	assert.Equal(t, 1, result.Game.WrongAttempts)

	// Invalid moves are rejected
	output, err = cli.runAs("alice", "game", "move", "1", "4", "4")
	require.Error(t, err)
	assert.Contains(t, output, "DUPLICATE_CARD_INDEX")

	output, err = cli.runAs("bob", "game", "move", "1", "4", "5")
	require.Error(t, err)
	assert.Contains(t, output, "NOT_GAME_OWNER")

	// Abandon ends the game
	output, err = cli.runAs("alice", "game", "abandon", "1")
	require.NoError(t, err, "output: %s", output)

	require.NoError(t, json.Unmarshal([]byte(output), &game))
	assert.Equal(t, "abandoned", game.Status)
	assert.NotNil(t, game.EndTime)

	output, err = cli.runAs("alice", "game", "move", "1", "4", "5")
	require.Error(t, err)
	assert.Contains(t, output, "GAME_NOT_ACTIVE")
}

func TestCLI_AutoplayAndHistory(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	output, err := cli.runAs("alice", "game", "autoplay", "easy", "--save")
	require.NoError(t, err, "output: %s", output)

	var auto autoplayResponse
	require.NoError(t, json.Unmarshal([]byte(output), &auto))
	assert.True(t, auto.Game.IsCompleted)
	assert.Equal(t, 8, auto.Game.FoundPairs)
	assert.True(t, auto.Saved)

	output, err = cli.runAs("alice", "history", "save", "--difficulty", "Hard", "--date", "2024-01-01", "--time", "300", "--failed", "12")
	require.NoError(t, err, "output: %s", output)

	output, err = cli.run("history", "stats", "alice")
	require.NoError(t, err, "output: %s", output)

	var stats statsResponse
	require.NoError(t, json.Unmarshal([]byte(output), &stats))
	assert.True(t, stats.Success)
	assert.Equal(t, 2, stats.Data.Games)
	assert.Equal(t, 1, stats.Data.Completed)
	assert.Equal(t, 50, stats.Data.SuccessRate)
}

func TestCLI_LedgerCall(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	output, err := cli.runAs("alice", "ledger", "call", "startGame", `{"difficulty":3}`)
	require.NoError(t, err, "output: %s", output)

	var receipt receiptResponse
	require.NoError(t, json.Unmarshal([]byte(output), &receipt))
	assert.Equal(t, "success", receipt.Status)
	require.Len(t, receipt.Logs, 1)
	assert.Equal(t, "GameStarted", receipt.Logs[0].Event)

	// Reverted calls print the receipt and exit non-zero
	output, err = cli.runAs("bob", "ledger", "call", "abandonGame", `{"gameId":1}`)
	require.Error(t, err)
	assert.Contains(t, output, "Not the game player")
}

func TestCLI_EventsStream(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stream := cli.command(ctx, "--player", "alice", "events", "--json")
	stdout, err := stream.StdoutPipe()
	require.NoError(t, err)
	require.NoError(t, stream.Start())
	defer func() {
		cancel()
		_ = stream.Wait()
	}()

	lines := make(chan eventLine, 16)
	go func() {
		scanner := bufio.NewScanner(stdout)
		for scanner.Scan() {
			var ev eventLine
			if json.Unmarshal(scanner.Bytes(), &ev) == nil {
				lines <- ev
			}
		}
		close(lines)
	}()

	next := func() eventLine {
		select {
		case ev, ok := <-lines:
			require.True(t, ok, "event stream closed")
			return ev
		case <-time.After(5 * time.Second):
			t.Fatal("timed out waiting for event")
			return eventLine{}
		}
	}

	assert.Equal(t, "connected", next().Event)

	output, err := cli.runAs("alice", "game", "start", "easy")
	require.NoError(t, err, "output: %s", output)
	assert.Equal(t, "game_started", next().Event)

	output, err = cli.runAs("alice", "game", "move", "1", "0", "1", "--match")
	require.NoError(t, err, "output: %s", output)
	moved := next()
	assert.Equal(t, "move_validated", moved.Event)
	assert.Contains(t, string(moved.Data), `"is_match":true`)

	// Other players' games are not delivered
	output, err = cli.runAs("bob", "game", "start", "easy")
	require.NoError(t, err, "output: %s", output)

	output, err = cli.runAs("alice", "game", "abandon", "1")
	require.NoError(t, err, "output: %s", output)
	assert.Equal(t, "game_abandoned", next().Event)
}
