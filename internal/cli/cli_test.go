package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/memorygame-go/internal/api"
	"github.com/mcoot/memorygame-go/internal/api/response"
	"github.com/mcoot/memorygame-go/internal/factory"
	"github.com/mcoot/memorygame-go/internal/ledger"
	"github.com/mcoot/memorygame-go/internal/model"
	"github.com/mcoot/memorygame-go/internal/testutil"
)

type CLISuite struct {
	suite.Suite
	app    *factory.TestApp
	server *httptest.Server
}

func TestCLISuite(t *testing.T) {
	suite.Run(t, new(CLISuite))
}

func (s *CLISuite) SetupTest() {
	s.app = factory.NewTestApp()
	s.server = httptest.NewServer(api.NewRouter(api.RouterConfig{
		Logger:         testutil.NopLogger(),
		GameController: s.app.GameController,
		HistoryService: s.app.HistoryService,
		Contract:       s.app.Contract,
		HubManager:     s.app.HubManager,
	}))

	s.T().Setenv("MEMGAME_SERVER", s.server.URL)
	s.T().Setenv("MEMGAME_PLAYER", "")
	s.T().Setenv("MEMGAME_PLAYER_FILE", filepath.Join(s.T().TempDir(), "player"))
}

func (s *CLISuite) TearDownTest() {
	s.server.Close()
	_ = s.app.Close()
}

// run executes the CLI and returns stdout and the command error
func (s *CLISuite) run(args ...string) (string, error) {
	root := NewRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func (s *CLISuite) TestHealth() {
	out, err := s.run("health")
	s.Require().NoError(err)
	s.Contains(out, "Status: ok")
}

func (s *CLISuite) TestStartGetAndAbandon() {
	out, err := s.run("-p", "alice", "game", "start", "easy")
	s.Require().NoError(err)
	s.Contains(out, "Game: 1")
	s.Contains(out, "Difficulty: Easy (4x4, 8 pairs)")

	out, err = s.run("-p", "alice", "-o", "json", "game", "get", "1")
	s.Require().NoError(err)
	var g response.Game
	s.Require().NoError(json.Unmarshal([]byte(out), &g))
	s.Equal("alice", g.Player)
	s.True(g.IsActive)

	_, err = s.run("-p", "bob", "game", "abandon", "1")
	s.Require().Error(err)
	s.ErrorIs(err, model.ErrNotGameOwner)

	out, err = s.run("-p", "alice", "game", "abandon", "1")
	s.Require().NoError(err)
	s.Contains(out, "Game 1 abandoned")

	out, err = s.run("game", "active", "1")
	s.Require().NoError(err)
	s.Contains(out, "active: no")
}

func (s *CLISuite) TestMoveAndMoves() {
	_, err := s.run("-p", "alice", "game", "start", "1")
	s.Require().NoError(err)

	out, err := s.run("-p", "alice", "game", "move", "1", "0", "5")
	s.Require().NoError(err)
	s.Contains(out, "No match: cards 0 and 5")

	out, err = s.run("-p", "alice", "game", "move", "1", "2", "3", "--match")
	s.Require().NoError(err)
	s.Contains(out, "Pairs found: 1/8")

	_, err = s.run("-p", "alice", "game", "move", "1", "4", "4")
	s.ErrorIs(err, model.ErrDuplicateCardIndex)

	_, err = s.run("-p", "alice", "game", "move", "1", "0", "16")
	s.ErrorIs(err, model.ErrCardIndexOutOfBounds)

	out, err = s.run("game", "moves", "1")
	s.Require().NoError(err)
	s.Contains(out, "miss")
	s.Contains(out, "match")

	out, err = s.run("game", "list", "alice")
	s.Require().NoError(err)
	s.Contains(out, "Games for alice: 1")

	out, err = s.run("game", "total")
	s.Require().NoError(err)
	s.Contains(out, "Total games: 1")
}

func (s *CLISuite) TestStartRejectsUnknownDifficulty() {
	_, err := s.run("-p", "alice", "game", "start", "impossible")
	s.ErrorIs(err, model.ErrInvalidDifficulty)
}

func (s *CLISuite) TestAutoplaySavesSummary() {
	out, err := s.run("-p", "alice", "-o", "json", "game", "autoplay", "easy", "--save")
	s.Require().NoError(err)

	var result AutoplayResult
	s.Require().NoError(json.Unmarshal([]byte(out), &result))
	s.True(result.Game.IsCompleted)
	s.Equal(8, result.Game.FoundPairs)
	s.True(result.Saved)
	s.GreaterOrEqual(result.Flips, 16)

	out, err = s.run("-p", "alice", "history", "stats")
	s.Require().NoError(err)
	s.Contains(out, "Games: 1")
	s.Contains(out, "Success rate: 100%")
}

func (s *CLISuite) TestAutoplayRequiresPlayer() {
	_, err := s.run("game", "autoplay", "easy")
	s.ErrorIs(err, errNoPlayer)
}

func (s *CLISuite) TestHistorySaveAndList() {
	_, err := s.run("history", "save", "--user", "carol", "--difficulty", "Hard", "--date", "2024-03-01", "--time", "120", "--failed", "4")
	s.Require().NoError(err)
	_, err = s.run("history", "save", "--user", "carol", "--difficulty", "Easy", "--date", "2024-03-02", "--completed", "--time", "40")
	s.Require().NoError(err)

	out, err := s.run("history", "list", "carol")
	s.Require().NoError(err)
	s.Contains(out, "2 games:")
	s.Contains(out, "2024-03-02")

	out, err = s.run("-o", "json", "history", "list", "carol", "--difficulty", "Hard")
	s.Require().NoError(err)
	var hist response.History
	s.Require().NoError(json.Unmarshal([]byte(out), &hist))
	s.Equal(1, hist.Count)
	s.Equal("Hard", hist.Data[0].Difficulty)

	out, err = s.run("history", "all")
	s.Require().NoError(err)
	s.Contains(out, "2 games:")

	_, err = s.run("history", "save", "--difficulty", "Easy")
	s.ErrorIs(err, model.ErrMissingRequiredField)
}

func (s *CLISuite) TestLedgerCall() {
	out, err := s.run("-p", "alice", "-o", "json", "ledger", "call", "startGame", `{"difficulty":2}`)
	s.Require().NoError(err)

	var receipt ledger.Receipt
	s.Require().NoError(json.Unmarshal([]byte(out), &receipt))
	s.True(receipt.Succeeded())
	s.Equal(ledger.AddressFor("alice").Hex(), receipt.From)
	s.JSONEq(`1`, string(receipt.Result))

	out, err = s.run("-p", "alice", "ledger", "call", "abandonGame", `{"gameId":99}`)
	s.Require().Error(err)
	s.Contains(out, "Revert reason: Game does not exist")

	_, err = s.run("-p", "alice", "ledger", "call", "getTotalGames", "not json")
	s.Require().Error(err)

	out, err = s.run("ledger", "methods")
	s.Require().NoError(err)
	s.Contains(out, "validateMove")
}

func (s *CLISuite) TestPlayerUseAndWhoami() {
	_, err := s.run("player", "use", "dave")
	s.Require().NoError(err)

	out, err := s.run("player", "whoami")
	s.Require().NoError(err)
	s.Contains(out, "Player: dave")
	s.Contains(out, ledger.AddressFor("dave").Hex())
}
