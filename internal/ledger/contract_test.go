package ledger

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/memorygame-go/internal/dependencies/mocks"
	"github.com/mcoot/memorygame-go/internal/model"
	"github.com/mcoot/memorygame-go/internal/services/game"
	"github.com/mcoot/memorygame-go/internal/storage/memory"
	"github.com/mcoot/memorygame-go/internal/testutil"
)

type ContractSuite struct {
	suite.Suite
	ctx      context.Context
	clock    *mocks.MockClock
	contract *Contract
	alice    Address
	bob      Address
}

func TestContractSuite(t *testing.T) {
	suite.Run(t, new(ContractSuite))
}

func (s *ContractSuite) SetupTest() {
	s.ctx = context.Background()
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	controller := game.NewController(memory.New(), s.clock, nil, testutil.NopLogger())
	s.contract = New(controller, testutil.NopLogger())
	s.alice = AddressFor("alice")
	s.bob = AddressFor("bob")
}

func (s *ContractSuite) call(from Address, method string, args any) *Receipt {
	raw, err := json.Marshal(args)
	s.Require().NoError(err)
	return s.contract.Call(s.ctx, Tx{From: from, Method: method, Args: raw})
}

func (s *ContractSuite) mustSucceed(r *Receipt) *Receipt {
	s.Require().Equal(StatusSuccess, r.Status, r.RevertReason)
	return r
}

func (s *ContractSuite) startGame(from Address, difficulty int) uint64 {
	r := s.mustSucceed(s.call(from, "startGame", map[string]any{"difficulty": difficulty}))
	var id uint64
	s.Require().NoError(json.Unmarshal(r.Result, &id))
	return id
}

func (s *ContractSuite) TestStartGame() {
	r := s.mustSucceed(s.call(s.alice, "startGame", map[string]any{"difficulty": 2}))

	s.JSONEq(`1`, string(r.Result))
	s.Require().Len(r.Logs, 1)
	s.Equal(EventGameStarted, r.Logs[0].Event)
	s.Equal("1", r.Logs[0].Attributes["gameId"])
	s.Equal(s.alice.Hex(), r.Logs[0].Attributes["player"])
	s.Equal("2", r.Logs[0].Attributes["difficulty"])
	s.Len(r.TxHash, 66)
}

func (s *ContractSuite) TestStartGameInvalidDifficulty() {
	for _, d := range []int{0, 4, 257, -1} {
		r := s.call(s.alice, "startGame", map[string]any{"difficulty": d})
		s.Equal(StatusReverted, r.Status)
		s.Equal(ReasonInvalidDifficulty, r.RevertReason)
		s.Empty(r.Logs)
	}

	total := s.mustSucceed(s.call(s.alice, "getTotalGames", nil))
	s.JSONEq(`0`, string(total.Result))
}

func (s *ContractSuite) TestGetGame() {
	id := s.startGame(s.alice, 3)
	s.clock.Advance(5 * time.Second)

	r := s.mustSucceed(s.call(s.bob, "getGame", map[string]any{"gameId": id}))
	var view GameView
	s.Require().NoError(json.Unmarshal(r.Result, &view))

	s.Equal(id, view.ID)
	s.Equal(s.alice.Hex(), view.Player)
	s.Equal(8, view.GridSize)
	s.Equal(32, view.TotalPairs)
	s.Equal(int64(0), view.EndTime)
	s.True(view.IsActive)
	s.Empty(r.Logs)
}

func (s *ContractSuite) TestValidateMoveRevertReasons() {
	id := s.startGame(s.alice, 1)

	cases := []struct {
		from   Address
		args   map[string]any
		reason string
	}{
		{s.alice, map[string]any{"gameId": 99, "cardIndex1": 0, "cardIndex2": 1}, ReasonGameNotFound},
		{s.bob, map[string]any{"gameId": id, "cardIndex1": 0, "cardIndex2": 1}, ReasonNotGameOwner},
		{s.alice, map[string]any{"gameId": id, "cardIndex1": 2, "cardIndex2": 2}, ReasonDuplicateCard},
		{s.alice, map[string]any{"gameId": id, "cardIndex1": 16, "cardIndex2": 0}, ReasonCard1OutOfBounds},
		{s.alice, map[string]any{"gameId": id, "cardIndex1": 0, "cardIndex2": 16}, ReasonCard2OutOfBounds},
		{s.alice, map[string]any{"gameId": id, "cardIndex1": -1, "cardIndex2": 16}, ReasonCard1OutOfBounds},
		{s.alice, map[string]any{"gameId": id, "cardIndex": 0}, ReasonInvalidArguments},
	}
	for _, tc := range cases {
		r := s.call(tc.from, "validateMove", tc.args)
		s.Equal(StatusReverted, r.Status)
		s.Equal(tc.reason, r.RevertReason)
		s.Empty(r.Logs)
		s.Empty(r.Result)
	}

	r := s.mustSucceed(s.call(s.alice, "getGameMoves", map[string]any{"gameId": id}))
	s.JSONEq(`[]`, string(r.Result))
}

func (s *ContractSuite) TestPlayToCompletion() {
	id := s.startGame(s.alice, 1)

	var last *Receipt
	for i := 0; i < 8; i++ {
		s.clock.Advance(10 * time.Second)
		last = s.mustSucceed(s.call(s.alice, "validateMove", map[string]any{
			"gameId": id, "cardIndex1": 2 * i, "cardIndex2": 2*i + 1, "isMatch": true,
		}))
	}

	s.Require().Len(last.Logs, 2)
	s.Equal(EventMoveValidated, last.Logs[0].Event)
	s.Equal("true", last.Logs[0].Attributes["isMatch"])
	s.Equal(EventGameCompleted, last.Logs[1].Event)
	s.Equal("8", last.Logs[1].Attributes["attempts"])
	s.Equal("80", last.Logs[1].Attributes["duration"])

	active := s.mustSucceed(s.call(s.alice, "isGameActive", map[string]any{"gameId": id}))
	s.JSONEq(`false`, string(active.Result))

	duration := s.mustSucceed(s.call(s.alice, "getGameDuration", map[string]any{"gameId": id}))
	s.JSONEq(`80`, string(duration.Result))

	again := s.call(s.alice, "validateMove", map[string]any{"gameId": id, "cardIndex1": 0, "cardIndex2": 1})
	s.Equal(ReasonGameNotActive, again.RevertReason)
}

func (s *ContractSuite) TestAbandonGame() {
	id := s.startGame(s.alice, 1)

	r := s.call(s.bob, "abandonGame", map[string]any{"gameId": id})
	s.Equal(ReasonNotGameOwner, r.RevertReason)

	r = s.mustSucceed(s.call(s.alice, "abandonGame", map[string]any{"gameId": id}))
	s.Require().Len(r.Logs, 1)
	s.Equal(EventGameAbandoned, r.Logs[0].Event)

	r = s.call(s.alice, "abandonGame", map[string]any{"gameId": id})
	s.Equal(ReasonGameNotActive, r.RevertReason)
	s.Empty(r.Logs)
}

func (s *ContractSuite) TestGetPlayerGames() {
	s.startGame(s.alice, 1)
	s.startGame(s.bob, 2)
	s.startGame(s.alice, 3)

	mine := s.mustSucceed(s.call(s.alice, "getPlayerGames", nil))
	s.JSONEq(`[1,3]`, string(mine.Result))

	theirs := s.mustSucceed(s.call(s.alice, "getPlayerGames", map[string]any{"player": s.bob.Hex()}))
	s.JSONEq(`[2]`, string(theirs.Result))

	nobody := s.mustSucceed(s.call(s.alice, "getPlayerGames", map[string]any{"player": AddressFor("carol").Hex()}))
	s.JSONEq(`[]`, string(nobody.Result))

	bad := s.call(s.alice, "getPlayerGames", map[string]any{"player": "0x1234"})
	s.Equal(ReasonInvalidArguments, bad.RevertReason)

	total := s.mustSucceed(s.call(s.bob, "getTotalGames", nil))
	s.JSONEq(`3`, string(total.Result))
}

func (s *ContractSuite) TestUnknownMethod() {
	r := s.call(s.alice, "selfDestruct", nil)
	s.Equal(StatusReverted, r.Status)
	s.Equal(ReasonUnknownMethod, r.RevertReason)
}

func (s *ContractSuite) TestNoncesAndHashesAreUnique() {
	var wg sync.WaitGroup
	receipts := make([]*Receipt, 20)
	for i := range receipts {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			receipts[i] = s.contract.Call(s.ctx, Tx{From: s.alice, Method: "startGame", Args: json.RawMessage(`{"difficulty":1}`)})
		}(i)
	}
	wg.Wait()

	nonces := make(map[uint64]bool)
	hashes := make(map[string]bool)
	for _, r := range receipts {
		s.True(r.Succeeded())
		nonces[r.Nonce] = true
		hashes[r.TxHash] = true
	}
	s.Len(nonces, 20)
	s.Len(hashes, 20)
}

func (s *ContractSuite) TestMethods() {
	s.Equal([]string{
		"abandonGame", "getGame", "getGameDuration", "getGameMoves", "getPlayerGames",
		"getTotalGames", "isGameActive", "startGame", "validateMove",
	}, s.contract.Methods())
}

func TestAddress(t *testing.T) {
	a := AddressFor("alice")
	assert.Equal(t, a, AddressFor("alice"))
	assert.NotEqual(t, a, AddressFor("bob"))
	assert.False(t, a.IsZero())
	assert.Len(t, a.Hex(), 42)

	parsed, err := ParseAddress(a.Hex())
	require.NoError(t, err)
	assert.Equal(t, a, parsed)

	_, err = ParseAddress("0xzz")
	assert.ErrorIs(t, err, ErrInvalidAddress)
	_, err = ParseAddress("0x" + "zz" + a.Hex()[4:])
	assert.ErrorIs(t, err, ErrInvalidAddress)
}

func TestRevertReason(t *testing.T) {
	assert.Equal(t, ReasonGameNotFound, revertReason(model.ErrGameNotFound))
	assert.Equal(t, ReasonInvalidArguments, revertReason(revert(ReasonInvalidArguments, nil)))
	assert.Equal(t, ReasonInternal, revertReason(context.DeadlineExceeded))
}
