package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/mcoot/memorygame-go/internal/api/response"
	"github.com/mcoot/memorygame-go/internal/ledger"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
	w      io.Writer
	errW   io.Writer
}

// NewOutput creates a new Output formatter writing to w
func NewOutput(format string, w io.Writer) *Output {
	return &Output{format: format, w: w, errW: w}
}

// WithErrors sets where PrintError writes
func (o *Output) WithErrors(w io.Writer) *Output {
	o.errW = w
	return o
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]any{
			"error": map[string]string{"message": err.Error()},
		})
		fmt.Fprintln(o.errW, string(data))
	} else {
		fmt.Fprintf(o.errW, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(response.Message{Message: msg})
		fmt.Fprintln(o.w, string(data))
	} else {
		fmt.Fprintln(o.w, msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case response.Health:
		fmt.Fprintf(o.w, "Status: %s\n", v.Status)
	case response.Game:
		o.printGame(v)
	case response.MoveResult:
		o.printMoveResult(v)
	case response.MoveList:
		o.printMoveList(v)
	case response.PlayerGames:
		o.printPlayerGames(v)
	case response.Total:
		fmt.Fprintf(o.w, "Total games: %d\n", v.Total)
	case response.Active:
		fmt.Fprintf(o.w, "Game %d active: %s\n", v.GameID, yesNo(v.Active))
	case response.Duration:
		fmt.Fprintf(o.w, "Game %d duration: %s\n", v.GameID, time.Duration(v.DurationSeconds)*time.Second)
	case response.History:
		o.printHistory(v)
	case response.Stats:
		o.printStats(v)
	case response.Methods:
		fmt.Fprintln(o.w, strings.Join(v.Methods, "\n"))
	case *ledger.Receipt:
		o.printReceipt(v)
	case AutoplayResult:
		o.printAutoplay(v)
	case Identity:
		fmt.Fprintf(o.w, "Player: %s\nLedger address: %s\n", v.Player, v.Address)
	default:
		o.printJSON(data)
	}
}

func (o *Output) printGame(g response.Game) {
	fmt.Fprintf(o.w, "Game: %d\n", g.ID)
	fmt.Fprintf(o.w, "Player: %s\n", g.Player)
	fmt.Fprintf(o.w, "Difficulty: %s (%dx%d, %d pairs)\n", g.Difficulty, g.GridSize, g.GridSize, g.TotalPairs)
	fmt.Fprintf(o.w, "Status: %s\n", g.Status)
	fmt.Fprintf(o.w, "Pairs found: %d/%d\n", g.FoundPairs, g.TotalPairs)
	fmt.Fprintf(o.w, "Attempts: %d (%d wrong)\n", g.Attempts, g.WrongAttempts)
	fmt.Fprintf(o.w, "Started: %s\n", g.StartTime.Format(time.DateTime))
	if g.EndTime != nil {
		fmt.Fprintf(o.w, "Ended: %s\n", g.EndTime.Format(time.DateTime))
	}
}

func (o *Output) printMoveResult(r response.MoveResult) {
	if r.Move.IsMatch {
		fmt.Fprintf(o.w, "Match: cards %d and %d\n", r.Move.CardIndex1, r.Move.CardIndex2)
	} else {
		fmt.Fprintf(o.w, "No match: cards %d and %d\n", r.Move.CardIndex1, r.Move.CardIndex2)
	}
	fmt.Fprintf(o.w, "Pairs found: %d/%d\n", r.Game.FoundPairs, r.Game.TotalPairs)
	if r.Game.IsCompleted {
		fmt.Fprintf(o.w, "Game complete in %d attempts!\n", r.Game.Attempts)
	}
}

func (o *Output) printMoveList(l response.MoveList) {
	if len(l.Moves) == 0 {
		fmt.Fprintf(o.w, "No moves in game %d\n", l.GameID)
		return
	}
	fmt.Fprintf(o.w, "Moves in game %d:\n", l.GameID)
	for i, m := range l.Moves {
		result := "miss"
		if m.IsMatch {
			result = "match"
		}
		fmt.Fprintf(o.w, "  %3d. %2d - %2d  %-5s  %s\n", i+1, m.CardIndex1, m.CardIndex2, result, m.Timestamp.Format(time.TimeOnly))
	}
}

func (o *Output) printPlayerGames(p response.PlayerGames) {
	if len(p.GameIDs) == 0 {
		fmt.Fprintf(o.w, "No games for %s\n", p.Player)
		return
	}
	ids := make([]string, len(p.GameIDs))
	for i, id := range p.GameIDs {
		ids[i] = fmt.Sprint(id)
	}
	fmt.Fprintf(o.w, "Games for %s: %s\n", p.Player, strings.Join(ids, ", "))
}

func (o *Output) printHistory(h response.History) {
	if h.Count == 0 {
		fmt.Fprintln(o.w, "No games recorded")
		return
	}
	fmt.Fprintf(o.w, "%d games:\n", h.Count)
	for _, s := range h.Data {
		result := "failed"
		if s.Completed > 0 {
			result = "completed"
		}
		fmt.Fprintf(o.w, "  %s  %-8s %-6s %-9s %4ds  %d wrong\n",
			s.GameDate.Format(time.DateOnly), s.UserID, s.Difficulty, result, s.TimeTaken, s.Failed)
	}
}

func (o *Output) printStats(s response.Stats) {
	fmt.Fprintf(o.w, "Games: %d\n", s.Data.Games)
	fmt.Fprintf(o.w, "Completed: %d\n", s.Data.Completed)
	fmt.Fprintf(o.w, "Success rate: %d%%\n", s.Data.SuccessRate)
	fmt.Fprintf(o.w, "Average time: %ds\n", s.Data.AverageTime)
}

func (o *Output) printReceipt(r *ledger.Receipt) {
	fmt.Fprintf(o.w, "Tx: %s (nonce %d)\n", r.TxHash, r.Nonce)
	fmt.Fprintf(o.w, "From: %s\n", r.From)
	fmt.Fprintf(o.w, "Method: %s\n", r.Method)
	fmt.Fprintf(o.w, "Status: %s\n", r.Status)
	if r.RevertReason != "" {
		fmt.Fprintf(o.w, "Revert reason: %s\n", r.RevertReason)
	}
	if len(r.Result) > 0 {
		fmt.Fprintf(o.w, "Result: %s\n", r.Result)
	}
	for _, l := range r.Logs {
		fmt.Fprintf(o.w, "Log: %s %s\n", l.Event, formatAttributes(l.Attributes))
	}
}

func (o *Output) printAutoplay(r AutoplayResult) {
	o.printGame(r.Game)
	fmt.Fprintf(o.w, "Flips: %d\n", r.Flips)
	if r.Saved {
		fmt.Fprintln(o.w, "Summary saved")
	}
}

func formatAttributes(attrs map[string]string) string {
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + "=" + attrs[k]
	}
	return strings.Join(parts, " ")
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
