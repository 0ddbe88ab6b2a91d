package request

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/mcoot/memorygame-go/internal/model"
)

// CreateGameRequest is the request body for starting a game
type CreateGameRequest struct {
	Difficulty Difficulty `json:"difficulty"`
}

// MoveRequest is the request body for validating a move
type MoveRequest struct {
	CardIndex1 *int  `json:"card_index_1"`
	CardIndex2 *int  `json:"card_index_2"`
	IsMatch    *bool `json:"is_match"`
}

// Validate checks every field was supplied
func (r MoveRequest) Validate() error {
	switch {
	case r.CardIndex1 == nil:
		return fmt.Errorf("card_index_1 is required")
	case r.CardIndex2 == nil:
		return fmt.Errorf("card_index_2 is required")
	case r.IsMatch == nil:
		return fmt.Errorf("is_match is required")
	}
	return nil
}

// SaveSummaryRequest is the request body for saving a game summary.
// Field names follow the summary record format used by existing clients.
type SaveSummaryRequest struct {
	UserID     string `json:"userID"`
	GameDate   *Date  `json:"gameDate"`
	Failed     *int   `json:"failed"`
	Difficulty string `json:"difficulty"`
	Completed  *int   `json:"completed"`
	TimeTaken  *int   `json:"timeTaken"`
}

// ToInput converts the request into the history service's input
func (r SaveSummaryRequest) ToInput() model.SummaryInput {
	input := model.SummaryInput{
		UserID:     r.UserID,
		Failed:     r.Failed,
		Difficulty: r.Difficulty,
		Completed:  r.Completed,
		TimeTaken:  r.TimeTaken,
	}
	if r.GameDate != nil {
		t := r.GameDate.Time
		input.GameDate = &t
	}
	return input
}

// LedgerTxRequest is the request body for a ledger call
type LedgerTxRequest struct {
	Method string          `json:"method"`
	Args   json.RawMessage `json:"args,omitempty"`
}

// Difficulty accepts either the numeric level (1-3) or its label ("Easy").
// Unknown labels decode to 0, which the engine rejects as an invalid difficulty.
type Difficulty int

// UnmarshalJSON implements json.Unmarshaler
func (d *Difficulty) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		if n, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
			*d = Difficulty(n)
			return nil
		}
		parsed, err := model.ParseDifficulty(s)
		if err != nil {
			*d = 0
			return nil
		}
		*d = Difficulty(parsed)
		return nil
	}

	var n int
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("difficulty must be a number or a label: %w", err)
	}
	*d = Difficulty(n)
	return nil
}

// Model converts to the engine's difficulty, mapping out-of-range values to 0
func (d Difficulty) Model() model.Difficulty {
	if d < 0 || d > 255 {
		return 0
	}
	return model.Difficulty(d)
}

// dateLayouts are the accepted gameDate formats, tried in order
var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// Date is a timestamp that also accepts plain calendar dates
type Date struct {
	time.Time
}

// UnmarshalJSON implements json.Unmarshaler
func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	t, err := ParseDate(s)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

// ParseDate parses an RFC3339 timestamp or a plain YYYY-MM-DD date into UTC
func ParseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised date %q", s)
}
