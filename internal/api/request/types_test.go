package request

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/memorygame-go/internal/model"
)

func TestDifficultyDecoding(t *testing.T) {
	tests := []struct {
		body     string
		expected model.Difficulty
	}{
		{`{"difficulty":1}`, model.DifficultyEasy},
		{`{"difficulty":3}`, model.DifficultyHard},
		{`{"difficulty":"Normal"}`, model.DifficultyNormal},
		{`{"difficulty":"hard"}`, model.DifficultyHard},
		{`{"difficulty":"2"}`, model.DifficultyNormal},
		{`{"difficulty":"Impossible"}`, 0},
		{`{"difficulty":300}`, 0},
		{`{"difficulty":-1}`, 0},
		{`{}`, 0},
	}

	for _, tt := range tests {
		t.Run(tt.body, func(t *testing.T) {
			var req CreateGameRequest
			require.NoError(t, json.Unmarshal([]byte(tt.body), &req))
			assert.Equal(t, tt.expected, req.Difficulty.Model())
		})
	}
}

func TestDifficultyRejectsWrongType(t *testing.T) {
	var req CreateGameRequest
	assert.Error(t, json.Unmarshal([]byte(`{"difficulty":true}`), &req))
}

func TestMoveRequestValidate(t *testing.T) {
	var full MoveRequest
	require.NoError(t, json.Unmarshal([]byte(`{"card_index_1":0,"card_index_2":1,"is_match":false}`), &full))
	assert.NoError(t, full.Validate())

	var partial MoveRequest
	require.NoError(t, json.Unmarshal([]byte(`{"card_index_1":0,"card_index_2":1}`), &partial))
	assert.EqualError(t, partial.Validate(), "is_match is required")
}

func TestSaveSummaryRequestToInput(t *testing.T) {
	body := `{"userID":"alice","gameDate":"2024-05-01T10:30:00.000Z","difficulty":"Easy","completed":1,"timeTaken":42}`

	var req SaveSummaryRequest
	require.NoError(t, json.Unmarshal([]byte(body), &req))
	input := req.ToInput()

	assert.Equal(t, "alice", input.UserID)
	require.NotNil(t, input.GameDate)
	assert.True(t, time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC).Equal(*input.GameDate))
	assert.Nil(t, input.Failed)
	require.NotNil(t, input.TimeTaken)
	assert.Equal(t, 42, *input.TimeTaken)
}

func TestSaveSummaryRequestMissingDate(t *testing.T) {
	var req SaveSummaryRequest
	require.NoError(t, json.Unmarshal([]byte(`{"userID":"alice","gameDate":null}`), &req))
	assert.Nil(t, req.ToInput().GameDate)
}

func TestDateFormats(t *testing.T) {
	for _, s := range []string{`"2024-05-01"`, `"2024-05-01T00:00:00"`, `"2024-05-01T00:00:00Z"`, `"2024-05-01T02:00:00+02:00"`} {
		var d Date
		require.NoError(t, json.Unmarshal([]byte(s), &d), s)
		assert.True(t, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC).Equal(d.Time), s)
	}

	var d Date
	assert.Error(t, json.Unmarshal([]byte(`"yesterday"`), &d))
	assert.Error(t, json.Unmarshal([]byte(`12345`), &d))
}
