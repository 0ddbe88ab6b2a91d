package sse

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/memorygame-go/internal/model"
	"github.com/mcoot/memorygame-go/internal/testutil"
)

func TestNewEventMessage(t *testing.T) {
	ts := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		event    model.Event
		expected string
	}{
		{
			name: "game started",
			event: model.Event{
				Type: model.EventGameStarted, Timestamp: ts, GameID: 1, PlayerID: "alice",
				Payload: model.GameStartedPayload{Difficulty: model.DifficultyHard, GridSize: 8, TotalPairs: 32},
			},
			expected: `{"difficulty":"Hard","grid_size":8,"total_pairs":32}`,
		},
		{
			name: "move validated",
			event: model.Event{
				Type: model.EventMoveValidated, Timestamp: ts, GameID: 1, PlayerID: "alice",
				Payload: model.MoveValidatedPayload{CardIndex1: 0, CardIndex2: 3, IsMatch: true, FoundPairs: 1, Attempts: 2},
			},
			expected: `{"card_index_1":0,"card_index_2":3,"is_match":true,"found_pairs":1,"attempts":2}`,
		},
		{
			name: "game completed",
			event: model.Event{
				Type: model.EventGameCompleted, Timestamp: ts, GameID: 1, PlayerID: "alice",
				Payload: model.GameCompletedPayload{Attempts: 10, WrongAttempts: 2, Duration: 90 * time.Second},
			},
			expected: `{"attempts":10,"wrong_attempts":2,"duration_seconds":90}`,
		},
		{
			name: "game abandoned",
			event: model.Event{
				Type: model.EventGameAbandoned, Timestamp: ts, GameID: 1, PlayerID: "alice",
				Payload: model.GameAbandonedPayload{FoundPairs: 3, Attempts: 7},
			},
			expected: `{"found_pairs":3,"attempts":7}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := NewEventMessage(tt.event)
			assert.Equal(t, string(tt.event.Type), msg.Type)
			assert.Equal(t, uint64(1), msg.GameID)
			assert.Equal(t, "alice", msg.PlayerID)

			data, err := json.Marshal(msg.Data)
			require.NoError(t, err)
			assert.JSONEq(t, tt.expected, string(data))
		})
	}
}

func TestPublishWithoutSubscriberIsNoop(t *testing.T) {
	manager := NewHubManager(testutil.NopLogger())
	manager.Publish(context.Background(), model.Event{Type: model.EventGameStarted, PlayerID: "alice"})
	assert.Nil(t, manager.GetHub("alice"))
}

func TestServeSSEStreamsPublishedEvents(t *testing.T) {
	manager := NewHubManager(testutil.NopLogger())
	defer manager.Close()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ServeSSE(w, r, manager.GetOrCreateHub("alice"), "alice")
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, server.URL, nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	reader := bufio.NewReader(resp.Body)
	assert.Equal(t, "event: connected", readEventLine(t, reader))
	readUntilBlank(t, reader)

	manager.Publish(ctx, model.Event{
		Type:     model.EventGameAbandoned,
		GameID:   4,
		PlayerID: "alice",
		Payload:  model.GameAbandonedPayload{FoundPairs: 1, Attempts: 2},
	})
	// Events for other players never reach this stream
	manager.Publish(ctx, model.Event{Type: model.EventGameStarted, PlayerID: "bob"})

	assert.Equal(t, "event: game_abandoned", readEventLine(t, reader))
	dataLine := readEventLine(t, reader)
	require.True(t, strings.HasPrefix(dataLine, "data: "))

	var msg EventMessage
	require.NoError(t, json.Unmarshal([]byte(strings.TrimPrefix(dataLine, "data: ")), &msg))
	assert.Equal(t, "game_abandoned", msg.Type)
	assert.Equal(t, uint64(4), msg.GameID)
}

func TestServeReleasesHubWhenLastStreamCloses(t *testing.T) {
	manager := NewHubManager(testutil.NopLogger())
	defer manager.Close()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		manager.Serve(w, r, "alice")
	}))
	defer server.Close()

	connect := func() context.CancelFunc {
		ctx, cancel := context.WithCancel(context.Background())
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, server.URL, nil)
		require.NoError(t, err)
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		t.Cleanup(func() { _ = resp.Body.Close() })
		assert.Equal(t, "event: connected", readEventLine(t, bufio.NewReader(resp.Body)))
		return cancel
	}

	first := connect()
	second := connect()
	assert.Equal(t, 1, manager.HubCount())

	first()
	// the other stream keeps the hub alive
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 1, manager.HubCount())

	second()
	assert.Eventually(t, func() bool { return manager.HubCount() == 0 }, 2*time.Second, 10*time.Millisecond)
	assert.Nil(t, manager.GetHub("alice"))

	// a fresh stream gets a fresh hub
	third := connect()
	defer third()
	assert.Equal(t, 1, manager.HubCount())
}

func readEventLine(t *testing.T, r *bufio.Reader) string {
	t.Helper()
	for {
		line, err := r.ReadString('\n')
		require.NoError(t, err)
		line = strings.TrimRight(line, "\n")
		if line == "" || strings.HasPrefix(line, ":") {
			continue
		}
		return line
	}
}

func readUntilBlank(t *testing.T, r *bufio.Reader) {
	t.Helper()
	for {
		line, err := r.ReadString('\n')
		require.NoError(t, err)
		if line == "\n" {
			return
		}
	}
}
