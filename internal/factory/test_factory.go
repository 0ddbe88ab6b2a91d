package factory

import (
	"time"

	"github.com/mcoot/memorygame-go/internal/dependencies/mocks"
	"github.com/mcoot/memorygame-go/internal/services/game"
	"github.com/mcoot/memorygame-go/internal/storage/memory"
	"github.com/mcoot/memorygame-go/internal/testutil"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock  *mocks.MockClock
	MockRandom *mocks.MockRandom
	MemStore   *memory.Storage

	// Events captures every engine event in publish order
	Events *game.RecordingPublisher
}

// NewTestApp creates an App configured for testing with mocked dependencies
func NewTestApp() *TestApp {
	store := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	mockRandom := mocks.NewMockRandom()
	events := &game.RecordingPublisher{}

	app := newWithDependencies(store, store, mockClock, mockRandom, testutil.NopLogger(), events)

	return &TestApp{
		App:        app,
		MockClock:  mockClock,
		MockRandom: mockRandom,
		MemStore:   store,
		Events:     events,
	}
}
