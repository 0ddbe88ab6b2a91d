package mocks

import (
	"sync"

	"github.com/mcoot/memorygame-go/internal/dependencies/random"
)

// MockRandom is a mock implementation of Random for testing.
// Queued Intn results are reduced modulo n so they always stay in range.
type MockRandom struct {
	mu sync.Mutex

	// IntnResults is a queue of results to return from Intn
	IntnResults []int
	intnIndex   int

	// ShuffleCalls counts calls to Shuffle
	ShuffleCalls int
}

// Ensure MockRandom implements Random
var _ random.Random = (*MockRandom)(nil)

// NewMockRandom creates a new MockRandom
func NewMockRandom() *MockRandom {
	return &MockRandom{}
}

// Intn returns the next queued result, or 0 if none remaining
func (r *MockRandom) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.next(n)
}

// Shuffle runs Fisher-Yates over the queued Intn results. With nothing
// queued every draw is 0.
func (r *MockRandom) Shuffle(n int, swap func(i, j int)) {
	r.mu.Lock()
	r.ShuffleCalls++
	draws := make([]int, 0, n)
	for i := n - 1; i > 0; i-- {
		draws = append(draws, r.next(i+1))
	}
	r.mu.Unlock()

	for k, i := 0, n-1; i > 0; k, i = k+1, i-1 {
		swap(i, draws[k])
	}
}

func (r *MockRandom) next(n int) int {
	if n <= 0 || r.intnIndex >= len(r.IntnResults) {
		return 0
	}
	result := r.IntnResults[r.intnIndex] % n
	if result < 0 {
		result += n
	}
	r.intnIndex++
	return result
}

// QueueIntn adds values to the Intn result queue
func (r *MockRandom) QueueIntn(values ...int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.IntnResults = append(r.IntnResults, values...)
}

// Reset clears all queued results
func (r *MockRandom) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.IntnResults = nil
	r.intnIndex = 0
	r.ShuffleCalls = 0
}

// IdentityRandom never reorders anything: Shuffle is a no-op and Intn
// returns 0. Useful for predictable card layouts in tests.
type IdentityRandom struct{}

var _ random.Random = IdentityRandom{}

// Intn always returns 0
func (IdentityRandom) Intn(int) int { return 0 }

// Shuffle leaves the elements in place
func (IdentityRandom) Shuffle(int, func(i, j int)) {}
