package storage

import (
	"sort"

	"github.com/mcoot/memorygame-go/internal/model"
)

// SortSummaries orders summaries newest first by GameDate, falling back to
// CreatedAt then ID so the order is stable across backends.
func SortSummaries(summaries []*model.GameSummary) {
	sort.SliceStable(summaries, func(i, j int) bool {
		a, b := summaries[i], summaries[j]
		if !a.GameDate.Equal(b.GameDate) {
			return a.GameDate.After(b.GameDate)
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID > b.ID
	})
}

// Limit truncates summaries to at most n entries. n <= 0 means no cap.
func Limit(summaries []*model.GameSummary, n int) []*model.GameSummary {
	if n > 0 && len(summaries) > n {
		return summaries[:n]
	}
	return summaries
}
