package calendar

import (
	"time"

	"github.com/slipperyrat/home-management-app-sub004/internal/models"
)

// FindConflicts compares every pair of occurrences and reports the ones
// whose intervals intersect or touch. Each unordered pair is emitted at most
// once. The scan is all-pairs; household windows hold few occurrences, so
// the quadratic cost is an accepted tradeoff over an interval tree.
//
// Two occurrences of the same event are compared like any other pair: a rule
// that generates instances on top of each other is a real conflict.
func FindConflicts(occurrences []models.Occurrence) []models.ConflictPair {
	var conflicts []models.ConflictPair
	for i := 0; i < len(occurrences); i++ {
		for j := i + 1; j < len(occurrences); j++ {
			a, b := occurrences[i], occurrences[j]
			switch {
			case timesOverlap(a.StartAt, a.EndAt, b.StartAt, b.EndAt):
				conflicts = append(conflicts, models.ConflictPair{A: a, B: b, Kind: models.ConflictOverlap})
			case a.EndAt.Equal(b.StartAt) || b.EndAt.Equal(a.StartAt):
				conflicts = append(conflicts, models.ConflictPair{A: a, B: b, Kind: models.ConflictAdjacent})
			}
		}
	}
	return conflicts
}

// timesOverlap reports whether two intervals share any duration. Intervals
// that only touch at a boundary do not overlap; they classify as adjacent.
func timesOverlap(start1, end1, start2, end2 time.Time) bool {
	return start1.Before(end2) && start2.Before(end1)
}
