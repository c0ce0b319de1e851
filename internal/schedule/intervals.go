package schedule

import (
	"time"

	"github.com/revisely/backend/internal/models"
)

// ReviewOffsets are the day offsets of the 180-day retention curve.
// Offset 0 is the same-day attempt; the rest space out reviews as the
// material moves toward long-term memory.
var ReviewOffsets = [models.NumSets]int{0, 1, 5, 15, 30, 60, 120, 180}

// dueEpsilon pulls the first review slightly before the creation
// instant so it satisfies "scheduledDate <= now" immediately, instead
// of racing the clock on a same-instant comparison.
const dueEpsilon = time.Minute

// PlanDates expands a creation instant into the NumSets target review
// dates. Pure and deterministic; date[i] pairs with set number i+1.
func PlanDates(t0 time.Time) [models.NumSets]time.Time {
	var dates [models.NumSets]time.Time
	dates[0] = t0.Add(-dueEpsilon)
	for i := 1; i < models.NumSets; i++ {
		dates[i] = t0.AddDate(0, 0, ReviewOffsets[i])
	}
	return dates
}
