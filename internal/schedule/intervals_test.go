package schedule

import (
	"testing"
	"time"

	"github.com/revisely/backend/internal/models"
)

func TestPlanDates_Offsets(t *testing.T) {
	t0 := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	dates := PlanDates(t0)

	// First review lands strictly before t0 so it is immediately due.
	if !dates[0].Before(t0) {
		t.Errorf("dates[0] = %v, want before t0 %v", dates[0], t0)
	}
	if got := t0.Sub(dates[0]); got != time.Minute {
		t.Errorf("dates[0] epsilon = %v, want 1m", got)
	}

	wantDays := []int{1, 5, 15, 30, 60, 120, 180}
	for i, days := range wantDays {
		want := t0.AddDate(0, 0, days)
		if !dates[i+1].Equal(want) {
			t.Errorf("dates[%d] = %v, want %v (+%dd)", i+1, dates[i+1], want, days)
		}
	}
}

func TestPlanDates_Ordered(t *testing.T) {
	dates := PlanDates(time.Date(2026, 12, 31, 23, 59, 0, 0, time.UTC))

	for i := 1; i < models.NumSets; i++ {
		if !dates[i-1].Before(dates[i]) {
			t.Errorf("dates[%d] (%v) not before dates[%d] (%v)", i-1, dates[i-1], i, dates[i])
		}
	}
}

func TestPlanDates_Deterministic(t *testing.T) {
	t0 := time.Now()
	a := PlanDates(t0)
	b := PlanDates(t0)
	if a != b {
		t.Error("PlanDates is not deterministic for identical input")
	}
}
