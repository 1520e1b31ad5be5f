package flow

import (
	"fmt"
	"sort"
	"time"
)

const (
	hoursPerDay   = 24
	daysPerMonth  = 30
	monthsPerYear = 12
)

// Tone is how urgently a countdown is shown
type Tone string

const (
	ToneDanger  Tone = "danger"
	ToneWarning Tone = "warning"
	ToneMuted   Tone = "muted"
)

// TimeLeft is a countdown label for a goal deadline
type TimeLeft struct {
	Days  int
	Label string
	Tone  Tone
}

// TimeRemaining classifies the time until deadline. Days are whole calendar
// days from the start of today; months are 30 days and years 12 months, all
// floored. A zero deadline has no countdown.
func TimeRemaining(deadline, now time.Time) TimeLeft {
	if deadline.IsZero() {
		return TimeLeft{Label: "No deadline", Tone: ToneMuted}
	}

	days := int(startOfDay(deadline).Sub(startOfDay(now)).Hours()) / hoursPerDay
	months := days / daysPerMonth
	years := months / monthsPerYear

	switch {
	case days < 0:
		return TimeLeft{Days: days, Label: "Overdue", Tone: ToneDanger}
	case days == 0:
		return TimeLeft{Days: days, Label: "Due today", Tone: ToneWarning}
	case years > 0:
		return TimeLeft{Days: days, Label: countLeft(years, "year"), Tone: ToneMuted}
	case months > 0:
		return TimeLeft{Days: days, Label: countLeft(months, "month"), Tone: ToneMuted}
	default:
		return TimeLeft{Days: days, Label: countLeft(days, "day"), Tone: ToneWarning}
	}
}

// SortByDeadline returns goals ordered by ascending time to their target date.
// Goals without a target date go last; ties keep their order.
func SortByDeadline(goals []*SavingsGoal, now time.Time) []*SavingsGoal {
	sorted := append([]*SavingsGoal(nil), goals...)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i].TargetDate, sorted[j].TargetDate
		switch {
		case a.IsZero():
			return false
		case b.IsZero():
			return true
		}
		return a.Sub(now) < b.Sub(now)
	})
	return sorted
}

func countLeft(n int, unit string) string {
	if n > 1 {
		unit += "s"
	}
	return fmt.Sprintf("%d %s left", n, unit)
}
