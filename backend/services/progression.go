package services

import (
	"math"
	"time"
)

// EnergyCap is the maximum energy a profile can hold after a progression.
const EnergyCap = 10

// Outcome classifies the effect of one daily progression attempt.
type Outcome string

const (
	OutcomeExtended          Outcome = "extended"
	OutcomeReset             Outcome = "reset"
	OutcomeAlreadyProgressed Outcome = "already_progressed"
)

// ProgressResult is the decision returned by EvaluateDailyProgress.
type ProgressResult struct {
	Outcome   Outcome
	NewStreak int
	NewEnergy int
}

// EvaluateDailyProgress decides how a user's streak and energy move for an
// activity at now. Calendar days are compared in loc, so "today" rolls over
// at local midnight. The function is pure: callers persist the result.
//
// Rules:
//   - first-ever activity (lastUpdate nil): streak becomes 1
//   - same calendar day: no-op, state unchanged
//   - exactly one day later: streak +1
//   - more than one day later: streak resets to 1
//
// Energy gains +1 (capped) on every progressed day, even when the streak
// breaks: daily replenishment is decoupled from streak continuity.
func EvaluateDailyProgress(now time.Time, lastUpdate *time.Time, currentStreak, currentEnergy int, loc *time.Location) ProgressResult {
	if lastUpdate == nil {
		return ProgressResult{
			Outcome:   OutcomeExtended,
			NewStreak: 1,
			NewEnergy: gainEnergy(currentEnergy),
		}
	}

	diff := calendarDaysBetween(*lastUpdate, now, loc)

	switch {
	case diff == 0:
		return ProgressResult{
			Outcome:   OutcomeAlreadyProgressed,
			NewStreak: currentStreak,
			NewEnergy: currentEnergy,
		}
	case diff == 1:
		return ProgressResult{
			Outcome:   OutcomeExtended,
			NewStreak: currentStreak + 1,
			NewEnergy: gainEnergy(currentEnergy),
		}
	case diff > 1:
		return ProgressResult{
			Outcome:   OutcomeReset,
			NewStreak: 1,
			NewEnergy: gainEnergy(currentEnergy),
		}
	default:
		// Clock moved backwards. Keep state: a skewed clock must not reset
		// a streak or grant a second energy point for the same day.
		return ProgressResult{
			Outcome:   OutcomeAlreadyProgressed,
			NewStreak: currentStreak,
			NewEnergy: currentEnergy,
		}
	}
}

func gainEnergy(current int) int {
	if current+1 > EnergyCap {
		return EnergyCap
	}
	return current + 1
}

// calendarDaysBetween counts midnight boundaries crossed between a and b in
// loc. Rounding absorbs the 23h/25h days around DST transitions.
func calendarDaysBetween(a, b time.Time, loc *time.Location) int {
	ay, am, ad := a.In(loc).Date()
	by, bm, bd := b.In(loc).Date()
	dayA := time.Date(ay, am, ad, 0, 0, 0, 0, loc)
	dayB := time.Date(by, bm, bd, 0, 0, 0, 0, loc)
	return int(math.Round(dayB.Sub(dayA).Hours() / 24))
}
