package services

import (
	"math"
	"time"

	"quizarena/internal/models"
)

// Adaptive algorithm constants. These are fixed points of the design: scores
// recorded in the answer history were computed with them, so changing any of
// them breaks comparability of historical data.
//
// The momentum values are tuned so that exactly two consecutive same-direction
// answers cross the ±1.0 threshold:
//
//	after answer 1: (0 + 1.5) × 0.7 = 1.05   (counter at 1, no change yet)
//	after answer 2: (1.05 + 1.5) × 0.7 = 1.785 (counter at 2, change fires)
const (
	// ConsecutiveThreshold is the symmetric hysteresis requirement: this many
	// consecutive same-direction answers before a difficulty change is allowed.
	ConsecutiveThreshold = 2

	// MomentumGain is added on a correct answer and subtracted on a wrong one,
	// before decay is applied.
	MomentumGain = 1.5

	// MomentumDecay is the per-answer decay rate toward zero. The update order
	// is adjust-then-decay; decaying first yields different trajectories and
	// must not be used.
	MomentumDecay = 0.3

	// MomentumIncreaseThreshold and MomentumDecreaseThreshold are the momentum
	// crossings required (together with the consecutive counter) to move
	// difficulty up or down.
	MomentumIncreaseThreshold = 1.0
	MomentumDecreaseThreshold = -1.0

	// MomentumMin and MomentumMax bound the momentum accumulator.
	MomentumMin = -3.0
	MomentumMax = 3.0

	// Scoring constants: score = BaseScoreMultiplier × difficulty^DifficultyWeight
	// × streak multiplier × accuracy bonus.
	BaseScoreMultiplier  = 10.0
	DifficultyWeight     = 1.5
	StreakMultiplierRate = 0.1
	MaxStreakMultiplier  = 3.0
	AccuracyBonusCutoff  = 0.8
	AccuracyBonusFactor  = 1.2

	// StreakDecayAfter is the inactivity window after which the current streak
	// resets on read. Strictly greater-than: exactly 24h does not decay.
	StreakDecayAfter = 24 * time.Hour
)

// AdaptiveResult is the outcome of one transition of the adaptive engine.
type AdaptiveResult struct {
	NewDifficulty         int
	NewStreak             int
	NewMomentum           float64
	NewConsecutiveCorrect int
	NewConsecutiveWrong   int
	ScoreDelta            float64
}

// CalculateStreakMultiplier returns 1 + streak×0.1 capped at 3.0:
// streak 0 → 1.0x, streak 5 → 1.5x, streak 20 and above → 3.0x.
func CalculateStreakMultiplier(streak int) float64 {
	if streak < 0 {
		streak = 0
	}
	multiplier := 1 + float64(streak)*StreakMultiplierRate
	return math.Min(multiplier, MaxStreakMultiplier)
}

// CalculateScoreDelta computes the score awarded for one answer, rounded to
// two decimal places. Wrong answers always score 0.
//
// The streak passed in must be the POST-increment streak so the answer that
// extends a streak is rewarded for the streak it just built.
func CalculateScoreDelta(difficulty, newStreak int, isCorrect bool, accuracy float64) float64 {
	if !isCorrect {
		return 0
	}

	difficultyScore := BaseScoreMultiplier * math.Pow(float64(clampDifficulty(difficulty)), DifficultyWeight)
	streakMultiplier := CalculateStreakMultiplier(newStreak)
	accuracyBonus := 1.0
	if accuracy > AccuracyBonusCutoff {
		accuracyBonus = AccuracyBonusFactor
	}

	return math.Round(difficultyScore*streakMultiplier*accuracyBonus*100) / 100
}

// CalculateAdaptiveDifficulty is the adaptive difficulty transition. It is
// pure: no I/O, no randomness, and it never fails — out-of-range inputs are
// clamped. baseDifficulty must be the USER's current difficulty level, not the
// difficulty of the question just answered (questions are drawn from a range
// around the user's level; it is the user's level that adapts).
//
// Ping-pong prevention works in two layers: symmetric hysteresis (both
// directions require ConsecutiveThreshold same-direction answers) and the
// momentum buffer (the accumulated signal must cross ±1.0). After a change,
// momentum and the triggering counter reset to 0 so the next change has to be
// re-earned. An alternating correct/wrong pattern therefore never moves
// difficulty: the counters never reach 2.
func CalculateAdaptiveDifficulty(state *models.UserState, isCorrect bool, baseDifficulty int) AdaptiveResult {
	baseDifficulty = clampDifficulty(baseDifficulty)

	newDifficulty := baseDifficulty
	newMomentum := clampMomentum(state.Momentum)
	newConsecutiveCorrect := state.ConsecutiveCorrect
	newConsecutiveWrong := state.ConsecutiveWrong
	newStreak := state.Streak

	if isCorrect {
		newStreak = state.Streak + 1
		newConsecutiveCorrect++
		newConsecutiveWrong = 0

		// Gain first, then decay
		newMomentum = (newMomentum + MomentumGain) * (1 - MomentumDecay)

		if newConsecutiveCorrect >= ConsecutiveThreshold &&
			newMomentum >= MomentumIncreaseThreshold &&
			baseDifficulty < models.MaxDifficulty {
			newDifficulty = baseDifficulty + 1
			newMomentum = 0
			newConsecutiveCorrect = 0
		}
	} else {
		// Streak resets immediately on a wrong answer, no grace
		newStreak = 0
		newConsecutiveWrong++
		newConsecutiveCorrect = 0

		// Loss first, then decay
		newMomentum = (newMomentum - MomentumGain) * (1 - MomentumDecay)

		if newConsecutiveWrong >= ConsecutiveThreshold &&
			newMomentum <= MomentumDecreaseThreshold &&
			baseDifficulty > models.MinDifficulty {
			newDifficulty = baseDifficulty - 1
			newMomentum = 0
			newConsecutiveWrong = 0
		}
	}

	newMomentum = clampMomentum(newMomentum)
	newDifficulty = clampDifficulty(newDifficulty)

	scoreDelta := CalculateScoreDelta(baseDifficulty, newStreak, isCorrect, state.Accuracy())

	return AdaptiveResult{
		NewDifficulty:         newDifficulty,
		NewStreak:             newStreak,
		NewMomentum:           newMomentum,
		NewConsecutiveCorrect: newConsecutiveCorrect,
		NewConsecutiveWrong:   newConsecutiveWrong,
		ScoreDelta:            scoreDelta,
	}
}

// ShouldDecayStreak reports whether the current streak should reset because
// the user has been inactive for more than StreakDecayAfter.
func ShouldDecayStreak(lastAnswerAt time.Time, now time.Time) bool {
	if lastAnswerAt.IsZero() {
		return false
	}
	return now.Sub(lastAnswerAt) > StreakDecayAfter
}

// GetDifficultyRange returns the candidate question pool {d-1, d, d+1} clipped
// to the difficulty bounds, with the target level first.
func GetDifficultyRange(targetDifficulty int) []int {
	targetDifficulty = clampDifficulty(targetDifficulty)
	difficulties := []int{targetDifficulty}
	if targetDifficulty > models.MinDifficulty {
		difficulties = append(difficulties, targetDifficulty-1)
	}
	if targetDifficulty < models.MaxDifficulty {
		difficulties = append(difficulties, targetDifficulty+1)
	}
	return difficulties
}

func clampDifficulty(d int) int {
	if d < models.MinDifficulty {
		return models.MinDifficulty
	}
	if d > models.MaxDifficulty {
		return models.MaxDifficulty
	}
	return d
}

func clampMomentum(m float64) float64 {
	return math.Max(MomentumMin, math.Min(MomentumMax, m))
}
