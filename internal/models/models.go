// Package models defines the data structures for the adaptive quiz backend:
// user performance state, questions, answer history, and leaderboard entries.
package models

import (
	"database/sql"
	"time"
)

// Difficulty bounds for questions and user state. These are fixed points of
// the adaptive algorithm and must not change without a data migration.
const (
	MinDifficulty = 1
	MaxDifficulty = 10

	// InitialDifficulty is assigned to a user's state on first access.
	InitialDifficulty = 5
)

// UserState is the per-user adaptive performance state. It is mutated only by
// the answer orchestrator under an optimistic version guard; Version increases
// by exactly 1 on every committed answer.
type UserState struct {
	UserID             string         `json:"user_id"`
	Difficulty         int            `json:"current_difficulty"`
	Streak             int            `json:"streak"`
	MaxStreak          int            `json:"max_streak"`
	TotalScore         float64        `json:"total_score"`
	TotalQuestions     int            `json:"total_questions"`
	CorrectAnswers     int            `json:"correct_answers"`
	Momentum           float64        `json:"difficulty_momentum"`
	ConsecutiveCorrect int            `json:"consecutive_correct"`
	ConsecutiveWrong   int            `json:"consecutive_wrong"`
	LastQuestionID     sql.NullString `json:"last_question_id,omitempty"`
	LastAnswerAt       sql.NullTime   `json:"last_answer_at,omitempty"`
	Version            int            `json:"state_version"`
	CreatedAt          time.Time      `json:"created_at,omitempty"`
	UpdatedAt          time.Time      `json:"updated_at,omitempty"`
}

// NewUserState returns the initial state for a user: midpoint difficulty,
// all counters zero, version zero.
func NewUserState(userID string) *UserState {
	return &UserState{
		UserID:     userID,
		Difficulty: InitialDifficulty,
	}
}

// Accuracy returns the running accuracy in [0,1]. With no answered questions
// it is treated as 1.0, which matches how the score bonus is computed for a
// user's very first answers.
func (s *UserState) Accuracy() float64 {
	if s.TotalQuestions == 0 {
		return 1.0
	}
	return float64(s.CorrectAnswers) / float64(s.TotalQuestions)
}

// AnswerAttempt is one row of the append-only answer history. Rows are never
// mutated after insert; IdempotencyKey is unique across all attempts.
type AnswerAttempt struct {
	ID             string    `json:"id"`
	UserID         string    `json:"user_id"`
	QuestionID     string    `json:"question_id"`
	Difficulty     int       `json:"difficulty"`
	Answer         string    `json:"answer"`
	Correct        bool      `json:"correct"`
	ScoreDelta     float64   `json:"score_delta"`
	StreakAtAnswer int       `json:"streak_at_answer"`
	IdempotencyKey string    `json:"idempotency_key"`
	SessionID      string    `json:"session_id"`
	AnsweredAt     time.Time `json:"answered_at"`
}

// Question is a quiz question. AnswerFingerprint is the SHA-256 hex digest of
// the normalized correct answer; the plaintext answer is never stored.
type Question struct {
	ID                string    `json:"id"`
	Difficulty        int       `json:"difficulty"`
	Prompt            string    `json:"prompt"`
	Choices           []string  `json:"choices"`
	AnswerFingerprint string    `json:"-"`
	Tags              []string  `json:"tags,omitempty"`
	CreatedAt         time.Time `json:"created_at,omitempty"`
}

// ScoreboardEntry is one row of the score leaderboard projection.
type ScoreboardEntry struct {
	UserID         string    `json:"user_id"`
	TotalScore     float64   `json:"total_score"`
	TotalQuestions int       `json:"total_questions"`
	Accuracy       float64   `json:"accuracy"`
	UpdatedAt      time.Time `json:"updated_at,omitempty"`
}

// StreakBoardEntry is one row of the streak leaderboard projection. The live
// board ranks by CurrentStreak with MaxStreak as the tiebreak.
type StreakBoardEntry struct {
	UserID        string    `json:"user_id"`
	MaxStreak     int       `json:"max_streak"`
	CurrentStreak int       `json:"current_streak"`
	UpdatedAt     time.Time `json:"updated_at,omitempty"`
}

// Ranks holds a user's positions on both leaderboards (1-based).
type Ranks struct {
	ScoreRank  int `json:"score_rank"`
	StreakRank int `json:"streak_rank"`
}

// LeaderboardKind selects which leaderboard to query.
type LeaderboardKind string

// Leaderboard kinds
const (
	LeaderboardScore  LeaderboardKind = "score"
	LeaderboardStreak LeaderboardKind = "streak"
)

// Leaderboard is a leaderboard page plus the requesting user's own rank.
type Leaderboard struct {
	Kind     LeaderboardKind    `json:"kind"`
	Scores   []ScoreboardEntry  `json:"scores,omitempty"`
	Streaks  []StreakBoardEntry `json:"streaks,omitempty"`
	UserRank int                `json:"user_rank,omitempty"`
}

// DifficultyBucket is one bar of the per-difficulty answer histogram.
type DifficultyBucket struct {
	Difficulty int `json:"difficulty"`
	Count      int `json:"count"`
}

// RecentAttempt is a compact view of a recent answer for the metrics endpoint.
type RecentAttempt struct {
	Correct    bool      `json:"correct"`
	Difficulty int       `json:"difficulty"`
	AnsweredAt time.Time `json:"answered_at"`
}

// UserMetrics is the aggregated performance view for a user.
type UserMetrics struct {
	Difficulty          int                `json:"current_difficulty"`
	Streak              int                `json:"streak"`
	MaxStreak           int                `json:"max_streak"`
	TotalScore          float64            `json:"total_score"`
	Accuracy            float64            `json:"accuracy"`
	TotalQuestions      int                `json:"total_questions"`
	CorrectAnswers      int                `json:"correct_answers"`
	DifficultyHistogram []DifficultyBucket `json:"difficulty_histogram"`
	RecentPerformance   []RecentAttempt    `json:"recent_performance"`
}

// SubmitAnswerRequest is the payload for an answer submission. UserID is
// filled from the authenticated caller, not from the body.
type SubmitAnswerRequest struct {
	UserID         string `json:"-"`
	SessionID      string `json:"session_id" binding:"required"`
	QuestionID     string `json:"question_id" binding:"required"`
	Answer         string `json:"answer" binding:"required"`
	StateVersion   int    `json:"state_version"`
	IdempotencyKey string `json:"idempotency_key" binding:"required"`
}

// SubmitAnswerResult is the outcome of a committed (or replayed) submission.
type SubmitAnswerResult struct {
	Correct       bool    `json:"correct"`
	NewDifficulty int     `json:"new_difficulty"`
	NewStreak     int     `json:"new_streak"`
	ScoreDelta    float64 `json:"score_delta"`
	TotalScore    float64 `json:"total_score"`
	StateVersion  int     `json:"state_version"`
	ScoreRank     int     `json:"leaderboard_rank_score"`
	StreakRank    int     `json:"leaderboard_rank_streak"`
}

// NextQuestionResult is the response for a next-question request. The question
// view never includes the answer fingerprint.
type NextQuestionResult struct {
	Question  *Question  `json:"question"`
	UserState *UserState `json:"user_state"`
	SessionID string     `json:"session_id"`
}
