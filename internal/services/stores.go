package services

import (
	"context"

	"quizarena/internal/models"
)

// UserStateStore persists the per-user adaptive state. Implementations must
// treat the state version as a compare-and-swap token: ForUpdate only returns
// a row whose version still matches, and locks it for the enclosing
// transaction.
type UserStateStore interface {
	// Get returns the user's state, or contextutils.ErrRecordNotFound.
	Get(ctx context.Context, userID string) (*models.UserState, error)
	// Create inserts a fresh state row.
	Create(ctx context.Context, state *models.UserState) error
	// ForUpdate loads the state locked for update, filtered by both userID
	// and the expected version. A missing row means another submission
	// already advanced the state: contextutils.ErrVersionConflict.
	ForUpdate(ctx context.Context, userID string, expectedVersion int) (*models.UserState, error)
	// Save writes the full state row keyed by userID.
	Save(ctx context.Context, state *models.UserState) error
	// ResetStreak zeroes the current streak only, leaving maxStreak and the
	// version untouched. Used by lazy streak decay on read.
	ResetStreak(ctx context.Context, userID string) error
}

// AnswerHistoryStore is the append-only answer history.
type AnswerHistoryStore interface {
	// ByIdempotencyKey returns the recorded attempt for the key, or
	// contextutils.ErrRecordNotFound.
	ByIdempotencyKey(ctx context.Context, key string) (*models.AnswerAttempt, error)
	// Insert appends one attempt. The idempotency key is unique.
	Insert(ctx context.Context, attempt *models.AnswerAttempt) error
	// DifficultyHistogram returns per-difficulty answer counts for a user.
	DifficultyHistogram(ctx context.Context, userID string) ([]models.DifficultyBucket, error)
	// RecentAttempts returns the most recent attempts, newest first.
	RecentAttempts(ctx context.Context, userID string, limit int) ([]models.RecentAttempt, error)
}

// RankingStore maintains the leaderboard projections and rank queries.
type RankingStore interface {
	UpsertScore(ctx context.Context, entry *models.ScoreboardEntry) error
	UpsertStreak(ctx context.Context, entry *models.StreakBoardEntry) error
	// Ranks returns the user's 1-based positions on both boards.
	Ranks(ctx context.Context, userID string) (*models.Ranks, error)
	TopByScore(ctx context.Context, limit int) ([]models.ScoreboardEntry, error)
	TopByStreak(ctx context.Context, limit int) ([]models.StreakBoardEntry, error)
}

// Stores bundles the three stores behind a single transaction boundary.
// Outside InTx the stores run on the connection pool; inside the callback
// every store is bound to the same transaction, so state save, history insert
// and leaderboard upserts commit or roll back together.
type Stores interface {
	States() UserStateStore
	History() AnswerHistoryStore
	Ranks() RankingStore
	// InTx runs fn within one transaction. Any error (or panic) rolls the
	// transaction back and no partial writes survive.
	InTx(ctx context.Context, fn func(tx Stores) error) error
}
