package services

import (
	"context"
	"database/sql"
	"errors"

	"quizarena/internal/models"
	"quizarena/internal/observability"
	contextutils "quizarena/internal/utils"

	"github.com/lib/pq"
)

// querier is satisfied by both *sql.DB and *sql.Tx so the same store code
// runs pooled or transaction-bound.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// PostgresStores implements Stores on PostgreSQL.
type PostgresStores struct {
	db     *sql.DB
	q      querier
	logger *observability.Logger
}

// NewPostgresStores creates the store bundle backed by the given connection pool.
func NewPostgresStores(db *sql.DB, logger *observability.Logger) *PostgresStores {
	return &PostgresStores{db: db, q: db, logger: logger}
}

// States returns the user state store.
func (s *PostgresStores) States() UserStateStore { return &postgresUserStateStore{s} }

// History returns the answer history store.
func (s *PostgresStores) History() AnswerHistoryStore { return &postgresAnswerHistoryStore{s} }

// Ranks returns the ranking store.
func (s *PostgresStores) Ranks() RankingStore { return &postgresRankingStore{s} }

// InTx runs fn inside one database transaction. Nested calls reuse the
// enclosing transaction.
func (s *PostgresStores) InTx(ctx context.Context, fn func(tx Stores) error) (err error) {
	if _, nested := s.q.(*sql.Tx); nested {
		return fn(s)
	}

	ctx, span := observability.TraceDatabaseFunction(ctx, "in_tx")
	defer observability.FinishSpan(span, &err)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return contextutils.WrapError(err, "failed to begin transaction")
	}

	txStores := &PostgresStores{db: s.db, q: tx, logger: s.logger}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err = fn(txStores); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			s.logger.Error(ctx, "Failed to roll back transaction", rbErr, nil)
		}
		return err
	}

	if err = tx.Commit(); err != nil {
		return contextutils.WrapError(contextutils.NewAppErrorWithCause(
			contextutils.ErrorCodeDatabaseTransaction,
			contextutils.SeverityError,
			"Database transaction failed",
			"commit failed",
			err,
		), "failed to commit transaction")
	}
	return nil
}

// postgresUserStateStore implements UserStateStore.
type postgresUserStateStore struct {
	s *PostgresStores
}

const userStateColumns = `user_id, current_difficulty, streak, max_streak, total_score,
		total_questions, correct_answers, difficulty_momentum, consecutive_correct,
		consecutive_wrong, last_question_id, last_answer_at, state_version, created_at, updated_at`

func scanUserState(row *sql.Row) (*models.UserState, error) {
	var state models.UserState
	err := row.Scan(
		&state.UserID,
		&state.Difficulty,
		&state.Streak,
		&state.MaxStreak,
		&state.TotalScore,
		&state.TotalQuestions,
		&state.CorrectAnswers,
		&state.Momentum,
		&state.ConsecutiveCorrect,
		&state.ConsecutiveWrong,
		&state.LastQuestionID,
		&state.LastAnswerAt,
		&state.Version,
		&state.CreatedAt,
		&state.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &state, nil
}

func (st *postgresUserStateStore) Get(ctx context.Context, userID string) (result0 *models.UserState, err error) {
	ctx, span := observability.TraceDatabaseFunction(ctx, "user_state_get",
		observability.AttributeUserID(userID),
	)
	defer observability.FinishSpan(span, &err)

	query := `SELECT ` + userStateColumns + ` FROM user_state WHERE user_id = $1`
	state, err := scanUserState(st.s.q.QueryRowContext(ctx, query, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, contextutils.ErrRecordNotFound
		}
		return nil, contextutils.WrapError(err, "failed to load user state")
	}
	return state, nil
}

func (st *postgresUserStateStore) Create(ctx context.Context, state *models.UserState) (err error) {
	ctx, span := observability.TraceDatabaseFunction(ctx, "user_state_create",
		observability.AttributeUserID(state.UserID),
	)
	defer observability.FinishSpan(span, &err)

	query := `
		INSERT INTO user_state (user_id, current_difficulty, streak, max_streak, total_score,
			total_questions, correct_answers, difficulty_momentum, consecutive_correct,
			consecutive_wrong, last_question_id, last_answer_at, state_version)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	_, err = st.s.q.ExecContext(ctx, query,
		state.UserID,
		state.Difficulty,
		state.Streak,
		state.MaxStreak,
		state.TotalScore,
		state.TotalQuestions,
		state.CorrectAnswers,
		state.Momentum,
		state.ConsecutiveCorrect,
		state.ConsecutiveWrong,
		state.LastQuestionID,
		state.LastAnswerAt,
		state.Version,
	)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return contextutils.ErrRecordExists
		}
		return contextutils.WrapError(err, "failed to create user state")
	}
	return nil
}

// ForUpdate locks the row for the duration of the enclosing transaction.
// Filtering by state_version is the optimistic-concurrency guard: a stale
// version matches no row and surfaces as ErrVersionConflict.
func (st *postgresUserStateStore) ForUpdate(ctx context.Context, userID string, expectedVersion int) (result0 *models.UserState, err error) {
	ctx, span := observability.TraceDatabaseFunction(ctx, "user_state_for_update",
		observability.AttributeUserID(userID),
		observability.AttributeStateVersion(expectedVersion),
	)
	defer observability.FinishSpan(span, &err)

	query := `SELECT ` + userStateColumns + `
		FROM user_state WHERE user_id = $1 AND state_version = $2 FOR UPDATE`
	state, err := scanUserState(st.s.q.QueryRowContext(ctx, query, userID, expectedVersion))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, contextutils.ErrVersionConflict
		}
		return nil, contextutils.WrapError(err, "failed to lock user state")
	}
	return state, nil
}

func (st *postgresUserStateStore) Save(ctx context.Context, state *models.UserState) (err error) {
	ctx, span := observability.TraceDatabaseFunction(ctx, "user_state_save",
		observability.AttributeUserID(state.UserID),
		observability.AttributeStateVersion(state.Version),
	)
	defer observability.FinishSpan(span, &err)

	query := `
		UPDATE user_state
		SET current_difficulty = $2,
			streak = $3,
			max_streak = $4,
			total_score = $5,
			total_questions = $6,
			correct_answers = $7,
			difficulty_momentum = $8,
			consecutive_correct = $9,
			consecutive_wrong = $10,
			last_question_id = $11,
			last_answer_at = $12,
			state_version = $13,
			updated_at = NOW()
		WHERE user_id = $1
	`
	_, err = st.s.q.ExecContext(ctx, query,
		state.UserID,
		state.Difficulty,
		state.Streak,
		state.MaxStreak,
		state.TotalScore,
		state.TotalQuestions,
		state.CorrectAnswers,
		state.Momentum,
		state.ConsecutiveCorrect,
		state.ConsecutiveWrong,
		state.LastQuestionID,
		state.LastAnswerAt,
		state.Version,
	)
	if err != nil {
		return contextutils.WrapError(err, "failed to save user state")
	}
	return nil
}

func (st *postgresUserStateStore) ResetStreak(ctx context.Context, userID string) (err error) {
	ctx, span := observability.TraceDatabaseFunction(ctx, "user_state_reset_streak",
		observability.AttributeUserID(userID),
	)
	defer observability.FinishSpan(span, &err)

	_, err = st.s.q.ExecContext(ctx,
		`UPDATE user_state SET streak = 0, updated_at = NOW() WHERE user_id = $1`, userID)
	if err != nil {
		return contextutils.WrapError(err, "failed to reset streak")
	}
	return nil
}

// postgresAnswerHistoryStore implements AnswerHistoryStore.
type postgresAnswerHistoryStore struct {
	s *PostgresStores
}

func (h *postgresAnswerHistoryStore) ByIdempotencyKey(ctx context.Context, key string) (result0 *models.AnswerAttempt, err error) {
	ctx, span := observability.TraceDatabaseFunction(ctx, "answer_log_by_idempotency_key")
	defer observability.FinishSpan(span, &err)

	query := `
		SELECT id, user_id, question_id, difficulty, answer, correct, score_delta,
			streak_at_answer, idempotency_key, session_id, answered_at
		FROM answer_log WHERE idempotency_key = $1
	`
	var attempt models.AnswerAttempt
	err = h.s.q.QueryRowContext(ctx, query, key).Scan(
		&attempt.ID,
		&attempt.UserID,
		&attempt.QuestionID,
		&attempt.Difficulty,
		&attempt.Answer,
		&attempt.Correct,
		&attempt.ScoreDelta,
		&attempt.StreakAtAnswer,
		&attempt.IdempotencyKey,
		&attempt.SessionID,
		&attempt.AnsweredAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, contextutils.ErrRecordNotFound
		}
		return nil, contextutils.WrapError(err, "failed to look up idempotency key")
	}
	return &attempt, nil
}

func (h *postgresAnswerHistoryStore) Insert(ctx context.Context, attempt *models.AnswerAttempt) (err error) {
	ctx, span := observability.TraceDatabaseFunction(ctx, "answer_log_insert",
		observability.AttributeUserID(attempt.UserID),
	)
	defer observability.FinishSpan(span, &err)

	query := `
		INSERT INTO answer_log (id, user_id, question_id, difficulty, answer, correct,
			score_delta, streak_at_answer, idempotency_key, session_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err = h.s.q.ExecContext(ctx, query,
		attempt.ID,
		attempt.UserID,
		attempt.QuestionID,
		attempt.Difficulty,
		attempt.Answer,
		attempt.Correct,
		attempt.ScoreDelta,
		attempt.StreakAtAnswer,
		attempt.IdempotencyKey,
		attempt.SessionID,
	)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return contextutils.ErrDuplicateSubmission
		}
		return contextutils.WrapError(err, "failed to insert answer attempt")
	}
	return nil
}

func (h *postgresAnswerHistoryStore) DifficultyHistogram(ctx context.Context, userID string) (result0 []models.DifficultyBucket, err error) {
	ctx, span := observability.TraceDatabaseFunction(ctx, "answer_log_difficulty_histogram",
		observability.AttributeUserID(userID),
	)
	defer observability.FinishSpan(span, &err)

	rows, err := h.s.q.QueryContext(ctx, `
		SELECT difficulty, COUNT(*) AS count
		FROM answer_log
		WHERE user_id = $1
		GROUP BY difficulty
		ORDER BY difficulty
	`, userID)
	if err != nil {
		return nil, contextutils.WrapError(err, "failed to query difficulty histogram")
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			h.s.logger.Warn(ctx, "Failed to close rows", map[string]interface{}{"error": closeErr.Error()})
		}
	}()

	var buckets []models.DifficultyBucket
	for rows.Next() {
		var b models.DifficultyBucket
		if err := rows.Scan(&b.Difficulty, &b.Count); err != nil {
			return nil, contextutils.WrapError(err, "failed to scan histogram bucket")
		}
		buckets = append(buckets, b)
	}
	if err := rows.Err(); err != nil {
		return nil, contextutils.WrapError(err, "failed to iterate histogram rows")
	}
	return buckets, nil
}

func (h *postgresAnswerHistoryStore) RecentAttempts(ctx context.Context, userID string, limit int) (result0 []models.RecentAttempt, err error) {
	ctx, span := observability.TraceDatabaseFunction(ctx, "answer_log_recent_attempts",
		observability.AttributeUserID(userID),
	)
	defer observability.FinishSpan(span, &err)

	rows, err := h.s.q.QueryContext(ctx, `
		SELECT correct, difficulty, answered_at
		FROM answer_log
		WHERE user_id = $1
		ORDER BY answered_at DESC
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, contextutils.WrapError(err, "failed to query recent attempts")
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			h.s.logger.Warn(ctx, "Failed to close rows", map[string]interface{}{"error": closeErr.Error()})
		}
	}()

	var attempts []models.RecentAttempt
	for rows.Next() {
		var a models.RecentAttempt
		if err := rows.Scan(&a.Correct, &a.Difficulty, &a.AnsweredAt); err != nil {
			return nil, contextutils.WrapError(err, "failed to scan recent attempt")
		}
		attempts = append(attempts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, contextutils.WrapError(err, "failed to iterate recent attempts")
	}
	return attempts, nil
}

// postgresRankingStore implements RankingStore.
type postgresRankingStore struct {
	s *PostgresStores
}

func (r *postgresRankingStore) UpsertScore(ctx context.Context, entry *models.ScoreboardEntry) (err error) {
	ctx, span := observability.TraceDatabaseFunction(ctx, "leaderboard_upsert_score",
		observability.AttributeUserID(entry.UserID),
	)
	defer observability.FinishSpan(span, &err)

	query := `
		INSERT INTO leaderboard_score (user_id, total_score, total_questions, accuracy)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id)
		DO UPDATE SET total_score = $2, total_questions = $3, accuracy = $4, updated_at = NOW()
	`
	_, err = r.s.q.ExecContext(ctx, query, entry.UserID, entry.TotalScore, entry.TotalQuestions, entry.Accuracy)
	if err != nil {
		return contextutils.WrapError(err, "failed to upsert score leaderboard entry")
	}
	return nil
}

func (r *postgresRankingStore) UpsertStreak(ctx context.Context, entry *models.StreakBoardEntry) (err error) {
	ctx, span := observability.TraceDatabaseFunction(ctx, "leaderboard_upsert_streak",
		observability.AttributeUserID(entry.UserID),
	)
	defer observability.FinishSpan(span, &err)

	query := `
		INSERT INTO leaderboard_streak (user_id, max_streak, current_streak)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id)
		DO UPDATE SET max_streak = $2, current_streak = $3, updated_at = NOW()
	`
	_, err = r.s.q.ExecContext(ctx, query, entry.UserID, entry.MaxStreak, entry.CurrentStreak)
	if err != nil {
		return contextutils.WrapError(err, "failed to upsert streak leaderboard entry")
	}
	return nil
}

// Ranks computes 1-based positions: users with a strictly better value rank
// ahead. The streak board ranks by current streak (live board), not max.
func (r *postgresRankingStore) Ranks(ctx context.Context, userID string) (result0 *models.Ranks, err error) {
	ctx, span := observability.TraceDatabaseFunction(ctx, "leaderboard_ranks",
		observability.AttributeUserID(userID),
	)
	defer observability.FinishSpan(span, &err)

	// Rank 0 means the user has no entry on that board yet.
	var ranks models.Ranks
	err = r.s.q.QueryRowContext(ctx, `
		SELECT CASE WHEN EXISTS (SELECT 1 FROM leaderboard_score WHERE user_id = $1)
			THEN (SELECT COUNT(*) + 1 FROM leaderboard_score
				WHERE total_score > (SELECT total_score FROM leaderboard_score WHERE user_id = $1))
			ELSE 0 END
	`, userID).Scan(&ranks.ScoreRank)
	if err != nil {
		return nil, contextutils.WrapError(err, "failed to query score rank")
	}

	err = r.s.q.QueryRowContext(ctx, `
		SELECT CASE WHEN EXISTS (SELECT 1 FROM leaderboard_streak WHERE user_id = $1)
			THEN (SELECT COUNT(*) + 1 FROM leaderboard_streak
				WHERE current_streak > (SELECT current_streak FROM leaderboard_streak WHERE user_id = $1))
			ELSE 0 END
	`, userID).Scan(&ranks.StreakRank)
	if err != nil {
		return nil, contextutils.WrapError(err, "failed to query streak rank")
	}

	return &ranks, nil
}

func (r *postgresRankingStore) TopByScore(ctx context.Context, limit int) (result0 []models.ScoreboardEntry, err error) {
	ctx, span := observability.TraceDatabaseFunction(ctx, "leaderboard_top_by_score",
		observability.AttributeLimit(limit),
	)
	defer observability.FinishSpan(span, &err)

	rows, err := r.s.q.QueryContext(ctx, `
		SELECT user_id, total_score, total_questions, accuracy, updated_at
		FROM leaderboard_score
		ORDER BY total_score DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, contextutils.WrapError(err, "failed to query score leaderboard")
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			r.s.logger.Warn(ctx, "Failed to close rows", map[string]interface{}{"error": closeErr.Error()})
		}
	}()

	var entries []models.ScoreboardEntry
	for rows.Next() {
		var e models.ScoreboardEntry
		if err := rows.Scan(&e.UserID, &e.TotalScore, &e.TotalQuestions, &e.Accuracy, &e.UpdatedAt); err != nil {
			return nil, contextutils.WrapError(err, "failed to scan scoreboard entry")
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, contextutils.WrapError(err, "failed to iterate scoreboard entries")
	}
	return entries, nil
}

func (r *postgresRankingStore) TopByStreak(ctx context.Context, limit int) (result0 []models.StreakBoardEntry, err error) {
	ctx, span := observability.TraceDatabaseFunction(ctx, "leaderboard_top_by_streak",
		observability.AttributeLimit(limit),
	)
	defer observability.FinishSpan(span, &err)

	// Live streak board: current streak first, max streak as tiebreak, and
	// users with no active streak are not shown.
	rows, err := r.s.q.QueryContext(ctx, `
		SELECT user_id, max_streak, current_streak, updated_at
		FROM leaderboard_streak
		WHERE current_streak > 0
		ORDER BY current_streak DESC, max_streak DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, contextutils.WrapError(err, "failed to query streak leaderboard")
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			r.s.logger.Warn(ctx, "Failed to close rows", map[string]interface{}{"error": closeErr.Error()})
		}
	}()

	var entries []models.StreakBoardEntry
	for rows.Next() {
		var e models.StreakBoardEntry
		if err := rows.Scan(&e.UserID, &e.MaxStreak, &e.CurrentStreak, &e.UpdatedAt); err != nil {
			return nil, contextutils.WrapError(err, "failed to scan streak board entry")
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, contextutils.WrapError(err, "failed to iterate streak board entries")
	}
	return entries, nil
}
