package services

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"math/rand"
	"strings"
	"time"

	"quizarena/internal/config"
	"quizarena/internal/models"
	"quizarena/internal/observability"
	contextutils "quizarena/internal/utils"

	"github.com/google/uuid"
)

// QuizServiceInterface defines the interface for the quiz serving path:
// answer submission, state reads, question selection, metrics and
// leaderboards. This allows for easier mocking in tests.
type QuizServiceInterface interface {
	SubmitAnswer(ctx context.Context, req *models.SubmitAnswerRequest) (*models.SubmitAnswerResult, error)
	GetUserState(ctx context.Context, userID string) (*models.UserState, error)
	GetNextQuestion(ctx context.Context, userID, sessionID string) (*models.NextQuestionResult, error)
	GetUserMetrics(ctx context.Context, userID string) (*models.UserMetrics, error)
	GetLeaderboard(ctx context.Context, kind models.LeaderboardKind, limit int, userID string) (*models.Leaderboard, error)
}

// QuizService is the answer orchestrator. All state mutation goes through
// SubmitAnswer, which runs in a single transaction under an optimistic
// version guard; everything else is read-only.
type QuizService struct {
	stores    Stores
	questions QuestionServiceInterface
	cache     QuizCacheInterface
	cfg       *config.Config
	logger    *observability.Logger
	now       func() time.Time
}

// NewQuizService creates a new quiz service.
func NewQuizService(stores Stores, questions QuestionServiceInterface, cache QuizCacheInterface, cfg *config.Config, logger *observability.Logger) *QuizService {
	return &QuizService{
		stores:    stores,
		questions: questions,
		cache:     cache,
		cfg:       cfg,
		logger:    logger,
		now:       time.Now,
	}
}

// HashAnswer returns the SHA-256 hex fingerprint of a normalized answer.
// Normalization is lowercase + trimmed whitespace, so "  Paris " and "paris"
// compare equal. The same function fingerprints catalog answers at seed time.
func HashAnswer(answer string) string {
	normalized := strings.ToLower(strings.TrimSpace(answer))
	sum := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(sum[:])
}

// SubmitAnswer processes one answer submission atomically:
//
//  1. idempotency replay check, before anything else
//  2. version-guarded locked load of the user's state
//  3. grading against the question's answer fingerprint
//  4. adaptive transition and score update
//  5. state save (version+1), history append, leaderboard upserts
//
// A replayed submission (same idempotency key) returns the recorded grading
// outcome combined with the user's CURRENT totals and fresh ranks; it never
// mutates anything. On ErrVersionConflict nothing is written and the client
// must reload state before retrying.
func (s *QuizService) SubmitAnswer(ctx context.Context, req *models.SubmitAnswerRequest) (result0 *models.SubmitAnswerResult, err error) {
	ctx, span := observability.TraceQuizFunction(ctx, "submit_answer",
		observability.AttributeUserID(req.UserID),
		observability.AttributeQuestionID(req.QuestionID),
		observability.AttributeStateVersion(req.StateVersion),
		observability.AttributeIdempotencyKey(req.IdempotencyKey),
	)
	defer observability.FinishSpan(span, &err)

	var result *models.SubmitAnswerResult

	err = s.stores.InTx(ctx, func(tx Stores) error {
		prior, err := tx.History().ByIdempotencyKey(ctx, req.IdempotencyKey)
		if err == nil {
			result, err = s.replaySubmission(ctx, tx, prior)
			return err
		}
		if !contextutils.IsError(err, contextutils.ErrRecordNotFound) {
			return err
		}

		question, err := s.questions.GetQuestionByID(ctx, req.QuestionID)
		if err != nil {
			return err
		}

		state, err := tx.States().ForUpdate(ctx, req.UserID, req.StateVersion)
		if err != nil {
			return err
		}

		correct := HashAnswer(req.Answer) == question.AnswerFingerprint

		// The adaptive transition runs on the user's own difficulty level,
		// not the question's: questions are drawn from a range around the
		// level and must not perturb it directly.
		adaptive := CalculateAdaptiveDifficulty(state, correct, state.Difficulty)

		now := s.now()
		state.Difficulty = adaptive.NewDifficulty
		state.Streak = adaptive.NewStreak
		if adaptive.NewStreak > state.MaxStreak {
			state.MaxStreak = adaptive.NewStreak
		}
		state.Momentum = adaptive.NewMomentum
		state.ConsecutiveCorrect = adaptive.NewConsecutiveCorrect
		state.ConsecutiveWrong = adaptive.NewConsecutiveWrong
		state.TotalScore += adaptive.ScoreDelta
		state.TotalQuestions++
		if correct {
			state.CorrectAnswers++
		}
		state.LastQuestionID = sql.NullString{String: question.ID, Valid: true}
		state.LastAnswerAt = sql.NullTime{Time: now, Valid: true}
		state.Version++

		if err := tx.States().Save(ctx, state); err != nil {
			return err
		}

		attempt := &models.AnswerAttempt{
			ID:             uuid.New().String(),
			UserID:         req.UserID,
			QuestionID:     question.ID,
			Difficulty:     question.Difficulty,
			Answer:         req.Answer,
			Correct:        correct,
			ScoreDelta:     adaptive.ScoreDelta,
			StreakAtAnswer: adaptive.NewStreak,
			IdempotencyKey: req.IdempotencyKey,
			SessionID:      req.SessionID,
			AnsweredAt:     now,
		}
		if err := tx.History().Insert(ctx, attempt); err != nil {
			return err
		}

		if err := tx.Ranks().UpsertScore(ctx, &models.ScoreboardEntry{
			UserID:         state.UserID,
			TotalScore:     state.TotalScore,
			TotalQuestions: state.TotalQuestions,
			Accuracy:       state.Accuracy(),
		}); err != nil {
			return err
		}
		if err := tx.Ranks().UpsertStreak(ctx, &models.StreakBoardEntry{
			UserID:        state.UserID,
			MaxStreak:     state.MaxStreak,
			CurrentStreak: state.Streak,
		}); err != nil {
			return err
		}

		ranks, err := tx.Ranks().Ranks(ctx, state.UserID)
		if err != nil {
			return err
		}

		result = &models.SubmitAnswerResult{
			Correct:       correct,
			NewDifficulty: state.Difficulty,
			NewStreak:     state.Streak,
			ScoreDelta:    adaptive.ScoreDelta,
			TotalScore:    state.TotalScore,
			StateVersion:  state.Version,
			ScoreRank:     ranks.ScoreRank,
			StreakRank:    ranks.StreakRank,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidateAfterSubmit(ctx, req.UserID)
	return result, nil
}

// replaySubmission rebuilds the response for an already-processed submission.
// The grading outcome (correct, score delta, streak at that answer) comes
// from the recorded attempt; totals, version and ranks reflect the current
// durable state so a delayed retry still sees where the user stands now.
func (s *QuizService) replaySubmission(ctx context.Context, tx Stores, attempt *models.AnswerAttempt) (*models.SubmitAnswerResult, error) {
	s.logger.Info(ctx, "Replaying duplicate submission", map[string]interface{}{
		"user_id":         attempt.UserID,
		"idempotency_key": attempt.IdempotencyKey,
	})

	state, err := tx.States().Get(ctx, attempt.UserID)
	if err != nil {
		return nil, err
	}
	ranks, err := tx.Ranks().Ranks(ctx, attempt.UserID)
	if err != nil {
		return nil, err
	}

	return &models.SubmitAnswerResult{
		Correct:       attempt.Correct,
		NewDifficulty: state.Difficulty,
		NewStreak:     attempt.StreakAtAnswer,
		ScoreDelta:    attempt.ScoreDelta,
		TotalScore:    state.TotalScore,
		StateVersion:  state.Version,
		ScoreRank:     ranks.ScoreRank,
		StreakRank:    ranks.StreakRank,
	}, nil
}

func (s *QuizService) invalidateAfterSubmit(ctx context.Context, userID string) {
	s.cache.InvalidateUserState(ctx, userID)
	s.cache.InvalidateUserMetrics(ctx, userID)
	s.cache.InvalidateLeaderboards(ctx)
}

// GetUserState returns the user's adaptive state, creating the initial state
// on first access. The current streak decays lazily here: when the user has
// been inactive for more than the decay window the streak resets to 0 before
// the state is returned. MaxStreak and the state version are unaffected.
func (s *QuizService) GetUserState(ctx context.Context, userID string) (result0 *models.UserState, err error) {
	ctx, span := observability.TraceQuizFunction(ctx, "get_user_state",
		observability.AttributeUserID(userID),
	)
	defer observability.FinishSpan(span, &err)

	if cached, ok := s.cache.GetUserState(ctx, userID); ok {
		if !s.applyStreakDecay(ctx, cached) {
			return cached, nil
		}
		// Decay invalidated the cached copy, fall through to a fresh load
	}

	state, err := s.stores.States().Get(ctx, userID)
	if contextutils.IsError(err, contextutils.ErrRecordNotFound) {
		state = models.NewUserState(userID)
		if createErr := s.stores.States().Create(ctx, state); createErr != nil {
			// Lost a creation race, the other writer's row wins
			if !contextutils.IsError(createErr, contextutils.ErrRecordExists) {
				return nil, createErr
			}
			state, err = s.stores.States().Get(ctx, userID)
			if err != nil {
				return nil, err
			}
		}
	} else if err != nil {
		return nil, err
	}

	if s.applyStreakDecay(ctx, state) {
		if err := s.stores.States().ResetStreak(ctx, userID); err != nil {
			return nil, err
		}
		state.Streak = 0
	}

	s.cache.SetUserState(ctx, state)
	return state, nil
}

// applyStreakDecay reports whether the state's current streak is stale. It
// does not touch storage.
func (s *QuizService) applyStreakDecay(ctx context.Context, state *models.UserState) bool {
	if state.Streak == 0 || !state.LastAnswerAt.Valid {
		return false
	}
	if !ShouldDecayStreak(state.LastAnswerAt.Time, s.now()) {
		return false
	}
	s.cache.InvalidateUserState(ctx, state.UserID)
	return true
}

// GetNextQuestion picks a question from the pool around the user's current
// difficulty level ({level-1, level, level+1} clipped to bounds). The most
// recently answered question is excluded when the pool offers alternatives.
// The returned question never carries the answer fingerprint.
func (s *QuizService) GetNextQuestion(ctx context.Context, userID, sessionID string) (result0 *models.NextQuestionResult, err error) {
	ctx, span := observability.TraceQuizFunction(ctx, "get_next_question",
		observability.AttributeUserID(userID),
	)
	defer observability.FinishSpan(span, &err)

	state, err := s.GetUserState(ctx, userID)
	if err != nil {
		return nil, err
	}

	difficulties := GetDifficultyRange(state.Difficulty)
	pool, err := s.questions.GetQuestionsByDifficulties(ctx, difficulties, s.cfg.Quiz.QuestionPoolSize)
	if err != nil {
		return nil, err
	}

	if state.LastQuestionID.Valid && len(pool) > 1 {
		filtered := make([]models.Question, 0, len(pool))
		for _, q := range pool {
			if q.ID != state.LastQuestionID.String {
				filtered = append(filtered, q)
			}
		}
		if len(filtered) > 0 {
			pool = filtered
		}
	}

	if len(pool) == 0 {
		return nil, contextutils.ErrNoQuestionsAvailable
	}

	question := pool[rand.Intn(len(pool))]
	question.AnswerFingerprint = ""

	if sessionID == "" {
		sessionID = uuid.New().String()
	}

	return &models.NextQuestionResult{
		Question:  &question,
		UserState: state,
		SessionID: sessionID,
	}, nil
}

// recentPerformanceLimit is how many recent answers the metrics view shows.
const recentPerformanceLimit = 10

// GetUserMetrics returns the aggregated performance view for a user.
func (s *QuizService) GetUserMetrics(ctx context.Context, userID string) (result0 *models.UserMetrics, err error) {
	ctx, span := observability.TraceQuizFunction(ctx, "get_user_metrics",
		observability.AttributeUserID(userID),
	)
	defer observability.FinishSpan(span, &err)

	if cached, ok := s.cache.GetUserMetrics(ctx, userID); ok {
		return cached, nil
	}

	state, err := s.GetUserState(ctx, userID)
	if err != nil {
		return nil, err
	}

	histogram, err := s.stores.History().DifficultyHistogram(ctx, userID)
	if err != nil {
		return nil, err
	}
	recent, err := s.stores.History().RecentAttempts(ctx, userID, recentPerformanceLimit)
	if err != nil {
		return nil, err
	}

	metrics := &models.UserMetrics{
		Difficulty:          state.Difficulty,
		Streak:              state.Streak,
		MaxStreak:           state.MaxStreak,
		TotalScore:          state.TotalScore,
		Accuracy:            state.Accuracy(),
		TotalQuestions:      state.TotalQuestions,
		CorrectAnswers:      state.CorrectAnswers,
		DifficultyHistogram: histogram,
		RecentPerformance:   recent,
	}

	s.cache.SetUserMetrics(ctx, userID, metrics)
	return metrics, nil
}

// GetLeaderboard returns a leaderboard page. The page itself is cached per
// kind and limit; the requesting user's own rank is always computed fresh.
func (s *QuizService) GetLeaderboard(ctx context.Context, kind models.LeaderboardKind, limit int, userID string) (result0 *models.Leaderboard, err error) {
	ctx, span := observability.TraceLeaderboardFunction(ctx, "get_leaderboard",
		observability.AttributeLimit(limit),
	)
	defer observability.FinishSpan(span, &err)

	if limit <= 0 || limit > s.cfg.Quiz.LeaderboardLimit {
		limit = s.cfg.Quiz.LeaderboardLimit
	}

	board, cached := s.cache.GetLeaderboard(ctx, kind, limit)
	if !cached {
		board = &models.Leaderboard{Kind: kind}
		switch kind {
		case models.LeaderboardStreak:
			board.Streaks, err = s.stores.Ranks().TopByStreak(ctx, limit)
		case models.LeaderboardScore:
			board.Scores, err = s.stores.Ranks().TopByScore(ctx, limit)
		default:
			return nil, contextutils.WrapErrorf(contextutils.ErrInvalidInput, "unknown leaderboard kind: %s", kind)
		}
		if err != nil {
			return nil, err
		}
		s.cache.SetLeaderboard(ctx, kind, limit, board)
	}

	if userID != "" {
		ranks, err := s.stores.Ranks().Ranks(ctx, userID)
		if err != nil {
			return nil, err
		}
		// The cached page is shared between users, rank is per-request
		personal := *board
		if kind == models.LeaderboardStreak {
			personal.UserRank = ranks.StreakRank
		} else {
			personal.UserRank = ranks.ScoreRank
		}
		return &personal, nil
	}

	return board, nil
}
