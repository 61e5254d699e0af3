package services

import (
	"context"
	"database/sql"
	"sort"
	"testing"
	"time"

	"quizarena/internal/config"
	"quizarena/internal/models"
	"quizarena/internal/observability"
	contextutils "quizarena/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// In-memory store fakes. They mirror the contract of the postgres stores:
// copy-on-read, version-guarded locked loads, unique idempotency keys.

type fakeStateStore struct {
	rows map[string]models.UserState
}

func (f *fakeStateStore) Get(_ context.Context, userID string) (*models.UserState, error) {
	row, ok := f.rows[userID]
	if !ok {
		return nil, contextutils.ErrRecordNotFound
	}
	return &row, nil
}

func (f *fakeStateStore) Create(_ context.Context, state *models.UserState) error {
	if _, ok := f.rows[state.UserID]; ok {
		return contextutils.ErrRecordExists
	}
	f.rows[state.UserID] = *state
	return nil
}

func (f *fakeStateStore) ForUpdate(_ context.Context, userID string, expectedVersion int) (*models.UserState, error) {
	row, ok := f.rows[userID]
	if !ok || row.Version != expectedVersion {
		return nil, contextutils.ErrVersionConflict
	}
	return &row, nil
}

func (f *fakeStateStore) Save(_ context.Context, state *models.UserState) error {
	f.rows[state.UserID] = *state
	return nil
}

func (f *fakeStateStore) ResetStreak(_ context.Context, userID string) error {
	row, ok := f.rows[userID]
	if !ok {
		return contextutils.ErrRecordNotFound
	}
	row.Streak = 0
	f.rows[userID] = row
	return nil
}

type fakeHistoryStore struct {
	attempts []models.AnswerAttempt
}

func (f *fakeHistoryStore) ByIdempotencyKey(_ context.Context, key string) (*models.AnswerAttempt, error) {
	for i := range f.attempts {
		if f.attempts[i].IdempotencyKey == key {
			attempt := f.attempts[i]
			return &attempt, nil
		}
	}
	return nil, contextutils.ErrRecordNotFound
}

func (f *fakeHistoryStore) Insert(_ context.Context, attempt *models.AnswerAttempt) error {
	for i := range f.attempts {
		if f.attempts[i].IdempotencyKey == attempt.IdempotencyKey {
			return contextutils.ErrDuplicateSubmission
		}
	}
	f.attempts = append(f.attempts, *attempt)
	return nil
}

func (f *fakeHistoryStore) DifficultyHistogram(_ context.Context, userID string) ([]models.DifficultyBucket, error) {
	counts := make(map[int]int)
	for _, a := range f.attempts {
		if a.UserID == userID {
			counts[a.Difficulty]++
		}
	}
	var buckets []models.DifficultyBucket
	for difficulty, count := range counts {
		buckets = append(buckets, models.DifficultyBucket{Difficulty: difficulty, Count: count})
	}
	sort.Slice(buckets, func(i, j int) bool { return buckets[i].Difficulty < buckets[j].Difficulty })
	return buckets, nil
}

func (f *fakeHistoryStore) RecentAttempts(_ context.Context, userID string, limit int) ([]models.RecentAttempt, error) {
	var recent []models.RecentAttempt
	for i := len(f.attempts) - 1; i >= 0 && len(recent) < limit; i-- {
		if f.attempts[i].UserID == userID {
			recent = append(recent, models.RecentAttempt{
				Correct:    f.attempts[i].Correct,
				Difficulty: f.attempts[i].Difficulty,
				AnsweredAt: f.attempts[i].AnsweredAt,
			})
		}
	}
	return recent, nil
}

type fakeRankingStore struct {
	scores  map[string]models.ScoreboardEntry
	streaks map[string]models.StreakBoardEntry
}

func (f *fakeRankingStore) UpsertScore(_ context.Context, entry *models.ScoreboardEntry) error {
	f.scores[entry.UserID] = *entry
	return nil
}

func (f *fakeRankingStore) UpsertStreak(_ context.Context, entry *models.StreakBoardEntry) error {
	f.streaks[entry.UserID] = *entry
	return nil
}

func (f *fakeRankingStore) Ranks(_ context.Context, userID string) (*models.Ranks, error) {
	ranks := &models.Ranks{}
	if mine, ok := f.scores[userID]; ok {
		rank := 1
		for id, entry := range f.scores {
			if id != userID && entry.TotalScore > mine.TotalScore {
				rank++
			}
		}
		ranks.ScoreRank = rank
	}
	if mine, ok := f.streaks[userID]; ok {
		rank := 1
		for id, entry := range f.streaks {
			if id != userID && entry.CurrentStreak > mine.CurrentStreak {
				rank++
			}
		}
		ranks.StreakRank = rank
	}
	return ranks, nil
}

func (f *fakeRankingStore) TopByScore(_ context.Context, limit int) ([]models.ScoreboardEntry, error) {
	var entries []models.ScoreboardEntry
	for _, entry := range f.scores {
		entries = append(entries, entry)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].TotalScore > entries[j].TotalScore })
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

func (f *fakeRankingStore) TopByStreak(_ context.Context, limit int) ([]models.StreakBoardEntry, error) {
	var entries []models.StreakBoardEntry
	for _, entry := range f.streaks {
		if entry.CurrentStreak > 0 {
			entries = append(entries, entry)
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].CurrentStreak > entries[j].CurrentStreak })
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

type fakeStores struct {
	states  *fakeStateStore
	history *fakeHistoryStore
	ranks   *fakeRankingStore
}

func newFakeStores() *fakeStores {
	return &fakeStores{
		states:  &fakeStateStore{rows: make(map[string]models.UserState)},
		history: &fakeHistoryStore{},
		ranks: &fakeRankingStore{
			scores:  make(map[string]models.ScoreboardEntry),
			streaks: make(map[string]models.StreakBoardEntry),
		},
	}
}

func (f *fakeStores) States() UserStateStore      { return f.states }
func (f *fakeStores) History() AnswerHistoryStore { return f.history }
func (f *fakeStores) Ranks() RankingStore         { return f.ranks }

func (f *fakeStores) InTx(_ context.Context, fn func(tx Stores) error) error {
	return fn(f)
}

type fakeQuestionService struct {
	questions map[string]models.Question
}

func newFakeQuestionService() *fakeQuestionService {
	return &fakeQuestionService{questions: make(map[string]models.Question)}
}

func (f *fakeQuestionService) add(id string, difficulty int, answer string) models.Question {
	q := models.Question{
		ID:                id,
		Difficulty:        difficulty,
		Prompt:            "prompt " + id,
		Choices:           []string{"a", "b", "c", "d"},
		AnswerFingerprint: HashAnswer(answer),
	}
	f.questions[id] = q
	return q
}

func (f *fakeQuestionService) GetQuestionByID(_ context.Context, id string) (*models.Question, error) {
	q, ok := f.questions[id]
	if !ok {
		return nil, contextutils.ErrQuestionNotFound
	}
	return &q, nil
}

func (f *fakeQuestionService) GetQuestionsByDifficulties(_ context.Context, difficulties []int, limit int) ([]models.Question, error) {
	wanted := make(map[int]bool)
	for _, d := range difficulties {
		wanted[d] = true
	}
	var ids []string
	for id := range f.questions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	var pool []models.Question
	for _, id := range ids {
		if wanted[f.questions[id].Difficulty] && len(pool) < limit {
			pool = append(pool, f.questions[id])
		}
	}
	return pool, nil
}

func (f *fakeQuestionService) SaveQuestion(_ context.Context, question *models.Question) error {
	f.questions[question.ID] = *question
	return nil
}

func (f *fakeQuestionService) CountByDifficulty(_ context.Context) (map[int]int, error) {
	counts := make(map[int]int)
	for _, q := range f.questions {
		counts[q.Difficulty]++
	}
	return counts, nil
}

func (f *fakeQuestionService) DB() *sql.DB { return nil }

type quizServiceFixture struct {
	service   *QuizService
	stores    *fakeStores
	questions *fakeQuestionService
}

func newQuizServiceFixture() *quizServiceFixture {
	stores := newFakeStores()
	questions := newFakeQuestionService()
	cfg := &config.Config{}
	cfg.Quiz.QuestionPoolSize = config.DefaultQuestionPoolSize
	cfg.Quiz.LeaderboardLimit = config.DefaultLeaderboardLimit

	service := NewQuizService(stores, questions, &NoopQuizCache{}, cfg, observability.NewLogger(nil))
	return &quizServiceFixture{service: service, stores: stores, questions: questions}
}

func submitReq(userID, questionID, answer, key string, version int) *models.SubmitAnswerRequest {
	return &models.SubmitAnswerRequest{
		UserID:         userID,
		SessionID:      "session-1",
		QuestionID:     questionID,
		Answer:         answer,
		StateVersion:   version,
		IdempotencyKey: key,
	}
}

func TestSubmitAnswer_CorrectAnswer(t *testing.T) {
	ctx := context.Background()
	fx := newQuizServiceFixture()
	fx.questions.add("q1", 5, "paris")

	_, err := fx.service.GetUserState(ctx, "user-1")
	require.NoError(t, err)

	result, err := fx.service.SubmitAnswer(ctx, submitReq("user-1", "q1", "  Paris ", "key-1", 0))
	require.NoError(t, err)

	assert.True(t, result.Correct)
	assert.Equal(t, 5, result.NewDifficulty)
	assert.Equal(t, 1, result.NewStreak)
	assert.InDelta(t, 147.58, result.ScoreDelta, 1e-9)
	assert.InDelta(t, 147.58, result.TotalScore, 1e-9)
	assert.Equal(t, 1, result.StateVersion)
	assert.Equal(t, 1, result.ScoreRank)
	assert.Equal(t, 1, result.StreakRank)

	require.Len(t, fx.stores.history.attempts, 1)
	attempt := fx.stores.history.attempts[0]
	assert.Equal(t, "q1", attempt.QuestionID)
	assert.Equal(t, 5, attempt.Difficulty)
	assert.True(t, attempt.Correct)
	assert.Equal(t, 1, attempt.StreakAtAnswer)

	state := fx.stores.states.rows["user-1"]
	assert.Equal(t, 1, state.TotalQuestions)
	assert.Equal(t, 1, state.CorrectAnswers)
	assert.Equal(t, "q1", state.LastQuestionID.String)
	assert.True(t, state.LastAnswerAt.Valid)
}

func TestSubmitAnswer_WrongAnswer(t *testing.T) {
	ctx := context.Background()
	fx := newQuizServiceFixture()
	fx.questions.add("q1", 5, "paris")

	_, err := fx.service.GetUserState(ctx, "user-1")
	require.NoError(t, err)

	result, err := fx.service.SubmitAnswer(ctx, submitReq("user-1", "q1", "london", "key-1", 0))
	require.NoError(t, err)

	assert.False(t, result.Correct)
	assert.Equal(t, 0, result.NewStreak)
	assert.Zero(t, result.ScoreDelta)
	assert.Zero(t, result.TotalScore)
	assert.Equal(t, 1, result.StateVersion)

	state := fx.stores.states.rows["user-1"]
	assert.Equal(t, 1, state.TotalQuestions)
	assert.Equal(t, 0, state.CorrectAnswers)
}

func TestSubmitAnswer_WrongAnswerResetsStreak(t *testing.T) {
	ctx := context.Background()
	fx := newQuizServiceFixture()
	fx.questions.add("q1", 5, "paris")

	state := models.NewUserState("user-1")
	state.Streak = 7
	state.MaxStreak = 7
	require.NoError(t, fx.stores.states.Create(ctx, state))

	result, err := fx.service.SubmitAnswer(ctx, submitReq("user-1", "q1", "wrong", "key-1", 0))
	require.NoError(t, err)

	assert.Equal(t, 0, result.NewStreak)
	saved := fx.stores.states.rows["user-1"]
	assert.Equal(t, 7, saved.MaxStreak, "max streak survives a wrong answer")
}

func TestSubmitAnswer_DifficultyIncreasesAfterTwoCorrect(t *testing.T) {
	ctx := context.Background()
	fx := newQuizServiceFixture()
	fx.questions.add("q1", 5, "paris")
	fx.questions.add("q2", 5, "mars")

	_, err := fx.service.GetUserState(ctx, "user-1")
	require.NoError(t, err)

	first, err := fx.service.SubmitAnswer(ctx, submitReq("user-1", "q1", "paris", "key-1", 0))
	require.NoError(t, err)
	assert.Equal(t, 5, first.NewDifficulty)

	second, err := fx.service.SubmitAnswer(ctx, submitReq("user-1", "q2", "mars", "key-2", 1))
	require.NoError(t, err)
	assert.Equal(t, 6, second.NewDifficulty)
	assert.Equal(t, 2, second.NewStreak)
	assert.Equal(t, 2, second.StateVersion)
	assert.InDelta(t, 161.0, second.ScoreDelta, 1e-9)

	state := fx.stores.states.rows["user-1"]
	assert.Zero(t, state.Momentum, "momentum resets after a difficulty change")
	assert.Zero(t, state.ConsecutiveCorrect)
}

func TestSubmitAnswer_VersionConflict(t *testing.T) {
	ctx := context.Background()
	fx := newQuizServiceFixture()
	fx.questions.add("q1", 5, "paris")

	_, err := fx.service.GetUserState(ctx, "user-1")
	require.NoError(t, err)

	_, err = fx.service.SubmitAnswer(ctx, submitReq("user-1", "q1", "paris", "key-1", 3))
	require.Error(t, err)
	assert.True(t, contextutils.IsError(err, contextutils.ErrVersionConflict))

	// Nothing was written
	assert.Empty(t, fx.stores.history.attempts)
	state := fx.stores.states.rows["user-1"]
	assert.Equal(t, 0, state.Version)
	assert.Equal(t, 0, state.TotalQuestions)
}

func TestSubmitAnswer_IdempotentReplay(t *testing.T) {
	ctx := context.Background()
	fx := newQuizServiceFixture()
	fx.questions.add("q1", 5, "paris")
	fx.questions.add("q2", 5, "mars")

	_, err := fx.service.GetUserState(ctx, "user-1")
	require.NoError(t, err)

	first, err := fx.service.SubmitAnswer(ctx, submitReq("user-1", "q1", "paris", "key-1", 0))
	require.NoError(t, err)

	// A later submission moves the state on
	_, err = fx.service.SubmitAnswer(ctx, submitReq("user-1", "q2", "mars", "key-2", 1))
	require.NoError(t, err)

	// Replaying the first key returns its recorded grading outcome combined
	// with the current totals, and writes nothing
	replay, err := fx.service.SubmitAnswer(ctx, submitReq("user-1", "q1", "paris", "key-1", 0))
	require.NoError(t, err)

	assert.Equal(t, first.Correct, replay.Correct)
	assert.Equal(t, first.ScoreDelta, replay.ScoreDelta)
	assert.Equal(t, first.NewStreak, replay.NewStreak)
	assert.Equal(t, 2, replay.StateVersion, "replay reports the current version")
	assert.Greater(t, replay.TotalScore, first.TotalScore)

	assert.Len(t, fx.stores.history.attempts, 2, "replay must not append history")
	state := fx.stores.states.rows["user-1"]
	assert.Equal(t, 2, state.TotalQuestions)
}

func TestSubmitAnswer_QuestionNotFound(t *testing.T) {
	ctx := context.Background()
	fx := newQuizServiceFixture()

	_, err := fx.service.GetUserState(ctx, "user-1")
	require.NoError(t, err)

	_, err = fx.service.SubmitAnswer(ctx, submitReq("user-1", "missing", "paris", "key-1", 0))
	require.Error(t, err)
	assert.True(t, contextutils.IsError(err, contextutils.ErrQuestionNotFound))
}

func TestGetUserState_CreatesInitialState(t *testing.T) {
	ctx := context.Background()
	fx := newQuizServiceFixture()

	state, err := fx.service.GetUserState(ctx, "new-user")
	require.NoError(t, err)

	assert.Equal(t, "new-user", state.UserID)
	assert.Equal(t, models.InitialDifficulty, state.Difficulty)
	assert.Equal(t, 0, state.Version)
	assert.Zero(t, state.Streak)

	_, ok := fx.stores.states.rows["new-user"]
	assert.True(t, ok, "initial state is persisted")
}

func TestGetUserState_StreakDecay(t *testing.T) {
	ctx := context.Background()
	fx := newQuizServiceFixture()

	now := time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)
	fx.service.now = func() time.Time { return now }

	state := models.NewUserState("user-1")
	state.Streak = 9
	state.MaxStreak = 12
	state.Version = 4
	state.LastAnswerAt = sql.NullTime{Time: now.Add(-25 * time.Hour), Valid: true}
	require.NoError(t, fx.stores.states.Create(ctx, state))

	got, err := fx.service.GetUserState(ctx, "user-1")
	require.NoError(t, err)

	assert.Equal(t, 0, got.Streak, "streak decays after a day of inactivity")
	assert.Equal(t, 12, got.MaxStreak)
	assert.Equal(t, 4, got.Version, "decay does not consume a state version")

	saved := fx.stores.states.rows["user-1"]
	assert.Equal(t, 0, saved.Streak)
}

func TestGetUserState_NoDecayWithinWindow(t *testing.T) {
	ctx := context.Background()
	fx := newQuizServiceFixture()

	now := time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)
	fx.service.now = func() time.Time { return now }

	state := models.NewUserState("user-1")
	state.Streak = 9
	state.LastAnswerAt = sql.NullTime{Time: now.Add(-23 * time.Hour), Valid: true}
	require.NoError(t, fx.stores.states.Create(ctx, state))

	got, err := fx.service.GetUserState(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 9, got.Streak)
}

func TestGetNextQuestion_PicksFromDifficultyRange(t *testing.T) {
	ctx := context.Background()
	fx := newQuizServiceFixture()
	fx.questions.add("q4", 4, "a")
	fx.questions.add("q5", 5, "b")
	fx.questions.add("q6", 6, "c")
	fx.questions.add("q9", 9, "d")

	result, err := fx.service.GetNextQuestion(ctx, "user-1", "")
	require.NoError(t, err)

	assert.Contains(t, []int{4, 5, 6}, result.Question.Difficulty)
	assert.NotEqual(t, "q9", result.Question.ID)
	assert.Empty(t, result.Question.AnswerFingerprint, "fingerprint never leaves the server")
	assert.NotEmpty(t, result.SessionID, "a session id is generated when absent")
	assert.Equal(t, models.InitialDifficulty, result.UserState.Difficulty)
}

func TestGetNextQuestion_KeepsSessionID(t *testing.T) {
	ctx := context.Background()
	fx := newQuizServiceFixture()
	fx.questions.add("q5", 5, "b")

	result, err := fx.service.GetNextQuestion(ctx, "user-1", "session-42")
	require.NoError(t, err)
	assert.Equal(t, "session-42", result.SessionID)
}

func TestGetNextQuestion_ExcludesLastQuestion(t *testing.T) {
	ctx := context.Background()
	fx := newQuizServiceFixture()
	fx.questions.add("q1", 5, "a")
	fx.questions.add("q2", 5, "b")

	state := models.NewUserState("user-1")
	state.LastQuestionID = sql.NullString{String: "q1", Valid: true}
	require.NoError(t, fx.stores.states.Create(context.Background(), state))

	for i := 0; i < 10; i++ {
		result, err := fx.service.GetNextQuestion(ctx, "user-1", "s")
		require.NoError(t, err)
		assert.Equal(t, "q2", result.Question.ID)
	}
}

func TestGetNextQuestion_RepeatAllowedWhenOnlyOption(t *testing.T) {
	ctx := context.Background()
	fx := newQuizServiceFixture()
	fx.questions.add("q1", 5, "a")

	state := models.NewUserState("user-1")
	state.LastQuestionID = sql.NullString{String: "q1", Valid: true}
	require.NoError(t, fx.stores.states.Create(context.Background(), state))

	result, err := fx.service.GetNextQuestion(ctx, "user-1", "s")
	require.NoError(t, err)
	assert.Equal(t, "q1", result.Question.ID)
}

func TestGetNextQuestion_NoQuestionsAvailable(t *testing.T) {
	ctx := context.Background()
	fx := newQuizServiceFixture()

	_, err := fx.service.GetNextQuestion(ctx, "user-1", "")
	require.Error(t, err)
	assert.True(t, contextutils.IsError(err, contextutils.ErrNoQuestionsAvailable))
}

func TestGetUserMetrics(t *testing.T) {
	ctx := context.Background()
	fx := newQuizServiceFixture()
	fx.questions.add("q1", 5, "paris")
	fx.questions.add("q2", 5, "mars")

	_, err := fx.service.GetUserState(ctx, "user-1")
	require.NoError(t, err)

	_, err = fx.service.SubmitAnswer(ctx, submitReq("user-1", "q1", "paris", "key-1", 0))
	require.NoError(t, err)
	_, err = fx.service.SubmitAnswer(ctx, submitReq("user-1", "q2", "wrong", "key-2", 1))
	require.NoError(t, err)

	metrics, err := fx.service.GetUserMetrics(ctx, "user-1")
	require.NoError(t, err)

	assert.Equal(t, 2, metrics.TotalQuestions)
	assert.Equal(t, 1, metrics.CorrectAnswers)
	assert.InDelta(t, 0.5, metrics.Accuracy, 1e-9)
	assert.Equal(t, []models.DifficultyBucket{{Difficulty: 5, Count: 2}}, metrics.DifficultyHistogram)
	require.Len(t, metrics.RecentPerformance, 2)
	assert.False(t, metrics.RecentPerformance[0].Correct, "newest first")
	assert.True(t, metrics.RecentPerformance[1].Correct)
}

func TestGetLeaderboard_Score(t *testing.T) {
	ctx := context.Background()
	fx := newQuizServiceFixture()

	require.NoError(t, fx.stores.ranks.UpsertScore(ctx, &models.ScoreboardEntry{UserID: "a", TotalScore: 300}))
	require.NoError(t, fx.stores.ranks.UpsertScore(ctx, &models.ScoreboardEntry{UserID: "b", TotalScore: 500}))
	require.NoError(t, fx.stores.ranks.UpsertScore(ctx, &models.ScoreboardEntry{UserID: "c", TotalScore: 100}))

	board, err := fx.service.GetLeaderboard(ctx, models.LeaderboardScore, 2, "a")
	require.NoError(t, err)

	require.Len(t, board.Scores, 2)
	assert.Equal(t, "b", board.Scores[0].UserID)
	assert.Equal(t, "a", board.Scores[1].UserID)
	assert.Equal(t, 2, board.UserRank)
}

func TestGetLeaderboard_Streak(t *testing.T) {
	ctx := context.Background()
	fx := newQuizServiceFixture()

	require.NoError(t, fx.stores.ranks.UpsertStreak(ctx, &models.StreakBoardEntry{UserID: "a", CurrentStreak: 3, MaxStreak: 9}))
	require.NoError(t, fx.stores.ranks.UpsertStreak(ctx, &models.StreakBoardEntry{UserID: "b", CurrentStreak: 8, MaxStreak: 8}))
	require.NoError(t, fx.stores.ranks.UpsertStreak(ctx, &models.StreakBoardEntry{UserID: "c", CurrentStreak: 0, MaxStreak: 20}))

	board, err := fx.service.GetLeaderboard(ctx, models.LeaderboardStreak, 10, "")
	require.NoError(t, err)

	require.Len(t, board.Streaks, 2, "zero current streaks are not listed")
	assert.Equal(t, "b", board.Streaks[0].UserID)
	assert.Equal(t, "a", board.Streaks[1].UserID)
	assert.Zero(t, board.UserRank)
}

func TestGetLeaderboard_AbsentUserHasNoRank(t *testing.T) {
	ctx := context.Background()
	fx := newQuizServiceFixture()

	require.NoError(t, fx.stores.ranks.UpsertScore(ctx, &models.ScoreboardEntry{UserID: "a", TotalScore: 300}))

	board, err := fx.service.GetLeaderboard(ctx, models.LeaderboardScore, 10, "stranger")
	require.NoError(t, err)
	assert.Zero(t, board.UserRank)
}

func TestGetLeaderboard_LimitClamped(t *testing.T) {
	ctx := context.Background()
	fx := newQuizServiceFixture()
	fx.service.cfg.Quiz.LeaderboardLimit = 3

	for _, id := range []string{"a", "b", "c", "d", "e"} {
		require.NoError(t, fx.stores.ranks.UpsertScore(ctx, &models.ScoreboardEntry{UserID: id, TotalScore: 1}))
	}

	board, err := fx.service.GetLeaderboard(ctx, models.LeaderboardScore, 0, "")
	require.NoError(t, err)
	assert.Len(t, board.Scores, 3)

	board, err = fx.service.GetLeaderboard(ctx, models.LeaderboardScore, 99, "")
	require.NoError(t, err)
	assert.Len(t, board.Scores, 3)
}

func TestGetLeaderboard_UnknownKind(t *testing.T) {
	ctx := context.Background()
	fx := newQuizServiceFixture()

	_, err := fx.service.GetLeaderboard(ctx, models.LeaderboardKind("elo"), 10, "")
	require.Error(t, err)
	assert.True(t, contextutils.IsError(err, contextutils.ErrInvalidInput))
}
