package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"quizarena/internal/config"
	"quizarena/internal/middleware"
	"quizarena/internal/models"
	"quizarena/internal/observability"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLeaderboardTestRouter(svc *mockQuizService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := NewLeaderboardHandler(svc, &config.Config{}, observability.NewLogger(nil))

	router := gin.New()
	router.GET("/v1/leaderboard", handler.GetLeaderboard)
	return router
}

func TestGetLeaderboard_DefaultsToScore(t *testing.T) {
	svc := &mockQuizService{
		getLeaderboardFn: func(_ context.Context, kind models.LeaderboardKind, limit int, userID string) (*models.Leaderboard, error) {
			assert.Equal(t, models.LeaderboardScore, kind)
			assert.Zero(t, limit)
			assert.Empty(t, userID)
			return &models.Leaderboard{
				Kind:   kind,
				Scores: []models.ScoreboardEntry{{UserID: "a", TotalScore: 500}},
			}, nil
		},
	}
	router := newLeaderboardTestRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/v1/leaderboard", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var board models.Leaderboard
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &board))
	assert.Equal(t, models.LeaderboardScore, board.Kind)
	require.Len(t, board.Scores, 1)
	assert.Equal(t, "a", board.Scores[0].UserID)
}

func TestGetLeaderboard_StreakKindAndLimit(t *testing.T) {
	svc := &mockQuizService{
		getLeaderboardFn: func(_ context.Context, kind models.LeaderboardKind, limit int, _ string) (*models.Leaderboard, error) {
			assert.Equal(t, models.LeaderboardStreak, kind)
			assert.Equal(t, 5, limit)
			return &models.Leaderboard{Kind: kind}, nil
		},
	}
	router := newLeaderboardTestRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/v1/leaderboard?kind=streak&limit=5", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGetLeaderboard_PersonalRankFromHeader(t *testing.T) {
	svc := &mockQuizService{
		getLeaderboardFn: func(_ context.Context, kind models.LeaderboardKind, _ int, userID string) (*models.Leaderboard, error) {
			assert.Equal(t, "player-1", userID)
			return &models.Leaderboard{Kind: kind, UserRank: 4}, nil
		},
	}
	router := newLeaderboardTestRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/v1/leaderboard", nil)
	req.Header.Set(middleware.UserIDHeader, "player-1")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var board models.Leaderboard
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &board))
	assert.Equal(t, 4, board.UserRank)
}

func TestGetLeaderboard_InvalidKind(t *testing.T) {
	router := newLeaderboardTestRouter(&mockQuizService{})

	req := httptest.NewRequest(http.MethodGet, "/v1/leaderboard?kind=elo", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetLeaderboard_InvalidLimit(t *testing.T) {
	router := newLeaderboardTestRouter(&mockQuizService{})

	for _, limit := range []string{"abc", "-1", "0"} {
		req := httptest.NewRequest(http.MethodGet, "/v1/leaderboard?limit="+limit, nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code, "limit=%s", limit)
	}
}
