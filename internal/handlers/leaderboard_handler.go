package handlers

import (
	"net/http"
	"strconv"

	"quizarena/internal/config"
	"quizarena/internal/middleware"
	"quizarena/internal/models"
	"quizarena/internal/observability"
	"quizarena/internal/services"

	"github.com/gin-gonic/gin"
)

// LeaderboardHandler handles the public leaderboard endpoint.
type LeaderboardHandler struct {
	quizService services.QuizServiceInterface
	cfg         *config.Config
	logger      *observability.Logger
}

// NewLeaderboardHandler creates a new leaderboard handler.
func NewLeaderboardHandler(quizService services.QuizServiceInterface, cfg *config.Config, logger *observability.Logger) *LeaderboardHandler {
	return &LeaderboardHandler{
		quizService: quizService,
		cfg:         cfg,
		logger:      logger,
	}
}

// GetLeaderboard returns a leaderboard page. kind selects the board ("score"
// by default, "streak" for the live streak board); limit caps the page size.
// When the caller is identified its own rank is included.
func (h *LeaderboardHandler) GetLeaderboard(c *gin.Context) {
	ctx, span := observability.TraceHandlerFunction(c.Request.Context(), "get_leaderboard")
	defer observability.FinishSpan(span, nil)

	kind := models.LeaderboardKind(c.DefaultQuery("kind", string(models.LeaderboardScore)))
	if kind != models.LeaderboardScore && kind != models.LeaderboardStreak {
		HandleValidationError(c, "kind", string(kind), "must be 'score' or 'streak'")
		return
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			HandleValidationError(c, "limit", raw, "must be a positive integer")
			return
		}
		limit = parsed
	}

	// Identity is optional here, the header just enables the personal rank
	userID := middleware.GetUserID(c)
	if userID == "" {
		userID = c.GetHeader(middleware.UserIDHeader)
	}

	board, err := h.quizService.GetLeaderboard(ctx, kind, limit, userID)
	if err != nil {
		h.logger.Error(ctx, "Failed to get leaderboard", err, map[string]interface{}{
			"kind":  string(kind),
			"limit": limit,
		})
		HandleAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, board)
}
