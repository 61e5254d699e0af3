// Package handlers provides the HTTP layer: request binding, identity
// extraction and error mapping on top of the quiz services.
package handlers

import (
	"net/http"

	"quizarena/internal/config"
	"quizarena/internal/middleware"
	"quizarena/internal/models"
	"quizarena/internal/observability"
	"quizarena/internal/services"
	contextutils "quizarena/internal/utils"

	"github.com/gin-gonic/gin"
)

// QuizHandler handles the quiz serving endpoints: next question, answer
// submission, state and metrics.
type QuizHandler struct {
	quizService services.QuizServiceInterface
	cfg         *config.Config
	logger      *observability.Logger
}

// NewQuizHandler creates a new quiz handler.
func NewQuizHandler(quizService services.QuizServiceInterface, cfg *config.Config, logger *observability.Logger) *QuizHandler {
	return &QuizHandler{
		quizService: quizService,
		cfg:         cfg,
		logger:      logger,
	}
}

// GetQuestion serves the next question for the authenticated user, drawn from
// the pool around the user's current difficulty level.
func (h *QuizHandler) GetQuestion(c *gin.Context) {
	ctx, span := observability.TraceHandlerFunction(c.Request.Context(), "get_question")
	defer observability.FinishSpan(span, nil)

	userID := middleware.GetUserID(c)
	if userID == "" {
		HandleAppError(c, contextutils.ErrUnauthorized)
		return
	}

	result, err := h.quizService.GetNextQuestion(ctx, userID, c.Query("session_id"))
	if err != nil {
		if !contextutils.IsError(err, contextutils.ErrNoQuestionsAvailable) {
			h.logger.Error(ctx, "Failed to get next question", err, map[string]interface{}{
				"user_id": userID,
			})
		}
		HandleAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// SubmitAnswer processes an answer submission. The submission carries the
// client's view of the state version and an idempotency key; conflicts come
// back as 409 with retryable=true, duplicates are replayed, not re-applied.
func (h *QuizHandler) SubmitAnswer(c *gin.Context) {
	ctx, span := observability.TraceHandlerFunction(c.Request.Context(), "submit_answer")
	defer observability.FinishSpan(span, nil)

	userID := middleware.GetUserID(c)
	if userID == "" {
		HandleAppError(c, contextutils.ErrUnauthorized)
		return
	}

	var req models.SubmitAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn(ctx, "Invalid answer request format", map[string]interface{}{
			"user_id": userID,
			"error":   err.Error(),
		})
		HandleAppError(c, contextutils.NewAppErrorWithCause(
			contextutils.ErrorCodeInvalidInput,
			contextutils.SeverityWarn,
			"Invalid request format",
			"",
			err,
		))
		return
	}
	req.UserID = userID

	result, err := h.quizService.SubmitAnswer(ctx, &req)
	if err != nil {
		if contextutils.IsError(err, contextutils.ErrVersionConflict) {
			h.logger.Info(ctx, "Answer submission lost version race", map[string]interface{}{
				"user_id":        userID,
				"question_id":    req.QuestionID,
				"client_version": req.StateVersion,
			})
		} else if !contextutils.IsError(err, contextutils.ErrQuestionNotFound) {
			h.logger.Error(ctx, "Failed to submit answer", err, map[string]interface{}{
				"user_id":     userID,
				"question_id": req.QuestionID,
			})
		}
		HandleAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetUserState returns the authenticated user's adaptive state, creating the
// initial state on first access.
func (h *QuizHandler) GetUserState(c *gin.Context) {
	ctx, span := observability.TraceHandlerFunction(c.Request.Context(), "get_user_state")
	defer observability.FinishSpan(span, nil)

	userID := middleware.GetUserID(c)
	if userID == "" {
		HandleAppError(c, contextutils.ErrUnauthorized)
		return
	}

	state, err := h.quizService.GetUserState(ctx, userID)
	if err != nil {
		h.logger.Error(ctx, "Failed to get user state", err, map[string]interface{}{
			"user_id": userID,
		})
		HandleAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, state)
}

// GetUserMetrics returns the aggregated performance view for the
// authenticated user.
func (h *QuizHandler) GetUserMetrics(c *gin.Context) {
	ctx, span := observability.TraceHandlerFunction(c.Request.Context(), "get_user_metrics")
	defer observability.FinishSpan(span, nil)

	userID := middleware.GetUserID(c)
	if userID == "" {
		HandleAppError(c, contextutils.ErrUnauthorized)
		return
	}

	metrics, err := h.quizService.GetUserMetrics(ctx, userID)
	if err != nil {
		h.logger.Error(ctx, "Failed to get user metrics", err, map[string]interface{}{
			"user_id": userID,
		})
		HandleAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, metrics)
}
