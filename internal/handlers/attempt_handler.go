package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/quizvault/vault-quiz-service/internal/models"
	"github.com/quizvault/vault-quiz-service/internal/repositories"
	"github.com/quizvault/vault-quiz-service/internal/services"
	"github.com/quizvault/vault-quiz-service/internal/utils"
	"github.com/quizvault/vault-quiz-service/internal/validator"
)

type AttemptHandler struct {
	BaseHandler
	attemptService services.AttemptService
	validator      *validator.Validator
}

func NewAttemptHandler(
	attemptService services.AttemptService,
	validator *validator.Validator,
	logger utils.Logger,
) *AttemptHandler {
	return &AttemptHandler{
		BaseHandler:    NewBaseHandler(logger),
		attemptService: attemptService,
		validator:      validator,
	}
}

// StartAttempt opens a new quiz attempt against a note
// @Summary Start attempt
// @Description Starts a quiz attempt; a user may hold one active attempt per
// note at a time
// @Tags attempts
// @Produce json
// @Param id path uint true "Note ID"
// @Success 201 {object} models.QuizAttempt
// @Failure 409 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /notes/{id}/attempts [post]
func (h *AttemptHandler) StartAttempt(c *gin.Context) {
	noteID := h.parseIDParam(c, "id")
	if noteID == 0 {
		return
	}

	h.LogRequest(c, "Starting attempt", "note_id", noteID)

	userID := h.requireUserID(c)
	if userID == "" {
		return
	}

	attempt, err := h.attemptService.Start(c.Request.Context(), noteID, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, attempt)
}

// SubmitAnswer grades and records one answer within an attempt
// @Summary Submit answer
// @Tags attempts
// @Accept json
// @Produce json
// @Param id path string true "Attempt ID"
// @Param answer body services.SubmitAnswerRequest true "Answer payload"
// @Success 200 {object} services.AnswerResult
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /attempts/{id}/answers [post]
func (h *AttemptHandler) SubmitAnswer(c *gin.Context) {
	attemptID := h.parseStringIDParam(c, "id")
	if attemptID == "" {
		return
	}

	h.LogRequest(c, "Submitting answer", "attempt_id", attemptID)

	var req services.SubmitAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	userID := h.requireUserID(c)
	if userID == "" {
		return
	}

	result, err := h.attemptService.SubmitAnswer(c.Request.Context(), attemptID, &req, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// SubmitAttempt finalizes an attempt and computes its score
// @Summary Submit attempt
// @Tags attempts
// @Produce json
// @Param id path string true "Attempt ID"
// @Success 200 {object} models.QuizAttempt
// @Failure 409 {object} ErrorResponse
// @Router /attempts/{id}/submit [post]
func (h *AttemptHandler) SubmitAttempt(c *gin.Context) {
	attemptID := h.parseStringIDParam(c, "id")
	if attemptID == "" {
		return
	}

	h.LogRequest(c, "Submitting attempt", "attempt_id", attemptID)

	userID := h.requireUserID(c)
	if userID == "" {
		return
	}

	attempt, err := h.attemptService.Submit(c.Request.Context(), attemptID, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, attempt)
}

// AbandonAttempt closes an attempt without scoring it
// @Summary Abandon attempt
// @Tags attempts
// @Produce json
// @Param id path string true "Attempt ID"
// @Success 200 {object} SuccessResponse
// @Router /attempts/{id}/abandon [post]
func (h *AttemptHandler) AbandonAttempt(c *gin.Context) {
	attemptID := h.parseStringIDParam(c, "id")
	if attemptID == "" {
		return
	}

	h.LogRequest(c, "Abandoning attempt", "attempt_id", attemptID)

	userID := h.requireUserID(c)
	if userID == "" {
		return
	}

	if err := h.attemptService.Abandon(c.Request.Context(), attemptID, userID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Attempt abandoned"})
}

// GetAttempt retrieves an attempt with its answers
// @Summary Get attempt
// @Tags attempts
// @Produce json
// @Param id path string true "Attempt ID"
// @Success 200 {object} models.QuizAttempt
// @Failure 404 {object} ErrorResponse
// @Router /attempts/{id} [get]
func (h *AttemptHandler) GetAttempt(c *gin.Context) {
	attemptID := h.parseStringIDParam(c, "id")
	if attemptID == "" {
		return
	}

	h.LogRequest(c, "Getting attempt", "attempt_id", attemptID)

	userID := h.requireUserID(c)
	if userID == "" {
		return
	}

	attempt, err := h.attemptService.GetByID(c.Request.Context(), attemptID, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, attempt)
}

// ListAttempts lists the caller's attempts with optional filters
// @Summary List attempts
// @Tags attempts
// @Produce json
// @Param status query string false "Attempt status"
// @Param note_id query uint false "Note ID"
// @Success 200 {object} ListResponse
// @Router /attempts [get]
func (h *AttemptHandler) ListAttempts(c *gin.Context) {
	h.LogRequest(c, "Listing attempts")

	userID := h.requireUserID(c)
	if userID == "" {
		return
	}

	filters := h.parseAttemptFilters(c)

	attempts, total, err := h.attemptService.GetByUser(c.Request.Context(), userID, filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, ListResponse{Items: attempts, Total: total})
}

// GetNoteAttemptStats reports aggregate attempt statistics for a note
// @Summary Note attempt statistics
// @Tags attempts
// @Produce json
// @Param id path uint true "Note ID"
// @Success 200 {object} repositories.AttemptStats
// @Router /notes/{id}/attempt-stats [get]
func (h *AttemptHandler) GetNoteAttemptStats(c *gin.Context) {
	noteID := h.parseIDParam(c, "id")
	if noteID == 0 {
		return
	}

	h.LogRequest(c, "Getting note attempt stats", "note_id", noteID)

	stats, err := h.attemptService.GetNoteStats(c.Request.Context(), noteID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

func (h *AttemptHandler) parseAttemptFilters(c *gin.Context) repositories.AttemptFilters {
	limit, offset := h.parsePaging(c)

	filters := repositories.AttemptFilters{
		Limit:  limit,
		Offset: offset,
		Status: models.AttemptStatus(c.Query("status")),
	}

	if noteID := uint(h.parseIntQuery(c, "note_id", 0)); noteID != 0 {
		filters.NoteID = &noteID
	}

	if from := c.Query("date_from"); from != "" {
		if t, err := time.Parse(time.RFC3339, from); err == nil {
			filters.DateFrom = &t
		}
	}
	if to := c.Query("date_to"); to != "" {
		if t, err := time.Parse(time.RFC3339, to); err == nil {
			filters.DateTo = &t
		}
	}

	return filters
}
