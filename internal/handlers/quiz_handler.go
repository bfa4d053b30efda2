package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/quizvault/vault-quiz-service/internal/models"
	"github.com/quizvault/vault-quiz-service/internal/repositories"
	"github.com/quizvault/vault-quiz-service/internal/services"
	"github.com/quizvault/vault-quiz-service/internal/utils"
	"github.com/quizvault/vault-quiz-service/internal/validator"
)

type QuizHandler struct {
	BaseHandler
	quizService services.QuizService
	validator   *validator.Validator
}

func NewQuizHandler(
	quizService services.QuizService,
	validator *validator.Validator,
	logger utils.Logger,
) *QuizHandler {
	return &QuizHandler{
		BaseHandler: NewBaseHandler(logger),
		quizService: quizService,
		validator:   validator,
	}
}

// PreviewRequest carries raw markdown to decode without persisting.
type PreviewRequest struct {
	Markdown string `json:"markdown" validate:"required"`
}

// ParseNote extracts quiz questions from a note and stores them
// @Summary Parse note
// @Description Scans the note body for quiz callout blocks and replaces the
// stored question set
// @Tags quiz
// @Produce json
// @Param id path uint true "Note ID"
// @Success 200 {object} services.ParseResult
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /notes/{id}/parse [post]
func (h *QuizHandler) ParseNote(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	h.LogRequest(c, "Parsing note", "note_id", id)

	userID := h.requireUserID(c)
	if userID == "" {
		return
	}

	result, err := h.quizService.ParseNote(c.Request.Context(), id, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// PreviewQuiz decodes markdown into questions without persisting anything
// @Summary Preview quiz markdown
// @Tags quiz
// @Accept json
// @Produce json
// @Param markdown body PreviewRequest true "Markdown to decode"
// @Success 200 {array} models.Question
// @Failure 400 {object} ErrorResponse
// @Router /quiz/preview [post]
func (h *QuizHandler) PreviewQuiz(c *gin.Context) {
	h.LogRequest(c, "Previewing quiz markdown")

	var req PreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	questions, err := h.quizService.Preview(c.Request.Context(), req.Markdown)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, questions)
}

// GetNoteQuestions returns the stored questions for a note
// @Summary Note questions
// @Tags quiz
// @Produce json
// @Param id path uint true "Note ID"
// @Success 200 {array} models.Question
// @Router /notes/{id}/questions [get]
func (h *QuizHandler) GetNoteQuestions(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	h.LogRequest(c, "Getting note questions", "note_id", id)

	questions, err := h.quizService.GetNoteQuestions(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, questions)
}

// GetQuestion retrieves a question by ID
// @Summary Get question
// @Tags quiz
// @Produce json
// @Param id path uint true "Question ID"
// @Success 200 {object} models.Question
// @Failure 404 {object} ErrorResponse
// @Router /questions/{id} [get]
func (h *QuizHandler) GetQuestion(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	h.LogRequest(c, "Getting question", "question_id", id)

	question, err := h.quizService.GetQuestion(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, question)
}

// GetQuestionByHash retrieves a question by its content hash
// @Summary Get question by hash
// @Tags quiz
// @Produce json
// @Param hash path string true "Question content hash"
// @Success 200 {object} models.Question
// @Failure 404 {object} ErrorResponse
// @Router /questions/by-hash/{hash} [get]
func (h *QuizHandler) GetQuestionByHash(c *gin.Context) {
	hash := h.parseStringIDParam(c, "hash")
	if hash == "" {
		return
	}

	h.LogRequest(c, "Getting question by hash", "hash", hash)

	question, err := h.quizService.GetQuestionByHash(c.Request.Context(), hash)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, question)
}

// ListQuestions lists questions with optional filters
// @Summary List questions
// @Tags quiz
// @Produce json
// @Param type query string false "Question type"
// @Param difficulty query string false "Difficulty level"
// @Param note_id query uint false "Note ID"
// @Success 200 {object} ListResponse
// @Router /questions [get]
func (h *QuizHandler) ListQuestions(c *gin.Context) {
	h.LogRequest(c, "Listing questions")

	filters := h.parseQuestionFilters(c)

	if query := c.Query("q"); query != "" {
		questions, total, err := h.quizService.SearchQuestions(c.Request.Context(), query, filters)
		if err != nil {
			h.handleServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, ListResponse{Items: questions, Total: total})
		return
	}

	questions, total, err := h.quizService.ListQuestions(c.Request.Context(), filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, ListResponse{Items: questions, Total: total})
}

// GetTypeBreakdown reports question counts per type for a creator
// @Summary Question type breakdown
// @Tags quiz
// @Produce json
// @Success 200 {object} repositories.QuestionTypeBreakdown
// @Router /questions/breakdown [get]
func (h *QuizHandler) GetTypeBreakdown(c *gin.Context) {
	h.LogRequest(c, "Getting question type breakdown")

	userID := h.requireUserID(c)
	if userID == "" {
		return
	}

	breakdown, err := h.quizService.GetTypeBreakdown(c.Request.Context(), userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, breakdown)
}

// RenderQuestion renders a stored question back to callout markdown
// @Summary Render question markdown
// @Tags quiz
// @Produce plain
// @Param id path uint true "Question ID"
// @Success 200 {string} string
// @Failure 404 {object} ErrorResponse
// @Router /questions/{id}/markdown [get]
func (h *QuizHandler) RenderQuestion(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	h.LogRequest(c, "Rendering question", "question_id", id)

	markdown, err := h.quizService.RenderQuestion(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Data(http.StatusOK, "text/markdown; charset=utf-8", []byte(markdown))
}

// RenderNoteQuiz renders all of a note's questions as callout markdown
// @Summary Render note quiz markdown
// @Tags quiz
// @Produce plain
// @Param id path uint true "Note ID"
// @Success 200 {string} string
// @Failure 422 {object} ErrorResponse
// @Router /notes/{id}/markdown [get]
func (h *QuizHandler) RenderNoteQuiz(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	h.LogRequest(c, "Rendering note quiz", "note_id", id)

	markdown, err := h.quizService.RenderNoteQuiz(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Data(http.StatusOK, "text/markdown; charset=utf-8", []byte(markdown))
}

func (h *QuizHandler) parseQuestionFilters(c *gin.Context) repositories.QuestionFilters {
	limit, offset := h.parsePaging(c)

	filters := repositories.QuestionFilters{
		Limit:     limit,
		Offset:    offset,
		SortBy:    c.Query("sort_by"),
		SortOrder: c.Query("sort_order"),
	}

	if questionType := c.Query("type"); questionType != "" {
		qType := models.QuestionType(questionType)
		filters.Type = &qType
	}

	if difficulty := c.Query("difficulty"); difficulty != "" {
		level := models.DifficultyLevel(difficulty)
		filters.Difficulty = &level
	}

	if noteID := uint(h.parseIntQuery(c, "note_id", 0)); noteID != 0 {
		filters.NoteID = &noteID
	}

	if creator := c.Query("creator_id"); creator != "" {
		filters.CreatedBy = &creator
	}

	return filters
}
