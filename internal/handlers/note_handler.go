package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/quizvault/vault-quiz-service/internal/callout"
	"github.com/quizvault/vault-quiz-service/internal/history"
	"github.com/quizvault/vault-quiz-service/internal/models"
	"github.com/quizvault/vault-quiz-service/internal/repositories"
	"github.com/quizvault/vault-quiz-service/internal/services"
	"github.com/quizvault/vault-quiz-service/internal/utils"
	"github.com/quizvault/vault-quiz-service/internal/validator"
)

type NoteHandler struct {
	BaseHandler
	noteService services.NoteService
	validator   *validator.Validator
}

func NewNoteHandler(
	noteService services.NoteService,
	validator *validator.Validator,
	logger utils.Logger,
) *NoteHandler {
	return &NoteHandler{
		BaseHandler: NewBaseHandler(logger),
		noteService: noteService,
		validator:   validator,
	}
}

// UpdateNoteContentRequest carries a full replacement of a note's markdown.
type UpdateNoteContentRequest struct {
	Content string `json:"content" validate:"required"`
}

// SaveQuestionsRequest carries quiz blocks to append to a note, expressed as
// callout markdown so clients reuse the same syntax the vault stores.
type SaveQuestionsRequest struct {
	Markdown string `json:"markdown" validate:"required"`
}

// AppendHistoryRequest carries attempt records to splice into the note's
// frontmatter.
type AppendHistoryRequest struct {
	Records []history.Record `json:"records" validate:"required,min=1"`
}

// CreateNote creates a new vault note
// @Summary Create note
// @Description Registers a vault note with its markdown content
// @Tags notes
// @Accept json
// @Produce json
// @Param note body services.CreateNoteRequest true "Note data"
// @Success 201 {object} models.Note
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /notes [post]
func (h *NoteHandler) CreateNote(c *gin.Context) {
	h.LogRequest(c, "Creating note")

	var req services.CreateNoteRequest
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

	note, err := h.noteService.Create(c.Request.Context(), &req, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, note)
}

// GetNote retrieves a note by ID
// @Summary Get note
// @Tags notes
// @Produce json
// @Param id path uint true "Note ID"
// @Success 200 {object} models.Note
// @Failure 404 {object} ErrorResponse
// @Router /notes/{id} [get]
func (h *NoteHandler) GetNote(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	h.LogRequest(c, "Getting note", "note_id", id)

	var (
		note *models.Note
		err  error
	)
	if c.Query("include") == "questions" {
		note, err = h.noteService.GetByIDWithQuestions(c.Request.Context(), id)
	} else {
		note, err = h.noteService.GetByID(c.Request.Context(), id)
	}
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, note)
}

// GetNoteByPath retrieves a note by its vault path
// @Summary Get note by path
// @Tags notes
// @Produce json
// @Param path query string true "Vault path"
// @Success 200 {object} models.Note
// @Failure 404 {object} ErrorResponse
// @Router /notes/by-path [get]
func (h *NoteHandler) GetNoteByPath(c *gin.Context) {
	path := c.Query("path")
	if path == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Missing path query parameter",
		})
		return
	}

	h.LogRequest(c, "Getting note by path", "path", path)

	note, err := h.noteService.GetByPath(c.Request.Context(), path)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, note)
}

// UpdateNoteContent replaces a note's markdown content
// @Summary Update note content
// @Description Replaces the note body; marks stored questions stale when the
// content actually changed
// @Tags notes
// @Accept json
// @Produce json
// @Param id path uint true "Note ID"
// @Param content body UpdateNoteContentRequest true "New content"
// @Success 200 {object} models.Note
// @Failure 400 {object} ErrorResponse
// @Router /notes/{id}/content [put]
func (h *NoteHandler) UpdateNoteContent(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	h.LogRequest(c, "Updating note content", "note_id", id)

	var req UpdateNoteContentRequest
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

	note, err := h.noteService.UpdateContent(c.Request.Context(), id, req.Content, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, note)
}

// ArchiveNote marks a note as archived
// @Summary Archive note
// @Tags notes
// @Produce json
// @Param id path uint true "Note ID"
// @Success 200 {object} SuccessResponse
// @Failure 404 {object} ErrorResponse
// @Router /notes/{id}/archive [post]
func (h *NoteHandler) ArchiveNote(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	h.LogRequest(c, "Archiving note", "note_id", id)

	userID := h.requireUserID(c)
	if userID == "" {
		return
	}

	if err := h.noteService.Archive(c.Request.Context(), id, userID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Note archived"})
}

// DeleteNote removes a note and its questions
// @Summary Delete note
// @Tags notes
// @Param id path uint true "Note ID"
// @Success 204
// @Failure 403 {object} ErrorResponse
// @Router /notes/{id} [delete]
func (h *NoteHandler) DeleteNote(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	h.LogRequest(c, "Deleting note", "note_id", id)

	userID := h.requireUserID(c)
	if userID == "" {
		return
	}

	if err := h.noteService.Delete(c.Request.Context(), id, userID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ListNotes lists notes with optional filters
// @Summary List notes
// @Tags notes
// @Produce json
// @Param status query string false "Note status"
// @Param page query int false "Page number"
// @Param size query int false "Page size"
// @Success 200 {object} ListResponse
// @Router /notes [get]
func (h *NoteHandler) ListNotes(c *gin.Context) {
	h.LogRequest(c, "Listing notes")

	filters := h.parseNoteFilters(c)

	if query := c.Query("q"); query != "" {
		notes, total, err := h.noteService.Search(c.Request.Context(), query, filters)
		if err != nil {
			h.handleServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, ListResponse{Items: notes, Total: total})
		return
	}

	notes, total, err := h.noteService.List(c.Request.Context(), filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, ListResponse{Items: notes, Total: total})
}

// GetNoteStats reports question and attempt statistics for a note
// @Summary Note statistics
// @Tags notes
// @Produce json
// @Param id path uint true "Note ID"
// @Success 200 {object} repositories.NoteStats
// @Router /notes/{id}/stats [get]
func (h *NoteHandler) GetNoteStats(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	h.LogRequest(c, "Getting note stats", "note_id", id)

	stats, err := h.noteService.GetStats(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// SaveQuestions appends quiz callout blocks to a note
// @Summary Save questions into note
// @Description Decodes callout markdown and appends the valid quiz blocks to
// the note body
// @Tags notes
// @Accept json
// @Produce json
// @Param id path uint true "Note ID"
// @Param questions body SaveQuestionsRequest true "Callout markdown"
// @Success 200 {object} models.Note
// @Failure 400 {object} ErrorResponse
// @Router /notes/{id}/questions [post]
func (h *NoteHandler) SaveQuestions(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	h.LogRequest(c, "Saving questions into note", "note_id", id)

	var req SaveQuestionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	questions := callout.Decode(req.Markdown)
	if len(questions) == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Markdown contains no valid quiz blocks",
		})
		return
	}

	userID := h.requireUserID(c)
	if userID == "" {
		return
	}

	note, err := h.noteService.SaveQuestions(c.Request.Context(), id, questions, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, note)
}

// GetNoteHistory returns the attempt records stored in the note frontmatter
// @Summary Note attempt history
// @Tags notes
// @Produce json
// @Param id path uint true "Note ID"
// @Success 200 {array} history.Record
// @Router /notes/{id}/history [get]
func (h *NoteHandler) GetNoteHistory(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	h.LogRequest(c, "Getting note history", "note_id", id)

	records, err := h.noteService.GetHistory(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, records)
}

// AppendNoteHistory appends attempt records to the note frontmatter
// @Summary Append attempt history
// @Tags notes
// @Accept json
// @Produce json
// @Param id path uint true "Note ID"
// @Param records body AppendHistoryRequest true "Attempt records"
// @Success 200 {object} SuccessResponse
// @Router /notes/{id}/history [post]
func (h *NoteHandler) AppendNoteHistory(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	h.LogRequest(c, "Appending note history", "note_id", id)

	var req AppendHistoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}
	if err := h.validator.Validate(&req); err != nil {
		h.handleServiceError(c, err)
		return
	}

	if err := h.noteService.AppendHistory(c.Request.Context(), id, req.Records); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "History appended"})
}

func (h *NoteHandler) parseNoteFilters(c *gin.Context) repositories.NoteFilters {
	limit, offset := h.parsePaging(c)

	filters := repositories.NoteFilters{
		Limit:      limit,
		Offset:     offset,
		PathPrefix: c.Query("path_prefix"),
		SortBy:     c.Query("sort_by"),
		SortOrder:  c.Query("sort_order"),
	}

	if status := c.Query("status"); status != "" {
		noteStatus := models.NoteStatus(status)
		filters.Status = &noteStatus
	}

	if creator := c.Query("creator_id"); creator != "" {
		filters.CreatedBy = &creator
	}

	return filters
}
