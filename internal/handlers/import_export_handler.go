package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/quizvault/vault-quiz-service/internal/services"
	"github.com/quizvault/vault-quiz-service/internal/utils"
)

type ImportExportHandler struct {
	BaseHandler
	importExportService services.ImportExportService
}

func NewImportExportHandler(
	importExportService services.ImportExportService,
	logger utils.Logger,
) *ImportExportHandler {
	return &ImportExportHandler{
		BaseHandler:         NewBaseHandler(logger),
		importExportService: importExportService,
	}
}

// ExportRequest selects questions and an output format.
type ExportRequest struct {
	QuestionIDs []uint `json:"question_ids" validate:"required,min=1"`
	Format      string `json:"format" validate:"required,oneof=markdown csv excel"`
}

// ImportQuestions imports questions from an uploaded file
// @Summary Import questions
// @Description Accepts a markdown, CSV or Excel upload and imports its
// questions as a tracked job
// @Tags import-export
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Questions file (.md, .csv, .xlsx)"
// @Success 200 {object} services.ImportResult
// @Failure 415 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /import-export/import [post]
func (h *ImportExportHandler) ImportQuestions(c *gin.Context) {
	h.LogRequest(c, "Importing questions")

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Missing file upload",
			Details: err.Error(),
		})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Cannot read uploaded file",
			Details: err.Error(),
		})
		return
	}
	defer file.Close()

	userID := h.requireUserID(c)
	if userID == "" {
		return
	}

	result, err := h.importExportService.ImportQuestionsFromFile(c.Request.Context(), file, fileHeader.Filename, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// ExportQuestions exports selected questions in the requested format
// @Summary Export questions
// @Tags import-export
// @Accept json
// @Produce octet-stream
// @Param export body ExportRequest true "Question IDs and format"
// @Success 200 {file} binary
// @Failure 400 {object} ErrorResponse
// @Router /import-export/export [post]
func (h *ImportExportHandler) ExportQuestions(c *gin.Context) {
	h.LogRequest(c, "Exporting questions")

	var req ExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	var (
		data        []byte
		contentType string
		ext         string
		err         error
	)
	switch req.Format {
	case "markdown":
		data, err = h.importExportService.ExportQuestionsToMarkdown(c.Request.Context(), req.QuestionIDs)
		contentType = "text/markdown; charset=utf-8"
		ext = "md"
	case "csv":
		data, err = h.importExportService.ExportQuestionsToCSV(c.Request.Context(), req.QuestionIDs)
		contentType = "text/csv; charset=utf-8"
		ext = "csv"
	case "excel":
		data, err = h.importExportService.ExportQuestionsToExcel(c.Request.Context(), req.QuestionIDs)
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
		ext = "xlsx"
	default:
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Unsupported export format",
			Details: "format must be markdown, csv or excel",
		})
		return
	}
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	filename := fmt.Sprintf("questions-%s.%s", time.Now().Format("20060102-150405"), ext)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, contentType, data)
}

// GetImportJob retrieves one import job by ID
// @Summary Get import job
// @Tags import-export
// @Produce json
// @Param id path string true "Job ID"
// @Success 200 {object} models.ImportJob
// @Failure 404 {object} ErrorResponse
// @Router /import-export/jobs/{id} [get]
func (h *ImportExportHandler) GetImportJob(c *gin.Context) {
	jobID := h.parseStringIDParam(c, "id")
	if jobID == "" {
		return
	}

	h.LogRequest(c, "Getting import job", "job_id", jobID)

	job, err := h.importExportService.GetImportJob(c.Request.Context(), jobID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, job)
}

// GetImportJobs lists the caller's import jobs
// @Summary List import jobs
// @Tags import-export
// @Produce json
// @Param page query int false "Page number"
// @Param size query int false "Page size"
// @Success 200 {object} ListResponse
// @Router /import-export/jobs [get]
func (h *ImportExportHandler) GetImportJobs(c *gin.Context) {
	h.LogRequest(c, "Listing import jobs")

	userID := h.requireUserID(c)
	if userID == "" {
		return
	}

	limit, offset := h.parsePaging(c)

	jobs, total, err := h.importExportService.GetImportJobs(c.Request.Context(), userID, limit, offset)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, ListResponse{Items: jobs, Total: total})
}
