package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/quizvault/vault-quiz-service/internal/services"
	"github.com/quizvault/vault-quiz-service/internal/utils"
	"github.com/quizvault/vault-quiz-service/internal/validator"
)

type HandlerManager struct {
	noteHandler         *NoteHandler
	quizHandler         *QuizHandler
	attemptHandler      *AttemptHandler
	importExportHandler *ImportExportHandler
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	validator *validator.Validator,
	logger utils.Logger,
) *HandlerManager {
	return &HandlerManager{
		noteHandler:         NewNoteHandler(serviceManager.Note(), validator, logger),
		quizHandler:         NewQuizHandler(serviceManager.Quiz(), validator, logger),
		attemptHandler:      NewAttemptHandler(serviceManager.Attempt(), validator, logger),
		importExportHandler: NewImportExportHandler(serviceManager.ImportExport(), logger),
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"service": "vault-quiz-service",
		})
	})

	// API v1 routes
	v1 := router.Group("/api/v1")
	v1.Use(IdentityMiddleware())
	{
		// Note routes
		notes := v1.Group("/notes")
		{
			notes.POST("", hm.noteHandler.CreateNote)
			notes.GET("", hm.noteHandler.ListNotes)
			notes.GET("/by-path", hm.noteHandler.GetNoteByPath)
			notes.GET("/:id", hm.noteHandler.GetNote)
			notes.PUT("/:id/content", hm.noteHandler.UpdateNoteContent)
			notes.POST("/:id/archive", hm.noteHandler.ArchiveNote)
			notes.DELETE("/:id", hm.noteHandler.DeleteNote)
			notes.GET("/:id/stats", hm.noteHandler.GetNoteStats)

			// Quiz block management
			notes.POST("/:id/parse", hm.quizHandler.ParseNote)
			notes.GET("/:id/questions", hm.quizHandler.GetNoteQuestions)
			notes.POST("/:id/questions", hm.noteHandler.SaveQuestions)
			notes.GET("/:id/markdown", hm.quizHandler.RenderNoteQuiz)

			// Attempt history frontmatter
			notes.GET("/:id/history", hm.noteHandler.GetNoteHistory)
			notes.POST("/:id/history", hm.noteHandler.AppendNoteHistory)

			// Attempts against a note
			notes.POST("/:id/attempts", hm.attemptHandler.StartAttempt)
			notes.GET("/:id/attempt-stats", hm.attemptHandler.GetNoteAttemptStats)
		}

		// Question routes
		questions := v1.Group("/questions")
		{
			questions.GET("", hm.quizHandler.ListQuestions)
			questions.GET("/breakdown", hm.quizHandler.GetTypeBreakdown)
			questions.GET("/by-hash/:hash", hm.quizHandler.GetQuestionByHash)
			questions.GET("/:id", hm.quizHandler.GetQuestion)
			questions.GET("/:id/markdown", hm.quizHandler.RenderQuestion)
		}

		// Quiz utilities
		quiz := v1.Group("/quiz")
		{
			quiz.POST("/preview", hm.quizHandler.PreviewQuiz)
		}

		// Attempt routes
		attempts := v1.Group("/attempts")
		{
			attempts.GET("", hm.attemptHandler.ListAttempts)
			attempts.GET("/:id", hm.attemptHandler.GetAttempt)
			attempts.POST("/:id/answers", hm.attemptHandler.SubmitAnswer)
			attempts.POST("/:id/submit", hm.attemptHandler.SubmitAttempt)
			attempts.POST("/:id/abandon", hm.attemptHandler.AbandonAttempt)
		}

		// Import/export routes
		importExport := v1.Group("/import-export")
		{
			importExport.POST("/import", hm.importExportHandler.ImportQuestions)
			importExport.POST("/export", hm.importExportHandler.ExportQuestions)
			importExport.GET("/jobs", hm.importExportHandler.GetImportJobs)
			importExport.GET("/jobs/:id", hm.importExportHandler.GetImportJob)
		}
	}
}

// IdentityMiddleware attaches the caller identity from the X-User-ID header.
// Upstream gateway authentication is trusted to have populated it.
func IdentityMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if userID := c.GetHeader("X-User-ID"); userID != "" {
			c.Set("user_id", userID)
		}
		c.Next()
	}
}
