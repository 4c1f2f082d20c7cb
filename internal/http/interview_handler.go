package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"prepwise/internal/domain"
	"prepwise/internal/repository"
	"prepwise/internal/service"
)

// InterviewHandler mantiene dependencias para los endpoints de entrevistas.
type InterviewHandler struct {
	logger       *zap.Logger
	interviews   repository.InterviewRepository
	feedbackServ *service.FeedbackService
}

// NewInterviewHandler crea una instancia de InterviewHandler con dependencias necesarias.
func NewInterviewHandler(logger *zap.Logger, interviews repository.InterviewRepository, feedbackServ *service.FeedbackService) *InterviewHandler {
	return &InterviewHandler{
		logger:       logger,
		interviews:   interviews,
		feedbackServ: feedbackServ,
	}
}

// ListMine maneja GET /interviews.
func (h *InterviewHandler) ListMine(c *gin.Context) {
	user, ok := CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	interviews, err := h.interviews.ListByUser(c.Request.Context(), user.ID)
	if err != nil {
		h.logger.Error("list interviews failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list interviews"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"interviews": interviews})
}

// ListLatest maneja GET /interviews/latest: entrevistas finalizadas de
// otros usuarios, hasta el límite pedido.
func (h *InterviewHandler) ListLatest(c *gin.Context) {
	user, ok := CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	limit := repository.DefaultLatestLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		limit = parsed
	}

	interviews, err := h.interviews.ListLatest(c.Request.Context(), user.ID, limit)
	if err != nil {
		h.logger.Error("list latest interviews failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list interviews"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"interviews": interviews})
}

// Create maneja POST /interviews.
func (h *InterviewHandler) Create(c *gin.Context) {
	user, ok := CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	var req struct {
		Role      string   `json:"role" binding:"required"`
		Type      string   `json:"type"`
		Level     string   `json:"level"`
		Techstack []string `json:"techstack"`
		Questions []string `json:"questions"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid create interview request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	interview := domain.Interview{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		Role:      req.Role,
		Type:      req.Type,
		Level:     req.Level,
		Techstack: req.Techstack,
		Questions: req.Questions,
		Finalized: false,
		CreatedAt: time.Now().UTC(),
	}
	if err := h.interviews.Create(c.Request.Context(), interview); err != nil {
		h.logger.Error("create interview failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create interview"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"interview": interview})
}

// GetByID maneja GET /interviews/:id.
func (h *InterviewHandler) GetByID(c *gin.Context) {
	interview, err := h.interviews.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "interview not found"})
			return
		}
		h.logger.Error("get interview failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not fetch interview"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"interview": interview})
}

// GetFeedback maneja GET /interviews/:id/feedback. Solo el dueño de la
// entrevista puede leer su feedback.
func (h *InterviewHandler) GetFeedback(c *gin.Context) {
	user, ok := CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	feedback, err := h.feedbackServ.GetForUser(c.Request.Context(), c.Param("id"), user.ID)
	if err != nil {
		h.respondFeedbackError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"feedback": feedback,
		"category": domain.AnalyzeCategory(feedback.TotalScore),
	})
}

// GenerateFeedback maneja POST /interviews/:id/feedback.
func (h *InterviewHandler) GenerateFeedback(c *gin.Context) {
	user, ok := CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	var req struct {
		Transcript []service.TranscriptMessage `json:"transcript" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid generate feedback request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	feedback, err := h.feedbackServ.Generate(c.Request.Context(), c.Param("id"), user.ID, req.Transcript)
	if err != nil {
		h.respondFeedbackError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"feedback": feedback,
		"category": domain.AnalyzeCategory(feedback.TotalScore),
	})
}

func (h *InterviewHandler) respondFeedbackError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInterviewNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "interview not found"})
	case errors.Is(err, service.ErrFeedbackNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "feedback not found"})
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
	case errors.Is(err, service.ErrFeedbackExists):
		c.JSON(http.StatusConflict, gin.H{"error": "feedback already exists"})
	case errors.Is(err, service.ErrEmptyTranscript):
		c.JSON(http.StatusBadRequest, gin.H{"error": "empty transcript"})
	default:
		h.logger.Error("feedback operation failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not process feedback"})
	}
}
