package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"salus-lms/internal/domain"
	"salus-lms/internal/llm"
	"salus-lms/internal/service"
)

// AssessmentHandler expone el pipeline de evaluacion y el perfil SWOT.
type AssessmentHandler struct {
	logger        *zap.Logger
	assessmentSvc *service.AssessmentService
	profileSvc    *service.ProfileService
}

func NewAssessmentHandler(logger *zap.Logger, assessmentSvc *service.AssessmentService, profileSvc *service.ProfileService) *AssessmentHandler {
	return &AssessmentHandler{
		logger:        logger,
		assessmentSvc: assessmentSvc,
		profileSvc:    profileSvc,
	}
}

// Submit maneja POST /assessments. Valida que todas las preguntas tengan
// respuesta antes de tocar el pipeline.
func (h *AssessmentHandler) Submit(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}

	var req struct {
		Responses map[string]string `json:"responses" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid assessment request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	assessment, err := h.assessmentSvc.SubmitAssessment(c.Request.Context(), claims.UserID, req.Responses)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrIncompleteQuestionnaire):
			c.JSON(http.StatusBadRequest, gin.H{"error": "incomplete questionnaire"})
		case errors.Is(err, llm.ErrSchemaMismatch):
			h.logger.Error("swot generation schema mismatch", zap.Error(err), zap.String("user_id", claims.UserID))
			c.JSON(http.StatusBadGateway, gin.H{"error": "analysis unavailable, retry later"})
		case errors.Is(err, service.ErrRecommendationUnavailable):
			h.logger.Error("recommendation unavailable", zap.Error(err), zap.String("user_id", claims.UserID))
			c.JSON(http.StatusBadGateway, gin.H{"error": "recommendation unavailable, retry later"})
		default:
			h.logger.Error("submit assessment failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not submit assessment"})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"assessment": assessment})
}

// Status maneja GET /assessments/status: indica si corresponde reevaluar.
// Los roles sin perfil de aprendizaje nunca requieren evaluacion.
func (h *AssessmentHandler) Status(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}

	if !domain.RequiresReassessment(claims.Role) {
		c.JSON(http.StatusOK, gin.H{"assessment_required": false})
		return
	}

	required, err := h.assessmentSvc.IsAssessmentRequiredForUser(c.Request.Context(), claims.UserID)
	if err != nil {
		h.logger.Error("assessment status failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load profile"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"assessment_required": required})
}

// Latest maneja GET /assessments/latest.
func (h *AssessmentHandler) Latest(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}

	assessment, found, err := h.profileSvc.LatestAssessment(c.Request.Context(), claims.UserID)
	if err != nil {
		h.logger.Error("latest assessment failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load assessment"})
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "no assessment yet"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"assessment": assessment})
}

// History maneja GET /assessments/history.
func (h *AssessmentHandler) History(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}

	history, err := h.profileSvc.AssessmentHistory(c.Request.Context(), claims.UserID)
	if err != nil {
		h.logger.Error("assessment history failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load history"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"assessments": history})
}
