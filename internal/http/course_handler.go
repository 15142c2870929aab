package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"salus-lms/internal/domain"
	"salus-lms/internal/repository"
	"salus-lms/internal/service"
)

// CourseHandler expone el catalogo, la busqueda semantica y el progreso.
type CourseHandler struct {
	logger      *zap.Logger
	courseRepo  repository.CourseRepository
	searchSvc   *service.CourseSearchService
	progressSvc *service.ProgressService
}

func NewCourseHandler(logger *zap.Logger, courseRepo repository.CourseRepository, searchSvc *service.CourseSearchService, progressSvc *service.ProgressService) *CourseHandler {
	return &CourseHandler{
		logger:      logger,
		courseRepo:  courseRepo,
		searchSvc:   searchSvc,
		progressSvc: progressSvc,
	}
}

// List maneja GET /courses.
func (h *CourseHandler) List(c *gin.Context) {
	courses, err := h.courseRepo.List(c.Request.Context())
	if err != nil {
		h.logger.Error("list courses failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list courses"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"courses": courses})
}

// Get maneja GET /courses/:id.
func (h *CourseHandler) Get(c *gin.Context) {
	course, err := h.courseRepo.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "course not found"})
			return
		}
		h.logger.Error("get course failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load course"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"course": course})
}

// Create maneja POST /courses (solo admin). Indexa el embedding en el momento;
// si el proveedor falla el curso queda creado y se reintenta desde el panel.
func (h *CourseHandler) Create(c *gin.Context) {
	var req struct {
		Title       string `json:"title" binding:"required"`
		Description string `json:"description" binding:"required"`
		Lessons     int    `json:"lessons" binding:"required,min=1"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	course := domain.Course{
		ID:          uuid.NewString(),
		Title:       req.Title,
		Description: req.Description,
		Lessons:     req.Lessons,
	}
	if err := h.courseRepo.Create(c.Request.Context(), course); err != nil {
		h.logger.Error("create course failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create course"})
		return
	}

	if err := h.searchSvc.IndexCourse(c.Request.Context(), course); err != nil {
		h.logger.Warn("course embedding deferred", zap.Error(err), zap.String("course_id", course.ID))
	}

	c.JSON(http.StatusCreated, gin.H{"course": course})
}

// Reindex maneja POST /courses/:id/reindex (solo admin).
func (h *CourseHandler) Reindex(c *gin.Context) {
	course, err := h.courseRepo.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "course not found"})
			return
		}
		h.logger.Error("get course failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load course"})
		return
	}

	if err := h.searchSvc.IndexCourse(c.Request.Context(), course); err != nil {
		h.logger.Error("reindex course failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "could not index course"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "indexed"})
}

// Search maneja GET /courses/search?q=...&k=...
func (h *CourseHandler) Search(c *gin.Context) {
	query := c.Query("q")
	k := 5
	if raw := c.Query("k"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 20 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid k"})
			return
		}
		k = parsed
	}

	courses, err := h.searchSvc.Search(c.Request.Context(), query, k)
	if err != nil {
		h.logger.Error("course search failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "search unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"courses": courses})
}

// CompleteLesson maneja POST /courses/:id/lessons/:index/complete.
func (h *CourseHandler) CompleteLesson(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}

	lessonIndex, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid lesson index"})
		return
	}

	err = h.progressSvc.CompleteLesson(c.Request.Context(), claims.UserID, c.Param("id"), lessonIndex)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrLessonOutOfRange):
			c.JSON(http.StatusBadRequest, gin.H{"error": "lesson index out of range"})
		case errors.Is(err, pgx.ErrNoRows):
			c.JSON(http.StatusNotFound, gin.H{"error": "course not found"})
		default:
			h.logger.Error("complete lesson failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not record progress"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "completed"})
}

// Progress maneja GET /courses/:id/progress.
func (h *CourseHandler) Progress(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}

	progress, err := h.progressSvc.CourseProgress(c.Request.Context(), claims.UserID, c.Param("id"))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "course not found"})
			return
		}
		h.logger.Error("course progress failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load progress"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"progress": progress})
}
