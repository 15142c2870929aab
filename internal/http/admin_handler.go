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

	"salus-lms/internal/domain"
	"salus-lms/internal/repository"
	"salus-lms/internal/service"
)

// AdminHandler concentra el panel de administracion: altas de usuarios,
// equipos, cargos y el grafico de accesos.
type AdminHandler struct {
	logger      *zap.Logger
	userServ    *service.UserService
	userRepo    repository.UserRepository
	teamRepo    repository.TeamRepository
	cargoRepo   repository.CargoRepository
	activitySvc *service.ActivityService
}

func NewAdminHandler(
	logger *zap.Logger,
	userServ *service.UserService,
	userRepo repository.UserRepository,
	teamRepo repository.TeamRepository,
	cargoRepo repository.CargoRepository,
	activitySvc *service.ActivityService,
) *AdminHandler {
	return &AdminHandler{
		logger:      logger,
		userServ:    userServ,
		userRepo:    userRepo,
		teamRepo:    teamRepo,
		cargoRepo:   cargoRepo,
		activitySvc: activitySvc,
	}
}

// CreateUser maneja POST /admin/users.
func (h *AdminHandler) CreateUser(c *gin.Context) {
	var req struct {
		Email       string `json:"email" binding:"required,email"`
		DisplayName string `json:"display_name" binding:"required"`
		Role        string `json:"role"`
		CargoID     string `json:"cargo_id"`
		TeamID      string `json:"team_id"`
		Password    string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	user, err := h.userServ.CreateUser(c.Request.Context(), service.CreateUserInput{
		Email:       req.Email,
		DisplayName: req.DisplayName,
		Role:        req.Role,
		CargoID:     req.CargoID,
		TeamID:      req.TeamID,
		Password:    req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidEmail):
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid email"})
		case errors.Is(err, service.ErrInvalidRole):
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid role"})
		default:
			h.logger.Error("create user failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create user"})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"user": user})
}

// ListUsers maneja GET /admin/users.
func (h *AdminHandler) ListUsers(c *gin.Context) {
	users, err := h.userRepo.List(c.Request.Context())
	if err != nil {
		h.logger.Error("list users failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list users"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

// UpdateUser maneja PUT /admin/users/:id.
func (h *AdminHandler) UpdateUser(c *gin.Context) {
	var req struct {
		DisplayName string `json:"display_name" binding:"required"`
		Role        string `json:"role" binding:"required"`
		CargoID     string `json:"cargo_id"`
		TeamID      string `json:"team_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	if req.Role != domain.RoleStaff && req.Role != domain.RoleManager && req.Role != domain.RoleAdmin {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid role"})
		return
	}

	id := c.Param("id")
	err := h.userRepo.UpdateAdminFields(c.Request.Context(), id, req.DisplayName, req.Role, req.CargoID, req.TeamID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		h.logger.Error("update user failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update user"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "updated"})
}

// CreateTeam maneja POST /admin/teams.
func (h *AdminHandler) CreateTeam(c *gin.Context) {
	var req struct {
		Name      string `json:"name" binding:"required"`
		ManagerID string `json:"manager_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	team := domain.Team{
		ID:        uuid.NewString(),
		Name:      req.Name,
		ManagerID: req.ManagerID,
		CreatedAt: time.Now().UTC(),
	}
	if err := h.teamRepo.Create(c.Request.Context(), team); err != nil {
		h.logger.Error("create team failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create team"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"team": team})
}

// ListTeams maneja GET /admin/teams.
func (h *AdminHandler) ListTeams(c *gin.Context) {
	teams, err := h.teamRepo.List(c.Request.Context())
	if err != nil {
		h.logger.Error("list teams failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list teams"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"teams": teams})
}

// UpdateTeam maneja PUT /admin/teams/:id.
func (h *AdminHandler) UpdateTeam(c *gin.Context) {
	var req struct {
		Name      string `json:"name" binding:"required"`
		ManagerID string `json:"manager_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	team := domain.Team{
		ID:        c.Param("id"),
		Name:      req.Name,
		ManagerID: req.ManagerID,
	}
	if err := h.teamRepo.Update(c.Request.Context(), team); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "team not found"})
			return
		}
		h.logger.Error("update team failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update team"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "updated"})
}

// CreateCargo maneja POST /admin/cargos.
func (h *AdminHandler) CreateCargo(c *gin.Context) {
	var req struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	cargo := domain.Cargo{
		ID:        uuid.NewString(),
		Name:      req.Name,
		CreatedAt: time.Now().UTC(),
	}
	if err := h.cargoRepo.Create(c.Request.Context(), cargo); err != nil {
		h.logger.Error("create cargo failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create cargo"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"cargo": cargo})
}

// ListCargos maneja GET /admin/cargos.
func (h *AdminHandler) ListCargos(c *gin.Context) {
	cargos, err := h.cargoRepo.List(c.Request.Context())
	if err != nil {
		h.logger.Error("list cargos failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list cargos"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"cargos": cargos})
}

// AccessChart maneja GET /admin/activity/chart?days=30.
func (h *AdminHandler) AccessChart(c *gin.Context) {
	days := 30
	if raw := c.Query("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 365 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid days"})
			return
		}
		days = parsed
	}

	series, err := h.activitySvc.AccessChart(c.Request.Context(), days)
	if err != nil {
		h.logger.Error("access chart failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load chart"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"daily_access": series})
}
