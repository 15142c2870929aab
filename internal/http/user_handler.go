package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"salus-lms/internal/service"
)

// UserHandler mantiene dependencias para endpoints de autenticacion.
type UserHandler struct {
	logger      *zap.Logger
	userServ    *service.UserService
	jwtServ     *service.JWTService
	activitySvc *service.ActivityService
}

func NewUserHandler(logger *zap.Logger, userServ *service.UserService, jwtServ *service.JWTService, activitySvc *service.ActivityService) *UserHandler {
	return &UserHandler{
		logger:      logger,
		userServ:    userServ,
		jwtServ:     jwtServ,
		activitySvc: activitySvc,
	}
}

// Login maneja POST /auth/login.
func (h *UserHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid login request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	user, err := h.userServ.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}
		h.logger.Error("login failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not login"})
		return
	}

	tokens, err := h.jwtServ.GeneratePair(user)
	if err != nil {
		h.logger.Error("jwt issue failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not issue tokens"})
		return
	}

	if h.activitySvc != nil {
		if err := h.activitySvc.RecordLogin(c.Request.Context(), user.ID); err != nil {
			h.logger.Warn("record login failed", zap.Error(err), zap.String("user_id", user.ID))
		}
	}

	c.JSON(http.StatusOK, gin.H{"user": user, "tokens": tokens})
}

// RequestOTP maneja POST /auth/otp/request.
func (h *UserHandler) RequestOTP(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid otp request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	_, err := h.userServ.RequestOTP(c.Request.Context(), req.Email)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		case errors.Is(err, service.ErrEmailSendFailure):
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "email delivery unavailable"})
		case errors.Is(err, service.ErrRateLimited):
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
		default:
			h.logger.Error("request otp failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not request otp"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "otp_sent"})
}

// VerifyOTP maneja POST /auth/otp/verify.
func (h *UserHandler) VerifyOTP(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required,email"`
		Code  string `json:"code" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid otp verify request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	user, err := h.userServ.VerifyOTP(c.Request.Context(), req.Email, req.Code)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		case errors.Is(err, service.ErrOTPNotRequested),
			errors.Is(err, service.ErrOTPExpired),
			errors.Is(err, service.ErrOTPInvalid):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		default:
			h.logger.Error("verify otp failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not verify otp"})
			return
		}
	}

	tokens, err := h.jwtServ.GeneratePair(user)
	if err != nil {
		h.logger.Error("jwt issue failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not issue tokens"})
		return
	}

	if h.activitySvc != nil {
		if err := h.activitySvc.RecordLogin(c.Request.Context(), user.ID); err != nil {
			h.logger.Warn("record login failed", zap.Error(err), zap.String("user_id", user.ID))
		}
	}

	c.JSON(http.StatusOK, gin.H{"user": user, "tokens": tokens})
}

// Refresh maneja POST /auth/refresh.
func (h *UserHandler) Refresh(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	tokens, err := h.jwtServ.RefreshPair(req.RefreshToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid refresh token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"tokens": tokens})
}

// Logout maneja POST /auth/logout. Revoca el refresh y registra el evento.
func (h *UserHandler) Logout(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	if err := h.jwtServ.RevokeRefresh(req.RefreshToken); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid refresh token"})
		return
	}

	if claims, ok := GetAuthClaims(c); ok && h.activitySvc != nil {
		if err := h.activitySvc.RecordLogout(c.Request.Context(), claims.UserID); err != nil {
			h.logger.Warn("record logout failed", zap.Error(err), zap.String("user_id", claims.UserID))
		}
	}

	c.JSON(http.StatusOK, gin.H{"status": "logged_out"})
}
