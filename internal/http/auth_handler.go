package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"tutor-match/internal/repository"
	"tutor-match/internal/service"
)

// AuthHandler expone el login de learners.
type AuthHandler struct {
	logger   *zap.Logger
	learners repository.LearnerRepository
	jwtSvc   *service.JWTService
}

func NewAuthHandler(logger *zap.Logger, learners repository.LearnerRepository, jwtSvc *service.JWTService) *AuthHandler {
	return &AuthHandler{
		logger:   logger,
		learners: learners,
		jwtSvc:   jwtSvc,
	}
}

// Login maneja POST /auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid login request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	learner, err := h.learners.GetByEmail(c.Request.Context(), req.Email)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			h.logger.Error("login lookup failed", zap.Error(err))
		}
		// Mismo mensaje exista o no la cuenta.
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(learner.PasswordHash), []byte(req.Password)) != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	token, err := h.jwtSvc.GenerateAccessToken(learner)
	if err != nil {
		h.logger.Error("token generation failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not issue token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"access_token": token,
		"expires_in":   int64(h.jwtSvc.AccessTTL().Seconds()),
	})
}
