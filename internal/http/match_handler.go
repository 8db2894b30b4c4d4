package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"tutor-match/internal/service"
)

// MatchHandler expone el endpoint de matching de tutores.
type MatchHandler struct {
	logger   *zap.Logger
	matchSvc *service.MatchService
}

func NewMatchHandler(logger *zap.Logger, matchSvc *service.MatchService) *MatchHandler {
	return &MatchHandler{
		logger:   logger,
		matchSvc: matchSvc,
	}
}

// MatchTutors maneja POST /api/learner/match-tutors.
// El learner sale del token; el body no lleva nada.
func (h *MatchHandler) MatchTutors(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok || claims.Role != service.RoleLearner {
		c.JSON(http.StatusForbidden, gin.H{"error": "learner role required"})
		return
	}

	response, err := h.matchSvc.FindMatches(c.Request.Context(), claims.UserID)
	if err != nil {
		h.respondMatchError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":            true,
		"matches":            response.Matches,
		"cache_hit":          response.CacheHit,
		"ai_ranked":          response.AIRanked,
		"processing_time_ms": response.ProcessingTimeMS,
	})
}

// respondMatchError traduce errores del servicio a status codes.
// Los errores de precondicion son accionables por el usuario; cualquier otra
// cosa es un 500 sin detalle interno.
func (h *MatchHandler) respondMatchError(c *gin.Context, err error) {
	var rateErr *service.RateLimitedError
	switch {
	case errors.As(err, &rateErr):
		c.Header("Retry-After", strconv.Itoa(rateErr.RetryAfterSeconds))
		c.JSON(http.StatusTooManyRequests, gin.H{
			"error":               "Too many matching requests. Please wait 5 minutes.",
			"retry_after_seconds": rateErr.RetryAfterSeconds,
		})
	case errors.Is(err, service.ErrAssessmentRequired):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cognitive assessment required"})
	case errors.Is(err, service.ErrNoQualifiedTutors):
		c.JSON(http.StatusBadRequest, gin.H{"error": "No qualified tutors available"})
	case errors.Is(err, service.ErrLearnerNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Learner not found"})
	default:
		h.logger.Error("matching failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not compute matches"})
	}
}
