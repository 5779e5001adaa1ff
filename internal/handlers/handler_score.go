package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/good4it/good4it_backend/internal/apperrors"
	portssvc "github.com/good4it/good4it_backend/internal/core/ports/services"
	"github.com/good4it/good4it_backend/internal/dto"
	"github.com/good4it/good4it_backend/internal/middleware"
)

// scoreHandler handles HTTP requests related to reputation scores.
type scoreHandler struct {
	scoreService portssvc.ScoreSvcFacade
}

// newScoreHandler creates a new scoreHandler.
func newScoreHandler(ss portssvc.ScoreSvcFacade) *scoreHandler {
	return &scoreHandler{
		scoreService: ss,
	}
}

// registerScoreRoutes registers routes related to reputation scores.
func registerScoreRoutes(rg *gin.RouterGroup, scoreService portssvc.ScoreSvcFacade) {
	h := newScoreHandler(scoreService)

	scores := rg.Group("/scores")
	{
		scores.GET("/me", h.getMyScore)
		scores.GET("/me/history", h.listMyScoreHistory)
		scores.GET("/:userID", h.getUserScore)
	}
}

// getMyScore godoc
// @Summary Get the logged-in user's reputation score
// @Description Retrieves the current score, defaulting for users with no history
// @Tags scores
// @Produce  json
// @Success 200 {object} dto.ScoreResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to retrieve score"
// @Security BearerAuth
// @Router /scores/me [get]
func (h *scoreHandler) getMyScore(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	h.respondScore(c, logger, userID)
}

// getUserScore godoc
// @Summary Get another user's reputation score
// @Description Retrieves the current score of any user, defaulting for users with no history
// @Tags scores
// @Produce  json
// @Param   userID path string true "User ID"
// @Success 200 {object} dto.ScoreResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to retrieve score"
// @Security BearerAuth
// @Router /scores/{userID} [get]
func (h *scoreHandler) getUserScore(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	targetUserID := c.Param("userID")

	if _, ok := middleware.GetUserIDFromContext(c); !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	h.respondScore(c, logger, targetUserID)
}

func (h *scoreHandler) respondScore(c *gin.Context, logger *slog.Logger, userID string) {
	score, err := h.scoreService.GetScore(c.Request.Context(), userID)
	if err != nil {
		logger.Error("Failed to get score from service", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve score"})
		return
	}

	c.JSON(http.StatusOK, dto.ToScoreResponse(score))
}

// listMyScoreHistory godoc
// @Summary List the logged-in user's score ledger
// @Description Retrieves a paginated page of the append-only score history, newest first
// @Tags scores
// @Produce  json
// @Param   limit query int false "Limit number of results" default(20)
// @Param   nextToken query string false "Pagination token from a previous response"
// @Success 200 {object} dto.ListScoreHistoryResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list score history"
// @Security BearerAuth
// @Router /scores/me/history [get]
func (h *scoreHandler) listMyScoreHistory(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var params dto.ListScoreHistoryParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query for ListScoreHistory", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	resp, err := h.scoreService.ListScoreHistory(c.Request.Context(), userID, params)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Validation error listing score history", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to list score history", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list score history"})
		}
		return
	}

	c.JSON(http.StatusOK, resp)
}
