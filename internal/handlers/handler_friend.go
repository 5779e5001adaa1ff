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

// friendHandler exposes the minimal social-graph surface the lending flows
// depend on.
type friendHandler struct {
	friendshipService portssvc.FriendshipSvcFacade
}

// newFriendHandler creates a new friendHandler.
func newFriendHandler(fs portssvc.FriendshipSvcFacade) *friendHandler {
	return &friendHandler{
		friendshipService: fs,
	}
}

// registerFriendRoutes registers routes related to friendships.
func registerFriendRoutes(rg *gin.RouterGroup, friendshipService portssvc.FriendshipSvcFacade) {
	h := newFriendHandler(friendshipService)

	friends := rg.Group("/friends")
	{
		friends.POST("", h.addFriend)
		friends.GET("/:userID", h.checkFriendship)
	}
}

// addFriend godoc
// @Summary Link the logged-in user with another user
// @Description Creates the friendship that lending flows require between the two parties
// @Tags friends
// @Accept  json
// @Produce  json
// @Param   friend body dto.AddFriendRequest true "User to link"
// @Success 201 {object} map[string]string
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 409 {object} map[string]string "Already friends"
// @Failure 500 {object} map[string]string "Failed to add friend"
// @Security BearerAuth
// @Router /friends [post]
func (h *friendHandler) addFriend(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.AddFriendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for AddFriend", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("friend_user_id", req.UserID))

	if err := h.friendshipService.AddFriend(c.Request.Context(), userID, req.UserID); err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Validation error adding friend", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else if errors.Is(err, apperrors.ErrDuplicate) {
			logger.Warn("Users are already friends")
			c.JSON(http.StatusConflict, gin.H{"error": "Already friends"})
		} else {
			logger.Error("Failed to add friend", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add friend"})
		}
		return
	}

	logger.Info("Friendship created")
	c.JSON(http.StatusCreated, gin.H{"status": "created"})
}

// checkFriendship godoc
// @Summary Check whether the logged-in user is friends with another user
// @Description Answers the membership predicate the lending flows check before money moves
// @Tags friends
// @Produce  json
// @Param   userID path string true "User ID"
// @Success 200 {object} map[string]bool
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to check friendship"
// @Security BearerAuth
// @Router /friends/{userID} [get]
func (h *friendHandler) checkFriendship(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	otherUserID := c.Param("userID")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	areFriends, err := h.friendshipService.AreFriends(c.Request.Context(), userID, otherUserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Validation error checking friendship", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to check friendship", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check friendship"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"areFriends": areFriends})
}
