package dto

// AddFriendRequest links the authenticated user with another user.
type AddFriendRequest struct {
	UserID string `json:"userID" binding:"required"`
}
