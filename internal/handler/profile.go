package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"budget-planner/internal/middleware"
	"budget-planner/internal/service"
	"budget-planner/internal/util"

	"github.com/gin-gonic/gin"
)

// GetMe returns the logged-in user (requires AuthMiddleware).
func GetMe(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}
	util.Success(c, util.Response{"user": userResp(user)})
}

type ProfileHandler struct {
	Users    *service.UserService
	Sessions *service.SessionService
	Log      *slog.Logger
}

func NewProfileHandler(users *service.UserService, sessions *service.SessionService, log *slog.Logger) *ProfileHandler {
	return &ProfileHandler{Users: users, Sessions: sessions, Log: log}
}

type changePasswordReq struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=6,max=64"`
}

// ChangePassword sets a new password and logs out every other session.
func (h *ProfileHandler) ChangePassword(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}

	var req changePasswordReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid parameters")
		return
	}

	ctx := c.Request.Context()
	if err := h.Users.ChangePassword(ctx, user.ID, req.OldPassword, req.NewPassword); err != nil {
		if errors.Is(err, service.ErrAuthFailed) {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "old password is incorrect")
			return
		}
		respondServiceError(c, h.Log, err)
		return
	}

	if err := h.Sessions.RevokeOthers(ctx, user.ID, middleware.SessionID(c)); err != nil {
		respondServiceError(c, h.Log, err)
		return
	}

	util.Success(c, util.Response{"message": "password updated"})
}
