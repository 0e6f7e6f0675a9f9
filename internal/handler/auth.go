package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"regexp"
	"strings"

	"budget-planner/internal/middleware"
	"budget-planner/internal/service"
	"budget-planner/internal/util"

	"github.com/gin-gonic/gin"
)

var usernameRe = regexp.MustCompile(`^[A-Za-z0-9_]{3,32}$`)

// AuthHandler serves register, login and logout.
type AuthHandler struct {
	Users     *service.UserService
	Sessions  *service.SessionService
	JWTSecret string
	Issuer    string
	Log       *slog.Logger
}

func NewAuthHandler(users *service.UserService, sessions *service.SessionService, jwtSecret, issuer string, log *slog.Logger) *AuthHandler {
	return &AuthHandler{
		Users:     users,
		Sessions:  sessions,
		JWTSecret: jwtSecret,
		Issuer:    issuer,
		Log:       log,
	}
}

// ---------- register ----------

type registerReq struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required,min=6,max=64"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req registerReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid parameters")
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	// 3-32 letters, digits or underscores
	if !usernameRe.MatchString(req.Username) {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "username must be 3-32 letters, digits or underscores")
		return
	}

	user, err := h.Users.Create(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondServiceError(c, h.Log, err)
		return
	}

	h.Log.Info("user registered", "user_id", user.ID)
	util.SuccessStatus(c, http.StatusCreated, util.Response{
		"user": userResp(user),
	})
}

// ---------- login ----------

type loginReq struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid parameters")
		return
	}

	ctx := c.Request.Context()
	user, err := h.Users.Authenticate(ctx, strings.TrimSpace(req.Username), req.Password)
	if err != nil {
		if errors.Is(err, service.ErrAuthFailed) {
			h.Log.Warn("login failed", "username", req.Username, "ip", c.ClientIP())
		}
		respondServiceError(c, h.Log, err)
		return
	}

	sess, err := h.Sessions.Start(ctx, user.ID)
	if err != nil {
		respondServiceError(c, h.Log, err)
		return
	}

	ttl := h.Sessions.TTL()
	token, err := util.GenerateToken(h.JWTSecret, h.Issuer, user.ID, sess.ID, ttl)
	if err != nil {
		respondServiceError(c, h.Log, err)
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.TokenCookie, token, int(ttl.Seconds()), "/", "", false, true)

	util.Success(c, util.Response{
		"token":      token,
		"expires_at": sess.ExpiresAt,
		"user":       userResp(user),
	})
}

// ---------- logout ----------

// Logout revokes the session behind the current token.
func (h *AuthHandler) Logout(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}

	if err := h.Sessions.Revoke(c.Request.Context(), middleware.SessionID(c), user.ID); err != nil {
		respondServiceError(c, h.Log, err)
		return
	}

	c.SetCookie(middleware.TokenCookie, "", -1, "/", "", false, true)
	util.Success(c, util.Response{"message": "logged out"})
}
