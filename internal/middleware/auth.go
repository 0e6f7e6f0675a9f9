package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"budget-planner/internal/logging"
	"budget-planner/internal/models"
	"budget-planner/internal/service"
	"budget-planner/internal/util"

	"github.com/gin-gonic/gin"
)

const (
	// TokenCookie is the cookie checked when no Authorization header is sent.
	TokenCookie = "bp_token"

	ctxUser    = "currentUser"
	ctxSession = "sessionID"
)

// AuthMiddleware verifies the JWT, checks its session is still live, and puts
// the current user in the context.
func AuthMiddleware(jwtSecret string, users *service.UserService, sessions *service.SessionService, log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := tokenFromRequest(c)
		if tokenStr == "" {
			util.Error(c, http.StatusUnauthorized, util.CodeAuth, "not logged in")
			c.Abort()
			return
		}

		claims, err := util.ParseToken(jwtSecret, tokenStr)
		if err != nil {
			util.Error(c, http.StatusUnauthorized, util.CodeAuth, "login expired, please log in again")
			c.Abort()
			return
		}

		ctx := c.Request.Context()
		if _, err := sessions.Validate(ctx, claims.ID, claims.UserID); err != nil {
			if errors.Is(err, service.ErrSessionInvalid) {
				util.Error(c, http.StatusUnauthorized, util.CodeAuth, "login expired, please log in again")
			} else {
				log.Error("validate session", logging.Err(err))
				util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to check session")
			}
			c.Abort()
			return
		}

		user, err := users.GetByID(ctx, claims.UserID)
		if err != nil {
			if errors.Is(err, service.ErrNotFound) {
				util.Error(c, http.StatusUnauthorized, util.CodeAuth, "user does not exist")
			} else {
				log.Error("load user", logging.Err(err))
				util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to load user")
			}
			c.Abort()
			return
		}

		c.Set(ctxUser, user)
		c.Set(ctxSession, claims.ID)
		c.Next()
	}
}

// tokenFromRequest checks, in order: Authorization: Bearer, ?token= (for
// downloads that cannot set headers), then the bp_token cookie.
func tokenFromRequest(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); h != "" {
		parts := strings.SplitN(h, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
	}
	if t := c.Query("token"); t != "" {
		return t
	}
	if cookie, err := c.Cookie(TokenCookie); err == nil {
		return cookie
	}
	return ""
}

// CurrentUser returns the user set by AuthMiddleware, or nil.
func CurrentUser(c *gin.Context) *models.User {
	v, ok := c.Get(ctxUser)
	if !ok {
		return nil
	}
	user, _ := v.(*models.User)
	return user
}

// SessionID returns the session id of the current token.
func SessionID(c *gin.Context) string {
	return c.GetString(ctxSession)
}
