package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"budget-planner/internal/logging"
	"budget-planner/internal/middleware"
	"budget-planner/internal/models"
	"budget-planner/internal/service"
	"budget-planner/internal/util"

	"github.com/gin-gonic/gin"
)

// currentUser writes a 401 and returns nil when no user is in the context.
func currentUser(c *gin.Context) *models.User {
	user := middleware.CurrentUser(c)
	if user == nil {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "not logged in")
		return nil
	}
	return user
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid id")
		return 0, false
	}
	return uint(id), true
}

// respondServiceError maps a service error to status and business code.
// Anything unrecognised is logged and answered with 500.
func respondServiceError(c *gin.Context, log *slog.Logger, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		util.Error(c, http.StatusNotFound, util.CodeNotFound, err.Error())
	case errors.Is(err, service.ErrDuplicateName),
		errors.Is(err, service.ErrDuplicateUsername),
		errors.Is(err, service.ErrDeleteBlocked):
		util.Error(c, http.StatusConflict, util.CodeConflict, err.Error())
	case errors.Is(err, service.ErrInvalidCategory),
		errors.Is(err, service.ErrInvalidAmount),
		errors.Is(err, service.ErrInvalidType),
		errors.Is(err, service.ErrInvalidPeriod),
		errors.Is(err, service.ErrInvalidPassword):
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
	case errors.Is(err, service.ErrAuthFailed),
		errors.Is(err, service.ErrSessionInvalid):
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, err.Error())
	default:
		_ = c.Error(err)
		log.Error("request failed", "path", c.Request.URL.Path, logging.Err(err))
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "internal server error")
	}
}

// ---------- response shapes ----------

type categoryResp struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

func toCategoryResp(cat *models.Category) categoryResp {
	return categoryResp{ID: cat.ID, Name: cat.Name, CreatedAt: cat.CreatedAt}
}

type transactionResp struct {
	ID          uint                   `json:"id"`
	Type        models.TransactionType `json:"type"`
	Amount      float64                `json:"amount"`
	AmountCents int64                  `json:"amount_cents"`
	Date        time.Time              `json:"date"`
	Description *string                `json:"description"`
	CategoryID  uint                   `json:"category_id"`
	Category    categoryResp           `json:"category"`
	CreatedAt   time.Time              `json:"created_at"`
}

func toTransactionResp(t *models.Transaction) transactionResp {
	return transactionResp{
		ID:          t.ID,
		Type:        t.Type,
		Amount:      t.Amount(),
		AmountCents: t.AmountCents,
		Date:        t.Date,
		Description: t.Description,
		CategoryID:  t.CategoryID,
		Category:    toCategoryResp(&t.Category),
		CreatedAt:   t.CreatedAt,
	}
}

type goalResp struct {
	ID                 uint       `json:"id"`
	Name               string     `json:"name"`
	TargetAmount       float64    `json:"target_amount"`
	CurrentAmount      float64    `json:"current_amount"`
	ProgressPercentage float64    `json:"progress_percentage"`
	TargetDate         *time.Time `json:"target_date"`
	CreationDate       time.Time  `json:"creation_date"`
}

func toGoalResp(g *models.Goal) goalResp {
	return goalResp{
		ID:                 g.ID,
		Name:               g.Name,
		TargetAmount:       g.TargetAmount(),
		CurrentAmount:      g.CurrentAmount(),
		ProgressPercentage: g.ProgressPercentage(),
		TargetDate:         g.TargetDate,
		CreationDate:       g.CreationDate,
	}
}

func userResp(u *models.User) gin.H {
	return gin.H{
		"id":         u.ID,
		"username":   u.Username,
		"created_at": u.CreatedAt,
	}
}
