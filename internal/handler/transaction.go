package handler

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"budget-planner/internal/models"
	"budget-planner/internal/service"
	"budget-planner/internal/util"

	"github.com/gin-gonic/gin"
)

const maxListLimit = 500

// TransactionHandler serves income/expense records.
type TransactionHandler struct {
	Transactions *service.TransactionService
	PageSize     int
	Log          *slog.Logger
}

func NewTransactionHandler(transactions *service.TransactionService, pageSize int, log *slog.Logger) *TransactionHandler {
	return &TransactionHandler{Transactions: transactions, PageSize: pageSize, Log: log}
}

// ---------- request shapes ----------

type createTransactionReq struct {
	CategoryID  uint                   `json:"category_id" binding:"required"`
	Amount      float64                `json:"amount" binding:"required,gt=0"`
	Type        models.TransactionType `json:"type" binding:"required,oneof=income expense"`
	Date        string                 `json:"date"`
	Description *string                `json:"description" binding:"omitempty,max=255"`
}

type updateTransactionReq struct {
	CategoryID  *uint                   `json:"category_id" binding:"omitempty,gt=0"`
	Amount      *float64                `json:"amount" binding:"omitempty,gt=0"`
	Type        *models.TransactionType `json:"type" binding:"omitempty,oneof=income expense"`
	Date        *string                 `json:"date"`
	Description *string                 `json:"description" binding:"omitempty,max=255"`
}

// ---------- handlers ----------

func (h *TransactionHandler) Create(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}

	var req createTransactionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid parameters")
		return
	}
	if err := util.ValidateAmount(req.Amount); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
		return
	}

	// empty date means now
	var date time.Time
	if req.Date != "" {
		d, err := util.ParseDate(req.Date)
		if err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
			return
		}
		date = d
	}

	t, err := h.Transactions.Create(c.Request.Context(), user.ID, service.TransactionInput{
		CategoryID:  req.CategoryID,
		Amount:      req.Amount,
		Type:        req.Type,
		Date:        date,
		Description: req.Description,
	})
	if err != nil {
		respondServiceError(c, h.Log, err)
		return
	}
	util.SuccessStatus(c, http.StatusCreated, util.Response{"transaction": toTransactionResp(t)})
}

// List supports ?skip=&limit= pagination, newest first.
func (h *TransactionHandler) List(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}

	skip, err := strconv.Atoi(c.DefaultQuery("skip", "0"))
	if err != nil || skip < 0 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid skip")
		return
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(h.PageSize)))
	if err != nil || limit <= 0 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid limit")
		return
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	list, err := h.Transactions.List(c.Request.Context(), user.ID, skip, limit)
	if err != nil {
		respondServiceError(c, h.Log, err)
		return
	}
	items := make([]transactionResp, 0, len(list))
	for i := range list {
		items = append(items, toTransactionResp(&list[i]))
	}
	util.Success(c, util.Response{
		"items": items,
		"skip":  skip,
		"limit": limit,
	})
}

func (h *TransactionHandler) Get(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}

	t, err := h.Transactions.Get(c.Request.Context(), id, user.ID)
	if err != nil {
		respondServiceError(c, h.Log, err)
		return
	}
	util.Success(c, util.Response{"transaction": toTransactionResp(t)})
}

// Update applies a partial update; on any invalid field nothing changes.
func (h *TransactionHandler) Update(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req updateTransactionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid parameters")
		return
	}
	if req.Amount != nil {
		if err := util.ValidateAmount(*req.Amount); err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
			return
		}
	}

	upd := service.TransactionUpdate{
		CategoryID:  req.CategoryID,
		Amount:      req.Amount,
		Type:        req.Type,
		Description: req.Description,
	}
	if req.Date != nil {
		d, err := util.ParseDate(*req.Date)
		if err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
			return
		}
		upd.Date = &d
	}

	t, err := h.Transactions.Update(c.Request.Context(), id, user.ID, upd)
	if err != nil {
		respondServiceError(c, h.Log, err)
		return
	}
	util.Success(c, util.Response{"transaction": toTransactionResp(t)})
}

func (h *TransactionHandler) Delete(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.Transactions.Delete(c.Request.Context(), id, user.ID); err != nil {
		respondServiceError(c, h.Log, err)
		return
	}
	util.Success(c, util.Response{"message": "deleted"})
}
