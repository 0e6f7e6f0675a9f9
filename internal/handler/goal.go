package handler

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"budget-planner/internal/service"
	"budget-planner/internal/util"

	"github.com/gin-gonic/gin"
)

type GoalHandler struct {
	Goals *service.GoalService
	Log   *slog.Logger
}

func NewGoalHandler(goals *service.GoalService, log *slog.Logger) *GoalHandler {
	return &GoalHandler{Goals: goals, Log: log}
}

type createGoalReq struct {
	Name          string  `json:"name" binding:"required"`
	TargetAmount  float64 `json:"target_amount" binding:"required,gt=0"`
	CurrentAmount float64 `json:"current_amount" binding:"gte=0"`
	TargetDate    *string `json:"target_date"`
}

type updateGoalReq struct {
	Name            *string  `json:"name"`
	TargetAmount    *float64 `json:"target_amount" binding:"omitempty,gt=0"`
	CurrentAmount   *float64 `json:"current_amount" binding:"omitempty,gte=0"`
	TargetDate      *string  `json:"target_date"`
	ClearTargetDate bool     `json:"clear_target_date"`
}

type contributeReq struct {
	Amount float64 `json:"amount" binding:"required,gt=0"`
}

// optionalDate parses a nullable date; nil or "" means absent.
func optionalDate(s *string) (*time.Time, error) {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil, nil
	}
	d, err := util.ParseDate(*s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (h *GoalHandler) Create(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}

	var req createGoalReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid parameters")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if err := util.ValidateName(req.Name, maxNameLen); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
		return
	}
	if err := util.ValidateAmount(req.TargetAmount); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
		return
	}
	if err := util.ValidateBalance(req.CurrentAmount); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
		return
	}
	due, err := optionalDate(req.TargetDate)
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
		return
	}

	g, err := h.Goals.Create(c.Request.Context(), user.ID, service.GoalInput{
		Name:          req.Name,
		TargetAmount:  req.TargetAmount,
		CurrentAmount: req.CurrentAmount,
		TargetDate:    due,
	})
	if err != nil {
		respondServiceError(c, h.Log, err)
		return
	}
	util.SuccessStatus(c, http.StatusCreated, util.Response{"goal": toGoalResp(g)})
}

func (h *GoalHandler) List(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}

	goals, err := h.Goals.List(c.Request.Context(), user.ID)
	if err != nil {
		respondServiceError(c, h.Log, err)
		return
	}
	items := make([]goalResp, 0, len(goals))
	for i := range goals {
		items = append(items, toGoalResp(&goals[i]))
	}
	util.Success(c, util.Response{"items": items})
}

func (h *GoalHandler) Get(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}

	g, err := h.Goals.Get(c.Request.Context(), id, user.ID)
	if err != nil {
		respondServiceError(c, h.Log, err)
		return
	}
	util.Success(c, util.Response{"goal": toGoalResp(g)})
}

func (h *GoalHandler) Update(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req updateGoalReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid parameters")
		return
	}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if err := util.ValidateName(name, maxNameLen); err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
			return
		}
		req.Name = &name
	}
	if req.TargetAmount != nil {
		if err := util.ValidateAmount(*req.TargetAmount); err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
			return
		}
	}
	if req.CurrentAmount != nil {
		if err := util.ValidateBalance(*req.CurrentAmount); err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
			return
		}
	}
	due, err := optionalDate(req.TargetDate)
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
		return
	}

	g, err := h.Goals.Update(c.Request.Context(), id, user.ID, service.GoalUpdate{
		Name:            req.Name,
		TargetAmount:    req.TargetAmount,
		CurrentAmount:   req.CurrentAmount,
		TargetDate:      due,
		ClearTargetDate: req.ClearTargetDate,
	})
	if err != nil {
		respondServiceError(c, h.Log, err)
		return
	}
	util.Success(c, util.Response{"goal": toGoalResp(g)})
}

// Contribute handles POST /goals/:id/contribute.
func (h *GoalHandler) Contribute(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req contributeReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid parameters")
		return
	}
	if err := util.ValidateAmount(req.Amount); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
		return
	}

	g, err := h.Goals.Contribute(c.Request.Context(), id, user.ID, req.Amount)
	if err != nil {
		respondServiceError(c, h.Log, err)
		return
	}
	util.Success(c, util.Response{"goal": toGoalResp(g)})
}

func (h *GoalHandler) Delete(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.Goals.Delete(c.Request.Context(), id, user.ID); err != nil {
		respondServiceError(c, h.Log, err)
		return
	}
	util.Success(c, util.Response{"message": "deleted"})
}
