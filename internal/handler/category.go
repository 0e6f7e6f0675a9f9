package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"budget-planner/internal/service"
	"budget-planner/internal/util"

	"github.com/gin-gonic/gin"
)

const maxNameLen = 100

type CategoryHandler struct {
	Categories *service.CategoryService
	Log        *slog.Logger
}

func NewCategoryHandler(categories *service.CategoryService, log *slog.Logger) *CategoryHandler {
	return &CategoryHandler{Categories: categories, Log: log}
}

type categoryReq struct {
	Name string `json:"name" binding:"required"`
}

// bindName binds and trims the category name, answering 400 on failure.
func bindName(c *gin.Context) (string, bool) {
	var req categoryReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid parameters")
		return "", false
	}
	name := strings.TrimSpace(req.Name)
	if err := util.ValidateName(name, maxNameLen); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
		return "", false
	}
	return name, true
}

func (h *CategoryHandler) Create(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}
	name, ok := bindName(c)
	if !ok {
		return
	}

	cat, err := h.Categories.Create(c.Request.Context(), user.ID, name)
	if err != nil {
		respondServiceError(c, h.Log, err)
		return
	}
	util.SuccessStatus(c, http.StatusCreated, util.Response{"category": toCategoryResp(cat)})
}

func (h *CategoryHandler) List(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}

	cats, err := h.Categories.List(c.Request.Context(), user.ID)
	if err != nil {
		respondServiceError(c, h.Log, err)
		return
	}
	items := make([]categoryResp, 0, len(cats))
	for i := range cats {
		items = append(items, toCategoryResp(&cats[i]))
	}
	util.Success(c, util.Response{"items": items})
}

func (h *CategoryHandler) Get(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}

	cat, err := h.Categories.Get(c.Request.Context(), id, user.ID)
	if err != nil {
		respondServiceError(c, h.Log, err)
		return
	}
	util.Success(c, util.Response{"category": toCategoryResp(cat)})
}

// Rename handles PUT /categories/:id.
func (h *CategoryHandler) Rename(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}
	name, ok := bindName(c)
	if !ok {
		return
	}

	cat, err := h.Categories.Rename(c.Request.Context(), id, user.ID, name)
	if err != nil {
		respondServiceError(c, h.Log, err)
		return
	}
	util.Success(c, util.Response{"category": toCategoryResp(cat)})
}

func (h *CategoryHandler) Delete(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.Categories.Delete(c.Request.Context(), id, user.ID); err != nil {
		respondServiceError(c, h.Log, err)
		return
	}
	util.Success(c, util.Response{"message": "deleted"})
}
