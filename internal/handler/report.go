package handler

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"budget-planner/internal/service"
	"budget-planner/internal/util"

	"github.com/gin-gonic/gin"
)

const maxTrendPeriods = 24

type ReportHandler struct {
	Reports       *service.ReportService
	DefaultPeriod int
	Log           *slog.Logger

	now func() time.Time
}

func NewReportHandler(reports *service.ReportService, defaultPeriods int, log *slog.Logger) *ReportHandler {
	return &ReportHandler{Reports: reports, DefaultPeriod: defaultPeriods, Log: log, now: time.Now}
}

// queryInt reads an integer query parameter, falling back to def when absent.
func queryInt(c *gin.Context, key string, def int) (int, bool) {
	s := c.Query(key)
	if s == "" {
		return def, true
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid "+key)
		return 0, false
	}
	return v, true
}

// Monthly handles GET /reports/monthly?year=2025&month=3, defaulting to the
// current month.
func (h *ReportHandler) Monthly(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}

	now := h.now().UTC()
	year, ok := queryInt(c, "year", now.Year())
	if !ok {
		return
	}
	month, ok := queryInt(c, "month", int(now.Month()))
	if !ok {
		return
	}

	sum, err := h.Reports.MonthlySummary(c.Request.Context(), user.ID, year, month)
	if err != nil {
		respondServiceError(c, h.Log, err)
		return
	}
	util.Success(c, util.Response{"summary": sum})
}

// Trend handles GET /reports/trend?periods=N, 1 <= N <= 24.
func (h *ReportHandler) Trend(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}

	periods, ok := queryInt(c, "periods", h.DefaultPeriod)
	if !ok {
		return
	}
	if periods < 1 || periods > maxTrendPeriods {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "periods must be between 1 and 24")
		return
	}

	trend, err := h.Reports.SpendingTrend(c.Request.Context(), user.ID, periods)
	if err != nil {
		respondServiceError(c, h.Log, err)
		return
	}
	util.Success(c, util.Response{"items": trend})
}
