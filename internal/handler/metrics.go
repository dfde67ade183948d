package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"termwatch/internal/repository"
)

type MetricsHandler struct {
	Repo repository.Repository
}

func (h *MetricsHandler) Register(r *gin.Engine) {
	group := r.Group("/api/v1/metrics")
	group.GET("/daily", h.getDaily)
}

// @Summary Pipeline metrics for one day
// @Tags metrics
// @Param date query string true "target date (YYYY-MM-DD)"
// @Param board query string true "board key"
// @Success 200 {object} apiResponse
// @Router /api/v1/metrics/daily [get]
func (h *MetricsHandler) getDaily(c *gin.Context) {
	if h.Repo == nil {
		Error(c, http.StatusInternalServerError, "repo unavailable", nil)
		return
	}
	date, ok := dateQueryPtr(c, "date")
	if !ok || date == nil {
		Error(c, http.StatusBadRequest, "date required (YYYY-MM-DD)", nil)
		return
	}
	board := c.Query("board")
	if board == "" {
		Error(c, http.StatusBadRequest, "board required", nil)
		return
	}
	item, err := h.Repo.GetDailyMetrics(c.Request.Context(), *date, board)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	if item == nil {
		Error(c, http.StatusNotFound, "metrics not found", nil)
		return
	}
	Ok(c, item, nil)
}
