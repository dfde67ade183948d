package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"termwatch/internal/repository"
)

type RunHandler struct {
	Repo repository.Repository
}

func (h *RunHandler) Register(r *gin.Engine) {
	group := r.Group("/api/v1/runs")
	group.GET("", h.list)
	group.GET("/:id", h.get)
	group.POST("/:id/recover", h.recover)
}

// @Summary List pipeline runs
// @Tags runs
// @Param board query string false "board key"
// @Param status query string false "run status (success, failed, partial)"
// @Param from query string false "earliest target date (YYYY-MM-DD)"
// @Param to query string false "latest target date (YYYY-MM-DD)"
// @Param limit query int false "limit"
// @Param offset query int false "offset"
// @Success 200 {object} apiResponse
// @Router /api/v1/runs [get]
func (h *RunHandler) list(c *gin.Context) {
	if h.Repo == nil {
		Error(c, http.StatusInternalServerError, "repo unavailable", nil)
		return
	}
	since, ok := dateQueryPtr(c, "from")
	if !ok {
		Error(c, http.StatusBadRequest, "invalid from date", nil)
		return
	}
	until, ok := dateQueryPtr(c, "to")
	if !ok {
		Error(c, http.StatusBadRequest, "invalid to date", nil)
		return
	}
	limit := intQuery(c, "limit", 100)
	offset := intQuery(c, "offset", 0)

	params := repository.ListRunsParams{
		Limit:    limit,
		Offset:   offset,
		BoardKey: strQueryPtr(c, "board"),
		Status:   strQueryPtr(c, "status"),
		Since:    since,
		Until:    until,
	}
	items, err := h.Repo.ListRuns(c.Request.Context(), params)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	total, err := h.Repo.CountRuns(c.Request.Context(), params)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, items, paginationMeta(limit, offset, total))
}

// @Summary Get a pipeline run
// @Tags runs
// @Param id path string true "run id"
// @Success 200 {object} apiResponse
// @Router /api/v1/runs/{id} [get]
func (h *RunHandler) get(c *gin.Context) {
	if h.Repo == nil {
		Error(c, http.StatusInternalServerError, "repo unavailable", nil)
		return
	}
	runID := strings.TrimSpace(c.Param("id"))
	if runID == "" {
		Error(c, http.StatusBadRequest, "run id required", nil)
		return
	}
	item, err := h.Repo.GetRunByID(c.Request.Context(), runID)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	if item == nil {
		Error(c, http.StatusNotFound, "run not found", nil)
		return
	}
	Ok(c, item, nil)
}

// @Summary Mark a failed run as manually recovered
// @Tags runs
// @Param id path string true "run id"
// @Success 200 {object} apiResponse
// @Router /api/v1/runs/{id}/recover [post]
func (h *RunHandler) recover(c *gin.Context) {
	if h.Repo == nil {
		Error(c, http.StatusInternalServerError, "repo unavailable", nil)
		return
	}
	runID := strings.TrimSpace(c.Param("id"))
	if runID == "" {
		Error(c, http.StatusBadRequest, "run id required", nil)
		return
	}
	item, err := h.Repo.GetRunByID(c.Request.Context(), runID)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	if item == nil {
		Error(c, http.StatusNotFound, "run not found", nil)
		return
	}
	if err := h.Repo.MarkRunRecovered(c.Request.Context(), runID); err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	updated, err := h.Repo.GetRunByID(c.Request.Context(), runID)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, updated, nil)
}
