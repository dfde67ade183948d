package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"termwatch/internal/models"
	"termwatch/internal/repository"
)

type RegressionHandler struct {
	Repo repository.Repository
}

func (h *RegressionHandler) Register(r *gin.Engine) {
	group := r.Group("/api/v1/regressions")
	group.GET("", h.list)
	group.GET("/terms/:id", h.getByTerm)
}

type regressionRow struct {
	BoardKey          string   `json:"board_key"`
	TermID            uint64   `json:"term_id"`
	Term              string   `json:"term"`
	Intercept         float64  `json:"intercept"`
	Slope             float64  `json:"slope"`
	InterceptCILower  *float64 `json:"intercept_ci_lower"`
	InterceptCIUpper  *float64 `json:"intercept_ci_upper"`
	SlopeCILower      *float64 `json:"slope_ci_lower"`
	SlopeCIUpper      *float64 `json:"slope_ci_upper"`
	PValue            *float64 `json:"p_value"`
	AnalysisStartDate string   `json:"analysis_start_date"`
	AnalysisEndDate   string   `json:"analysis_end_date"`
}

// @Summary Trend regressions ranked by slope
// @Tags regressions
// @Param board query string false "board key"
// @Param limit query int false "limit"
// @Param offset query int false "offset"
// @Success 200 {object} apiResponse
// @Router /api/v1/regressions [get]
func (h *RegressionHandler) list(c *gin.Context) {
	if h.Repo == nil {
		Error(c, http.StatusInternalServerError, "repo unavailable", nil)
		return
	}
	limit := intQuery(c, "limit", 50)
	offset := intQuery(c, "offset", 0)

	params := repository.ListRegressionsParams{
		Limit:    limit,
		Offset:   offset,
		BoardKey: strQueryPtr(c, "board"),
		OrderBy:  "slope",
		Asc:      boolPtr(false),
	}
	items, err := h.Repo.ListRegressionResults(c.Request.Context(), params)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	total, err := h.Repo.CountRegressionResults(c.Request.Context(), params)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	names, err := termNames(c, h.Repo, regressionTermIDs(items))
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	rows := make([]regressionRow, 0, len(items))
	for _, item := range items {
		rows = append(rows, regressionRow{
			BoardKey:          item.BoardKey,
			TermID:            item.TermID,
			Term:              names[item.TermID],
			Intercept:         item.Intercept,
			Slope:             item.Slope,
			InterceptCILower:  item.InterceptCILower,
			InterceptCIUpper:  item.InterceptCIUpper,
			SlopeCILower:      item.SlopeCILower,
			SlopeCIUpper:      item.SlopeCIUpper,
			PValue:            item.PValue,
			AnalysisStartDate: item.AnalysisStartDate.Format(dateLayout),
			AnalysisEndDate:   item.AnalysisEndDate.Format(dateLayout),
		})
	}
	Ok(c, rows, paginationMeta(limit, offset, total))
}

// @Summary Regression for one term
// @Tags regressions
// @Param id path int true "term id"
// @Param board query string false "board key"
// @Success 200 {object} apiResponse
// @Router /api/v1/regressions/terms/{id} [get]
func (h *RegressionHandler) getByTerm(c *gin.Context) {
	if h.Repo == nil {
		Error(c, http.StatusInternalServerError, "repo unavailable", nil)
		return
	}
	termID, ok := uintParam(c, "id")
	if !ok {
		Error(c, http.StatusBadRequest, "term id required", nil)
		return
	}
	board := c.Query("board")
	if board == "" {
		Error(c, http.StatusBadRequest, "board required", nil)
		return
	}
	item, err := h.Repo.GetRegressionResult(c.Request.Context(), board, termID)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	if item == nil {
		Error(c, http.StatusNotFound, "regression not found", nil)
		return
	}
	Ok(c, item, nil)
}

func regressionTermIDs(items []models.TermRegressionResult) []uint64 {
	out := make([]uint64, 0, len(items))
	for _, item := range items {
		out = append(out, item.TermID)
	}
	return out
}
