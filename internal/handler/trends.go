package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"termwatch/internal/models"
	"termwatch/internal/repository"
)

type TrendHandler struct {
	Repo repository.Repository
}

func (h *TrendHandler) Register(r *gin.Engine) {
	group := r.Group("/api/v1/trends")
	group.GET("/weekly", h.listWeekly)
	group.GET("/terms/:id", h.termHistory)
}

type weeklyTrendRow struct {
	WeekStartDate         string   `json:"week_start_date"`
	BoardKey              string   `json:"board_key"`
	TermID                uint64   `json:"term_id"`
	Term                  string   `json:"term"`
	PostHits              int      `json:"post_hits"`
	TotalPosts            int      `json:"total_posts"`
	AppearanceRate        float64  `json:"appearance_rate"`
	AppearanceRateCILower *float64 `json:"appearance_rate_ci_lower"`
	AppearanceRateCIUpper *float64 `json:"appearance_rate_ci_upper"`
	ZScore                *float64 `json:"zscore"`
}

// @Summary Weekly trend ranking
// @Tags trends
// @Param week_start query string true "week start, a Monday (YYYY-MM-DD)"
// @Param board query string false "board key"
// @Param limit query int false "limit"
// @Param offset query int false "offset"
// @Success 200 {object} apiResponse
// @Router /api/v1/trends/weekly [get]
func (h *TrendHandler) listWeekly(c *gin.Context) {
	if h.Repo == nil {
		Error(c, http.StatusInternalServerError, "repo unavailable", nil)
		return
	}
	weekStart, ok := dateQueryPtr(c, "week_start")
	if !ok || weekStart == nil {
		Error(c, http.StatusBadRequest, "week_start required (YYYY-MM-DD)", nil)
		return
	}
	if weekStart.Weekday() != time.Monday {
		Error(c, http.StatusBadRequest, "week_start must be a Monday", nil)
		return
	}
	board := strQueryPtr(c, "board")
	limit := intQuery(c, "limit", 50)
	offset := intQuery(c, "offset", 0)

	params := repository.ListWeeklyTrendsParams{
		Limit:         limit,
		Offset:        offset,
		WeekStartDate: weekStart,
		BoardKey:      board,
	}
	items, err := h.Repo.ListWeeklyTrends(c.Request.Context(), params)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	total, err := h.Repo.CountWeeklyTrends(c.Request.Context(), params)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	names, err := termNames(c, h.Repo, trendTermIDs(items))
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	rows := make([]weeklyTrendRow, 0, len(items))
	for _, item := range items {
		rows = append(rows, weeklyTrendRow{
			WeekStartDate:         item.WeekStartDate.Format(dateLayout),
			BoardKey:              item.BoardKey,
			TermID:                item.TermID,
			Term:                  names[item.TermID],
			PostHits:              item.PostHits,
			TotalPosts:            item.TotalPosts,
			AppearanceRate:        item.AppearanceRate,
			AppearanceRateCILower: item.AppearanceRateCILower,
			AppearanceRateCIUpper: item.AppearanceRateCIUpper,
			ZScore:                item.ZScore,
		})
	}
	Ok(c, rows, paginationMeta(limit, offset, total))
}

// @Summary Weekly history for one term
// @Tags trends
// @Param id path int true "term id"
// @Param board query string false "board key"
// @Param from query string false "earliest week start (YYYY-MM-DD)"
// @Param to query string false "latest week start (YYYY-MM-DD)"
// @Success 200 {object} apiResponse
// @Router /api/v1/trends/terms/{id} [get]
func (h *TrendHandler) termHistory(c *gin.Context) {
	if h.Repo == nil {
		Error(c, http.StatusInternalServerError, "repo unavailable", nil)
		return
	}
	termID, ok := uintParam(c, "id")
	if !ok {
		Error(c, http.StatusBadRequest, "term id required", nil)
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
	term, err := h.Repo.GetTermByID(c.Request.Context(), termID)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	if term == nil {
		Error(c, http.StatusNotFound, "term not found", nil)
		return
	}
	params := repository.ListTermTrendsParams{
		Limit:    intQuery(c, "limit", 0),
		TermID:   termID,
		BoardKey: strQueryPtr(c, "board"),
		Since:    since,
		Until:    until,
		Asc:      boolPtr(true),
	}
	items, err := h.Repo.ListTermTrends(c.Request.Context(), params)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	rows := make([]weeklyTrendRow, 0, len(items))
	for _, item := range items {
		rows = append(rows, weeklyTrendRow{
			WeekStartDate:         item.WeekStartDate.Format(dateLayout),
			BoardKey:              item.BoardKey,
			TermID:                item.TermID,
			Term:                  term.Normalized,
			PostHits:              item.PostHits,
			TotalPosts:            item.TotalPosts,
			AppearanceRate:        item.AppearanceRate,
			AppearanceRateCILower: item.AppearanceRateCILower,
			AppearanceRateCIUpper: item.AppearanceRateCIUpper,
			ZScore:                item.ZScore,
		})
	}
	Ok(c, rows, nil)
}

func trendTermIDs(items []models.WeeklyTermTrend) []uint64 {
	out := make([]uint64, 0, len(items))
	for _, item := range items {
		out = append(out, item.TermID)
	}
	return out
}
