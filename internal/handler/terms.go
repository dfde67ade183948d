package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"termwatch/internal/analysis"
	"termwatch/internal/models"
	"termwatch/internal/repository"
)

type TermHandler struct {
	Repo repository.Repository
}

func (h *TermHandler) Register(r *gin.Engine) {
	group := r.Group("/api/v1/terms")
	group.GET("/daily", h.listDaily)
	group.GET("/lookup", h.lookup)
	group.GET("/:id", h.getTerm)
	group.POST("/:id/block", h.blockTerm)
	group.POST("/:id/unblock", h.unblockTerm)
}

type dailyTermRow struct {
	Date       string `json:"date"`
	BoardKey   string `json:"board_key"`
	TermID     uint64 `json:"term_id"`
	Term       string `json:"term"`
	PostHits   int    `json:"post_hits"`
	ThreadHits int    `json:"thread_hits"`
}

// @Summary Daily term ranking
// @Tags terms
// @Param date query string true "target date (YYYY-MM-DD)"
// @Param board query string false "board key"
// @Param limit query int false "limit"
// @Param offset query int false "offset"
// @Success 200 {object} apiResponse
// @Router /api/v1/terms/daily [get]
func (h *TermHandler) listDaily(c *gin.Context) {
	if h.Repo == nil {
		Error(c, http.StatusInternalServerError, "repo unavailable", nil)
		return
	}
	date, ok := dateQueryPtr(c, "date")
	if !ok || date == nil {
		Error(c, http.StatusBadRequest, "date required (YYYY-MM-DD)", nil)
		return
	}
	board := strQueryPtr(c, "board")
	limit := intQuery(c, "limit", 50)
	offset := intQuery(c, "offset", 0)

	params := repository.ListDailyTermStatsParams{
		Limit:    limit,
		Offset:   offset,
		Date:     date,
		BoardKey: board,
		OrderBy:  "post_hits",
		Asc:      boolPtr(false),
	}
	items, err := h.Repo.ListDailyTermStats(c.Request.Context(), params)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	total, err := h.Repo.CountDailyTermStats(c.Request.Context(), params)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	names, err := termNames(c, h.Repo, statTermIDs(items))
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	rows := make([]dailyTermRow, 0, len(items))
	for _, item := range items {
		rows = append(rows, dailyTermRow{
			Date:       item.Date.Format(dateLayout),
			BoardKey:   item.BoardKey,
			TermID:     item.TermID,
			Term:       names[item.TermID],
			PostHits:   item.PostHits,
			ThreadHits: item.ThreadHits,
		})
	}
	Ok(c, rows, paginationMeta(limit, offset, total))
}

// @Summary Look up a term by surface or normalized form
// @Tags terms
// @Param q query string true "term text; normalized before lookup"
// @Success 200 {object} apiResponse
// @Router /api/v1/terms/lookup [get]
func (h *TermHandler) lookup(c *gin.Context) {
	if h.Repo == nil {
		Error(c, http.StatusInternalServerError, "repo unavailable", nil)
		return
	}
	normalized := analysis.NormalizeTerm(c.Query("q"))
	if normalized == "" {
		Error(c, http.StatusBadRequest, "q required", nil)
		return
	}
	item, err := h.Repo.GetTermByNormalized(c.Request.Context(), normalized)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	if item == nil {
		Error(c, http.StatusNotFound, "term not found", nil)
		return
	}
	Ok(c, item, nil)
}

// @Summary Get a term
// @Tags terms
// @Param id path int true "term id"
// @Success 200 {object} apiResponse
// @Router /api/v1/terms/{id} [get]
func (h *TermHandler) getTerm(c *gin.Context) {
	if h.Repo == nil {
		Error(c, http.StatusInternalServerError, "repo unavailable", nil)
		return
	}
	termID, ok := uintParam(c, "id")
	if !ok {
		Error(c, http.StatusBadRequest, "term id required", nil)
		return
	}
	item, err := h.Repo.GetTermByID(c.Request.Context(), termID)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	if item == nil {
		Error(c, http.StatusNotFound, "term not found", nil)
		return
	}
	Ok(c, item, nil)
}

type blockTermRequest struct {
	Reason string `json:"reason"`
}

// @Summary Block a term from aggregation
// @Tags terms
// @Param id path int true "term id"
// @Success 200 {object} apiResponse
// @Router /api/v1/terms/{id}/block [post]
func (h *TermHandler) blockTerm(c *gin.Context) {
	h.setBlocked(c, true)
}

// @Summary Re-admit a blocked term
// @Tags terms
// @Param id path int true "term id"
// @Success 200 {object} apiResponse
// @Router /api/v1/terms/{id}/unblock [post]
func (h *TermHandler) unblockTerm(c *gin.Context) {
	h.setBlocked(c, false)
}

func (h *TermHandler) setBlocked(c *gin.Context, blocked bool) {
	if h.Repo == nil {
		Error(c, http.StatusInternalServerError, "repo unavailable", nil)
		return
	}
	termID, ok := uintParam(c, "id")
	if !ok {
		Error(c, http.StatusBadRequest, "term id required", nil)
		return
	}
	item, err := h.Repo.GetTermByID(c.Request.Context(), termID)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	if item == nil {
		Error(c, http.StatusNotFound, "term not found", nil)
		return
	}
	var reason *string
	if blocked {
		var req blockTermRequest
		// The body is optional; a bare POST blocks without a reason.
		if err := c.ShouldBindJSON(&req); err == nil {
			if trimmed := strings.TrimSpace(req.Reason); trimmed != "" {
				reason = &trimmed
			}
		}
	}
	if err := h.Repo.SetTermBlocked(c.Request.Context(), termID, blocked, reason); err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	updated, err := h.Repo.GetTermByID(c.Request.Context(), termID)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, updated, nil)
}

func termNames(c *gin.Context, repo repository.Repository, termIDs []uint64) (map[uint64]string, error) {
	terms, err := repo.ListTermsByIDs(c.Request.Context(), termIDs)
	if err != nil {
		return nil, err
	}
	names := make(map[uint64]string, len(terms))
	for _, t := range terms {
		names[t.TermID] = t.Normalized
	}
	return names, nil
}

func statTermIDs(items []models.DailyTermStat) []uint64 {
	out := make([]uint64, 0, len(items))
	for _, item := range items {
		out = append(out, item.TermID)
	}
	return out
}
