package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/mulearn-geci/community-api/internal/cache"
	"github.com/mulearn-geci/community-api/internal/logger"
	"github.com/mulearn-geci/community-api/internal/response"
	"github.com/mulearn-geci/community-api/internal/storage"
)

// DashboardHandler serves the admin dashboard aggregations, with a short
// Redis cache in front of the heavier queries.
type DashboardHandler struct {
	stats storage.StatsRepository
	cache *cache.Cache
	log   *log.Logger
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(stats storage.StatsRepository, c *cache.Cache) *DashboardHandler {
	return &DashboardHandler{
		stats: stats,
		cache: c,
		log:   logger.Handler("dashboard"),
	}
}

// StatsPayload is the combined dashboard snapshot
type StatsPayload struct {
	Overview      *storage.Overview       `json:"overview"`
	Recent        *storage.RecentActivity `json:"recentActivity"`
	PopularPosts  interface{}             `json:"popularPosts"`
	EventCapacity *storage.EventCapacity  `json:"eventCapacity"`
}

// Stats handles GET /api/admin/dashboard/stats
func (h *DashboardHandler) Stats(c *gin.Context) {
	ctx := c.Request.Context()

	var payload StatsPayload
	if h.cache.Get(ctx, "dashboard:stats", &payload) {
		response.Success(c, http.StatusOK, "Dashboard stats retrieved successfully", payload)
		return
	}

	overview, err := h.stats.Overview(ctx)
	if err != nil {
		h.log.Error("Failed to load overview", "error", err)
		response.InternalError(c, "Failed to load dashboard stats")
		return
	}
	recent, err := h.stats.RecentActivity(ctx, 5)
	if err != nil {
		h.log.Error("Failed to load recent activity", "error", err)
		response.InternalError(c, "Failed to load dashboard stats")
		return
	}
	popular, err := h.stats.PopularPosts(ctx, 5)
	if err != nil {
		h.log.Error("Failed to load popular posts", "error", err)
		response.InternalError(c, "Failed to load dashboard stats")
		return
	}
	capacity, err := h.stats.EventCapacity(ctx)
	if err != nil {
		h.log.Error("Failed to load event capacity", "error", err)
		response.InternalError(c, "Failed to load dashboard stats")
		return
	}

	payload = StatsPayload{
		Overview:      overview,
		Recent:        recent,
		PopularPosts:  popular,
		EventCapacity: capacity,
	}
	h.cache.Set(ctx, "dashboard:stats", payload)
	response.Success(c, http.StatusOK, "Dashboard stats retrieved successfully", payload)
}

// AnalyticsPayload is the time-bucketed analytics view
type AnalyticsPayload struct {
	Monthly       *storage.MonthlyCounts `json:"monthly"`
	Daily         *storage.DailyCounts   `json:"daily"`
	Distributions *storage.Distributions `json:"distributions"`
}

// Analytics handles GET /api/admin/dashboard/analytics. The period query
// parameter selects the daily window in days (default 30, max 365); year
// selects the monthly buckets (default current year).
func (h *DashboardHandler) Analytics(c *gin.Context) {
	ctx := c.Request.Context()

	days := 30
	if s := c.Query("period"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 1 || v > 365 {
			response.BadRequest(c, "Invalid period: expected a day count between 1 and 365")
			return
		}
		days = v
	}
	year := time.Now().Year()
	if s := c.Query("year"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 2000 || v > time.Now().Year() {
			response.BadRequest(c, "Invalid year")
			return
		}
		year = v
	}

	cacheKey := fmt.Sprintf("dashboard:analytics:%d:%d", year, days)
	var payload AnalyticsPayload
	if h.cache.Get(ctx, cacheKey, &payload) {
		response.Success(c, http.StatusOK, "Analytics retrieved successfully", payload)
		return
	}

	monthly, err := h.stats.MonthlyCounts(ctx, year)
	if err != nil {
		h.log.Error("Failed to load monthly counts", "error", err)
		response.InternalError(c, "Failed to load analytics")
		return
	}
	daily, err := h.stats.DailyCounts(ctx, days)
	if err != nil {
		h.log.Error("Failed to load daily counts", "error", err)
		response.InternalError(c, "Failed to load analytics")
		return
	}
	distributions, err := h.stats.Distributions(ctx)
	if err != nil {
		h.log.Error("Failed to load distributions", "error", err)
		response.InternalError(c, "Failed to load analytics")
		return
	}

	payload = AnalyticsPayload{
		Monthly:       monthly,
		Daily:         daily,
		Distributions: distributions,
	}
	h.cache.Set(ctx, cacheKey, payload)
	response.Success(c, http.StatusOK, "Analytics retrieved successfully", payload)
}
