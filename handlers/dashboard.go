package handlers

import (
	"context"
	"net/http"
	"time"

	"student-success-api/analytics"
	"student-success-api/services"
	"student-success-api/store"

	"github.com/gin-gonic/gin"
)

const (
	dashboardCacheKey = "dashboard:summary"
	dashboardCacheTTL = 30 * time.Second
)

type DashboardHandler struct {
	store *store.RecordStore
	cache *services.CacheService
}

func NewDashboardHandler(recordStore *store.RecordStore, cache *services.CacheService) *DashboardHandler {
	return &DashboardHandler{store: recordStore, cache: cache}
}

func (h *DashboardHandler) Dashboard(c *gin.Context) {
	var cached analytics.Dashboard
	if err := h.cache.Get(c.Request.Context(), dashboardCacheKey, &cached); err == nil {
		c.JSON(http.StatusOK, cached)
		return
	}

	table, err := h.store.Table()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	resp := analytics.BuildDashboard(table)
	if table.Len() == 0 {
		c.JSON(http.StatusOK, gin.H{
			"message": "No data available",
			"stats":   resp.Stats,
		})
		return
	}

	go h.cache.Set(context.Background(), dashboardCacheKey, resp, dashboardCacheTTL)

	c.JSON(http.StatusOK, resp)
}
