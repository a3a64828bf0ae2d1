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
	analyticsCacheKey = "analytics:charts"
	analyticsCacheTTL = 30 * time.Second
)

type AnalyticsResponse struct {
	analytics.Analytics
	FeatureImportance map[string]float64 `json:"feature_importance"`
}

type AnalyticsHandler struct {
	store *store.RecordStore
	model *services.ModelService
	cache *services.CacheService
}

func NewAnalyticsHandler(recordStore *store.RecordStore, model *services.ModelService, cache *services.CacheService) *AnalyticsHandler {
	return &AnalyticsHandler{store: recordStore, model: model, cache: cache}
}

func (h *AnalyticsHandler) Analytics(c *gin.Context) {
	var cached AnalyticsResponse
	if err := h.cache.Get(c.Request.Context(), analyticsCacheKey, &cached); err == nil {
		c.JSON(http.StatusOK, cached)
		return
	}

	table, err := h.store.Table()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if table.Len() == 0 {
		c.JSON(http.StatusOK, gin.H{
			"message":   "No data available",
			"analytics": gin.H{},
		})
		return
	}

	resp := AnalyticsResponse{
		Analytics:         analytics.BuildAnalytics(table),
		FeatureImportance: h.model.Importances(),
	}

	go h.cache.Set(context.Background(), analyticsCacheKey, resp, analyticsCacheTTL)

	c.JSON(http.StatusOK, resp)
}
