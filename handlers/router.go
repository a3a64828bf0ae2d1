package handlers

import (
	"student-success-api/config"
	"student-success-api/middleware"
	"student-success-api/services"
	"student-success-api/store"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter wires every endpoint. Handlers receive their collaborators by
// reference; nothing reaches for ambient state.
func NewRouter(recordStore *store.RecordStore, model *services.ModelService, cache *services.CacheService, corsCfg config.CORSConfig) *gin.Engine {
	router := gin.Default()
	router.Use(middleware.SetupCORS(corsCfg))

	upload := NewUploadHandler(recordStore, model, cache)
	predict := NewPredictHandler(model)
	students := NewStudentsHandler(recordStore)
	dashboard := NewDashboardHandler(recordStore, cache)
	analyticsHandler := NewAnalyticsHandler(recordStore, model, cache)
	export := NewExportHandler(recordStore)

	api := router.Group("/api")
	{
		api.GET("/status", Status)
		api.POST("/upload", upload.Upload)
		api.POST("/predict", predict.Predict)
		api.GET("/students", students.List)
		api.GET("/dashboard", dashboard.Dashboard)
		api.GET("/analytics", analyticsHandler.Analytics)
		api.GET("/export", export.Export)
	}

	router.GET("/ws/live", LiveWebSocket(cache))
	router.GET("/health", Health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return router
}
