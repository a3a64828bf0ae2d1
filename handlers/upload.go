package handlers

import (
	"context"
	"encoding/csv"
	"errors"
	"net/http"
	"strings"

	"student-success-api/ingest"
	"student-success-api/services"
	"student-success-api/store"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	uploadsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "studentapi_uploads_total",
		Help: "Total number of successful dataset uploads.",
	})
	recordsIngested = promauto.NewCounter(prometheus.CounterOpts{
		Name: "studentapi_records_ingested_total",
		Help: "Total number of student records ingested across uploads.",
	})
)

type UploadHandler struct {
	store *store.RecordStore
	model *services.ModelService
	cache *services.CacheService
}

func NewUploadHandler(recordStore *store.RecordStore, model *services.ModelService, cache *services.CacheService) *UploadHandler {
	return &UploadHandler{store: recordStore, model: model, cache: cache}
}

// Upload ingests a CSV dataset: normalize, full-replace the store, retrain.
// The batch applies completely or not at all.
func (h *UploadHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file provided"})
		return
	}
	if fileHeader.Filename == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file selected"})
		return
	}
	if !strings.HasSuffix(strings.ToLower(fileHeader.Filename), ".csv") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Only CSV files allowed"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	defer file.Close()

	rows, err := csv.NewReader(file).ReadAll()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid CSV: " + err.Error()})
		return
	}
	if len(rows) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "CSV file has no header row"})
		return
	}

	batch, err := ingest.Normalize(rows[0], rows[1:])
	if err != nil {
		var verr *ingest.ValidationError
		if errors.As(err, &verr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": verr.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if err := h.store.ReplaceAll(batch.Records); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if err := h.model.Train(batch.Records); err != nil && !errors.Is(err, services.ErrEmptyDataset) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	h.cache.Delete(ctx, dashboardCacheKey, analyticsCacheKey)
	go h.cache.Publish(context.Background(), services.LiveChannel, gin.H{
		"event":          "dataset_updated",
		"total_students": len(batch.Records),
	})

	uploadsTotal.Inc()
	recordsIngested.Add(float64(len(batch.Records)))

	c.JSON(http.StatusOK, gin.H{
		"message":        "Data uploaded successfully",
		"total_students": len(batch.Records),
		"columns":        batch.Columns,
	})
}
