package handlers

import (
	"net/http"

	"student-success-api/models"
	"student-success-api/store"

	"github.com/gin-gonic/gin"
)

type StudentsHandler struct {
	store *store.RecordStore
}

func NewStudentsHandler(recordStore *store.RecordStore) *StudentsHandler {
	return &StudentsHandler{store: recordStore}
}

func (h *StudentsHandler) List(c *gin.Context) {
	records, err := h.store.GetAll()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if len(records) == 0 {
		c.JSON(http.StatusOK, gin.H{
			"message":  "No data available",
			"students": []models.StudentRecord{},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total":    len(records),
		"students": records,
	})
}
