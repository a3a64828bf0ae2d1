package handlers

import (
	"fmt"
	"math"
	"net/http"
	"strings"

	"student-success-api/models"
	"student-success-api/services"

	"github.com/gin-gonic/gin"
)

// PredictRequest uses pointer fields so absent keys can be told apart from
// zero values and reported back by name.
type PredictRequest struct {
	Attendance           *float64 `json:"attendance"`
	StudyHours           *float64 `json:"study_hours"`
	PreviousGrades       *float64 `json:"previous_grades"`
	AssignmentsCompleted *float64 `json:"assignments_completed"`
	Participation        *float64 `json:"participation"`
}

func (r *PredictRequest) missingFields() []string {
	var missing []string
	for _, field := range []struct {
		name  string
		value *float64
	}{
		{"attendance", r.Attendance},
		{"study_hours", r.StudyHours},
		{"previous_grades", r.PreviousGrades},
		{"assignments_completed", r.AssignmentsCompleted},
		{"participation", r.Participation},
	} {
		if field.value == nil {
			missing = append(missing, field.name)
		}
	}
	return missing
}

type PredictResponse struct {
	PredictedScore float64  `json:"predicted_score"`
	RiskLevel      string   `json:"risk_level"`
	Status         string   `json:"status"`
	Recommendation string   `json:"recommendation"`
	Color          string   `json:"color"`
	Insights       []string `json:"insights"`
}

type PredictHandler struct {
	model *services.ModelService
}

func NewPredictHandler(model *services.ModelService) *PredictHandler {
	return &PredictHandler{model: model}
}

func (h *PredictHandler) Predict(c *gin.Context) {
	var req PredictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
		return
	}

	if missing := req.missingFields(); len(missing) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": fmt.Sprintf("Missing fields: %s", strings.Join(missing, ", ")),
		})
		return
	}

	score, err := h.model.Predict([models.FeatureCount]float64{
		*req.Attendance,
		*req.StudyHours,
		*req.PreviousGrades,
		*req.AssignmentsCompleted,
		*req.Participation,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	resp := PredictResponse{
		PredictedScore: math.Round(score*100) / 100,
		Insights:       []string{},
	}

	// Thresholds apply to the unrounded score; only the reported value is
	// rounded to two decimals.
	switch {
	case score >= 75:
		resp.RiskLevel = models.RiskLow
		resp.Status = "High Success Probability"
		resp.Recommendation = "Student is on track for excellent performance!"
		resp.Color = "success"
	case score >= 50:
		resp.RiskLevel = models.RiskMedium
		resp.Status = "Moderate Success Probability"
		resp.Recommendation = "Student may need additional support in some areas."
		resp.Color = "warning"
	default:
		resp.RiskLevel = models.RiskHigh
		resp.Status = "At-Risk Student"
		resp.Recommendation = "Immediate intervention recommended."
		resp.Color = "danger"
	}

	if *req.Attendance < 75 {
		resp.Insights = append(resp.Insights, "Low attendance - recommend counseling")
	}
	if *req.StudyHours < 10 {
		resp.Insights = append(resp.Insights, "Insufficient study hours - suggest study plan")
	}
	if *req.AssignmentsCompleted < 70 {
		resp.Insights = append(resp.Insights, "Low assignment completion - check engagement")
	}
	if *req.PreviousGrades < 60 {
		resp.Insights = append(resp.Insights, "Struggling academically - consider tutoring")
	}

	c.JSON(http.StatusOK, resp)
}
