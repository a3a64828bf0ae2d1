package handlers

import (
	"encoding/csv"
	"net/http"
	"strconv"

	"student-success-api/store"

	"github.com/gin-gonic/gin"
)

var exportColumns = []string{
	"student_id",
	"attendance",
	"study_hours",
	"previous_grades",
	"assignments_completed",
	"participation",
	"performance",
	"risk_level",
	"major",
	"year_of_study",
	"gender",
	"ethnicity",
	"parent_education",
	"family_income",
}

type ExportHandler struct {
	store *store.RecordStore
}

func NewExportHandler(recordStore *store.RecordStore) *ExportHandler {
	return &ExportHandler{store: recordStore}
}

// Export streams the full stored dataset as a CSV attachment.
func (h *ExportHandler) Export(c *gin.Context) {
	records, err := h.store.GetAll()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if len(records) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No data available to export"})
		return
	}

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", `attachment; filename=student_data_export.csv`)
	c.Status(http.StatusOK)

	w := csv.NewWriter(c.Writer)
	w.Write(exportColumns)
	for _, r := range records {
		w.Write([]string{
			r.StudentID,
			formatFloat(r.Attendance),
			formatFloat(r.StudyHours),
			formatFloat(r.PreviousGrades),
			formatFloat(r.AssignmentsCompleted),
			strconv.Itoa(r.Participation),
			formatFloat(r.Performance),
			r.RiskLevel,
			r.Major,
			r.YearOfStudy,
			r.Gender,
			r.Ethnicity,
			r.ParentEducation,
			r.FamilyIncome,
		})
	}
	w.Flush()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
