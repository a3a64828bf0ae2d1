package ingest

import (
	"fmt"
	"math"
	"math/rand"
	"strconv"
	"strings"

	"student-success-api/models"
)

// RequiredColumns must be present (under canonical names) in every upload.
// participation is excluded: it may be synthesized.
var RequiredColumns = []string{
	"student_id",
	"attendance",
	"study_hours",
	"previous_grades",
	"assignments_completed",
}

// ValidationError marks client-fixable problems with an uploaded batch:
// missing required columns or malformed values. Handlers report it as a 400.
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string { return e.msg }

func newValidationError(format string, args ...interface{}) *ValidationError {
	return &ValidationError{msg: fmt.Sprintf(format, args...)}
}

// Batch is a fully normalized upload: every record carries the canonical
// feature set, a derived performance label and a risk level.
type Batch struct {
	Records []models.StudentRecord
	// Columns is the final canonical column list reported back to the caller.
	Columns []string
}

// Normalize turns a raw CSV table (header row + data rows) into canonical
// student records. The whole batch either normalizes or fails; no partial
// output.
func Normalize(headers []string, rows [][]string) (*Batch, error) {
	layout := DetectLayout(headers)
	canonical := CanonicalHeaders(headers, layout)

	colIndex := make(map[string]int, len(canonical))
	for i, name := range canonical {
		colIndex[name] = i
	}

	var missing []string
	for _, name := range RequiredColumns {
		if _, ok := colIndex[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, newValidationError("Missing required columns: %s", strings.Join(missing, ", "))
	}

	n := len(rows)
	records := make([]models.StudentRecord, n)

	for i, row := range rows {
		if len(row) != len(canonical) {
			return nil, newValidationError("row %d has %d fields, expected %d", i+1, len(row), len(canonical))
		}
		records[i].StudentID = strings.TrimSpace(row[colIndex["student_id"]])
	}

	// Numeric feature columns: parse, then impute empty cells with the
	// column mean over the batch.
	numericColumns := []struct {
		name  string
		scale float64
		set   func(r *models.StudentRecord, v float64)
	}{
		{"attendance", 1, func(r *models.StudentRecord, v float64) { r.Attendance = v }},
		{"study_hours", 1, func(r *models.StudentRecord, v float64) { r.StudyHours = v }},
		{"previous_grades", 1, func(r *models.StudentRecord, v float64) { r.PreviousGrades = v }},
		{"assignments_completed", 1, func(r *models.StudentRecord, v float64) { r.AssignmentsCompleted = v }},
	}
	if layout == LayoutExtended {
		numericColumns[2].scale = gpaScale
	}

	for _, col := range numericColumns {
		values, err := parseColumn(rows, colIndex[col.name], col.name)
		if err != nil {
			return nil, err
		}
		imputeMean(values)
		for i := range records {
			col.set(&records[i], values[i]*col.scale)
		}
	}

	if idx, ok := colIndex["participation"]; ok {
		values, err := parseColumn(rows, idx, "participation")
		if err != nil {
			return nil, err
		}
		imputeMean(values)
		for i := range records {
			if layout == LayoutExtended {
				records[i].Participation = bucketParticipation(values[i])
			} else {
				records[i].Participation = clampOrdinal(int(math.Round(values[i])))
			}
		}
	} else {
		for i := range records {
			records[i].Participation = 1 + rand.Intn(3)
		}
	}

	applyDemographics(records, rows, colIndex)

	derivePerformance(records, rows, colIndex)
	for i := range records {
		records[i].RiskLevel = models.RiskFromPerformance(records[i].Performance)
	}

	columns := append([]string{}, RequiredColumns...)
	columns = append(columns, "participation")
	columns = append(columns, models.DemographicColumns...)
	columns = append(columns, "performance", "risk_level")

	return &Batch{Records: records, Columns: columns}, nil
}

// derivePerformance computes the training target unless the upload supplied
// a complete performance column, in which case the supplied values stand.
func derivePerformance(records []models.StudentRecord, rows [][]string, colIndex map[string]int) {
	if idx, ok := colIndex["performance"]; ok {
		complete := true
		supplied := make([]float64, len(rows))
		for i, row := range rows {
			cell := strings.TrimSpace(row[idx])
			if cell == "" {
				complete = false
				break
			}
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				complete = false
				break
			}
			supplied[i] = v
		}
		if complete {
			for i := range records {
				records[i].Performance = supplied[i]
			}
			return
		}
	}

	for i := range records {
		r := &records[i]
		score := models.PerformanceScore(
			r.Attendance,
			r.StudyHours,
			r.PreviousGrades,
			r.AssignmentsCompleted,
			float64(r.Participation),
		)
		r.Performance = models.ClipPerformance(score)
	}
}

func applyDemographics(records []models.StudentRecord, rows [][]string, colIndex map[string]int) {
	setters := map[string]func(r *models.StudentRecord, v string){
		"major":            func(r *models.StudentRecord, v string) { r.Major = v },
		"year_of_study":    func(r *models.StudentRecord, v string) { r.YearOfStudy = v },
		"gender":           func(r *models.StudentRecord, v string) { r.Gender = v },
		"ethnicity":        func(r *models.StudentRecord, v string) { r.Ethnicity = v },
		"parent_education": func(r *models.StudentRecord, v string) { r.ParentEducation = v },
		"family_income":    func(r *models.StudentRecord, v string) { r.FamilyIncome = v },
	}

	for _, name := range models.DemographicColumns {
		set := setters[name]
		idx, present := colIndex[name]
		for i := range records {
			value := models.DemographicUnknown
			if present {
				if cell := strings.TrimSpace(rows[i][idx]); cell != "" {
					value = cell
				}
			}
			set(&records[i], value)
		}
	}
}

// parseColumn reads one numeric column. Empty cells come back as NaN for
// imputation; any non-empty, non-numeric cell rejects the whole batch.
func parseColumn(rows [][]string, idx int, name string) ([]float64, error) {
	values := make([]float64, len(rows))
	for i, row := range rows {
		cell := strings.TrimSpace(row[idx])
		if cell == "" {
			values[i] = math.NaN()
			continue
		}
		v, err := strconv.ParseFloat(cell, 64)
		if err != nil {
			return nil, newValidationError("column %q row %d: invalid numeric value %q", name, i+1, cell)
		}
		values[i] = v
	}
	return values, nil
}

func imputeMean(values []float64) {
	var sum float64
	var count int
	for _, v := range values {
		if !math.IsNaN(v) {
			sum += v
			count++
		}
	}
	if count == 0 {
		return
	}
	mean := sum / float64(count)
	for i, v := range values {
		if math.IsNaN(v) {
			values[i] = mean
		}
	}
}

func clampOrdinal(v int) int {
	if v < 1 {
		return 1
	}
	if v > 3 {
		return 3
	}
	return v
}
