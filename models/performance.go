package models

const FeatureCount = 5

// FeatureNames is the canonical feature vector order used by the scaler,
// the forest and every prediction request.
var FeatureNames = [FeatureCount]string{
	"attendance",
	"study_hours",
	"previous_grades",
	"assignments_completed",
	"participation",
}

// Demographic column names carried for analytics and export only.
var DemographicColumns = []string{
	"major",
	"year_of_study",
	"gender",
	"ethnicity",
	"parent_education",
	"family_income",
}

const DemographicUnknown = "Unknown"

const (
	RiskLow    = "Low"
	RiskMedium = "Medium"
	RiskHigh   = "High"
)

// PerformanceScore computes the derived target. The study-hours term is
// hours*3*0.20, an effective per-hour weight of 0.60; do not simplify it
// away, downstream scores depend on the exact arithmetic.
func PerformanceScore(attendance, studyHours, previousGrades, assignments, participation float64) float64 {
	return attendance*0.25 +
		studyHours*3*0.20 +
		previousGrades*0.30 +
		assignments*0.15 +
		(participation/3*100)*0.10
}

// RiskFromPerformance buckets a performance score into the single risk
// policy used at both ingestion and prediction time.
func RiskFromPerformance(performance float64) string {
	switch {
	case performance >= 75:
		return RiskLow
	case performance >= 50:
		return RiskMedium
	default:
		return RiskHigh
	}
}

// ClipPerformance bounds a derived label into [0,100].
func ClipPerformance(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
