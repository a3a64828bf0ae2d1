package analytics

import (
	"math"
	"math/rand"
	"sort"

	"student-success-api/models"
	"student-success-api/store"

	"gonum.org/v1/gonum/stat"
)

// ScatterSampleLimit caps how many rows the scatter endpoints return; above
// it a uniform random subsample without replacement is taken so dashboard
// charts stay light with large cohorts.
const ScatterSampleLimit = 500

type Stats struct {
	TotalStudents      int     `json:"total_students"`
	AveragePerformance float64 `json:"average_performance"`
	AtRiskStudents     int     `json:"at_risk_students"`
	HighPerformers     int     `json:"high_performers"`
	AverageAttendance  float64 `json:"average_attendance"`
	AverageStudyHours  float64 `json:"average_study_hours"`
}

type Dashboard struct {
	Stats                   Stats          `json:"stats"`
	PerformanceDistribution map[string]int `json:"performance_distribution"`
	RiskDistribution        map[string]int `json:"risk_distribution"`
}

type ScatterPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type Analytics struct {
	AttendanceVsPerformance   []ScatterPoint     `json:"attendance_vs_performance"`
	StudyHoursVsPerformance   []ScatterPoint     `json:"study_hours_vs_performance"`
	CorrelationMatrix         map[string]float64 `json:"correlation_matrix"`
	ParticipationDistribution map[string]int     `json:"participation_distribution"`
	MajorDistribution         map[string]int     `json:"major_distribution"`
}

// BuildDashboard computes the summary block for the dashboard endpoint.
// An empty table yields zeroed structures, never an error.
func BuildDashboard(t *store.Table) Dashboard {
	d := Dashboard{
		PerformanceDistribution: map[string]int{
			"Below 50": 0, "50-60": 0, "60-70": 0, "70-80": 0, "Above 80": 0,
		},
		RiskDistribution: map[string]int{
			models.RiskLow: 0, models.RiskMedium: 0, models.RiskHigh: 0,
		},
	}
	if t.Len() == 0 {
		return d
	}

	d.Stats.TotalStudents = t.Len()
	d.Stats.AveragePerformance = round2(stat.Mean(t.Performance, nil))
	d.Stats.AverageAttendance = round2(stat.Mean(t.Attendance, nil))
	d.Stats.AverageStudyHours = round2(stat.Mean(t.StudyHours, nil))

	for _, p := range t.Performance {
		if p < 50 {
			d.Stats.AtRiskStudents++
		}
		if p >= 75 {
			d.Stats.HighPerformers++
		}

		switch {
		case p < 50:
			d.PerformanceDistribution["Below 50"]++
		case p < 60:
			d.PerformanceDistribution["50-60"]++
		case p < 70:
			d.PerformanceDistribution["60-70"]++
		case p < 80:
			d.PerformanceDistribution["70-80"]++
		default:
			d.PerformanceDistribution["Above 80"]++
		}
	}
	for _, risk := range t.RiskLevels {
		d.RiskDistribution[risk]++
	}

	return d
}

// BuildAnalytics computes the chart payloads: scatter samples, pairwise
// Pearson correlations against performance, and categorical distributions.
func BuildAnalytics(t *store.Table) Analytics {
	a := Analytics{
		AttendanceVsPerformance: []ScatterPoint{},
		StudyHoursVsPerformance: []ScatterPoint{},
		CorrelationMatrix: map[string]float64{
			"attendance_performance":  0,
			"study_hours_performance": 0,
			"assignments_performance": 0,
		},
		ParticipationDistribution: map[string]int{
			"Low": 0, "Medium": 0, "High": 0,
		},
		MajorDistribution: map[string]int{},
	}
	if t.Len() == 0 {
		return a
	}

	for _, i := range sampleIndices(t.Len()) {
		a.AttendanceVsPerformance = append(a.AttendanceVsPerformance,
			ScatterPoint{X: t.Attendance[i], Y: t.Performance[i]})
		a.StudyHoursVsPerformance = append(a.StudyHoursVsPerformance,
			ScatterPoint{X: t.StudyHours[i], Y: t.Performance[i]})
	}

	a.CorrelationMatrix["attendance_performance"] = round2(correlation(t.Attendance, t.Performance))
	a.CorrelationMatrix["study_hours_performance"] = round2(correlation(t.StudyHours, t.Performance))
	a.CorrelationMatrix["assignments_performance"] = round2(correlation(t.Assignments, t.Performance))

	participationLabels := map[float64]string{1: "Low", 2: "Medium", 3: "High"}
	for _, p := range t.Participation {
		if label, ok := participationLabels[p]; ok {
			a.ParticipationDistribution[label]++
		}
	}
	for _, major := range t.Majors {
		a.MajorDistribution[major]++
	}

	return a
}

// sampleIndices returns all row indices when the dataset fits the limit,
// otherwise a sorted uniform sample without replacement.
func sampleIndices(n int) []int {
	if n <= ScatterSampleLimit {
		idx := make([]int, n)
		for i := range idx {
			idx[i] = i
		}
		return idx
	}

	idx := rand.Perm(n)[:ScatterSampleLimit]
	sort.Ints(idx)
	return idx
}

// correlation wraps gonum's Pearson correlation, mapping the degenerate
// zero-variance case to 0 instead of NaN.
func correlation(x, y []float64) float64 {
	c := stat.Correlation(x, y, nil)
	if math.IsNaN(c) {
		return 0
	}
	return c
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
