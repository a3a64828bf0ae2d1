package analytics

import (
	"math"
	"testing"

	"student-success-api/models"
	"student-success-api/store"
)

func tableFor(records []models.StudentRecord) *store.Table {
	return store.TableFromRecords(records)
}

func TestBuildDashboardEmpty(t *testing.T) {
	d := BuildDashboard(tableFor(nil))

	if d.Stats.TotalStudents != 0 {
		t.Errorf("TotalStudents = %d, want 0", d.Stats.TotalStudents)
	}
	if d.Stats.AveragePerformance != 0 {
		t.Errorf("AveragePerformance = %v, want 0", d.Stats.AveragePerformance)
	}
	if len(d.PerformanceDistribution) != 5 {
		t.Errorf("PerformanceDistribution has %d buckets, want 5", len(d.PerformanceDistribution))
	}
	for bucket, count := range d.PerformanceDistribution {
		if count != 0 {
			t.Errorf("bucket %q = %d, want 0", bucket, count)
		}
	}
	for risk, count := range d.RiskDistribution {
		if count != 0 {
			t.Errorf("risk %q = %d, want 0", risk, count)
		}
	}
}

func TestBuildDashboardStats(t *testing.T) {
	records := []models.StudentRecord{
		{StudentID: "A", Attendance: 90, StudyHours: 20, Performance: 84.25, RiskLevel: models.RiskLow},
		{StudentID: "B", Attendance: 50, StudyHours: 5, Performance: 38.33, RiskLevel: models.RiskHigh},
		{StudentID: "C", Attendance: 75, StudyHours: 15, Performance: 65.75, RiskLevel: models.RiskMedium},
	}

	d := BuildDashboard(tableFor(records))

	if d.Stats.TotalStudents != 3 {
		t.Errorf("TotalStudents = %d, want 3", d.Stats.TotalStudents)
	}
	wantAvg := math.Round((84.25+38.33+65.75)/3*100) / 100
	if d.Stats.AveragePerformance != wantAvg {
		t.Errorf("AveragePerformance = %v, want %v", d.Stats.AveragePerformance, wantAvg)
	}
	if d.Stats.AtRiskStudents != 1 {
		t.Errorf("AtRiskStudents = %d, want 1", d.Stats.AtRiskStudents)
	}
	if d.Stats.HighPerformers != 1 {
		t.Errorf("HighPerformers = %d, want 1", d.Stats.HighPerformers)
	}
	if d.Stats.AverageAttendance != round2((90.0+50+75)/3) {
		t.Errorf("AverageAttendance = %v", d.Stats.AverageAttendance)
	}

	if d.PerformanceDistribution["Below 50"] != 1 {
		t.Errorf("Below 50 = %d, want 1", d.PerformanceDistribution["Below 50"])
	}
	if d.PerformanceDistribution["60-70"] != 1 {
		t.Errorf("60-70 = %d, want 1", d.PerformanceDistribution["60-70"])
	}
	if d.PerformanceDistribution["Above 80"] != 1 {
		t.Errorf("Above 80 = %d, want 1", d.PerformanceDistribution["Above 80"])
	}

	if d.RiskDistribution[models.RiskLow] != 1 || d.RiskDistribution[models.RiskMedium] != 1 || d.RiskDistribution[models.RiskHigh] != 1 {
		t.Errorf("RiskDistribution = %v, want 1 each", d.RiskDistribution)
	}
}

func TestBuildDashboardHistogramBoundaries(t *testing.T) {
	records := []models.StudentRecord{
		{StudentID: "A", Performance: 49.99, RiskLevel: models.RiskHigh},
		{StudentID: "B", Performance: 50, RiskLevel: models.RiskMedium},
		{StudentID: "C", Performance: 60, RiskLevel: models.RiskMedium},
		{StudentID: "D", Performance: 70, RiskLevel: models.RiskMedium},
		{StudentID: "E", Performance: 80, RiskLevel: models.RiskLow},
	}

	d := BuildDashboard(tableFor(records))

	want := map[string]int{"Below 50": 1, "50-60": 1, "60-70": 1, "70-80": 1, "Above 80": 1}
	for bucket, count := range want {
		if d.PerformanceDistribution[bucket] != count {
			t.Errorf("bucket %q = %d, want %d", bucket, d.PerformanceDistribution[bucket], count)
		}
	}
}

func TestBuildAnalyticsEmpty(t *testing.T) {
	a := BuildAnalytics(tableFor(nil))

	if len(a.AttendanceVsPerformance) != 0 {
		t.Errorf("scatter points on empty table: %d", len(a.AttendanceVsPerformance))
	}
	for key, v := range a.CorrelationMatrix {
		if v != 0 {
			t.Errorf("correlation %q = %v, want 0", key, v)
		}
	}
	if len(a.MajorDistribution) != 0 {
		t.Errorf("MajorDistribution = %v, want empty", a.MajorDistribution)
	}
}

func TestBuildAnalyticsCorrelations(t *testing.T) {
	// performance is exactly attendance here, so the correlation is 1.
	records := []models.StudentRecord{
		{StudentID: "A", Attendance: 10, StudyHours: 30, AssignmentsCompleted: 5, Performance: 10, Participation: 1},
		{StudentID: "B", Attendance: 20, StudyHours: 20, AssignmentsCompleted: 5, Performance: 20, Participation: 2},
		{StudentID: "C", Attendance: 30, StudyHours: 10, AssignmentsCompleted: 5, Performance: 30, Participation: 3},
	}

	a := BuildAnalytics(tableFor(records))

	if got := a.CorrelationMatrix["attendance_performance"]; got != 1 {
		t.Errorf("attendance correlation = %v, want 1", got)
	}
	if got := a.CorrelationMatrix["study_hours_performance"]; got != -1 {
		t.Errorf("study hours correlation = %v, want -1", got)
	}
	// Constant assignments column: degenerate correlation maps to 0.
	if got := a.CorrelationMatrix["assignments_performance"]; got != 0 {
		t.Errorf("assignments correlation = %v, want 0", got)
	}

	if a.ParticipationDistribution["Low"] != 1 || a.ParticipationDistribution["Medium"] != 1 || a.ParticipationDistribution["High"] != 1 {
		t.Errorf("ParticipationDistribution = %v", a.ParticipationDistribution)
	}
}

func TestBuildAnalyticsScatterSample(t *testing.T) {
	records := make([]models.StudentRecord, 800)
	for i := range records {
		records[i] = models.StudentRecord{
			StudentID:   "STU",
			Attendance:  float64(i % 100),
			Performance: float64(i % 100),
		}
	}

	a := BuildAnalytics(tableFor(records))

	if len(a.AttendanceVsPerformance) != ScatterSampleLimit {
		t.Errorf("scatter sample size = %d, want %d", len(a.AttendanceVsPerformance), ScatterSampleLimit)
	}
	if len(a.StudyHoursVsPerformance) != ScatterSampleLimit {
		t.Errorf("scatter sample size = %d, want %d", len(a.StudyHoursVsPerformance), ScatterSampleLimit)
	}
}

func TestBuildAnalyticsScatterFullBelowLimit(t *testing.T) {
	records := make([]models.StudentRecord, 42)
	for i := range records {
		records[i] = models.StudentRecord{StudentID: "STU", Attendance: float64(i), Performance: float64(i)}
	}

	a := BuildAnalytics(tableFor(records))

	if len(a.AttendanceVsPerformance) != 42 {
		t.Errorf("scatter size = %d, want full 42", len(a.AttendanceVsPerformance))
	}
	if a.AttendanceVsPerformance[0].X != 0 || a.AttendanceVsPerformance[41].X != 41 {
		t.Error("scatter points should cover the full dataset in order")
	}
}

func TestSampleIndicesWithoutReplacement(t *testing.T) {
	idx := sampleIndices(ScatterSampleLimit * 3)
	if len(idx) != ScatterSampleLimit {
		t.Fatalf("len = %d, want %d", len(idx), ScatterSampleLimit)
	}
	seen := make(map[int]bool, len(idx))
	for _, i := range idx {
		if seen[i] {
			t.Fatalf("index %d sampled twice", i)
		}
		seen[i] = true
	}
}
