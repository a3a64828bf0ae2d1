package ingest

// Layout identifies which of the two accepted CSV schemas an upload uses.
// It is resolved once from the header row; every later step works on
// canonical column names.
type Layout int

const (
	// LayoutLegacy already uses the canonical snake_case column names.
	LayoutLegacy Layout = iota
	// LayoutExtended is the richer export format with CamelCase headers,
	// a 4.0-scale GPA column, a 0-100 participation score and demographic
	// columns.
	LayoutExtended
)

// extendedIdentity is the column whose presence marks the extended layout.
const extendedIdentity = "StudentID"

// extendedRename maps extended-layout headers onto canonical names.
// Headers not listed here pass through unchanged.
var extendedRename = map[string]string{
	"StudentID":                "student_id",
	"AttendanceRate":           "attendance",
	"StudyHoursPerWeek":        "study_hours",
	"PreviousGPA":              "previous_grades",
	"AssignmentCompletionRate": "assignments_completed",
	"ParticipationScore":       "participation",
	"Major":                    "major",
	"YearOfStudy":              "year_of_study",
	"Gender":                   "gender",
	"Ethnicity":                "ethnicity",
	"ParentalEducation":        "parent_education",
	"FamilyIncome":             "family_income",
}

// gpaScale rescales the extended layout's 4.0-scale grade column to 0-100.
const gpaScale = 25.0

func DetectLayout(headers []string) Layout {
	for _, h := range headers {
		if h == extendedIdentity {
			return LayoutExtended
		}
	}
	return LayoutLegacy
}

// CanonicalHeaders renames the header row according to the detected layout.
func CanonicalHeaders(headers []string, layout Layout) []string {
	if layout == LayoutLegacy {
		return headers
	}
	renamed := make([]string, len(headers))
	for i, h := range headers {
		if canonical, ok := extendedRename[h]; ok {
			renamed[i] = canonical
		} else {
			renamed[i] = h
		}
	}
	return renamed
}

// bucketParticipation folds a continuous 0-100 participation score into the
// three-level ordinal used everywhere downstream.
func bucketParticipation(score float64) int {
	switch {
	case score < 60:
		return 1
	case score < 85:
		return 2
	default:
		return 3
	}
}
