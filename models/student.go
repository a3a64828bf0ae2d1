package models

type StudentRecord struct {
	StudentID            string  `gorm:"column:student_id;primaryKey" json:"student_id"`
	Attendance           float64 `gorm:"column:attendance" json:"attendance"`
	StudyHours           float64 `gorm:"column:study_hours" json:"study_hours"`
	PreviousGrades       float64 `gorm:"column:previous_grades" json:"previous_grades"`
	AssignmentsCompleted float64 `gorm:"column:assignments_completed" json:"assignments_completed"`
	Participation        int     `gorm:"column:participation" json:"participation"`
	Performance          float64 `gorm:"column:performance" json:"performance"`
	RiskLevel            string  `gorm:"column:risk_level" json:"risk_level"`
	Major                string  `gorm:"column:major" json:"major"`
	YearOfStudy          string  `gorm:"column:year_of_study" json:"year_of_study"`
	Gender               string  `gorm:"column:gender" json:"gender"`
	Ethnicity            string  `gorm:"column:ethnicity" json:"ethnicity"`
	ParentEducation      string  `gorm:"column:parent_education" json:"parent_education"`
	FamilyIncome         string  `gorm:"column:family_income" json:"family_income"`
}

func (StudentRecord) TableName() string { return "students" }

// Features returns the canonical feature vector in training order.
func (s StudentRecord) Features() [FeatureCount]float64 {
	return [FeatureCount]float64{
		s.Attendance,
		s.StudyHours,
		s.PreviousGrades,
		s.AssignmentsCompleted,
		float64(s.Participation),
	}
}
