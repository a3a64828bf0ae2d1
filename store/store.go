package store

import (
	"fmt"

	"student-success-api/config"
	"student-success-api/models"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open connects to the configured database. Postgres serves shared
// deployments, sqlite serves single-node installs and tests.
func Open(cfg config.DatabaseConfig) (*gorm.DB, error) {
	gormCfg := &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)}

	switch cfg.Driver {
	case "postgres":
		return gorm.Open(postgres.Open(cfg.GetDSN()), gormCfg)
	case "sqlite":
		return gorm.Open(sqlite.Open(cfg.Path), gormCfg)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// RecordStore is the single source of truth for the student dataset.
type RecordStore struct {
	db *gorm.DB
}

func NewRecordStore(db *gorm.DB) (*RecordStore, error) {
	if err := db.AutoMigrate(&models.StudentRecord{}); err != nil {
		return nil, fmt.Errorf("migrate students table: %w", err)
	}
	return &RecordStore{db: db}, nil
}

// ReplaceAll swaps the entire dataset for the given batch in one
// transaction. A re-upload with fewer rows shrinks the stored population;
// on any failure the prior dataset is retained unchanged.
func (s *RecordStore) ReplaceAll(records []models.StudentRecord) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&models.StudentRecord{}).Error; err != nil {
			return fmt.Errorf("clear students: %w", err)
		}
		if len(records) == 0 {
			return nil
		}
		if err := tx.CreateInBatches(records, 500).Error; err != nil {
			return fmt.Errorf("insert students: %w", err)
		}
		return nil
	})
}

func (s *RecordStore) GetAll() ([]models.StudentRecord, error) {
	var records []models.StudentRecord
	if err := s.db.Order("student_id").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("query students: %w", err)
	}
	return records, nil
}

func (s *RecordStore) Count() (int64, error) {
	var count int64
	if err := s.db.Model(&models.StudentRecord{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count students: %w", err)
	}
	return count, nil
}

// Table is the dataset in columnar form for bulk statistics.
type Table struct {
	StudentIDs     []string
	Attendance     []float64
	StudyHours     []float64
	PreviousGrades []float64
	Assignments    []float64
	Participation  []float64
	Performance    []float64
	RiskLevels     []string
	Majors         []string
}

func (t *Table) Len() int { return len(t.StudentIDs) }

func (s *RecordStore) Table() (*Table, error) {
	records, err := s.GetAll()
	if err != nil {
		return nil, err
	}
	return TableFromRecords(records), nil
}

func TableFromRecords(records []models.StudentRecord) *Table {
	n := len(records)
	t := &Table{
		StudentIDs:     make([]string, n),
		Attendance:     make([]float64, n),
		StudyHours:     make([]float64, n),
		PreviousGrades: make([]float64, n),
		Assignments:    make([]float64, n),
		Participation:  make([]float64, n),
		Performance:    make([]float64, n),
		RiskLevels:     make([]string, n),
		Majors:         make([]string, n),
	}
	for i, r := range records {
		t.StudentIDs[i] = r.StudentID
		t.Attendance[i] = r.Attendance
		t.StudyHours[i] = r.StudyHours
		t.PreviousGrades[i] = r.PreviousGrades
		t.Assignments[i] = r.AssignmentsCompleted
		t.Participation[i] = float64(r.Participation)
		t.Performance[i] = r.Performance
		t.RiskLevels[i] = r.RiskLevel
		t.Majors[i] = r.Major
	}
	return t
}
