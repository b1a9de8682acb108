package models

import "time"

// GradeBand is one row of an exam's grading-band table. Bands are ordered,
// non-overlapping and together cover 0-100.
type GradeBand struct {
	Grade string  `json:"grade" example:"A1"`
	Min   float64 `json:"min" example:"91"`
	Max   float64 `json:"max" example:"100"`
}

// Exam defines one assessment cycle based on the 'exams' table
type Exam struct {
	ID                 int64          `json:"id" db:"id"`
	InstitutionID      int64          `json:"institutionId" db:"institution_id"`
	AcademicYearID     int64          `json:"academicYearId" db:"academic_year_id"`
	Name               string         `json:"name" db:"name" example:"Half Yearly Examination"`
	Code               string         `json:"code" db:"code" example:"HY-2024"`
	ExamType           ExamType       `json:"examType" db:"exam_type"`
	EvaluationType     EvaluationType `json:"evaluationType" db:"evaluation_type"`
	TargetClassIDs     []int64        `json:"targetClassIds" db:"target_class_ids"` // non-empty
	StartDate          time.Time      `json:"startDate" db:"start_date"`
	EndDate            time.Time      `json:"endDate" db:"end_date"`
	PassingPercentage  float64        `json:"passingPercentage" db:"passing_percentage" example:"33"`
	SubjectWisePassing bool           `json:"subjectWisePassing" db:"subject_wise_passing"`
	GradingBands       []GradeBand    `json:"gradingBands,omitempty" db:"grading_bands"` // nil means default table
	ShowRank           bool           `json:"showRank" db:"show_rank"`
	ShowPercentage     bool           `json:"showPercentage" db:"show_percentage"`
	ShowGrade          bool           `json:"showGrade" db:"show_grade"`
	Status             ExamStatus     `json:"status" db:"status"`
	PublishedAt        *time.Time     `json:"publishedAt,omitempty" db:"published_at"`
	PublishedBy        *int64         `json:"publishedBy,omitempty" db:"published_by"`
	CreatedAt          time.Time      `json:"createdAt" db:"created_at"`
	UpdatedAt          time.Time      `json:"updatedAt" db:"updated_at"`
}

// TargetsClass reports whether classID is in the exam's target list
func (e *Exam) TargetsClass(classID int64) bool {
	for _, id := range e.TargetClassIDs {
		if id == classID {
			return true
		}
	}
	return false
}
