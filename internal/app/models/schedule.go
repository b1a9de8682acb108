package models

import "time"

// ExamSchedule is one subject sitting for one class within an exam,
// based on the 'exam_schedules' table. Unique per (exam, subject, class).
type ExamSchedule struct {
	ID             int64     `json:"id" db:"id"`
	ExamID         int64     `json:"examId" db:"exam_id"`
	SubjectID      int64     `json:"subjectId" db:"subject_id"`
	ClassID        int64     `json:"classId" db:"class_id"`
	Date           time.Time `json:"date" db:"exam_date"`
	StartTime      string    `json:"startTime" db:"start_time" example:"09:00"` // same-day HH:MM
	EndTime        string    `json:"endTime" db:"end_time" example:"11:00"`
	Room           string    `json:"room" db:"room"`
	Center         string    `json:"center" db:"center"`
	MaxMarks       float64   `json:"maxMarks" db:"max_marks"`
	PassingMarks   float64   `json:"passingMarks" db:"passing_marks"`
	TheoryMarks    *float64  `json:"theoryMarks,omitempty" db:"theory_marks"`
	PracticalMarks *float64  `json:"practicalMarks,omitempty" db:"practical_marks"`
	CreatedAt      time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt      time.Time `json:"updatedAt" db:"updated_at"`
}

// ClassSubject is one (class, subject) combination observed in an exam's schedules
type ClassSubject struct {
	ClassID   int64 `json:"classId" db:"class_id"`
	SubjectID int64 `json:"subjectId" db:"subject_id"`
}
