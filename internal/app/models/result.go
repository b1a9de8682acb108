package models

import "time"

// ExamResult is one student's outcome for one subject within an exam,
// based on the 'exam_results' table. Unique per (exam, student, subject).
// Percentage and grade are always derived from marks, never set directly;
// rank fields stay null until rank computation runs at publish time.
type ExamResult struct {
	ID            int64      `json:"id" db:"id"`
	ExamID        int64      `json:"examId" db:"exam_id"`
	ScheduleID    int64      `json:"scheduleId" db:"schedule_id"`
	StudentID     int64      `json:"studentId" db:"student_id"`
	SubjectID     int64      `json:"subjectId" db:"subject_id"`
	ClassID       int64      `json:"classId" db:"class_id"`
	MaxMarks      float64    `json:"maxMarks" db:"max_marks"`
	MarksObtained *float64   `json:"marksObtained,omitempty" db:"marks_obtained"` // nil when absent
	Percentage    *float64   `json:"percentage,omitempty" db:"percentage"`
	Grade         *string    `json:"grade,omitempty" db:"grade"`
	IsAbsent      bool       `json:"isAbsent" db:"is_absent"`
	IsPassed      *bool      `json:"isPassed,omitempty" db:"is_passed"`
	ClassRank     *int       `json:"classRank,omitempty" db:"class_rank"`
	OverallRank   *int       `json:"overallRank,omitempty" db:"overall_rank"`
	Remarks       *string    `json:"remarks,omitempty" db:"remarks"`
	IsDraft       bool       `json:"isDraft" db:"is_draft"`
	EnteredBy     int64      `json:"enteredBy" db:"entered_by"`
	EnteredAt     time.Time  `json:"enteredAt" db:"entered_at"`
	UpdatedAt     time.Time  `json:"updatedAt" db:"updated_at"`
}

// StudentTotal is one student's aggregated marks used by the rank engine
type StudentTotal struct {
	StudentID  int64   `json:"studentId" db:"student_id"`
	ClassID    int64   `json:"classId" db:"class_id"`
	TotalMarks float64 `json:"totalMarks" db:"total_marks"`
}
