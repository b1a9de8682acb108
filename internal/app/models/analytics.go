package models

import "time"

// ExamAnalytics is a statistics snapshot at one granularity, based on the
// 'exam_analytics' table. ClassID and SubjectID both nil means exam-wide.
// Unique per (exam, class-or-null, subject-or-null); recomputation
// overwrites every numeric field in place.
type ExamAnalytics struct {
	ID               int64      `json:"id" db:"id"`
	ExamID           int64      `json:"examId" db:"exam_id"`
	ClassID          *int64     `json:"classId,omitempty" db:"class_id"`
	SubjectID        *int64     `json:"subjectId,omitempty" db:"subject_id"`
	TotalStudents    int        `json:"totalStudents" db:"total_students"`
	AppearedStudents int        `json:"appearedStudents" db:"appeared_students"`
	AbsentStudents   int        `json:"absentStudents" db:"absent_students"`
	PassedStudents   int        `json:"passedStudents" db:"passed_students"`
	FailedStudents   int        `json:"failedStudents" db:"failed_students"`
	HighestMarks     float64    `json:"highestMarks" db:"highest_marks"`
	LowestMarks      float64    `json:"lowestMarks" db:"lowest_marks"`
	AverageMarks     float64    `json:"averageMarks" db:"average_marks"`
	MedianMarks      float64    `json:"medianMarks" db:"median_marks"`
	Above90          int        `json:"above90" db:"above_90"`
	Range75To90      int        `json:"range75To90" db:"range_75_90"`
	Range60To75      int        `json:"range60To75" db:"range_60_75"`
	Range33To60      int        `json:"range33To60" db:"range_33_60"`
	Below33          int        `json:"below33" db:"below_33"`
	ComputedAt       time.Time  `json:"computedAt" db:"computed_at"`
}
