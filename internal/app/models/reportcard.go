package models

import "time"

// SubjectRow is one subject line inside a report card's results payload
type SubjectRow struct {
	SubjectID     int64    `json:"subjectId"`
	SubjectName   string   `json:"subjectName"`
	MaxMarks      float64  `json:"maxMarks"`
	MarksObtained *float64 `json:"marksObtained,omitempty"`
	Percentage    *float64 `json:"percentage,omitempty"`
	Grade         *string  `json:"grade,omitempty"`
	IsPassed      *bool    `json:"isPassed,omitempty"`
	IsAbsent      bool     `json:"isAbsent"`
	Remarks       *string  `json:"remarks,omitempty"`
	ClassRank     *int     `json:"classRank,omitempty"`
}

// ResultsPayload is the structured results section of a report card
type ResultsPayload struct {
	Subjects           []SubjectRow `json:"subjects"`
	TotalMarksObtained float64      `json:"totalMarksObtained"`
	TotalMaxMarks      float64      `json:"totalMaxMarks"`
	OverallPercentage  float64      `json:"overallPercentage"`
	SubjectsPassed     int          `json:"subjectsPassed"`
	SubjectsFailed     int          `json:"subjectsFailed"`
	ClassRank          *int         `json:"classRank,omitempty"`
	OverallRank        *int         `json:"overallRank,omitempty"`
}

// AttendancePayload summarizes attendance over the exam's date window
type AttendancePayload struct {
	PresentDays int     `json:"presentDays"`
	AbsentDays  int     `json:"absentDays"`
	TotalDays   int     `json:"totalDays"`
	Percentage  float64 `json:"percentage"`
}

// SubjectRemark carries one subject's free-text teacher remark
type SubjectRemark struct {
	SubjectName string `json:"subjectName"`
	Remarks     string `json:"remarks"`
}

// RemarksPayload aggregates per-subject teacher remarks
type RemarksPayload struct {
	SubjectRemarks []SubjectRemark `json:"subjectRemarks"`
}

// ReportCard is a persisted user-facing snapshot based on the 'report_cards'
// table. Unique per (exam, student); regeneration overwrites, never duplicates.
type ReportCard struct {
	ID          int64              `json:"id" db:"id"`
	StudentID   int64              `json:"studentId" db:"student_id"`
	ExamID      int64              `json:"examId" db:"exam_id"`
	ClassID     int64              `json:"classId" db:"class_id"`
	Type        ReportCardType     `json:"type" db:"card_type"`
	Results     ResultsPayload     `json:"results" db:"results"`
	Attendance  *AttendancePayload `json:"attendance,omitempty" db:"attendance"`
	Remarks     *RemarksPayload    `json:"remarks,omitempty" db:"remarks"`
	Status      string             `json:"status" db:"status"`
	GeneratedAt time.Time          `json:"generatedAt" db:"generated_at"`
	GeneratedBy int64              `json:"generatedBy" db:"generated_by"`
}

// ReportCardStatusGenerated is the only status a report card carries
const ReportCardStatusGenerated = "GENERATED"
