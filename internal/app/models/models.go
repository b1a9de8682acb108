package models

// RoleType defines the role of an authenticated actor
type RoleType string

const (
	RoleAdmin   RoleType = "ADMIN"
	RoleTeacher RoleType = "TEACHER"
	RoleStudent RoleType = "STUDENT"
	RoleParent  RoleType = "PARENT"
)

// IsStaff reports whether the role may enter marks or create schedules
func (r RoleType) IsStaff() bool {
	return r == RoleAdmin || r == RoleTeacher
}

// ExamStatus represents the lifecycle state of an exam.
// Transitions only move forward; ARCHIVED is reachable from any
// non-terminal state administratively.
type ExamStatus string

const (
	ExamStatusDraft                ExamStatus = "DRAFT"
	ExamStatusScheduled            ExamStatus = "SCHEDULED"
	ExamStatusMarksEntryInProgress ExamStatus = "MARKS_ENTRY_IN_PROGRESS"
	ExamStatusMarksEntryCompleted  ExamStatus = "MARKS_ENTRY_COMPLETED"
	ExamStatusResultsPublished     ExamStatus = "RESULTS_PUBLISHED"
	ExamStatusArchived             ExamStatus = "ARCHIVED"
)

// examStatusOrder maps each state to its position in the forward-only chain.
// ARCHIVED sits outside the chain.
var examStatusOrder = map[ExamStatus]int{
	ExamStatusDraft:                0,
	ExamStatusScheduled:            1,
	ExamStatusMarksEntryInProgress: 2,
	ExamStatusMarksEntryCompleted:  3,
	ExamStatusResultsPublished:     4,
}

// CanAdvanceTo reports whether a transition from s to next is allowed
func (s ExamStatus) CanAdvanceTo(next ExamStatus) bool {
	if next == ExamStatusArchived {
		return s != ExamStatusResultsPublished && s != ExamStatusArchived
	}
	from, ok := examStatusOrder[s]
	if !ok {
		return false
	}
	to, ok := examStatusOrder[next]
	if !ok {
		return false
	}
	return to > from
}

// ExamType is one of the fixed assessment categories
type ExamType string

const (
	ExamTypeUnitTest   ExamType = "UNIT_TEST"
	ExamTypeMidTerm    ExamType = "MID_TERM"
	ExamTypeQuarterly  ExamType = "QUARTERLY"
	ExamTypeHalfYearly ExamType = "HALF_YEARLY"
	ExamTypeAnnual     ExamType = "ANNUAL"
	ExamTypePreBoard   ExamType = "PRE_BOARD"
)

// EvaluationType defines how results for an exam are expressed
type EvaluationType string

const (
	EvaluationMarks       EvaluationType = "MARKS"
	EvaluationGrade       EvaluationType = "GRADE"
	EvaluationPercentage  EvaluationType = "PERCENTAGE"
	EvaluationCredit      EvaluationType = "CREDIT"
	EvaluationPassFail    EvaluationType = "PASS_FAIL"
	EvaluationDescriptive EvaluationType = "DESCRIPTIVE"
)

// ReportCardType classifies a persisted report-card snapshot
type ReportCardType string

const (
	ReportCardExamWise   ReportCardType = "EXAM_WISE"
	ReportCardTermWise   ReportCardType = "TERM_WISE"
	ReportCardAnnual     ReportCardType = "ANNUAL"
	ReportCardProgress   ReportCardType = "PROGRESS"
	ReportCardTranscript ReportCardType = "TRANSCRIPT"
)

// Actor is the authenticated principal attached to every request
type Actor struct {
	UserID        int64    `json:"userId"`
	InstitutionID int64    `json:"institutionId"`
	Role          RoleType `json:"role"`
}
