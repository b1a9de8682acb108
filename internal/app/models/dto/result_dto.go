package dto

// MarkRow is one student's marks entry for one subject
type MarkRow struct {
	StudentID     int64    `json:"studentId" binding:"required"`
	MarksObtained *float64 `json:"marksObtained,omitempty" binding:"omitempty,min=0"` // nil when absent
	IsAbsent      bool     `json:"isAbsent"`
	Remarks       *string  `json:"remarks,omitempty"`
}

// SubmitMarksRequest carries a batch of marks for one subject of an exam.
// The batch is written all-or-nothing.
type SubmitMarksRequest struct {
	SubjectID int64     `json:"subjectId" binding:"required"`
	Results   []MarkRow `json:"results" binding:"required,min=1,dive"`
	AsDraft   bool      `json:"asDraft"`
}

// FinalizeMarksRequest clears the draft flag for a subject's entries
type FinalizeMarksRequest struct {
	SubjectID int64 `json:"subjectId" binding:"required"`
}

// ResultFilterRequest carries result list filters
type ResultFilterRequest struct {
	StudentID *int64 `form:"studentId"`
	ClassID   *int64 `form:"classId"`
	SubjectID *int64 `form:"subjectId"`
}
