package dto

// GenerateReportCardsRequest targets one student or every active student
// in a class of a published exam
type GenerateReportCardsRequest struct {
	StudentID         *int64 `json:"studentId,omitempty"`
	ClassID           *int64 `json:"classId,omitempty"`
	Type              string `json:"type" example:"EXAM_WISE"`
	IncludeAttendance bool   `json:"includeAttendance"`
	IncludeRemarks    bool   `json:"includeRemarks"`
}

// GenerateReportCardsResponse reports how the batch went. Students whose
// record could not be found are skipped, not batch-aborting.
type GenerateReportCardsResponse struct {
	Generated int     `json:"generated"`
	Skipped   []int64 `json:"skipped,omitempty"`
}
