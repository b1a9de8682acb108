package dto

// GenerateHallTicketsRequest triggers (re)generation of the credential
// batch for an exam timetable. Regeneration replaces the previous batch.
type GenerateHallTicketsRequest struct {
	ExamCenter    string `json:"examCenter" binding:"required" example:"Main Campus"`
	Room          string `json:"room" example:"Hall B"`
	ReportingTime string `json:"reportingTime" binding:"required" example:"08:30"`
	Instructions  string `json:"instructions" example:"Carry a printed copy and a photo ID."`
}
