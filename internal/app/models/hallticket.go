package models

import "time"

// HallTicket is a per-student exam-entry credential based on the
// 'hall_tickets' table. Unique per (exam, student); ticket and seat
// numbers are unique within the generation batch. Regeneration replaces
// the whole batch for the exam.
type HallTicket struct {
	ID               int64      `json:"id" db:"id"`
	ExamID           int64      `json:"examId" db:"exam_id"`
	StudentID        int64      `json:"studentId" db:"student_id"`
	TicketNumber     string     `json:"ticketNumber" db:"ticket_number" example:"HYE24-58231"`
	SeatNumber       string     `json:"seatNumber" db:"seat_number" example:"4821"`
	ExamCenter       string     `json:"examCenter" db:"exam_center"`
	Room             string     `json:"room" db:"room"`
	ReportingTime    string     `json:"reportingTime" db:"reporting_time" example:"08:30"`
	Instructions     string     `json:"instructions" db:"instructions"`
	DownloadCount    int        `json:"downloadCount" db:"download_count"`
	LastDownloadedAt *time.Time `json:"lastDownloadedAt,omitempty" db:"last_downloaded_at"`
	GeneratedAt      time.Time  `json:"generatedAt" db:"generated_at"`
	GeneratedBy      int64      `json:"generatedBy" db:"generated_by"`
}
