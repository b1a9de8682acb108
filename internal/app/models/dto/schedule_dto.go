package dto

// CreateScheduleRequest carries one proposed exam time-slot
type CreateScheduleRequest struct {
	SubjectID      int64    `json:"subjectId" binding:"required"`
	ClassID        int64    `json:"classId" binding:"required"`
	Date           string   `json:"date" binding:"required" example:"2024-11-05"`
	StartTime      string   `json:"startTime" binding:"required" example:"09:00"`
	EndTime        string   `json:"endTime" binding:"required" example:"11:00"`
	Room           string   `json:"room" example:"Hall B"`
	Center         string   `json:"center" example:"Main Campus"`
	MaxMarks       float64  `json:"maxMarks" binding:"required,gt=0" example:"100"`
	PassingMarks   float64  `json:"passingMarks" binding:"min=0" example:"33"`
	TheoryMarks    *float64 `json:"theoryMarks,omitempty" binding:"omitempty,min=0"`
	PracticalMarks *float64 `json:"practicalMarks,omitempty" binding:"omitempty,min=0"`
}

// BulkScheduleRequest carries a batch of slots validated all-or-nothing
type BulkScheduleRequest struct {
	Schedules []CreateScheduleRequest `json:"schedules" binding:"required,min=1,dive"`
}

// ScheduleConflict reports the conflicting slot back to the operator
type ScheduleConflict struct {
	SubjectID int64  `json:"subjectId"`
	ClassID   int64  `json:"classId"`
	Date      string `json:"date" example:"2024-11-05"`
	StartTime string `json:"startTime" example:"09:30"`
	EndTime   string `json:"endTime" example:"10:30"`
}
