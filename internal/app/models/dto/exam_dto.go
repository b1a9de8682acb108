package dto

import "github.com/sapatil2212/edutechunite-sub005/internal/app/models"

// GradeBandRequest is one band row in a create/update exam request
type GradeBandRequest struct {
	Grade string  `json:"grade" binding:"required" example:"A1"`
	Min   float64 `json:"min" binding:"min=0,max=100" example:"91"`
	Max   float64 `json:"max" binding:"min=0,max=100" example:"100"`
}

// CreateExamRequest carries the fields for creating an exam
type CreateExamRequest struct {
	Name               string             `json:"name" binding:"required" example:"Half Yearly Examination"`
	Code               string             `json:"code" binding:"required" example:"HY-2024"`
	AcademicYearID     int64              `json:"academicYearId" binding:"required"`
	ExamType           string             `json:"examType" binding:"required" example:"HALF_YEARLY"`
	EvaluationType     string             `json:"evaluationType" binding:"required" example:"MARKS"`
	TargetClassIDs     []int64            `json:"targetClassIds" binding:"required,min=1"`
	StartDate          string             `json:"startDate" binding:"required" example:"2024-11-01"`
	EndDate            string             `json:"endDate" binding:"required" example:"2024-11-15"`
	PassingPercentage  *float64           `json:"passingPercentage,omitempty" binding:"omitempty,min=0,max=100"`
	SubjectWisePassing bool               `json:"subjectWisePassing"`
	GradingBands       []GradeBandRequest `json:"gradingBands,omitempty" binding:"omitempty,dive"`
	ShowRank           bool               `json:"showRank"`
	ShowPercentage     bool               `json:"showPercentage"`
	ShowGrade          bool               `json:"showGrade"`
}

// UpdateExamRequest carries a partial exam patch. Nil fields stay unchanged.
type UpdateExamRequest struct {
	Name               *string            `json:"name,omitempty"`
	Code               *string            `json:"code,omitempty"`
	TargetClassIDs     []int64            `json:"targetClassIds,omitempty" binding:"omitempty,min=1"`
	StartDate          *string            `json:"startDate,omitempty"`
	EndDate            *string            `json:"endDate,omitempty"`
	PassingPercentage  *float64           `json:"passingPercentage,omitempty" binding:"omitempty,min=0,max=100"`
	SubjectWisePassing *bool              `json:"subjectWisePassing,omitempty"`
	GradingBands       []GradeBandRequest `json:"gradingBands,omitempty" binding:"omitempty,dive"`
	ShowRank           *bool              `json:"showRank,omitempty"`
	ShowPercentage     *bool              `json:"showPercentage,omitempty"`
	ShowGrade          *bool              `json:"showGrade,omitempty"`
}

// ExamFilterRequest carries list filters for exams
type ExamFilterRequest struct {
	Status         string `form:"status"`
	ExamType       string `form:"examType"`
	AcademicYearID *int64 `form:"academicYearId"`
	ClassID        *int64 `form:"classId"`
}

// PublishResultsResponse reports the outcome of a results publication
type PublishResultsResponse struct {
	Exam           *models.Exam `json:"exam"`
	RankedStudents int          `json:"rankedStudents"`
	AnalyticsScopes int         `json:"analyticsScopes"`
}
