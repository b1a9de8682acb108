package models

import "time"

// User defines an authenticated account based on the 'users' table
type User struct {
	ID            int64     `json:"id" db:"id"`
	InstitutionID int64     `json:"institutionId" db:"institution_id"`
	Email         string    `json:"email" db:"email" example:"admin@school.edu"`
	Password      string    `json:"-" db:"password"` // bcrypt hash, excluded from JSON
	FirstName     string    `json:"firstName" db:"first_name"`
	LastName      string    `json:"lastName" db:"last_name"`
	RoleType      RoleType  `json:"roleType" db:"role_type"`
	IsActive      bool      `json:"isActive" db:"is_active"`
	CreatedAt     time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time `json:"updatedAt" db:"updated_at"`
}

// Student defines an enrolled student based on the 'students' table
type Student struct {
	ID            int64  `json:"id" db:"id"`
	InstitutionID int64  `json:"institutionId" db:"institution_id"`
	ClassID       int64  `json:"classId" db:"class_id"`
	AdmissionNo   string `json:"admissionNo" db:"admission_no"`
	RollNumber    int    `json:"rollNumber" db:"roll_number"`
	FirstName     string `json:"firstName" db:"first_name"`
	LastName      string `json:"lastName" db:"last_name"`
	IsActive      bool   `json:"isActive" db:"is_active"`
}

// FullName returns the student's display name
func (s *Student) FullName() string {
	if s.LastName == "" {
		return s.FirstName
	}
	return s.FirstName + " " + s.LastName
}

// Class defines a class/section based on the 'classes' table
type Class struct {
	ID            int64  `json:"id" db:"id"`
	InstitutionID int64  `json:"institutionId" db:"institution_id"`
	Name          string `json:"name" db:"name" example:"Grade 10"`
	Section       string `json:"section" db:"section" example:"A"`
}

// Subject defines a taught subject based on the 'subjects' table
type Subject struct {
	ID            int64  `json:"id" db:"id"`
	InstitutionID int64  `json:"institutionId" db:"institution_id"`
	Name          string `json:"name" db:"name" example:"Mathematics"`
	Code          string `json:"code" db:"code" example:"MATH"`
}

// AttendanceSummary aggregates attendance rows over a date window
type AttendanceSummary struct {
	PresentDays int `json:"presentDays" db:"present_days"`
	AbsentDays  int `json:"absentDays" db:"absent_days"`
	TotalDays   int `json:"totalDays" db:"total_days"`
}
