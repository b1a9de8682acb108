package models

import "testing"

func TestExamStatusCanAdvanceTo(t *testing.T) {
	tests := []struct {
		name string
		from ExamStatus
		to   ExamStatus
		want bool
	}{
		{"draft to scheduled", ExamStatusDraft, ExamStatusScheduled, true},
		{"draft skips to published", ExamStatusDraft, ExamStatusResultsPublished, true},
		{"scheduled to marks entry", ExamStatusScheduled, ExamStatusMarksEntryInProgress, true},
		{"marks entry completed to published", ExamStatusMarksEntryCompleted, ExamStatusResultsPublished, true},
		{"no backwards transition", ExamStatusScheduled, ExamStatusDraft, false},
		{"published is terminal", ExamStatusResultsPublished, ExamStatusScheduled, false},
		{"self transition rejected", ExamStatusScheduled, ExamStatusScheduled, false},
		{"draft can archive", ExamStatusDraft, ExamStatusArchived, true},
		{"marks entry can archive", ExamStatusMarksEntryInProgress, ExamStatusArchived, true},
		{"published cannot archive", ExamStatusResultsPublished, ExamStatusArchived, false},
		{"archived cannot archive again", ExamStatusArchived, ExamStatusArchived, false},
		{"archived cannot resume", ExamStatusArchived, ExamStatusScheduled, false},
		{"unknown status rejected", ExamStatus("BOGUS"), ExamStatusScheduled, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.from.CanAdvanceTo(tt.to); got != tt.want {
				t.Errorf("%s -> %s = %v, want %v", tt.from, tt.to, got, tt.want)
			}
		})
	}
}

func TestExamTargetsClass(t *testing.T) {
	exam := &Exam{TargetClassIDs: []int64{10, 11}}
	if !exam.TargetsClass(10) {
		t.Error("class 10 should be targeted")
	}
	if exam.TargetsClass(12) {
		t.Error("class 12 should not be targeted")
	}
}

func TestRoleIsStaff(t *testing.T) {
	if !RoleAdmin.IsStaff() || !RoleTeacher.IsStaff() {
		t.Error("admin and teacher are staff")
	}
	if RoleStudent.IsStaff() {
		t.Error("student is not staff")
	}
}
