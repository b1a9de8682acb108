package services

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/sapatil2212/edutechunite-sub005/internal/app/models"
	"github.com/sapatil2212/edutechunite-sub005/internal/pkg/apperrors"
)

func TestMedian(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   float64
	}{
		{"empty", nil, 0},
		{"single", []float64{42}, 42},
		{"odd count", []float64{30, 10, 20}, 20},
		{"even count averages middle pair", []float64{40, 10, 30, 20}, 25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := median(tt.values); got != tt.want {
				t.Errorf("median = %v, want %v", got, tt.want)
			}
		})
	}
}

func scopedResult(studentID int64, marks *float64, pct *float64, passed *bool, absent bool) *models.ExamResult {
	return &models.ExamResult{
		ExamID:        1,
		StudentID:     studentID,
		SubjectID:     100,
		ClassID:       10,
		MaxMarks:      100,
		MarksObtained: marks,
		Percentage:    pct,
		IsPassed:      passed,
		IsAbsent:      absent,
	}
}

func bt(v bool) *bool { return &v }

func TestSummarize(t *testing.T) {
	results := []*models.ExamResult{
		scopedResult(1, f64(95), f64(95), bt(true), false),
		scopedResult(2, f64(80), f64(80), bt(true), false),
		scopedResult(3, f64(65), f64(65), bt(true), false),
		scopedResult(4, f64(40), f64(40), bt(true), false),
		scopedResult(5, f64(20), f64(20), bt(false), false),
		scopedResult(6, nil, nil, nil, true),
	}

	a := summarize(1, nil, nil, results)

	if a.TotalStudents != 6 || a.AppearedStudents != 5 || a.AbsentStudents != 1 {
		t.Errorf("counts = total %d appeared %d absent %d", a.TotalStudents, a.AppearedStudents, a.AbsentStudents)
	}
	if a.PassedStudents != 4 || a.FailedStudents != 1 {
		t.Errorf("passed %d failed %d, want 4 and 1", a.PassedStudents, a.FailedStudents)
	}
	if a.Above90 != 1 || a.Range75To90 != 1 || a.Range60To75 != 1 || a.Range33To60 != 1 || a.Below33 != 1 {
		t.Errorf("bands = %d/%d/%d/%d/%d", a.Above90, a.Range75To90, a.Range60To75, a.Range33To60, a.Below33)
	}
	if got := a.Above90 + a.Range75To90 + a.Range60To75 + a.Range33To60 + a.Below33; got != a.AppearedStudents {
		t.Errorf("band sum %d != appeared %d", got, a.AppearedStudents)
	}
	if a.HighestMarks != 95 || a.LowestMarks != 20 {
		t.Errorf("highest %v lowest %v", a.HighestMarks, a.LowestMarks)
	}
	if a.AverageMarks != 60 {
		t.Errorf("average = %v, want 60", a.AverageMarks)
	}
	if a.MedianMarks != 65 {
		t.Errorf("median = %v, want 65", a.MedianMarks)
	}
}

func TestSummarizeBandBoundaries(t *testing.T) {
	// 90, 75, 60 and 33 land in the higher band
	results := []*models.ExamResult{
		scopedResult(1, f64(90), f64(90), bt(true), false),
		scopedResult(2, f64(75), f64(75), bt(true), false),
		scopedResult(3, f64(60), f64(60), bt(true), false),
		scopedResult(4, f64(33), f64(33), bt(true), false),
		scopedResult(5, f64(32.9), f64(32.9), bt(false), false),
	}

	a := summarize(1, nil, nil, results)
	if a.Above90 != 1 || a.Range75To90 != 1 || a.Range60To75 != 1 || a.Range33To60 != 1 || a.Below33 != 1 {
		t.Errorf("bands = %d/%d/%d/%d/%d, want 1 each", a.Above90, a.Range75To90, a.Range60To75, a.Range33To60, a.Below33)
	}
}

func TestSummarizeMultiSubjectStudentCounts(t *testing.T) {
	// One student passing one subject and failing another counts as failed,
	// not passed; a student absent in only one subject still appeared
	mixed := []*models.ExamResult{
		scopedResult(1, f64(80), f64(80), bt(true), false),
		{ExamID: 1, StudentID: 1, SubjectID: 101, ClassID: 10, MaxMarks: 100,
			MarksObtained: f64(20), Percentage: f64(20), IsPassed: bt(false)},
		scopedResult(2, nil, nil, nil, true),
		{ExamID: 1, StudentID: 2, SubjectID: 101, ClassID: 10, MaxMarks: 100,
			MarksObtained: f64(50), Percentage: f64(50), IsPassed: bt(true)},
	}

	a := summarize(1, nil, nil, mixed)
	if a.TotalStudents != 2 {
		t.Errorf("total = %d, want 2", a.TotalStudents)
	}
	if a.AbsentStudents != 0 {
		t.Errorf("absent = %d, want 0: partial absence is not exam absence", a.AbsentStudents)
	}
	if a.PassedStudents != 1 {
		t.Errorf("passed = %d, want 1: a failed subject disqualifies", a.PassedStudents)
	}
	if a.FailedStudents != 1 {
		t.Errorf("failed = %d, want 1", a.FailedStudents)
	}
}

func TestSummarizeMultiSubjectBandsCountRows(t *testing.T) {
	// Score bands bucket graded rows while the student counters dedupe by
	// student, so at a multi-subject scope the band sum tracks rows
	row := func(studentID, subjectID int64, pct float64) *models.ExamResult {
		r := scopedResult(studentID, f64(pct), f64(pct), bt(true), false)
		r.SubjectID = subjectID
		return r
	}
	results := []*models.ExamResult{
		row(1, 100, 95), row(1, 101, 80),
		row(2, 100, 65), row(2, 101, 40),
	}

	a := summarize(1, nil, nil, results)
	if a.AppearedStudents != 2 {
		t.Errorf("appeared = %d, want 2", a.AppearedStudents)
	}
	if a.Above90 != 1 || a.Range75To90 != 1 || a.Range60To75 != 1 || a.Range33To60 != 1 {
		t.Errorf("bands = %d/%d/%d/%d, want 1 each", a.Above90, a.Range75To90, a.Range60To75, a.Range33To60)
	}
	if got := a.Above90 + a.Range75To90 + a.Range60To75 + a.Range33To60 + a.Below33; got != len(results) {
		t.Errorf("band sum %d != rows %d", got, len(results))
	}
}

func TestRecompute(t *testing.T) {
	resultRepo := &mockResultRepo{results: []*models.ExamResult{
		scopedResult(1, f64(80), f64(80), bt(true), false),
	}}
	scheduleRepo := &mockScheduleRepo{}
	scheduleRepo.add(&models.ExamSchedule{ExamID: 1, SubjectID: 100, ClassID: 10})
	scheduleRepo.add(&models.ExamSchedule{ExamID: 1, SubjectID: 100, ClassID: 11})
	analyticsRepo := &mockAnalyticsRepo{}
	examRepo := newMockExamRepo()
	svc := NewAnalyticsService(analyticsRepo, resultRepo, scheduleRepo, examRepo, zerolog.Nop())

	scopes, err := svc.Recompute(context.Background(), testExam(1, models.ExamStatusMarksEntryCompleted))
	if err != nil {
		t.Fatalf("Recompute returned error: %v", err)
	}
	// 1 exam-wide + 2 target classes + 2 (class, subject) pairs
	if scopes != 5 {
		t.Errorf("scopes = %d, want 5", scopes)
	}
	if len(analyticsRepo.snapshots) != 5 {
		t.Errorf("stored %d snapshots, want 5", len(analyticsRepo.snapshots))
	}
}

func TestRecomputeIsIdempotent(t *testing.T) {
	resultRepo := &mockResultRepo{results: []*models.ExamResult{
		scopedResult(1, f64(80), f64(80), bt(true), false),
	}}
	scheduleRepo := &mockScheduleRepo{}
	scheduleRepo.add(&models.ExamSchedule{ExamID: 1, SubjectID: 100, ClassID: 10})
	analyticsRepo := &mockAnalyticsRepo{}
	svc := NewAnalyticsService(analyticsRepo, resultRepo, scheduleRepo, newMockExamRepo(), zerolog.Nop())
	exam := testExam(1, models.ExamStatusMarksEntryCompleted)

	first, err := svc.Recompute(context.Background(), exam)
	if err != nil {
		t.Fatalf("first run failed: %v", err)
	}
	second, err := svc.Recompute(context.Background(), exam)
	if err != nil {
		t.Fatalf("second run failed: %v", err)
	}
	if first != second {
		t.Errorf("scope count changed across runs: %d then %d", first, second)
	}
	if len(analyticsRepo.snapshots) != first {
		t.Errorf("stored %d snapshots after recompute, want %d", len(analyticsRepo.snapshots), first)
	}
}

func TestGetAnalyticsHidesUnpublishedFromStudents(t *testing.T) {
	examRepo := newMockExamRepo(testExam(1, models.ExamStatusMarksEntryCompleted))
	svc := NewAnalyticsService(&mockAnalyticsRepo{}, &mockResultRepo{}, &mockScheduleRepo{}, examRepo, zerolog.Nop())

	_, err := svc.GetAnalytics(context.Background(), studentActor(), 1, nil, nil)
	if !errors.Is(err, apperrors.ErrExamNotPublished) {
		t.Errorf("got %v, want ErrExamNotPublished", err)
	}

	// staff see analytics before publication
	if _, err := svc.GetAnalytics(context.Background(), staffActor(), 1, nil, nil); err != nil {
		t.Errorf("staff read rejected: %v", err)
	}
}
