package services

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/sapatil2212/edutechunite-sub005/internal/app/models"
	"github.com/sapatil2212/edutechunite-sub005/internal/app/models/dto"
	"github.com/sapatil2212/edutechunite-sub005/internal/pkg/apperrors"
)

func newMarksFixture(status models.ExamStatus) (MarksService, *mockResultRepo, *mockExamRepo) {
	resultRepo := &mockResultRepo{}
	examRepo := newMockExamRepo(testExam(1, status))

	scheduleRepo := &mockScheduleRepo{}
	scheduleRepo.add(&models.ExamSchedule{
		ExamID: 1, SubjectID: 100, ClassID: 10,
		MaxMarks: 100, PassingMarks: 33,
	})

	studentRepo := newMockStudentRepo(
		&models.Student{ID: 1, InstitutionID: 1, ClassID: 10, IsActive: true},
		&models.Student{ID: 2, InstitutionID: 1, ClassID: 10, IsActive: true},
	)

	svc := NewMarksService(resultRepo, examRepo, scheduleRepo, studentRepo, &mockAuthz{}, zerolog.Nop())
	return svc, resultRepo, examRepo
}

func marksRequest(rows ...dto.MarkRow) *dto.SubmitMarksRequest {
	return &dto.SubmitMarksRequest{SubjectID: 100, Results: rows}
}

func TestSubmitMarks(t *testing.T) {
	svc, resultRepo, examRepo := newMarksFixture(models.ExamStatusScheduled)

	results, err := svc.SubmitMarks(context.Background(), staffActor(), 1,
		marksRequest(dto.MarkRow{StudentID: 1, MarksObtained: f64(85)}))
	if err != nil {
		t.Fatalf("SubmitMarks returned error: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}

	r := results[0]
	if r.Percentage == nil || *r.Percentage != 85 {
		t.Errorf("percentage = %v, want 85", r.Percentage)
	}
	if r.Grade == nil || *r.Grade != "A2" {
		t.Errorf("grade = %v, want A2", r.Grade)
	}
	if r.IsPassed == nil || !*r.IsPassed {
		t.Error("expected the entry to be passed")
	}
	if resultRepo.upserts != 1 {
		t.Errorf("upsert batches = %d, want 1", resultRepo.upserts)
	}

	// First entry advances the exam to marks entry
	if examRepo.exams[1].Status != models.ExamStatusMarksEntryInProgress {
		t.Errorf("exam status = %s, want MARKS_ENTRY_IN_PROGRESS", examRepo.exams[1].Status)
	}
}

func TestSubmitMarksSubjectWisePassing(t *testing.T) {
	svc, _, examRepo := newMarksFixture(models.ExamStatusScheduled)
	examRepo.exams[1].SubjectWisePassing = true

	// 30/100 fails the 33 passing marks of the schedule even though the
	// exam-level percentage threshold is also 33
	results, err := svc.SubmitMarks(context.Background(), staffActor(), 1,
		marksRequest(dto.MarkRow{StudentID: 1, MarksObtained: f64(30)}))
	if err != nil {
		t.Fatalf("SubmitMarks returned error: %v", err)
	}
	if results[0].IsPassed == nil || *results[0].IsPassed {
		t.Error("expected the entry to be failed under subject-wise passing")
	}
}

func TestSubmitMarksAbsentStudent(t *testing.T) {
	svc, _, _ := newMarksFixture(models.ExamStatusScheduled)

	results, err := svc.SubmitMarks(context.Background(), staffActor(), 1,
		marksRequest(dto.MarkRow{StudentID: 1, IsAbsent: true}))
	if err != nil {
		t.Fatalf("SubmitMarks returned error: %v", err)
	}

	r := results[0]
	if !r.IsAbsent {
		t.Error("entry not flagged absent")
	}
	if r.MarksObtained != nil || r.Percentage != nil || r.Grade != nil || r.IsPassed != nil {
		t.Errorf("absent entry carries derived values: %+v", r)
	}
}

func TestSubmitMarksRejectsMarksAboveMax(t *testing.T) {
	svc, resultRepo, _ := newMarksFixture(models.ExamStatusScheduled)

	_, err := svc.SubmitMarks(context.Background(), staffActor(), 1,
		marksRequest(
			dto.MarkRow{StudentID: 1, MarksObtained: f64(50)},
			dto.MarkRow{StudentID: 2, MarksObtained: f64(120)},
		))
	if !errors.Is(err, apperrors.ErrMarksExceedMax) {
		t.Errorf("got %v, want ErrMarksExceedMax", err)
	}
	if len(resultRepo.results) != 0 {
		t.Errorf("persisted %d rows from a rejected batch, want 0", len(resultRepo.results))
	}
}

func TestSubmitMarksRejectsMissingMarks(t *testing.T) {
	svc, _, _ := newMarksFixture(models.ExamStatusScheduled)

	_, err := svc.SubmitMarks(context.Background(), staffActor(), 1,
		marksRequest(dto.MarkRow{StudentID: 1}))
	if !errors.Is(err, apperrors.ErrBadRequest) {
		t.Errorf("got %v, want ErrBadRequest", err)
	}
}

func TestSubmitMarksRejectsUnknownStudent(t *testing.T) {
	svc, _, _ := newMarksFixture(models.ExamStatusScheduled)

	_, err := svc.SubmitMarks(context.Background(), staffActor(), 1,
		marksRequest(dto.MarkRow{StudentID: 99, MarksObtained: f64(50)}))
	if !errors.Is(err, apperrors.ErrStudentNotFound) {
		t.Errorf("got %v, want ErrStudentNotFound", err)
	}
}

func TestSubmitMarksRejectsUnscheduledSubject(t *testing.T) {
	svc, _, _ := newMarksFixture(models.ExamStatusScheduled)

	req := marksRequest(dto.MarkRow{StudentID: 1, MarksObtained: f64(50)})
	req.SubjectID = 999
	_, err := svc.SubmitMarks(context.Background(), staffActor(), 1, req)
	if !errors.Is(err, apperrors.ErrScheduleNotFound) {
		t.Errorf("got %v, want ErrScheduleNotFound", err)
	}
}

func TestSubmitMarksRejectsDraftExam(t *testing.T) {
	svc, _, _ := newMarksFixture(models.ExamStatusDraft)

	_, err := svc.SubmitMarks(context.Background(), staffActor(), 1,
		marksRequest(dto.MarkRow{StudentID: 1, MarksObtained: f64(50)}))
	if !errors.Is(err, apperrors.ErrExamNotScheduled) {
		t.Errorf("got %v, want ErrExamNotScheduled", err)
	}
}

func TestSubmitMarksRejectsPublishedExam(t *testing.T) {
	svc, _, _ := newMarksFixture(models.ExamStatusResultsPublished)

	_, err := svc.SubmitMarks(context.Background(), staffActor(), 1,
		marksRequest(dto.MarkRow{StudentID: 1, MarksObtained: f64(50)}))
	if !errors.Is(err, apperrors.ErrExamAlreadyPublished) {
		t.Errorf("got %v, want ErrExamAlreadyPublished", err)
	}
}

func TestSubmitMarksRejectsNonStaff(t *testing.T) {
	svc, _, _ := newMarksFixture(models.ExamStatusScheduled)

	_, err := svc.SubmitMarks(context.Background(), studentActor(), 1,
		marksRequest(dto.MarkRow{StudentID: 1, MarksObtained: f64(50)}))
	if !errors.Is(err, apperrors.ErrPermissionDenied) {
		t.Errorf("got %v, want ErrPermissionDenied", err)
	}
}

func TestSubmitMarksDraftThenCorrect(t *testing.T) {
	svc, resultRepo, _ := newMarksFixture(models.ExamStatusScheduled)

	draft := marksRequest(dto.MarkRow{StudentID: 1, MarksObtained: f64(40)})
	draft.AsDraft = true
	if _, err := svc.SubmitMarks(context.Background(), staffActor(), 1, draft); err != nil {
		t.Fatalf("draft submit failed: %v", err)
	}
	if drafts, _ := resultRepo.CountDrafts(context.Background(), 1); drafts != 1 {
		t.Fatalf("drafts = %d, want 1", drafts)
	}

	// Resubmission overwrites the draft row
	corrected := marksRequest(dto.MarkRow{StudentID: 1, MarksObtained: f64(45)})
	corrected.AsDraft = true
	if _, err := svc.SubmitMarks(context.Background(), staffActor(), 1, corrected); err != nil {
		t.Fatalf("corrected submit failed: %v", err)
	}
	if len(resultRepo.results) != 1 {
		t.Fatalf("rows = %d, want 1 after overwrite", len(resultRepo.results))
	}
	if *resultRepo.results[0].MarksObtained != 45 {
		t.Errorf("marks = %v, want 45", *resultRepo.results[0].MarksObtained)
	}
}

func TestFinalizeMarksAdvancesExamWhenNoDraftsRemain(t *testing.T) {
	svc, resultRepo, examRepo := newMarksFixture(models.ExamStatusScheduled)

	draft := marksRequest(dto.MarkRow{StudentID: 1, MarksObtained: f64(40)})
	draft.AsDraft = true
	if _, err := svc.SubmitMarks(context.Background(), staffActor(), 1, draft); err != nil {
		t.Fatalf("draft submit failed: %v", err)
	}

	finalized, err := svc.FinalizeMarks(context.Background(), staffActor(), 1, &dto.FinalizeMarksRequest{SubjectID: 100})
	if err != nil {
		t.Fatalf("FinalizeMarks returned error: %v", err)
	}
	if finalized != 1 {
		t.Errorf("finalized = %d, want 1", finalized)
	}
	if drafts, _ := resultRepo.CountDrafts(context.Background(), 1); drafts != 0 {
		t.Errorf("drafts = %d, want 0", drafts)
	}
	if examRepo.exams[1].Status != models.ExamStatusMarksEntryCompleted {
		t.Errorf("exam status = %s, want MARKS_ENTRY_COMPLETED", examRepo.exams[1].Status)
	}
}

func TestGetResultsHidesUnpublishedFromStudents(t *testing.T) {
	svc, _, _ := newMarksFixture(models.ExamStatusMarksEntryCompleted)

	_, err := svc.GetResults(context.Background(), studentActor(), 1, &dto.ResultFilterRequest{})
	if !errors.Is(err, apperrors.ErrExamNotPublished) {
		t.Errorf("got %v, want ErrExamNotPublished", err)
	}

	if _, err := svc.GetResults(context.Background(), staffActor(), 1, &dto.ResultFilterRequest{}); err != nil {
		t.Errorf("staff read rejected: %v", err)
	}
}
