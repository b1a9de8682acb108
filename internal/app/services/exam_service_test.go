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

type examFixture struct {
	svc          ExamService
	examRepo     *mockExamRepo
	scheduleRepo *mockScheduleRepo
	resultRepo   *mockResultRepo
	rank         *stubRankService
	analytics    *stubAnalyticsService
	dispatcher   *mockDispatcher
}

func newExamFixture(exams ...*models.Exam) *examFixture {
	f := &examFixture{
		examRepo:     newMockExamRepo(exams...),
		scheduleRepo: &mockScheduleRepo{},
		resultRepo:   &mockResultRepo{},
		rank:         &stubRankService{ranked: 30},
		analytics:    &stubAnalyticsService{scopes: 5},
		dispatcher:   &mockDispatcher{},
	}
	f.svc = NewExamService(f.examRepo, f.scheduleRepo, f.resultRepo, f.rank, f.analytics,
		&mockAuthz{}, f.dispatcher, 33, true, zerolog.Nop())
	return f
}

func createExamRequest() *dto.CreateExamRequest {
	return &dto.CreateExamRequest{
		Name:           "Half Yearly Examination",
		Code:           "HY-2024",
		AcademicYearID: 1,
		ExamType:       "HALF_YEARLY",
		EvaluationType: "MARKS",
		TargetClassIDs: []int64{10, 11},
		StartDate:      "2024-11-01",
		EndDate:        "2024-11-15",
		ShowRank:       true,
	}
}

func TestCreateExam(t *testing.T) {
	f := newExamFixture()

	exam, err := f.svc.CreateExam(context.Background(), adminActor(), createExamRequest())
	if err != nil {
		t.Fatalf("CreateExam returned error: %v", err)
	}
	if exam.Status != models.ExamStatusDraft {
		t.Errorf("status = %s, want DRAFT", exam.Status)
	}
	if exam.PassingPercentage != 33 {
		t.Errorf("passing percentage = %v, want the configured default 33", exam.PassingPercentage)
	}
	if exam.InstitutionID != 1 {
		t.Errorf("institution = %d, want the actor's institution", exam.InstitutionID)
	}
}

func TestCreateExamRejectsNonAdmin(t *testing.T) {
	f := newExamFixture()

	_, err := f.svc.CreateExam(context.Background(), staffActor(), createExamRequest())
	if !errors.Is(err, apperrors.ErrPermissionDenied) {
		t.Errorf("got %v, want ErrPermissionDenied", err)
	}
}

func TestCreateExamRejectsInvertedDates(t *testing.T) {
	f := newExamFixture()

	req := createExamRequest()
	req.StartDate, req.EndDate = "2024-11-15", "2024-11-01"
	_, err := f.svc.CreateExam(context.Background(), adminActor(), req)
	if !errors.Is(err, apperrors.ErrBadRequest) {
		t.Errorf("got %v, want ErrBadRequest", err)
	}
}

func TestCreateExamRejectsBrokenBandTable(t *testing.T) {
	f := newExamFixture()

	req := createExamRequest()
	req.GradingBands = []dto.GradeBandRequest{
		{Grade: "P", Min: 50, Max: 100},
		{Grade: "F", Min: 0, Max: 40},
	}
	if _, err := f.svc.CreateExam(context.Background(), adminActor(), req); err == nil {
		t.Error("expected error for a banding table with a gap")
	}
}

func TestUpdateExamRejectsPublished(t *testing.T) {
	f := newExamFixture(testExam(1, models.ExamStatusResultsPublished))

	name := "Renamed"
	_, err := f.svc.UpdateExam(context.Background(), adminActor(), 1, &dto.UpdateExamRequest{Name: &name})
	if !errors.Is(err, apperrors.ErrConflict) {
		t.Errorf("got %v, want ErrConflict", err)
	}
}

func TestUpdateExamPatchesFields(t *testing.T) {
	f := newExamFixture(testExam(1, models.ExamStatusDraft))

	name := "Renamed"
	passing := 40.0
	exam, err := f.svc.UpdateExam(context.Background(), adminActor(), 1, &dto.UpdateExamRequest{
		Name:              &name,
		PassingPercentage: &passing,
	})
	if err != nil {
		t.Fatalf("UpdateExam returned error: %v", err)
	}
	if exam.Name != "Renamed" || exam.PassingPercentage != 40 {
		t.Errorf("patch not applied: %+v", exam)
	}
	if exam.Code != "HY-2024" {
		t.Errorf("untouched field changed: code = %s", exam.Code)
	}
}

func TestDeleteExamRejectsWhenResultsExist(t *testing.T) {
	f := newExamFixture(testExam(1, models.ExamStatusScheduled))
	f.resultRepo.results = []*models.ExamResult{{ExamID: 1, StudentID: 1, SubjectID: 100}}

	err := f.svc.DeleteExam(context.Background(), adminActor(), 1)
	if !errors.Is(err, apperrors.ErrExamHasResults) {
		t.Errorf("got %v, want ErrExamHasResults", err)
	}
	if len(f.examRepo.deleted) != 0 {
		t.Error("exam was deleted despite existing results")
	}
}

func TestDeleteExam(t *testing.T) {
	f := newExamFixture(testExam(1, models.ExamStatusDraft))

	if err := f.svc.DeleteExam(context.Background(), adminActor(), 1); err != nil {
		t.Fatalf("DeleteExam returned error: %v", err)
	}
	if len(f.examRepo.deleted) != 1 {
		t.Error("exam was not deleted")
	}
}

func TestArchiveExam(t *testing.T) {
	f := newExamFixture(testExam(1, models.ExamStatusMarksEntryCompleted))

	if err := f.svc.ArchiveExam(context.Background(), adminActor(), 1); err != nil {
		t.Fatalf("ArchiveExam returned error: %v", err)
	}
	if f.examRepo.exams[1].Status != models.ExamStatusArchived {
		t.Errorf("status = %s, want ARCHIVED", f.examRepo.exams[1].Status)
	}
}

func TestArchiveExamRejectsPublished(t *testing.T) {
	f := newExamFixture(testExam(1, models.ExamStatusResultsPublished))

	err := f.svc.ArchiveExam(context.Background(), adminActor(), 1)
	if !errors.Is(err, apperrors.ErrInvalidTransition) {
		t.Errorf("got %v, want ErrInvalidTransition", err)
	}
}

func TestPublishScheduleRequiresSchedules(t *testing.T) {
	f := newExamFixture(testExam(1, models.ExamStatusDraft))

	_, err := f.svc.PublishSchedule(context.Background(), adminActor(), 1)
	if !errors.Is(err, apperrors.ErrNoSchedules) {
		t.Errorf("got %v, want ErrNoSchedules", err)
	}
}

func TestPublishSchedule(t *testing.T) {
	f := newExamFixture(testExam(1, models.ExamStatusDraft))
	f.scheduleRepo.add(&models.ExamSchedule{ExamID: 1, SubjectID: 100, ClassID: 10})

	exam, err := f.svc.PublishSchedule(context.Background(), adminActor(), 1)
	if err != nil {
		t.Fatalf("PublishSchedule returned error: %v", err)
	}
	if exam.Status != models.ExamStatusScheduled {
		t.Errorf("status = %s, want SCHEDULED", exam.Status)
	}
	if len(f.dispatcher.sent) != 1 {
		t.Errorf("notifications sent = %d, want 1", len(f.dispatcher.sent))
	}
}

func TestPublishScheduleRejectsRepeat(t *testing.T) {
	f := newExamFixture(testExam(1, models.ExamStatusScheduled))
	f.scheduleRepo.add(&models.ExamSchedule{ExamID: 1, SubjectID: 100, ClassID: 10})

	_, err := f.svc.PublishSchedule(context.Background(), adminActor(), 1)
	if !errors.Is(err, apperrors.ErrInvalidTransition) {
		t.Errorf("got %v, want ErrInvalidTransition", err)
	}
}

func publishReadyFixture() *examFixture {
	f := newExamFixture(testExam(1, models.ExamStatusMarksEntryCompleted))
	f.resultRepo.results = []*models.ExamResult{
		{ExamID: 1, StudentID: 1, SubjectID: 100, ClassID: 10},
	}
	return f
}

func TestPublishResults(t *testing.T) {
	f := publishReadyFixture()

	resp, err := f.svc.PublishResults(context.Background(), adminActor(), 1)
	if err != nil {
		t.Fatalf("PublishResults returned error: %v", err)
	}
	if resp.Exam.Status != models.ExamStatusResultsPublished {
		t.Errorf("status = %s, want RESULTS_PUBLISHED", resp.Exam.Status)
	}
	if resp.Exam.PublishedAt == nil || resp.Exam.PublishedBy == nil {
		t.Error("publication stamp missing")
	}
	if resp.RankedStudents != 30 || resp.AnalyticsScopes != 5 {
		t.Errorf("ranked %d scopes %d, want 30 and 5", resp.RankedStudents, resp.AnalyticsScopes)
	}
	if f.rank.calls != 1 {
		t.Errorf("rank engine ran %d times, want 1", f.rank.calls)
	}
	if f.analytics.calls != 1 {
		t.Errorf("analytics ran %d times, want 1", f.analytics.calls)
	}
	if len(f.dispatcher.sent) != 1 {
		t.Errorf("notifications sent = %d, want 1", len(f.dispatcher.sent))
	}
}

func TestPublishResultsSkipsRankWhenHidden(t *testing.T) {
	f := publishReadyFixture()
	f.examRepo.exams[1].ShowRank = false

	resp, err := f.svc.PublishResults(context.Background(), adminActor(), 1)
	if err != nil {
		t.Fatalf("PublishResults returned error: %v", err)
	}
	if f.rank.calls != 0 {
		t.Errorf("rank engine ran %d times for a rank-hidden exam, want 0", f.rank.calls)
	}
	if resp.RankedStudents != 0 {
		t.Errorf("rankedStudents = %d, want 0", resp.RankedStudents)
	}
	if f.analytics.calls != 1 {
		t.Error("analytics must still run for rank-hidden exams")
	}
}

func TestPublishResultsBlockedByDrafts(t *testing.T) {
	f := publishReadyFixture()
	f.resultRepo.results[0].IsDraft = true

	_, err := f.svc.PublishResults(context.Background(), adminActor(), 1)
	if !errors.Is(err, apperrors.ErrDraftsRemain) {
		t.Fatalf("got %v, want ErrDraftsRemain", err)
	}

	var ce *apperrors.CustomError
	if !errors.As(err, &ce) {
		t.Fatal("expected a CustomError with the draft count")
	}
	if ce.Details["draftCount"] != 1 {
		t.Errorf("draftCount detail = %v, want 1", ce.Details["draftCount"])
	}
	if f.examRepo.publishCalls != 0 {
		t.Error("status flip attempted despite remaining drafts")
	}
}

func TestPublishResultsRequiresResults(t *testing.T) {
	f := newExamFixture(testExam(1, models.ExamStatusMarksEntryCompleted))

	_, err := f.svc.PublishResults(context.Background(), adminActor(), 1)
	if !errors.Is(err, apperrors.ErrPreconditionFailed) {
		t.Errorf("got %v, want ErrPreconditionFailed", err)
	}
}

func TestPublishResultsRejectsRepeat(t *testing.T) {
	f := newExamFixture(testExam(1, models.ExamStatusResultsPublished))

	_, err := f.svc.PublishResults(context.Background(), adminActor(), 1)
	if !errors.Is(err, apperrors.ErrExamAlreadyPublished) {
		t.Errorf("got %v, want ErrExamAlreadyPublished", err)
	}
}

func TestPublishResultsLosesConcurrentRace(t *testing.T) {
	// A concurrent publisher flipped the status between the read and the
	// conditional update, so the flip reports no change
	f := publishReadyFixture()
	f.examRepo.publishFlipped = false

	_, err := f.svc.PublishResults(context.Background(), adminActor(), 1)
	if !errors.Is(err, apperrors.ErrExamAlreadyPublished) {
		t.Errorf("got %v, want ErrExamAlreadyPublished", err)
	}
	if len(f.dispatcher.sent) != 0 {
		t.Error("notification sent by the losing publisher")
	}
}

func TestPublishResultsSurvivesNotifierFailure(t *testing.T) {
	f := publishReadyFixture()
	f.dispatcher.fail = true

	if _, err := f.svc.PublishResults(context.Background(), adminActor(), 1); err != nil {
		t.Errorf("publication failed on a notification error: %v", err)
	}
}

func TestSendReminderRejectsDraftExam(t *testing.T) {
	f := newExamFixture(testExam(1, models.ExamStatusDraft))

	err := f.svc.SendReminder(context.Background(), staffActor(), 1)
	if !errors.Is(err, apperrors.ErrExamNotScheduled) {
		t.Errorf("got %v, want ErrExamNotScheduled", err)
	}
}

func TestSendReminder(t *testing.T) {
	f := newExamFixture(testExam(1, models.ExamStatusScheduled))

	if err := f.svc.SendReminder(context.Background(), staffActor(), 1); err != nil {
		t.Fatalf("SendReminder returned error: %v", err)
	}
	if len(f.dispatcher.sent) != 1 {
		t.Errorf("notifications sent = %d, want 1", len(f.dispatcher.sent))
	}
}
