package services

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/sapatil2212/edutechunite-sub005/internal/app/models"
	"github.com/sapatil2212/edutechunite-sub005/internal/app/models/dto"
	"github.com/sapatil2212/edutechunite-sub005/internal/pkg/apperrors"
	"github.com/sapatil2212/edutechunite-sub005/internal/pkg/grading"
)

// marksStore is the slice of the result repository the marks service needs
type marksStore interface {
	UpsertBatch(ctx context.Context, results []*models.ExamResult, journal []*models.AuditEntry) error
	FinalizeBySubject(ctx context.Context, examID, subjectID int64, journal []*models.AuditEntry) (int64, error)
	CountDrafts(ctx context.Context, examID int64) (int, error)
	GetFiltered(ctx context.Context, examID int64, classID, studentID, subjectID *int64) ([]*models.ExamResult, error)
}

// examStatusStore reads exams and advances their lifecycle status
type examStatusStore interface {
	GetByID(ctx context.Context, id int64) (*models.Exam, error)
	UpdateStatus(ctx context.Context, id int64, status models.ExamStatus) error
}

// studentBatchReader resolves a set of student ids to their records
type studentBatchReader interface {
	GetByIDs(ctx context.Context, ids []int64) (map[int64]*models.Student, error)
}

// subjectScheduleReader yields the subject's schedules within an exam
type subjectScheduleReader interface {
	GetByExamAndSubject(ctx context.Context, examID, subjectID int64) ([]*models.ExamSchedule, error)
}

// staffValidator is the slice of the authorization service shared by services
type staffValidator interface {
	ValidateStaff(actor models.Actor) error
	ValidateAdmin(actor models.Actor) error
}

// MarksService defines the interface for marks entry and retrieval
type MarksService interface {
	SubmitMarks(ctx context.Context, actor models.Actor, examID int64, req *dto.SubmitMarksRequest) ([]*models.ExamResult, error)
	FinalizeMarks(ctx context.Context, actor models.Actor, examID int64, req *dto.FinalizeMarksRequest) (int64, error)
	GetResults(ctx context.Context, actor models.Actor, examID int64, filter *dto.ResultFilterRequest) ([]*models.ExamResult, error)
}

// marksServiceImpl implements MarksService
type marksServiceImpl struct {
	resultRepo   marksStore
	examRepo     examStatusStore
	scheduleRepo subjectScheduleReader
	studentRepo  studentBatchReader
	authz        staffValidator
	logger       zerolog.Logger
}

// NewMarksService creates a new MarksService
func NewMarksService(
	resultRepo marksStore,
	examRepo examStatusStore,
	scheduleRepo subjectScheduleReader,
	studentRepo studentBatchReader,
	authz staffValidator,
	logger zerolog.Logger,
) MarksService {
	return &marksServiceImpl{
		resultRepo:   resultRepo,
		examRepo:     examRepo,
		scheduleRepo: scheduleRepo,
		studentRepo:  studentRepo,
		authz:        authz,
		logger:       logger,
	}
}

// loadOpenExam fetches the exam and checks marks may still be written
func (s *marksServiceImpl) loadOpenExam(ctx context.Context, actor models.Actor, examID int64) (*models.Exam, error) {
	exam, err := s.examRepo.GetByID(ctx, examID)
	if err != nil {
		return nil, err
	}
	if exam == nil || exam.InstitutionID != actor.InstitutionID {
		return nil, apperrors.ErrExamNotFound
	}
	if exam.Status == models.ExamStatusResultsPublished {
		return nil, apperrors.NewCustomError(apperrors.ErrExamAlreadyPublished, "results are published, entries are read-only")
	}
	if exam.Status == models.ExamStatusArchived {
		return nil, apperrors.NewPreconditionFailedError("exam is archived")
	}
	if exam.Status == models.ExamStatusDraft {
		return nil, apperrors.NewCustomError(apperrors.ErrExamNotScheduled, "publish the exam timetable before entering marks")
	}
	return exam, nil
}

// buildResult derives percentage, grade and the pass flag for one row
func buildResult(exam *models.Exam, schedule *models.ExamSchedule, actorID int64, row *dto.MarkRow) (*models.ExamResult, error) {
	result := &models.ExamResult{
		ExamID:     exam.ID,
		ScheduleID: schedule.ID,
		StudentID:  row.StudentID,
		SubjectID:  schedule.SubjectID,
		ClassID:    schedule.ClassID,
		MaxMarks:   schedule.MaxMarks,
		IsAbsent:   row.IsAbsent,
		Remarks:    row.Remarks,
		EnteredBy:  actorID,
		EnteredAt:  time.Now(),
	}
	if row.IsAbsent {
		return result, nil
	}
	if row.MarksObtained == nil {
		return nil, apperrors.NewBadRequestError(
			fmt.Sprintf("student %d must have marks or be flagged absent", row.StudentID))
	}
	obtained := *row.MarksObtained
	if obtained > schedule.MaxMarks {
		return nil, apperrors.NewCustomError(apperrors.ErrMarksExceedMax,
			fmt.Sprintf("student %d: %.2f exceeds max marks %.2f", row.StudentID, obtained, schedule.MaxMarks))
	}

	derived, err := grading.Calculate(obtained, schedule.MaxMarks, exam.GradingBands)
	if err != nil {
		return nil, err
	}
	result.MarksObtained = &obtained
	result.Percentage = &derived.Percentage
	result.Grade = &derived.Grade

	var passed bool
	if exam.SubjectWisePassing {
		passed = obtained >= schedule.PassingMarks
	} else {
		passed = derived.Percentage >= exam.PassingPercentage
	}
	result.IsPassed = &passed
	return result, nil
}

// SubmitMarks upserts a batch of entries for one subject. The batch is
// written all-or-nothing together with its journal rows; drafts stay
// editable until finalized.
func (s *marksServiceImpl) SubmitMarks(ctx context.Context, actor models.Actor, examID int64, req *dto.SubmitMarksRequest) ([]*models.ExamResult, error) {
	if err := s.authz.ValidateStaff(actor); err != nil {
		return nil, err
	}
	exam, err := s.loadOpenExam(ctx, actor, examID)
	if err != nil {
		return nil, err
	}

	schedules, err := s.scheduleRepo.GetByExamAndSubject(ctx, examID, req.SubjectID)
	if err != nil {
		return nil, err
	}
	if len(schedules) == 0 {
		return nil, apperrors.NewCustomError(apperrors.ErrScheduleNotFound,
			fmt.Sprintf("subject %d is not scheduled in this exam", req.SubjectID))
	}
	scheduleByClass := make(map[int64]*models.ExamSchedule, len(schedules))
	for _, sch := range schedules {
		scheduleByClass[sch.ClassID] = sch
	}

	studentIDs := make([]int64, 0, len(req.Results))
	for _, row := range req.Results {
		studentIDs = append(studentIDs, row.StudentID)
	}
	students, err := s.studentRepo.GetByIDs(ctx, studentIDs)
	if err != nil {
		return nil, err
	}

	results := make([]*models.ExamResult, 0, len(req.Results))
	journal := make([]*models.AuditEntry, 0, len(req.Results))
	for i := range req.Results {
		row := &req.Results[i]
		student, ok := students[row.StudentID]
		if !ok || student.InstitutionID != actor.InstitutionID {
			return nil, apperrors.NewCustomError(apperrors.ErrStudentNotFound,
				fmt.Sprintf("student %d not found", row.StudentID))
		}
		schedule, ok := scheduleByClass[student.ClassID]
		if !ok {
			return nil, apperrors.NewCustomError(apperrors.ErrClassNotTargeted,
				fmt.Sprintf("subject %d is not scheduled for class %d", req.SubjectID, student.ClassID))
		}

		result, err := buildResult(exam, schedule, actor.UserID, row)
		if err != nil {
			return nil, err
		}
		result.IsDraft = req.AsDraft
		results = append(results, result)

		entry := models.NewAuditEntry(actor.InstitutionID, models.AuditActionMarksEntered,
			"exam_result", exam.ID, actor.UserID)
		details := fmt.Sprintf("subject=%d student=%d draft=%t", req.SubjectID, row.StudentID, req.AsDraft)
		entry.Details = &details
		journal = append(journal, entry)
	}

	if err := s.resultRepo.UpsertBatch(ctx, results, journal); err != nil {
		s.logger.Error().Err(err).Int64("examID", examID).Int64("subjectID", req.SubjectID).Msg("Failed to upsert marks batch")
		return nil, err
	}

	if exam.Status == models.ExamStatusScheduled {
		if err := s.examRepo.UpdateStatus(ctx, exam.ID, models.ExamStatusMarksEntryInProgress); err != nil {
			s.logger.Error().Err(err).Int64("examID", examID).Msg("Failed to advance exam to marks entry")
			return nil, err
		}
	}
	return results, nil
}

// FinalizeMarks clears the draft flag for a subject's entries and, once no
// drafts remain anywhere in the exam, advances it to marks-entry-completed.
// Returns the number of finalized rows.
func (s *marksServiceImpl) FinalizeMarks(ctx context.Context, actor models.Actor, examID int64, req *dto.FinalizeMarksRequest) (int64, error) {
	if err := s.authz.ValidateStaff(actor); err != nil {
		return 0, err
	}
	exam, err := s.loadOpenExam(ctx, actor, examID)
	if err != nil {
		return 0, err
	}

	entry := models.NewAuditEntry(actor.InstitutionID, models.AuditActionMarksFinalized,
		"exam_result", exam.ID, actor.UserID)
	details := fmt.Sprintf("subject=%d", req.SubjectID)
	entry.Details = &details

	finalized, err := s.resultRepo.FinalizeBySubject(ctx, examID, req.SubjectID, []*models.AuditEntry{entry})
	if err != nil {
		s.logger.Error().Err(err).Int64("examID", examID).Int64("subjectID", req.SubjectID).Msg("Failed to finalize marks")
		return 0, err
	}

	drafts, err := s.resultRepo.CountDrafts(ctx, examID)
	if err != nil {
		return finalized, err
	}
	if drafts == 0 && exam.Status == models.ExamStatusMarksEntryInProgress {
		if err := s.examRepo.UpdateStatus(ctx, exam.ID, models.ExamStatusMarksEntryCompleted); err != nil {
			s.logger.Error().Err(err).Int64("examID", examID).Msg("Failed to advance exam to marks entry completed")
			return finalized, err
		}
	}
	return finalized, nil
}

// GetResults lists result rows for an exam. Students and parents only see
// published results; staff see everything including drafts.
func (s *marksServiceImpl) GetResults(ctx context.Context, actor models.Actor, examID int64, filter *dto.ResultFilterRequest) ([]*models.ExamResult, error) {
	exam, err := s.examRepo.GetByID(ctx, examID)
	if err != nil {
		return nil, err
	}
	if exam == nil || exam.InstitutionID != actor.InstitutionID {
		return nil, apperrors.ErrExamNotFound
	}
	if !actor.Role.IsStaff() && exam.Status != models.ExamStatusResultsPublished {
		return nil, apperrors.NewCustomError(apperrors.ErrExamNotPublished, "results have not been published yet")
	}
	return s.resultRepo.GetFiltered(ctx, examID, filter.ClassID, filter.StudentID, filter.SubjectID)
}
