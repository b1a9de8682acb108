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
	"github.com/sapatil2212/edutechunite-sub005/internal/pkg/notifier"
)

// examStore is the full exam repository surface the lifecycle service needs
type examStore interface {
	Create(ctx context.Context, exam *models.Exam) error
	GetByID(ctx context.Context, id int64) (*models.Exam, error)
	GetAll(ctx context.Context, institutionID int64, status, examType string, academicYearID, classID *int64) ([]*models.Exam, error)
	Update(ctx context.Context, exam *models.Exam) error
	UpdateStatus(ctx context.Context, id int64, status models.ExamStatus) error
	MarkPublished(ctx context.Context, id, actorID int64) (bool, error)
	Delete(ctx context.Context, id int64) error
}

// scheduleCounter counts timetable slots per exam
type scheduleCounter interface {
	CountByExam(ctx context.Context, examID int64) (int, error)
}

// draftGate is the result-repository slice guarding publication
type draftGate interface {
	CountDrafts(ctx context.Context, examID int64) (int, error)
	ExistsByExam(ctx context.Context, examID int64) (bool, error)
}

// ExamService defines the interface for exam lifecycle operations
type ExamService interface {
	CreateExam(ctx context.Context, actor models.Actor, req *dto.CreateExamRequest) (*models.Exam, error)
	GetExamByID(ctx context.Context, actor models.Actor, id int64) (*models.Exam, error)
	GetExams(ctx context.Context, actor models.Actor, filter *dto.ExamFilterRequest) ([]*models.Exam, error)
	UpdateExam(ctx context.Context, actor models.Actor, id int64, req *dto.UpdateExamRequest) (*models.Exam, error)
	DeleteExam(ctx context.Context, actor models.Actor, id int64) error
	ArchiveExam(ctx context.Context, actor models.Actor, id int64) error
	PublishSchedule(ctx context.Context, actor models.Actor, id int64) (*models.Exam, error)
	PublishResults(ctx context.Context, actor models.Actor, id int64) (*dto.PublishResultsResponse, error)
	SendReminder(ctx context.Context, actor models.Actor, id int64) error
}

// examServiceImpl implements ExamService
type examServiceImpl struct {
	examRepo       examStore
	scheduleRepo   scheduleCounter
	resultRepo     draftGate
	rankService    RankService
	analytics      AnalyticsService
	authz          staffValidator
	dispatcher     notifier.Dispatcher
	defaultPassing float64
	notifyEnabled  bool
	logger         zerolog.Logger
}

// NewExamService creates a new ExamService
func NewExamService(
	examRepo examStore,
	scheduleRepo scheduleCounter,
	resultRepo draftGate,
	rankService RankService,
	analytics AnalyticsService,
	authz staffValidator,
	dispatcher notifier.Dispatcher,
	defaultPassing float64,
	notifyEnabled bool,
	logger zerolog.Logger,
) ExamService {
	return &examServiceImpl{
		examRepo:       examRepo,
		scheduleRepo:   scheduleRepo,
		resultRepo:     resultRepo,
		rankService:    rankService,
		analytics:      analytics,
		authz:          authz,
		dispatcher:     dispatcher,
		defaultPassing: defaultPassing,
		notifyEnabled:  notifyEnabled,
		logger:         logger,
	}
}

// bandsFromRequest converts and validates a request banding table. A nil
// request table means the exam falls back to the default table at grading
// time, so nothing is stored.
func bandsFromRequest(rows []dto.GradeBandRequest) ([]models.GradeBand, error) {
	if len(rows) == 0 {
		return nil, nil
	}
	bands := make([]models.GradeBand, len(rows))
	for i, row := range rows {
		bands[i] = models.GradeBand{Grade: row.Grade, Min: row.Min, Max: row.Max}
	}
	if err := grading.ValidateBands(bands); err != nil {
		return nil, err
	}
	return bands, nil
}

// CreateExam creates an exam in draft
func (s *examServiceImpl) CreateExam(ctx context.Context, actor models.Actor, req *dto.CreateExamRequest) (*models.Exam, error) {
	if err := s.authz.ValidateAdmin(actor); err != nil {
		return nil, err
	}

	startDate, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		return nil, apperrors.NewBadRequestError("startDate must be in YYYY-MM-DD format")
	}
	endDate, err := time.Parse(dateLayout, req.EndDate)
	if err != nil {
		return nil, apperrors.NewBadRequestError("endDate must be in YYYY-MM-DD format")
	}
	if endDate.Before(startDate) {
		return nil, apperrors.NewBadRequestError("endDate cannot precede startDate")
	}

	bands, err := bandsFromRequest(req.GradingBands)
	if err != nil {
		return nil, err
	}

	passing := s.defaultPassing
	if req.PassingPercentage != nil {
		passing = *req.PassingPercentage
	}

	exam := &models.Exam{
		InstitutionID:      actor.InstitutionID,
		AcademicYearID:     req.AcademicYearID,
		Name:               req.Name,
		Code:               req.Code,
		ExamType:           models.ExamType(req.ExamType),
		EvaluationType:     models.EvaluationType(req.EvaluationType),
		TargetClassIDs:     req.TargetClassIDs,
		StartDate:          startDate,
		EndDate:            endDate,
		PassingPercentage:  passing,
		SubjectWisePassing: req.SubjectWisePassing,
		GradingBands:       bands,
		ShowRank:           req.ShowRank,
		ShowPercentage:     req.ShowPercentage,
		ShowGrade:          req.ShowGrade,
		Status:             models.ExamStatusDraft,
	}
	if err := s.examRepo.Create(ctx, exam); err != nil {
		s.logger.Error().Err(err).Str("code", req.Code).Msg("Failed to create exam")
		return nil, err
	}
	s.logger.Info().Int64("examID", exam.ID).Str("code", exam.Code).Msg("Exam created")
	return exam, nil
}

// getOwnedExam fetches an exam scoped to the actor's institution
func (s *examServiceImpl) getOwnedExam(ctx context.Context, actor models.Actor, id int64) (*models.Exam, error) {
	exam, err := s.examRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if exam == nil || exam.InstitutionID != actor.InstitutionID {
		return nil, apperrors.ErrExamNotFound
	}
	return exam, nil
}

// GetExamByID fetches one exam
func (s *examServiceImpl) GetExamByID(ctx context.Context, actor models.Actor, id int64) (*models.Exam, error) {
	return s.getOwnedExam(ctx, actor, id)
}

// GetExams lists exams with optional filters
func (s *examServiceImpl) GetExams(ctx context.Context, actor models.Actor, filter *dto.ExamFilterRequest) ([]*models.Exam, error) {
	return s.examRepo.GetAll(ctx, actor.InstitutionID, filter.Status, filter.ExamType, filter.AcademicYearID, filter.ClassID)
}

// UpdateExam applies a partial patch. Published exams are immutable.
func (s *examServiceImpl) UpdateExam(ctx context.Context, actor models.Actor, id int64, req *dto.UpdateExamRequest) (*models.Exam, error) {
	if err := s.authz.ValidateAdmin(actor); err != nil {
		return nil, err
	}
	exam, err := s.getOwnedExam(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if exam.Status == models.ExamStatusResultsPublished || exam.Status == models.ExamStatusArchived {
		return nil, apperrors.NewConflictError("published exams cannot be edited")
	}

	if req.Name != nil {
		exam.Name = *req.Name
	}
	if req.Code != nil {
		exam.Code = *req.Code
	}
	if len(req.TargetClassIDs) > 0 {
		exam.TargetClassIDs = req.TargetClassIDs
	}
	if req.StartDate != nil {
		startDate, err := time.Parse(dateLayout, *req.StartDate)
		if err != nil {
			return nil, apperrors.NewBadRequestError("startDate must be in YYYY-MM-DD format")
		}
		exam.StartDate = startDate
	}
	if req.EndDate != nil {
		endDate, err := time.Parse(dateLayout, *req.EndDate)
		if err != nil {
			return nil, apperrors.NewBadRequestError("endDate must be in YYYY-MM-DD format")
		}
		exam.EndDate = endDate
	}
	if exam.EndDate.Before(exam.StartDate) {
		return nil, apperrors.NewBadRequestError("endDate cannot precede startDate")
	}
	if req.PassingPercentage != nil {
		exam.PassingPercentage = *req.PassingPercentage
	}
	if req.SubjectWisePassing != nil {
		exam.SubjectWisePassing = *req.SubjectWisePassing
	}
	if req.GradingBands != nil {
		bands, err := bandsFromRequest(req.GradingBands)
		if err != nil {
			return nil, err
		}
		exam.GradingBands = bands
	}
	if req.ShowRank != nil {
		exam.ShowRank = *req.ShowRank
	}
	if req.ShowPercentage != nil {
		exam.ShowPercentage = *req.ShowPercentage
	}
	if req.ShowGrade != nil {
		exam.ShowGrade = *req.ShowGrade
	}

	if err := s.examRepo.Update(ctx, exam); err != nil {
		s.logger.Error().Err(err).Int64("examID", id).Msg("Failed to update exam")
		return nil, err
	}
	return exam, nil
}

// DeleteExam hard-deletes an exam and its schedules. Exams with any result
// entered must be archived instead.
func (s *examServiceImpl) DeleteExam(ctx context.Context, actor models.Actor, id int64) error {
	if err := s.authz.ValidateAdmin(actor); err != nil {
		return err
	}
	exam, err := s.getOwnedExam(ctx, actor, id)
	if err != nil {
		return err
	}
	if exam.Status == models.ExamStatusMarksEntryInProgress || exam.Status == models.ExamStatusMarksEntryCompleted {
		return apperrors.NewPreconditionFailedError("marks entry has started, archive the exam instead")
	}
	hasResults, err := s.resultRepo.ExistsByExam(ctx, id)
	if err != nil {
		return err
	}
	if hasResults {
		return apperrors.NewCustomError(apperrors.ErrExamHasResults, "results exist for this exam, archive instead of deleting")
	}
	if err := s.examRepo.Delete(ctx, id); err != nil {
		s.logger.Error().Err(err).Int64("examID", id).Msg("Failed to delete exam")
		return err
	}
	s.logger.Info().Int64("examID", id).Msg("Exam deleted")
	return nil
}

// ArchiveExam moves a non-published exam out of the active set
func (s *examServiceImpl) ArchiveExam(ctx context.Context, actor models.Actor, id int64) error {
	if err := s.authz.ValidateAdmin(actor); err != nil {
		return err
	}
	exam, err := s.getOwnedExam(ctx, actor, id)
	if err != nil {
		return err
	}
	if !exam.Status.CanAdvanceTo(models.ExamStatusArchived) {
		return apperrors.NewCustomError(apperrors.ErrInvalidTransition,
			fmt.Sprintf("cannot archive an exam in status %s", exam.Status))
	}
	return s.examRepo.UpdateStatus(ctx, id, models.ExamStatusArchived)
}

// notifyClasses dispatches fire-and-forget. Delivery failures are logged,
// never propagated into the triggering operation.
func (s *examServiceImpl) notifyClasses(ctx context.Context, exam *models.Exam, title, body string) {
	if !s.notifyEnabled || s.dispatcher == nil {
		return
	}
	err := s.dispatcher.Dispatch(ctx, notifier.Notification{
		InstitutionID: exam.InstitutionID,
		ExamID:        exam.ID,
		ClassIDs:      exam.TargetClassIDs,
		Audiences:     []notifier.Audience{notifier.AudienceStudents, notifier.AudienceParents, notifier.AudienceTeachers},
		Title:         title,
		Body:          body,
	})
	if err != nil {
		s.logger.Warn().Err(err).Int64("examID", exam.ID).Msg("Notification dispatch failed")
	}
}

// PublishSchedule moves a draft exam to SCHEDULED once at least one
// timetable slot exists, then notifies the target classes
func (s *examServiceImpl) PublishSchedule(ctx context.Context, actor models.Actor, id int64) (*models.Exam, error) {
	if err := s.authz.ValidateAdmin(actor); err != nil {
		return nil, err
	}
	exam, err := s.getOwnedExam(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if !exam.Status.CanAdvanceTo(models.ExamStatusScheduled) {
		return nil, apperrors.NewCustomError(apperrors.ErrInvalidTransition,
			fmt.Sprintf("cannot publish a timetable for an exam in status %s", exam.Status))
	}

	count, err := s.scheduleRepo.CountByExam(ctx, id)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, apperrors.NewCustomError(apperrors.ErrNoSchedules, "create at least one schedule before publishing")
	}

	if err := s.examRepo.UpdateStatus(ctx, id, models.ExamStatusScheduled); err != nil {
		s.logger.Error().Err(err).Int64("examID", id).Msg("Failed to publish exam timetable")
		return nil, err
	}
	exam.Status = models.ExamStatusScheduled

	s.notifyClasses(ctx, exam,
		fmt.Sprintf("Timetable published: %s", exam.Name),
		fmt.Sprintf("The timetable for %s (%s) is now available.", exam.Name, exam.Code))

	s.logger.Info().Int64("examID", id).Int("schedules", count).Msg("Exam timetable published")
	return exam, nil
}

// PublishResults runs the publication pipeline: draft gate, rank engine
// when the exam shows ranks, analytics at every granularity, then the
// status flip. The flip is conditional on the exam not being published
// yet, so two concurrent publishers cannot both succeed.
func (s *examServiceImpl) PublishResults(ctx context.Context, actor models.Actor, id int64) (*dto.PublishResultsResponse, error) {
	if err := s.authz.ValidateAdmin(actor); err != nil {
		return nil, err
	}
	exam, err := s.getOwnedExam(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if exam.Status == models.ExamStatusResultsPublished {
		return nil, apperrors.NewCustomError(apperrors.ErrExamAlreadyPublished, "results are already published")
	}
	if exam.Status == models.ExamStatusArchived {
		return nil, apperrors.NewPreconditionFailedError("exam is archived")
	}

	hasResults, err := s.resultRepo.ExistsByExam(ctx, id)
	if err != nil {
		return nil, err
	}
	if !hasResults {
		return nil, apperrors.NewPreconditionFailedError("no results have been entered for this exam")
	}

	drafts, err := s.resultRepo.CountDrafts(ctx, id)
	if err != nil {
		return nil, err
	}
	if drafts > 0 {
		ce := apperrors.NewCustomError(apperrors.ErrDraftsRemain,
			fmt.Sprintf("%d draft results remain, finalize all marks before publishing", drafts))
		return nil, ce.WithDetails(map[string]interface{}{"draftCount": drafts})
	}

	ranked := 0
	if exam.ShowRank {
		ranked, err = s.rankService.ComputeRanks(ctx, exam)
		if err != nil {
			return nil, err
		}
	}

	scopes, err := s.analytics.Recompute(ctx, exam)
	if err != nil {
		return nil, err
	}

	flipped, err := s.examRepo.MarkPublished(ctx, id, actor.UserID)
	if err != nil {
		s.logger.Error().Err(err).Int64("examID", id).Msg("Failed to flip exam to published")
		return nil, err
	}
	if !flipped {
		return nil, apperrors.NewCustomError(apperrors.ErrExamAlreadyPublished, "results are already published")
	}

	now := time.Now()
	exam.Status = models.ExamStatusResultsPublished
	exam.PublishedAt = &now
	exam.PublishedBy = &actor.UserID

	s.notifyClasses(ctx, exam,
		fmt.Sprintf("Results published: %s", exam.Name),
		fmt.Sprintf("Results for %s (%s) are now available.", exam.Name, exam.Code))

	s.logger.Info().Int64("examID", id).Int("rankedStudents", ranked).Int("scopes", scopes).Msg("Exam results published")
	return &dto.PublishResultsResponse{
		Exam:            exam,
		RankedStudents:  ranked,
		AnalyticsScopes: scopes,
	}, nil
}

// SendReminder re-notifies the target classes about an upcoming exam
func (s *examServiceImpl) SendReminder(ctx context.Context, actor models.Actor, id int64) error {
	if err := s.authz.ValidateStaff(actor); err != nil {
		return err
	}
	exam, err := s.getOwnedExam(ctx, actor, id)
	if err != nil {
		return err
	}
	if exam.Status == models.ExamStatusDraft {
		return apperrors.NewCustomError(apperrors.ErrExamNotScheduled, "publish the timetable before sending reminders")
	}
	s.notifyClasses(ctx, exam,
		fmt.Sprintf("Reminder: %s", exam.Name),
		fmt.Sprintf("%s starts on %s.", exam.Name, exam.StartDate.Format(dateLayout)))
	return nil
}
