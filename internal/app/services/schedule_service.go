package services

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/sapatil2212/edutechunite-sub005/internal/app/models"
	"github.com/sapatil2212/edutechunite-sub005/internal/app/models/dto"
	"github.com/sapatil2212/edutechunite-sub005/internal/pkg/apperrors"
	"github.com/sapatil2212/edutechunite-sub005/internal/pkg/helpers"
)

const dateLayout = "2006-01-02"

// scheduleStore is the slice of the schedule repository the service needs
type scheduleStore interface {
	Create(ctx context.Context, s *models.ExamSchedule) error
	CreateBatch(ctx context.Context, schedules []*models.ExamSchedule) error
	GetByExam(ctx context.Context, examID int64) ([]*models.ExamSchedule, error)
	GetByClassAndDate(ctx context.Context, classID int64, date time.Time) ([]*models.ExamSchedule, error)
	ExistsByExamSubjectClass(ctx context.Context, examID, subjectID, classID int64) (bool, error)
}

// examReader is the read-only slice of the exam repository shared by services
type examReader interface {
	GetByID(ctx context.Context, id int64) (*models.Exam, error)
}

// ScheduleService defines the interface for exam timetable operations
type ScheduleService interface {
	CreateSchedule(ctx context.Context, actor models.Actor, examID int64, req *dto.CreateScheduleRequest) (*models.ExamSchedule, error)
	CreateBulk(ctx context.Context, actor models.Actor, examID int64, req *dto.BulkScheduleRequest) ([]*models.ExamSchedule, error)
	GetSchedules(ctx context.Context, actor models.Actor, examID int64) ([]*models.ExamSchedule, error)
}

// scheduleServiceImpl implements ScheduleService
type scheduleServiceImpl struct {
	scheduleRepo scheduleStore
	examRepo     examReader
	authz        staffValidator
	logger       zerolog.Logger
}

// NewScheduleService creates a new ScheduleService
func NewScheduleService(scheduleRepo scheduleStore, examRepo examReader, authz staffValidator, logger zerolog.Logger) ScheduleService {
	return &scheduleServiceImpl{
		scheduleRepo: scheduleRepo,
		examRepo:     examRepo,
		authz:        authz,
		logger:       logger,
	}
}

// loadExamForScheduling fetches the exam and checks it accepts new slots
func (s *scheduleServiceImpl) loadExamForScheduling(ctx context.Context, actor models.Actor, examID int64) (*models.Exam, error) {
	exam, err := s.examRepo.GetByID(ctx, examID)
	if err != nil {
		return nil, err
	}
	if exam == nil || exam.InstitutionID != actor.InstitutionID {
		return nil, apperrors.ErrExamNotFound
	}
	if exam.Status == models.ExamStatusResultsPublished || exam.Status == models.ExamStatusArchived {
		return nil, apperrors.NewPreconditionFailedError("exam no longer accepts schedule changes")
	}
	return exam, nil
}

// buildSchedule validates one request row against the exam and converts it
func buildSchedule(exam *models.Exam, req *dto.CreateScheduleRequest) (*models.ExamSchedule, error) {
	if !exam.TargetsClass(req.ClassID) {
		return nil, apperrors.NewCustomError(apperrors.ErrClassNotTargeted,
			fmt.Sprintf("class %d is not a target of exam %q", req.ClassID, exam.Name))
	}

	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		return nil, apperrors.NewBadRequestError("date must be in YYYY-MM-DD format")
	}
	if date.Before(exam.StartDate) || date.After(exam.EndDate) {
		return nil, apperrors.NewBadRequestError("schedule date falls outside the exam window")
	}

	valid, err := helpers.ClockRangeValid(req.StartTime, req.EndTime)
	if err != nil {
		return nil, apperrors.NewBadRequestError("start and end time must be in HH:MM format")
	}
	if !valid {
		return nil, apperrors.NewBadRequestError("end time must be after start time on the same day")
	}

	if req.PassingMarks > req.MaxMarks {
		return nil, apperrors.NewBadRequestError("passing marks cannot exceed max marks")
	}
	if req.TheoryMarks != nil && req.PracticalMarks != nil {
		if *req.TheoryMarks+*req.PracticalMarks != req.MaxMarks {
			return nil, apperrors.NewBadRequestError("theory and practical marks must sum to max marks")
		}
	}

	return &models.ExamSchedule{
		ExamID:         exam.ID,
		SubjectID:      req.SubjectID,
		ClassID:        req.ClassID,
		Date:           date,
		StartTime:      req.StartTime,
		EndTime:        req.EndTime,
		Room:           req.Room,
		Center:         req.Center,
		MaxMarks:       req.MaxMarks,
		PassingMarks:   req.PassingMarks,
		TheoryMarks:    req.TheoryMarks,
		PracticalMarks: req.PracticalMarks,
	}, nil
}

// conflictError wraps the conflicting slot details into a schedule conflict
func conflictError(other *models.ExamSchedule) error {
	ce := apperrors.NewCustomError(apperrors.ErrScheduleConflict,
		fmt.Sprintf("class %d already sits for subject %d on %s from %s to %s",
			other.ClassID, other.SubjectID, other.Date.Format(dateLayout), other.StartTime, other.EndTime))
	return ce.WithDetails(map[string]interface{}{
		"conflict": dto.ScheduleConflict{
			SubjectID: other.SubjectID,
			ClassID:   other.ClassID,
			Date:      other.Date.Format(dateLayout),
			StartTime: other.StartTime,
			EndTime:   other.EndTime,
		},
	})
}

// checkProposed validates one proposed slot against persisted slots and the
// earlier rows of its own batch. Two slots conflict when the same class has
// overlapping times on the same date; back-to-back slots sharing a boundary
// do not overlap.
func (s *scheduleServiceImpl) checkProposed(ctx context.Context, proposed *models.ExamSchedule, accepted []*models.ExamSchedule) error {
	exists, err := s.scheduleRepo.ExistsByExamSubjectClass(ctx, proposed.ExamID, proposed.SubjectID, proposed.ClassID)
	if err != nil {
		return err
	}
	if exists {
		return apperrors.NewCustomError(apperrors.ErrScheduleExists,
			fmt.Sprintf("subject %d is already scheduled for class %d in this exam", proposed.SubjectID, proposed.ClassID))
	}

	sameDay, err := s.scheduleRepo.GetByClassAndDate(ctx, proposed.ClassID, proposed.Date)
	if err != nil {
		return err
	}
	for _, other := range sameDay {
		overlap, err := helpers.ClockRangesOverlap(proposed.StartTime, proposed.EndTime, other.StartTime, other.EndTime)
		if err != nil {
			return err
		}
		if overlap {
			return conflictError(other)
		}
	}

	for _, other := range accepted {
		if other.ClassID != proposed.ClassID || !other.Date.Equal(proposed.Date) {
			if other.ClassID == proposed.ClassID && other.SubjectID == proposed.SubjectID {
				return apperrors.NewCustomError(apperrors.ErrScheduleExists,
					fmt.Sprintf("subject %d appears twice for class %d in this batch", proposed.SubjectID, proposed.ClassID))
			}
			continue
		}
		if other.SubjectID == proposed.SubjectID {
			return apperrors.NewCustomError(apperrors.ErrScheduleExists,
				fmt.Sprintf("subject %d appears twice for class %d in this batch", proposed.SubjectID, proposed.ClassID))
		}
		overlap, err := helpers.ClockRangesOverlap(proposed.StartTime, proposed.EndTime, other.StartTime, other.EndTime)
		if err != nil {
			return err
		}
		if overlap {
			return conflictError(other)
		}
	}
	return nil
}

// CreateSchedule validates and persists one exam time-slot
func (s *scheduleServiceImpl) CreateSchedule(ctx context.Context, actor models.Actor, examID int64, req *dto.CreateScheduleRequest) (*models.ExamSchedule, error) {
	if err := s.authz.ValidateStaff(actor); err != nil {
		return nil, err
	}
	exam, err := s.loadExamForScheduling(ctx, actor, examID)
	if err != nil {
		return nil, err
	}

	schedule, err := buildSchedule(exam, req)
	if err != nil {
		return nil, err
	}
	if err := s.checkProposed(ctx, schedule, nil); err != nil {
		return nil, err
	}

	if err := s.scheduleRepo.Create(ctx, schedule); err != nil {
		s.logger.Error().Err(err).Int64("examID", examID).Msg("Failed to create exam schedule")
		return nil, err
	}
	return schedule, nil
}

// CreateBulk validates an entire batch before writing anything. One bad row
// rejects the whole batch.
func (s *scheduleServiceImpl) CreateBulk(ctx context.Context, actor models.Actor, examID int64, req *dto.BulkScheduleRequest) ([]*models.ExamSchedule, error) {
	if err := s.authz.ValidateStaff(actor); err != nil {
		return nil, err
	}
	exam, err := s.loadExamForScheduling(ctx, actor, examID)
	if err != nil {
		return nil, err
	}

	schedules := make([]*models.ExamSchedule, 0, len(req.Schedules))
	for i := range req.Schedules {
		schedule, err := buildSchedule(exam, &req.Schedules[i])
		if err != nil {
			return nil, err
		}
		if err := s.checkProposed(ctx, schedule, schedules); err != nil {
			return nil, err
		}
		schedules = append(schedules, schedule)
	}

	if err := s.scheduleRepo.CreateBatch(ctx, schedules); err != nil {
		s.logger.Error().Err(err).Int64("examID", examID).Int("count", len(schedules)).Msg("Failed to create schedule batch")
		return nil, err
	}
	return schedules, nil
}

// GetSchedules lists the exam's timetable
func (s *scheduleServiceImpl) GetSchedules(ctx context.Context, actor models.Actor, examID int64) ([]*models.ExamSchedule, error) {
	exam, err := s.examRepo.GetByID(ctx, examID)
	if err != nil {
		return nil, err
	}
	if exam == nil || exam.InstitutionID != actor.InstitutionID {
		return nil, apperrors.ErrExamNotFound
	}
	return s.scheduleRepo.GetByExam(ctx, examID)
}
