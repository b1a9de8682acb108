package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/sapatil2212/edutechunite-sub005/internal/app/models"
	"github.com/sapatil2212/edutechunite-sub005/internal/app/models/dto"
	"github.com/sapatil2212/edutechunite-sub005/internal/pkg/apperrors"
	"github.com/sapatil2212/edutechunite-sub005/internal/pkg/grading"
)

// cardStore is the slice of the report-card repository the service needs
type cardStore interface {
	UpsertBatch(ctx context.Context, cards []*models.ReportCard) error
	GetByExamAndStudent(ctx context.Context, examID, studentID int64) (*models.ReportCard, error)
	GetByExam(ctx context.Context, examID int64, classID *int64) ([]*models.ReportCard, error)
}

// studentDirectory is the slice of the student repository the service needs
type studentDirectory interface {
	GetByID(ctx context.Context, id int64) (*models.Student, error)
	GetActiveByClass(ctx context.Context, classID int64) ([]*models.Student, error)
	AttendanceSummary(ctx context.Context, studentID int64, from, to time.Time) (*models.AttendanceSummary, error)
}

// subjectDirectory resolves subject ids to their records
type subjectDirectory interface {
	GetByIDs(ctx context.Context, ids []int64) (map[int64]*models.Subject, error)
}

// studentResultsReader yields one student's result rows for an exam
type studentResultsReader interface {
	GetByExamAndStudent(ctx context.Context, examID, studentID int64) ([]*models.ExamResult, error)
}

// ReportCardService defines the interface for report-card assembly
type ReportCardService interface {
	GenerateReportCards(ctx context.Context, actor models.Actor, examID int64, req *dto.GenerateReportCardsRequest) (*dto.GenerateReportCardsResponse, error)
	GetReportCards(ctx context.Context, actor models.Actor, examID int64, classID *int64) ([]*models.ReportCard, error)
	GetStudentReportCard(ctx context.Context, actor models.Actor, examID, studentID int64) (*models.ReportCard, error)
}

// reportCardServiceImpl implements ReportCardService
type reportCardServiceImpl struct {
	cardRepo    cardStore
	resultRepo  studentResultsReader
	studentRepo studentDirectory
	subjectRepo subjectDirectory
	examRepo    examReader
	authz       staffValidator
	logger      zerolog.Logger
}

// NewReportCardService creates a new ReportCardService
func NewReportCardService(
	cardRepo cardStore,
	resultRepo studentResultsReader,
	studentRepo studentDirectory,
	subjectRepo subjectDirectory,
	examRepo examReader,
	authz staffValidator,
	logger zerolog.Logger,
) ReportCardService {
	return &reportCardServiceImpl{
		cardRepo:    cardRepo,
		resultRepo:  resultRepo,
		studentRepo: studentRepo,
		subjectRepo: subjectRepo,
		examRepo:    examRepo,
		authz:       authz,
		logger:      logger,
	}
}

// buildResultsPayload folds one student's result rows into the card's
// results section. Absent rows contribute max marks to the denominator
// but nothing to the numerator.
func buildResultsPayload(results []*models.ExamResult, subjects map[int64]*models.Subject) models.ResultsPayload {
	payload := models.ResultsPayload{
		Subjects: make([]models.SubjectRow, 0, len(results)),
	}
	for _, r := range results {
		row := models.SubjectRow{
			SubjectID:     r.SubjectID,
			MaxMarks:      r.MaxMarks,
			MarksObtained: r.MarksObtained,
			Percentage:    r.Percentage,
			Grade:         r.Grade,
			IsPassed:      r.IsPassed,
			IsAbsent:      r.IsAbsent,
			Remarks:       r.Remarks,
			ClassRank:     r.ClassRank,
		}
		if subject, ok := subjects[r.SubjectID]; ok {
			row.SubjectName = subject.Name
		}
		payload.Subjects = append(payload.Subjects, row)

		payload.TotalMaxMarks += r.MaxMarks
		if r.MarksObtained != nil {
			payload.TotalMarksObtained += *r.MarksObtained
		}
		if r.IsPassed != nil {
			if *r.IsPassed {
				payload.SubjectsPassed++
			} else {
				payload.SubjectsFailed++
			}
		}
	}
	if payload.TotalMaxMarks > 0 {
		payload.OverallPercentage = grading.Percentage(payload.TotalMarksObtained, payload.TotalMaxMarks)
	}
	if len(results) > 0 {
		payload.ClassRank = results[0].ClassRank
		payload.OverallRank = results[0].OverallRank
	}
	return payload
}

// buildRemarksPayload aggregates non-empty per-subject teacher remarks
func buildRemarksPayload(results []*models.ExamResult, subjects map[int64]*models.Subject) *models.RemarksPayload {
	var remarks []models.SubjectRemark
	for _, r := range results {
		if r.Remarks == nil || *r.Remarks == "" {
			continue
		}
		name := ""
		if subject, ok := subjects[r.SubjectID]; ok {
			name = subject.Name
		}
		remarks = append(remarks, models.SubjectRemark{SubjectName: name, Remarks: *r.Remarks})
	}
	if len(remarks) == 0 {
		return nil
	}
	return &models.RemarksPayload{SubjectRemarks: remarks}
}

// assembleCard builds one student's card, or nil when the student has no
// results for the exam
func (s *reportCardServiceImpl) assembleCard(ctx context.Context, exam *models.Exam, student *models.Student, actor models.Actor, req *dto.GenerateReportCardsRequest) (*models.ReportCard, error) {
	results, err := s.resultRepo.GetByExamAndStudent(ctx, exam.ID, student.ID)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}

	subjectIDs := make([]int64, 0, len(results))
	for _, r := range results {
		subjectIDs = append(subjectIDs, r.SubjectID)
	}
	subjects, err := s.subjectRepo.GetByIDs(ctx, subjectIDs)
	if err != nil {
		return nil, err
	}

	cardType := models.ReportCardExamWise
	if req.Type != "" {
		cardType = models.ReportCardType(req.Type)
	}
	card := &models.ReportCard{
		StudentID:   student.ID,
		ExamID:      exam.ID,
		ClassID:     student.ClassID,
		Type:        cardType,
		Results:     buildResultsPayload(results, subjects),
		Status:      models.ReportCardStatusGenerated,
		GeneratedBy: actor.UserID,
	}

	if req.IncludeAttendance {
		summary, err := s.studentRepo.AttendanceSummary(ctx, student.ID, exam.StartDate, exam.EndDate)
		if err != nil {
			return nil, err
		}
		if summary != nil && summary.TotalDays > 0 {
			card.Attendance = &models.AttendancePayload{
				PresentDays: summary.PresentDays,
				AbsentDays:  summary.AbsentDays,
				TotalDays:   summary.TotalDays,
				Percentage:  float64(summary.PresentDays) / float64(summary.TotalDays) * 100,
			}
		}
	}
	if req.IncludeRemarks {
		card.Remarks = buildRemarksPayload(results, subjects)
	}
	return card, nil
}

// GenerateReportCards assembles cards for one student or a whole class of a
// published exam. Students whose record or results cannot be found are
// skipped so the rest of the batch still succeeds; the write itself is one
// atomic upsert batch.
func (s *reportCardServiceImpl) GenerateReportCards(ctx context.Context, actor models.Actor, examID int64, req *dto.GenerateReportCardsRequest) (*dto.GenerateReportCardsResponse, error) {
	if err := s.authz.ValidateStaff(actor); err != nil {
		return nil, err
	}
	exam, err := s.examRepo.GetByID(ctx, examID)
	if err != nil {
		return nil, err
	}
	if exam == nil || exam.InstitutionID != actor.InstitutionID {
		return nil, apperrors.ErrExamNotFound
	}
	if exam.Status != models.ExamStatusResultsPublished {
		return nil, apperrors.NewCustomError(apperrors.ErrExamNotPublished, "publish results before generating report cards")
	}

	var students []*models.Student
	var skipped []int64
	switch {
	case req.StudentID != nil:
		student, err := s.studentRepo.GetByID(ctx, *req.StudentID)
		if err != nil {
			return nil, err
		}
		if student == nil || student.InstitutionID != actor.InstitutionID {
			skipped = append(skipped, *req.StudentID)
		} else {
			students = append(students, student)
		}
	case req.ClassID != nil:
		if !exam.TargetsClass(*req.ClassID) {
			return nil, apperrors.NewCustomError(apperrors.ErrClassNotTargeted, "class is not a target of this exam")
		}
		students, err = s.studentRepo.GetActiveByClass(ctx, *req.ClassID)
		if err != nil {
			return nil, err
		}
	default:
		return nil, apperrors.NewBadRequestError("either studentId or classId is required")
	}

	cards := make([]*models.ReportCard, 0, len(students))
	for _, student := range students {
		card, err := s.assembleCard(ctx, exam, student, actor, req)
		if err != nil {
			return nil, err
		}
		if card == nil {
			skipped = append(skipped, student.ID)
			continue
		}
		cards = append(cards, card)
	}

	if len(cards) > 0 {
		if err := s.cardRepo.UpsertBatch(ctx, cards); err != nil {
			s.logger.Error().Err(err).Int64("examID", examID).Int("count", len(cards)).Msg("Failed to upsert report cards")
			return nil, err
		}
	}
	s.logger.Info().Int64("examID", examID).Int("generated", len(cards)).Int("skipped", len(skipped)).Msg("Report cards generated")
	return &dto.GenerateReportCardsResponse{Generated: len(cards), Skipped: skipped}, nil
}

// GetReportCards lists cards for an exam, optionally narrowed to one class
func (s *reportCardServiceImpl) GetReportCards(ctx context.Context, actor models.Actor, examID int64, classID *int64) ([]*models.ReportCard, error) {
	if err := s.authz.ValidateStaff(actor); err != nil {
		return nil, err
	}
	exam, err := s.examRepo.GetByID(ctx, examID)
	if err != nil {
		return nil, err
	}
	if exam == nil || exam.InstitutionID != actor.InstitutionID {
		return nil, apperrors.ErrExamNotFound
	}
	return s.cardRepo.GetByExam(ctx, examID, classID)
}

// GetStudentReportCard fetches one student's card for a published exam
func (s *reportCardServiceImpl) GetStudentReportCard(ctx context.Context, actor models.Actor, examID, studentID int64) (*models.ReportCard, error) {
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
	card, err := s.cardRepo.GetByExamAndStudent(ctx, examID, studentID)
	if err != nil {
		return nil, err
	}
	if card == nil {
		return nil, apperrors.NewResourceNotFoundError("report card not found")
	}
	return card, nil
}
