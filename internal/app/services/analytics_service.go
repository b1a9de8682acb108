package services

import (
	"context"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/sapatil2212/edutechunite-sub005/internal/app/models"
	"github.com/sapatil2212/edutechunite-sub005/internal/pkg/apperrors"
)

// analyticsStore is the slice of the analytics repository the service needs
type analyticsStore interface {
	Upsert(ctx context.Context, a *models.ExamAnalytics) error
	GetByExam(ctx context.Context, examID int64, classID, subjectID *int64) ([]*models.ExamAnalytics, error)
}

// resultReader is the read slice of the result repository shared by the
// analytics and report-card services
type resultReader interface {
	GetFiltered(ctx context.Context, examID int64, classID, studentID, subjectID *int64) ([]*models.ExamResult, error)
}

// classSubjectReader yields the (class, subject) combinations observed in
// an exam's schedules
type classSubjectReader interface {
	ClassSubjectPairs(ctx context.Context, examID int64) ([]models.ClassSubject, error)
}

// AnalyticsService defines the interface for statistics computation
type AnalyticsService interface {
	Recompute(ctx context.Context, exam *models.Exam) (int, error)
	GetAnalytics(ctx context.Context, actor models.Actor, examID int64, classID, subjectID *int64) ([]*models.ExamAnalytics, error)
}

// analyticsServiceImpl implements AnalyticsService
type analyticsServiceImpl struct {
	analyticsRepo analyticsStore
	resultRepo    resultReader
	scheduleRepo  classSubjectReader
	examRepo      examReader
	logger        zerolog.Logger
}

// NewAnalyticsService creates a new AnalyticsService
func NewAnalyticsService(
	analyticsRepo analyticsStore,
	resultRepo resultReader,
	scheduleRepo classSubjectReader,
	examRepo examReader,
	logger zerolog.Logger,
) AnalyticsService {
	return &analyticsServiceImpl{
		analyticsRepo: analyticsRepo,
		resultRepo:    resultRepo,
		scheduleRepo:  scheduleRepo,
		examRepo:      examRepo,
		logger:        logger,
	}
}

// median returns the sorted-array midpoint, averaging the middle pair for
// even counts. The input slice is sorted in place.
func median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sort.Float64s(values)
	mid := len(values) / 2
	if len(values)%2 == 1 {
		return values[mid]
	}
	return (values[mid-1] + values[mid]) / 2
}

// summarize folds one scope's result rows into an analytics snapshot.
// Student-level counts treat a student as absent only when every row of
// theirs in the scope is absent, and as failed when any determined row
// failed. Marks statistics and score bands run over non-absent rows.
func summarize(examID int64, classID, subjectID *int64, results []*models.ExamResult) *models.ExamAnalytics {
	a := &models.ExamAnalytics{
		ExamID:     examID,
		ClassID:    classID,
		SubjectID:  subjectID,
		ComputedAt: time.Now(),
	}

	appearedBy := make(map[int64]bool)
	passedBy := make(map[int64]bool)
	failedBy := make(map[int64]bool)
	seen := make(map[int64]bool)

	var marks []float64
	var sum float64
	for _, r := range results {
		seen[r.StudentID] = true
		if r.IsAbsent {
			continue
		}
		appearedBy[r.StudentID] = true
		if r.IsPassed != nil {
			if *r.IsPassed {
				passedBy[r.StudentID] = true
			} else {
				failedBy[r.StudentID] = true
			}
		}
		if r.MarksObtained != nil {
			marks = append(marks, *r.MarksObtained)
			sum += *r.MarksObtained
		}
		if r.Percentage != nil {
			switch p := *r.Percentage; {
			case p >= 90:
				a.Above90++
			case p >= 75:
				a.Range75To90++
			case p >= 60:
				a.Range60To75++
			case p >= 33:
				a.Range33To60++
			default:
				a.Below33++
			}
		}
	}

	a.TotalStudents = len(seen)
	a.AppearedStudents = len(appearedBy)
	a.AbsentStudents = a.TotalStudents - a.AppearedStudents
	for id := range passedBy {
		if !failedBy[id] {
			a.PassedStudents++
		}
	}
	a.FailedStudents = len(failedBy)

	if len(marks) > 0 {
		a.HighestMarks = marks[0]
		a.LowestMarks = marks[0]
		for _, m := range marks {
			if m > a.HighestMarks {
				a.HighestMarks = m
			}
			if m < a.LowestMarks {
				a.LowestMarks = m
			}
		}
		a.AverageMarks = sum / float64(len(marks))
		a.MedianMarks = median(marks)
	}
	return a
}

// computeScope pulls one scope's rows, summarizes them and upserts the
// snapshot. Recomputation overwrites every numeric field in place.
func (s *analyticsServiceImpl) computeScope(ctx context.Context, examID int64, classID, subjectID *int64) error {
	results, err := s.resultRepo.GetFiltered(ctx, examID, classID, nil, subjectID)
	if err != nil {
		return err
	}
	return s.analyticsRepo.Upsert(ctx, summarize(examID, classID, subjectID, results))
}

// Recompute runs one exam-wide pass, one pass per target class, and one
// pass per (class, subject) combination observed in the exam's schedules.
// Returns the number of scopes written.
func (s *analyticsServiceImpl) Recompute(ctx context.Context, exam *models.Exam) (int, error) {
	scopes := 0
	if err := s.computeScope(ctx, exam.ID, nil, nil); err != nil {
		s.logger.Error().Err(err).Int64("examID", exam.ID).Msg("Failed to compute exam-wide analytics")
		return scopes, err
	}
	scopes++

	for _, classID := range exam.TargetClassIDs {
		cid := classID
		if err := s.computeScope(ctx, exam.ID, &cid, nil); err != nil {
			s.logger.Error().Err(err).Int64("examID", exam.ID).Int64("classID", cid).Msg("Failed to compute class analytics")
			return scopes, err
		}
		scopes++
	}

	pairs, err := s.scheduleRepo.ClassSubjectPairs(ctx, exam.ID)
	if err != nil {
		return scopes, err
	}
	for _, pair := range pairs {
		cid, sid := pair.ClassID, pair.SubjectID
		if err := s.computeScope(ctx, exam.ID, &cid, &sid); err != nil {
			s.logger.Error().Err(err).Int64("examID", exam.ID).Int64("classID", cid).Int64("subjectID", sid).Msg("Failed to compute subject analytics")
			return scopes, err
		}
		scopes++
	}

	s.logger.Info().Int64("examID", exam.ID).Int("scopes", scopes).Msg("Analytics recomputation completed")
	return scopes, nil
}

// GetAnalytics returns persisted snapshots for an exam, optionally narrowed
// to one class or one (class, subject) scope
func (s *analyticsServiceImpl) GetAnalytics(ctx context.Context, actor models.Actor, examID int64, classID, subjectID *int64) ([]*models.ExamAnalytics, error) {
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
	return s.analyticsRepo.GetByExam(ctx, examID, classID, subjectID)
}
