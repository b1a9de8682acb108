package services

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/sapatil2212/edutechunite-sub005/internal/app/models"
)

// rankStore is the slice of the result repository the rank engine needs
type rankStore interface {
	ClassTotals(ctx context.Context, examID, classID int64) ([]models.StudentTotal, error)
	OverallTotals(ctx context.Context, examID int64) ([]models.StudentTotal, error)
	AssignRanks(ctx context.Context, examID int64, classRanks, overallRanks map[int64]int) error
}

// RankService defines the interface for rank computation
type RankService interface {
	ComputeRanks(ctx context.Context, exam *models.Exam) (int, error)
}

// rankServiceImpl implements RankService
type rankServiceImpl struct {
	resultRepo rankStore
	logger     zerolog.Logger
}

// NewRankService creates a new RankService
func NewRankService(resultRepo rankStore, logger zerolog.Logger) RankService {
	return &rankServiceImpl{resultRepo: resultRepo, logger: logger}
}

// sequentialRanks assigns 1..n down an already-sorted totals list. Equal
// totals get distinct sequential ranks; the sort order of the totals query
// (total descending, then student id) makes the assignment deterministic,
// so recomputing over an unchanged result set yields identical ranks.
func sequentialRanks(totals []models.StudentTotal) map[int64]int {
	ranks := make(map[int64]int, len(totals))
	for i, t := range totals {
		ranks[t.StudentID] = i + 1
	}
	return ranks
}

// ComputeRanks runs the class pass per target class and one overall pass
// pooled across every target class, then writes both rank columns onto the
// student's result rows. Absent students never appear in the totals queries,
// so they receive no rank. Returns the number of ranked students.
func (s *rankServiceImpl) ComputeRanks(ctx context.Context, exam *models.Exam) (int, error) {
	classRanks := make(map[int64]int)
	for _, classID := range exam.TargetClassIDs {
		totals, err := s.resultRepo.ClassTotals(ctx, exam.ID, classID)
		if err != nil {
			s.logger.Error().Err(err).Int64("examID", exam.ID).Int64("classID", classID).Msg("Failed to aggregate class totals")
			return 0, err
		}
		for studentID, rank := range sequentialRanks(totals) {
			classRanks[studentID] = rank
		}
	}

	overallTotals, err := s.resultRepo.OverallTotals(ctx, exam.ID)
	if err != nil {
		s.logger.Error().Err(err).Int64("examID", exam.ID).Msg("Failed to aggregate overall totals")
		return 0, err
	}
	overallRanks := sequentialRanks(overallTotals)

	if err := s.resultRepo.AssignRanks(ctx, exam.ID, classRanks, overallRanks); err != nil {
		s.logger.Error().Err(err).Int64("examID", exam.ID).Msg("Failed to write rank assignments")
		return 0, err
	}

	s.logger.Info().Int64("examID", exam.ID).Int("rankedStudents", len(overallRanks)).Msg("Rank computation completed")
	return len(overallRanks), nil
}
