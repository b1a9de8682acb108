package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/sapatil2212/edutechunite-sub005/internal/app/models"
	"github.com/sapatil2212/edutechunite-sub005/internal/db"
)

// AnalyticsRepository handles database operations for exam analytics snapshots
type AnalyticsRepository struct {
	db *db.PostgresDB
}

// NewAnalyticsRepository creates a new analytics repository
func NewAnalyticsRepository(database *db.PostgresDB) *AnalyticsRepository {
	return &AnalyticsRepository{db: database}
}

const analyticsColumns = `id, exam_id, class_id, subject_id, total_students,
	appeared_students, absent_students, passed_students, failed_students,
	highest_marks, lowest_marks, average_marks, median_marks,
	above_90, range_75_90, range_60_75, range_33_60, below_33, computed_at`

func scanAnalytics(row pgx.Row) (*models.ExamAnalytics, error) {
	var a models.ExamAnalytics
	err := row.Scan(
		&a.ID,
		&a.ExamID,
		&a.ClassID,
		&a.SubjectID,
		&a.TotalStudents,
		&a.AppearedStudents,
		&a.AbsentStudents,
		&a.PassedStudents,
		&a.FailedStudents,
		&a.HighestMarks,
		&a.LowestMarks,
		&a.AverageMarks,
		&a.MedianMarks,
		&a.Above90,
		&a.Range75To90,
		&a.Range60To75,
		&a.Range33To60,
		&a.Below33,
		&a.ComputedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// Upsert writes one snapshot, overwriting every numeric field of an
// existing row for the same (exam, class-or-null, subject-or-null) scope.
// Recomputation is idempotent and total.
func (r *AnalyticsRepository) Upsert(ctx context.Context, a *models.ExamAnalytics) error {
	err := r.db.Pool.QueryRow(ctx, `
		INSERT INTO exam_analytics (exam_id, class_id, subject_id, total_students,
			appeared_students, absent_students, passed_students, failed_students,
			highest_marks, lowest_marks, average_marks, median_marks,
			above_90, range_75_90, range_60_75, range_33_60, below_33, computed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, NOW())
		ON CONFLICT (exam_id, COALESCE(class_id, 0), COALESCE(subject_id, 0)) DO UPDATE SET
			total_students = EXCLUDED.total_students,
			appeared_students = EXCLUDED.appeared_students,
			absent_students = EXCLUDED.absent_students,
			passed_students = EXCLUDED.passed_students,
			failed_students = EXCLUDED.failed_students,
			highest_marks = EXCLUDED.highest_marks,
			lowest_marks = EXCLUDED.lowest_marks,
			average_marks = EXCLUDED.average_marks,
			median_marks = EXCLUDED.median_marks,
			above_90 = EXCLUDED.above_90,
			range_75_90 = EXCLUDED.range_75_90,
			range_60_75 = EXCLUDED.range_60_75,
			range_33_60 = EXCLUDED.range_33_60,
			below_33 = EXCLUDED.below_33,
			computed_at = NOW()
		RETURNING id, computed_at`,
		a.ExamID, a.ClassID, a.SubjectID, a.TotalStudents,
		a.AppearedStudents, a.AbsentStudents, a.PassedStudents, a.FailedStudents,
		a.HighestMarks, a.LowestMarks, a.AverageMarks, a.MedianMarks,
		a.Above90, a.Range75To90, a.Range60To75, a.Range33To60, a.Below33,
	).Scan(&a.ID, &a.ComputedAt)
	if err != nil {
		return fmt.Errorf("error upserting analytics: %w", err)
	}
	return nil
}

// GetByExam retrieves an exam's snapshots with optional scope filters.
// Passing classID narrows to that class; passing subjectID as well narrows
// to a single (class, subject) snapshot.
func (r *AnalyticsRepository) GetByExam(ctx context.Context, examID int64, classID, subjectID *int64) ([]*models.ExamAnalytics, error) {
	query := squirrel.Select(analyticsColumns).
		From("exam_analytics").
		Where("exam_id = ?", examID).
		OrderBy("class_id NULLS FIRST, subject_id NULLS FIRST").
		PlaceholderFormat(squirrel.Dollar)

	if classID != nil {
		query = query.Where("class_id = ?", *classID)
	}
	if subjectID != nil {
		query = query.Where("subject_id = ?", *subjectID)
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.db.Pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	var snapshots []*models.ExamAnalytics
	for rows.Next() {
		a, err := scanAnalytics(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		snapshots = append(snapshots, a)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return snapshots, nil
}
