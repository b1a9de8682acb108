package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/sapatil2212/edutechunite-sub005/internal/app/models"
	"github.com/sapatil2212/edutechunite-sub005/internal/db"
)

// ResultRepository handles database operations for exam results
type ResultRepository struct {
	db *db.PostgresDB
}

// NewResultRepository creates a new result repository
func NewResultRepository(database *db.PostgresDB) *ResultRepository {
	return &ResultRepository{db: database}
}

const resultColumns = `id, exam_id, schedule_id, student_id, subject_id, class_id,
	max_marks, marks_obtained, percentage, grade, is_absent, is_passed, class_rank,
	overall_rank, remarks, is_draft, entered_by, entered_at, updated_at`

func scanResult(row pgx.Row) (*models.ExamResult, error) {
	var res models.ExamResult
	err := row.Scan(
		&res.ID,
		&res.ExamID,
		&res.ScheduleID,
		&res.StudentID,
		&res.SubjectID,
		&res.ClassID,
		&res.MaxMarks,
		&res.MarksObtained,
		&res.Percentage,
		&res.Grade,
		&res.IsAbsent,
		&res.IsPassed,
		&res.ClassRank,
		&res.OverallRank,
		&res.Remarks,
		&res.IsDraft,
		&res.EnteredBy,
		&res.EnteredAt,
		&res.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// UpsertBatch writes a marks batch and its journal entries atomically.
// Rows are keyed on (exam, student, subject): first entry inserts, later
// entries update in place. The journal rows are appended in the same
// transaction so no write escapes the audit trail.
func (r *ResultRepository) UpsertBatch(ctx context.Context, results []*models.ExamResult, journal []*models.AuditEntry) error {
	return r.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		for _, res := range results {
			// xmax = 0 distinguishes an insert from a conflict update
			err := tx.QueryRow(ctx, `
				INSERT INTO exam_results (exam_id, schedule_id, student_id, subject_id,
					class_id, max_marks, marks_obtained, percentage, grade, is_absent,
					is_passed, remarks, is_draft, entered_by)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
				ON CONFLICT (exam_id, student_id, subject_id) DO UPDATE SET
					schedule_id = EXCLUDED.schedule_id,
					class_id = EXCLUDED.class_id,
					max_marks = EXCLUDED.max_marks,
					marks_obtained = EXCLUDED.marks_obtained,
					percentage = EXCLUDED.percentage,
					grade = EXCLUDED.grade,
					is_absent = EXCLUDED.is_absent,
					is_passed = EXCLUDED.is_passed,
					remarks = EXCLUDED.remarks,
					is_draft = EXCLUDED.is_draft,
					entered_by = EXCLUDED.entered_by,
					updated_at = NOW()
				RETURNING id, entered_at, updated_at`,
				res.ExamID, res.ScheduleID, res.StudentID, res.SubjectID, res.ClassID,
				res.MaxMarks, res.MarksObtained, res.Percentage, res.Grade, res.IsAbsent,
				res.IsPassed, res.Remarks, res.IsDraft, res.EnteredBy,
			).Scan(&res.ID, &res.EnteredAt, &res.UpdatedAt)
			if err != nil {
				return fmt.Errorf("error upserting result for student %d subject %d: %w",
					res.StudentID, res.SubjectID, err)
			}
		}

		for _, entry := range journal {
			_, err := tx.Exec(ctx, `
				INSERT INTO audit_log (id, institution_id, action, entity_type, entity_id, actor_id, details, created_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
				entry.ID, entry.InstitutionID, entry.Action, entry.EntityType,
				entry.EntityID, entry.ActorID, entry.Details, entry.CreatedAt)
			if err != nil {
				return fmt.Errorf("error appending audit entry: %w", err)
			}
		}

		return nil
	})
}

// CountDrafts counts results of an exam still flagged as draft
func (r *ResultRepository) CountDrafts(ctx context.Context, examID int64) (int, error) {
	var count int
	err := r.db.Pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM exam_results WHERE exam_id = $1 AND is_draft`, examID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("error counting draft results: %w", err)
	}
	return count, nil
}

// ExistsByExam reports whether any result rows exist for an exam
func (r *ResultRepository) ExistsByExam(ctx context.Context, examID int64) (bool, error) {
	var exists bool
	err := r.db.Pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM exam_results WHERE exam_id = $1)`, examID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking result existence: %w", err)
	}
	return exists, nil
}

// GetFiltered retrieves an exam's results with optional class/student/subject
// filters. Both the analytics aggregator and the fetch endpoints use it.
func (r *ResultRepository) GetFiltered(ctx context.Context, examID int64, classID, studentID, subjectID *int64) ([]*models.ExamResult, error) {
	query := squirrel.Select(resultColumns).
		From("exam_results").
		Where("exam_id = ?", examID).
		OrderBy("class_id, student_id, subject_id").
		PlaceholderFormat(squirrel.Dollar)

	if classID != nil {
		query = query.Where("class_id = ?", *classID)
	}
	if studentID != nil {
		query = query.Where("student_id = ?", *studentID)
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

	var results []*models.ExamResult
	for rows.Next() {
		res, err := scanResult(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		results = append(results, res)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return results, nil
}

// GetByExamAndStudent retrieves one student's results for an exam ordered by subject
func (r *ResultRepository) GetByExamAndStudent(ctx context.Context, examID, studentID int64) ([]*models.ExamResult, error) {
	return r.GetFiltered(ctx, examID, nil, &studentID, nil)
}

func (r *ResultRepository) queryTotals(ctx context.Context, query string, args ...interface{}) ([]models.StudentTotal, error) {
	rows, err := r.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	var totals []models.StudentTotal
	for rows.Next() {
		var t models.StudentTotal
		if err := rows.Scan(&t.StudentID, &t.ClassID, &t.TotalMarks); err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		totals = append(totals, t)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return totals, nil
}

// ClassTotals sums each student's non-absent marks within one class of an
// exam. Students whose every row is absent drop out entirely. The order is
// the rank order: total descending, then student id for equal totals.
func (r *ResultRepository) ClassTotals(ctx context.Context, examID, classID int64) ([]models.StudentTotal, error) {
	return r.queryTotals(ctx, `
		SELECT student_id, class_id, COALESCE(SUM(marks_obtained), 0) AS total_marks
		FROM exam_results
		WHERE exam_id = $1 AND class_id = $2 AND NOT is_absent AND marks_obtained IS NOT NULL
		GROUP BY student_id, class_id
		ORDER BY total_marks DESC, student_id`, examID, classID)
}

// OverallTotals sums each student's non-absent marks pooled across all
// classes of the exam, in rank order
func (r *ResultRepository) OverallTotals(ctx context.Context, examID int64) ([]models.StudentTotal, error) {
	return r.queryTotals(ctx, `
		SELECT student_id, MIN(class_id) AS class_id, COALESCE(SUM(marks_obtained), 0) AS total_marks
		FROM exam_results
		WHERE exam_id = $1 AND NOT is_absent AND marks_obtained IS NOT NULL
		GROUP BY student_id
		ORDER BY total_marks DESC, student_id`, examID)
}

// AssignRanks writes class and overall ranks onto every result row of the
// ranked students in one transaction. A nil rank map entry is not written,
// so absent students keep null ranks.
func (r *ResultRepository) AssignRanks(ctx context.Context, examID int64, classRanks, overallRanks map[int64]int) error {
	return r.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		for studentID, rank := range classRanks {
			_, err := tx.Exec(ctx,
				`UPDATE exam_results SET class_rank = $1, updated_at = NOW()
				 WHERE exam_id = $2 AND student_id = $3`, rank, examID, studentID)
			if err != nil {
				return fmt.Errorf("error assigning class rank for student %d: %w", studentID, err)
			}
		}
		for studentID, rank := range overallRanks {
			_, err := tx.Exec(ctx,
				`UPDATE exam_results SET overall_rank = $1, updated_at = NOW()
				 WHERE exam_id = $2 AND student_id = $3`, rank, examID, studentID)
			if err != nil {
				return fmt.Errorf("error assigning overall rank for student %d: %w", studentID, err)
			}
		}
		return nil
	})
}

// FinalizeBySubject clears the draft flag on a subject's entries and
// appends the journal rows in the same transaction
func (r *ResultRepository) FinalizeBySubject(ctx context.Context, examID, subjectID int64, journal []*models.AuditEntry) (int64, error) {
	var finalized int64
	err := r.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		cmdTag, err := tx.Exec(ctx, `
			UPDATE exam_results SET is_draft = FALSE, updated_at = NOW()
			WHERE exam_id = $1 AND subject_id = $2 AND is_draft`, examID, subjectID)
		if err != nil {
			return fmt.Errorf("error finalizing results: %w", err)
		}
		finalized = cmdTag.RowsAffected()

		for _, entry := range journal {
			_, err := tx.Exec(ctx, `
				INSERT INTO audit_log (id, institution_id, action, entity_type, entity_id, actor_id, details, created_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
				entry.ID, entry.InstitutionID, entry.Action, entry.EntityType,
				entry.EntityID, entry.ActorID, entry.Details, entry.CreatedAt)
			if err != nil {
				return fmt.Errorf("error appending audit entry: %w", err)
			}
		}
		return nil
	})
	return finalized, err
}
