package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/sapatil2212/edutechunite-sub005/internal/app/models"
	"github.com/sapatil2212/edutechunite-sub005/internal/db"
)

// ExamRepository handles database operations for exams
type ExamRepository struct {
	db *db.PostgresDB
}

// NewExamRepository creates a new exam repository
func NewExamRepository(database *db.PostgresDB) *ExamRepository {
	return &ExamRepository{db: database}
}

const examColumns = `id, institution_id, academic_year_id, name, code, exam_type,
	evaluation_type, target_class_ids, start_date, end_date, passing_percentage,
	subject_wise_passing, grading_bands, show_rank, show_percentage, show_grade,
	status, published_at, published_by, created_at, updated_at`

func scanExam(row pgx.Row) (*models.Exam, error) {
	var exam models.Exam
	var bands []byte
	err := row.Scan(
		&exam.ID,
		&exam.InstitutionID,
		&exam.AcademicYearID,
		&exam.Name,
		&exam.Code,
		&exam.ExamType,
		&exam.EvaluationType,
		&exam.TargetClassIDs,
		&exam.StartDate,
		&exam.EndDate,
		&exam.PassingPercentage,
		&exam.SubjectWisePassing,
		&bands,
		&exam.ShowRank,
		&exam.ShowPercentage,
		&exam.ShowGrade,
		&exam.Status,
		&exam.PublishedAt,
		&exam.PublishedBy,
		&exam.CreatedAt,
		&exam.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(bands) > 0 {
		if err := json.Unmarshal(bands, &exam.GradingBands); err != nil {
			return nil, fmt.Errorf("error decoding grading bands: %w", err)
		}
	}
	return &exam, nil
}

func encodeBands(bands []models.GradeBand) ([]byte, error) {
	if len(bands) == 0 {
		return nil, nil
	}
	return json.Marshal(bands)
}

// Create creates a new exam in DRAFT status
func (r *ExamRepository) Create(ctx context.Context, exam *models.Exam) error {
	bands, err := encodeBands(exam.GradingBands)
	if err != nil {
		return fmt.Errorf("error encoding grading bands: %w", err)
	}

	query := `
		INSERT INTO exams (institution_id, academic_year_id, name, code, exam_type,
			evaluation_type, target_class_ids, start_date, end_date, passing_percentage,
			subject_wise_passing, grading_bands, show_rank, show_percentage, show_grade, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING id, created_at, updated_at
	`

	err = r.db.Pool.QueryRow(ctx, query,
		exam.InstitutionID, exam.AcademicYearID, exam.Name, exam.Code, exam.ExamType,
		exam.EvaluationType, exam.TargetClassIDs, exam.StartDate, exam.EndDate,
		exam.PassingPercentage, exam.SubjectWisePassing, bands,
		exam.ShowRank, exam.ShowPercentage, exam.ShowGrade, exam.Status,
	).Scan(&exam.ID, &exam.CreatedAt, &exam.UpdatedAt)
	if err != nil {
		return fmt.Errorf("error creating exam: %w", err)
	}

	return nil
}

// GetByID retrieves an exam by ID, nil when not found
func (r *ExamRepository) GetByID(ctx context.Context, id int64) (*models.Exam, error) {
	query := fmt.Sprintf(`SELECT %s FROM exams WHERE id = $1`, examColumns)

	exam, err := scanExam(r.db.Pool.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("error retrieving exam: %w", err)
	}

	return exam, nil
}

// GetAll retrieves exams of an institution with optional filters
func (r *ExamRepository) GetAll(ctx context.Context, institutionID int64, status, examType string, academicYearID, classID *int64) ([]*models.Exam, error) {
	query := squirrel.Select(examColumns).
		From("exams").
		Where("institution_id = ?", institutionID).
		OrderBy("start_date DESC, id DESC").
		PlaceholderFormat(squirrel.Dollar)

	if status != "" {
		query = query.Where("status = ?", status)
	}
	if examType != "" {
		query = query.Where("exam_type = ?", examType)
	}
	if academicYearID != nil {
		query = query.Where("academic_year_id = ?", *academicYearID)
	}
	if classID != nil {
		query = query.Where("? = ANY(target_class_ids)", *classID)
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

	var exams []*models.Exam
	for rows.Next() {
		exam, err := scanExam(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		exams = append(exams, exam)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return exams, nil
}

// Update updates an exam's mutable fields
func (r *ExamRepository) Update(ctx context.Context, exam *models.Exam) error {
	bands, err := encodeBands(exam.GradingBands)
	if err != nil {
		return fmt.Errorf("error encoding grading bands: %w", err)
	}

	query := `
		UPDATE exams
		SET name = $1, code = $2, target_class_ids = $3, start_date = $4, end_date = $5,
			passing_percentage = $6, subject_wise_passing = $7, grading_bands = $8,
			show_rank = $9, show_percentage = $10, show_grade = $11, updated_at = NOW()
		WHERE id = $12
	`

	cmdTag, err := r.db.Pool.Exec(ctx, query,
		exam.Name, exam.Code, exam.TargetClassIDs, exam.StartDate, exam.EndDate,
		exam.PassingPercentage, exam.SubjectWisePassing, bands,
		exam.ShowRank, exam.ShowPercentage, exam.ShowGrade, exam.ID)
	if err != nil {
		return fmt.Errorf("error updating exam: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}

	return nil
}

// UpdateStatus advances the exam's lifecycle state
func (r *ExamRepository) UpdateStatus(ctx context.Context, id int64, status models.ExamStatus) error {
	cmdTag, err := r.db.Pool.Exec(ctx,
		`UPDATE exams SET status = $1, updated_at = NOW() WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("error updating exam status: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}

	return nil
}

// MarkPublished flips the exam to RESULTS_PUBLISHED, recording timestamp and
// actor. The conditional WHERE keeps a second concurrent publisher from
// flipping it twice; it returns false when the exam was already published.
func (r *ExamRepository) MarkPublished(ctx context.Context, id, actorID int64) (bool, error) {
	cmdTag, err := r.db.Pool.Exec(ctx, `
		UPDATE exams
		SET status = $1, published_at = $2, published_by = $3, updated_at = NOW()
		WHERE id = $4 AND status <> $1`,
		models.ExamStatusResultsPublished, time.Now(), actorID, id)
	if err != nil {
		return false, fmt.Errorf("error publishing exam: %w", err)
	}

	return cmdTag.RowsAffected() > 0, nil
}

// Delete hard-deletes an exam and its schedules in one transaction
func (r *ExamRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM exam_schedules WHERE exam_id = $1`, id); err != nil {
			return fmt.Errorf("error deleting exam schedules: %w", err)
		}

		cmdTag, err := tx.Exec(ctx, `DELETE FROM exams WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("error deleting exam: %w", err)
		}
		if cmdTag.RowsAffected() == 0 {
			return pgx.ErrNoRows
		}
		return nil
	})
}
