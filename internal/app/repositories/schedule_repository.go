package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/sapatil2212/edutechunite-sub005/internal/app/models"
	"github.com/sapatil2212/edutechunite-sub005/internal/db"
)

// ScheduleRepository handles database operations for exam schedules
type ScheduleRepository struct {
	db *db.PostgresDB
}

// NewScheduleRepository creates a new schedule repository
func NewScheduleRepository(database *db.PostgresDB) *ScheduleRepository {
	return &ScheduleRepository{db: database}
}

const scheduleColumns = `id, exam_id, subject_id, class_id, exam_date, start_time,
	end_time, room, center, max_marks, passing_marks, theory_marks, practical_marks,
	created_at, updated_at`

func scanSchedule(row pgx.Row) (*models.ExamSchedule, error) {
	var s models.ExamSchedule
	err := row.Scan(
		&s.ID,
		&s.ExamID,
		&s.SubjectID,
		&s.ClassID,
		&s.Date,
		&s.StartTime,
		&s.EndTime,
		&s.Room,
		&s.Center,
		&s.MaxMarks,
		&s.PassingMarks,
		&s.TheoryMarks,
		&s.PracticalMarks,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

const insertScheduleSQL = `
	INSERT INTO exam_schedules (exam_id, subject_id, class_id, exam_date, start_time,
		end_time, room, center, max_marks, passing_marks, theory_marks, practical_marks)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	RETURNING id, created_at, updated_at
`

// Create creates a single schedule
func (r *ScheduleRepository) Create(ctx context.Context, s *models.ExamSchedule) error {
	err := r.db.Pool.QueryRow(ctx, insertScheduleSQL,
		s.ExamID, s.SubjectID, s.ClassID, s.Date, s.StartTime, s.EndTime,
		s.Room, s.Center, s.MaxMarks, s.PassingMarks, s.TheoryMarks, s.PracticalMarks,
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("error creating schedule: %w", err)
	}
	return nil
}

// CreateBatch inserts a validated batch atomically; any failure rolls the
// whole batch back
func (r *ScheduleRepository) CreateBatch(ctx context.Context, schedules []*models.ExamSchedule) error {
	return r.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		for _, s := range schedules {
			err := tx.QueryRow(ctx, insertScheduleSQL,
				s.ExamID, s.SubjectID, s.ClassID, s.Date, s.StartTime, s.EndTime,
				s.Room, s.Center, s.MaxMarks, s.PassingMarks, s.TheoryMarks, s.PracticalMarks,
			).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
			if err != nil {
				return fmt.Errorf("error creating schedule for subject %d class %d: %w",
					s.SubjectID, s.ClassID, err)
			}
		}
		return nil
	})
}

// GetByID retrieves a schedule by ID, nil when not found
func (r *ScheduleRepository) GetByID(ctx context.Context, id int64) (*models.ExamSchedule, error) {
	query := fmt.Sprintf(`SELECT %s FROM exam_schedules WHERE id = $1`, scheduleColumns)

	s, err := scanSchedule(r.db.Pool.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("error retrieving schedule: %w", err)
	}
	return s, nil
}

func (r *ScheduleRepository) queryMany(ctx context.Context, query string, args ...interface{}) ([]*models.ExamSchedule, error) {
	rows, err := r.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	var schedules []*models.ExamSchedule
	for rows.Next() {
		s, err := scanSchedule(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		schedules = append(schedules, s)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return schedules, nil
}

// GetByExam retrieves all schedules of an exam ordered by date and time
func (r *ScheduleRepository) GetByExam(ctx context.Context, examID int64) ([]*models.ExamSchedule, error) {
	query := fmt.Sprintf(
		`SELECT %s FROM exam_schedules WHERE exam_id = $1 ORDER BY exam_date, start_time`,
		scheduleColumns)
	return r.queryMany(ctx, query, examID)
}

// GetByExamAndSubject retrieves an exam's schedules for one subject
func (r *ScheduleRepository) GetByExamAndSubject(ctx context.Context, examID, subjectID int64) ([]*models.ExamSchedule, error) {
	query := fmt.Sprintf(
		`SELECT %s FROM exam_schedules WHERE exam_id = $1 AND subject_id = $2`,
		scheduleColumns)
	return r.queryMany(ctx, query, examID, subjectID)
}

// GetByClassAndDate retrieves every slot already booked for a class on a
// date, across exams. Used by the conflict validator.
func (r *ScheduleRepository) GetByClassAndDate(ctx context.Context, classID int64, date time.Time) ([]*models.ExamSchedule, error) {
	query := fmt.Sprintf(
		`SELECT %s FROM exam_schedules WHERE class_id = $1 AND exam_date = $2 ORDER BY start_time`,
		scheduleColumns)
	return r.queryMany(ctx, query, classID, date)
}

// ExistsByExamSubjectClass checks for a duplicate (exam, subject, class) tuple
func (r *ScheduleRepository) ExistsByExamSubjectClass(ctx context.Context, examID, subjectID, classID int64) (bool, error) {
	var exists bool
	err := r.db.Pool.QueryRow(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM exam_schedules
			WHERE exam_id = $1 AND subject_id = $2 AND class_id = $3)`,
		examID, subjectID, classID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking schedule existence: %w", err)
	}
	return exists, nil
}

// CountByExam counts an exam's schedules
func (r *ScheduleRepository) CountByExam(ctx context.Context, examID int64) (int, error) {
	var count int
	err := r.db.Pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM exam_schedules WHERE exam_id = $1`, examID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("error counting schedules: %w", err)
	}
	return count, nil
}

// ClassSubjectPairs lists the distinct (class, subject) combinations
// observed in an exam's schedules, ordered per class
func (r *ScheduleRepository) ClassSubjectPairs(ctx context.Context, examID int64) ([]models.ClassSubject, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT DISTINCT class_id, subject_id
		FROM exam_schedules
		WHERE exam_id = $1
		ORDER BY class_id, subject_id`, examID)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	var pairs []models.ClassSubject
	for rows.Next() {
		var p models.ClassSubject
		if err := rows.Scan(&p.ClassID, &p.SubjectID); err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		pairs = append(pairs, p)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return pairs, nil
}
