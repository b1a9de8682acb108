package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/sapatil2212/edutechunite-sub005/internal/app/models"
	"github.com/sapatil2212/edutechunite-sub005/internal/db"
)

// StudentRepository handles database operations for students
type StudentRepository struct {
	db *db.PostgresDB
}

// NewStudentRepository creates a new student repository
func NewStudentRepository(database *db.PostgresDB) *StudentRepository {
	return &StudentRepository{db: database}
}

const studentColumns = `id, institution_id, class_id, admission_no, roll_number,
	first_name, last_name, is_active`

func scanStudent(row pgx.Row) (*models.Student, error) {
	var s models.Student
	err := row.Scan(
		&s.ID,
		&s.InstitutionID,
		&s.ClassID,
		&s.AdmissionNo,
		&s.RollNumber,
		&s.FirstName,
		&s.LastName,
		&s.IsActive,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// GetByID retrieves a student by ID, nil when not found
func (r *StudentRepository) GetByID(ctx context.Context, id int64) (*models.Student, error) {
	query := fmt.Sprintf(`SELECT %s FROM students WHERE id = $1`, studentColumns)

	s, err := scanStudent(r.db.Pool.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("error retrieving student: %w", err)
	}
	return s, nil
}

// GetActiveByClass retrieves every active student of a class ordered by roll number
func (r *StudentRepository) GetActiveByClass(ctx context.Context, classID int64) ([]*models.Student, error) {
	query := fmt.Sprintf(
		`SELECT %s FROM students WHERE class_id = $1 AND is_active ORDER BY roll_number, id`,
		studentColumns)

	rows, err := r.db.Pool.Query(ctx, query, classID)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	var students []*models.Student
	for rows.Next() {
		s, err := scanStudent(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		students = append(students, s)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return students, nil
}

// GetByIDs retrieves students by ID, keyed for lookup. Missing IDs are
// simply absent from the map.
func (r *StudentRepository) GetByIDs(ctx context.Context, ids []int64) (map[int64]*models.Student, error) {
	if len(ids) == 0 {
		return map[int64]*models.Student{}, nil
	}

	query := fmt.Sprintf(`SELECT %s FROM students WHERE id = ANY($1)`, studentColumns)

	rows, err := r.db.Pool.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	students := make(map[int64]*models.Student, len(ids))
	for rows.Next() {
		s, err := scanStudent(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		students[s.ID] = s
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return students, nil
}

// AttendanceSummary aggregates a student's attendance rows over a date window
func (r *StudentRepository) AttendanceSummary(ctx context.Context, studentID int64, from, to time.Time) (*models.AttendanceSummary, error) {
	var summary models.AttendanceSummary
	err := r.db.Pool.QueryRow(ctx, `
		SELECT
			COUNT(*) FILTER (WHERE status = 'PRESENT') AS present_days,
			COUNT(*) FILTER (WHERE status = 'ABSENT') AS absent_days,
			COUNT(*) AS total_days
		FROM attendance_records
		WHERE student_id = $1 AND record_date BETWEEN $2 AND $3`,
		studentID, from, to,
	).Scan(&summary.PresentDays, &summary.AbsentDays, &summary.TotalDays)
	if err != nil {
		return nil, fmt.Errorf("error aggregating attendance: %w", err)
	}
	return &summary, nil
}
