package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/sapatil2212/edutechunite-sub005/internal/app/models"
	"github.com/sapatil2212/edutechunite-sub005/internal/db"
)

// HallTicketRepository handles database operations for hall tickets
type HallTicketRepository struct {
	db *db.PostgresDB
}

// NewHallTicketRepository creates a new hall ticket repository
func NewHallTicketRepository(database *db.PostgresDB) *HallTicketRepository {
	return &HallTicketRepository{db: database}
}

const hallTicketColumns = `id, exam_id, student_id, ticket_number, seat_number,
	exam_center, room, reporting_time, instructions, download_count,
	last_downloaded_at, generated_at, generated_by`

func scanHallTicket(row pgx.Row) (*models.HallTicket, error) {
	var t models.HallTicket
	err := row.Scan(
		&t.ID,
		&t.ExamID,
		&t.StudentID,
		&t.TicketNumber,
		&t.SeatNumber,
		&t.ExamCenter,
		&t.Room,
		&t.ReportingTime,
		&t.Instructions,
		&t.DownloadCount,
		&t.LastDownloadedAt,
		&t.GeneratedAt,
		&t.GeneratedBy,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// ReplaceBatch deletes the previous credential batch for the exam and
// inserts the new one in a single transaction. Previously issued tickets
// for the timetable become invalid.
func (r *HallTicketRepository) ReplaceBatch(ctx context.Context, examID int64, tickets []*models.HallTicket) error {
	return r.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM hall_tickets WHERE exam_id = $1`, examID); err != nil {
			return fmt.Errorf("error discarding previous ticket batch: %w", err)
		}

		for _, t := range tickets {
			err := tx.QueryRow(ctx, `
				INSERT INTO hall_tickets (exam_id, student_id, ticket_number, seat_number,
					exam_center, room, reporting_time, instructions, generated_by)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
				RETURNING id, generated_at`,
				t.ExamID, t.StudentID, t.TicketNumber, t.SeatNumber,
				t.ExamCenter, t.Room, t.ReportingTime, t.Instructions, t.GeneratedBy,
			).Scan(&t.ID, &t.GeneratedAt)
			if err != nil {
				return fmt.Errorf("error inserting hall ticket for student %d: %w", t.StudentID, err)
			}
		}
		return nil
	})
}

// GetByExam retrieves an exam's hall tickets ordered by seat number
func (r *HallTicketRepository) GetByExam(ctx context.Context, examID int64) ([]*models.HallTicket, error) {
	query := fmt.Sprintf(
		`SELECT %s FROM hall_tickets WHERE exam_id = $1 ORDER BY seat_number`, hallTicketColumns)

	rows, err := r.db.Pool.Query(ctx, query, examID)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	var tickets []*models.HallTicket
	for rows.Next() {
		t, err := scanHallTicket(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		tickets = append(tickets, t)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return tickets, nil
}

// GetByExamAndStudent retrieves one student's ticket, nil when not found
func (r *HallTicketRepository) GetByExamAndStudent(ctx context.Context, examID, studentID int64) (*models.HallTicket, error) {
	query := fmt.Sprintf(
		`SELECT %s FROM hall_tickets WHERE exam_id = $1 AND student_id = $2`, hallTicketColumns)

	t, err := scanHallTicket(r.db.Pool.QueryRow(ctx, query, examID, studentID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("error retrieving hall ticket: %w", err)
	}
	return t, nil
}

// TrackDownload increments the download counter and stamps the download time
func (r *HallTicketRepository) TrackDownload(ctx context.Context, id int64) (*models.HallTicket, error) {
	query := fmt.Sprintf(`
		UPDATE hall_tickets
		SET download_count = download_count + 1, last_downloaded_at = NOW()
		WHERE id = $1
		RETURNING %s`, hallTicketColumns)

	t, err := scanHallTicket(r.db.Pool.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("error tracking hall ticket download: %w", err)
	}
	return t, nil
}
