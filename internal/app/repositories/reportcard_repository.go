package repositories

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/sapatil2212/edutechunite-sub005/internal/app/models"
	"github.com/sapatil2212/edutechunite-sub005/internal/db"
)

// ReportCardRepository handles database operations for report cards
type ReportCardRepository struct {
	db *db.PostgresDB
}

// NewReportCardRepository creates a new report card repository
func NewReportCardRepository(database *db.PostgresDB) *ReportCardRepository {
	return &ReportCardRepository{db: database}
}

const reportCardColumns = `id, student_id, exam_id, class_id, card_type, results,
	attendance, remarks, status, generated_at, generated_by`

func scanReportCard(row pgx.Row) (*models.ReportCard, error) {
	var card models.ReportCard
	var results []byte
	var attendance, remarks []byte
	err := row.Scan(
		&card.ID,
		&card.StudentID,
		&card.ExamID,
		&card.ClassID,
		&card.Type,
		&results,
		&attendance,
		&remarks,
		&card.Status,
		&card.GeneratedAt,
		&card.GeneratedBy,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(results, &card.Results); err != nil {
		return nil, fmt.Errorf("error decoding results payload: %w", err)
	}
	if len(attendance) > 0 {
		card.Attendance = &models.AttendancePayload{}
		if err := json.Unmarshal(attendance, card.Attendance); err != nil {
			return nil, fmt.Errorf("error decoding attendance payload: %w", err)
		}
	}
	if len(remarks) > 0 {
		card.Remarks = &models.RemarksPayload{}
		if err := json.Unmarshal(remarks, card.Remarks); err != nil {
			return nil, fmt.Errorf("error decoding remarks payload: %w", err)
		}
	}
	return &card, nil
}

// UpsertBatch persists a batch of report cards atomically, one row per
// (exam, student). Regeneration overwrites, never duplicates.
func (r *ReportCardRepository) UpsertBatch(ctx context.Context, cards []*models.ReportCard) error {
	return r.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		for _, card := range cards {
			results, err := json.Marshal(card.Results)
			if err != nil {
				return fmt.Errorf("error encoding results payload: %w", err)
			}

			var attendance, remarks []byte
			if card.Attendance != nil {
				if attendance, err = json.Marshal(card.Attendance); err != nil {
					return fmt.Errorf("error encoding attendance payload: %w", err)
				}
			}
			if card.Remarks != nil {
				if remarks, err = json.Marshal(card.Remarks); err != nil {
					return fmt.Errorf("error encoding remarks payload: %w", err)
				}
			}

			err = tx.QueryRow(ctx, `
				INSERT INTO report_cards (student_id, exam_id, class_id, card_type,
					results, attendance, remarks, status, generated_by)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
				ON CONFLICT (exam_id, student_id) DO UPDATE SET
					class_id = EXCLUDED.class_id,
					card_type = EXCLUDED.card_type,
					results = EXCLUDED.results,
					attendance = EXCLUDED.attendance,
					remarks = EXCLUDED.remarks,
					status = EXCLUDED.status,
					generated_by = EXCLUDED.generated_by,
					generated_at = NOW()
				RETURNING id, generated_at`,
				card.StudentID, card.ExamID, card.ClassID, card.Type,
				results, attendance, remarks, card.Status, card.GeneratedBy,
			).Scan(&card.ID, &card.GeneratedAt)
			if err != nil {
				return fmt.Errorf("error upserting report card for student %d: %w", card.StudentID, err)
			}
		}
		return nil
	})
}

// GetByExamAndStudent retrieves one student's report card, nil when not found
func (r *ReportCardRepository) GetByExamAndStudent(ctx context.Context, examID, studentID int64) (*models.ReportCard, error) {
	query := fmt.Sprintf(
		`SELECT %s FROM report_cards WHERE exam_id = $1 AND student_id = $2`, reportCardColumns)

	card, err := scanReportCard(r.db.Pool.QueryRow(ctx, query, examID, studentID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("error retrieving report card: %w", err)
	}
	return card, nil
}

// GetByExam retrieves an exam's report cards, optionally for one class
func (r *ReportCardRepository) GetByExam(ctx context.Context, examID int64, classID *int64) ([]*models.ReportCard, error) {
	query := fmt.Sprintf(`SELECT %s FROM report_cards WHERE exam_id = $1`, reportCardColumns)
	args := []interface{}{examID}
	if classID != nil {
		query += ` AND class_id = $2`
		args = append(args, *classID)
	}
	query += ` ORDER BY class_id, student_id`

	rows, err := r.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	var cards []*models.ReportCard
	for rows.Next() {
		card, err := scanReportCard(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		cards = append(cards, card)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return cards, nil
}
