package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/sapatil2212/edutechunite-sub005/internal/app/models"
	"github.com/sapatil2212/edutechunite-sub005/internal/db"
)

// SubjectRepository handles database operations for subjects
type SubjectRepository struct {
	db *db.PostgresDB
}

// NewSubjectRepository creates a new subject repository
func NewSubjectRepository(database *db.PostgresDB) *SubjectRepository {
	return &SubjectRepository{db: database}
}

// GetByID retrieves a subject by ID, nil when not found
func (r *SubjectRepository) GetByID(ctx context.Context, id int64) (*models.Subject, error) {
	var s models.Subject
	err := r.db.Pool.QueryRow(ctx,
		`SELECT id, institution_id, name, code FROM subjects WHERE id = $1`, id,
	).Scan(&s.ID, &s.InstitutionID, &s.Name, &s.Code)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("error retrieving subject: %w", err)
	}
	return &s, nil
}

// GetByIDs retrieves subjects by ID, keyed for lookup
func (r *SubjectRepository) GetByIDs(ctx context.Context, ids []int64) (map[int64]*models.Subject, error) {
	if len(ids) == 0 {
		return map[int64]*models.Subject{}, nil
	}

	rows, err := r.db.Pool.Query(ctx,
		`SELECT id, institution_id, name, code FROM subjects WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	subjects := make(map[int64]*models.Subject, len(ids))
	for rows.Next() {
		var s models.Subject
		if err := rows.Scan(&s.ID, &s.InstitutionID, &s.Name, &s.Code); err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		subjects[s.ID] = &s
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return subjects, nil
}
