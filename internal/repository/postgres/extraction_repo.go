package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"dealdesk/internal/domain"
	"dealdesk/internal/port"
)

type extractionRepo struct {
	db *sqlx.DB
}

// NewExtractionRepo creates a Postgres-backed ExtractionRepository.
func NewExtractionRepo(db *sqlx.DB) port.ExtractionRepository {
	return &extractionRepo{db: db}
}

func (r *extractionRepo) Insert(ctx context.Context, job *domain.ExtractionJob) error {
	query := `
		INSERT INTO extraction_jobs
			(id, file_names, method, success, data, confidence, sources, outcomes, completeness, created_at)
		VALUES
			(:id, :file_names, :method, :success, :data, :confidence, :sources, :outcomes, :completeness, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, job); err != nil {
		return fmt.Errorf("inserting extraction job: %w", err)
	}
	return nil
}

func (r *extractionRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.ExtractionJob, error) {
	var job domain.ExtractionJob
	err := r.db.GetContext(ctx, &job, `SELECT * FROM extraction_jobs WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("fetching extraction job: %w", err)
	}
	return &job, nil
}

func (r *extractionRepo) List(ctx context.Context, limit, offset int) ([]domain.ExtractionJob, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	jobs := []domain.ExtractionJob{}
	err := r.db.SelectContext(ctx, &jobs,
		`SELECT * FROM extraction_jobs ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("listing extraction jobs: %w", err)
	}
	return jobs, nil
}
