package port

import (
	"context"

	"github.com/google/uuid"

	"dealdesk/internal/domain"
)

// ExtractionRepository persists completed extraction jobs. The pipeline core
// does not depend on it; the service boundary hands over final records.
type ExtractionRepository interface {
	Insert(ctx context.Context, job *domain.ExtractionJob) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.ExtractionJob, error)
	List(ctx context.Context, limit, offset int) ([]domain.ExtractionJob, error)
}
