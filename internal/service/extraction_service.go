package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"

	"dealdesk/internal/config"
	"dealdesk/internal/domain"
	"dealdesk/internal/extract"
	"dealdesk/internal/port"
)

// ExtractionService runs extraction jobs at the HTTP boundary and persists
// their final records.
type ExtractionService interface {
	ExtractSingle(ctx context.Context, data []byte, mimeType, filename string) (*domain.ExtractionResult, uuid.UUID)
	ExtractBatch(ctx context.Context, files []domain.SourceDocument) (*domain.BatchResult, uuid.UUID)
	ExtractFromStorage(ctx context.Context, objectKey, filename string) (*domain.ExtractionResult, uuid.UUID, error)
	GetJob(ctx context.Context, id uuid.UUID) (*domain.ExtractionJob, error)
	ListJobs(ctx context.Context, limit, offset int) ([]domain.ExtractionJob, error)
}

type extractionService struct {
	extractor *extract.Extractor
	repo      port.ExtractionRepository // may be nil: persistence is optional
	storage   port.ObjectStorage        // may be nil: object-key mode disabled
	bucket    string
}

// NewExtractionService creates the service. repo and storage may be nil; the
// pipeline itself never depends on them.
func NewExtractionService(extractor *extract.Extractor, repo port.ExtractionRepository, storage port.ObjectStorage, s3cfg *config.S3Config) ExtractionService {
	bucket := ""
	if s3cfg != nil {
		bucket = s3cfg.Bucket
	}
	return &extractionService{extractor: extractor, repo: repo, storage: storage, bucket: bucket}
}

func (s *extractionService) ExtractSingle(ctx context.Context, data []byte, mimeType, filename string) (*domain.ExtractionResult, uuid.UUID) {
	result := s.extractor.ExtractOne(ctx, data, mimeType, filename)
	jobID := s.persistSingle(ctx, filename, result)
	return result, jobID
}

func (s *extractionService) ExtractBatch(ctx context.Context, files []domain.SourceDocument) (*domain.BatchResult, uuid.UUID) {
	result := s.extractor.ExtractMany(ctx, files)
	jobID := s.persistBatch(ctx, files, result)
	return result, jobID
}

func (s *extractionService) ExtractFromStorage(ctx context.Context, objectKey, filename string) (*domain.ExtractionResult, uuid.UUID, error) {
	if s.storage == nil {
		return nil, uuid.Nil, domain.ErrNotFound
	}
	data, err := s.storage.Download(ctx, s.bucket, objectKey)
	if err != nil {
		return nil, uuid.Nil, err
	}
	result, jobID := s.ExtractSingle(ctx, data, "", filename)
	return result, jobID, nil
}

func (s *extractionService) GetJob(ctx context.Context, id uuid.UUID) (*domain.ExtractionJob, error) {
	if s.repo == nil {
		return nil, domain.ErrNotFound
	}
	return s.repo.GetByID(ctx, id)
}

func (s *extractionService) ListJobs(ctx context.Context, limit, offset int) ([]domain.ExtractionJob, error) {
	if s.repo == nil {
		return []domain.ExtractionJob{}, nil
	}
	return s.repo.List(ctx, limit, offset)
}

func (s *extractionService) persistSingle(ctx context.Context, filename string, result *domain.ExtractionResult) uuid.UUID {
	if s.repo == nil {
		return uuid.Nil
	}
	job := &domain.ExtractionJob{
		ID:           uuid.New(),
		FileNames:    mustJSON([]string{filename}),
		Method:       string(result.ExtractionMethod),
		Success:      result.Success,
		Data:         mustJSON(result.Data),
		Confidence:   mustJSON(result.Confidence),
		Sources:      mustJSON(result.Sources),
		Outcomes:     mustJSON([]domain.DocumentOutcome{}),
		Completeness: 0,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.repo.Insert(ctx, job); err != nil {
		log.Printf("service.ExtractionService: failed to persist job: %v", err)
		return uuid.Nil
	}
	return job.ID
}

func (s *extractionService) persistBatch(ctx context.Context, files []domain.SourceDocument, result *domain.BatchResult) uuid.UUID {
	if s.repo == nil {
		return uuid.Nil
	}
	names := make([]string, len(files))
	for i, f := range files {
		names[i] = f.Filename
	}
	job := &domain.ExtractionJob{
		ID:           uuid.New(),
		FileNames:    mustJSON(names),
		Method:       string(result.ExtractionMethod),
		Success:      result.Success,
		Data:         mustJSON(result.MergedData),
		Confidence:   mustJSON(result.Confidence),
		Sources:      mustJSON(result.Sources),
		Outcomes:     mustJSON(result.IndividualResults),
		Completeness: result.Completeness,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.repo.Insert(ctx, job); err != nil {
		log.Printf("service.ExtractionService: failed to persist job: %v", err)
		return uuid.Nil
	}
	return job.ID
}

func mustJSON(v any) json.RawMessage {
	b, err := json.Marshal(v)
	if err != nil {
		return json.RawMessage("null")
	}
	return b
}
