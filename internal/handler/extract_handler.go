package handler

import (
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"dealdesk/internal/domain"
	"dealdesk/internal/service"
)

// MaxUploadBytes caps a single uploaded file at 50MB.
const MaxUploadBytes = 50 << 20

// MaxBatchFiles caps the number of files in one batch request.
const MaxBatchFiles = 20

// ExtractHandler handles document extraction endpoints.
type ExtractHandler struct {
	svc service.ExtractionService
}

// NewExtractHandler creates a new ExtractHandler.
func NewExtractHandler(svc service.ExtractionService) *ExtractHandler {
	return &ExtractHandler{svc: svc}
}

// Extract handles POST /api/v1/extract. One multipart file in, one
// normalized record out.
func (h *ExtractHandler) Extract(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "MISSING_FILE", "file field is required")
		return
	}
	defer func() { _ = file.Close() }()

	data, err := readUpload(file, header)
	if err != nil {
		HandleError(c, err)
		return
	}

	result, jobID := h.svc.ExtractSingle(c.Request.Context(), data, header.Header.Get("Content-Type"), header.Filename)
	respondExtraction(c, gin.H{
		"job_id": jobIDValue(jobID),
		"result": result,
	}, result.Success)
}

// ExtractBatch handles POST /api/v1/extract/batch. All files in the
// "files" field are merged into a single record.
func (h *ExtractHandler) ExtractBatch(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_FORM", "multipart form is required")
		return
	}
	headers := form.File["files"]
	if len(headers) == 0 {
		RespondError(c, http.StatusBadRequest, "MISSING_FILES", "files field is required")
		return
	}
	if len(headers) > MaxBatchFiles {
		RespondError(c, http.StatusBadRequest, "TOO_MANY_FILES",
			"at most "+strconv.Itoa(MaxBatchFiles)+" files per batch")
		return
	}

	docs := make([]domain.SourceDocument, 0, len(headers))
	for _, header := range headers {
		f, err := header.Open()
		if err != nil {
			RespondError(c, http.StatusBadRequest, "UNREADABLE_FILE", "could not read "+header.Filename)
			return
		}
		data, err := readUpload(f, header)
		_ = f.Close()
		if err != nil {
			HandleError(c, err)
			return
		}
		docs = append(docs, domain.NewSourceDocument(data, header.Header.Get("Content-Type"), header.Filename))
	}

	result, jobID := h.svc.ExtractBatch(c.Request.Context(), docs)
	respondExtraction(c, gin.H{
		"job_id": jobIDValue(jobID),
		"result": result,
	}, result.Success)
}

// ExtractFromStorage handles POST /api/v1/extract/object. It pulls the
// document from object storage by key instead of reading an upload.
func (h *ExtractHandler) ExtractFromStorage(c *gin.Context) {
	var req struct {
		ObjectKey string `json:"object_key" binding:"required"`
		Filename  string `json:"filename"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "object_key is required")
		return
	}
	filename := req.Filename
	if filename == "" {
		filename = req.ObjectKey
	}

	result, jobID, err := h.svc.ExtractFromStorage(c.Request.Context(), req.ObjectKey, filename)
	if err != nil {
		HandleError(c, err)
		return
	}
	respondExtraction(c, gin.H{
		"job_id": jobIDValue(jobID),
		"result": result,
	}, result.Success)
}

// GetExtraction handles GET /api/v1/extractions/:id
func (h *ExtractHandler) GetExtraction(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid extraction id")
		return
	}
	job, err := h.svc.GetJob(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, job)
}

// ListExtractions handles GET /api/v1/extractions
func (h *ExtractHandler) ListExtractions(c *gin.Context) {
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if offset < 0 {
		offset = 0
	}

	jobs, err := h.svc.ListJobs(c.Request.Context(), limit, offset)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondPaginated(c, jobs, PagMeta{Total: len(jobs), Offset: offset, Limit: limit})
}

// respondExtraction returns 200 for successful extractions and 422 when the
// pipeline ran but produced no usable record.
func respondExtraction(c *gin.Context, payload gin.H, success bool) {
	if !success {
		c.JSON(http.StatusUnprocessableEntity, APIResponse{Success: false, Data: payload})
		return
	}
	RespondOK(c, payload)
}

func readUpload(f multipart.File, header *multipart.FileHeader) ([]byte, error) {
	if header.Size > MaxUploadBytes {
		return nil, domain.ErrFileTooLarge
	}
	data, err := io.ReadAll(io.LimitReader(f, MaxUploadBytes+1))
	if err != nil {
		return nil, err
	}
	if len(data) > MaxUploadBytes {
		return nil, domain.ErrFileTooLarge
	}
	return data, nil
}

func jobIDValue(id uuid.UUID) any {
	if id == uuid.Nil {
		return nil
	}
	return id
}
