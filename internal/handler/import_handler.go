package handler

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/anyulbade/affiliate-analytics-dashboard/internal/dto"
	"github.com/anyulbade/affiliate-analytics-dashboard/internal/importer"
	"github.com/anyulbade/affiliate-analytics-dashboard/internal/model"
	"github.com/anyulbade/affiliate-analytics-dashboard/internal/repository"
	"github.com/anyulbade/affiliate-analytics-dashboard/internal/service"
)

// MaxUploadBytes bounds a single spreadsheet upload.
const MaxUploadBytes = 32 << 20

type ImportHandler struct {
	svc *service.ImportService
}

func NewImportHandler(svc *service.ImportService) *ImportHandler {
	return &ImportHandler{svc: svc}
}

type importFunc func(ctx context.Context, filename string, r io.Reader, progress repository.Progress) (*model.ImportBatch, error)

func (h *ImportHandler) UploadTransactions(c *gin.Context) {
	h.upload(c, h.svc.ImportTransactions)
}

func (h *ImportHandler) UploadPayments(c *gin.Context) {
	h.upload(c, h.svc.ImportPayments)
}

func (h *ImportHandler) upload(c *gin.Context, run importFunc) {
	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorListResponse{Error: "multipart field 'file' is required"})
		return
	}
	if fh.Size > MaxUploadBytes {
		c.JSON(http.StatusRequestEntityTooLarge, dto.ErrorListResponse{Error: "file exceeds 32 MB"})
		return
	}

	f, err := fh.Open()
	if err != nil {
		_ = c.Error(err)
		return
	}
	defer f.Close()

	ib, err := run(c.Request.Context(), fh.Filename, f, nil)
	if err != nil {
		respondImportError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ImportResponse{Batch: *ib})
}

func respondImportError(c *gin.Context, err error) {
	var pe *importer.ParseError
	switch {
	case errors.As(err, &pe):
		errs := make([]dto.ValidationError, len(pe.Errors))
		for i, re := range pe.Errors {
			errs[i] = dto.ValidationError{Index: i, Row: re.Row, Field: re.Field, Message: re.Message}
		}
		c.JSON(http.StatusBadRequest, dto.ErrorListResponse{Error: "file validation failed", Errors: errs})
	case errors.Is(err, importer.ErrUnsupported):
		c.JSON(http.StatusUnsupportedMediaType, dto.ErrorListResponse{Error: err.Error()})
	case errors.Is(err, importer.ErrEmptyFile), errors.Is(err, importer.ErrUnreadable):
		c.JSON(http.StatusBadRequest, dto.ErrorListResponse{Error: err.Error()})
	default:
		_ = c.Error(err)
	}
}

func (h *ImportHandler) CreateTransactions(c *gin.Context) {
	var req dto.BatchTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorListResponse{
			Error: "validation failed: " + err.Error(),
		})
		return
	}

	ib, validationErrors, err := h.svc.CreateTransactions(c.Request.Context(), &req)
	h.respondBatch(c, ib, validationErrors, err)
}

func (h *ImportHandler) CreatePayments(c *gin.Context) {
	var req dto.BatchPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorListResponse{
			Error: "validation failed: " + err.Error(),
		})
		return
	}

	ib, validationErrors, err := h.svc.CreatePayments(c.Request.Context(), &req)
	h.respondBatch(c, ib, validationErrors, err)
}

func (h *ImportHandler) respondBatch(c *gin.Context, ib *model.ImportBatch, validationErrors []dto.ValidationError, err error) {
	if err != nil {
		_ = c.Error(err)
		return
	}
	if len(validationErrors) > 0 {
		c.JSON(http.StatusBadRequest, dto.ErrorListResponse{
			Error:  "batch validation failed",
			Errors: validationErrors,
		})
		return
	}

	c.JSON(http.StatusCreated, dto.BatchIngestResponse{
		BatchID:  ib.ID,
		Inserted: ib.RowCount,
	})
}

func (h *ImportHandler) List(c *gin.Context) {
	p := dto.ParsePagination(c)

	batches, total, err := h.svc.ListImports(c.Request.Context(), p)
	if err != nil {
		_ = c.Error(err)
		return
	}
	if batches == nil {
		batches = []model.ImportBatch{}
	}

	c.JSON(http.StatusOK, gin.H{
		"data":       batches,
		"pagination": dto.NewPagination(p.Page, p.PageSize, total),
	})
}

func (h *ImportHandler) Get(c *gin.Context) {
	id, ok := importID(c)
	if !ok {
		return
	}

	ib, err := h.svc.GetImport(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": ib})
}

func (h *ImportHandler) Delete(c *gin.Context) {
	id, ok := importID(c)
	if !ok {
		return
	}

	kind, err := h.svc.DeleteImport(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.DeleteImportResponse{ID: id, Kind: kind, Deleted: true})
}

func importID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid import id"})
		return uuid.Nil, false
	}
	return id, true
}
