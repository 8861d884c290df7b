package service

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/anyulbade/affiliate-analytics-dashboard/internal/analytics"
	"github.com/anyulbade/affiliate-analytics-dashboard/internal/dto"
	"github.com/anyulbade/affiliate-analytics-dashboard/internal/importer"
	"github.com/anyulbade/affiliate-analytics-dashboard/internal/metrics"
	"github.com/anyulbade/affiliate-analytics-dashboard/internal/model"
	"github.com/anyulbade/affiliate-analytics-dashboard/internal/repository"
)

const apiSource = "api"

type TransactionWriter interface {
	InsertBatch(ctx context.Context, ib *model.ImportBatch, txns []*model.Transaction, progress repository.Progress) error
}

type PaymentWriter interface {
	InsertBatch(ctx context.Context, ib *model.ImportBatch, payments []*model.Payment, progress repository.Progress) error
}

type BatchStore interface {
	List(ctx context.Context, limit, offset int) ([]model.ImportBatch, int, error)
	Get(ctx context.Context, id uuid.UUID) (*model.ImportBatch, error)
	Delete(ctx context.Context, id uuid.UUID) (string, error)
}

// Invalidator is told when stored data changed so cached results can be dropped.
type Invalidator interface {
	Invalidate(ctx context.Context)
}

type ImportService struct {
	txns        TransactionWriter
	payments    PaymentWriter
	batches     BatchStore
	parser      *importer.Parser
	loc         *time.Location
	invalidator Invalidator
	metrics     *metrics.Metrics
}

func NewImportService(txns TransactionWriter, payments PaymentWriter, batches BatchStore, loc *time.Location, inv Invalidator, m *metrics.Metrics) *ImportService {
	if loc == nil {
		loc = time.UTC
	}
	return &ImportService{
		txns:        txns,
		payments:    payments,
		batches:     batches,
		parser:      importer.NewParser(loc),
		loc:         loc,
		invalidator: inv,
		metrics:     m,
	}
}

// ImportTransactions parses a spreadsheet and stores its rows as one batch.
// A file with any bad row is rejected whole with an *importer.ParseError.
func (s *ImportService) ImportTransactions(ctx context.Context, filename string, r io.Reader, progress repository.Progress) (*model.ImportBatch, error) {
	ctx, span := tracer.Start(ctx, "import.transactions", trace.WithAttributes(attribute.String("filename", filename)))
	defer span.End()

	rows, err := importer.ReadRows(r, filename)
	if err != nil {
		s.metrics.ObserveImport(model.KindTransactions, "rejected", 0)
		return nil, err
	}
	txns, err := s.parser.ParseTransactions(rows)
	if err != nil {
		s.metrics.ObserveImport(model.KindTransactions, "rejected", 0)
		return nil, err
	}

	return s.storeTransactions(ctx, filename, txns, progress)
}

// ImportPayments is ImportTransactions for affiliate payments.
func (s *ImportService) ImportPayments(ctx context.Context, filename string, r io.Reader, progress repository.Progress) (*model.ImportBatch, error) {
	ctx, span := tracer.Start(ctx, "import.payments", trace.WithAttributes(attribute.String("filename", filename)))
	defer span.End()

	rows, err := importer.ReadRows(r, filename)
	if err != nil {
		s.metrics.ObserveImport(model.KindPayments, "rejected", 0)
		return nil, err
	}
	payments, err := s.parser.ParsePayments(rows)
	if err != nil {
		s.metrics.ObserveImport(model.KindPayments, "rejected", 0)
		return nil, err
	}

	return s.storePayments(ctx, filename, payments, progress)
}

func (s *ImportService) CreateTransactions(ctx context.Context, req *dto.BatchTransactionRequest) (*model.ImportBatch, []dto.ValidationError, error) {
	var validationErrors []dto.ValidationError
	txns := make([]*model.Transaction, 0, len(req.Transactions))

	for i, tr := range req.Transactions {
		customer := strings.TrimSpace(tr.CustomerID)
		if customer == "" {
			validationErrors = append(validationErrors, dto.ValidationError{Index: i, Field: "customer_id", Message: "required"})
		}
		for _, f := range []struct {
			name  string
			value decimal.Decimal
		}{
			{"ggr", tr.GGR},
			{"chargeback", tr.Chargeback},
			{"deposit", tr.Deposit},
			{"withdrawal", tr.Withdrawal},
		} {
			if f.value.IsNegative() {
				validationErrors = append(validationErrors, dto.ValidationError{Index: i, Field: f.name, Message: "must not be negative"})
			}
		}

		d := tr.Date.In(s.loc)
		txns = append(txns, &model.Transaction{
			CustomerID: customer,
			Date:       time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, s.loc),
			GGR:        tr.GGR,
			Chargeback: tr.Chargeback,
			Deposit:    tr.Deposit,
			Withdrawal: tr.Withdrawal,
		})
	}

	if len(validationErrors) > 0 {
		s.metrics.ObserveImport(model.KindTransactions, "rejected", 0)
		return nil, validationErrors, nil
	}

	ib, err := s.storeTransactions(ctx, apiSource, txns, nil)
	return ib, nil, err
}

func (s *ImportService) CreatePayments(ctx context.Context, req *dto.BatchPaymentRequest) (*model.ImportBatch, []dto.ValidationError, error) {
	var validationErrors []dto.ValidationError
	payments := make([]*model.Payment, 0, len(req.Payments))

	for i, pr := range req.Payments {
		method := strings.ToLower(strings.TrimSpace(pr.Method))
		if method != analytics.MethodCPA && method != analytics.MethodREV {
			validationErrors = append(validationErrors, dto.ValidationError{Index: i, Field: "method", Message: fmt.Sprintf("method '%s' must be cpa or rev", pr.Method)})
		}
		status := strings.ToLower(strings.TrimSpace(pr.Status))
		if status == "" {
			validationErrors = append(validationErrors, dto.ValidationError{Index: i, Field: "status", Message: "required"})
		}

		level := pr.Level
		if level == 0 {
			level = 1
		}

		var clientes *string
		if pr.ClientesID != nil {
			if c := strings.TrimSpace(*pr.ClientesID); c != "" {
				clientes = &c
			}
		}

		payments = append(payments, &model.Payment{
			ClientesID:     clientes,
			AfiliadosID:    strings.TrimSpace(pr.AfiliadosID),
			Date:           pr.Date,
			Value:          pr.Value,
			Method:         method,
			Status:         status,
			Classification: importer.CanonicalClassification(pr.Classification),
			Level:          level,
		})
	}

	if len(validationErrors) > 0 {
		s.metrics.ObserveImport(model.KindPayments, "rejected", 0)
		return nil, validationErrors, nil
	}

	ib, err := s.storePayments(ctx, apiSource, payments, nil)
	return ib, nil, err
}

func (s *ImportService) ListImports(ctx context.Context, p dto.PaginationParams) ([]model.ImportBatch, int, error) {
	return s.batches.List(ctx, p.PageSize, p.Offset)
}

func (s *ImportService) GetImport(ctx context.Context, id uuid.UUID) (*model.ImportBatch, error) {
	return s.batches.Get(ctx, id)
}

// DeleteImport removes a batch together with the rows it created and returns
// the batch kind. A missing batch surfaces the repository's not-found error.
func (s *ImportService) DeleteImport(ctx context.Context, id uuid.UUID) (string, error) {
	kind, err := s.batches.Delete(ctx, id)
	if err != nil {
		return "", err
	}
	zerolog.Ctx(ctx).Info().Str("batch_id", id.String()).Str("kind", kind).Msg("import batch deleted")
	s.invalidate(ctx)
	return kind, nil
}

func (s *ImportService) storeTransactions(ctx context.Context, source string, txns []*model.Transaction, progress repository.Progress) (*model.ImportBatch, error) {
	ib := newBatch(model.KindTransactions, source, len(txns))
	if err := s.txns.InsertBatch(ctx, ib, txns, progress); err != nil {
		s.metrics.ObserveImport(ib.Kind, "failed", 0)
		return nil, fmt.Errorf("store transactions: %w", err)
	}
	s.finish(ctx, ib)
	return ib, nil
}

func (s *ImportService) storePayments(ctx context.Context, source string, payments []*model.Payment, progress repository.Progress) (*model.ImportBatch, error) {
	ib := newBatch(model.KindPayments, source, len(payments))
	if err := s.payments.InsertBatch(ctx, ib, payments, progress); err != nil {
		s.metrics.ObserveImport(ib.Kind, "failed", 0)
		return nil, fmt.Errorf("store payments: %w", err)
	}
	s.finish(ctx, ib)
	return ib, nil
}

func newBatch(kind, filename string, rows int) *model.ImportBatch {
	return &model.ImportBatch{
		ID:       uuid.New(),
		Kind:     kind,
		Filename: filename,
		RowCount: rows,
	}
}

func (s *ImportService) finish(ctx context.Context, ib *model.ImportBatch) {
	s.metrics.ObserveImport(ib.Kind, "ok", ib.RowCount)
	zerolog.Ctx(ctx).Info().
		Str("batch_id", ib.ID.String()).
		Str("kind", ib.Kind).
		Str("filename", ib.Filename).
		Int("rows", ib.RowCount).
		Msg("import stored")
	s.invalidate(ctx)
}

func (s *ImportService) invalidate(ctx context.Context) {
	if s.invalidator != nil {
		s.invalidator.Invalidate(ctx)
	}
}
