package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/anyulbade/affiliate-analytics-dashboard/internal/analytics"
	"github.com/anyulbade/affiliate-analytics-dashboard/internal/dto"
	"github.com/anyulbade/affiliate-analytics-dashboard/internal/model"
	"github.com/anyulbade/affiliate-analytics-dashboard/internal/repository"
)

type fakeTransactions struct {
	mu       sync.Mutex
	rows     []model.Transaction
	err      error
	calls    int
	from, to *time.Time
	inserted []*model.Transaction
	batch    *model.ImportBatch
}

func (f *fakeTransactions) List(_ context.Context, from, to *time.Time) ([]model.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.from, f.to = from, to
	return f.rows, f.err
}

func (f *fakeTransactions) InsertBatch(_ context.Context, ib *model.ImportBatch, txns []*model.Transaction, progress repository.Progress) error {
	if f.err != nil {
		return f.err
	}
	f.batch = ib
	f.inserted = txns
	for i := range txns {
		txns[i].ID = int64(i + 1)
		txns[i].BatchID = &ib.ID
		if progress != nil {
			progress(i+1, len(txns))
		}
	}
	return nil
}

type fakePayments struct {
	mu       sync.Mutex
	rows     []model.Payment
	err      error
	calls    int
	inserted []*model.Payment
	batch    *model.ImportBatch
}

func (f *fakePayments) List(_ context.Context, _, _ *time.Time) ([]model.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.rows, f.err
}

func (f *fakePayments) InsertBatch(_ context.Context, ib *model.ImportBatch, payments []*model.Payment, _ repository.Progress) error {
	if f.err != nil {
		return f.err
	}
	f.batch = ib
	f.inserted = payments
	return nil
}

type fakeBatches struct {
	batches []model.ImportBatch
	deleted []uuid.UUID
	err     error
	limit   int
	offset  int
}

func (f *fakeBatches) List(_ context.Context, limit, offset int) ([]model.ImportBatch, int, error) {
	f.limit, f.offset = limit, offset
	return f.batches, len(f.batches), f.err
}

func (f *fakeBatches) Get(_ context.Context, id uuid.UUID) (*model.ImportBatch, error) {
	if f.err != nil {
		return nil, f.err
	}
	for i := range f.batches {
		if f.batches[i].ID == id {
			return &f.batches[i], nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeBatches) Delete(_ context.Context, id uuid.UUID) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.deleted = append(f.deleted, id)
	return model.KindPayments, nil
}

type countingInvalidator struct {
	calls int
}

func (c *countingInvalidator) Invalidate(context.Context) { c.calls++ }

type staticSource struct {
	res *analytics.Result
	err error
}

func (s staticSource) Compute(context.Context, dto.Window) (*analytics.Result, error) {
	return s.res, s.err
}

func dec(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func strPtr(s string) *string { return &s }
