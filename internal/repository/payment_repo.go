package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/anyulbade/affiliate-analytics-dashboard/internal/model"
)

type PaymentRepository struct {
	pool *pgxpool.Pool
}

func NewPaymentRepository(pool *pgxpool.Pool) *PaymentRepository {
	return &PaymentRepository{pool: pool}
}

func (r *PaymentRepository) InsertBatch(ctx context.Context, ib *model.ImportBatch, payments []*model.Payment, progress Progress) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin batch transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := insertImportBatch(ctx, tx, ib); err != nil {
		return fmt.Errorf("insert import batch: %w", err)
	}

	batch := &pgx.Batch{}
	for _, p := range payments {
		batch.Queue(
			`INSERT INTO payments (clientes_id, afiliados_id, date, value, method, status, classification, level, batch_id)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			RETURNING id, created_at`,
			p.ClientesID, p.AfiliadosID, p.Date, p.Value.String(), p.Method,
			p.Status, p.Classification, p.Level, ib.ID,
		)
	}

	br := tx.SendBatch(ctx, batch)
	for i := range payments {
		if err := br.QueryRow().Scan(&payments[i].ID, &payments[i].CreatedAt); err != nil {
			br.Close()
			return fmt.Errorf("insert payment %d: %w", i, err)
		}
		payments[i].BatchID = &ib.ID
		if progress != nil {
			progress(i+1, len(payments))
		}
	}
	if err := br.Close(); err != nil {
		return fmt.Errorf("close batch: %w", err)
	}

	return tx.Commit(ctx)
}

func (r *PaymentRepository) List(ctx context.Context, from, to *time.Time) ([]model.Payment, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, clientes_id, afiliados_id, date, value, method, status, classification, level, batch_id, created_at
		FROM payments
		WHERE ($1::timestamptz IS NULL OR date >= $1::timestamptz)
			AND ($2::timestamptz IS NULL OR date < $2::timestamptz)
		ORDER BY date, id`,
		from, to)
	if err != nil {
		return nil, fmt.Errorf("query payments: %w", err)
	}
	defer rows.Close()

	payments := []model.Payment{}
	for rows.Next() {
		var p model.Payment
		if err := rows.Scan(&p.ID, &p.ClientesID, &p.AfiliadosID, &p.Date, &p.Value, &p.Method,
			&p.Status, &p.Classification, &p.Level, &p.BatchID, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan payment: %w", err)
		}
		payments = append(payments, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate payments: %w", err)
	}
	return payments, nil
}
