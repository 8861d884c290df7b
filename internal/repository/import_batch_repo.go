package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/anyulbade/affiliate-analytics-dashboard/internal/model"
)

type ImportBatchRepository struct {
	pool *pgxpool.Pool
}

func NewImportBatchRepository(pool *pgxpool.Pool) *ImportBatchRepository {
	return &ImportBatchRepository{pool: pool}
}

func insertImportBatch(ctx context.Context, tx pgx.Tx, b *model.ImportBatch) error {
	return tx.QueryRow(ctx,
		`INSERT INTO import_batches (id, kind, filename, row_count)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at`,
		b.ID, b.Kind, b.Filename, b.RowCount,
	).Scan(&b.CreatedAt)
}

func (r *ImportBatchRepository) List(ctx context.Context, limit, offset int) ([]model.ImportBatch, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM import_batches").Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count import batches: %w", err)
	}

	rows, err := r.pool.Query(ctx,
		`SELECT id, kind, filename, row_count, created_at
		FROM import_batches
		ORDER BY created_at DESC, id
		LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("query import batches: %w", err)
	}
	defer rows.Close()

	batches := []model.ImportBatch{}
	for rows.Next() {
		var b model.ImportBatch
		if err := rows.Scan(&b.ID, &b.Kind, &b.Filename, &b.RowCount, &b.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan import batch: %w", err)
		}
		batches = append(batches, b)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate import batches: %w", err)
	}
	return batches, total, nil
}

func (r *ImportBatchRepository) Get(ctx context.Context, id uuid.UUID) (*model.ImportBatch, error) {
	var b model.ImportBatch
	err := r.pool.QueryRow(ctx,
		`SELECT id, kind, filename, row_count, created_at FROM import_batches WHERE id = $1`, id,
	).Scan(&b.ID, &b.Kind, &b.Filename, &b.RowCount, &b.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("get import batch: %w", err)
	}
	return &b, nil
}

// Delete removes a batch and, through ON DELETE CASCADE, every row it still owns.
// It returns pgx.ErrNoRows when the batch does not exist.
func (r *ImportBatchRepository) Delete(ctx context.Context, id uuid.UUID) (string, error) {
	var kind string
	err := r.pool.QueryRow(ctx, `DELETE FROM import_batches WHERE id = $1 RETURNING kind`, id).Scan(&kind)
	if err != nil {
		return "", fmt.Errorf("delete import batch: %w", err)
	}
	return kind, nil
}
