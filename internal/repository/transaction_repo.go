package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/anyulbade/affiliate-analytics-dashboard/internal/model"
)

// Progress is told how many of the batch's total rows have been written so far.
type Progress func(done, total int)

// TransactionRepository reads and writes transaction days. A DATE is a
// calendar day in loc: window bounds are compared against its local
// midnight and List returns dates at that midnight, whatever the session
// time zone is.
type TransactionRepository struct {
	pool *pgxpool.Pool
	loc  *time.Location
}

func NewTransactionRepository(pool *pgxpool.Pool, loc *time.Location) *TransactionRepository {
	if loc == nil {
		loc = time.UTC
	}
	return &TransactionRepository{pool: pool, loc: loc}
}

// zoneName is loc's IANA name; loc comes from config.Location, never a fixed zone.
func (r *TransactionRepository) zoneName() string {
	if name := r.loc.String(); name != "Local" {
		return name
	}
	return "UTC"
}

// InsertBatch records the import batch and upserts its rows in one database
// transaction. A row for an existing (customer_id, date) replaces its amounts
// and moves to the new batch.
func (r *TransactionRepository) InsertBatch(ctx context.Context, ib *model.ImportBatch, txns []*model.Transaction, progress Progress) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin batch transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := insertImportBatch(ctx, tx, ib); err != nil {
		return fmt.Errorf("insert import batch: %w", err)
	}

	batch := &pgx.Batch{}
	for _, txn := range txns {
		batch.Queue(
			`INSERT INTO transactions (customer_id, date, ggr, chargeback, deposit, withdrawal, batch_id)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (customer_id, date) DO UPDATE SET
				ggr = EXCLUDED.ggr,
				chargeback = EXCLUDED.chargeback,
				deposit = EXCLUDED.deposit,
				withdrawal = EXCLUDED.withdrawal,
				batch_id = EXCLUDED.batch_id
			RETURNING id, created_at`,
			txn.CustomerID, txn.Date, txn.GGR.String(), txn.Chargeback.String(),
			txn.Deposit.String(), txn.Withdrawal.String(), ib.ID,
		)
	}

	br := tx.SendBatch(ctx, batch)
	for i := range txns {
		if err := br.QueryRow().Scan(&txns[i].ID, &txns[i].CreatedAt); err != nil {
			br.Close()
			return fmt.Errorf("insert transaction %d: %w", i, err)
		}
		txns[i].BatchID = &ib.ID
		if progress != nil {
			progress(i+1, len(txns))
		}
	}
	if err := br.Close(); err != nil {
		return fmt.Errorf("close batch: %w", err)
	}

	return tx.Commit(ctx)
}

// List returns the transactions whose local day starts within [from, to). Nil bounds are open.
func (r *TransactionRepository) List(ctx context.Context, from, to *time.Time) ([]model.Transaction, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, customer_id, date, ggr, chargeback, deposit, withdrawal, batch_id, created_at
		FROM transactions
		WHERE ($1::timestamptz IS NULL OR (date::timestamp AT TIME ZONE $3::text) >= $1::timestamptz)
			AND ($2::timestamptz IS NULL OR (date::timestamp AT TIME ZONE $3::text) < $2::timestamptz)
		ORDER BY date, customer_id`,
		from, to, r.zoneName())
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	txns := []model.Transaction{}
	for rows.Next() {
		var t model.Transaction
		if err := rows.Scan(&t.ID, &t.CustomerID, &t.Date, &t.GGR, &t.Chargeback,
			&t.Deposit, &t.Withdrawal, &t.BatchID, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		t.Date = time.Date(t.Date.Year(), t.Date.Month(), t.Date.Day(), 0, 0, 0, 0, r.loc)
		txns = append(txns, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return txns, nil
}
