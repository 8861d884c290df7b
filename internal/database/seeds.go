package database

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

type affiliateProfile struct {
	ID             string
	Classification string
	Level          int
	Customers      [2]int     // min, max acquired customers
	CPAValue       [2]int     // min, max CPA in whole currency units
	RejectRate     float64    // share of CPA payments rejected
	ActiveRate     float64    // share of customers that ever play
	GGRRange       [2]float64 // min, max daily GGR for active customers
	Category       string     // healthy, average, whale, fraud
}

var affiliateProfiles = []affiliateProfile{
	// Healthy
	{ID: "aff_001", Classification: "Lendário", Level: 5, Customers: [2]int{40, 55}, CPAValue: [2]int{80, 120}, RejectRate: 0.02, ActiveRate: 0.90, GGRRange: [2]float64{40, 180}, Category: "healthy"},
	{ID: "aff_002", Classification: "Mestre", Level: 4, Customers: [2]int{30, 45}, CPAValue: [2]int{70, 110}, RejectRate: 0.04, ActiveRate: 0.85, GGRRange: [2]float64{30, 150}, Category: "healthy"},
	{ID: "aff_003", Classification: "Expert", Level: 4, Customers: [2]int{25, 35}, CPAValue: [2]int{60, 100}, RejectRate: 0.05, ActiveRate: 0.80, GGRRange: [2]float64{25, 120}, Category: "healthy"},

	// Average
	{ID: "aff_004", Classification: "Elite", Level: 3, Customers: [2]int{20, 30}, CPAValue: [2]int{50, 90}, RejectRate: 0.08, ActiveRate: 0.65, GGRRange: [2]float64{15, 80}, Category: "average"},
	{ID: "aff_005", Classification: "Profissional", Level: 3, Customers: [2]int{15, 25}, CPAValue: [2]int{50, 80}, RejectRate: 0.10, ActiveRate: 0.60, GGRRange: [2]float64{10, 70}, Category: "average"},
	{ID: "aff_006", Classification: "Regular", Level: 2, Customers: [2]int{15, 25}, CPAValue: [2]int{40, 70}, RejectRate: 0.10, ActiveRate: 0.55, GGRRange: [2]float64{10, 60}, Category: "average"},
	{ID: "aff_007", Classification: "Iniciante", Level: 1, Customers: [2]int{10, 18}, CPAValue: [2]int{30, 60}, RejectRate: 0.12, ActiveRate: 0.50, GGRRange: [2]float64{5, 50}, Category: "average"},
	{ID: "aff_008", Classification: "Jogador", Level: 1, Customers: [2]int{8, 14}, CPAValue: [2]int{25, 50}, RejectRate: 0.15, ActiveRate: 0.50, GGRRange: [2]float64{5, 40}, Category: "average"},

	// Whales: few customers, very high value
	{ID: "aff_009", Classification: "Elite", Level: 4, Customers: [2]int{5, 8}, CPAValue: [2]int{150, 250}, RejectRate: 0.03, ActiveRate: 1.00, GGRRange: [2]float64{300, 900}, Category: "whale"},

	// Fraud: paid for customers that never play, many rejections
	{ID: "aff_010", Classification: "Regular", Level: 2, Customers: [2]int{20, 30}, CPAValue: [2]int{90, 140}, RejectRate: 0.35, ActiveRate: 0.05, GGRRange: [2]float64{1, 10}, Category: "fraud"},
	{ID: "aff_011", Classification: "Profissional", Level: 2, Customers: [2]int{15, 25}, CPAValue: [2]int{100, 150}, RejectRate: 0.40, ActiveRate: 0.10, GGRRange: [2]float64{1, 8}, Category: "fraud"},
	{ID: "aff_012", Classification: "Jogador", Level: 1, Customers: [2]int{10, 20}, CPAValue: [2]int{60, 90}, RejectRate: 0.05, ActiveRate: 0.15, GGRRange: [2]float64{1, 15}, Category: "fraud"},
}

var seedPaymentStatuses = []string{"finish", "pending", "processing"}

func cents(rng *rand.Rand, lo, hi float64) decimal.Decimal {
	v := lo + rng.Float64()*(hi-lo)
	return decimal.New(int64(v*100), -2)
}

func SeedData(ctx context.Context, pool *pgxpool.Pool) error {
	rng := rand.New(rand.NewSource(42))

	// Check if data already exists (idempotency)
	var count int
	err := pool.QueryRow(ctx, "SELECT COUNT(*) FROM payments").Scan(&count)
	if err != nil {
		return fmt.Errorf("check existing data: %w", err)
	}
	if count > 0 {
		log.Info().Msg("seed data already exists, skipping")
		return nil
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	// Acquisitions spread across 6 months (Sep 2025 - Feb 2026)
	baseDate := time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)
	endDate := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	batch := &pgx.Batch{}
	totalPayments, totalTxns, customerSeq := 0, 0, 0
	var acquired []string

	for _, ap := range affiliateProfiles {
		numCustomers := ap.Customers[0] + rng.Intn(ap.Customers[1]-ap.Customers[0]+1)

		for i := 0; i < numCustomers; i++ {
			customerSeq++
			customerID := fmt.Sprintf("customer_%05d", customerSeq)
			acquiredAt := baseDate.AddDate(0, 0, rng.Intn(170)).
				Add(time.Duration(rng.Intn(24)) * time.Hour)

			status := "finish"
			if rng.Float64() < ap.RejectRate {
				status = "rejected"
			}
			cpa := decimal.NewFromInt(int64(ap.CPAValue[0] + rng.Intn(ap.CPAValue[1]-ap.CPAValue[0]+1)))

			batch.Queue(
				`INSERT INTO payments (clientes_id, afiliados_id, date, value, method, status, classification, level)
				VALUES ($1, $2, $3, $4, 'cpa', $5, $6, $7)`,
				customerID, ap.ID, acquiredAt, cpa.String(), status, ap.Classification, ap.Level,
			)
			totalPayments++
			if status == "finish" {
				acquired = append(acquired, customerID)
			}

			if rng.Float64() >= ap.ActiveRate {
				continue
			}

			// Active customers play on distinct days after acquisition
			days := 1 + rng.Intn(12)
			seen := make(map[string]bool, days)
			for d := 0; d < days; d++ {
				date := acquiredAt.AddDate(0, 0, rng.Intn(60))
				if !date.Before(endDate) {
					continue
				}
				y, m, dd := date.Date()
				day := time.Date(y, m, dd, 0, 0, 0, 0, time.UTC)
				key := day.Format("2006-01-02")
				if seen[key] {
					continue
				}
				seen[key] = true

				ggr := cents(rng, ap.GGRRange[0], ap.GGRRange[1])
				chargeback := decimal.Zero
				if rng.Float64() < 0.05 {
					chargeback = ggr.Mul(decimal.NewFromFloat(0.5 + rng.Float64())).Round(2)
				}
				deposit := ggr.Add(cents(rng, 10, 200))
				withdrawal := cents(rng, 0, deposit.InexactFloat64()*0.6)

				batch.Queue(
					`INSERT INTO transactions (customer_id, date, ggr, chargeback, deposit, withdrawal)
					VALUES ($1, $2, $3, $4, $5, $6)`,
					customerID, day, ggr.String(), chargeback.String(), deposit.String(), withdrawal.String(),
				)
				totalTxns++
			}
		}

		// Monthly revenue-share rows, tracked for bookkeeping only
		for m := 0; m < 6; m++ {
			batch.Queue(
				`INSERT INTO payments (clientes_id, afiliados_id, date, value, method, status, classification, level)
				VALUES (NULL, $1, $2, $3, 'rev', $4, $5, $6)`,
				ap.ID, baseDate.AddDate(0, m+1, 0), cents(rng, 100, 1500).String(),
				seedPaymentStatuses[rng.Intn(len(seedPaymentStatuses))], ap.Classification, ap.Level,
			)
			totalPayments++
		}
	}

	// A handful of customers are re-acquired by another affiliate later on
	for i := 0; i < 15 && len(acquired) > 0; i++ {
		customerID := acquired[rng.Intn(len(acquired))]
		ap := affiliateProfiles[rng.Intn(len(affiliateProfiles))]
		batch.Queue(
			`INSERT INTO payments (clientes_id, afiliados_id, date, value, method, status, classification, level)
			VALUES ($1, $2, $3, $4, 'cpa', 'finish', $5, $6)`,
			customerID, ap.ID, endDate.AddDate(0, 0, -1-rng.Intn(20)),
			decimal.NewFromInt(int64(ap.CPAValue[0])).String(), ap.Classification, ap.Level,
		)
		totalPayments++
	}

	br := tx.SendBatch(ctx, batch)
	for i := 0; i < batch.Len(); i++ {
		if _, err := br.Exec(); err != nil {
			br.Close()
			return fmt.Errorf("insert seed row %d: %w", i, err)
		}
	}
	if err := br.Close(); err != nil {
		return fmt.Errorf("close seed batch: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit seed data: %w", err)
	}

	log.Info().
		Int("affiliates", len(affiliateProfiles)).
		Int("customers", customerSeq).
		Int("payments", totalPayments).
		Int("transactions", totalTxns).
		Msg("seed data generation complete")
	return nil
}
