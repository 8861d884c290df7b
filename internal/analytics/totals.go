package analytics

import "github.com/shopspring/decimal"

func buildTotals(ds Dataset, ngr ledger, attr attribution, book affiliateBook) Totals {
	t := Totals{
		TotalAffiliates:  len(book),
		CACTotal:         decimal.Zero,
		TotalDeposits:    decimal.Zero,
		TotalWithdrawals: decimal.Zero,
		PaymentsTotal:    len(ds.Payments),
		PaymentsByStatus: make(map[string]int),
	}

	customers := make(map[string]struct{})
	for _, txn := range ds.Transactions {
		customers[txn.CustomerID] = struct{}{}
		t.TotalDeposits = t.TotalDeposits.Add(txn.Deposit)
		t.TotalWithdrawals = t.TotalWithdrawals.Add(txn.Withdrawal)
	}
	t.TotalCustomers = len(customers)

	for _, p := range ds.Payments {
		t.PaymentsByStatus[p.Status]++
	}

	// Only CPA linked to a customer counts, matching the cohort cac_cpa.
	// Affiliate rev is post loss-guard.
	t.CACTotal = attr.cpaPaid.sum()
	for _, agg := range book {
		t.CACTotal = t.CACTotal.Add(agg.rev)
	}

	t.LTVTotal = ngr.sum()
	t.ROI = ratio(t.LTVTotal.Sub(t.CACTotal), t.CACTotal)
	return t
}
