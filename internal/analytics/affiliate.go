package analytics

import (
	"sort"

	"github.com/shopspring/decimal"
)

type affiliateAggregate struct {
	id               string
	ngr              decimal.Decimal
	cpa              decimal.Decimal
	rev              decimal.Decimal
	customers        map[string]struct{}
	paymentsTotal    int
	paymentsRejected int
	rejectedRate     decimal.Decimal
}

type affiliateBook map[string]*affiliateAggregate

func (b affiliateBook) get(id string) *affiliateAggregate {
	agg, ok := b[id]
	if !ok {
		agg = &affiliateAggregate{
			id:           id,
			ngr:          decimal.Zero,
			cpa:          decimal.Zero,
			rev:          decimal.Zero,
			customers:    make(map[string]struct{}),
			rejectedRate: decimal.Zero,
		}
		b[id] = agg
	}
	return agg
}

// sorted returns the aggregates ordered by affiliate id.
func (b affiliateBook) sorted() []*affiliateAggregate {
	out := make([]*affiliateAggregate, 0, len(b))
	for _, agg := range b {
		out = append(out, agg)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].id < out[j].id })
	return out
}

func aggregateAffiliates(payments []Payment, attr attribution, ngr, rev ledger) affiliateBook {
	book := make(affiliateBook)
	book.recordPayments(payments)
	book.distribute(attr.latest, ngr, rev)
	book.finalize()
	return book
}

// recordPayments is pass 1: payment bookkeeping over every row.
func (b affiliateBook) recordPayments(payments []Payment) {
	for _, p := range payments {
		agg := b.get(p.AfiliadosID)
		agg.paymentsTotal++
		if p.Status == StatusRejected {
			agg.paymentsRejected++
		}
		if p.Method == MethodCPA && p.Status == StatusFinish {
			agg.cpa = agg.cpa.Add(p.Value)
			if p.ClientesID != nil {
				agg.customers[*p.ClientesID] = struct{}{}
			}
		}
	}
}

// distribute is pass 2: each attributed customer's NGR and REV go to the
// affiliate holding its latest CPA payment.
func (b affiliateBook) distribute(latest map[string]Payment, ngr, rev ledger) {
	for customer, p := range latest {
		agg := b.get(p.AfiliadosID)
		agg.ngr = agg.ngr.Add(ngr.get(customer))
		agg.rev = agg.rev.Add(rev.get(customer))
	}
}

// finalize is pass 3. REV is forfeited when NGR does not cover CPA plus REV.
func (b affiliateBook) finalize() {
	for _, agg := range b {
		if agg.paymentsTotal > 0 {
			agg.rejectedRate = decimal.NewFromInt(int64(agg.paymentsRejected)).
				Div(decimal.NewFromInt(int64(agg.paymentsTotal)))
		}

		lucroBase := agg.ngr.Sub(agg.cpa).Sub(agg.rev)
		if lucroBase.IsNegative() {
			agg.rev = decimal.Zero
		}
	}
}

func (agg *affiliateAggregate) totalRecebido() decimal.Decimal {
	return agg.cpa.Add(agg.rev)
}

func (agg *affiliateAggregate) roi() decimal.Decimal {
	cost := agg.totalRecebido()
	return ratio(agg.ngr.Sub(cost), cost)
}

// ratio divides num by den, returning zero unless den is strictly positive.
func ratio(num, den decimal.Decimal) decimal.Decimal {
	if !den.IsPositive() {
		return decimal.Zero
	}
	return num.Div(den)
}

func summarizeAffiliates(book affiliateBook, ngr ledger) []AffiliateSummary {
	aggs := book.sorted()
	out := make([]AffiliateSummary, 0, len(aggs))
	for _, agg := range aggs {
		score, flags := scoreAffiliate(agg, ngr)
		out = append(out, AffiliateSummary{
			AfiliadosID:   agg.id,
			Customers:     len(agg.customers),
			NGRTotal:      agg.ngr,
			CPATotal:      agg.cpa,
			RevCalculado:  agg.rev,
			TotalRecebido: agg.totalRecebido(),
			ROI:           agg.roi(),
			Score:         score,
			RejectedRate:  agg.rejectedRate,
			RiskTier:      RiskTier(score),
			RiskFlags:     flags,
		})
	}
	return out
}
