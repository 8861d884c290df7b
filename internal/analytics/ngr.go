package analytics

import "github.com/shopspring/decimal"

var ngrFactor = decimal.RequireFromString("0.8")

// ledger sums decimal amounts per key. Absent keys read as zero.
type ledger map[string]decimal.Decimal

func (l ledger) get(key string) decimal.Decimal {
	if v, ok := l[key]; ok {
		return v
	}
	return decimal.Zero
}

func (l ledger) add(key string, v decimal.Decimal) {
	l[key] = l.get(key).Add(v)
}

func (l ledger) sum() decimal.Decimal {
	total := decimal.Zero
	for _, v := range l {
		total = total.Add(v)
	}
	return total
}

// NGR returns the net gaming revenue contributed by a single transaction row.
func NGR(t Transaction) decimal.Decimal {
	return t.GGR.Sub(t.Chargeback).Mul(ngrFactor)
}

func accumulateNGR(txns []Transaction) ledger {
	ngr := make(ledger)
	for _, t := range txns {
		ngr.add(t.CustomerID, NGR(t))
	}
	return ngr
}
