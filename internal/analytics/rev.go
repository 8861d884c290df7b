package analytics

import "github.com/shopspring/decimal"

const DefaultClassification = "Jogador"

var revShare = map[string]decimal.Decimal{
	"Jogador":      decimal.RequireFromString("0.05"),
	"Iniciante":    decimal.RequireFromString("0.10"),
	"Regular":      decimal.RequireFromString("0.20"),
	"Profissional": decimal.RequireFromString("0.30"),
	"Elite":        decimal.RequireFromString("0.40"),
	"Expert":       decimal.RequireFromString("0.50"),
	"Mestre":       decimal.RequireFromString("0.60"),
	"Lendário":     decimal.RequireFromString("0.70"),
}

// RevPercent returns the revenue-share fraction for an affiliate tier.
// Unknown tiers get the Jogador share.
func RevPercent(classification string) decimal.Decimal {
	if pct, ok := revShare[classification]; ok {
		return pct
	}
	return revShare[DefaultClassification]
}

// Classifications lists the known tiers from lowest to highest share.
func Classifications() []string {
	return []string{"Jogador", "Iniciante", "Regular", "Profissional", "Elite", "Expert", "Mestre", "Lendário"}
}

// computeRev derives REV from lifetime NGR and the tier on the customer's
// latest CPA payment. rev-method payment rows are never read here.
func computeRev(latest map[string]Payment, ngr ledger) ledger {
	rev := make(ledger, len(latest))
	for customer, p := range latest {
		rev[customer] = ngr.get(customer).Mul(RevPercent(p.Classification))
	}
	return rev
}
