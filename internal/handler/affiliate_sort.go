package handler

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/anyulbade/affiliate-analytics-dashboard/internal/analytics"
)

type affiliateKey func(a, b *analytics.AffiliateSummary) int

func byDecimal(get func(*analytics.AffiliateSummary) decimal.Decimal) affiliateKey {
	return func(a, b *analytics.AffiliateSummary) int { return get(a).Cmp(get(b)) }
}

func byInt(get func(*analytics.AffiliateSummary) int) affiliateKey {
	return func(a, b *analytics.AffiliateSummary) int {
		switch x, y := get(a), get(b); {
		case x < y:
			return -1
		case x > y:
			return 1
		}
		return 0
	}
}

var affiliateSorts = map[string]affiliateKey{
	"afiliados_id":   func(a, b *analytics.AffiliateSummary) int { return strings.Compare(a.AfiliadosID, b.AfiliadosID) },
	"customers":      byInt(func(a *analytics.AffiliateSummary) int { return a.Customers }),
	"score":          byInt(func(a *analytics.AffiliateSummary) int { return a.Score }),
	"ngr_total":      byDecimal(func(a *analytics.AffiliateSummary) decimal.Decimal { return a.NGRTotal }),
	"cpa_total":      byDecimal(func(a *analytics.AffiliateSummary) decimal.Decimal { return a.CPATotal }),
	"rev_calculado":  byDecimal(func(a *analytics.AffiliateSummary) decimal.Decimal { return a.RevCalculado }),
	"total_recebido": byDecimal(func(a *analytics.AffiliateSummary) decimal.Decimal { return a.TotalRecebido }),
	"roi":            byDecimal(func(a *analytics.AffiliateSummary) decimal.Decimal { return a.ROI }),
	"rejected_rate":  byDecimal(func(a *analytics.AffiliateSummary) decimal.Decimal { return a.RejectedRate }),
}

func validAffiliateSort(field string) bool {
	_, ok := affiliateSorts[field]
	return ok
}

// sortAffiliates returns a sorted copy. Ties keep affiliate id order.
func sortAffiliates(in []analytics.AffiliateSummary, field string, desc bool) []analytics.AffiliateSummary {
	out := make([]analytics.AffiliateSummary, len(in))
	copy(out, in)

	cmp, ok := affiliateSorts[field]
	if !ok {
		return out
	}
	sort.SliceStable(out, func(i, j int) bool {
		c := cmp(&out[i], &out[j])
		if desc {
			return c > 0
		}
		return c < 0
	})
	return out
}
