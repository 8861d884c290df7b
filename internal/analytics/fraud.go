package analytics

import (
	"sort"

	"github.com/shopspring/decimal"
)

const (
	SuspiciousScore = 51
	SuspiciousLimit = 20
	MaxScore        = 100
)

const (
	RiskLow    = "low"
	RiskMedium = "medium"
	RiskHigh   = "high"
)

const (
	FlagHighRejectionRate = "high_rejection_rate"
	FlagNegativeROI       = "negative_roi"
	FlagLowLTVPerCustomer = "low_ltv_per_customer"
	FlagInactiveCustomers = "inactive_customers"
)

var (
	rejectedRateLimit = decimal.RequireFromString("0.20")
	roiFloor          = decimal.RequireFromString("-0.50")
	ltvPerCustomerMin = decimal.NewFromInt(50)
	inactivityLimit   = decimal.RequireFromString("0.80")
)

type riskInputs struct {
	rejectedRate   decimal.Decimal
	roi            decimal.Decimal
	ltvPerCustomer decimal.Decimal
	inactivity     decimal.Decimal
}

type riskSignal struct {
	flag   string
	points int
	fired  func(riskInputs) bool
}

var riskSignals = []riskSignal{
	{FlagHighRejectionRate, 30, func(in riskInputs) bool { return in.rejectedRate.GreaterThan(rejectedRateLimit) }},
	{FlagNegativeROI, 25, func(in riskInputs) bool { return in.roi.LessThan(roiFloor) }},
	{FlagLowLTVPerCustomer, 25, func(in riskInputs) bool { return in.ltvPerCustomer.LessThan(ltvPerCustomerMin) }},
	{FlagInactiveCustomers, 20, func(in riskInputs) bool { return in.inactivity.GreaterThan(inactivityLimit) }},
}

func scoreAffiliate(agg *affiliateAggregate, ngr ledger) (int, []string) {
	in := riskInputs{
		rejectedRate:   agg.rejectedRate,
		roi:            agg.roi(),
		ltvPerCustomer: decimal.Zero,
		inactivity:     decimal.Zero,
	}

	if n := len(agg.customers); n > 0 {
		size := decimal.NewFromInt(int64(n))
		in.ltvPerCustomer = agg.ngr.Div(size)

		inactive := 0
		for customer := range agg.customers {
			if !ngr.get(customer).IsPositive() {
				inactive++
			}
		}
		in.inactivity = decimal.NewFromInt(int64(inactive)).Div(size)
	}

	score := 0
	flags := []string{}
	for _, s := range riskSignals {
		if s.fired(in) {
			score += s.points
			flags = append(flags, s.flag)
		}
	}
	if score > MaxScore {
		score = MaxScore
	}
	return score, flags
}

// RiskTier buckets a suspicion score for display.
func RiskTier(score int) string {
	switch {
	case score >= SuspiciousScore:
		return RiskHigh
	case score > 30:
		return RiskMedium
	default:
		return RiskLow
	}
}

// selectSuspicious expects affiliates ordered by id so equal scores keep that order.
func selectSuspicious(affiliates []AffiliateSummary) []AffiliateSummary {
	out := make([]AffiliateSummary, 0)
	for _, a := range affiliates {
		if a.Score >= SuspiciousScore {
			out = append(out, a)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	if len(out) > SuspiciousLimit {
		out = out[:SuspiciousLimit]
	}
	return out
}
