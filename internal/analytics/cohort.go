package analytics

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// StartOfWeek returns midnight of the Monday starting t's week, in t's location.
func StartOfWeek(t time.Time) time.Time {
	y, m, d := t.Date()
	offset := (int(t.Weekday()) + 6) % 7
	return time.Date(y, m, d-offset, 0, 0, 0, 0, t.Location())
}

func buildCohorts(attr attribution, ngr, rev ledger) []CohortSummary {
	byWeek := make(map[int64]*CohortSummary)

	for customer, first := range attr.firstDate {
		weekStart := StartOfWeek(first)
		key := weekStart.Unix()

		c, ok := byWeek[key]
		if !ok {
			c = &CohortSummary{
				WeekStart: weekStart,
				CACCPA:    decimal.Zero,
				CACREV:    decimal.Zero,
				LTVTotal:  decimal.Zero,
			}
			byWeek[key] = c
		}

		c.Customers++
		c.CACCPA = c.CACCPA.Add(attr.cpaPaid.get(customer))
		c.CACREV = c.CACREV.Add(rev.get(customer))
		c.LTVTotal = c.LTVTotal.Add(ngr.get(customer))
	}

	out := make([]CohortSummary, 0, len(byWeek))
	for _, c := range byWeek {
		c.CACTotal = c.CACCPA.Add(c.CACREV)
		c.ROI = ratio(c.LTVTotal.Sub(c.CACTotal), c.CACTotal)
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].WeekStart.Before(out[j].WeekStart) })
	return out
}
