package analytics

import "time"

// attribution holds, per customer, the cohort anchor (first qualifying CPA
// date), the current attribution (latest qualifying CPA payment) and the sum
// of qualifying CPA values paid for that customer.
type attribution struct {
	firstDate map[string]time.Time
	latest    map[string]Payment
	cpaPaid   ledger
}

func isQualifyingCPA(p Payment) bool {
	return p.Status == StatusFinish && p.Method == MethodCPA && p.ClientesID != nil
}

// mapCPA only replaces a stored date on a strictly earlier (first) or strictly
// later (latest) payment, so ties keep the row seen first.
func mapCPA(payments []Payment) attribution {
	a := attribution{
		firstDate: make(map[string]time.Time),
		latest:    make(map[string]Payment),
		cpaPaid:   make(ledger),
	}

	for _, p := range payments {
		if !isQualifyingCPA(p) {
			continue
		}
		customer := *p.ClientesID

		if first, ok := a.firstDate[customer]; !ok || p.Date.Before(first) {
			a.firstDate[customer] = p.Date
		}
		if latest, ok := a.latest[customer]; !ok || p.Date.After(latest.Date) {
			a.latest[customer] = p
		}
		a.cpaPaid.add(customer, p.Value)
	}

	return a
}
