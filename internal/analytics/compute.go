package analytics

// ComputeAll runs every stage in dependency order: NGR, CPA attribution,
// REV, affiliate rollup with loss-guard, cohorts, fraud scores and totals.
func ComputeAll(ds Dataset) Result {
	ngr := accumulateNGR(ds.Transactions)
	attr := mapCPA(ds.Payments)
	rev := computeRev(attr.latest, ngr)

	book := aggregateAffiliates(ds.Payments, attr, ngr, rev)
	affiliates := summarizeAffiliates(book, ngr)

	return Result{
		Cohorts:    buildCohorts(attr, ngr, rev),
		Affiliates: affiliates,
		Totals:     buildTotals(ds, ngr, attr, book),
		Suspicious: selectSuspicious(affiliates),
	}
}
