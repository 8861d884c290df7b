// Package analytics computes cohort, affiliate, fraud-suspicion and total
// metrics over a snapshot of transactions and affiliate payments.
//
// The computation is pure: ComputeAll performs no I/O, keeps no state between
// calls and returns the same Result for the same Dataset.
package analytics

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	MethodCPA = "cpa"
	MethodREV = "rev"

	StatusFinish   = "finish"
	StatusRejected = "rejected"
)

// Transaction is one deposit/withdrawal row for a customer on a given day.
type Transaction struct {
	CustomerID string
	Date       time.Time
	GGR        decimal.Decimal
	Chargeback decimal.Decimal
	Deposit    decimal.Decimal
	Withdrawal decimal.Decimal
}

// Payment is one commission event paid to an affiliate. ClientesID is nil
// for payments that are not linked to an end customer.
type Payment struct {
	ClientesID     *string
	AfiliadosID    string
	Date           time.Time
	Value          decimal.Decimal
	Method         string
	Status         string
	Classification string
	Level          int
}

// Dataset is the complete, materialized input of ComputeAll.
type Dataset struct {
	Transactions []Transaction
	Payments     []Payment
}

type CohortSummary struct {
	WeekStart time.Time       `json:"week_start"`
	Customers int             `json:"customers"`
	CACCPA    decimal.Decimal `json:"cac_cpa"`
	CACREV    decimal.Decimal `json:"cac_rev"`
	CACTotal  decimal.Decimal `json:"cac_total"`
	LTVTotal  decimal.Decimal `json:"ltv_total"`
	ROI       decimal.Decimal `json:"roi"`
}

type AffiliateSummary struct {
	AfiliadosID   string          `json:"afiliados_id"`
	Customers     int             `json:"customers"`
	NGRTotal      decimal.Decimal `json:"ngr_total"`
	CPATotal      decimal.Decimal `json:"cpa_total"`
	RevCalculado  decimal.Decimal `json:"rev_calculado"`
	TotalRecebido decimal.Decimal `json:"total_recebido"`
	ROI           decimal.Decimal `json:"roi"`
	Score         int             `json:"score"`
	RejectedRate  decimal.Decimal `json:"rejected_rate"`
	RiskTier      string          `json:"risk_tier"`
	RiskFlags     []string        `json:"risk_flags"`
}

type Totals struct {
	TotalCustomers   int             `json:"total_customers"`
	TotalAffiliates  int             `json:"total_affiliates"`
	CACTotal         decimal.Decimal `json:"cac_total"`
	LTVTotal         decimal.Decimal `json:"ltv_total"`
	ROI              decimal.Decimal `json:"roi"`
	TotalDeposits    decimal.Decimal `json:"total_deposits"`
	TotalWithdrawals decimal.Decimal `json:"total_withdrawals"`
	PaymentsTotal    int             `json:"payments_total"`
	PaymentsByStatus map[string]int  `json:"payments_by_status"`
}

type Result struct {
	Cohorts    []CohortSummary    `json:"cohorts"`
	Affiliates []AffiliateSummary `json:"affiliates"`
	Totals     Totals             `json:"totals"`
	Suspicious []AffiliateSummary `json:"suspicious"`
}
