package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/anyulbade/affiliate-analytics-dashboard/internal/analytics"
)

const (
	KindTransactions = "transactions"
	KindPayments     = "payments"
)

type ImportBatch struct {
	ID        uuid.UUID `json:"id"`
	Kind      string    `json:"kind"`
	Filename  string    `json:"filename"`
	RowCount  int       `json:"row_count"`
	CreatedAt time.Time `json:"created_at"`
}

type Transaction struct {
	ID         int64           `json:"id"`
	CustomerID string          `json:"customer_id"`
	Date       time.Time       `json:"date"`
	GGR        decimal.Decimal `json:"ggr"`
	Chargeback decimal.Decimal `json:"chargeback"`
	Deposit    decimal.Decimal `json:"deposit"`
	Withdrawal decimal.Decimal `json:"withdrawal"`
	BatchID    *uuid.UUID      `json:"batch_id,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
}

func (t Transaction) Analytics() analytics.Transaction {
	return analytics.Transaction{
		CustomerID: t.CustomerID,
		Date:       t.Date,
		GGR:        t.GGR,
		Chargeback: t.Chargeback,
		Deposit:    t.Deposit,
		Withdrawal: t.Withdrawal,
	}
}

type Payment struct {
	ID             int64           `json:"id"`
	ClientesID     *string         `json:"clientes_id"`
	AfiliadosID    string          `json:"afiliados_id"`
	Date           time.Time       `json:"date"`
	Value          decimal.Decimal `json:"value"`
	Method         string          `json:"method"`
	Status         string          `json:"status"`
	Classification string          `json:"classification"`
	Level          int             `json:"level"`
	BatchID        *uuid.UUID      `json:"batch_id,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}

func (p Payment) Analytics() analytics.Payment {
	return analytics.Payment{
		ClientesID:     p.ClientesID,
		AfiliadosID:    p.AfiliadosID,
		Date:           p.Date,
		Value:          p.Value,
		Method:         p.Method,
		Status:         p.Status,
		Classification: p.Classification,
		Level:          p.Level,
	}
}
