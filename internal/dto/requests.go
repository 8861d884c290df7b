package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

type CreateTransactionRequest struct {
	CustomerID string          `json:"customer_id" binding:"required"`
	Date       time.Time       `json:"date" binding:"required"`
	GGR        decimal.Decimal `json:"ggr"`
	Chargeback decimal.Decimal `json:"chargeback"`
	Deposit    decimal.Decimal `json:"deposit"`
	Withdrawal decimal.Decimal `json:"withdrawal"`
}

type BatchTransactionRequest struct {
	Transactions []CreateTransactionRequest `json:"transactions" binding:"required,min=1,max=500,dive"`
}

type CreatePaymentRequest struct {
	ClientesID     *string         `json:"clientes_id"`
	AfiliadosID    string          `json:"afiliados_id" binding:"required"`
	Date           time.Time       `json:"date" binding:"required"`
	Value          decimal.Decimal `json:"value"`
	Method         string          `json:"method" binding:"required"`
	Status         string          `json:"status" binding:"required"`
	Classification string          `json:"classification"`
	Level          int             `json:"level" binding:"omitempty,min=1,max=5"`
}

type BatchPaymentRequest struct {
	Payments []CreatePaymentRequest `json:"payments" binding:"required,min=1,max=500,dive"`
}
