package importer

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/anyulbade/affiliate-analytics-dashboard/internal/analytics"
	"github.com/anyulbade/affiliate-analytics-dashboard/internal/model"
)

// MaxRowErrors caps how many row errors a single file reports.
const MaxRowErrors = 50

// RowError points at a bad cell. Row is the 1-based spreadsheet row number.
type RowError struct {
	Row     int    `json:"row"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ParseError rejects a whole file.
type ParseError struct {
	Errors []RowError
}

func (e *ParseError) Error() string {
	if len(e.Errors) == 0 {
		return "invalid file"
	}
	first := e.Errors[0]
	if len(e.Errors) == 1 {
		return fmt.Sprintf("row %d: %s: %s", first.Row, first.Field, first.Message)
	}
	return fmt.Sprintf("row %d: %s: %s (and %d more)", first.Row, first.Field, first.Message, len(e.Errors)-1)
}

type Parser struct {
	loc *time.Location
}

func NewParser(loc *time.Location) *Parser {
	if loc == nil {
		loc = time.UTC
	}
	return &Parser{loc: loc}
}

type sheet struct {
	rows   [][]string
	start  int
	index  map[string]int
	errors []RowError
}

func newSheet(rows [][]string, specs []columnSpec) (*sheet, error) {
	start := 0
	for start < len(rows) && isBlank(rows[start]) {
		start++
	}
	if start >= len(rows) {
		return nil, ErrEmptyFile
	}

	index, missing := columnIndex(rows[start], specs)
	if len(missing) > 0 {
		errs := make([]RowError, 0, len(missing))
		for _, name := range missing {
			errs = append(errs, RowError{Row: start + 1, Field: name, Message: "missing column"})
		}
		return nil, &ParseError{Errors: errs}
	}
	return &sheet{rows: rows, start: start, index: index}, nil
}

// each calls fn for every non-blank data row with its spreadsheet row number.
func (s *sheet) each(fn func(rowNum int, row []string)) {
	for i := s.start + 1; i < len(s.rows); i++ {
		if isBlank(s.rows[i]) {
			continue
		}
		fn(i+1, s.rows[i])
	}
}

func (s *sheet) cell(row []string, col string) string {
	i, ok := s.index[col]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func (s *sheet) fail(rowNum int, col, msg string) {
	if len(s.errors) < MaxRowErrors {
		s.errors = append(s.errors, RowError{Row: rowNum, Field: col, Message: msg})
	}
}

func (s *sheet) err() error {
	if len(s.errors) == 0 {
		return nil
	}
	return &ParseError{Errors: s.errors}
}

func (s *sheet) amount(rowNum int, row []string, col string, nonNegative bool) decimal.Decimal {
	d, err := parseAmount(s.cell(row, col))
	if err != nil {
		s.fail(rowNum, col, err.Error())
		return decimal.Zero
	}
	if nonNegative && d.IsNegative() {
		s.fail(rowNum, col, "must not be negative")
		return decimal.Zero
	}
	return d
}

func (p *Parser) date(s *sheet, rowNum int, row []string) time.Time {
	t, err := parseDate(s.cell(row, colDate), p.loc)
	if err != nil {
		s.fail(rowNum, colDate, err.Error())
	}
	return t
}

// ParseTransactions maps rows to transactions. Any bad row rejects the file
// with a *ParseError.
func (p *Parser) ParseTransactions(rows [][]string) ([]*model.Transaction, error) {
	s, err := newSheet(rows, transactionColumns)
	if err != nil {
		return nil, err
	}

	var txns []*model.Transaction
	s.each(func(rowNum int, row []string) {
		customer := s.cell(row, colCustomerID)
		if customer == "" {
			s.fail(rowNum, colCustomerID, "required")
		}

		txns = append(txns, &model.Transaction{
			CustomerID: customer,
			Date:       startOfDay(p.date(s, rowNum, row)),
			GGR:        s.amount(rowNum, row, colGGR, true),
			Chargeback: s.amount(rowNum, row, colChargeback, true),
			Deposit:    s.amount(rowNum, row, colDeposit, true),
			Withdrawal: s.amount(rowNum, row, colWithdrawal, true),
		})
	})

	if err := s.err(); err != nil {
		return nil, err
	}
	return txns, nil
}

// ParsePayments maps rows to payments. method and status are lower-cased,
// level defaults to 1 and a blank clientes_id means no linked customer.
func (p *Parser) ParsePayments(rows [][]string) ([]*model.Payment, error) {
	s, err := newSheet(rows, paymentColumns)
	if err != nil {
		return nil, err
	}

	var payments []*model.Payment
	s.each(func(rowNum int, row []string) {
		affiliate := s.cell(row, colAfiliadosID)
		if affiliate == "" {
			s.fail(rowNum, colAfiliadosID, "required")
		}

		method := strings.ToLower(s.cell(row, colMethod))
		if method != analytics.MethodCPA && method != analytics.MethodREV {
			s.fail(rowNum, colMethod, "must be cpa or rev")
		}

		status := strings.ToLower(s.cell(row, colStatus))
		if status == "" {
			s.fail(rowNum, colStatus, "required")
		}

		level, ok := parseLevel(s.cell(row, colLevel))
		if !ok {
			s.fail(rowNum, colLevel, "must be an integer from 1 to 5")
		}

		var clientes *string
		if c := s.cell(row, colClientesID); c != "" {
			clientes = &c
		}

		payments = append(payments, &model.Payment{
			ClientesID:     clientes,
			AfiliadosID:    affiliate,
			Date:           p.date(s, rowNum, row),
			Value:          s.amount(rowNum, row, colValue, false),
			Method:         method,
			Status:         status,
			Classification: CanonicalClassification(s.cell(row, colClassification)),
			Level:          level,
		})
	})

	if err := s.err(); err != nil {
		return nil, err
	}
	return payments, nil
}
