package service

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anyulbade/affiliate-analytics-dashboard/internal/dto"
	"github.com/anyulbade/affiliate-analytics-dashboard/internal/importer"
	"github.com/anyulbade/affiliate-analytics-dashboard/internal/metrics"
	"github.com/anyulbade/affiliate-analytics-dashboard/internal/model"
)

type importFixture struct {
	svc      *ImportService
	txns     *fakeTransactions
	payments *fakePayments
	batches  *fakeBatches
	inv      *countingInvalidator
	metrics  *metrics.Metrics
}

func newImportFixture() *importFixture {
	f := &importFixture{
		txns:     &fakeTransactions{},
		payments: &fakePayments{},
		batches:  &fakeBatches{},
		inv:      &countingInvalidator{},
		metrics:  metrics.New(),
	}
	f.svc = NewImportService(f.txns, f.payments, f.batches, brt, f.inv, f.metrics)
	return f
}

func TestImportService_ImportTransactions(t *testing.T) {
	t.Run("happy: csv file becomes one batch", func(t *testing.T) {
		f := newImportFixture()
		csv := "Cliente;Data;GGR;Chargeback;Depósito;Saque\n" +
			"c1;06/01/2025;1.234,50;0;2.000,00;100\n" +
			"c2;2025-01-07;R$ 80,00;;50;0\n"

		var progressed int
		ib, err := f.svc.ImportTransactions(t.Context(), "janeiro.csv", strings.NewReader(csv), func(done, _ int) { progressed = done })
		require.NoError(t, err)

		assert.NotEqual(t, uuid.Nil, ib.ID)
		assert.Equal(t, model.KindTransactions, ib.Kind)
		assert.Equal(t, "janeiro.csv", ib.Filename)
		assert.Equal(t, 2, ib.RowCount)
		assert.Equal(t, 2, progressed)

		require.Len(t, f.txns.inserted, 2)
		assert.True(t, f.txns.inserted[0].GGR.Equal(dec("1234.50")))
		assert.True(t, f.txns.inserted[1].Chargeback.IsZero())
		assert.Equal(t, 1, f.inv.calls)
		assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.ImportsTotal.WithLabelValues(model.KindTransactions, "ok")))
	})

	t.Run("bad: bad rows reject the file", func(t *testing.T) {
		f := newImportFixture()
		csv := "customer_id,date,ggr,chargeback,deposit,withdrawal\n" +
			"c1,not-a-date,10,0,0,0\n" +
			",2025-01-07,-5,0,0,0\n"

		_, err := f.svc.ImportTransactions(t.Context(), "bad.csv", strings.NewReader(csv), nil)

		var pe *importer.ParseError
		require.ErrorAs(t, err, &pe)
		assert.Len(t, pe.Errors, 3)
		assert.Nil(t, f.txns.inserted)
		assert.Zero(t, f.inv.calls)
		assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.ImportsTotal.WithLabelValues(model.KindTransactions, "rejected")))
	})

	t.Run("bad: unsupported format", func(t *testing.T) {
		f := newImportFixture()
		_, err := f.svc.ImportTransactions(t.Context(), "report.pdf", strings.NewReader("%PDF-1.4"), nil)
		assert.ErrorIs(t, err, importer.ErrUnsupported)
	})

	t.Run("bad: store failure is wrapped", func(t *testing.T) {
		f := newImportFixture()
		f.txns.err = errors.New("disk full")
		csv := "customer_id,date,ggr,chargeback,deposit,withdrawal\nc1,2025-01-06,10,0,0,0\n"

		_, err := f.svc.ImportTransactions(t.Context(), "ok.csv", strings.NewReader(csv), nil)
		assert.ErrorContains(t, err, "store transactions")
		assert.Zero(t, f.inv.calls)
	})
}

func TestImportService_ImportPayments(t *testing.T) {
	f := newImportFixture()
	csv := "afiliados_id,clientes_id,date,value,method,status,classification,level\n" +
		"aff_1,c1,2025-01-06,100,CPA,Finish,lendario,5\n" +
		"aff_1,,2025-02-01,300,rev,pending,,\n"

	ib, err := f.svc.ImportPayments(t.Context(), "payments.csv", strings.NewReader(csv), nil)
	require.NoError(t, err)

	assert.Equal(t, model.KindPayments, ib.Kind)
	require.Len(t, f.payments.inserted, 2)

	first := f.payments.inserted[0]
	assert.Equal(t, "cpa", first.Method)
	assert.Equal(t, "finish", first.Status)
	assert.Equal(t, "Lendário", first.Classification)
	assert.Equal(t, 5, first.Level)

	second := f.payments.inserted[1]
	assert.Nil(t, second.ClientesID)
	assert.Equal(t, 1, second.Level)
}

func TestImportService_CreateTransactions(t *testing.T) {
	t.Run("happy: dates are truncated to the local day", func(t *testing.T) {
		f := newImportFixture()
		req := &dto.BatchTransactionRequest{Transactions: []dto.CreateTransactionRequest{
			{CustomerID: " c1 ", Date: time.Date(2025, 1, 7, 2, 0, 0, 0, time.UTC), GGR: dec("10")},
		}}

		ib, verrs, err := f.svc.CreateTransactions(t.Context(), req)
		require.NoError(t, err)
		assert.Empty(t, verrs)
		assert.Equal(t, "api", ib.Filename)

		require.Len(t, f.txns.inserted, 1)
		got := f.txns.inserted[0]
		assert.Equal(t, "c1", got.CustomerID)
		assert.Equal(t, time.Date(2025, 1, 6, 0, 0, 0, 0, brt), got.Date)
	})

	t.Run("bad: every invalid field is reported", func(t *testing.T) {
		f := newImportFixture()
		req := &dto.BatchTransactionRequest{Transactions: []dto.CreateTransactionRequest{
			{CustomerID: "c1", Date: time.Now(), GGR: dec("10")},
			{CustomerID: "  ", Date: time.Now(), Deposit: dec("-1"), Withdrawal: dec("-2")},
		}}

		ib, verrs, err := f.svc.CreateTransactions(t.Context(), req)
		require.NoError(t, err)
		assert.Nil(t, ib)
		require.Len(t, verrs, 3)
		assert.Equal(t, 1, verrs[0].Index)
		assert.Equal(t, "customer_id", verrs[0].Field)
		assert.Equal(t, "deposit", verrs[1].Field)
		assert.Equal(t, "withdrawal", verrs[2].Field)
		assert.Nil(t, f.txns.inserted)
	})
}

func TestImportService_CreatePayments(t *testing.T) {
	t.Run("happy: values are normalized", func(t *testing.T) {
		f := newImportFixture()
		req := &dto.BatchPaymentRequest{Payments: []dto.CreatePaymentRequest{
			{ClientesID: strPtr(" "), AfiliadosID: "aff_1", Date: time.Now(), Value: dec("10"), Method: "REV", Status: " Finish ", Classification: "ELITE"},
		}}

		_, verrs, err := f.svc.CreatePayments(t.Context(), req)
		require.NoError(t, err)
		assert.Empty(t, verrs)

		require.Len(t, f.payments.inserted, 1)
		p := f.payments.inserted[0]
		assert.Nil(t, p.ClientesID)
		assert.Equal(t, "rev", p.Method)
		assert.Equal(t, "finish", p.Status)
		assert.Equal(t, "Elite", p.Classification)
		assert.Equal(t, 1, p.Level)
		assert.Equal(t, 1, f.inv.calls)
	})

	t.Run("bad: unknown method", func(t *testing.T) {
		f := newImportFixture()
		req := &dto.BatchPaymentRequest{Payments: []dto.CreatePaymentRequest{
			{AfiliadosID: "aff_1", Date: time.Now(), Method: "bonus", Status: "finish"},
		}}

		_, verrs, err := f.svc.CreatePayments(t.Context(), req)
		require.NoError(t, err)
		require.Len(t, verrs, 1)
		assert.Equal(t, "method", verrs[0].Field)
		assert.Zero(t, f.inv.calls)
	})
}

func TestImportService_Batches(t *testing.T) {
	t.Run("happy: list uses page bounds", func(t *testing.T) {
		f := newImportFixture()
		f.batches.batches = []model.ImportBatch{{ID: uuid.New(), Kind: model.KindPayments}}

		items, total, err := f.svc.ListImports(t.Context(), dto.PaginationParams{Page: 3, PageSize: 10, Offset: 20})
		require.NoError(t, err)
		assert.Len(t, items, 1)
		assert.Equal(t, 1, total)
		assert.Equal(t, 10, f.batches.limit)
		assert.Equal(t, 20, f.batches.offset)
	})

	t.Run("happy: get by id", func(t *testing.T) {
		f := newImportFixture()
		id := uuid.New()
		f.batches.batches = []model.ImportBatch{{ID: uuid.New()}, {ID: id, Kind: model.KindTransactions, RowCount: 7}}

		ib, err := f.svc.GetImport(t.Context(), id)
		require.NoError(t, err)
		assert.Equal(t, 7, ib.RowCount)

		_, err = f.svc.GetImport(t.Context(), uuid.New())
		assert.ErrorIs(t, err, pgx.ErrNoRows)
	})

	t.Run("happy: delete invalidates", func(t *testing.T) {
		f := newImportFixture()
		id := uuid.New()

		kind, err := f.svc.DeleteImport(t.Context(), id)
		require.NoError(t, err)
		assert.Equal(t, model.KindPayments, kind)
		assert.Equal(t, []uuid.UUID{id}, f.batches.deleted)
		assert.Equal(t, 1, f.inv.calls)
	})

	t.Run("bad: delete failure is passed through", func(t *testing.T) {
		f := newImportFixture()
		f.batches.err = errors.New("not found")

		_, err := f.svc.DeleteImport(t.Context(), uuid.New())
		assert.Error(t, err)
		assert.Zero(t, f.inv.calls)
	})
}
