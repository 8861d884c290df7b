package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/anyulbade/affiliate-analytics-dashboard/internal/analytics"
	"github.com/anyulbade/affiliate-analytics-dashboard/internal/cache"
	"github.com/anyulbade/affiliate-analytics-dashboard/internal/dto"
	"github.com/anyulbade/affiliate-analytics-dashboard/internal/metrics"
	"github.com/anyulbade/affiliate-analytics-dashboard/internal/model"
)

var tracer = otel.Tracer("affiliate-analytics")

const dashboardCachePrefix = "dashboard:v1:"

type TransactionSource interface {
	List(ctx context.Context, from, to *time.Time) ([]model.Transaction, error)
}

type PaymentSource interface {
	List(ctx context.Context, from, to *time.Time) ([]model.Payment, error)
}

type AnalyticsService struct {
	txns     TransactionSource
	payments PaymentSource
	cache    cache.Cache
	ttl      time.Duration
	loc      *time.Location
	metrics  *metrics.Metrics
}

func NewAnalyticsService(txns TransactionSource, payments PaymentSource, c cache.Cache, ttl time.Duration, loc *time.Location, m *metrics.Metrics) *AnalyticsService {
	if c == nil {
		c = cache.Noop{}
	}
	if loc == nil {
		loc = time.UTC
	}
	return &AnalyticsService{txns: txns, payments: payments, cache: c, ttl: ttl, loc: loc, metrics: m}
}

// Compute returns the dashboard for the window, served from cache when a
// previous computation for the same window is still fresh.
func (s *AnalyticsService) Compute(ctx context.Context, w dto.Window) (*analytics.Result, error) {
	key := dashboardCachePrefix + w.Key()
	ctx, span := tracer.Start(ctx, "analytics.compute", trace.WithAttributes(attribute.String("window", w.Key())))
	defer span.End()

	if res, ok := s.cached(ctx, key); ok {
		span.SetAttributes(attribute.Bool("cache_hit", true))
		return res, nil
	}

	ds, err := s.load(ctx, w)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	start := time.Now()
	res := analytics.ComputeAll(ds)
	elapsed := time.Since(start)
	s.metrics.ObserveCompute(elapsed.Seconds(), len(res.Suspicious))

	span.SetAttributes(
		attribute.Int("transactions", len(ds.Transactions)),
		attribute.Int("payments", len(ds.Payments)),
		attribute.Int("affiliates", len(res.Affiliates)),
	)
	zerolog.Ctx(ctx).Debug().
		Str("window", w.Key()).
		Int("transactions", len(ds.Transactions)).
		Int("payments", len(ds.Payments)).
		Int("cohorts", len(res.Cohorts)).
		Int("suspicious", len(res.Suspicious)).
		Dur("elapsed", elapsed).
		Msg("dashboard computed")

	s.store(ctx, key, &res)
	return &res, nil
}

// Invalidate drops every cached dashboard. Called after any write.
func (s *AnalyticsService) Invalidate(ctx context.Context) {
	if err := s.cache.DeletePrefix(ctx, dashboardCachePrefix); err != nil {
		log.Warn().Err(err).Msg("invalidate dashboard cache")
	}
}

func (s *AnalyticsService) load(ctx context.Context, w dto.Window) (analytics.Dataset, error) {
	ctx, span := tracer.Start(ctx, "analytics.load")
	defer span.End()

	g, gctx := errgroup.WithContext(ctx)

	var txns []model.Transaction
	var payments []model.Payment

	g.Go(func() error {
		var err error
		txns, err = s.txns.List(gctx, w.From, w.To)
		if err != nil {
			return fmt.Errorf("load transactions: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		var err error
		payments, err = s.payments.List(gctx, w.From, w.To)
		if err != nil {
			return fmt.Errorf("load payments: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return analytics.Dataset{}, err
	}

	ds := analytics.Dataset{
		Transactions: make([]analytics.Transaction, len(txns)),
		Payments:     make([]analytics.Payment, len(payments)),
	}
	for i, t := range txns {
		at := t.Analytics()
		at.Date = t.Date.In(s.loc)
		ds.Transactions[i] = at
	}
	for i, p := range payments {
		ap := p.Analytics()
		ap.Date = p.Date.In(s.loc)
		ds.Payments[i] = ap
	}
	return ds, nil
}

func (s *AnalyticsService) cached(ctx context.Context, key string) (*analytics.Result, bool) {
	data, err := s.cache.Get(ctx, key)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("cache get failed")
		s.metrics.ObserveCache("error")
		return nil, false
	}
	if data == nil {
		s.metrics.ObserveCache("miss")
		return nil, false
	}

	var res analytics.Result
	if err := json.Unmarshal(data, &res); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("discarding unreadable cache entry")
		s.metrics.ObserveCache("error")
		return nil, false
	}
	s.metrics.ObserveCache("hit")
	return &res, true
}

func (s *AnalyticsService) store(ctx context.Context, key string, res *analytics.Result) {
	data, err := json.Marshal(res)
	if err != nil {
		log.Warn().Err(err).Msg("encode dashboard for cache")
		return
	}
	if err := s.cache.Set(ctx, key, data, s.ttl); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("cache set failed")
	}
}
