package service

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/anyulbade/affiliate-analytics-dashboard/internal/analytics"
	"github.com/anyulbade/affiliate-analytics-dashboard/internal/dto"
)

// ResultSource produces the dashboard for a window.
type ResultSource interface {
	Compute(ctx context.Context, w dto.Window) (*analytics.Result, error)
}

var ErrUnknownMetric = errors.New("unknown cohort metric")

var CohortMetrics = []string{"roi", "ltv_total", "cac_total", "customers"}

type TrendService struct {
	source ResultSource
}

func NewTrendService(source ResultSource) *TrendService {
	return &TrendService{source: source}
}

type TrendPoint struct {
	Period           string  `json:"period"`
	Value            float64 `json:"value"`
	PreviousValue    float64 `json:"previous_value,omitempty"`
	AbsoluteChange   float64 `json:"absolute_change"`
	PercentageChange float64 `json:"percentage_change"`
	Direction        string  `json:"direction,omitempty"`
}

type TrendSummary struct {
	Metric       string       `json:"metric"`
	Points       []TrendPoint `json:"points"`
	OverallTrend string       `json:"overall_trend"`
	Slope        float64      `json:"slope"`
	RSquared     float64      `json:"r_squared"`
}

func ValidCohortMetric(metric string) bool {
	for _, m := range CohortMetrics {
		if m == metric {
			return true
		}
	}
	return false
}

func (s *TrendService) GetCohortTrend(ctx context.Context, w dto.Window, metric string) (*TrendSummary, error) {
	if metric == "" {
		metric = "roi"
	}
	if !ValidCohortMetric(metric) {
		return nil, fmt.Errorf("%w %q", ErrUnknownMetric, metric)
	}

	res, err := s.source.Compute(ctx, w)
	if err != nil {
		return nil, err
	}

	summary := CohortTrend(res.Cohorts, metric)
	return &summary, nil
}

// CohortTrend reads week-over-week changes of one metric off cohorts that are
// already sorted by week.
func CohortTrend(cohorts []analytics.CohortSummary, metric string) TrendSummary {
	values := cohortValues(cohorts, metric)

	points := make([]TrendPoint, len(values))
	for i, v := range values {
		tp := TrendPoint{
			Period: cohorts[i].WeekStart.Format("2006-01-02"),
			Value:  v,
		}
		if i > 0 {
			tp.PreviousValue = values[i-1]
			tp.AbsoluteChange = v - values[i-1]
			if values[i-1] != 0 {
				tp.PercentageChange = math.Round(tp.AbsoluteChange/math.Abs(values[i-1])*10000) / 100
			}
			if math.Abs(tp.PercentageChange) < 1 && (values[i-1] != 0 || tp.AbsoluteChange == 0) {
				tp.Direction = "FLAT"
			} else if tp.AbsoluteChange > 0 {
				tp.Direction = "UP"
			} else {
				tp.Direction = "DOWN"
			}
		}
		points[i] = tp
	}

	slope, r2 := linearRegression(values)
	overall := "VOLATILE"
	if len(values) >= 2 && r2 >= 0.5 {
		switch {
		case slope > 0:
			overall = "GROWING"
		case slope < 0:
			overall = "DECLINING"
		default:
			overall = "FLAT"
		}
	}

	return TrendSummary{
		Metric:       metric,
		Points:       points,
		OverallTrend: overall,
		Slope:        math.Round(slope*100) / 100,
		RSquared:     math.Round(r2*10000) / 10000,
	}
}

func cohortValues(cohorts []analytics.CohortSummary, metric string) []float64 {
	values := make([]float64, len(cohorts))
	for i, c := range cohorts {
		switch metric {
		case "ltv_total":
			values[i] = c.LTVTotal.InexactFloat64()
		case "cac_total":
			values[i] = c.CACTotal.InexactFloat64()
		case "customers":
			values[i] = float64(c.Customers)
		default:
			values[i] = c.ROI.InexactFloat64()
		}
	}
	return values
}

func linearRegression(values []float64) (slope, rSquared float64) {
	n := float64(len(values))
	if n < 2 {
		return 0, 0
	}

	var sumX, sumY, sumXY, sumX2 float64
	for i, v := range values {
		x := float64(i)
		sumX += x
		sumY += v
		sumXY += x * v
		sumX2 += x * x
	}

	denom := n*sumX2 - sumX*sumX
	if denom == 0 {
		return 0, 0
	}

	slope = (n*sumXY - sumX*sumY) / denom
	intercept := (sumY - slope*sumX) / n

	meanY := sumY / n
	var ssRes, ssTot float64
	for i, v := range values {
		predicted := slope*float64(i) + intercept
		ssRes += (v - predicted) * (v - predicted)
		ssTot += (v - meanY) * (v - meanY)
	}

	if ssTot == 0 {
		return slope, 1.0
	}
	return slope, 1 - ssRes/ssTot
}
