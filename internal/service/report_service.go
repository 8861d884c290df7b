package service

import (
	"bytes"
	"context"
	_ "embed"
	"html/template"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/anyulbade/affiliate-analytics-dashboard/internal/analytics"
	"github.com/anyulbade/affiliate-analytics-dashboard/internal/dto"
)

//go:embed templates/report.html
var reportTemplate string

const defaultTopAffiliates = 10

type ReportService struct {
	source ResultSource
}

func NewReportService(source ResultSource) *ReportService {
	return &ReportService{source: source}
}

type ReportData struct {
	GeneratedAt   string                       `json:"generated_at"`
	From          string                       `json:"date_from,omitempty"`
	To            string                       `json:"date_to,omitempty"`
	Totals        analytics.Totals             `json:"totals"`
	Cohorts       []analytics.CohortSummary    `json:"cohorts"`
	CohortTrend   TrendSummary                 `json:"cohort_trend"`
	TopAffiliates []analytics.AffiliateSummary `json:"top_affiliates"`
	Suspicious    []analytics.AffiliateSummary `json:"suspicious"`
}

func (s *ReportService) GenerateReport(ctx context.Context, w dto.Window, top int) (*ReportData, error) {
	if top < 1 {
		top = defaultTopAffiliates
	}

	res, err := s.source.Compute(ctx, w)
	if err != nil {
		return nil, err
	}

	data := &ReportData{
		GeneratedAt:   time.Now().Format("2006-01-02 15:04:05 MST"),
		Totals:        res.Totals,
		Cohorts:       res.Cohorts,
		CohortTrend:   CohortTrend(res.Cohorts, "roi"),
		TopAffiliates: topByNGR(res.Affiliates, top),
		Suspicious:    res.Suspicious,
	}
	if w.From != nil {
		data.From = w.From.Format("2006-01-02")
	}
	if w.To != nil {
		data.To = w.To.Format("2006-01-02")
	}
	return data, nil
}

func topByNGR(affiliates []analytics.AffiliateSummary, n int) []analytics.AffiliateSummary {
	out := make([]analytics.AffiliateSummary, len(affiliates))
	copy(out, affiliates)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].NGRTotal.GreaterThan(out[j].NGRTotal)
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

func (s *ReportService) RenderHTML(data *ReportData) (string, error) {
	funcMap := template.FuncMap{
		"toLower": strings.ToLower,
		"money":   func(d decimal.Decimal) string { return d.StringFixed(2) },
		"percent": func(d decimal.Decimal) string { return d.Shift(2).StringFixed(1) + "%" },
		"negative": func(d decimal.Decimal) bool {
			return d.IsNegative()
		},
	}

	tmpl, err := template.New("report").Funcs(funcMap).Parse(reportTemplate)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}

	return buf.String(), nil
}
