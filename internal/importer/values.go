package importer

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/anyulbade/affiliate-analytics-dashboard/internal/analytics"
)

var (
	errInvalidAmount = errors.New("invalid amount")
	errInvalidDate   = errors.New("invalid date")
)

var currencyPrefixes = []string{"R$", "US$", "$", "BRL"}

// parseAmount accepts plain numbers, "1.234,56", "1,234.56" and currency
// prefixes. With a single kind of separator, one occurrence is the decimal
// mark and repeated occurrences are thousands separators. Blank is zero.
func parseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(strings.ReplaceAll(s, "\u00a0", " "))
	for _, p := range currencyPrefixes {
		if strings.HasPrefix(strings.ToUpper(s), p) {
			s = strings.TrimSpace(s[len(p):])
			break
		}
	}
	s = strings.ReplaceAll(s, " ", "")
	if s == "" || s == "-" {
		return decimal.Zero, nil
	}

	lastDot := strings.LastIndex(s, ".")
	lastComma := strings.LastIndex(s, ",")
	switch {
	case lastDot >= 0 && lastComma >= 0:
		if lastComma > lastDot {
			s = strings.ReplaceAll(s, ".", "")
			s = strings.Replace(s, ",", ".", 1)
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	case lastComma >= 0:
		if strings.Count(s, ",") > 1 {
			s = strings.ReplaceAll(s, ",", "")
		} else {
			s = strings.Replace(s, ",", ".", 1)
		}
	case strings.Count(s, ".") > 1:
		s = strings.ReplaceAll(s, ".", "")
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, errInvalidAmount
	}
	return d, nil
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"02/01/2006",
	"02/01/2006 15:04",
	"02/01/2006 15:04:05",
}

// parseDate reads ISO, RFC3339, DD/MM/YYYY and Excel serial dates. Values
// without a zone are taken in loc.
func parseDate(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, errInvalidDate
	}

	if serial, err := strconv.ParseFloat(s, 64); err == nil {
		if serial < 1 || serial > 2958465 {
			return time.Time{}, errInvalidDate
		}
		t, err := excelize.ExcelDateToTime(serial, false)
		if err != nil {
			return time.Time{}, errInvalidDate
		}
		return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, loc), nil
	}

	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errInvalidDate
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// CanonicalClassification maps "lendario" or "ELITE" to the known tier label.
// Unknown labels pass through unchanged, blank becomes the default tier.
func CanonicalClassification(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return analytics.DefaultClassification
	}
	key := normalizeHeader(s)
	for _, c := range analytics.Classifications() {
		if normalizeHeader(c) == key {
			return c
		}
	}
	return s
}

func parseLevel(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 1, true
	}
	f, err := strconv.ParseFloat(strings.Replace(s, ",", ".", 1), 64)
	if err != nil || f != float64(int(f)) {
		return 0, false
	}
	level := int(f)
	return level, level >= 1 && level <= 5
}
