package dto

import (
	"errors"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
)

var ErrInvalidWindow = errors.New("invalid date window")

// Window bounds a dashboard query to [From, To). A nil bound is open.
type Window struct {
	From *time.Time
	To   *time.Time
}

// ParseWindow reads date_from and date_to. Date-only values are taken in loc;
// a date-only date_to includes that whole day.
func ParseWindow(c *gin.Context, loc *time.Location) (Window, error) {
	var w Window

	from, _, err := parseBound(c.Query("date_from"), loc)
	if err != nil {
		return w, fmt.Errorf("%w: date_from: %v", ErrInvalidWindow, err)
	}
	to, dateOnly, err := parseBound(c.Query("date_to"), loc)
	if err != nil {
		return w, fmt.Errorf("%w: date_to: %v", ErrInvalidWindow, err)
	}
	if to != nil && dateOnly {
		next := to.AddDate(0, 0, 1)
		to = &next
	}
	if from != nil && to != nil && !from.Before(*to) {
		return w, fmt.Errorf("%w: date_from must be before date_to", ErrInvalidWindow)
	}

	w.From, w.To = from, to
	return w, nil
}

func parseBound(s string, loc *time.Location) (*time.Time, bool, error) {
	if s == "" {
		return nil, false, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return &t, false, nil
	}
	t, err := time.ParseInLocation("2006-01-02", s, loc)
	if err != nil {
		return nil, false, fmt.Errorf("expected RFC3339 or YYYY-MM-DD, got %q", s)
	}
	return &t, true, nil
}

// Key identifies the window in the result cache.
func (w Window) Key() string {
	return bound(w.From) + "_" + bound(w.To)
}

func bound(t *time.Time) string {
	if t == nil {
		return "open"
	}
	return t.UTC().Format(time.RFC3339)
}
