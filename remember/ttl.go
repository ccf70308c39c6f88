package remember

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidTTLExpression is returned when a lifetime expression cannot be
// parsed.
var ErrInvalidTTLExpression = errors.New("remember: invalid ttl expression")

const (
	day  = 24 * time.Hour
	week = 7 * day
	// Calendar-approximate units, matching common session framework defaults.
	month = 30 * day
	year  = 365 * day
)

var ttlUnits = map[string]time.Duration{
	"second": time.Second, "seconds": time.Second, "sec": time.Second, "secs": time.Second,
	"minute": time.Minute, "minutes": time.Minute, "min": time.Minute, "mins": time.Minute,
	"hour": time.Hour, "hours": time.Hour, "hr": time.Hour, "hrs": time.Hour,
	"day": day, "days": day, "d": day,
	"week": week, "weeks": week, "w": week,
	"month": month, "months": month,
	"year": year, "years": year, "y": year,
}

// ParseTTL parses a token lifetime expression. It accepts Go duration syntax
// ("720h", "90m") as well as human-readable relative values ("2 years",
// "30 days", "1 week"). The result must be positive.
func ParseTTL(expr string) (time.Duration, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return 0, ErrInvalidTTLExpression
	}

	if d, err := time.ParseDuration(expr); err == nil {
		if d <= 0 {
			return 0, fmt.Errorf("%w: %q is not positive", ErrInvalidTTLExpression, expr)
		}
		return d, nil
	}

	fields := strings.Fields(strings.ToLower(expr))

	var amount, unit string
	switch len(fields) {
	case 1:
		amount, unit = splitAmountUnit(fields[0])
	case 2:
		amount, unit = fields[0], fields[1]
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidTTLExpression, expr)
	}

	base, ok := ttlUnits[unit]
	if !ok {
		return 0, fmt.Errorf("%w: unknown unit in %q", ErrInvalidTTLExpression, expr)
	}

	n, err := strconv.ParseInt(amount, 10, 64)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTTLExpression, expr)
	}

	return time.Duration(n) * base, nil
}

func splitAmountUnit(s string) (string, string) {
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	return s[:i], s[i:]
}
