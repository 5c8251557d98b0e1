// Package threshold implements monitoring plugin range expressions and the
// classification of a measured value against them.
package threshold

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Range is a parsed range expression. By default Matches alerts when the
// value falls outside [Lower, Upper], a leading @ in the expression inverts
// that to alert on values inside the bounds.
//
// Grammar:
//
//	10      alert if value < 0 or > 10
//	10:     alert if value < 10
//	~:10    alert if value > 10
//	10:20   alert if value < 10 or > 20
//	@10:20  alert if 10 <= value <= 20
type Range struct {
	Lower  float64
	Upper  float64
	Invert bool
}

var (
	// ErrSyntax means the expression does not follow the range grammar
	ErrSyntax = errors.New("malformed range expression")

	// ErrBoundsOrder means the expression parsed but its start exceeds its
	// end, a distinct failure from bad syntax
	ErrBoundsOrder = errors.New("range start must not be greater than range end")
)

// ParseError reports why a range expression was rejected
type ParseError struct {
	Expr string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid range '%v': %v", e.Expr, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ParseRange parses a range expression. The zero bound conventions follow
// the monitoring plugin guidelines: a missing start is 0, a missing end is
// +Inf and ~ stands for -Inf.
func ParseRange(expr string) (*Range, error) {
	s := strings.TrimSpace(expr)
	r := &Range{Lower: 0, Upper: math.Inf(1)}

	if strings.HasPrefix(s, "@") {
		r.Invert = true
		s = s[1:]
	}
	if s == "" {
		return nil, &ParseError{Expr: expr, Err: ErrSyntax}
	}

	lower, upper, twoPart := strings.Cut(s, ":")
	if !twoPart {
		lower, upper = "", s
	}
	// At least one bound has to be written out, ":" and "~:" would otherwise
	// parse into ranges that never alert
	if upper == "" && (lower == "" || lower == "~") {
		return nil, &ParseError{Expr: expr, Err: ErrSyntax}
	}

	switch lower {
	case "":
	case "~":
		r.Lower = math.Inf(-1)
	default:
		v, err := strconv.ParseFloat(lower, 64)
		if err != nil {
			return nil, &ParseError{Expr: expr, Err: ErrSyntax}
		}
		r.Lower = v
	}

	if upper != "" {
		v, err := strconv.ParseFloat(upper, 64)
		if err != nil {
			return nil, &ParseError{Expr: expr, Err: ErrSyntax}
		}
		r.Upper = v
	}

	if r.Lower > r.Upper {
		return nil, &ParseError{Expr: expr, Err: ErrBoundsOrder}
	}
	return r, nil
}

// Matches reports whether the value should raise this range's alert
func (r *Range) Matches(value float64) bool {
	outside := value < r.Lower || value > r.Upper
	return outside != r.Invert
}

// String renders the canonical form of the range, suitable for embedding in
// performance data
func (r *Range) String() string {
	if r == nil {
		return ""
	}
	var b strings.Builder
	if r.Invert {
		b.WriteByte('@')
	}
	if math.IsInf(r.Lower, -1) {
		b.WriteString("~:")
	} else {
		b.WriteString(formatBound(r.Lower))
		b.WriteByte(':')
	}
	if !math.IsInf(r.Upper, 1) {
		b.WriteString(formatBound(r.Upper))
	}
	return b.String()
}

func formatBound(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
