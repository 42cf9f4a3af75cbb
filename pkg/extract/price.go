package extract

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

// ErrNoNumericPrice is returned when price text carries no digits.
var ErrNoNumericPrice = errors.New("no numeric price")

// ParsePrice converts display text such as "$1,299.99", "CA$ 949.99" or
// "1.299,99 €" into a decimal. Currency symbols and spacing are ignored. A
// comma followed by exactly two trailing digits is read as a decimal comma.
func ParsePrice(text string) (decimal.Decimal, error) {
	var b strings.Builder
	for _, r := range text {
		if unicode.IsDigit(r) || r == '.' || r == ',' {
			b.WriteRune(r)
		}
	}

	s := strings.Trim(b.String(), ".,")
	if s == "" {
		return decimal.Zero, fmt.Errorf("%w in %q", ErrNoNumericPrice, text)
	}

	lastDot := strings.LastIndex(s, ".")
	lastComma := strings.LastIndex(s, ",")
	if lastComma > lastDot && len(s)-lastComma-1 == 2 {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	} else {
		s = strings.ReplaceAll(s, ",", "")
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parsing price %q: %w", text, err)
	}
	return d, nil
}

// PriceDelta returns newText minus oldText when both parse.
func PriceDelta(oldText, newText string) (decimal.Decimal, bool) {
	oldPrice, err := ParsePrice(oldText)
	if err != nil {
		return decimal.Zero, false
	}
	newPrice, err := ParsePrice(newText)
	if err != nil {
		return decimal.Zero, false
	}
	return newPrice.Sub(oldPrice), true
}
