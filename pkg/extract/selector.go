package extract

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// priceSelector finds the first element matching a CSS selector and returns
// its text with whitespace collapsed, so layout noise never reads as a
// price change.
type priceSelector struct {
	selector string
}

// Selector returns the CSS selector used to locate the price.
func (p priceSelector) Selector() string {
	return p.selector
}

// ExtractPrice implements Extractor.
func (p priceSelector) ExtractPrice(content []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(content))
	if err != nil {
		return "", fmt.Errorf("parsing HTML: %w", err)
	}

	sel := doc.Find(p.selector).First()
	if sel.Length() == 0 {
		return "", fmt.Errorf("%w: no match for %q", ErrPriceNotFound, p.selector)
	}

	price := strings.Join(strings.Fields(sel.Text()), " ")
	if price == "" {
		return "", fmt.Errorf("%w: %q matched an empty element", ErrPriceNotFound, p.selector)
	}

	return price, nil
}
