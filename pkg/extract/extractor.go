// Package extract resolves variant page URLs for each retailer and pulls the
// price text out of fetched product pages.
package extract

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// ErrPriceNotFound is returned when a page has no usable price element.
var ErrPriceNotFound = errors.New("price element not found")

// ErrUnknownScheme is returned by New for an unsupported URL scheme.
var ErrUnknownScheme = errors.New("unknown url scheme")

// Extractor is the per-retailer capability the scan engine depends on.
type Extractor interface {
	// VariantURL builds the product page URL for a raw variant identifier.
	VariantURL(baseURL, variant string) string
	// VariantKey normalizes a raw variant identifier for price store lookups.
	VariantKey(variant string) string
	// ExtractPrice returns the trimmed price text found in content.
	ExtractPrice(content []byte) (string, error)
}

// URLScheme names a retailer's rule for combining base URL and variant.
type URLScheme string

// Supported URL schemes.
const (
	// SchemePath appends the variant as a path segment: base/variant/.
	SchemePath URLScheme = "path"
	// SchemeSlug appends the variant as a hyphenated slug: base-variant.html.
	SchemeSlug URLScheme = "slug"
)

// New returns the extractor for scheme that reads prices from the first
// element matching selector.
func New(scheme URLScheme, selector string) (Extractor, error) {
	if strings.TrimSpace(selector) == "" {
		return nil, errors.New("price selector is required")
	}

	ps := priceSelector{selector: selector}
	switch scheme {
	case SchemePath:
		return &PathExtractor{priceSelector: ps}, nil
	case SchemeSlug:
		return &SlugExtractor{priceSelector: ps}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownScheme, scheme)
	}
}

// PathExtractor serves retailers whose variant pages live one path segment
// below the product URL, e.g. https://shop.example/stroller/gwen/.
type PathExtractor struct {
	priceSelector
}

// VariantURL implements Extractor.
func (*PathExtractor) VariantURL(baseURL, variant string) string {
	return strings.TrimSuffix(baseURL, "/") + "/" + url.PathEscape(variant) + "/"
}

// VariantKey implements Extractor. Path variants are used as-is.
func (*PathExtractor) VariantKey(variant string) string {
	return variant
}

var skuSuffix = regexp.MustCompile(`-\d+$`)

// SlugExtractor serves retailers whose variant pages are hyphenated slugs
// carrying a trailing numeric SKU, e.g. https://shop.example/stroller-gwen-1086860.html.
type SlugExtractor struct {
	priceSelector
}

// VariantURL implements Extractor.
func (*SlugExtractor) VariantURL(baseURL, variant string) string {
	return strings.TrimSuffix(baseURL, "-") + "-" + url.PathEscape(variant) + ".html"
}

// VariantKey implements Extractor. The trailing SKU token is dropped so the
// key reads as the plain variant name.
func (*SlugExtractor) VariantKey(variant string) string {
	return skuSuffix.ReplaceAllString(variant, "")
}

var (
	_ Extractor = (*PathExtractor)(nil)
	_ Extractor = (*SlugExtractor)(nil)
)
