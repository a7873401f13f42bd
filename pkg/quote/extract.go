package quote

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-faster/errors"
)

const (
	minPlausiblePrice = 1
	maxPlausiblePrice = 100000
)

// Tried in order when the marker element is missing or unparsable.
var fallbackPatterns = []*regexp.Regexp{
	regexp.MustCompile(`<h3[^>]*>(\d{1,3}(?:,\d{3})*(?:\.\d{2})?)</h3>`),
	regexp.MustCompile(`>(\d{1,3}(?:,\d{3})*)<`),
	regexp.MustCompile(`(\d{1,4}(?:,\d{3})*)`),
}

// Digits with optional thousands separators and decimal point. Keeps
// ParseFloat from accepting Inf, NaN or hex floats.
var priceText = regexp.MustCompile(`^[0-9][0-9,]*(?:\.[0-9]+)?$`)

var errNoPrice = errors.New("no price found in page")

// Extractor pulls a price out of a quote page.
type Extractor struct {
	// Marker is a substring of the class attribute of the h3 holding the price.
	Marker   string
	Fallback bool
}

// Extract returns the price in html, or an error when none is found.
func (x Extractor) Extract(html string) (float64, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return 0, errors.Wrap(err, "parse html")
	}

	if x.Marker != "" {
		el := doc.Find("h3").FilterFunction(func(_ int, s *goquery.Selection) bool {
			class, _ := s.Attr("class")
			return strings.Contains(class, x.Marker)
		}).First()
		if el.Length() > 0 {
			text := strings.TrimSpace(el.Text())
			if price, err := parsePrice(text); err == nil {
				return price, nil
			}
		}
	}

	if !x.Fallback {
		return 0, errNoPrice
	}
	return scanPrice(html)
}

func scanPrice(html string) (float64, error) {
	for _, re := range fallbackPatterns {
		for _, m := range re.FindAllStringSubmatch(html, -1) {
			price, err := parsePrice(m[1])
			if err != nil {
				continue
			}
			if price >= minPlausiblePrice && price <= maxPlausiblePrice {
				return price, nil
			}
		}
	}
	return 0, errNoPrice
}

// parsePrice removes thousands separators and parses the rest as a float.
func parsePrice(text string) (float64, error) {
	if !priceText.MatchString(text) {
		return 0, errors.Errorf("not a price: %q", text)
	}
	return strconv.ParseFloat(strings.ReplaceAll(text, ",", ""), 64)
}
