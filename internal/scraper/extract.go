package scraper

import (
	"io"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/lazhrach20/auto-assistent-llm/internal/model"
	"github.com/lazhrach20/auto-assistent-llm/logger"
	"github.com/lazhrach20/auto-assistent-llm/pkg/errors"

	"github.com/PuerkitoBio/goquery"
)

var yearPattern = regexp.MustCompile(`\d{4}`)

// Extractor parses a fetched search-results page into car listings.
//
// Every field is extracted independently with a fallback chain and a
// default value, so a single unparsable field never discards a listing.
// Only a listing without a resolvable absolute link is dropped.
type Extractor struct {
	BaseURL string
	log     *logger.Logger
}

// NewExtractor creates an extractor resolving relative links against baseURL
func NewExtractor(baseURL string) *Extractor {
	return &Extractor{
		BaseURL: baseURL,
		log:     logger.ForComponent("extractor"),
	}
}

// Extract parses the page and returns all valid listings in document order.
// Malformed cassettes are logged and skipped; extraction of the rest
// continues.
func (e *Extractor) Extract(r io.Reader) ([]model.Car, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, errors.NewParsing("extract", "failed to parse page", err)
	}

	base, err := url.Parse(e.BaseURL)
	if err != nil {
		return nil, errors.NewConfiguration("invalid base URL "+e.BaseURL, err)
	}

	var cars []model.Car
	doc.Find("div.cassette").Each(func(i int, s *goquery.Selection) {
		car, err := e.parseCassette(s, base)
		if err != nil {
			e.log.Warn().Err(err).Int("index", i).Msg("Skipping listing")
			return
		}
		cars = append(cars, *car)
		e.log.Debug().
			Str("brand", car.Brand).
			Str("model", car.Model).
			Int("year", car.Year).
			Int("price", car.Price).
			Str("color", car.Color).
			Msg("Extracted listing")
	})

	e.log.Info().Int("count", len(cars)).Msg("Extraction finished")
	return cars, nil
}

// parseCassette extracts one listing from its container element
func (e *Extractor) parseCassette(s *goquery.Selection, base *url.URL) (*model.Car, error) {
	titleSel := s.Find("h3.cassetteMain__title")
	if titleSel.Length() == 0 {
		return nil, errors.NewValidation("extract", "listing has no title block")
	}

	linkSel := titleSel.Find("a").First()
	titleText := strings.TrimSpace(linkSel.Text())
	if titleText == "" {
		titleText = strings.TrimSpace(titleSel.Text())
	}

	href, ok := linkSel.Attr("href")
	href = strings.TrimSpace(href)
	if !ok || href == "" {
		return nil, errors.NewValidation("extract", "listing has no link")
	}
	parsed, err := url.Parse(href)
	if err != nil {
		return nil, errors.NewValidation("extract", "listing link is not a valid URL: "+href)
	}
	link := base.ResolveReference(parsed).String()

	// Model is the first whitespace token of the title. Multi-word model
	// names get truncated; acceptable for the catalog use case.
	carModel := "Unknown"
	if fields := strings.Fields(titleText); len(fields) > 0 {
		carModel = fields[0]
	}

	return &model.Car{
		Brand: e.extractBrand(s),
		Model: carModel,
		Year:  e.extractYear(s),
		Price: e.extractPrice(s),
		Color: e.extractColor(s),
		Link:  link,
	}, nil
}

// extractBrand locates a paragraph matching a known brand token, falling
// back to the first paragraph of the info container
func (e *Extractor) extractBrand(s *goquery.Selection) string {
	brand := ""
	s.Find("p").EachWithBreak(func(_ int, p *goquery.Selection) bool {
		text := strings.TrimSpace(p.Text())
		if knownBrands[text] {
			brand = text
			return false
		}
		return true
	})

	if brand == "" {
		brand = strings.TrimSpace(s.Find("div.cassetteMain__carInfoContainer p").First().Text())
	}

	if brand == "" {
		e.log.Debug().Str("field", "brand").Msg("Field defaulted")
		return defaultBrand
	}
	return NormalizeBrand(brand)
}

// extractYear finds the spec row labeled 年式 (model year) and takes the
// first 4-digit run of its value
func (e *Extractor) extractYear(s *goquery.Selection) int {
	year := defaultYear
	found := false
	s.Find("div.specList__detailBox").Each(func(_ int, box *goquery.Selection) {
		if !strings.Contains(box.Find("dt.specList__title").Text(), "年式") {
			return
		}
		text := box.Find("dd.specList__data span.specList__emphasisData").Text()
		if match := yearPattern.FindString(text); match != "" {
			if y, err := strconv.Atoi(match); err == nil {
				year = y
				found = true
			}
		}
	})
	if !found {
		e.log.Debug().Str("field", "year").Msg("Field defaulted")
	}
	return year
}

// extractPrice reads the man-yen total price spans
func (e *Extractor) extractPrice(s *goquery.Selection) int {
	totalSel := s.Find("div.totalPrice")
	if totalSel.Length() == 0 {
		e.log.Debug().Str("field", "price").Msg("Field defaulted")
		return defaultPrice
	}

	main := strings.TrimSpace(totalSel.Find("span.totalPrice__mainPriceNum").First().Text())
	sub := strings.TrimSpace(totalSel.Find("span.totalPrice__subPriceNum").First().Text())
	sub = strings.ReplaceAll(sub, ".", "")

	if main == "" {
		e.log.Debug().Str("field", "price").Msg("Field defaulted")
		return defaultPrice
	}

	price, err := ParseManYen(main, sub)
	if err != nil {
		e.log.Debug().Str("field", "price").Str("main", main).Str("sub", sub).Msg("Field defaulted")
		return defaultPrice
	}
	return price
}

// ParseManYen converts the main and sub numeral spans of a man-yen price
// into yen. "48"/"2" means 48.2 man-yen, i.e. 482000 yen.
func ParseManYen(main, sub string) (int, error) {
	if sub == "" {
		sub = "0"
	}
	man, err := strconv.ParseFloat(main+"."+sub, 64)
	if err != nil {
		if n, intErr := strconv.Atoi(main); intErr == nil {
			return n * 10000, nil
		}
		return 0, err
	}
	return int(man * 10000), nil
}

// extractColor scans the body-info list items for any color vocabulary
// key; the first match wins
func (e *Extractor) extractColor(s *goquery.Selection) string {
	color := defaultColor
	matched := false
	s.Find("li.carBodyInfoList__item").EachWithBreak(func(_ int, li *goquery.Selection) bool {
		text := li.Text()
		for source, canonical := range colorMap {
			if strings.Contains(text, source) {
				color = canonical
				matched = true
				return false
			}
		}
		return true
	})
	if !matched {
		e.log.Debug().Str("field", "color").Msg("Field defaulted")
	}
	return color
}
