package rates

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/pevans/goldrates/scraper"
)

// ErrTableNotFound is returned when a page has no rate table, or the table
// yields no usable rows.
var ErrTableNotFound = errors.New("rate table not found")

// ExtractHTML parses raw markup and extracts the rate table from it.
func ExtractHTML(html string, config scraper.TableConfig) (Record, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	return Extract(doc, config)
}

// Extract reads the rate table from doc. The first row is treated as a
// header and skipped; every following row with at least two cells
// contributes its normalized label and its value with the currency token
// removed. Rows whose label normalizes to nothing are skipped.
func Extract(doc *goquery.Document, config scraper.TableConfig) (Record, error) {
	table := findTable(doc, config)
	if table == nil {
		return nil, ErrTableNotFound
	}

	currency := currencyPattern(config.CurrencyToken)
	record := Record{}

	table.Find("tr").Each(func(i int, row *goquery.Selection) {
		if i == 0 {
			return
		}

		cells := row.Find("th, td")
		if cells.Length() < 2 {
			return
		}

		key := NormalizeKey(cellText(cells.Eq(0)))
		if key == "" {
			return
		}

		value := cellText(cells.Eq(1))
		if currency != nil {
			value = strings.TrimSpace(currency.ReplaceAllString(value, ""))
		}

		record[key] = value
	})

	if len(record) == 0 {
		return nil, ErrTableNotFound
	}

	return record, nil
}

// findTable prefers a table inside the configured container and falls back
// to the first table anywhere in the document.
func findTable(doc *goquery.Document, config scraper.TableConfig) *goquery.Selection {
	if config.ContainerSelector != "" {
		table := doc.Find(config.ContainerSelector).First().Find(config.AnyTableSelector()).First()
		if table.Length() > 0 {
			return table
		}
	}

	table := doc.Find(config.AnyTableSelector()).First()
	if table.Length() == 0 {
		return nil
	}
	return table
}

// cellText returns the cell's text with whitespace runs collapsed.
func cellText(cell *goquery.Selection) string {
	return strings.Join(strings.Fields(cell.Text()), " ")
}

func currencyPattern(token string) *regexp.Regexp {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil
	}
	return regexp.MustCompile(`(?i)` + regexp.QuoteMeta(token))
}
