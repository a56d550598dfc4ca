package rates

import (
	"errors"
	"testing"

	"github.com/pevans/goldrates/scraper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samplePage = `<html><body>
<table>
  <tr><th>Label</th><th>Value</th></tr>
  <tr><td>22K Gold</td><td>285.50 AED</td></tr>
  <tr><td>24K Gold</td><td>310.00 AED</td></tr>
</table>
</body></html>`

// TestExtractHTML_RateTable verifies the header row is skipped and the
// currency token is stripped
func TestExtractHTML_RateTable(t *testing.T) {
	record, err := ExtractHTML(samplePage, scraper.NewTableConfig())
	require.NoError(t, err)

	assert.Equal(t, Record{
		"22k_gold": "285.50",
		"24k_gold": "310.00",
	}, record)
}

// TestExtractHTML_PrefersContainer verifies the table inside the container
// wins over an earlier table
func TestExtractHTML_PrefersContainer(t *testing.T) {
	html := `<html><body>
<table><tr><th>Nav</th><th>x</th></tr><tr><td>Menu</td><td>1</td></tr></table>
<div class="goldRate-scrollit-ZgL">
  <table>
    <tr><th>Karat</th><th>Price</th></tr>
    <tr><td>18K Gold Rate</td><td>aed 233.25</td></tr>
  </table>
</div>
</body></html>`

	record, err := ExtractHTML(html, scraper.NewTableConfig())
	require.NoError(t, err)

	assert.Equal(t, Record{"18k_gold": "233.25"}, record)
}

// TestExtractHTML_ContainerWithoutTable verifies fallback to the first table
func TestExtractHTML_ContainerWithoutTable(t *testing.T) {
	html := `<div class="goldRate-scrollit-ZgL"><p>loading</p></div>` + samplePage

	record, err := ExtractHTML(html, scraper.NewTableConfig())
	require.NoError(t, err)
	assert.Len(t, record, 2)
}

// TestExtractHTML_NoTable verifies "not found"
func TestExtractHTML_NoTable(t *testing.T) {
	record, err := ExtractHTML(`<html><body><p>No rates today</p></body></html>`, scraper.NewTableConfig())

	assert.True(t, errors.Is(err, ErrTableNotFound))
	assert.Nil(t, record)
}

// TestExtractHTML_HeaderOnly verifies an empty mapping is "not found"
func TestExtractHTML_HeaderOnly(t *testing.T) {
	html := `<table><tr><th>Label</th><th>Value</th></tr></table>`

	_, err := ExtractHTML(html, scraper.NewTableConfig())
	assert.ErrorIs(t, err, ErrTableNotFound)
}

// TestExtractHTML_SkipsShortAndEmptyKeyRows verifies rows with fewer than
// two cells and rows whose label is only "rate" are ignored
func TestExtractHTML_SkipsShortAndEmptyKeyRows(t *testing.T) {
	html := `<table>
<tr><th>Label</th><th>Value</th></tr>
<tr><td colspan="2">Updated today</td></tr>
<tr><td>Rate</td><td>1.00</td></tr>
<tr><td>22K Gold</td><td>285.50</td><td>extra</td></tr>
</table>`

	record, err := ExtractHTML(html, scraper.NewTableConfig())
	require.NoError(t, err)
	assert.Equal(t, Record{"22k_gold": "285.50"}, record)
}

// TestExtractHTML_FirstRowSkippedUnconditionally verifies the first row is
// dropped even when it looks like data
func TestExtractHTML_FirstRowSkippedUnconditionally(t *testing.T) {
	html := `<table>
<tr><td>24K Gold</td><td>310.00</td></tr>
<tr><td>22K Gold</td><td>285.50</td></tr>
</table>`

	record, err := ExtractHTML(html, scraper.NewTableConfig())
	require.NoError(t, err)
	assert.Equal(t, Record{"22k_gold": "285.50"}, record)
}

// TestExtractHTML_LaterRowsOverwrite verifies colliding keys keep the last
// value
func TestExtractHTML_LaterRowsOverwrite(t *testing.T) {
	html := `<table>
<tr><th>Label</th><th>Value</th></tr>
<tr><td>22K Gold</td><td>1</td></tr>
<tr><td>22K Gold Rate</td><td>2</td></tr>
</table>`

	record, err := ExtractHTML(html, scraper.NewTableConfig())
	require.NoError(t, err)
	assert.Equal(t, Record{"22k_gold": "2"}, record)
}

// TestExtractHTML_CustomCurrency verifies the currency token is configurable
func TestExtractHTML_CustomCurrency(t *testing.T) {
	html := `<table>
<tr><th>Label</th><th>Value</th></tr>
<tr><td>22K Gold</td><td>INR 6,120.00</td></tr>
<tr><td>24K Gold</td><td>310.00 AED</td></tr>
</table>`

	config := scraper.NewTableConfig()
	config.CurrencyToken = "inr"

	record, err := ExtractHTML(html, config)
	require.NoError(t, err)
	assert.Equal(t, "6,120.00", record["22k_gold"])
	assert.Equal(t, "310.00 AED", record["24k_gold"])
}

// TestExtractHTML_CollapsesWhitespace verifies nested markup in cells
func TestExtractHTML_CollapsesWhitespace(t *testing.T) {
	html := `<table>
<tr><th>Label</th><th>Value</th></tr>
<tr><td><span>22K</span>
    <b>Gold</b></td><td> 285.50
    <small>AED</small> </td></tr>
</table>`

	record, err := ExtractHTML(html, scraper.NewTableConfig())
	require.NoError(t, err)
	assert.Equal(t, Record{"22k_gold": "285.50"}, record)
}
