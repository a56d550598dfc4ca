package scraper

// Default selectors for the retailer's gold rate page.
const (
	DefaultContainerSelector = ".goldRate-scrollit-ZgL"
	DefaultTableSelector     = "table"
	DefaultCurrencyToken     = "AED"
)

// TableConfig defines how to locate and read the rate table on a page.
type TableConfig struct {
	// ContainerSelector names the element the rate table is nested in. When
	// no table is found inside it, the first table in the document is used.
	ContainerSelector string `json:"container_selector" yaml:"container_selector"`
	TableSelector     string `json:"table_selector" yaml:"table_selector"`

	// CurrencyToken is removed from every value, case-insensitively. Empty
	// disables stripping.
	CurrencyToken string `json:"currency_token" yaml:"currency_token"`
}

// NewTableConfig creates a table configuration with default values.
func NewTableConfig() TableConfig {
	return TableConfig{
		ContainerSelector: DefaultContainerSelector,
		TableSelector:     DefaultTableSelector,
		CurrencyToken:     DefaultCurrencyToken,
	}
}

// ContainerTableSelector returns the selector matching a table inside the
// container, or just the table selector if no container is configured.
func (c TableConfig) ContainerTableSelector() string {
	if c.ContainerSelector == "" {
		return c.table()
	}
	return c.ContainerSelector + " " + c.table()
}

func (c TableConfig) table() string {
	if c.TableSelector == "" {
		return DefaultTableSelector
	}
	return c.TableSelector
}

// AnyTableSelector returns the selector for the document-wide fallback.
func (c TableConfig) AnyTableSelector() string {
	return c.table()
}
