package scraper

import (
	"net/url"
	"strings"
)

// StoreID identifies a supported retailer.
type StoreID string

const (
	StoreAmazon       StoreID = "amazon"
	StoreWalmart      StoreID = "walmart"
	StoreBestBuy      StoreID = "bestbuy"
	StoreNewegg       StoreID = "newegg"
	StoreMercadoLibre StoreID = "mercadolibre"
	StoreEbay         StoreID = "ebay"
	StoreUnknown      StoreID = "unknown"
)

// storePatterns is tested in order against the hostname; first match wins.
var storePatterns = []struct {
	substr string
	id     StoreID
	label  string
}{
	{"amazon.", StoreAmazon, "Amazon"},
	{"walmart.", StoreWalmart, "Walmart"},
	{"bestbuy.", StoreBestBuy, "Best Buy"},
	{"newegg.", StoreNewegg, "Newegg"},
	{"mercadolibre", StoreMercadoLibre, "MercadoLibre"},
	{"ebay.", StoreEbay, "eBay"},
}

// DetectStore classifies a product URL by hostname. Malformed URLs and
// unrecognized hosts map to StoreUnknown; it never fails.
func DetectStore(rawURL string) StoreID {
	u, err := url.Parse(rawURL)
	if err != nil {
		return StoreUnknown
	}
	host := strings.ToLower(u.Hostname())
	if host == "" {
		return StoreUnknown
	}
	for _, p := range storePatterns {
		if strings.Contains(host, p.substr) {
			return p.id
		}
	}
	return StoreUnknown
}

// SupportedStores lists every store the pipeline can extract from.
func SupportedStores() []StoreID {
	ids := make([]StoreID, 0, len(storePatterns))
	for _, p := range storePatterns {
		ids = append(ids, p.id)
	}
	return ids
}

// Label returns the human-readable store name, used for placeholder
// product names when a page yields no usable title.
func (s StoreID) Label() string {
	for _, p := range storePatterns {
		if p.id == s {
			return p.label
		}
	}
	return "Unknown"
}
