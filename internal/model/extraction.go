package model

import "time"

// SpecSheet is the fixed set of technical specification fields the
// extraction pipeline knows about. Every key is always present when
// serialized; a field the pipeline could not recover is an empty string.
type SpecSheet struct {
	GPU         string `json:"gpu"`
	CPU         string `json:"cpu"`
	RAM         string `json:"ram"`
	Storage     string `json:"storage"`
	Display     string `json:"display"`
	OS          string `json:"os"`
	BatteryLife string `json:"battery_life"`
	Weight      string `json:"weight"`
	Ports       string `json:"ports"`
	WiFi        string `json:"wifi"`
}

// Filled returns how many spec fields carry a value.
func (s SpecSheet) Filled() int {
	count := 0
	for _, v := range []string{
		s.GPU, s.CPU, s.RAM, s.Storage, s.Display,
		s.OS, s.BatteryLife, s.Weight, s.Ports, s.WiFi,
	} {
		if v != "" {
			count++
		}
	}
	return count
}

// Price wraps the extracted price. Current is nil when no price could be
// recovered, which is distinct from a price of zero.
type Price struct {
	Current *float64 `json:"current"`
}

// ProductExtraction is the result of scraping one product page. It has no
// persistent identity; the caller decides whether to turn it into a Product.
type ProductExtraction struct {
	Name         string    `json:"name"`
	Brand        string    `json:"brand"`
	Price        Price     `json:"price"`
	ImageURL     string    `json:"image_url"`
	Specs        SpecSheet `json:"specs"`
	Store        string    `json:"store"`
	OriginalURL  string    `json:"original_url"`
	AffiliateURL string    `json:"affiliate_url"`
	ExtractedAt  time.Time `json:"extracted_at"`
}
