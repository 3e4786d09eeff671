package scraper

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var reNumber = regexp.MustCompile(`[0-9,]+\.?[0-9]*`)

// parsePrice extracts a numeric price from a text candidate. It strips
// thousands separators and requires a positive finite number; anything
// else is rejected so Price.Current stays nil rather than garbage.
func parsePrice(text string) (float64, bool) {
	m := reNumber.FindString(text)
	if m == "" {
		return 0, false
	}
	m = strings.ReplaceAll(m, ",", "")
	price, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0, false
	}
	if price <= 0 || math.IsInf(price, 0) || math.IsNaN(price) {
		return 0, false
	}
	return price, true
}

// extractPrice runs the set's price strategies and parses the winner.
func extractPrice(p *page) *float64 {
	raw := runStrategies(p, p.set.price, func(v string) bool {
		_, ok := parsePrice(v)
		return ok
	})
	if raw == "" {
		return nil
	}
	price, _ := parsePrice(raw)
	return &price
}

// Known laptop brand tokens, scanned in order against the product name
// when no structured brand source matched.
var knownBrands = []string{
	"MSI", "HP", "DELL", "LENOVO", "ASUS", "ACER", "RAZER", "ALIENWARE",
	"APPLE", "SAMSUNG", "MICROSOFT", "GIGABYTE", "TOSHIBA", "SONY", "LG",
}

// Byline decoration that is not part of the brand name.
var reBylineNoise = regexp.MustCompile(`(?i)Visit the|Store|Marca:|Brand:|Tienda de`)

// cleanByline strips known prefix phrases from a brand byline.
func cleanByline(s string) string {
	return strings.TrimSpace(reBylineNoise.ReplaceAllString(s, ""))
}

// brandFromName scans the product name for a known brand token.
func brandFromName(name string) string {
	upper := strings.ToUpper(name)
	for _, b := range knownBrands {
		if strings.Contains(upper, b) {
			return b
		}
	}
	return ""
}

// extractBrand runs the brand cascade: dedicated byline markup first, then
// a labeled table row, then the known-token scan over the product name.
// Single-character results are treated as misses.
func extractBrand(p *page) string {
	brand := runStrategies(p, p.set.brand, func(v string) bool {
		return len(v) >= 2
	})
	if brand != "" {
		return brand
	}
	if v := tableValue(p, []string{"brand", "marca", "fabricante"}); len(v) >= 2 {
		return collapseSpaces(v)
	}
	return brandFromName(p.name)
}

// genericSet is the lightweight store-agnostic pass: common metadata and
// microdata markup for the headline fields, labeled tables and the title
// for specs. The heavier bullet and whole-page tiers belong to the
// store-specific sets.
func genericSet(store StoreID) *strategySet {
	return &strategySet{
		store: store,
		name: []strategy{
			{tierMarkup, "og_title", selAttr(`meta[property="og:title"]`, "content")},
			{tierMarkup, "first_h1", selText("h1")},
			{tierMarkup, "title_tag", selText("title")},
		},
		price: []strategy{
			{tierMarkup, "itemprop_price_attr", selAttr(`[itemprop="price"]`, "content")},
			{tierMarkup, "itemprop_price", selText(`[itemprop="price"]`)},
			{tierMarkup, "price_class", selText(`[class*="price"]`)},
		},
		image: []strategy{
			{tierMarkup, "og_image", selAttr(`meta[property="og:image"]`, "content")},
			{tierMarkup, "itemprop_image", selAttr(`[itemprop="image"]`, "src")},
			{tierMarkup, "image_src_link", selAttr(`link[rel="image_src"]`, "href")},
		},
		brand: []strategy{
			{tierMarkup, "itemprop_brand", func(p *page) string {
				return cleanByline(p.doc.Find(`[itemprop="brand"]`).First().Text())
			}},
		},
		bulletSelector:   "ul li",
		fullTextSelector: "body",
		specTiers:        []int{tierTable, tierTitle},
	}
}

// storeSet returns the dedicated higher-effort strategy set for a store,
// or nil when the store only gets the generic pass.
func storeSet(store StoreID) *strategySet {
	if store == StoreAmazon {
		return amazonSet()
	}
	return nil
}

// tableValue scans every data-table row for a label cell matching one of
// the keywords and returns the value cell of the first hit.
func tableValue(p *page, labels []string) string {
	var out string
	p.doc.Find("table tr").EachWithBreak(func(_ int, row *goquery.Selection) bool {
		key := strings.ToLower(strings.TrimSpace(row.Find("th, td.label, td:first-child").First().Text()))
		if key == "" || len(key) > 100 {
			return true
		}
		val := strings.TrimSpace(row.Find("td:last-child, td.value").Last().Text())
		if val == "" || val == key {
			return true
		}
		for _, label := range labels {
			if strings.Contains(key, label) {
				out = val
				return false
			}
		}
		return true
	})
	return out
}
