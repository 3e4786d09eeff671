package scraper

import (
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/landylawliet99-blip/api-blog/internal/model"
)

// bulletValue scans the set's feature-list items for one of the field's
// hint keywords. Fields with wholeBullet keep the entire bullet; the rest
// are refined down to the pattern match so a long marketing sentence
// cannot become the value.
func bulletValue(p *page, f specField) string {
	var out string
	p.doc.Find(p.set.bulletSelector).EachWithBreak(func(_ int, li *goquery.Selection) bool {
		text := strings.TrimSpace(li.Text())
		if text == "" {
			return true
		}
		lower := strings.ToLower(text)
		relevant := false
		for _, h := range f.hints {
			if strings.Contains(lower, h) {
				relevant = true
				break
			}
		}
		if !relevant {
			return true
		}
		if f.wholeBullet {
			out = text
			return false
		}
		if m := f.re.FindString(text); m != "" {
			out = m
			return false
		}
		return true
	})
	return out
}

// fullTextValue searches the set's free-text scope with the field pattern.
func fullTextValue(p *page, f specField) string {
	m := f.re.FindString(p.text())
	if m == "" {
		return ""
	}
	if f.upperMatch {
		m = strings.ToUpper(m)
	}
	return m
}

// titleValue applies the field pattern to the extracted product name.
func titleValue(p *page, f specField) string {
	if p.name == "" {
		return ""
	}
	return f.re.FindString(p.name)
}

// specStrategies assembles the tier list for one field from the shared
// configuration table, keeping only the tiers the set runs.
func specStrategies(f specField, set *strategySet) []strategy {
	all := []strategy{
		{tierTable, f.key + "_table", func(p *page) string { return tableValue(p, f.labels) }},
		{tierBullets, f.key + "_bullets", func(p *page) string { return bulletValue(p, f) }},
		{tierFullText, f.key + "_fulltext", func(p *page) string { return fullTextValue(p, f) }},
		{tierTitle, f.key + "_title", func(p *page) string { return titleValue(p, f) }},
	}
	kept := all[:0]
	for _, s := range all {
		if set.hasTier(s.tier) {
			kept = append(kept, s)
		}
	}
	return kept
}

// extractSpecs fills the fixed-shape spec sheet, one independent cascade
// per field. A field whose every tier misses stays an empty string.
func extractSpecs(p *page) model.SpecSheet {
	var sheet model.SpecSheet
	for _, f := range specFields {
		v := runStrategies(p, specStrategies(f, p.set), plausibleSpecValue)
		setSpec(&sheet, f.key, v)
	}
	sheet.RAM = correctRAM(sheet.RAM, p.name)
	return sheet
}

func setSpec(s *model.SpecSheet, key, v string) {
	switch key {
	case "gpu":
		s.GPU = v
	case "cpu":
		s.CPU = v
	case "ram":
		s.RAM = v
	case "storage":
		s.Storage = v
	case "display":
		s.Display = v
	case "os":
		s.OS = v
	case "battery_life":
		s.BatteryLife = v
	case "weight":
		s.Weight = v
	case "ports":
		s.Ports = v
	case "wifi":
		s.WiFi = v
	}
}

// correctRAM guards against a known failure mode where a stray digit wins
// the RAM cascade ("6 GB" scraped off a page for a 16 GB machine). Only a
// single-digit figure is suspect, and only a strictly larger figure in the
// product title overrides it. Deliberately narrow; this is not a general
// consistency pass.
func correctRAM(ram, name string) string {
	if ram == "" || name == "" {
		return ram
	}
	got := ramGigabytes(ram)
	if got == 0 || got >= 10 {
		return ram
	}
	titleMatch := reRAM.FindString(name)
	if titleMatch == "" {
		return ram
	}
	if ramGigabytes(titleMatch) > got {
		return strings.TrimSpace(titleMatch)
	}
	return ram
}

func ramGigabytes(s string) int {
	m := reRAM.FindStringSubmatch(s)
	if len(m) < 2 {
		return 0
	}
	n, _ := strconv.Atoi(m[1])
	return n
}
