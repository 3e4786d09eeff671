package scraper

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Confidence tiers, in the order strategies run. Structured markup beats
// labeled tables, tables beat feature bullets, bullets beat a whole-page
// pattern search, and inferring from the product title is the last resort.
const (
	tierMarkup   = 1
	tierTable    = 2
	tierBullets  = 3
	tierFullText = 4
	tierTitle    = 5
)

// strategy is one way of pulling a value for a field out of a page.
// Strategies for a field run in tier order and the first plausible value
// wins outright; later tiers are never consulted for that field.
type strategy struct {
	tier int
	name string
	fn   func(p *page) string
}

// page carries the parsed document plus state shared between extractors
// within a single pass. It is never reused across fetches.
type page struct {
	doc  *goquery.Document
	set  *strategySet
	name string // extracted product name, for title inference

	fullText     string
	fullTextOnce bool
}

func newPage(doc *goquery.Document, set *strategySet) *page {
	return &page{doc: doc, set: set}
}

// text returns the free text of the set's full-text scope, built once per
// pass. Original casing is kept so extracted values read naturally; the
// field patterns are case-insensitive anyway.
func (p *page) text() string {
	if !p.fullTextOnce {
		p.fullText = p.doc.Find(p.set.fullTextSelector).Text()
		p.fullTextOnce = true
	}
	return p.fullText
}

// strategySet bundles the per-field strategy lists for one extraction
// pass. The generic set works on any retail page; store-specific sets add
// dedicated element identifiers and tighter scopes on top of the same
// shared tiers.
type strategySet struct {
	store StoreID

	name  []strategy
	price []strategy
	image []strategy
	brand []strategy

	// Scopes used by the shared spec-field tiers.
	bulletSelector   string
	fullTextSelector string
	specTiers        []int
}

// hasTier reports whether this set runs the given spec tier.
func (s *strategySet) hasTier(tier int) bool {
	for _, t := range s.specTiers {
		if t == tier {
			return true
		}
	}
	return false
}

// specField configures one technical specification field. The same table
// drives every tier: labels match spec-table rows, hints mark relevant
// bullets and the pattern refines or validates the candidate text.
type specField struct {
	key    string
	labels []string // spec-table row labels (lowercase containment)
	hints  []string // bullet / free-text relevance keywords
	re     *regexp.Regexp

	// wholeBullet keeps the full bullet text instead of the pattern match;
	// used where the surrounding words are part of the value (GPU, CPU,
	// display and OS descriptions).
	wholeBullet bool
	// upperMatch uppercases free-text matches (GPU model tokens).
	upperMatch bool
}

var (
	reRAM     = regexp.MustCompile(`(?i)\b(\d+)\s*GB\b(?:\s*DDR\d\w*)?`)
	reGPU     = regexp.MustCompile(`(?i)(RTX\s*\d+\s*\w*|GTX\s*\d+\s*\w*|GeForce\s+\w+|Radeon\s*(?:RX\s*)?\d+\w*|Iris\s*Xe)`)
	reCPU     = regexp.MustCompile(`(?i)(Intel\s*Core\s*i\d+[\w-]*|AMD\s*Ryzen\s*\d+\s*\w*|Apple\s*M\d+)`)
	reStorage = regexp.MustCompile(`(?i)\b(\d+)\s*(TB|GB)\s*(SSD|HDD|NVMe|PCIe|eMMC)\b`)
	reDisplay = regexp.MustCompile(`(?i)(\d{2}(?:\.\d)?\s*(?:"|”|inch(?:es)?|pulgadas)|\d{2,3}\s*Hz)`)
	reOS      = regexp.MustCompile(`(?i)(Windows\s*\d+\s*(?:Home|Pro)?|Chrome\s?OS|macOS\s*\w*|Linux)`)
	reBattery = regexp.MustCompile(`(?i)\b(\d+(?:\.\d)?)\s*(?:hours|hrs|horas)\b`)
	reWeight  = regexp.MustCompile(`(?i)\b(\d+(?:\.\d+)?)\s*(?:kg|lbs?|pounds|libras)\b`)
	rePorts   = regexp.MustCompile(`(?i)((?:\d+\s*x\s*)?(?:USB(?:-C)?|Thunderbolt|HDMI)\s*[\w.]*)`)
	reWiFi    = regexp.MustCompile(`(?i)(Wi[\s-]?Fi\s*\d\w*|802\.11\s*\w+)`)
)

// specFields is the single configuration table shared by every tier; the
// order here is the order fields land in the SpecSheet.
var specFields = []specField{
	{key: "gpu", labels: []string{"graphics", "gpu", "tarjeta gráfica"},
		hints: []string{"rtx", "geforce", "radeon", "graphics", "gpu"},
		re:    reGPU, wholeBullet: true, upperMatch: true},
	{key: "cpu", labels: []string{"processor", "cpu", "procesador"},
		hints: []string{"intel", "amd", "ryzen", "core i"},
		re:    reCPU, wholeBullet: true},
	{key: "ram", labels: []string{"ram", "memory", "memoria"},
		hints: []string{"ram", "memory", "memoria"},
		re:    reRAM},
	{key: "storage", labels: []string{"ssd", "hdd", "storage", "almacenamiento", "hard drive"},
		hints: []string{"ssd", "hdd", "storage", "almacenamiento", "tb", "gb"},
		re:    reStorage},
	{key: "display", labels: []string{"display", "screen", "pantalla", "monitor"},
		hints: []string{"display", "screen", "pantalla", "pulgadas", "hz", `"`},
		re:    reDisplay, wholeBullet: true},
	{key: "os", labels: []string{"operating system", "sistema operativo", "windows"},
		hints: []string{"windows", "operating system", "sistema operativo"},
		re:    reOS, wholeBullet: true},
	{key: "battery_life", labels: []string{"battery", "batería", "bateria"},
		hints: []string{"battery", "batería", "bateria"},
		re:    reBattery},
	{key: "weight", labels: []string{"weight", "peso"},
		hints: []string{"weight", "peso"},
		re:    reWeight},
	{key: "ports", labels: []string{"ports", "puertos", "interfaces"},
		hints: []string{"usb", "hdmi", "thunderbolt", "puerto"},
		re:    rePorts},
	{key: "wifi", labels: []string{"wifi", "wi-fi", "wireless", "conectividad"},
		hints: []string{"wifi", "wi-fi", "wireless", "802.11"},
		re:    reWiFi},
}

// Candidates longer than this are almost always a mis-scoped text node
// rather than a spec value.
const maxSpecValueLen = 120

// Marketing fragments that disqualify a candidate outright.
var boilerplatePhrases = []string{
	"click here",
	"see more",
	"learn more",
	"customer review",
	"free shipping",
	"best seller",
	"add to cart",
	"limited time",
}

// plausibleSpecValue rejects candidates that cannot be a real spec value.
func plausibleSpecValue(v string) bool {
	if v == "" || len(v) > maxSpecValueLen {
		return false
	}
	lower := strings.ToLower(v)
	for _, phrase := range boilerplatePhrases {
		if strings.Contains(lower, phrase) {
			return false
		}
	}
	return true
}

// runStrategies returns the first non-empty value accepted by the filter,
// in tier order.
func runStrategies(p *page, strategies []strategy, accept func(string) bool) string {
	for _, s := range strategies {
		v := collapseSpaces(s.fn(p))
		if v == "" {
			continue
		}
		if accept != nil && !accept(v) {
			continue
		}
		return v
	}
	return ""
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// selText returns the text of the first element matching the selector.
func selText(sel string) func(p *page) string {
	return func(p *page) string {
		return p.doc.Find(sel).First().Text()
	}
}

// selAttr returns an attribute of the first element matching the selector.
func selAttr(sel, attr string) func(p *page) string {
	return func(p *page) string {
		v, _ := p.doc.Find(sel).First().Attr(attr)
		return v
	}
}
