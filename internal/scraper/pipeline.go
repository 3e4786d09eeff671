package scraper

import (
	"log"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/landylawliet99-blip/api-blog/internal/model"
)

// minSpecFields is the escalation threshold: when the generic pass fills
// fewer spec fields than this and the store has a dedicated strategy set,
// the pipeline refetches once and reruns with that set.
const minSpecFields = 2

// Pipeline turns a product-page URL into a best-effort ProductExtraction.
// It is stateless across invocations; concurrent Extract calls are safe.
type Pipeline struct {
	fetcher      Fetcher
	affiliateTag string
	metrics      *Metrics
}

// NewPipeline creates an extraction pipeline. metrics may be nil.
func NewPipeline(fetcher Fetcher, affiliateTag string, metrics *Metrics) *Pipeline {
	return &Pipeline{
		fetcher:      fetcher,
		affiliateTag: affiliateTag,
		metrics:      metrics,
	}
}

// Extract fetches the page and runs the strategy tiers over it. Fetch
// failures are terminal and come back as *FetchError; a page that yields
// little or nothing is NOT an error — partial data beats no data for a
// human-curated content workflow, so the record is returned as-is with
// empty fields.
func (pl *Pipeline) Extract(rawURL string) (*model.ProductExtraction, error) {
	start := time.Now()
	store := DetectStore(rawURL)

	result, err := pl.runPass(rawURL, genericSet(store))
	if err != nil {
		pl.metrics.IncFetchError(err)
		pl.metrics.IncExtraction(store, "fetch_error")
		return nil, err
	}

	// Two-tier escalation: one extra fetch with the store's dedicated set
	// when the cheap pass came back nearly empty. Exactly one escalation,
	// never a loop. If the second fetch fails we keep the generic result;
	// the page was reachable a moment ago and degraded output is still
	// useful.
	if result.Specs.Filled() < minSpecFields {
		if set := storeSet(store); set != nil {
			escalated, err := pl.runPass(rawURL, set)
			if err != nil {
				log.Printf("escalated pass for %s failed, keeping generic result: %v", store, err)
			} else {
				result = escalated
				pl.metrics.IncEscalation()
			}
		}
	}

	pl.assemble(result, store, rawURL)
	pl.metrics.IncExtraction(store, "ok")
	pl.metrics.ObserveDuration(time.Since(start))
	return result, nil
}

// runPass performs one fetch and one full strategy-set evaluation.
func (pl *Pipeline) runPass(rawURL string, set *strategySet) (*model.ProductExtraction, error) {
	html, err := pl.fetcher.Fetch(rawURL)
	if err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, &FetchError{URL: rawURL, Reason: FetchOther, Err: err}
	}

	p := newPage(doc, set)
	p.name = runStrategies(p, set.name, nil)

	return &model.ProductExtraction{
		Name:     p.name,
		Brand:    extractBrand(p),
		Price:    model.Price{Current: extractPrice(p)},
		ImageURL: runStrategies(p, set.image, nil),
		Specs:    extractSpecs(p),
	}, nil
}

// assemble finishes the record: placeholder name, store and URL fields,
// affiliate tag and the extraction timestamp. The fixed ten-key specs
// shape is guaranteed by the SpecSheet struct itself.
func (pl *Pipeline) assemble(r *model.ProductExtraction, store StoreID, rawURL string) {
	if r.Name == "" {
		r.Name = store.Label() + " product"
	}
	r.Store = string(store)
	r.OriginalURL = rawURL
	r.AffiliateURL = TagAffiliateURL(rawURL, pl.affiliateTag)
	r.ExtractedAt = time.Now().UTC()
}

// TagAffiliateURL sets the partner tag query parameter on a product URL,
// overwriting any existing value so re-tagging is idempotent. Malformed
// URLs come back unchanged.
func TagAffiliateURL(rawURL, tag string) string {
	if tag == "" {
		return rawURL
	}
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return rawURL
	}
	q := u.Query()
	q.Set("tag", tag)
	u.RawQuery = q.Encode()
	return u.String()
}
