package scraper

// amazonSet is the dedicated high-effort pass for Amazon product pages.
// It layers Amazon's well-known element identifiers on top of the shared
// tiers and runs the full cascade, including feature bullets and the
// product-description free text that the generic pass skips.
func amazonSet() *strategySet {
	return &strategySet{
		store: StoreAmazon,
		name: []strategy{
			{tierMarkup, "product_title", selText("#productTitle")},
			{tierMarkup, "title_id", selText("#title")},
			{tierMarkup, "h1_title", selText("h1#title")},
			{tierMarkup, "h1_large", selText("h1.a-size-large")},
			{tierMarkup, "first_h1", selText("h1")},
		},
		// Selector order mirrors how often each variant appears on
		// current product pages; first hit with a parsable number wins.
		price: []strategy{
			{tierMarkup, "price_whole", selText(".a-price-whole")},
			{tierMarkup, "price_offscreen", selText(".a-price .a-offscreen")},
			{tierMarkup, "price_to_pay", selText(".priceToPay span.a-offscreen")},
			{tierMarkup, "apex_price", selText(".apexPriceToPay span.a-offscreen")},
			{tierMarkup, "priceblock_our", selText("#priceblock_ourprice")},
			{tierMarkup, "priceblock_deal", selText("#priceblock_dealprice")},
			{tierMarkup, "buybox_price", selText("#price_inside_buybox")},
			{tierMarkup, "color_price", selText(".a-color-price")},
		},
		image: []strategy{
			{tierMarkup, "landing_image", selAttr("#landingImage", "src")},
			{tierMarkup, "img_blk_front", selAttr("#imgBlkFront", "src")},
			{tierMarkup, "dynamic_image", selAttr(".a-dynamic-image", "src")},
			{tierMarkup, "main_image", selAttr("#main-image", "src")},
			{tierMarkup, "old_hires", selAttr(".a-dynamic-image[data-old-hires]", "data-old-hires")},
		},
		brand: []strategy{
			{tierMarkup, "byline", func(p *page) string {
				return cleanByline(p.doc.Find("a#bylineInfo").First().Text())
			}},
			{tierMarkup, "byline_div", func(p *page) string {
				return cleanByline(p.doc.Find("#bylineInfo").First().Text())
			}},
		},
		bulletSelector:   "#feature-bullets ul.a-unordered-list li, .a-unordered-list.a-vertical.a-spacing-mini li",
		fullTextSelector: "div#productDescription, #feature-bullets",
		specTiers:        []int{tierTable, tierBullets, tierFullText, tierTitle},
	}
}
