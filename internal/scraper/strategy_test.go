package scraper

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

func TestParsePrice(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"$1,299.99", 1299.99, true},
		{"US$ 2,000", 2000, true},
		{"999", 999, true},
		{"$0.00", 0, false},
		{"Currently unavailable", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		got, ok := parsePrice(tt.in)
		require.Equal(t, tt.ok, ok, "input %q", tt.in)
		if tt.ok {
			require.InDelta(t, tt.want, got, 0.001, "input %q", tt.in)
		}
	}
}

func TestPlausibleSpecValue(t *testing.T) {
	require.True(t, plausibleSpecValue("16GB DDR5"))
	require.True(t, plausibleSpecValue("NVIDIA GeForce RTX 4060"))

	require.False(t, plausibleSpecValue(""))
	require.False(t, plausibleSpecValue(strings.Repeat("x", maxSpecValueLen+1)))
	require.False(t, plausibleSpecValue("Click here to see more offers"))
	require.False(t, plausibleSpecValue("Free shipping on orders over $25"))
}

func TestCleanByline(t *testing.T) {
	require.Equal(t, "ASUS", cleanByline("Visit the ASUS Store"))
	require.Equal(t, "HP", cleanByline("Marca: HP"))
	require.Equal(t, "Lenovo", cleanByline("Lenovo"))
}

func TestBrandFromName(t *testing.T) {
	require.Equal(t, "MSI", brandFromName("MSI Katana 15 Gaming Laptop"))
	require.Equal(t, "ASUS", brandFromName("Laptop Asus TUF Gaming F15"))
	require.Equal(t, "", brandFromName("Generic Gaming Laptop"))
}

func TestCorrectRAM(t *testing.T) {
	// A suspiciously small figure loses to a larger one in the title.
	require.Equal(t, "16GB", correctRAM("6GB", "MSI Katana 15 Gaming Laptop 16GB RAM"))

	// Double-digit values are trusted as-is.
	require.Equal(t, "16GB DDR5", correctRAM("16GB DDR5", "Laptop 32GB"))

	// No title figure, nothing to correct against.
	require.Equal(t, "4GB", correctRAM("4GB", "Chromebook for students"))

	// Title figure not larger: keep the extracted value.
	require.Equal(t, "8GB", correctRAM("8GB", "Laptop 8GB RAM"))

	require.Equal(t, "", correctRAM("", "Laptop 16GB"))
}

func TestTableValue(t *testing.T) {
	html := `<html><body><table>
<tr><th>Brand</th><td>ASUS</td></tr>
<tr><td>Memoria</td><td>16GB DDR5</td></tr>
<tr><th>Graphics</th><td>NVIDIA GeForce RTX 4060</td></tr>
<tr><th></th><td>orphan value</td></tr>
</table></body></html>`
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	p := newPage(doc, genericSet(StoreUnknown))

	// Label matching is containment on the lowercased label cell, and the
	// first matching row wins.
	require.Equal(t, "ASUS", tableValue(p, []string{"brand", "marca"}))
	require.Equal(t, "16GB DDR5", tableValue(p, []string{"ram", "memory", "memoria"}))
	require.Equal(t, "NVIDIA GeForce RTX 4060", tableValue(p, []string{"graphics", "gpu"}))
	require.Equal(t, "", tableValue(p, []string{"battery"}))
}

func TestTagAffiliateURL(t *testing.T) {
	got := TagAffiliateURL("https://www.amazon.com/dp/B0ABC123", "laptopsgaming-20")
	require.Contains(t, got, "tag=laptopsgaming-20")

	// Re-tagging overwrites, never appends a second tag.
	again := TagAffiliateURL(got, "laptopsgaming-20")
	require.Equal(t, got, again)

	replaced := TagAffiliateURL("https://www.amazon.com/dp/B0ABC123?tag=other-21", "laptopsgaming-20")
	require.Contains(t, replaced, "tag=laptopsgaming-20")
	require.NotContains(t, replaced, "other-21")

	// Other query parameters survive.
	withQuery := TagAffiliateURL("https://www.amazon.com/dp/B0ABC123?th=1", "laptopsgaming-20")
	require.Contains(t, withQuery, "th=1")

	// Malformed or hostless input comes back untouched.
	require.Equal(t, "%zz", TagAffiliateURL("%zz", "laptopsgaming-20"))
	require.Equal(t, "/dp/B0ABC123", TagAffiliateURL("/dp/B0ABC123", "laptopsgaming-20"))

	require.Equal(t, "https://a.com/x", TagAffiliateURL("https://a.com/x", ""))
}
