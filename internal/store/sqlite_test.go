package store

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/landylawliet99-blip/api-blog/internal/model"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLite(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestArticleCRUD(t *testing.T) {
	s := newTestStore(t)

	a := &model.Article{
		Title:   "Best Gaming Laptops 2026",
		Slug:    "best-gaming-laptops-2026",
		Content: "The full review.",
	}
	require.NoError(t, s.CreateArticle(a))
	require.NotEmpty(t, a.ID)
	require.Equal(t, model.StatusDraft, a.Status)

	got, err := s.GetArticleByID(a.ID)
	require.NoError(t, err)
	require.Equal(t, a.Title, got.Title)

	bySlug, err := s.GetArticleBySlug(a.Slug)
	require.NoError(t, err)
	require.Equal(t, a.ID, bySlug.ID)

	updated, err := s.UpdateArticle(a.ID, map[string]any{
		"title":  "Best Gaming Laptops of 2026",
		"status": model.StatusPublished,
	})
	require.NoError(t, err)
	require.Equal(t, "Best Gaming Laptops of 2026", updated.Title)
	require.Equal(t, model.StatusPublished, updated.Status)

	all, err := s.GetArticles()
	require.NoError(t, err)
	require.Len(t, all, 1)

	require.NoError(t, s.DeleteArticle(a.ID))
	_, err = s.GetArticleByID(a.ID)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestArticleSlugUnique(t *testing.T) {
	s := newTestStore(t)

	first := &model.Article{Title: "One", Slug: "same-slug", Content: "x"}
	require.NoError(t, s.CreateArticle(first))

	second := &model.Article{Title: "Two", Slug: "same-slug", Content: "y"}
	err := s.CreateArticle(second)
	require.Error(t, err)
	require.Contains(t, err.Error(), "UNIQUE")
}

func TestUpdateArticleRejectsUnknownFields(t *testing.T) {
	s := newTestStore(t)

	a := &model.Article{Title: "T", Slug: "t", Content: "c"}
	require.NoError(t, s.CreateArticle(a))

	// Only unrecognized columns: nothing to apply.
	_, err := s.UpdateArticle(a.ID, map[string]any{"bogus": "x", "id": "hijack"})
	require.ErrorIs(t, err, ErrNoFields)

	// Unknown keys alongside valid ones are silently dropped.
	updated, err := s.UpdateArticle(a.ID, map[string]any{"bogus": "x", "excerpt": "short"})
	require.NoError(t, err)
	require.Equal(t, "short", updated.Excerpt)

	_, err = s.UpdateArticle("missing-id", map[string]any{"title": "new"})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestProductWithLinks(t *testing.T) {
	s := newTestStore(t)

	p := &model.Product{
		Name:  "ASUS ROG Strix G16",
		Brand: "ASUS",
		Specs: model.SpecSheet{GPU: "RTX 4060", RAM: "16GB"},
	}
	require.NoError(t, s.CreateProduct(p))
	require.NotEmpty(t, p.ID)

	price := 1299.99
	link := &model.AffiliateLink{
		ProductID:    p.ID,
		Store:        "amazon",
		URL:          "https://www.amazon.com/dp/B0ABC123?tag=laptopsgaming-20",
		CurrentPrice: &price,
	}
	require.NoError(t, s.AddAffiliateLink(link))
	require.NotEmpty(t, link.ID)
	require.True(t, link.IsActive)

	got, err := s.GetProductByID(p.ID)
	require.NoError(t, err)
	require.Equal(t, "RTX 4060", got.Specs.GPU)
	require.Len(t, got.Links, 1)
	require.NotNil(t, got.Links[0].CurrentPrice)
	require.InDelta(t, 1299.99, *got.Links[0].CurrentPrice, 0.001)
	require.Nil(t, got.Links[0].BasePrice)

	all, err := s.GetProductsWithLinks()
	require.NoError(t, err)
	require.Len(t, all, 1)
	require.Len(t, all[0].Links, 1)

	updatedLink, err := s.UpdateAffiliateLink(link.ID, map[string]any{
		"is_active":     false,
		"current_price": 1199.0,
		"notes":         "price drop",
	})
	require.NoError(t, err)
	require.False(t, updatedLink.IsActive)
	require.InDelta(t, 1199.0, *updatedLink.CurrentPrice, 0.001)
	require.Equal(t, "price drop", updatedLink.Notes)

	// Deleting the product takes its links with it.
	require.NoError(t, s.DeleteProduct(p.ID))
	_, err = s.UpdateAffiliateLink(link.ID, map[string]any{"notes": "gone"})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestAddAffiliateLinkMissingProduct(t *testing.T) {
	s := newTestStore(t)

	err := s.AddAffiliateLink(&model.AffiliateLink{
		ProductID: "nope",
		Store:     "amazon",
		URL:       "https://www.amazon.com/dp/B0",
	})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestPublishedArticleWithProducts(t *testing.T) {
	s := newTestStore(t)

	a := &model.Article{Title: "Top Picks", Slug: "top-picks", Content: "c"}
	require.NoError(t, s.CreateArticle(a))

	p := &model.Product{Name: "MSI Katana 15"}
	require.NoError(t, s.CreateProduct(p))
	require.NoError(t, s.LinkProductToArticle(a.ID, p.ID, "best budget pick"))

	// Drafts are invisible to the public view.
	_, err := s.GetPublishedArticleWithProducts(a.Slug)
	require.ErrorIs(t, err, ErrNotFound)

	_, err = s.UpdateArticle(a.ID, map[string]any{"status": model.StatusPublished})
	require.NoError(t, err)

	got, err := s.GetPublishedArticleWithProducts(a.Slug)
	require.NoError(t, err)
	require.Len(t, got.Products, 1)
	require.Equal(t, "best budget pick", got.Products[0].ReviewNotes)
	require.Equal(t, "MSI Katana 15", got.Products[0].Product.Name)

	// Re-linking the same pair just updates the notes.
	require.NoError(t, s.LinkProductToArticle(a.ID, p.ID, "updated notes"))
	got, err = s.GetPublishedArticleWithProducts(a.Slug)
	require.NoError(t, err)
	require.Len(t, got.Products, 1)
	require.Equal(t, "updated notes", got.Products[0].ReviewNotes)
}

func TestUserRoundtrip(t *testing.T) {
	s := newTestStore(t)

	u := &model.User{
		Email:        "admin@example.com",
		Username:     "admin",
		PasswordHash: "$2a$10$fakefakefakefakefakefake",
	}
	require.NoError(t, s.CreateUser(u))
	require.Equal(t, "admin", u.Role)

	got, err := s.GetUserByEmail("admin@example.com")
	require.NoError(t, err)
	require.Equal(t, u.ID, got.ID)
	require.Equal(t, u.PasswordHash, got.PasswordHash)

	dup := &model.User{Email: "admin@example.com", Username: "other", PasswordHash: "x"}
	require.Error(t, s.CreateUser(dup))

	_, err = s.GetUserByEmail("nobody@example.com")
	require.ErrorIs(t, err, ErrNotFound)
}
