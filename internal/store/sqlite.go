package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/landylawliet99-blip/api-blog/internal/model"

	_ "github.com/mattn/go-sqlite3"
)

// ErrNotFound is returned when the requested row does not exist.
var ErrNotFound = errors.New("not found")

// ErrNoFields is returned by updates that carry no recognized columns.
var ErrNoFields = errors.New("no valid fields to update")

// SQLiteStore persists blog data in a SQLite database.
type SQLiteStore struct {
	db      *sql.DB
	dataDir string
}

// NewSQLite creates a new SQLiteStore instance.
func NewSQLite(dataDir string) (*SQLiteStore, error) {
	dbPath := filepath.Join(dataDir, "api-blog.db")

	// Ensure data directory exists
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	// Open database with WAL mode and foreign keys enabled
	dsn := fmt.Sprintf("file:%s?_foreign_keys=on&_journal_mode=WAL&_timeout=5000", dbPath)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := &SQLiteStore{
		db:      db,
		dataDir: dataDir,
	}

	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return s, nil
}

// migrate creates tables and indexes.
func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS articles (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		slug TEXT NOT NULL UNIQUE,
		excerpt TEXT,
		content TEXT NOT NULL,
		cover_image_url TEXT,
		status TEXT NOT NULL DEFAULT 'draft',
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS products (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		brand TEXT,
		model TEXT,
		image_url TEXT,
		specs TEXT,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS affiliate_links (
		id TEXT PRIMARY KEY,
		product_id TEXT NOT NULL,
		store TEXT NOT NULL,
		url TEXT NOT NULL,
		base_price REAL,
		current_price REAL,
		original_price REAL,
		discount_percentage REAL,
		is_active INTEGER NOT NULL DEFAULT 1,
		notes TEXT,
		last_updated INTEGER NOT NULL,
		FOREIGN KEY (product_id) REFERENCES products(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS article_products (
		article_id TEXT NOT NULL,
		product_id TEXT NOT NULL,
		review_notes TEXT,
		PRIMARY KEY (article_id, product_id),
		FOREIGN KEY (article_id) REFERENCES articles(id) ON DELETE CASCADE,
		FOREIGN KEY (product_id) REFERENCES products(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		username TEXT NOT NULL,
		password_hash TEXT NOT NULL,
		role TEXT NOT NULL DEFAULT 'admin',
		created_at INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_articles_slug ON articles(slug);
	CREATE INDEX IF NOT EXISTS idx_articles_status ON articles(status);
	CREATE INDEX IF NOT EXISTS idx_articles_created_at ON articles(created_at DESC);
	CREATE INDEX IF NOT EXISTS idx_products_created_at ON products(created_at DESC);
	CREATE INDEX IF NOT EXISTS idx_affiliate_links_product_id ON affiliate_links(product_id);
	CREATE INDEX IF NOT EXISTS idx_article_products_article_id ON article_products(article_id);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// ==================== Articles ====================

// CreateArticle inserts a new article, assigning an ID and timestamps.
func (s *SQLiteStore) CreateArticle(a *model.Article) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.Status == "" {
		a.Status = model.StatusDraft
	}
	now := time.Now()
	a.CreatedAt = now
	a.UpdatedAt = now

	_, err := s.db.Exec(`
		INSERT INTO articles (id, title, slug, excerpt, content, cover_image_url, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.Title, a.Slug, a.Excerpt, a.Content, a.CoverImageURL, a.Status, now.Unix(), now.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to create article: %w", err)
	}
	return nil
}

func scanArticle(row interface{ Scan(...any) error }) (*model.Article, error) {
	a := &model.Article{}
	var excerpt, cover sql.NullString
	var created, updated int64

	err := row.Scan(&a.ID, &a.Title, &a.Slug, &excerpt, &a.Content, &cover, &a.Status, &created, &updated)
	if err != nil {
		return nil, err
	}
	a.Excerpt = excerpt.String
	a.CoverImageURL = cover.String
	a.CreatedAt = time.Unix(created, 0)
	a.UpdatedAt = time.Unix(updated, 0)
	return a, nil
}

const articleColumns = `id, title, slug, excerpt, content, cover_image_url, status, created_at, updated_at`

// GetArticles returns all articles, newest first.
func (s *SQLiteStore) GetArticles() ([]*model.Article, error) {
	rows, err := s.db.Query(`SELECT ` + articleColumns + ` FROM articles ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query articles: %w", err)
	}
	defer rows.Close()

	var articles []*model.Article
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, err
		}
		articles = append(articles, a)
	}
	return articles, rows.Err()
}

// GetArticleByID returns a single article or ErrNotFound.
func (s *SQLiteStore) GetArticleByID(id string) (*model.Article, error) {
	row := s.db.QueryRow(`SELECT `+articleColumns+` FROM articles WHERE id = ?`, id)
	a, err := scanArticle(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return a, err
}

// GetArticleBySlug returns a single article or ErrNotFound.
func (s *SQLiteStore) GetArticleBySlug(slug string) (*model.Article, error) {
	row := s.db.QueryRow(`SELECT `+articleColumns+` FROM articles WHERE slug = ?`, slug)
	a, err := scanArticle(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return a, err
}

// GetPublishedArticleWithProducts returns a published article together
// with its linked products and their affiliate links, for the public
// blog view. Draft articles are treated as not found.
func (s *SQLiteStore) GetPublishedArticleWithProducts(slug string) (*model.Article, error) {
	row := s.db.QueryRow(
		`SELECT `+articleColumns+` FROM articles WHERE slug = ? AND status = ?`,
		slug, model.StatusPublished,
	)
	a, err := scanArticle(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	rows, err := s.db.Query(`
		SELECT ap.product_id, ap.review_notes
		FROM article_products ap
		WHERE ap.article_id = ?`, a.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to query article products: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var productID string
		var notes sql.NullString
		if err := rows.Scan(&productID, &notes); err != nil {
			return nil, err
		}
		product, err := s.GetProductByID(productID)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				continue
			}
			return nil, err
		}
		a.Products = append(a.Products, model.ArticleProduct{
			ReviewNotes: notes.String,
			Product:     product,
		})
	}
	return a, rows.Err()
}

var articleUpdateColumns = map[string]bool{
	"title":           true,
	"slug":            true,
	"excerpt":         true,
	"content":         true,
	"cover_image_url": true,
	"status":          true,
}

// UpdateArticle applies a partial update and returns the updated row.
// Unknown fields are ignored; an update with no usable fields fails.
func (s *SQLiteStore) UpdateArticle(id string, updates map[string]any) (*model.Article, error) {
	if err := s.applyUpdates("articles", id, updates, articleUpdateColumns, "updated_at"); err != nil {
		return nil, err
	}
	return s.GetArticleByID(id)
}

// DeleteArticle removes an article and its product relations.
func (s *SQLiteStore) DeleteArticle(id string) error {
	return s.deleteByID("articles", id)
}

// ==================== Products ====================

// CreateProduct inserts a new product, assigning an ID and timestamps.
func (s *SQLiteStore) CreateProduct(p *model.Product) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now

	specs, err := json.Marshal(p.Specs)
	if err != nil {
		return fmt.Errorf("failed to encode specs: %w", err)
	}

	_, err = s.db.Exec(`
		INSERT INTO products (id, name, brand, model, image_url, specs, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Name, p.Brand, p.Model, p.ImageURL, string(specs), now.Unix(), now.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

func scanProduct(row interface{ Scan(...any) error }) (*model.Product, error) {
	p := &model.Product{}
	var brand, mdl, image, specs sql.NullString
	var created, updated int64

	err := row.Scan(&p.ID, &p.Name, &brand, &mdl, &image, &specs, &created, &updated)
	if err != nil {
		return nil, err
	}
	p.Brand = brand.String
	p.Model = mdl.String
	p.ImageURL = image.String
	if specs.Valid && specs.String != "" {
		// A row with corrupt specs still returns; the zero sheet keeps the
		// fixed shape.
		_ = json.Unmarshal([]byte(specs.String), &p.Specs)
	}
	p.CreatedAt = time.Unix(created, 0)
	p.UpdatedAt = time.Unix(updated, 0)
	return p, nil
}

const productColumns = `id, name, brand, model, image_url, specs, created_at, updated_at`

// GetProductsWithLinks returns all products with their affiliate links,
// newest first.
func (s *SQLiteStore) GetProductsWithLinks() ([]*model.Product, error) {
	rows, err := s.db.Query(`SELECT ` + productColumns + ` FROM products ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	var products []*model.Product
	byID := make(map[string]*model.Product)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
		byID[p.ID] = p
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	links, err := s.queryLinks(``)
	if err != nil {
		return nil, err
	}
	for _, l := range links {
		if p, ok := byID[l.ProductID]; ok {
			p.Links = append(p.Links, *l)
		}
	}
	return products, nil
}

// GetProductByID returns a single product with its links or ErrNotFound.
func (s *SQLiteStore) GetProductByID(id string) (*model.Product, error) {
	row := s.db.QueryRow(`SELECT `+productColumns+` FROM products WHERE id = ?`, id)
	p, err := scanProduct(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	links, err := s.queryLinks(`WHERE product_id = ?`, id)
	if err != nil {
		return nil, err
	}
	for _, l := range links {
		p.Links = append(p.Links, *l)
	}
	return p, nil
}

var productUpdateColumns = map[string]bool{
	"name":      true,
	"brand":     true,
	"model":     true,
	"image_url": true,
	"specs":     true,
}

// UpdateProduct applies a partial update and returns the updated row.
func (s *SQLiteStore) UpdateProduct(id string, updates map[string]any) (*model.Product, error) {
	if err := s.applyUpdates("products", id, updates, productUpdateColumns, "updated_at"); err != nil {
		return nil, err
	}
	return s.GetProductByID(id)
}

// DeleteProduct removes a product; its links and article relations go
// with it via the foreign keys.
func (s *SQLiteStore) DeleteProduct(id string) error {
	return s.deleteByID("products", id)
}

// ==================== Affiliate links ====================

// AddAffiliateLink attaches a store listing to an existing product.
func (s *SQLiteStore) AddAffiliateLink(l *model.AffiliateLink) error {
	if _, err := s.GetProductByID(l.ProductID); err != nil {
		return err
	}
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	l.IsActive = true
	l.LastUpdated = time.Now()

	_, err := s.db.Exec(`
		INSERT INTO affiliate_links (id, product_id, store, url, base_price, current_price, original_price, discount_percentage, is_active, notes, last_updated)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, 1, ?, ?)`,
		l.ID, l.ProductID, l.Store, l.URL,
		nullFloat(l.BasePrice), nullFloat(l.CurrentPrice), nullFloat(l.OriginalPrice), nullFloat(l.DiscountPercentage),
		l.Notes, l.LastUpdated.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to add affiliate link: %w", err)
	}
	return nil
}

func (s *SQLiteStore) queryLinks(where string, args ...any) ([]*model.AffiliateLink, error) {
	q := `SELECT id, product_id, store, url, base_price, current_price, original_price, discount_percentage, is_active, notes, last_updated
		FROM affiliate_links ` + where + ` ORDER BY last_updated DESC`
	rows, err := s.db.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query affiliate links: %w", err)
	}
	defer rows.Close()

	var links []*model.AffiliateLink
	for rows.Next() {
		l := &model.AffiliateLink{}
		var base, current, original, discount sql.NullFloat64
		var notes sql.NullString
		var active int
		var updated int64

		err := rows.Scan(&l.ID, &l.ProductID, &l.Store, &l.URL, &base, &current, &original, &discount, &active, &notes, &updated)
		if err != nil {
			return nil, err
		}
		l.BasePrice = floatPtr(base)
		l.CurrentPrice = floatPtr(current)
		l.OriginalPrice = floatPtr(original)
		l.DiscountPercentage = floatPtr(discount)
		l.IsActive = active != 0
		l.Notes = notes.String
		l.LastUpdated = time.Unix(updated, 0)
		links = append(links, l)
	}
	return links, rows.Err()
}

var linkUpdateColumns = map[string]bool{
	"is_active":           true,
	"current_price":       true,
	"original_price":      true,
	"discount_percentage": true,
	"notes":               true,
}

// UpdateAffiliateLink applies a partial update (price and status fields
// only) and returns the updated link.
func (s *SQLiteStore) UpdateAffiliateLink(id string, updates map[string]any) (*model.AffiliateLink, error) {
	if err := s.applyUpdates("affiliate_links", id, updates, linkUpdateColumns, "last_updated"); err != nil {
		return nil, err
	}
	links, err := s.queryLinks(`WHERE id = ?`, id)
	if err != nil {
		return nil, err
	}
	if len(links) == 0 {
		return nil, ErrNotFound
	}
	return links[0], nil
}

// DeleteAffiliateLink removes a single affiliate link.
func (s *SQLiteStore) DeleteAffiliateLink(id string) error {
	return s.deleteByID("affiliate_links", id)
}

// ==================== Article-product relations ====================

// LinkProductToArticle relates a product to an article; re-linking the
// same pair updates the review notes.
func (s *SQLiteStore) LinkProductToArticle(articleID, productID, reviewNotes string) error {
	if _, err := s.GetArticleByID(articleID); err != nil {
		return err
	}
	if _, err := s.GetProductByID(productID); err != nil {
		return err
	}
	_, err := s.db.Exec(`
		INSERT INTO article_products (article_id, product_id, review_notes)
		VALUES (?, ?, ?)
		ON CONFLICT(article_id, product_id) DO UPDATE SET review_notes = excluded.review_notes`,
		articleID, productID, reviewNotes,
	)
	if err != nil {
		return fmt.Errorf("failed to link product to article: %w", err)
	}
	return nil
}

// ==================== Users ====================

// CreateUser inserts a new admin user.
func (s *SQLiteStore) CreateUser(u *model.User) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.Role == "" {
		u.Role = "admin"
	}
	u.CreatedAt = time.Now()

	_, err := s.db.Exec(`
		INSERT INTO users (id, email, username, password_hash, role, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		u.ID, u.Email, u.Username, u.PasswordHash, u.Role, u.CreatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetUserByEmail returns a user or ErrNotFound.
func (s *SQLiteStore) GetUserByEmail(email string) (*model.User, error) {
	u := &model.User{}
	var created int64
	err := s.db.QueryRow(`
		SELECT id, email, username, password_hash, role, created_at
		FROM users WHERE email = ?`, email,
	).Scan(&u.ID, &u.Email, &u.Username, &u.PasswordHash, &u.Role, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	u.CreatedAt = time.Unix(created, 0)
	return u, nil
}

// ==================== Helpers ====================

// applyUpdates builds a dynamic SET clause from the allowed subset of the
// update map and stamps the touch column. ErrNotFound when no row matched;
// an update with no usable fields is an error the handler maps to 400.
func (s *SQLiteStore) applyUpdates(table, id string, updates map[string]any, allowed map[string]bool, touchColumn string) error {
	keys := make([]string, 0, len(updates))
	for k := range updates {
		if allowed[k] {
			keys = append(keys, k)
		}
	}
	if len(keys) == 0 {
		return ErrNoFields
	}
	sort.Strings(keys)

	var sets []string
	var args []any
	for _, k := range keys {
		v := updates[k]
		// Nested objects (product specs) are stored as JSON text.
		if m, ok := v.(map[string]any); ok {
			encoded, err := json.Marshal(m)
			if err != nil {
				return fmt.Errorf("failed to encode %s: %w", k, err)
			}
			v = string(encoded)
		}
		sets = append(sets, k+" = ?")
		args = append(args, v)
	}
	sets = append(sets, touchColumn+" = ?")
	args = append(args, time.Now().Unix())
	args = append(args, id)

	res, err := s.db.Exec(
		fmt.Sprintf("UPDATE %s SET %s WHERE id = ?", table, strings.Join(sets, ", ")),
		args...,
	)
	if err != nil {
		return fmt.Errorf("failed to update %s: %w", table, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteStore) deleteByID(table, id string) error {
	res, err := s.db.Exec(fmt.Sprintf("DELETE FROM %s WHERE id = ?", table), id)
	if err != nil {
		return fmt.Errorf("failed to delete from %s: %w", table, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func nullFloat(f *float64) any {
	if f == nil {
		return nil
	}
	return *f
}

func floatPtr(f sql.NullFloat64) *float64 {
	if !f.Valid {
		return nil
	}
	v := f.Float64
	return &v
}
