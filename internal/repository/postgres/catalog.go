package postgres

import (
	"database/sql"
	"fmt"

	"picturecards/internal/domain"

	"github.com/lib/pq"
)

// CatalogRepo implements repository.CatalogRepository
type CatalogRepo struct {
	db *sql.DB
}

// NewCatalogRepo creates a new catalog repository
func NewCatalogRepo(db *sql.DB) *CatalogRepo {
	return &CatalogRepo{db: db}
}

// ListItems returns all catalog items in display order
func (r *CatalogRepo) ListItems() ([]domain.VocabItem, error) {
	query := `
		SELECT id, display_name, alt_text, image_ref, locale, synonyms
		FROM vocab_items
		ORDER BY position, id
	`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.VocabItem
	for rows.Next() {
		var (
			id, name, alt, image, locale string
			synonyms                     []string
		)
		if err := rows.Scan(&id, &name, &alt, &image, &locale, pq.Array(&synonyms)); err != nil {
			return nil, err
		}
		items = append(items, domain.NewVocabItem(id, name, synonyms, image, alt, locale))
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// UpsertItems inserts or updates items in one transaction. Item order
// becomes the display order.
func (r *CatalogRepo) UpsertItems(items []domain.VocabItem) (int, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}

	query := `
		INSERT INTO vocab_items (id, position, display_name, alt_text, image_ref, locale, synonyms)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			position = EXCLUDED.position,
			display_name = EXCLUDED.display_name,
			alt_text = EXCLUDED.alt_text,
			image_ref = EXCLUDED.image_ref,
			locale = EXCLUDED.locale,
			synonyms = EXCLUDED.synonyms,
			updated_at = NOW()
	`

	for i, item := range items {
		synonyms := item.Synonyms
		if synonyms == nil {
			synonyms = []string{}
		}
		if _, err := tx.Exec(query,
			item.ID, i, item.DisplayName, item.AltText, item.ImageRef, item.Locale, pq.Array(synonyms),
		); err != nil {
			tx.Rollback()
			return 0, fmt.Errorf("failed to upsert item %q: %w", item.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit catalog: %w", err)
	}
	return len(items), nil
}

// CountItems returns number of catalog items
func (r *CatalogRepo) CountItems() (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM vocab_items`).Scan(&count)
	return count, err
}
