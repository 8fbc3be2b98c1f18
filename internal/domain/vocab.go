package domain

import (
	"errors"
	"fmt"
)

// ErrInvalidCatalog is returned when catalog data fails validation
var ErrInvalidCatalog = errors.New("invalid catalog")

// VocabItem is a single picture card: an image and the words that name it.
// Items are built once by NewVocabItem and never mutated afterwards.
type VocabItem struct {
	ID          string
	DisplayName string
	Synonyms    []string
	ImageRef    string
	AltText     string
	Locale      string

	accepted map[string]struct{}
}

// NewVocabItem builds an item and precomputes its accepted answers
func NewVocabItem(id, displayName string, synonyms []string, imageRef, altText, locale string) VocabItem {
	accepted := make(map[string]struct{}, len(synonyms)+1)
	for _, s := range append([]string{displayName}, synonyms...) {
		if n := Normalize(s); n != "" {
			accepted[n] = struct{}{}
		}
	}

	syn := make([]string, len(synonyms))
	copy(syn, synonyms)

	return VocabItem{
		ID:          id,
		DisplayName: displayName,
		Synonyms:    syn,
		ImageRef:    imageRef,
		AltText:     altText,
		Locale:      locale,
		accepted:    accepted,
	}
}

// Accepts reports whether the answer names this item.
// Empty answers never match.
func (v VocabItem) Accepts(answer string) bool {
	n := Normalize(answer)
	if n == "" {
		return false
	}
	_, ok := v.accepted[n]
	return ok
}

// Accepted returns the normalized accepted answers
func (v VocabItem) Accepted() []string {
	out := make([]string, 0, len(v.accepted))
	for a := range v.accepted {
		out = append(out, a)
	}
	return out
}

// Catalog is the ordered, validated set of items a game draws from
type Catalog struct {
	items []VocabItem
	byID  map[string]int
}

// NewCatalog validates items and returns a catalog preserving their order
func NewCatalog(items []VocabItem) (*Catalog, error) {
	c := &Catalog{
		items: make([]VocabItem, 0, len(items)),
		byID:  make(map[string]int, len(items)),
	}

	for i, item := range items {
		if item.ID == "" {
			return nil, fmt.Errorf("%w: item %d has empty id", ErrInvalidCatalog, i)
		}
		if _, dup := c.byID[item.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate id %q", ErrInvalidCatalog, item.ID)
		}
		if Normalize(item.DisplayName) == "" {
			return nil, fmt.Errorf("%w: item %q has empty display name", ErrInvalidCatalog, item.ID)
		}
		if item.ImageRef == "" {
			return nil, fmt.Errorf("%w: item %q has no image", ErrInvalidCatalog, item.ID)
		}
		c.byID[item.ID] = len(c.items)
		c.items = append(c.items, item)
	}

	return c, nil
}

// Len returns number of items
func (c *Catalog) Len() int {
	return len(c.items)
}

// Items returns a copy of the items in catalog order
func (c *Catalog) Items() []VocabItem {
	out := make([]VocabItem, len(c.items))
	copy(out, c.items)
	return out
}

// ByID looks up an item by its id
func (c *Catalog) ByID(id string) (VocabItem, bool) {
	i, ok := c.byID[id]
	if !ok {
		return VocabItem{}, false
	}
	return c.items[i], true
}
