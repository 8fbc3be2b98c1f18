// Package catalog reads vocabulary catalogs from YAML.
//
// A catalog file lists picture cards in display order:
//
//	locale: ru-RU
//	items:
//	  - id: dog
//	    name: собака
//	    alt: Dog
//	    image: images/dog.jpg
//	    synonyms: [пёс, собачка]
//
// The top-level locale applies to items that do not set their own.
package catalog

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"

	"picturecards/internal/domain"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultCatalog []byte

// File is the top-level structure of a catalog YAML file
type File struct {
	Locale string      `yaml:"locale"`
	Items  []ItemEntry `yaml:"items"`
}

// ItemEntry is one card in a catalog file
type ItemEntry struct {
	ID       string   `yaml:"id"`
	Name     string   `yaml:"name"`
	Alt      string   `yaml:"alt"`
	Image    string   `yaml:"image"`
	Locale   string   `yaml:"locale,omitempty"`
	Synonyms []string `yaml:"synonyms,omitempty"`
}

// LoadFile reads and parses a catalog file from disk
func LoadFile(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: open %q: %w", path, err)
	}
	defer f.Close()

	cf, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("catalog: parse %q: %w", path, err)
	}
	return cf, nil
}

// Decode parses catalog YAML. Unknown keys are rejected.
func Decode(r io.Reader) (*File, error) {
	var cf File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cf); err != nil {
		return nil, fmt.Errorf("catalog: decode yaml: %w", err)
	}
	return &cf, nil
}

// Encode writes cf as YAML
func Encode(w io.Writer, cf *File) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(cf); err != nil {
		return fmt.Errorf("catalog: encode yaml: %w", err)
	}
	return enc.Close()
}

// Default returns the built-in five card catalog
func Default() *File {
	cf, err := Decode(bytes.NewReader(defaultCatalog))
	if err != nil {
		panic(err)
	}
	return cf
}

// VocabItems converts entries to domain items, applying the file locale
func (cf *File) VocabItems() []domain.VocabItem {
	items := make([]domain.VocabItem, 0, len(cf.Items))
	for _, e := range cf.Items {
		locale := e.Locale
		if locale == "" {
			locale = cf.Locale
		}
		alt := e.Alt
		if alt == "" {
			alt = e.Name
		}
		items = append(items, domain.NewVocabItem(e.ID, e.Name, e.Synonyms, e.Image, alt, locale))
	}
	return items
}

// Build validates the file and returns a catalog
func (cf *File) Build() (*domain.Catalog, error) {
	return domain.NewCatalog(cf.VocabItems())
}

// FromItems builds a file from domain items, e.g. for exporting a stored
// catalog
func FromItems(items []domain.VocabItem) *File {
	cf := &File{Items: make([]ItemEntry, 0, len(items))}
	for _, item := range items {
		cf.Items = append(cf.Items, ItemEntry{
			ID:       item.ID,
			Name:     item.DisplayName,
			Alt:      item.AltText,
			Image:    item.ImageRef,
			Locale:   item.Locale,
			Synonyms: item.Synonyms,
		})
	}
	return cf
}
