package catalog

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"picturecards/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cf := Default()
	c, err := cf.Build()
	require.NoError(t, err)

	assert.Equal(t, 5, c.Len())

	dog, ok := c.ByID("dog")
	require.True(t, ok)
	assert.Equal(t, "собака", dog.DisplayName)
	assert.Equal(t, "Dog", dog.AltText)
	assert.Equal(t, "ru-RU", dog.Locale)
	assert.True(t, dog.Accepts("Пёс"))
	assert.True(t, dog.Accepts("dog"))
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name          string
		yaml          string
		expectedItems int
		expectedError bool
	}{
		{
			name: "valid file",
			yaml: `
locale: en-US
items:
  - id: apple
    name: apple
    image: https://example.com/apple.jpg
`,
			expectedItems: 1,
		},
		{
			name:          "unknown key",
			yaml:          "items: []\ncolour: red\n",
			expectedError: true,
		},
		{
			name:          "not yaml",
			yaml:          "items: [",
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cf, err := Decode(strings.NewReader(tt.yaml))
			if tt.expectedError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Len(t, cf.Items, tt.expectedItems)
		})
	}
}

func TestFile_VocabItems(t *testing.T) {
	cf := &File{
		Locale: "ru-RU",
		Items: []ItemEntry{
			{ID: "cat", Name: "кошка", Image: "cat.jpg", Synonyms: []string{"кот"}},
			{ID: "dog", Name: "dog", Alt: "Doggo", Image: "dog.jpg", Locale: "en-GB"},
		},
	}

	items := cf.VocabItems()
	require.Len(t, items, 2)

	assert.Equal(t, "ru-RU", items[0].Locale)
	assert.Equal(t, "кошка", items[0].AltText, "alt falls back to name")
	assert.True(t, items[0].Accepts("КОТ"))

	assert.Equal(t, "en-GB", items[1].Locale)
	assert.Equal(t, "Doggo", items[1].AltText)
}

func TestFile_BuildRejectsDuplicates(t *testing.T) {
	cf := &File{Items: []ItemEntry{
		{ID: "cat", Name: "cat", Image: "cat.jpg"},
		{ID: "cat", Name: "kitty", Image: "kitty.jpg"},
	}}

	_, err := cf.Build()
	assert.ErrorIs(t, err, domain.ErrInvalidCatalog)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.yaml")

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, Default()))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o600))

	cf, err := LoadFile(path)
	require.NoError(t, err)

	c, err := cf.Build()
	require.NoError(t, err)
	assert.Equal(t, 5, c.Len())
	assert.Equal(t, "apple", c.Items()[0].ID)
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestFromItems(t *testing.T) {
	c, err := Default().Build()
	require.NoError(t, err)

	cf := FromItems(c.Items())
	require.Len(t, cf.Items, 5)
	assert.Equal(t, "car", cf.Items[2].ID)
	assert.Equal(t, "машина", cf.Items[2].Name)
	assert.Equal(t, []string{"автомобиль", "тачка", "car"}, cf.Items[2].Synonyms)
}
