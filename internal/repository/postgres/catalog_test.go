package postgres

import (
	"fmt"
	"testing"

	"picturecards/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

var catalogColumns = []string{"id", "display_name", "alt_text", "image_ref", "locale", "synonyms"}

func TestCatalogRepo_ListItems(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewCatalogRepo(db)

	rows := sqlmock.NewRows(catalogColumns).
		AddRow("apple", "яблоко", "Apple", "images/apple.jpg", "ru-RU", []byte("{яблочко,apple}")).
		AddRow("dog", "собака", "Dog", "images/dog.jpg", "ru-RU", []byte("{пёс,dog}"))

	mock.ExpectQuery("SELECT id, display_name, alt_text, image_ref, locale, synonyms FROM vocab_items ORDER BY position, id").
		WillReturnRows(rows)

	items, err := repo.ListItems()

	assert.NoError(t, err)
	assert.Len(t, items, 2)
	assert.Equal(t, "apple", items[0].ID)
	assert.Equal(t, "Apple", items[0].AltText)
	assert.Equal(t, []string{"яблочко", "apple"}, items[0].Synonyms)
	assert.Equal(t, "dog", items[1].ID)
	assert.True(t, items[1].Accepts("пес"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCatalogRepo_ListItems_QueryError(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewCatalogRepo(db)

	mock.ExpectQuery("SELECT id, display_name").
		WillReturnError(fmt.Errorf("query error"))

	items, err := repo.ListItems()

	assert.Error(t, err)
	assert.Nil(t, items)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCatalogRepo_ListItems_ScanError(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewCatalogRepo(db)

	// Malformed array literal makes the synonyms scan fail
	rows := sqlmock.NewRows(catalogColumns).
		AddRow("apple", "яблоко", "Apple", "images/apple.jpg", "ru-RU", []byte("not an array"))

	mock.ExpectQuery("SELECT id, display_name").
		WillReturnRows(rows)

	items, err := repo.ListItems()

	assert.Error(t, err)
	assert.Nil(t, items)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCatalogRepo_UpsertItems(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewCatalogRepo(db)

	items := []domain.VocabItem{
		domain.NewVocabItem("apple", "яблоко", []string{"apple"}, "images/apple.jpg", "Apple", "ru-RU"),
		domain.NewVocabItem("dog", "собака", nil, "images/dog.jpg", "Dog", "ru-RU"),
	}

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO vocab_items").
		WithArgs("apple", 0, "яблоко", "Apple", "images/apple.jpg", "ru-RU", pq.Array([]string{"apple"})).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO vocab_items").
		WithArgs("dog", 1, "собака", "Dog", "images/dog.jpg", "ru-RU", pq.Array([]string{})).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	n, err := repo.UpsertItems(items)

	assert.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCatalogRepo_UpsertItems_RollsBackOnError(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewCatalogRepo(db)

	items := []domain.VocabItem{
		domain.NewVocabItem("apple", "яблоко", nil, "images/apple.jpg", "Apple", "ru-RU"),
	}

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO vocab_items").
		WillReturnError(fmt.Errorf("constraint violation"))
	mock.ExpectRollback()

	n, err := repo.UpsertItems(items)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "apple")
	assert.Zero(t, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCatalogRepo_UpsertItems_BeginError(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewCatalogRepo(db)

	mock.ExpectBegin().WillReturnError(fmt.Errorf("connection lost"))

	_, err = repo.UpsertItems(nil)

	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCatalogRepo_CountItems(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewCatalogRepo(db)

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM vocab_items").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(5))

	count, err := repo.CountItems()

	assert.NoError(t, err)
	assert.Equal(t, 5, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}
