package repository

import (
	"picturecards/internal/domain"
)

// PlayerRepository defines player data operations
type PlayerRepository interface {
	IsAuthorized(userID int64) (bool, error)
	AuthorizePlayer(userID int64) error
	EnsurePlayerExists(userID int64) error
}

// CatalogRepository defines vocabulary catalog operations
type CatalogRepository interface {
	ListItems() ([]domain.VocabItem, error)
	UpsertItems(items []domain.VocabItem) (int, error)
	CountItems() (int, error)
}
