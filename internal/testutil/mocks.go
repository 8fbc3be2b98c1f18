package testutil

import (
	"context"
	"io"

	"picturecards/internal/domain"

	"github.com/stretchr/testify/mock"
)

// MockPlayerRepository is a mock for PlayerRepository
type MockPlayerRepository struct {
	mock.Mock
}

func (m *MockPlayerRepository) IsAuthorized(userID int64) (bool, error) {
	args := m.Called(userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockPlayerRepository) AuthorizePlayer(userID int64) error {
	args := m.Called(userID)
	return args.Error(0)
}

func (m *MockPlayerRepository) EnsurePlayerExists(userID int64) error {
	args := m.Called(userID)
	return args.Error(0)
}

// MockCatalogRepository is a mock for CatalogRepository
type MockCatalogRepository struct {
	mock.Mock
}

func (m *MockCatalogRepository) ListItems() ([]domain.VocabItem, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.VocabItem), args.Error(1)
}

func (m *MockCatalogRepository) UpsertItems(items []domain.VocabItem) (int, error) {
	args := m.Called(items)
	return args.Int(0), args.Error(1)
}

func (m *MockCatalogRepository) CountItems() (int, error) {
	args := m.Called()
	return args.Int(0), args.Error(1)
}

// MockTranscriber is a mock for a speech-to-text backend
type MockTranscriber struct {
	mock.Mock
}

func (m *MockTranscriber) Transcribe(ctx context.Context, audio io.Reader, filename string) (string, error) {
	args := m.Called(ctx, audio, filename)
	return args.String(0), args.Error(1)
}
