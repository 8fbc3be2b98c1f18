package service

import (
	"crypto/subtle"

	"picturecards/internal/repository"
)

// AuthService gates the game behind a shared password
type AuthService struct {
	playerRepo  repository.PlayerRepository
	botPassword string
}

// NewAuthService creates a new auth service
func NewAuthService(playerRepo repository.PlayerRepository, botPassword string) *AuthService {
	return &AuthService{
		playerRepo:  playerRepo,
		botPassword: botPassword,
	}
}

// CheckPassword verifies if provided password matches
func (s *AuthService) CheckPassword(password string) bool {
	if password == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(password), []byte(s.botPassword)) == 1
}

// IsAuthorized checks if player is authorized
func (s *AuthService) IsAuthorized(userID int64) (bool, error) {
	return s.playerRepo.IsAuthorized(userID)
}

// AuthorizePlayer authorizes a player
func (s *AuthService) AuthorizePlayer(userID int64) error {
	return s.playerRepo.AuthorizePlayer(userID)
}

// EnsurePlayerExists creates player record if doesn't exist
func (s *AuthService) EnsurePlayerExists(userID int64) error {
	return s.playerRepo.EnsurePlayerExists(userID)
}
