package postgres

import (
	"database/sql"
)

// PlayerRepo implements repository.PlayerRepository
type PlayerRepo struct {
	db *sql.DB
}

// NewPlayerRepo creates a new player repository
func NewPlayerRepo(db *sql.DB) *PlayerRepo {
	return &PlayerRepo{db: db}
}

// IsAuthorized checks if player is authorized
func (r *PlayerRepo) IsAuthorized(userID int64) (bool, error) {
	var authorized bool
	query := `SELECT authorized FROM players WHERE user_id = $1`
	err := r.db.QueryRow(query, userID).Scan(&authorized)

	if err == sql.ErrNoRows {
		// Player hasn't written to the bot yet
		return false, nil
	}
	if err != nil {
		return false, err
	}

	return authorized, nil
}

// AuthorizePlayer marks player as authorized
func (r *PlayerRepo) AuthorizePlayer(userID int64) error {
	query := `
		INSERT INTO players (user_id, authorized)
		VALUES ($1, TRUE)
		ON CONFLICT (user_id)
		DO UPDATE SET authorized = TRUE
	`
	_, err := r.db.Exec(query, userID)
	return err
}

// EnsurePlayerExists creates player if not exists
func (r *PlayerRepo) EnsurePlayerExists(userID int64) error {
	query := `
		INSERT INTO players (user_id, authorized)
		VALUES ($1, FALSE)
		ON CONFLICT (user_id) DO NOTHING
	`
	_, err := r.db.Exec(query, userID)
	return err
}
