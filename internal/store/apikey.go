package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/dukerupert/larder/internal/model"
)

type APIKeyStore struct {
	db *sql.DB
}

func NewAPIKeyStore(db *sql.DB) *APIKeyStore {
	return &APIKeyStore{db: db}
}

func scanAPIKey(scanner interface{ Scan(...any) error }) (*model.APIKey, error) {
	var k model.APIKey
	err := scanner.Scan(&k.ID, &k.Key, &k.UserID, &k.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &k, nil
}

const apiKeyCols = `id, key, user_id, created_at`

// Replace deletes the user's existing API key (if any) and inserts a
// fresh one in a single transaction, so there is never more than one live
// key per user.
func (s *APIKeyStore) Replace(userID int64) (*model.APIKey, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin replace key: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM api_keys WHERE user_id = ?`, userID); err != nil {
		return nil, fmt.Errorf("delete old key: %w", err)
	}

	key := uuid.NewString()
	result, err := tx.Exec(
		`INSERT INTO api_keys (key, user_id) VALUES (?, ?)`,
		key, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("insert key: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit replace key: %w", err)
	}

	row := s.db.QueryRow(`SELECT `+apiKeyCols+` FROM api_keys WHERE id = ?`, id)
	return scanAPIKey(row)
}

func (s *APIKeyStore) GetByKey(key string) (*model.APIKey, error) {
	row := s.db.QueryRow(`SELECT `+apiKeyCols+` FROM api_keys WHERE key = ?`, key)
	k, err := scanAPIKey(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get api key: %w", err)
	}
	return k, nil
}

func (s *APIKeyStore) GetByUserID(userID int64) (*model.APIKey, error) {
	row := s.db.QueryRow(`SELECT `+apiKeyCols+` FROM api_keys WHERE user_id = ?`, userID)
	k, err := scanAPIKey(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get api key by user: %w", err)
	}
	return k, nil
}
