package settings

import (
	"database/sql"
	"encoding/json"
)

// PostgresRepository stores settings as jsonb values in a key/value table.
type PostgresRepository struct {
	db *sql.DB
}

const cartConfigKey = "cart"

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) GetCartConfig() (CartConfig, error) {
	var raw string
	err := r.db.QueryRow(`SELECT value FROM settings WHERE key = $1`, cartConfigKey).Scan(&raw)
	if err == sql.ErrNoRows {
		return CartConfig{}, ErrNotFound
	}
	if err != nil {
		return CartConfig{}, err
	}

	var cfg CartConfig
	if err := json.Unmarshal([]byte(raw), &cfg); err != nil {
		return CartConfig{}, err
	}
	return cfg, nil
}

func (r *PostgresRepository) SaveCartConfig(cfg CartConfig) error {
	payload, err := json.Marshal(cfg)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(`
        INSERT INTO settings (key, value) VALUES ($1, $2)
        ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value
    `, cartConfigKey, string(payload))
	return err
}
