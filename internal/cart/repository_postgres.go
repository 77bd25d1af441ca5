package cart

import (
	"database/sql"
	"encoding/json"
	"strconv"
)

// PostgresRepository keeps each user's cart in the `users.cart` jsonb column
// as an array of lines. Older rows may still hold the legacy productID->qty
// map; those are upgraded to variant-less lines on read.
type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) GetCart(userID int) ([]Line, error) {
	var raw sql.NullString
	if err := r.db.QueryRow(`SELECT cart FROM users WHERE "userId" = $1`, userID).Scan(&raw); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if !raw.Valid || raw.String == "" {
		return []Line{}, nil
	}
	return parseStoredCart(raw.String)
}

func (r *PostgresRepository) SaveCart(userID int, items []Line, updatedAt string) error {
	if items == nil {
		items = []Line{}
	}
	payload, err := json.Marshal(items)
	if err != nil {
		return err
	}

	res, err := r.db.Exec(`UPDATE users SET cart = $1, "updateAt" = $2 WHERE "userId" = $3`,
		string(payload), updatedAt, userID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *PostgresRepository) ClearCart(userID int, updatedAt string) error {
	res, err := r.db.Exec(`UPDATE users SET cart = '[]', "updateAt" = $1 WHERE "userId" = $2`,
		updatedAt, userID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrUserNotFound
	}
	return nil
}

// parseStoredCart unmarshals the jsonb payload, falling back to the legacy
// map shape. Anything unreadable is treated as an empty cart rather than an
// error so one corrupt row cannot block checkout.
func parseStoredCart(raw string) ([]Line, error) {
	var items []Line
	if err := json.Unmarshal([]byte(raw), &items); err == nil {
		if items == nil {
			items = []Line{}
		}
		return items, nil
	}

	var legacy map[string]int
	if err := json.Unmarshal([]byte(raw), &legacy); err == nil {
		items = make([]Line, 0, len(legacy))
		for key, qty := range legacy {
			pid, err := strconv.Atoi(key)
			if err != nil || qty <= 0 {
				continue
			}
			items = append(items, Line{ProductID: pid, Quantity: qty})
		}
		return items, nil
	}

	return []Line{}, nil
}
