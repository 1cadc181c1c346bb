package store

import (
	"database/sql"
	"fmt"
	"time"
)

// GetAffection returns the affection value for a character. Characters with
// no recorded affection read as 0.
func (db *DB) GetAffection(characterID string) (float64, error) {
	var v float64
	err := db.QueryRow("SELECT value FROM affection WHERE character_id = ?", characterID).Scan(&v)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("get affection: %w", err)
	}
	return v, nil
}

// SetAffection stores an affection value, clamped to [0,100].
func (db *DB) SetAffection(characterID string, value float64) error {
	_, err := db.Exec(`
		INSERT INTO affection (character_id, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(character_id) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, characterID, ClampScalar(value), time.Now().UnixMilli())
	if err != nil {
		return fmt.Errorf("set affection: %w", err)
	}
	return nil
}

// SetFlag sets a named flag on a character. Setting an existing flag is a no-op.
func (db *DB) SetFlag(characterID, flag string) error {
	_, err := db.Exec(`
		INSERT OR IGNORE INTO flags (character_id, flag, set_at) VALUES (?, ?, ?)
	`, characterID, flag, time.Now().UnixMilli())
	if err != nil {
		return fmt.Errorf("set flag: %w", err)
	}
	return nil
}

// ClearFlag removes a named flag from a character.
func (db *DB) ClearFlag(characterID, flag string) error {
	_, err := db.Exec("DELETE FROM flags WHERE character_id = ? AND flag = ?", characterID, flag)
	if err != nil {
		return fmt.Errorf("clear flag: %w", err)
	}
	return nil
}

// HasFlag reports whether a character has a named flag set.
func (db *DB) HasFlag(characterID, flag string) (bool, error) {
	var count int
	err := db.QueryRow(
		"SELECT COUNT(*) FROM flags WHERE character_id = ? AND flag = ?", characterID, flag,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("has flag: %w", err)
	}
	return count > 0, nil
}

// ListFlags returns all flags set on a character.
func (db *DB) ListFlags(characterID string) ([]string, error) {
	rows, err := db.Query("SELECT flag FROM flags WHERE character_id = ? ORDER BY flag", characterID)
	if err != nil {
		return nil, fmt.Errorf("list flags: %w", err)
	}
	defer rows.Close()

	var flags []string
	for rows.Next() {
		var f string
		if err := rows.Scan(&f); err != nil {
			return nil, fmt.Errorf("scan flag: %w", err)
		}
		flags = append(flags, f)
	}
	return flags, rows.Err()
}

// EnsureWallet creates a wallet with the given starting balance if it does
// not already exist.
func (db *DB) EnsureWallet(id string, balance int) error {
	_, err := db.Exec("INSERT OR IGNORE INTO wallet (id, balance) VALUES (?, ?)", id, balance)
	if err != nil {
		return fmt.Errorf("ensure wallet: %w", err)
	}
	return nil
}

// Balance returns the wallet balance. A missing wallet reads as 0.
func (db *DB) Balance(id string) (int, error) {
	var b int
	err := db.QueryRow("SELECT balance FROM wallet WHERE id = ?", id).Scan(&b)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("get balance: %w", err)
	}
	return b, nil
}

// Credit adds to the wallet balance.
func (db *DB) Credit(id string, amount int) error {
	_, err := db.Exec("UPDATE wallet SET balance = balance + ? WHERE id = ?", amount, id)
	if err != nil {
		return fmt.Errorf("credit wallet: %w", err)
	}
	return nil
}

// Debit removes from the wallet balance. Returns false without mutating when
// the balance is insufficient.
func (db *DB) Debit(id string, amount int) (bool, error) {
	result, err := db.Exec(
		"UPDATE wallet SET balance = balance - ? WHERE id = ? AND balance >= ?",
		amount, id, amount,
	)
	if err != nil {
		return false, fmt.Errorf("debit wallet: %w", err)
	}
	rows, _ := result.RowsAffected()
	return rows > 0, nil
}

// PlayerStat returns a named player stat. Unset stats read as 50.
func (db *DB) PlayerStat(stat string) (float64, error) {
	var v float64
	err := db.QueryRow("SELECT value FROM player_stats WHERE stat = ?", stat).Scan(&v)
	if err == sql.ErrNoRows {
		return 50, nil
	}
	if err != nil {
		return 0, fmt.Errorf("get player stat: %w", err)
	}
	return v, nil
}

// SetPlayerStat stores a player stat, clamped to [0,100].
func (db *DB) SetPlayerStat(stat string, value float64) error {
	_, err := db.Exec(`
		INSERT INTO player_stats (stat, value) VALUES (?, ?)
		ON CONFLICT(stat) DO UPDATE SET value = excluded.value
	`, stat, ClampScalar(value))
	if err != nil {
		return fmt.Errorf("set player stat: %w", err)
	}
	return nil
}

// ListPlayerStats returns all explicitly set player stats.
func (db *DB) ListPlayerStats() (map[string]float64, error) {
	rows, err := db.Query("SELECT stat, value FROM player_stats ORDER BY stat")
	if err != nil {
		return nil, fmt.Errorf("list player stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[string]float64)
	for rows.Next() {
		var stat string
		var value float64
		if err := rows.Scan(&stat, &value); err != nil {
			return nil, fmt.Errorf("scan player stat: %w", err)
		}
		stats[stat] = value
	}
	return stats, rows.Err()
}

// MarkInteraction records that the player interacted with a character.
func (db *DB) MarkInteraction(characterID string, at int64) error {
	_, err := db.Exec(`
		INSERT INTO interactions (character_id, last_at) VALUES (?, ?)
		ON CONFLICT(character_id) DO UPDATE SET last_at = MAX(last_at, excluded.last_at)
	`, characterID, at)
	if err != nil {
		return fmt.Errorf("mark interaction: %w", err)
	}
	return nil
}

// LastInteraction returns the last interaction time for a character, or 0.
func (db *DB) LastInteraction(characterID string) (int64, error) {
	var at int64
	err := db.QueryRow("SELECT last_at FROM interactions WHERE character_id = ?", characterID).Scan(&at)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("last interaction: %w", err)
	}
	return at, nil
}
