// Package archive keeps generated games in a sqlite file, keyed by the
// configuration and seed that produced them.
package archive

import (
	"database/sql"
	"errors"
	"fmt"
	"sync"

	_ "github.com/mattn/go-sqlite3"

	"github.com/vancomm/enigmind-server/internal/enigmind"
)

var ErrNotFound = errors.New("game not archived")

type Archive struct {
	mu sync.Mutex
	db *sql.DB
}

func Open(path string) (*Archive, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	_, err = db.Exec(`
CREATE TABLE IF NOT EXISTS game (
	key			TEXT PRIMARY KEY,
	state		BLOB NOT NULL,
	created_at	TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("unable to create game table: %w", err)
	}
	return &Archive{db: db}, nil
}

// Key names the game generated for gc from seed.
func Key(gc enigmind.GameConfiguration, seed uint64) string {
	return fmt.Sprintf("%d-%d-%d/%d", gc.Base, gc.ColumnCount, gc.MinDifficulty, seed)
}

// Get returns [ErrNotFound] if key was never stored.
func (a *Archive) Get(key string) (*enigmind.Game, error) {
	var state []byte
	err := a.db.QueryRow(`SELECT state FROM game WHERE key = ?;`, key).Scan(&state)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return enigmind.DecodeGame(state)
}

// Put inserts game or replaces the one stored under key.
func (a *Archive) Put(key string, game *enigmind.Game) error {
	state, err := game.Bytes()
	if err != nil {
		return err
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	_, err = a.db.Exec(`
INSERT INTO game (key, state)
VALUES(?, ?)
ON CONFLICT(key)
DO UPDATE SET state=excluded.state;`,
		key, state)
	return err
}

func (a *Archive) Delete(key string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	_, err := a.db.Exec(`DELETE FROM game WHERE key = ?;`, key)
	return err
}

func (a *Archive) Keys() ([]string, error) {
	rows, err := a.db.Query(`SELECT key FROM game ORDER BY key;`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

func (a *Archive) Close() error {
	return a.db.Close()
}
