// Copyright © 2024 Rak Laptudirm <rak@laptudirm.com>
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package records persists finished games in a local sqlite database.
package records

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Record is one finished game.
type Record struct {
	ID           uuid.UUID
	White, Black string // peer addresses
	StartFEN     string
	Moves        []string
	Outcome      string
	Reason       string
	Score        string
	StartedAt    time.Time
	EndedAt      time.Time
}

const schema = `
CREATE TABLE IF NOT EXISTS games (
	id         TEXT PRIMARY KEY,
	white      TEXT NOT NULL,
	black      TEXT NOT NULL,
	start_fen  TEXT NOT NULL,
	moves      TEXT NOT NULL,
	outcome    TEXT NOT NULL,
	reason     TEXT NOT NULL,
	score      TEXT NOT NULL,
	started_at TIMESTAMP NOT NULL,
	ended_at   TIMESTAMP NOT NULL
);`

// DefaultPath is where the database lives unless configured otherwise.
func DefaultPath() string {
	return filepath.Join(xdg.DataHome, "overseer", "games.db")
}

type Store struct {
	db *sql.DB
}

// Open opens (creating if necessary) the game database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

func (store *Store) Close() error {
	return store.db.Close()
}

// Save inserts one finished game.
func (store *Store) Save(ctx context.Context, record Record) error {
	_, err := store.db.ExecContext(ctx, `
		INSERT INTO games (id, white, black, start_fen, moves, outcome, reason, score, started_at, ended_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		record.ID.String(), record.White, record.Black, record.StartFEN,
		strings.Join(record.Moves, " "), record.Outcome, record.Reason,
		record.Score, record.StartedAt.UTC(), record.EndedAt.UTC(),
	)
	return err
}

// Recent returns up to limit games, newest first.
func (store *Store) Recent(ctx context.Context, limit int) ([]Record, error) {
	rows, err := store.db.QueryContext(ctx, `
		SELECT id, white, black, start_fen, moves, outcome, reason, score, started_at, ended_at
		FROM games ORDER BY ended_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var found []Record
	for rows.Next() {
		var record Record
		var id, moves string

		if err := rows.Scan(
			&id, &record.White, &record.Black, &record.StartFEN, &moves,
			&record.Outcome, &record.Reason, &record.Score,
			&record.StartedAt, &record.EndedAt,
		); err != nil {
			return nil, err
		}

		if record.ID, err = uuid.Parse(id); err != nil {
			return nil, err
		}

		if moves != "" {
			record.Moves = strings.Split(moves, " ")
		}

		found = append(found, record)
	}

	return found, rows.Err()
}
