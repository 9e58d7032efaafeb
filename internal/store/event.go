package store

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
)

const (
	sequenceDDL = `CREATE TABLE IF NOT EXISTS event_sequence (
		id   INTEGER PRIMARY KEY CHECK (id = 1),
		next_seq INTEGER NOT NULL
	);
	INSERT OR IGNORE INTO event_sequence (id, next_seq) VALUES (1, 1)`

	sequenceTake = `UPDATE event_sequence SET next_seq = next_seq + 1 WHERE id = 1 RETURNING next_seq - 1`
)

// eventSequence numbers API and LLM request events from one counter so
// both logs share an order and an --after cursor. The UPDATE ... RETURNING
// keeps it consistent when the TUI and a CLI command write concurrently.
type eventSequence struct {
	mu sync.Mutex
	db *sql.DB
}

func newEventSequence(db *sql.DB) (*eventSequence, error) {
	if _, err := db.Exec(sequenceDDL); err != nil {
		return nil, fmt.Errorf("init event sequence: %w", err)
	}
	return &eventSequence{db: db}, nil
}

// Next reserves the next sequence number.
func (s *eventSequence) Next(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	if err := s.db.QueryRowContext(ctx, sequenceTake).Scan(&n); err != nil {
		return 0, fmt.Errorf("next event sequence: %w", err)
	}
	return n, nil
}
