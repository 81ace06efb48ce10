// This file implements the streaks table. Streak records are keyed by the
// habit's node id and kept apart from the habit body.
package sqlite

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mesh-intelligence/tinyj/pkg/types"
)

var _ types.Table = (*streaksTable)(nil)

type streaksTable struct {
	backend *Backend
}

// Get returns the *types.StreakRecord of a node.
func (st *streaksTable) Get(id string) (any, error) {
	if id == "" {
		return nil, types.ErrInvalidID
	}
	var body string
	err := st.backend.db.QueryRow("SELECT body FROM streaks WHERE node_id = ?", id).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, types.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting streak %s: %w", id, err)
	}
	var rec types.StreakRecord
	if err := json.Unmarshal([]byte(body), &rec); err != nil {
		return nil, fmt.Errorf("decoding streak %s: %w", id, err)
	}
	return &rec, nil
}

// Set stores the streak of an existing node. id is required.
func (st *streaksTable) Set(id string, data any) (string, error) {
	rec, ok := data.(*types.StreakRecord)
	if !ok || rec == nil {
		return "", types.ErrInvalidData
	}
	if id == "" {
		return "", types.ErrInvalidID
	}

	var one int
	err := st.backend.db.QueryRow("SELECT 1 FROM nodes WHERE node_id = ?", id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("%w: node %s", types.ErrNotFound, id)
	}
	if err != nil {
		return "", fmt.Errorf("checking node existence: %w", err)
	}

	body, err := json.Marshal(rec)
	if err != nil {
		return "", fmt.Errorf("encoding streak: %w", err)
	}
	_, err = st.backend.db.Exec(`INSERT INTO streaks (node_id, body, updated_at) VALUES (?, ?, ?)
    ON CONFLICT(node_id) DO UPDATE SET body = excluded.body, updated_at = excluded.updated_at`,
		id, string(body), formatTime(st.backend.now()),
	)
	if err != nil {
		return "", fmt.Errorf("persisting streak: %w", err)
	}
	if err := persistTableJSONL(st.backend, "streaks", streaksFile); err != nil {
		return "", fmt.Errorf("persisting %s: %w", streaksFile, err)
	}
	return id, nil
}

// Delete removes a node's streak.
func (st *streaksTable) Delete(id string) error {
	if id == "" {
		return types.ErrInvalidID
	}
	res, err := st.backend.db.Exec("DELETE FROM streaks WHERE node_id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting streak: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return types.ErrNotFound
	}
	return persistTableJSONL(st.backend, "streaks", streaksFile)
}

// Fetch returns every stored streak. The only supported key is "id".
func (st *streaksTable) Fetch(q types.Query) ([]any, error) {
	query := "SELECT node_id FROM streaks"
	var args []any
	for k, v := range q {
		s, ok := v.(string)
		if k != "id" || !ok {
			return nil, fmt.Errorf("%w: %s", types.ErrInvalidFilter, k)
		}
		query += " WHERE node_id = ?"
		args = append(args, s)
	}
	query += " ORDER BY rowid"

	rows, err := st.backend.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("fetching streaks: %w", err)
	}
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scanning streak: %w", err)
		}
		ids = append(ids, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating streaks: %w", err)
	}

	results := make([]any, 0, len(ids))
	for _, id := range ids {
		rec, err := st.Get(id)
		if err != nil {
			return nil, err
		}
		results = append(results, rec)
	}
	return results, nil
}
