// This file implements JSONL loading for startup.
package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
)

// jsonlTableMapping maps JSONL filenames to their SQLite tables and column
// lists. Nodes load first so links and streaks can be checked against them.
var jsonlTableMapping = []struct {
	file    string
	table   string
	columns []string
}{
	{nodesFile, "nodes", []string{"node_id", "kind", "tree_id", "node_pos", "parent_pos", "tree_root", "alias", "state", "body", "created_at", "updated_at"}},
	{linksFile, "links", []string{"link_id", "link_type", "from_id", "to_id", "created_at"}},
	{streaksFile, "streaks", []string{"node_id", "body", "updated_at"}},
}

// loadAllJSONL reads each JSONL file from dataDir and inserts records into
// the corresponding SQLite tables in one transaction. It returns the
// number of rows loaded per table.
func loadAllJSONL(db *sql.DB, dataDir string) (map[string]int, error) {
	tx, err := db.Begin()
	if err != nil {
		return nil, fmt.Errorf("beginning load transaction: %w", err)
	}
	defer tx.Rollback()

	counts := make(map[string]int, len(jsonlTableMapping))
	for _, mapping := range jsonlTableMapping {
		records, err := readJSONL(filepath.Join(dataDir, mapping.file))
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", mapping.file, err)
		}
		if len(records) == 0 {
			continue
		}
		n, err := insertRecords(tx, mapping.table, mapping.columns, records)
		if err != nil {
			return nil, fmt.Errorf("loading %s into %s: %w", mapping.file, mapping.table, err)
		}
		counts[mapping.table] = n
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing load transaction: %w", err)
	}
	return counts, nil
}

// insertRecords inserts parsed JSONL records into a SQLite table. Only the
// listed columns are read, so unknown fields are ignored. Records that fail
// to decode or violate a constraint are skipped. Returns the number of rows
// inserted.
func insertRecords(tx *sql.Tx, table string, columns []string, records []json.RawMessage) (int, error) {
	placeholders := make([]string, len(columns))
	for i := range placeholders {
		placeholders[i] = "?"
	}
	insertSQL := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s)",
		table,
		strings.Join(columns, ", "),
		strings.Join(placeholders, ", "),
	)

	stmt, err := tx.Prepare(insertSQL)
	if err != nil {
		return 0, fmt.Errorf("preparing insert for %s: %w", table, err)
	}
	defer stmt.Close()

	var inserted int
	for _, rec := range records {
		var obj map[string]any
		if err := json.Unmarshal(rec, &obj); err != nil {
			continue
		}

		args := make([]any, len(columns))
		for i, col := range columns {
			val, ok := obj[col]
			if !ok {
				args[i] = nil
				continue
			}
			// Nested documents are stored as JSON text.
			switch v := val.(type) {
			case map[string]any, []any:
				b, err := json.Marshal(v)
				if err != nil {
					args[i] = nil
					continue
				}
				args[i] = string(b)
			default:
				args[i] = val
			}
		}

		if _, err := stmt.Exec(args...); err != nil {
			continue
		}
		inserted++
	}
	return inserted, nil
}
