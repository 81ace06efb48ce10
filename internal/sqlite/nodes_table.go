// This file implements the goal, task and habit tables. All three share the
// nodes table and are told apart by kind.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/mesh-intelligence/tinyj/pkg/types"
)

var _ types.Table = (*nodesTable)(nil)

// nodesTable is the Table for one entity kind.
type nodesTable struct {
	backend *Backend
	kind    string
}

// Get retrieves a node of this table's kind by node id.
func (nt *nodesTable) Get(id string) (any, error) {
	if id == "" {
		return nil, types.ErrInvalidID
	}
	found, err := nt.backend.fetchNodes(types.Query{"id": id, "kind": nt.kind})
	if err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return nil, types.ErrNotFound
	}
	return found[0], nil
}

// Set creates or replaces a node. data must be an entity of this table's
// kind. An empty id falls back to the entity's NodeID, and a new UUID v7
// when that is empty too. Entities without a tree become the root of a
// new one. The node's requires links are rewritten from its
// prerequisites.
func (nt *nodesTable) Set(id string, data any) (string, error) {
	e, ok := data.(types.Entity)
	if !ok || e.Kind() != nt.kind {
		return "", types.ErrInvalidData
	}
	return nt.backend.saveNode(id, e)
}

// Delete removes a node with its links and streak.
func (nt *nodesTable) Delete(id string) error {
	if id == "" {
		return types.ErrInvalidID
	}
	var kind string
	err := nt.backend.db.QueryRow("SELECT kind FROM nodes WHERE node_id = ?", id).Scan(&kind)
	if errors.Is(err, sql.ErrNoRows) || (err == nil && kind != nt.kind) {
		return types.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("checking node existence: %w", err)
	}
	_, err = nt.backend.deleteNodes([]string{id})
	return err
}

// Fetch returns the nodes of this kind matching q.
func (nt *nodesTable) Fetch(q types.Query) ([]any, error) {
	merged := types.Query{}
	for k, v := range q {
		merged[k] = v
	}
	if k, ok := merged["kind"]; ok && k != nt.kind {
		return []any{}, nil
	}
	merged["kind"] = nt.kind

	found, err := nt.backend.fetchNodes(merged)
	if err != nil {
		return nil, err
	}
	results := make([]any, 0, len(found))
	for _, e := range found {
		results = append(results, e)
	}
	return results, nil
}

// saveNode upserts e under id and rewrites its requires links, then
// persists nodes.jsonl and links.jsonl.
func (b *Backend) saveNode(id string, e types.Entity) (string, error) {
	addr := e.Identity()
	switch {
	case id == "" && addr.NodeID == "":
		id = generateUUID()
	case id == "":
		id = addr.NodeID
	case addr.NodeID != "" && addr.NodeID != id:
		return "", fmt.Errorf("%w: id %s does not match node %s", types.ErrInvalidID, id, addr.NodeID)
	}
	addr.NodeID = id
	if addr.TreeID == "" {
		root := types.NewRootID()
		addr.TreeID = root.TreeID
		addr.NodePos = root.NodePos
		addr.ParentPos = 0
		addr.TreeRoot = true
	}
	if err := e.Validate(); err != nil {
		return "", err
	}

	var existing string
	err := b.db.QueryRow("SELECT kind FROM nodes WHERE node_id = ?", id).Scan(&existing)
	switch {
	case err == nil && existing != e.Kind():
		return "", fmt.Errorf("%w: node %s is a %s", types.ErrInvalidKind, id, existing)
	case err != nil && !errors.Is(err, sql.ErrNoRows):
		return "", fmt.Errorf("checking node existence: %w", err)
	}

	now := b.now().UTC()
	created, updated := stamp(e, now)
	body, err := encodeEntity(e)
	if err != nil {
		return "", err
	}

	tx, err := b.db.Begin()
	if err != nil {
		return "", fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`INSERT INTO nodes
    (node_id, kind, tree_id, node_pos, parent_pos, tree_root, alias, state, body, created_at, updated_at)
    VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
    ON CONFLICT(node_id) DO UPDATE SET
    tree_id = excluded.tree_id, node_pos = excluded.node_pos, parent_pos = excluded.parent_pos,
    tree_root = excluded.tree_root, alias = excluded.alias, state = excluded.state,
    body = excluded.body, updated_at = excluded.updated_at`,
		id, e.Kind(), addr.TreeID, addr.NodePos, addr.ParentPos, addr.TreeRoot,
		e.Label(), stateOf(e), body, formatTime(created), formatTime(updated),
	)
	if err != nil {
		return "", fmt.Errorf("persisting node: %w", err)
	}

	if _, err := tx.Exec("DELETE FROM links WHERE link_type = ? AND from_id = ?", types.LinkTypeRequires, id); err != nil {
		return "", fmt.Errorf("clearing requires links: %w", err)
	}
	for _, dep := range e.Dependencies() {
		if dep.NodeID == "" || dep.NodeID == id {
			continue
		}
		_, err := tx.Exec(
			"INSERT OR IGNORE INTO links (link_id, link_type, from_id, to_id, created_at) VALUES (?, ?, ?, ?, ?)",
			generateUUID(), types.LinkTypeRequires, id, dep.NodeID, formatTime(now),
		)
		if err != nil {
			return "", fmt.Errorf("linking prerequisite %s: %w", dep.NodeID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("committing node: %w", err)
	}
	if err := persistTableJSONL(b, "nodes", nodesFile); err != nil {
		return "", fmt.Errorf("persisting %s: %w", nodesFile, err)
	}
	if err := persistTableJSONL(b, "links", linksFile); err != nil {
		return "", fmt.Errorf("persisting %s: %w", linksFile, err)
	}
	b.log.Debug("node saved", "node_id", id, "kind", e.Kind(), "alias", e.Label())
	return id, nil
}

// deleteNodes removes the given nodes, every link touching them and their
// streaks in one transaction. Returns the number of nodes removed.
func (b *Backend) deleteNodes(ids []string) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	tx, err := b.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var removed int
	for _, id := range ids {
		res, err := tx.Exec("DELETE FROM nodes WHERE node_id = ?", id)
		if err != nil {
			return 0, fmt.Errorf("deleting node %s: %w", id, err)
		}
		n, _ := res.RowsAffected()
		removed += int(n)
		if _, err := tx.Exec("DELETE FROM links WHERE from_id = ? OR to_id = ?", id, id); err != nil {
			return 0, fmt.Errorf("deleting links of %s: %w", id, err)
		}
		if _, err := tx.Exec("DELETE FROM streaks WHERE node_id = ?", id); err != nil {
			return 0, fmt.Errorf("deleting streak of %s: %w", id, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing deletion: %w", err)
	}

	for _, m := range jsonlTableMapping {
		if err := persistTableJSONL(b, m.table, m.file); err != nil {
			return removed, fmt.Errorf("persisting %s: %w", m.file, err)
		}
	}
	b.log.Debug("nodes deleted", "count", removed)
	return removed, nil
}

// nodeFilters maps string query keys to SQL conditions.
var nodeFilters = map[string]string{
	"id":       "node_id = ?",
	"kind":     "kind = ?",
	"tree_id":  "tree_id = ?",
	"state":    "state = ?",
	"alias":    "alias = ?",
	"requires": "node_id IN (SELECT from_id FROM links WHERE link_type = 'requires' AND to_id = ?)",
}

// fetchNodes returns the entities matching q ordered by tree and
// position. Rows whose body cannot be decoded are skipped with a warning.
func (b *Backend) fetchNodes(q types.Query) ([]types.Entity, error) {
	query := "SELECT node_id, kind, body FROM nodes"
	var conditions []string
	var args []any
	limit := 0

	keys := make([]string, 0, len(q))
	for k := range q {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		v := q[k]
		if k == "limit" {
			n, ok := v.(int)
			if !ok {
				return nil, fmt.Errorf("%w: limit", types.ErrInvalidFilter)
			}
			limit = n
			continue
		}
		cond, known := nodeFilters[k]
		s, ok := v.(string)
		if !known || !ok {
			return nil, fmt.Errorf("%w: %s", types.ErrInvalidFilter, k)
		}
		conditions = append(conditions, cond)
		args = append(args, s)
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY tree_id, node_pos"
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := b.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("fetching nodes: %w", err)
	}
	defer rows.Close()

	results := []types.Entity{}
	for rows.Next() {
		var id, kind, body string
		if err := rows.Scan(&id, &kind, &body); err != nil {
			return nil, fmt.Errorf("scanning node: %w", err)
		}
		e, err := decodeEntity(kind, body)
		if err != nil {
			b.log.Warn("skipping unreadable node", "node_id", id, "error", err)
			continue
		}
		e.Identity().NodeID = id
		results = append(results, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating nodes: %w", err)
	}
	return results, nil
}
