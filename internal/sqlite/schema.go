package sqlite

// Schema DDL. Nodes keep the entity body as JSON; the other columns are
// copies used for filtering and ordering.
const (
	createNodes = `CREATE TABLE nodes (
    node_id TEXT PRIMARY KEY,
    kind TEXT NOT NULL,
    tree_id TEXT NOT NULL,
    node_pos REAL NOT NULL,
    parent_pos REAL NOT NULL DEFAULT 0,
    tree_root INTEGER NOT NULL DEFAULT 0,
    alias TEXT NOT NULL,
    state TEXT NOT NULL,
    body TEXT NOT NULL,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
);`

	createLinks = `CREATE TABLE links (
    link_id TEXT PRIMARY KEY,
    link_type TEXT NOT NULL,
    from_id TEXT NOT NULL,
    to_id TEXT NOT NULL,
    created_at TEXT NOT NULL
);`

	createStreaks = `CREATE TABLE streaks (
    node_id TEXT PRIMARY KEY,
    body TEXT NOT NULL,
    updated_at TEXT NOT NULL
);`
)

// Index DDL. Positions are not unique-indexed: a renumber rewrites nodes
// one at a time and passes through duplicate positions.
const (
	idxNodesTree     = `CREATE INDEX idx_nodes_tree ON nodes(tree_id, node_pos);`
	idxNodesKind     = `CREATE INDEX idx_nodes_kind ON nodes(kind);`
	idxNodesAlias    = `CREATE INDEX idx_nodes_alias ON nodes(alias);`
	idxLinksUnique   = `CREATE UNIQUE INDEX idx_links_unique ON links(link_type, from_id, to_id);`
	idxLinksTypeFrom = `CREATE INDEX idx_links_type_from ON links(link_type, from_id);`
	idxLinksTypeTo   = `CREATE INDEX idx_links_type_to ON links(link_type, to_id);`
)

// schemaDDL lists all CREATE TABLE statements.
var schemaDDL = []string{
	createNodes,
	createLinks,
	createStreaks,
}

// indexDDL lists all CREATE INDEX statements.
var indexDDL = []string{
	idxNodesTree,
	idxNodesKind,
	idxNodesAlias,
	idxLinksUnique,
	idxLinksTypeFrom,
	idxLinksTypeTo,
}
