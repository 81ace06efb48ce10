// JSON record structures and entity codecs for the data files.
package sqlite

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/mesh-intelligence/tinyj/pkg/types"
)

// nodeJSON represents a node in nodes.jsonl. Body holds the full entity.
type nodeJSON struct {
	NodeID    string          `json:"node_id"`
	Kind      string          `json:"kind"`
	TreeID    string          `json:"tree_id"`
	NodePos   float64         `json:"node_pos"`
	ParentPos float64         `json:"parent_pos"`
	TreeRoot  int             `json:"tree_root"`
	Alias     string          `json:"alias"`
	State     string          `json:"state"`
	Body      json.RawMessage `json:"body"`
	CreatedAt string          `json:"created_at"`
	UpdatedAt string          `json:"updated_at"`
}

// linkJSON represents a link in links.jsonl.
type linkJSON struct {
	LinkID    string `json:"link_id"`
	LinkType  string `json:"link_type"`
	FromID    string `json:"from_id"`
	ToID      string `json:"to_id"`
	CreatedAt string `json:"created_at"`
}

// streakJSON represents a habit streak in streaks.jsonl.
type streakJSON struct {
	NodeID    string             `json:"node_id"`
	Body      types.StreakRecord `json:"body"`
	UpdatedAt string             `json:"updated_at"`
}

// timeFormat is used for every timestamp column.
const timeFormat = time.RFC3339Nano

func formatTime(t time.Time) string {
	return t.UTC().Format(timeFormat)
}

// encodeEntity marshals the entity body.
func encodeEntity(e types.Entity) (string, error) {
	b, err := json.Marshal(e)
	if err != nil {
		return "", fmt.Errorf("encoding %s: %w", e.Kind(), err)
	}
	return string(b), nil
}

// decodeEntity rebuilds a typed entity from a stored body.
func decodeEntity(kind, body string) (types.Entity, error) {
	var e types.Entity
	switch kind {
	case types.KindGoal:
		e = &types.Goal{}
	case types.KindTask:
		e = &types.Task{}
	case types.KindHabit:
		e = &types.Habit{}
	default:
		return nil, fmt.Errorf("%w: %q", types.ErrInvalidKind, kind)
	}
	if err := json.Unmarshal([]byte(body), e); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", kind, err)
	}
	return e, nil
}

// stateOf returns the symbolic state stored in the state column.
func stateOf(e types.Entity) string {
	switch v := e.(type) {
	case *types.Goal:
		return v.Status.State
	case *types.Task:
		return v.Status.State
	case *types.Habit:
		return v.State
	}
	return ""
}

// stamp fills CreatedAt when unset and moves UpdatedAt to now. It returns
// both values.
func stamp(e types.Entity, now time.Time) (created, updated time.Time) {
	var c, u *time.Time
	switch v := e.(type) {
	case *types.Goal:
		c, u = &v.CreatedAt, &v.UpdatedAt
	case *types.Task:
		c, u = &v.CreatedAt, &v.UpdatedAt
	case *types.Habit:
		c, u = &v.CreatedAt, &v.UpdatedAt
	default:
		return now, now
	}
	if c.IsZero() {
		*c = now
	}
	*u = now
	return *c, *u
}
