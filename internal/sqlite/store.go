// This file implements the Store operations on top of the tables.
package sqlite

import (
	"fmt"

	"github.com/mesh-intelligence/tinyj/pkg/types"
)

// Insert stores a new entity in the table for its kind and returns the
// node id. Returns ErrNodeExists if the entity's node id is already used.
func (b *Backend) Insert(entity types.Entity) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return "", types.ErrStoreDetached
	}
	if entity == nil {
		return "", types.ErrInvalidData
	}
	if id := entity.Identity().NodeID; id != "" {
		found, err := b.fetchNodes(types.ByID(id))
		if err != nil {
			return "", err
		}
		if len(found) > 0 {
			return "", fmt.Errorf("%w: %s", types.ErrNodeExists, id)
		}
	}
	return b.saveNode("", entity)
}

// Update replaces the single entity matched by q. The stored kind must
// match the entity's kind.
func (b *Backend) Update(q types.Query, entity types.Entity) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return types.ErrStoreDetached
	}
	if entity == nil {
		return types.ErrInvalidData
	}
	found, err := b.fetchNodes(q)
	if err != nil {
		return err
	}
	switch {
	case len(found) == 0:
		return types.ErrNotFound
	case len(found) > 1:
		return fmt.Errorf("%w: %d matches", types.ErrAmbiguousQuery, len(found))
	case found[0].Kind() != entity.Kind():
		return fmt.Errorf("%w: stored %s, got %s", types.ErrInvalidKind, found[0].Kind(), entity.Kind())
	}
	target := found[0].Identity().NodeID
	if id := entity.Identity().NodeID; id != "" && id != target {
		return fmt.Errorf("%w: entity %s does not match %s", types.ErrInvalidID, id, target)
	}
	_, err = b.saveNode(target, entity)
	return err
}

// Delete removes every entity matched by q and returns the count. An
// empty query is rejected rather than clearing the store.
func (b *Backend) Delete(q types.Query) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return 0, types.ErrStoreDetached
	}
	if len(q) == 0 {
		return 0, fmt.Errorf("%w: empty query", types.ErrInvalidFilter)
	}
	found, err := b.fetchNodes(q)
	if err != nil {
		return 0, err
	}
	ids := make([]string, 0, len(found))
	for _, e := range found {
		ids = append(ids, e.Identity().NodeID)
	}
	return b.deleteNodes(ids)
}

// Select returns the entities matched by q ordered by tree and position.
func (b *Backend) Select(q types.Query) ([]types.Entity, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return nil, types.ErrStoreDetached
	}
	return b.fetchNodes(q)
}

// Streak returns the streak record of a node.
func (b *Backend) Streak(nodeID string) (*types.StreakRecord, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return nil, types.ErrStoreDetached
	}
	rec, err := b.tables[types.StreaksTable].Get(nodeID)
	if err != nil {
		return nil, err
	}
	return rec.(*types.StreakRecord), nil
}

// SetStreak stores the streak record of a node.
func (b *Backend) SetStreak(nodeID string, streak *types.StreakRecord) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return types.ErrStoreDetached
	}
	if streak == nil {
		return types.ErrInvalidData
	}
	_, err := b.tables[types.StreaksTable].Set(nodeID, streak)
	return err
}
