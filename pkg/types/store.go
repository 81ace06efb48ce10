package types

import "errors"

// Standard table names for Store.GetTable.
const (
	GoalsTable   = "goals"
	TasksTable   = "tasks"
	HabitsTable  = "habits"
	LinksTable   = "links"
	StreaksTable = "streaks"
)

// StandardTableNames lists all standard table names for enumeration.
var StandardTableNames = []string{
	GoalsTable,
	TasksTable,
	HabitsTable,
	LinksTable,
	StreaksTable,
}

// TableForKind maps an entity kind to the table that stores it.
func TableForKind(kind string) (string, error) {
	switch kind {
	case KindGoal:
		return GoalsTable, nil
	case KindTask:
		return TasksTable, nil
	case KindHabit:
		return HabitsTable, nil
	default:
		return "", ErrInvalidKind
	}
}

// Query selects entities. Recognized keys:
//
//	"id"       node id (string)
//	"kind"     goal, task or habit (string)
//	"tree_id"  owning tree (string)
//	"state"    status state (string)
//	"alias"    exact alias (string)
//	"requires" node id that matching entities list as a prerequisite (string)
//	"limit"    maximum number of results (int)
//
// An empty query matches everything.
type Query map[string]any

// ByID is shorthand for a query selecting one node.
func ByID(id string) Query {
	return Query{"id": id}
}

// Store is the persistence collaborator. Callers attach to a backend,
// move fully built entities through the four operations, and detach when
// done. Tables expose the same data per entity type.
type Store interface {
	// Attach connects the Store to the backend described by config.
	// Returns ErrAlreadyAttached if called while already attached.
	Attach(config Config) error

	// Detach releases backend resources. Idempotent.
	Detach() error

	// GetTable returns the Table for the given name.
	// Returns ErrTableNotFound if the name is not a standard table.
	GetTable(name string) (Table, error)

	// Insert stores a new entity and returns its node id. A missing
	// NodeID is generated.
	Insert(entity Entity) (string, error)

	// Update replaces the single entity matched by q.
	// Returns ErrNotFound when nothing matches and ErrAmbiguousQuery
	// when more than one entity does.
	Update(q Query, entity Entity) error

	// Delete removes every entity matched by q and returns the count.
	Delete(q Query) (int, error)

	// Select returns the entities matched by q ordered by tree and position.
	Select(q Query) ([]Entity, error)

	// Streak returns the streak record of a node.
	// Returns ErrNotFound if none has been recorded yet.
	Streak(nodeID string) (*StreakRecord, error)

	// SetStreak stores the streak record of a node.
	SetStreak(nodeID string, streak *StreakRecord) error
}

// Store lifecycle errors.
var (
	ErrStoreDetached   = errors.New("store is detached")
	ErrAlreadyAttached = errors.New("store is already attached")
	ErrTableNotFound   = errors.New("table not found")
	ErrAmbiguousQuery  = errors.New("query matches more than one entity")
)

// ErrNodeExists is returned by Insert when the entity's node id is
// already stored.
var ErrNodeExists = errors.New("node already exists")
